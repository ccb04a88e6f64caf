package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"ems_portal/internal/middleware"
	"ems_portal/internal/services"
	"ems_portal/internal/storage"
	"ems_portal/internal/validation"
)

var testNow = time.Date(2026, time.January, 20, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// testApp drives the router like a single browser, replaying its context cookie
type testApp struct {
	e      *echo.Echo
	store  *storage.Local
	seeder *services.Seeder
	cookie *http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := zerolog.Nop()
	store := storage.NewLocal(storage.NewMemoryKV(), log)
	v := validation.New(fixedClock)
	opts := services.Options{Now: fixedClock, Log: log}

	auth := services.NewAuthService(store, v, opts, opts)
	billing := services.NewBillingService(store, v, opts)
	complaints := services.NewComplaintService(store, v, opts)
	seeder := services.NewSeeder(store, log)

	e := echo.New()
	e.HTTPErrorHandler = middleware.CustomErrorHandler(log)
	e.Use(middleware.BrowserContext(false))
	Handlers{
		Auth:       NewAuthHandler(auth, seeder, log),
		Dashboard:  NewDashboardHandler(billing, complaints),
		Billing:    NewBillingHandler(billing, log),
		Complaints: NewComplaintHandler(complaints, log),
		Health:     NewHealthHandler("memory"),
	}.Register(e, auth)

	return &testApp{e: e, store: store, seeder: seeder}
}

func (a *testApp) seed(t *testing.T) {
	t.Helper()
	if err := a.seeder.EnsureDemoData(context.Background()); err != nil {
		t.Fatalf("EnsureDemoData() error = %v", err)
	}
}

func (a *testApp) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.BrowserContextCookie {
			a.cookie = c
		}
	}
	return rec
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	a.seed(t)
	rec := a.do(t, http.MethodPost, "/login", url.Values{
		"userId":   {services.DemoUserID},
		"password": {services.DemoPassword},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

func assertContains(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("body missing %q", w)
		}
	}
}
