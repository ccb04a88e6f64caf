package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ems_portal/internal/models"
	"ems_portal/internal/storage"
	"ems_portal/internal/validation"
)

var testNow = time.Date(2026, time.January, 20, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type testEnv struct {
	store      *storage.Local
	kv         *storage.MemoryKV
	validator  *validation.Validator
	auth       *AuthService
	billing    *BillingService
	complaints *ComplaintService
	ctx        context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	kv := storage.NewMemoryKV()
	store := storage.NewLocal(kv, zerolog.Nop())
	v := validation.New(fixedClock)
	opts := Options{Now: fixedClock, Log: zerolog.Nop()}

	env := &testEnv{
		store:      store,
		kv:         kv,
		validator:  v,
		auth:       NewAuthService(store, v, opts, opts),
		billing:    NewBillingService(store, v, opts),
		complaints: NewComplaintService(store, v, opts),
		ctx:        storage.WithScope(context.Background(), "test-browser"),
	}
	if err := NewSeeder(store, zerolog.Nop()).EnsureDemoData(env.ctx); err != nil {
		t.Fatalf("EnsureDemoData() error = %v", err)
	}
	return env
}

func demoSession() *models.Session {
	return &models.Session{UserID: DemoUserID, CustomerID: "1234567890123", Name: "Test User"}
}
