package storage

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ems_portal/internal/models"
)

func newTestLocal(t *testing.T) (*Local, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	return NewLocal(kv, zerolog.Nop()), kv
}

func TestCollectionAbsentIsEmpty(t *testing.T) {
	l, _ := newTestLocal(t)
	ctx := context.Background()

	users, err := l.Users(ctx)
	if err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("Users() = %v; want empty non-nil slice", users)
	}
}

func TestCollectionMalformedIsEmpty(t *testing.T) {
	l, kv := newTestLocal(t)
	ctx := context.Background()

	if err := kv.Set(ctx, KeyBills, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	bills, err := l.Bills(ctx)
	if err != nil {
		t.Fatalf("Bills() error = %v", err)
	}
	if len(bills) != 0 {
		t.Errorf("Bills() = %v; want empty", bills)
	}
}

func TestCollectionRoundTrip(t *testing.T) {
	l, kv := newTestLocal(t)
	ctx := context.Background()

	bills := []models.Bill{
		{ID: "B1", ConsumerID: "0000000000001", Month: "Nov 2025", DueDate: "2025-12-15", Amount: decimal.NewFromInt(1200), Status: models.BillStatusUnpaid},
		{ID: "B2", ConsumerID: "0000000000001", Month: "Dec 2025", DueDate: "2026-01-15", Amount: decimal.RequireFromString("1450.50"), Status: models.BillStatusPaid},
	}
	if err := l.SetBills(ctx, bills); err != nil {
		t.Fatalf("SetBills() error = %v", err)
	}

	raw, _, _ := kv.Get(ctx, KeyBills)
	want := `[{"id":"B1","consumerId":"0000000000001","month":"Nov 2025","dueDate":"2025-12-15","amount":1200,"status":"unpaid"},` +
		`{"id":"B2","consumerId":"0000000000001","month":"Dec 2025","dueDate":"2026-01-15","amount":1450.5,"status":"paid"}]`
	if string(raw) != want {
		t.Errorf("stored document = %s; want %s", raw, want)
	}

	got, err := l.Bills(ctx)
	if err != nil {
		t.Fatalf("Bills() error = %v", err)
	}
	if len(got) != 2 || got[1].ID != "B2" || !got[1].Amount.Equal(decimal.RequireFromString("1450.5")) {
		t.Errorf("Bills() = %+v", got)
	}
}

func TestSessionIsScopedPerBrowserContext(t *testing.T) {
	l, kv := newTestLocal(t)
	a := WithScope(context.Background(), "browser-a")
	b := WithScope(context.Background(), "browser-b")

	if err := l.SetSession(a, &models.Session{UserID: "testuser", CustomerID: "1234567890123", Name: "Test User"}); err != nil {
		t.Fatalf("SetSession() error = %v", err)
	}

	if s, _ := l.Session(a); s == nil || s.UserID != "testuser" {
		t.Errorf("Session(a) = %+v; want testuser", s)
	}
	if s, _ := l.Session(b); s != nil {
		t.Errorf("Session(b) = %+v; want nil", s)
	}
	if _, found, _ := kv.Get(context.Background(), "ems_session:browser-a"); !found {
		t.Error("expected scoped key ems_session:browser-a")
	}

	if err := l.SetSession(a, nil); err != nil {
		t.Fatalf("SetSession(nil) error = %v", err)
	}
	if s, _ := l.Session(a); s != nil {
		t.Errorf("Session(a) after clear = %+v; want nil", s)
	}
}

func TestPaymentContextMalformedIsAbsent(t *testing.T) {
	l, kv := newTestLocal(t)
	ctx := WithScope(context.Background(), "x")

	if err := kv.Set(ctx, KeyPaymentContext+":x", []byte("oops")); err != nil {
		t.Fatal(err)
	}
	p, err := l.PaymentContext(ctx)
	if err != nil || p != nil {
		t.Errorf("PaymentContext() = %v, %v; want nil, nil", p, err)
	}
}

func TestFileKV(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV() error = %v", err)
	}
	ctx := context.Background()

	if _, found, err := kv.Get(ctx, "ems_session:abc"); found || err != nil {
		t.Fatalf("Get() on absent key = %v, %v", found, err)
	}
	if err := kv.Set(ctx, "ems_session:abc", []byte(`{"userId":"u"}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := kv.Set(ctx, "ems_session:abc", []byte(`{"userId":"v"}`)); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	v, found, err := kv.Get(ctx, "ems_session:abc")
	if err != nil || !found || string(v) != `{"userId":"v"}` {
		t.Errorf("Get() = %s, %v, %v", v, found, err)
	}
	if err := kv.Delete(ctx, "ems_session:abc"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := kv.Delete(ctx, "ems_session:abc"); err != nil {
		t.Errorf("Delete() of absent key error = %v", err)
	}
}

func TestRedisKV(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	kv, err := NewRedisKV(ctx, url, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRedisKV() error = %v", err)
	}
	defer kv.Close()

	key := "ems_test_" + t.Name()
	defer kv.Delete(ctx, key)

	if err := kv.Set(ctx, key, []byte("[]")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, found, err := kv.Get(ctx, key)
	if err != nil || !found || string(v) != "[]" {
		t.Errorf("Get() = %s, %v, %v", v, found, err)
	}
}

func TestGormKV(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := InitDB(dsn, zerolog.Nop())
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	kv, err := NewGormKV(db, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGormKV() error = %v", err)
	}
	defer kv.Close()
	ctx := context.Background()

	key := "ems_test_" + t.Name()
	defer kv.Delete(ctx, key)

	for _, doc := range []string{`[1]`, `[1,2]`} {
		if err := kv.Set(ctx, key, []byte(doc)); err != nil {
			t.Fatalf("Set(%s) error = %v", doc, err)
		}
	}
	v, found, err := kv.Get(ctx, key)
	if err != nil || !found || string(v) != `[1,2]` {
		t.Errorf("Get() = %s, %v, %v", v, found, err)
	}
}
