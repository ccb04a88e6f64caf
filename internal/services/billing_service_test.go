package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ems_portal/internal/models"
	"ems_portal/internal/validation"
)

func validCard() CardForm {
	return CardForm{Number: "4539 5787 6362 1486", Holder: "Test User Card", Expiry: "12/27", CVV: "123"}
}

func TestComputeCharges(t *testing.T) {
	tests := []struct {
		amount string
		pg     string
		total  string
	}{
		{"1000", "20.00", "1020.00"},
		{"1200", "24.00", "1224.00"},
		{"3975", "79.50", "4054.50"},
		{"99.99", "2.00", "101.99"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			c := ComputeCharges(decimal.RequireFromString(tt.amount))
			if c.PGCharge.StringFixed(2) != tt.pg || c.Total.StringFixed(2) != tt.total {
				t.Errorf("ComputeCharges(%s) = %s/%s; want %s/%s", tt.amount, c.PGCharge.StringFixed(2), c.Total.StringFixed(2), tt.pg, tt.total)
			}
		})
	}
}

func TestListUnpaidAndOverview(t *testing.T) {
	env := newTestEnv(t)

	unpaid, err := env.billing.ListUnpaid(env.ctx)
	if err != nil {
		t.Fatalf("ListUnpaid() error = %v", err)
	}
	if len(unpaid) != 3 {
		t.Fatalf("len(unpaid) = %d; want 3", len(unpaid))
	}

	ov, err := env.billing.Overview(env.ctx, 2)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if ov.UnpaidCount != 3 || len(ov.Recent) != 2 || ov.Outstanding.StringFixed(2) != "3975.00" {
		t.Errorf("Overview() = %+v", ov)
	}
}

func TestSummarize(t *testing.T) {
	env := newTestEnv(t)
	bills, _ := env.billing.ListUnpaid(env.ctx)

	sum := Summarize(bills, []string{"B1", "B3", "B9"})
	if sum.Count != 2 || sum.Total.StringFixed(2) != "2525.00" {
		t.Errorf("Summarize() = %+v", sum)
	}

	all, err := env.billing.SummarizeSelection(env.ctx, nil, true)
	if err != nil || all.Count != 3 {
		t.Errorf("SummarizeSelection(all) = %+v, %v", all, err)
	}
}

func TestSelectRequiresBills(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.billing.Select(env.ctx, nil, false); !errors.Is(err, ErrNoBillsSelected) {
		t.Errorf("Select(nil) error = %v; want ErrNoBillsSelected", err)
	}
	if _, err := env.billing.Select(env.ctx, []string{"nope"}, false); !errors.Is(err, ErrNoBillsSelected) {
		t.Errorf("Select(unknown) error = %v; want ErrNoBillsSelected", err)
	}
}

func TestChooseModeWithoutSelection(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.billing.ChooseMode(env.ctx, ""); !errors.Is(err, ErrNoPaymentContext) {
		t.Errorf("ChooseMode() error = %v; want ErrNoPaymentContext", err)
	}
	if _, err := env.billing.PendingPayment(env.ctx); !errors.Is(err, ErrPaymentIncomplete) {
		t.Errorf("PendingPayment() error = %v; want ErrPaymentIncomplete", err)
	}
}

func TestChooseMode(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.billing.Select(env.ctx, []string{"B1", "B2"}, false); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if _, err := env.billing.ChooseMode(env.ctx, "Net Banking"); !errors.Is(err, ErrInvalidPaymentMode) {
		t.Errorf("ChooseMode(Net Banking) error = %v; want ErrInvalidPaymentMode", err)
	}

	pc, err := env.billing.ChooseMode(env.ctx, "")
	if err != nil {
		t.Fatalf("ChooseMode() error = %v", err)
	}
	if pc.PaymentMode != models.PaymentModeDebitCard {
		t.Errorf("PaymentMode = %q; want Debit Card", pc.PaymentMode)
	}
	if pc.BillAmount.StringFixed(2) != "2650.00" || pc.PGCharge.StringFixed(2) != "53.00" || pc.TotalAmount.StringFixed(2) != "2703.00" {
		t.Errorf("context = %+v", pc)
	}
}

func TestPaySubsetMarksOnlySelectedBills(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.billing.Select(env.ctx, []string{"B2"}, false); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if _, err := env.billing.ChooseMode(env.ctx, "Credit Card"); err != nil {
		t.Fatalf("ChooseMode() error = %v", err)
	}

	if _, err := env.billing.Pay(env.ctx, demoSession(), validCard(), false); !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("Pay(unconfirmed) error = %v; want ErrConfirmationRequired", err)
	}

	receipt, err := env.billing.Pay(env.ctx, demoSession(), validCard(), true)
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	if !regexp.MustCompile(`^TXN-20260120103000-\d{4}$`).MatchString(receipt.TransactionID) {
		t.Errorf("TransactionID = %q", receipt.TransactionID)
	}
	if receipt.TotalAmount.StringFixed(2) != "1479.00" || receipt.PaymentMode != models.PaymentModeCreditCard || receipt.Status != "Success" {
		t.Errorf("receipt = %+v", receipt)
	}
	if receipt.DateTime != testNow.Format(DateTimeLayout) {
		t.Errorf("DateTime = %q", receipt.DateTime)
	}

	bills, _ := env.store.Bills(env.ctx)
	if len(bills) != 3 {
		t.Fatalf("len(bills) = %d; want 3", len(bills))
	}
	for _, b := range bills {
		wantPaid := b.ID == "B2"
		if (b.Status == models.BillStatusPaid) != wantPaid {
			t.Errorf("bill %s status = %s", b.ID, b.Status)
		}
	}

	if pc, _ := env.store.PaymentContext(env.ctx); pc != nil {
		t.Errorf("payment context should be cleared, got %+v", pc)
	}

	saved, err := env.billing.Receipt(env.ctx, receipt.TransactionID)
	if err != nil || saved.UserID != DemoUserID {
		t.Errorf("Receipt() = %+v, %v", saved, err)
	}
	if _, err := env.billing.Receipt(env.ctx, "TXN-missing"); !errors.Is(err, ErrReceiptNotFound) {
		t.Errorf("Receipt(missing) error = %v", err)
	}
}

func TestPayRejectsBadCard(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.billing.Select(env.ctx, nil, true); err != nil {
		t.Fatal(err)
	}
	if _, err := env.billing.ChooseMode(env.ctx, "Debit Card"); err != nil {
		t.Fatal(err)
	}

	_, err := env.billing.Pay(env.ctx, demoSession(), CardForm{Number: "4539578763621487", Holder: "Short", Expiry: "01/20", CVV: "12"}, true)
	fe, ok := validation.AsErrors(err)
	if !ok {
		t.Fatalf("Pay() error = %v; want field errors", err)
	}
	want := map[string]string{
		"cardNumber":     "Invalid card number.",
		"cardHolderName": "Name must be at least 10 characters and contain only letters and spaces.",
		"expiryDate":     "Expiry date must be in MM/YY format and in the future.",
		"cvv":            "CVV must be exactly 3 digits.",
	}
	for field, msg := range want {
		if fe.Get(field) != msg {
			t.Errorf("%s error = %q; want %q", field, fe.Get(field), msg)
		}
	}

	bills, _ := env.billing.ListUnpaid(env.ctx)
	if len(bills) != 3 {
		t.Errorf("bills should stay unpaid, %d unpaid", len(bills))
	}
}

func TestPayNeverRevertsPaidBills(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.billing.Select(env.ctx, []string{"B1"}, false); err != nil {
		t.Fatal(err)
	}
	if _, err := env.billing.ChooseMode(env.ctx, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := env.billing.Pay(env.ctx, demoSession(), validCard(), true); err != nil {
		t.Fatal(err)
	}

	if _, err := env.billing.Select(env.ctx, []string{"B1"}, false); !errors.Is(err, ErrNoBillsSelected) {
		t.Errorf("paid bill should not be selectable, err = %v", err)
	}
}

// finishFirstGuard completes another payment of the same browser before
// handing out the lock, as a submission queued behind it would see.
type finishFirstGuard struct {
	finish func(ctx context.Context) error
}

func (g finishFirstGuard) Acquire(ctx context.Context, key string) (func(), error) {
	if err := g.finish(ctx); err != nil {
		return nil, err
	}
	return func() {}, nil
}

func TestPayRereadsContextAfterGuard(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.billing.Select(env.ctx, []string{"B1"}, false); err != nil {
		t.Fatal(err)
	}
	if _, err := env.billing.ChooseMode(env.ctx, ""); err != nil {
		t.Fatal(err)
	}

	first := env.billing
	guard := finishFirstGuard{finish: func(ctx context.Context) error {
		_, err := first.Pay(ctx, demoSession(), validCard(), true)
		return err
	}}
	second := NewBillingService(env.store, env.validator, Options{Now: fixedClock, Guard: guard, Log: zerolog.Nop()})

	if _, err := second.Pay(env.ctx, demoSession(), validCard(), true); !errors.Is(err, ErrPaymentIncomplete) {
		t.Fatalf("second Pay() error = %v; want ErrPaymentIncomplete", err)
	}
	receipts, err := env.store.Receipts(env.ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(receipts) != 1 {
		t.Errorf("len(receipts) = %d; want 1", len(receipts))
	}
}

func TestIssueNextBill(t *testing.T) {
	env := newTestEnv(t)

	bill, err := env.billing.IssueNextBill(env.ctx, DemoConsumerID, decimal.RequireFromString("1510.456"))
	if err != nil {
		t.Fatalf("IssueNextBill() error = %v", err)
	}
	if bill.ID != "B4" || bill.DueDate != "2026-03-15" || bill.Month != "Feb 2026" || bill.Amount.StringFixed(2) != "1510.46" {
		t.Errorf("bill = %+v", bill)
	}

	fresh, err := env.billing.IssueNextBill(env.ctx, "2222222222222", decimal.NewFromInt(900))
	if err != nil {
		t.Fatalf("IssueNextBill(new consumer) error = %v", err)
	}
	if fresh.ID != "B5" || fresh.DueDate != "2026-02-15" || fresh.Month != "Jan 2026" {
		t.Errorf("fresh bill = %+v", fresh)
	}

	if _, err := env.billing.IssueNextBill(env.ctx, "123", decimal.NewFromInt(10)); err == nil {
		t.Error("short consumer id should be rejected")
	}
	if _, err := env.billing.IssueNextBill(env.ctx, DemoConsumerID, decimal.Zero); !errors.Is(err, ErrInvalidBillAmount) {
		t.Errorf("zero amount error = %v", err)
	}
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		from time.Time
		want string
	}{
		{time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), "2026-01-15"},
		{time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), "2026-02-15"},
		{time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC), "2026-01-15"},
	}
	for _, tt := range tests {
		got, err := NextDueDate(tt.from)
		if err != nil {
			t.Fatalf("NextDueDate(%v) error = %v", tt.from, err)
		}
		if got.Format("2006-01-02") != tt.want {
			t.Errorf("NextDueDate(%v) = %s; want %s", tt.from, got.Format("2006-01-02"), tt.want)
		}
	}
}
