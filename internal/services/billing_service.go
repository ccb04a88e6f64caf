package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"ems_portal/internal/models"
	"ems_portal/internal/storage"
	"ems_portal/internal/validation"
)

// pgRate is the payment gateway charge applied to the bill amount
var pgRate = decimal.RequireFromString("0.02")

// DateTimeLayout formats receipt timestamps
const DateTimeLayout = "02/01/2006 03:04:05 PM"

// CardForm is the data submitted on the card details page
type CardForm struct {
	Number string `form:"cardNumber" validate:"digits=16,luhn"`
	Holder string `form:"cardHolderName" validate:"card_holder"`
	Expiry string `form:"expiryDate" validate:"expiry"`
	CVV    string `form:"cvv" validate:"digits=3"`
}

func (CardForm) Messages() validation.Messages {
	return validation.Messages{
		"cardNumber.digits": "Card number must be exactly 16 digits.",
		"cardNumber.luhn":   "Invalid card number.",
		"cardHolderName":    "Name must be at least 10 characters and contain only letters and spaces.",
		"expiryDate":        "Expiry date must be in MM/YY format and in the future.",
		"cvv":               "CVV must be exactly 3 digits.",
	}
}

// Normalized strips card number grouping and surrounding whitespace
func (f CardForm) Normalized() CardForm {
	f.Number = validation.NormalizeCardNumber(f.Number)
	f.Holder = strings.TrimSpace(f.Holder)
	f.Expiry = strings.TrimSpace(f.Expiry)
	f.CVV = strings.TrimSpace(f.CVV)
	return f
}

// SelectionSummary is the running count and sum of selected bills
type SelectionSummary struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Charges is the breakdown shown on the payment summary page
type Charges struct {
	BillAmount decimal.Decimal
	PGCharge   decimal.Decimal
	Total      decimal.Decimal
}

// ComputeCharges adds the 2% gateway charge, rounded to paise
func ComputeCharges(billAmount decimal.Decimal) Charges {
	pg := billAmount.Mul(pgRate).Round(2)
	return Charges{
		BillAmount: billAmount,
		PGCharge:   pg,
		Total:      billAmount.Add(pg),
	}
}

// BillsOverview feeds the home page outstanding bills card
type BillsOverview struct {
	UnpaidCount int
	Outstanding decimal.Decimal
	Recent      []models.Bill
}

// BillingService runs bill selection, charge computation and payment commit
type BillingService struct {
	store     *storage.Local
	validator *validation.Validator
	opts      Options
	intn      func(n int) int
}

func NewBillingService(store *storage.Local, v *validation.Validator, opts Options) *BillingService {
	return &BillingService{
		store:     store,
		validator: v,
		opts:      opts.withDefaults(),
		intn:      rand.IntN,
	}
}

// ListUnpaid returns every unpaid bill. Bills are not linked to the
// logged in user's consumer id.
func (s *BillingService) ListUnpaid(ctx context.Context) ([]models.Bill, error) {
	bills, err := s.store.Bills(ctx)
	if err != nil {
		return nil, err
	}
	unpaid := make([]models.Bill, 0, len(bills))
	for _, b := range bills {
		if b.IsUnpaid() {
			unpaid = append(unpaid, b)
		}
	}
	return unpaid, nil
}

// Overview summarizes outstanding bills with the first limit of them
func (s *BillingService) Overview(ctx context.Context, limit int) (BillsOverview, error) {
	unpaid, err := s.ListUnpaid(ctx)
	if err != nil {
		return BillsOverview{}, err
	}
	total := decimal.Zero
	for _, b := range unpaid {
		total = total.Add(b.Amount)
	}
	recent := unpaid
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return BillsOverview{UnpaidCount: len(unpaid), Outstanding: total, Recent: recent}, nil
}

// Summarize counts and sums the bills whose ids are selected
func Summarize(bills []models.Bill, ids []string) SelectionSummary {
	sum := SelectionSummary{Total: decimal.Zero}
	for _, b := range bills {
		if slices.Contains(ids, b.ID) {
			sum.Count++
			sum.Total = sum.Total.Add(b.Amount)
		}
	}
	return sum
}

// SummarizeSelection evaluates a selection against the current unpaid bills
func (s *BillingService) SummarizeSelection(ctx context.Context, ids []string, selectAll bool) (SelectionSummary, error) {
	bills, err := s.ListUnpaid(ctx)
	if err != nil {
		return SelectionSummary{}, err
	}
	if selectAll {
		ids = billIDs(bills)
	}
	return Summarize(bills, ids), nil
}

func billIDs(bills []models.Bill) []string {
	ids := make([]string, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
	}
	return ids
}

// Select stores the chosen unpaid bills as a fresh payment context
func (s *BillingService) Select(ctx context.Context, ids []string, selectAll bool) (*models.PaymentContext, error) {
	bills, err := s.ListUnpaid(ctx)
	if err != nil {
		return nil, err
	}
	if selectAll {
		ids = billIDs(bills)
	}

	pc := &models.PaymentContext{BillAmount: decimal.Zero}
	for _, b := range bills {
		if slices.Contains(ids, b.ID) {
			pc.Bills = append(pc.Bills, b)
			pc.BillAmount = pc.BillAmount.Add(b.Amount)
		}
	}
	if len(pc.Bills) == 0 {
		return nil, ErrNoBillsSelected
	}

	if err := s.store.SetPaymentContext(ctx, pc); err != nil {
		return nil, err
	}
	return pc, nil
}

// Summary loads the payment context with its computed charges
func (s *BillingService) Summary(ctx context.Context) (*models.PaymentContext, Charges, error) {
	pc, err := s.store.PaymentContext(ctx)
	if err != nil {
		return nil, Charges{}, err
	}
	if pc == nil {
		return nil, Charges{}, ErrNoPaymentContext
	}
	return pc, ComputeCharges(pc.BillAmount), nil
}

// ChooseMode records the payment mode and the computed charges
func (s *BillingService) ChooseMode(ctx context.Context, mode string) (*models.PaymentContext, error) {
	pm, ok := models.ParsePaymentMode(mode)
	if !ok {
		return nil, ErrInvalidPaymentMode
	}
	pc, charges, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}

	pc.PGCharge = charges.PGCharge
	pc.TotalAmount = charges.Total
	pc.PaymentMode = pm
	if err := s.store.SetPaymentContext(ctx, pc); err != nil {
		return nil, err
	}
	return pc, nil
}

// PendingPayment returns the context the card page charges, or
// ErrPaymentIncomplete when the summary step was skipped.
func (s *BillingService) PendingPayment(ctx context.Context) (*models.PaymentContext, error) {
	pc, err := s.store.PaymentContext(ctx)
	if err != nil {
		return nil, err
	}
	if pc == nil || !pc.ReadyToPay() {
		return nil, ErrPaymentIncomplete
	}
	return pc, nil
}

func (s *BillingService) transactionID() string {
	return fmt.Sprintf("TXN-%s-%04d", s.opts.Now().Format("20060102150405"), s.intn(10000))
}

// CheckCard validates the card details without committing anything
func (s *BillingService) CheckCard(form CardForm) (CardForm, error) {
	form = form.Normalized()
	return form, s.validator.Check(form).Err()
}

// Pay validates the card, marks the selected bills paid and issues a receipt.
// Unconfirmed submissions return ErrConfirmationRequired after validation passes.
func (s *BillingService) Pay(ctx context.Context, session *models.Session, form CardForm, confirmed bool) (*models.Receipt, error) {
	if session == nil {
		return nil, ErrNotLoggedIn
	}
	pc, err := s.PendingPayment(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.CheckCard(form); err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	release, err := s.opts.Guard.Acquire(ctx, guardKey(ctx, "payment"))
	if err != nil {
		return nil, err
	}
	defer release()

	// A payment that finished while we waited clears the context.
	if pc, err = s.PendingPayment(ctx); err != nil {
		return nil, err
	}

	if err := simulateLatency(ctx, s.opts.Delay); err != nil {
		return nil, err
	}

	bills, err := s.store.Bills(ctx)
	if err != nil {
		return nil, err
	}
	selected := pc.BillIDs()
	for i := range bills {
		if bills[i].IsUnpaid() && slices.Contains(selected, bills[i].ID) {
			bills[i].Status = models.BillStatusPaid
		}
	}
	if err := s.store.SetBills(ctx, bills); err != nil {
		return nil, fmt.Errorf("save bills: %w", err)
	}

	receipt := models.Receipt{
		TransactionID: s.transactionID(),
		DateTime:      s.opts.Now().Format(DateTimeLayout),
		CustomerName:  session.Name,
		UserID:        session.UserID,
		BillIDs:       selected,
		BillAmount:    pc.BillAmount,
		PGCharge:      pc.PGCharge,
		TotalAmount:   pc.TotalAmount,
		PaymentMode:   pc.PaymentMode,
		Status:        models.ReceiptStatusSuccess,
	}
	receipts, err := s.store.Receipts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetReceipts(ctx, append(receipts, receipt)); err != nil {
		return nil, fmt.Errorf("save receipt: %w", err)
	}
	if err := s.store.SetPaymentContext(ctx, nil); err != nil {
		return nil, err
	}

	s.opts.Log.Info().
		Str("txn", receipt.TransactionID).
		Str("user_id", receipt.UserID).
		Strs("bills", selected).
		Str("total", receipt.TotalAmount.StringFixed(2)).
		Msg("Payment processed")
	return &receipt, nil
}

// Receipt looks up a committed payment by transaction id
func (s *BillingService) Receipt(ctx context.Context, txnID string) (*models.Receipt, error) {
	receipts, err := s.store.Receipts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range receipts {
		if receipts[i].TransactionID == txnID {
			return &receipts[i], nil
		}
	}
	return nil, ErrReceiptNotFound
}
