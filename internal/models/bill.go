package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are stored as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// BillStatus represents the payment state of a bill
type BillStatus string

const (
	BillStatusUnpaid BillStatus = "unpaid"
	BillStatusPaid   BillStatus = "paid"
)

// Bill is one monthly electricity bill for a consumer
type Bill struct {
	ID         string          `json:"id"`
	ConsumerID string          `json:"consumerId"`
	Month      string          `json:"month"`
	DueDate    string          `json:"dueDate"` // YYYY-MM-DD
	Amount     decimal.Decimal `json:"amount"`
	Status     BillStatus      `json:"status"`
}

// IsUnpaid reports whether the bill can still be selected for payment
func (b Bill) IsUnpaid() bool {
	return b.Status == BillStatusUnpaid
}

// PaymentMode is the card type chosen on the payment summary page
type PaymentMode string

const (
	PaymentModeDebitCard  PaymentMode = "Debit Card"
	PaymentModeCreditCard PaymentMode = "Credit Card"
)

// PaymentModes lists the accepted modes in display order
var PaymentModes = []PaymentMode{PaymentModeDebitCard, PaymentModeCreditCard}

// ParsePaymentMode accepts one of PaymentModes. Empty input selects the debit card.
func ParsePaymentMode(s string) (PaymentMode, bool) {
	if s == "" {
		return PaymentModeDebitCard, true
	}
	for _, m := range PaymentModes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// PaymentContext carries the bill selection and computed charges between
// the selection, summary and card pages.
type PaymentContext struct {
	Bills       []Bill          `json:"bills"`
	BillAmount  decimal.Decimal `json:"billAmount"`
	PGCharge    decimal.Decimal `json:"pgCharge"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PaymentMode PaymentMode     `json:"paymentMode,omitempty"`
}

// BillIDs returns the ids of the selected bills in selection order
func (p PaymentContext) BillIDs() []string {
	ids := make([]string, len(p.Bills))
	for i, b := range p.Bills {
		ids[i] = b.ID
	}
	return ids
}

// ReadyToPay reports whether charges and a mode were stored by the summary step
func (p PaymentContext) ReadyToPay() bool {
	return len(p.Bills) > 0 && p.PaymentMode != "" && p.TotalAmount.IsPositive()
}

// ReceiptStatusSuccess is the only status a receipt is issued with
const ReceiptStatusSuccess = "Success"

// Receipt records a committed payment
type Receipt struct {
	TransactionID string          `json:"transactionId"`
	DateTime      string          `json:"dateTime"`
	CustomerName  string          `json:"customerName"`
	UserID        string          `json:"userId"`
	BillIDs       []string        `json:"billIds"`
	BillAmount    decimal.Decimal `json:"billAmount"`
	PGCharge      decimal.Decimal `json:"pgCharge"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentMode   PaymentMode     `json:"paymentMode"`
	Status        string          `json:"status"`
}
