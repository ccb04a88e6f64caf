package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/teambition/rrule-go"

	"ems_portal/internal/models"
	"ems_portal/internal/validation"
)

// BillingCycle is the RFC 5545 rule bills fall due on
const BillingCycle = "FREQ=MONTHLY;BYMONTHDAY=15"

const dueDateLayout = "2006-01-02"

// NextDueDate returns the first billing cycle date strictly after from
func NextDueDate(from time.Time) (time.Time, error) {
	rule, err := rrule.StrToRRule(BillingCycle)
	if err != nil {
		return time.Time{}, err
	}
	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	rule.DTStart(start)
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	next := rule.After(day, false)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("no occurrence of %s after %s", BillingCycle, day.Format(dueDateLayout))
	}
	return next, nil
}

func nextBillID(bills []models.Bill) string {
	highest := 0
	for _, b := range bills {
		if n, err := strconv.Atoi(strings.TrimPrefix(b.ID, "B")); err == nil && n > highest {
			highest = n
		}
	}
	return "B" + strconv.Itoa(highest+1)
}

// IssueNextBill appends the next monthly bill for a consumer. The due date
// follows the consumer's latest bill, or today when it has none.
func (s *BillingService) IssueNextBill(ctx context.Context, consumerID string, amount decimal.Decimal) (*models.Bill, error) {
	if !validation.IsConsumerID(consumerID) {
		errs := validation.NewErrors()
		errs.Add("consumerId", "Consumer ID must be exactly 13 digits.")
		return nil, errs
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidBillAmount
	}

	bills, err := s.store.Bills(ctx)
	if err != nil {
		return nil, err
	}

	from := s.opts.Now().UTC()
	var latest time.Time
	for _, b := range bills {
		if b.ConsumerID != consumerID {
			continue
		}
		due, err := time.Parse(dueDateLayout, b.DueDate)
		if err != nil {
			continue
		}
		if due.After(latest) {
			latest = due
		}
	}
	if !latest.IsZero() {
		from = latest
	}

	due, err := NextDueDate(from)
	if err != nil {
		return nil, err
	}

	bill := models.Bill{
		ID:         nextBillID(bills),
		ConsumerID: consumerID,
		Month:      due.AddDate(0, -1, 0).Format("Jan 2006"),
		DueDate:    due.Format(dueDateLayout),
		Amount:     amount.Round(2),
		Status:     models.BillStatusUnpaid,
	}
	if err := s.store.SetBills(ctx, append(bills, bill)); err != nil {
		return nil, fmt.Errorf("save bills: %w", err)
	}

	s.opts.Log.Info().Str("bill_id", bill.ID).Str("consumer_id", consumerID).Str("due", bill.DueDate).Msg("Bill issued")
	return &bill, nil
}
