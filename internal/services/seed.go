package services

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ems_portal/internal/models"
	"ems_portal/internal/storage"
)

// Demo account available on a fresh install
const (
	DemoUserID     = "testuser"
	DemoPassword   = "Test1234"
	DemoConsumerID = "0000000000001"
)

func demoUser() models.User {
	return models.User{
		CustomerID: "1234567890123",
		ConsumerID: DemoConsumerID,
		BillNumber: "12345",
		Title:      "Mr.",
		Name:       "Test User",
		Email:      "testuser@example.com",
		Mobile:     models.Mobile{Code: models.DefaultCountryCode, Number: "9876543210"},
		UserID:     DemoUserID,
		Password:   DemoPassword,
	}
}

func demoBills() []models.Bill {
	bill := func(id, month, due string, amount int64) models.Bill {
		return models.Bill{
			ID:         id,
			ConsumerID: DemoConsumerID,
			Month:      month,
			DueDate:    due,
			Amount:     decimal.NewFromInt(amount),
			Status:     models.BillStatusUnpaid,
		}
	}
	return []models.Bill{
		bill("B1", "Nov 2025", "2025-12-15", 1200),
		bill("B2", "Dec 2025", "2026-01-15", 1450),
		bill("B3", "Jan 2026", "2026-02-15", 1325),
	}
}

// Seeder installs the demo user and sample bills
type Seeder struct {
	store *storage.Local
	log   zerolog.Logger
}

func NewSeeder(store *storage.Local, log zerolog.Logger) *Seeder {
	return &Seeder{store: store, log: log}
}

// EnsureDemoUser adds the demo user unless that user id exists
func (s *Seeder) EnsureDemoUser(ctx context.Context) error {
	users, err := s.store.Users(ctx)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(users, func(u models.User) bool { return u.UserID == DemoUserID }) {
		return nil
	}
	if err := s.store.SetUsers(ctx, append(users, demoUser())); err != nil {
		return err
	}
	s.log.Info().Str("user_id", DemoUserID).Msg("Seeded demo user")
	return nil
}

// EnsureBills seeds sample bills only when the bills collection is empty
func (s *Seeder) EnsureBills(ctx context.Context) error {
	bills, err := s.store.Bills(ctx)
	if err != nil {
		return err
	}
	if len(bills) > 0 {
		return nil
	}
	if err := s.store.SetBills(ctx, demoBills()); err != nil {
		return err
	}
	s.log.Info().Int("count", 3).Msg("Seeded sample bills")
	return nil
}

func (s *Seeder) EnsureDemoData(ctx context.Context) error {
	if err := s.EnsureDemoUser(ctx); err != nil {
		return err
	}
	return s.EnsureBills(ctx)
}
