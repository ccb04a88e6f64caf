package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"ems_portal/internal/config"
	"ems_portal/internal/logger"
	"ems_portal/internal/services"
	"ems_portal/internal/storage"
	"ems_portal/internal/validation"
)

func main() {
	// defined flags
	consumerID := flag.String("consumer", services.DemoConsumerID, "Consumer ID the bill is issued to")
	amountStr := flag.String("amount", "", "Bill amount (mandatory, e.g. 1250.50)")

	flag.Parse()

	// Validation
	if *amountStr == "" {
		fmt.Println("Usage: issue_bill -amount <amount> [-consumer <13 digit id>]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	amount, err := parseAmount(*amountStr)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	// Load env
	envErr := godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		l := logger.New("production")
		l.Fatal().Err(err).Msg("Invalid configuration")
	}
	log := logger.New(cfg.Environment)
	if envErr != nil {
		log.Debug().Msg("No .env file found, using system environment")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	kv, closer, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closer.Close()

	store := storage.NewLocal(kv, log)
	billing := services.NewBillingService(store, validation.New(time.Now), services.Options{Log: log})

	bill, err := billing.IssueNextBill(ctx, *consumerID, amount)
	if err != nil {
		log.Error().Err(err).Str("consumer_id", *consumerID).Msg("Failed to issue bill")
		closer.Close()
		os.Exit(1)
	}

	fmt.Printf("Bill issued successfully!\nID: %s\nMonth: %s\nDue: %s\nAmount: %s\n",
		bill.ID, bill.Month, bill.DueDate, bill.Amount.StringFixed(2))
}

// parseAmount reads a positive bill amount rounded to paise
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid amount %q: must be greater than zero", s)
	}
	return amount.Round(2), nil
}
