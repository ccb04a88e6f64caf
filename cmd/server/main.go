package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"ems_portal/internal/config"
	"ems_portal/internal/handlers"
	"ems_portal/internal/logger"
	portalMiddleware "ems_portal/internal/middleware"
	"ems_portal/internal/services"
	"ems_portal/internal/storage"
	"ems_portal/internal/validation"
)

// guardTTL bounds how long a crashed submission can block its browser
const guardTTL = 30 * time.Second

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		l := logger.New("production")
		l.Fatal().Err(err).Msg("Invalid configuration")
	}
	log := logger.New(cfg.Environment)
	if envErr != nil {
		log.Info().Msg("No .env file found, using system environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	kv, closer, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open store")
	}
	defer closer.Close()
	store := storage.NewLocal(kv, log)

	var guard services.SubmissionGuard = services.NewMemoryGuard()
	if locker, ok := kv.(services.Locker); ok {
		guard = services.NewRedisGuard(locker, guardTTL)
		log.Info().Msg("Using Redis submission guard")
	}

	v := validation.New(time.Now)
	options := func(delay time.Duration) services.Options {
		return services.Options{Delay: delay, Guard: guard, Log: log}
	}
	authService := services.NewAuthService(store, v, options(cfg.LoginDelay), options(cfg.RegisterDelay))
	billingService := services.NewBillingService(store, v, options(cfg.PaymentDelay))
	complaintService := services.NewComplaintService(store, v, options(cfg.ComplaintDelay))

	var seeder *services.Seeder
	if cfg.SeedDemoData {
		seeder = services.NewSeeder(store, log)
		if err := seeder.EnsureDemoData(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to seed demo data")
		}
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = portalMiddleware.CustomErrorHandler(log)

	// Middleware
	e.Use(middleware.Recover())
	e.Use(portalMiddleware.RequestLogger(log))
	e.Use(portalMiddleware.BrowserContext(cfg.SecureCookies || cfg.IsProduction()))

	// Static file serving
	e.Static("/static", "web/static")

	handlers.Handlers{
		Auth:       handlers.NewAuthHandler(authService, seeder, log),
		Dashboard:  handlers.NewDashboardHandler(billingService, complaintService),
		Billing:    handlers.NewBillingHandler(billingService, log),
		Complaints: handlers.NewComplaintHandler(complaintService, log),
		Health:     handlers.NewHealthHandler(cfg.StoreBackend),
	}.Register(e, authService)

	// Start server
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.StoreBackend).Msg("Server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
