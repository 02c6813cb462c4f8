package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lmeadows/billfold/internal"
	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/email"
	"github.com/lmeadows/billfold/internal/gateway"
	"github.com/lmeadows/billfold/internal/handler"
	"github.com/lmeadows/billfold/internal/middleware"
	"github.com/lmeadows/billfold/internal/postgres"
	"github.com/lmeadows/billfold/internal/repository"
	"github.com/lmeadows/billfold/internal/router"
	"github.com/lmeadows/billfold/internal/routes"
	"github.com/lmeadows/billfold/internal/service"
	"github.com/lmeadows/billfold/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, "api", cfg.Env, cfg.LogLevel)

	sentryCleanup, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Enabled:     cfg.Sentry.Enabled,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
		Debug:       cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer sentryCleanup()

	// Migrations run over database/sql; the application itself uses pgx.
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return fmt.Errorf("migration failed: %w", err)
	}
	sqlDB.Close()
	logger.Info("Database migrations completed")

	pool, err := postgres.NewPool(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	store := repository.NewStore(pool)

	// Email is optional in development; invoices still send without it,
	// the history row just records that no copy was emailed.
	var emailService *email.Service
	if cfg.Email.Host != "" {
		sender := email.NewSMTPSender(&email.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     int(cfg.Email.Port),
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			FromName: cfg.Email.FromName,
		}, logger)
		emailService, err = email.NewService(sender, cfg.Email.From, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize email service: %w", err)
		}
		logger.Info("Email service initialized", "host", cfg.Email.Host)
	} else {
		logger.Warn("SMTP_HOST not set, invoice emails disabled")
	}

	// The card gateway is also optional; without it, ProcessPayment
	// rejects charge requests while manual payment recording still works.
	var provider gateway.Provider
	if cfg.Stripe.SecretKey != "" {
		stripeProvider, err := gateway.NewStripeProvider(cfg.Stripe.SecretKey)
		if err != nil {
			return fmt.Errorf("failed to initialize Stripe provider: %w", err)
		}
		provider = stripeProvider
		logger.Info("Stripe gateway initialized")
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, card payments disabled")
	}

	invoiceService := service.NewInvoiceService(store, emailService, logger, cfg.ShareBaseURL)
	paymentService := service.NewPaymentService(store, provider, logger)
	recurringService := service.NewRecurringService(store, invoiceService, logger)

	metrics := middleware.NewMetrics("billfold")
	business := telemetry.NewBusinessMetrics("billfold")

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		router.Logger(logger),
	)

	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	var sharedPayments domain.PaymentService
	if provider != nil {
		sharedPayments = paymentService
	}
	routes.RegisterPublicRoutes(r, routes.PublicDeps{
		PublicHandler: handler.NewPublicHandler(invoiceService, sharedPayments, pool, business),
	})

	api := r.Group(
		middleware.RequireUser,
		middleware.WithRequestLogger(logger),
	)
	routes.RegisterAPIRoutes(api, routes.APIDeps{
		InvoiceHandler:   handler.NewInvoiceHandler(invoiceService, business),
		PaymentHandler:   handler.NewPaymentHandler(paymentService, business),
		RecurringHandler: handler.NewRecurringHandler(recurringService, business),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting API server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
