package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/lmeadows/billfold/internal"
	"github.com/lmeadows/billfold/internal/email"
	"github.com/lmeadows/billfold/internal/postgres"
	"github.com/lmeadows/billfold/internal/repository"
	"github.com/lmeadows/billfold/internal/service"
	"github.com/lmeadows/billfold/internal/telemetry"
	"github.com/lmeadows/billfold/internal/worker"
)

// The worker process claims jobs from the DB-backed queue and runs the
// recurring-generation and overdue-sweep schedules. It shares the API
// server's database but scales independently.
func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, "worker", cfg.Env, cfg.LogLevel)

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

	pool, err := postgres.NewPool(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	store := repository.NewStore(pool)

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
	} else {
		logger.Warn("SMTP_HOST not set, email jobs will fail until configured")
	}

	// The worker never charges cards, so no gateway is wired here.
	invoiceService := service.NewInvoiceService(store, emailService, logger, cfg.ShareBaseURL)
	recurringService := service.NewRecurringService(store, invoiceService, logger)

	metrics := telemetry.NewBusinessMetrics("billfold")

	w := worker.NewWorker(store, emailService, invoiceService, recurringService, metrics, worker.Config{
		Queue:          cfg.Worker.Queue,
		MaxConcurrency: cfg.Worker.MaxConcurrency,
		PollInterval:   cfg.Worker.PollInterval,
	}, logger)

	scheduler := worker.NewScheduler(store, cfg.Worker.ScheduleInterval, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.Start(gctx) })
	g.Go(func() error { return scheduler.Start(gctx) })

	logger.Info("Worker started",
		"queue", cfg.Worker.Queue,
		"concurrency", cfg.Worker.MaxConcurrency,
		"schedule_interval", cfg.Worker.ScheduleInterval.String(),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Worker stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
