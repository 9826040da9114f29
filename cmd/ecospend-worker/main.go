package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ecospend/internal/amqp"
	"ecospend/internal/config"
	applog "ecospend/internal/log"
	"ecospend/internal/sheets"
	gsheet "ecospend/internal/sheets/google"
	mem "ecospend/internal/sheets/memory"
	"ecospend/internal/storage"
	"ecospend/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	applog.SetDefault(applog.New(applog.Config{Component: applog.ComponentWorker}))

	slog.Info("Starting ecospend-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		slog.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Export sink: Google Sheets when configured, in-memory otherwise so the
	// worker still drains the queue during local development.
	var sink sheets.ReportWriter
	if os.Getenv("GOOGLE_SPREADSHEET_ID") != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			slog.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		sink = client
		slog.Info("Google Sheets sink initialized")
	} else {
		sink = mem.New()
		slog.Warn("No GOOGLE_SPREADSHEET_ID provided, exporting to in-memory sink")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		slog.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	w := worker.NewReportWorker(repo, sink, cfg.ExportBatchSize, cfg.ExportInterval)

	// Drain anything missed while the worker was down before consuming.
	if err := w.SweepUnsynced(ctx); err != nil {
		slog.Error("Startup sweep failed", "error", err)
	}

	slog.Info("Worker running",
		"queue", cfg.AMQPQueue,
		"batch_size", cfg.ExportBatchSize,
		"sweep_interval", cfg.ExportInterval)

	if err := w.Run(ctx, amqpClient); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("Worker stopped gracefully")
}
