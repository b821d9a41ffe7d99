package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"financie/internal/backend"
	"financie/internal/cli"
	"financie/internal/log"
	"financie/internal/sheets/google"
	"financie/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(log.DefaultConfig().Level)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.SlogLevel()).WithComponent(log.ComponentWorker)

	logger.Info("Starting financie-worker", "events", cfg.EventsBackend)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	consumer, err := backend.NewConsumer(backendCfg)
	if err != nil {
		logger.Error("Failed to initialize event consumer", log.FieldError, err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	projection := worker.NewProjection(logger.Slog())
	if cfg.SheetsEnabled() {
		sheet, err := google.New(ctx, google.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets export", log.FieldError, err)
			consumer.Close()
			os.Exit(1)
		}
		projection.SetSink(sheet)
	}

	if err := worker.Run(ctx, consumer, projection, cfg.WorkerSummaryInterval); err != nil {
		logger.Error("Event consumption failed", log.FieldError, err)
		consumer.Close()
		os.Exit(1)
	}
	logger.Info("Worker stopped", log.FieldOperation, log.OpShutdown)
}
