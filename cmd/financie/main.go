package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"financie/internal/advisor"
	"financie/internal/backend"
	"financie/internal/cli"
	"financie/internal/core"
	apphttp "financie/internal/http"
	"financie/internal/log"
	"financie/internal/records"
	"financie/internal/services"
	"financie/internal/telegram"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(log.DefaultConfig().Level)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.WithComponent(log.ComponentStorage).Slog()).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldBackend, cfg.DataBackend, log.FieldError, err)
		os.Exit(1)
	}

	if cfg.SeedData {
		if err := records.Seed(ctx, result.Store, core.SeedDrafts(core.Today())); err != nil {
			logger.Error("Failed to load example records", log.FieldError, err)
			os.Exit(1)
		}
	}

	recordService := services.NewRecordService(result.Store, result.Publisher)
	defer func() {
		if err := recordService.Close(); err != nil {
			logger.Error("Failed to close record service", log.FieldError, err)
		}
	}()

	gen, err := cli.NewGenerator(ctx, cfg, logger.WithComponent(log.ComponentAdvisor))
	if err != nil {
		logger.Error("Failed to initialize advisor", log.FieldError, err)
		os.Exit(1)
	}
	tracker := advisor.NewTracker(
		advisor.New(gen, logger.WithComponent(log.ComponentAdvisor).Slog()),
		cfg.AdvisorTimeout,
	)

	srv := apphttp.NewServer(":"+cfg.Port, recordService, tracker, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16
	if result.HealthCheck != nil {
		srv.AddReadinessCheck("store", result.HealthCheck)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting financie server",
			"port", cfg.Port,
			log.FieldBackend, cfg.DataBackend,
			"events", cfg.EventsBackend,
			"advisor", cfg.AdvisorProvider,
			"advisor_enabled", cfg.AdvisorEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.TelegramEnabled() {
		bot, err := telegram.New(cfg.TelegramToken, cfg.TelegramAdminID, cfg.TelegramTimeout, recordService, tracker, logger)
		if err != nil {
			logger.Error("Failed to start telegram bot, continuing without it", log.FieldError, err)
		} else {
			g.Go(func() error { return bot.Run(gctx) })
		}
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		_ = recordService.Close()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
