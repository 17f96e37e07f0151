package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Bhavyabhvy/SpendIQ/internal/amqp"
	"github.com/Bhavyabhvy/SpendIQ/internal/cache"
	"github.com/Bhavyabhvy/SpendIQ/internal/cli"
	apphttp "github.com/Bhavyabhvy/SpendIQ/internal/http"
	applog "github.com/Bhavyabhvy/SpendIQ/internal/log"
	"github.com/Bhavyabhvy/SpendIQ/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// AMQP is optional: with no URL the report page still works, only the
	// background file materialization is skipped.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled, report exports will not be materialized")
	}

	reportCache := cache.NewLRU[*services.MonthlyReport](cfg.SummaryCacheSize, cfg.SummaryCacheTTL)

	users := services.NewUserService(repo, cfg.SessionTTL)
	expenses := services.NewExpenseService(repo)
	salaries := services.NewSalaryService(repo)
	reports := services.NewReportService(repo, amqpClient, reportCache)

	srv := apphttp.NewServer(cfg, users, expenses, salaries, reports)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, stop := cli.SignalContext()
	defer stop()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SessionPurgeSchedule, func() {
		if _, err := repo.PurgeExpiredSessions(context.Background()); err != nil {
			logger.Error("Session purge failed", "error", err)
		}
	}); err != nil {
		logger.Error("Failed to schedule session purge", "error", err, "schedule", cfg.SessionPurgeSchedule)
		os.Exit(1)
	}
	if _, err := scheduler.AddFunc("@every 10m", func() {
		if removed := reportCache.CleanExpired(); removed > 0 {
			logger.Debug("Report cache cleanup", "removed", removed)
		}
	}); err != nil {
		logger.Error("Failed to schedule cache cleanup", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting spendiq server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
