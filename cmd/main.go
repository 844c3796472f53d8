package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"studentportal/internal/bootstrap"
	"studentportal/internal/config"
	cronpkg "studentportal/internal/cron"
	"studentportal/internal/handler"
	"studentportal/internal/handler/api"
	"studentportal/internal/middleware"
	"studentportal/internal/payment"
	"studentportal/internal/repository"
	"studentportal/internal/router"
)

func main() {
	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if hasArg("--bootstrap-db") {
		if err := runDBBootstrap(logger); err != nil {
			logger.Fatal("Database bootstrap failed", zap.Error(err))
		}
		logger.Info("Database bootstrap completed")
		return
	}

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// --- Database ---
	db, err := config.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := bootstrap.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// --- Repositories ---
	students := repository.NewStudentRepository(db)
	subjects := repository.NewSubjectRepository(db)
	registrations := repository.NewRegistrationRepository(db)
	schedules := repository.NewScheduleRepository(db)
	fees := repository.NewTuitionFeeRepository(db)
	attempts := repository.NewPaymentAttemptRepository(db)

	// --- Payment Gateway Client ---
	client := payment.NewClient(payment.Config{
		TmnCode:    cfg.VNPay.TmnCode,
		HashSecret: cfg.VNPay.HashSecret,
		BaseURL:    cfg.VNPay.BaseURL,
		ReturnURL:  cfg.VNPay.ReturnURL,
		APIURL:     cfg.VNPay.APIURL,
	}, fees, attempts, logger)

	// --- Notification Deduper (Redis with in-memory fallback) ---
	deduper := middleware.NewNotificationDeduper(
		cfg.Redis.Addr,
		cfg.Redis.Pass,
		cfg.Redis.DB,
		10*time.Minute,
		logger,
	)
	defer deduper.Close()

	// --- Handlers & Routes ---
	handlers := router.Handlers{
		Student:  api.NewStudentHandler(cfg, students, subjects, registrations, schedules, fees, logger),
		Admin:    api.NewAdminHandler(cfg, students, subjects, registrations, schedules, fees, logger),
		Payment:  api.NewPaymentHandler(client, students, fees, logger),
		Export:   api.NewExportHandler(students, subjects, registrations, fees, logger),
		Callback: handler.NewPaymentCallbackHandler(client, logger),
	}
	e := router.Setup(cfg, handlers, deduper, logger)

	// --- Cron Scheduler ---
	scheduler := cronpkg.NewScheduler(attempts, client, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("Failed to start cron scheduler", zap.Error(err))
	}

	// --- Start Server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting student portal server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func hasArg(name string) bool {
	for _, arg := range os.Args[1:] {
		if arg == name {
			return true
		}
	}
	return false
}

func runDBBootstrap(logger *zap.Logger) error {
	dbCfg, err := config.LoadDatabaseOnly()
	if err != nil {
		return err
	}
	db, err := config.NewDatabase(dbCfg)
	if err != nil {
		return err
	}
	if err := bootstrap.Migrate(db); err != nil {
		return err
	}
	logger.Info("Schema migration completed")
	return nil
}
