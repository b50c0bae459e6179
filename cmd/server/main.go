package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bethmed/clinic-api/internal/app"
	"github.com/bethmed/clinic-api/internal/config"
	httpcontroller "github.com/bethmed/clinic-api/internal/controller/http"
	"github.com/bethmed/clinic-api/internal/notifier"
	"github.com/bethmed/clinic-api/internal/repository"
	"github.com/bethmed/clinic-api/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting clinic API",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.Addr()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)

	adminNotifier, err := notifier.NewTelegram(cfg.TelegramToken, cfg.TelegramAdminChatID, logger)
	if err != nil {
		logger.Fatal("Failed to create telegram notifier", zap.Error(err))
	}

	activityService := service.NewActivityService(activityRepo, logger)
	bookingService := service.NewBookingService(bookingRepo, userRepo, logger)
	paymentService := service.NewPaymentService(bookingRepo, paymentRepo, activityService, logger)
	appointmentService := service.NewAppointmentService(
		appointmentRepo, availabilityRepo, activityService, adminNotifier, logger)

	cleaner := app.NewCleaner(bookingRepo, cfg.StaleBookingTTLHours, logger)
	cleaner.Start(ctx)
	defer cleaner.Stop()

	router := httpcontroller.NewRouter(
		httpcontroller.RouterConfig{
			RequestTimeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		},
		httpcontroller.NewAuthenticator(cfg.JWTSecret),
		httpcontroller.NewBookingHandler(bookingService, paymentService, logger),
		httpcontroller.NewAdminHandler(appointmentService, logger),
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Server stopped")
}
