package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"
	"golang.org/x/sync/errgroup"

	"paramanu/internal/config"
	"paramanu/internal/database"
	"paramanu/internal/logging"
	"paramanu/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
	janitorInterval = time.Minute
	statsInterval   = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.App)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Intake API stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting intake API",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.Bool("debug", cfg.App.Debug),
		zap.String("host", cfg.App.Host),
		zap.String("port", cfg.App.Port))

	if err := database.Init(&cfg.Database, logger.Named("db")); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		logger.Info("Closing database connections")
		if err := database.Close(); err != nil {
			logger.Error("Error closing database", zap.Error(err))
		}
	}()

	if cfg.Relay.SharedSecret == "" {
		logger.Warn("RELAY_SHARED_SECRET is not set, relay calls are unsigned")
	}

	store := database.NewInquiryStore(database.GetDB())
	channels := []services.Channel{services.NewRelayClient(&cfg.Relay, logger)}
	if email := services.NewEmailService(&cfg.Email, logger); email.IsEnabled() {
		channels = append(channels, email)
	} else {
		logger.Warn("EMAIL_ENABLED is false, staff are notified over WhatsApp only")
	}
	notifier := services.NewNotifier(logger, channels...)
	intake := services.NewIntakeService(cfg, store, notifier, logger)
	health := services.NewHealthService(cfg.App.Name, store, logger)

	mux := goahttp.NewMuxer()
	health.Mount(mux)
	intake.Mount(mux)
	mux.Handle(http.MethodGet, "/metrics", promhttp.Handler().ServeHTTP)

	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      services.Chain(mux, services.Standard(cfg, logger)...),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     zap.NewStdLog(logger.Named("http")),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		intake.Run(ctx, janitorInterval)
		return nil
	})
	g.Go(func() error {
		reportDBStats(ctx, logger)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during graceful shutdown", zap.Error(err))
			if errors.Is(err, context.DeadlineExceeded) {
				logger.Warn("Shutdown timeout exceeded, forcing close")
				_ = httpServer.Close()
			}
		}
		return nil
	})

	err := g.Wait()
	logger.Info("Server shutdown complete")
	return err
}

func reportDBStats(ctx context.Context, logger *zap.Logger) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := database.ReportStats(database.GetDB()); err != nil {
				logger.Warn("Failed to read database stats", zap.Error(err))
			}
		}
	}
}
