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
	"goa.design/goa/v3/http/middleware"
	"golang.org/x/sync/errgroup"

	"paramanu/internal/config"
	"paramanu/internal/logging"
	"paramanu/internal/metrics"
	"paramanu/internal/relay"
	"paramanu/internal/services"
)

const (
	shutdownTimeout = 15 * time.Second
	readTimeout     = 10 * time.Second
	writeTimeout    = 20 * time.Second
	idleTimeout     = 60 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	cfg.App.Name = "Paramanu Notification Relay"
	logger, err := logging.New(cfg.App)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Relay stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	client := relay.NewCallMeBotClient(cfg.WhatsApp)
	if !client.Configured() {
		// Requests will fail individually; the server still starts.
		logger.Error("CALLMEBOT_API_KEY not configured")
	}

	var auth *relay.Authenticator
	if cfg.Relay.SharedSecret != "" {
		auth = relay.NewAuthenticator(cfg.Relay.SharedSecret)
	} else {
		logger.Warn("RELAY_SHARED_SECRET is not set, the relay accepts unauthenticated calls")
	}

	mux := goahttp.NewMuxer()
	relay.NewHandler(relay.New(client, logger.Named("relay")), auth, logger.Named("relay")).Mount(mux)
	mux.Handle(http.MethodGet, "/metrics", promhttp.Handler().ServeHTTP)

	handler := services.Chain(mux,
		services.SecurityHeaders(cfg.App.Debug),
		middleware.RequestID(),
		middleware.PopulateRequestContext(),
		services.RequestLogging(logger),
		metrics.PrometheusMiddleware,
	)

	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.Relay.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     zap.NewStdLog(logger.Named("http")),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Relay listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during graceful shutdown", zap.Error(err))
			_ = httpServer.Close()
		}
		return nil
	})

	err := g.Wait()
	logger.Info("Relay shutdown complete")
	return err
}
