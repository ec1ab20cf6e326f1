// Package main provides the entry point for the backend portal API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ltgt/portal-gateway/internal/api"
	"github.com/ltgt/portal-gateway/internal/auth"
	"github.com/ltgt/portal-gateway/internal/config"
	"github.com/ltgt/portal-gateway/internal/metrics"
	"github.com/ltgt/portal-gateway/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("portal-api failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadAPI()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logLevel := &slog.LevelVar{}
	logLevel.Set(parseLogLevel(cfg.LogLevel))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := metrics.Init(prometheus.DefaultRegisterer, "api"); err != nil {
		return err
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	tokens, err := auth.NewTokenService(cfg.JWTAccessSecret)
	if err != nil {
		return err
	}

	handler := api.NewHandler(st, tokens, logger, logLevel)
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsServer := &http.Server{
		Addr:              cfg.MetricsListenAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		logger.Info("portal-api listening", "addr", cfg.ListenAddr)
		errCh <- server.ListenAndServe()
	}()
	go func() {
		logger.Info("metrics listening", "addr", cfg.MetricsListenAddr)
		errCh <- metricsServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
	return server.Shutdown(shutdownCtx)
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
