// Package main provides the entry point for the portal gateway.
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

	"github.com/ltgt/portal-gateway/internal/auth"
	"github.com/ltgt/portal-gateway/internal/config"
	"github.com/ltgt/portal-gateway/internal/gateway"
	"github.com/ltgt/portal-gateway/internal/metrics"
	"github.com/ltgt/portal-gateway/internal/upstream"
)

func main() {
	if err := run(); err != nil {
		slog.Error("portal-gateway failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadGateway()
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

	if err := metrics.Init(prometheus.DefaultRegisterer, "gateway"); err != nil {
		return err
	}

	tokens, err := auth.NewTokenService(cfg.JWTAccessSecret)
	if err != nil {
		return err
	}

	client := upstream.NewClient(cfg.UpstreamAPIURL, upstream.WithTimeout(cfg.UpstreamTimeout))
	handler := gateway.NewHandler(client, tokens, logger, logLevel)

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
		logger.Info("portal-gateway listening", "addr", cfg.ListenAddr, "upstream", cfg.UpstreamAPIURL)
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
