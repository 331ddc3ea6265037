package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/setterflo/contact-relay/internal/config"
	"github.com/setterflo/contact-relay/internal/contact"
	"github.com/setterflo/contact-relay/internal/handlers"
	"github.com/setterflo/contact-relay/internal/middleware"
	"github.com/setterflo/contact-relay/internal/ratelimit"
	"github.com/setterflo/contact-relay/internal/webhook"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting contact-relay service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"rate_limit_window", cfg.RateLimit.Window(),
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
	)

	limiter := ratelimit.New(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window())
	dispatcher := webhook.NewClient(cfg.Webhook)
	validator := contact.NewValidator()

	h := handlers.New(validator, limiter, dispatcher, logger)

	mux := http.NewServeMux()
	h.Register(mux)

	handler := http.Handler(mux)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.WriteTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	janitorCtx, cancelJanitor := context.WithCancel(context.Background())
	defer cancelJanitor()
	limiter.StartJanitor(janitorCtx, cfg.RateLimit.Window())

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelJanitor()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
