package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/russMightyMonk/rumi-analytica/internal/agent"
	"github.com/russMightyMonk/rumi-analytica/internal/api"
	"github.com/russMightyMonk/rumi-analytica/internal/auth"
	"github.com/russMightyMonk/rumi-analytica/internal/config"
)

func main() {
	// Load configuration; refuse to start without auth material
	cfg, err := config.Load()
	if err != nil {
		startupLogger := zerolog.New(os.Stderr)
		startupLogger.Fatal().Err(err).Msg("configuration error")
	}

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	authSvc := auth.New(cfg.AuthUsername, cfg.AuthPasswordHash, cfg.JWTSecret)

	// Select the agent collaborator transport
	var executor agent.Executor
	switch cfg.AgentTransport {
	case config.TransportRemote:
		executor = agent.NewRemoteExecutor(cfg.AgentBaseURL, cfg.AgentTimeout, logger)
		logger.Info().Str("base_url", cfg.AgentBaseURL).Msg("using remote agent transport")
	case config.TransportLocal:
		executor = agent.NewLocalExecutor(agent.EchoRunner{}, agent.NewInMemorySessionStore(), cfg.AgentTimeout)
		logger.Info().Msg("using local agent transport")
	}

	// Create router
	router := api.NewRouter(cfg, logger, authSvc, executor)

	// Create server. WriteTimeout must outlast the agent call budget.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AgentTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting Rumi-Analytica backend")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
