package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/campuspulse/internal/broadcast"
	"github.com/pscheid92/campuspulse/internal/config"
	"github.com/pscheid92/campuspulse/internal/logging"
	"github.com/pscheid92/campuspulse/internal/pulse"
	"github.com/pscheid92/campuspulse/internal/sentiment"
	"github.com/pscheid92/campuspulse/internal/server"
	"github.com/pscheid92/campuspulse/internal/storage"
	"github.com/pscheid92/campuspulse/internal/worker"
)

func setupConfig() *config.Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func runGracefulShutdown(srv *server.Server, cancelWorkers context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		cancelWorkers()
		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	store, err := storage.NewFileStore(cfg.DataFile, clock)
	if err != nil {
		slog.Error("Failed to set up snapshot store", "error", err)
		os.Exit(1)
	}

	scorer := sentiment.NewScorer()

	repository, err := pulse.NewRepository(store, scorer, clock, cfg.MaxFeedbackPerSession)
	if err != nil {
		slog.Error("Failed to initialize pulse repository", "error", err)
		os.Exit(1)
	}

	broadcaster := broadcast.NewBroadcaster()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	summaryTicker := worker.NewSummaryTicker(repository, clock, cfg.SummaryInterval)
	go summaryTicker.Run(workerCtx)

	srv := server.NewServer(cfg, repository, broadcaster, clock)
	done := runGracefulShutdown(srv, cancelWorkers)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
