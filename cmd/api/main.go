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

	"github.com/jonboulle/clockwork"

	"github.com/emilythestrangee/blog-api/backend/internal/config"
	"github.com/emilythestrangee/blog-api/backend/internal/database"
	"github.com/emilythestrangee/blog-api/backend/internal/logging"
	"github.com/emilythestrangee/blog-api/backend/internal/memstore"
	"github.com/emilythestrangee/blog-api/backend/internal/mongostore"
	"github.com/emilythestrangee/blog-api/backend/internal/server"
	"github.com/emilythestrangee/blog-api/backend/internal/store"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func openStore(cfg *config.Config, clock clockwork.Clock) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	case config.DriverMemory:
		slog.Warn("Using in-memory store, data will not survive a restart")
		return memstore.New(clock), nil
	default:
		return database.New(database.Options{DSN: cfg.PostgresDSN()})
	}
}

func runGracefulShutdown(srv *http.Server) <-chan struct{} {
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

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "store", cfg.StoreDriver)

	st, err := openStore(cfg, clock)
	if err != nil {
		slog.Error("Failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}()

	srv := server.New(cfg, st, clock).HTTPServer()
	done := runGracefulShutdown(srv)

	slog.Info("Server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Server stopped")
}
