package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ten-exorcism/backend/internal/config"
	httphandler "github.com/ten-exorcism/backend/internal/http"
	"github.com/ten-exorcism/backend/internal/service"
	"github.com/ten-exorcism/backend/internal/store"
	"github.com/ten-exorcism/backend/internal/store/cassandra"
	"github.com/ten-exorcism/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithOptions(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	sessionStore, err := openStore(cfg, log)
	if err != nil {
		log.Error("Failed to initialize store",
			logger.F("backend", cfg.StoreBackend),
			logger.F("error", err.Error()))
		os.Exit(1)
	}
	defer sessionStore.Close()
	log.Info("Store ready", logger.F("backend", cfg.StoreBackend))

	game := service.NewGameService(sessionStore, log, service.Options{
		RoundDuration: cfg.RoundDuration,
		VerifyWorkers: cfg.VerifyWorkers,
	})
	handler := httphandler.NewHandler(game, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httphandler.RequestIDMiddleware)
	router.Use(httphandler.LoggingMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(10 * time.Second))
	router.Mount("/", handler.Routes())

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Server starting", logger.F("addr", cfg.Address()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", logger.F("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.F("error", err.Error()))
		return
	}

	log.Info("Server exited")
}

// openStore builds the session store selected by STORE_BACKEND
func openStore(cfg *config.Config, log *logger.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		st, err := store.NewRedisStore(cfg.Redis, cfg.SessionTTL)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.BackendCassandra:
		client, err := cassandra.NewClient(cfg.Cassandra, log)
		if err != nil {
			return nil, err
		}
		return cassandra.NewRepository(client, log, cfg.Cassandra.Timeout), nil
	case config.BackendSQLite:
		st, err := store.NewSQLiteStore(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return store.NewMemoryStore(), nil
	}
}
