package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/app"
	"github.com/ArowuTest/fundme-backend/internal/config"
	mongorepo "github.com/ArowuTest/fundme-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/fundme-backend/pkg/logger"
	"github.com/ArowuTest/fundme-backend/pkg/mongodb"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to read .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	sugar := zl.Sugar()

	if err := run(cfg, sugar); err != nil {
		sugar.Fatalw("Server stopped with error", "error", err)
	}
}

func run(cfg *config.Config, logger *zap.SugaredLogger) error {
	ctx := context.Background()

	var (
		repos       app.Repositories
		healthCheck func(context.Context) error
	)
	switch cfg.Storage.Driver {
	case "memory":
		logger.Warnw("Using in-memory storage, state is lost on exit")
		repos = app.MemoryRepositories()
	case "mongodb", "":
		client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				logger.Errorw("Error disconnecting from MongoDB", "error", err)
			}
		}()
		db := client.Database(cfg.MongoDB.Database)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			return err
		}
		repos = app.MongoRepositories(db)
		healthCheck = client.Ping
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	a, err := app.New(ctx, cfg, repos, healthCheck, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("Server starting", "port", cfg.Server.Port, "chainId", cfg.Chain.ChainID, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	logger.Infow("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Infow("Server exiting")
	return nil
}
