package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tasks-api/internal/config"
	"tasks-api/internal/httpapi"
	"tasks-api/internal/logger"
	"tasks-api/internal/store/memorystore"
	"tasks-api/internal/store/sqlstore"
	"tasks-api/internal/task"
)

type taskStore interface {
	task.TaskRepository
	Close() error
}

func openStore(cfg config.StoreConfig, zapLogger *zap.Logger) (taskStore, error) {
	switch cfg.Driver {
	case "memory":
		if cfg.File == "" {
			return memorystore.NewTaskStore(), nil
		}
		return memorystore.Open(cfg.File)
	case "sqlite", "postgres":
		var sqlLogger *zap.Logger
		if cfg.LogSQL {
			sqlLogger = zapLogger
		}
		return sqlstore.Open(cfg.Driver, cfg.DSN, sqlLogger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func main() {
	configPath := flag.String("config", os.Getenv("TASKS_CONFIG"), "path to a YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zapLogger.Sync()

	store, err := openStore(cfg.Store, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to open task store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			zapLogger.Error("Failed to close task store", zap.Error(err))
		}
	}()

	service := task.NewService(store, task.WithLogger(zapLogger))
	handler := httpapi.NewServer(service,
		httpapi.WithLogger(zapLogger),
		httpapi.WithRequestTimeout(cfg.HTTP.RequestTimeout),
	)

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		zapLogger.Info("listening",
			zap.String("addr", httpServer.Addr),
			zap.String("store", cfg.Store.Driver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			zapLogger.Error("server error", zap.Error(err))
			return
		}
	case <-rootCtx.Done():
	}

	zapLogger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		zapLogger.Error("shutdown error", zap.Error(err))
	}
	zapLogger.Info("bye")
}
