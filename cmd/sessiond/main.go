// cmd/sessiond/main.go
// Entry point for the pickleball session manager daemon. Initializes all
// dependencies and starts the HTTP server.

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iysaleh/pickleball-session-manager/internal/cache"
	"github.com/iysaleh/pickleball-session-manager/internal/config"
	"github.com/iysaleh/pickleball-session-manager/internal/database"
	"github.com/iysaleh/pickleball-session-manager/internal/persistence"
	"github.com/iysaleh/pickleball-session-manager/internal/registry"
	"github.com/iysaleh/pickleball-session-manager/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := setupLogger(cfg.Environment)

	dbConnections, err := initializeDatabases(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to initialize databases: %v", err)
	}
	defer dbConnections.Close()

	var repo *persistence.SessionRepository
	if cfg.Features.EnablePersistence && dbConnections.MongoDB != nil {
		repo = persistence.NewSessionRepository(dbConnections.MongoDB)
	}

	cacheSvc := cache.New(dbConnections.Redis, logger)
	reg := registry.New(cfg.Session, repo, logger)

	srv := server.New(cfg, reg, cacheSvc, logger)

	go func() {
		logger.Printf("starting server on port %s in %s mode", cfg.Server.Port, cfg.Environment)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	gracefulShutdown(srv, logger)
}

func initializeDatabases(cfg *config.Config, logger *log.Logger) (*database.Connections, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return database.Initialize(ctx, database.Config{
		EnableMongo: cfg.Features.EnablePersistence,
		MongoDB: database.MongoConfig{
			URI:      cfg.Database.MongoDB.URI,
			Database: cfg.Database.MongoDB.Database,
		},
		Redis: database.RedisConfig{
			Addr:     cfg.Database.Redis.Addr,
			Password: cfg.Database.Redis.Password,
			DB:       cfg.Database.Redis.DB,
		},
	}, logger)
}

func setupLogger(env string) *log.Logger {
	logger := log.New(os.Stdout, "[sessiond] ", log.LstdFlags|log.Lshortfile)
	_ = env
	return logger
}

func gracefulShutdown(srv *server.Server, logger *log.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("server forced to shutdown: %v", err)
	}

	logger.Println("server exited")
}
