package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/paper-simplifier/internal/analyzer"
	"github.com/BerylCAtieno/paper-simplifier/internal/config"
	"github.com/BerylCAtieno/paper-simplifier/internal/db"
	"github.com/BerylCAtieno/paper-simplifier/internal/pipeline"
	"github.com/BerylCAtieno/paper-simplifier/internal/repository"
	"github.com/BerylCAtieno/paper-simplifier/internal/router"
	"github.com/BerylCAtieno/paper-simplifier/internal/services"
	"github.com/BerylCAtieno/paper-simplifier/internal/storage"
	"github.com/BerylCAtieno/paper-simplifier/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	if err := cfg.RequireLLM(); err != nil {
		logger.Fatal("Invalid configuration", "error", err)
	}

	// Initialize database
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err, "driver", db.DriverFor(cfg.DatabaseURL))
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(database); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Upload archive
	archive := storage.NewNoopArchive()
	if cfg.ArchiveEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		archive, err = storage.NewS3Archive(ctx, cfg)
		cancel()
		if err != nil {
			logger.Fatal("Failed to initialize S3 archive", "error", err)
		}
		logger.Info("Archiving uploads", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3BucketName)
	}

	// Initialize paper service
	client := analyzer.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITimeout, logger)
	analysis := pipeline.New(client, pipeline.OptionsFromConfig(cfg), logger)
	paperRepo := repository.NewRepository(database)
	paperService := services.NewService(paperRepo, archive, analysis, logger)

	// Setup HTTP router
	handler := router.NewRouter(paperService, cfg, logger)

	// Summaries can take minutes while a paper waits its turn in the queue.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "model", cfg.OpenAIModel)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
