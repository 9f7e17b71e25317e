package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"

	"github.com/BerylCAtieno/paper-simplifier/internal/analyzer"
	"github.com/BerylCAtieno/paper-simplifier/internal/config"
	"github.com/BerylCAtieno/paper-simplifier/internal/db"
	"github.com/BerylCAtieno/paper-simplifier/internal/extractor"
	"github.com/BerylCAtieno/paper-simplifier/internal/models"
	"github.com/BerylCAtieno/paper-simplifier/internal/pipeline"
	"github.com/BerylCAtieno/paper-simplifier/internal/repository"
	"github.com/BerylCAtieno/paper-simplifier/internal/services"
	"github.com/BerylCAtieno/paper-simplifier/internal/storage"
	"github.com/BerylCAtieno/paper-simplifier/internal/utils"
)

func MigrateAction(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	fmt.Printf("Migrations applied (%s)\n", db.DriverFor(cfg.DatabaseURL))
	return nil
}

func SummarizeAction(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireLLM(); err != nil {
		return err
	}
	logger := utils.NewLoggerWithWriter(os.Stderr, cfg.LogLevel)

	path := c.String("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var repo repository.Repository
	if c.Bool("save") {
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		repo = repository.NewRepository(database)
	}

	archive := storage.NewNoopArchive()
	if c.Bool("save") && cfg.ArchiveEnabled() {
		archive, err = storage.NewS3Archive(c.Context, cfg)
		if err != nil {
			return err
		}
	}

	client := analyzer.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITimeout, logger)
	svc := services.NewService(repo, archive, pipeline.New(client, pipeline.OptionsFromConfig(cfg), logger), logger)

	filename := filepath.Base(path)
	result, err := svc.ProcessPaper(c.Context, &models.UploadRequest{
		File:        data,
		Filename:    filename,
		ContentType: extractor.DetectContentType(filename, ""),
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func RecentAction(c *cli.Context) error {
	return withRepository(func(repo repository.Repository) error {
		papers, err := repo.Recent(c.Context, 10)
		if err != nil {
			return fmt.Errorf("failed to list recent papers: %w", err)
		}
		return printJSON(papers)
	})
}

func StatsAction(c *cli.Context) error {
	return withRepository(func(repo repository.Repository) error {
		stats, err := repo.Stats(c.Context)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		return printJSON(stats)
	})
}

func CategoriesAction(c *cli.Context) error {
	return withRepository(func(repo repository.Repository) error {
		if category := c.String("category"); category != "" {
			papers, err := repo.ByCategory(c.Context, category)
			if err != nil {
				return fmt.Errorf("failed to list papers in %q: %w", category, err)
			}
			return printJSON(papers)
		}

		categories, err := repo.Categories(c.Context)
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		return printJSON(categories)
	})
}

// openDatabase connects and brings the schema up to date.
func openDatabase(cfg *config.Config) (*sqlx.DB, error) {
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.RunMigrations(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return database, nil
}

func withRepository(fn func(repository.Repository) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(repository.NewRepository(database))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
