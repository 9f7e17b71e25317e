package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/BerylCAtieno/paper-simplifier/internal/models"
)

type Repository interface {
	Create(ctx context.Context, paper *models.Paper) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.Paper, error)
	ByCategory(ctx context.Context, category string) ([]models.Paper, error)
	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*models.Stats, error)
	// LatestText returns the text of the newest paper, or "" when none exist.
	LatestText(ctx context.Context) (string, error)
}

const paperColumns = `id, title, text, created_at, child_summary, college_summary, phd_summary,
	citations, key_findings, fact_check, category, input_tokens, output_tokens,
	cost, processing_time, file_key`

const newestFirst = `ORDER BY created_at DESC, id DESC`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, paper *models.Paper) (int64, error) {
	query := r.db.Rebind(`
		INSERT INTO papers (
			title, text, child_summary, college_summary, phd_summary,
			citations, key_findings, fact_check, category,
			input_tokens, output_tokens, cost, processing_time, file_key
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		paper.Title,
		paper.Text,
		paper.ChildSummary,
		paper.CollegeSummary,
		paper.PhDSummary,
		paper.Citations,
		paper.KeyFindings,
		paper.FactCheck,
		paper.Category,
		paper.InputTokens,
		paper.OutputTokens,
		paper.Cost,
		paper.ProcessingTime,
		paper.FileKey,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	paper.ID = id
	return id, nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]models.Paper, error) {
	query := r.db.Rebind(`SELECT ` + paperColumns + ` FROM papers ` + newestFirst + ` LIMIT ?`)

	papers := []models.Paper{}
	if err := r.db.SelectContext(ctx, &papers, query, limit); err != nil {
		return nil, err
	}
	return papers, nil
}

func (r *repository) ByCategory(ctx context.Context, category string) ([]models.Paper, error) {
	query := r.db.Rebind(`SELECT ` + paperColumns + ` FROM papers WHERE category = ? ` + newestFirst)

	papers := []models.Paper{}
	if err := r.db.SelectContext(ctx, &papers, query, category); err != nil {
		return nil, err
	}
	return papers, nil
}

func (r *repository) Categories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM papers
		WHERE category IS NOT NULL AND category <> ''
		ORDER BY category
	`

	categories := []string{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) Stats(ctx context.Context) (*models.Stats, error) {
	query := `
		SELECT
			COUNT(*) AS total_papers,
			CAST(COALESCE(AVG(processing_time), 0) AS DOUBLE PRECISION) AS avg_processing_time,
			CAST(COALESCE(SUM(cost), 0) AS DOUBLE PRECISION) AS total_cost,
			CAST(COALESCE(AVG(input_tokens + output_tokens), 0) AS DOUBLE PRECISION) AS avg_tokens
		FROM papers
	`

	var stats models.Stats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *repository) LatestText(ctx context.Context) (string, error) {
	var text string
	err := r.db.GetContext(ctx, &text, `SELECT text FROM papers `+newestFirst+` LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return text, nil
}
