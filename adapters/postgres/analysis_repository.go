package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gobenford/domain/benford"
	"gobenford/domain/core"
	"gobenford/ports"

	"github.com/jmoiron/sqlx"
)

const analysisColumns = `id, filename, valid, observations, statistic, p_value, rejected, error_message, created_at`

// analysisRepository implements ports.AnalysisRepository on PostgreSQL
type analysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisRepository {
	return &analysisRepository{db: db}
}

// Save inserts a summary
func (r *analysisRepository) Save(ctx context.Context, s *benford.Summary) error {
	query := `INSERT INTO analyses (` + analysisColumns + `) VALUES (
		:id, :filename, :valid, :observations, :statistic, :p_value, :rejected, :error_message, :created_at
	)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetByID retrieves a summary by its ID
func (r *analysisRepository) GetByID(ctx context.Context, id core.AnalysisID) (*benford.Summary, error) {
	var s benford.Summary
	err := r.db.GetContext(ctx, &s, `SELECT `+analysisColumns+` FROM analyses WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrAnalysisNotFound, id)
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &s, nil
}

// ListRecent retrieves the newest summaries first
func (r *analysisRepository) ListRecent(ctx context.Context, limit int) ([]*benford.Summary, error) {
	summaries := []*benford.Summary{}
	err := r.db.SelectContext(ctx, &summaries,
		`SELECT `+analysisColumns+` FROM analyses ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return summaries, nil
}
