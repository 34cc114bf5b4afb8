package ports

import (
	"context"

	"gobenford/domain/benford"
	"gobenford/domain/core"
)

// AnalysisRepository stores the history of analyses
type AnalysisRepository interface {
	Save(ctx context.Context, summary *benford.Summary) error
	GetByID(ctx context.Context, id core.AnalysisID) (*benford.Summary, error)
	// ListRecent returns at most limit summaries, newest first
	ListRecent(ctx context.Context, limit int) ([]*benford.Summary, error)
}
