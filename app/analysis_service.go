package app

import (
	"context"
	"io"
	"time"

	"gobenford/adapters/source"
	"gobenford/domain/benford"
	"gobenford/domain/core"
	"gobenford/internal"
	"gobenford/internal/analysis"
	"gobenford/ports"
)

// Submission is one analysed upload
type Submission struct {
	ID       core.AnalysisID
	Filename string
	Outcome  benford.Outcome
}

// AnalysisService accepts uploads, runs the analysis and records history
type AnalysisService struct {
	orchestrator *analysis.Orchestrator
	repo         ports.AnalysisRepository
	logger       *internal.Logger
	now          func() time.Time
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(orchestrator *analysis.Orchestrator, repo ports.AnalysisRepository, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{
		orchestrator: orchestrator,
		repo:         repo,
		logger:       logger.WithComponent("service"),
		now:          time.Now,
	}
}

// Submit analyses one upload. The outcome is always returned; failing to
// record history is logged and does not affect it.
func (s *AnalysisService) Submit(ctx context.Context, filename string, r io.Reader) *Submission {
	sub := &Submission{ID: core.NewAnalysisID(), Filename: filename}
	started := s.now()

	lines, err := source.Lines(filename, r)
	if err != nil {
		s.logger.Info("analysis %s: cannot read %q: %v", sub.ID, filename, err)
		sub.Outcome = benford.Failure{Message: err.Error(), Err: err}
	} else {
		sub.Outcome = s.orchestrator.Run(filename, lines)
	}

	s.logger.Info("analysis %s of %q finished in %s (valid=%t)", sub.ID, filename, s.now().Sub(started), sub.Outcome.Valid())

	if s.repo != nil {
		summary := benford.Summarize(sub.ID, filename, sub.Outcome, started.UTC())
		if err := s.repo.Save(ctx, summary); err != nil {
			s.logger.Warn("analysis %s: failed to record history: %v", sub.ID, err)
		}
	}
	return sub
}

// History returns recent analyses, newest first
func (s *AnalysisService) History(ctx context.Context, limit int) ([]*benford.Summary, error) {
	if s.repo == nil {
		return []*benford.Summary{}, nil
	}
	return s.repo.ListRecent(ctx, limit)
}

// Lookup returns one recorded analysis
func (s *AnalysisService) Lookup(ctx context.Context, id core.AnalysisID) (*benford.Summary, error) {
	if s.repo == nil {
		return nil, core.NewNotFoundError("analysis", id.String())
	}
	return s.repo.GetByID(ctx, id)
}
