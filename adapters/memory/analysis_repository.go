package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gobenford/domain/benford"
	"gobenford/domain/core"
	"gobenford/ports"
)

// AnalysisRepository keeps summaries in process memory. It is used when no
// database is configured; history is lost on restart.
type AnalysisRepository struct {
	mu       sync.RWMutex
	byID     map[core.AnalysisID]*benford.Summary
	capacity int
}

var _ ports.AnalysisRepository = (*AnalysisRepository)(nil)

// NewAnalysisRepository creates a store holding at most capacity summaries;
// the oldest are evicted first. capacity <= 0 means unbounded.
func NewAnalysisRepository(capacity int) *AnalysisRepository {
	return &AnalysisRepository{
		byID:     make(map[core.AnalysisID]*benford.Summary),
		capacity: capacity,
	}
}

// Save stores a copy of s
func (r *AnalysisRepository) Save(ctx context.Context, s *benford.Summary) error {
	if s == nil || s.ID.String() == "" {
		return fmt.Errorf("summary must have an ID")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *s
	r.byID[s.ID] = &stored
	if r.capacity > 0 && len(r.byID) > r.capacity {
		r.evictOldestLocked()
	}
	return nil
}

// GetByID returns a copy of the stored summary
func (r *AnalysisRepository) GetByID(ctx context.Context, id core.AnalysisID) (*benford.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrAnalysisNotFound, id)
	}
	out := *s
	return &out, nil
}

// ListRecent returns copies of at most limit summaries, newest first
func (r *AnalysisRepository) ListRecent(ctx context.Context, limit int) ([]*benford.Summary, error) {
	r.mu.RLock()
	all := make([]*benford.Summary, 0, len(r.byID))
	for _, s := range r.byID {
		out := *s
		all = append(all, &out)
	}
	r.mu.RUnlock()

	sortNewestFirst(all)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *AnalysisRepository) evictOldestLocked() {
	var oldest *benford.Summary
	for _, s := range r.byID {
		if oldest == nil || older(s, oldest) {
			oldest = s
		}
	}
	if oldest != nil {
		delete(r.byID, oldest.ID)
	}
}

// older orders by creation time, then by ID since v7 IDs are time-ordered
func older(a, b *benford.Summary) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func sortNewestFirst(s []*benford.Summary) {
	sort.Slice(s, func(i, j int) bool { return older(s[j], s[i]) })
}
