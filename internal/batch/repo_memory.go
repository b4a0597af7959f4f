package batch

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of RunsRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Run // sessionId -> runs
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Run),
	}
}

// Create stores a run under its session.
func (r *MemoryRepo) Create(ctx context.Context, run Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[run.SessionID] = append(r.data[run.SessionID], run)
	return nil
}

// GetByID returns a run owned by the session.
func (r *MemoryRepo) GetByID(ctx context.Context, sessionID, runID string) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, run := range r.data[sessionID] {
		if run.ID == runID {
			return run, nil
		}
	}
	return Run{}, ErrNotFound
}

// ListBySession returns runs newest first, honoring limit/offset.
func (r *MemoryRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	runs := make([]Run, len(r.data[sessionID]))
	copy(runs, r.data[sessionID])
	r.mu.RUnlock()

	if offset >= len(runs) {
		return []Run{}, nil
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	end := len(runs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return runs[offset:end], nil
}

var _ RunsRepo = (*MemoryRepo)(nil)
