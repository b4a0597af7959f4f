package batch

import "context"

// RunsRepo persists batch runs per session.
type RunsRepo interface {
	Create(ctx context.Context, run Run) error
	GetByID(ctx context.Context, sessionID, runID string) (Run, error)
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Run, error)
}
