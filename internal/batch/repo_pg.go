package batch

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"salary-backend/internal/report"
)

// PGRepo implements RunsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const runColumns = `id, session_id, file_name, source_type, upload_key, record_count, market_index, market_live, market_used, model_name,
    mean_salary, median_salary, min_salary, max_salary, stddev_salary, top_jobs, export_key, report_key, created_at`

// Create inserts a new run.
func (r *PGRepo) Create(ctx context.Context, run Run) error {
	const query = `
INSERT INTO batch_runs (
    id,
    session_id,
    file_name,
    source_type,
    upload_key,
    record_count,
    market_index,
    market_live,
    market_used,
    model_name,
    mean_salary,
    median_salary,
    min_salary,
    max_salary,
    stddev_salary,
    top_jobs,
    export_key,
    report_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	topJobs := run.TopJobs
	if topJobs == nil {
		topJobs = []report.GroupMean{}
	}
	topJobsJSON, err := json.Marshal(topJobs)
	if err != nil {
		return err
	}

	var uploadKey sql.NullString
	if run.UploadKey != "" {
		uploadKey = sql.NullString{String: run.UploadKey, Valid: true}
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		run.ID,
		run.SessionID,
		run.FileName,
		run.SourceType,
		uploadKey,
		run.RecordCount,
		run.MarketIndex,
		run.MarketLive,
		run.MarketUsed,
		run.ModelName,
		run.Stats.Mean,
		run.Stats.Median,
		run.Stats.Min,
		run.Stats.Max,
		run.Stats.StdDev,
		topJobsJSON,
		run.ExportKey,
		run.ReportKey,
		run.CreatedAt,
	)
	return err
}

// GetByID fetches a run by ID for a session.
func (r *PGRepo) GetByID(ctx context.Context, sessionID, runID string) (Run, error) {
	query := `
SELECT ` + runColumns + `
FROM batch_runs
WHERE session_id = $1 AND id = $2
LIMIT 1`
	run, err := scanRun(r.DB.QueryRowContext(ctx, query, sessionID, runID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, err
	}
	return run, nil
}

// ListBySession lists runs ordered newest-first.
func (r *PGRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + runColumns + `
FROM batch_runs
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (Run, error) {
	var run Run
	var uploadKey sql.NullString
	var topJobs []byte
	err := s.Scan(
		&run.ID,
		&run.SessionID,
		&run.FileName,
		&run.SourceType,
		&uploadKey,
		&run.RecordCount,
		&run.MarketIndex,
		&run.MarketLive,
		&run.MarketUsed,
		&run.ModelName,
		&run.Stats.Mean,
		&run.Stats.Median,
		&run.Stats.Min,
		&run.Stats.Max,
		&run.Stats.StdDev,
		&topJobs,
		&run.ExportKey,
		&run.ReportKey,
		&run.CreatedAt,
	)
	if err != nil {
		return Run{}, err
	}
	if uploadKey.Valid {
		run.UploadKey = uploadKey.String
	}
	if len(topJobs) > 0 {
		if err := json.Unmarshal(topJobs, &run.TopJobs); err != nil {
			return Run{}, err
		}
	}
	run.Stats.Count = run.RecordCount
	return run, nil
}

var _ RunsRepo = (*PGRepo)(nil)
