package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"salary-backend/internal/dataset"
	"salary-backend/internal/ingest"
	"salary-backend/internal/market"
	"salary-backend/internal/model"
	"salary-backend/internal/queue"
	"salary-backend/internal/report"
	"salary-backend/internal/shared/metrics"
	"salary-backend/internal/shared/storage/object"
	"salary-backend/internal/shared/telemetry"
	"salary-backend/internal/shared/util"
)

const previewRows = 10

// Service runs uploaded batches through validation, inference and export.
type Service struct {
	Store  object.ObjectStore
	Repo   RunsRepo
	Ingest *ingest.Ingestor
	Model  *model.Holder
	Market market.Source
	// Queue is optional; nil disables batch.completed events.
	Queue queue.Client
	Now   func() time.Time
}

// Upload is one batch submission.
type Upload struct {
	SessionID     string
	RequestID     string
	FileName      string
	ContentType   string
	Data          []byte
	UseMarketData bool
}

// Result is a processed batch.
type Result struct {
	Run     Run
	Summary report.Summary
	Preview *dataset.Table
}

// Process ingests, validates and scores an upload. A missing required
// column returns *MissingColumnsError before the market lookup or any
// model call.
func (s *Service) Process(ctx context.Context, up Upload) (Result, error) {
	if strings.TrimSpace(up.FileName) == "" || len(up.Data) == 0 {
		return Result{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	table, kind, err := s.Ingest.Read(ctx, up.Data, up.ContentType, up.FileName)
	if err != nil {
		return Result{}, err
	}
	if missing := MissingColumns(table); len(missing) > 0 {
		metrics.IncBatchRejected()
		return Result{}, &MissingColumnsError{Missing: missing}
	}
	if table.Len() == 0 {
		return Result{}, ErrEmptyBatch
	}

	live, ok := s.Market.Lookup(ctx)
	marketIndex := market.Resolve(live, ok, up.UseMarketData)

	validated, err := Validate(table, marketIndex)
	if err != nil {
		return Result{}, err
	}

	predictor, err := s.Model.Get(ctx)
	if err != nil {
		return Result{}, err
	}
	FillModelSkills(validated, predictor.Schema())
	predictions, err := s.Model.Predict(ctx, validated)
	if err != nil {
		return Result{}, err
	}

	scored, err := report.WithPredictions(validated, predictions)
	if err != nil {
		return Result{}, err
	}
	summary := report.Summarize(validated, predictions)

	now := s.now()
	run := Run{
		ID:          uuid.NewString(),
		SessionID:   up.SessionID,
		FileName:    up.FileName,
		SourceType:  kind,
		RecordCount: scored.Len(),
		MarketIndex: marketIndex,
		MarketLive:  ok && up.UseMarketData,
		MarketUsed:  up.UseMarketData,
		ModelName:   predictor.Name(),
		Stats:       summary.Stats,
		TopJobs:     summary.TopJobs,
		CreatedAt:   now,
	}

	uploadKey, _, _, err := s.Store.Save(ctx, up.SessionID, up.FileName, bytes.NewReader(up.Data))
	if err != nil {
		return Result{}, fmt.Errorf("store upload: %w", err)
	}
	run.UploadKey = uploadKey

	csvData, err := dataset.EncodeCSV(scored)
	if err != nil {
		return Result{}, err
	}
	prefix := path.Join("batches", util.HashKey(up.SessionID), run.ID)
	run.ExportKey = path.Join(prefix, run.ExportFileName())
	if _, err := s.Store.SaveWithKey(ctx, run.ExportKey, "text/csv", bytes.NewReader(csvData)); err != nil {
		return Result{}, fmt.Errorf("store export: %w", err)
	}
	run.ReportKey = path.Join(prefix, run.ReportFileName())
	reportText := report.Text(summary, now)
	if _, err := s.Store.SaveWithKey(ctx, run.ReportKey, "text/plain; charset=utf-8", strings.NewReader(reportText)); err != nil {
		return Result{}, fmt.Errorf("store report: %w", err)
	}

	if err := s.Repo.Create(ctx, run); err != nil {
		return Result{}, err
	}
	metrics.IncBatchRun(run.RecordCount)
	s.publish(ctx, run, up.RequestID)

	return Result{Run: run, Summary: summary, Preview: scored.Head(previewRows)}, nil
}

func (s *Service) publish(ctx context.Context, run Run, requestID string) {
	if s.Queue == nil {
		return
	}
	msg := queue.Message{
		Type:        queue.TypeBatchCompleted,
		RunID:       run.ID,
		SessionID:   run.SessionID,
		RecordCount: run.RecordCount,
		MeanSalary:  run.Stats.Mean,
		ExportKey:   run.ExportKey,
		RequestID:   requestID,
		EnqueuedAt:  s.now().Format(time.RFC3339),
		Version:     queue.MessageVersion,
	}
	if err := s.Queue.Send(ctx, msg); err != nil {
		telemetry.Warn("batch.event.failed", map[string]any{
			"run_id":     run.ID,
			"request_id": requestID,
			"err":        err.Error(),
		})
	}
}

// Get returns a run owned by the session.
func (s *Service) Get(ctx context.Context, sessionID, runID string) (Run, error) {
	if sessionID == "" || runID == "" {
		return Run{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, sessionID, runID)
}

// List returns the session's runs newest first.
func (s *Service) List(ctx context.Context, sessionID string, limit, offset int) ([]Run, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id required", ErrInvalidInput)
	}
	return s.Repo.ListBySession(ctx, sessionID, limit, offset)
}

// Export returns the predictions CSV of a run.
func (s *Service) Export(ctx context.Context, sessionID, runID string) ([]byte, Run, error) {
	run, err := s.Get(ctx, sessionID, runID)
	if err != nil {
		return nil, Run{}, err
	}
	data, err := s.read(ctx, run.ExportKey)
	return data, run, err
}

// Report returns the text summary of a run.
func (s *Service) Report(ctx context.Context, sessionID, runID string) ([]byte, Run, error) {
	run, err := s.Get(ctx, sessionID, runID)
	if err != nil {
		return nil, Run{}, err
	}
	data, err := s.read(ctx, run.ReportKey)
	return data, run, err
}

func (s *Service) read(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
