package batch

import (
	"time"

	"salary-backend/internal/report"
)

// Run records one processed batch upload.
type Run struct {
	ID          string
	SessionID   string
	FileName    string
	SourceType  string
	UploadKey   string
	RecordCount int
	MarketIndex float64
	MarketLive  bool
	MarketUsed  bool
	ModelName   string
	Stats       report.Stats
	TopJobs     []report.GroupMean
	ExportKey   string
	ReportKey   string
	CreatedAt   time.Time
}

// ExportFileName is the download name of the predictions CSV.
func (r Run) ExportFileName() string {
	return report.PredictionsFileName(r.CreatedAt)
}

// ReportFileName is the download name of the text summary.
func (r Run) ReportFileName() string {
	return report.ReportFileName(r.CreatedAt)
}
