package batch

import (
	"time"

	"salary-backend/internal/report"
)

const (
	apiBase     = "/api/v1/batches"
	TemplateURL = apiBase + "/template"
)

// MarketResponse describes the index a run used.
type MarketResponse struct {
	Value float64 `json:"value"`
	Live  bool    `json:"live"`
	Used  bool    `json:"used"`
}

// RunResponse is the outward-facing representation of a batch run.
type RunResponse struct {
	RunID          string             `json:"runId"`
	FileName       string             `json:"fileName"`
	SourceType     string             `json:"sourceType"`
	RecordCount    int                `json:"recordCount"`
	Market         MarketResponse     `json:"market"`
	Model          string             `json:"model"`
	Stats          report.Stats       `json:"stats"`
	TopJobs        []report.GroupMean `json:"topJobs"`
	ExportURL      string             `json:"exportUrl"`
	ExportFileName string             `json:"exportFileName"`
	ReportURL      string             `json:"reportUrl"`
	ReportFileName string             `json:"reportFileName"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// PreviewResponse holds the first rows of the scored table.
type PreviewResponse struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ProcessResponse is returned after a successful upload.
type ProcessResponse struct {
	RunResponse
	ByIndustry  []report.GroupMean `json:"byIndustry,omitempty"`
	ByEducation []report.GroupMean `json:"byEducation,omitempty"`
	Preview     PreviewResponse    `json:"preview"`
}

func toResponse(run Run) RunResponse {
	topJobs := run.TopJobs
	if topJobs == nil {
		topJobs = []report.GroupMean{}
	}
	return RunResponse{
		RunID:       run.ID,
		FileName:    run.FileName,
		SourceType:  run.SourceType,
		RecordCount: run.RecordCount,
		Market: MarketResponse{
			Value: run.MarketIndex,
			Live:  run.MarketLive,
			Used:  run.MarketUsed,
		},
		Model:          run.ModelName,
		Stats:          run.Stats,
		TopJobs:        topJobs,
		ExportURL:      apiBase + "/" + run.ID + "/export",
		ExportFileName: run.ExportFileName(),
		ReportURL:      apiBase + "/" + run.ID + "/report",
		ReportFileName: run.ReportFileName(),
		CreatedAt:      run.CreatedAt,
	}
}

func toProcessResponse(res Result) ProcessResponse {
	out := ProcessResponse{
		RunResponse: toResponse(res.Run),
		ByIndustry:  res.Summary.ByIndustry,
		ByEducation: res.Summary.ByEducation,
	}
	if res.Preview != nil {
		out.Preview = PreviewResponse{Columns: res.Preview.Columns, Rows: res.Preview.Rows}
	}
	return out
}
