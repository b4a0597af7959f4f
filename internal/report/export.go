package report

import (
	"fmt"
	"strconv"
	"time"

	"salary-backend/internal/dataset"
	"salary-backend/internal/features"
)

const (
	TemplateFileName = "salary_template.csv"
	stampLayout      = "20060102_150405"
)

// PredictionsFileName is the CSV export name for a run at t.
func PredictionsFileName(t time.Time) string {
	return fmt.Sprintf("salary_predictions_%s.csv", t.Format(stampLayout))
}

// ReportFileName is the text report name for a run at t.
func ReportFileName(t time.Time) string {
	return fmt.Sprintf("salary_report_%s.txt", t.Format(stampLayout))
}

// WithPredictions returns a copy of t with a trailing Predicted_Salary column.
// A Predicted_Salary column already in t, as in a re-uploaded export, is
// replaced.
func WithPredictions(t *dataset.Table, predictions []float64) (*dataset.Table, error) {
	values := make([]string, len(predictions))
	for i, p := range predictions {
		values[i] = strconv.FormatFloat(p, 'f', 2, 64)
	}
	out := t.Clone()
	out.DropColumn(features.ColPredictedSalary)
	if err := out.AddColumnValues(features.ColPredictedSalary, values); err != nil {
		return nil, err
	}
	return out, nil
}

// Summarize builds the Summary for a validated table and its predictions.
func Summarize(t *dataset.Table, predictions []float64) Summary {
	s := Summary{Stats: Compute(predictions)}
	if titles, ok := t.Column(features.ColJobTitle); ok {
		s.TopJobs = GroupMeans(titles, predictions, TopJobsLimit)
	}
	if industries, ok := t.Column(features.ColIndustry); ok {
		s.ByIndustry = GroupMeans(industries, predictions, 0)
	}
	if levels, ok := t.Column(features.ColEducation); ok {
		s.ByEducation = GroupMeans(levels, predictions, 0)
	}
	return s
}
