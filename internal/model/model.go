// Package model loads the salary prediction pipeline and runs inference.
// The pipeline is opaque to callers: a function from a fixed-schema table
// to one salary per row.
package model

import (
	"context"

	"salary-backend/internal/dataset"
)

// Predictor maps every row of a table to a salary estimate.
type Predictor interface {
	Predict(ctx context.Context, t *dataset.Table) ([]float64, error)
	// Schema lists the columns the predictor reads; nil means unknown.
	Schema() []string
	Name() string
}

// Contribution is one term of an explained prediction.
type Contribution struct {
	Feature string  `json:"feature"`
	Value   string  `json:"value"`
	Impact  float64 `json:"impact"`
}

// Explainer is implemented by predictors that can attribute a prediction.
type Explainer interface {
	Explain(t *dataset.Table, row, limit int) ([]Contribution, error)
}

// Info describes the loaded model for status endpoints.
type Info struct {
	Loaded bool     `json:"loaded"`
	Name   string   `json:"name,omitempty"`
	Source string   `json:"source,omitempty"`
	Schema []string `json:"schema,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// CheckSchema reports every predictor column absent from t. Extra columns
// in t are ignored.
func CheckSchema(p Predictor, t *dataset.Table) error {
	var missing []string
	for _, col := range p.Schema() {
		if !t.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaMismatchError{Model: p.Name(), Missing: missing}
	}
	return nil
}

// CheckColumns compares the predictor schema with a fixed record layout in
// both directions. A predictor with an unknown schema always passes.
func CheckColumns(p Predictor, columns []string) error {
	schema := p.Schema()
	if schema == nil {
		return nil
	}
	want := make(map[string]bool, len(schema))
	for _, col := range schema {
		want[col] = true
	}
	have := make(map[string]bool, len(columns))
	var unexpected []string
	for _, col := range columns {
		have[col] = true
		if !want[col] {
			unexpected = append(unexpected, col)
		}
	}
	var missing []string
	for _, col := range schema {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing)+len(unexpected) > 0 {
		return &SchemaMismatchError{Model: p.Name(), Missing: missing, Unexpected: unexpected}
	}
	return nil
}
