package model

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"salary-backend/internal/dataset"
)

// Linear scores rows with an Artifact.
type Linear struct {
	art    Artifact
	schema []string
}

// NewLinear wraps a decoded artifact.
func NewLinear(a Artifact) *Linear {
	return &Linear{art: a, schema: a.columns()}
}

func (m *Linear) Name() string { return m.art.Name }

func (m *Linear) Schema() []string { return append([]string(nil), m.schema...) }

// Predict scores every row. A cell that cannot be parsed as a number fails
// the whole call.
func (m *Linear) Predict(ctx context.Context, t *dataset.Table) ([]float64, error) {
	if err := CheckSchema(m, t); err != nil {
		return nil, err
	}
	out := make([]float64, t.Len())
	for i := range t.Rows {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		terms, err := m.terms(t, i)
		if err != nil {
			return nil, err
		}
		y := m.art.Intercept
		for _, c := range terms {
			y += c.Impact
		}
		if m.art.Floor != nil && y < *m.art.Floor {
			y = *m.art.Floor
		}
		out[i] = y
	}
	return out, nil
}

// Explain returns the largest contributions to row's prediction by magnitude.
func (m *Linear) Explain(t *dataset.Table, row, limit int) ([]Contribution, error) {
	if err := CheckSchema(m, t); err != nil {
		return nil, err
	}
	if row < 0 || row >= t.Len() {
		return nil, fmt.Errorf("row %d out of range", row)
	}
	terms, err := m.terms(t, row)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(terms, func(i, j int) bool {
		return math.Abs(terms[i].Impact) > math.Abs(terms[j].Impact)
	})
	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}
	return terms, nil
}

func (m *Linear) terms(t *dataset.Table, row int) ([]Contribution, error) {
	out := make([]Contribution, 0, len(m.schema))
	for _, n := range m.art.Numeric {
		raw, _ := t.Cell(row, n.Column)
		x, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, &InferenceError{Err: fmt.Errorf("row %d: column %q: cannot convert %q to a number", row+1, n.Column, raw)}
		}
		scale := n.Scale
		if scale == 0 {
			scale = 1
		}
		out = append(out, Contribution{
			Feature: n.Column,
			Value:   raw,
			Impact:  n.Weight * (x - n.Mean) / scale,
		})
	}
	for _, c := range m.art.Categorical {
		raw, _ := t.Cell(row, c.Column)
		val := strings.TrimSpace(raw)
		w, ok := c.Levels[val]
		if !ok {
			w = c.Unknown
		}
		out = append(out, Contribution{
			Feature: c.Column,
			Value:   val,
			Impact:  w,
		})
	}
	return out, nil
}

var (
	_ Predictor = (*Linear)(nil)
	_ Explainer = (*Linear)(nil)
)
