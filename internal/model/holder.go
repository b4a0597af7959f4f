package model

import (
	"context"
	"sync"
	"time"

	"salary-backend/internal/dataset"
	"salary-backend/internal/shared/metrics"
	"salary-backend/internal/shared/telemetry"
)

// Holder loads the model at most once and shares it read-only. A failed
// load leaves prediction disabled for the life of the process.
type Holder struct {
	resolvers []Resolver

	once   sync.Once
	pred   Predictor
	source string
	err    error
}

// NewHolder defers resolution until first use.
func NewHolder(resolvers ...Resolver) *Holder {
	return &Holder{resolvers: resolvers}
}

// Static wraps an already constructed predictor.
func Static(p Predictor, source string) *Holder {
	h := &Holder{pred: p, source: source}
	h.once.Do(func() {})
	return h
}

// Get returns the shared predictor or an ErrModelUnavailable error.
func (h *Holder) Get(ctx context.Context) (Predictor, error) {
	h.once.Do(func() {
		h.pred, h.source, h.err = Chain(context.WithoutCancel(ctx), h.resolvers...)
		if h.err != nil {
			telemetry.Error("model.unavailable", map[string]any{"err": h.err.Error()})
			return
		}
		telemetry.Info("model.loaded", map[string]any{"name": h.pred.Name(), "source": h.source})
	})
	return h.pred, h.err
}

// Info reports load state, loading the model if needed.
func (h *Holder) Info(ctx context.Context) Info {
	p, err := h.Get(ctx)
	if err != nil {
		return Info{Loaded: false, Error: err.Error()}
	}
	return Info{Loaded: true, Name: p.Name(), Source: h.source, Schema: p.Schema()}
}

// Predict runs one bulk inference call, recording metrics.
func (h *Holder) Predict(ctx context.Context, t *dataset.Table) ([]float64, error) {
	p, err := h.Get(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	out, err := p.Predict(ctx, t)
	metrics.ObserveInferenceDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncInferenceFailed()
		return nil, err
	}
	return out, nil
}

// Explain attributes a single row when the predictor supports it.
func (h *Holder) Explain(ctx context.Context, t *dataset.Table, row, limit int) ([]Contribution, bool) {
	p, err := h.Get(ctx)
	if err != nil {
		return nil, false
	}
	ex, ok := p.(Explainer)
	if !ok {
		return nil, false
	}
	out, err := ex.Explain(t, row, limit)
	if err != nil {
		return nil, false
	}
	return out, true
}
