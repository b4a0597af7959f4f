// Package predictions serves single-profile salary estimates.
package predictions

import (
	"context"
	"errors"
	"math"

	"salary-backend/internal/features"
	"salary-backend/internal/market"
	"salary-backend/internal/model"
	"salary-backend/internal/shared/metrics"
	"salary-backend/internal/shared/telemetry"
)

const topFactors = 5

// Breakdown splits an annual salary into shorter pay periods.
type Breakdown struct {
	Annual  float64 `json:"annual"`
	Monthly float64 `json:"monthly"`
	Weekly  float64 `json:"weekly"`
	Daily   float64 `json:"daily"`
	Hourly  float64 `json:"hourly"`
}

// MarketUsage describes the market index fed to the model.
type MarketUsage struct {
	Value float64 `json:"value"`
	Live  bool    `json:"live"`
	Used  bool    `json:"used"`
}

// Estimate is the result of one prediction.
type Estimate struct {
	Salary     float64
	Breakdown  Breakdown
	Confidence float64
	Market     MarketUsage
	Record     features.Record
	Factors    []model.Contribution
	Model      string
}

// Service predicts salaries for validated profiles.
type Service struct {
	Model  *model.Holder
	Market market.Source
}

// Predict validates p, assembles its record and runs a single-row inference.
func (s *Service) Predict(ctx context.Context, p features.Profile, useMarket bool) (Estimate, error) {
	if err := p.Validate(); err != nil {
		return Estimate{}, err
	}
	predictor, err := s.Model.Get(ctx)
	if err != nil {
		return Estimate{}, err
	}
	if err := model.CheckColumns(predictor, features.Columns()); err != nil {
		return Estimate{}, err
	}

	live, ok := s.Market.Lookup(ctx)
	marketIndex := market.Resolve(live, ok, useMarket)

	record := features.Assemble(p, marketIndex)
	table := record.Table()
	out, err := s.Model.Predict(ctx, table)
	if err != nil {
		return Estimate{}, err
	}
	if len(out) != 1 {
		return Estimate{}, &model.InferenceError{Err: errors.New("model returned no prediction")}
	}
	salary := out[0]

	factors, _ := s.Model.Explain(ctx, table, 0, topFactors)
	metrics.IncSinglePrediction()
	telemetry.Info("prediction.completed", map[string]any{
		"model":        predictor.Name(),
		"market_live":  ok && useMarket,
		"market_index": marketIndex,
	})

	return Estimate{
		Salary:     salary,
		Breakdown:  Split(salary),
		Confidence: Confidence(p.YearsOfExperience),
		Market:     MarketUsage{Value: marketIndex, Live: ok && useMarket, Used: useMarket},
		Record:     record,
		Factors:    factors,
		Model:      predictor.Name(),
	}, nil
}

// Split derives pay-period figures from an annual salary.
func Split(annual float64) Breakdown {
	return Breakdown{
		Annual:  round2(annual),
		Monthly: round2(annual / 12),
		Weekly:  round2(annual / 52),
		Daily:   round2(annual / 260),
		Hourly:  round2(annual / 2080),
	}
}

// Confidence grows with experience, bounded to [70, 95].
func Confidence(years int) float64 {
	return math.Min(95, math.Max(70, 75+float64(years)*1.5))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
