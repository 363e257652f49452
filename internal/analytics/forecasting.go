package analytics

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"revcast/internal/forecast"
	"revcast/internal/ledger"
	"revcast/internal/performance"
	"revcast/internal/stats"
)

// ForecastRequest selects what to forecast. An empty SourceID forecasts total revenue.
type ForecastRequest struct {
	SourceID string
	Method   string
	// Periods defaults to the configured horizon when nil.
	Periods  *int
	Scenario string
	// AllScenarios adds the conservative, baseline and optimistic variants.
	AllScenarios bool
	// Seasonal adjusts predictions by the seasonal factors when seasonality is significant.
	Seasonal bool
}

// ForecastResult is a forecast together with the history it was derived from.
type ForecastResult struct {
	SourceID    string                            `json:"sourceId,omitempty"`
	Name        string                            `json:"name"`
	Currency    string                            `json:"currency"`
	Method      forecast.Method                   `json:"method"`
	Scenario    forecast.Scenario                 `json:"scenario"`
	Trend       performance.Trend                 `json:"trend"`
	GrowthRate  float64                           `json:"growthRate"`
	History     []forecast.TimeSeriesPoint        `json:"history"`
	Points      []forecast.ForecastWithConfidence `json:"points"`
	Scenarios   []forecast.ScenarioForecast       `json:"scenarios,omitempty"`
	Seasonality *stats.SeasonalProfile            `json:"seasonality,omitempty"`
}

// ForecastSource forecasts the actual revenue of one source.
func (s *Service) ForecastSource(ctx context.Context, sourceID string, req ForecastRequest) (*ForecastResult, error) {
	if sourceID == "" {
		return nil, fmt.Errorf("%w: empty id", ledger.ErrUnknownSource)
	}
	req.SourceID = sourceID
	return s.Forecast(ctx, req)
}

// ForecastAggregate forecasts total actual revenue across all sources.
func (s *Service) ForecastAggregate(ctx context.Context, req ForecastRequest) (*ForecastResult, error) {
	req.SourceID = ""
	return s.Forecast(ctx, req)
}

// Forecast runs the engine over the assembled series and decorates the result
// with confidence, scenario variants and optional seasonal adjustment.
func (s *Service) Forecast(ctx context.Context, req ForecastRequest) (*ForecastResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	periods := s.opts.Periods
	if req.Periods != nil {
		periods = *req.Periods
	}
	method := s.opts.Method
	if req.Method != "" {
		method = forecast.ParseMethod(req.Method)
	}
	scenario, err := forecast.ParseScenario(req.Scenario)
	if err != nil {
		return nil, err
	}

	res := &ForecastResult{
		SourceID: req.SourceID,
		Name:     "All revenue",
		Currency: s.Currency(),
		Method:   method,
		Scenario: scenario,
	}

	boost := 0.0
	if req.SourceID != "" {
		src, err := s.store.Source(req.SourceID)
		if err != nil {
			return nil, err
		}
		res.Name = src.Name
		if src.Recurring {
			boost = forecast.RecurringBoost
		}
	}

	series, err := s.History(req.SourceID)
	if err != nil {
		return nil, err
	}
	res.History = series

	points, err := forecast.Forecast(series, periods, method)
	if err != nil {
		return nil, err
	}

	values := forecast.Values(series)
	if req.Seasonal {
		profile := stats.DetectSeasonality(values)
		res.Seasonality = &profile
		points = forecast.ApplySeasonality(series, points, profile)
	}

	base := forecast.WithConfidence(series, points, boost)
	res.Points = forecast.Project(base, scenario)
	if req.AllScenarios {
		res.Scenarios = forecast.ProjectAll(base)
	}
	res.Trend, res.GrowthRate = performance.ClassifyTrend(values)
	res.GrowthRate = stats.Round(res.GrowthRate, 2)

	log.Debug().
		Str("source", req.SourceID).
		Str("method", string(method)).
		Int("history", len(series)).
		Int("periods", periods).
		Msg("Forecast computed")
	return res, nil
}

// SeasonalityResult is the seasonal profile of a series.
type SeasonalityResult struct {
	SourceID     string `json:"sourceId,omitempty"`
	Observations int    `json:"observations"`
	stats.SeasonalProfile
}

// Seasonality detects a 12-month seasonal pattern in a source, or in total revenue.
func (s *Service) Seasonality(ctx context.Context, sourceID string) (*SeasonalityResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	series, err := s.History(sourceID)
	if err != nil {
		return nil, err
	}
	return &SeasonalityResult{
		SourceID:        sourceID,
		Observations:    len(series),
		SeasonalProfile: stats.DetectSeasonality(forecast.Values(series)),
	}, nil
}

// BacktestRequest configures a walk-forward replay.
type BacktestRequest struct {
	SourceID string
	Method   string
	MinTrain int
	Horizon  int
}

// Backtest replays history for a source, or total revenue, and scores the method.
func (s *Service) Backtest(ctx context.Context, req BacktestRequest) (*forecast.WalkForwardResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	method := s.opts.Method
	if req.Method != "" {
		method = forecast.ParseMethod(req.Method)
	}

	boost := 0.0
	if req.SourceID != "" {
		src, err := s.store.Source(req.SourceID)
		if err != nil {
			return nil, err
		}
		if src.Recurring {
			boost = forecast.RecurringBoost
		}
	}

	series, err := s.History(req.SourceID)
	if err != nil {
		return nil, err
	}

	res, err := forecast.WalkForward(series, forecast.WalkForwardConfig{
		Method:   method,
		MinTrain: req.MinTrain,
		Horizon:  req.Horizon,
		Boost:    boost,
	})
	if err != nil {
		return nil, fmt.Errorf("backtest failed: %w", err)
	}
	return &res, nil
}
