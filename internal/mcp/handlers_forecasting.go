package mcp

import (
	"context"
	"fmt"

	"revcast/internal/analytics"
	"revcast/internal/forecast"
	"revcast/internal/visuals"
)

// LowConfidence marks forecasts that should be read as indicative only.
const LowConfidence = 50.0

func (s *Server) handleForecastRevenue(ctx context.Context, args forecastArgs) (toolOutput, error) {
	res, err := s.svc.Forecast(ctx, analytics.ForecastRequest{
		SourceID: args.SourceID,
		Method:   args.Method,
		Periods:  args.Periods,
		Scenario: args.Scenario,
		Seasonal: args.Seasonal,
	})
	if err != nil {
		return toolOutput{}, err
	}

	return wrapResponse(res,
		visuals.GenerateForecastChart(res.History, res.Points, res.Currency),
		forecastGuidance(res),
		forecastWarnings(res)), nil
}

func (s *Server) handleProjectScenarios(ctx context.Context, args scenarioArgs) (toolOutput, error) {
	res, err := s.svc.Forecast(ctx, analytics.ForecastRequest{
		SourceID:     args.SourceID,
		Method:       args.Method,
		Periods:      args.Periods,
		Seasonal:     args.Seasonal,
		AllScenarios: true,
	})
	if err != nil {
		return toolOutput{}, err
	}

	totals := make(map[forecast.Scenario]float64, len(res.Scenarios))
	for _, sc := range res.Scenarios {
		for _, p := range sc.Points {
			totals[sc.Scenario] += p.Predicted
		}
	}

	data := map[string]any{
		"sourceId":  res.SourceID,
		"name":      res.Name,
		"currency":  res.Currency,
		"method":    res.Method,
		"scenarios": res.Scenarios,
		"totals":    totals,
	}
	guidance := []string{
		"Scenario factors are fixed multipliers on the baseline forecast; they do not model specific business events.",
	}
	return wrapResponse(data,
		visuals.GenerateForecastChart(res.History, res.Points, res.Currency),
		guidance,
		forecastWarnings(res)), nil
}

func (s *Server) handleDetectSeasonality(ctx context.Context, args sourceArgs) (toolOutput, error) {
	res, err := s.svc.Seasonality(ctx, args.SourceID)
	if err != nil {
		return toolOutput{}, err
	}

	var warnings []string
	if res.Observations < 12 {
		warnings = append(warnings, fmt.Sprintf("Only %d months of history: seasonality needs at least 12.", res.Observations))
	}
	var guidance []string
	if res.HasSeasonality {
		guidance = append(guidance, "Seasonality is significant: call 'forecast_revenue' with seasonal=true to apply the factors.")
	}
	return wrapResponse(res, "", guidance, warnings), nil
}

func (s *Server) handleEvaluateAccuracy(_ context.Context, args accuracyArgs) (toolOutput, error) {
	metrics, ok := forecast.Accuracy(args.Actual, args.Predicted)
	if !ok {
		return toolOutput{}, fmt.Errorf("actual and predicted must be non-empty and of equal length (got %d and %d)", len(args.Actual), len(args.Predicted))
	}

	var warnings []string
	if metrics.MAPE == nil {
		warnings = append(warnings, "MAPE is undefined because every actual value is zero.")
	}
	return wrapResponse(metrics, "", nil, warnings), nil
}

func (s *Server) handleBacktestForecast(ctx context.Context, args backtestArgs) (toolOutput, error) {
	res, err := s.svc.Backtest(ctx, analytics.BacktestRequest{
		SourceID: args.SourceID,
		Method:   args.Method,
		MinTrain: args.MinTrain,
		Horizon:  args.Horizon,
	})
	if err != nil {
		return toolOutput{}, err
	}

	guidance := []string{
		"Compare methods by running the backtest once per method and picking the lowest MAPE.",
	}
	return wrapResponse(res, visuals.GenerateBacktestChart(*res), guidance, nil), nil
}

func forecastGuidance(res *analytics.ForecastResult) []string {
	if len(res.Points) == 0 {
		return nil
	}
	return []string{
		fmt.Sprintf("Method '%s' over %d months of history; trend is %s (%.2f%% per month).", res.Method, len(res.History), res.Trend, res.GrowthRate),
		"Use 'backtest_forecast' to check how this method would have performed historically.",
	}
}

func forecastWarnings(res *analytics.ForecastResult) []string {
	var warnings []string
	if len(res.History) == 0 {
		warnings = append(warnings, "No recorded revenue: the forecast is empty.")
		return warnings
	}
	if len(res.History) < forecast.Window {
		warnings = append(warnings, fmt.Sprintf("Only %d months of history: predictions rest on very little data.", len(res.History)))
	}
	if len(res.Points) > 0 && res.Points[0].Confidence < LowConfidence {
		warnings = append(warnings, fmt.Sprintf("Confidence is %.0f%%: history is volatile, treat the forecast as indicative only.", res.Points[0].Confidence))
	}
	if res.Seasonality != nil && !res.Seasonality.HasSeasonality {
		warnings = append(warnings, "No significant seasonality detected: predictions were not adjusted.")
	}
	return warnings
}
