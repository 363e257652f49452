package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"revcast/internal/forecast"
)

type forecastArgs struct {
	SourceID string `json:"source_id,omitempty" jsonschema:"Revenue source ID. Omit to forecast total revenue across all sources."`
	Method   string `json:"method,omitempty" jsonschema:"Forecast method. Defaults to the configured method."`
	Periods  *int   `json:"periods,omitempty" jsonschema:"Number of future months to forecast. Defaults to the configured horizon."`
	Scenario string `json:"scenario,omitempty" jsonschema:"Scenario applied to the predictions (default: baseline)."`
	Seasonal bool   `json:"seasonal,omitempty" jsonschema:"If true, adjusts predictions by the detected 12-month seasonal factors when seasonality is significant."`
}

type scenarioArgs struct {
	SourceID string `json:"source_id,omitempty" jsonschema:"Revenue source ID. Omit for total revenue."`
	Method   string `json:"method,omitempty" jsonschema:"Forecast method. Defaults to the configured method."`
	Periods  *int   `json:"periods,omitempty" jsonschema:"Number of future months to project."`
	Seasonal bool   `json:"seasonal,omitempty" jsonschema:"If true, applies seasonal adjustment before projecting."`
}

type sourceArgs struct {
	SourceID string `json:"source_id,omitempty" jsonschema:"Revenue source ID. Omit for total revenue."`
}

type accuracyArgs struct {
	Actual    []float64 `json:"actual" jsonschema:"Observed values, in period order."`
	Predicted []float64 `json:"predicted" jsonschema:"Predicted values for the same periods."`
}

type backtestArgs struct {
	SourceID string `json:"source_id,omitempty" jsonschema:"Revenue source ID. Omit for total revenue."`
	Method   string `json:"method,omitempty" jsonschema:"Forecast method to validate."`
	MinTrain int    `json:"min_train,omitempty" jsonschema:"Months of history required before the first checkpoint (default: 3)."`
	Horizon  int    `json:"horizon,omitempty" jsonschema:"How many months ahead each checkpoint forecasts (default: 1)."`
}

type emptyArgs struct{}

func methodNames() []string {
	out := make([]string, 0, 4)
	for _, m := range forecast.Methods() {
		out = append(out, string(m))
	}
	return out
}

var scenarioNames = []string{
	string(forecast.ScenarioConservative),
	string(forecast.ScenarioBaseline),
	string(forecast.ScenarioOptimistic),
	string(forecast.ScenarioCustom),
}

// addTool registers a handler with an inferred input schema. Handler errors are
// reported to the client as tool errors rather than protocol errors.
func addTool[In any](s *Server, name, description string, enums map[string][]string, h func(context.Context, In) (toolOutput, error)) error {
	schema, err := inputSchema[In](enums)
	if err != nil {
		return fmt.Errorf("tool %s: %w", name, err)
	}

	tool := &sdk.Tool{Name: name, Description: description, InputSchema: schema}
	sdk.AddTool(s.server, tool, func(ctx context.Context, _ *sdk.CallToolRequest, args In) (*sdk.CallToolResult, any, error) {
		start := time.Now()
		out, err := h(ctx, args)
		if err != nil {
			log.Error().Err(err).Str("tool", name).Msg("Tool call failed")
			return errorResult(err), nil, nil
		}
		log.Info().Str("tool", name).Dur("duration", time.Since(start)).Msg("Tool call completed")
		return s.toCallResult(out), nil, nil
	})
	return nil
}

func (s *Server) registerTools() error {
	methodEnum := map[string][]string{"method": methodNames()}

	regs := []func() error{
		func() error {
			return addTool(s, "forecast_revenue",
				"Forecast monthly revenue for one source or for total revenue. Returns each future month with its predicted value, "+
					"a confidence score (20-95, decaying 5 points per month of distance) and lower/upper bounds. "+
					"Methods: simple (3-month average), weighted (3-2-1 weighted average compounded by growth), "+
					"exponential (smoothed level with damped growth), linear (least-squares trend).",
				map[string][]string{"method": methodNames(), "scenario": scenarioNames},
				s.handleForecastRevenue)
		},
		func() error {
			return addTool(s, "project_scenarios",
				"Project a forecast under the conservative (x0.9), baseline (x1.0) and optimistic (x1.15) scenarios. "+
					"Confidence stays the same across scenarios; bounds follow the scaled prediction.",
				methodEnum, s.handleProjectScenarios)
		},
		func() error {
			return addTool(s, "detect_seasonality",
				"Detect a 12-month seasonal pattern in the revenue history. Requires at least 12 months of data. "+
					"Returns a factor per month position (1.0 = average month).",
				nil, s.handleDetectSeasonality)
		},
		func() error {
			return addTool(s, "evaluate_accuracy",
				"Compare predicted values against actual values and return MAPE, RMSE and MAE. "+
					"MAPE is omitted when every actual value is zero.",
				nil, s.handleEvaluateAccuracy)
		},
		func() error {
			return addTool(s, "backtest_forecast",
				"Perform a walk-forward analysis: replay history, forecasting each month from the data known before it, "+
					"and report how often actuals fell within the confidence band together with error metrics.",
				methodEnum, s.handleBacktestForecast)
		},
		func() error {
			return addTool(s, "get_ytd_summary",
				"Year-to-date revenue and net result against expectations for the configured fiscal year, "+
					"progress of the current month and a run-rate projection to year end compared with the annual budget.",
				nil, s.handleGetYTDSummary)
		},
		func() error {
			return addTool(s, "get_source_performance",
				"Year-to-date performance of every revenue source (or a single one): expected vs actual, variance status, "+
					"monthly trend, growth rate, reliability and best/worst month.",
				nil, s.handleGetSourcePerformance)
		},
		func() error {
			return addTool(s, "get_top_performers",
				"Up to five revenue sources at or above plan, largest surplus first.",
				nil, s.handleGetTopPerformers)
		},
		func() error {
			return addTool(s, "get_underperformers",
				"Up to five revenue sources below plan, largest shortfall first.",
				nil, s.handleGetUnderperformers)
		},
		func() error {
			return addTool(s, "get_insights",
				"Rule-based observations on the current revenue picture: missing actuals, recurring revenue share, "+
					"currency concentration, month-over-month growth and critically lagging sources.",
				nil, s.handleGetInsights)
		},
	}

	for _, reg := range regs {
		if err := reg(); err != nil {
			return err
		}
	}
	return nil
}
