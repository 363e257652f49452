package forecast

import (
	"fmt"
)

// WalkForwardConfig defines the parameters for the backtesting analysis.
type WalkForwardConfig struct {
	Method   Method
	MinTrain int     // Observations required before the first checkpoint (default 3)
	Horizon  int     // Periods ahead each checkpoint forecasts (default 1)
	Boost    float64 // Confidence boost, e.g. RecurringBoost
}

// ValidationCheckpoint represents a single point in the past where we ran a forecast.
type ValidationCheckpoint struct {
	PeriodKey    string  `json:"periodKey"`
	TrainSize    int     `json:"trainSize"`
	Actual       float64 `json:"actual"`
	Predicted    float64 `json:"predicted"`
	LowerBound   float64 `json:"lowerBound"`
	UpperBound   float64 `json:"upperBound"`
	IsWithinBand bool    `json:"isWithinBand"`
}

// WalkForwardResult holds the aggregate results of the analysis.
type WalkForwardResult struct {
	Method            Method                 `json:"method"`
	Checkpoints       []ValidationCheckpoint `json:"checkpoints"`
	Metrics           *AccuracyMetrics       `json:"metrics,omitempty"`
	AccuracyScore     float64                `json:"accuracyScore"` // share of checkpoints inside the confidence band
	ValidationMessage string                 `json:"validationMessage"`
}

// WalkForward replays history: at every cutoff it forecasts from the data known at
// that time and compares the prediction with what actually happened.
func WalkForward(series []TimeSeriesPoint, cfg WalkForwardConfig) (WalkForwardResult, error) {
	if cfg.MinTrain <= 0 {
		cfg.MinTrain = 3
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = 1
	}
	cfg.Method = ParseMethod(string(cfg.Method))

	result := WalkForwardResult{
		Method:      cfg.Method,
		Checkpoints: make([]ValidationCheckpoint, 0),
	}

	var actuals, predictions []float64
	hits := 0

	for cut := cfg.MinTrain; cut+cfg.Horizon-1 < len(series); cut++ {
		train := series[:cut]
		points, err := Forecast(train, cfg.Horizon, cfg.Method)
		if err != nil {
			return result, fmt.Errorf("checkpoint %s: %w", series[cut].PeriodKey, err)
		}
		banded := WithConfidence(train, points, cfg.Boost)
		p := banded[len(banded)-1]
		actual := series[cut+cfg.Horizon-1]

		cp := ValidationCheckpoint{
			PeriodKey:  actual.PeriodKey,
			TrainSize:  cut,
			Actual:     actual.Value,
			Predicted:  p.Predicted,
			LowerBound: p.LowerBound,
			UpperBound: p.UpperBound,
		}
		if actual.Value >= p.LowerBound && actual.Value <= p.UpperBound {
			cp.IsWithinBand = true
			hits++
		}

		actuals = append(actuals, actual.Value)
		predictions = append(predictions, p.Predicted)
		result.Checkpoints = append(result.Checkpoints, cp)
	}

	total := len(result.Checkpoints)
	if total == 0 {
		result.ValidationMessage = "Insufficient history for backtesting."
		return result, nil
	}

	if m, ok := Accuracy(actuals, predictions); ok {
		result.Metrics = &m
	}
	result.AccuracyScore = float64(hits) / float64(total)
	result.ValidationMessage = fmt.Sprintf("Walk-Forward Analysis: %d/%d (%.0f%%) of actual outcomes fell within the forecast confidence band.", hits, total, result.AccuracyScore*100)
	if result.AccuracyScore < 0.7 && total > 3 {
		result.ValidationMessage += " Warning: Low forecast reliability detected."
	}

	return result, nil
}
