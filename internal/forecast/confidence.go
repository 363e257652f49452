package forecast

import (
	"math"

	"revcast/internal/stats"
)

const (
	MinConfidence = 20.0
	MaxConfidence = 95.0
	// ConfidenceDecay is the number of points lost per period of forecast distance.
	ConfidenceDecay = 5.0
	// RecurringBoost is added to the base confidence of recurring-revenue sources.
	RecurringBoost = 10.0
)

// BaseConfidence converts series volatility into a 20–95 score.
func BaseConfidence(values []float64, boost float64) float64 {
	cov := stats.CoefficientOfVariation(values)
	return stats.Clamp(100-cov*100+boost, MinConfidence, MaxConfidence)
}

// Score is the confidence of the horizon-th (0-indexed) future period.
func Score(values []float64, horizon int, boost float64) float64 {
	return decay(BaseConfidence(values, boost), horizon)
}

func decay(base float64, horizon int) float64 {
	return math.Max(MinConfidence, base-ConfidenceDecay*float64(horizon))
}

// Bounds returns the symmetric band around predicted implied by a confidence score.
// The lower bound is not floored at zero.
func Bounds(predicted, confidence float64) (lower, upper float64) {
	uncertainty := predicted * (1 - confidence/100)
	return predicted - uncertainty, predicted + uncertainty
}

// WithConfidence attaches horizon-decayed confidence and bounds to each point.
func WithConfidence(series []TimeSeriesPoint, points []ForecastPoint, boost float64) []ForecastWithConfidence {
	base := BaseConfidence(Values(series), boost)

	out := make([]ForecastWithConfidence, len(points))
	for i, p := range points {
		conf := decay(base, i)
		lower, upper := Bounds(p.Predicted, conf)
		out[i] = ForecastWithConfidence{
			ForecastPoint: p,
			Confidence:    conf,
			LowerBound:    lower,
			UpperBound:    upper,
		}
	}
	return out
}
