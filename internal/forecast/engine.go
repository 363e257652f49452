package forecast

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"revcast/internal/stats"
)

// Method selects the baseline forecasting model.
type Method string

const (
	MethodSimple      Method = "simple"
	MethodWeighted    Method = "weighted"
	MethodExponential Method = "exponential"
	MethodLinear      Method = "linear"
)

// DefaultMethod is used whenever a caller supplies an unknown method name.
const DefaultMethod = MethodWeighted

const (
	// Window is the number of trailing observations averaged by the simple and weighted methods.
	Window = 3
	// SmoothingAlpha is the EMA smoothing factor of the exponential method.
	SmoothingAlpha = 0.3
	// ExponentialGrowthDamping scales the growth overlay of the exponential method.
	ExponentialGrowthDamping = 0.5
)

// ErrNegativePeriods is returned when a forecast for fewer than zero periods is requested.
var ErrNegativePeriods = errors.New("forecast periods must not be negative")

// Methods lists every selectable method.
func Methods() []Method {
	return []Method{MethodSimple, MethodWeighted, MethodExponential, MethodLinear}
}

// ParseMethod resolves a method name, falling back to DefaultMethod.
func ParseMethod(name string) Method {
	switch m := Method(strings.ToLower(strings.TrimSpace(name))); m {
	case MethodSimple, MethodWeighted, MethodExponential, MethodLinear:
		return m
	default:
		return DefaultMethod
	}
}

// Forecast projects the series `periods` months past its last period.
// Inputs are validated before any computation; an empty series yields an empty forecast.
func Forecast(series []TimeSeriesPoint, periods int, method Method) ([]ForecastPoint, error) {
	if periods < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativePeriods, periods)
	}
	method = ParseMethod(string(method))

	if len(series) == 0 || periods == 0 {
		return []ForecastPoint{}, nil
	}

	keys, err := futureKeys(series[len(series)-1].PeriodKey, periods)
	if err != nil {
		return nil, err
	}

	predict := predictor(Values(series), method)

	points := make([]ForecastPoint, periods)
	for i := range points {
		points[i] = ForecastPoint{
			PeriodKey: keys[i],
			Predicted: math.Max(0, predict(i+1)),
			Method:    method,
		}
	}
	return points, nil
}

// predictor returns the value of the i-th (1-indexed) future period for a method.
func predictor(values []float64, method Method) func(i int) float64 {
	switch method {
	case MethodSimple:
		base := trailingMean(values, Window)
		return func(int) float64 { return base }

	case MethodExponential:
		return compound(ExponentialAverage(values, SmoothingAlpha), GrowthRate(values)*ExponentialGrowthDamping)

	case MethodLinear:
		model := stats.FitLinear(values)
		n := len(values)
		return func(i int) float64 { return model.Predict(float64(n + i - 1)) }

	default:
		return compound(weightedAverage(values, Window), GrowthRate(values))
	}
}

func compound(base, growth float64) func(i int) float64 {
	return func(i int) float64 {
		return base * math.Pow(1+growth, float64(i))
	}
}

// GrowthRate is the mean period-over-period relative change. Steps whose previous
// value is zero are skipped.
func GrowthRate(values []float64) float64 {
	sum := 0.0
	count := 0
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			continue
		}
		sum += (values[i] - prev) / prev
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// ExponentialAverage is an EMA seeded with the first observation.
func ExponentialAverage(values []float64, alpha float64) float64 {
	if len(values) == 0 {
		return 0
	}
	ema := values[0]
	for _, v := range values[1:] {
		ema = alpha*v + (1-alpha)*ema
	}
	return ema
}

func trailing(values []float64, window int) []float64 {
	if len(values) < window {
		return values
	}
	return values[len(values)-window:]
}

func trailingMean(values []float64, window int) float64 {
	return stats.Mean(trailing(values, window))
}

// weightedAverage weights the trailing window 1..k, the most recent point heaviest.
func weightedAverage(values []float64, window int) float64 {
	tail := trailing(values, window)
	if len(tail) == 0 {
		return 0
	}
	sum, weights := 0.0, 0.0
	for i, v := range tail {
		w := float64(i + 1)
		sum += v * w
		weights += w
	}
	return sum / weights
}

// ApplySeasonality scales each point by the seasonal factor of its position in the
// extended series. Non-seasonal profiles leave the points unchanged.
func ApplySeasonality(series []TimeSeriesPoint, points []ForecastPoint, profile stats.SeasonalProfile) []ForecastPoint {
	out := make([]ForecastPoint, len(points))
	for i, p := range points {
		p.Predicted = math.Max(0, p.Predicted*profile.Factor(len(series)+i))
		out[i] = p
	}
	return out
}
