package forecast

// TimeSeriesPoint is a single monthly observation keyed by "YYYY-MM".
type TimeSeriesPoint struct {
	PeriodKey string  `json:"periodKey"`
	Value     float64 `json:"value"`
}

// ForecastPoint is the projected value for one future period.
type ForecastPoint struct {
	PeriodKey string  `json:"periodKey"`
	Predicted float64 `json:"predicted"`
	Method    Method  `json:"method"`
}

// ForecastWithConfidence decorates a forecast point with a confidence score and its band.
type ForecastWithConfidence struct {
	ForecastPoint
	Confidence float64 `json:"confidence"`
	LowerBound float64 `json:"lowerBound"`
	UpperBound float64 `json:"upperBound"`
}

// Values extracts the numeric values of a series, preserving order.
func Values(series []TimeSeriesPoint) []float64 {
	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Value
	}
	return values
}
