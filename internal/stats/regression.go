package stats

// RegressionModel is an ordinary least-squares line y = Slope*x + Intercept.
type RegressionModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Predict evaluates the fitted line at x.
func (m RegressionModel) Predict(x float64) float64 {
	return m.Slope*x + m.Intercept
}

// FitLinear regresses values against their index (0..n-1).
// Fewer than two points yield a zero slope; a single point becomes the intercept.
func FitLinear(values []float64) RegressionModel {
	n := float64(len(values))
	switch len(values) {
	case 0:
		return RegressionModel{}
	case 1:
		return RegressionModel{Intercept: values[0]}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return RegressionModel{Intercept: sumY / n}
	}

	slope := (n*sumXY - sumX*sumY) / denom
	return RegressionModel{
		Slope:     slope,
		Intercept: (sumY - slope*sumX) / n,
	}
}
