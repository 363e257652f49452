package forecast

import "math"

// AccuracyMetrics summarises how far predictions were from actuals.
// MAPE is nil when no actual value is nonzero.
type AccuracyMetrics struct {
	MAPE *float64 `json:"mape"`
	RMSE float64  `json:"rmse"`
	MAE  float64  `json:"mae"`
}

// Accuracy compares predictions with actuals. ok is false when the slices are
// empty or of different lengths, in which case no metric is computed.
func Accuracy(actual, predicted []float64) (metrics AccuracyMetrics, ok bool) {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return AccuracyMetrics{}, false
	}

	var sumSq, sumAbs, sumPct float64
	pctCount := 0
	for i, a := range actual {
		e := a - predicted[i]
		sumSq += e * e
		sumAbs += math.Abs(e)
		if a != 0 {
			sumPct += math.Abs(e / a)
			pctCount++
		}
	}

	n := float64(len(actual))
	metrics = AccuracyMetrics{
		RMSE: math.Sqrt(sumSq / n),
		MAE:  sumAbs / n,
	}
	if pctCount > 0 {
		mape := sumPct / float64(pctCount) * 100
		metrics.MAPE = &mape
	}
	return metrics, true
}
