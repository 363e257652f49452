package performance

import (
	"math"

	"revcast/internal/stats"
)

// Trend classifies the direction of a monthly series.
type Trend string

const (
	TrendGrowing   Trend = "growing"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// TrendThreshold is the slope, as a percentage of the series mean, beyond which a
// series counts as growing or declining.
const TrendThreshold = 3.0

// HitThreshold is the relative shortfall still counted as meeting target.
const HitThreshold = -0.1

// ClassifyTrend fits a regression line and expresses its slope relative to the mean.
func ClassifyTrend(values []float64) (Trend, float64) {
	model := stats.FitLinear(values)
	avg := stats.Mean(values)

	slopePct := 0.0
	if avg != 0 {
		slopePct = model.Slope / avg * 100
	}

	switch {
	case slopePct > TrendThreshold:
		return TrendGrowing, slopePct
	case slopePct < -TrendThreshold:
		return TrendDeclining, slopePct
	default:
		return TrendStable, slopePct
	}
}

// Reliability is the share (0-100) of measured periods in which the actual came within
// 10% under the expectation or beat it. Periods with neither value are not measured.
func Reliability(expected, actual []float64) int {
	n := min(len(expected), len(actual))
	measured, hits := 0, 0
	for i := 0; i < n; i++ {
		e, a := expected[i], actual[i]
		if e <= 0 && a <= 0 {
			continue
		}
		measured++

		variance := 0.0
		if e != 0 {
			variance = (a - e) / e
		}
		if variance >= HitThreshold {
			hits++
		}
	}

	if measured == 0 {
		return 100
	}
	return int(math.Round(float64(hits) / float64(measured) * 100))
}
