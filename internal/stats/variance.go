package stats

// VarianceStatus tiers an actual-vs-expected comparison.
type VarianceStatus string

const (
	StatusExceeding VarianceStatus = "exceeding"
	StatusOnTarget  VarianceStatus = "on-target"
	StatusBehind    VarianceStatus = "behind"
	StatusCritical  VarianceStatus = "critical"
)

// Fixed business thresholds on the variance percentage.
const (
	ExceedingThreshold = 10.0
	OnTargetThreshold  = -5.0
	BehindThreshold    = -20.0
)

// VarianceInfo describes how far an actual value deviates from its expectation.
type VarianceInfo struct {
	Expected   float64        `json:"expected"`
	Actual     float64        `json:"actual"`
	Difference float64        `json:"difference"`
	Percentage float64        `json:"percentage"`
	IsPositive bool           `json:"isPositive"`
	Status     VarianceStatus `json:"status"`
}

// ClassifyVariance computes the signed and percentage delta of actual against expected.
// With a zero expectation any positive actual counts as +100%.
func ClassifyVariance(expected, actual float64) VarianceInfo {
	diff := actual - expected

	pct := 0.0
	if expected != 0 {
		pct = diff / expected * 100
	} else if actual > 0 {
		pct = 100
	}

	return VarianceInfo{
		Expected:   expected,
		Actual:     actual,
		Difference: diff,
		Percentage: pct,
		IsPositive: diff >= 0,
		Status:     StatusFor(pct),
	}
}

// StatusFor maps a variance percentage onto its status tier.
func StatusFor(percentage float64) VarianceStatus {
	switch {
	case percentage >= ExceedingThreshold:
		return StatusExceeding
	case percentage >= OnTargetThreshold:
		return StatusOnTarget
	case percentage >= BehindThreshold:
		return StatusBehind
	default:
		return StatusCritical
	}
}
