package performance

import (
	"cmp"
	"slices"

	"revcast/internal/stats"
)

// RankingLimit caps the length of the top/under performer lists.
const RankingLimit = 5

// MonthlyPair is the expected and actual value of one period.
type MonthlyPair struct {
	PeriodKey string  `json:"periodKey"`
	Expected  float64 `json:"expected"`
	Actual    float64 `json:"actual"`
}

// MonthAmount identifies a month by its actual amount.
type MonthAmount struct {
	PeriodKey string  `json:"periodKey"`
	Amount    float64 `json:"amount"`
}

// SourceInput is the YTD history of one revenue source, in chronological order.
type SourceInput struct {
	SourceID  string
	Name      string
	Recurring bool
	Currency  string
	Months    []MonthlyPair
}

// SourcePerformance aggregates the YTD behaviour of a revenue source.
type SourcePerformance struct {
	SourceID     string             `json:"sourceId"`
	Name         string             `json:"name"`
	Recurring    bool               `json:"recurring"`
	Currency     string             `json:"currency,omitempty"`
	YTDExpected  float64            `json:"ytdExpected"`
	YTDActual    float64            `json:"ytdActual"`
	Variance     stats.VarianceInfo `json:"variance"`
	MonthlyTrend Trend              `json:"monthlyTrend"`
	GrowthRate   float64            `json:"growthRate"`
	Reliability  int                `json:"reliability"`
	BestMonth    *MonthAmount       `json:"bestMonth"`
	WorstMonth   *MonthAmount       `json:"worstMonth"`
}

// AnalyzeSource builds the performance record of a single source.
func AnalyzeSource(in SourceInput) SourcePerformance {
	expected := make([]float64, len(in.Months))
	actual := make([]float64, len(in.Months))
	var recorded []float64

	for i, m := range in.Months {
		expected[i] = m.Expected
		actual[i] = m.Actual
		if m.Actual != 0 {
			recorded = append(recorded, m.Actual)
		}
	}

	ytdExpected := stats.Sum(expected)
	ytdActual := stats.Sum(actual)
	trend, growth := ClassifyTrend(recorded)
	best, worst := BestWorstMonth(in.Months)

	return SourcePerformance{
		SourceID:     in.SourceID,
		Name:         in.Name,
		Recurring:    in.Recurring,
		Currency:     in.Currency,
		YTDExpected:  ytdExpected,
		YTDActual:    ytdActual,
		Variance:     stats.ClassifyVariance(ytdExpected, ytdActual),
		MonthlyTrend: trend,
		GrowthRate:   stats.Round(growth, 2),
		Reliability:  Reliability(expected, actual),
		BestMonth:    best,
		WorstMonth:   worst,
	}
}

// BestWorstMonth scans non-zero actuals for the highest and lowest month.
// Ties keep the earliest month.
func BestWorstMonth(months []MonthlyPair) (best, worst *MonthAmount) {
	for _, m := range months {
		if m.Actual == 0 {
			continue
		}
		if best == nil || m.Actual > best.Amount {
			best = &MonthAmount{PeriodKey: m.PeriodKey, Amount: m.Actual}
		}
		if worst == nil || m.Actual < worst.Amount {
			worst = &MonthAmount{PeriodKey: m.PeriodKey, Amount: m.Actual}
		}
	}
	return best, worst
}

// TopPerformers returns the sources at or above plan, largest surplus first.
func TopPerformers(sources []SourcePerformance) []SourcePerformance {
	var top []SourcePerformance
	for _, s := range sources {
		if s.Variance.IsPositive && s.YTDActual > 0 {
			top = append(top, s)
		}
	}
	slices.SortStableFunc(top, func(a, b SourcePerformance) int {
		return cmp.Compare(b.Variance.Difference, a.Variance.Difference)
	})
	return capRanking(top)
}

// Underperformers returns the sources below plan, largest shortfall first.
func Underperformers(sources []SourcePerformance) []SourcePerformance {
	var under []SourcePerformance
	for _, s := range sources {
		if !s.Variance.IsPositive && s.YTDExpected > 0 {
			under = append(under, s)
		}
	}
	slices.SortStableFunc(under, func(a, b SourcePerformance) int {
		return cmp.Compare(a.Variance.Difference, b.Variance.Difference)
	})
	return capRanking(under)
}

func capRanking(list []SourcePerformance) []SourcePerformance {
	if list == nil {
		return []SourcePerformance{}
	}
	if len(list) > RankingLimit {
		return list[:RankingLimit]
	}
	return list
}
