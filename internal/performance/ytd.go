package performance

import (
	"revcast/internal/stats"
)

// MonthsPerYear is the length of a fiscal year in months.
const MonthsPerYear = 12

// MonthlyTotals are the aggregate revenue and expense figures of one period.
type MonthlyTotals struct {
	PeriodKey       string  `json:"periodKey"`
	RevenueExpected float64 `json:"revenueExpected"`
	RevenueActual   float64 `json:"revenueActual"`
	ExpenseExpected float64 `json:"expenseExpected"`
	ExpenseActual   float64 `json:"expenseActual"`
}

// YTDInput holds the months counted as year-to-date (chronological) plus the full-year budget.
type YTDInput struct {
	Months        []MonthlyTotals
	CurrentPeriod string
	AnnualBudget  float64
}

// PeriodProgress describes how far the current period is towards its expectation.
type PeriodProgress struct {
	PeriodKey       string  `json:"periodKey"`
	Actual          float64 `json:"actual"`
	Expected        float64 `json:"expected"`
	PercentComplete float64 `json:"percentComplete"`
}

// YTDSummary is the aggregate year-to-date view.
type YTDSummary struct {
	Revenue       stats.VarianceInfo `json:"revenue"`
	Net           stats.VarianceInfo `json:"net"`
	CurrentPeriod PeriodProgress     `json:"currentPeriod"`
	MonthsElapsed int                `json:"monthsElapsed"`
	ProjectedEOY  float64            `json:"projectedEOY"`
	BudgetEOY     float64            `json:"budgetEOY"`
	EOYVariance   stats.VarianceInfo `json:"eoyVariance"`
}

// Summarize sums the YTD months and extrapolates the run rate to year end.
func Summarize(in YTDInput) YTDSummary {
	var revExp, revAct, expExp, expAct float64
	current := PeriodProgress{PeriodKey: in.CurrentPeriod}

	for _, m := range in.Months {
		revExp += m.RevenueExpected
		revAct += m.RevenueActual
		expExp += m.ExpenseExpected
		expAct += m.ExpenseActual
		if m.PeriodKey == in.CurrentPeriod {
			current.Actual = m.RevenueActual
			current.Expected = m.RevenueExpected
		}
	}
	if current.Expected != 0 {
		current.PercentComplete = current.Actual / current.Expected * 100
	}

	elapsed := len(in.Months)
	projected := ProjectEndOfYear(revAct, elapsed)

	return YTDSummary{
		Revenue:       stats.ClassifyVariance(revExp, revAct),
		Net:           stats.ClassifyVariance(revExp-expExp, revAct-expAct),
		CurrentPeriod: current,
		MonthsElapsed: elapsed,
		ProjectedEOY:  projected,
		BudgetEOY:     in.AnnualBudget,
		EOYVariance:   stats.ClassifyVariance(in.AnnualBudget, projected),
	}
}

// ProjectEndOfYear extrapolates the average monthly actual over the remaining months.
func ProjectEndOfYear(ytdActual float64, monthsElapsed int) float64 {
	if monthsElapsed <= 0 {
		return ytdActual
	}
	avg := ytdActual / float64(monthsElapsed)
	remaining := max(0, MonthsPerYear-monthsElapsed)
	return ytdActual + avg*float64(remaining)
}
