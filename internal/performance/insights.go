package performance

import (
	"fmt"

	"github.com/Rhymond/go-money"

	"revcast/internal/stats"
)

// InsightType tags the tone of an insight.
type InsightType string

const (
	InsightWarning InsightType = "warning"
	InsightSuccess InsightType = "success"
	InsightInfo    InsightType = "info"
	InsightAction  InsightType = "action"
)

// Insight is a derived, non-persisted observation about the revenue picture.
type Insight struct {
	ID          string      `json:"id"`
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Metric      string      `json:"metric"`
}

const (
	// GrowthSignificance is the month-over-month change (%) worth reporting.
	GrowthSignificance = 5.0
	// RecurringHealthyShare is the recurring share (%) reported as a success.
	RecurringHealthyShare = 50.0
	// ForeignConcentrationShare is the foreign-currency share (%) reported as a warning.
	ForeignConcentrationShare = 50.0
)

// InsightInput carries the aggregates the insight rules look at. Amounts are in Currency.
type InsightInput struct {
	Currency         string
	LocalCurrency    string
	Current          PeriodProgress
	PreviousActual   float64
	HasPrevious      bool
	TotalRevenue     float64
	RecurringRevenue float64
	ForeignRevenue   float64
	Sources          []SourcePerformance
}

type insightRule func(InsightInput) (Insight, bool)

var insightRules = []insightRule{
	missingActualsInsight,
	recurringShareInsight,
	currencyConcentrationInsight,
	monthOverMonthInsight,
	criticalSourcesInsight,
}

// GenerateInsights runs every rule in order; each contributes at most one insight.
func GenerateInsights(in InsightInput) []Insight {
	insights := make([]Insight, 0, len(insightRules))
	for _, rule := range insightRules {
		if ins, ok := rule(in); ok {
			insights = append(insights, ins)
		}
	}
	return insights
}

func missingActualsInsight(in InsightInput) (Insight, bool) {
	if in.Current.Expected <= 0 || in.Current.Actual != 0 {
		return Insight{}, false
	}
	return Insight{
		ID:          "missing-actuals",
		Type:        InsightAction,
		Title:       fmt.Sprintf("Record actuals for %s", in.Current.PeriodKey),
		Description: fmt.Sprintf("%s is expected for %s but no actual revenue has been recorded yet.", formatMoney(in.Current.Expected, in.Currency), in.Current.PeriodKey),
		Metric:      formatMoney(in.Current.Expected, in.Currency),
	}, true
}

func recurringShareInsight(in InsightInput) (Insight, bool) {
	if in.TotalRevenue <= 0 || in.RecurringRevenue <= 0 {
		return Insight{}, false
	}
	share := in.RecurringRevenue / in.TotalRevenue * 100

	ins := Insight{
		ID:     "recurring-share",
		Type:   InsightInfo,
		Title:  "Recurring revenue share",
		Metric: formatPercent(share),
		Description: fmt.Sprintf("%s of year-to-date revenue (%s) comes from recurring sources.",
			formatMoney(in.RecurringRevenue, in.Currency), formatPercent(share)),
	}
	if share >= RecurringHealthyShare {
		ins.Type = InsightSuccess
		ins.Title = "Strong recurring revenue base"
	}
	return ins, true
}

func currencyConcentrationInsight(in InsightInput) (Insight, bool) {
	if in.TotalRevenue <= 0 || in.ForeignRevenue <= 0 {
		return Insight{}, false
	}
	share := in.ForeignRevenue / in.TotalRevenue * 100
	local := in.LocalCurrency
	if local == "" {
		local = in.Currency
	}

	ins := Insight{
		ID:     "currency-concentration",
		Type:   InsightInfo,
		Title:  "Foreign currency exposure",
		Metric: formatPercent(share),
		Description: fmt.Sprintf("%s of year-to-date revenue is earned outside %s.",
			formatPercent(share), local),
	}
	if share >= ForeignConcentrationShare {
		ins.Type = InsightWarning
		ins.Title = "Revenue concentrated in foreign currencies"
		ins.Description += " Exchange-rate moves will have a large effect on results."
	}
	return ins, true
}

func monthOverMonthInsight(in InsightInput) (Insight, bool) {
	if !in.HasPrevious || in.PreviousActual <= 0 || in.Current.Actual == 0 {
		return Insight{}, false
	}
	growth := (in.Current.Actual - in.PreviousActual) / in.PreviousActual * 100

	switch {
	case growth > GrowthSignificance:
		return Insight{
			ID:          "mom-growth",
			Type:        InsightSuccess,
			Title:       "Revenue up month over month",
			Description: fmt.Sprintf("%s revenue grew %s versus the previous month.", in.Current.PeriodKey, formatPercent(growth)),
			Metric:      "+" + formatPercent(growth),
		}, true
	case growth < -GrowthSignificance:
		return Insight{
			ID:          "mom-growth",
			Type:        InsightWarning,
			Title:       "Revenue down month over month",
			Description: fmt.Sprintf("%s revenue fell %s versus the previous month.", in.Current.PeriodKey, formatPercent(-growth)),
			Metric:      formatPercent(growth),
		}, true
	default:
		return Insight{}, false
	}
}

func criticalSourcesInsight(in InsightInput) (Insight, bool) {
	count := 0
	for _, s := range in.Sources {
		if s.Variance.Status == stats.StatusCritical && s.YTDExpected > 0 {
			count++
		}
	}
	if count == 0 {
		return Insight{}, false
	}

	noun := "sources are"
	if count == 1 {
		noun = "source is"
	}
	return Insight{
		ID:          "critical-sources",
		Type:        InsightWarning,
		Title:       "Sources critically behind plan",
		Description: fmt.Sprintf("%d revenue %s more than 20%% behind expectations year to date.", count, noun),
		Metric:      fmt.Sprintf("%d", count),
	}, true
}

func formatMoney(amount float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return money.NewFromFloat(amount, currency).Display()
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
