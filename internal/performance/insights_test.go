package performance

import (
	"strings"
	"testing"

	"revcast/internal/stats"
)

func ids(insights []Insight) []string {
	out := make([]string, len(insights))
	for i, ins := range insights {
		out[i] = ins.ID
	}
	return out
}

func TestGenerateInsights_AllRules(t *testing.T) {
	in := InsightInput{
		Currency:         "EUR",
		LocalCurrency:    "EUR",
		Current:          PeriodProgress{PeriodKey: "2024-06", Expected: 1000},
		PreviousActual:   900,
		HasPrevious:      true,
		TotalRevenue:     10000,
		RecurringRevenue: 6000,
		ForeignRevenue:   7000,
		Sources: []SourcePerformance{
			{SourceID: "a", YTDExpected: 100, Variance: stats.ClassifyVariance(100, 50)},
			{SourceID: "b", YTDExpected: 100, Variance: stats.ClassifyVariance(100, 100)},
		},
	}

	got := GenerateInsights(in)
	// current actual is zero, so the month-over-month rule stays quiet
	want := []string{"missing-actuals", "recurring-share", "currency-concentration", "critical-sources"}
	if strings.Join(ids(got), ",") != strings.Join(want, ",") {
		t.Fatalf("insight ids = %v, want %v", ids(got), want)
	}

	if got[0].Type != InsightAction {
		t.Errorf("missing actuals type = %s", got[0].Type)
	}
	if got[1].Type != InsightSuccess || got[1].Metric != "60.0%" {
		t.Errorf("recurring share = %+v", got[1])
	}
	if got[2].Type != InsightWarning {
		t.Errorf("currency concentration type = %s, want warning", got[2].Type)
	}
	if got[3].Metric != "1" || !strings.Contains(got[3].Description, "source is") {
		t.Errorf("critical sources = %+v", got[3])
	}
}

func TestGenerateInsights_MonthOverMonth(t *testing.T) {
	up := GenerateInsights(InsightInput{
		Current:        PeriodProgress{PeriodKey: "2024-06", Actual: 1100, Expected: 1000},
		PreviousActual: 1000,
		HasPrevious:    true,
	})
	if len(up) != 1 || up[0].ID != "mom-growth" || up[0].Type != InsightSuccess {
		t.Fatalf("expected growth success insight, got %+v", up)
	}
	if up[0].Metric != "+10.0%" {
		t.Errorf("metric = %s", up[0].Metric)
	}

	down := GenerateInsights(InsightInput{
		Current:        PeriodProgress{PeriodKey: "2024-06", Actual: 800, Expected: 1000},
		PreviousActual: 1000,
		HasPrevious:    true,
	})
	if len(down) != 1 || down[0].Type != InsightWarning {
		t.Fatalf("expected decline warning, got %+v", down)
	}

	flat := GenerateInsights(InsightInput{
		Current:        PeriodProgress{PeriodKey: "2024-06", Actual: 1040, Expected: 1000},
		PreviousActual: 1000,
		HasPrevious:    true,
	})
	if len(flat) != 0 {
		t.Errorf("4%% change should not produce an insight, got %+v", flat)
	}
}

func TestGenerateInsights_ModestShares(t *testing.T) {
	got := GenerateInsights(InsightInput{
		Currency:         "USD",
		Current:          PeriodProgress{PeriodKey: "2024-06", Actual: 500, Expected: 500},
		TotalRevenue:     10000,
		RecurringRevenue: 2000,
		ForeignRevenue:   1000,
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 insights, got %v", ids(got))
	}
	if got[0].Type != InsightInfo || got[1].Type != InsightInfo {
		t.Errorf("modest shares should be informational: %s, %s", got[0].Type, got[1].Type)
	}
	if !strings.Contains(got[1].Description, "USD") {
		t.Errorf("local currency should default to the reporting currency: %s", got[1].Description)
	}
}

func TestGenerateInsights_Nothing(t *testing.T) {
	if got := GenerateInsights(InsightInput{}); len(got) != 0 {
		t.Errorf("expected no insights, got %v", ids(got))
	}
}
