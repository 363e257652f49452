package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revcast/internal/forecast"
	"revcast/internal/ledger"
	"revcast/internal/performance"
	"revcast/internal/stats"
)

const fixtureCatalog = `
annual_budget = 60000

[rates]
USD = 0.5

[[sources]]
id = "retainer"
name = "Retainer"
kind = "revenue"
currency = "EUR"
recurring = true
monthly_amount = 2000

[[sources]]
id = "projects"
name = "Projects"
kind = "revenue"
currency = "USD"

[[sources]]
id = "workshops"
name = "Workshops"
kind = "revenue"

[[sources]]
id = "rent"
name = "Rent"
kind = "expense"
`

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(year, month, day, 12, 0, 0, 0, time.UTC) }
}

// newFixture builds a ledger for January to June 2024.
func newFixture(t *testing.T, fiscalYear int) *Service {
	t.Helper()
	catalog, err := ledger.ParseCatalog([]byte(fixtureCatalog))
	require.NoError(t, err)
	store, err := ledger.NewStore(catalog, "EUR")
	require.NoError(t, err)

	var entries []ledger.Entry
	for m := 1; m <= 6; m++ {
		p := fmt.Sprintf("2024-%02d", m)
		entries = append(entries,
			ledger.NewEntry("retainer", p, ledger.Actual, 2000, ""),
			ledger.NewEntry("projects", p, ledger.Expected, 2000, ""),
			ledger.NewEntry("workshops", p, ledger.Expected, 500, ""),
			ledger.NewEntry("workshops", p, ledger.Actual, 100, ""),
			ledger.NewEntry("rent", p, ledger.Expected, 300, ""),
			ledger.NewEntry("rent", p, ledger.Actual, 300, ""),
		)
		if m <= 5 {
			entries = append(entries, ledger.NewEntry("projects", p, ledger.Actual, 2000, ""))
		}
	}
	_, err = store.Append(entries...)
	require.NoError(t, err)

	return NewService(store, Options{
		FiscalYear: fiscalYear,
		Method:     forecast.MethodSimple,
		Periods:    3,
		Workers:    2,
		Now:        fixedClock(2024, time.June, 15),
	})
}

func TestService_History(t *testing.T) {
	svc := newFixture(t, 2024)

	total, err := svc.History("")
	require.NoError(t, err)
	require.Len(t, total, 6)
	assert.Equal(t, "2024-01", total[0].PeriodKey)
	assert.InDelta(t, 3100.0, total[0].Value, 1e-9)
	assert.InDelta(t, 2100.0, total[5].Value, 1e-9)

	projects, err := svc.History("projects")
	require.NoError(t, err)
	require.Len(t, projects, 5, "June has no projects actual")
	assert.InDelta(t, 1000.0, projects[0].Value, 1e-9, "USD converted at 0.5")
	assert.Equal(t, "2024-05", projects[4].PeriodKey)

	_, err = svc.History("ghost")
	assert.ErrorIs(t, err, ledger.ErrUnknownSource)
}

func TestService_HistoryDropsEmptyMonths(t *testing.T) {
	svc := newFixture(t, 2024)
	_, err := svc.Store().Append(ledger.NewEntry("projects", "2023-11", ledger.Expected, 10, ""))
	require.NoError(t, err)
	_, err = svc.Store().Append(ledger.NewEntry("retainer", "2023-11", ledger.Actual, 2000, ""))
	require.NoError(t, err)

	workshops, err := svc.History("workshops")
	require.NoError(t, err)
	assert.Equal(t, "2024-01", workshops[0].PeriodKey)

	total, err := svc.History("")
	require.NoError(t, err)
	require.Len(t, total, 7)
	assert.Equal(t, "2023-11", total[0].PeriodKey)
	assert.Equal(t, "2024-01", total[1].PeriodKey, "December 2023 has no revenue")
}

const gapCatalog = `
[[sources]]
id = "a"
name = "Churned"
kind = "revenue"

[[sources]]
id = "b"
name = "Ongoing"
kind = "revenue"
`

// newGapFixture has a source with an empty April that stops after May, and a
// second source that runs through June but also misses April.
func newGapFixture(t *testing.T) *Service {
	t.Helper()
	catalog, err := ledger.ParseCatalog([]byte(gapCatalog))
	require.NoError(t, err)
	store, err := ledger.NewStore(catalog, "EUR")
	require.NoError(t, err)

	for _, p := range []string{"2024-01", "2024-02", "2024-03", "2024-05"} {
		_, err = store.Append(ledger.NewEntry("a", p, ledger.Actual, 1000, ""))
		require.NoError(t, err)
	}
	for _, p := range []string{"2024-01", "2024-02", "2024-03", "2024-05", "2024-06"} {
		_, err = store.Append(ledger.NewEntry("b", p, ledger.Actual, 500, ""))
		require.NoError(t, err)
	}

	return NewService(store, Options{
		FiscalYear: 2024,
		Method:     forecast.MethodSimple,
		Periods:    3,
		Now:        fixedClock(2024, time.June, 15),
	})
}

func TestService_HistorySkipsGapsAndChurn(t *testing.T) {
	svc := newGapFixture(t)

	a, err := svc.History("a")
	require.NoError(t, err)
	var keys []string
	for _, p := range a {
		keys = append(keys, p.PeriodKey)
		assert.InDelta(t, 1000.0, p.Value, 1e-9)
	}
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03", "2024-05"}, keys)

	total, err := svc.History("")
	require.NoError(t, err)
	require.Len(t, total, 5)
	assert.Equal(t, "2024-05", total[3].PeriodKey)
	assert.InDelta(t, 1500.0, total[3].Value, 1e-9)
	assert.Equal(t, "2024-06", total[4].PeriodKey)
}

func TestService_ForecastIgnoresEmptyMonths(t *testing.T) {
	svc := newGapFixture(t)
	ctx := context.Background()

	for _, method := range []string{"simple", "weighted", "exponential", "linear"} {
		t.Run(method, func(t *testing.T) {
			res, err := svc.ForecastSource(ctx, "a", ForecastRequest{Method: method})
			require.NoError(t, err)
			require.Len(t, res.Points, 3)
			assert.Equal(t, "2024-06", res.Points[0].PeriodKey, "future periods follow the last recorded month")
			assert.InDelta(t, 1000.0, res.Points[0].Predicted, 1e-6)
			assert.InDelta(t, forecast.MaxConfidence, res.Points[0].Confidence, 1e-9)
			assert.Equal(t, performance.TrendStable, res.Trend)
		})
	}

	season, err := svc.Seasonality(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 4, season.Observations)
}

func TestService_ForecastAggregate(t *testing.T) {
	svc := newFixture(t, 2024)
	ctx := context.Background()

	res, err := svc.ForecastAggregate(ctx, ForecastRequest{})
	require.NoError(t, err)
	assert.Equal(t, forecast.MethodSimple, res.Method)
	assert.Equal(t, forecast.ScenarioBaseline, res.Scenario)
	require.Len(t, res.Points, 3)
	assert.Equal(t, "2024-07", res.Points[0].PeriodKey)
	assert.InDelta(t, (3100.0+3100+2100)/3, res.Points[0].Predicted, 1e-9)
	assert.Nil(t, res.Scenarios)
	assert.Nil(t, res.Seasonality)

	zero := 0
	res, err = svc.ForecastAggregate(ctx, ForecastRequest{Periods: &zero})
	require.NoError(t, err)
	assert.Empty(t, res.Points)

	negative := -1
	_, err = svc.ForecastAggregate(ctx, ForecastRequest{Periods: &negative})
	assert.ErrorIs(t, err, forecast.ErrNegativePeriods)

	_, err = svc.ForecastAggregate(ctx, ForecastRequest{Scenario: "wild"})
	assert.Error(t, err)
}

func TestService_ForecastSource(t *testing.T) {
	svc := newFixture(t, 2024)
	ctx := context.Background()

	res, err := svc.ForecastSource(ctx, "retainer", ForecastRequest{Method: "weighted", AllScenarios: true, Seasonal: true})
	require.NoError(t, err)
	assert.Equal(t, "Retainer", res.Name)
	assert.Equal(t, forecast.MethodWeighted, res.Method)
	require.Len(t, res.Points, 3)
	// flat recurring history: maximum confidence, decaying per period
	assert.InDelta(t, forecast.MaxConfidence, res.Points[0].Confidence, 1e-9)
	assert.InDelta(t, forecast.MaxConfidence-forecast.ConfidenceDecay, res.Points[1].Confidence, 1e-9)
	require.Len(t, res.Scenarios, 3)
	assert.InDelta(t, res.Points[0].Predicted*0.9, res.Scenarios[0].Points[0].Predicted, 1e-9)
	require.NotNil(t, res.Seasonality)
	assert.False(t, res.Seasonality.HasSeasonality)

	res, err = svc.ForecastSource(ctx, "retainer", ForecastRequest{Scenario: "optimistic"})
	require.NoError(t, err)
	assert.InDelta(t, 2000*1.15, res.Points[0].Predicted, 1e-9)

	_, err = svc.ForecastSource(ctx, "ghost", ForecastRequest{})
	assert.ErrorIs(t, err, ledger.ErrUnknownSource)
	_, err = svc.ForecastSource(ctx, "", ForecastRequest{})
	assert.ErrorIs(t, err, ledger.ErrUnknownSource)
}

func TestService_SeasonalityAndBacktest(t *testing.T) {
	svc := newFixture(t, 2024)
	ctx := context.Background()

	season, err := svc.Seasonality(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 6, season.Observations)
	assert.False(t, season.HasSeasonality)

	bt, err := svc.Backtest(ctx, BacktestRequest{MinTrain: 3})
	require.NoError(t, err)
	assert.Len(t, bt.Checkpoints, 3)
	require.NotNil(t, bt.Metrics)
	assert.Equal(t, forecast.MethodSimple, bt.Method)
}

func TestService_YTDSummary(t *testing.T) {
	svc := newFixture(t, 2024)

	s, err := svc.YTDSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, s.MonthsElapsed)
	assert.InDelta(t, 21000.0, s.Revenue.Expected, 1e-9)
	assert.InDelta(t, 17600.0, s.Revenue.Actual, 1e-9)
	assert.Equal(t, stats.StatusBehind, s.Revenue.Status)
	assert.InDelta(t, 15800.0, s.Net.Actual, 1e-9)

	assert.Equal(t, "2024-06", s.CurrentPeriod.PeriodKey)
	assert.InDelta(t, 60.0, s.CurrentPeriod.PercentComplete, 1e-9)

	assert.InDelta(t, 35200.0, s.ProjectedEOY, 1e-6)
	assert.Equal(t, 60000.0, s.BudgetEOY)
	assert.Equal(t, stats.StatusCritical, s.EOYVariance.Status)
}

func TestService_YTDBoundary(t *testing.T) {
	past := newFixture(t, 2023)
	s, err := past.YTDSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, s.MonthsElapsed, "past fiscal years count every month")
	assert.Equal(t, "2023-12", s.CurrentPeriod.PeriodKey)
	assert.Zero(t, s.Revenue.Actual)

	future := newFixture(t, 2025)
	s, err = future.YTDSummary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.MonthsElapsed)

	months, err := future.MonthlyTotals(context.Background())
	require.NoError(t, err)
	assert.Empty(t, months)
}

func TestService_SourcePerformanceAndRankings(t *testing.T) {
	svc := newFixture(t, 2024)
	ctx := context.Background()

	all, err := svc.SourcePerformance(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3, "expense sources are not ranked")
	assert.Equal(t, "retainer", all[0].SourceID)
	assert.Equal(t, stats.StatusOnTarget, all[0].Variance.Status)
	assert.Equal(t, stats.StatusBehind, all[1].Variance.Status)
	assert.Equal(t, stats.StatusCritical, all[2].Variance.Status)
	assert.InDelta(t, 600.0, all[2].YTDActual, 1e-9)

	top, err := svc.TopPerformers(ctx)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "retainer", top[0].SourceID)

	under, err := svc.Underperformers(ctx)
	require.NoError(t, err)
	require.Len(t, under, 2)
	assert.Equal(t, "workshops", under[0].SourceID)
	assert.Equal(t, "projects", under[1].SourceID)

	detail, err := svc.SourceDetail(ctx, "projects")
	require.NoError(t, err)
	assert.Equal(t, all[1], detail)

	_, err = svc.SourceDetail(ctx, "ghost")
	assert.ErrorIs(t, err, ledger.ErrUnknownSource)
}

func TestService_Insights(t *testing.T) {
	svc := newFixture(t, 2024)

	insights, err := svc.Insights(context.Background())
	require.NoError(t, err)

	var ids []string
	for _, ins := range insights {
		ids = append(ids, ins.ID)
	}
	assert.Equal(t, []string{"recurring-share", "currency-concentration", "mom-growth", "critical-sources"}, ids)
	assert.Equal(t, "success", string(insights[0].Type))
	assert.Equal(t, "info", string(insights[1].Type))
	assert.Equal(t, "warning", string(insights[2].Type))
}

func TestService_CancelledContext(t *testing.T) {
	svc := newFixture(t, 2024)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.SourcePerformance(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = svc.ForecastAggregate(ctx, ForecastRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
