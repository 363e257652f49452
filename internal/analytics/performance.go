package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"revcast/internal/forecast"
	"revcast/internal/ledger"
	"revcast/internal/performance"
)

// YTDSummary aggregates revenue and expenses over the year-to-date months of the fiscal year.
func (s *Service) YTDSummary(ctx context.Context) (performance.YTDSummary, error) {
	if err := ctx.Err(); err != nil {
		return performance.YTDSummary{}, err
	}

	periods, current := s.ytdPeriods()
	months := s.monthlyTotals(periods)

	return performance.Summarize(performance.YTDInput{
		Months:        months,
		CurrentPeriod: current,
		AnnualBudget:  s.store.AnnualBudget(),
	}), nil
}

// MonthlyTotals returns the per-month aggregate figures of the year-to-date months.
func (s *Service) MonthlyTotals(ctx context.Context) ([]performance.MonthlyTotals, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	periods, _ := s.ytdPeriods()
	return s.monthlyTotals(periods), nil
}

func (s *Service) monthlyTotals(periods []string) []performance.MonthlyTotals {
	out := make([]performance.MonthlyTotals, len(periods))
	for i, p := range periods {
		out[i] = performance.MonthlyTotals{
			PeriodKey:       p,
			RevenueExpected: s.store.MonthlyTotal(p, ledger.Expected, ledger.KindRevenue),
			RevenueActual:   s.store.MonthlyTotal(p, ledger.Actual, ledger.KindRevenue),
			ExpenseExpected: s.store.MonthlyTotal(p, ledger.Expected, ledger.KindExpense),
			ExpenseActual:   s.store.MonthlyTotal(p, ledger.Actual, ledger.KindExpense),
		}
	}
	return out
}

// SourcePerformance analyzes every revenue source over the year-to-date months.
// Sources are processed concurrently; results keep catalog order.
func (s *Service) SourcePerformance(ctx context.Context) ([]performance.SourcePerformance, error) {
	sources := s.store.SourcesOfKind(ledger.KindRevenue)
	periods, _ := s.ytdPeriods()
	results := make([]performance.SourcePerformance, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			in, err := s.sourceInput(src, periods)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.ID, err)
			}
			results[i] = performance.AnalyzeSource(in)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().Int("sources", len(results)).Int("months", len(periods)).Msg("Source performance computed")
	return results, nil
}

// SourceDetail analyzes a single source.
func (s *Service) SourceDetail(ctx context.Context, sourceID string) (performance.SourcePerformance, error) {
	if err := ctx.Err(); err != nil {
		return performance.SourcePerformance{}, err
	}
	src, err := s.store.Source(sourceID)
	if err != nil {
		return performance.SourcePerformance{}, err
	}
	periods, _ := s.ytdPeriods()
	in, err := s.sourceInput(src, periods)
	if err != nil {
		return performance.SourcePerformance{}, err
	}
	return performance.AnalyzeSource(in), nil
}

func (s *Service) sourceInput(src ledger.Source, periods []string) (performance.SourceInput, error) {
	in := performance.SourceInput{
		SourceID:  src.ID,
		Name:      src.Name,
		Recurring: src.Recurring,
		Currency:  src.Currency,
		Months:    make([]performance.MonthlyPair, len(periods)),
	}
	for i, p := range periods {
		exp, err := s.store.SourceMonthly(src.ID, p, ledger.Expected)
		if err != nil {
			return in, err
		}
		act, err := s.store.SourceMonthly(src.ID, p, ledger.Actual)
		if err != nil {
			return in, err
		}
		in.Months[i] = performance.MonthlyPair{PeriodKey: p, Expected: exp, Actual: act}
	}
	return in, nil
}

// TopPerformers returns up to five sources at or above plan.
func (s *Service) TopPerformers(ctx context.Context) ([]performance.SourcePerformance, error) {
	all, err := s.SourcePerformance(ctx)
	if err != nil {
		return nil, err
	}
	return performance.TopPerformers(all), nil
}

// Underperformers returns up to five sources below plan.
func (s *Service) Underperformers(ctx context.Context) ([]performance.SourcePerformance, error) {
	all, err := s.SourcePerformance(ctx)
	if err != nil {
		return nil, err
	}
	return performance.Underperformers(all), nil
}

// Insights evaluates the insight rules against the current YTD picture.
func (s *Service) Insights(ctx context.Context) ([]performance.Insight, error) {
	summary, err := s.YTDSummary(ctx)
	if err != nil {
		return nil, err
	}
	sources, err := s.SourcePerformance(ctx)
	if err != nil {
		return nil, err
	}

	in := performance.InsightInput{
		Currency:      s.Currency(),
		LocalCurrency: s.opts.LocalCurrency,
		Current:       summary.CurrentPeriod,
		TotalRevenue:  summary.Revenue.Actual,
		Sources:       sources,
	}

	if summary.MonthsElapsed > 0 {
		prev, err := forecast.AddMonths(summary.CurrentPeriod.PeriodKey, -1)
		if err != nil {
			return nil, err
		}
		in.PreviousActual = s.store.MonthlyTotal(prev, ledger.Actual, ledger.KindRevenue)
		in.HasPrevious = true
	}

	for _, sp := range sources {
		if sp.Recurring {
			in.RecurringRevenue += sp.YTDActual
		}
		if !s.isLocal(sp.Currency) {
			in.ForeignRevenue += sp.YTDActual
		}
	}

	return performance.GenerateInsights(in), nil
}

func (s *Service) isLocal(currency string) bool {
	if currency == "" {
		currency = s.store.BaseCurrency()
	}
	return strings.EqualFold(currency, s.opts.LocalCurrency)
}
