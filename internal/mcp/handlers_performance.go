package mcp

import (
	"context"
	"fmt"

	"revcast/internal/stats"
	"revcast/internal/visuals"
)

func (s *Server) handleGetYTDSummary(ctx context.Context, _ emptyArgs) (toolOutput, error) {
	summary, err := s.svc.YTDSummary(ctx)
	if err != nil {
		return toolOutput{}, err
	}
	months, err := s.svc.MonthlyTotals(ctx)
	if err != nil {
		return toolOutput{}, err
	}

	data := map[string]any{
		"fiscalYear": s.svc.FiscalYear(),
		"currency":   s.svc.Currency(),
		"summary":    summary,
		"months":     months,
	}

	var warnings []string
	if summary.MonthsElapsed == 0 {
		warnings = append(warnings, fmt.Sprintf("Fiscal year %d has not started yet.", s.svc.FiscalYear()))
	}
	if summary.BudgetEOY == 0 {
		warnings = append(warnings, "No annual budget configured: the year-end comparison is not meaningful.")
	}
	return wrapResponse(data, visuals.GenerateMonthlyChart(months, s.svc.Currency()), nil, warnings), nil
}

func (s *Server) handleGetSourcePerformance(ctx context.Context, args sourceArgs) (toolOutput, error) {
	if args.SourceID != "" {
		detail, err := s.svc.SourceDetail(ctx, args.SourceID)
		if err != nil {
			return toolOutput{}, err
		}
		return wrapResponse(detail, "", nil, nil), nil
	}

	all, err := s.svc.SourcePerformance(ctx)
	if err != nil {
		return toolOutput{}, err
	}

	critical := 0
	for _, sp := range all {
		if sp.Variance.Status == stats.StatusCritical {
			critical++
		}
	}
	var guidance []string
	if critical > 0 {
		guidance = append(guidance, fmt.Sprintf("%d source(s) are critically behind plan: see 'get_underperformers'.", critical))
	}
	return wrapResponse(all, visuals.GenerateVarianceChart(all), guidance, nil), nil
}

func (s *Server) handleGetTopPerformers(ctx context.Context, _ emptyArgs) (toolOutput, error) {
	top, err := s.svc.TopPerformers(ctx)
	if err != nil {
		return toolOutput{}, err
	}
	return wrapResponse(top, "", nil, nil), nil
}

func (s *Server) handleGetUnderperformers(ctx context.Context, _ emptyArgs) (toolOutput, error) {
	under, err := s.svc.Underperformers(ctx)
	if err != nil {
		return toolOutput{}, err
	}
	return wrapResponse(under, visuals.GenerateVarianceChart(under), nil, nil), nil
}

func (s *Server) handleGetInsights(ctx context.Context, _ emptyArgs) (toolOutput, error) {
	insights, err := s.svc.Insights(ctx)
	if err != nil {
		return toolOutput{}, err
	}
	return wrapResponse(insights, "", nil, nil), nil
}
