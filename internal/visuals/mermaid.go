package visuals

import (
	"fmt"
	"math"
	"strings"

	"revcast/internal/forecast"
	"revcast/internal/performance"
)

// ChartHistoryLimit caps how many historical months a forecast chart shows.
const ChartHistoryLimit = 12

// GenerateForecastChart creates a Mermaid xychart-beta with recent history followed by the
// forecast and its confidence band. The band lines share the history segment.
func GenerateForecastChart(history []forecast.TimeSeriesPoint, points []forecast.ForecastWithConfidence, currency string) string {
	if len(history) == 0 && len(points) == 0 {
		return ""
	}
	if len(history) > ChartHistoryLimit {
		history = history[len(history)-ChartHistoryLimit:]
	}

	var labels, predicted, lower, upper []string
	maxY := 0.0

	for _, h := range history {
		v := amount(h.Value)
		labels = append(labels, quote(h.PeriodKey))
		predicted = append(predicted, v)
		lower = append(lower, v)
		upper = append(upper, v)
		maxY = math.Max(maxY, h.Value)
	}
	for _, p := range points {
		labels = append(labels, quote(p.PeriodKey))
		predicted = append(predicted, amount(p.Predicted))
		lower = append(lower, amount(math.Max(0, p.LowerBound)))
		upper = append(upper, amount(p.UpperBound))
		maxY = math.Max(maxY, p.UpperBound)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Revenue Forecast\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Revenue (%s)\" 0 --> %d\n", currency, axisMax(maxY)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(predicted, ", ")))
	if len(points) > 0 {
		sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(upper, ", ")))
		sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(lower, ", ")))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateMonthlyChart creates a Mermaid bar chart of actual revenue per month with the
// expectation drawn as a line.
func GenerateMonthlyChart(months []performance.MonthlyTotals, currency string) string {
	if len(months) == 0 {
		return ""
	}

	var labels, actuals, expected []string
	maxY := 0.0
	for _, m := range months {
		labels = append(labels, quote(m.PeriodKey))
		actuals = append(actuals, amount(m.RevenueActual))
		expected = append(expected, amount(m.RevenueExpected))
		maxY = math.Max(maxY, math.Max(m.RevenueActual, m.RevenueExpected))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Monthly Revenue: Actual vs Expected\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Revenue (%s)\" 0 --> %d\n", currency, axisMax(maxY)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(actuals, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(expected, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateVarianceChart creates a Mermaid bar chart of the YTD variance percentage per source.
func GenerateVarianceChart(sources []performance.SourcePerformance) string {
	if len(sources) == 0 {
		return ""
	}

	var labels, values []string
	minY, maxY := 0.0, 0.0
	for _, s := range sources {
		labels = append(labels, quote(s.Name))
		values = append(values, fmt.Sprintf("%.1f", s.Variance.Percentage))
		minY = math.Min(minY, s.Variance.Percentage)
		maxY = math.Max(maxY, s.Variance.Percentage)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"YTD Variance by Source\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Variance (%%)\" %d --> %d\n", int(math.Floor(minY*11/10)), axisMax(maxY)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateBacktestChart creates a Mermaid line chart comparing walk-forward predictions with actuals.
func GenerateBacktestChart(result forecast.WalkForwardResult) string {
	if len(result.Checkpoints) == 0 {
		return ""
	}

	var labels, actuals, predicted []string
	maxY := 0.0
	for _, cp := range result.Checkpoints {
		labels = append(labels, quote(cp.PeriodKey))
		actuals = append(actuals, amount(cp.Actual))
		predicted = append(predicted, amount(cp.Predicted))
		maxY = math.Max(maxY, math.Max(cp.Actual, cp.Predicted))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Walk-Forward Backtest (%s)\"\n", result.Method))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Revenue\" 0 --> %d\n", axisMax(maxY)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(actuals, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(predicted, ", ")))
	sb.WriteString("```")
	return sb.String()
}

func quote(label string) string {
	return fmt.Sprintf("\"%s\"", strings.ReplaceAll(label, "\"", "'"))
}

func amount(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

// axisMax leaves some breathing room above the largest value.
func axisMax(maxVal float64) int {
	return int(math.Ceil(math.Max(1, maxVal*11/10)))
}
