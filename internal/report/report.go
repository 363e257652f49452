package report

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"revcast/internal/analytics"
	"revcast/internal/performance"
	"revcast/internal/visuals"
)

// Data is everything a report renders.
type Data struct {
	Title       string
	FiscalYear  int
	Currency    string
	GeneratedAt time.Time
	Summary     performance.YTDSummary
	Months      []performance.MonthlyTotals
	Sources     []performance.SourcePerformance
	Insights    []performance.Insight
	Forecast    *analytics.ForecastResult
}

// Collect gathers the report data from the analytics service.
func Collect(ctx context.Context, svc *analytics.Service) (*Data, error) {
	d := &Data{
		Title:       fmt.Sprintf("Revenue Report FY%d", svc.FiscalYear()),
		FiscalYear:  svc.FiscalYear(),
		Currency:    svc.Currency(),
		GeneratedAt: time.Now(),
	}

	var err error
	if d.Summary, err = svc.YTDSummary(ctx); err != nil {
		return nil, fmt.Errorf("ytd summary: %w", err)
	}
	if d.Months, err = svc.MonthlyTotals(ctx); err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	if d.Sources, err = svc.SourcePerformance(ctx); err != nil {
		return nil, fmt.Errorf("source performance: %w", err)
	}
	if d.Insights, err = svc.Insights(ctx); err != nil {
		return nil, fmt.Errorf("insights: %w", err)
	}
	if d.Forecast, err = svc.ForecastAggregate(ctx, analytics.ForecastRequest{}); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	return d, nil
}

// Markdown renders the report as a Markdown document. Charts are Mermaid code blocks.
func Markdown(d *Data) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	fmt.Fprintf(&b, "_Generated %s, amounts in %s._\n\n", d.GeneratedAt.Format("2006-01-02 15:04"), d.Currency)

	s := d.Summary
	b.WriteString("## Year to date\n\n")
	b.WriteString("| Metric | Expected | Actual | Variance | Status |\n")
	b.WriteString("|---|---:|---:|---:|---|\n")
	fmt.Fprintf(&b, "| Revenue | %s | %s | %s | %s |\n", formatMoney(s.Revenue.Expected, d.Currency), formatMoney(s.Revenue.Actual, d.Currency), percent(s.Revenue.Percentage), s.Revenue.Status)
	fmt.Fprintf(&b, "| Net | %s | %s | %s | %s |\n", formatMoney(s.Net.Expected, d.Currency), formatMoney(s.Net.Actual, d.Currency), percent(s.Net.Percentage), s.Net.Status)
	fmt.Fprintf(&b, "| Year end | %s | %s | %s | %s |\n\n", formatMoney(s.BudgetEOY, d.Currency), formatMoney(s.ProjectedEOY, d.Currency), percent(s.EOYVariance.Percentage), s.EOYVariance.Status)
	fmt.Fprintf(&b, "Current period %s is %.0f%% complete (%s of %s), %d months elapsed.\n\n",
		s.CurrentPeriod.PeriodKey, s.CurrentPeriod.PercentComplete,
		formatMoney(s.CurrentPeriod.Actual, d.Currency), formatMoney(s.CurrentPeriod.Expected, d.Currency), s.MonthsElapsed)

	if len(d.Months) > 0 {
		fmt.Fprintf(&b, "```mermaid\n%s\n```\n\n", visuals.GenerateMonthlyChart(d.Months, d.Currency))
	}

	b.WriteString("## Sources\n\n")
	if len(d.Sources) == 0 {
		b.WriteString("No revenue sources.\n\n")
	} else {
		b.WriteString("| Source | Expected | Actual | Variance | Status | Trend | Reliability |\n")
		b.WriteString("|---|---:|---:|---:|---|---|---:|\n")
		for _, p := range d.Sources {
			name := p.Name
			if p.Recurring {
				name += " (recurring)"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %d%% |\n", escapeCell(name),
				formatMoney(p.YTDExpected, d.Currency), formatMoney(p.YTDActual, d.Currency),
				percent(p.Variance.Percentage), p.Variance.Status, p.MonthlyTrend, p.Reliability)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Insights\n\n")
	if len(d.Insights) == 0 {
		b.WriteString("Nothing to report.\n\n")
	}
	for _, ins := range d.Insights {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", ins.Title, ins.Type, ins.Description)
	}
	if len(d.Insights) > 0 {
		b.WriteString("\n")
	}

	if f := d.Forecast; f != nil && len(f.Points) > 0 {
		b.WriteString("## Forecast\n\n")
		fmt.Fprintf(&b, "Method `%s`, trend %s (%+.1f%% per month).\n\n", f.Method, f.Trend, f.GrowthRate)
		b.WriteString("| Period | Predicted | Low | High | Confidence |\n")
		b.WriteString("|---|---:|---:|---:|---:|\n")
		for _, p := range f.Points {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %.0f%% |\n", p.PeriodKey,
				formatMoney(p.Predicted, d.Currency), formatMoney(p.LowerBound, d.Currency),
				formatMoney(p.UpperBound, d.Currency), p.Confidence)
		}
		fmt.Fprintf(&b, "\n```mermaid\n%s\n```\n", visuals.GenerateForecastChart(f.History, f.Points, d.Currency))
	}
	return b.String()
}

// Terminal renders Markdown for a terminal. An empty style picks dark or light
// from the terminal background.
func Terminal(md, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(100)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	return r.Render(md)
}

// HTML renders Markdown into a standalone page. Mermaid blocks are drawn client side.
func HTML(title, md string) ([]byte, error) {
	conv := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := conv.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("failed to convert markdown: %w", err)
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, pageTemplate, html.EscapeString(title), body.String())
	return page.Bytes(), nil
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2em auto; color: #222; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 4px 10px; }
td { text-align: right; }
td:first-child { text-align: left; }
</style>
</head>
<body>
%s
<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";
document.querySelectorAll("code.language-mermaid").forEach((code) => {
  const div = document.createElement("div");
  div.className = "mermaid";
  div.textContent = code.textContent;
  code.parentElement.replaceWith(div);
});
mermaid.run();
</script>
</body>
</html>
`

func formatMoney(v float64, currency string) string {
	return money.NewFromFloat(v, currency).Display()
}

func percent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
