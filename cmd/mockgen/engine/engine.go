package engine

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"revcast/internal/forecast"
	"revcast/internal/ledger"
)

// Scenarios supported by Generate.
const (
	ScenarioSteady    = "steady"
	ScenarioSeasonal  = "seasonal"
	ScenarioDeclining = "declining"
)

// GeneratorConfig controls the synthetic ledger.
type GeneratorConfig struct {
	Scenario     string
	Distribution string // "uniform" or "normal" month-to-month noise
	Months       int
	Seed         int64
	Now          time.Time
}

type sourcePlan struct {
	source   ledger.Source
	expected float64 // per month, source currency
	// shaped marks sources whose actuals follow the scenario curve
	shaped bool
}

var plans = []sourcePlan{
	{source: ledger.Source{ID: "saas", Name: "SaaS Subscriptions", Kind: ledger.KindRevenue, Currency: "EUR", Recurring: true, MonthlyAmount: 5000}, expected: 5000},
	{source: ledger.Source{ID: "consulting", Name: "Consulting", Kind: ledger.KindRevenue, Currency: "EUR"}, expected: 8000, shaped: true},
	{source: ledger.Source{ID: "us-licenses", Name: "US Licenses", Kind: ledger.KindRevenue, Currency: "USD"}, expected: 3000, shaped: true},
	{source: ledger.Source{ID: "hosting", Name: "Hosting", Kind: ledger.KindExpense, Currency: "EUR"}, expected: 1200},
}

// USDRate converts USD into the generated base currency (EUR).
const USDRate = 0.92

// Generate builds a catalog and the ledger entries for the months ending with the
// month of cfg.Now. The current month only carries expectations.
func Generate(cfg GeneratorConfig) (*ledger.Catalog, []ledger.Entry) {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Months <= 0 {
		cfg.Months = 24
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	catalog := &ledger.Catalog{Rates: map[string]float64{"USD": USDRate}}
	monthlyBudget := 0.0
	for _, p := range plans {
		catalog.Sources = append(catalog.Sources, p.source)
		if p.source.Kind == ledger.KindRevenue {
			monthlyBudget += p.expected * rate(p.source.Currency)
		}
	}
	catalog.AnnualBudget = math.Round(monthlyBudget * 12)

	current := forecast.PeriodKey(cfg.Now)
	var entries []ledger.Entry

	for i := 0; i < cfg.Months; i++ {
		period, _ := forecast.AddMonths(current, i-cfg.Months+1)
		t, _ := forecast.ParsePeriod(period)

		for _, p := range plans {
			if !p.source.Recurring {
				entries = append(entries, ledger.NewEntry(p.source.ID, period, ledger.Expected, p.expected, ""))
			}
			if period == current {
				continue
			}

			factor := 1.0
			if p.shaped {
				factor = shape(cfg.Scenario, i, t.Month())
			}
			actual := math.Max(0, p.expected*factor*(1+noise(rng, cfg.Distribution)))
			entries = append(entries, ledger.NewEntry(p.source.ID, period, ledger.Actual, math.Round(actual*100)/100, ""))
		}
	}
	return catalog, entries
}

// shape is the scenario multiplier for the i-th generated month.
func shape(scenario string, i int, month time.Month) float64 {
	switch scenario {
	case ScenarioSeasonal:
		return 1 + 0.35*math.Sin(2*math.Pi*float64(month-1)/12)
	case ScenarioDeclining:
		return math.Max(0.2, 1-0.03*float64(i))
	default:
		return 1 + 0.01*float64(i)
	}
}

func noise(rng *rand.Rand, distribution string) float64 {
	if distribution == "normal" {
		return rng.NormFloat64() * 0.07
	}
	return (rng.Float64()*2 - 1) * 0.1
}

func rate(currency string) float64 {
	if currency == "USD" {
		return USDRate
	}
	return 1
}

// Save writes sources.toml and ledger/entries.jsonl under outDir.
func Save(outDir string, catalog *ledger.Catalog, entries []ledger.Entry) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "sources.toml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	store, err := ledger.NewStore(catalog, "EUR")
	if err != nil {
		return err
	}
	if _, err := store.Append(entries...); err != nil {
		return fmt.Errorf("generated entries are invalid: %w", err)
	}
	return store.Save(filepath.Join(outDir, "ledger", "entries.jsonl"))
}
