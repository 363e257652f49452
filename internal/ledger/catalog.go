package ledger

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

// Kind separates money coming in from money going out.
type Kind string

const (
	KindRevenue Kind = "revenue"
	KindExpense Kind = "expense"
)

// ErrUnknownSource is returned when an operation names a source missing from the catalog.
var ErrUnknownSource = errors.New("unknown source")

// Source describes a revenue or expense stream.
type Source struct {
	ID        string `toml:"id" json:"id" validate:"required"`
	Name      string `toml:"name" json:"name" validate:"required"`
	Kind      Kind   `toml:"kind" json:"kind" validate:"required,oneof=revenue expense"`
	Currency  string `toml:"currency" json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
	Recurring bool   `toml:"recurring" json:"recurring"`
	// MonthlyAmount is the planned amount per month for recurring sources, in the source currency.
	MonthlyAmount float64 `toml:"monthly_amount" json:"monthlyAmount,omitempty" validate:"gte=0"`
	// Since is the first period ("YYYY-MM") the recurring amount applies to. Empty means always.
	Since string `toml:"since" json:"since,omitempty" validate:"omitempty,datetime=2006-01"`
}

// Catalog is the content of sources.toml.
type Catalog struct {
	// AnnualBudget is the planned revenue for the fiscal year, in the base currency.
	AnnualBudget float64 `toml:"annual_budget" json:"annualBudget" validate:"gte=0"`
	// Rates converts one unit of a currency into the base currency.
	Rates   map[string]float64 `toml:"rates" json:"rates,omitempty"`
	Sources []Source           `toml:"sources" json:"sources" validate:"dive"`
}

// LoadCatalog reads a source catalog from a TOML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a TOML source catalog and validates its fields.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		if seen[s.ID] {
			return nil, fmt.Errorf("invalid catalog: duplicate source id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return &c, nil
}

// Rate returns the conversion factor from currency into base.
func (c *Catalog) Rate(currency, base string) (decimal.Decimal, error) {
	if currency == "" || strings.EqualFold(currency, base) {
		return decimal.NewFromInt(1), nil
	}
	r, ok := c.Rates[strings.ToUpper(currency)]
	if !ok || r <= 0 {
		return decimal.Zero, fmt.Errorf("no exchange rate from %s to %s", currency, base)
	}
	return decimal.NewFromFloat(r), nil
}

// SourceRates resolves the conversion factor into base of every source, keyed by source ID.
func (c *Catalog) SourceRates(base string) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal, len(c.Sources))
	for _, s := range c.Sources {
		r, err := c.Rate(s.Currency, base)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", s.ID, err)
		}
		rates[s.ID] = r
	}
	return rates, nil
}

var validate = validator.New()
