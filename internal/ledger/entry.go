package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType says whether an amount was planned or realized.
type EntryType string

const (
	Expected EntryType = "expected"
	Actual   EntryType = "actual"
)

// Entry is a single booked amount for a source in a month.
// Several entries for the same source, period and type add up, including
// identical ones. Only the ID tells two entries apart.
type Entry struct {
	ID       string          `json:"id" validate:"omitempty,uuid"`
	SourceID string          `json:"sourceId" validate:"required"`
	Period   string          `json:"period" validate:"required,datetime=2006-01"`
	Type     EntryType       `json:"type" validate:"required,oneof=expected actual"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note,omitempty"`
}

// ErrInvalidEntry wraps field validation failures.
var ErrInvalidEntry = errors.New("invalid entry")

// Validate checks field formats. Source existence is checked by the Store.
func (e *Entry) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative, got %s", ErrInvalidEntry, e.Amount)
	}
	return nil
}

// NewEntry builds an entry with a fresh ID.
func NewEntry(sourceID, period string, typ EntryType, amount float64, note string) Entry {
	return Entry{
		ID:       uuid.NewString(),
		SourceID: sourceID,
		Period:   period,
		Type:     typ,
		Amount:   decimal.NewFromFloat(amount),
		Note:     note,
	}
}

type totalKey struct {
	sourceID string
	period   string
	typ      EntryType
}
