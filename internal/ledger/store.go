package ledger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Store provides thread-safe, chronological storage for ledger entries.
type Store struct {
	mu      sync.RWMutex
	catalog *Catalog
	base    string
	sources map[string]Source
	rates   map[string]decimal.Decimal // by source ID
	entries []Entry
	seen    map[string]bool
	totals  map[totalKey]decimal.Decimal // source currency
}

// NewStore creates an empty store over the given catalog. All figures it
// reports are converted into base.
func NewStore(catalog *Catalog, base string) (*Store, error) {
	if catalog == nil {
		catalog = &Catalog{}
	}
	rates, err := catalog.SourceRates(base)
	if err != nil {
		return nil, err
	}
	s := &Store{
		catalog: catalog,
		base:    base,
		sources: make(map[string]Source, len(catalog.Sources)),
		rates:   rates,
		seen:    make(map[string]bool),
		totals:  make(map[totalKey]decimal.Decimal),
	}
	for _, src := range catalog.Sources {
		s.sources[src.ID] = src
	}
	return s, nil
}

// BaseCurrency returns the currency all reported figures are expressed in.
func (s *Store) BaseCurrency() string {
	return s.base
}

// AnnualBudget returns the planned revenue for the fiscal year.
func (s *Store) AnnualBudget() float64 {
	return s.catalog.AnnualBudget
}

// Sources returns the catalog sources in declaration order.
func (s *Store) Sources() []Source {
	out := make([]Source, len(s.catalog.Sources))
	copy(out, s.catalog.Sources)
	return out
}

// SourcesOfKind returns the catalog sources of one kind.
func (s *Store) SourcesOfKind(kind Kind) []Source {
	var out []Source
	for _, src := range s.catalog.Sources {
		if src.Kind == kind {
			out = append(out, src)
		}
	}
	return out
}

// Source looks up a single source.
func (s *Store) Source(id string) (Source, error) {
	src, ok := s.sources[id]
	if !ok {
		return Source{}, fmt.Errorf("%w: %s", ErrUnknownSource, id)
	}
	return src, nil
}

// Append validates entries and adds the new ones, returning how many were added.
// Entries whose ID is already stored are skipped. Entries without an ID are always
// added under a fresh ID. Nothing is added when any entry is invalid.
func (s *Store) Append(entries ...Entry) (int, error) {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
		if _, ok := s.sources[entries[i].SourceID]; !ok {
			return 0, fmt.Errorf("entry %d: %w: %s", i, ErrUnknownSource, entries[i].SourceID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		} else if s.seen[e.ID] {
			continue
		}
		s.seen[e.ID] = true

		s.entries = append(s.entries, e)
		k := totalKey{sourceID: e.SourceID, period: e.Period, typ: e.Type}
		s.totals[k] = s.totals[k].Add(e.Amount)
		added++
	}

	if added == 0 {
		return 0, nil
	}

	// Period, then source, then type for deterministic ordering
	sort.SliceStable(s.entries, func(i, j int) bool {
		a, b := s.entries[i], s.entries[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		return a.Type < b.Type
	})
	return added, nil
}

// Count returns the number of stored entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entries returns a copy of the entries for a source, or all entries when sourceID is empty.
func (s *Store) Entries(sourceID string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Entry
	for _, e := range s.entries {
		if sourceID == "" || e.SourceID == sourceID {
			result = append(result, e)
		}
	}
	return result
}

// Span returns the first and last period holding actual revenue.
func (s *Store) Span() (first, last string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.Type != Actual || s.sources[e.SourceID].Kind != KindRevenue {
			continue
		}
		if !ok || e.Period < first {
			first = e.Period
		}
		if !ok || e.Period > last {
			last = e.Period
		}
		ok = true
	}
	return first, last, ok
}

// SourceMonthly returns the amount of one type booked for a source in a period,
// in the base currency. Recurring sources report their planned monthly amount
// as expected regardless of entries.
func (s *Store) SourceMonthly(sourceID, period string, typ EntryType) (float64, error) {
	src, ok := s.sources[sourceID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSource, sourceID)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sourceMonthlyLocked(src, period, typ).InexactFloat64(), nil
}

// MonthlyTotal sums one type across every source of a kind for a period, in the base currency.
func (s *Store) MonthlyTotal(period string, typ EntryType, kind Kind) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, src := range s.catalog.Sources {
		if src.Kind != kind {
			continue
		}
		total = total.Add(s.sourceMonthlyLocked(src, period, typ))
	}
	return total.InexactFloat64()
}

func (s *Store) sourceMonthlyLocked(src Source, period string, typ EntryType) decimal.Decimal {
	rate := s.rates[src.ID]
	if typ == Expected && src.Recurring && src.MonthlyAmount > 0 {
		if src.Since != "" && period < src.Since {
			return decimal.Zero
		}
		return decimal.NewFromFloat(src.MonthlyAmount).Mul(rate)
	}
	return s.totals[totalKey{sourceID: src.ID, period: period, typ: typ}].Mul(rate)
}

// Import reads JSONL entries from r and appends them. Any malformed line aborts the import.
func (s *Store) Import(r io.Reader) (int, error) {
	entries, err := decodeEntries(r, true)
	if err != nil {
		return 0, err
	}
	return s.Append(entries...)
}

// Export writes all entries to w as JSONL.
func (s *Store) Export(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	encoder := json.NewEncoder(w)
	for _, e := range s.entries {
		if err := encoder.Encode(e); err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}
	}
	return nil
}

// Load reads entries from a JSONL file. A missing file is not an error;
// unreadable lines are skipped.
func (s *Store) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer file.Close()

	entries, err := decodeEntries(file, false)
	if err != nil {
		return err
	}

	valid := entries[:0]
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			log.Warn().Err(err).Str("entry", e.ID).Msg("Skipping invalid ledger entry")
			continue
		}
		if _, ok := s.sources[e.SourceID]; !ok {
			log.Warn().Str("entry", e.ID).Str("source", e.SourceID).Msg("Skipping ledger entry for unknown source")
			continue
		}
		valid = append(valid, e)
	}

	added, err := s.Append(valid...)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Int("count", added).Msg("Loaded ledger entries")
	return nil
}

// Save persists all entries to a JSONL file, replacing it atomically.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create ledger dir: %w", err)
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp ledger file: %w", err)
	}

	writer := bufio.NewWriter(file)
	if err := s.Export(writer); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename ledger file: %w", err)
	}

	log.Info().Str("path", path).Int("count", s.Count()).Msg("Ledger saved")
	return nil
}

func decodeEntries(r io.Reader, strict bool) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			if strict {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidEntry, line, err)
			}
			log.Warn().Err(err).Int("line", line).Msg("Skipping invalid JSON line in ledger")
			continue
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ledger: %w", err)
	}
	return entries, nil
}
