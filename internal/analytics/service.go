package analytics

import (
	"fmt"
	"time"

	"revcast/internal/forecast"
	"revcast/internal/ledger"
)

// Options configures a Service.
type Options struct {
	FiscalYear    int
	LocalCurrency string
	Method        forecast.Method
	Periods       int
	Workers       int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service derives forecasts and performance views from the ledger.
// Nothing is cached: every call recomputes from the stored entries.
type Service struct {
	store *ledger.Store
	opts  Options
}

// NewService wires a Service over a ledger store.
func NewService(store *ledger.Store, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FiscalYear == 0 {
		opts.FiscalYear = opts.Now().Year()
	}
	if opts.Method == "" {
		opts.Method = forecast.DefaultMethod
	}
	if opts.Periods <= 0 {
		opts.Periods = 6
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.LocalCurrency == "" {
		opts.LocalCurrency = store.BaseCurrency()
	}
	return &Service{store: store, opts: opts}
}

// Store exposes the underlying ledger.
func (s *Service) Store() *ledger.Store {
	return s.store
}

// Currency is the currency every figure is reported in.
func (s *Service) Currency() string {
	return s.store.BaseCurrency()
}

// FiscalYear returns the year the YTD views cover.
func (s *Service) FiscalYear() int {
	return s.opts.FiscalYear
}

// DefaultPeriods returns the configured forecast horizon.
func (s *Service) DefaultPeriods() int {
	return s.opts.Periods
}

// History returns the monthly actual revenue of a source, or of all revenue
// sources when sourceID is empty, from the first month with recorded revenue
// through the last one, never past the current month. Months without revenue
// are left out, so the series may skip periods.
func (s *Service) History(sourceID string) ([]forecast.TimeSeriesPoint, error) {
	var src ledger.Source
	if sourceID != "" {
		var err error
		if src, err = s.store.Source(sourceID); err != nil {
			return nil, err
		}
	}

	periods, err := s.historyPeriods()
	if err != nil {
		return nil, err
	}

	series := make([]forecast.TimeSeriesPoint, 0, len(periods))
	for _, p := range periods {
		var v float64
		if sourceID == "" {
			v = s.store.MonthlyTotal(p, ledger.Actual, ledger.KindRevenue)
		} else {
			v, err = s.store.SourceMonthly(src.ID, p, ledger.Actual)
			if err != nil {
				return nil, err
			}
		}
		if v == 0 {
			continue
		}
		series = append(series, forecast.TimeSeriesPoint{PeriodKey: p, Value: v})
	}
	return series, nil
}

func (s *Service) historyPeriods() ([]string, error) {
	first, last, ok := s.store.Span()
	if !ok {
		return nil, nil
	}
	if current := forecast.PeriodKey(s.opts.Now()); last > current {
		last = current
	}
	return periodRange(first, last)
}

// ytdPeriods lists the months counted as year to date and names the current period.
func (s *Service) ytdPeriods() (periods []string, current string) {
	now := s.opts.Now()
	fy := s.opts.FiscalYear

	months := 0
	switch {
	case fy < now.Year():
		months = 12
		current = fmt.Sprintf("%04d-12", fy)
	case fy == now.Year():
		months = int(now.Month())
		current = forecast.PeriodKey(now)
	default:
		current = fmt.Sprintf("%04d-01", fy)
	}

	for m := 1; m <= months; m++ {
		periods = append(periods, fmt.Sprintf("%04d-%02d", fy, m))
	}
	return periods, current
}

func periodRange(first, last string) ([]string, error) {
	var out []string
	for p := first; p <= last; {
		out = append(out, p)
		next, err := forecast.AddMonths(p, 1)
		if err != nil {
			return nil, err
		}
		p = next
	}
	return out, nil
}
