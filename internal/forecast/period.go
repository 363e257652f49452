package forecast

import (
	"fmt"
	"time"
)

// PeriodLayout is the layout of a monthly period key.
const PeriodLayout = "2006-01"

// ParsePeriod parses a "YYYY-MM" key into the first day of that month (UTC).
func ParsePeriod(key string) (time.Time, error) {
	t, err := time.Parse(PeriodLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period key %q: %w", key, err)
	}
	return t, nil
}

// PeriodKey formats a time as a "YYYY-MM" key.
func PeriodKey(t time.Time) string {
	return t.Format(PeriodLayout)
}

// AddMonths advances a period key by n calendar months.
func AddMonths(key string, n int) (string, error) {
	t, err := ParsePeriod(key)
	if err != nil {
		return "", err
	}
	return PeriodKey(time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)), nil
}

// futureKeys returns the n period keys following last.
func futureKeys(last string, n int) ([]string, error) {
	start, err := ParsePeriod(last)
	if err != nil {
		return nil, err
	}
	keys := make([]string, n)
	for i := range keys {
		keys[i] = PeriodKey(time.Date(start.Year(), start.Month()+time.Month(i+1), 1, 0, 0, 0, 0, time.UTC))
	}
	return keys, nil
}
