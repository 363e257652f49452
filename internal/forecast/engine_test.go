package forecast

import (
	"errors"
	"math"
	"testing"

	"revcast/internal/stats"
)

func monthly(start string, values ...float64) []TimeSeriesPoint {
	series := make([]TimeSeriesPoint, len(values))
	for i, v := range values {
		key, _ := AddMonths(start, i)
		series[i] = TimeSeriesPoint{PeriodKey: key, Value: v}
	}
	return series
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestForecast_EmptySeries(t *testing.T) {
	for _, m := range Methods() {
		points, err := Forecast(nil, 3, m)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", m, err)
		}
		if len(points) != 0 {
			t.Errorf("%s: expected empty forecast, got %d points", m, len(points))
		}
	}
}

func TestForecast_SinglePointIsConstant(t *testing.T) {
	series := monthly("2024-05", 750)
	for _, m := range Methods() {
		points, err := Forecast(series, 4, m)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", m, err)
		}
		for i, p := range points {
			if !approx(p.Predicted, 750) {
				t.Errorf("%s: point %d predicted %v, want 750", m, i, p.Predicted)
			}
		}
	}
}

func TestForecast_LengthMatchesPeriods(t *testing.T) {
	series := monthly("2024-01", 100, 120, 90, 140, 130)
	for _, m := range Methods() {
		for _, n := range []int{0, 1, 5, 12} {
			points, err := Forecast(series, n, m)
			if err != nil {
				t.Fatalf("%s: unexpected error %v", m, err)
			}
			if len(points) != n {
				t.Errorf("%s: len = %d, want %d", m, len(points), n)
			}
			for _, p := range points {
				if p.Method != m {
					t.Errorf("%s: point tagged with method %s", m, p.Method)
				}
			}
		}
	}
}

func TestForecast_NegativePeriods(t *testing.T) {
	_, err := Forecast(monthly("2024-01", 1, 2), -1, MethodSimple)
	if !errors.Is(err, ErrNegativePeriods) {
		t.Errorf("expected ErrNegativePeriods, got %v", err)
	}
}

func TestForecast_InvalidPeriodKey(t *testing.T) {
	series := []TimeSeriesPoint{{PeriodKey: "March", Value: 10}}
	if _, err := Forecast(series, 2, MethodSimple); err == nil {
		t.Error("expected error for malformed period key")
	}
}

func TestForecast_PredictionsNeverNegative(t *testing.T) {
	series := monthly("2024-01", 1000, 600, 300, 100)
	for _, m := range Methods() {
		points, _ := Forecast(series, 12, m)
		for i, p := range points {
			if p.Predicted < 0 {
				t.Errorf("%s: point %d negative (%v)", m, i, p.Predicted)
			}
		}
	}
}

func TestForecast_Simple(t *testing.T) {
	points, err := Forecast(monthly("2024-01", 1000, 1000, 1000), 3, MethodSimple)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2024-04", "2024-05", "2024-06"}
	for i, p := range points {
		if p.Predicted != 1000 {
			t.Errorf("point %d predicted %v, want 1000", i, p.Predicted)
		}
		if p.PeriodKey != want[i] {
			t.Errorf("point %d key %s, want %s", i, p.PeriodKey, want[i])
		}
	}

	// Only the trailing three points count.
	points, _ = Forecast(monthly("2024-01", 9000, 100, 200, 300), 1, MethodSimple)
	if !approx(points[0].Predicted, 200) {
		t.Errorf("simple predicted %v, want 200", points[0].Predicted)
	}
}

func TestForecast_Linear(t *testing.T) {
	points, err := Forecast(monthly("2024-10", 1000, 1100, 1200), 3, MethodLinear)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1300, 1400, 1500}
	keys := []string{"2025-01", "2025-02", "2025-03"}
	for i, p := range points {
		if !approx(p.Predicted, want[i]) {
			t.Errorf("point %d predicted %v, want %v", i, p.Predicted, want[i])
		}
		if p.PeriodKey != keys[i] {
			t.Errorf("point %d key %s, want %s", i, p.PeriodKey, keys[i])
		}
	}
}

func TestForecast_Weighted(t *testing.T) {
	// base = (100*1 + 110*2 + 121*3) / 6 = 113.8333..., growth = 10%
	points, _ := Forecast(monthly("2024-01", 100, 110, 121), 2, MethodWeighted)
	base := (100.0 + 220.0 + 363.0) / 6
	if !approx(points[0].Predicted, base*1.1) {
		t.Errorf("period 1 = %v, want %v", points[0].Predicted, base*1.1)
	}
	if !approx(points[1].Predicted, base*1.1*1.1) {
		t.Errorf("period 2 = %v, want %v", points[1].Predicted, base*1.21)
	}
}

func TestForecast_ExponentialDampsGrowth(t *testing.T) {
	values := []float64{100, 110, 121}
	points, _ := Forecast(monthly("2024-01", values...), 1, MethodExponential)

	ema := 100.0
	ema = 0.3*110 + 0.7*ema
	ema = 0.3*121 + 0.7*ema
	want := ema * 1.05
	if !approx(points[0].Predicted, want) {
		t.Errorf("exponential = %v, want %v", points[0].Predicted, want)
	}
}

func TestGrowthRate_SkipsZeroDenominators(t *testing.T) {
	got := GrowthRate([]float64{0, 100, 150})
	if !approx(got, 0.5) {
		t.Errorf("GrowthRate = %v, want 0.5", got)
	}
	if GrowthRate([]float64{0, 0, 0}) != 0 {
		t.Error("all-zero series should have zero growth")
	}
	if GrowthRate(nil) != 0 {
		t.Error("empty series should have zero growth")
	}
}

func TestParseMethod(t *testing.T) {
	tests := map[string]Method{
		"simple":       MethodSimple,
		"Linear":       MethodLinear,
		" exponential": MethodExponential,
		"weighted":     MethodWeighted,
		"holt":         MethodWeighted,
		"":             MethodWeighted,
	}
	for in, want := range tests {
		if got := ParseMethod(in); got != want {
			t.Errorf("ParseMethod(%q) = %s, want %s", in, got, want)
		}
	}

	// Unknown methods fall back to weighted inside Forecast as well.
	points, _ := Forecast(monthly("2024-01", 10, 20), 1, Method("bogus"))
	if points[0].Method != MethodWeighted {
		t.Errorf("fallback method = %s, want weighted", points[0].Method)
	}
}

func TestApplySeasonality(t *testing.T) {
	factors := make([]float64, 12)
	for i := range factors {
		factors[i] = 1
	}
	factors[0] = 2
	profile := stats.SeasonalProfile{HasSeasonality: true, SeasonalFactors: factors}

	series := monthly("2024-01", make([]float64, 12)...)
	points := []ForecastPoint{{PeriodKey: "2025-01", Predicted: 100}, {PeriodKey: "2025-02", Predicted: 100}}
	out := ApplySeasonality(series, points, profile)
	if out[0].Predicted != 200 || out[1].Predicted != 100 {
		t.Errorf("seasonal adjustment = %v, %v; want 200, 100", out[0].Predicted, out[1].Predicted)
	}
	if points[0].Predicted != 100 {
		t.Error("ApplySeasonality must not mutate its input")
	}

	flat := ApplySeasonality(series, points, stats.SeasonalProfile{})
	if flat[0].Predicted != 100 {
		t.Error("non-seasonal profile should leave points unchanged")
	}
}
