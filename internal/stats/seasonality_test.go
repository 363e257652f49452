package stats

import (
	"math"
	"testing"
)

func TestDetectSeasonality_InsufficientData(t *testing.T) {
	p := DetectSeasonality([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})
	if p.HasSeasonality || p.SeasonalFactors != nil {
		t.Errorf("expected empty profile for 11 observations, got %+v", p)
	}
}

func TestDetectSeasonality_ZeroAverage(t *testing.T) {
	p := DetectSeasonality(make([]float64, 24))
	if p.HasSeasonality || p.SeasonalFactors != nil {
		t.Errorf("expected empty profile for all-zero series, got %+v", p)
	}
}

func TestDetectSeasonality_FlatYear(t *testing.T) {
	values := make([]float64, 12)
	for i := range values {
		values[i] = 1000
	}
	p := DetectSeasonality(values)
	if p.HasSeasonality {
		t.Error("flat series must not be seasonal")
	}
	if len(p.SeasonalFactors) != 12 {
		t.Fatalf("expected 12 factors, got %d", len(p.SeasonalFactors))
	}
	for i, f := range p.SeasonalFactors {
		if f != 1 {
			t.Errorf("factor[%d] = %v, want 1", i, f)
		}
	}
}

func TestDetectSeasonality_Alternating(t *testing.T) {
	var values []float64
	for year := 0; year < 2; year++ {
		for m := 0; m < 12; m++ {
			if m%2 == 0 {
				values = append(values, 500)
			} else {
				values = append(values, 1500)
			}
		}
	}

	p := DetectSeasonality(values)
	if !p.HasSeasonality {
		t.Fatal("alternating 0.5x/1.5x series should be seasonal")
	}

	sum := 0.0
	for i, f := range p.SeasonalFactors {
		sum += f
		want := 0.5
		if i%2 == 1 {
			want = 1.5
		}
		if math.Abs(f-want) > 1e-9 {
			t.Errorf("factor[%d] = %v, want %v", i, f, want)
		}
	}
	if math.Abs(sum/12-1) > 1e-9 {
		t.Errorf("factors should average to 1, got %v", sum/12)
	}
	if p.Factor(13) != 1.5 {
		t.Errorf("Factor(13) = %v, want 1.5", p.Factor(13))
	}
}
