package stats

import (
	"math"
	"testing"
)

func TestFitLinear(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		slope     float64
		intercept float64
	}{
		{"Empty", nil, 0, 0},
		{"SinglePoint", []float64{250}, 0, 250},
		{"Rising", []float64{1000, 1100, 1200}, 100, 1000},
		{"Flat", []float64{5, 5, 5, 5}, 0, 5},
		{"Falling", []float64{30, 20, 10}, -10, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FitLinear(tt.values)
			if math.Abs(m.Slope-tt.slope) > 1e-9 {
				t.Errorf("Slope = %v, want %v", m.Slope, tt.slope)
			}
			if math.Abs(m.Intercept-tt.intercept) > 1e-9 {
				t.Errorf("Intercept = %v, want %v", m.Intercept, tt.intercept)
			}
		})
	}
}

func TestRegressionPredict(t *testing.T) {
	m := FitLinear([]float64{1000, 1100, 1200})
	for i, want := range []float64{1300, 1400, 1500} {
		if got := m.Predict(float64(3 + i)); math.Abs(got-want) > 1e-9 {
			t.Errorf("Predict(%d) = %v, want %v", 3+i, got, want)
		}
	}
}
