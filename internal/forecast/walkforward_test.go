package forecast

import (
	"testing"
)

func TestWalkForward_SteadySeries(t *testing.T) {
	series := monthly("2023-01", 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000)

	res, err := WalkForward(series, WalkForwardConfig{Method: MethodSimple})
	if err != nil {
		t.Fatalf("Execution failed: %v", err)
	}

	if len(res.Checkpoints) != 5 {
		t.Fatalf("Expected 5 checkpoints, got %d", len(res.Checkpoints))
	}
	if res.Checkpoints[0].PeriodKey != "2023-04" || res.Checkpoints[0].TrainSize != 3 {
		t.Errorf("first checkpoint = %+v", res.Checkpoints[0])
	}
	if res.AccuracyScore != 1 {
		t.Errorf("Expected Accuracy Score 1, got %.2f", res.AccuracyScore)
	}
	if res.Metrics == nil || res.Metrics.MAE != 0 {
		t.Errorf("Expected zero MAE, got %+v", res.Metrics)
	}
}

func TestWalkForward_Horizon(t *testing.T) {
	series := monthly("2023-01", 100, 200, 300, 400, 500, 600)

	res, err := WalkForward(series, WalkForwardConfig{Method: MethodLinear, MinTrain: 2, Horizon: 2})
	if err != nil {
		t.Fatal(err)
	}
	// cutoffs 2,3,4 -> targets index 3,4,5
	if len(res.Checkpoints) != 3 {
		t.Fatalf("Expected 3 checkpoints, got %d", len(res.Checkpoints))
	}
	for _, cp := range res.Checkpoints {
		if !approx(cp.Actual, cp.Predicted) {
			t.Errorf("%s: linear series should be predicted exactly (actual %.1f, predicted %.1f)", cp.PeriodKey, cp.Actual, cp.Predicted)
		}
	}
}

func TestWalkForward_InsufficientHistory(t *testing.T) {
	res, err := WalkForward(monthly("2023-01", 1, 2), WalkForwardConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Checkpoints) != 0 || res.Metrics != nil {
		t.Errorf("expected no checkpoints, got %+v", res)
	}
	if res.Method != MethodWeighted {
		t.Errorf("default method = %s, want weighted", res.Method)
	}
}
