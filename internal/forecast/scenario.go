package forecast

import (
	"errors"
	"fmt"
	"strings"
)

// Scenario is a named multiplicative adjustment of a baseline forecast.
type Scenario string

const (
	ScenarioConservative Scenario = "conservative"
	ScenarioBaseline     Scenario = "baseline"
	ScenarioOptimistic   Scenario = "optimistic"
	// ScenarioCustom currently behaves exactly like the baseline.
	ScenarioCustom Scenario = "custom"
)

var scenarioFactors = map[Scenario]float64{
	ScenarioConservative: 0.9,
	ScenarioBaseline:     1.0,
	ScenarioOptimistic:   1.15,
	ScenarioCustom:       1.0,
}

// ErrUnknownScenario is returned for scenario names outside the known set.
var ErrUnknownScenario = errors.New("unknown scenario")

// Factor returns the multiplier applied to predicted values.
func (s Scenario) Factor() float64 {
	if f, ok := scenarioFactors[s]; ok {
		return f
	}
	return 1.0
}

// ParseScenario resolves a scenario name.
func ParseScenario(name string) (Scenario, error) {
	s := Scenario(strings.ToLower(strings.TrimSpace(name)))
	if s == "" {
		return ScenarioBaseline, nil
	}
	if _, ok := scenarioFactors[s]; !ok {
		return "", fmt.Errorf("%w %q (expected conservative, baseline, optimistic or custom)", ErrUnknownScenario, name)
	}
	return s, nil
}

// ScenarioForecast is one scenario variant of a forecast.
type ScenarioForecast struct {
	Scenario Scenario                 `json:"scenario"`
	Factor   float64                  `json:"factor"`
	Points   []ForecastWithConfidence `json:"points"`
}

// Project scales the predicted values of a forecast. Confidence is derived from
// history and stays the same; the bounds follow the scaled value.
func Project(base []ForecastWithConfidence, scenario Scenario) []ForecastWithConfidence {
	factor := scenario.Factor()
	out := make([]ForecastWithConfidence, len(base))
	for i, p := range base {
		p.Predicted *= factor
		p.LowerBound, p.UpperBound = Bounds(p.Predicted, p.Confidence)
		out[i] = p
	}
	return out
}

// ProjectAll fans a forecast out into the conservative, baseline and optimistic variants.
func ProjectAll(base []ForecastWithConfidence) []ScenarioForecast {
	scenarios := []Scenario{ScenarioConservative, ScenarioBaseline, ScenarioOptimistic}
	out := make([]ScenarioForecast, len(scenarios))
	for i, s := range scenarios {
		out[i] = ScenarioForecast{
			Scenario: s,
			Factor:   s.Factor(),
			Points:   Project(base, s),
		}
	}
	return out
}
