package stats

// SeasonLength is the number of monthly buckets in a seasonal profile.
const SeasonLength = 12

// SeasonalitySignificance is the population variance of the factors above which
// a profile counts as seasonal.
const SeasonalitySignificance = 0.01

// SeasonalProfile holds monthly seasonal index factors (monthAverage / overallAverage).
type SeasonalProfile struct {
	HasSeasonality  bool      `json:"hasSeasonality"`
	SeasonalFactors []float64 `json:"seasonalFactors"`
}

// DetectSeasonality derives 12 factors by bucketing values on index mod 12.
// At least a full year of observations and a nonzero overall average are required.
func DetectSeasonality(values []float64) SeasonalProfile {
	if len(values) < SeasonLength {
		return SeasonalProfile{}
	}

	overall := Mean(values)
	if overall == 0 {
		return SeasonalProfile{}
	}

	sums := make([]float64, SeasonLength)
	counts := make([]int, SeasonLength)
	for i, v := range values {
		sums[i%SeasonLength] += v
		counts[i%SeasonLength]++
	}

	factors := make([]float64, SeasonLength)
	for m := range factors {
		factors[m] = (sums[m] / float64(counts[m])) / overall
	}

	return SeasonalProfile{
		HasSeasonality:  Variance(factors) > SeasonalitySignificance,
		SeasonalFactors: factors,
	}
}

// Factor returns the seasonal factor for a series index, or 1 when the profile is not seasonal.
func (p SeasonalProfile) Factor(index int) float64 {
	if !p.HasSeasonality || len(p.SeasonalFactors) != SeasonLength || index < 0 {
		return 1
	}
	return p.SeasonalFactors[index%SeasonLength]
}
