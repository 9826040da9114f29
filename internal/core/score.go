package core

import "sort"

// Climate type labels derived from the peer percentile rank.
const (
	ClimateLow      = "저탄소"
	ClimateModerate = "보통"
	ClimateHigh     = "고탄소(개선 필요)"
)

// Percentile cuts for the climate type: at or above the high cut the month is
// high-carbon, at or below the low cut it is low-carbon.
const (
	climateHighCut = 0.80
	climateLowCut  = 0.20
)

// neutralScore is returned when no peer data is available.
const neutralScore = 50.0

// PeerDistribution holds the reference population's carbon values, sorted
// ascending. It is immutable after construction, so concurrent reads need no
// synchronization.
type PeerDistribution struct {
	values []float64
}

// NewPeerDistribution copies and sorts the given peer carbon values.
func NewPeerDistribution(values []float64) PeerDistribution {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return PeerDistribution{values: sorted}
}

// Len returns the number of peer values.
func (p PeerDistribution) Len() int {
	return len(p.values)
}

// Values returns a copy of the sorted peer values.
func (p PeerDistribution) Values() []float64 {
	out := make([]float64, len(p.values))
	copy(out, p.values)
	return out
}

// Score maps an emission value to a 0-100 score where lower emission scores
// higher: 100 minus the percentage of peers strictly below carbonKg.
// An empty distribution yields the neutral 50.0.
func (p PeerDistribution) Score(carbonKg float64) float64 {
	if len(p.values) == 0 {
		return neutralScore
	}
	below := sort.SearchFloat64s(p.values, carbonKg)
	percentile := float64(below) / float64(len(p.values)) * 100
	score := 100 - percentile
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ClimateType labels an emission value by its fractional rank among peers
// (share of peers at or below carbonKg). An empty distribution yields the
// moderate label.
func (p PeerDistribution) ClimateType(carbonKg float64) string {
	if len(p.values) == 0 {
		return ClimateModerate
	}
	atOrBelow := sort.Search(len(p.values), func(i int) bool {
		return p.values[i] > carbonKg
	})
	rank := float64(atOrBelow) / float64(len(p.values))
	switch {
	case rank >= climateHighCut:
		return ClimateHigh
	case rank <= climateLowCut:
		return ClimateLow
	default:
		return ClimateModerate
	}
}
