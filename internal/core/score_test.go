package core

import "testing"

func TestScorePercentile(t *testing.T) {
	peers := NewPeerDistribution([]float64{5, 10, 15, 20, 25})

	// 2 of 5 peers strictly below 12 -> percentile 40 -> score 60
	if got := peers.Score(12); got != 60.0 {
		t.Fatalf("Score(12) = %v, want 60.0", got)
	}
	// below every peer -> 100
	if got := peers.Score(1); got != 100.0 {
		t.Fatalf("Score(1) = %v, want 100.0", got)
	}
	// above every peer -> 0
	if got := peers.Score(100); got != 0.0 {
		t.Fatalf("Score(100) = %v, want 0.0", got)
	}
	// equal values do not count as strictly below
	if got := peers.Score(5); got != 100.0 {
		t.Fatalf("Score(5) = %v, want 100.0", got)
	}
}

func TestScoreEmptyDistribution(t *testing.T) {
	var peers PeerDistribution
	if got := peers.Score(42); got != 50.0 {
		t.Fatalf("empty distribution Score = %v, want 50.0", got)
	}
	if got := peers.ClimateType(42); got != ClimateModerate {
		t.Fatalf("empty distribution ClimateType = %q, want %q", got, ClimateModerate)
	}
}

func TestScoreMonotonicAndBounded(t *testing.T) {
	peers := NewPeerDistribution([]float64{3, 9, 9, 14, 22, 31, 47})
	values := []float64{-1, 0, 2.9, 3, 8.99, 9, 13, 14, 22, 30, 47, 48, 1000}
	prev := 101.0
	for _, v := range values {
		s := peers.Score(v)
		if s < 0 || s > 100 {
			t.Fatalf("Score(%v) = %v out of bounds", v, s)
		}
		if s > prev {
			t.Fatalf("score increased for larger emission: Score(%v)=%v > %v", v, s, prev)
		}
		prev = s
	}
}

func TestClimateType(t *testing.T) {
	peers := NewPeerDistribution([]float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100})
	cases := []struct {
		carbonKg float64
		want     string
	}{
		{5, ClimateLow},     // rank 0.0
		{20, ClimateLow},    // rank 0.2, at the low cut
		{21, ClimateModerate},
		{50, ClimateModerate}, // rank 0.5
		{79, ClimateModerate}, // rank 0.7
		{80, ClimateHigh},     // rank 0.8, at the high cut
		{500, ClimateHigh},    // rank 1.0
	}
	for _, tc := range cases {
		if got := peers.ClimateType(tc.carbonKg); got != tc.want {
			t.Errorf("ClimateType(%v) = %q, want %q", tc.carbonKg, got, tc.want)
		}
	}
}

func TestNewPeerDistributionSortsCopy(t *testing.T) {
	src := []float64{30, 10, 20}
	peers := NewPeerDistribution(src)
	src[0] = -999 // mutating the source must not affect the distribution

	vals := peers.Values()
	if len(vals) != 3 || vals[0] != 10 || vals[1] != 20 || vals[2] != 30 {
		t.Fatalf("Values = %v, want sorted [10 20 30]", vals)
	}
}
