// Package core implements the monthly carbon estimation pipeline: record
// aggregation, category inference, emission estimation, peer scoring, type
// classification, and reduction recommendations. Every operation is a pure
// function over its inputs; the only shared value, the peer distribution, is
// immutable after construction.
package core

import (
	"errors"
	"math"
)

// ErrNoUsableRecords is returned when every supplied row was dropped during
// normalization or aggregation and no month could be produced.
var ErrNoUsableRecords = errors.New("no usable records")

// MonthlyResult is the per-month output of the pipeline.
type MonthlyResult struct {
	Month           string           `json:"month"`
	TotalAmount     float64          `json:"total_amt"`
	ClusterNameHint string           `json:"cluster_name_hint"`
	CarbonKg        float64          `json:"carbon_kg"`
	CarbonScore     float64          `json:"carbon_score"`
	MainType        string           `json:"main_type"`
	ClimateType     string           `json:"climate_type"`
	BehaviorType    string           `json:"behavior_type"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Process runs the full pipeline over normalized records: monthly
// aggregation, emission estimation, peer scoring, classification, and
// recommendations. Results are ordered ascending by month; months with a
// non-positive total are skipped. ErrNoUsableRecords is returned when
// nothing survives.
func Process(records []Record, peers PeerDistribution) ([]MonthlyResult, error) {
	months := Aggregate(records)

	results := make([]MonthlyResult, 0, len(months))
	for _, stats := range months {
		if stats.TotalAmount <= 0 {
			continue
		}

		ratios := stats.Ratios()
		carbonKg := EstimateEmission(stats.TotalAmount, ratios)

		results = append(results, MonthlyResult{
			Month:           stats.Month,
			TotalAmount:     round1(stats.TotalAmount),
			ClusterNameHint: ClusterNameHint(stats.TopCategories(3)),
			CarbonKg:        round1(carbonKg),
			CarbonScore:     round1(peers.Score(carbonKg)),
			MainType:        MainType(stats),
			ClimateType:     peers.ClimateType(carbonKg),
			BehaviorType:    BehaviorType(stats.TransactionCount, stats.AverageTicket()),
			Recommendations: Recommend(stats, DefaultTopRecommendations),
		})
	}

	if len(results) == 0 {
		return nil, ErrNoUsableRecords
	}
	return results, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
