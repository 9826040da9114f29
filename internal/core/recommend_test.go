package core

import "testing"

func TestRecommendOrderingAndCount(t *testing.T) {
	// delivery emits 30000*0.00015=4.5, flight 10000*0.00060=6.0, cafe 5000*0.00012=0.6
	stats := statsWithAmounts(map[Category]float64{
		CategoryDelivery: 30000,
		CategoryFlight:   10000,
		CategoryCafe:     5000,
	}, 6)

	recs := Recommend(stats, 2)
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Category != string(CategoryFlight) || recs[1].Category != string(CategoryDelivery) {
		t.Fatalf("wrong ordering: %q, %q", recs[0].Category, recs[1].Category)
	}
	if recs[0].ExpectedReductionKg < recs[1].ExpectedReductionKg {
		t.Fatalf("recommendations not sorted by descending reduction: %v < %v",
			recs[0].ExpectedReductionKg, recs[1].ExpectedReductionKg)
	}
	// 15% of 6.0 kg, rounded to 1 decimal
	if recs[0].ExpectedReductionKg != 0.9 {
		t.Fatalf("flight reduction = %v, want 0.9", recs[0].ExpectedReductionKg)
	}
	if recs[0].Action != "항공 소비 15% 줄이기" {
		t.Fatalf("action = %q", recs[0].Action)
	}
	if recs[0].Tip == "" {
		t.Fatal("expected a tip")
	}
}

func TestRecommendTopNClamped(t *testing.T) {
	stats := statsWithAmounts(map[Category]float64{CategoryCafe: 10000}, 2)
	recs := Recommend(stats, 5)
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation for a single category, got %d", len(recs))
	}
}

func TestRecommendDefaultTopN(t *testing.T) {
	stats := statsWithAmounts(map[Category]float64{
		CategoryCafe:    10000,
		CategoryTaxi:    10000,
		CategoryGrocery: 10000,
	}, 9)
	recs := Recommend(stats, 0)
	if len(recs) != DefaultTopRecommendations {
		t.Fatalf("expected %d recommendations, got %d", DefaultTopRecommendations, len(recs))
	}
}

func TestRecommendGenericTipFallback(t *testing.T) {
	stats := statsWithAmounts(map[Category]float64{CategoryDelivery: 10000}, 1)
	recs := Recommend(stats, 1)
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	// 배달 has no dedicated tip, so the generic guidance applies
	if recs[0].Tip != genericTip {
		t.Fatalf("tip = %q, want generic fallback", recs[0].Tip)
	}
}
