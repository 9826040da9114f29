package core

import "testing"

func TestInferCategory(t *testing.T) {
	cases := []struct {
		merchant string
		category string
		want     Category
	}{
		{"스타벅스 강남점", "", CategoryCafe},
		{"Starbucks Gangnam", "", CategoryCafe},
		{"배달의민족", "", CategoryDelivery},
		{"김밥천국", "", CategoryKorean},
		{"NIKE Seoul", "", CategoryFashion},
		{"이마트 성수", "", CategoryGrocery},
		{"쿠팡", "", CategoryOnline},
		{"카카오T", "", CategoryTaxi},
		{"지하철 충전", "", CategoryTransit},
		{"대한항공", "", CategoryFlight},
		{"강남치과", "", CategoryHospital},
		{"CGV 용산", "", CategoryCulture},
		{"", "교통", CategoryTransit},
		{"알 수 없는 가게", "", CategoryOther},
		// generic payment tokens fall back to online commerce
		{"hansol online store", "", CategoryOnline},
		{"무슨무슨 결제", "", CategoryOnline},
	}
	for _, tc := range cases {
		got := InferCategory(tc.merchant, tc.category)
		if got != tc.want {
			t.Errorf("InferCategory(%q, %q) = %q, want %q", tc.merchant, tc.category, got, tc.want)
		}
	}
}

func TestInferCategoryEmptyInput(t *testing.T) {
	for _, tc := range []struct{ merchant, category string }{
		{"", ""},
		{"   ", ""},
		{"", "  \t "},
	} {
		if got := InferCategory(tc.merchant, tc.category); got != CategoryOther {
			t.Errorf("InferCategory(%q, %q) = %q, want %q", tc.merchant, tc.category, got, CategoryOther)
		}
	}
}

func TestInferCategoryPriorityOrder(t *testing.T) {
	// 카페 rules come before 배달, so a text matching both resolves to 카페.
	if got := InferCategory("스타벅스 배달", ""); got != CategoryCafe {
		t.Fatalf("expected first matching rule to win, got %q", got)
	}
}

func TestInferCategoryDeterministicAndClosed(t *testing.T) {
	vocab := make(map[Category]bool)
	for _, c := range Categories() {
		vocab[c] = true
	}

	inputs := []struct{ merchant, category string }{
		{"스타벅스", ""},
		{"random shop", "stuff"},
		{"네이버페이", ""},
		{"", ""},
	}
	for _, in := range inputs {
		first := InferCategory(in.merchant, in.category)
		for i := 0; i < 5; i++ {
			if got := InferCategory(in.merchant, in.category); got != first {
				t.Fatalf("InferCategory(%q, %q) not deterministic: %q then %q", in.merchant, in.category, first, got)
			}
		}
		if !vocab[first] {
			t.Fatalf("InferCategory(%q, %q) = %q, not in vocabulary", in.merchant, in.category, first)
		}
	}
}
