package core

import (
	"fmt"
	"sort"
)

// DefaultTopRecommendations is the number of reduction suggestions produced
// per month unless the caller asks for more.
const DefaultTopRecommendations = 2

// reductionRatio is the fixed share of a category's emission assumed
// achievable by following a recommendation.
const reductionRatio = 0.15

// Recommendation is one reduction suggestion for a high-emitting category.
type Recommendation struct {
	Category            string  `json:"category"`
	Action              string  `json:"action"`
	ExpectedReductionKg float64 `json:"expected_reduction_kg"`
	Tip                 string  `json:"tip"`
}

var categoryTips = map[Category]string{
	CategoryCafe:     "텀블러 사용 + 배달 대신 매장 이용",
	CategoryKorean:   "배달 1회→매장 전환",
	CategoryFashion:  "필요한 것만 구매 + 중고 거래 고려",
	CategoryGrocery:  "로컬 생산 식품 선택 + 포장 줄이기",
	CategoryOnline:   "필요한 것만 구매 + 배송 횟수 줄이기",
	CategoryTaxi:     "대중교통 이용 + 자전거/도보 고려",
	CategoryTransit:  "대중교통 이용 + 자전거/도보 고려",
	CategoryFlight:   "필요한 경우만 이용 + 기차 대안 고려",
	CategoryHospital: "예방 건강 관리로 방문 횟수 줄이기",
	CategoryCulture:  "온라인 콘텐츠 활용 + 지역 문화 시설 이용",
	CategoryOther:    "불필요한 소비 줄이기",
}

const genericTip = "해당 카테고리 소비 15% 줄이기"

// Recommend picks the topN categories by estimated emission contribution and
// suggests a fixed 15% reduction for each, with category-specific guidance.
func Recommend(stats *MonthlyStats, topN int) []Recommendation {
	if topN <= 0 {
		topN = DefaultTopRecommendations
	}

	ratios := stats.Ratios()
	type contribution struct {
		cat      Category
		emission float64
	}
	contribs := make([]contribution, 0, len(ratios))
	for cat, ratio := range ratios {
		contribs = append(contribs, contribution{cat, stats.TotalAmount * ratio * EmissionFactor(cat)})
	}
	sort.Slice(contribs, func(i, j int) bool {
		if contribs[i].emission != contribs[j].emission {
			return contribs[i].emission > contribs[j].emission
		}
		return contribs[i].cat < contribs[j].cat
	})
	if topN > len(contribs) {
		topN = len(contribs)
	}

	recs := make([]Recommendation, 0, topN)
	for _, c := range contribs[:topN] {
		tip, ok := categoryTips[c.cat]
		if !ok {
			tip = genericTip
		}
		recs = append(recs, Recommendation{
			Category:            string(c.cat),
			Action:              fmt.Sprintf("%s 소비 15%% 줄이기", c.cat),
			ExpectedReductionKg: round1(c.emission * reductionRatio),
			Tip:                 tip,
		})
	}
	return recs
}
