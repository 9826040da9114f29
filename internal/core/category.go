package core

import "strings"

// Category is one of the fixed consumption categories a spending record can
// be assigned to. The set is closed; anything unrecognized maps to CategoryOther.
type Category string

const (
	CategoryCafe     Category = "카페"
	CategoryKorean   Category = "한식"
	CategoryFashion  Category = "패션"
	CategoryGrocery  Category = "식품"
	CategoryOnline   Category = "온라인"
	CategoryTaxi     Category = "택시"
	CategoryTransit  Category = "교통"
	CategoryFlight   Category = "항공"
	CategoryHospital Category = "병원"
	CategoryCulture  Category = "문화"
	CategoryDelivery Category = "배달"
	CategoryOther    Category = "기타"
)

// Categories lists the full vocabulary in rule-priority order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryRules)+1)
	for _, r := range categoryRules {
		out = append(out, r.category)
	}
	return append(out, CategoryOther)
}

type categoryRule struct {
	category Category
	keywords []string
}

// categoryRules maps each category to its match keywords. Order matters:
// the first rule with a matching keyword wins.
var categoryRules = []categoryRule{
	{CategoryCafe, []string{"카페", "커피", "스타벅스", "starbucks"}},
	{CategoryKorean, []string{"한식", "국밥", "김밥", "백반", "순대", "고기", "찌개"}},
	{CategoryFashion, []string{"의류", "패션", "나이키", "nike", "아디다스", "adidas", "무신사", "자라", "zara", "유니클로", "uniqlo"}},
	{CategoryGrocery, []string{"마트", "이마트", "emart", "홈플", "롯데마트", "costco", "코스트코", "편의점", "cu", "gs25", "세븐일레븐", "seven eleven", "세븐"}},
	{CategoryOnline, []string{"쿠팡", "coupang", "네이버페이", "naver pay", "스마일페이", "마켓컬리", "11번가", "g마켓", "gmarket", "ssg", "pay"}},
	{CategoryTaxi, []string{"택시", "카카오t", "kakaot", "타다", "우버", "uber"}},
	{CategoryTransit, []string{"버스", "지하철", "전철", "철도", "ktx", "srt", "티머니", "tmoney", "교통"}},
	{CategoryFlight, []string{"항공", "대한항공", "korean air", "아시아나", "asiana", "제주항공", "진에어", "티웨이", "이스타"}},
	{CategoryHospital, []string{"병원", "의원", "치과", "한의원", "약국"}},
	{CategoryCulture, []string{"영화", "공연", "극장", "cgv", "메가박스", "megabox", "뮤지컬", "musical", "전시"}},
	{CategoryDelivery, []string{"배달", "배달의민족", "배민", "baemin", "요기요", "yogiyo", "쿠팡이츠", "coupang eats", "coupangeats", "ubereats", "요기패스", "배민페이"}},
}

// Common payment tokens that indicate an online purchase when nothing else matched.
var onlineFallbackTokens = []string{"pay", "결제", "online", "on-line"}

// InferCategory maps free-form merchant and category text to one consumption
// category by case-insensitive substring matching over the keyword rules.
// Both inputs may be empty; an entirely empty text yields CategoryOther.
func InferCategory(merchant, categoryText string) Category {
	text := normText(merchant) + " " + normText(categoryText)
	if strings.TrimSpace(text) == "" {
		return CategoryOther
	}

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}

	for _, tok := range onlineFallbackTokens {
		if strings.Contains(text, tok) {
			return CategoryOnline
		}
	}

	return CategoryOther
}

func normText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
