package core

import "sort"

// Spending-pattern and behavior labels.
const (
	MainTypeMixed         = "혼합형"
	BehaviorFrequentSmall = "소액 다빈"
	BehaviorRareLarge     = "고액 소빈"
	BehaviorBalanced      = "균형"

	typeSuffix = "형"
)

// Share thresholds for the spending-pattern archetype.
const (
	mainSingleShare   = 0.45
	mainComboFirst    = 0.30
	mainComboSecond   = 0.20
	mainComboBalanced = 0.25
)

// Behavior thresholds: many small transactions vs. few large ones.
const (
	behaviorMinCount     = 15
	behaviorSmallTicket  = 15_000
	behaviorMaxRareCount = 5
	behaviorLargeTicket  = 50_000
)

// MainType derives the month's spending-pattern archetype from the top
// category shares. A dominant category names the type on its own; two jointly
// dominant categories name a combined type; anything flatter is mixed.
func MainType(stats *MonthlyStats) string {
	ratios := stats.Ratios()

	type share struct {
		cat   Category
		ratio float64
	}
	shares := make([]share, 0, len(ratios))
	for cat, amt := range stats.CategoryAmounts {
		if amt <= 0 {
			continue
		}
		shares = append(shares, share{cat, ratios[cat]})
	}
	if len(shares) == 0 {
		return MainTypeMixed
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].ratio != shares[j].ratio {
			return shares[i].ratio > shares[j].ratio
		}
		return shares[i].cat < shares[j].cat
	})

	s1 := shares[0]
	var s2 share
	if len(shares) > 1 {
		s2 = shares[1]
	}

	switch {
	case s1.ratio >= mainSingleShare:
		return string(s1.cat) + typeSuffix
	case (s1.ratio >= mainComboFirst && s2.ratio >= mainComboSecond) ||
		(s1.ratio >= mainComboBalanced && s2.ratio >= mainComboBalanced):
		if s2.cat == "" {
			return string(s1.cat) + typeSuffix
		}
		return string(s1.cat) + "/" + string(s2.cat) + typeSuffix
	default:
		return MainTypeMixed
	}
}

// BehaviorType labels the month by transaction count and average ticket.
func BehaviorType(txnCount int, avgTicket float64) string {
	switch {
	case txnCount >= behaviorMinCount && avgTicket < behaviorSmallTicket:
		return BehaviorFrequentSmall
	case txnCount <= behaviorMaxRareCount && avgTicket >= behaviorLargeTicket:
		return BehaviorRareLarge
	default:
		return BehaviorBalanced
	}
}

// ClusterNameHint builds a display label from the top spending categories,
// e.g. "카페/한식/배달형". With no categories it falls back to the catch-all.
func ClusterNameHint(top []Category) string {
	if len(top) == 0 {
		return string(CategoryOther) + typeSuffix
	}
	s := string(top[0])
	for _, cat := range top[1:] {
		s += "/" + string(cat)
	}
	return s + typeSuffix
}
