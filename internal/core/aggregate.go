package core

import "sort"

// MonthlyStats accumulates one calendar month of spending.
type MonthlyStats struct {
	Month            string // YYYY-MM
	CategoryAmounts  map[Category]float64
	TotalAmount      float64
	TransactionCount int
}

// Aggregate groups records by calendar month, inferring each record's
// category from its merchant and category text. Input order is irrelevant;
// the returned slice is sorted ascending by month key.
func Aggregate(records []Record) []*MonthlyStats {
	byMonth := make(map[string]*MonthlyStats)

	for _, rec := range records {
		key := MonthKey(rec.Date)
		stats, ok := byMonth[key]
		if !ok {
			stats = &MonthlyStats{
				Month:           key,
				CategoryAmounts: make(map[Category]float64),
			}
			byMonth[key] = stats
		}

		cat := InferCategory(rec.Merchant, rec.CategoryText)
		stats.CategoryAmounts[cat] += rec.Amount
		stats.TotalAmount += rec.Amount
		stats.TransactionCount++
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*MonthlyStats, 0, len(keys))
	for _, k := range keys {
		out = append(out, byMonth[k])
	}
	return out
}

// Ratios returns each category's share of the month's total amount.
// Shares sum to 1.0 when TotalAmount is positive; the result is empty otherwise.
func (m *MonthlyStats) Ratios() map[Category]float64 {
	ratios := make(map[Category]float64, len(m.CategoryAmounts))
	if m.TotalAmount <= 0 {
		return ratios
	}
	for cat, amt := range m.CategoryAmounts {
		ratios[cat] = amt / m.TotalAmount
	}
	return ratios
}

// AverageTicket returns the mean amount per transaction.
func (m *MonthlyStats) AverageTicket() float64 {
	n := m.TransactionCount
	if n < 1 {
		n = 1
	}
	return m.TotalAmount / float64(n)
}

// TopCategories returns up to n category names ordered by descending amount.
// Ties break on category name so the ordering is deterministic.
func (m *MonthlyStats) TopCategories(n int) []Category {
	type pair struct {
		cat Category
		amt float64
	}
	pairs := make([]pair, 0, len(m.CategoryAmounts))
	for cat, amt := range m.CategoryAmounts {
		pairs = append(pairs, pair{cat, amt})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].amt != pairs[j].amt {
			return pairs[i].amt > pairs[j].amt
		}
		return pairs[i].cat < pairs[j].cat
	})
	if n > len(pairs) {
		n = len(pairs)
	}
	out := make([]Category, 0, n)
	for _, p := range pairs[:n] {
		out = append(out, p.cat)
	}
	return out
}
