package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"salespulse/internal/models"
)

// Aggregate reduces a sequence of transaction records into an
// AnalyticsSummary. It is a pure function: no side effects, and an empty
// input yields a zeroed summary with empty (non-nil) ranked lists.
//
// All revenue sums use exact decimal arithmetic so that the partition
// invariant holds without rounding drift: the sum over any single complete
// grouping equals TotalRevenue.
func Aggregate(records []models.TransactionRecord) models.AnalyticsSummary {
	summary := models.AnalyticsSummary{
		TotalRevenue:       decimal.Zero,
		TotalTransactions:  len(records),
		ProductPerformance: rankBy(records, func(r models.TransactionRecord) string { return r.Product }),
		StorePerformance:   rankBy(records, func(r models.TransactionRecord) string { return r.Location }),
		TopCashiers:        rankBy(records, func(r models.TransactionRecord) string { return r.Cashier }),
	}

	for _, r := range records {
		summary.TotalRevenue = summary.TotalRevenue.Add(r.TotalPrice)
	}

	return summary
}

// RankBy groups records by the given key and returns the per-key revenue
// totals sorted descending, ties kept in first-appearance order.
func RankBy(records []models.TransactionRecord, key func(models.TransactionRecord) string) []models.RankedEntry {
	return rankBy(records, key)
}

func rankBy(records []models.TransactionRecord, key func(models.TransactionRecord) string) []models.RankedEntry {
	totals := make(map[string]decimal.Decimal, 16)
	order := make([]string, 0, 16)

	for _, r := range records {
		k := key(r)
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] = totals[k].Add(r.TotalPrice)
	}

	entries := make([]models.RankedEntry, 0, len(order))
	for _, k := range order {
		entries = append(entries, models.RankedEntry{Name: k, Value: totals[k]})
	}

	// Stable keeps first-appearance order among equal values.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value.GreaterThan(entries[j].Value)
	})

	return entries
}

// TopN returns at most n leading entries without mutating the input.
func TopN(entries []models.RankedEntry, n int) []models.RankedEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}
