package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/models"
)

func record(product, location, cashier string, total int64) models.TransactionRecord {
	return models.TransactionRecord{
		Product:    product,
		Location:   location,
		Cashier:    cashier,
		TotalPrice: decimal.NewFromInt(total),
	}
}

func TestAggregate_Empty(t *testing.T) {
	summary := Aggregate(nil)

	assert.True(t, summary.TotalRevenue.IsZero())
	assert.Zero(t, summary.TotalTransactions)
	require.NotNil(t, summary.ProductPerformance)
	require.NotNil(t, summary.StorePerformance)
	require.NotNil(t, summary.TopCashiers)
	assert.Empty(t, summary.ProductPerformance)
}

func TestAggregate_PartitionInvariant(t *testing.T) {
	records := []models.TransactionRecord{
		record("Espresso", "Mumbai", "Asha", 300),
		record("Latte", "Pune", "Ravi", 220),
		record("Espresso", "Pune", "Ravi", 150),
		record("Mocha", "Mumbai", "Asha", 280),
	}

	summary := Aggregate(records)

	require.Equal(t, 4, summary.TotalTransactions)
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(950)))

	for _, ranking := range [][]models.RankedEntry{
		summary.ProductPerformance,
		summary.StorePerformance,
		summary.TopCashiers,
	} {
		sum := decimal.Zero
		for _, e := range ranking {
			sum = sum.Add(e.Value)
		}
		assert.True(t, sum.Equal(summary.TotalRevenue),
			"each complete grouping must sum to total revenue")
	}
}

func TestAggregate_DescendingOrder(t *testing.T) {
	records := []models.TransactionRecord{
		record("Latte", "Pune", "Ravi", 220),
		record("Espresso", "Mumbai", "Asha", 300),
		record("Espresso", "Mumbai", "Asha", 150),
	}

	summary := Aggregate(records)

	require.Len(t, summary.ProductPerformance, 2)
	assert.Equal(t, "Espresso", summary.ProductPerformance[0].Name)
	assert.True(t, summary.ProductPerformance[0].Value.Equal(decimal.NewFromInt(450)))
	assert.Equal(t, "Latte", summary.ProductPerformance[1].Name)
}

func TestAggregate_TiesKeepFirstAppearanceOrder(t *testing.T) {
	records := []models.TransactionRecord{
		record("Mocha", "Pune", "Ravi", 100),
		record("Espresso", "Mumbai", "Asha", 100),
		record("Latte", "Delhi", "Meera", 100),
	}

	summary := Aggregate(records)

	require.Len(t, summary.ProductPerformance, 3)
	assert.Equal(t, "Mocha", summary.ProductPerformance[0].Name)
	assert.Equal(t, "Espresso", summary.ProductPerformance[1].Name)
	assert.Equal(t, "Latte", summary.ProductPerformance[2].Name)
}

func TestAggregate_PermutationInvariantForDistinctValues(t *testing.T) {
	records := []models.TransactionRecord{
		record("Espresso", "Mumbai", "Asha", 300),
		record("Latte", "Pune", "Ravi", 220),
		record("Mocha", "Delhi", "Meera", 180),
	}
	reversed := []models.TransactionRecord{records[2], records[1], records[0]}

	a := Aggregate(records)
	b := Aggregate(reversed)

	assert.Equal(t, a.ProductPerformance, b.ProductPerformance)
	assert.Equal(t, a.StorePerformance, b.StorePerformance)
	assert.Equal(t, a.TopCashiers, b.TopCashiers)
}

func TestTopN(t *testing.T) {
	entries := []models.RankedEntry{
		{Name: "A", Value: decimal.NewFromInt(3)},
		{Name: "B", Value: decimal.NewFromInt(2)},
		{Name: "C", Value: decimal.NewFromInt(1)},
	}

	assert.Len(t, TopN(entries, 2), 2)
	assert.Len(t, TopN(entries, 3), 3)
	assert.Len(t, TopN(entries, 10), 3)
	assert.Empty(t, TopN(nil, 5))
}
