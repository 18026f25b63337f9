package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/models"
)

const csvHeader = "date,time,store_id,location,product,quantity,unit_price,payment_type,transaction_id,cashier,store_manager,time_of_day,day_of_week,total_price"

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	content := csvHeader + "\n"
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMemory_FetchAll(t *testing.T) {
	m := NewMemory(nil)
	m.SetRecords([]models.TransactionRecord{
		{TransactionID: "T001", Date: day(2024, time.March, 5)},
		{TransactionID: "T002", Date: day(2024, time.March, 6)},
	})

	records, err := m.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	// The returned slice is a copy; mutating it must not touch the store.
	records[0].TransactionID = "mutated"
	again, err := m.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "T001", again[0].TransactionID)
}

func TestMemory_FetchByDateRange_HalfOpen(t *testing.T) {
	m := NewMemory(nil)
	m.SetRecords([]models.TransactionRecord{
		{TransactionID: "before", Date: day(2024, time.February, 29)},
		{TransactionID: "first", Date: day(2024, time.March, 1)},
		{TransactionID: "mid", Date: day(2024, time.March, 15)},
		{TransactionID: "last", Date: day(2024, time.March, 31)},
		{TransactionID: "boundary", Date: day(2024, time.April, 1)},
	})

	records, err := m.FetchByDateRange(context.Background(), day(2024, time.March, 1), day(2024, time.April, 1))
	require.NoError(t, err)

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.TransactionID
	}
	assert.Equal(t, []string{"first", "mid", "last"}, ids,
		"the start date is included, the end date is excluded")
}

func TestMemory_FetchByDateRange_Empty(t *testing.T) {
	m := NewMemory(nil)

	records, err := m.FetchByDateRange(context.Background(), day(2024, time.March, 1), day(2024, time.April, 1))
	require.NoError(t, err)
	assert.Empty(t, records, "no matches is an empty slice, not an error")
}

func TestMemory_LoadCSV(t *testing.T) {
	path := writeCSV(t,
		"2024-03-05,10:15,S01,Mumbai Central,Espresso,2,150.00,Cash,T001,Asha,Vikram,Morning,Tuesday,300.00",
		"2024-03-06,16:40,S02,Pune FC Road,Latte,1,220.50,Credit Card,T002,Ravi,Vikram,Evening,Wednesday,220.50",
	)

	m := NewMemory(nil)
	require.NoError(t, m.LoadCSV(context.Background(), path))

	records, err := m.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "T001", first.TransactionID)
	assert.Equal(t, day(2024, time.March, 5), first.Date)
	assert.Equal(t, "Espresso", first.Product)
	assert.Equal(t, 2, first.Quantity)
	assert.True(t, first.UnitPrice.Equal(decimal.NewFromInt(150)))
	assert.True(t, first.TotalPrice.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, "Asha", first.Cashier)

	second := records[1]
	assert.True(t, second.TotalPrice.Equal(decimal.RequireFromString("220.50")))
}

func TestMemory_LoadCSV_SkipsMalformedLines(t *testing.T) {
	path := writeCSV(t,
		"2024-03-05,10:15,S01,Mumbai Central,Espresso,2,150.00,Cash,T001,Asha,Vikram,Morning,Tuesday,300.00",
		"not,a,valid,line",
		"2024-13-99,10:15,S01,Mumbai Central,Espresso,2,150.00,Cash,T003,Asha,Vikram,Morning,Tuesday,300.00",
		"2024-03-06,16:40,S02,Pune FC Road,Latte,1,abc,Credit Card,T004,Ravi,Vikram,Evening,Wednesday,220.50",
	)

	m := NewMemory(nil)
	require.NoError(t, m.LoadCSV(context.Background(), path))

	records, err := m.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestMemory_LoadCSV_NoValidRecords(t *testing.T) {
	path := writeCSV(t, "not,a,valid,line")

	m := NewMemory(nil)
	err := m.LoadCSV(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid records")
}

func TestMemory_LoadCSV_MissingFile(t *testing.T) {
	m := NewMemory(nil)
	err := m.LoadCSV(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
