package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/llm"
	"salespulse/internal/models"
	"salespulse/internal/store"
)

var errSourceDown = fmt.Errorf("%w: dial tcp: connection refused", store.ErrUnavailable)

type fakeSource struct {
	records []models.TransactionRecord
	err     error
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]models.TransactionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeSource) FetchByDateRange(ctx context.Context, start, end time.Time) ([]models.TransactionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.TransactionRecord, 0, len(f.records))
	for _, r := range f.records {
		if !r.Date.Before(start) && r.Date.Before(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

type recordingResponder struct {
	text     string
	err      error
	lastReq  llm.Request
	reqCount int
}

func (r *recordingResponder) Respond(ctx context.Context, req llm.Request) (llm.Response, error) {
	r.lastReq = req
	r.reqCount++
	if r.err != nil {
		return llm.Response{}, r.err
	}
	return llm.Response{Text: r.text}, nil
}

func dated(date time.Time, product, location, cashier string, total int64) models.TransactionRecord {
	r := record(product, location, cashier, total)
	r.Date = date
	return r
}

var testClock = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func marchRecords() []models.TransactionRecord {
	return []models.TransactionRecord{
		dated(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), "Espresso", "Mumbai", "Asha", 900),
		dated(time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), "Latte", "Pune", "Ravi", 600),
		dated(time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC), "Mocha", "Delhi", "Meera", 1000),
	}
}

func newTestEngine(src RecordSource, responder llm.Responder) *Engine {
	eng := New(src, responder, nil)
	eng.now = func() time.Time { return testClock }
	return eng
}

func TestSnapshot(t *testing.T) {
	src := &fakeSource{records: marchRecords()}
	eng := newTestEngine(src, &recordingResponder{text: "unused"})

	snap, err := eng.Snapshot(context.Background())
	require.NoError(t, err)

	assert.True(t, snap.Summary.TotalRevenue.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, 3, snap.Summary.TotalTransactions)

	assert.Equal(t, "2024-03", snap.Growth.Current.Period)
	assert.Equal(t, "2024-02", snap.Growth.Previous.Period)
	assert.True(t, snap.Growth.Current.TotalSales.Equal(decimal.NewFromInt(1500)))
	assert.True(t, snap.Growth.Previous.TotalSales.Equal(decimal.NewFromInt(1000)))
	require.True(t, snap.Growth.Defined())
	assert.True(t, snap.Growth.Percent.Equal(decimal.NewFromInt(50)))

	// Month-scoped product ranking excludes February's Mocha.
	require.Len(t, snap.TopProductsMonth, 2)
	assert.Equal(t, "Espresso", snap.TopProductsMonth[0].Name)
	assert.Equal(t, "Latte", snap.TopProductsMonth[1].Name)

	// Revenue trend covers every month with data, ascending.
	require.Len(t, snap.Trend, 2)
	assert.Equal(t, "2024-02", snap.Trend[0].Period)
	assert.Equal(t, "2024-03", snap.Trend[1].Period)
	assert.True(t, snap.Trend[0].TotalSales.Equal(decimal.NewFromInt(1000)))
	assert.True(t, snap.Trend[1].TotalSales.Equal(decimal.NewFromInt(1500)))
}

func TestChat(t *testing.T) {
	src := &fakeSource{records: marchRecords()}
	responder := &recordingResponder{text: "Espresso leads this month."}
	eng := newTestEngine(src, responder)

	result, err := eng.Chat(context.Background(), "show me top products", models.RoleManager)
	require.NoError(t, err)

	assert.Equal(t, "Espresso leads this month.", result.ResponseText)
	require.Len(t, result.Charts, 1)
	assert.Equal(t, "Top Products by Revenue (₹)", result.Charts[0].Title)
	require.Len(t, result.Tables, 1)

	assert.Equal(t, 1, responder.reqCount)
	assert.Equal(t, "show me top products", responder.lastReq.UserQuery)
	assert.Contains(t, responder.lastReq.SystemContext, "FULL ACCESS")
	assert.Contains(t, responder.lastReq.SystemContext, "SALES DATA ANALYSIS")
}

func TestChat_RepContextOmitsCashiers(t *testing.T) {
	src := &fakeSource{records: marchRecords()}
	responder := &recordingResponder{text: "ok"}
	eng := newTestEngine(src, responder)

	_, err := eng.Chat(context.Background(), "how are sales", models.RoleRep)
	require.NoError(t, err)

	assert.Contains(t, responder.lastReq.SystemContext, "LIMITED ACCESS")
	assert.False(t, strings.Contains(responder.lastReq.SystemContext, "TOP CASHIERS"),
		"representative grounding context must not mention cashiers")
}

func TestChat_SourceUnavailableIsTerminal(t *testing.T) {
	responder := &recordingResponder{text: "unused"}
	eng := newTestEngine(&fakeSource{err: errSourceDown}, responder)

	_, err := eng.Chat(context.Background(), "total revenue", models.RoleManager)

	require.ErrorIs(t, err, store.ErrUnavailable)
	assert.Zero(t, responder.reqCount, "no text generation after a failed fetch")
}

func TestChat_ResponderFailure(t *testing.T) {
	src := &fakeSource{records: marchRecords()}
	eng := newTestEngine(src, &recordingResponder{err: fmt.Errorf("429 too many requests")})

	_, err := eng.Chat(context.Background(), "total revenue", models.RoleManager)

	require.ErrorIs(t, err, ErrResponder)
}

func TestSuggestions(t *testing.T) {
	eng := newTestEngine(&fakeSource{}, &recordingResponder{})

	rep := eng.Suggestions(models.RoleRep)
	manager := eng.Suggestions(models.RoleManager)

	assert.Len(t, rep, 10)
	require.Len(t, manager, 14)
	assert.Contains(t, manager, "Who are the top performing cashiers?")
	assert.Contains(t, manager, "Which store managers have the highest sales?")
	for _, s := range rep {
		assert.NotContains(t, strings.ToLower(s), "cashier")
	}
}
