// Package engine turns raw sales transactions into role-scoped analytics,
// grounding context for generated answers, and the chart/table artifacts
// that accompany them. All money math is exact decimal arithmetic.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"salespulse/internal/llm"
	"salespulse/internal/models"
	"salespulse/internal/observability"
)

// ErrResponder marks a failure of the text-generation collaborator. The
// analytics themselves were computed fine when this is returned.
var ErrResponder = errors.New("text generation failed")

// RecordSource is the read access the engine needs. Implementations return
// empty slices for no matches and an error only when the source itself
// cannot be reached.
type RecordSource interface {
	FetchAll(ctx context.Context) ([]models.TransactionRecord, error)
	FetchByDateRange(ctx context.Context, startInclusive, endExclusive time.Time) ([]models.TransactionRecord, error)
}

// Engine orchestrates one request end to end: fetch, aggregate, scope,
// ground, generate, classify. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	source    RecordSource
	responder llm.Responder
	logger    *slog.Logger
	now       func() time.Time
}

func New(source RecordSource, responder llm.Responder, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		source:    source,
		responder: responder,
		logger:    logger,
		now:       time.Now,
	}
}

// Snapshot is one consistent read of the analytics state: the all-time
// aggregate plus the current and previous calendar months.
type Snapshot struct {
	Summary          models.AnalyticsSummary
	Growth           models.GrowthMetric
	TopProductsMonth []models.RankedEntry
	Trend            []models.PeriodSales
	Records          []models.TransactionRecord
}

// Snapshot fetches the three independent views of the store concurrently and
// reduces them. Any fetch failure is returned as-is so callers can test it
// against the store's sentinel; there are no retries here.
func (e *Engine) Snapshot(ctx context.Context) (Snapshot, error) {
	ctx, span := observability.StartSpan(ctx, "engine.snapshot")
	defer span.Finish()

	start := e.now()

	curWin := CurrentMonthWindow(start)
	prevWin := PreviousMonthWindow(start)

	var (
		allRecords []models.TransactionRecord
		curSales   models.PeriodSales
		curRecords []models.TransactionRecord
		prevSales  models.PeriodSales
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		allRecords, err = e.source.FetchAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		curSales, curRecords, err = MonthSales(gctx, e.source, curWin)
		return err
	})
	g.Go(func() error {
		var err error
		prevSales, _, err = MonthSales(gctx, e.source, prevWin)
		return err
	})
	if err := g.Wait(); err != nil {
		span.SetError(err)
		return Snapshot{}, err
	}
	span.SetCount("records", len(allRecords))
	span.SetTag("month", curWin.Label)

	summary := Aggregate(allRecords)
	monthSummary := Aggregate(curRecords)

	snap := Snapshot{
		Summary:          summary,
		Growth:           Growth(curSales, prevSales),
		TopProductsMonth: monthSummary.ProductPerformance,
		Trend:            MonthlyTrend(allRecords),
		Records:          allRecords,
	}

	e.logger.Debug("analytics snapshot built",
		"records", len(allRecords),
		"current_month", curSales.Period,
		"duration", time.Since(start),
	)
	return snap, nil
}

// Chat answers one free-text analytics question for the given role. The
// generated prose is returned verbatim; charts and tables are derived
// deterministically from the same scoped data the prose was grounded on.
func (e *Engine) Chat(ctx context.Context, query string, role models.Role) (models.ChatResult, error) {
	ctx, span := observability.StartSpan(ctx, "engine.chat")
	defer span.Finish()
	span.SetTag("role", string(role))

	snap, err := e.Snapshot(ctx)
	if err != nil {
		return models.ChatResult{}, err
	}

	scoped := ScopeToRole(snap.Summary, role)
	digest := DigestInput{
		Summary:          scoped,
		Growth:           snap.Growth,
		TopProductsMonth: snap.TopProductsMonth,
	}

	resp, err := e.responder.Respond(ctx, llm.Request{
		SystemContext: BuildSystemContext(digest, role, snap.Records),
		UserQuery:     query,
		Role:          string(role),
	})
	if err != nil {
		return models.ChatResult{}, fmt.Errorf("%w: %v", ErrResponder, err)
	}

	_, charts, tables := Classify(query, role, scoped, snap.Growth)

	return models.ChatResult{
		ResponseText: resp.Text,
		Charts:       charts,
		Tables:       tables,
	}, nil
}

var commonSuggestions = []string{
	"What is our total revenue?",
	"Show me the top 5 selling products",
	"Which store performed best?",
	"What's our average transaction value?",
	"Show me sales by payment type",
	"Compare this month vs last month",
	"Compare weekend vs weekday sales performance",
	"Show me sales by time of day",
	"Which products have the highest unit prices?",
	"What's the total quantity of items sold?",
}

var managerSuggestions = []string{
	"Who are the top performing cashiers?",
	"Compare cashier performance across all stores",
	"Show me individual cashier sales breakdown",
	"Which store managers have the highest sales?",
}

// Suggestions returns the canned starter queries offered by the UI. Cashier
// questions are only suggested to roles that can actually see the answer.
func (e *Engine) Suggestions(role models.Role) []string {
	out := make([]string, 0, len(commonSuggestions)+len(managerSuggestions))
	out = append(out, commonSuggestions...)
	if role == models.RoleManager {
		out = append(out, managerSuggestions...)
	}
	return out
}
