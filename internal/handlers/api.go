package handlers

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"salespulse/internal/engine"
	"salespulse/internal/errors"
	"salespulse/internal/models"
	"salespulse/internal/observability"
	"salespulse/internal/store"
)

const (
	cacheControl    = "public, max-age=300"
	defaultTopLimit = 10
	maxQueryLength  = 2000
)

type APIHandlers struct {
	engine  *engine.Engine
	logger  *slog.Logger
	started time.Time
}

func NewAPIHandlers(eng *engine.Engine, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		engine:  eng,
		logger:  logger,
		started: time.Now(),
	}
}

// roleFrom resolves the caller's role from the X-User-Role header, falling
// back to the "role" query parameter. Unknown or missing values resolve to
// the restricted role; there is no error path for a bad role.
func roleFrom(r *http.Request) models.Role {
	if v := r.Header.Get("X-User-Role"); v != "" {
		return models.ParseRole(v)
	}
	return models.ParseRole(r.URL.Query().Get("role"))
}

type chatRequest struct {
	Query string `json:"query"`
	Role  string `json:"role"`
}

func (h *APIHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "Request body must be valid JSON"), requestID)
		return
	}
	if req.Query == "" {
		errors.WriteError(w, h.logger, errors.Validation("Query cannot be empty"), requestID)
		return
	}
	if len(req.Query) > maxQueryLength {
		errors.WriteError(w, h.logger, errors.Validation("Query is too long"), requestID)
		return
	}

	role := roleFrom(r)
	if req.Role != "" {
		role = models.ParseRole(req.Role)
	}

	result, err := h.engine.Chat(r.Context(), req.Query, role)
	if err != nil {
		errors.WriteError(w, h.logger, mapEngineError(err), requestID)
		return
	}

	errors.WriteSuccess(w, result)
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	snap, err := h.engine.Snapshot(r.Context())
	if err != nil {
		errors.WriteError(w, h.logger, mapEngineError(err), requestID)
		return
	}

	role := roleFrom(r)
	scoped := engine.ScopeToRole(snap.Summary, role)

	w.Header().Set("Cache-Control", cacheControl)
	errors.WriteSuccess(w, map[string]any{
		"summary":                 scoped,
		"growth":                  snap.Growth,
		"averageTransactionValue": scoped.AverageTransactionValue(),
		"activeStores":            len(scoped.StorePerformance),
		"monthlyTrend":            snap.Trend,
	})
}

func (h *APIHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	h.handleRanked(w, r, func(scoped models.ScopedSummary) []models.RankedEntry {
		return scoped.ProductPerformance
	}, "no product sales recorded")
}

func (h *APIHandlers) HandleStorePerformance(w http.ResponseWriter, r *http.Request) {
	h.handleRanked(w, r, func(scoped models.ScopedSummary) []models.RankedEntry {
		return scoped.StorePerformance
	}, "no store sales recorded")
}

func (h *APIHandlers) handleRanked(w http.ResponseWriter, r *http.Request, pick func(models.ScopedSummary) []models.RankedEntry, emptyMsg string) {
	requestID := observability.GetRequestID(r.Context())

	snap, err := h.engine.Snapshot(r.Context())
	if err != nil {
		errors.WriteError(w, h.logger, mapEngineError(err), requestID)
		return
	}

	scoped := engine.ScopeToRole(snap.Summary, roleFrom(r))
	entries := pick(scoped)
	if len(entries) == 0 {
		errors.WriteError(w, h.logger, errors.NoData(emptyMsg), requestID)
		return
	}

	w.Header().Set("Cache-Control", cacheControl)
	errors.WriteSuccess(w, engine.TopN(entries, limitFrom(r)))
}

func (h *APIHandlers) HandleMonthlyComparison(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	snap, err := h.engine.Snapshot(r.Context())
	if err != nil {
		errors.WriteError(w, h.logger, mapEngineError(err), requestID)
		return
	}

	w.Header().Set("Cache-Control", cacheControl)
	errors.WriteSuccess(w, snap.Growth)
}

func (h *APIHandlers) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.engine.Suggestions(roleFrom(r)))
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	snap, err := h.engine.Snapshot(r.Context())
	if err != nil {
		errors.WriteError(w, h.logger, mapEngineError(err), requestID)
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"records":        len(snap.Records),
		"current_month":  snap.Growth.Current.Period,
		"previous_month": snap.Growth.Previous.Period,
		"uptime":         time.Since(h.started).String(),
	})
}

// mapEngineError translates engine failures into the application taxonomy.
// An unreachable record store and a failed text-generation call carry
// distinct codes and status classes.
func mapEngineError(err error) error {
	switch {
	case stderrors.Is(err, store.ErrUnavailable):
		return errors.SourceUnavailable(err)
	case stderrors.Is(err, engine.ErrResponder):
		return errors.Upstream(err, "The analytics assistant is temporarily unavailable")
	default:
		return errors.InternalWrap(err, "An unexpected error occurred")
	}
}

func limitFrom(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultTopLimit
}
