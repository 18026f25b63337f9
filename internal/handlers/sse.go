package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"salespulse/internal/engine"
	"salespulse/internal/models"
)

const (
	maxSummaryRows = 10
	chartProducts  = 8
	chartStores    = 5
)

var summaryTableTemplate = template.Must(template.New("summaryTable").Parse(`
<div id="summary-content">
<table class="modern-table">
<thead><tr><th>Rank</th><th>{{.Label}}</th><th>Revenue</th></tr></thead>
<tbody>
{{range $i, $e := .Entries}}<tr>
<td>{{$e.Rank}}</td>
<td>{{$e.Name}}</td>
<td><strong>{{$e.Revenue}}</strong></td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewSSEHandlers(eng *engine.Engine, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		engine: eng,
		logger: logger,
	}
}

type summaryRow struct {
	Rank    int
	Name    string
	Revenue string
}

type summaryTableData struct {
	Label   string
	Entries []summaryRow
}

func renderSummaryTable(label string, entries []models.RankedEntry) (string, error) {
	rows := make([]summaryRow, 0, maxSummaryRows)
	for i, e := range engine.TopN(entries, maxSummaryRows) {
		rows = append(rows, summaryRow{
			Rank:    i + 1,
			Name:    e.Name,
			Revenue: engine.FormatINR(e.Value),
		})
	}

	var buf strings.Builder
	err := summaryTableTemplate.Execute(&buf, summaryTableData{Label: label, Entries: rows})
	return buf.String(), err
}

// HandleDashboard pushes one full dashboard refresh over SSE: the product
// summary table as a patched element plus the chart datasets as signals.
// Cashier figures ride along only for manager sessions.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	snap, err := h.engine.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("dashboard snapshot failed", "error", err)
		sse.PatchElements(`<div id="summary-content">⚠️ Sales data is temporarily unavailable</div>`)
		return
	}

	scoped := engine.ScopeToRole(snap.Summary, roleFrom(r))

	html, err := renderSummaryTable("Product", scoped.ProductPerformance)
	if err != nil {
		h.logger.Error("render summary table", "error", err)
		return
	}
	sse.PatchElements(html)

	signals := map[string]any{
		"productsData": engine.TopN(scoped.ProductPerformance, chartProducts),
		"storesData":   engine.TopN(scoped.StorePerformance, chartStores),
		"monthlyData":  snap.Growth,
		"trendData":    snap.Trend,
	}
	if scoped.CashierAccess {
		signals["cashiersData"] = engine.TopN(scoped.TopCashiers, chartProducts)
	}

	jsonData, err := json.Marshal(signals)
	if err != nil {
		h.logger.Error("marshal dashboard signals", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
