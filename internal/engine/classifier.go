package engine

import (
	"strconv"
	"strings"

	"salespulse/internal/models"
)

// Trigger vocabularies for the visual-intent gate. A query that contains
// none of these words produces no charts and no tables, whatever dimension
// keywords it mentions. Chart and table artifacts listen to their own
// subset.
var (
	chartTriggers = []string{"chart", "graph", "show", "compare"}
	tableTriggers = []string{"table", "list", "top"}
)

// Per-dimension entry caps. Callers must not assume a chart or table carries
// every ranked entry.
const (
	chartProductLimit = 8
	chartStoreLimit   = 5
	chartCashierLimit = 8

	tableProductLimit = 10
	tableStoreLimit   = 10
	tableCashierLimit = 5
)

// ClassifyInput carries everything a classification run may read. The
// summary must already be role-scoped; the classifier still checks the role
// itself so cashier artifacts stay gated even if handed an unscoped view.
type ClassifyInput struct {
	Role    models.Role
	Summary models.ScopedSummary
	Growth  models.GrowthMetric
}

type dimensionRule struct {
	dimension models.Dimension
	detect    func(q string) bool
	chart     func(in ClassifyInput) (models.ChartSpec, bool)
	table     func(in ClassifyInput) (models.TableSpec, bool)
}

// The rule table is the whole classification policy: one row per dimension,
// with its keyword gate and its artifact producers. A nil producer means the
// dimension never emits that artifact kind.
var dimensionRules = []dimensionRule{
	{
		dimension: models.DimensionProduct,
		detect:    func(q string) bool { return strings.Contains(q, "product") },
		chart: func(in ClassifyInput) (models.ChartSpec, bool) {
			if len(in.Summary.ProductPerformance) == 0 {
				return models.ChartSpec{}, false
			}
			return models.ChartSpec{
				Type:  "bar",
				Title: "Top Products by Revenue (₹)",
				Data:  TopN(in.Summary.ProductPerformance, chartProductLimit),
			}, true
		},
		table: func(in ClassifyInput) (models.TableSpec, bool) {
			if len(in.Summary.ProductPerformance) == 0 {
				return models.TableSpec{}, false
			}
			return rankedTable("Product", TopN(in.Summary.ProductPerformance, tableProductLimit)), true
		},
	},
	{
		dimension: models.DimensionStore,
		detect:    func(q string) bool { return strings.Contains(q, "store") },
		chart: func(in ClassifyInput) (models.ChartSpec, bool) {
			if len(in.Summary.StorePerformance) == 0 {
				return models.ChartSpec{}, false
			}
			return models.ChartSpec{
				Type:  "bar",
				Title: "Store Performance (₹)",
				Data:  TopN(in.Summary.StorePerformance, chartStoreLimit),
			}, true
		},
		table: func(in ClassifyInput) (models.TableSpec, bool) {
			if len(in.Summary.StorePerformance) == 0 {
				return models.TableSpec{}, false
			}
			return rankedTable("Store", TopN(in.Summary.StorePerformance, tableStoreLimit)), true
		},
	},
	{
		dimension: models.DimensionCashier,
		detect:    func(q string) bool { return strings.Contains(q, "cashier") },
		chart: func(in ClassifyInput) (models.ChartSpec, bool) {
			if !cashierVisible(in) {
				return models.ChartSpec{}, false
			}
			return models.ChartSpec{
				Type:  "bar",
				Title: "Top Cashiers by Revenue (₹)",
				Data:  TopN(in.Summary.TopCashiers, chartCashierLimit),
			}, true
		},
		table: func(in ClassifyInput) (models.TableSpec, bool) {
			if !cashierVisible(in) {
				return models.TableSpec{}, false
			}
			return rankedTable("Cashier", TopN(in.Summary.TopCashiers, tableCashierLimit)), true
		},
	},
	{
		dimension: models.DimensionMonthComparison,
		detect: func(q string) bool {
			return strings.Contains(q, "month") &&
				(strings.Contains(q, "compare") || strings.Contains(q, "vs"))
		},
		chart: func(in ClassifyInput) (models.ChartSpec, bool) {
			if in.Growth.Current.Period == "" || in.Growth.Previous.Period == "" {
				return models.ChartSpec{}, false
			}
			return models.ChartSpec{
				Type:  "bar",
				Title: "Monthly Sales Comparison (₹)",
				Data: []models.RankedEntry{
					{Name: "Previous Month (" + in.Growth.Previous.Period + ")", Value: in.Growth.Previous.TotalSales},
					{Name: "Current Month (" + in.Growth.Current.Period + ")", Value: in.Growth.Current.TotalSales},
				},
			}, true
		},
	},
}

// Classify reads a free-text query against role-scoped analytics and decides
// which charts and tables should accompany the generated answer. It is
// deterministic and stateless: the same (query, role, data) triple always
// yields the same artifacts.
//
// A representative asking for cashier data gets nothing for that dimension:
// no artifact and no error. The omission must never reveal that the data
// exists.
func Classify(query string, role models.Role, summary models.ScopedSummary, growth models.GrowthMetric) (models.QueryIntent, []models.ChartSpec, []models.TableSpec) {
	q := strings.ToLower(query)

	intent := models.QueryIntent{
		WantsChart: containsAny(q, chartTriggers),
		WantsTable: containsAny(q, tableTriggers),
		Dimensions: map[models.Dimension]struct{}{},
	}

	in := ClassifyInput{Role: role, Summary: summary, Growth: growth}
	charts := make([]models.ChartSpec, 0, 2)
	tables := make([]models.TableSpec, 0, 2)

	for _, rule := range dimensionRules {
		if !rule.detect(q) {
			continue
		}
		intent.Dimensions[rule.dimension] = struct{}{}

		if intent.WantsChart && rule.chart != nil {
			if chart, ok := rule.chart(in); ok {
				charts = append(charts, chart)
			}
		}
		if intent.WantsTable && rule.table != nil {
			if table, ok := rule.table(in); ok {
				tables = append(tables, table)
			}
		}
	}

	return intent, charts, tables
}

func cashierVisible(in ClassifyInput) bool {
	return in.Role == models.RoleManager &&
		in.Summary.CashierAccess &&
		len(in.Summary.TopCashiers) > 0
}

func rankedTable(label string, entries []models.RankedEntry) models.TableSpec {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Name,
			FormatINR(e.Value),
		})
	}
	return models.TableSpec{
		Headers: []string{"Rank", label, "Revenue (₹)"},
		Rows:    rows,
	}
}

func containsAny(q string, words []string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}
