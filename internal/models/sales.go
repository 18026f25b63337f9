package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role identifies the caller for access-control scoping. Representatives
// never see cashier-level figures.
type Role string

const (
	RoleManager Role = "manager"
	RoleRep     Role = "rep"
)

// ParseRole accepts the wire spellings used by the UI ("rep" and the long
// form "representative"). Unknown values default to the restricted role.
func ParseRole(s string) Role {
	switch s {
	case "manager":
		return RoleManager
	case "rep", "representative":
		return RoleRep
	default:
		return RoleRep
	}
}

// Payment types accepted by the transactional system of record.
const (
	PaymentCash       = "Cash"
	PaymentCreditCard = "Credit Card"
	PaymentDebitCard  = "Debit Card"
	PaymentGiftCard   = "Gift Card"
	PaymentOnline     = "Online"
)

// TransactionRecord is one completed sale line, immutable once read.
// TotalPrice is authoritative; consumers must not recompute it.
type TransactionRecord struct {
	TransactionID string          `json:"transaction_id"`
	Date          time.Time       `json:"date"`
	Time          string          `json:"time"`
	StoreID       string          `json:"store_id"`
	Location      string          `json:"location"`
	Product       string          `json:"product"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	PaymentType   string          `json:"payment_type"`
	Cashier       string          `json:"cashier"`
	StoreManager  string          `json:"store_manager"`
	TimeOfDay     string          `json:"time_of_day"`
	DayOfWeek     string          `json:"day_of_week"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// RankedEntry is one grouping key's aggregated revenue. Lists of RankedEntry
// are always sorted by Value descending, ties kept in first-appearance order.
type RankedEntry struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// AnalyticsSummary is the role-agnostic aggregate over a record set. Each
// ranked list is an exhaustive, non-overlapping partition of TotalRevenue.
type AnalyticsSummary struct {
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	TotalTransactions  int             `json:"totalTransactions"`
	ProductPerformance []RankedEntry   `json:"productPerformance"`
	StorePerformance   []RankedEntry   `json:"storePerformance"`
	TopCashiers        []RankedEntry   `json:"topCashiers"`
}

// AverageTransactionValue returns revenue per transaction, zero when the
// summary holds no transactions.
func (s AnalyticsSummary) AverageTransactionValue() decimal.Decimal {
	if s.TotalTransactions == 0 {
		return decimal.Zero
	}
	return s.TotalRevenue.Div(decimal.NewFromInt(int64(s.TotalTransactions)))
}

// ScopedSummary is a role-appropriate view of an AnalyticsSummary.
// CashierAccess distinguishes "not authorized to discuss" (false) from
// "authorized but no data" (true with an empty TopCashiers).
type ScopedSummary struct {
	Role               Role            `json:"role"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	TotalTransactions  int             `json:"totalTransactions"`
	ProductPerformance []RankedEntry   `json:"productPerformance"`
	StorePerformance   []RankedEntry   `json:"storePerformance"`
	TopCashiers        []RankedEntry   `json:"topCashiers,omitempty"`
	CashierAccess      bool            `json:"-"`
}

// AverageTransactionValue mirrors AnalyticsSummary.AverageTransactionValue.
func (s ScopedSummary) AverageTransactionValue() decimal.Decimal {
	if s.TotalTransactions == 0 {
		return decimal.Zero
	}
	return s.TotalRevenue.Div(decimal.NewFromInt(int64(s.TotalTransactions)))
}

// PeriodSales aggregates one calendar month. Period is the "2006-01" label
// and is populated even when the month holds no sales.
type PeriodSales struct {
	TotalSales       decimal.Decimal `json:"totalSales"`
	TransactionCount int             `json:"transactionCount"`
	Period           string          `json:"period"`
}

// GrowthMetric is the signed percentage change between two PeriodSales.
// Percent is nil when the previous period total is zero: growth is then
// undefined, which is a different claim than 0% (no change).
type GrowthMetric struct {
	Previous PeriodSales      `json:"previous"`
	Current  PeriodSales      `json:"current"`
	Percent  *decimal.Decimal `json:"percent"`
}

// Defined reports whether the growth percentage could be computed.
func (g GrowthMetric) Defined() bool {
	return g.Percent != nil
}

// Dimension is a grouping axis requested by a query.
type Dimension string

const (
	DimensionProduct         Dimension = "product"
	DimensionStore           Dimension = "store"
	DimensionCashier         Dimension = "cashier"
	DimensionMonthComparison Dimension = "monthComparison"
)

// QueryIntent is the classifier's reading of a free-text query.
type QueryIntent struct {
	WantsChart bool                   `json:"wantsChart"`
	WantsTable bool                   `json:"wantsTable"`
	Dimensions map[Dimension]struct{} `json:"-"`
}

// Has reports whether the intent includes the given dimension.
func (qi QueryIntent) Has(d Dimension) bool {
	_, ok := qi.Dimensions[d]
	return ok
}

// ChartSpec describes one chart artifact accompanying a response.
type ChartSpec struct {
	Type  string        `json:"type"`
	Title string        `json:"title"`
	Data  []RankedEntry `json:"data"`
}

// TableSpec describes one table artifact. Rows are pre-formatted strings.
type TableSpec struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ChatResult is the engine's caller-facing response.
type ChatResult struct {
	ResponseText string      `json:"response"`
	Charts       []ChartSpec `json:"charts"`
	Tables       []TableSpec `json:"tables"`
}
