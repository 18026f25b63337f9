package engine

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"salespulse/internal/models"
)

// trendMonths caps the revenue trend at the trailing year.
const trendMonths = 12

// MonthWindow is a half-open calendar-month interval [Start, End) with its
// "2006-01" label. Records dated exactly on Start belong to the window;
// records dated on End do not.
type MonthWindow struct {
	Start time.Time
	End   time.Time
	Label string
}

// CurrentMonthWindow derives the calendar month containing the reference
// instant.
func CurrentMonthWindow(ref time.Time) MonthWindow {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	return MonthWindow{
		Start: start,
		End:   start.AddDate(0, 1, 0),
		Label: start.Format("2006-01"),
	}
}

// PreviousMonthWindow derives the month immediately before the reference
// month. time.Date normalizes month zero, so January rolls back to December
// of the previous year.
func PreviousMonthWindow(ref time.Time) MonthWindow {
	start := time.Date(ref.Year(), ref.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	return MonthWindow{
		Start: start,
		End:   start.AddDate(0, 1, 0),
		Label: start.Format("2006-01"),
	}
}

// SumPeriod reduces a month's records into a PeriodSales.
func SumPeriod(records []models.TransactionRecord, label string) models.PeriodSales {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.TotalPrice)
	}
	return models.PeriodSales{
		TotalSales:       total,
		TransactionCount: len(records),
		Period:           label,
	}
}

// MonthSales fetches the window's records from the source and reduces them.
// On source failure it returns a zeroed PeriodSales that still carries the
// intended period label, together with the error; the caller decides whether
// the failure is terminal for its surface.
func MonthSales(ctx context.Context, src RecordSource, win MonthWindow) (models.PeriodSales, []models.TransactionRecord, error) {
	records, err := src.FetchByDateRange(ctx, win.Start, win.End)
	if err != nil {
		return models.PeriodSales{
			TotalSales: decimal.Zero,
			Period:     win.Label,
		}, nil, err
	}
	return SumPeriod(records, win.Label), records, nil
}

// MonthlyTrend buckets records into per-month revenue totals, ascending by
// month label, keeping at most the most recent twelve months present in the
// data. Months with no transactions simply do not appear.
func MonthlyTrend(records []models.TransactionRecord) []models.PeriodSales {
	byMonth := make(map[string]models.PeriodSales)
	for _, r := range records {
		label := r.Date.Format("2006-01")
		p, ok := byMonth[label]
		if !ok {
			p = models.PeriodSales{TotalSales: decimal.Zero, Period: label}
		}
		p.TotalSales = p.TotalSales.Add(r.TotalPrice)
		p.TransactionCount++
		byMonth[label] = p
	}

	trend := make([]models.PeriodSales, 0, len(byMonth))
	for _, p := range byMonth {
		trend = append(trend, p)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Period < trend[j].Period })
	if len(trend) > trendMonths {
		trend = trend[len(trend)-trendMonths:]
	}
	return trend
}

// Growth computes the month-over-month change between two periods. When the
// previous period's total is zero the percentage is undefined and Percent is
// left nil; it is never coerced to 0%.
func Growth(current, previous models.PeriodSales) models.GrowthMetric {
	metric := models.GrowthMetric{Previous: previous, Current: current}
	if previous.TotalSales.IsPositive() {
		pct := current.TotalSales.Sub(previous.TotalSales).
			Div(previous.TotalSales).
			Mul(decimal.NewFromInt(100))
		metric.Percent = &pct
	}
	return metric
}
