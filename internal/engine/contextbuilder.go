package engine

import (
	"fmt"
	"strings"

	"salespulse/internal/models"
)

const digestSectionEntries = 5

// DigestInput is everything the Context Builder renders. The summary must
// already be role-scoped: the digest crosses a trust boundary to the
// text-generation provider, so redaction is enforced here a second time by
// construction. A representative's input simply carries no cashier data.
type DigestInput struct {
	Summary          models.ScopedSummary
	Growth           models.GrowthMetric
	TopProductsMonth []models.RankedEntry
}

// BuildDigest renders a deterministic plain-text digest of the aggregated
// figures, used as grounding context for the language model. Every section
// states its facts explicitly, including "no data". The model is instructed
// to speak only from this text, so a silently missing section would read as
// an invitation to invent numbers.
func BuildDigest(in DigestInput) string {
	var b strings.Builder

	b.WriteString("SALES DATA ANALYSIS (live transaction store):\n")

	if in.Summary.TotalTransactions > 0 {
		fmt.Fprintf(&b, "Total Revenue (All Time): %s\n", FormatINR(in.Summary.TotalRevenue))
		fmt.Fprintf(&b, "Total Transactions (All Time): %d\n", in.Summary.TotalTransactions)
		fmt.Fprintf(&b, "Average Transaction Value: %s\n", FormatINR(in.Summary.AverageTransactionValue()))
	} else {
		b.WriteString("Total Revenue: ₹0 (no transactions recorded)\n")
		b.WriteString("Total Transactions: 0 (no transactions recorded)\n")
	}

	writePeriod(&b, "Current Month", in.Growth.Current)
	writePeriod(&b, "Previous Month", in.Growth.Previous)

	if in.Growth.Defined() {
		direction := "increase"
		if in.Growth.Percent.IsNegative() {
			direction = "decrease"
		}
		fmt.Fprintf(&b, "Month-over-Month Growth: %s %s\n", FormatPercent(*in.Growth.Percent), direction)
	} else {
		b.WriteString("Month-over-Month Growth: N/A (no previous month sales to compare against)\n")
	}

	writeRanking(&b, "TOP PRODUCTS (All Time)", "no product data recorded", in.Summary.ProductPerformance)
	writeRanking(&b, "TOP PRODUCTS THIS MONTH", "no current month product data", in.TopProductsMonth)
	writeRanking(&b, "TOP STORES", "no store data recorded", in.Summary.StorePerformance)

	// Absent entirely for representatives: "not authorized" must not be
	// confusable with "authorized but empty".
	if in.Summary.CashierAccess {
		writeRanking(&b, "TOP CASHIERS (Manager Access)", "no cashier data recorded", in.Summary.TopCashiers)
	}

	return b.String()
}

// BuildSystemContext wraps the digest in the full system prompt handed to
// the text-generation collaborator: role banner, grounding rules, and a
// short sample of recent transactions.
func BuildSystemContext(in DigestInput, role models.Role, recent []models.TransactionRecord) string {
	var b strings.Builder

	b.WriteString("You are a sales analytics assistant with direct access to a live sales transaction store.\n\n")
	b.WriteString("CRITICAL: Only use the figures provided below. Never invent or estimate numbers.\n\n")

	fmt.Fprintf(&b, "User Role: %s\n", strings.ToUpper(string(role)))
	if role == models.RoleManager {
		b.WriteString("FULL ACCESS: all data is available, including individual cashier performance.\n\n")
	} else {
		b.WriteString("LIMITED ACCESS: general sales data only. Do NOT mention individual cashier names or performance.\n\n")
	}

	b.WriteString(BuildDigest(in))

	b.WriteString("\nSAMPLE RECENT TRANSACTIONS:\n")
	if len(recent) == 0 {
		b.WriteString("No transactions found.\n")
	}
	for i, r := range recent {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "- %s %s: %s - %s (%s)\n",
			r.Date.Format("2006-01-02"), r.Time, r.Product, FormatINR(r.TotalPrice), r.Location)
	}

	b.WriteString("\nRULES:\n")
	b.WriteString("1. Every number you mention must come from the figures above.\n")
	b.WriteString("2. If a section reports no data, say so plainly instead of guessing.\n")
	b.WriteString("3. Format currency with the ₹ symbol and Indian digit grouping, exactly as shown.\n")
	b.WriteString("4. When comparing periods, use only the period figures provided.\n")

	return b.String()
}

func writePeriod(b *strings.Builder, label string, p models.PeriodSales) {
	if p.TransactionCount > 0 {
		fmt.Fprintf(b, "%s (%s): %s from %d transactions\n",
			label, p.Period, FormatINR(p.TotalSales), p.TransactionCount)
		return
	}
	fmt.Fprintf(b, "%s (%s): ₹0 (no sales recorded)\n", label, p.Period)
}

func writeRanking(b *strings.Builder, heading, empty string, entries []models.RankedEntry) {
	if len(entries) == 0 {
		fmt.Fprintf(b, "\n%s: %s\n", heading, empty)
		return
	}
	fmt.Fprintf(b, "\n%s:\n", heading)
	for i, e := range entries {
		if i >= digestSectionEntries {
			break
		}
		fmt.Fprintf(b, "%d. %s: %s\n", i+1, e.Name, FormatINR(e.Value))
	}
}
