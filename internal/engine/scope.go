package engine

import "salespulse/internal/models"

// ScopeToRole produces a role-appropriate view of an aggregated summary.
// This is the single authoritative redaction point for cashier-level data:
// everything that reaches a rendered artifact or the text-generation step
// goes through here first.
//
// For managers the cashier ranking passes through unchanged. For
// representatives it is absent entirely (nil list, CashierAccess false),
// which downstream consumers must treat as "not authorized to discuss",
// distinct from a manager view with an empty cashier list.
func ScopeToRole(summary models.AnalyticsSummary, role models.Role) models.ScopedSummary {
	scoped := models.ScopedSummary{
		Role:               role,
		TotalRevenue:       summary.TotalRevenue,
		TotalTransactions:  summary.TotalTransactions,
		ProductPerformance: summary.ProductPerformance,
		StorePerformance:   summary.StorePerformance,
	}

	if role == models.RoleManager {
		scoped.TopCashiers = summary.TopCashiers
		scoped.CashierAccess = true
	}

	return scoped
}
