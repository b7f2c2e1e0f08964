package stats

import "github.com/finbook/finbook/pkg/category"

// Summary is the dashboard rollup. It is computed from the ledger on every
// read and never stored, so it cannot go stale.
type Summary struct {
	TotalIncome       float64
	TotalExpenses     float64
	Balance           float64
	MonthlyIncome     float64
	MonthlyExpenses   float64
	CategoryBreakdown []CategoryTotal
}

// CategoryTotal is one row of the per-category breakdown.
type CategoryTotal struct {
	CategoryID   string
	CategoryName string
	Type         category.Type
	Total        float64
}
