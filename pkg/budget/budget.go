package budget

import "time"

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

func ValidPeriod(p Period) bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Budget is a spending ceiling for one category over a date window. Spent is
// a cached aggregate over the ledger, refreshed whenever a transaction in the
// category changes; it is never authoritative on its own.
type Budget struct {
	ID             string
	UserID         string
	CategoryID     string
	CategoryName   string
	Amount         float64
	Spent          float64
	Period         Period
	StartDate      time.Time
	EndDate        time.Time
	AlertThreshold float64
	IsActive       bool
	CreatedAt      time.Time
}

// Patch enumerates the fields an update may change; nil leaves a field as is.
type Patch struct {
	CategoryID     *string
	Amount         *float64
	Period         *Period
	StartDate      *time.Time
	EndDate        *time.Time
	AlertThreshold *float64
	IsActive       *bool
}
