package transaction

import (
	"time"

	"github.com/finbook/finbook/pkg/category"
)

type RecurringPeriod string

const (
	RecurringDaily   RecurringPeriod = "daily"
	RecurringWeekly  RecurringPeriod = "weekly"
	RecurringMonthly RecurringPeriod = "monthly"
	RecurringYearly  RecurringPeriod = "yearly"
)

func ValidRecurringPeriod(p RecurringPeriod) bool {
	switch p {
	case RecurringDaily, RecurringWeekly, RecurringMonthly, RecurringYearly:
		return true
	}
	return false
}

// Transaction is a single money movement. Date is a calendar date, not the
// moment of creation. A recurring transaction stores only the flag and
// period; repetitions are never materialized into future rows.
type Transaction struct {
	ID               string
	UserID           string
	Amount           float64
	Type             category.Type
	CategoryID       string
	CategoryName     string
	Description      string
	Date             time.Time
	IsRecurring      bool
	RecurringPeriod  RecurringPeriod
	RecurringEndDate time.Time
	CreatedAt        time.Time
}

// Filter narrows a ledger listing. Zero values mean "no constraint"; all set
// fields apply conjunctively.
type Filter struct {
	Type       category.Type
	CategoryID string
	StartDate  time.Time
	EndDate    time.Time
}

// Page is one page of a ledger listing.
type Page struct {
	Transactions []Transaction
	Total        int
	Page         int
	TotalPages   int
}

// Patch enumerates the fields an update may change; nil leaves a field as is.
type Patch struct {
	Amount           *float64
	Type             *category.Type
	CategoryID       *string
	Description      *string
	Date             *time.Time
	IsRecurring      *bool
	RecurringPeriod  *RecurringPeriod
	RecurringEndDate *time.Time
}
