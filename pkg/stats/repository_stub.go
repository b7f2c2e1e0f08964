package stats

import (
	"context"
	"sort"
	"time"

	"github.com/finbook/finbook/pkg/category"
)

// LedgerEntry is the slice of a transaction the stub aggregates over.
type LedgerEntry struct {
	UserID       string
	CategoryID   string
	CategoryName string
	Type         category.Type
	Amount       float64
	Date         time.Time
}

// RepoStub is an in-memory Repo for service tests.
type RepoStub struct {
	Ledger []LedgerEntry
}

func NewRepoStub() *RepoStub {
	return &RepoStub{}
}

func (s *RepoStub) Cleanup() {
	s.Ledger = nil
}

func (s *RepoStub) TotalsByType(_ context.Context, userID string) (float64, float64, error) {
	return s.totals(userID, time.Time{}, time.Time{})
}

func (s *RepoStub) TotalsByTypeBetween(_ context.Context, userID string, start, end time.Time) (float64, float64, error) {
	return s.totals(userID, start, end)
}

func (s *RepoStub) totals(userID string, start, end time.Time) (float64, float64, error) {
	var income, expenses float64
	for _, e := range s.Ledger {
		if e.UserID != userID {
			continue
		}
		if !start.IsZero() && e.Date.Before(start) {
			continue
		}
		if !end.IsZero() && e.Date.After(end) {
			continue
		}
		switch e.Type {
		case category.TypeIncome:
			income += e.Amount
		case category.TypeExpense:
			expenses += e.Amount
		}
	}
	return income, expenses, nil
}

func (s *RepoStub) CategoryBreakdown(_ context.Context, userID string) ([]CategoryTotal, error) {
	type key struct {
		categoryID string
		kind       category.Type
	}
	totals := make(map[key]CategoryTotal)
	for _, e := range s.Ledger {
		if e.UserID != userID {
			continue
		}
		k := key{e.CategoryID, e.Type}
		ct := totals[k]
		ct.CategoryID = e.CategoryID
		ct.CategoryName = e.CategoryName
		ct.Type = e.Type
		ct.Total += e.Amount
		totals[k] = ct
	}

	breakdown := make([]CategoryTotal, 0, len(totals))
	for _, ct := range totals {
		breakdown = append(breakdown, ct)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Total > breakdown[j].Total
	})
	return breakdown, nil
}
