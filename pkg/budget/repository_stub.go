package budget

import (
	"context"
	"sort"
	"time"

	"github.com/finbook/finbook/pkg/category"
	"github.com/google/uuid"
)

// LedgerEntry is the slice of a transaction the stub needs to recompute
// spent figures without a database.
type LedgerEntry struct {
	UserID     string
	CategoryID string
	Type       category.Type
	Amount     float64
	Date       time.Time
}

// RepoStub is an in-memory Repo for service and handler tests. Ledger stands
// in for the transactions table during recomputation.
type RepoStub struct {
	budgets map[string]Budget
	Ledger  []LedgerEntry
}

func NewRepoStub() *RepoStub {
	return &RepoStub{budgets: make(map[string]Budget)}
}

func (s *RepoStub) Cleanup() {
	s.budgets = make(map[string]Budget)
	s.Ledger = nil
}

func (s *RepoStub) Store(_ context.Context, userID string, b Budget) (Budget, error) {
	b.ID = uuid.New().String()
	b.UserID = userID
	b.Spent = 0
	b.IsActive = true
	b.CreatedAt = time.Now()
	s.budgets[b.ID] = b
	return b, nil
}

func (s *RepoStub) ListActive(_ context.Context, userID string) ([]Budget, error) {
	var budgets []Budget
	for _, b := range s.budgets {
		if b.UserID == userID && b.IsActive {
			budgets = append(budgets, b)
		}
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].CreatedAt.After(budgets[j].CreatedAt)
	})
	return budgets, nil
}

func (s *RepoStub) GetByID(_ context.Context, userID string, id string) (Budget, error) {
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return Budget{}, ErrNotFound
	}
	return b, nil
}

func (s *RepoStub) Update(_ context.Context, userID string, b Budget) (Budget, error) {
	existing, ok := s.budgets[b.ID]
	if !ok || existing.UserID != userID {
		return Budget{}, ErrNotFound
	}
	b.UserID = userID
	b.CreatedAt = existing.CreatedAt
	s.budgets[b.ID] = b
	return b, nil
}

func (s *RepoStub) Delete(_ context.Context, userID string, id string) (bool, error) {
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return false, nil
	}
	delete(s.budgets, id)
	return true, nil
}

func (s *RepoStub) RecomputeSpent(_ context.Context, userID string, categoryID string) error {
	for id, b := range s.budgets {
		if b.UserID != userID || b.CategoryID != categoryID || !b.IsActive {
			continue
		}
		var spent float64
		for _, e := range s.Ledger {
			if e.UserID != userID || e.CategoryID != categoryID || e.Type != category.TypeExpense {
				continue
			}
			if e.Date.Before(b.StartDate) || e.Date.After(b.EndDate) {
				continue
			}
			spent += e.Amount
		}
		b.Spent = spent
		s.budgets[id] = b
	}
	return nil
}
