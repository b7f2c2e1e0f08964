package transaction

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// RepoStub is an in-memory Repo for service and handler tests.
type RepoStub struct {
	transactions map[string]Transaction
}

func NewRepoStub() *RepoStub {
	return &RepoStub{transactions: make(map[string]Transaction)}
}

func (s *RepoStub) Cleanup() {
	s.transactions = make(map[string]Transaction)
}

func (s *RepoStub) Store(_ context.Context, userID string, t Transaction) (Transaction, error) {
	t.ID = uuid.New().String()
	t.UserID = userID
	t.CreatedAt = time.Now()
	s.transactions[t.ID] = t
	return t, nil
}

func (s *RepoStub) List(_ context.Context, userID string, filter Filter, page, pageSize int) (Page, error) {
	var matched []Transaction
	for _, t := range s.transactions {
		if t.UserID != userID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.CategoryID != "" && t.CategoryID != filter.CategoryID {
			continue
		}
		if !filter.StartDate.IsZero() && t.Date.Before(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && t.Date.After(filter.EndDate) {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return Page{
		Transactions: matched[start:end],
		Total:        total,
		Page:         page,
		TotalPages:   (total + pageSize - 1) / pageSize,
	}, nil
}

func (s *RepoStub) GetByID(_ context.Context, userID string, id string) (Transaction, error) {
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return Transaction{}, ErrNotFound
	}
	return t, nil
}

func (s *RepoStub) Update(_ context.Context, userID string, t Transaction) (Transaction, error) {
	existing, ok := s.transactions[t.ID]
	if !ok || existing.UserID != userID {
		return Transaction{}, ErrNotFound
	}
	t.UserID = userID
	t.CreatedAt = existing.CreatedAt
	s.transactions[t.ID] = t
	return t, nil
}

func (s *RepoStub) Delete(_ context.Context, userID string, id string) (bool, error) {
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(s.transactions, id)
	return true, nil
}
