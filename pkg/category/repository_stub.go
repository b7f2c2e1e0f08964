package category

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RepoStub is an in-memory Repo for service tests. TxCounts simulates the
// transaction references that block deletion.
type RepoStub struct {
	categories map[string]Category
	TxCounts   map[string]int
}

func NewRepoStub() *RepoStub {
	return &RepoStub{
		categories: map[string]Category{},
		TxCounts:   map[string]int{},
	}
}

func (s *RepoStub) Cleanup() {
	s.categories = map[string]Category{}
	s.TxCounts = map[string]int{}
}

// SeedDefault inserts a system default category directly, bypassing ownership.
func (s *RepoStub) SeedDefault(name string, t Type) Category {
	c := Category{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      t,
		Color:     "#10b981",
		Icon:      "💰",
		IsDefault: true,
		CreatedAt: time.Now(),
	}
	s.categories[c.ID] = c
	return c
}

func (s *RepoStub) visible(userID string) []Category {
	var out []Category
	for _, c := range s.categories {
		if c.IsDefault || c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *RepoStub) GetAllVisible(ctx context.Context, userID string) ([]Category, error) {
	return s.visible(userID), nil
}

func (s *RepoStub) GetByType(ctx context.Context, userID string, t Type) ([]Category, error) {
	var out []Category
	for _, c := range s.visible(userID) {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *RepoStub) GetByID(ctx context.Context, userID string, id string) (Category, error) {
	c, ok := s.categories[id]
	if !ok || (!c.IsDefault && c.UserID != userID) {
		return Category{}, ErrNotFound
	}
	return c, nil
}

func (s *RepoStub) FindByName(ctx context.Context, userID, name string, t Type) (Category, bool, error) {
	for _, c := range s.visible(userID) {
		if strings.EqualFold(c.Name, name) && c.Type == t {
			return c, true, nil
		}
	}
	return Category{}, false, nil
}

func (s *RepoStub) Store(ctx context.Context, userID string, category Category) (Category, error) {
	category.ID = uuid.NewString()
	category.UserID = userID
	category.IsDefault = false
	category.CreatedAt = time.Now()
	s.categories[category.ID] = category
	return category, nil
}

func (s *RepoStub) Update(ctx context.Context, userID string, id string, patch Patch) (Category, error) {
	c, ok := s.categories[id]
	if !ok || c.IsDefault || c.UserID != userID {
		return Category{}, ErrNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Color != nil {
		c.Color = *patch.Color
	}
	if patch.Icon != nil {
		c.Icon = *patch.Icon
	}
	s.categories[id] = c
	return c, nil
}

func (s *RepoStub) Delete(ctx context.Context, userID string, id string) (bool, error) {
	c, ok := s.categories[id]
	if !ok || c.IsDefault || c.UserID != userID {
		return false, nil
	}
	delete(s.categories, id)
	return true, nil
}

func (s *RepoStub) CountTransactions(ctx context.Context, categoryID string) (int, error) {
	return s.TxCounts[categoryID], nil
}

func (s *RepoStub) UsageStats(ctx context.Context, userID string) ([]UsageStat, error) {
	var stats []UsageStat
	for _, c := range s.visible(userID) {
		stats = append(stats, UsageStat{Category: c, TransactionCount: s.TxCounts[c.ID]})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TransactionCount != stats[j].TransactionCount {
			return stats[i].TransactionCount > stats[j].TransactionCount
		}
		return stats[i].Name < stats[j].Name
	})
	return stats, nil
}
