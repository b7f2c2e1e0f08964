package preferences

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepoStub is an in-memory Repo for service tests.
type RepoStub struct {
	preferences map[string]Preferences
}

func NewRepoStub() *RepoStub {
	return &RepoStub{preferences: make(map[string]Preferences)}
}

func (s *RepoStub) Cleanup() {
	s.preferences = make(map[string]Preferences)
}

func (s *RepoStub) GetOrCreate(_ context.Context, userID string) (Preferences, error) {
	if p, ok := s.preferences[userID]; ok {
		return p, nil
	}
	p := Preferences{
		ID:        uuid.New().String(),
		UserID:    userID,
		Currency:  CurrencyUSD,
		Theme:     ThemeLight,
		CreatedAt: time.Now(),
	}
	s.preferences[userID] = p
	return p, nil
}

func (s *RepoStub) Update(_ context.Context, userID string, p Preferences) (Preferences, error) {
	existing, ok := s.preferences[userID]
	if !ok {
		existing = Preferences{
			ID:        uuid.New().String(),
			UserID:    userID,
			CreatedAt: time.Now(),
		}
	}
	existing.Currency = p.Currency
	existing.Theme = p.Theme
	s.preferences[userID] = existing
	return existing, nil
}
