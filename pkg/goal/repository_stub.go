package goal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RepoStub is an in-memory Repo for service and handler tests. All methods
// hold the mutex so AddProgress behaves like the single-statement increment
// under concurrent callers.
type RepoStub struct {
	mu    sync.Mutex
	goals map[string]Goal
}

func NewRepoStub() *RepoStub {
	return &RepoStub{goals: make(map[string]Goal)}
}

func (s *RepoStub) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = make(map[string]Goal)
}

func (s *RepoStub) Store(_ context.Context, userID string, g Goal) (Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = uuid.New().String()
	g.UserID = userID
	g.CurrentAmount = 0
	g.IsCompleted = false
	g.CreatedAt = time.Now()
	s.goals[g.ID] = g
	return g, nil
}

func (s *RepoStub) List(_ context.Context, userID string) ([]Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var goals []Goal
	for _, g := range s.goals {
		if g.UserID == userID {
			goals = append(goals, g)
		}
	}
	// Same ordering the SQL store produces: priority compared as text,
	// descending, then the nearest target date first.
	sort.Slice(goals, func(i, j int) bool {
		if goals[i].Priority != goals[j].Priority {
			return goals[i].Priority > goals[j].Priority
		}
		return goals[i].TargetDate.Before(goals[j].TargetDate)
	})
	return goals, nil
}

func (s *RepoStub) GetByID(_ context.Context, userID string, id string) (Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return Goal{}, ErrNotFound
	}
	return g, nil
}

func (s *RepoStub) Update(_ context.Context, userID string, g Goal) (Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.goals[g.ID]
	if !ok || existing.UserID != userID {
		return Goal{}, ErrNotFound
	}
	g.UserID = userID
	g.CreatedAt = existing.CreatedAt
	g.IsCompleted = g.CurrentAmount >= g.TargetAmount
	s.goals[g.ID] = g
	return g, nil
}

func (s *RepoStub) Delete(_ context.Context, userID string, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return false, nil
	}
	delete(s.goals, id)
	return true, nil
}

func (s *RepoStub) AddProgress(_ context.Context, userID string, id string, amount float64) (Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return Goal{}, ErrNotFound
	}
	g.CurrentAmount += amount
	g.IsCompleted = g.CurrentAmount >= g.TargetAmount
	s.goals[id] = g
	return g, nil
}
