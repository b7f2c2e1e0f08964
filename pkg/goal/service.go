package goal

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbook/finbook/pkg/user"
)

var (
	ErrInvalidTitle    = errors.New("title is required")
	ErrInvalidTarget   = errors.New("targetAmount must be greater than zero")
	ErrInvalidDate     = errors.New("targetDate is required")
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
	ErrInvalidProgress = errors.New("progress amount must be greater than zero")
	ErrInvalidCurrent  = errors.New("currentAmount must not be negative")
)

type Service interface {
	Create(ctx context.Context, g Goal) (Goal, error)
	List(ctx context.Context) ([]Goal, error)
	Get(ctx context.Context, id string) (Goal, error)
	Update(ctx context.Context, id string, patch Patch) (Goal, error)
	Delete(ctx context.Context, id string) error
	AddProgress(ctx context.Context, id string, amount float64) (Goal, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Create(ctx context.Context, g Goal) (Goal, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}

	if g.Priority == "" {
		g.Priority = PriorityMedium
	}
	if err := validate(g); err != nil {
		return Goal{}, err
	}
	return s.repo.Store(ctx, userID, g)
}

func (s *ServiceImpl) List(ctx context.Context) ([]Goal, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.List(ctx, userID)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Goal, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetByID(ctx, userID, id)
}

func (s *ServiceImpl) Update(ctx context.Context, id string, patch Patch) (Goal, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}

	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return Goal{}, err
	}

	applyPatch(&existing, patch)
	if err := validate(existing); err != nil {
		return Goal{}, err
	}
	if existing.CurrentAmount < 0 {
		return Goal{}, ErrInvalidCurrent
	}
	return s.repo.Update(ctx, userID, existing)
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// AddProgress adds to the progress counter. The increment and the completion
// derivation happen in the repository as one atomic operation.
func (s *ServiceImpl) AddProgress(ctx context.Context, id string, amount float64) (Goal, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}

	if amount <= 0 {
		return Goal{}, ErrInvalidProgress
	}
	return s.repo.AddProgress(ctx, userID, id, amount)
}

func validate(g Goal) error {
	if g.Title == "" {
		return ErrInvalidTitle
	}
	if g.TargetAmount <= 0 {
		return ErrInvalidTarget
	}
	if g.TargetDate.IsZero() {
		return ErrInvalidDate
	}
	if !ValidPriority(g.Priority) {
		return ErrInvalidPriority
	}
	return nil
}

func applyPatch(g *Goal, patch Patch) {
	if patch.Title != nil {
		g.Title = *patch.Title
	}
	if patch.Description != nil {
		g.Description = *patch.Description
	}
	if patch.TargetAmount != nil {
		g.TargetAmount = *patch.TargetAmount
	}
	if patch.CurrentAmount != nil {
		g.CurrentAmount = *patch.CurrentAmount
	}
	if patch.TargetDate != nil {
		g.TargetDate = *patch.TargetDate
	}
	if patch.Priority != nil {
		g.Priority = *patch.Priority
	}
}
