package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbook/finbook/pkg/user"
)

var (
	ErrInvalidCurrency = errors.New("currency must be USD, EUR, GBP or INR")
	ErrInvalidTheme    = errors.New("theme must be light, dark or system")
)

// Patch enumerates the fields an update may change; nil leaves a field as is.
type Patch struct {
	Currency *Currency
	Theme    *Theme
}

type Service interface {
	Get(ctx context.Context) (Preferences, error)
	Update(ctx context.Context, patch Patch) (Preferences, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Get(ctx context.Context) (Preferences, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *ServiceImpl) Update(ctx context.Context, patch Patch) (Preferences, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to get current user: %w", err)
	}

	existing, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return Preferences{}, err
	}

	if patch.Currency != nil {
		existing.Currency = *patch.Currency
	}
	if patch.Theme != nil {
		existing.Theme = *patch.Theme
	}
	if !ValidCurrency(existing.Currency) {
		return Preferences{}, ErrInvalidCurrency
	}
	if !ValidTheme(existing.Theme) {
		return Preferences{}, ErrInvalidTheme
	}

	return s.repo.Update(ctx, userID, existing)
}
