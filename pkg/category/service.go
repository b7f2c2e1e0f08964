package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finbook/finbook/pkg/user"
)

var (
	ErrNotFound         = errors.New("category not found")
	ErrDefaultImmutable = errors.New("default categories cannot be modified")
	ErrNameTaken        = errors.New("category with this name already exists for this type")
	ErrCategoryInUse    = errors.New("category is referenced by transactions")
)

type Service interface {
	GetAll(ctx context.Context) ([]Category, error)
	GetByType(ctx context.Context, t Type) ([]Category, error)
	Get(ctx context.Context, id string) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, id string, patch Patch) (Category, error)
	Delete(ctx context.Context, id string) error
	UsageStats(ctx context.Context) ([]UsageStat, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Category, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAllVisible(ctx, userID)
}

func (s *ServiceImpl) GetByType(ctx context.Context, t Type) ([]Category, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetByType(ctx, userID, t)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Category, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetByID(ctx, userID, id)
}

func (s *ServiceImpl) Create(ctx context.Context, category Category) (Category, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current user: %w", err)
	}

	_, exists, err := s.repo.FindByName(ctx, userID, category.Name, category.Type)
	if err != nil {
		return Category{}, err
	}
	if exists {
		return Category{}, ErrNameTaken
	}

	return s.repo.Store(ctx, userID, category)
}

func (s *ServiceImpl) Update(ctx context.Context, id string, patch Patch) (Category, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current user: %w", err)
	}

	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return Category{}, err
	}
	if existing.IsDefault {
		return Category{}, ErrDefaultImmutable
	}

	if patch.Name != nil && !strings.EqualFold(*patch.Name, existing.Name) {
		_, taken, err := s.repo.FindByName(ctx, userID, *patch.Name, existing.Type)
		if err != nil {
			return Category{}, err
		}
		if taken {
			return Category{}, ErrNameTaken
		}
	}

	return s.repo.Update(ctx, userID, id, patch)
}

// Delete removes a user category. Referential integrity is checked here, not
// left to the foreign key, so the caller gets a conflict instead of a storage
// error.
func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if existing.IsDefault {
		return ErrDefaultImmutable
	}

	count, err := s.repo.CountTransactions(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
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

func (s *ServiceImpl) UsageStats(ctx context.Context) ([]UsageStat, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.UsageStats(ctx, userID)
}
