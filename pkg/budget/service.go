package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbook/finbook/internal/events"
	"github.com/finbook/finbook/pkg/category"
	"github.com/finbook/finbook/pkg/user"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidPeriod    = errors.New("period must be weekly, monthly or yearly")
	ErrInvalidDates     = errors.New("startDate must not be after endDate")
	ErrInvalidThreshold = errors.New("alertThreshold must be between 0 and 100")
	ErrInvalidCategory  = errors.New("category does not exist or is not visible")
)

const defaultAlertThreshold = 80

// CategoryGetter resolves a category visible to the current user.
type CategoryGetter func(ctx context.Context, id string) (category.Category, error)

type Service interface {
	Create(ctx context.Context, b Budget) (Budget, error)
	List(ctx context.Context) ([]Budget, error)
	Get(ctx context.Context, id string) (Budget, error)
	Update(ctx context.Context, id string, patch Patch) (Budget, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo        Repo
	getCategory CategoryGetter
}

// NewService builds the budget service. When bus is non-nil the service
// subscribes to ledger change events and refreshes the cached spent figures
// of the affected categories before the originating request completes.
func NewService(repo Repo, getCategory CategoryGetter, bus *events.Bus) *ServiceImpl {
	s := &ServiceImpl{repo: repo, getCategory: getCategory}
	if bus != nil {
		events.SubscribeTyped(bus, events.TransactionChangedEvent, s.onTransactionChanged)
	}
	return s
}

func (s *ServiceImpl) onTransactionChanged(e events.EventT[events.TransactionChanged]) error {
	var errs []error
	for _, categoryID := range e.Data.CategoryIDs {
		if err := s.repo.RecomputeSpent(e.Context(), e.Data.UserID, categoryID); err != nil {
			errs = append(errs, fmt.Errorf("recompute spent for category %s: %w", categoryID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *ServiceImpl) Create(ctx context.Context, b Budget) (Budget, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}

	if b.AlertThreshold == 0 {
		b.AlertThreshold = defaultAlertThreshold
	}
	if err := validate(b); err != nil {
		return Budget{}, err
	}
	if _, err := s.getCategory(ctx, b.CategoryID); err != nil {
		if errors.Is(err, category.ErrNotFound) {
			return Budget{}, ErrInvalidCategory
		}
		return Budget{}, err
	}

	created, err := s.repo.Store(ctx, userID, b)
	if err != nil {
		return Budget{}, err
	}

	// The window may already contain ledger entries; refresh immediately so
	// the caller never sees a zero that the next event would correct.
	if err := s.repo.RecomputeSpent(ctx, userID, created.CategoryID); err != nil {
		log.Errorf("could not refresh spent for new budget %s: %v", created.ID, err)
		return created, nil
	}
	return s.repo.GetByID(ctx, userID, created.ID)
}

func (s *ServiceImpl) List(ctx context.Context) ([]Budget, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListActive(ctx, userID)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Budget, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetByID(ctx, userID, id)
}

func (s *ServiceImpl) Update(ctx context.Context, id string, patch Patch) (Budget, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}

	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return Budget{}, err
	}

	applyPatch(&existing, patch)
	if err := validate(existing); err != nil {
		return Budget{}, err
	}
	if patch.CategoryID != nil {
		if _, err := s.getCategory(ctx, existing.CategoryID); err != nil {
			if errors.Is(err, category.ErrNotFound) {
				return Budget{}, ErrInvalidCategory
			}
			return Budget{}, err
		}
	}

	updated, err := s.repo.Update(ctx, userID, existing)
	if err != nil {
		return Budget{}, err
	}

	// A moved window or category invalidates the cached aggregate.
	if err := s.repo.RecomputeSpent(ctx, userID, updated.CategoryID); err != nil {
		log.Errorf("could not refresh spent for budget %s: %v", updated.ID, err)
		return updated, nil
	}
	return s.repo.GetByID(ctx, userID, updated.ID)
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

func validate(b Budget) error {
	if b.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !ValidPeriod(b.Period) {
		return ErrInvalidPeriod
	}
	if b.StartDate.After(b.EndDate) {
		return ErrInvalidDates
	}
	if b.AlertThreshold <= 0 || b.AlertThreshold > 100 {
		return ErrInvalidThreshold
	}
	return nil
}

func applyPatch(b *Budget, patch Patch) {
	if patch.CategoryID != nil {
		b.CategoryID = *patch.CategoryID
	}
	if patch.Amount != nil {
		b.Amount = *patch.Amount
	}
	if patch.Period != nil {
		b.Period = *patch.Period
	}
	if patch.StartDate != nil {
		b.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		b.EndDate = *patch.EndDate
	}
	if patch.AlertThreshold != nil {
		b.AlertThreshold = *patch.AlertThreshold
	}
	if patch.IsActive != nil {
		b.IsActive = *patch.IsActive
	}
}
