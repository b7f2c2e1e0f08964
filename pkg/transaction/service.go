package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbook/finbook/internal/events"
	"github.com/finbook/finbook/pkg/category"
	"github.com/finbook/finbook/pkg/user"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidCategory    = errors.New("category does not exist or is not visible")
	ErrRecurringMismatch  = errors.New("recurringPeriod is required when isRecurring is set, and forbidden otherwise")
	ErrInvalidRecurring   = errors.New("recurringPeriod must be daily, weekly, monthly or yearly")
	ErrInvalidDateMissing = errors.New("date is required")
)

// CategoryGetter resolves a category visible to the current user.
type CategoryGetter func(ctx context.Context, id string) (category.Category, error)

type Service interface {
	Create(ctx context.Context, t Transaction) (Transaction, error)
	List(ctx context.Context, filter Filter, page, pageSize int) (Page, error)
	Get(ctx context.Context, id string) (Transaction, error)
	Update(ctx context.Context, id string, patch Patch) (Transaction, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo        Repo
	getCategory CategoryGetter
	bus         *events.Bus
}

func NewService(repo Repo, getCategory CategoryGetter, bus *events.Bus) *ServiceImpl {
	return &ServiceImpl{repo: repo, getCategory: getCategory, bus: bus}
}

func (s *ServiceImpl) Create(ctx context.Context, t Transaction) (Transaction, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}

	if err := validate(t); err != nil {
		return Transaction{}, err
	}
	c, err := s.getCategory(ctx, t.CategoryID)
	if errors.Is(err, category.ErrNotFound) {
		return Transaction{}, ErrInvalidCategory
	}
	if err != nil {
		return Transaction{}, err
	}

	created, err := s.repo.Store(ctx, userID, t)
	if err != nil {
		return Transaction{}, err
	}
	created.CategoryName = c.Name

	s.publishChange(ctx, userID, created.CategoryID)
	return created, nil
}

func (s *ServiceImpl) List(ctx context.Context, filter Filter, page, pageSize int) (Page, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.List(ctx, userID, filter, page, pageSize)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Transaction, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetByID(ctx, userID, id)
}

func (s *ServiceImpl) Update(ctx context.Context, id string, patch Patch) (Transaction, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}

	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return Transaction{}, err
	}
	oldCategoryID := existing.CategoryID

	applyPatch(&existing, patch)
	if err := validate(existing); err != nil {
		return Transaction{}, err
	}
	if patch.CategoryID != nil {
		if _, err := s.getCategory(ctx, existing.CategoryID); err != nil {
			if errors.Is(err, category.ErrNotFound) {
				return Transaction{}, ErrInvalidCategory
			}
			return Transaction{}, err
		}
	}

	updated, err := s.repo.Update(ctx, userID, existing)
	if err != nil {
		return Transaction{}, err
	}

	s.publishChange(ctx, userID, changedCategories(oldCategoryID, updated.CategoryID)...)
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.publishChange(ctx, userID, existing.CategoryID)
	return nil
}

// publishChange notifies subscribers that derived aggregates for the given
// categories may be stale. Failures are logged; the ledger write already
// succeeded and is never rolled back for a listener error.
func (s *ServiceImpl) publishChange(ctx context.Context, userID string, categoryIDs ...string) {
	if s.bus == nil {
		return
	}
	err := s.bus.Publish(events.NewEvent(ctx, events.TransactionChangedEvent, events.TransactionChanged{
		UserID:      userID,
		CategoryIDs: categoryIDs,
	}))
	if err != nil {
		log.Errorf("transaction change listeners failed: %v", err)
	}
}

func validate(t Transaction) error {
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDateMissing
	}
	if t.IsRecurring != (t.RecurringPeriod != "") {
		return ErrRecurringMismatch
	}
	if t.IsRecurring && !ValidRecurringPeriod(t.RecurringPeriod) {
		return ErrInvalidRecurring
	}
	return nil
}

func applyPatch(t *Transaction, patch Patch) {
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.CategoryID != nil {
		t.CategoryID = *patch.CategoryID
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.IsRecurring != nil {
		t.IsRecurring = *patch.IsRecurring
		if !t.IsRecurring {
			t.RecurringPeriod = ""
			t.RecurringEndDate = time.Time{}
		}
	}
	if patch.RecurringPeriod != nil {
		t.RecurringPeriod = *patch.RecurringPeriod
	}
	if patch.RecurringEndDate != nil {
		t.RecurringEndDate = *patch.RecurringEndDate
	}
}

func changedCategories(oldID, newID string) []string {
	if oldID == newID {
		return []string{newID}
	}
	return []string{oldID, newID}
}
