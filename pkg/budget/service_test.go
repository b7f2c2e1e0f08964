package budget

import (
	"context"
	"testing"
	"time"

	"github.com/finbook/finbook/internal/events"
	"github.com/finbook/finbook/pkg/category"
	"github.com/finbook/finbook/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

func newTestService(repo *RepoStub, bus *events.Bus) *ServiceImpl {
	categories := map[string]category.Category{
		"cat-food": {ID: "cat-food", Name: "Food & Dining", Type: category.TypeExpense},
		"cat-fun":  {ID: "cat-fun", Name: "Entertainment", Type: category.TypeExpense},
	}
	getter := func(_ context.Context, id string) (category.Category, error) {
		if c, ok := categories[id]; ok {
			return c, nil
		}
		return category.Category{}, category.ErrNotFound
	}
	return NewService(repo, getter, bus)
}

func testCtx() context.Context {
	return user.WithID(context.Background(), testUserID)
}

func date(value string) time.Time {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		panic(err)
	}
	return d
}

func marchBudget() Budget {
	return Budget{
		CategoryID: "cat-food",
		Amount:     200,
		Period:     PeriodMonthly,
		StartDate:  date("2024-03-01"),
		EndDate:    date("2024-03-31"),
	}
}

func expense(categoryID string, amount float64, day string) LedgerEntry {
	return LedgerEntry{
		UserID:     testUserID,
		CategoryID: categoryID,
		Type:       category.TypeExpense,
		Amount:     amount,
		Date:       date(day),
	}
}

func TestServiceImpl_Create(t *testing.T) {
	repo := NewRepoStub()
	service := newTestService(repo, nil)

	t.Run("should default the alert threshold to 80", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		b := marchBudget()

		// when
		created, err := service.Create(testCtx(), b)

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, float64(80), created.AlertThreshold)
		assert.True(t, created.IsActive)
	})

	t.Run("should pick up ledger entries already inside the window", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		repo.Ledger = []LedgerEntry{expense("cat-food", 80, "2024-03-10")}

		// when
		created, err := service.Create(testCtx(), marchBudget())

		// then
		require.NoError(t, err)
		assert.Equal(t, float64(80), created.Spent)
	})

	t.Run("should reject a non-positive amount", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		b := marchBudget()
		b.Amount = 0

		// when
		_, err := service.Create(testCtx(), b)

		// then
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("should reject an unknown period", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		b := marchBudget()
		b.Period = "fortnightly"

		// when
		_, err := service.Create(testCtx(), b)

		// then
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("should reject a window that ends before it starts", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		b := marchBudget()
		b.StartDate = date("2024-03-31")
		b.EndDate = date("2024-03-01")

		// when
		_, err := service.Create(testCtx(), b)

		// then
		assert.ErrorIs(t, err, ErrInvalidDates)
	})

	t.Run("should reject a threshold above 100", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		b := marchBudget()
		b.AlertThreshold = 120

		// when
		_, err := service.Create(testCtx(), b)

		// then
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	})

	t.Run("should reject an unknown category", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		b := marchBudget()
		b.CategoryID = "no-such-category"

		// when
		_, err := service.Create(testCtx(), b)

		// then
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})
}

func TestServiceImpl_RecomputeOnLedgerChange(t *testing.T) {
	t.Run("should sum only expenses inside the window", func(t *testing.T) {
		// given
		repo := NewRepoStub()
		bus := events.NewBus()
		service := newTestService(repo, bus)
		created, err := service.Create(testCtx(), marchBudget())
		require.NoError(t, err)

		repo.Ledger = []LedgerEntry{
			expense("cat-food", 80, "2024-03-05"),
			expense("cat-food", 50, "2024-03-20"),
			expense("cat-food", 30, "2024-04-02"), // outside the window
		}

		// when
		err = bus.Publish(events.NewEvent(testCtx(), events.TransactionChangedEvent, events.TransactionChanged{
			UserID:      testUserID,
			CategoryIDs: []string{"cat-food"},
		}))

		// then
		require.NoError(t, err)
		b, err := service.Get(testCtx(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(130), b.Spent)
	})

	t.Run("should be idempotent when the ledger has not moved", func(t *testing.T) {
		// given
		repo := NewRepoStub()
		bus := events.NewBus()
		service := newTestService(repo, bus)
		created, err := service.Create(testCtx(), marchBudget())
		require.NoError(t, err)
		repo.Ledger = []LedgerEntry{expense("cat-food", 80, "2024-03-05")}
		event := events.NewEvent(testCtx(), events.TransactionChangedEvent, events.TransactionChanged{
			UserID:      testUserID,
			CategoryIDs: []string{"cat-food"},
		})

		// when
		require.NoError(t, bus.Publish(event))
		first, err := service.Get(testCtx(), created.ID)
		require.NoError(t, err)
		require.NoError(t, bus.Publish(event))
		second, err := service.Get(testCtx(), created.ID)
		require.NoError(t, err)

		// then
		assert.Equal(t, first.Spent, second.Spent)
	})

	t.Run("should ignore income entries in the same category", func(t *testing.T) {
		// given
		repo := NewRepoStub()
		bus := events.NewBus()
		service := newTestService(repo, bus)
		created, err := service.Create(testCtx(), marchBudget())
		require.NoError(t, err)
		repo.Ledger = []LedgerEntry{
			expense("cat-food", 40, "2024-03-05"),
			{UserID: testUserID, CategoryID: "cat-food", Type: category.TypeIncome, Amount: 500, Date: date("2024-03-06")},
		}

		// when
		err = bus.Publish(events.NewEvent(testCtx(), events.TransactionChangedEvent, events.TransactionChanged{
			UserID:      testUserID,
			CategoryIDs: []string{"cat-food"},
		}))

		// then
		require.NoError(t, err)
		b, err := service.Get(testCtx(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(40), b.Spent)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	repo := NewRepoStub()
	service := newTestService(repo, nil)

	t.Run("should refresh spent when the window moves", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		repo.Ledger = []LedgerEntry{
			expense("cat-food", 80, "2024-03-05"),
			expense("cat-food", 30, "2024-04-02"),
		}
		created, err := service.Create(testCtx(), marchBudget())
		require.NoError(t, err)
		require.Equal(t, float64(80), created.Spent)
		newStart := date("2024-04-01")
		newEnd := date("2024-04-30")

		// when
		updated, err := service.Update(testCtx(), created.ID, Patch{StartDate: &newStart, EndDate: &newEnd})

		// then
		require.NoError(t, err)
		assert.Equal(t, float64(30), updated.Spent)
	})

	t.Run("should exclude a deactivated budget from the listing", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), marchBudget())
		require.NoError(t, err)
		off := false

		// when
		_, err = service.Update(testCtx(), created.ID, Patch{IsActive: &off})

		// then
		require.NoError(t, err)
		budgets, err := service.List(testCtx())
		require.NoError(t, err)
		assert.Empty(t, budgets)
	})

	t.Run("should return not found for another user's budget", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), marchBudget())
		require.NoError(t, err)
		otherCtx := user.WithID(context.Background(), "22222222-2222-2222-2222-222222222222")
		newAmount := 300.0

		// when
		_, err = service.Update(otherCtx, created.ID, Patch{Amount: &newAmount})

		// then
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	repo := NewRepoStub()
	service := newTestService(repo, nil)

	t.Run("should delete an owned budget", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), marchBudget())
		require.NoError(t, err)

		// when
		err = service.Delete(testCtx(), created.ID)

		// then
		require.NoError(t, err)
		_, err = service.Get(testCtx(), created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("should return not found for an unknown id", func(t *testing.T) {
		defer repo.Cleanup()
		// when
		err := service.Delete(testCtx(), "missing")

		// then
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
