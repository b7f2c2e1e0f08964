package stats

import (
	"context"
	"testing"
	"time"

	"github.com/finbook/finbook/internal/utils"
	"github.com/finbook/finbook/pkg/category"
	"github.com/finbook/finbook/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

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

func TestServiceImpl_Summary(t *testing.T) {
	repo := NewRepoStub()
	clock := &utils.MockClock{FixedNow: date("2024-03-15")}
	service := NewService(repo, clock)

	t.Run("should report income with no expenses as a positive balance", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		repo.Ledger = []LedgerEntry{
			{UserID: testUserID, CategoryID: "cat-freelance", CategoryName: "Freelance",
				Type: category.TypeIncome, Amount: 500, Date: date("2024-03-01")},
		}

		// when
		summary, err := service.Summary(testCtx())

		// then
		require.NoError(t, err)
		assert.Equal(t, float64(500), summary.TotalIncome)
		assert.Equal(t, float64(0), summary.TotalExpenses)
		assert.Equal(t, float64(500), summary.Balance)
	})

	t.Run("should restrict monthly figures to the current calendar month", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		repo.Ledger = []LedgerEntry{
			{UserID: testUserID, CategoryID: "cat-salary", CategoryName: "Salary",
				Type: category.TypeIncome, Amount: 3000, Date: date("2024-03-01")},
			{UserID: testUserID, CategoryID: "cat-food", CategoryName: "Food & Dining",
				Type: category.TypeExpense, Amount: 120, Date: date("2024-03-10")},
			{UserID: testUserID, CategoryID: "cat-food", CategoryName: "Food & Dining",
				Type: category.TypeExpense, Amount: 90, Date: date("2024-02-20")},
		}

		// when
		summary, err := service.Summary(testCtx())

		// then
		require.NoError(t, err)
		assert.Equal(t, float64(3000), summary.MonthlyIncome)
		assert.Equal(t, float64(120), summary.MonthlyExpenses)
		assert.Equal(t, float64(210), summary.TotalExpenses)
	})

	t.Run("should order the category breakdown by amount descending", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		repo.Ledger = []LedgerEntry{
			{UserID: testUserID, CategoryID: "cat-food", CategoryName: "Food & Dining",
				Type: category.TypeExpense, Amount: 40, Date: date("2024-03-05")},
			{UserID: testUserID, CategoryID: "cat-rent", CategoryName: "Utilities",
				Type: category.TypeExpense, Amount: 900, Date: date("2024-03-01")},
			{UserID: testUserID, CategoryID: "cat-food", CategoryName: "Food & Dining",
				Type: category.TypeExpense, Amount: 60, Date: date("2024-03-12")},
		}

		// when
		summary, err := service.Summary(testCtx())

		// then
		require.NoError(t, err)
		require.Len(t, summary.CategoryBreakdown, 2)
		assert.Equal(t, "Utilities", summary.CategoryBreakdown[0].CategoryName)
		assert.Equal(t, float64(900), summary.CategoryBreakdown[0].Total)
		assert.Equal(t, float64(100), summary.CategoryBreakdown[1].Total)
	})

	t.Run("should ignore other users' ledger entries", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		repo.Ledger = []LedgerEntry{
			{UserID: "22222222-2222-2222-2222-222222222222", CategoryID: "cat-salary", CategoryName: "Salary",
				Type: category.TypeIncome, Amount: 9999, Date: date("2024-03-01")},
		}

		// when
		summary, err := service.Summary(testCtx())

		// then
		require.NoError(t, err)
		assert.Equal(t, float64(0), summary.TotalIncome)
		assert.Empty(t, summary.CategoryBreakdown)
	})

	t.Run("should fail without an authenticated user", func(t *testing.T) {
		defer repo.Cleanup()
		// when
		_, err := service.Summary(context.Background())

		// then
		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}
