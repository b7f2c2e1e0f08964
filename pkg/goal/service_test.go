package goal

import (
	"context"
	"sync"
	"testing"
	"time"

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

func vacationGoal() Goal {
	return Goal{
		Title:        "Vacation fund",
		TargetAmount: 1000,
		TargetDate:   date("2025-12-31"),
	}
}

func TestServiceImpl_Create(t *testing.T) {
	repo := NewRepoStub()
	service := NewService(repo)

	t.Run("should create a goal with zero progress and medium priority", func(t *testing.T) {
		defer repo.Cleanup()
		// when
		created, err := service.Create(testCtx(), vacationGoal())

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, float64(0), created.CurrentAmount)
		assert.False(t, created.IsCompleted)
		assert.Equal(t, PriorityMedium, created.Priority)
	})

	t.Run("should reject a missing title", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		g := vacationGoal()
		g.Title = ""

		// when
		_, err := service.Create(testCtx(), g)

		// then
		assert.ErrorIs(t, err, ErrInvalidTitle)
	})

	t.Run("should reject a non-positive target amount", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		g := vacationGoal()
		g.TargetAmount = 0

		// when
		_, err := service.Create(testCtx(), g)

		// then
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})

	t.Run("should reject an unknown priority", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		g := vacationGoal()
		g.Priority = "urgent"

		// when
		_, err := service.Create(testCtx(), g)

		// then
		assert.ErrorIs(t, err, ErrInvalidPriority)
	})
}

func TestServiceImpl_AddProgress(t *testing.T) {
	repo := NewRepoStub()
	service := NewService(repo)

	t.Run("should accumulate progress and derive completion", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), vacationGoal())
		require.NoError(t, err)

		// when
		after600, err := service.AddProgress(testCtx(), created.ID, 600)
		require.NoError(t, err)
		after1100, err := service.AddProgress(testCtx(), created.ID, 500)
		require.NoError(t, err)

		// then
		assert.Equal(t, float64(600), after600.CurrentAmount)
		assert.False(t, after600.IsCompleted)
		assert.Equal(t, float64(1100), after1100.CurrentAmount)
		assert.True(t, after1100.IsCompleted)
	})

	t.Run("should reach the same total regardless of increment order", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		first, err := service.Create(testCtx(), vacationGoal())
		require.NoError(t, err)
		second, err := service.Create(testCtx(), vacationGoal())
		require.NoError(t, err)

		// when
		_, err = service.AddProgress(testCtx(), first.ID, 5)
		require.NoError(t, err)
		a, err := service.AddProgress(testCtx(), first.ID, 3)
		require.NoError(t, err)
		_, err = service.AddProgress(testCtx(), second.ID, 3)
		require.NoError(t, err)
		b, err := service.AddProgress(testCtx(), second.ID, 5)
		require.NoError(t, err)

		// then
		assert.Equal(t, float64(8), a.CurrentAmount)
		assert.Equal(t, a.CurrentAmount, b.CurrentAmount)
	})

	t.Run("should not lose increments under concurrent calls", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), vacationGoal())
		require.NoError(t, err)
		const n = 100

		// when
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func() {
				defer wg.Done()
				_, err := service.AddProgress(testCtx(), created.ID, 1)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		// then
		g, err := service.Get(testCtx(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(n), g.CurrentAmount)
	})

	t.Run("should reject a non-positive amount", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), vacationGoal())
		require.NoError(t, err)

		// when
		_, err = service.AddProgress(testCtx(), created.ID, 0)

		// then
		assert.ErrorIs(t, err, ErrInvalidProgress)
	})

	t.Run("should return not found for another user's goal", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), vacationGoal())
		require.NoError(t, err)
		otherCtx := user.WithID(context.Background(), "22222222-2222-2222-2222-222222222222")

		// when
		_, err = service.AddProgress(otherCtx, created.ID, 10)

		// then
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	repo := NewRepoStub()
	service := NewService(repo)

	t.Run("should re-derive completion when currentAmount is overwritten", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), vacationGoal())
		require.NoError(t, err)
		newCurrent := 1200.0

		// when
		updated, err := service.Update(testCtx(), created.ID, Patch{CurrentAmount: &newCurrent})

		// then
		require.NoError(t, err)
		assert.True(t, updated.IsCompleted)
	})

	t.Run("should re-derive completion when targetAmount rises above progress", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), vacationGoal())
		require.NoError(t, err)
		_, err = service.AddProgress(testCtx(), created.ID, 1000)
		require.NoError(t, err)
		newTarget := 2000.0

		// when
		updated, err := service.Update(testCtx(), created.ID, Patch{TargetAmount: &newTarget})

		// then
		require.NoError(t, err)
		assert.False(t, updated.IsCompleted)
	})

	t.Run("should reject a negative currentAmount", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), vacationGoal())
		require.NoError(t, err)
		negative := -5.0

		// when
		_, err = service.Update(testCtx(), created.ID, Patch{CurrentAmount: &negative})

		// then
		assert.ErrorIs(t, err, ErrInvalidCurrent)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	repo := NewRepoStub()
	service := NewService(repo)

	t.Run("should delete an owned goal", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), vacationGoal())
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
