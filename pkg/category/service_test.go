package category

import (
	"context"
	"testing"

	"github.com/finbook/finbook/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

func testCtx() context.Context {
	return user.WithID(context.Background(), testUserID)
}

func groceries() Category {
	return Category{
		Name:  "Groceries",
		Type:  TypeExpense,
		Color: "#ff8800",
		Icon:  "🛒",
	}
}

func TestServiceImpl_Create(t *testing.T) {
	repo := NewRepoStub()
	service := NewService(repo)

	t.Run("should create a user category", func(t *testing.T) {
		defer repo.Cleanup()
		// when
		created, err := service.Create(testCtx(), groceries())

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.IsDefault)
		assert.Equal(t, testUserID, created.UserID)
	})

	t.Run("should reject a name colliding with a default of the same type", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		repo.SeedDefault("Groceries", TypeExpense)

		// when
		_, err := service.Create(testCtx(), groceries())

		// then
		assert.ErrorIs(t, err, ErrNameTaken)
	})

	t.Run("should allow the same name on the other type", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		repo.SeedDefault("Groceries", TypeIncome)

		// when
		_, err := service.Create(testCtx(), groceries())

		// then
		assert.NoError(t, err)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	repo := NewRepoStub()
	service := NewService(repo)

	t.Run("should update an owned category", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), groceries())
		require.NoError(t, err)
		newName := "Food shopping"

		// when
		updated, err := service.Update(testCtx(), created.ID, Patch{Name: &newName})

		// then
		require.NoError(t, err)
		assert.Equal(t, "Food shopping", updated.Name)
	})

	t.Run("should refuse to update a default category", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		def := repo.SeedDefault("Salary", TypeIncome)
		newName := "Wages"

		// when
		_, err := service.Update(testCtx(), def.ID, Patch{Name: &newName})

		// then
		assert.ErrorIs(t, err, ErrDefaultImmutable)
	})

	t.Run("should reject a rename onto an existing name", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		_, err := service.Create(testCtx(), groceries())
		require.NoError(t, err)
		other, err := service.Create(testCtx(), Category{Name: "Eating out", Type: TypeExpense, Color: "#00ff00", Icon: "🍜"})
		require.NoError(t, err)
		collision := "groceries"

		// when
		_, err = service.Update(testCtx(), other.ID, Patch{Name: &collision})

		// then
		assert.ErrorIs(t, err, ErrNameTaken)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	repo := NewRepoStub()
	service := NewService(repo)

	t.Run("should delete an unreferenced category", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), groceries())
		require.NoError(t, err)

		// when
		err = service.Delete(testCtx(), created.ID)

		// then
		require.NoError(t, err)
		_, err = service.Get(testCtx(), created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("should refuse to delete a referenced category", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), groceries())
		require.NoError(t, err)
		repo.TxCounts[created.ID] = 3

		// when
		err = service.Delete(testCtx(), created.ID)

		// then
		assert.ErrorIs(t, err, ErrCategoryInUse)
		_, getErr := service.Get(testCtx(), created.ID)
		assert.NoError(t, getErr)
	})

	t.Run("should refuse to delete a default category", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		def := repo.SeedDefault("Salary", TypeIncome)

		// when
		err := service.Delete(testCtx(), def.ID)

		// then
		assert.ErrorIs(t, err, ErrDefaultImmutable)
	})

	t.Run("should return not found for another user's category", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.Create(testCtx(), groceries())
		require.NoError(t, err)
		otherCtx := user.WithID(context.Background(), "22222222-2222-2222-2222-222222222222")

		// when
		err = service.Delete(otherCtx, created.ID)

		// then
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestServiceImpl_GetByType(t *testing.T) {
	repo := NewRepoStub()
	service := NewService(repo)

	t.Run("should mix defaults and own categories of the requested type", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		repo.SeedDefault("Salary", TypeIncome)
		repo.SeedDefault("Shopping", TypeExpense)
		_, err := service.Create(testCtx(), groceries())
		require.NoError(t, err)

		// when
		expenses, err := service.GetByType(testCtx(), TypeExpense)

		// then
		require.NoError(t, err)
		assert.Len(t, expenses, 2)
	})
}
