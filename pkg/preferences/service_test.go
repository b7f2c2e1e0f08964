package preferences

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

func TestServiceImpl_Get(t *testing.T) {
	repo := NewRepoStub()
	service := NewService(repo)

	t.Run("should create defaults on first read", func(t *testing.T) {
		defer repo.Cleanup()
		// when
		p, err := service.Get(testCtx())

		// then
		require.NoError(t, err)
		assert.Equal(t, CurrencyUSD, p.Currency)
		assert.Equal(t, ThemeLight, p.Theme)
	})

	t.Run("should return the same row on repeated reads", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		first, err := service.Get(testCtx())
		require.NoError(t, err)

		// when
		second, err := service.Get(testCtx())

		// then
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	repo := NewRepoStub()
	service := NewService(repo)

	t.Run("should update only the provided fields", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		theme := ThemeDark

		// when
		updated, err := service.Update(testCtx(), Patch{Theme: &theme})

		// then
		require.NoError(t, err)
		assert.Equal(t, ThemeDark, updated.Theme)
		assert.Equal(t, CurrencyUSD, updated.Currency)
	})

	t.Run("should reject an unknown currency", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		currency := Currency("BTC")

		// when
		_, err := service.Update(testCtx(), Patch{Currency: &currency})

		// then
		assert.ErrorIs(t, err, ErrInvalidCurrency)
	})

	t.Run("should reject an unknown theme", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		theme := Theme("solarized")

		// when
		_, err := service.Update(testCtx(), Patch{Theme: &theme})

		// then
		assert.ErrorIs(t, err, ErrInvalidTheme)
	})
}
