package auth

import (
	"context"
	"testing"

	"github.com/finbook/finbook/internal/config"
	"github.com/finbook/finbook/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(repo user.Repo) *ServiceImpl {
	return NewService(repo, config.Auth{
		JwtSecret:     "test-secret",
		TokenTTLHours: 1,
	})
}

func TestServiceImpl_Register(t *testing.T) {
	repo := user.NewRepoStub()
	service := newTestService(repo)
	ctx := context.Background()

	t.Run("should register a user and issue a usable token", func(t *testing.T) {
		defer repo.Cleanup()
		// when
		u, token, err := service.Register(ctx, "ada@example.com", "s3cret!", "Ada", "Lovelace")

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "ada@example.com", u.Email)

		subject, err := service.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, u.ID, subject)
	})

	t.Run("should reject a duplicate email", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		_, _, err := service.Register(ctx, "ada@example.com", "s3cret!", "Ada", "Lovelace")
		require.NoError(t, err)

		// when
		_, _, err = service.Register(ctx, "ada@example.com", "other", "Ada", "Byron")

		// then
		assert.ErrorIs(t, err, user.ErrEmailTaken)
	})
}

func TestServiceImpl_Login(t *testing.T) {
	repo := user.NewRepoStub()
	service := newTestService(repo)
	ctx := context.Background()

	t.Run("should log in with the registered password", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		registered, _, err := service.Register(ctx, "ada@example.com", "s3cret!", "Ada", "Lovelace")
		require.NoError(t, err)

		// when
		u, token, err := service.Login(ctx, "ada@example.com", "s3cret!")

		// then
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		_, _, err := service.Register(ctx, "ada@example.com", "s3cret!", "Ada", "Lovelace")
		require.NoError(t, err)

		// when
		_, _, err = service.Login(ctx, "ada@example.com", "wrong")

		// then
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("should reject an unknown email", func(t *testing.T) {
		defer repo.Cleanup()
		// when
		_, _, err := service.Login(ctx, "nobody@example.com", "whatever")

		// then
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestServiceImpl_PasswordReset(t *testing.T) {
	repo := user.NewRepoStub()
	service := newTestService(repo)
	ctx := context.Background()

	t.Run("should reset the password with a valid token", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		_, _, err := service.Register(ctx, "ada@example.com", "s3cret!", "Ada", "Lovelace")
		require.NoError(t, err)
		token, err := service.RequestPasswordReset(ctx, "ada@example.com")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		// when
		err = service.ResetPassword(ctx, token, "n3w-pass")

		// then
		require.NoError(t, err)
		_, _, err = service.Login(ctx, "ada@example.com", "n3w-pass")
		assert.NoError(t, err)
		_, _, err = service.Login(ctx, "ada@example.com", "s3cret!")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("should not accept the same token twice", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		_, _, err := service.Register(ctx, "ada@example.com", "s3cret!", "Ada", "Lovelace")
		require.NoError(t, err)
		token, err := service.RequestPasswordReset(ctx, "ada@example.com")
		require.NoError(t, err)
		require.NoError(t, service.ResetPassword(ctx, token, "n3w-pass"))

		// when
		err = service.ResetPassword(ctx, token, "another")

		// then
		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("should report unknown emails", func(t *testing.T) {
		defer repo.Cleanup()
		// when
		_, err := service.RequestPasswordReset(ctx, "nobody@example.com")

		// then
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}

func TestServiceImpl_ValidateAccessToken(t *testing.T) {
	repo := user.NewRepoStub()
	service := newTestService(repo)

	t.Run("should reject garbage tokens", func(t *testing.T) {
		// when
		_, err := service.ValidateAccessToken("not-a-jwt")

		// then
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should reject tokens signed with a different secret", func(t *testing.T) {
		// given
		other := NewService(repo, config.Auth{JwtSecret: "other-secret", TokenTTLHours: 1})
		token, err := other.signAccessToken("some-user")
		require.NoError(t, err)

		// when
		_, err = service.ValidateAccessToken(token)

		// then
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
