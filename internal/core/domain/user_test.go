package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("Success: Email is trimmed and lowercased", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser("123", "  Test.User@Gmail.COM  ")

		require.NoError(t, err)
		assert.Equal(t, "test.user@gmail.com", user.Email)
		assert.Equal(t, "123", user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("Fail: Invalid email", func(t *testing.T) {
		t.Parallel()

		_, err := NewUser("123", "invalid-email-format")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})
}

func TestUserPassword(t *testing.T) {
	t.Parallel()

	t.Run("Success: Password is hashed and timestamp bumped", func(t *testing.T) {
		t.Parallel()

		user, _ := NewUser("123", "test@test.com")
		before := user.UpdatedAt
		time.Sleep(time.Millisecond)

		require.NoError(t, user.SetPassword("superSecret123"))

		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "superSecret123", user.PasswordHash)
		assert.True(t, user.UpdatedAt.After(before))
	})

	t.Run("Fail: Password too short", func(t *testing.T) {
		t.Parallel()

		user, _ := NewUser("123", "test@test.com")
		assert.ErrorIs(t, user.SetPassword("short"), ErrPasswordTooShort)
	})

	t.Run("CheckPassword maps mismatches to invalid credentials", func(t *testing.T) {
		t.Parallel()

		user, _ := NewUser("123", "test@test.com")
		require.NoError(t, user.SetPassword("correctPassword"))

		assert.NoError(t, user.CheckPassword("correctPassword"))
		assert.ErrorIs(t, user.CheckPassword("wrongPassword"), ErrInvalidCredentials)
	})
}
