package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tentennnn/anachaktopup/internal/auth"
)

func TestAttemptLogin(t *testing.T) {
	t.Run("CorrectPassword", func(t *testing.T) {
		guard := auth.NewGuard("abc")
		require.NoError(t, guard.AttemptLogin("abc"))
		assert.True(t, guard.Authenticated())
	})

	t.Run("IncorrectPassword", func(t *testing.T) {
		guard := auth.NewGuard("abc")
		err := guard.AttemptLogin("xyz")
		require.ErrorIs(t, err, auth.ErrIncorrectPassword)
		assert.False(t, guard.Authenticated())
	})

	t.Run("NoSecretConfigured", func(t *testing.T) {
		guard := auth.NewGuard("")
		err := guard.AttemptLogin("anything")
		require.ErrorIs(t, err, auth.ErrNotConfigured)
		assert.False(t, guard.Authenticated())
	})

	t.Run("FailedAttemptDoesNotClearSession", func(t *testing.T) {
		guard := auth.NewGuard("abc")
		require.NoError(t, guard.AttemptLogin("abc"))
		require.Error(t, guard.AttemptLogin("xyz"))
		assert.True(t, guard.Authenticated())
	})
}

func TestLogout(t *testing.T) {
	guard := auth.NewGuard("abc")
	require.NoError(t, guard.AttemptLogin("abc"))

	guard.Logout()
	assert.False(t, guard.Authenticated())

	// Logging out while unauthenticated is a safe no-op.
	guard.Logout()
	assert.False(t, guard.Authenticated())
}
