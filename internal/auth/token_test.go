package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/fivetwenty-io/tcapi/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		token    *auth.Token
		expected bool
	}{
		{
			name:     "nil token",
			token:    nil,
			expected: false,
		},
		{
			name:     "empty access token",
			token:    &auth.Token{AccessToken: ""},
			expected: false,
		},
		{
			name:     "valid token without expiry",
			token:    &auth.Token{AccessToken: "test-token"},
			expected: true,
		},
		{
			name: "valid token with future expiry",
			token: &auth.Token{
				AccessToken: "test-token",
				ExpiresAt:   time.Now().Add(1 * time.Hour),
			},
			expected: true,
		},
		{
			name: "expired token",
			token: &auth.Token{
				AccessToken: "test-token",
				ExpiresAt:   time.Now().Add(-1 * time.Hour),
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.token.Valid())
		})
	}
}

func TestStaticTokenManager(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns token", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewStaticTokenManager("abc", time.Time{})

		token, err := manager.GetToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "abc", token)
	})

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewStaticTokenManager("", time.Time{})

		_, err := manager.GetToken(ctx)
		require.ErrorIs(t, err, auth.ErrNoToken)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewStaticTokenManager("abc", time.Now().Add(-time.Minute))

		_, err := manager.GetToken(ctx)
		require.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("set token", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewStaticTokenManager("old", time.Time{})
		manager.SetToken("new", time.Now().Add(time.Hour))

		token, err := manager.GetToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "new", token)
	})
}
