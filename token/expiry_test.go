package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-todo-client/token"
)

func signed(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return raw
}

func TestExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("jwt with exp", func(t *testing.T) {
		got, ok := token.Expiry(signed(t, jwtlib.MapClaims{"exp": exp.Unix()}))
		require.True(t, ok)
		require.True(t, exp.Equal(got))
	})

	t.Run("jwt without exp", func(t *testing.T) {
		_, ok := token.Expiry(signed(t, jwtlib.MapClaims{"sub": "1"}))
		require.False(t, ok)
	})

	t.Run("opaque", func(t *testing.T) {
		_, ok := token.Expiry("9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b")
		require.False(t, ok)
	})
}

func TestExpired(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	raw := signed(t, jwtlib.MapClaims{"exp": exp.Unix()})

	require.False(t, token.Expired(raw, exp.Add(-time.Second)))
	require.True(t, token.Expired(raw, exp))
	require.True(t, token.Expired(raw, exp.Add(time.Hour)))
	require.False(t, token.Expired("opaque", exp.Add(time.Hour)), "opaque tokens are left to the api")
}

func TestRevocationList(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := token.NewRevocationList(func() time.Time { return now })
	require.False(t, rl.IsRevoked("a"))

	require.ErrorIs(t, rl.Revoke("", now.Add(time.Hour)), token.ErrNoTokenID)
	require.NoError(t, rl.Revoke("a", now.Add(time.Hour)))
	require.NoError(t, rl.Revoke("b", now.Add(2*time.Hour)))
	require.NoError(t, rl.Revoke("gone", now.Add(-time.Minute)))
	require.True(t, rl.IsRevoked("a"))
	require.True(t, rl.IsRevoked("b"))
	require.False(t, rl.IsRevoked("gone"), "already expired tokens are not recorded")
	require.Equal(t, 2, rl.Len())

	now = now.Add(90 * time.Minute)
	require.False(t, rl.IsRevoked("a"), "entries end with the token")
	require.True(t, rl.IsRevoked("b"))
	require.Equal(t, 1, rl.Len())
}
