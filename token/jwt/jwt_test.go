package jwt_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-todo-client/token"
	"github.com/jrsteele09/go-todo-client/token/jwt"
	"github.com/jrsteele09/go-todo-client/token/keys"
)

const issuer = "Todo"

type testFixture struct {
	signer    *keys.HMACSigner
	creator   *jwt.Creator
	inspector *jwt.Inspector
	revoked   *token.RevocationList
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	signer, err := keys.NewHMACSigner("test-secret")
	require.NoError(t, err)
	revoked := token.NewRevocationList(time.Now)
	return &testFixture{
		signer:    signer,
		creator:   jwt.NewCreator(issuer, time.Hour, signer),
		inspector: jwt.NewInspector(issuer, signer, revoked),
		revoked:   revoked,
	}
}

func TestNewHMACSigner_RequiresSecret(t *testing.T) {
	_, err := keys.NewHMACSigner("")
	require.EqualError(t, err, "[NewHMACSigner] secret is required")
}

func TestHMACSigner_RejectsOtherMethods(t *testing.T) {
	f := setupTestFixture(t)
	_, err := f.signer.GetVerificationKey(jwtlib.New(jwtlib.SigningMethodRS256))
	require.EqualError(t, err, "unexpected signing method: RS256")
}

func TestCreateAccessToken_Verify(t *testing.T) {
	f := setupTestFixture(t)

	raw, err := f.creator.CreateAccessToken(42, "ada@example.com")
	require.NoError(t, err)

	claims, err := f.inspector.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, 42, claims.UserID)
	require.Equal(t, "ada@example.com", claims.Email)
	require.NotEmpty(t, claims.JTI)

	exp, ok := token.Expiry(raw)
	require.True(t, ok)
	require.True(t, exp.Equal(claims.ExpiresAt))
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	other, err := f.creator.CreateAccessToken(42, "ada@example.com")
	require.NoError(t, err)
	otherClaims, err := f.inspector.Verify(other)
	require.NoError(t, err)
	require.NotEqual(t, claims.JTI, otherClaims.JTI, "every token is unique")
}

func TestVerify_Rejects(t *testing.T) {
	f := setupTestFixture(t)
	raw, err := f.creator.CreateAccessToken(1, "ada@example.com")
	require.NoError(t, err)

	sign := func(claims jwtlib.MapClaims) string {
		s, err := f.signer.Sign(claims)
		require.NoError(t, err)
		return s
	}
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"other issuer", sign(jwtlib.MapClaims{"iss": "elsewhere", "sub": "1", "exp": future})},
		{"no exp", sign(jwtlib.MapClaims{"iss": issuer, "sub": "1"})},
		{"subject not a user id", sign(jwtlib.MapClaims{"iss": issuer, "sub": "ada", "exp": future})},
		{"unsigned", func() string {
			s, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.MapClaims{"iss": issuer, "sub": "1", "exp": future}).
				SignedString(jwtlib.UnsafeAllowNoneSignatureType)
			require.NoError(t, err)
			return s
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.inspector.Verify(tt.raw)
			require.ErrorIs(t, err, jwt.ErrInvalidToken)
			require.Equal(t, jwt.ErrInvalidToken, errors.Cause(err))
		})
	}

	t.Run("other secret", func(t *testing.T) {
		signer, err := keys.NewHMACSigner("another-secret")
		require.NoError(t, err)
		_, err = jwt.NewInspector(issuer, signer, nil).Verify(raw)
		require.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("revoked", func(t *testing.T) {
		claims, err := f.inspector.Verify(raw)
		require.NoError(t, err)
		require.NoError(t, f.revoked.Revoke(claims.JTI, claims.ExpiresAt))

		again, err := f.inspector.Verify(raw)
		require.ErrorIs(t, err, jwt.ErrRevokedToken)
		require.Equal(t, claims, again)
	})

	t.Run("expired", func(t *testing.T) {
		jwt.NowTimeFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		t.Cleanup(func() { jwt.NowTimeFunc = time.Now })

		old, err := f.creator.CreateAccessToken(1, "ada@example.com")
		require.NoError(t, err)
		jwt.NowTimeFunc = time.Now

		_, err = f.inspector.Verify(old)
		require.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
