package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-todo-client/auth"
	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"token", `{"token": "t"}`, "t"},
		{"access_token", `{"access_token": "at"}`, "at"},
		{"access", `{"access": "a", "refresh": "r"}`, "a"},
		{"token wins", `{"access": "a", "access_token": "at", "token": "t"}`, "t"},
		{"access_token over access", `{"access": "a", "access_token": "at"}`, "at"},
		{"empty token falls through", `{"token": " ", "access": "a"}`, "a"},
		{"non string falls through", `{"token": 42, "access": "a"}`, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.ExtractToken([]byte(tt.body))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("no token", func(t *testing.T) {
		for _, body := range []string{`{}`, `{"refresh": "r"}`, `[]`, `not json`} {
			_, err := auth.ExtractToken([]byte(body))
			require.ErrorIs(t, err, apperrors.ErrAuthentication, body)
		}
	})
}
