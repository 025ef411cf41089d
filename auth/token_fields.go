package auth

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
)

// TokenFields lists the login response fields that may carry the bearer token,
// highest priority first.
var TokenFields = []string{"token", "access_token", "access"}

// ExtractToken returns the first non-empty string found under TokenFields.
func ExtractToken(loginResponse []byte) (string, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(loginResponse, &body); err != nil {
		return "", errors.Wrap(apperrors.ErrAuthentication, "login response is not an object")
	}
	for _, field := range TokenFields {
		raw, ok := body[field]
		if !ok {
			continue
		}
		var tok string
		if json.Unmarshal(raw, &tok) != nil {
			continue
		}
		if tok = strings.TrimSpace(tok); tok != "" {
			return tok, nil
		}
	}
	return "", errors.Wrap(apperrors.ErrAuthentication, "no token in login response")
}
