package server

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
)

// RequireAuth is middleware that validates a Bearer access token and injects the
// user id into the request context.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
				writeDetail(w, http.StatusUnauthorized, "Invalid Authorization header format.")
				return
			}

			rawToken := strings.TrimSpace(parts[1])
			claims, err := s.inspector.Verify(rawToken)
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, "Given token not valid for any token type")
				return
			}
			if _, err := s.repos.Accounts.GetByID(claims.UserID); err != nil {
				writeDetail(w, http.StatusUnauthorized, "User not found")
				return
			}

			next(w, r.WithContext(context.WithValue(r.Context(), ContextKeyUserID, claims.UserID)))
		}
	}
}

func userIDFrom(ctx context.Context) int {
	id, _ := ctx.Value(ContextKeyUserID).(int)
	return id
}
