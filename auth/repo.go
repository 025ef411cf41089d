package auth

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-todo-client/users"
)

// API is the part of the remote API the session needs. Profile calls return raw
// JSON so it can be merged over the cached user.
type API interface {
	Login(ctx context.Context, email, password string) ([]byte, error)
	Signup(ctx context.Context, reg users.Registration) error
	Me(ctx context.Context) ([]byte, error)
	UpdateMe(ctx context.Context, changes users.ProfileChanges) ([]byte, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	UseAuth(ts oauth2.TokenSource, onRejected func(token string))
}
