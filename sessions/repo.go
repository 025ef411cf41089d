package sessions

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get for keys that were never set or were deleted.
var ErrNotFound = errors.New("session key not found")

// Store defines durable client-side storage for the session.
// Values are opaque strings keyed by the fixed names below.
type Store interface {
	// Get returns the value stored under key
	Get(ctx context.Context, key string) (string, error)

	// Set writes all entries atomically
	Set(ctx context.Context, entries map[string]string) error

	// Delete removes the keys; missing keys are ignored
	Delete(ctx context.Context, keys ...string) error
}
