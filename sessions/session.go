// Package sessions persists the client session (bearer token and a cached user
// snapshot) between runs.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jrsteele09/go-todo-client/users"
)

// Fixed storage keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Snapshot is what survives a restart.
type Snapshot struct {
	Token string      // Bearer credential, empty when logged out
	User  *users.User // Last known profile, may be nil even with a token
}

// Load reads the persisted snapshot. Missing keys leave the fields empty; a corrupt
// user snapshot is dropped rather than failing the load.
func Load(ctx context.Context, store Store) (Snapshot, error) {
	var snap Snapshot
	token, err := store.Get(ctx, KeyToken)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Snapshot{}, fmt.Errorf("load token: %w", err)
	}
	snap.Token = token

	raw, err := store.Get(ctx, KeyUser)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Snapshot{}, fmt.Errorf("load user: %w", err)
	}
	if raw != "" {
		var u users.User
		if json.Unmarshal([]byte(raw), &u) == nil {
			snap.User = &u
		}
	}
	return snap, nil
}

// Save writes the token and, when present, the user snapshot in one call.
func Save(ctx context.Context, store Store, snap Snapshot) error {
	entries := map[string]string{KeyToken: snap.Token}
	if snap.User != nil {
		raw, err := json.Marshal(snap.User)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		entries[KeyUser] = string(raw)
	}
	return store.Set(ctx, entries)
}

// Clear forgets the whole session.
func Clear(ctx context.Context, store Store) error {
	return store.Delete(ctx, KeyToken, KeyUser)
}
