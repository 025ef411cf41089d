package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-todo-client/sessions"
)

const selectEntry = "SELECT value, sealed FROM session_entries WHERE key = ?"

// ErrSealed is returned when a sealed value is read without the seal key.
var ErrSealed = errors.New("value is sealed and no seal key is configured")

type entryEntity struct {
	Key       string
	Value     string
	Sealed    bool
	UpdatedAt int64
}

// Store keeps session entries in a single key/value table.
type Store struct {
	db     *sql.DB
	sealer *sealer
	l      zerolog.Logger
}

var _ sessions.Store = (*Store)(nil)

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var e entryEntity
	if err := s.db.QueryRowContext(ctx, selectEntry, key).Scan(&e.Value, &e.Sealed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sessions.ErrNotFound
		}
		return "", err
	}
	if !e.Sealed {
		return e.Value, nil
	}
	if s.sealer == nil {
		return "", ErrSealed
	}
	plain, err := s.sealer.open(e.Value)
	if err != nil {
		return "", fmt.Errorf("open %q: %w", key, err)
	}
	return plain, nil
}

func (s *Store) Set(ctx context.Context, entries map[string]string) error {
	now := time.Now().Unix()
	return s.withinTransaction(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO session_entries (key, value, sealed, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, sealed = excluded.sealed, updated_at = excluded.updated_at`
		for k, v := range entries {
			e, err := s.mapToEntity(k, v, now)
			if err != nil {
				return err
			}
			s.l.Debug().Str("key", k).Bool("sealed", e.Sealed).Msg("storing session entry")
			if _, err := tx.ExecContext(ctx, query, e.Key, e.Value, e.Sealed, e.UpdatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		args = append(args, k)
	}
	query := "DELETE FROM session_entries WHERE key IN " + generateParameters(len(keys))
	s.l.Debug().Strs("keys", keys).Msg("deleting session entries")
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *Store) mapToEntity(key, value string, now int64) (entryEntity, error) {
	e := entryEntity{Key: key, Value: value, UpdatedAt: now}
	if s.sealer != nil {
		sealed, err := s.sealer.seal(value)
		if err != nil {
			return entryEntity{}, fmt.Errorf("seal %q: %w", key, err)
		}
		e.Value = sealed
		e.Sealed = true
	}
	return e, nil
}

func (s *Store) withinTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
