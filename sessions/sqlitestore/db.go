// Package sqlitestore implements sessions.Store on a local SQLite file
package sqlitestore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MemoryPath opens a private in-memory database, mostly for tests.
const MemoryPath = ":memory:"

// Option configures a Store.
type Option func(*Store)

// WithSealKey seals stored values with a key derived from passphrase.
// An empty passphrase leaves values in plain text.
func WithSealKey(passphrase string) Option {
	return func(s *Store) {
		if passphrase != "" {
			s.sealer = newSealer(passphrase)
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.l = l
	}
}

// Open opens (creating when needed) the database at path and runs migrations.
func Open(path string, opts ...Option) (*Store, error) {
	if path != MemoryPath && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create data folder: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One connection: SQLite has a single writer and ":memory:" is per connection.
	conn.SetMaxOpenConns(1)

	s := &Store{
		db: conn,
		l:  log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	d, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", d)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func generateParameters(n int) string {
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("(?")
	for range n - 1 {
		sb.WriteString(",?")
	}

	sb.WriteString(")")
	return sb.String()
}
