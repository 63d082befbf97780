// Package localstate persists the small amount of desk state that survives
// restarts: the session token, cached user info and the theme preference.
package localstate

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // sqlite driver for database/sql

	"github.com/heartmarshall/translation-desk/internal/config"
	"github.com/heartmarshall/translation-desk/internal/domain"
)

// Fixed keys of the persisted state.
const (
	KeyAuthToken = "auth_token"
	KeyUserInfo  = "user_info"
	KeyTheme     = "theme"
)

const (
	table        = "kv_state"
	DefaultTheme = "light"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a key/value table on SQLite (default) or PostgreSQL.
type Store struct {
	db  *sql.DB
	sb  squirrel.StatementBuilderType
	log *slog.Logger
}

// PersistedSession is what survives a restart of an authenticated desk.
type PersistedSession struct {
	Token string
	User  *domain.User
}

// Open connects to the configured database and applies migrations.
func Open(ctx context.Context, cfg config.StateConfig, logger *slog.Logger) (*Store, error) {
	var (
		driver  string
		dialect goose.Dialect
		ph      squirrel.PlaceholderFormat
	)
	switch cfg.Driver {
	case "postgres":
		driver, dialect, ph = "pgx", goose.DialectPostgres, squirrel.Dollar
	case "sqlite":
		driver, dialect, ph = "sqlite", goose.DialectSQLite3, squirrel.Question
	default:
		return nil, fmt.Errorf("localstate: unsupported driver %q", cfg.Driver)
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("localstate: open: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// A single connection keeps writes serialized and :memory: coherent.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("localstate: ping: %w", err)
	}

	if err := migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		sb:  squirrel.StatementBuilder.PlaceholderFormat(ph),
		log: logger.With("adapter", "localstate"),
	}, nil
}

func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("localstate: migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("localstate: goose new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("localstate: goose up: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("localstate: ping: %w", err)
	}
	return nil
}

// Get returns the value stored under key or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	query, args, err := s.sb.Select("value").From(table).Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return "", fmt.Errorf("localstate: build get: %w", err)
	}

	var value string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("localstate: get %s: %w", key, err)
	}
	return value, nil
}

// Put upserts key.
func (s *Store) Put(ctx context.Context, key, value string) error {
	return s.put(ctx, s.db, key, value)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) put(ctx context.Context, ex execer, key, value string) error {
	query, args, err := s.sb.Insert(table).
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("localstate: build put: %w", err)
	}
	if _, err := ex.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("localstate: put %s: %w", key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := s.sb.Delete(table).Where(squirrel.Eq{"key": keys}).ToSql()
	if err != nil {
		return fmt.Errorf("localstate: build delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("localstate: delete: %w", err)
	}
	return nil
}

// SaveSession stores the token and user info atomically.
func (s *Store) SaveSession(ctx context.Context, token string, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("localstate: encode user: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("localstate: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.put(ctx, tx, KeyAuthToken, token); err != nil {
		return err
	}
	if err := s.put(ctx, tx, KeyUserInfo, string(raw)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("localstate: commit: %w", err)
	}
	return nil
}

// LoadSession returns the persisted session, or nil when none is stored.
// A token with unreadable user info is returned with a nil User.
func (s *Store) LoadSession(ctx context.Context) (*PersistedSession, error) {
	token, err := s.Get(ctx, KeyAuthToken)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ps := &PersistedSession{Token: token}

	raw, err := s.Get(ctx, KeyUserInfo)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		var u domain.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			s.log.WarnContext(ctx, "discarding unreadable user info", slog.String("error", err.Error()))
		} else {
			ps.User = &u
		}
	}
	return ps, nil
}

// ClearSession removes the token and user info.
func (s *Store) ClearSession(ctx context.Context) error {
	return s.Delete(ctx, KeyAuthToken, KeyUserInfo)
}

func (s *Store) SaveTheme(ctx context.Context, theme string) error {
	return s.Put(ctx, KeyTheme, theme)
}

// LoadTheme returns the stored theme or DefaultTheme.
func (s *Store) LoadTheme(ctx context.Context) (string, error) {
	theme, err := s.Get(ctx, KeyTheme)
	if errors.Is(err, domain.ErrNotFound) {
		return DefaultTheme, nil
	}
	return theme, err
}
