// Package sqlite implements the user persistence port on an embedded SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/jsamuelsen11/user-registry/internal/domain"
	"github.com/jsamuelsen11/user-registry/internal/domain/user"
	"github.com/jsamuelsen11/user-registry/internal/platform/config"
	"github.com/jsamuelsen11/user-registry/internal/ports"
)

// Compile-time interface check.
var _ ports.UserStore = (*Store)(nil)

// Store implements ports.UserStore backed by SQLite.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
	logger       *slog.Logger
}

// New opens (or creates) the SQLite database at the configured DSN and runs
// the schema migration. WAL mode keeps readers unblocked during writes.
func New(cfg config.StoreConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("sqlite3", cfg.DSN+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating users table: %w", err)
	}

	return &Store{
		db:           db,
		queryTimeout: cfg.QueryTimeout,
		logger:       logger,
	}, nil
}

func migrate(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
`
	_, err := db.Exec(ddl)
	return err
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create persists a new user with a generated UUID primary key.
func (s *Store) Create(ctx context.Context, u *user.User) (*user.User, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	stored := *u
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, stored.ID, stored.Name, stored.Email, formatTime(stored.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email %s already registered: %w", u.Email, domain.ErrConflict)
		}
		return nil, fmt.Errorf("%w: inserting user: %w", domain.ErrConnectivity, err)
	}

	return &stored, nil
}

// GetByID returns a single user by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*user.User, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	const q = `SELECT id, name, email, created_at FROM users WHERE id = ?`
	u, err := scanUser(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: selecting user %s: %w", domain.ErrConnectivity, id, err)
	}
	return u, nil
}

// GetByEmail returns a single user by email address.
func (s *Store) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	const q = `SELECT id, name, email, created_at FROM users WHERE email = ?`
	u, err := scanUser(s.db.QueryRowContext(ctx, q, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("email %s: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: selecting user by email: %w", domain.ErrConnectivity, err)
	}
	return u, nil
}

// List returns all users ordered by creation time.
func (s *Store) List(ctx context.Context) ([]user.User, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	const q = `SELECT id, name, email, created_at FROM users ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: listing users: %w", domain.ErrConnectivity, err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning user row: %w", domain.ErrConnectivity, err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating user rows: %w", domain.ErrConnectivity, err)
	}
	return users, nil
}

// Delete removes a user by primary key.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	const q = `DELETE FROM users WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("%w: deleting user %s: %w", domain.ErrConnectivity, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: reading affected rows: %w", domain.ErrConnectivity, err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Count returns the total number of users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting users: %w", domain.ErrConnectivity, err)
	}
	return count, nil
}

// Ping verifies the database file is reachable and writable connections can
// be established.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: pinging sqlite db: %w", domain.ErrConnectivity, err)
	}
	return nil
}

// bound applies the configured per-query timeout when one is set.
func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	var created string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &created); err != nil {
		return nil, err
	}

	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure from
// the sqlite3 driver.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
}
