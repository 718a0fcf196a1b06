// Package surreal implements the user persistence port on SurrealDB over a
// WebSocket connection with the surrealcbor codec.
package surreal

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/jsamuelsen11/user-registry/internal/domain"
	"github.com/jsamuelsen11/user-registry/internal/domain/user"
	"github.com/jsamuelsen11/user-registry/internal/platform/config"
	"github.com/jsamuelsen11/user-registry/internal/ports"
)

// Compile-time interface check.
var _ ports.UserStore = (*Store)(nil)

const usersTable = "users"

// userRecord is the persisted shape of a user. The surrealcbor codec maps
// RecordIDs and time.Time to SurrealDB's native types.
type userRecord struct {
	ID        *models.RecordID `json:"id,omitempty"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	CreatedAt time.Time        `json:"created_at"`
}

// Store implements ports.UserStore backed by SurrealDB.
type Store struct {
	db           *surrealdb.DB
	queryTimeout time.Duration
	logger       *slog.Logger
}

// New connects to SurrealDB, selects the configured namespace and database,
// and ensures the unique email index exists.
func New(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing surrealdb url: %w", err)
	}

	conf := connection.NewConfig(u)

	// The surrealcbor codec handles time.Time and RecordID marshaling; the
	// default codec produces formats SurrealDB rejects.
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	db, err := surrealdb.FromConnection(ctx, gorillaws.New(conf))
	if err != nil {
		return nil, fmt.Errorf("connecting to surrealdb: %w", err)
	}

	if cfg.Username != "" && cfg.Password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": cfg.Username,
			"pass": cfg.Password,
		}); err != nil {
			return nil, fmt.Errorf("authenticating with surrealdb: %w", err)
		}
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		return nil, fmt.Errorf("selecting namespace %s database %s: %w", cfg.Namespace, cfg.Database, err)
	}

	s := &Store{
		db:           db,
		queryTimeout: cfg.QueryTimeout,
		logger:       logger,
	}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrating surrealdb schema: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	const ddl = `DEFINE INDEX IF NOT EXISTS unique_email ON TABLE users FIELDS email UNIQUE;`
	_, err := surrealdb.Query[any](ctx, s.db, ddl, nil)
	return err
}

// Close terminates the underlying WebSocket connection.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close(ctx)
}

// Create persists a new user with a generated UUID record key.
func (s *Store) Create(ctx context.Context, u *user.User) (*user.User, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	rid := models.NewRecordID(usersTable, uuid.NewString())
	rec := userRecord{
		ID:        &rid,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: time.Now().UTC(),
	}

	created, err := surrealdb.Create[userRecord](ctx, s.db, rid, rec)
	if err != nil {
		if isUniqueIndexViolation(err) {
			return nil, fmt.Errorf("email %s already registered: %w", u.Email, domain.ErrConflict)
		}
		return nil, fmt.Errorf("%w: creating user: %w", domain.ErrConnectivity, err)
	}

	return toDomain(created), nil
}

// GetByID returns a single user by record key.
func (s *Store) GetByID(ctx context.Context, id string) (*user.User, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	rec, err := surrealdb.Select[userRecord](ctx, s.db, models.NewRecordID(usersTable, id))
	if err != nil {
		return nil, fmt.Errorf("%w: selecting user %s: %w", domain.ErrConnectivity, id, err)
	}
	// The surrealcbor codec returns nil for a non-existent record.
	if rec == nil || rec.ID == nil {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	return toDomain(rec), nil
}

// GetByEmail returns a single user by email address.
func (s *Store) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := surrealdb.Query[[]userRecord](ctx, s.db,
		"SELECT * FROM users WHERE email = $email LIMIT 1",
		map[string]any{"email": email},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying user by email: %w", domain.ErrConnectivity, err)
	}
	if res == nil || len(*res) == 0 || len((*res)[0].Result) == 0 {
		return nil, fmt.Errorf("email %s: %w", email, domain.ErrNotFound)
	}

	return toDomain(&(*res)[0].Result[0]), nil
}

// List returns all users ordered by creation time.
func (s *Store) List(ctx context.Context) ([]user.User, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := surrealdb.Query[[]userRecord](ctx, s.db,
		"SELECT * FROM users ORDER BY created_at",
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: listing users: %w", domain.ErrConnectivity, err)
	}

	users := make([]user.User, 0)
	if res != nil && len(*res) > 0 {
		for i := range (*res)[0].Result {
			users = append(users, *toDomain(&(*res)[0].Result[i]))
		}
	}
	return users, nil
}

// Delete removes a user by record key.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	rid := models.NewRecordID(usersTable, id)

	existing, err := surrealdb.Select[userRecord](ctx, s.db, rid)
	if err != nil {
		return fmt.Errorf("%w: selecting user %s: %w", domain.ErrConnectivity, id, err)
	}
	if existing == nil || existing.ID == nil {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	if _, err := surrealdb.Delete[userRecord](ctx, s.db, rid); err != nil {
		return fmt.Errorf("%w: deleting user %s: %w", domain.ErrConnectivity, id, err)
	}
	return nil
}

// Count returns the total number of users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	type countResult struct {
		C int64 `json:"c"`
	}

	res, err := surrealdb.Query[[]countResult](ctx, s.db,
		"SELECT count() AS c FROM users GROUP ALL",
		nil,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: counting users: %w", domain.ErrConnectivity, err)
	}
	if res == nil || len(*res) == 0 || len((*res)[0].Result) == 0 {
		// An empty table yields no GROUP ALL row.
		return 0, nil
	}
	return (*res)[0].Result[0].C, nil
}

// Ping runs the cheapest possible round trip to verify the connection.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := surrealdb.Query[int](ctx, s.db, "RETURN 1", nil); err != nil {
		return fmt.Errorf("%w: pinging surrealdb: %w", domain.ErrConnectivity, err)
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

func toDomain(rec *userRecord) *user.User {
	u := &user.User{
		Name:      rec.Name,
		Email:     rec.Email,
		CreatedAt: rec.CreatedAt,
	}
	if rec.ID != nil {
		u.ID = fmt.Sprintf("%v", rec.ID.ID)
	}
	return u
}

// isUniqueIndexViolation matches the error SurrealDB raises when the
// unique_email index rejects a duplicate.
func isUniqueIndexViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "unique_email")
}
