package ports

import (
	"context"

	"github.com/jsamuelsen11/user-registry/internal/domain/user"
)

// UserStore defines the persistence port for user records. Implemented by the
// SurrealDB and SQLite adapters; called by the application layer through the
// guarded operation wrapper.
//
// Error classification contract: implementations wrap driver and transport
// failures (connection refused, timeouts, closed pools) in
// domain.ErrConnectivity so the availability layer can distinguish them from
// domain outcomes. Business-rule violations map to the matching domain
// sentinel (duplicate email -> domain.ErrConflict, missing row ->
// domain.ErrNotFound) and are never treated as connectivity signals.
type UserStore interface {
	// Create persists a new user and returns the stored entity with its
	// store-assigned ID and creation timestamp.
	Create(ctx context.Context, u *user.User) (*user.User, error)

	// GetByID returns a single user by ID.
	GetByID(ctx context.Context, id string) (*user.User, error)

	// GetByEmail returns a single user by email address.
	GetByEmail(ctx context.Context, email string) (*user.User, error)

	// List returns all users.
	List(ctx context.Context) ([]user.User, error)

	// Delete removes a user by ID.
	Delete(ctx context.Context, id string) error

	// Count returns the total number of users.
	Count(ctx context.Context) (int64, error)

	// Ping performs one cheap connectivity check against the datastore,
	// honoring the context deadline. It is the probe primitive used by the
	// availability prober and must not depend on tracker state.
	Ping(ctx context.Context) error
}
