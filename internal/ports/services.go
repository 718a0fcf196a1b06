package ports

import (
	"context"

	"github.com/jsamuelsen11/user-registry/internal/domain/user"
)

// UserService defines the service port for user registration operations.
// Implemented by the application layer; called by inbound adapters (handlers).
// Every datastore-touching method is guarded by the availability tracker:
// when the datastore is believed down, methods return domain.ErrUnavailable
// immediately without contacting the store.
type UserService interface {
	// Register validates and persists a new user, returning the created
	// entity with the store-assigned ID.
	// Returns domain.ErrValidation if the user fails validation.
	// Returns domain.ErrConflict if the email is already registered.
	Register(ctx context.Context, u *user.User) (*user.User, error)

	// List returns all registered users.
	List(ctx context.Context) ([]user.User, error)

	// GetByID returns a single user by ID.
	// Returns domain.ErrNotFound if the user does not exist.
	GetByID(ctx context.Context, id string) (*user.User, error)

	// GetByEmail returns a single user by email address.
	// Returns domain.ErrNotFound if no user has that email.
	GetByEmail(ctx context.Context, email string) (*user.User, error)

	// Delete removes a user by ID.
	// Returns domain.ErrNotFound if the user does not exist.
	Delete(ctx context.Context, id string) error

	// Count returns the total number of registered users.
	Count(ctx context.Context) (int64, error)
}
