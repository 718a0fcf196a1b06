// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen11/user-registry/internal/domain/user"
	"github.com/jsamuelsen11/user-registry/internal/platform/availability"
	"github.com/jsamuelsen11/user-registry/internal/platform/telemetry"
	"github.com/jsamuelsen11/user-registry/internal/ports"
)

// Compile-time check that UserService implements ports.UserService.
var _ ports.UserService = (*UserService)(nil)

// UserService implements ports.UserService by orchestrating calls to the
// persistence layer through the UserStore port. Every store call runs through
// the availability guard, so a datastore believed to be down is rejected
// immediately with domain.ErrUnavailable instead of paying connection
// latency per request.
type UserService struct {
	store   ports.UserStore
	guard   *availability.Guard
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewUserService creates a UserService. The store port provides persistence,
// the guard applies the degraded-mode policy, and metrics may be nil when
// telemetry is disabled.
func NewUserService(store ports.UserStore, guard *availability.Guard, metrics *telemetry.Metrics, logger *slog.Logger) *UserService {
	return &UserService{
		store:   store,
		guard:   guard,
		metrics: metrics,
		logger:  logger,
	}
}

// Register validates and persists a new user. Validation runs before the
// guard so malformed input is rejected even while the datastore is down.
func (s *UserService) Register(ctx context.Context, u *user.User) (*user.User, error) {
	s.logger.InfoContext(ctx, "registering user", slog.String("email", u.Email))

	if err := u.Validate(); err != nil {
		return nil, err
	}

	created, err := availability.Do(ctx, s.guard, "Register",
		func(ctx context.Context) (*user.User, error) {
			return s.store.Create(ctx, u)
		})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to register user",
			slog.String("operation", "Register"),
			slog.Any("error", err),
		)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.UserRegistrations.Add(ctx, 1)
	}

	return created, nil
}

// List returns all registered users.
func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	s.logger.InfoContext(ctx, "listing users")

	users, err := availability.Do(ctx, s.guard, "List",
		func(ctx context.Context) ([]user.User, error) {
			return s.store.List(ctx)
		})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list users",
			slog.String("operation", "List"),
			slog.Any("error", err),
		)
		return nil, err
	}

	return users, nil
}

// GetByID returns a single user by ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	s.logger.InfoContext(ctx, "fetching user", slog.String("id", id))

	u, err := availability.Do(ctx, s.guard, "GetByID",
		func(ctx context.Context) (*user.User, error) {
			return s.store.GetByID(ctx, id)
		})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch user",
			slog.String("operation", "GetByID"),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return u, nil
}

// GetByEmail returns a single user by email address.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.logger.InfoContext(ctx, "fetching user by email")

	u, err := availability.Do(ctx, s.guard, "GetByEmail",
		func(ctx context.Context) (*user.User, error) {
			return s.store.GetByEmail(ctx, email)
		})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch user by email",
			slog.String("operation", "GetByEmail"),
			slog.Any("error", err),
		)
		return nil, err
	}

	return u, nil
}

// Delete removes a user by ID.
func (s *UserService) Delete(ctx context.Context, id string) error {
	s.logger.InfoContext(ctx, "deleting user", slog.String("id", id))

	err := availability.DoErr(ctx, s.guard, "Delete",
		func(ctx context.Context) error {
			return s.store.Delete(ctx, id)
		})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete user",
			slog.String("operation", "Delete"),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return err
	}

	if s.metrics != nil {
		s.metrics.UserDeletions.Add(ctx, 1)
	}

	return nil
}

// Count returns the total number of registered users.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	count, err := availability.Do(ctx, s.guard, "Count",
		func(ctx context.Context) (int64, error) {
			return s.store.Count(ctx)
		})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to count users",
			slog.String("operation", "Count"),
			slog.Any("error", err),
		)
		return 0, err
	}

	return count, nil
}
