package availability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jsamuelsen11/user-registry/internal/domain"
)

// Guard is the policy applied at the boundary of every datastore-touching
// operation: consult the tracker first, fail fast when down, and classify
// failures so connectivity errors update the tracker while domain errors
// pass through untouched.
type Guard struct {
	tracker *Tracker
	logger  *slog.Logger
}

// NewGuard creates a Guard around the given tracker.
func NewGuard(tracker *Tracker, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Guard{tracker: tracker, logger: logger}
}

// Tracker exposes the guarded tracker for status displays.
func (g *Guard) Tracker() *Tracker {
	return g.tracker
}

// Do runs op under the guard policy:
//
//   - Tracker down: return domain.ErrUnavailable immediately; op is never
//     invoked and no datastore latency is paid.
//   - op fails with a connectivity-class error: mark the tracker down, log
//     the underlying cause, and return domain.ErrUnavailable.
//   - op fails with a domain-class error (conflict, not found, validation):
//     return it unchanged; a business-rule violation is not evidence the
//     datastore is unreachable.
//   - op succeeds: report success opportunistically, shortening recovery
//     detection between prober ticks. Safe to race with the prober's own
//     reports.
func Do[T any](ctx context.Context, g *Guard, operation string, op func(context.Context) (T, error)) (T, error) {
	var zero T

	if !g.tracker.IsUp() {
		return zero, domain.ErrUnavailable
	}

	result, err := op(ctx)
	if err != nil {
		if IsConnectivityError(err) {
			g.tracker.ReportFailure()
			g.logger.WarnContext(ctx, "datastore operation failed, marking unavailable",
				slog.String("operation", operation),
				slog.Any("error", err),
			)
			return zero, domain.ErrUnavailable
		}
		return zero, err
	}

	g.tracker.ReportSuccess()
	return result, nil
}

// DoErr is Do for operations that return no result.
func DoErr(ctx context.Context, g *Guard, operation string, op func(context.Context) error) error {
	_, err := Do(ctx, g, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// IsConnectivityError reports whether err indicates the datastore itself is
// unreachable, as opposed to a valid response describing a business-rule
// violation. Deadline expiry on a store call counts as connectivity: a
// datastore that cannot answer in time is indistinguishable from one that is
// down.
func IsConnectivityError(err error) bool {
	return errors.Is(err, domain.ErrConnectivity) ||
		errors.Is(err, context.DeadlineExceeded)
}
