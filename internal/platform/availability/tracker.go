package availability

import (
	"log/slog"
	"sync"
	"time"
)

// State is a point-in-time copy of the tracker's availability state.
type State struct {
	Up                  bool
	LastCheckedAt       time.Time
	LastTransitionAt    time.Time
	ConsecutiveFailures int
}

// TransitionFunc is notified on every up/down edge. Delivery is synchronous
// and best-effort: observers run outside the tracker's lock and must not
// block for long. Duplicate reports in the same direction do not re-notify.
type TransitionFunc func(up bool, state State)

// Tracker holds the last-known up/down state of the datastore connection.
// It never performs I/O; all knowledge comes from ReportSuccess/ReportFailure
// calls made by the prober and by guarded operations.
//
// The zero state is optimistic: a freshly constructed tracker reports up
// until a failed check proves otherwise, matching the behavior users see at
// process start before the first probe completes.
type Tracker struct {
	mu        sync.Mutex
	state     State
	observers []TransitionFunc

	// now is swappable for tests.
	now func() time.Time
}

// NewTracker creates a Tracker in the optimistic (up) state. Observers are
// notified on each up/down transition, in registration order.
func NewTracker(observers ...TransitionFunc) *Tracker {
	t := &Tracker{
		observers: observers,
		now:       time.Now,
	}
	t.state.Up = true
	t.state.LastTransitionAt = t.now()
	return t
}

// IsUp reports the cached availability state. It never blocks on I/O and is
// safe for any number of concurrent callers.
func (t *Tracker) IsUp() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Up
}

// Snapshot returns a copy of the full availability state for status displays.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// ReportSuccess records a completed successful check. Repeated success
// reports are idempotent: only a down->up edge notifies observers.
func (t *Tracker) ReportSuccess() {
	t.report(true)
}

// ReportFailure records a completed failed check and increments the
// consecutive failure counter. Repeated failure reports are idempotent:
// only an up->down edge notifies observers.
func (t *Tracker) ReportFailure() {
	t.report(false)
}

func (t *Tracker) report(up bool) {
	t.mu.Lock()

	now := t.now()
	transitioned := t.state.Up != up

	t.state.Up = up
	t.state.LastCheckedAt = now
	if transitioned {
		t.state.LastTransitionAt = now
	}
	if up {
		t.state.ConsecutiveFailures = 0
	} else {
		t.state.ConsecutiveFailures++
	}

	state := t.state
	observers := t.observers
	t.mu.Unlock()

	// Observers run outside the lock so a slow observer cannot stall IsUp
	// callers. Each edge notifies exactly once.
	if transitioned {
		for _, fn := range observers {
			fn(up, state)
		}
	}
}

// LogTransitions returns a TransitionFunc that logs connection-lost and
// connection-restored events through the given logger.
func LogTransitions(logger *slog.Logger) TransitionFunc {
	return func(up bool, state State) {
		if up {
			logger.Info("datastore connection restored",
				slog.Time("transition_at", state.LastTransitionAt),
			)
			return
		}
		logger.Warn("datastore connection lost",
			slog.Time("transition_at", state.LastTransitionAt),
			slog.Int("consecutive_failures", state.ConsecutiveFailures),
		)
	}
}
