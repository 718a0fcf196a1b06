package health_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jsamuelsen11/user-registry/internal/platform/health"
)

// fakeChecker is a configurable ports.HealthChecker for registry tests.
type fakeChecker struct {
	name  string
	check func(ctx context.Context) error
	calls atomic.Int64
}

func (f *fakeChecker) Name() string { return f.name }

func (f *fakeChecker) HealthCheck(ctx context.Context) error {
	f.calls.Add(1)
	if f.check != nil {
		return f.check(ctx)
	}
	return nil
}

func TestCheckAll_Empty(t *testing.T) {
	t.Parallel()

	r := health.New()
	results := r.CheckAll(context.Background())

	if results == nil {
		t.Fatal("expected non-nil map, got nil")
	}
	if len(results) != 0 {
		t.Errorf("expected empty map, got %d entries", len(results))
	}
}

func TestCheckAll_AllHealthy(t *testing.T) {
	t.Parallel()

	db := &fakeChecker{name: "db"}
	notifier := &fakeChecker{name: "notifier"}

	r := health.New()
	r.Register(db)
	r.Register(notifier)

	results := r.CheckAll(context.Background())

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results["db"] != nil {
		t.Errorf("db check = %v, want nil", results["db"])
	}
	if results["notifier"] != nil {
		t.Errorf("notifier check = %v, want nil", results["notifier"])
	}
	if db.calls.Load() != 1 {
		t.Errorf("db checker called %d times, want 1", db.calls.Load())
	}
}

func TestCheckAll_MixedHealth(t *testing.T) {
	t.Parallel()

	unhealthyErr := errors.New("connection refused")

	r := health.New()
	r.Register(&fakeChecker{name: "db"})
	r.Register(&fakeChecker{
		name:  "notifier",
		check: func(context.Context) error { return unhealthyErr },
	})

	results := r.CheckAll(context.Background())

	if results["db"] != nil {
		t.Errorf("db check = %v, want nil", results["db"])
	}
	if !errors.Is(results["notifier"], unhealthyErr) {
		t.Errorf("notifier check = %v, want %v", results["notifier"], unhealthyErr)
	}
}

func TestCheckAll_ContextPropagated(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := health.New()
	r.Register(&fakeChecker{
		name:  "db",
		check: func(ctx context.Context) error { return ctx.Err() },
	})

	results := r.CheckAll(ctx)

	if !errors.Is(results["db"], context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", results["db"])
	}
}

func TestCheckAll_DuplicateNames_LastWriteWins(t *testing.T) {
	t.Parallel()

	secondErr := errors.New("second failure")

	r := health.New()
	r.Register(&fakeChecker{name: "db"})
	r.Register(&fakeChecker{
		name:  "db",
		check: func(context.Context) error { return secondErr },
	})

	results := r.CheckAll(context.Background())

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	got, ok := results["db"]
	if !ok {
		t.Fatal(`expected result for key "db", but it was missing`)
	}
	if !errors.Is(got, secondErr) {
		t.Errorf("db check = %v, want %v (from last registered checker)", got, secondErr)
	}
}

func TestCheckAll_ManyCheckersAllRun(t *testing.T) {
	t.Parallel()

	r := health.New()
	checkers := make([]*fakeChecker, 10)
	for i := range checkers {
		checkers[i] = &fakeChecker{name: string(rune('a' + i))}
		r.Register(checkers[i])
	}

	results := r.CheckAll(context.Background())

	if len(results) != len(checkers) {
		t.Fatalf("expected %d results, got %d", len(checkers), len(results))
	}
	for _, c := range checkers {
		if c.calls.Load() != 1 {
			t.Errorf("checker %s called %d times, want 1", c.name, c.calls.Load())
		}
	}
}

func TestCheckAll_ConcurrentSafety(t *testing.T) {
	t.Parallel()

	r := health.New()

	var wg sync.WaitGroup
	const goroutines = 50

	// Half the goroutines register checkers, half call CheckAll.
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		if i%2 == 0 {
			go func() {
				defer wg.Done()
				r.Register(&fakeChecker{name: "checker"})
			}()
		} else {
			go func() {
				defer wg.Done()
				r.CheckAll(context.Background())
			}()
		}
	}

	wg.Wait()
}
