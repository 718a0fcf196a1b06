package availability_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jsamuelsen11/user-registry/internal/platform/availability"
)

// fakePinger counts probe attempts and serves a configurable outcome after an
// optional delay.
type fakePinger struct {
	attempts atomic.Int64
	delay    time.Duration
	err      atomic.Value // error or nil sentinel
}

var errNone = errors.New("none")

func newFakePinger(delay time.Duration, err error) *fakePinger {
	p := &fakePinger{delay: delay}
	p.setErr(err)
	return p
}

func (p *fakePinger) setErr(err error) {
	if err == nil {
		err = errNone
	}
	p.err.Store(err)
}

func (p *fakePinger) Ping(ctx context.Context) error {
	p.attempts.Add(1)
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := p.err.Load().(error); err != errNone {
		return err
	}
	return nil
}

func TestProbeNow_SuccessReportsUp(t *testing.T) {
	t.Parallel()

	tr := availability.NewTracker()
	tr.ReportFailure()

	pinger := newFakePinger(0, nil)
	p := availability.NewProber(pinger, tr, time.Minute, time.Second, nil)

	if up := p.ProbeNow(context.Background()); !up {
		t.Fatal("ProbeNow() = false for a healthy pinger, want true")
	}
	if !tr.IsUp() {
		t.Error("tracker still down after successful probe")
	}
}

func TestProbeNow_FailureReportsDown(t *testing.T) {
	t.Parallel()

	tr := availability.NewTracker()
	pinger := newFakePinger(0, errors.New("connection refused"))
	p := availability.NewProber(pinger, tr, time.Minute, time.Second, nil)

	if up := p.ProbeNow(context.Background()); up {
		t.Fatal("ProbeNow() = true for a failing pinger, want false")
	}
	if tr.IsUp() {
		t.Error("tracker still up after failed probe")
	}
}

// A probe that exceeds its timeout is treated identically to a refused
// connection.
func TestProbeNow_TimeoutReportsDown(t *testing.T) {
	t.Parallel()

	tr := availability.NewTracker()
	pinger := newFakePinger(500*time.Millisecond, nil)
	p := availability.NewProber(pinger, tr, time.Minute, 20*time.Millisecond, nil)

	if up := p.ProbeNow(context.Background()); up {
		t.Fatal("ProbeNow() = true for a hung pinger, want false")
	}
	if tr.IsUp() {
		t.Error("tracker still up after probe timeout")
	}
}

// Concurrent ProbeNow calls while one probe is in flight coalesce into a
// single underlying connectivity attempt, and every caller receives that
// attempt's result.
func TestProbeNow_CoalescesConcurrentCallers(t *testing.T) {
	t.Parallel()

	tr := availability.NewTracker()
	pinger := newFakePinger(200*time.Millisecond, nil)
	p := availability.NewProber(pinger, tr, time.Minute, time.Second, nil)

	const callers = 50
	results := make([]bool, callers)

	start := time.Now()
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = p.ProbeNow(context.Background())
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	if got := pinger.attempts.Load(); got != 1 {
		t.Errorf("underlying probe attempts = %d for %d concurrent callers, want 1", got, callers)
	}
	for i, up := range results {
		if !up {
			t.Errorf("caller %d got false, want true", i)
		}
	}
	// All callers share the one in-flight probe, so the burst should finish
	// in roughly one probe duration, not fifty.
	if elapsed > 2*time.Second {
		t.Errorf("coalesced burst took %v, want roughly one probe duration", elapsed)
	}
}

// A caller canceling its own context must not abort the shared probe for the
// rest of a coalesced burst.
func TestProbeNow_DetachedFromCallerCancellation(t *testing.T) {
	t.Parallel()

	tr := availability.NewTracker()
	pinger := newFakePinger(50*time.Millisecond, nil)
	p := availability.NewProber(pinger, tr, time.Minute, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if up := p.ProbeNow(ctx); !up {
		t.Error("ProbeNow() = false when the caller's context was canceled, want true (probe detached)")
	}
}

func TestRun_ProbesPeriodicallyAndStopsOnCancel(t *testing.T) {
	t.Parallel()

	tr := availability.NewTracker()
	pinger := newFakePinger(0, nil)
	p := availability.NewProber(pinger, tr, 10*time.Millisecond, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for pinger.attempts.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d probes after 2s, want >= 3", pinger.attempts.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	// No further probes after shutdown.
	settled := pinger.attempts.Load()
	time.Sleep(50 * time.Millisecond)
	if got := pinger.attempts.Load(); got != settled {
		t.Errorf("probes continued after cancel: %d -> %d", settled, got)
	}
}

// Ticks arriving while a probe is still in flight are skipped, so a slow
// datastore sees at most one outstanding probe.
func TestRun_SkipsOverlappingTicks(t *testing.T) {
	t.Parallel()

	tr := availability.NewTracker()
	// Each probe spans several tick intervals.
	pinger := newFakePinger(80*time.Millisecond, nil)
	p := availability.NewProber(pinger, tr, 10*time.Millisecond, 200*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	p.Run(ctx)

	// ~25 ticks elapsed but each probe blocks the loop for ~80ms, so only a
	// handful of probes may run. The important bound: far fewer than ticks.
	if got := pinger.attempts.Load(); got > 6 {
		t.Errorf("probe attempts = %d with overlapping ticks, want <= 6", got)
	}
}

// Scenario: tracker down, next scheduled probe succeeds, state recovers.
func TestRun_RecoversAfterOutage(t *testing.T) {
	t.Parallel()

	tr := availability.NewTracker()
	tr.ReportFailure()

	pinger := newFakePinger(0, nil)
	p := availability.NewProber(pinger, tr, 10*time.Millisecond, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	deadline := time.After(2 * time.Second)
	for !tr.IsUp() {
		select {
		case <-deadline:
			t.Fatal("tracker never recovered after successful probes")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
