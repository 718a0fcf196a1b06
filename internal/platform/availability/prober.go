package availability

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// probeKey is the singleflight key shared by all probe attempts; there is
// only one datastore per process, so all callers coalesce onto one key.
const probeKey = "probe"

// Pinger is the connectivity probe primitive supplied by the persistence
// layer. ports.UserStore satisfies it structurally.
type Pinger interface {
	// Ping performs one cheap connectivity check, honoring the context
	// deadline.
	Ping(ctx context.Context) error
}

// Prober keeps the Tracker fresh. It probes the datastore on a fixed
// interval and on demand, with at most one probe in flight at any time.
type Prober struct {
	pinger   Pinger
	tracker  *Tracker
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	group    singleflight.Group
	inFlight atomic.Bool
}

// NewProber creates a Prober. The timeout bounds each probe attempt and must
// be strictly shorter than the interval so a hung datastore cannot accumulate
// probe backlog; config validation enforces this.
func NewProber(pinger Pinger, tracker *Tracker, interval, timeout time.Duration, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Prober{
		pinger:   pinger,
		tracker:  tracker,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Run probes the datastore on each tick until ctx is canceled. Ticks that
// arrive while a probe is still in flight are skipped rather than queued.
// Run blocks; start it on its own goroutine.
func (p *Prober) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("availability prober stopped")
			return
		case <-ticker.C:
			if p.inFlight.Load() {
				continue
			}
			p.ProbeNow(ctx)
		}
	}
}

// ProbeNow performs a single on-demand probe and returns the fresh up/down
// result. Concurrent callers coalesce into one underlying probe attempt and
// all receive its result, so a burst of health checks costs the datastore a
// single connection.
func (p *Prober) ProbeNow(ctx context.Context) bool {
	v, _, _ := p.group.Do(probeKey, func() (any, error) {
		p.inFlight.Store(true)
		defer p.inFlight.Store(false)
		return p.probe(ctx), nil
	})
	up, ok := v.(bool)
	return ok && up
}

// probe runs one bounded connectivity check and feeds the result to the
// tracker. The probe context is detached from the caller's cancellation so
// that one impatient caller in a coalesced burst cannot abort the shared
// attempt; the timeout still bounds it.
func (p *Prober) probe(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	start := time.Now()
	if err := p.pinger.Ping(probeCtx); err != nil {
		p.tracker.ReportFailure()
		p.logger.Warn("datastore probe failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err),
		)
		return false
	}

	p.tracker.ReportSuccess()
	return true
}
