package availability

import (
	"context"
	"fmt"

	"github.com/jsamuelsen11/user-registry/internal/domain"
)

// Checker adapts a Prober to the health registry's checker interface. Each
// readiness probe triggers a fresh datastore check through ProbeNow instead
// of serving the tracker's cached belief; coalescing keeps a burst of
// readiness traffic down to a single datastore connection.
type Checker struct {
	prober *Prober
	name   string
}

// NewChecker creates a health checker named name around the given prober.
func NewChecker(prober *Prober, name string) *Checker {
	return &Checker{prober: prober, name: name}
}

// Name returns the checker name reported in readiness results.
func (c *Checker) Name() string {
	return c.name
}

// HealthCheck probes the datastore and returns nil when it is reachable.
func (c *Checker) HealthCheck(ctx context.Context) error {
	if !c.prober.ProbeNow(ctx) {
		return fmt.Errorf("%s: %w", c.name, domain.ErrUnavailable)
	}
	return nil
}
