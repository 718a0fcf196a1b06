package availability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// RegisterStatusGauge publishes the tracker's state as the
// database.connection.status observable gauge: 1 when the datastore is
// believed reachable, 0 when down. The gauge reads the tracker on every
// collection with no caching of its own.
//
// The returned registration must be unregistered (or the meter provider shut
// down) before the tracker is discarded.
func RegisterStatusGauge(meter metric.Meter, tracker *Tracker) (metric.Registration, error) {
	gauge, err := meter.Int64ObservableGauge(
		"database.connection.status",
		metric.WithDescription("Datastore connectivity: 1 when reachable, 0 when down"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating database.connection.status: %w", err)
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		var v int64
		if tracker.IsUp() {
			v = 1
		}
		o.ObserveInt64(gauge, v)
		return nil
	}, gauge)
	if err != nil {
		return nil, fmt.Errorf("registering database.connection.status callback: %w", err)
	}

	return reg, nil
}
