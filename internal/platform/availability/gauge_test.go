package availability_test

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jsamuelsen11/user-registry/internal/platform/availability"
)

// collectGauge reads the current database.connection.status value through a
// manual reader.
func collectGauge(t *testing.T, reader *sdkmetric.ManualReader) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collecting metrics: %v", err)
	}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "database.connection.status" {
				continue
			}
			gauge, ok := m.Data.(metricdata.Gauge[int64])
			if !ok {
				t.Fatalf("unexpected data type %T", m.Data)
			}
			if len(gauge.DataPoints) != 1 {
				t.Fatalf("data points = %d, want 1", len(gauge.DataPoints))
			}
			return gauge.DataPoints[0].Value
		}
	}

	t.Fatal("database.connection.status not found in collected metrics")
	return 0
}

func TestRegisterStatusGauge_TracksState(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	tr := availability.NewTracker()
	reg, err := availability.RegisterStatusGauge(mp.Meter("test"), tr)
	if err != nil {
		t.Fatalf("RegisterStatusGauge: %v", err)
	}
	t.Cleanup(func() { _ = reg.Unregister() })

	if got := collectGauge(t, reader); got != 1 {
		t.Errorf("gauge = %d while up, want 1", got)
	}

	tr.ReportFailure()
	if got := collectGauge(t, reader); got != 0 {
		t.Errorf("gauge = %d while down, want 0", got)
	}

	tr.ReportSuccess()
	if got := collectGauge(t, reader); got != 1 {
		t.Errorf("gauge = %d after recovery, want 1", got)
	}
}
