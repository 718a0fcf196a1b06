// Package availability implements degraded-mode tracking for the backing
// datastore. It answers "is the datastore reachable right now" in O(1) on the
// request hot path, keeps the answer fresh with a background prober, and
// applies a uniform fail-fast policy around every datastore-touching
// operation.
//
// The model is deliberately simpler than a circuit breaker: there is no
// half-open trial traffic. Reads serve the last-known state; the prober (and
// observed operation failures) refresh it.
//
// Components:
//
//   - [Tracker]: the single source of truth for up/down state, safe for
//     concurrent use by request workers and the prober.
//   - [Prober]: periodic and on-demand connectivity probes with request
//     coalescing.
//   - [Guard] with [Do]: the guarded-operation wrapper applied to every
//     store call.
//   - [RegisterStatusGauge]: publishes tracker state as an OpenTelemetry
//     gauge.
package availability
