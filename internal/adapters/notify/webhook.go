// Package notify delivers datastore availability transition events to an
// external webhook endpoint.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen11/user-registry/internal/platform/availability"
	"github.com/jsamuelsen11/user-registry/internal/platform/httpclient"
)

// deliveryTimeout bounds a single transition delivery, including retries.
const deliveryTimeout = 30 * time.Second

// transitionEvent is the JSON payload posted to the webhook on every
// availability edge.
type transitionEvent struct {
	Service             string    `json:"service"`
	Up                  bool      `json:"up"`
	TransitionAt        time.Time `json:"transition_at"`
	ConsecutiveFailures int       `json:"consecutive_failures,omitempty"`
}

// Webhook posts availability transitions to a configured HTTP endpoint
// through the instrumented outbound client.
type Webhook struct {
	client  *httpclient.Client
	service string
	logger  *slog.Logger
}

// NewWebhook creates a webhook notifier. The client's base URL is the
// destination endpoint.
func NewWebhook(client *httpclient.Client, service string, logger *slog.Logger) *Webhook {
	return &Webhook{
		client:  client,
		service: service,
		logger:  logger,
	}
}

// Notify returns a TransitionFunc suitable for registration on a tracker.
// Delivery runs in a goroutine so a slow webhook never blocks the probe loop
// or a request path reporting a failure. Delivery errors are logged, never
// propagated.
func (w *Webhook) Notify() availability.TransitionFunc {
	return func(up bool, state availability.State) {
		go w.deliver(up, state)
	}
}

func (w *Webhook) deliver(up bool, state availability.State) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	event := transitionEvent{
		Service:             w.service,
		Up:                  up,
		TransitionAt:        state.LastTransitionAt,
		ConsecutiveFailures: state.ConsecutiveFailures,
	}

	body, err := json.Marshal(event)
	if err != nil {
		w.logger.ErrorContext(ctx, "marshaling transition event",
			slog.String("operation", "notify.deliver"),
			slog.Any("error", err),
		)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.client.BaseURL(), bytes.NewReader(body))
	if err != nil {
		w.logger.ErrorContext(ctx, "building webhook request",
			slog.String("operation", "notify.deliver"),
			slog.Any("error", err),
		)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(ctx, req)
	if resp != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		w.logger.ErrorContext(ctx, "delivering transition event",
			slog.String("operation", "notify.deliver"),
			slog.Bool("up", up),
			slog.Any("error", err),
		)
		return
	}

	w.logger.InfoContext(ctx, "delivered transition event",
		slog.String("operation", "notify.deliver"),
		slog.Bool("up", up),
		slog.Int("status", resp.StatusCode),
	)
}
