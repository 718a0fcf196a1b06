package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/user-registry/internal/adapters/http/dto"
	"github.com/jsamuelsen11/user-registry/internal/platform/availability"
	"github.com/jsamuelsen11/user-registry/internal/ports"
)

// StatusHandler serves the JSON dashboard describing datastore availability.
// Unlike the user endpoints it never returns 503: a degraded datastore is a
// valid answer, not a failure of the dashboard itself.
type StatusHandler struct {
	service ports.UserService
	tracker *availability.Tracker
	name    string
}

// NewStatusHandler creates a StatusHandler for the named service.
func NewStatusHandler(service ports.UserService, tracker *availability.Tracker, name string) *StatusHandler {
	return &StatusHandler{
		service: service,
		tracker: tracker,
		name:    name,
	}
}

// Status handles GET /status. The user count is best-effort: it is included
// while the datastore is up and omitted once the count itself fails.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	state := h.tracker.Snapshot()
	resp := dto.ToStatusResponse(h.name, state)

	if state.Up {
		if count, err := h.service.Count(r.Context()); err == nil {
			resp.TotalUsers = &count
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
