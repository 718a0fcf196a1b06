// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/jsamuelsen11/user-registry/internal/domain/user"
	"github.com/jsamuelsen11/user-registry/internal/platform/availability"
)

// UserResponse represents a single user in HTTP responses.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// UserListResponse represents a list of users in HTTP responses.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Count int            `json:"count"`
}

// StatsResponse summarizes registration activity.
type StatsResponse struct {
	TotalUsers int64  `json:"total_users"`
	Timestamp  string `json:"timestamp"`
}

// StatusResponse is the JSON dashboard payload describing the service's view
// of its datastore. TotalUsers is present only while the datastore is up.
type StatusResponse struct {
	Service    string         `json:"service"`
	Database   DatabaseStatus `json:"database"`
	Degraded   bool           `json:"degraded"`
	TotalUsers *int64         `json:"total_users,omitempty"`
}

// DatabaseStatus describes current datastore availability as tracked by the
// availability layer.
type DatabaseStatus struct {
	Up                  bool   `json:"up"`
	LastCheckedAt       string `json:"last_checked_at,omitempty"`
	LastTransitionAt    string `json:"last_transition_at,omitempty"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
}

// ToUserResponse converts a domain User entity to an HTTP response DTO.
func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// ToUserListResponse converts a slice of domain User entities to an HTTP list
// response DTO.
func ToUserListResponse(users []user.User) UserListResponse {
	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	return UserListResponse{
		Users: items,
		Count: len(items),
	}
}

// ToStatusResponse converts an availability snapshot to the dashboard DTO.
// Zero timestamps (no probe has completed yet) are omitted.
func ToStatusResponse(service string, state availability.State) StatusResponse {
	db := DatabaseStatus{
		Up:                  state.Up,
		ConsecutiveFailures: state.ConsecutiveFailures,
	}
	if !state.LastCheckedAt.IsZero() {
		db.LastCheckedAt = state.LastCheckedAt.Format(time.RFC3339)
	}
	if !state.LastTransitionAt.IsZero() {
		db.LastTransitionAt = state.LastTransitionAt.Format(time.RFC3339)
	}
	return StatusResponse{
		Service:  service,
		Database: db,
		Degraded: !state.Up,
	}
}
