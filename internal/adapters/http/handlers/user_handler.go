package handlers

import (
	"net/http"
	"time"

	"github.com/jsamuelsen11/user-registry/internal/adapters/http/dto"
	"github.com/jsamuelsen11/user-registry/internal/ports"
)

// UserHandler handles HTTP requests for user registration CRUD operations.
type UserHandler struct {
	service ports.UserService
}

// NewUserHandler creates a new UserHandler with the given service port.
func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterUser handles POST /api/v1/users.
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.service.Register(r.Context(), req.ToUser())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(created))
}

// ListUsers handles GET /api/v1/users. An optional email query parameter
// narrows the result to the single matching user.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		u, err := h.service.GetByEmail(r.Context(), email)
		if err != nil {
			dto.WriteErrorResponse(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.ToUserResponse(u))
		return
	}

	users, err := h.service.List(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserListResponse(users))
}

// GetUser handles GET /api/v1/users/{id}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseStringID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	u, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(u))
}

// DeleteUser handles DELETE /api/v1/users/{id}.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseStringID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/v1/users/stats.
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatsResponse{
		TotalUsers: count,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}
