package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	adapthttp "github.com/jsamuelsen11/user-registry/internal/adapters/http"
	"github.com/jsamuelsen11/user-registry/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/user-registry/internal/domain/user"
	"github.com/jsamuelsen11/user-registry/internal/platform/availability"
	"github.com/jsamuelsen11/user-registry/internal/ports"
)

// stubService serves fixed data for routing tests.
type stubService struct {
	users []user.User
}

var _ ports.UserService = (*stubService)(nil)

func (s *stubService) Register(_ context.Context, u *user.User) (*user.User, error) {
	return u, nil
}

func (s *stubService) List(context.Context) ([]user.User, error) {
	return s.users, nil
}

func (s *stubService) GetByID(context.Context, string) (*user.User, error) {
	u := user.User{ID: "user-1"}
	return &u, nil
}

func (s *stubService) GetByEmail(context.Context, string) (*user.User, error) {
	u := user.User{ID: "user-1"}
	return &u, nil
}

func (s *stubService) Delete(context.Context, string) error { return nil }

func (s *stubService) Count(context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

// stubRegistry reports no registered checks.
type stubRegistry struct{}

func (stubRegistry) Register(ports.HealthChecker) {}

func (stubRegistry) CheckAll(context.Context) map[string]error { return map[string]error{} }

func newTestRouter(_ *testing.T, middlewares ...func(http.Handler) http.Handler) http.Handler {
	svc := &stubService{}
	tracker := availability.NewTracker()

	uh := handlers.NewUserHandler(svc)
	hh := handlers.NewHealthHandler(stubRegistry{})
	sh := handlers.NewStatusHandler(svc, tracker, "user-registry")

	return adapthttp.NewRouter(uh, hh, sh, middlewares...)
}

func TestRouter_AllRoutesRegistered(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	expectedRoutes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health/live"},
		{http.MethodGet, "/health/ready"},
		{http.MethodGet, "/status"},
		{http.MethodPost, "/api/v1/users"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, "/api/v1/users/stats"},
		{http.MethodGet, "/api/v1/users/{id}"},
		{http.MethodDelete, "/api/v1/users/{id}"},
	}

	chiRouter, ok := router.(*chi.Mux)
	if !ok {
		t.Fatal("router is not *chi.Mux")
	}

	registered := make(map[string]bool)
	err := chi.Walk(chiRouter, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})
	if err != nil {
		t.Fatalf("chi.Walk error: %v", err)
	}

	for _, expected := range expectedRoutes {
		key := expected.method + " " + expected.path
		if !registered[key] {
			t.Errorf("route %s not registered", key)
		}
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	t.Parallel()

	called := false
	testMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	router := newTestRouter(t, testMW)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	router.ServeHTTP(rec, req)

	if !called {
		t.Error("middleware was not called")
	}
}

func TestRouter_IntegrationListUsers(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

// The static stats route must not be swallowed by the {id} route.
func TestRouter_StatsNotShadowedByID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/stats", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRouter_NotFoundReturns404(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
