package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/user-registry/internal/domain/user"
	"github.com/jsamuelsen11/user-registry/internal/ports"
)

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func validUser() user.User {
	return user.User{
		ID:        "user-1",
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		CreatedAt: testTime,
	}
}

// fakeUserService is a configurable ports.UserService for handler tests.
// Unset funcs fail the test when called.
type fakeUserService struct {
	t              *testing.T
	registerFunc   func(ctx context.Context, u *user.User) (*user.User, error)
	listFunc       func(ctx context.Context) ([]user.User, error)
	getByIDFunc    func(ctx context.Context, id string) (*user.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	deleteFunc     func(ctx context.Context, id string) error
	countFunc      func(ctx context.Context) (int64, error)
}

var _ ports.UserService = (*fakeUserService)(nil)

func (f *fakeUserService) Register(ctx context.Context, u *user.User) (*user.User, error) {
	if f.registerFunc == nil {
		f.t.Fatal("unexpected Register call")
	}
	return f.registerFunc(ctx, u)
}

func (f *fakeUserService) List(ctx context.Context) ([]user.User, error) {
	if f.listFunc == nil {
		f.t.Fatal("unexpected List call")
	}
	return f.listFunc(ctx)
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	if f.getByIDFunc == nil {
		f.t.Fatal("unexpected GetByID call")
	}
	return f.getByIDFunc(ctx, id)
}

func (f *fakeUserService) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.getByEmailFunc == nil {
		f.t.Fatal("unexpected GetByEmail call")
	}
	return f.getByEmailFunc(ctx, email)
}

func (f *fakeUserService) Delete(ctx context.Context, id string) error {
	if f.deleteFunc == nil {
		f.t.Fatal("unexpected Delete call")
	}
	return f.deleteFunc(ctx, id)
}

func (f *fakeUserService) Count(ctx context.Context) (int64, error) {
	if f.countFunc == nil {
		f.t.Fatal("unexpected Count call")
	}
	return f.countFunc(ctx)
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
