package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/abejanet/abejanet/internal/core/domain"
	"github.com/abejanet/abejanet/internal/core/service"
)

type memUserRepo struct {
	users map[string]*domain.User
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// The router registers prometheus collectors with the default registry, so
// it is built exactly once for the whole package.
var (
	routerOnce sync.Once
	testRouter http.Handler
	testTokens *service.TokenService
)

// newTestRouter wires the real token/auth services behind the router. The
// pool is nil, so DB-backed routes stay untouched in these tests.
func newTestRouter(t *testing.T) (http.Handler, *service.TokenService) {
	t.Helper()
	routerOnce.Do(func() {
		tokens, err := service.NewTokenService("test-secret", time.Hour)
		if err != nil {
			panic(err)
		}
		repo := &memUserRepo{users: map[string]*domain.User{
			"admin@x.com": {ID: 1, Email: "admin@x.com", Password: "p", Role: domain.RoleAdmin, IsActive: true},
			"bee@x.com":   {ID: 2, Email: "bee@x.com", Password: "p", Role: domain.RoleUser, IsActive: true},
		}}
		authService := service.NewAuthService(repo, tokens)
		testRouter = NewRouter(nil, authService, tokens, nil, zerolog.Nop())
		testTokens = tokens
	})
	return testRouter, testTokens
}

func TestRouter_LoginThenAdminProfile(t *testing.T) {
	e, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"admin@x.com","password":"p"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var login map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("invalid login json: %v", err)
	}
	token, _ := login["token"].(string)
	if token == "" {
		t.Fatalf("expected token in login response")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/perfil", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("perfil: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	perfil, _ := resp["perfil"].(map[string]any)
	if perfil["rol"] != "administrador" {
		t.Fatalf("unexpected perfil: %v", resp)
	}
}

func TestRouter_AdminProfile_NoToken(t *testing.T) {
	e, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/perfil", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_AdminProfile_NonAdminToken(t *testing.T) {
	e, tokens := newTestRouter(t)

	token, err := tokens.Issue(2, domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/perfil", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRouter_AdminProfile_GarbageToken(t *testing.T) {
	e, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/perfil", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRouter_Liveness(t *testing.T) {
	e, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "API online" {
		t.Fatalf("unexpected liveness response: %d %q", rec.Code, rec.Body.String())
	}
}
