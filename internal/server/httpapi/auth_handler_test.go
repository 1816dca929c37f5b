package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Francortiz-137/taskflow-backend/internal/common"
	"github.com/Francortiz-137/taskflow-backend/internal/server/models"
	"github.com/Francortiz-137/taskflow-backend/internal/server/ratelimit"
	"github.com/Francortiz-137/taskflow-backend/internal/server/services"
)

// stubAuth scripts AuthProvider responses per test.
type stubAuth struct {
	registerFn func(name, email, password string) (*models.User, error)
	loginFn    func(email, password string) (*services.LoginResult, error)
	refreshFn  func(token string) (*services.TokenPair, error)
	logoutFn   func(token string) error
	meFn       func(userID int64) (*models.User, error)
}

func (s *stubAuth) Register(_ context.Context, name, email, password string) (*models.User, error) {
	return s.registerFn(name, email, password)
}
func (s *stubAuth) Login(_ context.Context, email, password string) (*services.LoginResult, error) {
	return s.loginFn(email, password)
}
func (s *stubAuth) Refresh(_ context.Context, token string) (*services.TokenPair, error) {
	return s.refreshFn(token)
}
func (s *stubAuth) Logout(_ context.Context, token string) error { return s.logoutFn(token) }
func (s *stubAuth) Me(_ context.Context, userID int64) (*models.User, error) {
	return s.meFn(userID)
}

func testUser() *models.User {
	return &models.User{
		ID:        42,
		Name:      "Alice",
		Email:     "alice@example.com",
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}
}

func newTestRouter(t *testing.T, authStub *stubAuth, limiter ratelimit.Limiter, loginLimit, refreshLimit int) http.Handler {
	t.Helper()
	return NewRouter(RouterDeps{
		Tokens:               newTokens(t),
		Auth:                 authStub,
		Tasks:                &stubTasks{},
		Attachments:          &stubAttachments{},
		Limiter:              limiter,
		LoginRatePerMinute:   loginLimit,
		RefreshRatePerMinute: refreshLimit,
	})
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	authStub := &stubAuth{
		registerFn: func(name, email, password string) (*models.User, error) {
			if email == "taken@example.com" {
				return nil, common.ErrorAlreadyExists
			}
			return testUser(), nil
		},
	}
	router := newTestRouter(t, authStub, nil, 0, 0)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"pw"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", rec.Code, rec.Body)
	}
	var u userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil || u.Email != "alice@example.com" {
		t.Fatalf("unexpected body: %s (%v)", rec.Body, err)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/auth/register",
		`{"name":"Bob","email":"taken@example.com","password":"pw"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("want 409, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", `{not json`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestLoginEndpoint(t *testing.T) {
	authStub := &stubAuth{
		loginFn: func(email, password string) (*services.LoginResult, error) {
			if password != "pw" {
				return nil, common.ErrorUnauthorized
			}
			return &services.LoginResult{User: testUser(), RefreshToken: "opaque-refresh"}, nil
		},
	}
	router := newTestRouter(t, authStub, nil, 0, 0)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"pw"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body)
	}
	var res loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if res.RefreshToken != "opaque-refresh" || res.User.ID != 42 {
		t.Fatalf("unexpected body: %+v", res)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func TestLoginEndpoint_RateLimited(t *testing.T) {
	authStub := &stubAuth{
		loginFn: func(email, password string) (*services.LoginResult, error) {
			return nil, common.ErrorUnauthorized
		},
	}
	router := newTestRouter(t, authStub, ratelimit.NewMemoryLimiter(), 3, 0)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/login",
			`{"email":"a@example.com","password":"x"}`, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: want 401, got %d", i, rec.Code)
		}
	}

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login",
		`{"email":"a@example.com","password":"x"}`, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("want 429 after budget, got %d", rec.Code)
	}

	// register is not throttled
	authStub.registerFn = func(name, email, password string) (*models.User, error) { return testUser(), nil }
	rec = doJSON(t, router, http.MethodPost, "/api/auth/register",
		`{"name":"A","email":"a@example.com","password":"x"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register must not share the login budget, got %d", rec.Code)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	authStub := &stubAuth{
		refreshFn: func(token string) (*services.TokenPair, error) {
			switch token {
			case "good":
				return &services.TokenPair{AccessToken: "jwt", RefreshToken: "next"}, nil
			case "expired":
				return nil, common.ErrRefreshTokenExpired
			case "replayed":
				return nil, common.ErrRefreshTokenReuse
			default:
				return nil, common.ErrInvalidRefreshToken
			}
		},
	}
	router := newTestRouter(t, authStub, nil, 0, 0)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"good"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body)
	}
	var res refreshResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil || res.AccessToken != "jwt" || res.RefreshToken != "next" {
		t.Fatalf("unexpected body: %s (%v)", rec.Body, err)
	}

	// every failure mode reads identically
	var bodies []string
	for _, token := range []string{"expired", "replayed", "unknown", ""} {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/refresh",
			`{"refreshToken":"`+token+`"}`, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("token %q: want 400, got %d", token, rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}
	for _, b := range bodies[1:] {
		if b != bodies[0] {
			t.Fatalf("failure responses must be indistinguishable: %q vs %q", bodies[0], b)
		}
	}
}

func TestLogoutEndpoint(t *testing.T) {
	var revoked string
	authStub := &stubAuth{
		logoutFn: func(token string) error {
			revoked = token
			return nil
		},
	}
	router := newTestRouter(t, authStub, nil, 0, 0)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", `{"refreshToken":"tok"}`, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("want 204, got %d", rec.Code)
	}
	if revoked != "tok" {
		t.Fatalf("logout must revoke the presented token, got %q", revoked)
	}
}

func TestMeEndpoint(t *testing.T) {
	authStub := &stubAuth{
		meFn: func(userID int64) (*models.User, error) {
			u := testUser()
			u.ID = userID
			return u, nil
		},
	}
	router := newTestRouter(t, authStub, nil, 0, 0)

	rec := doJSON(t, router, http.MethodGet, "/api/auth/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: want 401, got %d", rec.Code)
	}

	tokens := newTokens(t)
	tokenString, err := tokens.Generate(42, "alice@example.com", models.RoleUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	header := http.Header{"Authorization": []string{"Bearer " + tokenString}}

	rec = doJSON(t, router, http.MethodGet, "/api/auth/me", "", header)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body)
	}
	var u userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil || u.ID != 42 {
		t.Fatalf("unexpected body: %s (%v)", rec.Body, err)
	}
}
