package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"food_share/internal/common/security"
	"food_share/internal/domain/model"
	"food_share/internal/platform/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJWT(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: []byte("test-secret"), JWTExp: time.Hour}
	security.InitJWT()
}

func tokenFor(t *testing.T, role model.Role) string {
	t.Helper()
	token, err := security.GenerateToken("user-"+string(role), role)
	require.NoError(t, err)
	return token
}

func assertJSONError(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) {
	t.Helper()
	assert.Equal(t, expectedStatus, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Contains(t, response["message"], expectedMessage)
}

func protectedRouter(roles ...model.Role) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(security.TokenAuth))
	r.With(Authenticator, RequireRoles(roles...)).Get("/claims", func(w http.ResponseWriter, r *http.Request) {
		p, _ := GetPrincipal(r)
		w.Write([]byte(p.UserID))
	})
	return r
}

func TestAuthGate(t *testing.T) {
	setupJWT(t)
	router := protectedRouter(model.RoleRecipient)

	t.Run("no token is 401", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/claims", nil))
		assertJSONError(t, rr, http.StatusUnauthorized, "Authorization token required")
	})

	t.Run("bad token is 401", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/claims", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		router.ServeHTTP(rr, req)
		assertJSONError(t, rr, http.StatusUnauthorized, "Invalid token")
	})

	t.Run("wrong role is 403", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/claims", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, model.RoleDonor))
		router.ServeHTTP(rr, req)
		assertJSONError(t, rr, http.StatusForbidden, "Access denied")
	})

	t.Run("right role passes principal", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/claims", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, model.RoleRecipient))
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-Recipient", rr.Body.String())
	})
}

func TestAdminOnly(t *testing.T) {
	setupJWT(t)
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(security.TokenAuth))
	r.With(Authenticator, AdminOnly).Get("/admin/users", func(w http.ResponseWriter, r *http.Request) {})

	for role, want := range map[model.Role]int{
		model.RoleAdmin:     http.StatusOK,
		model.RoleDonor:     http.StatusForbidden,
		model.RoleRecipient: http.StatusForbidden,
	} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, role))
		r.ServeHTTP(rr, req)
		assert.Equal(t, want, rr.Code, string(role))
	}
}

func TestRequireRolesWithoutAuthenticator(t *testing.T) {
	h := RequireRoles(model.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assertJSONError(t, rr, http.StatusUnauthorized, "Authorization token required")
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(2) // burst 1
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	h := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5678"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1234"))

	now = now.Add(31 * time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1234"))

	now = now.Add(10 * time.Minute)
	call("10.0.0.3:1")
	limiter.mu.Lock()
	assert.Len(t, limiter.visitors, 1)
	limiter.mu.Unlock()
}

func TestIPRateLimiter_SweepsOncePerTTL(t *testing.T) {
	limiter := NewIPRateLimiter(60)
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := t0
	limiter.now = func() time.Time { return now }

	limiter.allow("10.0.0.1")
	assert.Equal(t, t0.Add(limiter.ttl), limiter.nextSweep)

	now = t0.Add(time.Minute)
	limiter.allow("10.0.0.2")
	assert.Equal(t, t0.Add(limiter.ttl), limiter.nextSweep)
	assert.Len(t, limiter.visitors, 2)

	now = t0.Add(limiter.ttl + 30*time.Second)
	limiter.allow("10.0.0.3")
	assert.Equal(t, now.Add(limiter.ttl), limiter.nextSweep)
	assert.Len(t, limiter.visitors, 2)
	assert.NotContains(t, limiter.visitors, "10.0.0.1")
}
