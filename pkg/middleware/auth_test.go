package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"medroute/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testJWTConfig() utils.JWTConfig {
	return utils.JWTConfig{
		Secret:     "test-secret",
		ExpiryDays: 7,
		CookieName: "token",
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_MissingToken(t *testing.T) {
	mw := Auth(testJWTConfig(), zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)

	mw(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ValidCookie(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	token, _, err := utils.GenerateToken(cfg, userID, "jane@example.com", "user")
	require.NoError(t, err)

	var gotID uuid.UUID
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = utils.GetUserIDFromContext(r.Context())
		gotRole, _ = utils.GetRoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})

	Auth(cfg, zap.NewNop())(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "user", gotRole)
}

func TestAuth_BearerFallback(t *testing.T) {
	cfg := testJWTConfig()

	token, _, err := utils.GenerateToken(cfg, uuid.New(), "jane@example.com", "user")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	Auth(cfg, zap.NewNop())(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_TamperedToken(t *testing.T) {
	cfg := testJWTConfig()

	token, _, err := utils.GenerateToken(cfg, uuid.New(), "jane@example.com", "user")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token + "x"})

	Auth(cfg, zap.NewNop())(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	cfg := testJWTConfig()

	token, _, err := utils.GenerateToken(cfg, uuid.New(), "jane@example.com", "user")
	require.NoError(t, err)

	chain := Auth(cfg, zap.NewNop())(RequireRole(zap.NewNop(), "admin")(okHandler()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/verify-pharmacy", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})

	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_AdminAllowed(t *testing.T) {
	cfg := testJWTConfig()

	token, _, err := utils.GenerateToken(cfg, uuid.New(), "root@example.com", "admin")
	require.NoError(t, err)

	chain := Auth(cfg, zap.NewNop())(RequireRole(zap.NewNop(), "admin")(okHandler()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/verify-pharmacy", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})

	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
