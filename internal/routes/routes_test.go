package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront_back_end/internal/handlers/admin"
	"storefront_back_end/internal/handlers/store"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Options{
		JWTSecret:      secret,
		AllowedOrigins: []string{"http://shop.test"},
		Store:          store.NewHandler(nil),
		User:           user.NewHandler(user.Deps{}),
		Admin:          admin.NewHandler(nil, nil, nil),
	})
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.GenerateJWT(secret, utils.Claims{UserID: "u1", Email: "u1@example.com", Role: role}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestPing(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/api/cart", "/api/checkout", "/api/orders", "/api/admin/dashboard"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/categories/1", nil)
	req.Header.Set("Authorization", bearer(t, models.RoleUser))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "administrateurs")
}

func TestAdminImageUploadWithoutStorage(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/images", nil)
	req.Header.Set("Authorization", bearer(t, models.RoleAdmin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	req.Header.Set("Origin", "http://shop.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://shop.test", w.Header().Get("Access-Control-Allow-Origin"))
}
