package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/config"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/authz"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT() *auth.JWTManager {
	return auth.NewJWTManager(config.JWTConfig{
		Secret:          "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "carehub-test",
	})
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := serve(r, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", 65))
	w = serve(r, req)
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err, "oversized ids are replaced")
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", ok)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/", ok)

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"0123456789"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{
		AllowedOrigins: []string{"https://portal.carehub.test"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization"},
		MaxAge:         time.Hour,
	}))
	r.GET("/", ok)
	r.OPTIONS("/", ok)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://portal.carehub.test")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://portal.carehub.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = serve(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/", func(*gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 2)
	r := gin.New()
	r.Use(l.Middleware())
	r.GET("/", ok)

	get := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req)
	}

	assert.Equal(t, http.StatusOK, get("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, get("10.0.0.1").Code)
	w := get("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, get("10.0.0.2").Code, "buckets are per client")
}

func TestRateLimiterSweep(t *testing.T) {
	l := NewIPRateLimiter(PerMinute(60), 1)
	l.get("a")
	l.get("b")
	l.visitors["a"].lastSeen = time.Now().Add(-time.Hour)

	l.sweep()
	assert.Len(t, l.visitors, 1)
	assert.Contains(t, l.visitors, "b")
}

func TestAuthenticate(t *testing.T) {
	jwt := newJWT()
	r := gin.New()
	r.Use(RequestID(), Authenticate(jwt))
	r.GET("/", func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		require.True(t, ok)
		c.String(http.StatusOK, string(caller.Role))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	pair, err := jwt.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Email: "n@carehub.test", Role: domain.RoleNurse})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "refresh tokens are not access tokens")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nurse", w.Body.String())
}

func TestRequirePermission(t *testing.T) {
	a, err := authz.New()
	require.NoError(t, err)

	withRole := func(role domain.Role) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(ctxKeyClaims, &domain.Claims{UserID: uuid.New(), Role: role})
			c.Next()
		}
	}

	tests := []struct {
		role domain.Role
		res  authz.Resource
		act  authz.Action
		want int
	}{
		{domain.RoleAdmin, authz.ResourceShifts, authz.ActionAssign, http.StatusOK},
		{domain.RoleNurse, authz.ResourceShifts, authz.ActionAssign, http.StatusForbidden},
		{domain.RoleNurse, authz.ResourceShifts, authz.ActionRead, http.StatusOK},
		{domain.RolePatient, authz.ResourceMedicalRecords, authz.ActionWrite, http.StatusForbidden},
		{domain.RoleDoctor, authz.ResourceTasks, authz.ActionDelete, http.StatusOK},
	}
	for _, tt := range tests {
		r := gin.New()
		r.GET("/", withRole(tt.role), RequirePermission(a, zap.NewNop(), tt.res, tt.act), ok)
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, tt.want, w.Code, "%s %s %s", tt.role, tt.act, tt.res)
	}

	r := gin.New()
	r.GET("/", RequirePermission(a, zap.NewNop(), authz.ResourcePatients, authz.ActionRead), ok)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
