package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/sto-scheduler/internal/auth"
	"github.com/BruksfildServices01/sto-scheduler/internal/config"
	"github.com/BruksfildServices01/sto-scheduler/internal/logging"
	"github.com/BruksfildServices01/sto-scheduler/internal/metrics"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func whoami(c *gin.Context) {
	id, ok := UserID(c)
	c.JSON(http.StatusOK, gin.H{"user_id": id, "authenticated": ok, "admin": IsAdmin(c)})
}

func do(r http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	code, _ := body["error_code"].(string)
	return code
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	customer, err := tokens.Issue(&models.User{ID: 5, Role: models.RoleCustomer})
	require.NoError(t, err)
	admin, err := tokens.Issue(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens), whoami)
	r.GET("/admin", AuthMiddleware(tokens), RequireAdmin(), whoami)

	w := do(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing_authorization_header", errorCode(t, w))

	w = do(r, http.MethodGet, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token", errorCode(t, w))

	w = do(r, http.MethodGet, "/me", customer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":5,"authenticated":true,"admin":false}`, w.Body.String())

	w = do(r, http.MethodGet, "/admin", customer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "admin_only", errorCode(t, w))

	w = do(r, http.MethodGet, "/admin", admin)
	assert.Equal(t, http.StatusOK, w.Code)

	// websocket clients pass the token as a query parameter
	w = do(r, http.MethodGet, "/me?access_token="+customer, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	token, err := tokens.Issue(&models.User{ID: 9, Role: models.RoleCustomer})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/book", OptionalAuth(tokens), whoami)

	w := do(r, http.MethodGet, "/book", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0,"authenticated":false,"admin":false}`, w.Body.String())

	w = do(r, http.MethodGet, "/book", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":9,"authenticated":true,"admin":false}`, w.Body.String())

	w = do(r, http.MethodGet, "/book", "expired-or-bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://sto.example"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://sto.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://sto.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://other.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://sto.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSWithoutOriginsAllowsNobody(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(nil))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSWildcardDropsCredentials(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"*"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := do(r, http.MethodGet, "/ping", "")
	id := w.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, given, w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "not a uuid\n")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not a uuid\n", w.Header().Get(HeaderRequestID))
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		Prefix:         "rl:test",
	}

	r := gin.New()
	r.POST("/guest-appointments", RateLimit(cfg, rdb, logging.NewWithWriter("error", io.Discard)), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		w := do(r, http.MethodPost, "/guest-appointments", "")
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := do(r, http.MethodPost, "/guest-appointments", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "too_many_requests", errorCode(t, w))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// redis down: fail open
	mr.Close()
	w = do(r, http.MethodPost, "/guest-appointments", "")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.POST("/x", RateLimit(config.RateLimitConfig{Enabled: false}, nil, nil), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/x", "").Code)
	}
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)

	r := gin.New()
	r.Use(RequestID(), AccessLog(logging.NewWithWriter("info", &buf), m))
	r.GET("/services/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	do(r, http.MethodGet, "/services/3", "")

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "/services/:id", entry["route"])
	assert.Equal(t, float64(404), entry["status"])
	assert.Equal(t, "WARN", entry["level"])
	assert.NotEmpty(t, entry["request_id"])

	n, err := testutil.GatherAndCount(reg, "sto_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
