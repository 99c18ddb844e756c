package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/metrics"
	"github.com/ArowuTest/fundme-backend/pkg/jwt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var caller = common.HexToAddress("0x2222222222222222222222222222222222222222")

func newProtectedRouter(t *testing.T) (*gin.Engine, *jwt.TokenService) {
	t.Helper()
	tokens, err := jwt.NewTokenService("secret", time.Hour)
	require.NoError(t, err)
	r := gin.New()
	r.Use(JWTAuthMiddleware(tokens, zap.NewNop().Sugar()))
	r.GET("/whoami", func(c *gin.Context) {
		addr, ok := CallerAddress(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, addr.Hex())
	})
	return r, tokens
}

func TestJWTAuthMiddlewareSetsCaller(t *testing.T) {
	r, tokens := newProtectedRouter(t)
	token, _, err := tokens.Issue(caller)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, caller.Hex(), w.Body.String())
}

func TestJWTAuthMiddlewareRejects(t *testing.T) {
	r, _ := newProtectedRouter(t)
	for _, header := range []string{"", "Token abc", "Bearer not-a-jwt"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("RequestID")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://example.org"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://example.org", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsMiddlewareCountsRoutes(t *testing.T) {
	collector := metrics.NewCollector(prometheus.NewRegistry())
	r := gin.New()
	r.Use(MetricsMiddleware(collector))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))
	}
	assert.Equal(t, float64(2), testutil.ToFloat64(collector.RequestCount.WithLabelValues(http.MethodGet, "/items/:id", "200")))
}
