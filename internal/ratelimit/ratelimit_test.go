package ratelimit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "codeberg.org/kinship/server/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, rate string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	l, err := New(Config{Rate: rate}, nil)
	require.NoError(t, err)
	assert.Equal(t, "memory", l.Backend())

	router := gin.New()
	router.POST("/login", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	return router
}

func post(router http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestMiddleware_LimitsPerClient(t *testing.T) {
	router := newRouter(t, "2-M")

	assert.Equal(t, http.StatusOK, post(router, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, post(router, "10.0.0.1:1234").Code)

	w := post(router, "10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Too many requests", body.Error)
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))

	// a different client has its own budget
	assert.Equal(t, http.StatusOK, post(router, "10.0.0.2:1234").Code)
}

func TestNew_InvalidRate(t *testing.T) {
	for _, rate := range []string{"", "abc", "10-X", "-M"} {
		_, err := New(Config{Rate: rate}, nil)
		assert.Error(t, err, "rate %q should be rejected", rate)
	}
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
