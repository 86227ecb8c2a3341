package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.LimitMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func requestFrom(router http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_AllowsBurstThenRejects(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0), 2)
	defer rl.Stop()
	router := newLimitedRouter(rl)

	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, requestFrom(router, "10.0.0.1"))
}

func TestRateLimiter_TracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0), 1)
	defer rl.Stop()
	router := newLimitedRouter(rl)

	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, requestFrom(router, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.2"))
}

func TestRateLimiter_RemoveIdle(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(1), 1)
	defer rl.Stop()

	rl.getVisitor("10.0.0.1")
	rl.getVisitor("10.0.0.2")
	rl.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)

	rl.removeIdle(visitorIdleTimeout)

	assert.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(1), 1)

	assert.NotPanics(t, func() {
		rl.Stop()
		rl.Stop()
	})
}
