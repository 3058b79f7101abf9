package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func rateTestRouter(perMinute int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimitMiddleware(perMinute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, remoteAddr string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitBlocksBurst(t *testing.T) {
	r := rateTestRouter(2) // burst of 2

	addr := "198.51.100.7:4000"
	assert.Equal(t, http.StatusOK, doRequest(r, addr))
	assert.Equal(t, http.StatusOK, doRequest(r, addr))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, addr))
}

func TestRateLimitPerIP(t *testing.T) {
	r := rateTestRouter(2)

	exhausted := "198.51.100.8:4000"
	doRequest(r, exhausted)
	doRequest(r, exhausted)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, exhausted))

	assert.Equal(t, http.StatusOK, doRequest(r, "198.51.100.9:4000"),
		"another client must not be affected")
}
