package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performCORSRequest(method, origin string, allowedOrigins []string) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(CORS(allowedOrigins))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS_AllowedOriginIsEchoed(t *testing.T) {
	w := performCORSRequest("GET", "http://localhost:3000", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_UnknownOriginGetsFallback(t *testing.T) {
	// Never a wildcard: unknown origins receive the first allow-listed
	// origin, which their browser will refuse to match.
	w := performCORSRequest("GET", "https://evil.example.com", nil)

	assert.Equal(t, DefaultAllowedOrigins[0], w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_CustomAllowList(t *testing.T) {
	allowed := []string{"https://app.example.org"}

	w := performCORSRequest("GET", "https://app.example.org", allowed)
	assert.Equal(t, "https://app.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	w = performCORSRequest("GET", "http://localhost:3000", allowed)
	assert.Equal(t, "https://app.example.org", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightAnswered(t *testing.T) {
	w := performCORSRequest("OPTIONS", "http://localhost:3000", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
}
