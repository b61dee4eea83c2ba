package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blkoutuk/community-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext creates a *gin.Context with an optional JSON body.
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// parseJSONResponse parses the JSON body from a response recorder.
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// validationOnlySignupService builds a SignupService whose validation
// paths reject before any repository is touched, so nil repos are safe.
func validationOnlySignupService() *service.SignupService {
	return service.NewSignupService(nil, nil, nil,
		&service.NoopMailingListClient{}, &service.NoopCommunityInviteClient{}, "https://crm.example.org")
}

// ============================================================================
// Request validation tests: the handler answers 400 before any storage
// access, so a service with nil repositories is sufficient.
// ============================================================================

func TestCommunityJoin_ValidationErrors(t *testing.T) {
	handler := NewCommunityHandler(validationOnlySignupService(), "https://example.org/privacy", "https://example.org/data")

	tests := []struct {
		name        string
		body        interface{}
		wantMessage string
	}{
		{
			name:        "empty body",
			body:        nil,
			wantMessage: "Valid email is required",
		},
		{
			name:        "missing email",
			body:        map[string]interface{}{"consentGiven": true},
			wantMessage: "Valid email is required",
		},
		{
			name:        "malformed email",
			body:        map[string]interface{}{"email": "not-an-email", "consentGiven": true},
			wantMessage: "Valid email is required",
		},
		{
			name:        "consent not given",
			body:        map[string]interface{}{"email": "person@example.com", "consentGiven": false},
			wantMessage: "Consent is required to join",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext("POST", "/api/community/join", tt.body)
			handler.Join(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, tt.wantMessage, resp["message"])
		})
	}
}

func TestCommunityConsentInfo(t *testing.T) {
	handler := NewCommunityHandler(nil, "https://example.org/privacy", "https://example.org/data")

	c, w := newTestGinContext("GET", "/api/community/join", nil)
	handler.ConsentInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, service.ConsentVersion, resp["consentVersion"])
	assert.Equal(t, service.ConsentText, resp["consentText"])
	assert.Equal(t, "https://example.org/privacy", resp["privacyPolicyUrl"])
	assert.Equal(t, "https://example.org/data", resp["dataRequestUrl"])
}

func TestRequestMeta_HeaderFallback(t *testing.T) {
	c, _ := newTestGinContext("POST", "/api/community/join", nil)

	meta := requestMeta(c)
	assert.Equal(t, "unknown", meta.IPAddress)
	assert.Equal(t, "unknown", meta.UserAgent)

	c.Request.Header.Set("X-Forwarded-For", "203.0.113.9")
	c.Request.Header.Set("User-Agent", "test-agent")

	meta = requestMeta(c)
	assert.Equal(t, "203.0.113.9", meta.IPAddress)
	assert.Equal(t, "test-agent", meta.UserAgent)
}
