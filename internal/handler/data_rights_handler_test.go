package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataRightsPreview_MissingEmail(t *testing.T) {
	handler := NewDataRightsHandler(nil)

	c, w := newTestGinContext("GET", "/api/community/data-rights", nil)
	handler.Preview(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Email parameter is required", resp["message"])
}

func TestDataRightsHandleRequest_ValidationErrors(t *testing.T) {
	// All of these fail before the service is consulted.
	handler := NewDataRightsHandler(nil)

	tests := []struct {
		name        string
		body        interface{}
		wantMessage string
	}{
		{
			name:        "empty body",
			body:        nil,
			wantMessage: "Email is required",
		},
		{
			name:        "missing email",
			body:        map[string]string{"type": "export"},
			wantMessage: "Email is required",
		},
		{
			name:        "missing type",
			body:        map[string]string{"email": "person@example.com"},
			wantMessage: "Invalid request type",
		},
		{
			name:        "unknown type",
			body:        map[string]string{"email": "person@example.com", "type": "forget-me"},
			wantMessage: "Invalid request type",
		},
		{
			// An export is audited, so a bad format must be rejected
			// before any data_exported entry could be written. The nil
			// service guarantees this test fails if storage is reached.
			name:        "unknown export format",
			body:        map[string]string{"email": "person@example.com", "type": "export", "format": "bogus"},
			wantMessage: "Invalid export format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext("POST", "/api/community/data-rights", tt.body)
			handler.HandleRequest(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, tt.wantMessage, resp["message"])
		})
	}
}

func TestSanitizeForExport(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain value", "plain value"},
		{"=SUM(A1:A9)", "'=SUM(A1:A9)"},
		{"+44 1234", "'+44 1234"},
		{"-formula", "'-formula"},
		{"@handle", "'@handle"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeForExport(tt.in), "input %q", tt.in)
	}
}
