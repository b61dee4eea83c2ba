package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewsletterSubscribe_ValidationErrors(t *testing.T) {
	handler := NewNewsletterHandler(validationOnlySignupService())

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "empty body", body: nil},
		{name: "missing email", body: map[string]string{"firstName": "Sam"}},
		{name: "malformed email", body: map[string]string{"email": "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext("POST", "/api/newsletter/subscribe", tt.body)
			handler.Subscribe(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, "Valid email is required", resp["message"])
			assert.Equal(t, true, resp["_deprecated"])
			assert.Equal(t, deprecationNotice, resp["_deprecationNotice"])

			// Deprecation headers are present on every response.
			assert.Equal(t, "true", w.Header().Get("Deprecation"))
			assert.Equal(t, successorLinkValue, w.Header().Get("Link"))
		})
	}
}

func TestNewsletterStatus(t *testing.T) {
	handler := NewNewsletterHandler(nil)

	c, w := newTestGinContext("GET", "/api/newsletter/subscribe", nil)
	handler.Status(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, true, resp["deprecated"])
	assert.Equal(t, deprecationNotice, resp["message"])
	assert.Equal(t, successorEndpoint, resp["newEndpoint"])

	assert.Equal(t, "true", w.Header().Get("Deprecation"))
	assert.Equal(t, successorLinkValue, w.Header().Get("Link"))
}
