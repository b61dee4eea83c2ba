package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blkoutuk/community-api/internal/service"
)

func TestShareGetShareInfo_MissingEmail(t *testing.T) {
	handler := NewShareHandler(service.NewShareService(nil, nil, "https://crm.example.org"))

	c, w := newTestGinContext("GET", "/api/community/share", nil)
	handler.GetShareInfo(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Email is required", resp["message"])
}

func TestShareTrackClick_MissingCode(t *testing.T) {
	// TrackClick rejects an empty code before touching storage.
	handler := NewShareHandler(service.NewShareService(nil, nil, "https://crm.example.org"))

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "empty body", body: nil},
		{name: "no referral code", body: map[string]string{"source": "whatsapp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext("POST", "/api/community/share/click", tt.body)
			handler.TrackClick(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, "Referral code is required", resp["message"])
		})
	}
}
