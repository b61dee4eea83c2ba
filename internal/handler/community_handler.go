package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blkoutuk/community-api/internal/handler/dto"
	"github.com/blkoutuk/community-api/internal/service"
)

// CommunityHandler handles the public signup endpoints.
type CommunityHandler struct {
	signupService    *service.SignupService
	privacyPolicyURL string
	dataRequestURL   string
}

// NewCommunityHandler creates a new community signup handler.
func NewCommunityHandler(signupService *service.SignupService, privacyPolicyURL, dataRequestURL string) *CommunityHandler {
	return &CommunityHandler{
		signupService:    signupService,
		privacyPolicyURL: privacyPolicyURL,
		dataRequestURL:   dataRequestURL,
	}
}

// requestMeta pulls the requester IP and user agent from the headers,
// falling back to "unknown" for the audit trail.
func requestMeta(c *gin.Context) service.RequestMeta {
	ip := c.GetHeader("X-Forwarded-For")
	if ip == "" {
		ip = "unknown"
	}
	ua := c.GetHeader("User-Agent")
	if ua == "" {
		ua = "unknown"
	}
	return service.RequestMeta{IPAddress: ip, UserAgent: ua}
}

// Join handles POST /api/community/join.
func (h *CommunityHandler) Join(c *gin.Context) {
	var req dto.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.JoinResponse{Success: false, Message: "Valid email is required"})
		return
	}

	resp, err := h.signupService.Join(c.Request.Context(), &req, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, dto.JoinResponse{Success: false, Message: "Valid email is required"})
		case errors.Is(err, service.ErrConsentRequired):
			c.JSON(http.StatusBadRequest, dto.JoinResponse{Success: false, Message: "Consent is required to join"})
		default:
			log.Printf("[CommunityHandler] signup failed: %v", err)
			c.JSON(http.StatusInternalServerError, dto.JoinResponse{Success: false, Message: "Failed to process signup. Please try again."})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConsentInfo handles GET /api/community/join: it returns the consent
// version and the exact text clients must show before submission.
func (h *CommunityHandler) ConsentInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ConsentInfoResponse{
		ConsentVersion:   service.ConsentVersion,
		ConsentText:      service.ConsentText,
		PrivacyPolicyURL: h.privacyPolicyURL,
		DataRequestURL:   h.dataRequestURL,
	})
}
