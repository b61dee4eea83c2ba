package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blkoutuk/community-api/internal/domain/entity"
	"github.com/blkoutuk/community-api/internal/handler/dto"
	"github.com/blkoutuk/community-api/internal/service"
)

// Deprecation metadata attached to every legacy response.
const (
	deprecationNotice  = "This endpoint is deprecated. Please use /api/community/join instead."
	successorEndpoint  = "/api/community/join"
	successorLinkValue = `</api/community/join>; rel="successor-version"`
)

// legacyImpliedConsent preserves the legacy endpoint's behavior of never
// capturing explicit consent. This is a backward-compatibility shim for
// existing integrations, not current policy: new clients must send
// consentGiven through /api/community/join.
const legacyImpliedConsent = true

// legacySignupSource tags contacts that arrived through the deprecated
// newsletter widget.
const legacySignupSource = "legacy_newsletter_widget"

// legacyRequest is the older newsletter-only subscribe shape.
type legacyRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
}

// NewsletterHandler adapts the deprecated /api/newsletter/subscribe
// endpoint onto the canonical signup flow.
type NewsletterHandler struct {
	signupService *service.SignupService
}

// NewNewsletterHandler creates a new legacy newsletter handler.
func NewNewsletterHandler(signupService *service.SignupService) *NewsletterHandler {
	return &NewsletterHandler{signupService: signupService}
}

func setDeprecationHeaders(c *gin.Context) {
	c.Header("Deprecation", "true")
	c.Header("Link", successorLinkValue)
}

// Subscribe handles POST /api/newsletter/subscribe: it synthesizes a
// canonical join request, runs it through the orchestrator and relays
// the result decorated with deprecation metadata.
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	setDeprecationHeaders(c)

	var legacy legacyRequest
	if err := c.ShouldBindJSON(&legacy); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":            false,
			"message":            "Valid email is required",
			"_deprecated":        true,
			"_deprecationNotice": deprecationNotice,
		})
		return
	}

	unified := &dto.JoinRequest{
		Email:     legacy.Email,
		FirstName: legacy.FirstName,
		Subscriptions: entity.Subscriptions{
			Newsletter: true,
		},
		ConsentGiven: legacyImpliedConsent,
		Source:       legacySignupSource,
	}

	resp, err := h.signupService.Join(c.Request.Context(), unified, requestMeta(c))
	if err != nil {
		status := http.StatusInternalServerError
		message := "Failed to subscribe"
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			status = http.StatusBadRequest
			message = "Valid email is required"
		case errors.Is(err, service.ErrConsentRequired):
			status = http.StatusBadRequest
			message = "Consent is required to join"
		default:
			log.Printf("[NewsletterHandler] legacy subscription failed: %v", err)
		}
		c.JSON(status, gin.H{
			"success":            false,
			"message":            message,
			"_deprecated":        true,
			"_deprecationNotice": deprecationNotice,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             resp.Success,
		"message":             resp.Message,
		"contactId":           resp.ContactID,
		"blkouthubInviteSent": resp.BlkouthubInviteSent,
		"referralCode":        resp.ReferralCode,
		"shareUrl":            resp.ShareURL,
		"_deprecated":         true,
		"_deprecationNotice":  deprecationNotice,
	})
}

// Status handles GET /api/newsletter/subscribe with a static
// deprecation notice.
func (h *NewsletterHandler) Status(c *gin.Context) {
	setDeprecationHeaders(c)
	c.JSON(http.StatusOK, gin.H{
		"deprecated":    true,
		"message":       deprecationNotice,
		"newEndpoint":   successorEndpoint,
		"documentation": "/api/community/join returns consent text and version via GET",
	})
}
