package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blkoutuk/community-api/internal/handler/dto"
	apperrors "github.com/blkoutuk/community-api/internal/pkg/errors"
	"github.com/blkoutuk/community-api/internal/service"
)

// ShareHandler handles referral share links and click tracking.
type ShareHandler struct {
	shareService *service.ShareService
}

// NewShareHandler creates a new share handler.
func NewShareHandler(shareService *service.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

// GetShareInfo handles GET /api/community/share?email=.
func (h *ShareHandler) GetShareInfo(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}

	data, err := h.shareService.GetShareInfo(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Contact not found"})
			return
		}
		log.Printf("[ShareHandler] share lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load share info"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// TrackClick handles POST /api/community/share/click. Note there is
// deliberately no GET handler on this path: click tracking only happens
// on explicit POSTs.
func (h *ShareHandler) TrackClick(c *gin.Context) {
	var req dto.ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Referral code is required"})
		return
	}

	if err := h.shareService.TrackClick(&req, requestMeta(c)); err != nil {
		if errors.Is(err, service.ErrReferralCodeMissing) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Referral code is required"})
			return
		}
		log.Printf("[ShareHandler] click tracking failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to track click"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
