package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/blkoutuk/community-api/internal/domain/entity"
	"github.com/blkoutuk/community-api/internal/domain/repository"
	"github.com/blkoutuk/community-api/internal/handler/dto"
)

// ShareService serves referral share links and records click analytics.
type ShareService struct {
	contactRepo    repository.ContactRepository
	shareClickRepo repository.ShareClickRepository
	baseURL        string
}

// NewShareService creates a new share service.
func NewShareService(contactRepo repository.ContactRepository, shareClickRepo repository.ShareClickRepository, baseURL string) *ShareService {
	return &ShareService{
		contactRepo:    contactRepo,
		shareClickRepo: shareClickRepo,
		baseURL:        baseURL,
	}
}

// GetShareInfo returns a member's referral code, count and pre-built
// share links. Propagates ErrNotFound for unknown emails.
func (s *ShareService) GetShareInfo(email string) (*dto.ShareData, error) {
	contact, err := s.contactRepo.GetByEmail(entity.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	shareURL := ShareURL(s.baseURL, contact.ReferralCode)

	return &dto.ShareData{
		FirstName:     contact.FirstName,
		ReferralCode:  contact.ReferralCode,
		ReferralCount: contact.ReferralCount,
		ShareURL:      shareURL,
		ShareLinks:    buildShareLinks(shareURL),
	}, nil
}

// TrackClick records a share-link click. The code is uppercased but not
// validated against existing contacts: tracking noise from clients must
// never fail.
func (s *ShareService) TrackClick(req *dto.ClickRequest, meta RequestMeta) error {
	if req.ReferralCode == "" {
		return ErrReferralCodeMissing
	}

	source := req.Source
	if source == "" {
		source = "direct"
	}

	return s.shareClickRepo.Create(&entity.ShareLinkClick{
		ReferralCode: strings.ToUpper(req.ReferralCode),
		Source:       source,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	})
}

// buildShareLinks produces the channel share-intent URLs, each with a
// fixed templated message around the share URL.
func buildShareLinks(shareURL string) dto.ShareLinks {
	whatsappText := fmt.Sprintf("Join the BLKOUT community - a platform for Black queer men in the UK: %s", shareURL)
	twitterText := "Join @BLKOUTUK - a community-owned platform for Black queer men in the UK"
	emailSubject := "Join the BLKOUT community"
	emailBody := fmt.Sprintf("Hey,\n\nI thought you might be interested in BLKOUT - a community-owned platform for Black queer men in the UK.\n\nJoin here: %s\n\nSee you there!", shareURL)

	return dto.ShareLinks{
		WhatsApp: fmt.Sprintf("https://wa.me/?text=%s", url.QueryEscape(whatsappText)),
		Twitter:  fmt.Sprintf("https://twitter.com/intent/tweet?text=%s&url=%s", url.QueryEscape(twitterText), url.QueryEscape(shareURL)),
		Email:    fmt.Sprintf("mailto:?subject=%s&body=%s", url.QueryEscape(emailSubject), url.QueryEscape(emailBody)),
		Copy:     shareURL,
	}
}
