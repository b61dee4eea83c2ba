package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/blkoutuk/community-api/internal/domain/entity"
	"github.com/blkoutuk/community-api/internal/domain/repository"
	"github.com/blkoutuk/community-api/internal/handler/dto"
	apperrors "github.com/blkoutuk/community-api/internal/pkg/errors"
)

// hubInvitationURLFormat is the self-service invitation link included in
// every invitation record, independent of the Heartbeat API call.
const hubInvitationURLFormat = "https://blkouthub.com/invitation?code=BE862C&email=%s"

// maxCodeAttempts bounds the regenerate-and-retry loop for referral code
// collisions.
const maxCodeAttempts = 3

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail applies the basic syntactic check used at the signup
// boundary.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// RequestMeta carries the requester context recorded in the audit trail.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// SignupService orchestrates a community signup: validation, idempotent
// upsert-with-merge against the contact store, consent audit logging,
// referral attribution and best-effort fan-out to external platforms.
// The contact write, its consent-ledger entry and the referral
// attribution are committed in one transaction.
type SignupService struct {
	contactRepo    repository.ContactRepository
	atomic         repository.Atomic
	invitationRepo repository.InvitationRepository
	mailingList    MailingListClient
	inviteClient   CommunityInviteClient
	baseURL        string
	mailingGate    *fanoutGate
	inviteGate     *fanoutGate
}

// NewSignupService creates a new signup orchestrator.
func NewSignupService(
	contactRepo repository.ContactRepository,
	atomic repository.Atomic,
	invitationRepo repository.InvitationRepository,
	mailingList MailingListClient,
	inviteClient CommunityInviteClient,
	baseURL string,
) *SignupService {
	return &SignupService{
		contactRepo:    contactRepo,
		atomic:         atomic,
		invitationRepo: invitationRepo,
		mailingList:    mailingList,
		inviteClient:   inviteClient,
		baseURL:        baseURL,
		mailingGate:    newFanoutGate(fanoutCooldown),
		inviteGate:     newFanoutGate(fanoutCooldown),
	}
}

// Join processes one signup request. Contact, consent-log and referral
// writes are must-succeed and transactional; mailing-list sync and the
// community invite are best-effort and never fail the response.
func (s *SignupService) Join(ctx context.Context, req *dto.JoinRequest, meta RequestMeta) (*dto.JoinResponse, error) {
	if !IsValidEmail(req.Email) {
		return nil, ErrInvalidEmail
	}
	if !req.ConsentGiven {
		return nil, ErrConsentRequired
	}

	email := entity.NormalizeEmail(req.Email)
	now := time.Now()

	// Referrer lookup is non-fatal: an unknown or mistyped code still
	// lets the signup through, just without attribution.
	var referrer *entity.Contact
	if req.ReferrerCode != "" {
		found, err := s.contactRepo.GetByReferralCode(req.ReferrerCode)
		if err == nil {
			referrer = found
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[SignupService] referrer lookup failed for code=%s: %v", req.ReferrerCode, err)
		}
	}

	contact, err := s.contactRepo.GetByEmail(email)
	isNew := false
	switch {
	case err == nil:
		if err := s.updateExisting(contact, req, now, meta); err != nil {
			return nil, err
		}
	case errors.Is(err, apperrors.ErrNotFound):
		contact, isNew, err = s.createContact(email, req, referrer, now, meta)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	inviteSent := false
	if req.Subscriptions.Newsletter {
		if s.mailingGate.allow() {
			err := s.mailingList.Submit(ctx, email, req.FirstName)
			s.mailingGate.observe(err)
			if err != nil {
				log.Printf("[SignupService] mailing list sync failed for %s: %v", email, err)
			}
		} else {
			log.Printf("[SignupService] mailing list sync skipped for %s: recent failure", email)
		}
	}
	if req.Subscriptions.Blkouthub {
		inviteSent = s.sendHubInvitation(ctx, contact, req.FirstName)
	}

	return &dto.JoinResponse{
		Success:             true,
		Message:             welcomeMessage(req.Subscriptions, isNew),
		ContactID:           contact.ID,
		BlkouthubInviteSent: inviteSent,
		ReferralCode:        contact.ReferralCode,
		ShareURL:            ShareURL(s.baseURL, contact.ReferralCode),
	}, nil
}

// updateExisting merges a repeat signup into the stored contact.
// Subscriptions are OR'd, consent is forced true and refreshed, and the
// referral code is preserved (or assigned if this contact predates
// referral codes). Referrer attribution is never changed here. The
// contact update and its audit entry commit together.
func (s *SignupService) updateExisting(contact *entity.Contact, req *dto.JoinRequest, now time.Time, meta RequestMeta) error {
	contact.Subscriptions = contact.Subscriptions.Merge(req.Subscriptions)
	contact.ConsentGiven = true
	contact.ConsentTimestamp = &now
	contact.ConsentMethod = ConsentMethodSignupWidget
	contact.ConsentTextHash = ConsentTextHash()
	contact.PrivacyPolicyVersion = ConsentVersion
	if req.FirstName != "" {
		contact.FirstName = req.FirstName
	}

	save := func(contacts repository.ContactRepository, consentLog repository.ConsentLogRepository, _ repository.ReferralRepository) error {
		if err := contacts.Update(contact); err != nil {
			return err
		}
		return consentLog.Create(s.consentEntry(contact.ID, req, false, meta))
	}

	if contact.ReferralCode != "" {
		return s.atomic.Transact(save)
	}

	// A collision poisons the transaction, so each regeneration attempt
	// runs in a fresh one.
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GenerateReferralCode()
		if err != nil {
			return err
		}
		contact.ReferralCode = code

		err = s.atomic.Transact(save)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateReferralCode) {
			return err
		}
	}
	return fmt.Errorf("could not assign a unique referral code after %d attempts", maxCodeAttempts)
}

// createContact inserts a new contact together with its referral
// attribution and consent entry, all in one transaction. A referral-code
// collision regenerates the code and retries with a fresh transaction; a
// concurrent insert of the same email falls back to the update path
// instead of failing the request.
func (s *SignupService) createContact(email string, req *dto.JoinRequest, referrer *entity.Contact, now time.Time, meta RequestMeta) (*entity.Contact, bool, error) {
	var referredByID *string
	if referrer != nil {
		referredByID = &referrer.ID
	}

	source := req.Source
	if source == "" {
		source = "widget"
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GenerateReferralCode()
		if err != nil {
			return nil, false, err
		}

		contact := &entity.Contact{
			Email:                email,
			FirstName:            req.FirstName,
			ContactType:          []string{entity.ContactTypeSubscriber},
			Status:               entity.ContactStatusActive,
			Subscriptions:        req.Subscriptions,
			ConsentGiven:         true,
			ConsentTimestamp:     &now,
			ConsentMethod:        ConsentMethodSignupWidget,
			ConsentTextHash:      ConsentTextHash(),
			PrivacyPolicyVersion: ConsentVersion,
			SignupSource:         source,
			SignupSourceURL:      req.SourceURL,
			SignupReferrer:       req.Referrer,
			ReferralCode:         code,
			ReferredByID:         referredByID,
		}

		err = s.atomic.Transact(func(contacts repository.ContactRepository, consentLog repository.ConsentLogRepository, referrals repository.ReferralRepository) error {
			if err := contacts.Create(contact); err != nil {
				return err
			}
			if referrer != nil {
				err := referrals.Create(&entity.Referral{
					ReferrerID:   referrer.ID,
					ReferredID:   contact.ID,
					ReferralCode: strings.ToUpper(referrer.ReferralCode),
					Status:       entity.ReferralStatusCompleted,
				})
				if err != nil {
					return err
				}
				if err := contacts.IncrementReferralCount(referrer.ID); err != nil {
					return err
				}
			}
			return consentLog.Create(s.consentEntry(contact.ID, req, true, meta))
		})
		if err == nil {
			return contact, true, nil
		}
		if errors.Is(err, repository.ErrDuplicateReferralCode) {
			continue
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost a race with a concurrent first signup for the same
			// email: re-read and continue as an update.
			existing, readErr := s.contactRepo.GetByEmail(email)
			if readErr != nil {
				return nil, false, readErr
			}
			if updErr := s.updateExisting(existing, req, now, meta); updErr != nil {
				return nil, false, updErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return nil, false, fmt.Errorf("could not assign a unique referral code after %d attempts", maxCodeAttempts)
}

// consentEntry builds the audit-trail entry for this request.
func (s *SignupService) consentEntry(contactID string, req *dto.JoinRequest, isNew bool, meta RequestMeta) *entity.ConsentLogEntry {
	action := entity.ConsentActionSubscriptionChanged
	if isNew {
		action = entity.ConsentActionGiven
	}

	details := entity.JSONMap{
		"subscriptions": req.Subscriptions,
		"source":        req.Source,
		"isNewContact":  isNew,
	}
	if req.ReferrerCode != "" {
		details["referrerCode"] = req.ReferrerCode
	} else {
		details["referrerCode"] = nil
	}

	return &entity.ConsentLogEntry{
		ContactID:   contactID,
		Action:      action,
		Details:     details,
		ConsentText: ConsentText,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
	}
}

// sendHubInvitation creates the pending invitation record and, when the
// Heartbeat API is configured, attempts the external invite. Returns
// whether the invite was confirmed sent. Every failure path leaves the
// record pending for manual reconciliation.
func (s *SignupService) sendHubInvitation(ctx context.Context, contact *entity.Contact, firstName string) bool {
	invitationURL := fmt.Sprintf(hubInvitationURLFormat, url.QueryEscape(contact.Email))

	err := s.invitationRepo.Create(&entity.HubInvitation{
		ContactID:     contact.ID,
		Email:         contact.Email,
		InvitationURL: invitationURL,
		Status:        entity.InvitationStatusPending,
	})
	if err != nil {
		log.Printf("[SignupService] failed to create invitation record for %s: %v", contact.ID, err)
	}

	if !s.inviteClient.Enabled() {
		return false
	}
	if !s.inviteGate.allow() {
		log.Printf("[SignupService] hub invitation skipped for %s: recent failure", contact.Email)
		return false
	}

	err = s.inviteClient.Invite(ctx, contact.Email, firstName)
	s.inviteGate.observe(err)
	if err != nil {
		log.Printf("[SignupService] hub invitation failed for %s: %v", contact.Email, err)
		return false
	}

	now := time.Now()
	if err := s.invitationRepo.MarkSent(contact.ID, contact.Email, now); err != nil {
		log.Printf("[SignupService] failed to mark invitation sent for %s: %v", contact.ID, err)
	}
	if err := s.contactRepo.MarkHubInviteSent(contact.ID, now); err != nil {
		log.Printf("[SignupService] failed to stamp invite-sent on contact %s: %v", contact.ID, err)
	}
	return true
}

// ShareURL builds the fully-qualified share URL for a referral code.
func ShareURL(baseURL, referralCode string) string {
	return fmt.Sprintf("%s/join?ref=%s", baseURL, referralCode)
}

// welcomeMessage enumerates the accepted subscriptions, joined with
// commas and a final "and".
func welcomeMessage(subs entity.Subscriptions, isNew bool) string {
	var parts []string
	if subs.Newsletter {
		parts = append(parts, "weekly community updates")
	}
	if subs.Events {
		parts = append(parts, "event notifications")
	}
	if subs.Blkouthub {
		parts = append(parts, "a BLKOUTHUB invitation (check your email)")
	}
	if subs.Volunteer {
		parts = append(parts, "volunteer opportunities - we'll be in touch")
	}

	if len(parts) == 0 {
		if isNew {
			return "Welcome to BLKOUT! Your preferences have been saved."
		}
		return "Your preferences have been updated."
	}

	joined := joinWithAnd(parts)
	if isNew {
		return fmt.Sprintf("Welcome to BLKOUT! You'll receive %s.", joined)
	}
	return fmt.Sprintf("Your preferences have been updated. You'll receive %s.", joined)
}

// joinWithAnd joins items with commas, using " and " before the last one.
func joinWithAnd(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}
