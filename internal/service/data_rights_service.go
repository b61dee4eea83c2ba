package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/blkoutuk/community-api/internal/domain/entity"
	"github.com/blkoutuk/community-api/internal/domain/repository"
	"github.com/blkoutuk/community-api/internal/handler/dto"
)

// deletionGraceDays is the retention window between an erasure request
// and the actual purge, which runs as a separate batch process honoring
// deletion_scheduled_for.
const deletionGraceDays = 30

// UnsubscribeReasonDeletion marks an unsubscribe caused by an erasure
// request rather than an explicit preference change.
const UnsubscribeReasonDeletion = "deletion_request"

// DataRightsService implements the GDPR access (export) and erasure
// (scheduled deletion) workflows against the contact store.
type DataRightsService struct {
	contactRepo    repository.ContactRepository
	consentLogRepo repository.ConsentLogRepository
	invitationRepo repository.InvitationRepository
	atomic         repository.Atomic
	emailService   EmailService
}

// NewDataRightsService creates a new data-rights service.
func NewDataRightsService(
	contactRepo repository.ContactRepository,
	consentLogRepo repository.ConsentLogRepository,
	invitationRepo repository.InvitationRepository,
	atomic repository.Atomic,
	emailService EmailService,
) *DataRightsService {
	return &DataRightsService{
		contactRepo:    contactRepo,
		consentLogRepo: consentLogRepo,
		invitationRepo: invitationRepo,
		atomic:         atomic,
		emailService:   emailService,
	}
}

// Preview returns the non-sensitive summary of what is held for an
// email. Propagates ErrNotFound for unknown emails; the handler maps
// that onto a found:false response rather than an error.
func (s *DataRightsService) Preview(email string) (*dto.DataPreview, error) {
	contact, err := s.contactRepo.GetByEmail(entity.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return &dto.DataPreview{
		Email:         contact.Email,
		HasFirstName:  contact.FirstName != "",
		Subscriptions: contact.Subscriptions,
		ConsentGiven:  contact.ConsentGiven,
		MemberSince:   contact.CreatedAt,
	}, nil
}

// Export compiles everything held about a contact: the profile, the
// complete consent history (newest first) and all invitation attempts.
// The export itself is audited, so an immediately repeated export sees
// one more history entry than this one returned.
func (s *DataRightsService) Export(email string) (*dto.ExportBundle, time.Time, error) {
	contact, err := s.contactRepo.GetByEmail(entity.NormalizeEmail(email))
	if err != nil {
		return nil, time.Time{}, err
	}

	entries, err := s.consentLogRepo.GetAllByContactID(contact.ID)
	if err != nil {
		return nil, time.Time{}, err
	}

	invitations, err := s.invitationRepo.GetAllByContactID(contact.ID)
	if err != nil {
		return nil, time.Time{}, err
	}

	bundle := &dto.ExportBundle{
		Email:            contact.Email,
		FirstName:        contact.FirstName,
		PreferredName:    contact.PreferredName,
		Pronouns:         contact.Pronouns,
		Subscriptions:    contact.Subscriptions,
		ConsentGiven:     contact.ConsentGiven,
		ConsentTimestamp: contact.ConsentTimestamp,
		SignupSource:     contact.SignupSource,
		CreatedAt:        contact.CreatedAt,
		AuditLog:         make([]dto.AuditLogExport, 0, len(entries)),
		Invitations:      make([]dto.InvitationExport, 0, len(invitations)),
	}
	for _, e := range entries {
		bundle.AuditLog = append(bundle.AuditLog, dto.AuditLogExport{
			Action:    e.Action,
			Timestamp: e.CreatedAt,
			Details:   e.Details,
		})
	}
	for _, inv := range invitations {
		bundle.Invitations = append(bundle.Invitations, dto.InvitationExport{
			Status:     inv.Status,
			SentAt:     inv.SentAt,
			AcceptedAt: inv.AcceptedAt,
		})
	}

	now := time.Now()

	// Export is synchronous: both timestamps are the completion time.
	contact.DataExportRequestedAt = &now
	contact.DataExportCompletedAt = &now

	err = s.atomic.Transact(func(contacts repository.ContactRepository, consentLog repository.ConsentLogRepository, _ repository.ReferralRepository) error {
		err := consentLog.Create(&entity.ConsentLogEntry{
			ContactID: contact.ID,
			Action:    entity.ConsentActionDataExported,
			Details:   entity.JSONMap{"exportedAt": now.Format(time.RFC3339)},
		})
		if err != nil {
			return err
		}
		return contacts.Update(contact)
	})
	if err != nil {
		return nil, time.Time{}, err
	}

	return bundle, now, nil
}

// RequestDeletion schedules erasure 30 days out and immediately
// unsubscribes the contact from everything. The record itself persists
// until the out-of-scope purge job honors deletion_scheduled_for.
func (s *DataRightsService) RequestDeletion(ctx context.Context, email string) (*dto.DeletionConfirmation, error) {
	contact, err := s.contactRepo.GetByEmail(entity.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	deletionDate := now.AddDate(0, 0, deletionGraceDays)

	contact.Subscriptions = entity.Subscriptions{}
	contact.UnsubscribedAt = &now
	contact.UnsubscribeReason = UnsubscribeReasonDeletion
	contact.DeletionRequestedAt = &now
	contact.DeletionScheduledFor = &deletionDate

	err = s.atomic.Transact(func(contacts repository.ContactRepository, consentLog repository.ConsentLogRepository, _ repository.ReferralRepository) error {
		err := consentLog.Create(&entity.ConsentLogEntry{
			ContactID: contact.ID,
			Action:    entity.ConsentActionDeletionRequested,
			Details: entity.JSONMap{
				"email":       contact.Email,
				"requestedAt": now.Format(time.RFC3339),
			},
		})
		if err != nil {
			return err
		}
		return contacts.Update(contact)
	})
	if err != nil {
		return nil, err
	}

	if err := s.emailService.SendDeletionNotice(ctx, contact.Email, deletionDate); err != nil {
		log.Printf("[DataRightsService] deletion notice failed for %s: %v", contact.Email, err)
	}

	message := fmt.Sprintf(
		"Your deletion request has been received. Your data will be permanently deleted on %s. "+
			"You have been immediately unsubscribed from all communications.",
		deletionDate.Format("02/01/2006"),
	)

	return &dto.DeletionConfirmation{
		Message:              message,
		DeletionScheduledFor: deletionDate,
	}, nil
}
