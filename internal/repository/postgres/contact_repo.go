package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/blkoutuk/community-api/internal/domain/entity"
	"github.com/blkoutuk/community-api/internal/domain/repository"
	apperrors "github.com/blkoutuk/community-api/internal/pkg/errors"
)

// ContactRepo implements repository.ContactRepository.
type ContactRepo struct {
	db *gorm.DB
}

// NewContactRepo creates a new contact repository.
func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

// Create inserts a new contact, mapping unique violations onto the
// repository sentinel errors so the service can retry appropriately.
func (r *ContactRepo) Create(contact *entity.Contact) error {
	if err := r.db.Create(contact).Error; err != nil {
		if mapped := mapContactUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// GetByEmail returns the contact with the given normalized email.
func (r *ContactRepo) GetByEmail(email string) (*entity.Contact, error) {
	var contact entity.Contact
	err := r.db.Where("email = ?", email).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact by email: %w", err)
	}
	return &contact, nil
}

// GetByReferralCode looks a contact up by referral code, case-insensitively.
func (r *ContactRepo) GetByReferralCode(code string) (*entity.Contact, error) {
	var contact entity.Contact
	err := r.db.Where("UPPER(referral_code) = UPPER(?)", code).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact by referral code: %w", err)
	}
	return &contact, nil
}

// Update persists changes to an existing contact.
func (r *ContactRepo) Update(contact *entity.Contact) error {
	if err := r.db.Save(contact).Error; err != nil {
		if mapped := mapContactUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update contact: %w", err)
	}
	return nil
}

// IncrementReferralCount bumps the referral counter with a store-side
// atomic update, so concurrent referred signups cannot lose increments.
func (r *ContactRepo) IncrementReferralCount(contactID string) error {
	result := r.db.Model(&entity.Contact{}).
		Where("id = ?", contactID).
		UpdateColumn("referral_count", gorm.Expr("referral_count + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("failed to increment referral count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkHubInviteSent stamps the contact's invite-sent timestamp.
func (r *ContactRepo) MarkHubInviteSent(contactID string, at time.Time) error {
	result := r.db.Model(&entity.Contact{}).
		Where("id = ?", contactID).
		UpdateColumn("heartbeat_invite_sent_at", at)
	if result.Error != nil {
		return fmt.Errorf("failed to mark invite sent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// mapContactUniqueViolation translates a 23505 on the contacts table into
// the matching sentinel error, or returns nil for other errors.
func mapContactUniqueViolation(err error) error {
	if !isUniqueViolation(err) {
		return nil
	}
	if constraintMentions(uniqueViolationConstraint(err), "referral_code") {
		return repository.ErrDuplicateReferralCode
	}
	return repository.ErrDuplicateEmail
}
