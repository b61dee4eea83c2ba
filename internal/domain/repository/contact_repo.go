package repository

import (
	"time"

	"github.com/blkoutuk/community-api/internal/domain/entity"
)

// ContactRepository is the persistence interface for contacts.
// Email arguments are expected to be normalized by the caller.
type ContactRepository interface {
	// Create inserts a new contact. Returns ErrDuplicateEmail or
	// ErrDuplicateReferralCode on the corresponding unique violations.
	Create(contact *entity.Contact) error

	// GetByEmail returns the contact with the given normalized email.
	GetByEmail(email string) (*entity.Contact, error)

	// GetByReferralCode looks a contact up by referral code
	// (case-insensitive).
	GetByReferralCode(code string) (*entity.Contact, error)

	// Update persists changes to an existing contact. Returns
	// ErrDuplicateReferralCode if an assigned code collides.
	Update(contact *entity.Contact) error

	// IncrementReferralCount atomically bumps a referrer's count.
	// Delegated to the store so concurrent referred signups cannot
	// lose updates.
	IncrementReferralCount(contactID string) error

	// MarkHubInviteSent stamps the contact's invite-sent timestamp.
	MarkHubInviteSent(contactID string, at time.Time) error
}
