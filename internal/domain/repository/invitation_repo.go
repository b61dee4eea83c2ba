package repository

import (
	"time"

	"github.com/blkoutuk/community-api/internal/domain/entity"
)

// InvitationRepository is the persistence interface for BLKOUTHUB
// invitation records.
type InvitationRepository interface {
	// Create inserts a new invitation (normally with status pending).
	Create(invitation *entity.HubInvitation) error

	// MarkSent flips the matching pending invitation to sent.
	MarkSent(contactID, email string, sentAt time.Time) error

	// GetAllByContactID returns a contact's invitation history,
	// newest first.
	GetAllByContactID(contactID string) ([]*entity.HubInvitation, error)
}
