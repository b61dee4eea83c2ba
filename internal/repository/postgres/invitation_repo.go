package postgres

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/blkoutuk/community-api/internal/domain/entity"
)

// InvitationRepo implements repository.InvitationRepository.
type InvitationRepo struct {
	db *gorm.DB
}

// NewInvitationRepo creates a new invitation repository.
func NewInvitationRepo(db *gorm.DB) *InvitationRepo {
	return &InvitationRepo{db: db}
}

// Create inserts a new invitation record.
func (r *InvitationRepo) Create(invitation *entity.HubInvitation) error {
	if err := r.db.Create(invitation).Error; err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

// MarkSent flips the matching pending invitation to sent. Missing rows
// are not an error: the caller treats the stamp as best-effort.
func (r *InvitationRepo) MarkSent(contactID, email string, sentAt time.Time) error {
	err := r.db.Model(&entity.HubInvitation{}).
		Where("contact_id = ? AND email = ?", contactID, email).
		Updates(map[string]interface{}{
			"status":  entity.InvitationStatusSent,
			"sent_at": sentAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark invitation sent: %w", err)
	}
	return nil
}

// GetAllByContactID returns a contact's invitation history, newest first.
func (r *InvitationRepo) GetAllByContactID(contactID string) ([]*entity.HubInvitation, error) {
	var invitations []*entity.HubInvitation
	err := r.db.Where("contact_id = ?", contactID).Order("created_at DESC").Find(&invitations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get invitations: %w", err)
	}
	return invitations, nil
}
