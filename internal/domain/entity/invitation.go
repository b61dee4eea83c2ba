package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invitation statuses. An invitation is created as pending before the
// external call; it only becomes sent on confirmed success. A failed or
// unconfigured call leaves it pending for manual reconciliation.
const (
	InvitationStatusPending = "pending"
	InvitationStatusSent    = "sent"
)

// HubInvitation records an attempt to invite a contact to the BLKOUTHUB
// community platform.
type HubInvitation struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	ContactID     string     `gorm:"type:uuid;not null;index" json:"contact_id"`
	Email         string     `gorm:"size:255;not null" json:"email"`
	InvitationURL string     `gorm:"size:500;not null" json:"invitation_url"`
	Status        string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	SentAt        *time.Time `gorm:"type:timestamptz" json:"sent_at,omitempty"`
	AcceptedAt    *time.Time `gorm:"type:timestamptz" json:"accepted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TableName sets the table name for GORM.
func (HubInvitation) TableName() string {
	return "hub_invitations"
}

// BeforeCreate assigns a UUID primary key if none was set.
func (i *HubInvitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
