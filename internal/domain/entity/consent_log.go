package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Consent log actions. One entry is written per significant state
// transition, synchronously with the transition it documents.
const (
	ConsentActionGiven               = "consent_given"
	ConsentActionSubscriptionChanged = "subscription_changed"
	ConsentActionDataExported        = "data_exported"
	ConsentActionDeletionRequested   = "deletion_requested"
)

// ConsentLogEntry is an immutable audit record of a consent-relevant
// action taken against a contact. The application only ever appends to
// this table.
type ConsentLogEntry struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	ContactID   string    `gorm:"type:uuid;not null;index" json:"contact_id"`
	Action      string    `gorm:"size:50;not null" json:"action"`
	Details     JSONMap   `gorm:"type:jsonb" json:"details,omitempty"`
	ConsentText string    `gorm:"type:text;default:''" json:"consent_text,omitempty"`
	IPAddress   string    `gorm:"size:50;default:''" json:"ip_address,omitempty"`
	UserAgent   string    `gorm:"type:text;default:''" json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName sets the table name for GORM.
func (ConsentLogEntry) TableName() string {
	return "consent_log"
}

// BeforeCreate assigns a UUID primary key if none was set.
func (e *ConsentLogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
