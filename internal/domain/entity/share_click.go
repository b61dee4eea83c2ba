package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShareLinkClick is a write-only analytics event for a share link.
// The code is stored uppercased and is not validated against existing
// contacts: client-side tracking noise must never fail.
type ShareLinkClick struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	ReferralCode string    `gorm:"size:16;not null;index" json:"referral_code"`
	Source       string    `gorm:"size:50;not null;default:'direct'" json:"source"`
	IPAddress    string    `gorm:"size:50;default:''" json:"ip_address,omitempty"`
	UserAgent    string    `gorm:"type:text;default:''" json:"user_agent,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName sets the table name for GORM.
func (ShareLinkClick) TableName() string {
	return "share_link_clicks"
}

// BeforeCreate assigns a UUID primary key if none was set.
func (c *ShareLinkClick) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
