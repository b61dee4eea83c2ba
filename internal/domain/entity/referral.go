package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferralStatusCompleted is the only status a referral edge is created
// with: attribution happens at signup time, there is no pending stage.
const ReferralStatusCompleted = "completed"

// Referral links a referring contact to a newly signed-up contact.
// A contact can be referred at most once, on its first signup.
type Referral struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	ReferrerID   string    `gorm:"type:uuid;not null;index" json:"referrer_id"`
	ReferredID   string    `gorm:"type:uuid;not null;uniqueIndex" json:"referred_id"`
	ReferralCode string    `gorm:"size:16;not null" json:"referral_code"`
	Status       string    `gorm:"size:20;not null;default:'completed'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName sets the table name for GORM.
func (Referral) TableName() string {
	return "referrals"
}

// BeforeCreate assigns a UUID primary key if none was set.
func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
