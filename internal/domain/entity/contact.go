package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Contact statuses.
const (
	ContactStatusActive = "active"
)

// ContactTypeSubscriber marks contacts created through the public signup.
const ContactTypeSubscriber = "subscriber"

// Contact is a person record keyed by normalized email. It carries the
// subscription preferences, the consent state and the referral identity
// for one member of the community.
type Contact struct {
	ID            string         `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FirstName     string         `gorm:"size:100;default:''" json:"first_name,omitempty"`
	PreferredName string         `gorm:"size:100;default:''" json:"preferred_name,omitempty"`
	Pronouns      string         `gorm:"size:50;default:''" json:"pronouns,omitempty"`
	ContactType   pq.StringArray `gorm:"type:text[]" json:"contact_type"`
	Status        string         `gorm:"size:20;not null;default:'active'" json:"status"`

	Subscriptions Subscriptions `gorm:"type:jsonb;not null" json:"subscriptions"`

	ConsentGiven         bool       `gorm:"not null;default:false" json:"consent_given"`
	ConsentTimestamp     *time.Time `gorm:"type:timestamptz" json:"consent_timestamp,omitempty"`
	ConsentMethod        string     `gorm:"size:50;default:''" json:"consent_method,omitempty"`
	ConsentTextHash      string     `gorm:"size:64;default:''" json:"consent_text_hash,omitempty"`
	PrivacyPolicyVersion string     `gorm:"size:20;default:''" json:"privacy_policy_version,omitempty"`

	SignupSource    string `gorm:"size:100;default:''" json:"signup_source,omitempty"`
	SignupSourceURL string `gorm:"size:500;default:''" json:"signup_source_url,omitempty"`
	SignupReferrer  string `gorm:"size:500;default:''" json:"signup_referrer,omitempty"`

	// ReferralCode is assigned exactly once and stays stable for the
	// lifetime of the contact.
	ReferralCode  string  `gorm:"size:16;uniqueIndex" json:"referral_code"`
	ReferralCount int     `gorm:"not null;default:0" json:"referral_count"`
	ReferredByID  *string `gorm:"type:uuid" json:"referred_by_id,omitempty"`

	HeartbeatInviteSentAt *time.Time `gorm:"type:timestamptz" json:"heartbeat_invite_sent_at,omitempty"`

	DataExportRequestedAt *time.Time `gorm:"type:timestamptz" json:"data_export_requested_at,omitempty"`
	DataExportCompletedAt *time.Time `gorm:"type:timestamptz" json:"data_export_completed_at,omitempty"`
	DeletionRequestedAt   *time.Time `gorm:"type:timestamptz" json:"deletion_requested_at,omitempty"`
	DeletionScheduledFor  *time.Time `gorm:"type:timestamptz" json:"deletion_scheduled_for,omitempty"`
	UnsubscribedAt        *time.Time `gorm:"type:timestamptz" json:"unsubscribed_at,omitempty"`
	UnsubscribeReason     string     `gorm:"size:100;default:''" json:"unsubscribe_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for GORM.
func (Contact) TableName() string {
	return "contacts"
}

// BeforeCreate assigns a UUID primary key if none was set.
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email address. Every lookup and
// write against the contacts table goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// JSONMap is a free-form jsonb payload.
type JSONMap map[string]interface{}

// Value implements driver.Valuer for jsonb columns.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(JSONMap{})
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for jsonb columns.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}
}
