package dto

import (
	"time"

	"github.com/blkoutuk/community-api/internal/domain/entity"
)

// JoinRequest is the canonical signup payload.
type JoinRequest struct {
	Email         string               `json:"email"`
	FirstName     string               `json:"firstName,omitempty"`
	Subscriptions entity.Subscriptions `json:"subscriptions"`
	ConsentGiven  bool                 `json:"consentGiven"`
	Source        string               `json:"source,omitempty"`
	SourceURL     string               `json:"sourceUrl,omitempty"`
	Referrer      string               `json:"referrer,omitempty"`
	ReferrerCode  string               `json:"referrerCode,omitempty"`
}

// JoinResponse is the signup result returned to the client.
type JoinResponse struct {
	Success             bool   `json:"success"`
	Message             string `json:"message"`
	ContactID           string `json:"contactId,omitempty"`
	BlkouthubInviteSent bool   `json:"blkouthubInviteSent"`
	ReferralCode        string `json:"referralCode,omitempty"`
	ShareURL            string `json:"shareUrl,omitempty"`
}

// ConsentInfoResponse tells clients what the user will be agreeing to.
type ConsentInfoResponse struct {
	ConsentVersion   string `json:"consentVersion"`
	ConsentText      string `json:"consentText"`
	PrivacyPolicyURL string `json:"privacyPolicyUrl"`
	DataRequestURL   string `json:"dataRequestUrl"`
}

// ShareLinks holds pre-built share-intent URLs per channel.
type ShareLinks struct {
	WhatsApp string `json:"whatsapp"`
	Twitter  string `json:"twitter"`
	Email    string `json:"email"`
	Copy     string `json:"copy"`
}

// ShareData is a member's referral summary.
type ShareData struct {
	FirstName     string     `json:"firstName"`
	ReferralCode  string     `json:"referralCode"`
	ReferralCount int        `json:"referralCount"`
	ShareURL      string     `json:"shareUrl"`
	ShareLinks    ShareLinks `json:"shareLinks"`
}

// ClickRequest is a share-link click tracking event.
type ClickRequest struct {
	ReferralCode string `json:"referralCode"`
	Source       string `json:"source,omitempty"`
}

// Data-rights request types.
const (
	DataRightsTypeExport = "export"
	DataRightsTypeDelete = "delete"
)

// Export bundle formats. JSON is the default in-body bundle; CSV and
// XLSX are streamed as attachments.
const (
	ExportFormatJSON = "json"
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// DataRightsRequest is a GDPR export or erasure request.
type DataRightsRequest struct {
	Email  string `json:"email"`
	Type   string `json:"type"`
	Format string `json:"format,omitempty"`
}

// DataPreview is the non-sensitive summary of what is on file for an
// email, shown before a full export.
type DataPreview struct {
	Email         string               `json:"email"`
	HasFirstName  bool                 `json:"hasFirstName"`
	Subscriptions entity.Subscriptions `json:"subscriptions"`
	ConsentGiven  bool                 `json:"consentGiven"`
	MemberSince   time.Time            `json:"memberSince"`
}

// AuditLogExport is one consent-log entry in an export bundle.
type AuditLogExport struct {
	Action    string         `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	Details   entity.JSONMap `json:"details,omitempty"`
}

// InvitationExport is one invitation record in an export bundle.
type InvitationExport struct {
	Status     string     `json:"status"`
	SentAt     *time.Time `json:"sentAt,omitempty"`
	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`
}

// ExportBundle is the full compilation of data held about a contact
// (GDPR Article 15).
type ExportBundle struct {
	Email            string               `json:"email"`
	FirstName        string               `json:"firstName,omitempty"`
	PreferredName    string               `json:"preferredName,omitempty"`
	Pronouns         string               `json:"pronouns,omitempty"`
	Subscriptions    entity.Subscriptions `json:"subscriptions"`
	ConsentGiven     bool                 `json:"consentGiven"`
	ConsentTimestamp *time.Time           `json:"consentTimestamp,omitempty"`
	SignupSource     string               `json:"signupSource,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
	AuditLog         []AuditLogExport     `json:"auditLog"`
	Invitations      []InvitationExport   `json:"invitations"`
}

// DeletionConfirmation is the erasure scheduling result (GDPR Article 17).
type DeletionConfirmation struct {
	Message              string    `json:"message"`
	DeletionScheduledFor time.Time `json:"deletionScheduledFor"`
}
