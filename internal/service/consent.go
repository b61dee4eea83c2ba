package service

import (
	"crypto/sha256"
	"encoding/hex"
)

// ConsentVersion identifies the privacy policy version the consent text
// refers to. Bump it whenever ConsentText changes.
const ConsentVersion = "1.0"

// ConsentMethodSignupWidget tags consent captured through the signup widget.
const ConsentMethodSignupWidget = "signup_widget_v1"

// ConsentText is the exact wording shown to the user. It is stored
// verbatim in the audit trail and hashed into the contact record so a
// later dispute can prove which text was agreed to.
const ConsentText = `I understand that BLKOUT will:
- Store my email and optional name securely on UK-hosted servers
- Send me updates based on my subscription preferences
- Never sell or share my data with third parties
- Allow me to access, export, or delete my data at any time

I agree to the BLKOUT Privacy Policy (version ` + ConsentVersion + `).`

// ConsentTextHash returns the hex-encoded SHA-256 of ConsentText.
func ConsentTextHash() string {
	sum := sha256.Sum256([]byte(ConsentText))
	return hex.EncodeToString(sum[:])
}
