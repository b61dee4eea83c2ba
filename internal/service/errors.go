package service

import "errors"

// Validation errors surfaced to handlers as 400s with specific
// user-facing messages. Neither performs any side effect.
var (
	ErrInvalidEmail        = errors.New("valid email is required")
	ErrConsentRequired     = errors.New("consent is required to join")
	ErrReferralCodeMissing = errors.New("referral code is required")
	ErrInvalidRequestType  = errors.New("invalid request type")
)
