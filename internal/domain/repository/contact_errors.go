package repository

import "errors"

var (
	// ErrDuplicateEmail means an insert hit the unique index on email.
	// Two concurrent first signups for the same address can race here;
	// the caller retries the request as an update.
	ErrDuplicateEmail = errors.New("contact with this email already exists")

	// ErrDuplicateReferralCode means a generated referral code collided
	// with an existing one. The caller regenerates and retries.
	ErrDuplicateReferralCode = errors.New("referral code already in use")
)
