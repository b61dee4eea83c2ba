package repository

import "github.com/blkoutuk/community-api/internal/domain/entity"

// ReferralRepository is the persistence interface for referral edges.
type ReferralRepository interface {
	// Create inserts a referral edge. The unique index on referred_id
	// guarantees at most one edge per referred contact.
	Create(referral *entity.Referral) error

	// GetByReferrerID returns all edges attributed to a referrer.
	GetByReferrerID(referrerID string) ([]*entity.Referral, error)
}

// ShareClickRepository records share-link click analytics events.
type ShareClickRepository interface {
	// Create inserts a click event. Unknown codes are accepted.
	Create(click *entity.ShareLinkClick) error
}
