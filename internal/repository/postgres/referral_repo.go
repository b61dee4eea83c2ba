package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/blkoutuk/community-api/internal/domain/entity"
	apperrors "github.com/blkoutuk/community-api/internal/pkg/errors"
)

// ReferralRepo implements repository.ReferralRepository.
type ReferralRepo struct {
	db *gorm.DB
}

// NewReferralRepo creates a new referral repository.
func NewReferralRepo(db *gorm.DB) *ReferralRepo {
	return &ReferralRepo{db: db}
}

// Create inserts a referral edge. The unique index on referred_id makes
// a second attribution for the same contact a conflict.
func (r *ReferralRepo) Create(referral *entity.Referral) error {
	if err := r.db.Create(referral).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create referral: %w", err)
	}
	return nil
}

// GetByReferrerID returns all edges attributed to a referrer.
func (r *ReferralRepo) GetByReferrerID(referrerID string) ([]*entity.Referral, error) {
	var referrals []*entity.Referral
	err := r.db.Where("referrer_id = ?", referrerID).Order("created_at DESC").Find(&referrals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get referrals: %w", err)
	}
	return referrals, nil
}

// ShareClickRepo implements repository.ShareClickRepository.
type ShareClickRepo struct {
	db *gorm.DB
}

// NewShareClickRepo creates a new share click repository.
func NewShareClickRepo(db *gorm.DB) *ShareClickRepo {
	return &ShareClickRepo{db: db}
}

// Create inserts a click analytics event.
func (r *ShareClickRepo) Create(click *entity.ShareLinkClick) error {
	if err := r.db.Create(click).Error; err != nil {
		return fmt.Errorf("failed to create share click: %w", err)
	}
	return nil
}
