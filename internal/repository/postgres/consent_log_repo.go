package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/blkoutuk/community-api/internal/domain/entity"
)

// ConsentLogRepo implements repository.ConsentLogRepository.
// The audit trail is append-only: no update or delete methods exist.
type ConsentLogRepo struct {
	db *gorm.DB
}

// NewConsentLogRepo creates a new consent log repository.
func NewConsentLogRepo(db *gorm.DB) *ConsentLogRepo {
	return &ConsentLogRepo{db: db}
}

// Create appends a new audit entry.
func (r *ConsentLogRepo) Create(entry *entity.ConsentLogEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create consent log entry: %w", err)
	}
	return nil
}

// GetAllByContactID returns a contact's full history, newest first.
func (r *ConsentLogRepo) GetAllByContactID(contactID string) ([]*entity.ConsentLogEntry, error) {
	var entries []*entity.ConsentLogEntry
	err := r.db.Where("contact_id = ?", contactID).Order("created_at DESC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get consent log entries: %w", err)
	}
	return entries, nil
}
