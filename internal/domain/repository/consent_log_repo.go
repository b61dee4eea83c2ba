package repository

import "github.com/blkoutuk/community-api/internal/domain/entity"

// ConsentLogRepository is the persistence interface for the append-only
// consent audit trail. There are deliberately no update or delete
// operations.
type ConsentLogRepository interface {
	// Create appends a new audit entry.
	Create(entry *entity.ConsentLogEntry) error

	// GetAllByContactID returns a contact's full history, newest first.
	GetAllByContactID(contactID string) ([]*entity.ConsentLogEntry, error)
}
