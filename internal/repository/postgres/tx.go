package postgres

import (
	"gorm.io/gorm"

	"github.com/blkoutuk/community-api/internal/domain/repository"
)

// TxManager implements repository.Atomic on top of gorm transactions.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a new transaction manager.
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transact runs fn inside one database transaction. The repositories
// passed to fn share that transaction, so an error from any write
// rolls back all of them.
func (m *TxManager) Transact(fn func(contacts repository.ContactRepository, consentLog repository.ConsentLogRepository, referrals repository.ReferralRepository) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewContactRepo(tx), NewConsentLogRepo(tx), NewReferralRepo(tx))
	})
}
