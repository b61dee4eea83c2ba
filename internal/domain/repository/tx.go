package repository

// Atomic runs a function inside a single storage transaction. The
// repositories handed to fn are bound to that transaction; an error
// from fn rolls every write back. This is what keeps a contact write,
// its consent-ledger entry and any referral attribution from being
// partially applied.
type Atomic interface {
	Transact(fn func(contacts ContactRepository, consentLog ConsentLogRepository, referrals ReferralRepository) error) error
}
