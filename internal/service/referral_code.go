package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// referralCodeBytes is the amount of randomness behind a referral code:
// 4 bytes give 8 hex characters and ~4.3 billion combinations.
const referralCodeBytes = 4

// GenerateReferralCode produces an 8-character uppercase hexadecimal
// referral code from cryptographically strong randomness. Collisions are
// rare at this sparsity but not impossible; callers retry on a
// unique-violation from the store.
func GenerateReferralCode() (string, error) {
	buf := make([]byte, referralCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate referral code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
