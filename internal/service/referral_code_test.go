package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReferralCode_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{8}$`)

	for i := 0; i < 100; i++ {
		code, err := GenerateReferralCode()
		require.NoError(t, err)
		assert.True(t, pattern.MatchString(code), "unexpected code format: %q", code)
	}
}

func TestGenerateReferralCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateReferralCode()
		require.NoError(t, err)
		seen[code] = true
	}
	// 100 draws from ~4.3 billion values should not all collide.
	assert.Greater(t, len(seen), 90)
}

func TestConsentTextHash_Stable(t *testing.T) {
	first := ConsentTextHash()
	second := ConsentTextHash()

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.Contains(t, ConsentText, ConsentVersion)
}
