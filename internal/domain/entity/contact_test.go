package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptions_Merge_IsMonotonic(t *testing.T) {
	existing := Subscriptions{Newsletter: true, Events: true}

	// A repeat signup that omits newsletter must not clear it.
	merged := existing.Merge(Subscriptions{Newsletter: false, Blkouthub: true})

	assert.True(t, merged.Newsletter, "a previously-true flag must survive a merge")
	assert.True(t, merged.Events)
	assert.True(t, merged.Blkouthub)
	assert.False(t, merged.Volunteer)
}

func TestSubscriptions_Merge_Commutes(t *testing.T) {
	a := Subscriptions{Newsletter: true, Volunteer: true}
	b := Subscriptions{Events: true, Volunteer: false}

	assert.Equal(t, a.Merge(b), b.Merge(a))
}

func TestSubscriptions_None(t *testing.T) {
	assert.True(t, Subscriptions{}.None())
	assert.False(t, Subscriptions{Events: true}.None())
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A@Test.com", "a@test.com"},
		{"  user@example.org  ", "user@example.org"},
		{"MiXeD@CASE.UK", "mixed@case.uk"},
		{"already@lower.com", "already@lower.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEmail(tt.in))
	}
}

func TestSubscriptions_ScanRoundTrip(t *testing.T) {
	s := Subscriptions{Newsletter: true, Volunteer: true}

	v, err := s.Value()
	assert.NoError(t, err)

	var out Subscriptions
	assert.NoError(t, out.Scan(v))
	assert.Equal(t, s, out)
}
