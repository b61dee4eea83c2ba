package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blkoutuk/community-api/internal/domain/entity"
	"github.com/blkoutuk/community-api/internal/handler/dto"
	apperrors "github.com/blkoutuk/community-api/internal/pkg/errors"
)

func TestShareService_GetShareInfo(t *testing.T) {
	// Arrange
	mockContacts := new(MockContactRepository)
	contact := &entity.Contact{
		ID:            "contact-1",
		Email:         "member@example.com",
		FirstName:     "Sam",
		ReferralCode:  "AB12CD34",
		ReferralCount: 3,
	}
	mockContacts.On("GetByEmail", "member@example.com").Return(contact, nil)

	svc := NewShareService(mockContacts, nil, "https://crm.example.org")

	// Act: mixed-case input still resolves the contact.
	data, err := svc.GetShareInfo("Member@Example.com")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Sam", data.FirstName)
	assert.Equal(t, "AB12CD34", data.ReferralCode)
	assert.Equal(t, 3, data.ReferralCount)
	assert.Equal(t, "https://crm.example.org/join?ref=AB12CD34", data.ShareURL)

	assert.Contains(t, data.ShareLinks.WhatsApp, "https://wa.me/?text=")
	assert.Contains(t, data.ShareLinks.WhatsApp, "AB12CD34")
	assert.Contains(t, data.ShareLinks.Twitter, "https://twitter.com/intent/tweet?text=")
	assert.Contains(t, data.ShareLinks.Email, "mailto:?subject=")
	assert.Equal(t, data.ShareURL, data.ShareLinks.Copy)

	mockContacts.AssertExpectations(t)
}

func TestShareService_GetShareInfo_UnknownEmail(t *testing.T) {
	mockContacts := new(MockContactRepository)
	mockContacts.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	svc := NewShareService(mockContacts, nil, "https://crm.example.org")

	data, err := svc.GetShareInfo("ghost@example.com")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, data)
}

func TestShareService_TrackClick(t *testing.T) {
	// Arrange
	mockClicks := new(MockShareClickRepository)
	mockClicks.On("Create", mock.AnythingOfType("*entity.ShareLinkClick")).Return(nil)

	svc := NewShareService(nil, mockClicks, "https://crm.example.org")

	// Act
	err := svc.TrackClick(&dto.ClickRequest{
		ReferralCode: "ab12cd34",
		Source:       "whatsapp",
	}, RequestMeta{IPAddress: "10.0.0.1", UserAgent: "test-agent"})

	// Assert
	require.NoError(t, err)
	click := mockClicks.Calls[0].Arguments.Get(0).(*entity.ShareLinkClick)
	assert.Equal(t, "AB12CD34", click.ReferralCode, "code is stored uppercased")
	assert.Equal(t, "whatsapp", click.Source)
	assert.Equal(t, "10.0.0.1", click.IPAddress)
	mockClicks.AssertExpectations(t)
}

func TestShareService_TrackClick_DefaultsSource(t *testing.T) {
	mockClicks := new(MockShareClickRepository)
	mockClicks.On("Create", mock.AnythingOfType("*entity.ShareLinkClick")).Return(nil)

	svc := NewShareService(nil, mockClicks, "https://crm.example.org")

	err := svc.TrackClick(&dto.ClickRequest{ReferralCode: "AB12CD34"}, RequestMeta{})

	require.NoError(t, err)
	click := mockClicks.Calls[0].Arguments.Get(0).(*entity.ShareLinkClick)
	assert.Equal(t, "direct", click.Source)
}

func TestShareService_TrackClick_MissingCode(t *testing.T) {
	mockClicks := new(MockShareClickRepository)
	svc := NewShareService(nil, mockClicks, "https://crm.example.org")

	err := svc.TrackClick(&dto.ClickRequest{}, RequestMeta{})

	assert.ErrorIs(t, err, ErrReferralCodeMissing)
	mockClicks.AssertNotCalled(t, "Create", mock.Anything)
}

func TestShareService_TrackClick_UnknownCodeIsAccepted(t *testing.T) {
	// Unknown codes are recorded, not validated: tracking noise from
	// stale or mistyped links must never error.
	mockClicks := new(MockShareClickRepository)
	mockClicks.On("Create", mock.AnythingOfType("*entity.ShareLinkClick")).Return(nil)

	svc := NewShareService(nil, mockClicks, "https://crm.example.org")

	err := svc.TrackClick(&dto.ClickRequest{ReferralCode: "DOESNOTEXIST"}, RequestMeta{})

	require.NoError(t, err)
	mockClicks.AssertExpectations(t)
}
