package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultHeartbeatAPIURL is the production Heartbeat.chat API base.
const DefaultHeartbeatAPIURL = "https://api.heartbeat.chat/v0"

// CommunityInviteClient sends BLKOUTHUB invitations via the external
// community platform. Enabled reports whether credentials are configured;
// when false the invitation record stays pending and no call is made.
type CommunityInviteClient interface {
	Enabled() bool
	Invite(ctx context.Context, email, name string) error
}

// NoopCommunityInviteClient is used when Heartbeat credentials are absent.
type NoopCommunityInviteClient struct{}

func (c *NoopCommunityInviteClient) Enabled() bool { return false }

func (c *NoopCommunityInviteClient) Invite(ctx context.Context, email, name string) error {
	return fmt.Errorf("community invite client is not configured")
}

// HeartbeatClient invites contacts to a Heartbeat.chat community with a
// bearer-token-authenticated JSON POST.
type HeartbeatClient struct {
	communityID string
	httpClient  *resty.Client
}

// NewHeartbeatClient creates a Heartbeat client. baseURL falls back to
// the production API when empty.
func NewHeartbeatClient(baseURL, apiToken, communityID string) (*HeartbeatClient, error) {
	if apiToken == "" || communityID == "" {
		return nil, fmt.Errorf("heartbeat api token and community id are required")
	}
	if baseURL == "" {
		baseURL = DefaultHeartbeatAPIURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetAuthToken(apiToken).
		SetHeader("Content-Type", "application/json")

	return &HeartbeatClient{
		communityID: communityID,
		httpClient:  client,
	}, nil
}

func (c *HeartbeatClient) Enabled() bool { return true }

// Invite sends the invitation. A 2xx response is required for the
// invitation record to be marked sent; anything else is an error.
func (c *HeartbeatClient) Invite(ctx context.Context, email, name string) error {
	displayName := name
	if displayName == "" {
		displayName = "friend"
	}

	body := map[string]string{
		"email":   email,
		"name":    name,
		"message": fmt.Sprintf("Welcome to BLKOUTHUB, %s! Join our community of Black queer men in the UK.", displayName),
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post(fmt.Sprintf("/communities/%s/invitations", c.communityID))
	if err != nil {
		return fmt.Errorf("heartbeat invitation failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("heartbeat invitation returned status %d", resp.StatusCode())
	}
	return nil
}
