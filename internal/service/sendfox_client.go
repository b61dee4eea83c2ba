package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// MailingListClient submits new subscribers to the external mailing-list
// service. Calls are best-effort: the signup flow logs failures and moves on.
type MailingListClient interface {
	Submit(ctx context.Context, email, firstName string) error
}

// NoopMailingListClient is used when no mailing-list endpoint is configured.
type NoopMailingListClient struct{}

func (c *NoopMailingListClient) Submit(ctx context.Context, email, firstName string) error {
	log.Printf("[MailingList] noop submit email=%s", email)
	return nil
}

// SendFoxClient submits subscribers to a SendFox form endpoint using its
// form-url-encoded contract.
type SendFoxClient struct {
	formURL    string
	httpClient *resty.Client
}

// NewSendFoxClient creates a SendFox client for the given form URL.
// The call is bounded by an explicit timeout so a slow mailing-list
// service cannot stall the signup path.
func NewSendFoxClient(formURL string) (*SendFoxClient, error) {
	if formURL == "" {
		return nil, fmt.Errorf("sendfox form url is required")
	}

	client := resty.New().
		SetTimeout(5 * time.Second).
		SetHeader("Content-Type", "application/x-www-form-urlencoded")

	return &SendFoxClient{
		formURL:    formURL,
		httpClient: client,
	}, nil
}

// Submit posts the email (and first name, if present) to the form
// endpoint. At-most-once: no retries.
func (c *SendFoxClient) Submit(ctx context.Context, email, firstName string) error {
	form := map[string]string{"email": email}
	if firstName != "" {
		form["first_name"] = firstName
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(form).
		Post(c.formURL)
	if err != nil {
		return fmt.Errorf("sendfox submit failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sendfox submit returned status %d", resp.StatusCode())
	}
	return nil
}
