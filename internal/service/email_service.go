package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailService sends transactional notices.
type EmailService interface {
	SendDeletionNotice(ctx context.Context, toEmail string, scheduledFor time.Time) error
}

// NoopEmailService is used when transactional email is not configured.
type NoopEmailService struct{}

func (s *NoopEmailService) SendDeletionNotice(ctx context.Context, toEmail string, scheduledFor time.Time) error {
	log.Printf("[EmailService] noop send deletion notice to=%s", toEmail)
	return nil
}

// ResendEmailService sends emails via Resend REST API.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

// SendDeletionNotice confirms a scheduled data deletion to the contact.
func (s *ResendEmailService) SendDeletionNotice(ctx context.Context, toEmail string, scheduledFor time.Time) error {
	if toEmail == "" {
		return fmt.Errorf("toEmail is required")
	}

	date := scheduledFor.Format("02/01/2006")
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Your BLKOUT data deletion request",
		Text: fmt.Sprintf("We received your deletion request. Your data will be permanently deleted on %s. "+
			"You have been immediately unsubscribed from all communications.", date),
		Html: fmt.Sprintf("<p>We received your deletion request.</p><p>Your data will be permanently deleted on <strong>%s</strong>. "+
			"You have been immediately unsubscribed from all communications.</p>", date),
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithContext(ctx, params)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
