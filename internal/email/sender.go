// Package email provides outbound email delivery for notification handlers.
package email

import (
	"context"

	"archject_backend/platform/config"
)

// Sender delivers the application's transactional emails.
type Sender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, name string) error
	SendApprovalRequestEmail(ctx context.Context, toEmail, title, approvalURL string) error
	SendApprovalReminderEmail(ctx context.Context, toEmail, title, approvalURL, deadline string) error
	SendDecisionEmail(ctx context.Context, toEmail, title, status, optionLabel, comment string) error
}

// NewSender returns the SMTP sender when email is configured, otherwise a
// no-op sender so the rest of the app never has to nil-check.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	return NewSMTPSender(cfg), nil
}

// NoopSender drops every email. Used in development and tests.
type NoopSender struct{}

func (NoopSender) SendWelcomeEmail(context.Context, string, string) error { return nil }
func (NoopSender) SendApprovalRequestEmail(context.Context, string, string, string) error {
	return nil
}
func (NoopSender) SendApprovalReminderEmail(context.Context, string, string, string, string) error {
	return nil
}
func (NoopSender) SendDecisionEmail(context.Context, string, string, string, string, string) error {
	return nil
}
