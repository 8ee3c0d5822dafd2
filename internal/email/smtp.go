package email

import (
	"context"
	"fmt"
	"time"

	"archject_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a sender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	content, err := renderEmailTemplate("welcome", welcomeEmailData{
		baseEmailData: baseEmailData{
			Title:   "Welcome to Archject",
			Heading: "Welcome to Archject",
		},
		Name: name,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, "Welcome to Archject", content)
}

func (s *SMTPSender) SendApprovalRequestEmail(ctx context.Context, toEmail, title, approvalURL string) error {
	content, err := renderEmailTemplate("approval_request", approvalEmailData{
		baseEmailData: baseEmailData{
			Title:    "Approval requested",
			Heading:  "Your approval is requested",
			CTALabel: "Review options",
			CTAURL:   approvalURL,
		},
		RequestTitle: title,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf("Approval requested: %s", title), content)
}

func (s *SMTPSender) SendApprovalReminderEmail(ctx context.Context, toEmail, title, approvalURL, deadline string) error {
	content, err := renderEmailTemplate("approval_reminder", approvalEmailData{
		baseEmailData: baseEmailData{
			Title:    "Approval reminder",
			Heading:  "An approval is waiting for you",
			CTALabel: "Review options",
			CTAURL:   approvalURL,
		},
		RequestTitle: title,
		Deadline:     deadline,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf("Reminder: %s is awaiting your approval", title), content)
}

func (s *SMTPSender) SendDecisionEmail(ctx context.Context, toEmail, title, status, optionLabel, comment string) error {
	content, err := renderEmailTemplate("decision", decisionEmailData{
		baseEmailData: baseEmailData{
			Title:   "Decision recorded",
			Heading: fmt.Sprintf("Your request was %s", status),
		},
		RequestTitle: title,
		Status:       status,
		OptionLabel:  optionLabel,
		Comment:      comment,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf("%s: %s", status, title), content)
}

var _ Sender = (*SMTPSender)(nil)
