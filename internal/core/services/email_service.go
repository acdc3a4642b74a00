package services

import (
	"fmt"
	"log"

	"saccohub/internal/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService delivers transactional email through SendGrid. With no
// API key configured it degrades to logging, which keeps local
// development working without credentials.
type EmailService struct {
	cfg config.EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(cfg config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendChairpersonCredentials emails a newly onboarded chairperson their
// generated password and login link. Callers invoke this after commit
// and must not treat a failure as fatal.
func (s *EmailService) SendChairpersonCredentials(toName, toEmail, saccoName, plainPassword string) error {
	subject := fmt.Sprintf("Your %s chairperson account", saccoName)
	plain := fmt.Sprintf(
		"Hello %s,\n\nA chairperson account has been created for you for %s.\n\n"+
			"Email: %s\nTemporary password: %s\n\n"+
			"Log in at %s and change your password immediately.\n",
		toName, saccoName, toEmail, plainPassword, s.cfg.FrontendURL,
	)

	if s.cfg.APIKey == "" {
		log.Printf("⚠️ SendGrid not configured, skipping credentials email to %s", toEmail)
		return nil
	}

	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromAddress)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plain, "")

	client := sendgrid.NewSendClient(s.cfg.APIKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}

	log.Printf("✅ Credentials email sent to %s", toEmail)
	return nil
}

// SendPasswordReset emails a chairperson their regenerated password.
func (s *EmailService) SendPasswordReset(toName, toEmail, plainPassword string) error {
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour password has been reset.\n\n"+
			"New temporary password: %s\n\n"+
			"Log in at %s and change it immediately.\n",
		toName, plainPassword, s.cfg.FrontendURL,
	)

	if s.cfg.APIKey == "" {
		log.Printf("⚠️ SendGrid not configured, skipping reset email to %s", toEmail)
		return nil
	}

	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromAddress)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, "Password reset", to, plain, "")

	client := sendgrid.NewSendClient(s.cfg.APIKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}

	log.Printf("✅ Password reset email sent to %s", toEmail)
	return nil
}
