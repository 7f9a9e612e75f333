package mailer

import (
	"fmt"
	"time"

	mail "github.com/go-mail/mail"
)

// Config holds SMTP settings for outbound mail
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer delivers recovery tokens over SMTP
type Mailer struct {
	cfg    Config
	dialer *mail.Dialer
}

// New creates a mailer from SMTP configuration
func New(cfg Config) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendRecoveryToken emails a passcode recovery token to the admin contact
func (m *Mailer) SendRecoveryToken(to, token string, expiresAt time.Time) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "LeadSecure passcode recovery")
	msg.SetBody("text/plain", fmt.Sprintf(
		"A passcode recovery was requested.\n\nRecovery token: %s\n\nThe token expires at %s. If you did not request this, ignore this message.\n",
		token, expiresAt.UTC().Format(time.RFC1123),
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send recovery email: %w", err)
	}

	return nil
}
