// Package mail delivers outbound email. Delivery itself is an external
// collaborator; services depend on the Sender interface so tests can
// substitute a recording fake.
package mail

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"moneylog/internal/config"
)

// Sender sends a single message.
type Sender interface {
	Send(to, subject, text string) error
}

// SMTPSender delivers mail through an SMTP relay using gomail.
type SMTPSender struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPSender creates a Sender backed by the configured SMTP relay.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.MailFrom,
	}
}

// Send delivers a plain-text message with a simple HTML alternative.
func (s *SMTPSender) Send(to, subject, text string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", htmlBody(text))

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func htmlBody(text string) string {
	paragraphs := strings.ReplaceAll(text, "\n", "</p><p>")
	return `<div style="font-family: Arial, sans-serif; line-height: 1.6;">` +
		`<h2 style="color: #2c3e50;">Money Log</h2>` +
		`<p>` + paragraphs + `</p>` +
		`<p style="margin-top: 20px; font-size: 0.9em; color: #7f8c8d;">` +
		`If you didn't request this, please ignore this email.</p></div>`
}

// OTPBody renders the body of a verification code email.
func OTPBody(firstName, otp, purpose string) string {
	greeting := "Good day"
	if firstName != "" {
		greeting = "Hello " + firstName
	}
	return fmt.Sprintf(`%s,

%s

Your One-Time Password (OTP): %s

This code is valid for the next 15 minutes.`, greeting, purpose, otp)
}

// InviteBody renders the body of a group invitation email.
func InviteBody(inviterName, groupName, groupCode, frontendURL string) string {
	return fmt.Sprintf(`Hello,

%s has invited you to join the group "%s" on Money Log.

Group Name: %s
Group Code: %s

Log in at %s/login to accept the invitation.

This invitation will expire in 7 days.`, inviterName, groupName, groupName, groupCode, frontendURL)
}
