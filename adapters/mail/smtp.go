package mail

import (
	"context"
	"strings"

	"worldstats/internal/errors"
	"worldstats/ports"

	"gopkg.in/gomail.v2"
)

// SMTPSettings holds the transport credentials
type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPMailer sends messages over SMTP, upgrading with STARTTLS when the server offers it
type SMTPMailer struct {
	dialer *gomail.Dialer
}

var _ ports.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer. Missing credentials are a CONFIGURATION_MISSING error.
func NewSMTPMailer(settings SMTPSettings) (*SMTPMailer, error) {
	var missing []string
	if settings.Host == "" {
		missing = append(missing, "SMTP_SERVER")
	}
	if settings.Username == "" {
		missing = append(missing, "EMAIL_USERNAME")
	}
	if settings.Password == "" {
		missing = append(missing, "EMAIL_PASSWORD")
	}
	if len(missing) > 0 {
		return nil, errors.ConfigurationMissing(missing)
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(settings.Host, settings.Port, settings.Username, settings.Password),
	}, nil
}

// Send delivers msg. The SMTP exchange itself cannot be cancelled; ctx is checked before
// dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(BuildMessage(msg)); err != nil {
		return errors.ExternalServiceError("smtp", err)
	}
	return nil
}

// BuildMessage converts a transport-neutral message into a MIME message. TO may hold
// several comma separated addresses.
func BuildMessage(msg ports.Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", splitAddresses(msg.To)...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternative("text/html", msg.HTMLBody)
	}
	for _, a := range msg.Attachments {
		m.Attach(a.Path)
	}
	return m
}

func splitAddresses(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UnconfiguredMailer stands in when credentials are missing; every send fails with Err
type UnconfiguredMailer struct {
	Err error
}

var _ ports.Mailer = UnconfiguredMailer{}

func (m UnconfiguredMailer) Send(_ context.Context, _ ports.Message) error {
	if m.Err == nil {
		return errors.ConfigurationMissing(nil)
	}
	return m.Err
}
