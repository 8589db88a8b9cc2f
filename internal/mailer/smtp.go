package mailer

import (
	"context"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPTransport delivers through a plain SMTP relay. The default config
// points at the mailtrap sandbox used in development.
type SMTPTransport struct {
	dialer *gomail.Dialer
}

func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	return &SMTPTransport{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (t *SMTPTransport) Send(_ context.Context, e *Email) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", e.FromAddr, e.FromName)
	m.SetHeader("To", e.To)
	m.SetHeader("Subject", e.Subject)
	m.SetBody("text/html", e.HTML)

	// gomail dials per send; no context support, the SMTP timeouts apply
	return t.dialer.DialAndSend(m)
}
