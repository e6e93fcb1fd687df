package infra

import (
	"fmt"
	"net/smtp"

	"dailymart/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending emails with PDF attachments.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// SendReceipt sends a bill receipt to the customer, optionally attaching the
// generated PDF.
func (m *Mailer) SendReceipt(to, subject, body, pdfPath string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}

// SendAlert sends a plain-text operational notice (e.g. the low-stock digest).
func (m *Mailer) SendAlert(to, subject, body string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
