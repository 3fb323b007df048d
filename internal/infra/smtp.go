package infra

import (
	"fmt"
	"net/smtp"

	"malutoficina/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending receipts with PDF attachments.
type Mailer struct {
	from     string
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		from:     from,
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Habilitado reports whether an SMTP host is configured.
func (m *Mailer) Habilitado() bool { return m != nil && m.host != "" }

// EnviarRecibo mails the order receipt; pdfPath may be empty.
func (m *Mailer) EnviarRecibo(to, subject, body, pdfPath string) error {
	if !m.Habilitado() {
		return fmt.Errorf("mailer: SMTP_HOST não configurado")
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
