package smtp

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/careerhub-api/internal/config"
	"github.com/careerhub-api/internal/domain"
	"go.uber.org/zap"
)

// Mailer sends templated transactional email to one or more recipients.
// Implementations wrap failures in domain.ErrMail.
type Mailer interface {
	SendEmail(to []string, subject, htmlBody string) error
}

type mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

// NewMailer returns the SMTP transport implementation.
func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (m *mailer) SendEmail(to []string, subject, htmlBody string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n"+
		"MIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.from, strings.Join(to, ", "), subject, htmlBody)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, to, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %v: %w", strings.Join(to, ","), err, domain.ErrMail)
	}
	return nil
}

type logMailer struct {
	log *zap.Logger
}

// NewLogMailer returns the logging stub used when no SMTP transport is
// configured. Chosen once at process start, never swapped at runtime.
func NewLogMailer(log *zap.Logger) Mailer {
	return &logMailer{log: log}
}

func (m *logMailer) SendEmail(to []string, subject, _ string) error {
	m.log.Info("email transport unconfigured, logging instead of sending",
		zap.Strings("to", to),
		zap.String("subject", subject),
	)
	return nil
}
