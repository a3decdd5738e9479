package auth

import (
	"fmt"
	"net/smtp"

	"pan-basket-backend/internal/config"

	"github.com/sirupsen/logrus"
)

// Mailer delivers outbound mail. Delivery is an external collaborator;
// everything in this package talks to this interface only.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewMailer returns an SMTP mailer, or a log-only mailer when no
// credentials are configured so local setups work without a mail account.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.EmailUser == "" {
		logrus.Warn("EMAIL_USER not set, outbound mail will only be logged")
		return &logMailer{}
	}
	return &smtpMailer{
		host:     cfg.EmailHost,
		port:     cfg.EmailPort,
		username: cfg.EmailUser,
		password: cfg.EmailPassword,
		from:     cfg.EmailFrom,
	}
}

func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.from, to, subject, htmlBody,
	)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

type logMailer struct{}

func (l *logMailer) Send(to, subject, _ string) error {
	logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("mail suppressed")
	return nil
}
