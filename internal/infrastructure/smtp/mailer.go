package smtp

import (
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/portfolio-backend/internal/config"
)

// Mailer delivers verification codes by email.
type Mailer interface {
	SendVerificationCode(to, code string) error
}

const dialTimeout = 10 * time.Second

type mailer struct {
	host     string
	port     string
	from     string
	fromName string
	username string
	password string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		fromName: cfg.SMTPFromName,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (m *mailer) SendVerificationCode(to, code string) error {
	subject := "Verify your email address"
	body := fmt.Sprintf(
		"<html><body><p>Your verification code is:</p><h2>%s</h2><p>This code expires in 5 minutes.</p></body></html>",
		code,
	)
	msg := fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.fromName, m.from, to, subject, body,
	)
	addr := net.JoinHostPort(m.host, m.port)

	// Dial separately so connection timeouts are distinguishable from server
	// refusals in the logs.
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	_ = conn.Close()

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
