package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// SMTPMailer sends HTML mail over plain SMTP with optional auth. When no
// host is configured it logs and drops, so alert flows keep working in
// environments without mail.
type SMTPMailer struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m == nil || m.Host == "" {
		log.Printf("Warning: SMTP not configured, dropping email to %s (%s)", to, subject)
		return nil
	}
	from := m.From
	if from == "" {
		from = m.User
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Password, m.Host)
	}
	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
