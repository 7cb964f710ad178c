package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer delivers a plain-text message. The daily statistics report is the
// only producer; implementations must be safe for concurrent use.
type Mailer interface {
	Send(to, from, subject, body string) error
}

// SMTPMailer sends mail through a single SMTP relay.
type SMTPMailer struct {
	addr string
	host string
	auth smtp.Auth
}

// NewSMTPMailer creates a mailer for the given relay. When username is empty
// the connection is unauthenticated.
func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	m := &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		host: host,
	}
	if username != "" {
		m.auth = smtp.PlainAuth("", username, password, host)
	}
	return m
}

func (m *SMTPMailer) Send(to, from, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(m.addr, m.auth, from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}
