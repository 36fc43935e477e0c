package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// Mailer delivers a plain-text message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ConsoleMailer logs messages instead of delivering them. Used in development.
type ConsoleMailer struct {
	From   string
	Logger *slog.Logger
}

func NewConsoleMailer(from string, logger *slog.Logger) *ConsoleMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleMailer{From: from, Logger: logger}
}

func (m *ConsoleMailer) Send(ctx context.Context, to, subject, body string) error {
	m.Logger.InfoContext(ctx, "outgoing_mail",
		"from", m.From,
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}

// SMTPMailer sends mail through an SMTP relay, authenticating with PLAIN auth
// when a username is configured.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// swapped in tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		send:     smtp.SendMail,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(to, "\r\n") || strings.ContainsAny(subject, "\r\n") {
		return fmt.Errorf("send mail: header contains a line break")
	}

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	addr := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
	if err := m.send(addr, auth, m.From, []string{to}, buildMessage(m.From, to, subject, body, time.Now())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string, at time.Time) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("Date: " + at.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
