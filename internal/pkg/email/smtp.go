package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// SMTPSender delivers messages through an SMTP relay
type SMTPSender struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPSender creates a new SMTPSender
func NewSMTPSender(config SMTPConfig, logger zerolog.Logger) *SMTPSender {
	return &SMTPSender{
		config: config,
		logger: logger,
	}
}

func (s *SMTPSender) buildMessage(msg Message, to []string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

// Send delivers msg. With UseTLS the connection is implicit TLS, otherwise
// smtp.SendMail negotiates STARTTLS when the server offers it.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	to := msg.Recipients()
	if len(to) == 0 {
		return nil
	}

	// Without credentials the message is logged (local development)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Strs("to", to).
			Str("subject", msg.Subject).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	body := s.buildMessage(msg, to)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, to, body); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: s.config.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", serverAddress)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, addr := range to {
		if err = client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(body); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
