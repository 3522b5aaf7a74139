package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Message is a rendered HTML email
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Recipients returns the non-empty, de-duplicated recipient list
func (m Message) Recipients() []string {
	seen := make(map[string]bool, len(m.To))
	out := make([]string, 0, len(m.To))
	for _, addr := range m.To {
		addr = strings.TrimSpace(addr)
		key := strings.ToLower(addr)
		if addr == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, addr)
	}
	return out
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Provider names
const (
	ProviderLog      = "log"
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
)

// Options selects and configures a Sender
type Options struct {
	Provider       string
	FromName       string
	FromEmail      string
	SMTP           SMTPConfig
	SendGridAPIKey string
}

// NewSender builds the sender for the configured provider
func NewSender(opts Options, logger zerolog.Logger) (Sender, error) {
	switch opts.Provider {
	case "", ProviderLog:
		return NewLogSender(logger), nil
	case ProviderSMTP:
		cfg := opts.SMTP
		cfg.FromName = opts.FromName
		cfg.FromEmail = opts.FromEmail
		return NewSMTPSender(cfg, logger), nil
	case ProviderSendGrid:
		return NewSendGridSender(opts.SendGridAPIKey, opts.FromName, opts.FromEmail, logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", opts.Provider)
	}
}

// LogSender writes messages to the log instead of delivering them
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info().
		Strs("to", msg.Recipients()).
		Str("subject", msg.Subject).
		Msg("Email delivery disabled - message logged only")
	return nil
}
