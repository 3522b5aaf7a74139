package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

// SendGridSender delivers messages through the SendGrid v3 API
type SendGridSender struct {
	key    string
	from   *sgmail.Email
	logger zerolog.Logger
}

// NewSendGridSender creates a SendGridSender
func NewSendGridSender(key, fromName, fromEmail string, logger zerolog.Logger) *SendGridSender {
	return &SendGridSender{
		key:    key,
		from:   sgmail.NewEmail(fromName, fromEmail),
		logger: logger,
	}
}

func (s *SendGridSender) prepare(msg Message, to []string) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, addr := range to {
		p.AddTos(sgmail.NewEmail("", addr))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	return m
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	to := msg.Recipients()
	if len(to) == 0 {
		return nil
	}

	req := sendgrid.GetRequest(s.key, sendGridEndpoint, sendGridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg, to))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Msg("SendGrid request failed")
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		s.logger.Error().Int("status", res.StatusCode).Str("body", res.Body).Msg("SendGrid rejected message")
		return fmt.Errorf("sendgrid returned status %d", res.StatusCode)
	}
	return nil
}
