package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

const mailgunSendTimeout = 30 * time.Second

// MailgunConfig holds the configuration for Mailgun.
type MailgunConfig struct {
	Key    string
	Domain string
	From   string
}

// mailgunSend queues one plain-text message and returns the Mailgun message id.
type mailgunSend func(ctx context.Context, from, subject, text, to string) (string, error)

// MailgunService sends email through the Mailgun HTTP API.
type MailgunService struct {
	from string
	send mailgunSend
}

// NewMailgunService creates a Mailgun sender. From defaults to
// no-reply@<domain> when empty.
func NewMailgunService(cfg MailgunConfig) *MailgunService {
	from := cfg.From
	if from == "" {
		from = "no-reply@" + cfg.Domain
	}

	mg := mailgun.NewMailgun(cfg.Domain, cfg.Key)
	return &MailgunService{
		from: from,
		send: func(ctx context.Context, from, subject, text, to string) (string, error) {
			message := mg.NewMessage(from, subject, text, to)
			_, id, err := mg.Send(ctx, message)
			return id, err
		},
	}
}

func (s *MailgunService) SendConfirmationEmail(ctx context.Context, to, confirmURL string) error {
	m := ConfirmationMessage(to, confirmURL)

	ctx, cancel := context.WithTimeout(ctx, mailgunSendTimeout)
	defer cancel()

	if _, err := s.send(ctx, s.from, m.Subject, m.Text, to); err != nil {
		return fmt.Errorf("failed to send email via mailgun: %w", err)
	}
	return nil
}
