package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func newSendGridMailer(s Settings) *sendGridMailer {
	return &sendGridMailer{
		client: sendgrid.NewSendClient(s.SendGridAPIKey),
		from:   sgmail.NewEmail(s.FromName, s.From),
	}
}

func (m *sendGridMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	email := sgmail.NewSingleEmail(m.from, msg.Subject, sgmail.NewEmail(msg.ToName, msg.To), msg.Body, "")

	res, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("send via sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
