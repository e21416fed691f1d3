package mailer

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

type smtpMailer struct {
	settings Settings
}

func newSMTPMailer(s Settings) *smtpMailer {
	return &smtpMailer{settings: s}
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	email := gomail.NewMsg()
	if err := email.FromFormat(m.settings.FromName, m.settings.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := email.AddToFormat(msg.ToName, msg.To); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	email.Subject(msg.Subject)
	email.SetBodyString(gomail.TypeTextPlain, msg.Body)

	client, err := gomail.NewClient(m.settings.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, email); err != nil {
		return fmt.Errorf("send via smtp: %w", err)
	}
	return nil
}

func (m *smtpMailer) clientOptions() []gomail.Option {
	s := m.settings
	opts := []gomail.Option{gomail.WithPort(s.Port)}

	if s.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(s.Timeout))
	}

	switch {
	case s.UseSSL:
		opts = append(opts, gomail.WithSSL())
	case s.UseTLS:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	default:
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}

	if s.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.Username),
			gomail.WithPassword(s.Password),
		)
	}
	return opts
}
