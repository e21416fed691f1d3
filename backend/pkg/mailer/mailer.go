// Package mailer sends plain-text notification emails through a transport
// chosen at runtime from the stored email settings.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Transport providers.
const (
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
	ProviderConsole  = "console"
)

var (
	ErrUnknownProvider = errors.New("unknown mail provider")
	ErrMissingHost     = errors.New("smtp host is not configured")
	ErrMissingAPIKey   = errors.New("sendgrid api key is not configured")
	ErrNoRecipient     = errors.New("message has no recipient")
)

// Message is a single plain-text email.
type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Settings is everything needed to build a Mailer.
type Settings struct {
	Provider       string
	Host           string
	Port           int
	Username       string
	Password       string
	UseTLS         bool
	UseSSL         bool
	Timeout        time.Duration
	SendGridAPIKey string
	From           string
	FromName       string
}

// Factory builds a Mailer from settings. Services depend on this so tests
// can swap in a recording mailer.
type Factory func(s Settings) (Mailer, error)

// NewFactory returns the production factory.
func NewFactory(logger *zap.Logger) Factory {
	return func(s Settings) (Mailer, error) {
		return New(s, logger)
	}
}

// New picks the transport named by s.Provider.
func New(s Settings, logger *zap.Logger) (Mailer, error) {
	switch s.Provider {
	case ProviderSMTP:
		if s.Host == "" {
			return nil, ErrMissingHost
		}
		return newSMTPMailer(s), nil
	case ProviderSendGrid:
		if s.SendGridAPIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return newSendGridMailer(s), nil
	case ProviderConsole, "":
		return newConsoleMailer(s, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, s.Provider)
	}
}
