package mailer

import (
	"context"

	"go.uber.org/zap"
)

// consoleMailer writes messages to the log instead of sending them.
type consoleMailer struct {
	from   string
	logger *zap.Logger
}

func newConsoleMailer(s Settings, logger *zap.Logger) *consoleMailer {
	return &consoleMailer{from: s.From, logger: logger}
}

func (m *consoleMailer) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	m.logger.Info("email (console transport)",
		zap.String("from", m.from),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
