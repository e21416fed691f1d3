package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_SelectsProvider(t *testing.T) {
	logger := zap.NewNop()

	m, err := New(Settings{Provider: ProviderConsole}, logger)
	require.NoError(t, err)
	assert.IsType(t, &consoleMailer{}, m)

	m, err = New(Settings{Provider: ProviderSMTP, Host: "smtp.centro.es", Port: 587}, logger)
	require.NoError(t, err)
	assert.IsType(t, &smtpMailer{}, m)

	m, err = New(Settings{Provider: ProviderSendGrid, SendGridAPIKey: "SG.key"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &sendGridMailer{}, m)
}

func TestNew_Misconfigured(t *testing.T) {
	logger := zap.NewNop()

	_, err := New(Settings{Provider: ProviderSMTP}, logger)
	assert.ErrorIs(t, err, ErrMissingHost)

	_, err = New(Settings{Provider: ProviderSendGrid}, logger)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New(Settings{Provider: "pigeon"}, logger)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestConsoleMailer_LogsMessage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m, err := New(Settings{Provider: ProviderConsole, From: "no-reply@centro.es"}, zap.New(core))
	require.NoError(t, err)

	err = m.Send(context.Background(), Message{To: "ana@centro.es", Subject: "Hola", Body: "cuerpo"})
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ana@centro.es", fields["to"])
	assert.Equal(t, "Hola", fields["subject"])
}

func TestSend_NoRecipient(t *testing.T) {
	m, _ := New(Settings{Provider: ProviderConsole}, zap.NewNop())
	assert.ErrorIs(t, m.Send(context.Background(), Message{Subject: "x"}), ErrNoRecipient)
}

func TestSMTPOptions(t *testing.T) {
	m := newSMTPMailer(Settings{Host: "h", Port: 465, UseSSL: true, Username: "u", Password: "p"})
	// port, ssl, auth, username, password
	assert.Len(t, m.clientOptions(), 5)

	m = newSMTPMailer(Settings{Host: "h", Port: 25})
	assert.Len(t, m.clientOptions(), 2)
}
