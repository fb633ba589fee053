package mailer

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererNotification(t *testing.T) {
	r, err := NewRenderer("https://portal.example")
	require.NoError(t, err)

	msg, err := r.Notification("ana@example.com", "Actualización de Solicitud SOL-000001", "Tu solicitud <b>SOL-000001</b> ha sido aprobada.", "SOL-000001")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", msg.To)
	assert.Contains(t, msg.Text, "Tu solicitud <b>SOL-000001</b> ha sido aprobada.")
	assert.Contains(t, msg.Text, "Folio: SOL-000001")
	assert.Contains(t, msg.HTML, "&lt;b&gt;SOL-000001&lt;/b&gt;", "html body must be escaped")
	assert.Contains(t, msg.HTML, `href="https://portal.example"`)
}

func TestRendererWelcome(t *testing.T) {
	r, err := NewRenderer("https://portal.example")
	require.NoError(t, err)

	msg, err := r.Welcome("ana@example.com", "Ana Gómez")
	require.NoError(t, err)
	assert.Equal(t, WelcomeSubject, msg.Subject)
	assert.Contains(t, msg.Text, "Bienvenido(a), Ana Gómez")
	assert.Contains(t, msg.HTML, "Ana Gómez")
}

func TestSMTPSenderBuild(t *testing.T) {
	s, err := NewSMTP(Config{Host: "localhost", Port: 2525, From: "no-reply@macuspana.gob.mx", TLS: "none"})
	require.NoError(t, err)

	_, err = s.build(Message{Subject: "x"})
	assert.Error(t, err)

	m, err := s.build(Message{To: "ana@example.com", Subject: "Hola", Text: "texto", HTML: "<p>texto</p>"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hola"}, m.GetGenHeader("Subject"))
}

func TestNewSMTPRejectsUnknownTLS(t *testing.T) {
	_, err := NewSMTP(Config{Host: "localhost", Port: 25, TLS: "sometimes"})
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	s := NewLogSender(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, s.Send(context.Background(), Message{To: "ana@example.com", Subject: "x"}))
}
