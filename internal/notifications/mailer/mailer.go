// Package mailer renders and delivers transactional email. SMTPSender talks
// to a real server through go-mail; LogSender only logs and is used when
// delivery is disabled.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"portal/pkg/requestcontext"
)

// Message is one rendered email with a plaintext body and an HTML
// alternative.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// TLS is "mandatory", "opportunistic" or "none".
	TLS     string
	Timeout time.Duration
}

type SMTPSender struct {
	client *mail.Client
	from   string
}

func tlsPolicy(name string) (mail.TLSPolicy, error) {
	switch name {
	case "mandatory":
		return mail.TLSMandatory, nil
	case "opportunistic", "":
		return mail.TLSOpportunistic, nil
	case "none":
		return mail.NoTLS, nil
	}
	return mail.NoTLS, fmt.Errorf("unknown tls policy %q", name)
}

func NewSMTP(cfg Config) (*SMTPSender, error) {
	policy, err := tlsPolicy(cfg.TLS)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(policy),
		mail.WithTimeout(timeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From}, nil
}

func (s *SMTPSender) build(msg Message) (*mail.Msg, error) {
	if msg.To == "" {
		return nil, errors.New("recipient is required")
	}
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}

// Send makes a single delivery attempt.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender records the email it would have sent.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "email delivery disabled",
		"request_id", requestcontext.RequestID(ctx),
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
