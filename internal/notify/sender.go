// AngelaMos | 2026
// sender.go

package notify

import (
	"context"
	"log/slog"
)

// Pusher delivers one notification to a set of device tokens, one attempt
// per token.
type Pusher interface {
	Push(ctx context.Context, tokens []string, title, body string) (PushReport, error)
}

type PushReport struct {
	Sent   int
	Failed int
}

type Email struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// LogPusher stands in for push delivery when no credentials are configured.
type LogPusher struct {
	Logger *slog.Logger
}

func (p LogPusher) Push(
	ctx context.Context,
	tokens []string,
	title, body string,
) (PushReport, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "push disabled, notification not sent",
		"title", title,
		"recipients", len(tokens),
	)
	return PushReport{}, nil
}

// LogMailer stands in for SMTP delivery when no mail server is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) Send(ctx context.Context, email Email) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "mail disabled, email not sent",
		"to", email.To,
		"subject", email.Subject,
	)
	return nil
}
