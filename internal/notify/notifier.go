// AngelaMos | 2026
// notifier.go

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// TokenSource lists the device tokens of users eligible for broadcasts.
type TokenSource interface {
	ActivePushTokens(ctx context.Context) ([]string, error)
}

type Queue interface {
	Enqueue(name string, task Task) bool
}

type NotifierConfig struct {
	Queue     Queue
	Pusher    Pusher
	Mailer    Mailer
	Tokens    TokenSource
	PublicURL string
	Team      string
	Logger    *slog.Logger
}

// Notifier turns domain events into background delivery tasks. None of its
// methods block on delivery.
type Notifier struct {
	queue     Queue
	pusher    Pusher
	mailer    Mailer
	tokens    TokenSource
	publicURL string
	team      string
	logger    *slog.Logger
}

func NewNotifier(cfg NotifierConfig) *Notifier {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pusher := cfg.Pusher
	if pusher == nil {
		pusher = LogPusher{Logger: logger}
	}
	mailer := cfg.Mailer
	if mailer == nil {
		mailer = LogMailer{Logger: logger}
	}
	team := cfg.Team
	if team == "" {
		team = "The Hostel Mess Team"
	}

	return &Notifier{
		queue:     cfg.Queue,
		pusher:    pusher,
		mailer:    mailer,
		tokens:    cfg.Tokens,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		team:      team,
		logger:    logger,
	}
}

// Broadcast pushes title and body to every eligible device.
func (n *Notifier) Broadcast(title, body string) bool {
	return n.queue.Enqueue("broadcast", func(ctx context.Context) error {
		tokens, err := n.tokens.ActivePushTokens(ctx)
		if err != nil {
			return fmt.Errorf("load push tokens: %w", err)
		}

		if len(tokens) == 0 {
			n.logger.Info("broadcast skipped, no registered devices", "title", title)
			return nil
		}

		report, err := n.pusher.Push(ctx, tokens, title, body)
		n.logger.Info("broadcast finished",
			"title", title,
			"recipients", len(tokens),
			"sent", report.Sent,
			"failed", report.Failed,
		)
		return err
	})
}

func (n *Notifier) SendVerificationEmail(
	to, name, token string,
	validFor time.Duration,
) bool {
	link := n.publicURL + "/v1/auth/verify-email?token=" + url.QueryEscape(token)

	return n.queue.Enqueue("verification_email", func(ctx context.Context) error {
		html, err := render("verify_email.html", emailData{
			Name:     name,
			Link:     link,
			ValidFor: humanDuration(validFor),
			Team:     n.team,
		})
		if err != nil {
			return err
		}

		return n.mailer.Send(ctx, Email{
			To:      to,
			ToName:  name,
			Subject: verifySubject,
			HTML:    html,
			Text: fmt.Sprintf(
				"Hi %s,\n\nVerify your email address: %s\n\n%s",
				name, link, n.team,
			),
		})
	})
}

func (n *Notifier) SendPasswordResetEmail(
	to, name, token string,
	validFor time.Duration,
) bool {
	return n.queue.Enqueue("password_reset_email", func(ctx context.Context) error {
		html, err := render("reset_password.html", emailData{
			Name:     name,
			Token:    token,
			ValidFor: humanDuration(validFor),
			Team:     n.team,
		})
		if err != nil {
			return err
		}

		return n.mailer.Send(ctx, Email{
			To:      to,
			ToName:  name,
			Subject: resetSubject,
			HTML:    html,
			Text: fmt.Sprintf(
				"Hi %s,\n\nYour password reset token is: %s\nIt is valid for %s.\n\n%s",
				name, token, humanDuration(validFor), n.team,
			),
		})
	})
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	case d >= time.Minute && d%time.Minute == 0:
		m := int(d / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	default:
		return d.String()
	}
}
