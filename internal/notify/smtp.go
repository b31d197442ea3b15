// AngelaMos | 2026
// smtp.go

package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/carterperez-dev/messhall/internal/config"
)

type mailClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type SMTPMailer struct {
	client   mailClient
	from     string
	fromName string
}

func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	policy := mail.TLSOpportunistic
	if cfg.StartTLS {
		policy = mail.TLSMandatory
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(policy),
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
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &SMTPMailer{client: client, from: from, fromName: cfg.FromName}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	msg, err := m.build(email)
	if err != nil {
		return err
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", email.To, err)
	}
	return nil
}

func (m *SMTPMailer) build(email Email) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.AddToFormat(email.ToName, email.To); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}

	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextHTML, email.HTML)
	if email.Text != "" {
		msg.AddAlternativeString(mail.TypeTextPlain, email.Text)
	}

	return msg, nil
}
