// AngelaMos | 2026
// fcm.go

package notify

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// fcmBatchLimit is the largest message list SendEach accepts.
const fcmBatchLimit = 500

type batchSender interface {
	SendEach(ctx context.Context, messages []*messaging.Message) (*messaging.BatchResponse, error)
}

type FCMPusher struct {
	client batchSender
	logger *slog.Logger
}

func NewFCMPusher(
	ctx context.Context,
	credentialsFile string,
	logger *slog.Logger,
) (*FCMPusher, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}

	return newFCMPusher(client, logger), nil
}

func newFCMPusher(client batchSender, logger *slog.Logger) *FCMPusher {
	if logger == nil {
		logger = slog.Default()
	}
	return &FCMPusher{client: client, logger: logger}
}

func (p *FCMPusher) Push(
	ctx context.Context,
	tokens []string,
	title, body string,
) (PushReport, error) {
	var report PushReport

	for start := 0; start < len(tokens); start += fcmBatchLimit {
		end := min(start+fcmBatchLimit, len(tokens))
		batch := tokens[start:end]

		messages := make([]*messaging.Message, 0, len(batch))
		for _, token := range batch {
			messages = append(messages, &messaging.Message{
				Token: token,
				Notification: &messaging.Notification{
					Title: title,
					Body:  body,
				},
			})
		}

		resp, err := p.client.SendEach(ctx, messages)
		if err != nil {
			report.Failed += len(batch)
			p.logger.ErrorContext(ctx, "fcm batch failed",
				"batch_size", len(batch),
				"error", err,
			)
			continue
		}

		report.Sent += resp.SuccessCount
		report.Failed += resp.FailureCount

		for i, r := range resp.Responses {
			if r == nil || r.Success {
				continue
			}
			p.logger.WarnContext(ctx, "fcm delivery failed",
				"token_suffix", tokenSuffix(batch[i]),
				"error", r.Error,
			)
		}
	}

	if report.Sent == 0 && report.Failed > 0 {
		return report, fmt.Errorf("push: all %d deliveries failed", report.Failed)
	}
	return report, nil
}

func tokenSuffix(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[len(token)-8:]
}
