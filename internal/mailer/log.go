package mailer

import (
	"context"

	"bloghub/internal/middleware"
)

// logPublisher stands in when no broker is configured. Emails are logged
// instead of delivered, which keeps local development working without
// RabbitMQ running.
type logPublisher struct{}

// NewLogPublisher returns a Publisher that only logs messages.
func NewLogPublisher() Publisher {
	return logPublisher{}
}

func (logPublisher) EnqueueVerification(ctx context.Context, msg Message) error {
	middleware.Logger.InfoContext(ctx, "verification email (no broker configured)",
		"recipient", msg.Recipient, "token", msg.Token)
	return nil
}

func (logPublisher) EnqueuePasswordReset(ctx context.Context, msg Message) error {
	middleware.Logger.InfoContext(ctx, "password reset email (no broker configured)",
		"recipient", msg.Recipient, "uid", msg.UID, "token", msg.Token)
	return nil
}
