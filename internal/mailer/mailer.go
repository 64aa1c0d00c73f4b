// Package mailer handles transactional email delivery through the
// message queue. The API enqueues messages and a separate worker
// process renders and sends them over SMTP.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"bloghub/internal/middleware"
	"bloghub/internal/mq"
)

// Message types carried on the email queue.
const (
	TypeVerification  = "verification"
	TypePasswordReset = "password_reset"
)

// Message is the queue payload for one outgoing email.
type Message struct {
	Type      string `json:"type"`
	UserID    uint   `json:"user_id"`
	Recipient string `json:"recipient"`
	FirstName string `json:"first_name"`
	Domain    string `json:"domain"`
	Token     string `json:"token"`
	UID       string `json:"uid,omitempty"`
}

// Publisher enqueues emails for asynchronous delivery.
type Publisher interface {
	EnqueueVerification(ctx context.Context, msg Message) error
	EnqueuePasswordReset(ctx context.Context, msg Message) error
}

type queuePublisher struct {
	queue string
	mq    *mq.MQ
}

// NewQueuePublisher returns a Publisher backed by the message queue.
func NewQueuePublisher(q *mq.MQ, queue string) Publisher {
	return &queuePublisher{queue: queue, mq: q}
}

func (p *queuePublisher) EnqueueVerification(ctx context.Context, msg Message) error {
	msg.Type = TypeVerification
	return p.publish(ctx, msg)
}

func (p *queuePublisher) EnqueuePasswordReset(ctx context.Context, msg Message) error {
	msg.Type = TypePasswordReset
	return p.publish(ctx, msg)
}

func (p *queuePublisher) publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal email message: %w", err)
	}
	if _, err := p.mq.Publish(ctx, p.queue, data, map[string]string{"type": msg.Type}); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	middleware.EmailsEnqueued.WithLabelValues(msg.Type).Inc()
	return nil
}
