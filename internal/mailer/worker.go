package mailer

import (
	"context"
	"encoding/json"

	"bloghub/internal/middleware"
	"bloghub/internal/mq"
)

// Worker drains the email queue and delivers each message via the Sender.
type Worker struct {
	queue  string
	mq     *mq.MQ
	sender Sender
}

// NewWorker constructs a Worker bound to the given queue.
func NewWorker(q *mq.MQ, queue string, sender Sender) *Worker {
	return &Worker{queue: queue, mq: q, sender: sender}
}

// Run blocks consuming the queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	middleware.Logger.Info("email worker started", "queue", w.queue)
	return w.mq.Subscribe(ctx, w.queue, w.handle)
}

func (w *Worker) handle(ctx context.Context, msg mq.Message) error {
	var email Message
	if err := json.Unmarshal(msg.Data, &email); err != nil {
		// Malformed payloads are dropped, requeueing cannot fix them.
		middleware.Logger.Error("discarding malformed email message", "message_id", msg.ID, "error", err)
		middleware.EmailsDelivered.WithLabelValues("unknown", "discarded").Inc()
		return nil
	}

	if err := w.sender.Send(ctx, email); err != nil {
		middleware.Logger.Error("email delivery failed", "type", email.Type, "recipient", email.Recipient, "error", err)
		middleware.EmailsDelivered.WithLabelValues(email.Type, "error").Inc()
		return err
	}

	middleware.Logger.Info("email delivered", "type", email.Type, "recipient", email.Recipient)
	middleware.EmailsDelivered.WithLabelValues(email.Type, "ok").Inc()
	return nil
}
