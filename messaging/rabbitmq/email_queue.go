package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"freight-admin/services/notification"

	"github.com/google/uuid"
)

// Publisher sends raw bodies to a queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// EmailJob is the message a mail worker consumes.
type EmailJob struct {
	JobID     string    `json:"job_id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"created_at"`
}

// EmailQueue is a notification channel that enqueues emails for a worker.
type EmailQueue struct {
	publisher Publisher
	queue     string
}

func NewEmailQueue(p Publisher, queue string) *EmailQueue {
	return &EmailQueue{publisher: p, queue: queue}
}

func (q *EmailQueue) Send(ctx context.Context, msg notification.Message) error {
	body, err := json.Marshal(EmailJob{
		JobID:     uuid.NewString(),
		To:        msg.To,
		Subject:   msg.Subject,
		HTML:      msg.HTMLBody,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}
	if err := q.publisher.Publish(ctx, q.queue, body); err != nil {
		return fmt.Errorf("enqueue email to %s: %w", q.queue, err)
	}
	return nil
}
