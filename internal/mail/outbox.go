// Package mail queues activation mail on the API side and delivers it over
// SMTP on the worker side.
package mail

import (
	"context"
	"fmt"

	"restaurantadmin/internal/queue"
)

type Activation struct {
	Email string
	Name  string
	Code  string
}

type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, fields map[string]any) (string, error)
}

// Outbox hands activation mail to the worker through the task stream.
type Outbox struct {
	queue Enqueuer
}

func NewOutbox(q Enqueuer) *Outbox {
	return &Outbox{queue: q}
}

func (o *Outbox) SendActivation(ctx context.Context, a Activation) error {
	_, err := o.queue.Enqueue(ctx, queue.TaskActivationMail, map[string]any{
		"email": a.Email,
		"name":  a.Name,
		"code":  a.Code,
	})
	if err != nil {
		return fmt.Errorf("queue activation mail: %w", err)
	}
	return nil
}
