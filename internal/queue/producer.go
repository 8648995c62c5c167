package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Task types carried in the "type" field of every stream entry.
const (
	TaskActivationMail = "activation_mail"
	TaskAvatarSweep    = "avatar_sweep"
)

type Producer struct {
	client *redis.Client
	stream string
}

func NewProducer(client *redis.Client, stream string) *Producer {
	return &Producer{client: client, stream: stream}
}

// Enqueue appends a task entry and returns its stream id.
func (p *Producer) Enqueue(ctx context.Context, taskType string, fields map[string]any) (string, error) {
	values := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	values["type"] = taskType

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd %s: %w", taskType, err)
	}
	return id, nil
}
