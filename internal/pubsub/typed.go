package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
)

// Topic binds a topic name to the payload type carried on it.
type Topic[T any] struct {
	name string
}

// NewTopic declares a typed topic.
func NewTopic[T any](name string) Topic[T] {
	return Topic[T]{name: name}
}

// Name returns the topic name.
func (t Topic[T]) Name() string {
	return t.name
}

// Publish sends payload as JSON on topic. The compiler ensures payload matches T.
func Publish[T any](ctx context.Context, p Publisher, topic Topic[T], userID string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic.name, err)
	}
	return p.Publish(ctx, Message{
		Topic:   topic.name,
		UserID:  userID,
		Payload: data,
	})
}

// Subscribe decodes each message on topic into T before calling handler.
func Subscribe[T any](ctx context.Context, s Subscriber, topic Topic[T], handler func(ctx context.Context, payload T) error) error {
	return s.Subscribe(ctx, topic.name, func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", topic.name, err)
		}
		return handler(ctx, payload)
	})
}
