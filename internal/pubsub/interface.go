package pubsub

import "context"

// PubSubClient publishes league events.
type PubSubClient interface {
	SendMessage(ctx context.Context, topic string, data any, attributes map[string]string) error
	Close() error
}
