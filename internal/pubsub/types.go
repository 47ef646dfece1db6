package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client *pubsub.Client
}

// noop is used when no Google Cloud project is configured.
type noop struct{}

// Message attribute keys.
const (
	AttrEventType = "event_type"
	AttrEventID   = "event_id"
)
