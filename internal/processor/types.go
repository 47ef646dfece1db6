package processor

import (
	"github.com/mauv0809/padel-league/internal/metrics"
	"github.com/mauv0809/padel-league/internal/notifier"
	"github.com/mauv0809/padel-league/internal/pubsub"
)

// DefaultTopic is the Pub/Sub topic league events are published to.
const DefaultTopic = "league-events"

// Processor fans committed league events out to Pub/Sub and Slack.
type Processor struct {
	pubsub   pubsub.PubSubClient
	notifier notifier.Notifier
	metrics  metrics.Metrics
	topic    string
}
