package processor

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-league/internal/club"
	"github.com/mauv0809/padel-league/internal/league"
	"github.com/mauv0809/padel-league/internal/metrics"
	"github.com/mauv0809/padel-league/internal/notifier"
	"github.com/mauv0809/padel-league/internal/pubsub"
	"github.com/mauv0809/padel-league/internal/stats"
	"golang.org/x/sync/errgroup"
)

var _ club.EventSink = (*Processor)(nil)

// New creates a new Processor. An empty topic falls back to DefaultTopic.
func New(notifier notifier.Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, topic string) *Processor {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Processor{
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		topic:    topic,
	}
}

// Dispatch publishes the event and, for match changes, posts a Slack result.
// A full recompute posts the refreshed leaderboard instead. Both run
// concurrently; the first error is returned after both finish.
func (p *Processor) Dispatch(ctx context.Context, event league.Event) error {
	dryRun := notifier.IsDryRun(ctx)
	log.Debug("Dispatching league event", "type", event.Type, "eventID", event.ID, "dryRun", dryRun)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.publish(gctx, event, dryRun)
	})
	switch {
	case shouldNotify(event):
		g.Go(func() error {
			return p.notifier.SendMatchResult(gctx, event, dryRun)
		})
	case event.Type == league.EventStatsRecomputed:
		g.Go(func() error {
			return p.notifier.SendLeaderboard(gctx, stats.Leaderboard(event.Players), dryRun)
		})
	}
	return g.Wait()
}

func (p *Processor) publish(ctx context.Context, event league.Event, dryRun bool) error {
	if dryRun {
		log.Info("[Dry Run] Would publish league event", "topic", p.topic, "type", event.Type, "eventID", event.ID)
		return nil
	}
	attributes := map[string]string{
		pubsub.AttrEventType: string(event.Type),
		pubsub.AttrEventID:   event.ID,
	}
	if err := p.pubsub.SendMessage(ctx, p.topic, event, attributes); err != nil {
		p.metrics.IncEventsFailed(string(event.Type))
		return err
	}
	p.metrics.IncEventsPublished(string(event.Type))
	return nil
}

// shouldNotify skips non-match events and edits that leave the result untouched.
func shouldNotify(event league.Event) bool {
	switch event.Type {
	case league.EventMatchRecorded, league.EventMatchDeleted:
		return event.Match != nil
	case league.EventMatchUpdated:
		return event.Match != nil && (event.Previous == nil || !event.Previous.SameOutcomeInputs(*event.Match))
	}
	return false
}
