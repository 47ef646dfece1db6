package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/padel-league/internal/league"
	"github.com/mauv0809/padel-league/internal/metrics"
	"github.com/mauv0809/padel-league/internal/notifier"
	"github.com/mauv0809/padel-league/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor() (*Processor, *notifier.Mock, *metrics.Mock, *pubsub.MockPubSubClient) {
	notif := notifier.NewMock()
	metr := metrics.NewMock()
	ps := pubsub.NewMock()
	return New(notif, metr, ps, ""), notif, metr, ps
}

func recorded() league.Event {
	return league.Event{
		ID:    "evt-1",
		Type:  league.EventMatchRecorded,
		Match: &league.Match{ID: 1, PlayerA1: "Alice", PlayerA2: "Bob", PlayerB1: "Carol", PlayerB2: "Dave", ScoreA: 6, ScoreB: 2},
	}
}

func TestDispatch(t *testing.T) {
	t.Run("match recorded is published and notified", func(t *testing.T) {
		p, notif, metr, ps := newTestProcessor()

		require.NoError(t, p.Dispatch(context.Background(), recorded()))

		require.Len(t, ps.SendMessageCalls, 1)
		call := ps.SendMessageCalls[0]
		assert.Equal(t, DefaultTopic, call.Topic)
		assert.Equal(t, "match-recorded", call.Attributes[pubsub.AttrEventType])
		assert.Equal(t, "evt-1", call.Attributes[pubsub.AttrEventID])
		require.Len(t, notif.SendMatchResultCalls, 1)
		assert.False(t, notif.SendMatchResultCalls[0].DryRun)
		assert.Equal(t, 1, metr.EventsPublished("match-recorded"))
	})

	t.Run("player events are published but not notified", func(t *testing.T) {
		p, notif, _, ps := newTestProcessor()

		err := p.Dispatch(context.Background(), league.Event{Type: league.EventPlayerCreated, Player: &league.Player{Name: "Alice"}})
		require.NoError(t, err)
		assert.Len(t, ps.SendMessageCalls, 1)
		assert.Empty(t, notif.SendMatchResultCalls)
	})

	t.Run("date only update is not notified", func(t *testing.T) {
		p, notif, _, _ := newTestProcessor()
		event := recorded()
		previous := *event.Match
		previous.Date = "2025-03-20"
		event.Type = league.EventMatchUpdated
		event.Previous = &previous

		require.NoError(t, p.Dispatch(context.Background(), event))
		assert.Empty(t, notif.SendMatchResultCalls)
	})

	t.Run("recompute posts the active leaderboard", func(t *testing.T) {
		p, notif, _, ps := newTestProcessor()
		event := league.Event{
			Type: league.EventStatsRecomputed,
			Players: []league.Player{
				{Name: "Bob", Active: true, Rating: 1487, PowerRanking: -20},
				{Name: "Alice", Active: true, Rating: 1513, PowerRanking: 20},
				{Name: "Carol", Active: false, Rating: 1500},
			},
		}

		require.NoError(t, p.Dispatch(context.Background(), event))
		assert.Len(t, ps.SendMessageCalls, 1)
		assert.Empty(t, notif.SendMatchResultCalls)
		require.Len(t, notif.SendLeaderboardCalls, 1)
		board := notif.SendLeaderboardCalls[0]
		require.Len(t, board, 2)
		assert.Equal(t, "Alice", board[0].Name)
		assert.Equal(t, "Bob", board[1].Name)
	})

	t.Run("dry run skips publishing and marks notification", func(t *testing.T) {
		p, notif, metr, ps := newTestProcessor()

		ctx := notifier.WithDryRun(context.Background(), true)
		require.NoError(t, p.Dispatch(ctx, recorded()))
		assert.Empty(t, ps.SendMessageCalls)
		require.Len(t, notif.SendMatchResultCalls, 1)
		assert.True(t, notif.SendMatchResultCalls[0].DryRun)
		assert.Equal(t, 0, metr.EventsPublished("match-recorded"))
	})

	t.Run("publish failure is counted and returned", func(t *testing.T) {
		p, notif, metr, ps := newTestProcessor()
		ps.SendMessageFunc = func(topic string, data any) error { return errors.New("unavailable") }

		err := p.Dispatch(context.Background(), recorded())
		require.Error(t, err)
		assert.Equal(t, 1, metr.EventsFailed("match-recorded"))
		assert.Len(t, notif.SendMatchResultCalls, 1)
	})
}
