package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/padel-league/internal/league"
	"github.com/mauv0809/padel-league/internal/metrics"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func sampleMatch() *league.Match {
	return &league.Match{
		ID:          1,
		Date:        "2025-03-24",
		PlayerA1:    "Alice",
		PlayerA2:    "Bob",
		PlayerB1:    "Carol",
		PlayerB2:    "Dave",
		ScoreA:      6,
		ScoreB:      2,
		EloChangeA1: 13,
		EloChangeA2: 13,
		EloChangeB1: -13,
		EloChangeB2: -13,
	}
}

func samplePlayers() []league.Player {
	return []league.Player{
		{Name: "Alice", Rating: 1513},
		{Name: "Bob", Rating: 1513},
		{Name: "Carol", Rating: 1487},
		{Name: "Dave", Rating: 1487},
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(context.Background(), message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Unconfigured(t *testing.T) {
	metrics := metrics.NewMock()
	notifier := NewNotifier("", "", metrics)

	_, _, err := notifier.sendMessage(context.Background(), slackapi.NewBlockMessage(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(context.Background(), message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(context.Background(), slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendMatchResult_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}
	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	err := notifier.SendMatchResult(context.Background(), league.Event{Type: league.EventMatchRecorded, Match: sampleMatch()}, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendMatchResult")
}

func TestSendMatchResult_WithoutMatch(t *testing.T) {
	notifier := NewNotifierWithAPI(&mockSlackAPI{}, "C123", metrics.NewMock())
	err := notifier.SendMatchResult(context.Background(), league.Event{Type: league.EventMatchRecorded}, false)
	assert.ErrorIs(t, err, errNoMatch)
}

func TestFormatMatchResult(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	msg, err := client.formatMatchResult(league.Event{
		Type:    league.EventMatchRecorded,
		Match:   sampleMatch(),
		Players: samplePlayers(),
	})
	require.NoError(t, err)
	require.Len(t, msg.Blocks.BlockSet, 3)

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "First block should be a HeaderBlock")
	assert.Equal(t, "🎾 Match recorded! 🎾", header.Text.Text)

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "2025-03-24\nAlice & Bob 6 - 2 Carol & Dave", details.Text.Text)

	result, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Result: Alice & Bob won! 🏆", result.Text.Text)
	require.Len(t, result.Fields, 4)
	assert.Equal(t, "Alice\n1513 (+13)", result.Fields[0].Text)
	assert.Equal(t, "Carol\n1487 (-13)", result.Fields[2].Text)
}

func TestFormatMatchResult_Deleted(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	players := []league.Player{{Name: "Alice", Rating: 1500}}
	msg, err := client.formatMatchResult(league.Event{Type: league.EventMatchDeleted, Match: sampleMatch(), Players: players})
	require.NoError(t, err)

	header := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	assert.Equal(t, "🗑️ Match removed 🗑️", header.Text.Text)
	result := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	assert.Equal(t, "Alice\n1500 (-13)", result.Fields[0].Text)
	assert.Equal(t, "Carol\n+13", result.Fields[2].Text)
}

func TestFormatMatchResult_UpdatedShowsPrevious(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	previous := sampleMatch()
	next := sampleMatch()
	next.ScoreA, next.ScoreB = 2, 6
	next.SetTeamDeltas(-13, 13)

	msg, err := client.formatMatchResult(league.Event{Type: league.EventMatchUpdated, Match: next, Previous: previous})
	require.NoError(t, err)
	require.Len(t, msg.Blocks.BlockSet, 4)

	result := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	assert.Equal(t, "Result: Carol & Dave won! 🏆", result.Text.Text)

	contextBlock, ok := msg.Blocks.BlockSet[3].(*slackapi.ContextBlock)
	require.True(t, ok)
	element := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	assert.Equal(t, "Previously: Alice & Bob 6 - 2 Carol & Dave", element.Text)
}

func TestFormatLeaderboard(t *testing.T) {
	t.Run("displays leaderboard with stats", func(t *testing.T) {
		players := []league.Player{
			{Name: "Alice", Rating: 1513, PowerRanking: 30, Wins: 1, WinPercentage: "100.00", PointDiff: 4},
			{Name: "Bob", Rating: 1500, PowerRanking: 0, WinPercentage: "0.00"},
			{Name: "Carol", Rating: 1487, PowerRanking: -20, Losses: 1, WinPercentage: "0.00", PointDiff: -4},
		}

		client := &Notifier{channelID: "C123"}
		msg := client.formatLeaderboard(players)

		require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks (header + 3 players)")

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "🏆 Player Leaderboard 🏆", header.Text.Text)

		first := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Contains(t, first.Text.Text, "1. 🥇 Alice")
		assert.Contains(t, first.Text.Text, "> Elo: 1513 | Power: 30 | W/L: 1/0 (100.00%) | Diff: +4")

		third := msg.Blocks.BlockSet[3].(*slackapi.SectionBlock)
		assert.Contains(t, third.Text.Text, "3. 🥉 Carol")
		assert.Contains(t, third.Text.Text, "Diff: -4")
	})

	t.Run("displays message when no players exist", func(t *testing.T) {
		client := &Notifier{channelID: "C123"}
		msg := client.formatLeaderboard(nil)
		require.Len(t, msg.Blocks.BlockSet, 2, "Expected 2 blocks (header + message)")
	})
}

func TestFormatPartnerships(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	resp, err := client.FormatPartnershipsResponse([]league.Partnership{
		{Player1: "Alice", Player2: "Bob", ChemistryRating: "93.1", Rating: 1513, Wins: 1, WinPercentage: "100.00"},
	})
	require.NoError(t, err)
	msg, ok := resp.(slackapi.Message)
	require.True(t, ok)
	require.Len(t, msg.Blocks.BlockSet, 2)
	section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	assert.Equal(t, "1. 🥇 *Alice & Bob*\n> Chemistry: 93.1 | Elo: 1513 | W/L: 1/0 (100.00%)", section.Text.Text)
}
