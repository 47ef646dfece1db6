package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-league/internal/league"
	"github.com/mauv0809/padel-league/internal/metrics"
	"github.com/mauv0809/padel-league/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

var errNoMatch = errors.New("event carries no match")

const sendTimeout = 10 * time.Second

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier. Without a token or channel every
// message is logged instead of posted.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	n := &Notifier{
		channelID: channelID,
		metrics:   metrics,
	}
	if token != "" && channelID != "" {
		n.api = slack.New(token)
	}
	return n
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendMatchResult posts a recorded, corrected or removed match with the rating changes it caused.
func (s *Notifier) SendMatchResult(ctx context.Context, event league.Event, dryRun bool) error {
	msg, err := s.formatMatchResult(event)
	if err != nil {
		return err
	}
	_, _, err = s.sendMessage(ctx, msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(ctx context.Context, players []league.Player, dryRun bool) error {
	msg := s.formatLeaderboard(players)
	_, _, err := s.sendMessage(ctx, msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(players []league.Player) (any, error) {
	return s.formatLeaderboard(players), nil
}

// FormatPartnershipsResponse formats the partnership table for a slash command response.
func (s *Notifier) FormatPartnershipsResponse(partnerships []league.Partnership) (any, error) {
	return s.formatPartnerships(partnerships), nil
}

func (s *Notifier) formatMatchResult(event league.Event) (slack.Message, error) {
	if event.Match == nil {
		return slack.Message{}, fmt.Errorf("%s: %w", event.Type, errNoMatch)
	}
	m := *event.Match
	blocks := make([]slack.Block, 0)

	var header string
	sign := 1
	switch event.Type {
	case league.EventMatchUpdated:
		header = "✏️ Match corrected ✏️"
	case league.EventMatchDeleted:
		header = "🗑️ Match removed 🗑️"
		sign = -1
	default:
		header = "🎾 Match recorded! 🎾"
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", header, true, false)))

	teamA := fmt.Sprintf("%s & %s", m.PlayerA1, m.PlayerA2)
	teamB := fmt.Sprintf("%s & %s", m.PlayerB1, m.PlayerB2)
	detailsText := fmt.Sprintf("%s\n%s %d - %d %s", m.Date, teamA, m.ScoreA, m.ScoreB, teamB)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	winners := teamB
	if m.TeamAWon() {
		winners = teamA
	}
	resultText := fmt.Sprintf("Result: %s won! 🏆", winners)
	if event.Type == league.EventMatchDeleted {
		resultText = "Rating changes from this match have been reversed."
	}

	current := make(map[string]int, len(event.Players))
	for _, p := range event.Players {
		current[p.Name] = p.Rating
	}
	deltas := m.Deltas()
	var fields []*slack.TextBlockObject
	for slot, name := range m.Slots() {
		text := fmt.Sprintf("%s\n%s", name, signed(sign*deltas[slot]))
		if rating, ok := current[name]; ok {
			text = fmt.Sprintf("%s\n%d (%s)", name, rating, signed(sign*deltas[slot]))
		}
		fields = append(fields, slack.NewTextBlockObject("plain_text", text, true, false))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), fields, nil))

	if event.Type == league.EventMatchUpdated && event.Previous != nil && !event.Previous.SameOutcomeInputs(m) {
		prev := *event.Previous
		was := fmt.Sprintf("Previously: %s & %s %d - %d %s & %s", prev.PlayerA1, prev.PlayerA2, prev.ScoreA, prev.ScoreB, prev.PlayerB1, prev.PlayerB2)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", was, true, false)))
	}

	return slack.NewBlockMessage(blocks...), nil
}

// formatLeaderboard creates a Slack message to display the player leaderboard.
// Players are listed in the order given.
func (s *Notifier) formatLeaderboard(players []league.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Player Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players yet. Add some and go play!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, p := range players {
		rank := i + 1
		playerText := fmt.Sprintf("%d. %s%s\n> Elo: %d | Power: %d | W/L: %d/%d (%s%%) | Diff: %s",
			rank,
			medal(rank),
			p.Name,
			p.Rating,
			p.PowerRanking,
			p.Wins,
			p.Losses,
			p.WinPercentage,
			signed(p.PointDiff),
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatPartnerships(partnerships []league.Partnership) slack.Message {
	blocks := make([]slack.Block, 0)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "🤝 Top Partnerships 🤝", true, false)))

	if len(partnerships) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No partnerships yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	lines := make([]string, 0, len(partnerships))
	for i, p := range partnerships {
		lines = append(lines, fmt.Sprintf("%d. %s*%s & %s*\n> Chemistry: %s | Elo: %d | W/L: %d/%d (%s%%)",
			i+1, medal(i+1), p.Player1, p.Player2, p.ChemistryRating, p.Rating, p.Wins, p.Losses, p.WinPercentage))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))
	return slack.NewBlockMessage(blocks...)
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇 "
	case 2:
		return "🥈 "
	case 3:
		return "🥉 "
	}
	return ""
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
