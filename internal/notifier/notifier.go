package notifier

import (
	"context"

	"github.com/mauv0809/padel-league/internal/league"
)

// Notifier defines a high-level interface for sending notifications about league events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For committed match changes
	SendMatchResult(ctx context.Context, event league.Event, dryRun bool) error
	// For slash commands
	SendLeaderboard(ctx context.Context, players []league.Player, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(players []league.Player) (any, error)
	FormatPartnershipsResponse(partnerships []league.Partnership) (any, error)
}

type dryRunKey struct{}

// WithDryRun marks ctx so that downstream notifications and publishes are only logged.
func WithDryRun(ctx context.Context, dryRun bool) context.Context {
	return context.WithValue(ctx, dryRunKey{}, dryRun)
}

// IsDryRun reports whether ctx was marked by WithDryRun.
func IsDryRun(ctx context.Context) bool {
	dryRun, _ := ctx.Value(dryRunKey{}).(bool)
	return dryRun
}
