package club

import (
	"context"
	"errors"

	"github.com/mauv0809/padel-league/internal/league"
)

// ClubStore owns the league's players, matches and partnerships.
// Every mutation recomputes all derived statistics before it commits.
type ClubStore interface {
	CreatePlayer(ctx context.Context, name string, active bool) (league.Player, error)
	UpdatePlayer(ctx context.Context, id int64, update league.PlayerUpdate) (league.Player, error)
	DeletePlayer(ctx context.Context, id int64) (league.DeleteOutcome, error)
	GetAllPlayers(ctx context.Context) ([]league.Player, error)
	GetPlayer(ctx context.Context, id int64) (league.Player, error)

	CreateMatch(ctx context.Context, in league.MatchInput) (league.Match, error)
	UpdateMatch(ctx context.Context, id int64, update league.MatchUpdate) (league.Match, error)
	DeleteMatch(ctx context.Context, id int64) error
	GetAllMatches(ctx context.Context) ([]league.Match, error)
	GetMatch(ctx context.Context, id int64) (league.Match, error)

	GetPartnerships(ctx context.Context) ([]league.Partnership, error)
	RecomputeStats(ctx context.Context) error
	Snapshot(ctx context.Context) (league.State, error)
	HasExternalMatch(ctx context.Context, externalID string) (bool, error)
}

// EventSink receives league events after their mutation has been committed.
type EventSink interface {
	Dispatch(ctx context.Context, event league.Event) error
}

// ErrAlreadyImported is returned by CreateMatch when the input's external id
// has already been recorded.
var ErrAlreadyImported = errors.New("match already imported")
