package club

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/padel-league/internal/league"
	"github.com/mauv0809/padel-league/internal/metrics"
)

// store handles all database operations for the league.
// mu serialises every read-modify-recompute cycle.
type store struct {
	db      *sql.DB
	mu      sync.RWMutex
	metrics metrics.Metrics
	sink    EventSink
	now     func() time.Time
}

// Operation names used for metrics and logs.
const (
	opCreatePlayer = "create_player"
	opUpdatePlayer = "update_player"
	opDeletePlayer = "delete_player"
	opCreateMatch  = "create_match"
	opUpdateMatch  = "update_match"
	opDeleteMatch  = "delete_match"
	opRecompute    = "recompute"
)

// change is what a mutation reports back to the commit pipeline.
type change struct {
	event league.Event
	// names of the players whose post-commit records belong in the event
	affected []string
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
