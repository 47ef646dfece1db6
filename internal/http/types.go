package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/padel-league/internal/club"
	"github.com/mauv0809/padel-league/internal/config"
	"github.com/mauv0809/padel-league/internal/importer"
	"github.com/mauv0809/padel-league/internal/league"
	"github.com/mauv0809/padel-league/internal/metrics"
	"github.com/mauv0809/padel-league/internal/notifier"
)

// Importer is the part of the Playtomic importer the server needs.
type Importer interface {
	Import(ctx context.Context, days int, dryRun bool) (importer.Report, error)
}

type Server struct {
	Store          club.ClubStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Importer       Importer
	Router         chi.Router
	handler        http.Handler
}

// createPlayerRequest is the body of POST /players.
type createPlayerRequest struct {
	Name   string `json:"name"`
	Active *bool  `json:"active,omitempty"`
}

// exportResponse is the body of GET /export.
type exportResponse struct {
	Players      []league.Player      `json:"players"`
	Matches      []league.Match       `json:"matches"`
	Partnerships []league.Partnership `json:"partnerships"`
	ExportedAt   string               `json:"exportedAt"`
}

type deletePlayerResponse struct {
	Outcome league.DeleteOutcome `json:"outcome"`
}
