package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mauv0809/padel-league/internal/club"
	"github.com/mauv0809/padel-league/internal/config"
	"github.com/mauv0809/padel-league/internal/metrics"
	"github.com/mauv0809/padel-league/internal/notifier"
	"github.com/rs/cors"
)

func NewServer(store club.ClubStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, importer Importer) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Importer:       importer,
		Router:         chi.NewRouter(),
	}

	server.routes()
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	server.handler = c.Handler(server.Router)
	return server
}

func (s *Server) routes() {
	// Every route except /metrics goes through paramsMiddleware for verbose and dry_run handling.
	s.Router.Use(chiMiddleware.Recoverer)
	s.Router.Method(http.MethodGet, "/metrics", s.MetricsHandler)

	s.Router.Group(func(r chi.Router) {
		r.Use(paramsMiddleware)

		r.Get("/health", s.HealthCheckHandler())

		r.Route("/players", func(r chi.Router) {
			r.Get("/", s.ListPlayersHandler())
			r.Post("/", s.CreatePlayerHandler())
			r.Get("/{id}", s.GetPlayerHandler())
			r.Patch("/{id}", s.UpdatePlayerHandler())
			r.Delete("/{id}", s.DeletePlayerHandler())
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", s.ListMatchesHandler())
			r.Post("/", s.CreateMatchHandler())
			r.Get("/{id}", s.GetMatchHandler())
			r.Patch("/{id}", s.UpdateMatchHandler())
			r.Delete("/{id}", s.DeleteMatchHandler())
		})

		r.Get("/partnerships", s.ListPartnershipsHandler())
		r.Post("/recompute", s.RecomputeHandler())
		r.Get("/export", s.ExportHandler())
		r.Post("/import", s.ImportHandler())

		r.Method(http.MethodPost, "/slack/command/leaderboard", Chain(
			s.LeaderboardCommandHandler(),
			slackVerificationMiddleware(s.Cfg.Slack.SigningSecret),
		))
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
