package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_mutations_total",
			Help: "The total number of committed league mutations.",
		}, []string{"op"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_validation_failures_total",
			Help: "The total number of mutations rejected as invalid.",
		}, []string{"op"}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "league_recompute_duration_seconds",
			Help:    "The duration of a full statistics recomputation.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		LeagueSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "league_entities",
			Help: "The number of players, matches and partnerships in the league.",
		}, []string{"kind"}),
		RatingDrift: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_rating_drift_total",
			Help: "The number of times incrementally applied ratings disagreed with the recomputed ratings.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_events_published_total",
			Help: "The total number of league events published.",
		}, []string{"type"}),
		EventsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_events_failed_total",
			Help: "The total number of league events that failed to publish.",
		}, []string{"type"}),
		MatchesImported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_matches_imported_total",
			Help: "The total number of matches imported from Playtomic.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "league_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Mutations,
		s.ValidationFailures,
		s.RecomputeDuration,
		s.LeagueSize,
		s.RatingDrift,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.EventsPublished,
		s.EventsFailed,
		s.MatchesImported,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMutations(op string) {
	s.Mutations.WithLabelValues(op).Inc()
}

func (s *Service) IncValidationFailures(op string) {
	s.ValidationFailures.WithLabelValues(op).Inc()
}

func (s *Service) ObserveRecomputeDuration(duration float64) {
	s.RecomputeDuration.Observe(duration)
}

func (s *Service) SetLeagueSize(players, matches, partnerships int) {
	s.LeagueSize.WithLabelValues("players").Set(float64(players))
	s.LeagueSize.WithLabelValues("matches").Set(float64(matches))
	s.LeagueSize.WithLabelValues("partnerships").Set(float64(partnerships))
}

func (s *Service) IncRatingDrift() {
	s.RatingDrift.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) IncEventsPublished(eventType string) {
	s.EventsPublished.WithLabelValues(eventType).Inc()
}

func (s *Service) IncEventsFailed(eventType string) {
	s.EventsFailed.WithLabelValues(eventType).Inc()
}

func (s *Service) AddMatchesImported(count int) {
	s.MatchesImported.Add(float64(count))
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
