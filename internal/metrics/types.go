package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	Mutations          *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	RecomputeDuration  prometheus.Histogram
	LeagueSize         *prometheus.GaugeVec
	RatingDrift        prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	EventsPublished    *prometheus.CounterVec
	EventsFailed       *prometheus.CounterVec
	MatchesImported    prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
