package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMutations(op string)
	IncValidationFailures(op string)
	ObserveRecomputeDuration(duration float64)
	SetLeagueSize(players, matches, partnerships int)
	IncRatingDrift()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	IncEventsPublished(eventType string)
	IncEventsFailed(eventType string)
	AddMatchesImported(count int)
	SetStartupTime(duration float64)
}
