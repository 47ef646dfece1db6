package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	mutations          map[string]int
	validationFailures map[string]int
	recomputeDurations []float64
	players            int
	matches            int
	partnerships       int
	ratingDrift        int
	slackNotifSent     int
	slackNotifFailed   int
	eventsPublished    map[string]int
	eventsFailed       map[string]int
	matchesImported    int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		mutations:          make(map[string]int),
		validationFailures: make(map[string]int),
		recomputeDurations: make([]float64, 0),
		eventsPublished:    make(map[string]int),
		eventsFailed:       make(map[string]int),
	}
}

func (m *Mock) IncMutations(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations[op]++
}

func (m *Mock) IncValidationFailures(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validationFailures[op]++
}

func (m *Mock) ObserveRecomputeDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recomputeDurations = append(m.recomputeDurations, duration)
}

func (m *Mock) SetLeagueSize(players, matches, partnerships int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players, m.matches, m.partnerships = players, matches, partnerships
}

func (m *Mock) IncRatingDrift() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratingDrift++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) IncEventsPublished(eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished[eventType]++
}

func (m *Mock) IncEventsFailed(eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsFailed[eventType]++
}

func (m *Mock) AddMatchesImported(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesImported += count
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Getters for assertions.

func (m *Mock) Mutations(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutations[op]
}

func (m *Mock) ValidationFailures(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validationFailures[op]
}

func (m *Mock) RecomputeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recomputeDurations)
}

func (m *Mock) LeagueSize() (players, matches, partnerships int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.players, m.matches, m.partnerships
}

func (m *Mock) RatingDrift() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ratingDrift
}

func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

func (m *Mock) EventsPublished(eventType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished[eventType]
}

func (m *Mock) EventsFailed(eventType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsFailed[eventType]
}

func (m *Mock) MatchesImported() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesImported
}

func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}
