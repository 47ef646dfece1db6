package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)

	svc.IncMutations("create_match")
	svc.IncMutations("create_match")
	svc.IncMutations("delete_match")
	svc.IncValidationFailures("create_match")
	svc.IncEventsPublished("match-recorded")
	svc.AddMatchesImported(3)
	svc.IncRatingDrift()

	assert.Equal(t, 2.0, testutil.ToFloat64(svc.Mutations.WithLabelValues("create_match")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.Mutations.WithLabelValues("delete_match")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.ValidationFailures.WithLabelValues("create_match")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.EventsPublished.WithLabelValues("match-recorded")))
	assert.Equal(t, 3.0, testutil.ToFloat64(svc.MatchesImported))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.RatingDrift))
}

func TestServiceLeagueSize(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)

	svc.SetLeagueSize(9, 3, 6)

	assert.Equal(t, 9.0, testutil.ToFloat64(svc.LeagueSize.WithLabelValues("players")))
	assert.Equal(t, 3.0, testutil.ToFloat64(svc.LeagueSize.WithLabelValues("matches")))
	assert.Equal(t, 6.0, testutil.ToFloat64(svc.LeagueSize.WithLabelValues("partnerships")))
}

func TestMetricsHandlerExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)
	svc.SetStartupTime(1.5)
	svc.ObserveRecomputeDuration(0.002)

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "league_startup_duration_seconds 1.5"))
	assert.True(t, strings.Contains(body, "league_recompute_duration_seconds_count 1"))
}

func TestMockRecordsCalls(t *testing.T) {
	m := NewMock()
	m.IncMutations("create_player")
	m.SetLeagueSize(1, 2, 3)
	m.IncEventsFailed("match-deleted")

	assert.Equal(t, 1, m.Mutations("create_player"))
	players, matches, partnerships := m.LeagueSize()
	assert.Equal(t, []int{1, 2, 3}, []int{players, matches, partnerships})
	assert.Equal(t, 1, m.EventsFailed("match-deleted"))
}
