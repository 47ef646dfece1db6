package club_test

import (
	"context"
	"sync"
	"testing"

	"github.com/mauv0809/padel-league/internal/club"
	"github.com/mauv0809/padel-league/internal/database"
	"github.com/mauv0809/padel-league/internal/league"
	"github.com/mauv0809/padel-league/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []league.Event
}

func (r *recordingSink) Dispatch(ctx context.Context, event league.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) types() []league.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]league.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// setupTestDB creates an in-memory SQLite database and a store on top of it.
func setupTestDB(t *testing.T) (club.ClubStore, *metrics.Mock, *recordingSink) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	m := metrics.NewMock()
	sink := &recordingSink{}
	return club.New(db, m, sink), m, sink
}

func seedPlayers(t *testing.T, store club.ClubStore, names ...string) map[string]league.Player {
	t.Helper()
	out := make(map[string]league.Player, len(names))
	for _, name := range names {
		p, err := store.CreatePlayer(context.Background(), name, true)
		require.NoError(t, err)
		out[name] = p
	}
	return out
}

func ratings(t *testing.T, store club.ClubStore) map[string]int {
	t.Helper()
	players, err := store.GetAllPlayers(context.Background())
	require.NoError(t, err)
	out := make(map[string]int, len(players))
	for _, p := range players {
		out[p.Name] = p.Rating
	}
	return out
}

var sixTwo = league.MatchInput{
	Date:     "2025-03-24",
	PlayerA1: "Alice",
	PlayerA2: "Bob",
	PlayerB1: "Carol",
	PlayerB2: "Dave",
	ScoreA:   6,
	ScoreB:   2,
}

func TestCreatePlayer(t *testing.T) {
	store, m, _ := setupTestDB(t)
	ctx := context.Background()

	p, err := store.CreatePlayer(ctx, "  Alice ", true)
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, league.InitialRating, p.Rating)
	assert.Equal(t, "0.00", p.WinPercentage)
	assert.True(t, p.Active)

	_, err = store.CreatePlayer(ctx, "Alice", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, league.ErrValidation)

	_, err = store.CreatePlayer(ctx, "A", true)
	assert.ErrorIs(t, err, league.ErrValidation)

	players, err := store.GetAllPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 1)
	assert.Equal(t, 1, m.Mutations("create_player"))
	assert.Equal(t, 2, m.ValidationFailures("create_player"))
}

func TestCreateMatchScoresAgainstCurrentRatings(t *testing.T) {
	store, m, sink := setupTestDB(t)
	ctx := context.Background()
	seedPlayers(t, store, "Alice", "Bob", "Carol", "Dave")

	match, err := store.CreateMatch(ctx, sixTwo)
	require.NoError(t, err)
	assert.NotZero(t, match.ID)
	assert.Equal(t, 13, match.EloChangeA1)
	assert.Equal(t, 13, match.EloChangeA2)
	assert.Equal(t, -13, match.EloChangeB1)
	assert.Equal(t, -13, match.EloChangeB2)

	r := ratings(t, store)
	assert.Equal(t, 1513, r["Alice"])
	assert.Equal(t, 1513, r["Bob"])
	assert.Equal(t, 1487, r["Carol"])
	assert.Equal(t, 1487, r["Dave"])

	partnerships, err := store.GetPartnerships(ctx)
	require.NoError(t, err)
	require.Len(t, partnerships, 2)
	assert.Equal(t, "Alice-Bob", partnerships[0].ID)
	assert.Equal(t, 1513, partnerships[0].Rating)
	assert.Equal(t, "Carol-Dave", partnerships[1].ID)

	players, matches, ps := m.LeagueSize()
	assert.Equal(t, 4, players)
	assert.Equal(t, 1, matches)
	assert.Equal(t, 2, ps)
	assert.Zero(t, m.RatingDrift())

	require.NotEmpty(t, sink.events)
	last := sink.events[len(sink.events)-1]
	assert.Equal(t, league.EventMatchRecorded, last.Type)
	assert.NotEmpty(t, last.ID)
	assert.Len(t, last.Players, 4)
}

func TestCreateMatchRejectsInvalidInput(t *testing.T) {
	store, m, _ := setupTestDB(t)
	ctx := context.Background()
	seedPlayers(t, store, "Alice", "Bob", "Carol", "Dave")

	tests := []struct {
		name  string
		edit  func(in *league.MatchInput)
		field string
	}{
		{"unknown player", func(in *league.MatchInput) { in.PlayerB2 = "Ghost" }, "playerB2"},
		{"draw", func(in *league.MatchInput) { in.ScoreB = 6 }, "scoreB"},
		{"duplicate teammate", func(in *league.MatchInput) { in.PlayerA2 = "Alice" }, "playerA2"},
		{"bad date", func(in *league.MatchInput) { in.Date = "24/03/2025" }, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sixTwo
			tt.edit(&in)
			_, err := store.CreateMatch(ctx, in)
			require.Error(t, err)
			var verr *league.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	matches, err := store.GetAllMatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, matches)
	for _, rating := range ratings(t, store) {
		assert.Equal(t, league.InitialRating, rating)
	}
	assert.Equal(t, len(tests), m.ValidationFailures("create_match"))
}

func TestDeleteMatchRestoresRatings(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()
	seedPlayers(t, store, "Alice", "Bob", "Carol", "Dave")

	match, err := store.CreateMatch(ctx, sixTwo)
	require.NoError(t, err)

	require.NoError(t, store.DeleteMatch(ctx, match.ID))

	for name, rating := range ratings(t, store) {
		assert.Equal(t, league.InitialRating, rating, name)
	}
	players, err := store.GetAllPlayers(ctx)
	require.NoError(t, err)
	for _, p := range players {
		assert.Zero(t, p.GamesPlayed)
		assert.Equal(t, "0.00", p.WinPercentage)
	}
	partnerships, err := store.GetPartnerships(ctx)
	require.NoError(t, err)
	assert.Empty(t, partnerships)

	err = store.DeleteMatch(ctx, match.ID)
	assert.ErrorIs(t, err, league.ErrNotFound)
}

func TestUpdateMatchReversesAndRescores(t *testing.T) {
	store, m, sink := setupTestDB(t)
	ctx := context.Background()
	seedPlayers(t, store, "Alice", "Bob", "Carol", "Dave")

	match, err := store.CreateMatch(ctx, sixTwo)
	require.NoError(t, err)

	scoreA, scoreB := 2, 6
	updated, err := store.UpdateMatch(ctx, match.ID, league.MatchUpdate{ScoreA: &scoreA, ScoreB: &scoreB})
	require.NoError(t, err)
	assert.Equal(t, -13, updated.EloChangeA1)
	assert.Equal(t, 13, updated.EloChangeB1)

	r := ratings(t, store)
	assert.Equal(t, 1487, r["Alice"])
	assert.Equal(t, 1513, r["Carol"])
	assert.Zero(t, m.RatingDrift())

	last := sink.events[len(sink.events)-1]
	assert.Equal(t, league.EventMatchUpdated, last.Type)
	require.NotNil(t, last.Previous)
	assert.Equal(t, 13, last.Previous.EloChangeA1)
}

func TestUpdateMatchDateOnlyKeepsDeltas(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()
	seedPlayers(t, store, "Alice", "Bob", "Carol", "Dave", "Erin", "Frank")

	first, err := store.CreateMatch(ctx, sixTwo)
	require.NoError(t, err)
	// Move ratings so a rescore would produce a different delta.
	_, err = store.CreateMatch(ctx, league.MatchInput{
		Date: "2025-03-25", PlayerA1: "Alice", PlayerA2: "Erin", PlayerB1: "Bob", PlayerB2: "Frank", ScoreA: 6, ScoreB: 0,
	})
	require.NoError(t, err)

	date := "2025-03-20"
	updated, err := store.UpdateMatch(ctx, first.ID, league.MatchUpdate{Date: &date})
	require.NoError(t, err)
	assert.Equal(t, date, updated.Date)
	assert.Equal(t, first.Deltas(), updated.Deltas())
}

func TestUpdateMatchValidation(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()
	seedPlayers(t, store, "Alice", "Bob", "Carol", "Dave")

	match, err := store.CreateMatch(ctx, sixTwo)
	require.NoError(t, err)

	score := 2
	_, err = store.UpdateMatch(ctx, match.ID, league.MatchUpdate{ScoreA: &score})
	assert.ErrorIs(t, err, league.ErrValidation)

	_, err = store.UpdateMatch(ctx, 999, league.MatchUpdate{ScoreA: &score})
	assert.ErrorIs(t, err, league.ErrNotFound)

	stored, err := store.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stored.ScoreA)
	assert.Equal(t, 13, stored.EloChangeA1)
}

func TestDeletePlayer(t *testing.T) {
	store, _, sink := setupTestDB(t)
	ctx := context.Background()
	players := seedPlayers(t, store, "Alice", "Bob", "Carol", "Dave", "Erin")

	_, err := store.CreateMatch(ctx, sixTwo)
	require.NoError(t, err)

	outcome, err := store.DeletePlayer(ctx, players["Alice"].ID)
	require.NoError(t, err)
	assert.Equal(t, league.OutcomeDeactivated, outcome)

	alice, err := store.GetPlayer(ctx, players["Alice"].ID)
	require.NoError(t, err)
	assert.False(t, alice.Active)
	assert.Equal(t, 1513, alice.Rating)

	outcome, err = store.DeletePlayer(ctx, players["Erin"].ID)
	require.NoError(t, err)
	assert.Equal(t, league.OutcomeDeleted, outcome)

	_, err = store.GetPlayer(ctx, players["Erin"].ID)
	assert.ErrorIs(t, err, league.ErrNotFound)

	_, err = store.DeletePlayer(ctx, players["Erin"].ID)
	assert.ErrorIs(t, err, league.ErrNotFound)

	assert.Contains(t, sink.types(), league.EventPlayerRemoved)
}

func TestUpdatePlayer(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()
	players := seedPlayers(t, store, "Alice", "Bob")

	name := " Alicia "
	active := false
	p, err := store.UpdatePlayer(ctx, players["Alice"].ID, league.PlayerUpdate{Name: &name, Active: &active})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", p.Name)
	assert.False(t, p.Active)

	taken := "Bob"
	_, err = store.UpdatePlayer(ctx, players["Alice"].ID, league.PlayerUpdate{Name: &taken})
	assert.ErrorIs(t, err, league.ErrValidation)

	_, err = store.UpdatePlayer(ctx, 999, league.PlayerUpdate{Active: &active})
	assert.ErrorIs(t, err, league.ErrNotFound)
}

func TestRenamePlayerWithHistory(t *testing.T) {
	store, m, _ := setupTestDB(t)
	ctx := context.Background()
	players := seedPlayers(t, store, "Alice", "Bob", "Carol", "Dave")
	_, err := store.CreateMatch(ctx, sixTwo)
	require.NoError(t, err)

	name := "Alicia"
	renamed, err := store.UpdatePlayer(ctx, players["Alice"].ID, league.PlayerUpdate{Name: &name})
	require.NoError(t, err)

	// Matches still name Alice, so the renamed player loses that history.
	assert.Equal(t, "Alicia", renamed.Name)
	assert.Equal(t, league.InitialRating, renamed.Rating)
	assert.Equal(t, 0, renamed.GamesPlayed)
	assert.Equal(t, 1513, ratings(t, store)["Bob"])

	matches, err := store.GetAllMatches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Alice", matches[0].PlayerA1)

	partnerships, err := store.GetPartnerships(ctx)
	require.NoError(t, err)
	require.Len(t, partnerships, 2)
	assert.Equal(t, "Alice-Bob", partnerships[0].ID)
	assert.Equal(t, "0.00", partnerships[0].ChemistryRating)
	assert.Equal(t, league.InitialRating, partnerships[0].Rating)
	assert.Equal(t, 1, partnerships[0].GamesPlayed)

	// A new player taking the old name picks the history back up.
	again, err := store.CreatePlayer(ctx, "Alice", true)
	require.NoError(t, err)
	assert.Equal(t, 1513, again.Rating)
	assert.Equal(t, 1, again.GamesPlayed)

	assert.Equal(t, 0, m.RatingDrift())
}

func TestHyphenatedNamesKeepSeparatePartnerships(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()
	seedPlayers(t, store, "Bob", "Jean-Luc", "Bob-Jean", "Luc", "Carol", "Dave")

	_, err := store.CreateMatch(ctx, league.MatchInput{
		Date: "2025-03-24", PlayerA1: "Bob", PlayerA2: "Jean-Luc", PlayerB1: "Carol", PlayerB2: "Dave", ScoreA: 6, ScoreB: 2,
	})
	require.NoError(t, err)
	_, err = store.CreateMatch(ctx, league.MatchInput{
		Date: "2025-03-25", PlayerA1: "Bob-Jean", PlayerA2: "Luc", PlayerB1: "Carol", PlayerB2: "Dave", ScoreA: 1, ScoreB: 6,
	})
	require.NoError(t, err)

	partnerships, err := store.GetPartnerships(ctx)
	require.NoError(t, err)
	byPair := make(map[[2]string]league.Partnership, len(partnerships))
	for _, p := range partnerships {
		byPair[[2]string{p.Player1, p.Player2}] = p
	}
	require.Len(t, byPair, 3)

	first := byPair[[2]string{"Bob", "Jean-Luc"}]
	assert.Equal(t, 1, first.GamesPlayed)
	assert.Equal(t, 1, first.Wins)
	second := byPair[[2]string{"Bob-Jean", "Luc"}]
	assert.Equal(t, 1, second.GamesPlayed)
	assert.Equal(t, 1, second.Losses)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestInactivePlayerCanStillPlay(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()
	players := seedPlayers(t, store, "Alice", "Bob", "Carol", "Dave")

	active := false
	_, err := store.UpdatePlayer(ctx, players["Dave"].ID, league.PlayerUpdate{Active: &active})
	require.NoError(t, err)

	_, err = store.CreateMatch(ctx, sixTwo)
	require.NoError(t, err)
	assert.Equal(t, 1487, ratings(t, store)["Dave"])
}

func TestRecomputeStatsIsIdempotent(t *testing.T) {
	store, m, sink := setupTestDB(t)
	ctx := context.Background()
	seedPlayers(t, store, "Alice", "Bob", "Carol", "Dave")

	_, err := store.CreateMatch(ctx, sixTwo)
	require.NoError(t, err)
	_, err = store.CreateMatch(ctx, league.MatchInput{
		Date: "2025-03-25", PlayerA1: "Alice", PlayerA2: "Carol", PlayerB1: "Bob", PlayerB2: "Dave", ScoreA: 3, ScoreB: 6,
	})
	require.NoError(t, err)

	before, err := store.Snapshot(ctx)
	require.NoError(t, err)

	require.NoError(t, store.RecomputeStats(ctx))
	require.NoError(t, store.RecomputeStats(ctx))

	after, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Zero(t, m.RatingDrift())
	assert.Equal(t, 2, m.Mutations("recompute"))
	assert.Contains(t, sink.types(), league.EventStatsRecomputed)

	last := sink.events[len(sink.events)-1]
	require.Equal(t, league.EventStatsRecomputed, last.Type)
	assert.Len(t, last.Players, 4)
}

func TestRatingsEqualBaselinePlusDeltas(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()
	seedPlayers(t, store, "Alice", "Bob", "Carol", "Dave")

	games := []league.MatchInput{
		sixTwo,
		{Date: "2025-03-25", PlayerA1: "Alice", PlayerA2: "Carol", PlayerB1: "Bob", PlayerB2: "Dave", ScoreA: 7, ScoreB: 5},
		{Date: "2025-03-26", PlayerA1: "Dave", PlayerA2: "Alice", PlayerB1: "Carol", PlayerB2: "Bob", ScoreA: 1, ScoreB: 6},
	}
	for _, g := range games {
		_, err := store.CreateMatch(ctx, g)
		require.NoError(t, err)
	}

	state, err := store.Snapshot(ctx)
	require.NoError(t, err)

	sum := 0
	for _, p := range state.Players {
		want := league.InitialRating
		for _, m := range state.Matches {
			for slot, name := range m.Slots() {
				if name == p.Name {
					want += m.Deltas()[slot]
				}
			}
		}
		assert.Equal(t, want, p.Rating, p.Name)
		sum += p.Rating - league.InitialRating
	}
	assert.Zero(t, sum)
}

func TestHasExternalMatch(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()
	seedPlayers(t, store, "Alice", "Bob", "Carol", "Dave")

	in := sixTwo
	in.ExternalID = "ext-1"
	match, err := store.CreateMatch(ctx, in)
	require.NoError(t, err)

	found, err := store.HasExternalMatch(ctx, "ext-1")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.HasExternalMatch(ctx, "ext-2")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.DeleteMatch(ctx, match.ID))
	found, err = store.HasExternalMatch(ctx, "ext-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCreateMatchRejectsRepeatedExternalID(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()
	seedPlayers(t, store, "Alice", "Bob", "Carol", "Dave")

	in := sixTwo
	in.ExternalID = "ext-1"
	_, err := store.CreateMatch(ctx, in)
	require.NoError(t, err)

	_, err = store.CreateMatch(ctx, in)
	assert.ErrorIs(t, err, club.ErrAlreadyImported)

	matches, err := store.GetAllMatches(ctx)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Equal(t, 1513, ratings(t, store)["Alice"])
}

func TestGetNotFound(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()

	_, err := store.GetPlayer(ctx, 42)
	assert.ErrorIs(t, err, league.ErrNotFound)
	_, err = store.GetMatch(ctx, 42)
	assert.ErrorIs(t, err, league.ErrNotFound)
}
