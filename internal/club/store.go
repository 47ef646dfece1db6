package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/padel-league/internal/league"
	"github.com/mauv0809/padel-league/internal/metrics"
	"github.com/mauv0809/padel-league/internal/rating"
	"github.com/mauv0809/padel-league/internal/stats"
)

// New creates a new ClubStore. sink may be nil when no events are wanted.
func New(db *sql.DB, metrics metrics.Metrics, sink EventSink) ClubStore {
	return &store{
		db:      db,
		metrics: metrics,
		sink:    sink,
		now:     time.Now,
	}
}

// CreatePlayer adds a player with a unique, trimmed name.
func (s *store) CreatePlayer(ctx context.Context, name string, active bool) (league.Player, error) {
	var created league.Player
	ch, err := s.mutate(ctx, opCreatePlayer, func(tx *sql.Tx, st *league.State) (change, error) {
		clean, err := league.NormalizePlayerName(name)
		if err != nil {
			return change{}, err
		}
		if _, taken := league.NewRoster(st.Players).Lookup(clean); taken {
			return change{}, fmt.Errorf("%w: %q", league.ErrDuplicateName, clean)
		}
		p := league.Player{Name: clean, Active: active, Rating: league.InitialRating}
		id, err := insertPlayer(ctx, tx, p, s.now())
		if err != nil {
			return change{}, err
		}
		p.ID = id
		st.Players = append(st.Players, p)
		log.Info("Created player", "playerID", id, "name", clean)
		return change{event: league.Event{Type: league.EventPlayerCreated}, affected: []string{clean}}, nil
	})
	if err != nil {
		return league.Player{}, err
	}
	created = ch.event.Players[0]
	ch.event.Player = &created
	s.publish(ctx, ch.event)
	return created, nil
}

// UpdatePlayer edits a player's name or active flag. A rename does not touch
// matches that reference the old name.
func (s *store) UpdatePlayer(ctx context.Context, id int64, update league.PlayerUpdate) (league.Player, error) {
	ch, err := s.mutate(ctx, opUpdatePlayer, func(tx *sql.Tx, st *league.State) (change, error) {
		idx := playerIndex(st.Players, id)
		if idx < 0 {
			return change{}, fmt.Errorf("player %d: %w", id, league.ErrNotFound)
		}
		p := st.Players[idx]
		if update.Name != nil {
			clean, err := league.NormalizePlayerName(*update.Name)
			if err != nil {
				return change{}, err
			}
			if clean != p.Name {
				if _, taken := league.NewRoster(st.Players).Lookup(clean); taken {
					return change{}, fmt.Errorf("%w: %q", league.ErrDuplicateName, clean)
				}
				if refs := countReferences(st.Matches, p.Name); refs > 0 {
					log.Warn("Renamed player is referenced by existing matches; match history is not rewritten",
						"playerID", id, "from", p.Name, "to", clean, "matches", refs)
				}
				p.Name = clean
			}
		}
		if update.Active != nil {
			p.Active = *update.Active
		}
		if err := updatePlayerRow(ctx, tx, p); err != nil {
			return change{}, err
		}
		st.Players[idx] = p
		log.Info("Updated player", "playerID", id, "name", p.Name, "active", p.Active)
		return change{event: league.Event{Type: league.EventPlayerUpdated}, affected: []string{p.Name}}, nil
	})
	if err != nil {
		return league.Player{}, err
	}
	updated := ch.event.Players[0]
	ch.event.Player = &updated
	s.publish(ctx, ch.event)
	return updated, nil
}

// DeletePlayer hard deletes an unreferenced player. A player named by any
// match is only marked inactive.
func (s *store) DeletePlayer(ctx context.Context, id int64) (league.DeleteOutcome, error) {
	var outcome league.DeleteOutcome
	var removed league.Player
	ch, err := s.mutate(ctx, opDeletePlayer, func(tx *sql.Tx, st *league.State) (change, error) {
		idx := playerIndex(st.Players, id)
		if idx < 0 {
			return change{}, fmt.Errorf("player %d: %w", id, league.ErrNotFound)
		}
		p := st.Players[idx]
		if refs := countReferences(st.Matches, p.Name); refs > 0 {
			p.Active = false
			if err := updatePlayerRow(ctx, tx, p); err != nil {
				return change{}, err
			}
			st.Players[idx] = p
			outcome = league.OutcomeDeactivated
			log.Info("Player is referenced by matches, marked inactive instead of deleting", "playerID", id, "matches", refs)
		} else {
			if err := deletePlayerRow(ctx, tx, id); err != nil {
				return change{}, err
			}
			st.Players = append(st.Players[:idx], st.Players[idx+1:]...)
			outcome = league.OutcomeDeleted
			log.Info("Deleted player", "playerID", id, "name", p.Name)
		}
		removed = p
		return change{event: league.Event{Type: league.EventPlayerRemoved}}, nil
	})
	if err != nil {
		return "", err
	}
	ch.event.Player = &removed
	s.publish(ctx, ch.event)
	return outcome, nil
}

// CreateMatch records a result, scoring it against the players' current ratings.
func (s *store) CreateMatch(ctx context.Context, in league.MatchInput) (league.Match, error) {
	ch, err := s.mutate(ctx, opCreateMatch, func(tx *sql.Tx, st *league.State) (change, error) {
		m, err := league.NormalizeMatch(in.Match())
		if err != nil {
			return change{}, err
		}
		if in.ExternalID != "" {
			seen, err := externalMatchExists(ctx, tx, in.ExternalID)
			if err != nil {
				return change{}, err
			}
			if seen {
				return change{}, fmt.Errorf("%s: %w", in.ExternalID, ErrAlreadyImported)
			}
		}
		if err := scoreMatch(st, &m); err != nil {
			return change{}, err
		}
		applyDeltas(st, m, 1)

		m.CreatedAt = s.now().UTC().Truncate(time.Second)
		id, err := insertMatch(ctx, tx, m)
		if err != nil {
			return change{}, err
		}
		m.ID = id
		if in.ExternalID != "" {
			if err := recordImport(ctx, tx, in.ExternalID, id, m.CreatedAt); err != nil {
				return change{}, err
			}
		}
		st.Matches = append(st.Matches, m)

		deltaA, deltaB := m.TeamDelta()
		log.Info("Created match", "matchID", id, "teamA", []string{m.PlayerA1, m.PlayerA2}, "teamB", []string{m.PlayerB1, m.PlayerB2},
			"score", fmt.Sprintf("%d-%d", m.ScoreA, m.ScoreB), "eloChangeA", deltaA, "eloChangeB", deltaB)
		return change{
			event:    league.Event{Type: league.EventMatchRecorded, Match: &m},
			affected: m.Names(),
		}, nil
	})
	if err != nil {
		return league.Match{}, err
	}
	s.publish(ctx, ch.event)
	return *ch.event.Match, nil
}

// UpdateMatch applies a partial edit. When teams or scores change, the stored
// deltas are reversed first and new ones are computed from the post-reversal ratings.
func (s *store) UpdateMatch(ctx context.Context, id int64, update league.MatchUpdate) (league.Match, error) {
	ch, err := s.mutate(ctx, opUpdateMatch, func(tx *sql.Tx, st *league.State) (change, error) {
		idx := matchIndex(st.Matches, id)
		if idx < 0 {
			return change{}, fmt.Errorf("match %d: %w", id, league.ErrNotFound)
		}
		previous := st.Matches[idx]
		next, err := league.NormalizeMatch(update.Apply(previous))
		if err != nil {
			return change{}, err
		}

		if !next.SameOutcomeInputs(previous) {
			if _, err := league.NewRoster(st.Players).Resolve(next); err != nil {
				return change{}, err
			}
			applyDeltas(st, previous, -1)
			if err := scoreMatch(st, &next); err != nil {
				return change{}, err
			}
			applyDeltas(st, next, 1)
			previousA, _ := previous.TeamDelta()
			nextA, _ := next.TeamDelta()
			log.Info("Match outcome changed, deltas recomputed", "matchID", id,
				"previousEloChangeA", previousA, "eloChangeA", nextA)
		}

		if err := updateMatchRow(ctx, tx, next); err != nil {
			return change{}, err
		}
		st.Matches[idx] = next

		affected := append(previous.Names(), next.Names()...)
		return change{
			event:    league.Event{Type: league.EventMatchUpdated, Match: &next, Previous: &previous},
			affected: affected,
		}, nil
	})
	if err != nil {
		return league.Match{}, err
	}
	s.publish(ctx, ch.event)
	return *ch.event.Match, nil
}

// DeleteMatch reverses a match's deltas and removes it.
func (s *store) DeleteMatch(ctx context.Context, id int64) error {
	ch, err := s.mutate(ctx, opDeleteMatch, func(tx *sql.Tx, st *league.State) (change, error) {
		idx := matchIndex(st.Matches, id)
		if idx < 0 {
			return change{}, fmt.Errorf("match %d: %w", id, league.ErrNotFound)
		}
		m := st.Matches[idx]
		applyDeltas(st, m, -1)
		if err := deleteMatchRow(ctx, tx, id); err != nil {
			return change{}, err
		}
		st.Matches = append(st.Matches[:idx], st.Matches[idx+1:]...)
		log.Info("Deleted match", "matchID", id)
		return change{
			event:    league.Event{Type: league.EventMatchDeleted, Match: &m},
			affected: m.Names(),
		}, nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, ch.event)
	return nil
}

// RecomputeStats runs a full aggregation pass without changing any stored data.
// Its event carries every player.
func (s *store) RecomputeStats(ctx context.Context) error {
	ch, err := s.mutate(ctx, opRecompute, func(tx *sql.Tx, st *league.State) (change, error) {
		names := make([]string, 0, len(st.Players))
		for _, p := range st.Players {
			names = append(names, p.Name)
		}
		return change{event: league.Event{Type: league.EventStatsRecomputed}, affected: names}, nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, ch.event)
	return nil
}

func (s *store) GetAllPlayers(ctx context.Context) ([]league.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryPlayers(ctx, s.db)
}

func (s *store) GetPlayer(ctx context.Context, id int64) (league.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getPlayer(ctx, s.db, id)
}

func (s *store) GetAllMatches(ctx context.Context) ([]league.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryMatches(ctx, s.db)
}

func (s *store) GetMatch(ctx context.Context, id int64) (league.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getMatch(ctx, s.db, id)
}

func (s *store) GetPartnerships(ctx context.Context) ([]league.Partnership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryPartnerships(ctx, s.db)
}

// Snapshot returns the persisted league as of the last commit.
func (s *store) Snapshot(ctx context.Context) (league.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, err := loadState(ctx, s.db)
	if err != nil {
		return league.State{}, err
	}
	st.Partnerships, err = queryPartnerships(ctx, s.db)
	if err != nil {
		return league.State{}, err
	}
	return st, nil
}

// HasExternalMatch reports whether a match with the given source id was already imported.
func (s *store) HasExternalMatch(ctx context.Context, externalID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return externalMatchExists(ctx, s.db, externalID)
}

// mutate runs fn against a freshly loaded state inside a transaction, then
// recomputes all derived statistics and persists them before committing.
func (s *store) mutate(ctx context.Context, op string, fn func(tx *sql.Tx, st *league.State) (change, error)) (change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return change{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	st, err := loadState(ctx, tx)
	if err != nil {
		return change{}, err
	}
	loadedNames := make(map[int64]string, len(st.Players))
	for _, p := range st.Players {
		loadedNames[p.ID] = p.Name
	}

	ch, err := fn(tx, &st)
	if err != nil {
		if errors.Is(err, league.ErrValidation) {
			s.metrics.IncValidationFailures(op)
		}
		return change{}, err
	}

	incremental := make(map[int64]int, len(st.Players))
	for _, p := range st.Players {
		incremental[p.ID] = p.Rating
	}

	start := time.Now()
	next := stats.Aggregate(st)
	s.metrics.ObserveRecomputeDuration(time.Since(start).Seconds())

	// Renamed and newly created players can legitimately gain or lose history
	// through name matching, so drift is only checked for unchanged names.
	for _, p := range next.Players {
		if name, ok := loadedNames[p.ID]; !ok || name != p.Name {
			continue
		}
		if want := incremental[p.ID]; want != p.Rating {
			s.metrics.IncRatingDrift()
			log.Warn("Incremental rating disagrees with recomputed rating; using recomputed value",
				"op", op, "player", p.Name, "incremental", want, "recomputed", p.Rating)
		}
	}

	if err := saveDerived(ctx, tx, next); err != nil {
		return change{}, err
	}
	if err := tx.Commit(); err != nil {
		return change{}, fmt.Errorf("failed to commit %s: %w", op, err)
	}

	s.metrics.IncMutations(op)
	s.metrics.SetLeagueSize(len(next.Players), len(next.Matches), len(next.Partnerships))

	ch.event.Players = affectedPlayers(next.Players, ch.affected)
	return ch, nil
}

// publish hands a committed event to the sink. Failures are logged only.
func (s *store) publish(ctx context.Context, event league.Event) {
	if s.sink == nil {
		return
	}
	event.ID = uuid.NewString()
	event.OccurredAt = s.now().UTC()
	if err := s.sink.Dispatch(context.WithoutCancel(ctx), event); err != nil {
		log.Error("Failed to dispatch league event", "type", event.Type, "eventID", event.ID, "error", err)
	}
}

// scoreMatch computes the deltas of m from the current ratings in st.
func scoreMatch(st *league.State, m *league.Match) error {
	idx, err := league.NewRoster(st.Players).Resolve(*m)
	if err != nil {
		return err
	}
	r := func(i int) int { return st.Players[idx[i]].Rating }
	d, err := rating.TeamDeltas(r(0), r(1), r(2), r(3), m.ScoreA, m.ScoreB)
	if err != nil {
		return league.Invalid("scoreB", "scores cannot be equal (draws are not allowed)")
	}
	m.SetTeamDeltas(d.TeamA, d.TeamB)
	return nil
}

// applyDeltas adds (sign 1) or reverses (sign -1) a match's stored deltas.
// Names that no longer resolve are skipped.
func applyDeltas(st *league.State, m league.Match, sign int) {
	roster := league.NewRoster(st.Players)
	deltas := m.Deltas()
	for slot, name := range m.Slots() {
		if i, ok := roster.Lookup(name); ok {
			st.Players[i].Rating += sign * deltas[slot]
		}
	}
}

func playerIndex(players []league.Player, id int64) int {
	for i, p := range players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func matchIndex(matches []league.Match, id int64) int {
	for i, m := range matches {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func countReferences(matches []league.Match, name string) int {
	n := 0
	for _, m := range matches {
		if m.References(name) {
			n++
		}
	}
	return n
}

func affectedPlayers(players []league.Player, names []string) []league.Player {
	if len(names) == 0 {
		return nil
	}
	roster := league.NewRoster(players)
	seen := make(map[string]bool, len(names))
	out := make([]league.Player, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if i, ok := roster.Lookup(name); ok {
			out = append(out, players[i])
		}
	}
	return out
}
