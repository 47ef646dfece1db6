// Package importer turns played Playtomic doubles bookings into league matches.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-league/internal/club"
	"github.com/mauv0809/padel-league/internal/league"
	"github.com/mauv0809/padel-league/internal/metrics"
	"github.com/mauv0809/padel-league/internal/playtomic"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultDays is the look-back window used when none is given.
	DefaultDays = 7
	// MaxDays bounds the look-back window.
	MaxDays       = 90
	fetchParallel = 4
	searchLayout  = "2006-01-02T15:04:05"
	dateLayout    = "2006-01-02"
)

// Skip reasons reported for bookings that did not become matches.
const (
	ReasonAlreadyImported = "already-imported"
	ReasonNotPlayed       = "not-played"
	ReasonNotDoubles      = "not-doubles"
	ReasonUnknownPlayer   = "unknown-player"
	ReasonTied            = "tied"
	ReasonInvalid         = "invalid"
)

// Skipped describes a booking that was not imported.
type Skipped struct {
	ExternalID string `json:"externalId"`
	Reason     string `json:"reason"`
	Detail     string `json:"detail,omitempty"`
}

// Report summarises an import run.
type Report struct {
	Fetched  int            `json:"fetched"`
	Imported []league.Match `json:"imported"`
	Skipped  []Skipped      `json:"skipped"`
	DryRun   bool           `json:"dryRun"`
}

// Importer pulls bookings for one Playtomic tenant into the league.
type Importer struct {
	store    club.ClubStore
	client   playtomic.PlaytomicClient
	metrics  metrics.Metrics
	tenantID string
	now      func() time.Time
}

// New creates an Importer for the given tenant.
func New(store club.ClubStore, client playtomic.PlaytomicClient, metrics metrics.Metrics, tenantID string) *Importer {
	return &Importer{
		store:    store,
		client:   client,
		metrics:  metrics,
		tenantID: tenantID,
		now:      time.Now,
	}
}

type candidate struct {
	externalID string
	start      time.Time
	input      league.MatchInput
}

// Import fetches bookings that started in the last days days and records each
// played, confirmed doubles match exactly once, oldest first. With dryRun the
// matches are only reported.
func (im *Importer) Import(ctx context.Context, days int, dryRun bool) (Report, error) {
	if days <= 0 {
		days = DefaultDays
	}
	if days > MaxDays {
		return Report{}, league.Invalid("days", "cannot exceed %d", MaxDays)
	}
	report := Report{Imported: []league.Match{}, Skipped: []Skipped{}, DryRun: dryRun}

	players, err := im.store.GetAllPlayers(ctx)
	if err != nil {
		return report, err
	}
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	mapper := newNameMapper(names)

	from := im.now().AddDate(0, 0, -days).UTC().Format(searchLayout)
	summaries, err := im.client.GetMatches(ctx, &playtomic.SearchMatchesParams{
		SportID:       "PADEL",
		HasPlayers:    true,
		Sort:          "start_date,ASC",
		TenantIDs:     []string{im.tenantID},
		FromStartDate: from,
	})
	if err != nil {
		return report, fmt.Errorf("failed to search playtomic matches: %w", err)
	}
	report.Fetched = len(summaries)
	log.Info("Importing Playtomic matches", "tenantID", im.tenantID, "from", from, "found", len(summaries), "dryRun", dryRun)

	var pending []string
	for _, s := range summaries {
		seen, err := im.store.HasExternalMatch(ctx, s.MatchID)
		if err != nil {
			return report, err
		}
		if seen {
			report.Skipped = append(report.Skipped, Skipped{ExternalID: s.MatchID, Reason: ReasonAlreadyImported})
			continue
		}
		pending = append(pending, s.MatchID)
	}

	details, err := im.fetchDetails(ctx, pending)
	if err != nil {
		return report, err
	}

	var candidates []candidate
	for _, match := range details {
		c, skip := toCandidate(match, mapper)
		if skip != nil {
			log.Debug("Skipping Playtomic match", "matchID", match.MatchID, "reason", skip.Reason, "detail", skip.Detail)
			report.Skipped = append(report.Skipped, *skip)
			continue
		}
		candidates = append(candidates, c)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].start.Before(candidates[j].start)
	})

	for _, c := range candidates {
		if dryRun {
			report.Imported = append(report.Imported, c.input.Match())
			continue
		}
		m, err := im.store.CreateMatch(ctx, c.input)
		if errors.Is(err, club.ErrAlreadyImported) {
			// Recorded by a concurrent run since the dedupe check above.
			report.Skipped = append(report.Skipped, Skipped{ExternalID: c.externalID, Reason: ReasonAlreadyImported})
			continue
		}
		if errors.Is(err, league.ErrValidation) {
			report.Skipped = append(report.Skipped, Skipped{ExternalID: c.externalID, Reason: ReasonInvalid, Detail: err.Error()})
			continue
		}
		if err != nil {
			return report, fmt.Errorf("failed to record playtomic match %s: %w", c.externalID, err)
		}
		report.Imported = append(report.Imported, m)
	}

	if !dryRun {
		im.metrics.AddMatchesImported(len(report.Imported))
	}
	log.Info("Playtomic import finished", "imported", len(report.Imported), "skipped", len(report.Skipped), "dryRun", dryRun)
	return report, nil
}

// fetchDetails loads the full bookings with bounded parallelism, keeping input order.
func (im *Importer) fetchDetails(ctx context.Context, ids []string) ([]playtomic.PadelMatch, error) {
	details := make([]playtomic.PadelMatch, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchParallel)
	for i, id := range ids {
		g.Go(func() error {
			match, err := im.client.GetSpecificMatch(gctx, id)
			if err != nil {
				return fmt.Errorf("failed to fetch playtomic match %s: %w", id, err)
			}
			details[i] = match
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

// toCandidate converts a booking into a match input, or explains why it cannot be one.
func toCandidate(match playtomic.PadelMatch, mapper *nameMapper) (candidate, *Skipped) {
	skip := func(reason, detail string) (candidate, *Skipped) {
		return candidate{}, &Skipped{ExternalID: match.MatchID, Reason: reason, Detail: detail}
	}

	if match.GameStatus != playtomic.GameStatusPlayed || match.ResultsStatus != playtomic.ResultsStatusConfirmed {
		return skip(ReasonNotPlayed, fmt.Sprintf("game %s, results %s", match.GameStatus, match.ResultsStatus))
	}
	if len(match.Teams) != 2 || len(match.Teams[0].Players) != 2 || len(match.Teams[1].Players) != 2 {
		return skip(ReasonNotDoubles, "")
	}

	var slots [4]string
	for t, team := range match.Teams {
		for p, player := range team.Players {
			name, ok := mapper.Resolve(player.Name)
			if !ok {
				return skip(ReasonUnknownPlayer, player.Name)
			}
			slots[t*2+p] = name
		}
	}

	teamA, teamB := match.Teams[0].ID, match.Teams[1].ID
	var scoreA, scoreB int
	for _, set := range match.Results {
		scoreA += set.Scores[teamA]
		scoreB += set.Scores[teamB]
	}
	if scoreA == scoreB {
		return skip(ReasonTied, fmt.Sprintf("%d-%d", scoreA, scoreB))
	}

	return candidate{
		externalID: match.MatchID,
		start:      match.Start,
		input: league.MatchInput{
			Date:       match.Start.Format(dateLayout),
			PlayerA1:   slots[0],
			PlayerA2:   slots[1],
			PlayerB1:   slots[2],
			PlayerB2:   slots[3],
			ScoreA:     scoreA,
			ScoreB:     scoreB,
			ExternalID: match.MatchID,
		},
	}, nil
}
