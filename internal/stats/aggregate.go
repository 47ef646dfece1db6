// Package stats derives player and partnership statistics from match history.
package stats

import (
	"sort"
	"strconv"

	"github.com/mauv0809/padel-league/internal/league"
	"github.com/mauv0809/padel-league/internal/rating"
)

const (
	zeroPercentage = "0.00"

	powerRatingWeight    = 0.3
	powerPointDiffWeight = 4.0
	powerWinPctWeight    = 0.1

	chemistryBaseline        = 100.0
	chemistryExpectedWin     = 50.0
	chemistryWinPctWeight    = 0.5
	chemistryPointDiffWeight = 2.0
	fullSampleGames          = 3
)

// Aggregate resets every derived field and replays the match history in
// creation order. Ratings are rebuilt as the baseline plus each match's stored
// deltas; deltas are never recomputed here. The input is not modified.
func Aggregate(state league.State) league.State {
	players := make([]league.Player, len(state.Players))
	copy(players, state.Players)
	for i := range players {
		reset(&players[i])
	}

	matches := make([]league.Match, len(state.Matches))
	copy(matches, state.Matches)
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	roster := league.NewRoster(players)
	pairs := make(map[league.Pair]*league.Partnership)

	for _, m := range matches {
		deltas := m.Deltas()
		for slot, name := range m.Slots() {
			idx, ok := roster.Lookup(name)
			if !ok {
				continue
			}
			onTeamA := slot < 2
			record(&players[idx], m, onTeamA, deltas[slot])
		}
		recordPair(pairs, m.PlayerA1, m.PlayerA2, m.ScoreA, m.ScoreB)
		recordPair(pairs, m.PlayerB1, m.PlayerB2, m.ScoreB, m.ScoreA)
	}

	for i := range players {
		finishPlayer(&players[i])
	}

	partnerships := make([]league.Partnership, 0, len(pairs))
	for _, p := range pairs {
		finishPartnership(p, players, roster)
		partnerships = append(partnerships, *p)
	}
	sort.Slice(partnerships, func(i, j int) bool { return partnerships[i].ID < partnerships[j].ID })

	return league.State{
		Players:      players,
		Matches:      matches,
		Partnerships: partnerships,
	}
}

func reset(p *league.Player) {
	p.Rating = league.InitialRating
	p.GamesPlayed = 0
	p.Wins = 0
	p.Losses = 0
	p.PointsFor = 0
	p.PointsAgainst = 0
	p.PointDiff = 0
	p.WinPercentage = zeroPercentage
	p.PowerRanking = 0
}

func record(p *league.Player, m league.Match, onTeamA bool, delta int) {
	scored, conceded, won := m.ScoreA, m.ScoreB, m.TeamAWon()
	if !onTeamA {
		scored, conceded, won = m.ScoreB, m.ScoreA, !won
	}
	p.GamesPlayed++
	p.PointsFor += scored
	p.PointsAgainst += conceded
	if won {
		p.Wins++
	} else {
		p.Losses++
	}
	p.Rating += delta
}

func recordPair(pairs map[league.Pair]*league.Partnership, a, b string, scored, conceded int) {
	pair := league.NewPair(a, b)
	p, ok := pairs[pair]
	if !ok {
		p = &league.Partnership{
			ID:              pair.Key(),
			Player1:         pair.First,
			Player2:         pair.Second,
			WinPercentage:   zeroPercentage,
			ChemistryRating: zeroPercentage,
			Rating:          league.InitialRating,
		}
		pairs[pair] = p
	}
	p.GamesPlayed++
	p.PointsFor += scored
	p.PointsAgainst += conceded
	if scored > conceded {
		p.Wins++
	} else {
		p.Losses++
	}
}

func finishPlayer(p *league.Player) {
	p.PointDiff = p.PointsFor - p.PointsAgainst
	p.WinPercentage = percentage(p.Wins, p.GamesPlayed)
	winPct := parsePercentage(p.WinPercentage)
	p.PowerRanking = rating.Round(
		powerRatingWeight*float64(p.Rating-league.InitialRating) +
			powerPointDiffWeight*float64(p.PointDiff) +
			powerWinPctWeight*winPct,
	)
}

func finishPartnership(p *league.Partnership, players []league.Player, roster league.Roster) {
	p.PointDiff = p.PointsFor - p.PointsAgainst
	p.WinPercentage = percentage(p.Wins, p.GamesPlayed)

	i1, ok1 := roster.Lookup(p.Player1)
	i2, ok2 := roster.Lookup(p.Player2)
	if !ok1 || !ok2 {
		return
	}
	p.Rating = rating.Round(rating.TeamRating(players[i1].Rating, players[i2].Rating))
	p.ChemistryRating = strconv.FormatFloat(Chemistry(parsePercentage(p.WinPercentage), p.PointDiff, p.GamesPlayed), 'f', 1, 64)
}

// Chemistry scores how a pair performs together relative to a 50% baseline,
// dampened for partnerships with fewer than three games.
func Chemistry(winPct float64, pointDiff, gamesPlayed int) float64 {
	factor := chemistryBaseline + chemistryWinPctWeight*(winPct-chemistryExpectedWin) + chemistryPointDiffWeight*float64(pointDiff)
	return factor * SampleSizeFactor(gamesPlayed)
}

// SampleSizeFactor is 1 from three games upward and 0.5 + 0.2 per game below that.
func SampleSizeFactor(gamesPlayed int) float64 {
	if gamesPlayed >= fullSampleGames {
		return 1
	}
	return 0.5 + 0.2*float64(gamesPlayed)
}

func percentage(wins, games int) string {
	if games == 0 {
		return zeroPercentage
	}
	return strconv.FormatFloat(float64(wins)/float64(games)*100, 'f', 2, 64)
}

func parsePercentage(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
