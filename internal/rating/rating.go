// Package rating holds the Elo style formulas used to score doubles matches.
package rating

import (
	"errors"
	"math"
)

const (
	// KFactor is the maximum rating swing of an even match before the margin multiplier.
	KFactor = 20

	scale               = 400.0
	maxMarginMultiplier = 1.5
	marginDivisor       = 12.0
)

// ErrDraw is returned when asked to score a match without a winner.
var ErrDraw = errors.New("rating: match has no winner")

// ExpectedScore is the probability that a side rated self beats a side rated opponent.
func ExpectedScore(self, opponent float64) float64 {
	return 1 / (1 + math.Pow(10, (opponent-self)/scale))
}

// TeamRating is the arithmetic mean of the two players' ratings.
func TeamRating(r1, r2 int) float64 {
	return float64(r1+r2) / 2
}

// MarginMultiplier amplifies decisive results, capped at 1.5.
func MarginMultiplier(scoreDiff int) float64 {
	if scoreDiff < 0 {
		scoreDiff = -scoreDiff
	}
	return math.Min(maxMarginMultiplier, 1+float64(scoreDiff)/marginDivisor)
}

// Round rounds half up, so 12.5 becomes 13 and -12.5 becomes -12.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Delta is the rounded rating change for one side.
func Delta(k, actual, expected, multiplier float64) int {
	return Round(k * multiplier * (actual - expected))
}

// Deltas holds the change applied to each player of a team.
type Deltas struct {
	TeamA int
	TeamB int
}

// TeamDeltas scores a doubles match from the current ratings of its four players.
// The winner's delta is computed and the loser receives its exact negation.
func TeamDeltas(a1, a2, b1, b2, scoreA, scoreB int) (Deltas, error) {
	if scoreA == scoreB {
		return Deltas{}, ErrDraw
	}
	teamA := TeamRating(a1, a2)
	teamB := TeamRating(b1, b2)
	multiplier := MarginMultiplier(scoreA - scoreB)

	if scoreA > scoreB {
		d := Delta(KFactor, 1, ExpectedScore(teamA, teamB), multiplier)
		return Deltas{TeamA: d, TeamB: -d}, nil
	}
	d := Delta(KFactor, 1, ExpectedScore(teamB, teamA), multiplier)
	return Deltas{TeamA: -d, TeamB: d}, nil
}
