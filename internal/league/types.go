package league

import "time"

// InitialRating is the rating every player starts from.
const InitialRating = 1500

// Player represents a league member and their derived statistics.
// Everything below Rating is recomputed on every stats pass.
type Player struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Active        bool   `json:"active"`
	Rating        int    `json:"elo"`
	GamesPlayed   int    `json:"gamesPlayed"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	PointsFor     int    `json:"pointsFor"`
	PointsAgainst int    `json:"pointsAgainst"`
	PointDiff     int    `json:"pointDiff"`
	WinPercentage string `json:"winPercentage"`
	PowerRanking  int    `json:"powerRanking"`
}

// Match is a recorded doubles result. Players are referenced by name.
type Match struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	PlayerA1    string    `json:"playerA1"`
	PlayerA2    string    `json:"playerA2"`
	PlayerB1    string    `json:"playerB1"`
	PlayerB2    string    `json:"playerB2"`
	ScoreA      int       `json:"scoreA"`
	ScoreB      int       `json:"scoreB"`
	EloChangeA1 int       `json:"eloChangeA1"`
	EloChangeA2 int       `json:"eloChangeA2"`
	EloChangeB1 int       `json:"eloChangeB1"`
	EloChangeB2 int       `json:"eloChangeB2"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Slots returns the four player names in A1, A2, B1, B2 order.
func (m Match) Slots() [4]string {
	return [4]string{m.PlayerA1, m.PlayerA2, m.PlayerB1, m.PlayerB2}
}

// Names returns the four player names as a slice.
func (m Match) Names() []string {
	slots := m.Slots()
	return slots[:]
}

// Deltas returns the stored rating changes in the same order as Slots.
func (m Match) Deltas() [4]int {
	return [4]int{m.EloChangeA1, m.EloChangeA2, m.EloChangeB1, m.EloChangeB2}
}

// SetTeamDeltas stores one delta per team on both of its players.
func (m *Match) SetTeamDeltas(teamA, teamB int) {
	m.EloChangeA1, m.EloChangeA2 = teamA, teamA
	m.EloChangeB1, m.EloChangeB2 = teamB, teamB
}

// TeamDelta returns the per-team delta values.
func (m Match) TeamDelta() (teamA, teamB int) {
	return m.EloChangeA1, m.EloChangeB1
}

// TeamAWon reports whether team A has the higher score.
func (m Match) TeamAWon() bool {
	return m.ScoreA > m.ScoreB
}

// References reports whether the named player appears in any slot.
func (m Match) References(name string) bool {
	for _, slot := range m.Slots() {
		if slot == name {
			return true
		}
	}
	return false
}

// SameOutcomeInputs reports whether two matches have identical teams and scores,
// meaning their stored deltas remain valid.
func (m Match) SameOutcomeInputs(other Match) bool {
	return m.Slots() == other.Slots() && m.ScoreA == other.ScoreA && m.ScoreB == other.ScoreB
}

// Partnership is the aggregate record for an unordered pair of teammates.
type Partnership struct {
	ID              string `json:"partnershipId"`
	Player1         string `json:"player1"`
	Player2         string `json:"player2"`
	GamesPlayed     int    `json:"gamesPlayed"`
	Wins            int    `json:"wins"`
	Losses          int    `json:"losses"`
	PointsFor       int    `json:"pointsFor"`
	PointsAgainst   int    `json:"pointsAgainst"`
	PointDiff       int    `json:"pointDiff"`
	WinPercentage   string `json:"winPercentage"`
	ChemistryRating string `json:"chemistryRating"`
	Rating          int    `json:"elo"`
}

// State is a full snapshot of the league. Matches are kept in creation order.
type State struct {
	Players      []Player      `json:"players"`
	Matches      []Match       `json:"matches"`
	Partnerships []Partnership `json:"partnerships"`
}

// MatchInput carries the caller supplied fields of a new match.
type MatchInput struct {
	Date     string `json:"date"`
	PlayerA1 string `json:"playerA1"`
	PlayerA2 string `json:"playerA2"`
	PlayerB1 string `json:"playerB1"`
	PlayerB2 string `json:"playerB2"`
	ScoreA   int    `json:"scoreA"`
	ScoreB   int    `json:"scoreB"`
	// ExternalID links an imported match to its source booking.
	ExternalID string `json:"-"`
}

// Match converts the input into an unsaved Match.
func (in MatchInput) Match() Match {
	return Match{
		Date:     in.Date,
		PlayerA1: in.PlayerA1,
		PlayerA2: in.PlayerA2,
		PlayerB1: in.PlayerB1,
		PlayerB2: in.PlayerB2,
		ScoreA:   in.ScoreA,
		ScoreB:   in.ScoreB,
	}
}

// MatchUpdate is a partial edit of a match. Nil fields are left untouched.
type MatchUpdate struct {
	Date     *string `json:"date,omitempty"`
	PlayerA1 *string `json:"playerA1,omitempty"`
	PlayerA2 *string `json:"playerA2,omitempty"`
	PlayerB1 *string `json:"playerB1,omitempty"`
	PlayerB2 *string `json:"playerB2,omitempty"`
	ScoreA   *int    `json:"scoreA,omitempty"`
	ScoreB   *int    `json:"scoreB,omitempty"`
}

// Apply returns a copy of m with the update applied.
func (u MatchUpdate) Apply(m Match) Match {
	if u.Date != nil {
		m.Date = *u.Date
	}
	if u.PlayerA1 != nil {
		m.PlayerA1 = *u.PlayerA1
	}
	if u.PlayerA2 != nil {
		m.PlayerA2 = *u.PlayerA2
	}
	if u.PlayerB1 != nil {
		m.PlayerB1 = *u.PlayerB1
	}
	if u.PlayerB2 != nil {
		m.PlayerB2 = *u.PlayerB2
	}
	if u.ScoreA != nil {
		m.ScoreA = *u.ScoreA
	}
	if u.ScoreB != nil {
		m.ScoreB = *u.ScoreB
	}
	return m
}

// PlayerUpdate is a partial edit of a player. Derived fields cannot be edited.
type PlayerUpdate struct {
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// DeleteOutcome describes what DeletePlayer actually did.
type DeleteOutcome string

const (
	OutcomeDeleted     DeleteOutcome = "deleted"
	OutcomeDeactivated DeleteOutcome = "deactivated"
)

// EventType names a committed league mutation.
type EventType string

const (
	EventPlayerCreated   EventType = "player-created"
	EventPlayerUpdated   EventType = "player-updated"
	EventPlayerRemoved   EventType = "player-removed"
	EventMatchRecorded   EventType = "match-recorded"
	EventMatchUpdated    EventType = "match-updated"
	EventMatchDeleted    EventType = "match-deleted"
	EventStatsRecomputed EventType = "stats-recomputed"
)

// Event is emitted after a mutation has been committed.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Match      *Match    `json:"match,omitempty"`
	Previous   *Match    `json:"previous,omitempty"`
	Player     *Player   `json:"player,omitempty"`
	// Players holds the post-mutation records of the players a match names.
	Players []Player `json:"players,omitempty"`
}
