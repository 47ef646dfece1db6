package league

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minNameLength = 2
	maxNameLength = 30
	maxScore      = 99
	dateLayout    = "2006-01-02"
)

// NormalizePlayerName trims the name and checks its length.
func NormalizePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < minNameLength {
		return "", Invalid("name", "must be at least %d characters", minNameLength)
	}
	if n > maxNameLength {
		return "", Invalid("name", "cannot exceed %d characters", maxNameLength)
	}
	return name, nil
}

// NormalizeMatch trims the player names of m and validates the result.
func NormalizeMatch(m Match) (Match, error) {
	m.Date = strings.TrimSpace(m.Date)
	m.PlayerA1 = strings.TrimSpace(m.PlayerA1)
	m.PlayerA2 = strings.TrimSpace(m.PlayerA2)
	m.PlayerB1 = strings.TrimSpace(m.PlayerB1)
	m.PlayerB2 = strings.TrimSpace(m.PlayerB2)
	if err := ValidateMatch(m); err != nil {
		return Match{}, err
	}
	return m, nil
}

// ValidateMatch enforces the shape of a match: a real date, four distinct
// players, scores in range and no draw.
func ValidateMatch(m Match) error {
	if _, err := time.Parse(dateLayout, m.Date); err != nil {
		return Invalid("date", "must be in YYYY-MM-DD format")
	}
	required := []struct {
		field, value string
	}{
		{"playerA1", m.PlayerA1},
		{"playerA2", m.PlayerA2},
		{"playerB1", m.PlayerB1},
		{"playerB2", m.PlayerB2},
	}
	for _, r := range required {
		if r.value == "" {
			return Invalid(r.field, "is required")
		}
	}
	if m.PlayerA1 == m.PlayerA2 {
		return Invalid("playerA2", "team A cannot have the same player twice")
	}
	if m.PlayerB1 == m.PlayerB2 {
		return Invalid("playerB2", "team B cannot have the same player twice")
	}
	if m.PlayerB1 == m.PlayerA1 || m.PlayerB1 == m.PlayerA2 || m.PlayerB2 == m.PlayerA1 || m.PlayerB2 == m.PlayerA2 {
		return Invalid("playerB1", "a player cannot be on both teams")
	}
	for _, s := range []struct {
		field string
		value int
	}{{"scoreA", m.ScoreA}, {"scoreB", m.ScoreB}} {
		if s.value < 0 {
			return Invalid(s.field, "cannot be negative")
		}
		if s.value > maxScore {
			return Invalid(s.field, "cannot exceed %d", maxScore)
		}
	}
	if m.ScoreA == m.ScoreB {
		return Invalid("scoreB", "scores cannot be equal (draws are not allowed)")
	}
	return nil
}
