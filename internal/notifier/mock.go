package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/padel-league/internal/league"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendMatchResultCalls []struct {
		Event  league.Event
		DryRun bool
	}
	SendLeaderboardCalls [][]league.Player

	// Spies
	SendMatchResultFunc            func(event league.Event) error
	FormatLeaderboardResponseFunc  func(players []league.Player) (any, error)
	FormatPartnershipsResponseFunc func(partnerships []league.Partnership) (any, error)

	LastLeaderboardResponse  any
	LastPartnershipsResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendLeaderboardCalls = nil
	m.LastLeaderboardResponse = nil
	m.LastPartnershipsResponse = nil
}

func (m *Mock) SendMatchResult(ctx context.Context, event league.Event, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, struct {
		Event  league.Event
		DryRun bool
	}{event, dryRun})
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(event)
	}
	return nil
}

func (m *Mock) SendLeaderboard(ctx context.Context, players []league.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, players)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(players []league.Player) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		resp, err := m.FormatLeaderboardResponseFunc(players)
		m.LastLeaderboardResponse = resp
		return resp, err
	}
	resp := map[string]any{"text": "leaderboard", "players": len(players)}
	m.LastLeaderboardResponse = resp
	return resp, nil
}

func (m *Mock) FormatPartnershipsResponse(partnerships []league.Partnership) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPartnershipsResponseFunc != nil {
		resp, err := m.FormatPartnershipsResponseFunc(partnerships)
		m.LastPartnershipsResponse = resp
		return resp, err
	}
	resp := map[string]any{"text": "partnerships", "partnerships": len(partnerships)}
	m.LastPartnershipsResponse = resp
	return resp, nil
}
