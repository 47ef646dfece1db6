package club

import (
	"context"
	"sync"

	"github.com/mauv0809/padel-league/internal/league"
)

var _ ClubStore = (*MockStore)(nil)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreatePlayerFunc     func(name string, active bool) (league.Player, error)
	UpdatePlayerFunc     func(id int64, update league.PlayerUpdate) (league.Player, error)
	DeletePlayerFunc     func(id int64) (league.DeleteOutcome, error)
	GetAllPlayersFunc    func() ([]league.Player, error)
	GetPlayerFunc        func(id int64) (league.Player, error)
	CreateMatchFunc      func(in league.MatchInput) (league.Match, error)
	UpdateMatchFunc      func(id int64, update league.MatchUpdate) (league.Match, error)
	DeleteMatchFunc      func(id int64) error
	GetAllMatchesFunc    func() ([]league.Match, error)
	GetMatchFunc         func(id int64) (league.Match, error)
	GetPartnershipsFunc  func() ([]league.Partnership, error)
	RecomputeStatsFunc   func() error
	SnapshotFunc         func() (league.State, error)
	HasExternalMatchFunc func(externalID string) (bool, error)

	// Call records
	CreatePlayerCalls []struct {
		Name   string
		Active bool
	}
	UpdatePlayerCalls []struct {
		ID     int64
		Update league.PlayerUpdate
	}
	DeletePlayerCalls []int64
	CreateMatchCalls  []league.MatchInput
	UpdateMatchCalls  []struct {
		ID     int64
		Update league.MatchUpdate
	}
	DeleteMatchCalls      []int64
	RecomputeStatsCalls   int
	HasExternalMatchCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatePlayerCalls = nil
	m.UpdatePlayerCalls = nil
	m.DeletePlayerCalls = nil
	m.CreateMatchCalls = nil
	m.UpdateMatchCalls = nil
	m.DeleteMatchCalls = nil
	m.RecomputeStatsCalls = 0
	m.HasExternalMatchCalls = nil
}

func (m *MockStore) CreatePlayer(ctx context.Context, name string, active bool) (league.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatePlayerCalls = append(m.CreatePlayerCalls, struct {
		Name   string
		Active bool
	}{name, active})
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(name, active)
	}
	return league.Player{Name: name, Active: active, Rating: league.InitialRating, WinPercentage: "0.00"}, nil
}

func (m *MockStore) UpdatePlayer(ctx context.Context, id int64, update league.PlayerUpdate) (league.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePlayerCalls = append(m.UpdatePlayerCalls, struct {
		ID     int64
		Update league.PlayerUpdate
	}{id, update})
	if m.UpdatePlayerFunc != nil {
		return m.UpdatePlayerFunc(id, update)
	}
	return league.Player{ID: id}, nil
}

func (m *MockStore) DeletePlayer(ctx context.Context, id int64) (league.DeleteOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeletePlayerCalls = append(m.DeletePlayerCalls, id)
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(id)
	}
	return league.OutcomeDeleted, nil
}

func (m *MockStore) GetAllPlayers(ctx context.Context) ([]league.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return []league.Player{}, nil
}

func (m *MockStore) GetPlayer(ctx context.Context, id int64) (league.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(id)
	}
	return league.Player{}, league.ErrNotFound
}

func (m *MockStore) CreateMatch(ctx context.Context, in league.MatchInput) (league.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, in)
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(in)
	}
	return in.Match(), nil
}

func (m *MockStore) UpdateMatch(ctx context.Context, id int64, update league.MatchUpdate) (league.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateMatchCalls = append(m.UpdateMatchCalls, struct {
		ID     int64
		Update league.MatchUpdate
	}{id, update})
	if m.UpdateMatchFunc != nil {
		return m.UpdateMatchFunc(id, update)
	}
	return league.Match{ID: id}, nil
}

func (m *MockStore) DeleteMatch(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteMatchCalls = append(m.DeleteMatchCalls, id)
	if m.DeleteMatchFunc != nil {
		return m.DeleteMatchFunc(id)
	}
	return nil
}

func (m *MockStore) GetAllMatches(ctx context.Context) ([]league.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc()
	}
	return []league.Match{}, nil
}

func (m *MockStore) GetMatch(ctx context.Context, id int64) (league.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(id)
	}
	return league.Match{}, league.ErrNotFound
}

func (m *MockStore) GetPartnerships(ctx context.Context) ([]league.Partnership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPartnershipsFunc != nil {
		return m.GetPartnershipsFunc()
	}
	return []league.Partnership{}, nil
}

func (m *MockStore) RecomputeStats(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecomputeStatsCalls++
	if m.RecomputeStatsFunc != nil {
		return m.RecomputeStatsFunc()
	}
	return nil
}

func (m *MockStore) Snapshot(ctx context.Context) (league.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return league.State{Players: []league.Player{}, Matches: []league.Match{}, Partnerships: []league.Partnership{}}, nil
}

func (m *MockStore) HasExternalMatch(ctx context.Context, externalID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HasExternalMatchCalls = append(m.HasExternalMatchCalls, externalID)
	if m.HasExternalMatchFunc != nil {
		return m.HasExternalMatchFunc(externalID)
	}
	return false, nil
}
