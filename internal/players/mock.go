package players

import "sync"

// MockStore is a mock implementation of the PlayerStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertPlayersFunc func(players []PlayerInfo) error
	GetPlayerFunc     func(playerID string) (*PlayerInfo, error)
	GetPlayersFunc    func(playerIDs []string) ([]PlayerInfo, error)
	GetAllPlayersFunc func() ([]PlayerInfo, error)
	IsKnownPlayerFunc func(playerID string) bool
	LeaderboardFunc   func() ([]PlayerInfo, error)

	// Call records
	UpsertPlayersCalls [][]PlayerInfo
	GetPlayerCalls     []string
	GetPlayersCalls    [][]string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayersCalls = nil
	m.GetPlayerCalls = nil
	m.GetPlayersCalls = nil
}

func (m *MockStore) UpsertPlayers(playersToUpsert []PlayerInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayersCalls = append(m.UpsertPlayersCalls, playersToUpsert)
	if m.UpsertPlayersFunc != nil {
		return m.UpsertPlayersFunc(playersToUpsert)
	}
	return nil
}

func (m *MockStore) GetPlayer(playerID string) (*PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayerCalls = append(m.GetPlayerCalls, playerID)
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, ErrPlayerNotFound
}

func (m *MockStore) GetPlayers(playerIDs []string) ([]PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayersCalls = append(m.GetPlayersCalls, playerIDs)
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(playerIDs)
	}
	return []PlayerInfo{}, nil
}

func (m *MockStore) GetAllPlayers() ([]PlayerInfo, error) {
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return []PlayerInfo{}, nil
}

func (m *MockStore) IsKnownPlayer(playerID string) bool {
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return false
}

func (m *MockStore) Leaderboard() ([]PlayerInfo, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc()
	}
	return []PlayerInfo{}, nil
}

func (m *MockStore) Clear() {}
