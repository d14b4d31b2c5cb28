package achievements

import "sync"

// MockStore is a mock implementation of the AchievementStore interface for
// testing. It keeps unlocks in memory and honors the uniqueness invariant.
type MockStore struct {
	mu sync.Mutex

	Catalog  []Achievement
	Unlocked map[string]map[string]bool

	SeedCatalogFunc          func(catalog []Achievement) error
	LoadCatalogFunc          func() ([]Achievement, error)
	LoadUnlockedSetFunc      func(playerID string) (map[string]bool, error)
	InsertUnlockIfAbsentFunc func(playerID, achievementID string) (bool, error)

	InsertUnlockCalls []struct {
		PlayerID      string
		AchievementID string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{
		Unlocked: make(map[string]map[string]bool),
	}
}

func (m *MockStore) SeedCatalog(catalog []Achievement) error {
	if m.SeedCatalogFunc != nil {
		return m.SeedCatalogFunc(catalog)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Catalog = append(m.Catalog, catalog...)
	return nil
}

func (m *MockStore) LoadCatalog() ([]Achievement, error) {
	if m.LoadCatalogFunc != nil {
		return m.LoadCatalogFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Catalog, nil
}

func (m *MockStore) LoadUnlockedSet(playerID string) (map[string]bool, error) {
	if m.LoadUnlockedSetFunc != nil {
		return m.LoadUnlockedSetFunc(playerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[string]bool, len(m.Unlocked[playerID]))
	for id := range m.Unlocked[playerID] {
		set[id] = true
	}
	return set, nil
}

func (m *MockStore) InsertUnlockIfAbsent(playerID, achievementID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertUnlockCalls = append(m.InsertUnlockCalls, struct {
		PlayerID      string
		AchievementID string
	}{playerID, achievementID})
	if m.InsertUnlockIfAbsentFunc != nil {
		return m.InsertUnlockIfAbsentFunc(playerID, achievementID)
	}
	if m.Unlocked[playerID] == nil {
		m.Unlocked[playerID] = make(map[string]bool)
	}
	if m.Unlocked[playerID][achievementID] {
		return false, nil
	}
	m.Unlocked[playerID][achievementID] = true
	return true, nil
}

func (m *MockStore) ListUnlocks(playerID string) ([]Unlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var unlocks []Unlock
	for id := range m.Unlocked[playerID] {
		unlocks = append(unlocks, Unlock{PlayerID: playerID, AchievementID: id})
	}
	return unlocks, nil
}
