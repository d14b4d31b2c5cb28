package metrics

import "sync"

var _ Metrics = (*MockMetrics)(nil)

// MockMetrics counts calls in memory for tests.
type MockMetrics struct {
	mu sync.Mutex

	CandidateSearches    int
	RankingObservations  []float64
	MatchesCreated       int
	MatchesCompleted     int
	MatchesExpired       int
	RatingUpdates        int
	AchievementsUnlocked int
	StartupTime          float64
}

// NewMock creates a new mock instance.
func NewMock() *MockMetrics {
	return &MockMetrics{}
}

func (m *MockMetrics) IncCandidateSearches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CandidateSearches++
}

func (m *MockMetrics) ObserveRankingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RankingObservations = append(m.RankingObservations, duration)
}

func (m *MockMetrics) IncMatchesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchesCreated++
}

func (m *MockMetrics) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchesCompleted++
}

func (m *MockMetrics) IncMatchesExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchesExpired++
}

func (m *MockMetrics) IncRatingUpdates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RatingUpdates++
}

func (m *MockMetrics) AddAchievementsUnlocked(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AchievementsUnlocked += count
}

func (m *MockMetrics) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTime = duration
}
