package match

import (
	"sync"
	"time"

	"github.com/hoopmatch/courtside/internal/geo"
)

var _ Lifecycle = (*MockLifecycle)(nil)

// MockLifecycle is a mock implementation of the Lifecycle interface for
// testing handlers and callers.
type MockLifecycle struct {
	mu sync.Mutex

	CreateFunc   func(creatorID, opponentID string, scheduledAt time.Time, courtID *string, midpoint geo.Point) (*Match, error)
	StartFunc    func(matchID string) (*Match, error)
	CompleteFunc func(matchID string, scoreCreator, scoreOpponent int) (*CompletionResult, error)
	ExpireFunc   func(matchID string) (*Match, error)

	CreateCalls   int
	StartCalls    []string
	CompleteCalls []struct {
		MatchID       string
		ScoreCreator  int
		ScoreOpponent int
	}
	ExpireCalls []string
}

// NewMockLifecycle creates a new mock instance.
func NewMockLifecycle() *MockLifecycle {
	return &MockLifecycle{}
}

func (m *MockLifecycle) Create(creatorID, opponentID string, scheduledAt time.Time, courtID *string, midpoint geo.Point) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(creatorID, opponentID, scheduledAt, courtID, midpoint)
	}
	return &Match{ID: "mock-match", CreatorID: creatorID, OpponentID: opponentID, Status: StatusScheduled}, nil
}

func (m *MockLifecycle) Start(matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCalls = append(m.StartCalls, matchID)
	if m.StartFunc != nil {
		return m.StartFunc(matchID)
	}
	return &Match{ID: matchID, Status: StatusInProgress}, nil
}

func (m *MockLifecycle) Complete(matchID string, scoreCreator, scoreOpponent int) (*CompletionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteCalls = append(m.CompleteCalls, struct {
		MatchID       string
		ScoreCreator  int
		ScoreOpponent int
	}{matchID, scoreCreator, scoreOpponent})
	if m.CompleteFunc != nil {
		return m.CompleteFunc(matchID, scoreCreator, scoreOpponent)
	}
	return &CompletionResult{Match: &Match{ID: matchID, Status: StatusCompleted}}, nil
}

func (m *MockLifecycle) Expire(matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExpireCalls = append(m.ExpireCalls, matchID)
	if m.ExpireFunc != nil {
		return m.ExpireFunc(matchID)
	}
	return &Match{ID: matchID, Status: StatusExpired}, nil
}
