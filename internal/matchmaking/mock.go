package matchmaking

import "sync"

// MockMatchmaker is a mock implementation of the Matchmaker interface for
// testing.
type MockMatchmaker struct {
	mu sync.Mutex

	FindCandidatesFunc  func(req Request) ([]Candidate, error)
	FindCandidatesCalls []Request
}

// NewMock creates a new mock instance.
func NewMock() *MockMatchmaker {
	return &MockMatchmaker{}
}

func (m *MockMatchmaker) FindCandidates(req Request) ([]Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCandidatesCalls = append(m.FindCandidatesCalls, req)
	if m.FindCandidatesFunc != nil {
		return m.FindCandidatesFunc(req)
	}
	return []Candidate{}, nil
}
