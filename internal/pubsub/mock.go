package pubsub

import (
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// MockClient records published events for tests. Payloads are stored in their
// MessagePack wire form so tests can decode them with ProcessMessage the same
// way a subscriber would.
type MockClient struct {
	mu sync.Mutex

	SendMessageFunc func(topic string, data any) error

	SentMessages []struct {
		Topic string
		Data  []byte
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockClient {
	return &MockClient{}
}

func (m *MockClient) SendMessage(topic string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		return err
	}
	m.SentMessages = append(m.SentMessages, struct {
		Topic string
		Data  []byte
	}{topic, msgpackData})
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(topic, data)
	}
	return nil
}

func (m *MockClient) ProcessMessage(data []byte, returnValue any) error {
	return msgpack.Unmarshal(data, returnValue)
}
