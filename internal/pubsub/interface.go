package pubsub

// PubSubClient defines the interface for publishing engine events.
type PubSubClient interface {
	SendMessage(topic string, data any) error
	ProcessMessage(data []byte, returnValue any) error
}
