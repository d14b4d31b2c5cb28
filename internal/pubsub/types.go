package pubsub

import "cloud.google.com/go/pubsub"

// Topics the engine publishes on. Downstream consumers (notification
// delivery, feeds) subscribe elsewhere.
const (
	TopicMatchCompleted      = "match-completed"
	TopicAchievementUnlocked = "achievement-unlocked"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}
