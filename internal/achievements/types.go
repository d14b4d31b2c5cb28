package achievements

import (
	"database/sql"
	"sync"
	"time"
)

// store handles database operations for the achievement catalog and unlocks.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Kind names the player stat an achievement requirement is checked against.
type Kind string

const (
	KindWins    Kind = "wins"
	KindElo     Kind = "elo"
	KindMatches Kind = "matches"
	KindStreak  Kind = "streak"
)

// Achievement is a static catalog entry. The catalog is read-only to the
// engine.
type Achievement struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	Threshold int    `json:"threshold"`
}

// Unlock records that a player satisfied an achievement requirement. At most
// one unlock ever exists per (player, achievement) pair.
type Unlock struct {
	ID            string    `json:"id"`
	PlayerID      string    `json:"player_id"`
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}
