package match

import (
	"database/sql"
	"sync"
	"time"

	"github.com/hoopmatch/courtside/internal/achievements"
	"github.com/hoopmatch/courtside/internal/geo"
)

// store handles database operations for matches and match history.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Status is a match's lifecycle state.
type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusExpired    Status = "EXPIRED"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusExpired
}

// Match is a scheduled game between two distinct players.
type Match struct {
	ID          string    `json:"id"`
	CreatorID   string    `json:"creator_id"`
	OpponentID  string    `json:"opponent_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	CourtID     *string   `json:"court_id,omitempty"`
	Midpoint    geo.Point `json:"midpoint"`
	Status      Status    `json:"status"`
	// Scores stay nil until the match is completed.
	ScoreCreator  *int      `json:"score_creator,omitempty"`
	ScoreOpponent *int      `json:"score_opponent,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HistoryRecord is an immutable audit entry written once when a match
// completes.
type HistoryRecord struct {
	ID                   string    `json:"id"`
	MatchID              string    `json:"match_id"`
	CreatorID            string    `json:"creator_id"`
	OpponentID           string    `json:"opponent_id"`
	CreatorRatingBefore  int       `json:"creator_rating_before"`
	CreatorRatingAfter   int       `json:"creator_rating_after"`
	OpponentRatingBefore int       `json:"opponent_rating_before"`
	OpponentRatingAfter  int       `json:"opponent_rating_after"`
	RecordedAt           time.Time `json:"recorded_at"`
}

// RatingChange reports one player's rating move from a completion.
type RatingChange struct {
	PlayerID string `json:"player_id"`
	Before   int    `json:"before"`
	After    int    `json:"after"`
}

// CompletionResult is what a successful Complete returns to the caller.
type CompletionResult struct {
	Match         *Match                                `json:"match"`
	Tie           bool                                  `json:"tie"`
	RatingChanges []RatingChange                        `json:"rating_changes"`
	Unlocked      map[string][]achievements.Achievement `json:"unlocked"`
}

// CompletedEvent is the payload published on the match-completed topic.
type CompletedEvent struct {
	MatchID       string         `json:"match_id"`
	CreatorID     string         `json:"creator_id"`
	OpponentID    string         `json:"opponent_id"`
	ScoreCreator  int            `json:"score_creator"`
	ScoreOpponent int            `json:"score_opponent"`
	Tie           bool           `json:"tie"`
	RatingChanges []RatingChange `json:"rating_changes"`
}

// UnlockedEvent is the payload published on the achievement-unlocked topic.
type UnlockedEvent struct {
	PlayerID      string `json:"player_id"`
	AchievementID string `json:"achievement_id"`
	Name          string `json:"name"`
}
