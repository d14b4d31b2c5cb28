package match

import (
	"time"

	"github.com/hoopmatch/courtside/internal/achievements"
	"github.com/hoopmatch/courtside/internal/geo"
	"github.com/hoopmatch/courtside/internal/players"
)

// MatchStore defines the storage operations for matches and history. Status
// transitions are compare-and-swap on the current status so that concurrent
// completions resolve to exactly one winner.
type MatchStore interface {
	InsertMatch(m *Match) error
	GetMatch(matchID string) (*Match, error)
	ListMatches() ([]*Match, error)
	// TransitionStatus atomically moves the match from one of the given
	// statuses to the target, stamping updated_at with at. It returns
	// ErrInvalidTransition when the match is in none of them, including when
	// a concurrent writer got there first.
	TransitionStatus(matchID string, from []Status, to Status, at time.Time) error
	// CompleteAtomic flips the match to COMPLETED, records the score, applies
	// both conditional player updates and appends the history record in one
	// transaction. Any failed write rolls the whole completion back,
	// including the status flip, so a failed Complete leaves the match
	// retryable.
	CompleteAtomic(matchID string, scoreCreator, scoreOpponent int, updates []players.ResultUpdate, rec HistoryRecord) error
	HistoryForPlayer(playerID string) ([]HistoryRecord, error)
}

// Evaluator is the achievement hook invoked for both participants after a
// completion.
type Evaluator interface {
	Evaluate(player players.PlayerInfo) ([]achievements.Achievement, error)
}

// Lifecycle defines the match operations exposed to the application layer.
type Lifecycle interface {
	Create(creatorID, opponentID string, scheduledAt time.Time, courtID *string, midpoint geo.Point) (*Match, error)
	Start(matchID string) (*Match, error)
	Complete(matchID string, scoreCreator, scoreOpponent int) (*CompletionResult, error)
	Expire(matchID string) (*Match, error)
}
