package match

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/hoopmatch/courtside/internal/achievements"
	"github.com/hoopmatch/courtside/internal/geo"
	"github.com/hoopmatch/courtside/internal/metrics"
	"github.com/hoopmatch/courtside/internal/players"
	"github.com/hoopmatch/courtside/internal/pubsub"
	"github.com/hoopmatch/courtside/internal/rating"
)

// ErrInvalidParticipants is returned when a match would pair a player with
// themselves.
var ErrInvalidParticipants = errors.New("match participants must be distinct")

var _ Lifecycle = (*Engine)(nil)

// Engine drives a match from creation through completion or expiry,
// orchestrating the rating update and achievement evaluation on the way. It
// holds no mutable state; concurrency safety comes from the store's
// conditional updates.
type Engine struct {
	matches   MatchStore
	players   players.PlayerStore
	rating    *rating.Engine
	evaluator Evaluator
	pubsub    pubsub.PubSubClient
	metrics   metrics.Metrics
	now       func() time.Time
}

// NewEngine creates a lifecycle Engine.
func NewEngine(matches MatchStore, playerStore players.PlayerStore, ratingEngine *rating.Engine, evaluator Evaluator, pubsubClient pubsub.PubSubClient, metricsSvc metrics.Metrics) *Engine {
	return &Engine{
		matches:   matches,
		players:   playerStore,
		rating:    ratingEngine,
		evaluator: evaluator,
		pubsub:    pubsubClient,
		metrics:   metricsSvc,
		now:       time.Now,
	}
}

// WithClock overrides the engine's clock. Used by tests and the expiry
// sweeper.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Create produces a match in state SCHEDULED between two distinct, known
// players.
func (e *Engine) Create(creatorID, opponentID string, scheduledAt time.Time, courtID *string, midpoint geo.Point) (*Match, error) {
	if creatorID == opponentID {
		return nil, fmt.Errorf("%w: %s", ErrInvalidParticipants, creatorID)
	}
	if err := midpoint.Validate(); err != nil {
		return nil, err
	}

	found, err := e.players.GetPlayers([]string{creatorID, opponentID})
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	if len(found) != 2 {
		return nil, fmt.Errorf("%w: both players must exist", players.ErrPlayerNotFound)
	}

	now := e.now()
	m := &Match{
		ID:          uuid.New().String(),
		CreatorID:   creatorID,
		OpponentID:  opponentID,
		ScheduledAt: scheduledAt,
		CourtID:     courtID,
		Midpoint:    midpoint,
		Status:      StatusScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.matches.InsertMatch(m); err != nil {
		return nil, err
	}
	e.metrics.IncMatchesCreated()
	return m, nil
}

// Start moves a scheduled match to IN_PROGRESS.
func (e *Engine) Start(matchID string) (*Match, error) {
	if err := e.matches.TransitionStatus(matchID, []Status{StatusScheduled}, StatusInProgress, e.now()); err != nil {
		return nil, err
	}
	return e.matches.GetMatch(matchID)
}

// Complete finishes a match and applies all outcome side effects: the score,
// both rating updates, win/loss/streak bookkeeping, the history record and
// achievement evaluation. The conditional status write guarantees at most one
// caller gets past the transition; everyone else sees ErrInvalidTransition.
//
// Equal scores complete the match without a rating change for either side.
func (e *Engine) Complete(matchID string, scoreCreator, scoreOpponent int) (*CompletionResult, error) {
	m, err := e.matches.GetMatch(matchID)
	if err != nil {
		return nil, err
	}

	participants, err := e.players.GetPlayers([]string{m.CreatorID, m.OpponentID})
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	if len(participants) != 2 {
		return nil, fmt.Errorf("%w: match %s references missing players", players.ErrPlayerNotFound, matchID)
	}
	var creator, opponent players.PlayerInfo
	for _, p := range participants {
		switch p.ID {
		case m.CreatorID:
			creator = p
		case m.OpponentID:
			opponent = p
		}
	}

	result := &CompletionResult{
		Match:    m,
		Tie:      scoreCreator == scoreOpponent,
		Unlocked: make(map[string][]achievements.Achievement),
	}

	newCreator, newOpponent := creator, opponent
	var updates []players.ResultUpdate
	if result.Tie {
		// No draw formula is defined for the rating update; a tie completes
		// the match with ratings untouched.
		log.Info("Completing match as a tie, skipping rating update", "matchID", matchID)
	} else {
		creatorWon := scoreCreator > scoreOpponent
		newCreatorRating, newOpponentRating := e.rating.Update(creator.Rating, opponent.Rating, creatorWon)

		newCreator = applyOutcome(creator, newCreatorRating, creatorWon)
		newOpponent = applyOutcome(opponent, newOpponentRating, !creatorWon)

		updates = []players.ResultUpdate{
			{PlayerID: creator.ID, OldRating: creator.Rating, NewRating: newCreator.Rating, Won: creatorWon, NewStreak: newCreator.Streak},
			{PlayerID: opponent.ID, OldRating: opponent.Rating, NewRating: newOpponent.Rating, Won: !creatorWon, NewStreak: newOpponent.Streak},
		}
	}

	// The single commit point: the status flip, score, both player rows and
	// the history record land together or not at all. Only one completion
	// (or expiry) ever wins the conditional status write, and a failure
	// leaves the match in its prior state so the caller can retry.
	if err := e.matches.CompleteAtomic(matchID, scoreCreator, scoreOpponent, updates, HistoryRecord{
		ID:                   uuid.New().String(),
		MatchID:              matchID,
		CreatorID:            creator.ID,
		OpponentID:           opponent.ID,
		CreatorRatingBefore:  creator.Rating,
		CreatorRatingAfter:   newCreator.Rating,
		OpponentRatingBefore: opponent.Rating,
		OpponentRatingAfter:  newOpponent.Rating,
		RecordedAt:           e.now(),
	}); err != nil {
		return nil, err
	}

	m.Status = StatusCompleted
	m.ScoreCreator = &scoreCreator
	m.ScoreOpponent = &scoreOpponent

	if !result.Tie {
		e.metrics.IncRatingUpdates()
		result.RatingChanges = []RatingChange{
			{PlayerID: creator.ID, Before: creator.Rating, After: newCreator.Rating},
			{PlayerID: opponent.ID, Before: opponent.Rating, After: newOpponent.Rating},
		}
	}

	if !result.Tie {
		for _, p := range []players.PlayerInfo{newCreator, newOpponent} {
			unlocked, err := e.evaluator.Evaluate(p)
			if err != nil {
				return nil, fmt.Errorf("failed to evaluate achievements for %s: %w", p.ID, err)
			}
			if len(unlocked) > 0 {
				result.Unlocked[p.ID] = unlocked
				e.metrics.AddAchievementsUnlocked(len(unlocked))
				for _, a := range unlocked {
					e.publish(pubsub.TopicAchievementUnlocked, UnlockedEvent{PlayerID: p.ID, AchievementID: a.ID, Name: a.Name})
				}
			}
		}
	}

	e.metrics.IncMatchesCompleted()
	e.publish(pubsub.TopicMatchCompleted, CompletedEvent{
		MatchID:       matchID,
		CreatorID:     creator.ID,
		OpponentID:    opponent.ID,
		ScoreCreator:  scoreCreator,
		ScoreOpponent: scoreOpponent,
		Tie:           result.Tie,
		RatingChanges: result.RatingChanges,
	})

	log.Info("Completed match", "matchID", matchID, "scoreCreator", scoreCreator, "scoreOpponent", scoreOpponent, "tie", result.Tie)
	return result, nil
}

// Expire moves a scheduled match whose time has passed to EXPIRED. It has no
// rating side effects.
func (e *Engine) Expire(matchID string) (*Match, error) {
	m, err := e.matches.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	if !e.now().After(m.ScheduledAt) {
		return nil, fmt.Errorf("%w: match %s has not reached its scheduled time", ErrInvalidTransition, matchID)
	}

	if err := e.matches.TransitionStatus(matchID, []Status{StatusScheduled}, StatusExpired, e.now()); err != nil {
		return nil, err
	}
	e.metrics.IncMatchesExpired()
	log.Info("Expired match", "matchID", matchID)

	m.Status = StatusExpired
	return m, nil
}

// applyOutcome computes a participant's post-match stats. A win extends a
// positive streak or starts one; a loss mirrors that on the negative side.
func applyOutcome(p players.PlayerInfo, newRating int, won bool) players.PlayerInfo {
	p.Rating = newRating
	p.TotalMatches++
	if won {
		p.Wins++
		if p.Streak > 0 {
			p.Streak++
		} else {
			p.Streak = 1
		}
	} else {
		p.Losses++
		if p.Streak < 0 {
			p.Streak--
		} else {
			p.Streak = -1
		}
	}
	return p
}

// publish sends an engine event. Publishing is best effort: the match result
// is already committed, so a broker hiccup only costs the notification.
func (e *Engine) publish(topic string, payload any) {
	if e.pubsub == nil {
		return
	}
	if err := e.pubsub.SendMessage(topic, payload); err != nil {
		log.Error("Failed to publish event", "topic", topic, "error", err)
	}
}
