package achievements

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hoopmatch/courtside/internal/players"
)

// Evaluator derives newly unlocked achievements from a player's cumulative
// stats. It keeps no state of its own; idempotence comes from the store's
// uniqueness constraint.
type Evaluator struct {
	store AchievementStore
}

// NewEvaluator creates an Evaluator backed by the given store.
func NewEvaluator(store AchievementStore) *Evaluator {
	return &Evaluator{store: store}
}

// Evaluate checks every not-yet-unlocked catalog entry against the player's
// current stats and records the ones that newly hold. It returns the
// achievements unlocked by this call.
func (e *Evaluator) Evaluate(player players.PlayerInfo) ([]Achievement, error) {
	catalog, err := e.store.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	unlocked, err := e.store.LoadUnlockedSet(player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unlocked set for %s: %w", player.ID, err)
	}

	var newlyUnlocked []Achievement
	for _, a := range catalog {
		if unlocked[a.ID] {
			continue
		}
		if !satisfies(player, a) {
			continue
		}

		inserted, err := e.store.InsertUnlockIfAbsent(player.ID, a.ID)
		if err != nil {
			return newlyUnlocked, fmt.Errorf("failed to unlock %s for %s: %w", a.ID, player.ID, err)
		}
		if inserted {
			log.Info("Achievement unlocked", "playerID", player.ID, "achievement", a.Name)
			newlyUnlocked = append(newlyUnlocked, a)
		}
	}
	return newlyUnlocked, nil
}

func satisfies(p players.PlayerInfo, a Achievement) bool {
	switch a.Kind {
	case KindWins:
		return p.Wins >= a.Threshold
	case KindElo:
		return p.Rating >= a.Threshold
	case KindMatches:
		return p.TotalMatches >= a.Threshold
	case KindStreak:
		return p.Streak >= a.Threshold
	default:
		log.Warn("Unknown achievement kind", "kind", a.Kind, "achievement", a.ID)
		return false
	}
}
