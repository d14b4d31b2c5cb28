package achievements

// AchievementStore defines the storage operations behind the evaluator.
type AchievementStore interface {
	SeedCatalog(catalog []Achievement) error
	LoadCatalog() ([]Achievement, error)
	LoadUnlockedSet(playerID string) (map[string]bool, error)
	// InsertUnlockIfAbsent records an unlock and reports whether a new row
	// was created. The unique constraint on (player, achievement) makes
	// repeated calls idempotent.
	InsertUnlockIfAbsent(playerID, achievementID string) (bool, error)
	ListUnlocks(playerID string) ([]Unlock, error)
}
