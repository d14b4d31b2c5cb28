package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncCandidateSearches()
	ObserveRankingDuration(duration float64)
	IncMatchesCreated()
	IncMatchesCompleted()
	IncMatchesExpired()
	IncRatingUpdates()
	AddAchievementsUnlocked(count int)
	SetStartupTime(duration float64)
}
