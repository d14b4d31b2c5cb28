package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	ProjectID     string
	Matchmaking   MatchmakingConfig
	Rating        RatingConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// MatchmakingConfig tunes the candidate ranking. The three weights should sum
// to 1.
type MatchmakingConfig struct {
	RatingWeight    float64
	DistanceWeight  float64
	PlaystyleWeight float64
	MaxRatingGap    int
	MaxResults      int
}

// RatingConfig holds the ELO update policy. The floor is a product decision,
// not part of the ELO formula itself.
type RatingConfig struct {
	KFactor int
	Floor   int
}
