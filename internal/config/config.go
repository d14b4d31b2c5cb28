package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		ProjectID:   getEnv("GCP_PROJECT"),
		Matchmaking: DefaultMatchmaking(),
		Rating:      DefaultRating(),
	}

	cfg.Matchmaking.MaxRatingGap = getEnvInt("MATCH_MAX_RATING_GAP", cfg.Matchmaking.MaxRatingGap)
	cfg.Matchmaking.MaxResults = getEnvInt("MATCH_MAX_RESULTS", cfg.Matchmaking.MaxResults)
	cfg.Rating.KFactor = getEnvInt("RATING_K_FACTOR", cfg.Rating.KFactor)
	cfg.Rating.Floor = getEnvInt("RATING_FLOOR", cfg.Rating.Floor)

	return cfg
}

// DefaultMatchmaking returns the default ranking weights: skill proximity
// matters most, then locality, then playstyle fit.
func DefaultMatchmaking() MatchmakingConfig {
	return MatchmakingConfig{
		RatingWeight:    0.5,
		DistanceWeight:  0.3,
		PlaystyleWeight: 0.2,
		MaxRatingGap:    400,
		MaxResults:      10,
	}
}

// DefaultRating returns the standard fixed-K update policy.
func DefaultRating() RatingConfig {
	return RatingConfig{
		KFactor: 32,
		Floor:   100,
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Warn("Ignoring malformed integer environment variable", "key", key, "value", value)
		return fallback
	}
	return parsed
}
