package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

type seedPlayer struct {
	id        string
	name      string
	rating    int
	playstyle string
	lat       float64
	lon       float64
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	styles := []string{"competitive", "casual", "friendly"}
	names := []string{"Ava", "Ben", "Cleo", "Dre", "Eli", "Fay", "Gus", "Hana", "Ivan", "Jo",
		"Kai", "Lena", "Milo", "Nia", "Omar", "Pia", "Quinn", "Rex", "Sol", "Tess"}

	// Scatter demo players around lower Manhattan so candidate searches with
	// a 10km radius return a realistic pool.
	dummyPlayers := make([]seedPlayer, 0, len(names))
	for i, name := range names {
		dummyPlayers = append(dummyPlayers, seedPlayer{
			id:        fmt.Sprintf("player-%d", i+1),
			name:      name,
			rating:    1100 + rand.Intn(400),
			playstyle: styles[rand.Intn(len(styles))],
			lat:       40.70 + rand.Float64()*0.1,
			lon:       -74.02 + rand.Float64()*0.1,
		})
	}

	for _, p := range dummyPlayers {
		_, err := db.Exec(`
			INSERT OR IGNORE INTO players (id, name, rating, playstyle, lat, lon)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.id, p.name, p.rating, p.playstyle, p.lat, p.lon)
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", p.name, err)
		}
	}
	log.Info("Ensured dummy players exist.", "count", len(dummyPlayers))

	const batchSize = 100
	const numMatches = 10000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*12) // 12 columns per match

	for i := 0; i < numMatches; i++ {
		creator := dummyPlayers[rand.Intn(len(dummyPlayers))]
		opponent := dummyPlayers[rand.Intn(len(dummyPlayers))]
		for opponent.id == creator.id {
			opponent = dummyPlayers[rand.Intn(len(dummyPlayers))]
		}
		matchTime := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		scoreCreator := rand.Intn(22)
		scoreOpponent := rand.Intn(22)

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			creator.id,
			opponent.id,
			matchTime.Unix(),
			(creator.lat+opponent.lat)/2,
			(creator.lon+opponent.lon)/2,
			"COMPLETED",
			scoreCreator,
			scoreOpponent,
			nil, // court_id
			matchTime.Add(-24*time.Hour).Unix(),
			matchTime.Add(time.Hour).Unix(),
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO matches (id, creator_id, opponent_id, scheduled_at, midpoint_lat, midpoint_lon,
					status, score_creator, score_opponent, court_id, created_at, updated_at)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*12)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}
