package players

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrPlayerNotFound is returned when a player id has no row in the store.
var ErrPlayerNotFound = errors.New("player not found")

// ErrStaleRating is returned when a conditional rating write loses a race
// with a concurrent update. Match completion writes player rows conditionally
// on the rating each update was computed from; the caller owns the retry
// policy.
var ErrStaleRating = errors.New("stale rating: player was updated concurrently")

// New creates a new PlayerStore.
func New(db *sql.DB) PlayerStore {
	return &store{
		db: db,
	}
}

// UpsertPlayers inserts or updates players in a single transaction. Ratings
// and match stats are only seeded on insert; they are owned by match
// completion afterwards.
func (s *store) UpsertPlayers(playersToUpsert []PlayerInfo) error {
	if len(playersToUpsert) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO players (id, name, rating, playstyle, wins, losses, total_matches, streak, lat, lon)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			playstyle = excluded.playstyle,
			lat = excluded.lat,
			lon = excluded.lon;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range playersToUpsert {
		rating := p.Rating
		if rating == 0 {
			rating = 1200
		}
		style := p.Playstyle
		if style == "" {
			style = StyleCasual
		}
		if _, err := stmt.Exec(p.ID, p.Name, rating, string(style), p.Wins, p.Losses, p.TotalMatches, p.Streak, p.Position.Lat, p.Position.Lon); err != nil {
			return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit player upsert: %w", err)
	}
	log.Debug("Upserted players", "count", len(playersToUpsert))
	return nil
}

// GetPlayer retrieves a single player by id.
func (s *store) GetPlayer(playerID string) (*PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, rating, playstyle, wins, losses, total_matches, streak, lat, lon
		FROM players WHERE id = ?
	`, playerID)

	p, err := scanPlayer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
		}
		return nil, fmt.Errorf("failed to get player %s: %w", playerID, err)
	}
	return p, nil
}

// GetPlayers retrieves the players with the given ids. Unknown ids are
// silently skipped.
func (s *store) GetPlayers(playerIDs []string) ([]PlayerInfo, error) {
	if len(playerIDs) == 0 {
		return []PlayerInfo{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.Repeat("?,", len(playerIDs))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`
		SELECT id, name, rating, playstyle, wins, losses, total_matches, streak, lat, lon
		FROM players WHERE id IN (%s)
	`, placeholders)

	args := make([]any, len(playerIDs))
	for i, id := range playerIDs {
		args[i] = id
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	return collectPlayers(rows)
}

// GetAllPlayers retrieves every player, ordered by id for determinism.
func (s *store) GetAllPlayers() ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, rating, playstyle, wins, losses, total_matches, streak, lat, lon
		FROM players ORDER BY id
	`)
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, err
	}
	defer rows.Close()

	return collectPlayers(rows)
}

func (s *store) IsKnownPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false
	}
	return exists
}

// Leaderboard retrieves all players ordered by rating, best first.
func (s *store) Leaderboard() ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, rating, playstyle, wins, losses, total_matches, streak, lat, lon
		FROM players ORDER BY rating DESC, wins DESC, id
	`)
	if err != nil {
		log.Error("Failed to query leaderboard", "error", err)
		return nil, err
	}
	defer rows.Close()

	return collectPlayers(rows)
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"unlocked_achievements", "match_history", "matches", "players"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func scanPlayer(scanner interface{ Scan(...any) error }) (*PlayerInfo, error) {
	var p PlayerInfo
	var name sql.NullString
	var style string
	err := scanner.Scan(
		&p.ID, &name, &p.Rating, &style, &p.Wins, &p.Losses, &p.TotalMatches, &p.Streak,
		&p.Position.Lat, &p.Position.Lon,
	)
	if err != nil {
		return nil, err
	}
	p.Name = name.String // handle NULL name from db
	p.Playstyle = Playstyle(style)
	return &p, nil
}

func collectPlayers(rows *sql.Rows) ([]PlayerInfo, error) {
	players := []PlayerInfo{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}
