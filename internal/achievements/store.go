package achievements

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new AchievementStore.
func New(db *sql.DB) AchievementStore {
	return &store{
		db: db,
	}
}

// SeedCatalog inserts catalog entries, leaving existing ones untouched.
func (s *store) SeedCatalog(catalog []Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin catalog transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO achievements (id, name, kind, threshold) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare catalog statement: %w", err)
	}
	defer stmt.Close()

	for _, a := range catalog {
		if _, err := stmt.Exec(a.ID, a.Name, string(a.Kind), a.Threshold); err != nil {
			return fmt.Errorf("failed to seed achievement %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	log.Info("Seeded achievement catalog", "count", len(catalog))
	return nil
}

// LoadCatalog retrieves all catalog entries ordered by id.
func (s *store) LoadCatalog() ([]Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, kind, threshold FROM achievements ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query achievement catalog: %w", err)
	}
	defer rows.Close()

	var catalog []Achievement
	for rows.Next() {
		var a Achievement
		var kind string
		if err := rows.Scan(&a.ID, &a.Name, &kind, &a.Threshold); err != nil {
			return nil, fmt.Errorf("failed to scan achievement row: %w", err)
		}
		a.Kind = Kind(kind)
		catalog = append(catalog, a)
	}
	return catalog, rows.Err()
}

// LoadUnlockedSet retrieves the ids of achievements the player has unlocked.
func (s *store) LoadUnlockedSet(playerID string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT achievement_id FROM unlocked_achievements WHERE player_id = ?", playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unlocked set: %w", err)
	}
	defer rows.Close()

	unlocked := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan unlock row: %w", err)
		}
		unlocked[id] = true
	}
	return unlocked, rows.Err()
}

// InsertUnlockIfAbsent records an unlock. The UNIQUE(player_id,
// achievement_id) constraint backs the at-most-once invariant; a duplicate
// insert is simply ignored and reported as not-new.
func (s *store) InsertUnlockIfAbsent(playerID, achievementID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO unlocked_achievements (id, player_id, achievement_id, unlocked_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(player_id, achievement_id) DO NOTHING;
	`, uuid.New().String(), playerID, achievementID, time.Now().Unix())
	if err != nil {
		return false, fmt.Errorf("failed to insert unlock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for unlock: %w", err)
	}
	return affected > 0, nil
}

// ListUnlocks retrieves a player's unlocks, oldest first.
func (s *store) ListUnlocks(playerID string) ([]Unlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, player_id, achievement_id, unlocked_at
		FROM unlocked_achievements WHERE player_id = ? ORDER BY unlocked_at, achievement_id
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unlocks: %w", err)
	}
	defer rows.Close()

	var unlocks []Unlock
	for rows.Next() {
		var u Unlock
		var unlockedAt int64
		if err := rows.Scan(&u.ID, &u.PlayerID, &u.AchievementID, &unlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unlock row: %w", err)
		}
		u.UnlockedAt = time.Unix(unlockedAt, 0)
		unlocks = append(unlocks, u)
	}
	return unlocks, rows.Err()
}
