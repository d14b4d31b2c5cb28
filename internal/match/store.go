package match

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hoopmatch/courtside/internal/players"
)

// ErrMatchNotFound is returned when a match id has no row in the store.
var ErrMatchNotFound = errors.New("match not found")

// ErrInvalidTransition is returned for any illegal lifecycle change,
// including a conditional update lost to a concurrent writer. Callers cannot
// distinguish the two; neither is retryable.
var ErrInvalidTransition = errors.New("invalid match transition")

// NewStore creates a new MatchStore.
func NewStore(db *sql.DB) MatchStore {
	return &store{
		db: db,
	}
}

// InsertMatch persists a freshly created match.
func (s *store) InsertMatch(m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var courtID sql.NullString
	if m.CourtID != nil {
		courtID = sql.NullString{String: *m.CourtID, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO matches (id, creator_id, opponent_id, scheduled_at, court_id, midpoint_lat, midpoint_lon, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.CreatorID, m.OpponentID, m.ScheduledAt.Unix(), courtID, m.Midpoint.Lat, m.Midpoint.Lon, string(m.Status), m.CreatedAt.Unix(), m.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}

	log.Info("Created match", "matchID", m.ID, "creator", m.CreatorID, "opponent", m.OpponentID)
	return nil
}

// GetMatch retrieves a match by id.
func (s *store) GetMatch(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, creator_id, opponent_id, scheduled_at, court_id, midpoint_lat, midpoint_lon, status, score_creator, score_opponent, created_at, updated_at
		FROM matches WHERE id = ?
	`, matchID)

	m, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		return nil, fmt.Errorf("failed to get match %s: %w", matchID, err)
	}
	return m, nil
}

// ListMatches retrieves all matches, newest first.
func (s *store) ListMatches() ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, creator_id, opponent_id, scheduled_at, court_id, midpoint_lat, midpoint_lon, status, score_creator, score_opponent, created_at, updated_at
		FROM matches ORDER BY scheduled_at DESC
	`)
	if err != nil {
		log.Error("Failed to query all matches", "error", err)
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// TransitionStatus performs the compare-and-swap status update.
func (s *store) TransitionStatus(matchID string, from []Status, to Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	placeholders := strings.Repeat("?,", len(from))
	placeholders = placeholders[:len(placeholders)-1]

	args := []any{string(to), at.Unix(), matchID}
	for _, f := range from {
		args = append(args, string(f))
	}

	res, err := s.db.Exec(fmt.Sprintf(`
		UPDATE matches SET status = ?, updated_at = ? WHERE id = ? AND status IN (%s)
	`, placeholders), args...)
	if err != nil {
		return fmt.Errorf("failed to transition match %s: %w", matchID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for match %s: %w", matchID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, matchID, to)
	}

	log.Debug("Transitioned match status", "matchID", matchID, "to", to)
	return nil
}

// CompleteAtomic is the single commit point for a completion. The status
// flip (valid from SCHEDULED or IN_PROGRESS only), the score, both players'
// conditional post-match rows and the history record go through one
// transaction; any failure rolls everything back. Player updates are applied
// in ascending player-id order so overlapping completions sharing a player
// always acquire rows in the same order, and each write is conditional on
// the rating it was computed from.
func (s *store) CompleteAtomic(matchID string, scoreCreator, scoreOpponent int, updates []players.ResultUpdate, rec HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ordered := make([]players.ResultUpdate, len(updates))
	copy(ordered, updates)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].PlayerID < ordered[j].PlayerID })

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin completion transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE matches
		SET status = ?, score_creator = ?, score_opponent = ?, updated_at = ?
		WHERE id = ? AND status IN (?, ?)
	`, string(StatusCompleted), scoreCreator, scoreOpponent, rec.RecordedAt.Unix(), matchID, string(StatusScheduled), string(StatusInProgress))
	if err != nil {
		return fmt.Errorf("failed to complete match %s: %w", matchID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for match %s: %w", matchID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, matchID, StatusCompleted)
	}

	for _, u := range ordered {
		winInc, lossInc := 0, 1
		if u.Won {
			winInc, lossInc = 1, 0
		}
		res, err := tx.Exec(`
			UPDATE players
			SET rating = ?, wins = wins + ?, losses = losses + ?, total_matches = total_matches + 1, streak = ?
			WHERE id = ? AND rating = ?
		`, u.NewRating, winInc, lossInc, u.NewStreak, u.PlayerID, u.OldRating)
		if err != nil {
			return fmt.Errorf("failed to apply result for player %s: %w", u.PlayerID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected for player %s: %w", u.PlayerID, err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", players.ErrStaleRating, u.PlayerID)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO match_history (id, match_id, creator_id, opponent_id, creator_rating_before, creator_rating_after, opponent_rating_before, opponent_rating_after, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.MatchID, rec.CreatorID, rec.OpponentID,
		rec.CreatorRatingBefore, rec.CreatorRatingAfter, rec.OpponentRatingBefore, rec.OpponentRatingAfter,
		rec.RecordedAt.Unix()); err != nil {
		return fmt.Errorf("failed to append history for match %s: %w", rec.MatchID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit completion of match %s: %w", matchID, err)
	}
	return nil
}

// HistoryForPlayer retrieves a player's audit entries, newest first.
func (s *store) HistoryForPlayer(playerID string) ([]HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, match_id, creator_id, opponent_id, creator_rating_before, creator_rating_after, opponent_rating_before, opponent_rating_after, recorded_at
		FROM match_history
		WHERE creator_id = ? OR opponent_id = ?
		ORDER BY recorded_at DESC
	`, playerID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %s: %w", playerID, err)
	}
	defer rows.Close()

	var records []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		var recordedAt int64
		err := rows.Scan(
			&rec.ID, &rec.MatchID, &rec.CreatorID, &rec.OpponentID,
			&rec.CreatorRatingBefore, &rec.CreatorRatingAfter, &rec.OpponentRatingBefore, &rec.OpponentRatingAfter,
			&recordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		rec.RecordedAt = time.Unix(recordedAt, 0)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	var scheduledAt, createdAt, updatedAt int64
	var status string
	var courtID sql.NullString
	var scoreCreator, scoreOpponent sql.NullInt64

	err := scanner.Scan(
		&m.ID, &m.CreatorID, &m.OpponentID, &scheduledAt, &courtID,
		&m.Midpoint.Lat, &m.Midpoint.Lon, &status, &scoreCreator, &scoreOpponent,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.ScheduledAt = time.Unix(scheduledAt, 0)
	m.CreatedAt = time.Unix(createdAt, 0)
	m.UpdatedAt = time.Unix(updatedAt, 0)
	m.Status = Status(status)
	if courtID.Valid {
		m.CourtID = &courtID.String
	}
	if scoreCreator.Valid {
		v := int(scoreCreator.Int64)
		m.ScoreCreator = &v
	}
	if scoreOpponent.Valid {
		v := int(scoreOpponent.Int64)
		m.ScoreOpponent = &v
	}
	return &m, nil
}
