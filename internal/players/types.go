package players

import (
	"database/sql"
	"sync"

	"github.com/hoopmatch/courtside/internal/geo"
)

// store handles all database operations for players.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Playstyle is a player's declared style of play.
type Playstyle string

const (
	StyleCompetitive Playstyle = "competitive"
	StyleCasual      Playstyle = "casual"
	StyleFriendly    Playstyle = "friendly"
)

// Valid reports whether the playstyle is one of the known values.
func (p Playstyle) Valid() bool {
	switch p {
	case StyleCompetitive, StyleCasual, StyleFriendly:
		return true
	}
	return false
}

// PlayerInfo represents a player in the store.
type PlayerInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Rating       int       `json:"rating"`
	Playstyle    Playstyle `json:"playstyle"`
	Wins         int       `json:"wins"`
	Losses       int       `json:"losses"`
	TotalMatches int       `json:"total_matches"`
	// Streak is positive for a win streak, negative for a loss streak.
	Streak   int       `json:"streak"`
	Position geo.Point `json:"position"`
}

// ResultUpdate carries one player's share of a decided match outcome. The old
// rating doubles as the compare value for the conditional write.
type ResultUpdate struct {
	PlayerID  string
	OldRating int
	NewRating int
	Won       bool
	NewStreak int
}
