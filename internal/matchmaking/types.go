package matchmaking

import (
	"time"

	"github.com/hoopmatch/courtside/internal/geo"
	"github.com/hoopmatch/courtside/internal/players"
)

// TimeWindow is the span of time the requester wants to play in.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Request describes one matchmaking query.
type Request struct {
	PlayerID string     `json:"player_id"`
	RadiusKm float64    `json:"radius_km"`
	Window   TimeWindow `json:"window"`
	// Limit caps the number of candidates returned; zero means the
	// configured default.
	Limit int `json:"limit,omitempty"`
}

// Candidate is an ephemeral ranking projection. It is computed per query and
// never persisted.
type Candidate struct {
	Player         players.PlayerInfo `json:"player"`
	DistanceKm     float64            `json:"distance_km"`
	RatingGap      int                `json:"rating_gap"`
	PlaystyleScore float64            `json:"playstyle_score"`
	Score          float64            `json:"score"`
	// Meetpoint is the spherical midpoint between requester and candidate,
	// the suggested fair meeting location.
	Meetpoint geo.Point `json:"meetpoint"`
}

// AvailabilityFn reports whether a player has declared availability
// overlapping the window. How availability is stored is the caller's concern;
// the ranker only consumes the predicate. A nil predicate means everyone is
// available.
type AvailabilityFn func(playerID string, w TimeWindow) bool
