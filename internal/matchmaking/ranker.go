package matchmaking

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/hoopmatch/courtside/internal/config"
	"github.com/hoopmatch/courtside/internal/geo"
	"github.com/hoopmatch/courtside/internal/players"
)

// ErrInvalidRadius is returned when a search radius is zero or negative.
var ErrInvalidRadius = errors.New("search radius must be positive")

// Ranker filters and scores opponent candidates for a requesting player.
type Ranker struct {
	store        players.PlayerStore
	cfg          config.MatchmakingConfig
	availability AvailabilityFn
}

// New creates a Ranker backed by the given player store.
func New(store players.PlayerStore, cfg config.MatchmakingConfig, availability AvailabilityFn) *Ranker {
	return &Ranker{
		store:        store,
		cfg:          cfg,
		availability: availability,
	}
}

// FindCandidates returns the top candidates for the request, best first. An
// empty result is not an error; the caller decides how to present "no
// opponents found".
func (r *Ranker) FindCandidates(req Request) ([]Candidate, error) {
	if req.RadiusKm <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadius, req.RadiusKm)
	}

	requester, err := r.store.GetPlayer(req.PlayerID)
	if err != nil {
		return nil, err
	}
	if err := requester.Position.Validate(); err != nil {
		return nil, err
	}

	pool, err := r.store.GetAllPlayers()
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}

	candidates := make([]Candidate, 0, len(pool))
	for _, p := range pool {
		if p.ID == requester.ID {
			continue
		}

		dist, err := geo.DistanceKm(requester.Position, p.Position)
		if err != nil {
			// A malformed stored position disqualifies the candidate, not
			// the whole query.
			log.Warn("Skipping candidate with invalid position", "playerID", p.ID, "error", err)
			continue
		}
		if dist > req.RadiusKm {
			continue
		}
		if r.availability != nil && !r.availability(p.ID, req.Window) {
			continue
		}

		mid, err := geo.Midpoint(requester.Position, p.Position)
		if err != nil {
			return nil, err
		}

		gap := requester.Rating - p.Rating
		if gap < 0 {
			gap = -gap
		}
		clampedGap := gap
		if clampedGap > r.cfg.MaxRatingGap {
			clampedGap = r.cfg.MaxRatingGap
		}

		styleScore := playstyleScore(requester.Playstyle, p.Playstyle)
		score := r.cfg.RatingWeight*(1-float64(clampedGap)/float64(r.cfg.MaxRatingGap)) +
			r.cfg.DistanceWeight*(1-dist/req.RadiusKm) +
			r.cfg.PlaystyleWeight*styleScore

		candidates = append(candidates, Candidate{
			Player:         p,
			DistanceKm:     dist,
			RatingGap:      gap,
			PlaystyleScore: styleScore,
			Score:          score,
			Meetpoint:      mid,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		if a.RatingGap != b.RatingGap {
			return a.RatingGap < b.RatingGap
		}
		return a.Player.ID < b.Player.ID
	})

	limit := req.Limit
	if limit <= 0 {
		limit = r.cfg.MaxResults
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	log.Debug("Ranked candidates", "requester", req.PlayerID, "pool", len(pool), "returned", len(candidates))
	return candidates, nil
}

// playstyleScore grades social fit: 1 for an exact match, 0.5 when both sides
// are in the competitive/casual cluster, 0 for a friendly vs competitive
// mismatch.
func playstyleScore(a, b players.Playstyle) float64 {
	if a == b {
		return 1
	}
	if isSerious(a) && isSerious(b) {
		return 0.5
	}
	return 0
}

func isSerious(p players.Playstyle) bool {
	return p == players.StyleCompetitive || p == players.StyleCasual
}
