package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hoopmatch/courtside/internal/geo"
	"github.com/hoopmatch/courtside/internal/match"
	"github.com/hoopmatch/courtside/internal/matchmaking"
	"github.com/hoopmatch/courtside/internal/players"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have cleared the store")
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Dry run, store untouched.")
			return
		}
		log.Info("Received request to clear entire store")
		s.Players.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := s.Players.GetAllPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		respondJSON(w, all)
	}
}

func (s *Server) UpsertPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var incoming []players.PlayerInfo
		if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		for _, p := range incoming {
			if p.ID == "" {
				http.Error(w, "Player id is required", http.StatusBadRequest)
				return
			}
			if err := p.Position.Validate(); err != nil {
				respondError(w, err)
				return
			}
			if p.Playstyle != "" && !p.Playstyle.Valid() {
				http.Error(w, fmt.Sprintf("Unknown playstyle %q", p.Playstyle), http.StatusBadRequest)
				return
			}
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have upserted players", "count", len(incoming))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Dry run, no players written.")
			return
		}

		if err := s.Players.UpsertPlayers(incoming); err != nil {
			http.Error(w, "Failed to save players", http.StatusInternalServerError)
			log.Error("Failed to upsert players", "error", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Upserted %d players.\n", len(incoming))
	}
}

func (s *Server) CandidatesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req matchmaking.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		started := time.Now()
		candidates, err := s.Matchmaker.FindCandidates(req)
		if err != nil {
			respondError(w, err)
			return
		}
		s.Metrics.IncCandidateSearches()
		s.Metrics.ObserveRankingDuration(time.Since(started).Seconds())

		log.Info("Candidate search finished", "playerID", req.PlayerID, "count", len(candidates))
		respondJSON(w, candidates)
	}
}

type createMatchRequest struct {
	CreatorID   string    `json:"creator_id"`
	OpponentID  string    `json:"opponent_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	CourtID     *string   `json:"court_id,omitempty"`
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if req.CreatorID == req.OpponentID {
			respondError(w, fmt.Errorf("%w: %s", match.ErrInvalidParticipants, req.CreatorID))
			return
		}

		// The suggested meeting point is the spherical midpoint of the two
		// players' home positions.
		found, err := s.Players.GetPlayers([]string{req.CreatorID, req.OpponentID})
		if err != nil {
			respondError(w, err)
			return
		}
		if len(found) != 2 {
			http.Error(w, "Both players must exist", http.StatusNotFound)
			return
		}
		midpoint, err := geo.Midpoint(found[0].Position, found[1].Position)
		if err != nil {
			respondError(w, err)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have created match", "creator", req.CreatorID, "opponent", req.OpponentID)
			respondJSON(w, map[string]any{"midpoint": midpoint})
			return
		}

		m, err := s.Lifecycle.Create(req.CreatorID, req.OpponentID, req.ScheduledAt, req.CourtID, midpoint)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, m)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Matches.ListMatches()
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}
		respondJSON(w, matches)
	}
}

func (s *Server) StartMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID == "" {
			http.Error(w, "matchID is required", http.StatusBadRequest)
			return
		}
		m, err := s.Lifecycle.Start(matchID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, m)
	}
}

type completeMatchRequest struct {
	MatchID       string `json:"match_id"`
	ScoreCreator  int    `json:"score_creator"`
	ScoreOpponent int    `json:"score_opponent"`
}

func (s *Server) CompleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req completeMatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.MatchID == "" {
			http.Error(w, "match_id is required", http.StatusBadRequest)
			return
		}
		if req.ScoreCreator < 0 || req.ScoreOpponent < 0 {
			http.Error(w, "Scores must be non-negative", http.StatusBadRequest)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have completed match", "matchID", req.MatchID)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Dry run, match untouched.")
			return
		}

		result, err := s.Lifecycle.Complete(req.MatchID, req.ScoreCreator, req.ScoreOpponent)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, result)
	}
}

func (s *Server) ExpireMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID == "" {
			http.Error(w, "matchID is required", http.StatusBadRequest)
			return
		}
		m, err := s.Lifecycle.Expire(matchID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, m)
	}
}

// LeaderboardHandler returns a handler that serves players ordered by rating.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := s.Players.Leaderboard()
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard from store", "error", err)
			return
		}
		respondJSON(w, board)
	}
}

func (s *Server) HistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("playerID")
		if playerID == "" {
			http.Error(w, "playerID is required", http.StatusBadRequest)
			return
		}
		records, err := s.Matches.HistoryForPlayer(playerID)
		if err != nil {
			http.Error(w, "Failed to get history", http.StatusInternalServerError)
			log.Error("Failed to get history from store", "error", err, "playerID", playerID)
			return
		}
		respondJSON(w, records)
	}
}

func respondJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// respondError maps domain errors onto HTTP status codes. Unrecognized errors
// are treated as storage failures.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, geo.ErrInvalidCoordinate),
		errors.Is(err, matchmaking.ErrInvalidRadius),
		errors.Is(err, match.ErrInvalidParticipants):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, players.ErrPlayerNotFound),
		errors.Is(err, match.ErrMatchNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, match.ErrInvalidTransition),
		errors.Is(err, players.ErrStaleRating):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Error("Unexpected error handling request", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
