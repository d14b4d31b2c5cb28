package http

import (
	"net/http"

	"github.com/hoopmatch/courtside/internal/config"
	"github.com/hoopmatch/courtside/internal/match"
	"github.com/hoopmatch/courtside/internal/matchmaking"
	"github.com/hoopmatch/courtside/internal/metrics"
	"github.com/hoopmatch/courtside/internal/players"
)

func NewServer(playerStore players.PlayerStore, matchStore match.MatchStore, lifecycle match.Lifecycle, matchmaker matchmaking.Matchmaker, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Players:        playerStore,
		Matches:        matchStore,
		Lifecycle:      lifecycle,
		Matchmaker:     matchmaker,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/players/upsert", Chain(s.UpsertPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/candidates", Chain(s.CandidatesHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/matches/create", Chain(s.CreateMatchHandler(), paramsMiddleware))
	s.Router.Handle("/matches/start", Chain(s.StartMatchHandler(), paramsMiddleware))
	s.Router.Handle("/matches/complete", Chain(s.CompleteMatchHandler(), paramsMiddleware))
	s.Router.Handle("/matches/expire", Chain(s.ExpireMatchHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/history", Chain(s.HistoryHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
