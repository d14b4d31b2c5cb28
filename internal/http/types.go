package http

import (
	"net/http"

	"github.com/hoopmatch/courtside/internal/config"
	"github.com/hoopmatch/courtside/internal/match"
	"github.com/hoopmatch/courtside/internal/matchmaking"
	"github.com/hoopmatch/courtside/internal/metrics"
	"github.com/hoopmatch/courtside/internal/players"
)

type Server struct {
	Players        players.PlayerStore
	Matches        match.MatchStore
	Lifecycle      match.Lifecycle
	Matchmaker     matchmaking.Matchmaker
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
