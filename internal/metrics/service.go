package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service is the Prometheus-backed Metrics implementation.
type Service struct {
	CandidateSearches    prometheus.Counter
	RankingDuration      prometheus.Histogram
	MatchesCreated       prometheus.Counter
	MatchesCompleted     prometheus.Counter
	MatchesExpired       prometheus.Counter
	RatingUpdates        prometheus.Counter
	AchievementsUnlocked prometheus.Counter
	StartupTimeSeconds   prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		CandidateSearches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_candidate_searches_total",
			Help: "The total number of matchmaking queries served.",
		}),
		RankingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courtside_ranking_duration_seconds",
			Help:    "The duration of individual candidate ranking queries.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		MatchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_matches_created_total",
			Help: "The total number of matches created.",
		}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_matches_completed_total",
			Help: "The total number of matches completed.",
		}),
		MatchesExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_matches_expired_total",
			Help: "The total number of matches expired without being played.",
		}),
		RatingUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_rating_updates_total",
			Help: "The total number of dual-player rating updates applied.",
		}),
		AchievementsUnlocked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_achievements_unlocked_total",
			Help: "The total number of achievements unlocked.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courtside_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.CandidateSearches,
		s.RankingDuration,
		s.MatchesCreated,
		s.MatchesCompleted,
		s.MatchesExpired,
		s.RatingUpdates,
		s.AchievementsUnlocked,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncCandidateSearches() {
	s.CandidateSearches.Inc()
}

func (s *Service) ObserveRankingDuration(duration float64) {
	s.RankingDuration.Observe(duration)
}

func (s *Service) IncMatchesCreated() {
	s.MatchesCreated.Inc()
}

func (s *Service) IncMatchesCompleted() {
	s.MatchesCompleted.Inc()
}

func (s *Service) IncMatchesExpired() {
	s.MatchesExpired.Inc()
}

func (s *Service) IncRatingUpdates() {
	s.RatingUpdates.Inc()
}

func (s *Service) AddAchievementsUnlocked(count int) {
	s.AchievementsUnlocked.Add(float64(count))
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
