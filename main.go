package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hoopmatch/courtside/internal/achievements"
	"github.com/hoopmatch/courtside/internal/config"
	"github.com/hoopmatch/courtside/internal/database"
	server "github.com/hoopmatch/courtside/internal/http"
	"github.com/hoopmatch/courtside/internal/match"
	"github.com/hoopmatch/courtside/internal/matchmaking"
	"github.com/hoopmatch/courtside/internal/metrics"
	"github.com/hoopmatch/courtside/internal/players"
	"github.com/hoopmatch/courtside/internal/pubsub"
	"github.com/hoopmatch/courtside/internal/rating"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	playerStore := players.New(db)
	matchStore := match.NewStore(db)
	achievementStore := achievements.New(db)
	if err := achievementStore.SeedCatalog(achievements.DefaultCatalog()); err != nil {
		log.Fatalf("Failed to seed achievement catalog: %s", err)
	}

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	pubsubClient := pubsub.New(cfg.ProjectID)

	ratingEngine := rating.New(cfg.Rating.KFactor, cfg.Rating.Floor)
	evaluator := achievements.NewEvaluator(achievementStore)
	lifecycle := match.NewEngine(matchStore, playerStore, ratingEngine, evaluator, pubsubClient, metricsSvc)
	ranker := matchmaking.New(playerStore, cfg.Matchmaking, nil)

	s := server.NewServer(
		playerStore,
		matchStore,
		lifecycle,
		ranker,
		metricsSvc,
		metricsHandler,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
