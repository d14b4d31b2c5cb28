package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

var (
	playerID      string
	radiusKm      float64
	matchID       string
	creatorID     string
	opponentID    string
	scheduledAt   string
	courtID       string
	scoreCreator  int
	scoreOpponent int
)

func init() {
	candidatesCmd.Flags().StringVar(&playerID, "player", "", "The requesting player's id")
	candidatesCmd.Flags().Float64Var(&radiusKm, "radius", 10, "Search radius in kilometers")
	candidatesCmd.MarkFlagRequired("player")

	createCmd.Flags().StringVar(&creatorID, "creator", "", "The creating player's id")
	createCmd.Flags().StringVar(&opponentID, "opponent", "", "The opponent's id")
	createCmd.Flags().StringVar(&scheduledAt, "at", "", "Scheduled time (RFC3339)")
	createCmd.Flags().StringVar(&courtID, "court", "", "Optional court id")
	createCmd.MarkFlagRequired("creator")
	createCmd.MarkFlagRequired("opponent")
	createCmd.MarkFlagRequired("at")

	startCmd.Flags().StringVar(&matchID, "match", "", "The match id")
	startCmd.MarkFlagRequired("match")

	completeCmd.Flags().StringVar(&matchID, "match", "", "The match id")
	completeCmd.Flags().IntVar(&scoreCreator, "score-creator", 0, "The creator's score")
	completeCmd.Flags().IntVar(&scoreOpponent, "score-opponent", 0, "The opponent's score")
	completeCmd.MarkFlagRequired("match")

	expireCmd.Flags().StringVar(&matchID, "match", "", "The match id")
	expireCmd.MarkFlagRequired("match")

	historyCmd.Flags().StringVar(&playerID, "player", "", "The player's id")
	historyCmd.MarkFlagRequired("player")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(candidatesCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(expireCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Find ranked opponent candidates for a player",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/candidates", map[string]any{
			"player_id": playerID,
			"radius_km": radiusKm,
		})
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List all matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a scheduled match between two players",
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := time.Parse(time.RFC3339, scheduledAt)
		if err != nil {
			return fmt.Errorf("invalid --at value: %w", err)
		}
		payload := map[string]any{
			"creator_id":   creatorID,
			"opponent_id":  opponentID,
			"scheduled_at": at,
		}
		if courtID != "" {
			payload["court_id"] = courtID
		}
		return performPostRequest("/matches/create", payload)
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Move a scheduled match to in progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches/start?matchID="+url.QueryEscape(matchID), nil)
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Complete a match with a final score",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches/complete", map[string]any{
			"match_id":       matchID,
			"score_creator":  scoreCreator,
			"score_opponent": scoreOpponent,
		})
	},
}

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Expire a scheduled match whose time has passed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches/expire?matchID="+url.QueryEscape(matchID), nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show players ordered by rating",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard")
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a player's match history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/history?playerID=" + url.QueryEscape(playerID))
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, payload any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	resp, err := http.Post(url, "application/json", body)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
