package players_test

import (
	"database/sql"
	"testing"

	"github.com/hoopmatch/courtside/internal/database"
	"github.com/hoopmatch/courtside/internal/geo"
	"github.com/hoopmatch/courtside/internal/players"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (players.PlayerStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := players.New(db)
	return store, db, dbTeardown
}

func TestUpsertAndGetPlayers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	err := store.UpsertPlayers([]players.PlayerInfo{
		{ID: "p1", Name: "Player One", Playstyle: players.StyleCompetitive, Position: geo.Point{Lat: 40.0, Lon: -74.0}},
		{ID: "p2", Name: "Player Two", Playstyle: players.StyleFriendly},
	})
	require.NoError(t, err)

	assert.True(t, store.IsKnownPlayer("p1"))
	assert.False(t, store.IsKnownPlayer("p3"))

	p, err := store.GetPlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, "Player One", p.Name)
	assert.Equal(t, 1200, p.Rating, "new players start at the default rating")
	assert.Equal(t, players.StyleCompetitive, p.Playstyle)
	assert.InDelta(t, 40.0, p.Position.Lat, 1e-9)

	_, err = store.GetPlayer("nope")
	assert.ErrorIs(t, err, players.ErrPlayerNotFound)
}

func TestUpsertDoesNotResetStats(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertPlayers([]players.PlayerInfo{{ID: "p1", Name: "Player One"}}))

	_, err := db.Exec("UPDATE players SET rating = 1300, wins = 5, total_matches = 8, streak = 2 WHERE id = 'p1'")
	require.NoError(t, err)

	// Re-upserting profile data must not clobber match-owned fields.
	require.NoError(t, store.UpsertPlayers([]players.PlayerInfo{{ID: "p1", Name: "Renamed", Playstyle: players.StyleCasual}}))

	p, err := store.GetPlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)
	assert.Equal(t, 1300, p.Rating)
	assert.Equal(t, 5, p.Wins)
	assert.Equal(t, 8, p.TotalMatches)
	assert.Equal(t, 2, p.Streak)
}

func TestGetPlayers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertPlayers([]players.PlayerInfo{
		{ID: "p1", Name: "One"}, {ID: "p2", Name: "Two"}, {ID: "p3", Name: "Three"},
	}))

	t.Run("gets multiple players", func(t *testing.T) {
		got, err := store.GetPlayers([]string{"p1", "p3"})
		require.NoError(t, err)
		require.Len(t, got, 2)

		byID := make(map[string]players.PlayerInfo)
		for _, p := range got {
			byID[p.ID] = p
		}
		assert.Contains(t, byID, "p1")
		assert.Contains(t, byID, "p3")
	})

	t.Run("returns empty slice for no matches", func(t *testing.T) {
		got, err := store.GetPlayers([]string{"p4"})
		require.NoError(t, err)
		assert.Len(t, got, 0)
	})

	t.Run("returns empty slice for empty id slice", func(t *testing.T) {
		got, err := store.GetPlayers(nil)
		require.NoError(t, err)
		assert.Len(t, got, 0)
	})
}

func TestLeaderboard(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertPlayers([]players.PlayerInfo{
		{ID: "low", Name: "Low"}, {ID: "high", Name: "High"}, {ID: "mid", Name: "Mid"},
	}))
	_, err := db.Exec("UPDATE players SET rating = 1400 WHERE id = 'high'")
	require.NoError(t, err)
	_, err = db.Exec("UPDATE players SET rating = 1100 WHERE id = 'low'")
	require.NoError(t, err)

	board, err := store.Leaderboard()
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, "high", board[0].ID)
	assert.Equal(t, "mid", board[1].ID)
	assert.Equal(t, "low", board[2].ID)
}
