package match_test

import (
	"testing"
	"time"

	"github.com/hoopmatch/courtside/internal/achievements"
	"github.com/hoopmatch/courtside/internal/database"
	"github.com/hoopmatch/courtside/internal/geo"
	"github.com/hoopmatch/courtside/internal/match"
	"github.com/hoopmatch/courtside/internal/metrics"
	"github.com/hoopmatch/courtside/internal/players"
	"github.com/hoopmatch/courtside/internal/pubsub"
	"github.com/hoopmatch/courtside/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineFixture struct {
	engine  *match.Engine
	matches match.MatchStore
	players players.PlayerStore
	unlocks achievements.AchievementStore
	pubsub  *pubsub.MockClient
	metrics *metrics.MockMetrics
}

func setupEngine(t *testing.T) (*engineFixture, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	playerStore := players.New(db)
	require.NoError(t, playerStore.UpsertPlayers([]players.PlayerInfo{
		{ID: "alice", Name: "Alice", Position: geo.Point{Lat: 40.0, Lon: -74.0}},
		{ID: "bob", Name: "Bob", Position: geo.Point{Lat: 40.01, Lon: -74.0}},
	}))

	achievementStore := achievements.New(db)
	require.NoError(t, achievementStore.SeedCatalog([]achievements.Achievement{
		{ID: "first-win", Name: "First Win", Kind: achievements.KindWins, Threshold: 1},
		{ID: "hot-streak", Name: "Hot Streak", Kind: achievements.KindStreak, Threshold: 3},
	}))

	fixture := &engineFixture{
		matches: match.NewStore(db),
		players: playerStore,
		unlocks: achievementStore,
		pubsub:  pubsub.NewMock(),
		metrics: metrics.NewMock(),
	}
	fixture.engine = match.NewEngine(
		fixture.matches,
		playerStore,
		rating.Default(),
		achievements.NewEvaluator(achievementStore),
		fixture.pubsub,
		fixture.metrics,
	)
	return fixture, teardown
}

func createMatch(t *testing.T, f *engineFixture, scheduledAt time.Time) *match.Match {
	t.Helper()
	m, err := f.engine.Create("alice", "bob", scheduledAt, nil, geo.Point{Lat: 40.005, Lon: -74.0})
	require.NoError(t, err)
	return m
}

func TestCreate(t *testing.T) {
	f, teardown := setupEngine(t)
	defer teardown()

	t.Run("rejects self match", func(t *testing.T) {
		_, err := f.engine.Create("alice", "alice", time.Now(), nil, geo.Point{})
		assert.ErrorIs(t, err, match.ErrInvalidParticipants)
	})

	t.Run("rejects unknown participants", func(t *testing.T) {
		_, err := f.engine.Create("alice", "ghost", time.Now(), nil, geo.Point{})
		assert.ErrorIs(t, err, players.ErrPlayerNotFound)
	})

	t.Run("rejects malformed midpoint", func(t *testing.T) {
		_, err := f.engine.Create("alice", "bob", time.Now(), nil, geo.Point{Lat: 120, Lon: 0})
		assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
	})

	t.Run("creates a scheduled match", func(t *testing.T) {
		courtID := "court-9"
		m, err := f.engine.Create("alice", "bob", time.Now().Add(time.Hour), &courtID, geo.Point{Lat: 40.005, Lon: -74.0})
		require.NoError(t, err)
		assert.Equal(t, match.StatusScheduled, m.Status)

		stored, err := f.matches.GetMatch(m.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.CourtID)
		assert.Equal(t, "court-9", *stored.CourtID)
		assert.Equal(t, 1, f.metrics.MatchesCreated)
	})
}

func TestCompleteDecidedMatch(t *testing.T) {
	f, teardown := setupEngine(t)
	defer teardown()

	m := createMatch(t, f, time.Now().Add(time.Hour))

	result, err := f.engine.Complete(m.ID, 21, 15)
	require.NoError(t, err)
	assert.False(t, result.Tie)
	assert.Equal(t, match.StatusCompleted, result.Match.Status)

	t.Run("even ratings exchange sixteen points", func(t *testing.T) {
		require.Len(t, result.RatingChanges, 2)
		assert.Equal(t, 1216, result.RatingChanges[0].After)
		assert.Equal(t, 1184, result.RatingChanges[1].After)
	})

	t.Run("player stats and streaks are updated", func(t *testing.T) {
		alice, err := f.players.GetPlayer("alice")
		require.NoError(t, err)
		assert.Equal(t, 1216, alice.Rating)
		assert.Equal(t, 1, alice.Wins)
		assert.Equal(t, 1, alice.TotalMatches)
		assert.Equal(t, 1, alice.Streak)

		bob, err := f.players.GetPlayer("bob")
		require.NoError(t, err)
		assert.Equal(t, 1184, bob.Rating)
		assert.Equal(t, 1, bob.Losses)
		assert.Equal(t, -1, bob.Streak)
	})

	t.Run("history is recorded once with before and after", func(t *testing.T) {
		records, err := f.matches.HistoryForPlayer("alice")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 1200, records[0].CreatorRatingBefore)
		assert.Equal(t, 1216, records[0].CreatorRatingAfter)
		assert.Equal(t, 1200, records[0].OpponentRatingBefore)
		assert.Equal(t, 1184, records[0].OpponentRatingAfter)
	})

	t.Run("winner unlocks the first win achievement", func(t *testing.T) {
		unlocked, ok := result.Unlocked["alice"]
		require.True(t, ok)
		require.Len(t, unlocked, 1)
		assert.Equal(t, "first-win", unlocked[0].ID)
		assert.NotContains(t, result.Unlocked, "bob")
	})

	t.Run("events are published", func(t *testing.T) {
		topics := make([]string, 0, len(f.pubsub.SentMessages))
		for _, msg := range f.pubsub.SentMessages {
			topics = append(topics, msg.Topic)
		}
		assert.Contains(t, topics, pubsub.TopicMatchCompleted)
		assert.Contains(t, topics, pubsub.TopicAchievementUnlocked)
	})

	t.Run("completing again fails and changes nothing", func(t *testing.T) {
		_, err := f.engine.Complete(m.ID, 5, 30)
		assert.ErrorIs(t, err, match.ErrInvalidTransition)

		alice, err := f.players.GetPlayer("alice")
		require.NoError(t, err)
		assert.Equal(t, 1216, alice.Rating, "a lost race must not double-apply")
	})

	assert.Equal(t, 1, f.metrics.MatchesCompleted)
	assert.Equal(t, 1, f.metrics.RatingUpdates)
}

func TestCompleteTie(t *testing.T) {
	f, teardown := setupEngine(t)
	defer teardown()

	m := createMatch(t, f, time.Now().Add(time.Hour))

	result, err := f.engine.Complete(m.ID, 10, 10)
	require.NoError(t, err)
	assert.True(t, result.Tie)
	assert.Equal(t, match.StatusCompleted, result.Match.Status)
	assert.Empty(t, result.RatingChanges)

	for _, id := range []string{"alice", "bob"} {
		p, err := f.players.GetPlayer(id)
		require.NoError(t, err)
		assert.Equal(t, 1200, p.Rating, "tie must not move %s's rating", id)
		assert.Zero(t, p.TotalMatches, "tie is a non-outcome for stats")
	}

	t.Run("history still records the completion", func(t *testing.T) {
		records, err := f.matches.HistoryForPlayer("alice")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, records[0].CreatorRatingBefore, records[0].CreatorRatingAfter)
	})

	assert.Zero(t, f.metrics.RatingUpdates)
	assert.Equal(t, 1, f.metrics.MatchesCompleted)
}

func TestCompleteFromInProgress(t *testing.T) {
	f, teardown := setupEngine(t)
	defer teardown()

	m := createMatch(t, f, time.Now().Add(time.Hour))

	started, err := f.engine.Start(m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusInProgress, started.Status)

	t.Run("start is only valid from scheduled", func(t *testing.T) {
		_, err := f.engine.Start(m.ID)
		assert.ErrorIs(t, err, match.ErrInvalidTransition)
	})

	_, err = f.engine.Complete(m.ID, 21, 18)
	assert.NoError(t, err)
}

func TestExpire(t *testing.T) {
	f, teardown := setupEngine(t)
	defer teardown()

	scheduledAt := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	m := createMatch(t, f, scheduledAt)

	t.Run("fails before the scheduled time", func(t *testing.T) {
		f.engine.WithClock(func() time.Time { return scheduledAt.Add(-time.Minute) })
		_, err := f.engine.Expire(m.ID)
		assert.ErrorIs(t, err, match.ErrInvalidTransition)
	})

	t.Run("succeeds after the scheduled time", func(t *testing.T) {
		f.engine.WithClock(func() time.Time { return scheduledAt.Add(time.Minute) })
		expired, err := f.engine.Expire(m.ID)
		require.NoError(t, err)
		assert.Equal(t, match.StatusExpired, expired.Status)
		assert.Equal(t, 1, f.metrics.MatchesExpired)

		stored, err := f.matches.GetMatch(m.ID)
		require.NoError(t, err)
		assert.Equal(t, scheduledAt.Add(time.Minute).Unix(), stored.UpdatedAt.Unix(), "expiry stamps updated_at from the engine clock")
	})

	t.Run("expired is terminal", func(t *testing.T) {
		_, err := f.engine.Complete(m.ID, 21, 15)
		assert.ErrorIs(t, err, match.ErrInvalidTransition)

		alice, err := f.players.GetPlayer("alice")
		require.NoError(t, err)
		assert.Equal(t, 1200, alice.Rating, "expiry has no rating side effects")
	})
}

func TestStreakProgression(t *testing.T) {
	f, teardown := setupEngine(t)
	defer teardown()

	// Alice wins three in a row, then loses one.
	for i := 0; i < 3; i++ {
		m := createMatch(t, f, time.Now().Add(time.Hour))
		_, err := f.engine.Complete(m.ID, 21, 10)
		require.NoError(t, err)
	}

	alice, err := f.players.GetPlayer("alice")
	require.NoError(t, err)
	assert.Equal(t, 3, alice.Streak)

	bob, err := f.players.GetPlayer("bob")
	require.NoError(t, err)
	assert.Equal(t, -3, bob.Streak)

	m := createMatch(t, f, time.Now().Add(time.Hour))
	result, err := f.engine.Complete(m.ID, 12, 21)
	require.NoError(t, err)

	alice, err = f.players.GetPlayer("alice")
	require.NoError(t, err)
	assert.Equal(t, -1, alice.Streak, "a loss resets a positive streak to -1")

	bob, err = f.players.GetPlayer("bob")
	require.NoError(t, err)
	assert.Equal(t, 1, bob.Streak, "a win resets a negative streak to 1")

	t.Run("streak achievement unlocked at three", func(t *testing.T) {
		assert.NotContains(t, result.Unlocked, "alice", "the unlock happened on an earlier win")
		unlocked, err := f.unlocks.LoadUnlockedSet("alice")
		require.NoError(t, err)
		assert.Contains(t, unlocked, "hot-streak")
	})
}
