package match_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hoopmatch/courtside/internal/database"
	"github.com/hoopmatch/courtside/internal/geo"
	"github.com/hoopmatch/courtside/internal/match"
	"github.com/hoopmatch/courtside/internal/players"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMatchStore(t *testing.T) (match.MatchStore, players.PlayerStore, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	playerStore := players.New(db)
	require.NoError(t, playerStore.UpsertPlayers([]players.PlayerInfo{
		{ID: "alice", Name: "Alice"},
		{ID: "bob", Name: "Bob"},
	}))

	return match.NewStore(db), playerStore, teardown
}

func newScheduledMatch(t *testing.T, store match.MatchStore) *match.Match {
	t.Helper()
	now := time.Now()
	m := &match.Match{
		ID:          uuid.New().String(),
		CreatorID:   "alice",
		OpponentID:  "bob",
		ScheduledAt: now.Add(time.Hour),
		Midpoint:    geo.Point{Lat: 40.0, Lon: -74.0},
		Status:      match.StatusScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, store.InsertMatch(m))
	return m
}

func TestInsertAndGetMatch(t *testing.T) {
	store, _, teardown := setupMatchStore(t)
	defer teardown()

	m := newScheduledMatch(t, store)

	got, err := store.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.CreatorID)
	assert.Equal(t, "bob", got.OpponentID)
	assert.Equal(t, match.StatusScheduled, got.Status)
	assert.Nil(t, got.ScoreCreator)
	assert.Nil(t, got.CourtID)
	assert.InDelta(t, 40.0, got.Midpoint.Lat, 1e-9)

	_, err = store.GetMatch("missing")
	assert.ErrorIs(t, err, match.ErrMatchNotFound)
}

func decidedRecord(m *match.Match, at time.Time) match.HistoryRecord {
	return match.HistoryRecord{
		ID:                   uuid.New().String(),
		MatchID:              m.ID,
		CreatorID:            m.CreatorID,
		OpponentID:           m.OpponentID,
		CreatorRatingBefore:  1200,
		CreatorRatingAfter:   1216,
		OpponentRatingBefore: 1200,
		OpponentRatingAfter:  1184,
		RecordedAt:           at,
	}
}

func decidedUpdates() []players.ResultUpdate {
	return []players.ResultUpdate{
		{PlayerID: "bob", OldRating: 1200, NewRating: 1184, Won: false, NewStreak: -1},
		{PlayerID: "alice", OldRating: 1200, NewRating: 1216, Won: true, NewStreak: 1},
	}
}

func TestTransitionStatus(t *testing.T) {
	store, _, teardown := setupMatchStore(t)
	defer teardown()

	m := newScheduledMatch(t, store)
	at := time.Unix(1756400000, 0)

	err := store.TransitionStatus(m.ID, []match.Status{match.StatusScheduled}, match.StatusInProgress, at)
	require.NoError(t, err)

	got, err := store.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusInProgress, got.Status)
	assert.Equal(t, at.Unix(), got.UpdatedAt.Unix(), "updated_at must carry the caller's timestamp")

	t.Run("second identical transition loses the race", func(t *testing.T) {
		err := store.TransitionStatus(m.ID, []match.Status{match.StatusScheduled}, match.StatusInProgress, at)
		assert.ErrorIs(t, err, match.ErrInvalidTransition)
	})
}

func TestCompleteAtomic(t *testing.T) {
	store, playerStore, teardown := setupMatchStore(t)
	defer teardown()

	m := newScheduledMatch(t, store)
	at := time.Unix(1756400000, 0)

	require.NoError(t, store.CompleteAtomic(m.ID, 21, 15, decidedUpdates(), decidedRecord(m, at)))

	got, err := store.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusCompleted, got.Status)
	require.NotNil(t, got.ScoreCreator)
	require.NotNil(t, got.ScoreOpponent)
	assert.Equal(t, 21, *got.ScoreCreator)
	assert.Equal(t, 15, *got.ScoreOpponent)
	assert.Equal(t, at.Unix(), got.UpdatedAt.Unix())

	alice, err := playerStore.GetPlayer("alice")
	require.NoError(t, err)
	assert.Equal(t, 1216, alice.Rating)
	assert.Equal(t, 1, alice.Wins)
	assert.Equal(t, 0, alice.Losses)
	assert.Equal(t, 1, alice.TotalMatches)
	assert.Equal(t, 1, alice.Streak)

	bob, err := playerStore.GetPlayer("bob")
	require.NoError(t, err)
	assert.Equal(t, 1184, bob.Rating)
	assert.Equal(t, 0, bob.Wins)
	assert.Equal(t, 1, bob.Losses)
	assert.Equal(t, 1, bob.TotalMatches)
	assert.Equal(t, -1, bob.Streak)

	for _, playerID := range []string{"alice", "bob"} {
		records, err := store.HistoryForPlayer(playerID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, m.ID, records[0].MatchID)
		assert.Equal(t, 1216, records[0].CreatorRatingAfter)
	}

	records, err := store.HistoryForPlayer("stranger")
	require.NoError(t, err)
	assert.Empty(t, records)

	t.Run("completed is terminal", func(t *testing.T) {
		err := store.CompleteAtomic(m.ID, 5, 3, decidedUpdates(), decidedRecord(m, at))
		assert.ErrorIs(t, err, match.ErrInvalidTransition)

		err = store.TransitionStatus(m.ID, []match.Status{match.StatusScheduled}, match.StatusExpired, at)
		assert.ErrorIs(t, err, match.ErrInvalidTransition)
	})

	t.Run("works from in_progress", func(t *testing.T) {
		m2 := newScheduledMatch(t, store)
		require.NoError(t, store.TransitionStatus(m2.ID, []match.Status{match.StatusScheduled}, match.StatusInProgress, at))
		updates := []players.ResultUpdate{
			{PlayerID: "alice", OldRating: 1216, NewRating: 1231, Won: true, NewStreak: 2},
			{PlayerID: "bob", OldRating: 1184, NewRating: 1169, Won: false, NewStreak: -2},
		}
		assert.NoError(t, store.CompleteAtomic(m2.ID, 11, 9, updates, decidedRecord(m2, at)))
	})
}

func TestCompleteAtomicTie(t *testing.T) {
	store, playerStore, teardown := setupMatchStore(t)
	defer teardown()

	m := newScheduledMatch(t, store)
	rec := decidedRecord(m, time.Now())
	rec.CreatorRatingAfter = rec.CreatorRatingBefore
	rec.OpponentRatingAfter = rec.OpponentRatingBefore

	// A tie carries no player updates; only the match row and history change.
	require.NoError(t, store.CompleteAtomic(m.ID, 10, 10, nil, rec))

	got, err := store.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusCompleted, got.Status)

	alice, err := playerStore.GetPlayer("alice")
	require.NoError(t, err)
	assert.Equal(t, 1200, alice.Rating)
	assert.Equal(t, 0, alice.TotalMatches)

	records, err := store.HistoryForPlayer("alice")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, records[0].CreatorRatingBefore, records[0].CreatorRatingAfter)
}

func TestCompleteAtomicStaleRatingRollsBack(t *testing.T) {
	store, playerStore, teardown := setupMatchStore(t)
	defer teardown()

	m := newScheduledMatch(t, store)
	at := time.Unix(1756400000, 0)

	// An update computed from a rating that is no longer current must fail
	// without flipping the status, so the completion stays retryable.
	stale := []players.ResultUpdate{
		{PlayerID: "alice", OldRating: 1300, NewRating: 1316, Won: true, NewStreak: 1},
		{PlayerID: "bob", OldRating: 1200, NewRating: 1184, Won: false, NewStreak: -1},
	}
	err := store.CompleteAtomic(m.ID, 21, 15, stale, decidedRecord(m, at))
	assert.ErrorIs(t, err, players.ErrStaleRating)

	got, err := store.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusScheduled, got.Status, "status flip must be rolled back")
	assert.Nil(t, got.ScoreCreator)

	for _, id := range []string{"alice", "bob"} {
		p, err := playerStore.GetPlayer(id)
		require.NoError(t, err)
		assert.Equal(t, 1200, p.Rating, "player rows must be untouched")
		assert.Equal(t, 0, p.TotalMatches)
	}

	records, err := store.HistoryForPlayer("alice")
	require.NoError(t, err)
	assert.Empty(t, records, "no history record for a failed completion")

	// A retry computed from the current ratings goes through.
	require.NoError(t, store.CompleteAtomic(m.ID, 21, 15, decidedUpdates(), decidedRecord(m, at)))

	got, err = store.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusCompleted, got.Status)
}

func TestListMatches(t *testing.T) {
	store, _, teardown := setupMatchStore(t)
	defer teardown()

	newScheduledMatch(t, store)
	newScheduledMatch(t, store)

	matches, err := store.ListMatches()
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}
