package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore connects to TEST_DATABASE_URL, skipping when it is unset.
func openTestStore(t *testing.T) (*GameStore, context.Context) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	pool, err := Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	return NewGameStore(pool), ctx
}

func TestInsertGameActionsCompletesGame(t *testing.T) {
	store, ctx := openTestStore(t)
	gameID, actor := uuid.New(), uuid.New()
	now := time.Now().UnixMilli()

	err := store.InsertGameActions(ctx, []cache.GameActionRecord{
		{GameID: gameID, ActionIndex: 1, ActorUserID: actor, ActionType: "action_draw", Timestamp: now},
		{GameID: gameID, ActionIndex: 2, ActionType: cache.ActionGameOver, Timestamp: now},
	})
	require.NoError(t, err)

	var status string
	require.NoError(t, store.pool.QueryRow(ctx, `SELECT status FROM games WHERE id = $1`, gameID).Scan(&status))
	assert.Equal(t, "completed", status)

	var n int
	require.NoError(t, store.pool.QueryRow(ctx, `SELECT COUNT(*) FROM game_actions WHERE game_id = $1`, gameID).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestRecordGameResult(t *testing.T) {
	store, ctx := openTestStore(t)
	gameID, a, b := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, store.RecordGameResult(ctx, gameID, a, 3, map[uuid.UUID]int{a: 512, b: 140}))

	var didWin bool
	var score int
	require.NoError(t, store.pool.QueryRow(ctx,
		`SELECT score, did_win FROM game_results WHERE game_id = $1 AND player_id = $2`, gameID, a,
	).Scan(&score, &didWin))
	assert.Equal(t, 512, score)
	assert.True(t, didWin)
}

func TestMarkGameAbandoned(t *testing.T) {
	store, ctx := openTestStore(t)
	gameID := uuid.New()
	require.NoError(t, store.InsertGameActions(ctx, []cache.GameActionRecord{
		{GameID: gameID, ActionIndex: 1, ActionType: "game_round_start", Timestamp: time.Now().UnixMilli()},
	}))
	require.NoError(t, store.MarkGameAbandoned(ctx, gameID))

	var status string
	require.NoError(t, store.pool.QueryRow(ctx, `SELECT status FROM games WHERE id = $1`, gameID).Scan(&status))
	assert.Equal(t, "abandoned", status)
}
