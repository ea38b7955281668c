package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomStoreAddGetDelete(t *testing.T) {
	store := NewRoomStore()
	s := fixedState([][]models.Card{{red(1)}, {blue(1)}}, red(5), nil)
	r, _, _ := setupTestRoom(t, s)

	store.AddRoom(r)
	got, ok := store.GetRoom(r.ID)
	require.True(t, ok)
	assert.Same(t, r, got)
	assert.Len(t, store.ListRooms(), 1)

	store.DeleteRoom(r.ID)
	_, ok = store.GetRoom(r.ID)
	assert.False(t, ok)
	_, ok = store.GetRoom(uuid.New())
	assert.False(t, ok)
}

func TestRoomStoreCleanupIdle(t *testing.T) {
	store := NewRoomStore()

	idle, _, _ := setupTestRoom(t, fixedState([][]models.Card{{red(1)}, {blue(1)}}, red(5), nil))
	busyState := fixedState([][]models.Card{{yellow(1), yellow(2)}, {blue(1)}}, red(5), []models.Card{green(1)})
	busy, _, busyClock := setupTestRoom(t, busyState)
	finishedState := fixedState([][]models.Card{{red(1)}, {blue(1)}}, red(5), nil)
	finishedState.Phase = PhaseGameOver
	finished, _, _ := setupTestRoom(t, finishedState)

	store.AddRoom(idle)
	store.AddRoom(busy)
	store.AddRoom(finished)

	busyClock.Advance(8 * time.Minute)
	res := busy.HandleAction(pid(busyState, 0), models.GameAction{ActionType: models.ActionDraw})
	require.True(t, res.OK, res.Reason)

	removed := store.CleanupIdle(t0.Add(10*time.Minute), 5*time.Minute)
	assert.ElementsMatch(t, []uuid.UUID{idle.ID, finished.ID}, removed)

	_, ok := store.GetRoom(busy.ID)
	assert.True(t, ok)
	assert.Len(t, store.ListRooms(), 1)
}
