package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/models"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: t0} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestEngine(seed int64) (*Engine, *fakeClock) {
	clock := newFakeClock()
	return &Engine{
		Rand:  rand.New(rand.NewSource(seed)),
		Clock: clock,
		Rules: DefaultRules(),
	}, clock
}

func red(v int) models.Card    { return models.NewNumberCard(models.ColorRed, v) }
func blue(v int) models.Card   { return models.NewNumberCard(models.ColorBlue, v) }
func green(v int) models.Card  { return models.NewNumberCard(models.ColorGreen, v) }
func yellow(v int) models.Card { return models.NewNumberCard(models.ColorYellow, v) }

func action(c models.Color, k models.Kind) models.Card { return models.NewActionCard(c, k) }
func wild(k models.Kind) models.Card                   { return models.NewWildCard(k) }

// fixedState builds a Playing state where seat 0 is to act, top is the only
// discard and draw is the draw pile (top last).
func fixedState(hands [][]models.Card, top models.Card, draw []models.Card) GameState {
	s := GameState{
		ID:           uuid.New(),
		Phase:        PhasePlaying,
		Direction:    Clockwise,
		DiscardPile:  []models.Card{top},
		DrawPile:     append([]models.Card(nil), draw...),
		CurrentColor: top.Color,
		RoundNumber:  1,
		TargetScore:  500,
	}
	for i, h := range hands {
		p := models.NewPlayer(models.RosterEntry{ID: uuid.New(), Name: fmt.Sprintf("p%d", i)})
		p.Hand = append([]models.Card(nil), h...)
		s.Players = append(s.Players, p)
	}
	return s
}

func pid(s GameState, seat int) uuid.UUID { return s.Players[seat].ID }

func roster(n int) []models.RosterEntry {
	out := make([]models.RosterEntry, n)
	for i := range out {
		out[i] = models.RosterEntry{ID: uuid.New(), Name: fmt.Sprintf("player%d", i)}
	}
	return out
}

// mockBroadcaster collects events instead of sending them over WS.
type mockBroadcaster struct {
	mu           sync.Mutex
	allEvents    []GameEvent
	playerEvents map[uuid.UUID][]GameEvent
}

func newMockBroadcaster() *mockBroadcaster {
	return &mockBroadcaster{
		playerEvents: make(map[uuid.UUID][]GameEvent),
	}
}

func (mb *mockBroadcaster) broadcastFn(ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) broadcastToPlayerFn(playerID uuid.UUID, ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.playerEvents[playerID] = append(mb.playerEvents[playerID], ev)
}

func (mb *mockBroadcaster) getLastEvent() *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if len(mb.allEvents) == 0 {
		return nil
	}
	return &mb.allEvents[len(mb.allEvents)-1]
}

func (mb *mockBroadcaster) getLastPlayerEvent(playerID uuid.UUID) *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	events := mb.playerEvents[playerID]
	if len(events) == 0 {
		return nil
	}
	return &events[len(events)-1]
}

func (mb *mockBroadcaster) playerEventCount(playerID uuid.UUID) int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return len(mb.playerEvents[playerID])
}
