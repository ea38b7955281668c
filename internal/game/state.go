// internal/game/state.go
package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/models"
)

// Phase is the round-level state of a game.
type Phase string

const (
	PhaseStarting Phase = "starting"
	PhasePlaying  Phase = "playing"
	PhaseRoundEnd Phase = "round_end"
	PhaseGameOver Phase = "game_over"
)

// Direction of play around the table.
type Direction int

const (
	Clockwise        Direction = 1
	CounterClockwise Direction = -1
)

// StackKind is the draw card an active stack can be extended with.
type StackKind string

const (
	StackNone     StackKind = ""
	StackDrawTwo  StackKind = "draw_two"
	StackDrawFour StackKind = "draw_four"
)

// CatchWindow is the open opportunity to penalize TargetPlayerID for not
// declaring "last card". It closes at ExpiresAt.
type CatchWindow struct {
	TargetPlayerID uuid.UUID `json:"targetPlayerId"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// GameState is the whole authoritative state of one room's game. Engine
// transitions never modify a GameState they are given; they Clone it first.
type GameState struct {
	ID                  uuid.UUID
	Players             []models.Player
	Phase               Phase
	CurrentPlayerIndex  int
	Direction           Direction
	DrawPile            []models.Card // top is the last element
	DiscardPile         []models.Card // top is the last element
	CurrentColor        models.Color
	StackedDrawCount    int
	StackKind           StackKind
	SkipNextPlayer      bool
	AwaitingColorChoice bool
	// OpeningColorChoice marks a color choice forced by a Wild starting card;
	// resolving it does not end the chooser's turn.
	OpeningColorChoice bool
	// DrawnCardID is the single playable card the current player just drew
	// and may still play; uuid.Nil when no such offer is open.
	DrawnCardID   uuid.UUID
	CatchWindow   *CatchWindow
	RoundNumber   int
	TargetScore   int
	RoundWinnerID uuid.UUID
	WinnerID      uuid.UUID
	LastEvent     *GameEvent
}

// Clone returns a deep copy safe to mutate.
func (s GameState) Clone() GameState {
	c := s
	c.Players = make([]models.Player, len(s.Players))
	for i, p := range s.Players {
		p.Hand = append([]models.Card(nil), p.Hand...)
		c.Players[i] = p
	}
	c.DrawPile = append([]models.Card(nil), s.DrawPile...)
	c.DiscardPile = append([]models.Card(nil), s.DiscardPile...)
	if s.CatchWindow != nil {
		w := *s.CatchWindow
		c.CatchWindow = &w
	}
	if s.LastEvent != nil {
		ev := *s.LastEvent
		c.LastEvent = &ev
	}
	return c
}

// CurrentPlayer returns the player whose turn it is.
func (s *GameState) CurrentPlayer() *models.Player {
	if len(s.Players) == 0 {
		return nil
	}
	return &s.Players[s.CurrentPlayerIndex]
}

// PlayerIndex returns the seat of playerID, or -1.
func (s *GameState) PlayerIndex(playerID uuid.UUID) int {
	for i := range s.Players {
		if s.Players[i].ID == playerID {
			return i
		}
	}
	return -1
}

// TopDiscard returns the face-up card. ok is false only for an empty pile.
func (s *GameState) TopDiscard() (models.Card, bool) {
	if len(s.DiscardPile) == 0 {
		return models.Card{}, false
	}
	return s.DiscardPile[len(s.DiscardPile)-1], true
}

// CardCount is the total number of cards across both piles and every hand.
func (s *GameState) CardCount() int {
	n := len(s.DrawPile) + len(s.DiscardPile)
	for _, p := range s.Players {
		n += len(p.Hand)
	}
	return n
}

// nextIndex is the seat steps positions away in the current direction.
func (s *GameState) nextIndex(from, steps int) int {
	n := len(s.Players)
	idx := (from + steps*int(s.Direction)) % n
	if idx < 0 {
		idx += n
	}
	return idx
}

// SetConnected returns s with playerID's connectivity flag updated. Nothing
// else changes. ok is false for an unknown player.
func SetConnected(s GameState, playerID uuid.UUID, connected bool) (GameState, bool) {
	idx := s.PlayerIndex(playerID)
	if idx < 0 {
		return s, false
	}
	ns := s.Clone()
	ns.Players[idx].Connected = connected
	return ns, true
}
