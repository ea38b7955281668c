// internal/game/events.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/models"
)

// GameEventType is an enum-like type for broadcasting game transitions.
type GameEventType string

const (
	EventRoundStart        GameEventType = "game_round_start"
	EventPlayerPlay        GameEventType = "player_play"
	EventPlayerChooseColor GameEventType = "player_choose_color"
	EventAwaitColor        GameEventType = "player_await_color"
	EventPlayerDraw        GameEventType = "player_draw"
	EventDrawnPlayable     GameEventType = "player_drawn_playable" // single draw may be played
	EventPlayerPass        GameEventType = "player_pass"
	EventPlayerLastCard    GameEventType = "player_last_card"
	EventPlayerCaught      GameEventType = "player_caught"
	EventCatchExpired      GameEventType = "catch_window_expired"
	EventReshuffle         GameEventType = "game_reshuffle_draw_pile"
	EventRoundEnd          GameEventType = "game_round_end"
	EventGameOver          GameEventType = "game_end"
	EventPrivateSyncState  GameEventType = "private_sync_state"
	EventPlayerConnection  GameEventType = "player_connection"
)

// EventUser identifies a player within an event.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// EventCard describes a card within an event. Only publicly visible cards are
// ever placed here.
type EventCard struct {
	ID    uuid.UUID    `json:"id"`
	Kind  models.Kind  `json:"kind"`
	Color models.Color `json:"color,omitempty"`
	Value *int         `json:"value,omitempty"`
}

// GameEvent is the display record of one transition. It is never
// authoritative; clients re-sync from the redacted view.
type GameEvent struct {
	Type        GameEventType          `json:"type"`
	User        *EventUser             `json:"user,omitempty"`
	Target      *EventUser             `json:"target,omitempty"`
	Card        *EventCard             `json:"card,omitempty"`
	Description string                 `json:"description"`
	Payload     map[string]interface{} `json:"payload,omitempty"`

	State *GameView `json:"state,omitempty"`

	// reshuffles counts discard recycles made by the transition; the room
	// announces them ahead of the event itself.
	reshuffles int
}

func buildEventCard(c models.Card) *EventCard {
	ec := &EventCard{ID: c.ID, Kind: c.Kind, Color: c.Color}
	if c.Kind == models.KindNumber {
		v := c.Value
		ec.Value = &v
	}
	return ec
}

func reshuffleEvent(n int) GameEvent {
	return GameEvent{
		Type:        EventReshuffle,
		Description: "the discard pile is shuffled into a new draw pile",
		Payload:     map[string]interface{}{"count": n},
	}
}

func eventUser(id uuid.UUID) *EventUser {
	return &EventUser{ID: id}
}
