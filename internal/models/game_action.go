package models

import "github.com/google/uuid"

// Action types accepted by a room.
const (
	ActionPlay        = "action_play"
	ActionChooseColor = "action_choose_color"
	ActionDraw        = "action_draw"
	ActionPass        = "action_pass"
	ActionLastCard    = "action_last_card"
	ActionCatch       = "action_catch"
	ActionNextRound   = "action_next_round"
)

// GameAction captures a player's in-game move as decoded by the transport.
type GameAction struct {
	ActionType string    `json:"action_type"`
	CardID     uuid.UUID `json:"card_id,omitempty"`
	Color      Color     `json:"color,omitempty"`
	TargetID   uuid.UUID `json:"target_id,omitempty"`
}
