// internal/game/sync_state.go
package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/models"
)

// ViewPlayer is one seat as seen by the recipient of a GameView.
type ViewPlayer struct {
	PlayerID       uuid.UUID     `json:"player_id"`
	DisplayName    string        `json:"displayName"`
	HandSize       int           `json:"hand_size"`
	Score          int           `json:"score"`
	Connected      bool          `json:"connected"`
	CalledLastCard bool          `json:"calledLastCard"`
	IsCurrentTurn  bool          `json:"isCurrentTurn"`
	Hand           []models.Card `json:"hand,omitempty"` // only for the recipient
}

// GameView is the redacted state sent to a single player: their own hand in
// full, everyone else's reduced to a count, the draw pile to a count and the
// discard pile to its top card.
type GameView struct {
	GameID              uuid.UUID    `json:"game_id"`
	Phase               Phase        `json:"phase"`
	RoundNumber         int          `json:"round"`
	TargetScore         int          `json:"targetScore"`
	CurrentPlayerID     uuid.UUID    `json:"currentPlayerId"`
	Direction           Direction    `json:"direction"`
	CurrentColor        models.Color `json:"currentColor,omitempty"`
	StackedDrawCount    int          `json:"stackedDrawCount"`
	StackKind           StackKind    `json:"stackKind,omitempty"`
	AwaitingColorChoice bool         `json:"awaitingColorChoice"`
	DrawPileSize        int          `json:"drawPileSize"`
	DiscardPileSize     int          `json:"discardPileSize"`
	DiscardTop          *models.Card `json:"discardTop,omitempty"`
	DrawnCardID         *uuid.UUID   `json:"drawnCardId,omitempty"` // only for the recipient
	CatchTargetID       *uuid.UUID   `json:"catchTargetId,omitempty"`
	CatchExpiresAt      *time.Time   `json:"catchExpiresAt,omitempty"`
	RoundWinnerID       *uuid.UUID   `json:"roundWinnerId,omitempty"`
	WinnerID            *uuid.UUID   `json:"winnerId,omitempty"`
	Players             []ViewPlayer `json:"players"`
	LastEvent           *GameEvent   `json:"lastEvent,omitempty"`
}

// View projects s for recipient. Unknown recipients see no hand at all.
func View(s *GameState, recipient uuid.UUID) GameView {
	v := GameView{
		GameID:              s.ID,
		Phase:               s.Phase,
		RoundNumber:         s.RoundNumber,
		TargetScore:         s.TargetScore,
		Direction:           s.Direction,
		CurrentColor:        s.CurrentColor,
		StackedDrawCount:    s.StackedDrawCount,
		StackKind:           s.StackKind,
		AwaitingColorChoice: s.AwaitingColorChoice,
		DrawPileSize:        len(s.DrawPile),
		DiscardPileSize:     len(s.DiscardPile),
		Players:             make([]ViewPlayer, 0, len(s.Players)),
	}
	if cur := s.CurrentPlayer(); cur != nil {
		v.CurrentPlayerID = cur.ID
	}
	if top, ok := s.TopDiscard(); ok {
		v.DiscardTop = &top
	}
	if s.CatchWindow != nil {
		target, expires := s.CatchWindow.TargetPlayerID, s.CatchWindow.ExpiresAt
		v.CatchTargetID = &target
		v.CatchExpiresAt = &expires
	}
	if s.RoundWinnerID != uuid.Nil {
		id := s.RoundWinnerID
		v.RoundWinnerID = &id
	}
	if s.WinnerID != uuid.Nil {
		id := s.WinnerID
		v.WinnerID = &id
	}
	if s.LastEvent != nil {
		ev := *s.LastEvent
		v.LastEvent = &ev
	}

	for i, pl := range s.Players {
		vp := ViewPlayer{
			PlayerID:       pl.ID,
			DisplayName:    pl.DisplayName,
			HandSize:       len(pl.Hand),
			Score:          pl.Score,
			Connected:      pl.Connected,
			CalledLastCard: pl.CalledLastCard,
			IsCurrentTurn:  i == s.CurrentPlayerIndex,
		}
		if pl.ID == recipient {
			vp.Hand = append([]models.Card{}, pl.Hand...)
			if i == s.CurrentPlayerIndex && s.DrawnCardID != uuid.Nil {
				id := s.DrawnCardID
				v.DrawnCardID = &id
			}
		}
		v.Players = append(v.Players, vp)
	}
	return v
}
