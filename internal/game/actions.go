// internal/game/actions.go
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/models"
)

// turnPlayer validates that playerID may act on the current turn and returns their seat.
func turnPlayer(s *GameState, playerID uuid.UUID) (int, error) {
	idx := s.PlayerIndex(playerID)
	if idx < 0 {
		return -1, ErrUnknownPlayer
	}
	if s.Phase != PhasePlaying {
		return -1, fmt.Errorf("%w: game is %s", ErrWrongPhase, s.Phase)
	}
	if idx != s.CurrentPlayerIndex {
		return -1, ErrNotYourTurn
	}
	return idx, nil
}

// PlayCard plays cardID from playerID's hand. chosen is only read for wilds;
// passing models.ColorNone for a wild defers its color to ChooseColor.
func (e *Engine) PlayCard(s GameState, playerID, cardID uuid.UUID, chosen models.Color) (GameState, GameEvent, error) {
	idx, err := turnPlayer(&s, playerID)
	if err != nil {
		return s, GameEvent{}, err
	}
	if s.AwaitingColorChoice {
		return s, GameEvent{}, ErrAwaitingColorChoice
	}
	ci := s.Players[idx].CardIndex(cardID)
	if ci < 0 {
		return s, GameEvent{}, ErrCardNotInHand
	}
	card := s.Players[idx].Hand[ci]
	if s.DrawnCardID != uuid.Nil && cardID != s.DrawnCardID {
		return s, GameEvent{}, fmt.Errorf("%w: only the card just drawn may be played", ErrIllegalPlay)
	}
	if err := CanPlay(card, &s); err != nil {
		return s, GameEvent{}, err
	}
	if card.IsWild() && chosen != models.ColorNone && !chosen.Valid() {
		return s, GameEvent{}, ErrInvalidColorChoice
	}

	ns := s.Clone()
	p := &ns.Players[idx]
	p.Hand = append(p.Hand[:ci], p.Hand[ci+1:]...)
	ns.DrawnCardID = uuid.Nil
	declared := p.CalledLastCard

	deferred := card.IsWild() && !chosen.Valid()
	if deferred {
		placeUncoloredWild(&ns, card)
	} else {
		applyEffect(&ns, card, chosen)
	}
	played, _ := ns.TopDiscard()

	ev := GameEvent{
		Type:        EventPlayerPlay,
		User:        eventUser(playerID),
		Card:        buildEventCard(played),
		Description: fmt.Sprintf("%s plays %s", p.DisplayName, played),
		Payload: map[string]interface{}{
			"handSize": len(p.Hand),
		},
	}
	if ns.StackedDrawCount > 0 {
		ev.Payload["stackedDrawCount"] = ns.StackedDrawCount
	}

	if len(p.Hand) == 0 {
		end := ns.endRound(idx)
		end.Card = ev.Card
		end.Description = ev.Description + "; " + end.Description
		ns.record(end)
		return ns, end, nil
	}

	switch {
	case len(p.Hand) == 1 && !declared:
		ns.CatchWindow = &CatchWindow{
			TargetPlayerID: playerID,
			ExpiresAt:      e.Clock.Now().Add(e.Rules.CatchWindow),
		}
		ev.Payload["catchWindowExpiresAt"] = ns.CatchWindow.ExpiresAt
	case ns.CatchWindow != nil && ns.CatchWindow.TargetPlayerID == playerID:
		ns.CatchWindow = nil
	}

	if deferred {
		ev.Type = EventAwaitColor
		ev.Description += " and must choose a color"
		ns.record(ev)
		return ns, ev, nil
	}

	ns.advanceTurn()
	ns.record(ev)
	return ns, ev, nil
}

// ChooseColor resolves the pending wild on top of the discard pile.
func (e *Engine) ChooseColor(s GameState, playerID uuid.UUID, color models.Color) (GameState, GameEvent, error) {
	idx, err := turnPlayer(&s, playerID)
	if err != nil {
		return s, GameEvent{}, err
	}
	if !s.AwaitingColorChoice {
		return s, GameEvent{}, fmt.Errorf("%w: no color choice is pending", ErrWrongPhase)
	}
	if !color.Valid() {
		return s, GameEvent{}, ErrInvalidColorChoice
	}

	ns := s.Clone()
	stampWildColor(&ns, color)
	opening := ns.OpeningColorChoice
	ns.OpeningColorChoice = false

	p := &ns.Players[idx]
	top, _ := ns.TopDiscard()
	ev := GameEvent{
		Type:        EventPlayerChooseColor,
		User:        eventUser(playerID),
		Card:        buildEventCard(top),
		Description: fmt.Sprintf("%s chooses %s", p.DisplayName, color.Label()),
		Payload: map[string]interface{}{
			"color": color,
		},
	}

	if len(p.Hand) == 0 {
		end := ns.endRound(idx)
		end.Description = ev.Description + "; " + end.Description
		ns.record(end)
		return ns, end, nil
	}
	if !opening {
		ns.advanceTurn()
	}
	ns.record(ev)
	return ns, ev, nil
}

// Draw takes the active stack, or one card when there is none. A single
// drawn card that can be played right away leaves the turn open.
func (e *Engine) Draw(s GameState, playerID uuid.UUID) (GameState, GameEvent, error) {
	idx, err := turnPlayer(&s, playerID)
	if err != nil {
		return s, GameEvent{}, err
	}
	if s.AwaitingColorChoice {
		return s, GameEvent{}, ErrAwaitingColorChoice
	}
	if s.DrawnCardID != uuid.Nil {
		return s, GameEvent{}, ErrAlreadyDrew
	}

	ns := s.Clone()
	stacked := ns.StackedDrawCount > 0
	want := 1
	if stacked {
		want = ns.StackedDrawCount
	}
	res := DrawCards(e.Rand, ns.DrawPile, ns.DiscardPile, want)
	ns.DrawPile, ns.DiscardPile = res.DrawPile, res.DiscardPile
	p := &ns.Players[idx]
	p.Hand = append(p.Hand, res.Cards...)
	ns.StackedDrawCount = 0
	ns.StackKind = StackNone

	ev := GameEvent{
		Type:        EventPlayerDraw,
		User:        eventUser(playerID),
		Description: fmt.Sprintf("%s draws %d", p.DisplayName, len(res.Cards)),
		Payload: map[string]interface{}{
			"requested":  want,
			"drawn":      len(res.Cards),
			"handSize":   len(p.Hand),
			"reshuffles": res.Reshuffles,
			"exhausted":  res.Exhausted,
		},
		reshuffles: res.Reshuffles,
	}
	if res.Exhausted {
		ev.Description += " (no cards left to draw)"
	}

	if !stacked && len(res.Cards) == 1 && CanPlay(res.Cards[0], &ns) == nil {
		ns.DrawnCardID = res.Cards[0].ID
		ev.Type = EventDrawnPlayable
		ev.Description += " and may play it"
		ns.record(ev)
		return ns, ev, nil
	}

	ns.advanceTurn()
	ns.record(ev)
	return ns, ev, nil
}

// PassDrawnCard keeps a playable drawn card and ends the turn.
func (e *Engine) PassDrawnCard(s GameState, playerID uuid.UUID) (GameState, GameEvent, error) {
	idx, err := turnPlayer(&s, playerID)
	if err != nil {
		return s, GameEvent{}, err
	}
	if s.AwaitingColorChoice {
		return s, GameEvent{}, ErrAwaitingColorChoice
	}
	if s.DrawnCardID == uuid.Nil {
		return s, GameEvent{}, ErrNothingDrawn
	}

	ns := s.Clone()
	ev := GameEvent{
		Type:        EventPlayerPass,
		User:        eventUser(playerID),
		Description: fmt.Sprintf("%s keeps the drawn card", ns.Players[idx].DisplayName),
	}
	ns.advanceTurn()
	ns.record(ev)
	return ns, ev, nil
}

// DeclareLastCard records playerID's "last card" call. It must be made on
// their own turn while holding exactly two cards, before playing down to one.
func (e *Engine) DeclareLastCard(s GameState, playerID uuid.UUID) (GameState, GameEvent, error) {
	idx := s.PlayerIndex(playerID)
	if idx < 0 {
		return s, GameEvent{}, ErrUnknownPlayer
	}
	if s.Phase != PhasePlaying {
		return s, GameEvent{}, fmt.Errorf("%w: game is %s", ErrWrongPhase, s.Phase)
	}
	if idx != s.CurrentPlayerIndex {
		return s, GameEvent{}, fmt.Errorf("%w: not your turn", ErrCannotDeclareLastCard)
	}
	if n := len(s.Players[idx].Hand); n != 2 {
		return s, GameEvent{}, fmt.Errorf("%w: holding %d cards, need 2", ErrCannotDeclareLastCard, n)
	}

	ns := s.Clone()
	ns.Players[idx].CalledLastCard = true
	ev := GameEvent{
		Type:        EventPlayerLastCard,
		User:        eventUser(playerID),
		Description: fmt.Sprintf("%s calls last card", ns.Players[idx].DisplayName),
	}
	ns.record(ev)
	return ns, ev, nil
}

// Catch penalizes targetID for reaching one card without declaring it. An
// expired window is closed as part of the rejection.
func (e *Engine) Catch(s GameState, catcherID, targetID uuid.UUID) (GameState, GameEvent, error) {
	ci := s.PlayerIndex(catcherID)
	if ci < 0 {
		return s, GameEvent{}, ErrUnknownPlayer
	}
	if s.Phase != PhasePlaying {
		return s, GameEvent{}, fmt.Errorf("%w: game is %s", ErrWrongPhase, s.Phase)
	}
	w := s.CatchWindow
	ti := s.PlayerIndex(targetID)
	if w == nil || ti < 0 || w.TargetPlayerID != targetID || catcherID == targetID {
		return s, GameEvent{}, ErrCatchWindowAbsent
	}

	ns := s.Clone()
	ns.CatchWindow = nil
	if !e.Clock.Now().Before(w.ExpiresAt) {
		ev := GameEvent{
			Type:        EventCatchExpired,
			User:        eventUser(catcherID),
			Target:      eventUser(targetID),
			Description: fmt.Sprintf("%s was too late to catch %s", ns.Players[ci].DisplayName, ns.Players[ti].DisplayName),
		}
		ns.record(ev)
		return ns, ev, ErrCatchWindowExpired
	}

	res := DrawCards(e.Rand, ns.DrawPile, ns.DiscardPile, e.Rules.CatchPenalty)
	ns.DrawPile, ns.DiscardPile = res.DrawPile, res.DiscardPile
	target := &ns.Players[ti]
	target.Hand = append(target.Hand, res.Cards...)

	ev := GameEvent{
		Type:        EventPlayerCaught,
		User:        eventUser(catcherID),
		Target:      eventUser(targetID),
		Description: fmt.Sprintf("%s catches %s, who draws %d", ns.Players[ci].DisplayName, target.DisplayName, len(res.Cards)),
		Payload: map[string]interface{}{
			"drawn":      len(res.Cards),
			"handSize":   len(target.Hand),
			"reshuffles": res.Reshuffles,
			"exhausted":  res.Exhausted,
		},
		reshuffles: res.Reshuffles,
	}
	ns.record(ev)
	return ns, ev, nil
}
