// internal/game/rules.go
package game

import (
	"fmt"
	"time"

	"github.com/jason-s-yu/lastcard/internal/models"
)

// Rules holds the tunable numbers of the single supported rule set.
type Rules struct {
	TargetScore  int           `json:"targetScore"`  // cumulative points that end the game
	HandSize     int           `json:"handSize"`     // cards dealt per player each round
	CatchWindow  time.Duration `json:"catchWindow"`  // how long a missed "last card" can be caught
	CatchPenalty int           `json:"catchPenalty"` // cards drawn by a caught player
}

// DefaultRules returns the standard configuration.
func DefaultRules() Rules {
	return Rules{
		TargetScore:  500,
		HandSize:     7,
		CatchWindow:  3000 * time.Millisecond,
		CatchPenalty: 4,
	}
}

const (
	maxTargetScore   = 100000
	maxCatchWindowMs = 60000
)

// Update applies overrides from a decoded JSON object. Missing keys keep
// their current value.
func (rules *Rules) Update(newRules map[string]interface{}) error {
	assignInt := func(field *int, key string, minVal, maxVal int) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		var n int
		switch v := val.(type) {
		case float64:
			if v < float64(minVal) || v > float64(maxVal) {
				return fmt.Errorf("%s must be between %d and %d", key, minVal, maxVal)
			}
			n = int(v)
		case int:
			n = v
		default:
			return fmt.Errorf("invalid type for %s", key)
		}
		if n < minVal || n > maxVal {
			return fmt.Errorf("%s must be between %d and %d", key, minVal, maxVal)
		}
		*field = n
		return nil
	}

	if err := assignInt(&rules.TargetScore, "targetScore", 1, maxTargetScore); err != nil {
		return err
	}
	if err := assignInt(&rules.HandSize, "handSize", 1, DeckSize-1); err != nil {
		return err
	}
	if err := assignInt(&rules.CatchPenalty, "catchPenalty", 0, DeckSize); err != nil {
		return err
	}
	ms := int(rules.CatchWindow / time.Millisecond)
	if err := assignInt(&ms, "catchWindowMs", 0, maxCatchWindowMs); err != nil {
		return err
	}
	rules.CatchWindow = time.Duration(ms) * time.Millisecond
	return nil
}

// ParseRules returns current with the overrides in rules applied.
func ParseRules(rules map[string]interface{}, current Rules) (Rules, error) {
	r := current
	err := r.Update(rules)
	return r, err
}

func stackCardLabel(k StackKind) string {
	if k == StackDrawFour {
		return models.KindWildDrawFour.Label()
	}
	return models.KindDrawTwo.Label()
}

// CanPlay reports whether card may be played onto s, returning an
// ErrIllegalPlay-wrapped reason when it may not. Checks run in order: an
// active stack, then wilds, then color / number / kind matching.
func CanPlay(card models.Card, s *GameState) error {
	if s.StackedDrawCount > 0 {
		legal := false
		switch card.Kind {
		case models.KindSkip, models.KindReverse:
			legal = true
		case models.KindDrawTwo:
			legal = s.StackKind == StackDrawTwo
		case models.KindWildDrawFour:
			legal = s.StackKind == StackDrawFour
		case models.KindNumber, models.KindWild:
			legal = false
		}
		if !legal {
			return fmt.Errorf("%w: must play %s or draw %d", ErrIllegalPlay, stackCardLabel(s.StackKind), s.StackedDrawCount)
		}
		return nil
	}

	if card.IsWild() {
		return nil
	}
	if card.Color == s.CurrentColor {
		return nil
	}

	top, ok := s.TopDiscard()
	if !ok {
		return fmt.Errorf("%w: must match color %s", ErrIllegalPlay, s.CurrentColor.Label())
	}
	switch card.Kind {
	case models.KindNumber:
		if top.Kind == models.KindNumber && top.Value == card.Value {
			return nil
		}
	case models.KindSkip, models.KindReverse, models.KindDrawTwo, models.KindWild, models.KindWildDrawFour:
		if card.Kind == top.Kind {
			return nil
		}
	}
	if top.Kind == models.KindNumber {
		return fmt.Errorf("%w: must match color %s or number %d", ErrIllegalPlay, s.CurrentColor.Label(), top.Value)
	}
	return fmt.Errorf("%w: must match color %s or %s", ErrIllegalPlay, s.CurrentColor.Label(), top.Kind.Label())
}

// applyEffect places card on the discard pile and applies its color and kind
// effects. A wild must arrive with a valid chosen color; anything else is a
// caller bug and panics.
func applyEffect(s *GameState, card models.Card, chosen models.Color) {
	if card.IsWild() {
		if !chosen.Valid() {
			panic(fmt.Sprintf("game: wild card %s finalized without a valid color", card.ID))
		}
		card.Color = chosen
	}
	s.DiscardPile = append(s.DiscardPile, card)
	s.CurrentColor = card.Color
	applyKindEffect(s, card)
}

// placeUncoloredWild puts a wild face-up before its color is known. The
// WildDrawFour penalty is committed here, not at color choice.
func placeUncoloredWild(s *GameState, card models.Card) {
	card.Color = models.ColorNone
	s.DiscardPile = append(s.DiscardPile, card)
	s.AwaitingColorChoice = true
	if card.Kind == models.KindWildDrawFour {
		applyKindEffect(s, card)
	}
}

// stampWildColor assigns the chosen color to the pending wild on top of the
// discard pile.
func stampWildColor(s *GameState, color models.Color) {
	if !color.Valid() {
		panic("game: stampWildColor called with invalid color")
	}
	top := len(s.DiscardPile) - 1
	if top < 0 || !s.DiscardPile[top].IsWild() {
		panic("game: color choice pending without a wild on the discard pile")
	}
	s.DiscardPile[top].Color = color
	s.CurrentColor = color
	s.AwaitingColorChoice = false
}

func applyKindEffect(s *GameState, card models.Card) {
	switch card.Kind {
	case models.KindNumber, models.KindWild:
	case models.KindSkip:
		s.SkipNextPlayer = true
	case models.KindReverse:
		s.Direction = -s.Direction
		if len(s.Players) == 2 {
			s.SkipNextPlayer = true
		}
	case models.KindDrawTwo:
		s.StackedDrawCount += 2
		s.StackKind = StackDrawTwo
	case models.KindWildDrawFour:
		s.StackedDrawCount += 4
		s.StackKind = StackDrawFour
	}
}

// applyFirstCardEffect applies the narrower opening rules to the card just
// flipped onto the discard pile. Player 0 is the nominal first player.
func applyFirstCardEffect(s *GameState, card models.Card) {
	s.CurrentColor = card.Color
	n := len(s.Players)
	switch card.Kind {
	case models.KindNumber:
	case models.KindSkip:
		s.CurrentPlayerIndex = s.nextIndex(0, 1)
	case models.KindReverse:
		s.Direction = CounterClockwise
		if n == 2 {
			s.CurrentPlayerIndex = 1
		} else {
			s.CurrentPlayerIndex = n - 1
		}
	case models.KindDrawTwo:
		s.StackedDrawCount = 2
		s.StackKind = StackDrawTwo
	case models.KindWild, models.KindWildDrawFour:
		// PickStartingCard never yields a WildDrawFour; a plain Wild lets
		// the first player name the color before playing.
		s.CurrentColor = models.ColorNone
		s.AwaitingColorChoice = true
		s.OpeningColorChoice = true
	}
}
