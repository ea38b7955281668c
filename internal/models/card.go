// internal/models/card.go
package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Kind classifies a card. The set is closed; every switch over Kind in the
// engine handles all six values.
type Kind uint8

const (
	KindNumber Kind = iota
	KindSkip
	KindReverse
	KindDrawTwo
	KindWild
	KindWildDrawFour
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindSkip:
		return "skip"
	case KindReverse:
		return "reverse"
	case KindDrawTwo:
		return "draw_two"
	case KindWild:
		return "wild"
	case KindWildDrawFour:
		return "wild_draw_four"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Label is the human readable name used in event descriptions and rejection reasons.
func (k Kind) Label() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindSkip:
		return "Skip"
	case KindReverse:
		return "Reverse"
	case KindDrawTwo:
		return "DrawTwo"
	case KindWild:
		return "Wild"
	case KindWildDrawFour:
		return "WildDrawFour"
	default:
		return k.String()
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	for c := KindNumber; c <= KindWildDrawFour; c++ {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown card kind %q", string(b))
}

// Color is one of the four suit colors, or ColorNone for an unassigned wild.
type Color uint8

const (
	ColorNone Color = iota
	ColorRed
	ColorYellow
	ColorGreen
	ColorBlue
)

// Colors lists the four playable colors in deck-building order.
var Colors = [4]Color{ColorRed, ColorYellow, ColorGreen, ColorBlue}

// Valid reports whether c is one of the four playable colors.
func (c Color) Valid() bool {
	return c >= ColorRed && c <= ColorBlue
}

func (c Color) String() string {
	switch c {
	case ColorNone:
		return ""
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	default:
		return fmt.Sprintf("color(%d)", uint8(c))
	}
}

// Label is the capitalized color name, "None" for unassigned.
func (c Color) Label() string {
	switch c {
	case ColorRed:
		return "Red"
	case ColorYellow:
		return "Yellow"
	case ColorGreen:
		return "Green"
	case ColorBlue:
		return "Blue"
	case ColorNone:
		return "None"
	default:
		return c.String()
	}
}

// MarshalText encodes the color by name; ColorNone encodes as "".
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a color name. Unknown names decode to an invalid
// color rather than failing so that the engine can reject them itself.
func (c *Color) UnmarshalText(b []byte) error {
	*c = ParseColor(string(b))
	return nil
}

// ParseColor maps a wire name to a Color. Unknown names map to an invalid
// sentinel value that fails Valid().
func ParseColor(s string) Color {
	switch s {
	case "":
		return ColorNone
	case "red":
		return ColorRed
	case "yellow":
		return ColorYellow
	case "green":
		return ColorGreen
	case "blue":
		return ColorBlue
	default:
		return Color(0xFF)
	}
}

// Card is one physical card. Kind and Value never change after the deck is
// built; Color is only ever assigned for wilds once a color is chosen.
type Card struct {
	ID    uuid.UUID `json:"id"`
	Kind  Kind      `json:"kind"`
	Color Color     `json:"color,omitempty"`
	Value int       `json:"-"` // face value 0..9, only meaningful for KindNumber
}

// cardJSON is the wire form of a Card; value is present only on number cards.
type cardJSON struct {
	ID    uuid.UUID `json:"id"`
	Kind  Kind      `json:"kind"`
	Color Color     `json:"color,omitempty"`
	Value *int      `json:"value,omitempty"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	out := cardJSON{ID: c.ID, Kind: c.Kind, Color: c.Color}
	if c.Kind == KindNumber {
		v := c.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

func (c *Card) UnmarshalJSON(b []byte) error {
	var in cardJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*c = Card{ID: in.ID, Kind: in.Kind, Color: in.Color}
	if in.Kind == KindNumber {
		if in.Value == nil {
			return fmt.Errorf("number card %s has no value", in.ID)
		}
		c.Value = *in.Value
	} else if in.Value != nil {
		return fmt.Errorf("%s card %s carries a value", in.Kind, in.ID)
	}
	return nil
}

// NewNumberCard builds a colored number card.
func NewNumberCard(color Color, value int) Card {
	return Card{ID: uuid.New(), Kind: KindNumber, Color: color, Value: value}
}

// NewActionCard builds a colored Skip, Reverse or DrawTwo.
func NewActionCard(color Color, kind Kind) Card {
	return Card{ID: uuid.New(), Kind: kind, Color: color}
}

// NewWildCard builds a colorless Wild or WildDrawFour.
func NewWildCard(kind Kind) Card {
	return Card{ID: uuid.New(), Kind: kind}
}

// Points returns the card's scoring value.
func (c Card) Points() int {
	switch c.Kind {
	case KindNumber:
		return c.Value
	case KindSkip, KindReverse, KindDrawTwo:
		return 20
	case KindWild, KindWildDrawFour:
		return 50
	}
	return 0
}

// IsWild reports whether the card is a Wild or WildDrawFour.
func (c Card) IsWild() bool {
	return c.Kind == KindWild || c.Kind == KindWildDrawFour
}

// IsDrawAction reports whether the card adds to a draw stack.
func (c Card) IsDrawAction() bool {
	return c.Kind == KindDrawTwo || c.Kind == KindWildDrawFour
}

// DrawAmount is the number of cards the card adds to a stack.
func (c Card) DrawAmount() int {
	switch c.Kind {
	case KindDrawTwo:
		return 2
	case KindWildDrawFour:
		return 4
	}
	return 0
}

// String renders e.g. "Red 7", "Blue Skip", "Wild" or "Green Wild".
func (c Card) String() string {
	switch {
	case c.Kind == KindNumber:
		return fmt.Sprintf("%s %d", c.Color.Label(), c.Value)
	case c.IsWild() && !c.Color.Valid():
		return c.Kind.Label()
	default:
		return fmt.Sprintf("%s %s", c.Color.Label(), c.Kind.Label())
	}
}
