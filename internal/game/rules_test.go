package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanPlayMatrix(t *testing.T) {
	tests := []struct {
		name    string
		top     models.Card
		color   models.Color
		stack   int
		kind    StackKind
		card    models.Card
		wantErr string
	}{
		{name: "same color", top: red(7), card: red(2)},
		{name: "same number", top: red(7), card: blue(7)},
		{name: "wrong color and number", top: red(7), card: blue(3), wantErr: "must match color Red or number 7"},
		{name: "same kind", top: action(models.ColorRed, models.KindSkip), card: action(models.ColorBlue, models.KindSkip)},
		{name: "kind mismatch", top: action(models.ColorRed, models.KindSkip), card: action(models.ColorBlue, models.KindReverse), wantErr: "must match color Red or Skip"},
		{name: "number on action", top: action(models.ColorRed, models.KindSkip), card: blue(3), wantErr: "must match color Red or Skip"},
		{name: "wild always", top: red(7), card: wild(models.KindWild)},
		{name: "wild draw four always", top: red(7), card: wild(models.KindWildDrawFour)},
		{name: "current color set by wild", top: wild(models.KindWild), color: models.ColorGreen, card: green(5)},
		{name: "wild top wrong color", top: wild(models.KindWild), color: models.ColorGreen, card: blue(5), wantErr: "must match color Green or Wild"},
		{name: "stack accepts draw two", top: action(models.ColorRed, models.KindDrawTwo), stack: 2, kind: StackDrawTwo, card: action(models.ColorBlue, models.KindDrawTwo)},
		{name: "stack accepts skip", top: action(models.ColorRed, models.KindDrawTwo), stack: 2, kind: StackDrawTwo, card: action(models.ColorBlue, models.KindSkip)},
		{name: "stack accepts reverse", top: action(models.ColorRed, models.KindDrawTwo), stack: 2, kind: StackDrawTwo, card: action(models.ColorGreen, models.KindReverse)},
		{name: "stack rejects number", top: action(models.ColorRed, models.KindDrawTwo), stack: 4, kind: StackDrawTwo, card: red(3), wantErr: "must play DrawTwo or draw 4"},
		{name: "stack rejects wild", top: action(models.ColorRed, models.KindDrawTwo), stack: 2, kind: StackDrawTwo, card: wild(models.KindWild), wantErr: "must play DrawTwo or draw 2"},
		{name: "draw two stack rejects wild draw four", top: action(models.ColorRed, models.KindDrawTwo), stack: 2, kind: StackDrawTwo, card: wild(models.KindWildDrawFour), wantErr: "must play DrawTwo or draw 2"},
		{name: "draw four stack accepts wild draw four", top: wild(models.KindWildDrawFour), color: models.ColorBlue, stack: 4, kind: StackDrawFour, card: wild(models.KindWildDrawFour)},
		{name: "draw four stack rejects draw two", top: wild(models.KindWildDrawFour), color: models.ColorBlue, stack: 4, kind: StackDrawFour, card: action(models.ColorBlue, models.KindDrawTwo), wantErr: "must play WildDrawFour or draw 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fixedState([][]models.Card{{tt.card}, {red(1)}}, tt.top, nil)
			if tt.color != models.ColorNone {
				s.CurrentColor = tt.color
				s.DiscardPile[0].Color = tt.color
			}
			s.StackedDrawCount = tt.stack
			s.StackKind = tt.kind

			err := CanPlay(tt.card, &s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrIllegalPlay)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyEffectPanicsOnColorlessWild(t *testing.T) {
	s := fixedState([][]models.Card{{red(1)}, {red(2)}}, red(7), nil)
	assert.Panics(t, func() {
		applyEffect(&s, wild(models.KindWild), models.ColorNone)
	})
	assert.Panics(t, func() {
		applyEffect(&s, wild(models.KindWildDrawFour), models.Color(0xFF))
	})
}

func TestApplyFirstCardEffect(t *testing.T) {
	hands := func(n int) [][]models.Card {
		out := make([][]models.Card, n)
		for i := range out {
			out[i] = []models.Card{red(i)}
		}
		return out
	}

	t.Run("skip", func(t *testing.T) {
		card := action(models.ColorRed, models.KindSkip)
		s := fixedState(hands(3), card, nil)
		applyFirstCardEffect(&s, card)
		assert.Equal(t, 1, s.CurrentPlayerIndex)
		assert.Equal(t, models.ColorRed, s.CurrentColor)
	})
	t.Run("reverse", func(t *testing.T) {
		card := action(models.ColorBlue, models.KindReverse)
		s := fixedState(hands(4), card, nil)
		applyFirstCardEffect(&s, card)
		assert.Equal(t, CounterClockwise, s.Direction)
		assert.Equal(t, 3, s.CurrentPlayerIndex)
	})
	t.Run("reverse two players", func(t *testing.T) {
		card := action(models.ColorBlue, models.KindReverse)
		s := fixedState(hands(2), card, nil)
		applyFirstCardEffect(&s, card)
		assert.Equal(t, CounterClockwise, s.Direction)
		assert.Equal(t, 1, s.CurrentPlayerIndex)
	})
	t.Run("draw two", func(t *testing.T) {
		card := action(models.ColorGreen, models.KindDrawTwo)
		s := fixedState(hands(3), card, nil)
		applyFirstCardEffect(&s, card)
		assert.Equal(t, 0, s.CurrentPlayerIndex)
		assert.Equal(t, 2, s.StackedDrawCount)
		assert.Equal(t, StackDrawTwo, s.StackKind)
	})
	t.Run("wild", func(t *testing.T) {
		card := wild(models.KindWild)
		s := fixedState(hands(3), card, nil)
		applyFirstCardEffect(&s, card)
		assert.Equal(t, 0, s.CurrentPlayerIndex)
		assert.True(t, s.AwaitingColorChoice)
		assert.True(t, s.OpeningColorChoice)
		assert.Equal(t, models.ColorNone, s.CurrentColor)
	})
	t.Run("number", func(t *testing.T) {
		card := yellow(4)
		s := fixedState(hands(3), card, nil)
		applyFirstCardEffect(&s, card)
		assert.Equal(t, 0, s.CurrentPlayerIndex)
		assert.Equal(t, Clockwise, s.Direction)
		assert.Equal(t, models.ColorYellow, s.CurrentColor)
	})
}

func TestRulesUpdate(t *testing.T) {
	r := DefaultRules()
	err := r.Update(map[string]interface{}{
		"targetScore":   float64(300),
		"catchWindowMs": float64(1500),
	})
	require.NoError(t, err)
	assert.Equal(t, 300, r.TargetScore)
	assert.Equal(t, 1500*time.Millisecond, r.CatchWindow)
	assert.Equal(t, 7, r.HandSize, "untouched keys keep their value")
	assert.Equal(t, 4, r.CatchPenalty)
}

func TestRulesUpdateRejectsBadValues(t *testing.T) {
	for _, in := range []map[string]interface{}{
		{"targetScore": "lots"},
		{"handSize": float64(0)},
		{"catchPenalty": float64(-1)},
		{"handSize": float64(1e18)},
		{"handSize": float64(DeckSize)},
		{"catchWindowMs": float64(1e18)},
		{"targetScore": float64(1e30)},
	} {
		t.Run(fmt.Sprint(in), func(t *testing.T) {
			r, err := ParseRules(in, DefaultRules())
			assert.Error(t, err)
			assert.Equal(t, DefaultRules(), r, "a rejected value is not applied")
		})
	}
}
