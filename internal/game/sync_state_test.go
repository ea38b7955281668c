package game

import (
	"testing"
	"time"

	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewRedactsOtherHands(t *testing.T) {
	drawn := red(9)
	s := fixedState([][]models.Card{{red(1), drawn}, {blue(1), blue(2), blue(3)}}, red(5), []models.Card{green(1), green(2)})
	s.DrawnCardID = drawn.ID
	s.CatchWindow = &CatchWindow{TargetPlayerID: pid(s, 1), ExpiresAt: t0.Add(time.Second)}

	own := View(&s, pid(s, 0))
	require.Len(t, own.Players, 2)
	assert.Len(t, own.Players[0].Hand, 2)
	assert.Nil(t, own.Players[1].Hand)
	assert.Equal(t, 3, own.Players[1].HandSize)
	assert.Equal(t, 2, own.DrawPileSize)
	assert.Equal(t, 1, own.DiscardPileSize)
	require.NotNil(t, own.DiscardTop)
	assert.Equal(t, 5, own.DiscardTop.Value)
	require.NotNil(t, own.DrawnCardID)
	assert.Equal(t, drawn.ID, *own.DrawnCardID)
	assert.Equal(t, pid(s, 0), own.CurrentPlayerID)
	assert.True(t, own.Players[0].IsCurrentTurn)
	require.NotNil(t, own.CatchTargetID)
	assert.Equal(t, pid(s, 1), *own.CatchTargetID)

	other := View(&s, pid(s, 1))
	assert.Nil(t, other.Players[0].Hand)
	assert.Len(t, other.Players[1].Hand, 3)
	assert.Nil(t, other.DrawnCardID, "drawn card is private to the drawer")
}

func TestViewHandIsACopy(t *testing.T) {
	s := fixedState([][]models.Card{{red(1)}, {blue(1)}}, red(5), nil)
	v := View(&s, pid(s, 0))
	v.Players[0].Hand[0].Value = 8
	assert.Equal(t, 1, s.Players[0].Hand[0].Value)
}
