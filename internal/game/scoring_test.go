package game

import (
	"fmt"
	"testing"

	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestScoreRound(t *testing.T) {
	players := []models.Player{
		{Hand: nil, Score: 10},
		{Hand: []models.Card{action(models.ColorBlue, models.KindSkip), green(5)}},
		{Hand: []models.Card{wild(models.KindWildDrawFour), yellow(9), red(0)}},
	}
	round := ScoreRound(players, 0)

	assert.Equal(t, []int{84, 0, 0}, round)
	assert.Equal(t, 94, players[0].Score)
	assert.Equal(t, 0, players[1].Score)
}

func TestCheckGameOverFirstSeatWins(t *testing.T) {
	players := []models.Player{{Score: 120}, {Score: 510}, {Score: 600}}
	idx, over := CheckGameOver(players, 500)
	assert.True(t, over)
	assert.Equal(t, 1, idx)

	_, over = CheckGameOver([]models.Player{{Score: 499}, {Score: 0}}, 500)
	assert.False(t, over)
}

func TestReasonCode(t *testing.T) {
	assert.Equal(t, "illegal_play", ReasonCode(fmt.Errorf("%w: must match color Red", ErrIllegalPlay)))
	assert.Equal(t, "catch_window_absent_or_mismatched", ReasonCode(ErrCatchWindowAbsent))
	assert.Equal(t, "internal_error", ReasonCode(ErrNoStartingCard))
	assert.True(t, IsRejection(ErrNotYourTurn))
	assert.False(t, IsRejection(ErrTooManyPlayers))
}
