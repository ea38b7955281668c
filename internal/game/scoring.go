package game

import "github.com/jason-s-yu/lastcard/internal/models"

// ScoreRound credits the winner with the points left in every other hand
// and returns each seat's score for the round. Totals in players are
// updated in place; callers pass a cloned slice.
func ScoreRound(players []models.Player, winnerIndex int) []int {
	round := make([]int, len(players))
	for i := range players {
		if i == winnerIndex {
			continue
		}
		round[winnerIndex] += players[i].HandPoints()
	}
	for i := range players {
		players[i].Score += round[i]
	}
	return round
}

// CheckGameOver returns the first seat, in seating order, whose total has
// reached targetScore. ok is false while nobody has.
func CheckGameOver(players []models.Player, targetScore int) (winnerIndex int, ok bool) {
	for i, p := range players {
		if p.Score >= targetScore {
			return i, true
		}
	}
	return -1, false
}
