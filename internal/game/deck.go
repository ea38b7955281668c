// internal/game/deck.go
package game

import (
	"errors"
	"math/rand"

	"github.com/jason-s-yu/lastcard/internal/models"
)

// DeckSize is the number of cards in a full deck. Piles plus hands always sum to it.
const DeckSize = 108

// ErrNoStartingCard is returned when a deck holds no card that may open a round.
var ErrNoStartingCard = errors.New("deck has no valid starting card")

// BuildDeck returns the 108 card set in a fixed order: for each color one 0,
// two of each 1-9, two each of Skip, Reverse and DrawTwo; then four Wild and
// four WildDrawFour.
func BuildDeck() []models.Card {
	deck := make([]models.Card, 0, DeckSize)
	for _, color := range models.Colors {
		deck = append(deck, models.NewNumberCard(color, 0))
		for v := 1; v <= 9; v++ {
			deck = append(deck, models.NewNumberCard(color, v), models.NewNumberCard(color, v))
		}
		for _, kind := range []models.Kind{models.KindSkip, models.KindReverse, models.KindDrawTwo} {
			deck = append(deck, models.NewActionCard(color, kind), models.NewActionCard(color, kind))
		}
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, models.NewWildCard(models.KindWild))
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, models.NewWildCard(models.KindWildDrawFour))
	}
	return deck
}

// Shuffle permutes cards in place with Fisher-Yates.
func Shuffle(r *rand.Rand, cards []models.Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// DealHands deals perPlayer cards to each of playerCount hands, one card per
// player per pass, taking from the top (end) of deck. It returns the hands and
// what is left of the deck. Dealing stops early if the deck runs out.
func DealHands(deck []models.Card, playerCount, perPlayer int) ([][]models.Card, []models.Card) {
	hands := make([][]models.Card, playerCount)
	for i := range hands {
		hands[i] = make([]models.Card, 0, perPlayer)
	}
	for pass := 0; pass < perPlayer; pass++ {
		for p := 0; p < playerCount; p++ {
			if len(deck) == 0 {
				return hands, deck
			}
			top := len(deck) - 1
			hands[p] = append(hands[p], deck[top])
			deck = deck[:top]
		}
	}
	return hands, deck
}

// DrawResult is the outcome of DrawCards.
type DrawResult struct {
	Cards       []models.Card
	DrawPile    []models.Card
	DiscardPile []models.Card
	// Reshuffles counts how many times the discard pile was recycled.
	Reshuffles int
	// Exhausted is set when fewer cards than requested were available.
	Exhausted bool
}

// DrawCards pops up to n cards off the top of drawPile. Whenever the draw
// pile runs dry the discard pile, minus its top card, is reshuffled into a new
// draw pile. When even that yields nothing the draw stops short and the
// result is marked Exhausted. The input slices may be reused.
func DrawCards(r *rand.Rand, drawPile, discardPile []models.Card, n int) DrawResult {
	res := DrawResult{Cards: make([]models.Card, 0, n), DrawPile: drawPile, DiscardPile: discardPile}
	for len(res.Cards) < n {
		if len(res.DrawPile) == 0 {
			res.DrawPile, res.DiscardPile = Reshuffle(r, res.DiscardPile)
			if len(res.DrawPile) == 0 {
				res.Exhausted = true
				break
			}
			res.Reshuffles++
		}
		top := len(res.DrawPile) - 1
		res.Cards = append(res.Cards, res.DrawPile[top])
		res.DrawPile = res.DrawPile[:top]
	}
	return res
}

// Reshuffle turns every discard except the top one into a fresh, shuffled
// draw pile with wild colors cleared. A discard pile of one card or fewer
// yields an empty draw pile and is returned unchanged.
func Reshuffle(r *rand.Rand, discardPile []models.Card) (drawPile, discard []models.Card) {
	if len(discardPile) <= 1 {
		return nil, discardPile
	}
	top := discardPile[len(discardPile)-1]
	drawPile = make([]models.Card, len(discardPile)-1)
	copy(drawPile, discardPile[:len(discardPile)-1])
	for i := range drawPile {
		if drawPile[i].IsWild() {
			drawPile[i].Color = models.ColorNone
		}
	}
	Shuffle(r, drawPile)
	return drawPile, []models.Card{top}
}

// PickStartingCard pops the top card to open the discard pile. A
// WildDrawFour is put back at the bottom and the deck reshuffled until some
// other card comes up.
func PickStartingCard(r *rand.Rand, deck []models.Card) (models.Card, []models.Card, error) {
	playable := false
	for _, c := range deck {
		if c.Kind != models.KindWildDrawFour {
			playable = true
			break
		}
	}
	if !playable {
		return models.Card{}, deck, ErrNoStartingCard
	}
	for {
		top := deck[len(deck)-1]
		if top.Kind != models.KindWildDrawFour {
			return top, deck[:len(deck)-1], nil
		}
		rest := deck[:len(deck)-1]
		next := make([]models.Card, 0, len(deck))
		next = append(next, top)
		next = append(next, rest...)
		deck = next
		Shuffle(r, deck)
	}
}
