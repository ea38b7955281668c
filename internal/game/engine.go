// internal/game/engine.go
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/models"
)

// ErrNotEnoughPlayers is returned when a roster cannot fill a game.
var ErrNotEnoughPlayers = errors.New("a game needs at least two players")

// ErrTooManyPlayers is returned when a roster cannot be dealt from one deck.
var ErrTooManyPlayers = errors.New("too many players for one deck")

// Engine runs state transitions. It holds the only sources of
// non-determinism, randomness and time, so tests can pin both.
type Engine struct {
	Rand  *rand.Rand
	Clock Clock
	Rules Rules
}

// NewEngine returns an engine with a time-seeded shuffle source and the system clock.
func NewEngine(rules Rules) *Engine {
	return &Engine{
		Rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		Clock: SystemClock,
		Rules: rules,
	}
}

// StartGame seats the roster and deals round 1.
func (e *Engine) StartGame(roster []models.RosterEntry) (GameState, GameEvent, error) {
	if len(roster) < 2 {
		return GameState{}, GameEvent{}, ErrNotEnoughPlayers
	}
	if e.Rules.HandSize > (DeckSize-1)/len(roster) {
		return GameState{}, GameEvent{}, fmt.Errorf("%w: %d players with %d cards each", ErrTooManyPlayers, len(roster), e.Rules.HandSize)
	}
	s := GameState{
		ID:          uuid.New(),
		Phase:       PhaseStarting,
		TargetScore: e.Rules.TargetScore,
		Players:     make([]models.Player, len(roster)),
	}
	for i, entry := range roster {
		s.Players[i] = models.NewPlayer(entry)
	}
	return e.dealRound(s)
}

// StartNextRound deals a fresh round once the previous one has been scored.
func (e *Engine) StartNextRound(s GameState) (GameState, GameEvent, error) {
	if s.Phase != PhaseRoundEnd {
		return s, GameEvent{}, fmt.Errorf("%w: next round can only start after a round ends", ErrWrongPhase)
	}
	return e.dealRound(s.Clone())
}

// dealRound rebuilds the deck, hands and piles on s and flips the starting card.
func (e *Engine) dealRound(s GameState) (GameState, GameEvent, error) {
	s.RoundNumber++
	s.Phase = PhaseStarting

	deck := BuildDeck()
	Shuffle(e.Rand, deck)
	hands, deck := DealHands(deck, len(s.Players), e.Rules.HandSize)
	for i := range s.Players {
		s.Players[i].Hand = hands[i]
		s.Players[i].CalledLastCard = false
	}

	start, deck, err := PickStartingCard(e.Rand, deck)
	if err != nil {
		return s, GameEvent{}, err
	}
	s.DrawPile = deck
	s.DiscardPile = []models.Card{start}

	s.CurrentPlayerIndex = 0
	s.Direction = Clockwise
	s.StackedDrawCount = 0
	s.StackKind = StackNone
	s.SkipNextPlayer = false
	s.AwaitingColorChoice = false
	s.OpeningColorChoice = false
	s.DrawnCardID = uuid.Nil
	s.CatchWindow = nil
	s.RoundWinnerID = uuid.Nil
	applyFirstCardEffect(&s, start)
	s.Phase = PhasePlaying

	first := s.CurrentPlayer()
	ev := GameEvent{
		Type:        EventRoundStart,
		User:        eventUser(first.ID),
		Card:        buildEventCard(start),
		Description: fmt.Sprintf("Round %d begins with %s; %s plays first", s.RoundNumber, start, first.DisplayName),
		Payload: map[string]interface{}{
			"round": s.RoundNumber,
		},
	}
	s.record(ev)
	return s, ev, nil
}

// advanceTurn moves play one seat in the current direction, a second seat if
// a skip is pending, and clears the new player's standing declaration.
func (s *GameState) advanceTurn() {
	next := s.nextIndex(s.CurrentPlayerIndex, 1)
	if s.SkipNextPlayer {
		next = s.nextIndex(next, 1)
		s.SkipNextPlayer = false
	}
	s.CurrentPlayerIndex = next
	s.Players[next].CalledLastCard = false
	s.DrawnCardID = uuid.Nil
}

// endRound scores the round won by the seat winnerIndex and moves to
// RoundEnd or GameOver.
func (s *GameState) endRound(winnerIndex int) GameEvent {
	roundScores := ScoreRound(s.Players, winnerIndex)
	winner := s.Players[winnerIndex]

	s.RoundWinnerID = winner.ID
	s.StackedDrawCount = 0
	s.StackKind = StackNone
	s.SkipNextPlayer = false
	s.AwaitingColorChoice = false
	s.OpeningColorChoice = false
	s.DrawnCardID = uuid.Nil
	s.CatchWindow = nil

	totals := make(map[string]int, len(s.Players))
	round := make(map[string]int, len(s.Players))
	for i, p := range s.Players {
		totals[p.ID.String()] = p.Score
		round[p.ID.String()] = roundScores[i]
	}
	ev := GameEvent{
		Type:        EventRoundEnd,
		User:        eventUser(winner.ID),
		Description: fmt.Sprintf("%s wins round %d for %d points", winner.DisplayName, s.RoundNumber, roundScores[winnerIndex]),
		Payload: map[string]interface{}{
			"round":       s.RoundNumber,
			"roundScores": round,
			"scores":      totals,
		},
	}

	if idx, over := CheckGameOver(s.Players, s.TargetScore); over {
		s.Phase = PhaseGameOver
		s.WinnerID = s.Players[idx].ID
		ev.Type = EventGameOver
		ev.Description += fmt.Sprintf("; %s wins the game with %d", s.Players[idx].DisplayName, s.Players[idx].Score)
		ev.Payload["winner"] = s.WinnerID.String()
		return ev
	}
	s.Phase = PhaseRoundEnd
	return ev
}

func (s *GameState) record(ev GameEvent) {
	stored := ev
	s.LastEvent = &stored
}
