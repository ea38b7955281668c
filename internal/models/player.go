package models

import "github.com/google/uuid"

// RosterEntry is one seat handed to the engine by the room collaborator at round start.
type RosterEntry struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Player is a seat in a running game. Hand is rebuilt every round; Score
// carries across rounds. Connected is owned by the transport layer.
type Player struct {
	ID             uuid.UUID `json:"id"`
	DisplayName    string    `json:"displayName"`
	Hand           []Card    `json:"hand"`
	Score          int       `json:"score"`
	Connected      bool      `json:"connected"`
	CalledLastCard bool      `json:"calledLastCard"`
}

// NewPlayer seats a roster entry with an empty hand.
func NewPlayer(entry RosterEntry) Player {
	return Player{
		ID:          entry.ID,
		DisplayName: entry.Name,
		Hand:        []Card{},
		Connected:   true,
	}
}

// CardIndex returns the position of cardID in the hand, or -1.
func (p *Player) CardIndex(cardID uuid.UUID) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// HandPoints sums the point value of every card still held.
func (p *Player) HandPoints() int {
	total := 0
	for _, c := range p.Hand {
		total += c.Points()
	}
	return total
}
