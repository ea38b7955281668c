// internal/handlers/room.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/game"
	"github.com/jason-s-yu/lastcard/internal/models"
)

const (
	maxPlayers    = 10
	maxNameLength = 24
)

type createRoomRequest struct {
	Players []struct {
		Name string `json:"name"`
	} `json:"players"`
	TargetScore int                    `json:"targetScore,omitempty"`
	Rules       map[string]interface{} `json:"rules,omitempty"`
}

type createRoomResponse struct {
	RoomID  uuid.UUID  `json:"room_id"`
	Players []SeatInfo `json:"players"`
}

// CreateRoomHandler seats the requested players in a new room and returns
// one seat token per player.
func CreateRoomHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "bad room request payload", http.StatusBadRequest)
			return
		}
		if len(req.Players) < 2 || len(req.Players) > maxPlayers {
			http.Error(w, "a room needs between 2 and 10 players", http.StatusBadRequest)
			return
		}

		roster := make([]models.RosterEntry, 0, len(req.Players))
		for _, p := range req.Players {
			name := strings.TrimSpace(p.Name)
			if name == "" || len(name) > maxNameLength {
				http.Error(w, "player names must be 1-24 characters", http.StatusBadRequest)
				return
			}
			roster = append(roster, models.RosterEntry{ID: uuid.New(), Name: name})
		}

		rules, err := game.ParseRules(req.Rules, gs.Rules)
		if err != nil {
			http.Error(w, "invalid rules: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.TargetScore > 0 {
			rules.TargetScore = req.TargetScore
		}

		room, seats, err := gs.CreateRoom(roster, rules)
		if err != nil {
			if errors.Is(err, game.ErrTooManyPlayers) || errors.Is(err, game.ErrNotEnoughPlayers) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			gs.Logger.Errorf("failed to create room: %v", err)
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, createRoomResponse{RoomID: room.ID, Players: seats})
	}
}

type roomSummary struct {
	RoomID    uuid.UUID         `json:"room_id"`
	Phase     game.Phase        `json:"phase"`
	Round     int               `json:"round"`
	CreatedAt time.Time         `json:"created_at"`
	Players   []game.ViewPlayer `json:"players"`
}

// ListRoomsHandler returns the live rooms with public seat information only.
func ListRoomsHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rooms := gs.RoomStore.ListRooms()
		out := make([]roomSummary, 0, len(rooms))
		for _, room := range rooms {
			// uuid.Nil holds no seat, so no hand is revealed
			v := room.ViewFor(uuid.Nil)
			out = append(out, roomSummary{
				RoomID:    room.ID,
				Phase:     v.Phase,
				Round:     v.RoundNumber,
				CreatedAt: room.CreatedAt,
				Players:   v.Players,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
