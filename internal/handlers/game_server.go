// internal/handlers/game_server.go
package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/auth"
	"github.com/jason-s-yu/lastcard/internal/game"
	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/sirupsen/logrus"
)

// ResultRecorder persists the outcome of a finished game.
type ResultRecorder interface {
	RecordGameResult(ctx context.Context, gameID, winner uuid.UUID, rounds int, finalScores map[uuid.UUID]int) error
}

// GameServer holds the live rooms and the collaborators every room is wired to.
type GameServer struct {
	RoomStore *game.RoomStore
	Signer    *auth.Signer
	Rules     game.Rules
	Logger    *logrus.Logger

	// Publisher and Results are optional; nil disables the historian feed
	// and result persistence respectively.
	Publisher game.ActionPublisher
	Results   ResultRecorder

	// NewEngine builds the engine for each room.
	NewEngine func(rules game.Rules) *game.Engine

	hubsMu sync.Mutex
	hubs   map[uuid.UUID]*roomHub
}

func NewGameServer(logger *logrus.Logger, signer *auth.Signer, rules game.Rules) *GameServer {
	return &GameServer{
		RoomStore: game.NewRoomStore(),
		Signer:    signer,
		Rules:     rules,
		Logger:    logger,
		NewEngine: game.NewEngine,
		hubs:      make(map[uuid.UUID]*roomHub),
	}
}

// SeatInfo is a created seat together with the token that claims it.
type SeatInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Token string    `json:"token"`
}

// CreateRoom seats roster under rules, registers the room and issues one
// seat token per player.
func (gs *GameServer) CreateRoom(roster []models.RosterEntry, rules game.Rules) (*game.Room, []SeatInfo, error) {
	room, err := game.NewRoom(gs.NewEngine(rules), roster, gs.Logger)
	if err != nil {
		return nil, nil, err
	}

	seats := make([]SeatInfo, 0, len(roster))
	for _, entry := range roster {
		token, err := gs.Signer.IssueSeatToken(room.ID, entry.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("issue seat token: %w", err)
		}
		seats = append(seats, SeatInfo{ID: entry.ID, Name: entry.Name, Token: token})
	}

	hub := newRoomHub(room.ID, gs.Logger)
	room.BroadcastFn = hub.broadcast
	room.BroadcastToPlayerFn = hub.sendTo
	room.Publisher = gs.Publisher
	room.OnGameEnd = gs.onGameEnd

	gs.hubsMu.Lock()
	gs.hubs[room.ID] = hub
	gs.hubsMu.Unlock()
	gs.RoomStore.AddRoom(room)
	return room, seats, nil
}

// onGameEnd runs with the room locked, so persistence happens in the background.
func (gs *GameServer) onGameEnd(roomID, winner uuid.UUID, rounds int, scores map[uuid.UUID]int) {
	gs.Logger.WithFields(logrus.Fields{"room": roomID, "winner": winner, "rounds": rounds}).Info("game finished")
	if gs.Results == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := gs.Results.RecordGameResult(ctx, roomID, winner, rounds, scores); err != nil {
			gs.Logger.WithField("room", roomID).Errorf("failed to record game result: %v", err)
		}
	}()
}

func (gs *GameServer) hub(roomID uuid.UUID) *roomHub {
	gs.hubsMu.Lock()
	defer gs.hubsMu.Unlock()
	return gs.hubs[roomID]
}

// CleanupIdle drops finished or idle rooms and closes their connections.
func (gs *GameServer) CleanupIdle(now time.Time, ttl time.Duration) []uuid.UUID {
	removed := gs.RoomStore.CleanupIdle(now, ttl)
	for _, id := range removed {
		gs.hubsMu.Lock()
		hub := gs.hubs[id]
		delete(gs.hubs, id)
		gs.hubsMu.Unlock()
		if hub != nil {
			hub.closeAll()
		}
		gs.Logger.WithField("room", id).Info("room removed")
	}
	return removed
}

// RunCleanup calls CleanupIdle every interval until ctx is done.
func (gs *GameServer) RunCleanup(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			gs.CleanupIdle(now, ttl)
		}
	}
}
