// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/game"
	"github.com/jason-s-yu/lastcard/internal/middleware"
	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/sirupsen/logrus"
)

// GameMessage is an incoming WebSocket message. Type is one of the
// models.Action* names or "ping".
type GameMessage struct {
	Type     string       `json:"type"`
	CardID   uuid.UUID    `json:"card_id,omitempty"`
	Color    models.Color `json:"color,omitempty"`
	TargetID uuid.UUID    `json:"target_id,omitempty"`
}

// actionResult is the direct reply to the sender of an action.
type actionResult struct {
	Type   string `json:"type"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// GameWSHandler upgrades the HTTP connection to WebSocket for one seat in a
// room: /room/ws/{room_id}. The seat token must have been issued for that room.
func GameWSHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
		if err != nil {
			http.Error(w, "invalid room_id format", http.StatusBadRequest)
			return
		}
		room, ok := gs.RoomStore.GetRoom(roomID)
		if !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		hub := gs.hub(roomID)
		if hub == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		tokenRoom, playerID, err := gs.Signer.VerifySeatToken(requestToken(r))
		if err != nil {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}
		if tokenRoom != roomID || !room.HasPlayer(playerID) {
			http.Error(w, "token is not valid for this room", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			gs.Logger.Warnf("WebSocket accept error for room %s: %v", roomID, err)
			return
		}
		if c.Subprotocol() != "game" {
			c.Close(websocket.StatusCode(BadSubprotocolError), "client must use the 'game' subprotocol")
			return
		}
		middleware.LogWebSocketConnect(gs.Logger, r.RemoteAddr, r.URL.Path)

		cl := newClient(playerID, c)
		hub.attach(cl)
		room.HandleReconnect(playerID)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		err = readGameMessages(ctx, cl, room, hub, gs.Logger.WithFields(logrus.Fields{"room": roomID, "player": playerID}))

		if hub.detach(cl) {
			room.HandleDisconnect(playerID)
		}
		cl.close(websocket.StatusNormalClosure, "")
		middleware.LogWebSocketDisconnect(gs.Logger, r.RemoteAddr, r.URL.Path, err)
	}
}

// readGameMessages reads actions from one client and runs them against the
// room until the connection fails or ctx is cancelled.
func readGameMessages(ctx context.Context, cl *client, room *game.Room, hub *roomHub, logger logrus.FieldLogger) error {
	for {
		msgType, data, err := cl.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			logger.Warnf("ignoring non-text message type %d", msgType)
			continue
		}

		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("invalid JSON received: %v", err)
			sendJSON(hub, cl.playerID, actionResult{Type: "action_result", Reason: "invalid_json", Detail: err.Error()})
			continue
		}
		if msg.Type == "ping" {
			sendJSON(hub, cl.playerID, map[string]string{"type": "pong"})
			continue
		}

		logger.Debugf("received action %q", msg.Type)
		res := room.HandleAction(cl.playerID, models.GameAction{
			ActionType: msg.Type,
			CardID:     msg.CardID,
			Color:      msg.Color,
			TargetID:   msg.TargetID,
		})
		sendJSON(hub, cl.playerID, actionResult{
			Type:   "action_result",
			OK:     res.OK,
			Reason: res.Reason,
			Detail: res.Detail,
		})
	}
}

func sendJSON(hub *roomHub, playerID uuid.UUID, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		hub.logger.Errorf("failed to marshal message: %v", err)
		return
	}
	hub.sendRaw(playerID, data)
}
