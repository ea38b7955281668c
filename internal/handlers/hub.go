package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/game"
	"github.com/sirupsen/logrus"
)

const (
	sendBufferSize = 64
	writeTimeout   = 3 * time.Second
)

// client is one player's socket. Every outbound message goes through send so
// that a player sees events in the order the room produced them.
type client struct {
	playerID uuid.UUID
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	once     sync.Once
}

func newClient(playerID uuid.UUID, conn *websocket.Conn) *client {
	return &client{
		playerID: playerID,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// enqueue queues data without blocking. A client that cannot keep up is closed.
func (c *client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		// closing waits on the close handshake; callers may hold the room lock
		go c.close(websocket.StatusPolicyViolation, "too slow")
		return false
	}
}

func (c *client) close(code websocket.StatusCode, reason string) {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close(code, reason)
	})
}

// writePump drains send until the client is closed.
func (c *client) writePump(logger logrus.FieldLogger) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := c.conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.WithField("player", c.playerID).Warnf("failed to write message: %v", err)
				c.close(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}

// roomHub maps a room's players to their live sockets.
type roomHub struct {
	roomID uuid.UUID
	logger logrus.FieldLogger

	mu      sync.Mutex
	clients map[uuid.UUID]*client
}

func newRoomHub(roomID uuid.UUID, logger logrus.FieldLogger) *roomHub {
	return &roomHub{
		roomID:  roomID,
		logger:  logger.WithField("room", roomID),
		clients: make(map[uuid.UUID]*client),
	}
}

// attach registers c for its player, closing any socket it replaces.
func (h *roomHub) attach(c *client) {
	h.mu.Lock()
	prev := h.clients[c.playerID]
	h.clients[c.playerID] = c
	h.mu.Unlock()
	if prev != nil {
		prev.close(websocket.StatusPolicyViolation, "replaced by a newer connection")
	}
	go c.writePump(h.logger)
}

// detach removes c if it is still the player's current socket.
func (h *roomHub) detach(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.playerID] != c {
		return false
	}
	delete(h.clients, c.playerID)
	return true
}

func (h *roomHub) broadcast(ev game.GameEvent) {
	data := game.EncodeEvent(ev)
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		c.enqueue(data)
	}
}

func (h *roomHub) sendTo(playerID uuid.UUID, ev game.GameEvent) {
	h.sendRaw(playerID, game.EncodeEvent(ev))
}

func (h *roomHub) sendRaw(playerID uuid.UUID, data []byte) {
	h.mu.Lock()
	c := h.clients[playerID]
	h.mu.Unlock()
	if c != nil {
		c.enqueue(data)
	}
}

func (h *roomHub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[uuid.UUID]*client)
	h.mu.Unlock()
	for _, c := range clients {
		c.close(websocket.StatusCode(RoomClosedError), "room closed")
	}
}
