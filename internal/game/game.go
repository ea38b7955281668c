// internal/game/game.go
package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/cache"
	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/sirupsen/logrus"
)

// OnGameEndFunc handles a finished game, e.g. recording results. It runs
// with the room locked and must not call back into the room.
type OnGameEndFunc func(roomID uuid.UUID, winner uuid.UUID, rounds int, scores map[uuid.UUID]int)

// ActionPublisher receives a record of every accepted action.
type ActionPublisher interface {
	PublishGameAction(ctx context.Context, record cache.GameActionRecord) error
}

// ActionResult is what the transport reports back to the acting player.
type ActionResult struct {
	OK     bool       `json:"ok"`
	Event  *GameEvent `json:"event,omitempty"`
	Reason string     `json:"reason,omitempty"`
	Detail string     `json:"detail,omitempty"`
}

// Room owns one game's state and serializes every action against it. At
// most one action runs at a time; all of them complete synchronously while
// Mu is held.
type Room struct {
	ID        uuid.UUID
	Roster    []models.RosterEntry
	CreatedAt time.Time

	Mu           sync.Mutex
	engine       *Engine
	state        GameState
	lastActivity time.Time
	actionIndex  int

	// BroadcastFn sends a public event to every connected player. If nil, no broadcast is done.
	BroadcastFn func(ev GameEvent)

	// BroadcastToPlayerFn sends an event to a single player.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)

	// OnGameEnd is invoked once when the game reaches GameOver.
	OnGameEnd OnGameEndFunc

	// Publisher, when set, receives every accepted action for the historian.
	Publisher ActionPublisher

	Logger logrus.FieldLogger
}

// NewRoom seats roster and deals the first round.
func NewRoom(engine *Engine, roster []models.RosterEntry, logger logrus.FieldLogger) (*Room, error) {
	st, ev, err := engine.StartGame(roster)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	now := engine.Clock.Now()
	r := &Room{
		ID:           st.ID,
		Roster:       append([]models.RosterEntry(nil), roster...),
		CreatedAt:    now,
		engine:       engine,
		state:        st,
		lastActivity: now,
		Logger:       logger.WithField("room", st.ID),
	}
	r.logAction(uuid.Nil, string(ev.Type), map[string]interface{}{"round": st.RoundNumber})
	r.Logger.WithField("players", len(roster)).Info("room created")
	return r, nil
}

// HandleAction runs one player action against the room and reports the outcome.
func (r *Room) HandleAction(playerID uuid.UUID, action models.GameAction) ActionResult {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	var (
		next GameState
		ev   GameEvent
		err  error
	)
	e := r.engine
	switch action.ActionType {
	case models.ActionPlay:
		next, ev, err = e.PlayCard(r.state, playerID, action.CardID, action.Color)
	case models.ActionChooseColor:
		next, ev, err = e.ChooseColor(r.state, playerID, action.Color)
	case models.ActionDraw:
		next, ev, err = e.Draw(r.state, playerID)
	case models.ActionPass:
		next, ev, err = e.PassDrawnCard(r.state, playerID)
	case models.ActionLastCard:
		next, ev, err = e.DeclareLastCard(r.state, playerID)
	case models.ActionCatch:
		next, ev, err = e.Catch(r.state, playerID, action.TargetID)
	case models.ActionNextRound:
		next, ev, err = e.StartNextRound(r.state)
	default:
		next, err = r.state, ErrUnknownAction
	}

	log := r.Logger.WithFields(logrus.Fields{
		"player": playerID,
		"action": action.ActionType,
	})

	if err != nil {
		if errors.Is(err, ErrCatchWindowExpired) {
			// the expired window closes even though the catch is refused
			r.state = next
			r.fireEvent(ev)
			r.broadcastSyncStateToAll()
		}
		log.WithField("reason", ReasonCode(err)).Debugf("action rejected: %v", err)
		return ActionResult{OK: false, Reason: ReasonCode(err), Detail: err.Error()}
	}

	wasOver := r.state.Phase == PhaseGameOver
	r.state = next
	r.lastActivity = e.Clock.Now()
	log.WithField("event", ev.Type).Info(ev.Description)

	r.logAction(playerID, action.ActionType, map[string]interface{}{
		"event":       ev.Type,
		"description": ev.Description,
		"cardId":      action.CardID,
		"targetId":    action.TargetID,
	})
	if ev.reshuffles > 0 {
		r.fireEvent(reshuffleEvent(ev.reshuffles))
	}
	r.fireEvent(ev)
	r.broadcastSyncStateToAll()

	if next.Phase == PhaseGameOver && !wasOver {
		r.finishGame()
	}
	return ActionResult{OK: true, Event: &ev}
}

// finishGame publishes the result and notifies OnGameEnd. Assumes lock is held.
func (r *Room) finishGame() {
	scores := make(map[uuid.UUID]int, len(r.state.Players))
	logScores := make(map[string]int, len(r.state.Players))
	for _, p := range r.state.Players {
		scores[p.ID] = p.Score
		logScores[p.ID.String()] = p.Score
	}
	r.logAction(uuid.Nil, cache.ActionGameOver, map[string]interface{}{
		"winner": r.state.WinnerID,
		"scores": logScores,
		"rounds": r.state.RoundNumber,
	})
	r.Logger.WithField("winner", r.state.WinnerID).Info("game over")
	if r.OnGameEnd != nil {
		r.OnGameEnd(r.ID, r.state.WinnerID, r.state.RoundNumber, scores)
	}
}

// HandleDisconnect marks a player as disconnected. Hands and piles are untouched.
func (r *Room) HandleDisconnect(playerID uuid.UUID) {
	r.setConnected(playerID, false)
}

// HandleReconnect marks a player as connected again and sends them the current view.
func (r *Room) HandleReconnect(playerID uuid.UUID) bool {
	if !r.setConnected(playerID, true) {
		return false
	}
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.sendSyncState(playerID)
	return true
}

func (r *Room) setConnected(playerID uuid.UUID, connected bool) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	next, ok := SetConnected(r.state, playerID, connected)
	if !ok {
		r.Logger.WithField("player", playerID).Warn("connection change for unknown player")
		return false
	}
	r.state = next
	r.lastActivity = r.engine.Clock.Now()
	kind := "player_disconnect"
	if connected {
		kind = "player_reconnect"
	}
	r.logAction(playerID, kind, nil)
	r.fireEvent(GameEvent{
		Type:        EventPlayerConnection,
		User:        eventUser(playerID),
		Description: kind,
		Payload:     map[string]interface{}{"connected": connected},
	})
	return true
}

// HasPlayer reports whether playerID holds a seat in this room.
func (r *Room) HasPlayer(playerID uuid.UUID) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.state.PlayerIndex(playerID) >= 0
}

// State returns a copy of the authoritative state.
func (r *Room) State() GameState {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.state.Clone()
}

// ViewFor returns the redacted view for playerID.
func (r *Room) ViewFor(playerID uuid.UUID) GameView {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return View(&r.state, playerID)
}

// Activity returns the room's phase and the time of its last accepted action.
func (r *Room) Activity() (Phase, time.Time) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.state.Phase, r.lastActivity
}

// fireEvent broadcasts an event to all connected players. Assumes lock is held.
func (r *Room) fireEvent(ev GameEvent) {
	if r.BroadcastFn != nil {
		r.BroadcastFn(ev)
	}
}

// sendSyncState sends the redacted view to one player. Assumes lock is held.
func (r *Room) sendSyncState(playerID uuid.UUID) {
	if r.BroadcastToPlayerFn == nil {
		return
	}
	view := View(&r.state, playerID)
	r.BroadcastToPlayerFn(playerID, GameEvent{
		Type:  EventPrivateSyncState,
		State: &view,
	})
}

// broadcastSyncStateToAll sends each connected player their own view. Assumes lock is held.
func (r *Room) broadcastSyncStateToAll() {
	if r.BroadcastToPlayerFn == nil {
		return
	}
	for _, p := range r.state.Players {
		if p.Connected {
			r.sendSyncState(p.ID)
		}
	}
}

// logAction publishes an action record for the historian. Assumes lock is held.
func (r *Room) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	r.actionIndex++
	if r.Publisher == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        r.ID,
		ActionIndex:   r.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     r.engine.Clock.Now().UnixMilli(),
	}
	go func(rec cache.GameActionRecord, pub ActionPublisher, log logrus.FieldLogger) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := pub.PublishGameAction(ctx, rec); err != nil {
			log.Warnf("failed to publish action %d: %v", rec.ActionIndex, err)
		}
	}(record, r.Publisher, r.Logger)
}
