package game

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RoomStore is the process-wide registry of live rooms.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[uuid.UUID]*Room),
	}
}

func (s *RoomStore) AddRoom(room *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room
}

func (s *RoomStore) GetRoom(id uuid.UUID) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, exists := s.rooms[id]
	return r, exists
}

func (s *RoomStore) DeleteRoom(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// ListRooms returns every live room, oldest first.
func (s *RoomStore) ListRooms() []*Room {
	s.mu.Lock()
	out := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// CleanupIdle removes rooms whose game is over, or which have seen no
// accepted action for ttl, and returns their IDs.
func (s *RoomStore) CleanupIdle(now time.Time, ttl time.Duration) []uuid.UUID {
	var removed []uuid.UUID
	for _, r := range s.ListRooms() {
		phase, last := r.Activity()
		if phase != PhaseGameOver && now.Sub(last) < ttl {
			continue
		}
		s.DeleteRoom(r.ID)
		removed = append(removed, r.ID)
	}
	return removed
}
