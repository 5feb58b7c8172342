/*
Package chat contains the core logic for the real-time chat session and
room-broadcast engine.

This file defines the Room Store, which owns room existence, membership,
and the bounded message history. Rooms are created lazily on first join and
deleted the moment the last member leaves. All mutations arrive through the
Hub dispatcher; the mutex only guards the read-only member count queries
served to the HTTP layer for the room catalog.
*/
package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"cinechat/internal/pkg/logx"
)

const (
	// HistoryRetention is the maximum number of messages a room retains.
	// Older entries are evicted front-first.
	HistoryRetention = 100

	// HistoryReplay is the maximum number of history entries handed to a
	// newly joined client, distinct from the retention cap.
	HistoryReplay = 50
)

// room is the internal record for one active room.
type room struct {
	members map[string]struct{}
	history []Message
}

// RoomStore maps room identifiers to membership sets and bounded histories.
type RoomStore struct {
	mu     sync.RWMutex
	rooms  map[string]*room
	logger zerolog.Logger
}

// NewRoomStore returns an empty room store.
func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms:  make(map[string]*room),
		logger: logx.Logger().With().Str("component", "RoomStore").Logger(),
	}
}

// Join adds the connection to the room, creating the room if absent, and
// returns a snapshot of the room's history capped to the most recent
// HistoryReplay entries in chronological order.
//
// If the connection is still a member of another room, that membership is
// removed first so the one-room-per-connection invariant holds even inside
// this single operation. The session controller performs an announced leave
// before calling Join, so this removal is normally a no-op.
func (s *RoomStore) Join(roomID, connID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictFromOtherRooms(roomID, connID)

	r, ok := s.rooms[roomID]
	if !ok {
		r = &room{members: make(map[string]struct{})}
		s.rooms[roomID] = r

		s.logger.Info().Str("room_id", roomID).Msg("Room created.")
	}

	r.members[connID] = struct{}{}

	start := 0
	if len(r.history) > HistoryReplay {
		start = len(r.history) - HistoryReplay
	}

	snapshot := make([]Message, len(r.history)-start)
	copy(snapshot, r.history[start:])

	return snapshot
}

// evictFromOtherRooms removes the connection from every room other than
// roomID, deleting rooms it empties. Callers hold the lock.
func (s *RoomStore) evictFromOtherRooms(roomID, connID string) {
	for id, r := range s.rooms {
		if id == roomID {
			continue
		}

		if _, member := r.members[connID]; member {
			delete(r.members, connID)
			if len(r.members) == 0 {
				delete(s.rooms, id)
			}

			s.logger.Warn().
				Str("conn_id", connID).
				Str("stale_room_id", id).
				Msg("Removed stale membership during join.")
		}
	}
}

// Leave removes the connection's membership. When this empties the room the
// record, including its history, is deleted. Leaving a room the connection
// is not in is a no-op.
//
// The returned removed flag reports whether membership actually changed,
// and remaining is the member count after removal (zero when the room was
// deleted or never existed).
func (s *RoomStore) Leave(roomID, connID string) (removed bool, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return false, 0
	}

	if _, member := r.members[connID]; !member {
		return false, len(r.members)
	}

	delete(r.members, connID)

	if len(r.members) == 0 {
		delete(s.rooms, roomID)

		s.logger.Info().Str("room_id", roomID).Msg("Room emptied and deleted.")
		return true, 0
	}

	return true, len(r.members)
}

// AppendMessage appends to the room's history, evicting from the front once
// the retention cap is exceeded. Appending to a room that no longer exists
// is silently dropped: that only happens when a send races with room teardown.
func (s *RoomStore) AppendMessage(roomID string, msg Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		s.logger.Debug().
			Str("room_id", roomID).
			Str("message_id", msg.ID).
			Msg("Dropped message for missing room.")
		return false
	}

	r.history = append(r.history, msg)

	if overflow := len(r.history) - HistoryRetention; overflow > 0 {
		r.history = append(r.history[:0], r.history[overflow:]...)
	}

	return true
}

// MemberCount returns the room's current member count, zero for a room that
// does not exist. Safe to call from outside the dispatcher.
func (s *RoomStore) MemberCount(roomID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return 0
	}

	return len(r.members)
}

// History returns a copy of the room's full retained history, oldest first.
func (s *RoomStore) History(roomID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil
	}

	snapshot := make([]Message, len(r.history))
	copy(snapshot, r.history)

	return snapshot
}

// Exists reports whether the room currently has a record in the store.
func (s *RoomStore) Exists(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.rooms[roomID]
	return ok
}
