/*
Package chat contains the core logic for the real-time chat session and
room-broadcast engine.

This file defines the Presence Tracker, which translates room membership
transitions into join/leave announcements and member count updates.
*/
package chat

import (
	"time"

	"cinechat/internal/app/user"
)

// PresenceTracker emits presence announcements and online counts for room
// membership transitions. Every successful join or leave produces exactly
// one announcement and one count broadcast; a leave that deletes the room
// still emits both so listeners never observe a count change from nowhere.
type PresenceTracker struct {
	registry *Registry
	store    *RoomStore
	now      func() time.Time
}

// NewPresenceTracker wires the tracker to the registry and store it
// broadcasts through.
func NewPresenceTracker(registry *Registry, store *RoomStore) *PresenceTracker {
	return &PresenceTracker{
		registry: registry,
		store:    store,
		now:      time.Now,
	}
}

// AnnounceJoin records a system message in the room history, announces the
// new member to everyone else, and sends the updated count to the whole
// room including the joiner.
func (p *PresenceTracker) AnnounceJoin(roomID string, joined user.Identity, joinedConnID string) {
	sysMsg := NewSystemMessage(roomID, joinAnnouncement(joined.Username), p.now())
	p.store.AppendMessage(roomID, sysMsg)

	p.registry.Broadcast(roomID, NewUserJoinedEvent(joined.Username), joinedConnID)
	p.registry.Broadcast(roomID, NewRoomUsersEvent(p.store.MemberCount(roomID)), "")
}

// AnnounceLeave announces the departure and the new count to the remaining
// members. remaining is the count after removal; when the room was deleted
// both broadcasts simply find no recipients. The leaver is already unbound
// from the room, so room-scoped fan-out naturally excludes them.
func (p *PresenceTracker) AnnounceLeave(roomID string, left user.Identity, remaining int) {
	sysMsg := NewSystemMessage(roomID, leaveAnnouncement(left.Username), p.now())
	p.store.AppendMessage(roomID, sysMsg)

	p.registry.Broadcast(roomID, NewUserLeftEvent(left.Username), "")
	p.registry.Broadcast(roomID, NewRoomUsersEvent(remaining), "")
}
