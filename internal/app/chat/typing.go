/*
Package chat contains the core logic for the real-time chat session and
room-broadcast engine.

This file defines the Typing-Indicator Channel, a transient broadcast of
per-user typing state scoped to the sender's current room. No buffering,
no history, no retries.
*/
package chat

import (
	"github.com/rs/zerolog"

	"cinechat/internal/pkg/logx"
)

// TypingChannel relays typing state to the other members of the sender's
// current room. The sender's bound room is authoritative: a client-claimed
// room id that mismatches it is ignored, so typing state never leaks into
// a room the sender has since left.
type TypingChannel struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewTypingChannel wires the channel to the registry it broadcasts through.
func NewTypingChannel(registry *Registry) *TypingChannel {
	return &TypingChannel{
		registry: registry,
		logger:   logx.Logger().With().Str("component", "TypingChannel").Logger(),
	}
}

// Notify broadcasts the typing state to everyone in the sender's room except
// the sender. A connection with no bound room is a no-op.
func (tc *TypingChannel) Notify(conn *Connection, payload TypingPayload) {
	if conn.RoomID == "" {
		return
	}

	if payload.RoomID != "" && payload.RoomID != conn.RoomID {
		tc.logger.Debug().
			Str("conn_id", conn.ID).
			Str("claimed_room_id", payload.RoomID).
			Str("bound_room_id", conn.RoomID).
			Msg("Typing event for mismatched room, ignored.")
		return
	}

	tc.registry.Broadcast(conn.RoomID, NewUserTypingEvent(conn.Identity.Username, payload.IsTyping), conn.ID)
}
