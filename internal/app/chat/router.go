/*
Package chat contains the core logic for the real-time chat session and
room-broadcast engine.

This file defines the Message Router, which validates and stamps inbound
chat messages, appends them to the originating room's history, and fans
them out to every current member.
*/
package chat

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cinechat/internal/pkg/logx"
)

// MaxContentBytes is the maximum allowed size of message content.
// Oversized messages are absorbed, matching the best-effort chat UX.
const MaxContentBytes = 5000

// MessageRouter accepts client-submitted message payloads bound to a room.
// Identity and timestamp are always re-stamped server-side; clients cannot
// speak for other users or backdate messages.
type MessageRouter struct {
	registry *Registry
	store    *RoomStore
	now      func() time.Time
	logger   zerolog.Logger
}

// NewMessageRouter wires the router to the registry and store.
func NewMessageRouter(registry *Registry, store *RoomStore) *MessageRouter {
	return &MessageRouter{
		registry: registry,
		store:    store,
		now:      time.Now,
		logger:   logx.Logger().With().Str("component", "MessageRouter").Logger(),
	}
}

// Route validates, stamps, persists, and broadcasts one inbound message.
// Every failure class here is absorbed: a sender with no bound room, empty
// content, oversized content, and a room torn down mid-send all drop the
// message without surfacing an error.
func (mr *MessageRouter) Route(conn *Connection, payload SendMessagePayload) {
	if conn.RoomID == "" {
		mr.logger.Debug().
			Str("conn_id", conn.ID).
			Msg("Message from connection with no bound room, dropped.")
		return
	}

	content := strings.TrimSpace(payload.Content)
	if content == "" {
		return
	}

	if len(content) > MaxContentBytes {
		mr.logger.Warn().
			Str("conn_id", conn.ID).
			Int("content_bytes", len(content)).
			Msg("Oversized message content, dropped.")
		return
	}

	msg := NewMessage(conn.Identity, conn.RoomID, content, mr.now())

	if !mr.store.AppendMessage(msg.RoomID, msg) {
		// Send raced with room teardown; nothing left to deliver to.
		return
	}

	// The sender receives its own echo through the same path as everyone else.
	mr.registry.Broadcast(msg.RoomID, NewNewMessageEvent(msg), "")
}
