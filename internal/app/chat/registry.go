/*
Package chat contains the core logic for the real-time chat session and
room-broadcast engine.

This file defines the Connection Registry, which admits connections, binds
their identity, and provides the fan-out primitives used by the rest of the
engine. The registry is owned by the Hub dispatcher: every mutation happens
on the dispatcher goroutine, so no locking is required here.
*/
package chat

import (
	"github.com/rs/zerolog"

	"cinechat/internal/app/user"
	"cinechat/internal/pkg/errs"
	"cinechat/internal/pkg/logx"
)

// Sink delivers a server event to one client connection. Implementations
// must not block: a slow or broken link returns an error (or drops the
// event) instead of stalling the dispatcher.
type Sink interface {
	Send(event ServerEvent) error
}

// Connection represents one live client link and the identity bound to it
// at handshake time. RoomID is empty until the first join.
type Connection struct {
	ID       string
	Identity user.Identity
	RoomID   string

	sink Sink
}

// Registry tracks every active connection. Owned exclusively by the Hub
// dispatcher for its lifetime.
type Registry struct {
	conns  map[string]*Connection
	logger zerolog.Logger
}

// NewRegistry returns an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]*Connection),
		logger: logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// Admit registers a new connection with no room. Duplicate user ids are
// legal (multiple tabs or devices); a missing identity field is not.
func (reg *Registry) Admit(connID string, identity user.Identity, sink Sink) *errs.CustomError {
	if err := identity.Validate(); err != nil {
		return err
	}

	reg.conns[connID] = &Connection{
		ID:       connID,
		Identity: identity,
		sink:     sink,
	}

	reg.logger.Info().
		Str("conn_id", connID).
		Str("user_id", identity.ID).
		Int("total_connections", len(reg.conns)).
		Msg("Connection admitted.")

	return nil
}

// Get returns the connection for the given id, or nil if unknown.
func (reg *Registry) Get(connID string) *Connection {
	return reg.conns[connID]
}

// BindRoom records the connection's current room. Pure bookkeeping; any
// broadcast is the caller's responsibility.
func (reg *Registry) BindRoom(connID, roomID string) {
	if conn, ok := reg.conns[connID]; ok {
		conn.RoomID = roomID
	}
}

// UnbindRoom clears the connection's current room pointer.
func (reg *Registry) UnbindRoom(connID string) {
	if conn, ok := reg.conns[connID]; ok {
		conn.RoomID = ""
	}
}

// Remove deletes the connection record. Idempotent: removing an unknown id
// is a no-op, because disconnects can race with explicit leave requests.
func (reg *Registry) Remove(connID string) {
	if _, ok := reg.conns[connID]; !ok {
		return
	}

	delete(reg.conns, connID)

	reg.logger.Info().
		Str("conn_id", connID).
		Int("total_connections", len(reg.conns)).
		Msg("Connection removed.")
}

// Send delivers an event to a single connection, best-effort.
func (reg *Registry) Send(connID string, event ServerEvent) {
	conn, ok := reg.conns[connID]
	if !ok {
		return
	}

	if err := conn.sink.Send(event); err != nil {
		reg.logger.Warn().
			Str("conn_id", connID).
			Str("event_type", string(event.Type)).
			Err(err).
			Msg("Delivery miss, event dropped.")
	}
}

// Broadcast delivers an event to every connection currently bound to the
// room, skipping excludeConnID when non-empty. A failed delivery to one
// connection never aborts delivery to the rest.
func (reg *Registry) Broadcast(roomID string, event ServerEvent, excludeConnID string) {
	for _, conn := range reg.conns {
		if conn.RoomID != roomID || conn.ID == excludeConnID {
			continue
		}

		if err := conn.sink.Send(event); err != nil {
			reg.logger.Warn().
				Str("conn_id", conn.ID).
				Str("room_id", roomID).
				Str("event_type", string(event.Type)).
				Err(err).
				Msg("Delivery miss during broadcast, continuing.")
		}
	}
}
