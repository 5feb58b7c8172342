/*
Package chat contains the core logic for the real-time chat session and
room-broadcast engine.

This file defines the Hub, the session lifecycle controller and the single
event dispatcher. Every mutation of the Connection Registry and the Room
Store happens on the Hub's run loop, one event at a time, which serializes
all room and membership transitions without per-structure locking and gives
every room's members a consistent event order.
*/
package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"cinechat/internal/app/user"
	"cinechat/internal/pkg/errs"
	"cinechat/internal/pkg/logx"
)

// eventChannelBuffer sizes the dispatcher queue. Handlers are non-blocking
// and O(room members), so the queue drains quickly under normal load.
const eventChannelBuffer = 1024

type sessionEventKind int

const (
	evConnect sessionEventKind = iota
	evJoinRoom
	evSendMessage
	evTyping
	evDisconnect
)

// sessionEvent is one unit of work for the dispatcher. Only the fields
// relevant to its kind are populated.
type sessionEvent struct {
	kind     sessionEventKind
	connID   string
	identity user.Identity
	sink     Sink
	join     JoinRoomPayload
	message  SendMessagePayload
	typing   TypingPayload
}

// Hub orchestrates connect, join, message, typing, and disconnect
// transitions for every session, and guarantees cleanup on every exit path.
type Hub struct {
	registry *Registry
	store    *RoomStore
	presence *PresenceTracker
	router   *MessageRouter
	typing   *TypingChannel

	events chan sessionEvent
	stop   chan struct{}
	wg     sync.WaitGroup

	logger zerolog.Logger
}

// NewHub constructs a Hub and its owned collaborators around the given store.
func NewHub(store *RoomStore) *Hub {
	registry := NewRegistry()

	h := &Hub{
		registry: registry,
		store:    store,
		presence: NewPresenceTracker(registry, store),
		router:   NewMessageRouter(registry, store),
		typing:   NewTypingChannel(registry),
		events:   make(chan sessionEvent, eventChannelBuffer),
		stop:     make(chan struct{}),
		logger:   logx.Logger().With().Str("component", "Hub").Logger(),
	}

	h.wg.Add(1)

	return h
}

// Run processes session events until Stop is called. It must run in exactly
// one goroutine; the serialization it provides is what makes the registry
// and store mutations safe.
func (h *Hub) Run() {
	defer h.wg.Done()

	h.logger.Info().Msg("Dispatcher started.")

	for {
		select {
		case ev := <-h.events:
			h.dispatch(ev)

		case <-h.stop:
			h.drain()
			h.logger.Info().Msg("Dispatcher stopped.")
			return
		}
	}
}

// drain processes events already queued at shutdown so disconnect cleanup
// enqueued by closing transports still runs.
func (h *Hub) drain() {
	for {
		select {
		case ev := <-h.events:
			h.dispatch(ev)
		default:
			return
		}
	}
}

// Stop terminates the run loop and waits for it to finish.
func (h *Hub) Stop() {
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}

	h.wg.Wait()
}

func (h *Hub) dispatch(ev sessionEvent) {
	switch ev.kind {
	case evConnect:
		h.handleConnect(ev)
	case evJoinRoom:
		h.handleJoinRoom(ev)
	case evSendMessage:
		h.handleSendMessage(ev)
	case evTyping:
		h.handleTyping(ev)
	case evDisconnect:
		h.handleDisconnect(ev)
	}
}

// enqueue submits a best-effort event. Events that do not fit in the queue
// are dropped with a warning rather than blocking the caller.
func (h *Hub) enqueue(ev sessionEvent) {
	select {
	case h.events <- ev:
	default:
		h.logger.Warn().
			Str("conn_id", ev.connID).
			Int("kind", int(ev.kind)).
			Msg("Dispatcher queue full, event dropped.")
	}
}

// enqueueGuaranteed submits a lifecycle event that must not be silently
// lost, blocking until the dispatcher accepts it or shuts down.
func (h *Hub) enqueueGuaranteed(ev sessionEvent) {
	select {
	case h.events <- ev:
	case <-h.stop:
	}
}

// Connect admits a new connection with the given identity and delivery sink.
// The handshake fails outright with ErrIdentityMissing when either identity
// field is empty; nothing is enqueued in that case.
func (h *Hub) Connect(connID string, identity user.Identity, sink Sink) *errs.CustomError {
	if err := identity.Validate(); err != nil {
		return err
	}

	h.enqueueGuaranteed(sessionEvent{
		kind:     evConnect,
		connID:   connID,
		identity: identity,
		sink:     sink,
	})

	return nil
}

// JoinRoom requests that the connection join (or switch to) a room.
func (h *Hub) JoinRoom(connID string, payload JoinRoomPayload) {
	h.enqueue(sessionEvent{kind: evJoinRoom, connID: connID, join: payload})
}

// SendMessage submits a chat message from the connection.
func (h *Hub) SendMessage(connID string, payload SendMessagePayload) {
	h.enqueue(sessionEvent{kind: evSendMessage, connID: connID, message: payload})
}

// SetTyping reports the connection's typing state.
func (h *Hub) SetTyping(connID string, payload TypingPayload) {
	h.enqueue(sessionEvent{kind: evTyping, connID: connID, typing: payload})
}

// Disconnect tears down the session: room teardown first when the
// connection is in a room, then registry removal. Cleanup runs whether or
// not the transport closed gracefully.
func (h *Hub) Disconnect(connID string) {
	h.enqueueGuaranteed(sessionEvent{kind: evDisconnect, connID: connID})
}

func (h *Hub) handleConnect(ev sessionEvent) {
	if err := h.registry.Admit(ev.connID, ev.identity, ev.sink); err != nil {
		// Connect already validated identity; this only fires on a bug.
		h.logger.Error().Str("conn_id", ev.connID).Err(err).Msg("Admit failed.")
	}
}

func (h *Hub) handleJoinRoom(ev sessionEvent) {
	conn := h.registry.Get(ev.connID)
	if conn == nil || ev.join.RoomID == "" {
		return
	}

	roomID := ev.join.RoomID

	if conn.RoomID == roomID {
		// Rejoining the current room only refreshes the history snapshot;
		// membership does not change, so no presence events are emitted.
		history := h.store.Join(roomID, conn.ID)
		h.registry.Send(conn.ID, NewMessageHistoryEvent(history))
		return
	}

	if conn.RoomID != "" {
		h.leaveCurrentRoom(conn)
	}

	history := h.store.Join(roomID, conn.ID)
	h.registry.BindRoom(conn.ID, roomID)

	h.registry.Send(conn.ID, NewMessageHistoryEvent(history))
	h.presence.AnnounceJoin(roomID, conn.Identity, conn.ID)

	h.logger.Info().
		Str("conn_id", conn.ID).
		Str("user_id", conn.Identity.ID).
		Str("room_id", roomID).
		Int("member_count", h.store.MemberCount(roomID)).
		Msg("Connection joined room.")
}

// leaveCurrentRoom removes the connection from its bound room and emits the
// presence side effects. The room pointer is cleared before announcing so
// room-scoped fan-out no longer reaches the leaver.
func (h *Hub) leaveCurrentRoom(conn *Connection) {
	roomID := conn.RoomID

	removed, remaining := h.store.Leave(roomID, conn.ID)
	h.registry.UnbindRoom(conn.ID)

	if !removed {
		return
	}

	h.presence.AnnounceLeave(roomID, conn.Identity, remaining)

	h.logger.Info().
		Str("conn_id", conn.ID).
		Str("room_id", roomID).
		Int("member_count", remaining).
		Msg("Connection left room.")
}

func (h *Hub) handleSendMessage(ev sessionEvent) {
	conn := h.registry.Get(ev.connID)
	if conn == nil {
		return
	}

	h.router.Route(conn, ev.message)
}

func (h *Hub) handleTyping(ev sessionEvent) {
	conn := h.registry.Get(ev.connID)
	if conn == nil {
		return
	}

	h.typing.Notify(conn, ev.typing)
}

func (h *Hub) handleDisconnect(ev sessionEvent) {
	conn := h.registry.Get(ev.connID)
	if conn == nil {
		return
	}

	if conn.RoomID != "" {
		h.leaveCurrentRoom(conn)
	}

	h.registry.Remove(conn.ID)
}

// MemberCount reports the live member count of a room for the catalog API.
func (h *Hub) MemberCount(roomID string) int {
	return h.store.MemberCount(roomID)
}
