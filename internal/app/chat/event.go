/*
Package chat contains the core logic for the real-time chat session and
room-broadcast engine: connection registry, room store, presence tracking,
message routing, typing indicators, and the session lifecycle dispatcher.

This file defines the tagged event envelopes exchanged with clients. Inbound
frames are decoded into ClientEvent and dispatched by type; unknown or
malformed variants are rejected at this boundary rather than trusted at the
point of use.
*/
package chat

import "encoding/json"

// ClientEventType identifies a client-to-server event.
type ClientEventType string

const (
	// EventJoinRoom asks to join (or switch to) a room.
	EventJoinRoom ClientEventType = "join_room"

	// EventSendMessage submits a chat message to the sender's current room.
	EventSendMessage ClientEventType = "send_message"

	// EventTyping reports the sender's transient typing state.
	EventTyping ClientEventType = "typing"
)

// ServerEventType identifies a server-to-client event.
type ServerEventType string

const (
	// EventMessageHistory delivers the capped room history once after a join.
	EventMessageHistory ServerEventType = "message_history"

	// EventNewMessage delivers an accepted chat message to every room member.
	EventNewMessage ServerEventType = "new_message"

	// EventUserJoined announces a new member to the rest of the room.
	EventUserJoined ServerEventType = "user_joined"

	// EventUserLeft announces a departed member to the rest of the room.
	EventUserLeft ServerEventType = "user_left"

	// EventRoomUsers delivers the current member count after every membership change.
	EventRoomUsers ServerEventType = "room_users"

	// EventUserTyping relays a member's typing state to the rest of the room.
	EventUserTyping ServerEventType = "user_typing"
)

// ClientEvent is the inbound wire envelope.
type ClientEvent struct {
	Type    ClientEventType `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerEvent is the outbound wire envelope.
type ServerEvent struct {
	Type    ServerEventType `json:"type"`
	Payload any             `json:"payload"`
}

// JoinRoomPayload carries the target room of a join_room event.
type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
}

// SendMessagePayload carries a client-submitted message. Identity and
// timestamp fields echoed by the client are ignored and re-stamped
// server-side to prevent spoofing.
type SendMessagePayload struct {
	Content string `json:"content"`

	// Echoed metadata, overwritten by the server.
	ID        string `json:"id,omitempty"`
	UserID    string `json:"userId,omitempty"`
	Username  string `json:"username,omitempty"`
	RoomID    string `json:"roomId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// TypingPayload carries a typing event. The claimed RoomID is ignored when
// it does not match the sender's bound room.
type TypingPayload struct {
	RoomID   string `json:"roomId"`
	IsTyping bool   `json:"isTyping"`
}

// PresencePayload carries user_joined and user_left announcements.
type PresencePayload struct {
	Username string `json:"username"`
}

// TypingStatePayload carries user_typing broadcasts.
type TypingStatePayload struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

// NewMessageHistoryEvent wraps the capped history sent after a successful join.
func NewMessageHistoryEvent(history []Message) ServerEvent {
	return ServerEvent{Type: EventMessageHistory, Payload: history}
}

// NewNewMessageEvent wraps an accepted message for fan-out.
func NewNewMessageEvent(msg Message) ServerEvent {
	return ServerEvent{Type: EventNewMessage, Payload: msg}
}

// NewUserJoinedEvent wraps a join announcement.
func NewUserJoinedEvent(username string) ServerEvent {
	return ServerEvent{Type: EventUserJoined, Payload: PresencePayload{Username: username}}
}

// NewUserLeftEvent wraps a leave announcement.
func NewUserLeftEvent(username string) ServerEvent {
	return ServerEvent{Type: EventUserLeft, Payload: PresencePayload{Username: username}}
}

// NewRoomUsersEvent wraps a member count update.
func NewRoomUsersEvent(count int) ServerEvent {
	return ServerEvent{Type: EventRoomUsers, Payload: count}
}

// NewUserTypingEvent wraps a typing state broadcast.
func NewUserTypingEvent(username string, isTyping bool) ServerEvent {
	return ServerEvent{Type: EventUserTyping, Payload: TypingStatePayload{Username: username, IsTyping: isTyping}}
}
