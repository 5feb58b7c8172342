package chat

import (
	"fmt"
	"time"

	"cinechat/internal/app/user"
	"cinechat/internal/pkg/randx"
)

// Message is an immutable chat event. Once created it is never mutated;
// entries leave a room's history only through capacity eviction.
type Message struct {
	// ID is unique, derived from the sender id, the send time, and a
	// random disambiguator.
	ID string `json:"id"`

	UserID   string `json:"userId"`
	Username string `json:"username"`
	Content  string `json:"content"`
	RoomID   string `json:"roomId"`

	// Timestamp is assigned from the server clock, never from the client.
	Timestamp time.Time `json:"timestamp"`

	// IsSystem marks membership-change announcements generated by the server.
	IsSystem bool `json:"isSystem,omitempty"`
}

// NewMessage builds a chat message with the authoritative sender identity
// and server timestamp.
func NewMessage(sender user.Identity, roomID, content string, at time.Time) Message {
	return Message{
		ID:        randx.MessageID(sender.ID, at),
		UserID:    sender.ID,
		Username:  sender.Username,
		Content:   content,
		RoomID:    roomID,
		Timestamp: at,
	}
}

// NewSystemMessage builds a membership-change announcement attributed to the system.
func NewSystemMessage(roomID, content string, at time.Time) Message {
	return Message{
		ID:        randx.MessageID(randx.SystemSenderID, at),
		UserID:    randx.SystemSenderID,
		Username:  "System",
		Content:   content,
		RoomID:    roomID,
		Timestamp: at,
		IsSystem:  true,
	}
}

// joinAnnouncement and leaveAnnouncement are the presence message bodies.
func joinAnnouncement(username string) string {
	return fmt.Sprintf("%s joined the room", username)
}

func leaveAnnouncement(username string) string {
	return fmt.Sprintf("%s left the room", username)
}
