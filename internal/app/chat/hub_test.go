package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinechat/internal/app/user"
	"cinechat/internal/pkg/errs"
)

// The hub tests drive the public API and then drain the dispatcher queue on
// the test goroutine, which keeps every scenario deterministic without a
// background run loop.

func connectTestClient(t *testing.T, h *Hub, connID string, ident user.Identity) *recordingSink {
	t.Helper()

	sink := &recordingSink{}
	require.Nil(t, h.Connect(connID, ident, sink))
	h.drain()

	return sink
}

func historyPayload(t *testing.T, ev ServerEvent) []Message {
	t.Helper()

	history, ok := ev.Payload.([]Message)
	require.True(t, ok, "message_history payload should be []Message")
	return history
}

func TestHub_ConnectRejectsMissingIdentity(t *testing.T) {
	h := NewHub(NewRoomStore())

	err := h.Connect("conn-1", user.Identity{Username: "alice"}, &recordingSink{})

	require.NotNil(t, err)
	assert.Equal(t, errs.ErrIdentityMissing, err.Code)

	h.drain()
	assert.Nil(t, h.registry.Get("conn-1"))
}

func TestHub_FirstJoinCreatesRoomAndDeliversEmptyHistory(t *testing.T) {
	h := NewHub(NewRoomStore())
	aliceSink := connectTestClient(t, h, "conn-a", alice())

	h.JoinRoom("conn-a", JoinRoomPayload{RoomID: "global"})
	h.drain()

	require.Equal(t, []ServerEventType{EventMessageHistory, EventRoomUsers}, aliceSink.types())
	assert.Empty(t, historyPayload(t, aliceSink.events[0]))
	assert.Equal(t, 1, aliceSink.events[1].Payload)

	assert.True(t, h.store.Exists("global"))
	assert.Equal(t, 1, h.MemberCount("global"))
}

func TestHub_SecondJoinNotifiesExistingMembers(t *testing.T) {
	h := NewHub(NewRoomStore())
	aliceSink := connectTestClient(t, h, "conn-a", alice())
	bobSink := connectTestClient(t, h, "conn-b", bob())

	h.JoinRoom("conn-a", JoinRoomPayload{RoomID: "global"})
	h.drain()
	aliceSink.reset()

	h.JoinRoom("conn-b", JoinRoomPayload{RoomID: "global"})
	h.drain()

	// Alice sees the announcement and the new count.
	require.Equal(t, []ServerEventType{EventUserJoined, EventRoomUsers}, aliceSink.types())
	assert.Equal(t, PresencePayload{Username: "bob"}, aliceSink.events[0].Payload)
	assert.Equal(t, 2, aliceSink.events[1].Payload)

	// Bob gets the history and the count, but not his own join announcement.
	require.Equal(t, []ServerEventType{EventMessageHistory, EventRoomUsers}, bobSink.types())
	assert.Equal(t, 2, bobSink.events[1].Payload)
}

func TestHub_MessageEchoedToAllMembersWithRestampedIdentity(t *testing.T) {
	h := NewHub(NewRoomStore())
	aliceSink := connectTestClient(t, h, "conn-a", alice())
	bobSink := connectTestClient(t, h, "conn-b", bob())

	h.JoinRoom("conn-a", JoinRoomPayload{RoomID: "global"})
	h.JoinRoom("conn-b", JoinRoomPayload{RoomID: "global"})
	h.drain()
	aliceSink.reset()
	bobSink.reset()

	// Spoofed identity and timestamp fields must be overwritten server-side.
	h.SendMessage("conn-a", SendMessagePayload{
		Content:   "hello",
		UserID:    "u-mallory",
		Username:  "mallory",
		RoomID:    "horror",
		Timestamp: "1970-01-01T00:00:00Z",
	})
	h.drain()

	for _, sink := range []*recordingSink{aliceSink, bobSink} {
		require.Equal(t, []ServerEventType{EventNewMessage}, sink.types())

		msg, ok := sink.events[0].Payload.(Message)
		require.True(t, ok)
		assert.Equal(t, "hello", msg.Content)
		assert.Equal(t, "u-alice", msg.UserID)
		assert.Equal(t, "alice", msg.Username)
		assert.Equal(t, "global", msg.RoomID)
		assert.False(t, msg.IsSystem)
		assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Minute)
	}
}

func TestHub_MessageWithoutRoomIsSilentlyDropped(t *testing.T) {
	h := NewHub(NewRoomStore())
	aliceSink := connectTestClient(t, h, "conn-a", alice())

	h.SendMessage("conn-a", SendMessagePayload{Content: "hello?"})
	h.drain()

	assert.Empty(t, aliceSink.events)
}

func TestHub_EmptyContentIsSilentlyDropped(t *testing.T) {
	h := NewHub(NewRoomStore())
	aliceSink := connectTestClient(t, h, "conn-a", alice())

	h.JoinRoom("conn-a", JoinRoomPayload{RoomID: "global"})
	h.drain()
	aliceSink.reset()

	h.SendMessage("conn-a", SendMessagePayload{Content: "   \n\t  "})
	h.drain()

	assert.Empty(t, aliceSink.events)
	// Only the join announcement is in history.
	history := h.store.History("global")
	require.Len(t, history, 1)
	assert.True(t, history[0].IsSystem)
}

func TestHub_SwitchingRoomsLeavesOldRoomFirst(t *testing.T) {
	h := NewHub(NewRoomStore())
	aliceSink := connectTestClient(t, h, "conn-a", alice())
	bobSink := connectTestClient(t, h, "conn-b", bob())

	h.JoinRoom("conn-a", JoinRoomPayload{RoomID: "global"})
	h.JoinRoom("conn-b", JoinRoomPayload{RoomID: "global"})
	h.drain()
	aliceSink.reset()
	bobSink.reset()

	h.JoinRoom("conn-a", JoinRoomPayload{RoomID: "horror"})
	h.drain()

	// Bob observes alice leaving and the count dropping to 1.
	require.Equal(t, []ServerEventType{EventUserLeft, EventRoomUsers}, bobSink.types())
	assert.Equal(t, PresencePayload{Username: "alice"}, bobSink.events[0].Payload)
	assert.Equal(t, 1, bobSink.events[1].Payload)

	// Alice receives horror's fresh history, not global's.
	require.Equal(t, []ServerEventType{EventMessageHistory, EventRoomUsers}, aliceSink.types())
	assert.Empty(t, historyPayload(t, aliceSink.events[0]))
	assert.Equal(t, 1, aliceSink.events[1].Payload)

	assert.Equal(t, 1, h.MemberCount("global"))
	assert.Equal(t, 1, h.MemberCount("horror"))
	assert.Equal(t, "horror", h.registry.Get("conn-a").RoomID)
}

func TestHub_RejoiningCurrentRoomOnlyResendsHistory(t *testing.T) {
	h := NewHub(NewRoomStore())
	aliceSink := connectTestClient(t, h, "conn-a", alice())
	bobSink := connectTestClient(t, h, "conn-b", bob())

	h.JoinRoom("conn-a", JoinRoomPayload{RoomID: "global"})
	h.JoinRoom("conn-b", JoinRoomPayload{RoomID: "global"})
	h.drain()
	aliceSink.reset()
	bobSink.reset()

	h.JoinRoom("conn-a", JoinRoomPayload{RoomID: "global"})
	h.drain()

	require.Equal(t, []ServerEventType{EventMessageHistory}, aliceSink.types())
	assert.Empty(t, bobSink.events, "no presence events for a membership that did not change")
	assert.Equal(t, 2, h.MemberCount("global"))
}

func TestHub_TypingReachesOnlyOtherMembersOfBoundRoom(t *testing.T) {
	h := NewHub(NewRoomStore())
	aliceSink := connectTestClient(t, h, "conn-a", alice())
	bobSink := connectTestClient(t, h, "conn-b", bob())

	h.JoinRoom("conn-a", JoinRoomPayload{RoomID: "global"})
	h.JoinRoom("conn-b", JoinRoomPayload{RoomID: "global"})
	h.drain()
	aliceSink.reset()
	bobSink.reset()

	h.SetTyping("conn-a", TypingPayload{RoomID: "global", IsTyping: true})
	h.drain()

	require.Equal(t, []ServerEventType{EventUserTyping}, bobSink.types())
	assert.Equal(t, TypingStatePayload{Username: "alice", IsTyping: true}, bobSink.events[0].Payload)
	assert.Empty(t, aliceSink.events)
}

func TestHub_TypingForMismatchedRoomIsIgnored(t *testing.T) {
	h := NewHub(NewRoomStore())
	connectTestClient(t, h, "conn-a", alice())
	bobSink := connectTestClient(t, h, "conn-b", bob())

	h.JoinRoom("conn-a", JoinRoomPayload{RoomID: "global"})
	h.JoinRoom("conn-b", JoinRoomPayload{RoomID: "global"})
	h.drain()
	bobSink.reset()

	// Claimed room no longer matches the bound room.
	h.SetTyping("conn-a", TypingPayload{RoomID: "horror", IsTyping: true})
	h.drain()

	assert.Empty(t, bobSink.events)
}

func TestHub_TypingWithoutRoomIsIgnored(t *testing.T) {
	h := NewHub(NewRoomStore())
	aliceSink := connectTestClient(t, h, "conn-a", alice())

	h.SetTyping("conn-a", TypingPayload{IsTyping: true})
	h.drain()

	assert.Empty(t, aliceSink.events)
}

func TestHub_AbruptDisconnectTearsDownSoleOccupantRoom(t *testing.T) {
	h := NewHub(NewRoomStore())
	connectTestClient(t, h, "conn-b", bob())

	h.JoinRoom("conn-b", JoinRoomPayload{RoomID: "global"})
	h.SendMessage("conn-b", SendMessagePayload{Content: "anyone here?"})
	h.drain()

	// No explicit leave: the transport just went away.
	h.Disconnect("conn-b")
	h.drain()

	assert.False(t, h.store.Exists("global"))
	assert.Nil(t, h.registry.Get("conn-b"))

	// A later join starts from scratch.
	carolSink := connectTestClient(t, h, "conn-c", user.Identity{ID: "u-carol", Username: "carol"})
	h.JoinRoom("conn-c", JoinRoomPayload{RoomID: "global"})
	h.drain()

	require.Equal(t, []ServerEventType{EventMessageHistory, EventRoomUsers}, carolSink.types())
	assert.Empty(t, historyPayload(t, carolSink.events[0]))
}

func TestHub_DisconnectNotifiesRemainingMembers(t *testing.T) {
	h := NewHub(NewRoomStore())
	aliceSink := connectTestClient(t, h, "conn-a", alice())
	connectTestClient(t, h, "conn-b", bob())

	h.JoinRoom("conn-a", JoinRoomPayload{RoomID: "global"})
	h.JoinRoom("conn-b", JoinRoomPayload{RoomID: "global"})
	h.drain()
	aliceSink.reset()

	h.Disconnect("conn-b")
	h.drain()

	require.Equal(t, []ServerEventType{EventUserLeft, EventRoomUsers}, aliceSink.types())
	assert.Equal(t, PresencePayload{Username: "bob"}, aliceSink.events[0].Payload)
	assert.Equal(t, 1, aliceSink.events[1].Payload)
}

func TestHub_DisconnectIsIdempotent(t *testing.T) {
	h := NewHub(NewRoomStore())
	connectTestClient(t, h, "conn-a", alice())

	h.Disconnect("conn-a")
	h.Disconnect("conn-a")
	h.Disconnect("conn-ghost")
	h.drain()

	assert.Nil(t, h.registry.Get("conn-a"))
}

func TestHub_EventsForUnknownConnectionAreDropped(t *testing.T) {
	h := NewHub(NewRoomStore())

	h.JoinRoom("conn-ghost", JoinRoomPayload{RoomID: "global"})
	h.SendMessage("conn-ghost", SendMessagePayload{Content: "boo"})
	h.SetTyping("conn-ghost", TypingPayload{IsTyping: true})
	h.drain()

	assert.False(t, h.store.Exists("global"))
}

func TestHub_RunAndStop(t *testing.T) {
	h := NewHub(NewRoomStore())

	go h.Run()

	sink := &recordingSink{}
	require.Nil(t, h.Connect("conn-a", alice(), sink))

	h.Stop()

	// The queued connect was drained before the loop exited.
	assert.NotNil(t, h.registry.Get("conn-a"))
}
