package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinechat/internal/app/user"
	"cinechat/internal/pkg/errs"
)

// recordingSink captures delivered events for assertions. Setting fail makes
// every delivery miss, simulating a broken link.
type recordingSink struct {
	events []ServerEvent
	fail   bool
}

func (s *recordingSink) Send(ev ServerEvent) error {
	if s.fail {
		return fmt.Errorf("sink closed")
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSink) reset() {
	s.events = nil
}

func (s *recordingSink) types() []ServerEventType {
	out := make([]ServerEventType, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Type)
	}
	return out
}

func alice() user.Identity { return user.Identity{ID: "u-alice", Username: "alice"} }
func bob() user.Identity   { return user.Identity{ID: "u-bob", Username: "bob"} }

func TestRegistry_AdmitRejectsMissingIdentity(t *testing.T) {
	reg := NewRegistry()

	err := reg.Admit("conn-1", user.Identity{Username: "alice"}, &recordingSink{})
	require.NotNil(t, err)
	assert.Equal(t, errs.ErrIdentityMissing, err.Code)

	err = reg.Admit("conn-1", user.Identity{ID: "u-alice"}, &recordingSink{})
	require.NotNil(t, err)
	assert.Equal(t, errs.ErrIdentityMissing, err.Code)

	assert.Nil(t, reg.Get("conn-1"))
}

func TestRegistry_AdmitAllowsDuplicateUserIDs(t *testing.T) {
	reg := NewRegistry()

	require.Nil(t, reg.Admit("conn-1", alice(), &recordingSink{}))
	require.Nil(t, reg.Admit("conn-2", alice(), &recordingSink{}))

	assert.NotNil(t, reg.Get("conn-1"))
	assert.NotNil(t, reg.Get("conn-2"))
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	require.Nil(t, reg.Admit("conn-1", alice(), &recordingSink{}))

	reg.Remove("conn-1")
	reg.Remove("conn-1")
	reg.Remove("never-admitted")

	assert.Nil(t, reg.Get("conn-1"))
}

func TestRegistry_BindAndUnbindRoom(t *testing.T) {
	reg := NewRegistry()
	require.Nil(t, reg.Admit("conn-1", alice(), &recordingSink{}))

	reg.BindRoom("conn-1", "global")
	assert.Equal(t, "global", reg.Get("conn-1").RoomID)

	reg.UnbindRoom("conn-1")
	assert.Empty(t, reg.Get("conn-1").RoomID)

	// Unknown connections are ignored.
	reg.BindRoom("conn-9", "global")
	reg.UnbindRoom("conn-9")
}

func TestRegistry_BroadcastExcludesSenderAndSkipsRoomOutsiders(t *testing.T) {
	reg := NewRegistry()

	aliceSink := &recordingSink{}
	bobSink := &recordingSink{}
	outsiderSink := &recordingSink{}

	require.Nil(t, reg.Admit("conn-a", alice(), aliceSink))
	require.Nil(t, reg.Admit("conn-b", bob(), bobSink))
	require.Nil(t, reg.Admit("conn-c", user.Identity{ID: "u-carol", Username: "carol"}, outsiderSink))

	reg.BindRoom("conn-a", "global")
	reg.BindRoom("conn-b", "global")
	reg.BindRoom("conn-c", "horror")

	reg.Broadcast("global", NewRoomUsersEvent(2), "conn-a")

	assert.Empty(t, aliceSink.events)
	assert.Equal(t, []ServerEventType{EventRoomUsers}, bobSink.types())
	assert.Empty(t, outsiderSink.events)
}

func TestRegistry_BroadcastSurvivesBrokenSink(t *testing.T) {
	reg := NewRegistry()

	brokenSink := &recordingSink{fail: true}
	bobSink := &recordingSink{}

	require.Nil(t, reg.Admit("conn-a", alice(), brokenSink))
	require.Nil(t, reg.Admit("conn-b", bob(), bobSink))

	reg.BindRoom("conn-a", "global")
	reg.BindRoom("conn-b", "global")

	reg.Broadcast("global", NewRoomUsersEvent(2), "")

	// The broken link must not abort delivery to the rest of the room.
	assert.Equal(t, []ServerEventType{EventRoomUsers}, bobSink.types())
}

func TestRegistry_SendToUnknownConnectionIsNoop(t *testing.T) {
	reg := NewRegistry()

	reg.Send("conn-ghost", NewRoomUsersEvent(1))
}
