package hub

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"airhockey/internal/room"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, zap.NewNop())
}

func createRoom(t *testing.T, h *Hub) *room.Room {
	t.Helper()
	reply := make(chan *room.Room, 1)
	h.Inbox() <- CreateRoom{Reply: reply}
	select {
	case rm := <-reply:
		require.NotNil(t, rm)
		return rm
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for room creation")
		return nil
	}
}

func lookup(t *testing.T, h *Hub, code string) *room.Room {
	t.Helper()
	reply := make(chan *room.Room, 1)
	h.Inbox() <- GetRoom{Code: code, Reply: reply}
	select {
	case rm := <-reply:
		return rm
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for lookup")
		return nil
	}
}

func TestHub_CreateThenLookupSamePointer(t *testing.T) {
	h := newTestHub(t)
	rm := createRoom(t, h)

	assert.Regexp(t, regexp.MustCompile(`^[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{4}$`), rm.Code)
	assert.Same(t, rm, lookup(t, h, rm.Code))
}

func TestHub_LookupIsCaseInsensitive(t *testing.T) {
	h := newTestHub(t)
	rm := createRoom(t, h)

	assert.Same(t, rm, lookup(t, h, strings.ToLower(rm.Code)))
}

func TestHub_RemoveRoomDropsCode(t *testing.T) {
	h := newTestHub(t)
	rm := createRoom(t, h)

	h.Inbox() <- RemoveRoom{Code: rm.Code}

	assert.Nil(t, lookup(t, h, rm.Code))
}

func TestHub_CodesAreUniqueAmongLiveRooms(t *testing.T) {
	h := newTestHub(t)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		rm := createRoom(t, h)
		assert.False(t, seen[rm.Code], "code %s reused while live", rm.Code)
		seen[rm.Code] = true
	}
}

func TestHub_EmptiedRoomIsUnregistered(t *testing.T) {
	h := newTestHub(t)
	rm := createRoom(t, h)

	out := make(chan []byte, 8)
	reply := make(chan room.Welcome, 1)
	rm.Inbox() <- room.Join{ClientID: "c1", Outbox: out, Reply: reply}
	<-reply

	rm.Inbox() <- room.Leave{ClientID: "c1"}

	require.Eventually(t, func() bool {
		return lookup(t, h, rm.Code) == nil
	}, time.Second, 5*time.Millisecond)
}
