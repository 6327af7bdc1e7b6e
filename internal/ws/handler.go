// Package ws binds one websocket connection to at most one room at a time
// and translates between wire messages and room messages.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"airhockey/internal/hub"
	"airhockey/internal/physics"
	"airhockey/internal/protocol"
	"airhockey/internal/room"
)

const writeTimeout = 3 * time.Second

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		s := &session{h: h, conn: conn, log: log}
		s.run(r.Context())
	}
}

type session struct {
	h    *hub.Hub
	conn *websocket.Conn
	log  *zap.Logger

	room     *room.Room
	clientID string
}

func (s *session) run(ctx context.Context) {
	// A transport close is handled exactly like leave_room.
	defer s.leaveRoom()

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			return
		}

		var msg protocol.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Debug("discarding malformed message", zap.Error(err))
			continue
		}
		s.dispatch(ctx, msg)
	}
}

func (s *session) dispatch(ctx context.Context, msg protocol.ClientMessage) {
	switch msg.Type {
	case protocol.TypeCreateRoom:
		reply := make(chan *room.Room, 1)
		s.h.Inbox() <- hub.CreateRoom{Reply: reply}
		s.join(ctx, <-reply, protocol.TypeRoomCreated)

	case protocol.TypeJoinRoom:
		code := strings.ToUpper(msg.RoomID)
		if len(code) != hub.CodeLength {
			s.send(ctx, protocol.NewRoomError("Invalid room code"))
			return
		}
		reply := make(chan *room.Room, 1)
		s.h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			s.send(ctx, protocol.NewRoomError("Room not found"))
			return
		}
		s.join(ctx, rm, protocol.TypeRoomJoined)

	case protocol.TypeLeaveRoom:
		s.leaveRoom()

	case protocol.TypePaddleMove:
		if s.room == nil {
			return
		}
		s.room.Inbox() <- room.PaddleMove{ClientID: s.clientID, X: msg.X, Y: msg.Y}

	case protocol.TypeRestartGame:
		if s.room == nil {
			return
		}
		s.room.Inbox() <- room.Restart{}

	default:
		s.log.Debug("discarding unknown message type", zap.String("type", msg.Type))
	}
}

// join registers with rm, answers with a room_created/room_joined welcome,
// and starts draining the room's broadcasts to the connection. A connection
// belongs to at most one room, so any current membership is left first.
func (s *session) join(ctx context.Context, rm *room.Room, msgType string) {
	s.leaveRoom()

	out := make(chan []byte, 64)
	id := uuid.NewString()
	reply := make(chan room.Welcome, 1)
	rm.Inbox() <- room.Join{ClientID: id, Outbox: out, Reply: reply}

	var welcome room.Welcome
	select {
	case welcome = <-reply:
	case <-ctx.Done():
		// Connection went away while the join was in flight; the room has
		// (or will have) registered us, so undo that before giving up.
		rm.Inbox() <- room.Leave{ClientID: id}
		return
	}

	s.room = rm
	s.clientID = id

	// The welcome must reach the wire before any broadcast queued behind it,
	// so send it before the writer starts.
	s.send(ctx, protocol.RoomWelcome{
		Type:           msgType,
		RoomID:         rm.Code,
		ClientID:       id,
		Side:           welcome.Side,
		ViewportOffset: welcome.ViewportOffset,
		WorldWidth:     physics.WorldWidth,
		WorldHeight:    physics.WorldHeight,
		ViewportWidth:  physics.ViewportWidth,
		Game:           welcome.Game,
	})
	go s.writeLoop(ctx, out)
}

func (s *session) leaveRoom() {
	if s.room == nil {
		return
	}
	s.room.Inbox() <- room.Leave{ClientID: s.clientID}
	s.room = nil
	s.clientID = ""
}

// writeLoop drains one room membership's outbox; the room closes the outbox
// when the client is removed, which ends the loop.
func (s *session) writeLoop(ctx context.Context, out <-chan []byte) {
	for payload := range out {
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := s.conn.Write(wctx, websocket.MessageText, payload)
		cancel()
		if err != nil {
			return
		}
	}
}

func (s *session) send(ctx context.Context, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.log.Error("marshal message", zap.Error(err))
		return
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = s.conn.Write(wctx, websocket.MessageText, payload)
}
