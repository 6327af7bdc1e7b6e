// Package hub owns the process-wide registry of live rooms. The map is only
// touched by the hub goroutine, which makes the generate-then-insert of a new
// room code atomic with respect to concurrent creations.
package hub

import (
	"context"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"airhockey/internal/room"
)

// Room codes draw from a 32-symbol alphabet with the easily confused glyphs
// (0, O, 1, I) removed.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 4
)

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Reply chan *room.Room
}

// GetRoom looks a code up case-insensitively; Reply receives nil when no
// such room exists.
type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type RemoveRoom struct {
	Code string
}

// CountRooms reports how many rooms are registered; used by tests.
type CountRooms struct {
	Reply chan int
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (CountRooms) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				code := h.newCode()
				rm := room.New(h.ctx, code, h.roomEmptied, h.log.With(zap.String("room", code)))
				h.rooms[code] = rm
				h.log.Info("room created", zap.String("room", code), zap.Int("active", len(h.rooms)))
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- h.rooms[strings.ToUpper(msg.Code)] // may be nil

			case RemoveRoom:
				if _, ok := h.rooms[msg.Code]; ok {
					delete(h.rooms, msg.Code)
					h.log.Info("room removed", zap.String("room", msg.Code), zap.Int("active", len(h.rooms)))
				}

			case CountRooms:
				msg.Reply <- len(h.rooms)

			case ShutdownHub:
				for _, rm := range h.rooms {
					rm.Inbox() <- room.Shutdown{}
				}
				clear(h.rooms)
				h.cancel()
			}
		}
	}
}

// newCode retries until the generated code is absent from the registry. Only
// the hub goroutine inserts, so the check holds at the instant of insertion.
func (h *Hub) newCode() string {
	for {
		b := make([]byte, CodeLength)
		for i := range b {
			b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		code := string(b)
		if _, taken := h.rooms[code]; !taken {
			return code
		}
	}
}

// roomEmptied is handed to every room; called from the room's goroutine when
// its last client leaves.
func (h *Hub) roomEmptied(code string) {
	h.inbox <- RemoveRoom{Code: code}
}
