// Package room runs one match session. All room state is owned by a single
// goroutine: every mutation, whether from a physics tick or an inbound client
// message, goes through the room's inbox, so a tick and a message handler can
// never interleave against the same game state.
package room

import (
	"context"
	"time"

	"go.uber.org/zap"

	"airhockey/internal/physics"
	"airhockey/internal/protocol"
)

const (
	tickInterval   = time.Second / 60
	goalPauseDelay = 1500 * time.Millisecond
)

type Msg interface{ isRoomMsg() }

// Join registers a client; the room assigns a side by current balance and
// replies with the assignment plus the game snapshot at the moment of joining.
type Join struct {
	ClientID string
	Outbox   chan []byte
	Reply    chan Welcome
}

type Leave struct{ ClientID string }

// PaddleMove is a requested paddle position; the room clamps it to the
// client's half of the field.
type PaddleMove struct {
	ClientID string
	X, Y     float64
}

type Restart struct{}

type Shutdown struct{}

// GetState reflects internal state without data races; used by tests.
type GetState struct {
	Reply chan View
}

func (Join) isRoomMsg()       {}
func (Leave) isRoomMsg()      {}
func (PaddleMove) isRoomMsg() {}
func (Restart) isRoomMsg()    {}
func (Shutdown) isRoomMsg()   {}
func (GetState) isRoomMsg()   {}
func (putState) isRoomMsg()   {}

// putState swaps the game state without racing the loop; test-only.
type putState struct {
	game physics.State
	done chan struct{}
}

type Welcome struct {
	Side           physics.Side
	ViewportOffset float64
	Game           physics.State
}

type View struct {
	NumClients int
	Game       physics.State
}

type client struct {
	id     string
	side   physics.Side
	outbox chan []byte
}

type Room struct {
	Code string

	inbox   chan Msg
	clients []*client
	game    physics.State

	ticker    *time.Ticker // non-nil only while playing
	goalTimer *time.Timer  // non-nil only during the goal pause

	tickEvery time.Duration
	goalPause time.Duration

	onEmpty func(code string)
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// New starts a room actor. onEmpty is invoked from the room goroutine the
// moment the client list empties, after the tick and goal timers are stopped;
// the registry uses it to drop the code.
func New(parent context.Context, code string, onEmpty func(code string), log *zap.Logger) *Room {
	return newRoom(parent, code, onEmpty, log, tickInterval, goalPauseDelay)
}

func newRoom(parent context.Context, code string, onEmpty func(code string), log *zap.Logger, tickEvery, goalPause time.Duration) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		Code:      code,
		inbox:     make(chan Msg, 64),
		game:      physics.NewState(),
		tickEvery: tickEvery,
		goalPause: goalPause,
		onEmpty:   onEmpty,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		// Nil channels while the ticker or timer is not armed; a select
		// never fires on a nil channel.
		var tickC, goalC <-chan time.Time
		if r.ticker != nil {
			tickC = r.ticker.C
		}
		if r.goalTimer != nil {
			goalC = r.goalTimer.C
		}

		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case <-tickC:
			r.tick()

		case <-goalC:
			r.goalTimer = nil
			r.resumeAfterGoal()

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)
			case Leave:
				r.removeClient(msg.ClientID)
			case PaddleMove:
				r.handlePaddleMove(msg)
			case Restart:
				r.restart()
			case GetState:
				msg.Reply <- View{NumClients: len(r.clients), Game: r.game.Clone()}
			case putState:
				r.game = msg.game
				close(msg.done)
			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	side := r.assignSide()
	c := &client{id: msg.ClientID, side: side, outbox: msg.Outbox}
	r.clients = append(r.clients, c)

	msg.Reply <- Welcome{
		Side:           side,
		ViewportOffset: side.ViewportOffset(),
		Game:           r.game.Clone(),
	}
	r.log.Info("client joined", zap.String("client", msg.ClientID), zap.String("side", string(side)))

	if r.game.Status == physics.StatusWaiting && r.sideOccupied(physics.SideLeft) && r.sideOccupied(physics.SideRight) {
		r.startGame()
	}
}

// assignSide balances joins toward the emptier side, ties going left. The
// room creator always lands on left because both counts are zero.
func (r *Room) assignSide() physics.Side {
	left, right := 0, 0
	for _, c := range r.clients {
		if c.side == physics.SideLeft {
			left++
		} else {
			right++
		}
	}
	if left <= right {
		return physics.SideLeft
	}
	return physics.SideRight
}

func (r *Room) sideOccupied(side physics.Side) bool {
	for _, c := range r.clients {
		if c.side == side {
			return true
		}
	}
	return false
}

func (r *Room) findClient(id string) *client {
	for _, c := range r.clients {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (r *Room) startGame() {
	if r.ticker != nil {
		return
	}
	r.game.Status = physics.StatusPlaying
	r.game.ResetPuck(physics.SideLeft)
	r.game.ResetPaddles()
	r.ticker = time.NewTicker(r.tickEvery)
	r.broadcast(protocol.NewGameStart(r.game))
	r.log.Info("game started")
}

func (r *Room) stopTick() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}

func (r *Room) stopGoalTimer() {
	if r.goalTimer != nil {
		r.goalTimer.Stop()
		r.goalTimer = nil
	}
}

func (r *Room) tick() {
	// The ticker keeps running through the goal pause; gameplay and
	// broadcasting stay quiet until the status is playing again.
	if r.game.Status != physics.StatusPlaying {
		return
	}
	events := physics.Step(&r.game)

	scored := false
	for _, ev := range events {
		switch ev.Type {
		case physics.EventWall:
			r.broadcast(protocol.NewSound("wall", ev.Intensity, ""))
		case physics.EventPaddle:
			r.broadcast(protocol.NewSound("paddle", ev.Intensity, ev.Side))
		case physics.EventGoal:
			scored = true
			r.broadcast(protocol.NewGoal(ev.Side, r.game.Score, r.game.Winner))
			if r.game.Status != physics.StatusFinished {
				r.goalTimer = time.NewTimer(r.goalPause)
			}
		}
	}

	// A goal's tick is announced by the goal message, not a snapshot.
	if !scored {
		r.broadcast(protocol.NewGameState(r.game))
	}
}

func (r *Room) resumeAfterGoal() {
	if r.game.Status != physics.StatusGoal {
		return
	}
	r.game.ResetPuck(r.game.LastGoalSide.Opponent())
	r.game.Status = physics.StatusPlaying
}

func (r *Room) handlePaddleMove(msg PaddleMove) {
	c := r.findClient(msg.ClientID)
	if c == nil {
		return
	}
	pad := r.game.Paddles[c.side]
	x, y := physics.ClampPaddle(c.side, msg.X, msg.Y)
	pad.LastVX = x - pad.X
	pad.LastVY = y - pad.Y
	pad.X = x
	pad.Y = y
	r.broadcast(protocol.NewPaddleUpdate(c.side, *pad))
}

func (r *Room) restart() {
	r.stopTick()
	r.stopGoalTimer()
	r.game = physics.NewState()
	if r.sideOccupied(physics.SideLeft) && r.sideOccupied(physics.SideRight) {
		r.startGame()
	}
}

// removeClient handles explicit leaves and disconnects identically: the last
// client out destroys the room, otherwise the match reverts to waiting and the
// peers are told.
func (r *Room) removeClient(id string) {
	idx := -1
	for i, c := range r.clients {
		if c.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	c := r.clients[idx]
	r.clients = append(r.clients[:idx], r.clients[idx+1:]...)
	close(c.outbox)
	r.log.Info("client left", zap.String("client", id))

	if len(r.clients) == 0 {
		r.stopTick()
		r.stopGoalTimer()
		r.onEmpty(r.Code)
		r.cancel()
		return
	}

	r.stopTick()
	r.stopGoalTimer()
	r.game.Status = physics.StatusWaiting
	r.broadcast(protocol.NewPlayerLeft())
}

func (r *Room) shutdown() {
	r.stopTick()
	r.stopGoalTimer()
	for _, c := range r.clients {
		close(c.outbox)
	}
	r.clients = nil
	r.cancel()
}
