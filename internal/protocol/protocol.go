// Package protocol defines the JSON messages exchanged over a game
// connection, one struct per message type, tagged by the "type" field.
package protocol

import "airhockey/internal/physics"

// Inbound message types.
const (
	TypeCreateRoom  = "create_room"
	TypeJoinRoom    = "join_room"
	TypeLeaveRoom   = "leave_room"
	TypePaddleMove  = "paddle_move"
	TypeRestartGame = "restart_game"
)

// Outbound message types.
const (
	TypeRoomCreated  = "room_created"
	TypeRoomJoined   = "room_joined"
	TypeRoomError    = "room_error"
	TypeGameStart    = "game_start"
	TypeGameState    = "game_state"
	TypePaddleUpdate = "paddle_update"
	TypeGoal         = "goal"
	TypePlayerLeft   = "player_left"
	TypeSound        = "sound"
)

// ClientMessage is the single inbound shape; which fields are meaningful
// depends on Type. Anything with an unrecognized Type is discarded.
type ClientMessage struct {
	Type   string  `json:"type"`
	RoomID string  `json:"roomId,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
}

// RoomWelcome answers both create_room and join_room; Type distinguishes them.
type RoomWelcome struct {
	Type           string        `json:"type"`
	RoomID         string        `json:"roomId"`
	ClientID       string        `json:"clientId"`
	Side           physics.Side  `json:"side"`
	ViewportOffset float64       `json:"viewportOffset"`
	WorldWidth     float64       `json:"worldWidth"`
	WorldHeight    float64       `json:"worldHeight"`
	ViewportWidth  float64       `json:"viewportWidth"`
	Game           physics.State `json:"game"`
}

type RoomError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewRoomError(message string) RoomError {
	return RoomError{Type: TypeRoomError, Message: message}
}

type GameStart struct {
	Type string        `json:"type"`
	Game physics.State `json:"game"`
}

func NewGameStart(game physics.State) GameStart {
	return GameStart{Type: TypeGameStart, Game: game}
}

type GameState struct {
	Type string        `json:"type"`
	Game physics.State `json:"game"`
}

func NewGameState(game physics.State) GameState {
	return GameState{Type: TypeGameState, Game: game}
}

type PaddleUpdate struct {
	Type   string         `json:"type"`
	Side   physics.Side   `json:"side"`
	Paddle physics.Paddle `json:"paddle"`
}

func NewPaddleUpdate(side physics.Side, paddle physics.Paddle) PaddleUpdate {
	return PaddleUpdate{Type: TypePaddleUpdate, Side: side, Paddle: paddle}
}

type Goal struct {
	Type   string               `json:"type"`
	Scorer physics.Side         `json:"scorer"`
	Score  map[physics.Side]int `json:"score"`
	Winner physics.Side         `json:"winner,omitempty"`
}

func NewGoal(scorer physics.Side, score map[physics.Side]int, winner physics.Side) Goal {
	return Goal{Type: TypeGoal, Scorer: scorer, Score: score, Winner: winner}
}

type PlayerLeft struct {
	Type    string `json:"type"`
	Waiting bool   `json:"waiting"`
}

func NewPlayerLeft() PlayerLeft {
	return PlayerLeft{Type: TypePlayerLeft, Waiting: true}
}

// Sound is a rendering hint; Side is set only for paddle hits.
type Sound struct {
	Type      string       `json:"type"`
	Sound     string       `json:"sound"`
	Intensity float64      `json:"intensity"`
	Side      physics.Side `json:"side,omitempty"`
}

func NewSound(sound string, intensity float64, side physics.Side) Sound {
	return Sound{Type: TypeSound, Sound: sound, Intensity: intensity, Side: side}
}
