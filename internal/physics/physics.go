package physics

// World constants. The client renders from these same numbers, so they are
// part of the wire contract, not tunables.
const (
	WorldWidth    = 1200.0
	WorldHeight   = 600.0
	ViewportWidth = 600.0

	PaddleRadius = 40.0
	PuckRadius   = 25.0
	GoalWidth    = 150.0

	Friction     = 0.99
	MaxPuckSpeed = 25.0
	WinningScore = 7
)

const wallRestitution = 0.9

type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

func (s Side) Opponent() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// ViewportOffset is the world x-coordinate a side's client renders from.
func (s Side) ViewportOffset() float64 {
	if s == SideRight {
		return ViewportWidth
	}
	return 0
}

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusGoal     Status = "goal"
	StatusFinished Status = "finished"
)

type Puck struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
}

// Paddle is positioned by its owning client's move messages; LastVX/LastVY
// hold the displacement of the most recent accepted move and are consumed by
// Step to transfer paddle momentum into the puck.
type Paddle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	LastVX float64 `json:"lastVx"`
	LastVY float64 `json:"lastVy"`
}

type State struct {
	Puck         Puck             `json:"puck"`
	Paddles      map[Side]*Paddle `json:"paddles"`
	Score        map[Side]int     `json:"score"`
	Status       Status           `json:"gameStatus"`
	LastGoalSide Side             `json:"lastGoalSide,omitempty"`
	Winner       Side             `json:"winner,omitempty"`
}

func NewState() State {
	s := State{
		Puck:   Puck{X: WorldWidth / 2, Y: WorldHeight / 2, Radius: PuckRadius},
		Score:  map[Side]int{SideLeft: 0, SideRight: 0},
		Status: StatusWaiting,
	}
	s.Paddles = map[Side]*Paddle{}
	s.ResetPaddles()
	return s
}

// ResetPuck places the puck at rest in the serving side's half.
func (s *State) ResetPuck(serving Side) {
	x := WorldWidth * 0.75
	if serving == SideLeft {
		x = WorldWidth * 0.25
	}
	s.Puck = Puck{X: x, Y: WorldHeight / 2, Radius: PuckRadius}
}

// Clone returns a deep copy safe to hand outside the goroutine that owns s.
func (s State) Clone() State {
	c := s
	c.Paddles = make(map[Side]*Paddle, len(s.Paddles))
	for side, p := range s.Paddles {
		pc := *p
		c.Paddles[side] = &pc
	}
	c.Score = make(map[Side]int, len(s.Score))
	for side, n := range s.Score {
		c.Score[side] = n
	}
	return c
}

func (s *State) ResetPaddles() {
	s.Paddles[SideLeft] = &Paddle{X: 100, Y: WorldHeight / 2, Radius: PaddleRadius}
	s.Paddles[SideRight] = &Paddle{X: WorldWidth - 100, Y: WorldHeight / 2, Radius: PaddleRadius}
}
