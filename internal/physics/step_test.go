package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playingState returns a state mid-rally with the puck centered, clear of
// both paddles.
func playingState() State {
	s := NewState()
	s.Status = StatusPlaying
	return s
}

func speed(p Puck) float64 {
	return math.Hypot(p.VX, p.VY)
}

func TestStep_NoOpUnlessPlaying(t *testing.T) {
	for _, status := range []Status{StatusWaiting, StatusGoal, StatusFinished} {
		s := NewState()
		s.Status = status
		s.Puck.VX = 10
		before := s.Puck

		events := Step(&s)

		assert.Empty(t, events)
		assert.Equal(t, before, s.Puck, "status %s must not advance the puck", status)
	}
}

func TestStep_FrictionReducesSpeed(t *testing.T) {
	s := playingState()
	s.Puck.VX = 10
	s.Puck.VY = 5
	before := speed(s.Puck)

	events := Step(&s)

	require.Empty(t, events)
	assert.Less(t, speed(s.Puck), before)
	assert.InDelta(t, 10*Friction, s.Puck.VX, 1e-9)
	assert.InDelta(t, 5*Friction, s.Puck.VY, 1e-9)
	assert.InDelta(t, WorldWidth/2+10, s.Puck.X, 1e-9)
}

func TestStep_SpeedClampPreservesDirection(t *testing.T) {
	s := playingState()
	s.Puck.VX = 60
	s.Puck.VY = 80

	Step(&s)

	assert.InDelta(t, MaxPuckSpeed, speed(s.Puck), 1e-9)
	// 3-4-5 triangle: direction unchanged.
	assert.InDelta(t, MaxPuckSpeed*0.6, s.Puck.VX, 1e-9)
	assert.InDelta(t, MaxPuckSpeed*0.8, s.Puck.VY, 1e-9)
}

func TestStep_TopWallBounce(t *testing.T) {
	s := playingState()
	s.Puck.Y = 20
	s.Puck.VY = -10

	events := Step(&s)

	require.Len(t, events, 1)
	assert.Equal(t, EventWall, events[0].Type)
	assert.InDelta(t, 10*Friction/MaxPuckSpeed, events[0].Intensity, 1e-9)

	assert.Equal(t, PuckRadius, s.Puck.Y, "puck clamped to the wall")
	assert.InDelta(t, 10*Friction*0.9, s.Puck.VY, 1e-9, "reflected with restitution")
}

func TestStep_BottomWallKeepsPuckInBounds(t *testing.T) {
	s := playingState()
	s.Puck.Y = WorldHeight - 10
	s.Puck.VY = 40

	Step(&s)

	assert.GreaterOrEqual(t, s.Puck.Y, PuckRadius)
	assert.LessOrEqual(t, s.Puck.Y, WorldHeight-PuckRadius)
	assert.Negative(t, s.Puck.VY)
}

func TestStep_GoalInsideMouth(t *testing.T) {
	s := playingState()
	s.Puck.X = 40
	s.Puck.Y = WorldHeight / 2
	s.Puck.VX = -20

	events := Step(&s)

	require.Len(t, events, 1)
	assert.Equal(t, EventGoal, events[0].Type)
	assert.Equal(t, SideRight, events[0].Side)

	assert.Equal(t, 1, s.Score[SideRight])
	assert.Equal(t, 0, s.Score[SideLeft])
	assert.Equal(t, StatusGoal, s.Status)
	assert.Equal(t, SideRight, s.LastGoalSide)
	assert.Empty(t, s.Winner)
}

func TestStep_CrossingOutsideMouthBounces(t *testing.T) {
	s := playingState()
	s.Puck.X = 40
	s.Puck.Y = 100 // well above the goal mouth
	s.Puck.VX = -20

	events := Step(&s)

	require.Len(t, events, 1)
	assert.Equal(t, EventWall, events[0].Type)
	assert.Equal(t, 0, s.Score[SideRight], "a wall bounce never scores")
	assert.Equal(t, StatusPlaying, s.Status)
	assert.Equal(t, PuckRadius, s.Puck.X)
	assert.Positive(t, s.Puck.VX)
}

func TestStep_MouthEdgeIsAWall(t *testing.T) {
	// Vertical center exactly on the mouth edge does not score.
	s := playingState()
	s.Puck.X = 40
	s.Puck.Y = (WorldHeight - GoalWidth) / 2
	s.Puck.VX = -20
	s.Puck.VY = 0

	events := Step(&s)

	require.Len(t, events, 1)
	assert.Equal(t, EventWall, events[0].Type)
	assert.Equal(t, 0, s.Score[SideRight])
}

func TestStep_RightGoalScoresLeft(t *testing.T) {
	s := playingState()
	s.Puck.X = WorldWidth - 40
	s.Puck.Y = WorldHeight / 2
	s.Puck.VX = 20

	events := Step(&s)

	require.Len(t, events, 1)
	assert.Equal(t, SideLeft, events[0].Side)
	assert.Equal(t, 1, s.Score[SideLeft])
}

func TestStep_WinningGoalFinishesMatch(t *testing.T) {
	s := playingState()
	s.Score[SideRight] = WinningScore - 1
	s.Puck.X = 40
	s.Puck.Y = WorldHeight / 2
	s.Puck.VX = -20

	Step(&s)

	assert.Equal(t, WinningScore, s.Score[SideRight])
	assert.Equal(t, SideRight, s.Winner)
	assert.Equal(t, StatusFinished, s.Status)

	// Finished is terminal: further steps do nothing.
	before := s.Puck
	assert.Empty(t, Step(&s))
	assert.Equal(t, before, s.Puck)
	assert.Equal(t, WinningScore, s.Score[SideRight])
}

func TestStep_PaddleCollisionReflectsAndAmplifies(t *testing.T) {
	s := playingState()
	// Heading left into the left paddle at its post (100, 300).
	s.Puck.X = 150
	s.Puck.Y = WorldHeight / 2
	s.Puck.VX = -5

	events := Step(&s)

	require.Len(t, events, 1)
	assert.Equal(t, EventPaddle, events[0].Type)
	assert.Equal(t, SideLeft, events[0].Side)

	// Integrate to 145, reflect off the normal, amplify 10%.
	vIn := 5 * Friction
	assert.InDelta(t, vIn*1.1, s.Puck.VX, 1e-9)
	assert.Greater(t, speed(s.Puck), vIn, "collision restores energy")
	// Pushed out along the normal to exactly the contact distance.
	assert.InDelta(t, 100+PaddleRadius+PuckRadius, s.Puck.X, 1e-9)
	assert.InDelta(t, speed(s.Puck)/MaxPuckSpeed, events[0].Intensity, 1e-9)
}

func TestStep_PaddleMomentumTransfer(t *testing.T) {
	s := playingState()
	s.Puck.X = 150
	s.Puck.Y = WorldHeight / 2
	s.Puck.VX = -5
	s.Paddles[SideLeft].LastVX = 10

	Step(&s)

	// Half the paddle displacement joins the reflected velocity before the
	// 10% amplification.
	want := (5*Friction + 10*0.5) * 1.1
	assert.InDelta(t, want, s.Puck.VX, 1e-9)
}

func TestStep_PaddleHitCanExceedNominalMax(t *testing.T) {
	// The intensity of a hard hit may transiently exceed 1; the clamp at the
	// start of the next step restores the bound.
	s := playingState()
	s.Puck.X = 150
	s.Puck.Y = WorldHeight / 2
	s.Puck.VX = -MaxPuckSpeed
	s.Paddles[SideLeft].LastVX = 30

	events := Step(&s)
	require.Len(t, events, 1)
	assert.Greater(t, speed(s.Puck), MaxPuckSpeed)

	Step(&s)
	assert.InDelta(t, MaxPuckSpeed, speed(s.Puck), 1e-9)
}

func TestClampPaddle(t *testing.T) {
	tests := []struct {
		name         string
		side         Side
		x, y         float64
		wantX, wantY float64
	}{
		{"left cannot cross center", SideLeft, 900, 300, WorldWidth/2 - PaddleRadius, 300},
		{"left cannot leave field", SideLeft, -10, 300, PaddleRadius, 300},
		{"right cannot cross center", SideRight, 100, 300, WorldWidth/2 + PaddleRadius, 300},
		{"right cannot leave field", SideRight, WorldWidth + 50, 300, WorldWidth - PaddleRadius, 300},
		{"clamped to top", SideLeft, 200, -5, 200, PaddleRadius},
		{"clamped to bottom", SideLeft, 200, 700, 200, WorldHeight - PaddleRadius},
		{"in-bounds untouched", SideRight, 800, 200, 800, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := ClampPaddle(tt.side, tt.x, tt.y)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestResetPuck(t *testing.T) {
	s := NewState()
	s.Puck.VX = 12

	s.ResetPuck(SideRight)
	assert.Equal(t, WorldWidth*0.75, s.Puck.X)
	assert.Equal(t, WorldHeight/2, s.Puck.Y)
	assert.Zero(t, s.Puck.VX)
	assert.Zero(t, s.Puck.VY)

	s.ResetPuck(SideLeft)
	assert.Equal(t, WorldWidth*0.25, s.Puck.X)
}

func TestSideHelpers(t *testing.T) {
	assert.Equal(t, SideRight, SideLeft.Opponent())
	assert.Equal(t, SideLeft, SideRight.Opponent())
	assert.Zero(t, SideLeft.ViewportOffset())
	assert.Equal(t, ViewportWidth, SideRight.ViewportOffset())
}
