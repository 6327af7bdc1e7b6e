package physics

import "math"

type EventType string

const (
	EventWall   EventType = "wall"
	EventGoal   EventType = "goal"
	EventPaddle EventType = "paddle"
)

// Event describes something that happened during a step. Side is the scorer
// for goals and the owning paddle for paddle hits; Intensity is the puck
// speed relative to MaxPuckSpeed at the moment of impact.
type Event struct {
	Type      EventType
	Side      Side
	Intensity float64
}

// Step advances the simulation by one fixed tick, mutating s in place and
// returning the events that occurred. It is a no-op unless the game is
// playing. A goal ends the step early: no paddle resolution follows it and
// the resulting state should not be broadcast as a regular snapshot.
//
// Collisions are resolved by closest-approach overlap, not swept volumes, so
// an extremely fast puck can tunnel past a paddle within one tick. That is a
// known approximation.
func Step(s *State) []Event {
	if s.Status != StatusPlaying {
		return nil
	}

	var events []Event
	p := &s.Puck

	p.X += p.VX
	p.Y += p.VY

	p.VX *= Friction
	p.VY *= Friction

	speed := math.Hypot(p.VX, p.VY)
	if speed > MaxPuckSpeed {
		p.VX = p.VX / speed * MaxPuckSpeed
		p.VY = p.VY / speed * MaxPuckSpeed
		speed = MaxPuckSpeed
	}

	// Top and bottom walls.
	wallHit := false
	if p.Y-p.Radius < 0 {
		p.Y = p.Radius
		p.VY = -p.VY * wallRestitution
		wallHit = true
	}
	if p.Y+p.Radius > WorldHeight {
		p.Y = WorldHeight - p.Radius
		p.VY = -p.VY * wallRestitution
		wallHit = true
	}
	if wallHit {
		events = append(events, Event{Type: EventWall, Intensity: speed / MaxPuckSpeed})
	}

	goalTop := (WorldHeight - GoalWidth) / 2
	goalBottom := (WorldHeight + GoalWidth) / 2

	// Left boundary: a crossing inside the goal mouth scores for the right
	// side, anywhere else it is a wall.
	if p.X-p.Radius < 0 {
		if p.Y > goalTop && p.Y < goalBottom {
			return append(events, s.scoreGoal(SideRight))
		}
		p.X = p.Radius
		p.VX = -p.VX * wallRestitution
		events = append(events, Event{Type: EventWall, Intensity: speed / MaxPuckSpeed})
	}

	// Right boundary, scoring for the left side.
	if p.X+p.Radius > WorldWidth {
		if p.Y > goalTop && p.Y < goalBottom {
			return append(events, s.scoreGoal(SideLeft))
		}
		p.X = WorldWidth - p.Radius
		p.VX = -p.VX * wallRestitution
		events = append(events, Event{Type: EventWall, Intensity: speed / MaxPuckSpeed})
	}

	for _, side := range []Side{SideLeft, SideRight} {
		pad := s.Paddles[side]
		dx := p.X - pad.X
		dy := p.Y - pad.Y
		dist := math.Hypot(dx, dy)
		minDist := p.Radius + pad.Radius
		if dist >= minDist {
			continue
		}
		if dist == 0 {
			// Exactly concentric; no contact normal exists. The next move
			// or tick separates them.
			continue
		}

		nx := dx / dist
		ny := dy / dist

		// Push the puck out along the contact normal.
		overlap := minDist - dist
		p.X += nx * overlap
		p.Y += ny * overlap

		// Reflect the normal component: v' = v - 2(v·n)n.
		rel := p.VX*nx + p.VY*ny
		p.VX -= 2 * rel * nx
		p.VY -= 2 * rel * ny

		// Transfer half the paddle's last displacement, then amplify 10%
		// to restore energy bled off by friction.
		p.VX += pad.LastVX * 0.5
		p.VY += pad.LastVY * 0.5
		p.VX *= 1.1
		p.VY *= 1.1

		hit := math.Hypot(p.VX, p.VY) / MaxPuckSpeed
		events = append(events, Event{Type: EventPaddle, Side: side, Intensity: hit})
	}

	return events
}

func (s *State) scoreGoal(scorer Side) Event {
	s.Score[scorer]++
	s.LastGoalSide = scorer
	s.Status = StatusGoal
	if s.Score[scorer] >= WinningScore {
		s.Winner = scorer
		s.Status = StatusFinished
	}
	return Event{Type: EventGoal, Side: scorer}
}

// ClampPaddle confines a requested paddle position to the side's half of the
// field and the vertical bounds.
func ClampPaddle(side Side, x, y float64) (float64, float64) {
	half := WorldWidth / 2
	if side == SideLeft {
		x = math.Max(PaddleRadius, math.Min(half-PaddleRadius, x))
	} else {
		x = math.Max(half+PaddleRadius, math.Min(WorldWidth-PaddleRadius, x))
	}
	y = math.Max(PaddleRadius, math.Min(WorldHeight-PaddleRadius, y))
	return x, y
}
