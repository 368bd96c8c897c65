package movement

import "github.com/udisondev/gravemarch/internal/geom"

// StepCounter wraps a movement scheme and sums the distance it produced.
type StepCounter struct {
	Movable
	walked float64
}

// NewStepCounter wraps m. A nil m wraps a fresh PlayerMovement.
func NewStepCounter(m Movable) *StepCounter {
	if m == nil {
		m = NewPlayerMovement()
	}
	return &StepCounter{Movable: m}
}

func (c *StepCounter) GiveNewPosition(current geom.Vector2, speed int) geom.Vector2 {
	d := c.Movable.GiveNewPosition(current, speed)
	c.walked += d.Length()
	return d
}

// WalkedPixels returns the total distance covered since creation.
func (c *StepCounter) WalkedPixels() float64 {
	return c.walked
}
