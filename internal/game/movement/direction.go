package movement

import "github.com/udisondev/gravemarch/internal/geom"

// Direction is where a creature faces. The view is isometric, so N points
// to the upper right of the screen.
type Direction uint8

const (
	W Direction = iota
	NW
	N
	NE
	E
	SE
	S
	SW
)

var directionNames = [...]string{"W", "NW", "N", "NE", "E", "SE", "S", "SW"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "Direction(?)"
}

// State is the coarse activity of a creature.
type State uint8

const (
	Idle State = iota
	Moving
	Attacking
	Dying
	Special
)

var stateNames = [...]string{"Idle", "Moving", "Attacking", "Dying", "Special"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(?)"
}

// Bucket thresholds for a unit direction vector.
const (
	sin67 = 0.92 // |X| beyond this is pure east/west
	sin22 = 0.38 // |X| below this is pure north/south
)

// DirectionOf buckets a movement vector into one of the eight facings.
// Y grows downward, so a positive Y is a southern direction.
func DirectionOf(v geom.Vector2) Direction {
	switch {
	case v.X < -sin67:
		return W
	case v.X > sin67:
		return E
	case v.Y > 0:
		switch {
		case v.X < -sin22:
			return SW
		case v.X > sin22:
			return SE
		default:
			return S
		}
	default:
		switch {
		case v.X < -sin22:
			return NW
		case v.X > sin22:
			return NE
		default:
			return N
		}
	}
}
