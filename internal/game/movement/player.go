package movement

import (
	"slices"

	"github.com/udisondev/gravemarch/internal/game/nav"
	"github.com/udisondev/gravemarch/internal/geom"
)

// SpeedModifier scales a creature's speed into pixels per tick.
const SpeedModifier = 0.25

// PlayerMovement follows a pathfinder route one waypoint at a time.
// Not safe for concurrent use; each creature owns its scheme.
type PlayerMovement struct {
	path         []geom.Vector2
	step         int
	lastMovement geom.Vector2
	moving       bool
}

var _ Movable = (*PlayerMovement)(nil)

// NewPlayerMovement returns an idle scheme.
func NewPlayerMovement() *PlayerMovement {
	return &PlayerMovement{}
}

// FindPath replaces the current route. Positions are in pixels and are
// converted to cells before the search.
func (m *PlayerMovement) FindPath(pf PathFinder, position, destination geom.Vector2) {
	m.step = 0
	m.path = pf.FindPath(nav.CellOf(position), nav.CellOf(destination))
	m.moving = len(m.path) > 0
}

// GiveNewPosition returns the step toward the current waypoint. Once the
// waypoint is closer than one step the next one becomes the target; after
// the last waypoint the scheme stops. An idle scheme returns the zero vector.
func (m *PlayerMovement) GiveNewPosition(current geom.Vector2, speed int) geom.Vector2 {
	if !m.moving {
		return geom.Vector2{}
	}

	next := m.path[m.step]
	dir := next.Sub(current).Normalize()
	stride := SpeedModifier * float64(speed)

	if next.Distance(current) < stride {
		if m.step == len(m.path)-1 {
			m.moving = false
		} else {
			m.step++
		}
	}

	m.lastMovement = dir
	return dir.Scale(stride)
}

// GiveMovementDirection returns the facing of the last step taken.
func (m *PlayerMovement) GiveMovementDirection() Direction {
	return DirectionOf(m.lastMovement)
}

func (m *PlayerMovement) IsMoving() bool {
	return m.moving
}

// SaveData snapshots the scheme. Route fields are only filled while moving.
func (m *PlayerMovement) SaveData() Data {
	d := Data{IsMoving: m.moving}
	if m.moving {
		d.Path = slices.Clone(m.path)
		d.Step = m.step
		d.LastMovement = m.lastMovement
	}
	return d
}

// LoadData restores a snapshot taken by SaveData. A nil snapshot is ignored.
// A snapshot whose step does not index its path restores as idle.
func (m *PlayerMovement) LoadData(d *Data) {
	if d == nil {
		return
	}
	m.moving = d.IsMoving
	if !m.moving {
		return
	}
	if d.Step < 0 || d.Step >= len(d.Path) {
		m.moving = false
		return
	}
	m.path = slices.Clone(d.Path)
	m.step = d.Step
	m.lastMovement = d.LastMovement
}
