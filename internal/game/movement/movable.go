// Package movement turns pathfinder results into per-tick displacement.
package movement

import "github.com/udisondev/gravemarch/internal/geom"

// PathFinder computes a waypoint path between two cells.
// *nav.Pathfinder satisfies it.
type PathFinder interface {
	FindPath(start, end geom.Point) []geom.Vector2
}

// Movable is a movement scheme owned by a single creature.
type Movable interface {
	// FindPath plans a route from position to destination, both in pixels.
	// An empty route leaves the scheme idle.
	FindPath(pf PathFinder, position, destination geom.Vector2)
	// GiveNewPosition returns the displacement to apply this tick.
	GiveNewPosition(current geom.Vector2, speed int) geom.Vector2
	GiveMovementDirection() Direction
	IsMoving() bool
	SaveData() Data
	LoadData(d *Data)
}

// Data is the persisted state of a movement scheme.
type Data struct {
	Path         []geom.Vector2 `json:"path,omitempty"`
	Step         int            `json:"step"`
	LastMovement geom.Vector2   `json:"last_movement"`
	IsMoving     bool           `json:"is_moving"`
}
