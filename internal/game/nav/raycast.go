package nav

import (
	"math"

	"github.com/udisondev/gravemarch/internal/geom"
)

// RayCast walks from `from` toward `to` in one-pixel steps and reports
// whether every visited pixel lies in a walkable cell. The walk stops once
// the goal is within one pixel.
func (p *Pathfinder) RayCast(from, to geom.Vector2) bool {
	dir := to.Sub(from).Normalize()
	cur := from

	// Bounded by the initial distance; float drift can not stall the walk.
	for steps := int(math.Ceil(from.Distance(to))) + 1; steps > 0 && cur.Distance(to) > 1; steps-- {
		if !p.walkablePixel(cur) {
			return false
		}
		cur = cur.Add(dir)
	}
	return true
}

// AllWalkable reports whether every pixel of r, right and bottom edge
// included, lies in a walkable cell. Used to validate spawn positions.
// Pixels outside the grid are not walkable.
func (p *Pathfinder) AllWalkable(r geom.Rectangle) bool {
	if r.X < 0 || r.Y < 0 {
		return false
	}
	x0, x1 := r.X/CellWidth, (r.X+r.Width)/CellWidth
	y0, y1 := r.Y/CellHeight, (r.Y+r.Height)/CellHeight
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			if p.nodeAt(x, y) == noNode {
				return false
			}
		}
	}
	return true
}

func (p *Pathfinder) walkablePixel(v geom.Vector2) bool {
	// Truncation toward zero, the same rounding positions get everywhere else.
	return p.nodeAt(int(v.X)/CellWidth, int(v.Y)/CellHeight) != noNode
}
