package nav

import (
	"log/slog"
	"slices"

	"github.com/udisondev/gravemarch/internal/geom"
)

// PathStatus explains why FindPathStatus returned the path it did.
type PathStatus uint8

const (
	PathFound PathStatus = iota
	PathSamePoint
	PathOutOfBounds
	PathNoStart
	PathNoGoal
	PathUnreachable
	PathNoGrid
)

var pathStatusNames = [...]string{
	PathFound:       "found",
	PathSamePoint:   "same point",
	PathOutOfBounds: "out of bounds",
	PathNoStart:     "no start node",
	PathNoGoal:      "no goal node",
	PathUnreachable: "unreachable",
	PathNoGrid:      "no grid loaded",
}

func (s PathStatus) String() string {
	if int(s) < len(pathStatusNames) {
		return pathStatusNames[s]
	}
	return "unknown"
}

// Margins is the band along each map edge, in cells, where destinations are refused.
type Margins struct {
	Left, Top, Right, Bottom int
}

// DefaultMargins keeps destinations 2 cells from the left, right and bottom
// edges and 4 cells from the top edge.
func DefaultMargins() Margins {
	return Margins{
		Left:   DefaultMarginLeft,
		Top:    DefaultMarginTop,
		Right:  DefaultMarginRight,
		Bottom: DefaultMarginBottom,
	}
}

// Option configures a Pathfinder.
type Option func(*Pathfinder)

// WithEdgeMargins replaces the default destination guard.
func WithEdgeMargins(m Margins) Option {
	return func(p *Pathfinder) {
		p.margins = m
	}
}

// Pathfinder runs A* over the walkable cells of a Grid.
// Not safe for concurrent use: every search mutates the shared node state.
type Pathfinder struct {
	margins Margins

	width  int
	height int
	index  []int32 // cell → node handle, noNode for blocked cells
	nodes  []searchNode
	open   []int32
}

// NewPathfinder creates a pathfinder without a grid. Call LoadGrid before searching.
func NewPathfinder(opts ...Option) *Pathfinder {
	p := &Pathfinder{margins: DefaultMargins()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadGrid rebuilds the navigation graph from g. Every walkable cell gets a
// node; the second pass links each node to its walkable cardinal neighbors.
func (p *Pathfinder) LoadGrid(g *Grid) {
	p.width = g.Width()
	p.height = g.Height()
	p.index = make([]int32, p.width*p.height)
	p.nodes = make([]searchNode, 0, p.width*p.height-g.BlockedCount())
	p.open = p.open[:0]

	for y := range p.height {
		for x := range p.width {
			if g.GetIndex(x, y) != 0 {
				p.index[y*p.width+x] = noNode
				continue
			}
			p.index[y*p.width+x] = int32(len(p.nodes))
			p.nodes = append(p.nodes, newSearchNode(x, y))
		}
	}

	for i := range p.nodes {
		n := &p.nodes[i]
		n.neighbors[neighborAbove] = p.nodeAt(n.x, n.y-1)
		n.neighbors[neighborBelow] = p.nodeAt(n.x, n.y+1)
		n.neighbors[neighborLeft] = p.nodeAt(n.x-1, n.y)
		n.neighbors[neighborRight] = p.nodeAt(n.x+1, n.y)
	}

	slog.Debug("pathfinding grid loaded",
		"width", p.width,
		"height", p.height,
		"walkable", len(p.nodes))
}

// Loaded reports whether a grid has been loaded.
func (p *Pathfinder) Loaded() bool {
	return p.index != nil
}

// Width returns the width of the loaded grid in cells.
func (p *Pathfinder) Width() int { return p.width }

// Height returns the height of the loaded grid in cells.
func (p *Pathfinder) Height() int { return p.height }

// Walkable reports whether cell has a search node.
func (p *Pathfinder) Walkable(cell geom.Point) bool {
	return p.nodeAt(cell.X, cell.Y) != noNode
}

// nodeAt returns the node handle of (x, y), noNode when the cell is blocked
// or outside the grid.
func (p *Pathfinder) nodeAt(x, y int) int32 {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return noNode
	}
	return p.index[y*p.width+x]
}

// FindPath searches a path between two cells and returns it as pixel
// waypoints. The start cell itself is not part of the result. An empty
// result means there is nothing to do: the cells are equal, the destination
// lies outside the playable area, or it cannot be reached.
func (p *Pathfinder) FindPath(start, end geom.Point) []geom.Vector2 {
	path, _ := p.FindPathStatus(start, end)
	return path
}

// FindPathStatus is FindPath with the reason for the result.
func (p *Pathfinder) FindPathStatus(start, end geom.Point) ([]geom.Vector2, PathStatus) {
	if start == end {
		return nil, PathSamePoint
	}
	if !p.Loaded() {
		return nil, PathNoGrid
	}
	if !p.destinationAllowed(end) {
		return nil, PathOutOfBounds
	}

	start = p.clampToGrid(start)
	start = p.snapToNode(start, p.width-1, p.height-1)
	end = p.snapToNode(end, p.width-goalSnapInset, p.height-goalSnapInset)

	p.resetSearch()

	startNode := p.nodeAt(start.X, start.Y)
	if startNode == noNode {
		return nil, PathNoStart
	}
	endNode := p.nodeAt(end.X, end.Y)
	if endNode == noNode {
		return nil, PathNoGoal
	}
	if startNode == endNode {
		return nil, PathSamePoint
	}

	s := &p.nodes[startNode]
	s.inOpen = true
	s.g = 0
	s.f = heuristic(start.X, start.Y, end.X, end.Y)
	p.open = append(p.open, startNode)

	for len(p.open) > 0 {
		best := p.bestOpen()
		current := p.open[best]
		if current == endNode {
			return p.finalPath(startNode, endNode), PathFound
		}

		cur := &p.nodes[current]
		for _, nb := range cur.neighbors {
			if nb == noNode {
				continue
			}
			n := &p.nodes[nb]
			g := cur.g + stepCost
			h := heuristic(n.x, n.y, end.X, end.Y)

			if !n.inOpen && !n.inClosed {
				n.g = g
				n.f = g + h
				n.parent = current
				n.inOpen = true
				p.open = append(p.open, nb)
			} else if n.g > g {
				n.g = g
				n.f = g + h
				n.parent = current
			}
		}

		p.open = slices.Delete(p.open, best, best+1)
		cur.inOpen = false
		cur.inClosed = true
	}

	return nil, PathUnreachable
}

// bestOpen returns the position in the open list of the node with the
// strictly lowest f. Ties go to the node that entered the list first; g is
// not consulted.
func (p *Pathfinder) bestOpen() int {
	best := 0
	for i := 1; i < len(p.open); i++ {
		if p.nodes[p.open[i]].f < p.nodes[p.open[best]].f {
			best = i
		}
	}
	return best
}

func (p *Pathfinder) resetSearch() {
	p.open = p.open[:0]
	for i := range p.nodes {
		p.nodes[i].resetSearch()
	}
}

func (p *Pathfinder) destinationAllowed(end geom.Point) bool {
	if end.X < 0 || end.Y < 0 || end.X >= p.width || end.Y >= p.height {
		return false
	}
	m := p.margins
	return end.X >= m.Left && end.X <= p.width-m.Right &&
		end.Y >= m.Top && end.Y <= p.height-m.Bottom
}

func (p *Pathfinder) clampToGrid(c geom.Point) geom.Point {
	c.X = min(max(c.X, 0), p.width-1)
	c.Y = min(max(c.Y, 0), p.height-1)
	return c
}

// snapToNode moves c onto the nearest walkable cell along the four axes.
// Four scans walk outward in lock-step (+X, -X, +Y, -Y) and the first hit
// wins. When no scan can move any further c is returned unchanged.
// A blocked cell already past maxX or maxY is not scanned at all: goals in
// the last columns and rows allowed by the edge margins stay unreachable.
func (p *Pathfinder) snapToNode(c geom.Point, maxX, maxY int) geom.Point {
	if p.nodeAt(c.X, c.Y) != noNode {
		return c
	}
	if c.X > maxX || c.Y > maxY {
		return c
	}

	xPos, xNeg, yPos, yNeg := c.X, c.X, c.Y, c.Y
	for {
		moved := false
		if xPos < maxX {
			xPos++
			moved = true
		}
		if xNeg > 0 {
			xNeg--
			moved = true
		}
		if yPos < maxY {
			yPos++
			moved = true
		}
		if yNeg > 0 {
			yNeg--
			moved = true
		}
		if !moved {
			return c
		}

		switch {
		case p.nodeAt(xPos, c.Y) != noNode:
			return geom.Pt(xPos, c.Y)
		case p.nodeAt(xNeg, c.Y) != noNode:
			return geom.Pt(xNeg, c.Y)
		case p.nodeAt(c.X, yPos) != noNode:
			return geom.Pt(c.X, yPos)
		case p.nodeAt(c.X, yNeg) != noNode:
			return geom.Pt(c.X, yNeg)
		}
	}
}

// finalPath walks the parent chain from the goal back to the start, turns
// the cells into pixel centers and drops every waypoint the creature can
// skip by walking straight.
func (p *Pathfinder) finalPath(startNode, endNode int32) []geom.Vector2 {
	var cells []int32
	for n := endNode; n != startNode; n = p.nodes[n].parent {
		cells = append(cells, n)
	}
	slices.Reverse(cells)

	points := make([]geom.Vector2, len(cells))
	for i, h := range cells {
		n := &p.nodes[h]
		points[i] = CellCenter(geom.Pt(n.x, n.y))
	}
	return p.simplify(points)
}

// simplify keeps only the points where straight-line visibility from the
// current anchor is lost. The anchor then moves to the last visible point.
// The final point is always kept.
func (p *Pathfinder) simplify(points []geom.Vector2) []geom.Vector2 {
	if len(points) == 0 {
		return nil
	}

	out := make([]geom.Vector2, 0, 8)
	anchor := 0
	for i := 1; i < len(points); {
		if i-1 > anchor && !p.RayCast(points[anchor], points[i]) {
			out = append(out, points[i-1])
			anchor = i - 1
			continue
		}
		i++
	}
	return append(out, points[len(points)-1])
}

// CellOf returns the cell containing the pixel position v.
func CellOf(v geom.Vector2) geom.Point {
	return geom.Pt(int(v.X/CellWidth), int(v.Y/CellHeight))
}

// CellCenter returns the pixel center of cell c.
func CellCenter(c geom.Point) geom.Vector2 {
	return geom.Vec(
		float64(c.X*CellWidth+CellCenterOffsetX),
		float64(c.Y*CellHeight+CellCenterOffsetY),
	)
}
