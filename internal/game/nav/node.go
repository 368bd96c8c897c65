package nav

import "math"

// noNode marks an absent node: a blocked cell, a missing neighbor or an
// unset parent.
const noNode int32 = -1

// Neighbor slots of a search node. Diagonal movement is not modeled.
const (
	neighborAbove = iota
	neighborBelow
	neighborLeft
	neighborRight
)

// searchNode is the per-walkable-cell record used by A*.
// Nodes live in Pathfinder.nodes and refer to each other by index.
type searchNode struct {
	x, y      int
	neighbors [4]int32

	parent   int32
	inOpen   bool
	inClosed bool
	g        float64 // distance traveled from the start
	f        float64 // g + estimated distance to the goal
}

func newSearchNode(x, y int) searchNode {
	return searchNode{
		x:         x,
		y:         y,
		neighbors: [4]int32{noNode, noNode, noNode, noNode},
		parent:    noNode,
		g:         math.Inf(1),
		f:         math.Inf(1),
	}
}

func (n *searchNode) resetSearch() {
	n.parent = noNode
	n.inOpen = false
	n.inClosed = false
	n.g = math.Inf(1)
	n.f = math.Inf(1)
}

// heuristic is the Euclidean distance between two cells.
func heuristic(ax, ay, bx, by int) float64 {
	return math.Hypot(float64(bx-ax), float64(by-ay))
}
