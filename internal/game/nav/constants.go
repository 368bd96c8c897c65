package nav

// Cell geometry. One pathfinding cell covers 16×16 pixels.
const (
	CellWidth  = 16
	CellHeight = 16

	// Offset from a cell's top-left pixel to its center.
	CellCenterOffsetX = CellWidth / 2
	CellCenterOffsetY = CellHeight / 2
)

// Destination guard. Destinations closer to the map edge than these margins
// (in cells) are rejected so creatures never path off the map.
const (
	DefaultMarginLeft   = 2
	DefaultMarginTop    = 4
	DefaultMarginRight  = 2
	DefaultMarginBottom = 2
)

// Goal snapping never scans into the last cells on the right and bottom edges.
const goalSnapInset = 3

// Uniform cost of a step between two orthogonal neighbors.
const stepCost = 1.0
