package nav

import (
	"errors"
	"fmt"
)

// ErrGridMismatch is returned when a collision layer does not have the
// dimensions of the grid it is merged into. It signals inconsistent map data
// and is not recoverable by the caller; map loading must abort.
var ErrGridMismatch = errors.New("collision layer does not fit the pathfinding grid")

// Grid tells the pathfinder where creatures can walk.
// Cells are addressed (x, y); true means blocked.
// Cells only ever change from walkable to blocked.
type Grid struct {
	width  int
	height int
	cells  []bool // row-major, index y*width + x
}

// NewGrid creates a fully walkable grid of width × height cells.
func NewGrid(width, height int) *Grid {
	width = max(width, 0)
	height = max(height, 0)
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}
}

// NewGridForMap sizes a grid for an isometric tile map of mapWidth × mapHeight
// tiles. Rows of isometric tiles overlap by half a tile, hence the halving of
// the vertical extent.
func NewGridForMap(mapWidth, mapHeight, tileWidth, tileHeight int) *Grid {
	height := (mapHeight - 1) * tileHeight / CellHeight / 2
	width := (mapWidth - 1) * tileWidth / CellWidth
	return NewGrid(width, height)
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// CreateCollisions merges a collision layer into the grid with a per-cell OR:
// a cell blocked in the layer becomes blocked in the grid, a walkable cell in
// the layer leaves the grid untouched. layer is indexed [y][x] and must hold
// exactly Height rows of Width cells, otherwise ErrGridMismatch is returned
// and the grid is not modified.
func (g *Grid) CreateCollisions(layer [][]bool) error {
	cells := 0
	for _, row := range layer {
		cells += len(row)
	}
	if cells != g.width*g.height || len(layer) != g.height {
		return fmt.Errorf("%w: layer has %d rows / %d cells, grid is %dx%d",
			ErrGridMismatch, len(layer), cells, g.width, g.height)
	}
	for y, row := range layer {
		if len(row) != g.width {
			return fmt.Errorf("%w: row %d has %d cells, grid width is %d",
				ErrGridMismatch, y, len(row), g.width)
		}
	}

	for y, row := range layer {
		base := y * g.width
		for x, blocked := range row {
			if blocked {
				g.cells[base+x] = true
			}
		}
	}
	return nil
}

// GetIndex returns 1 if the cell is blocked and 0 if it is walkable.
// No bounds checking: callers guarantee 0 <= x < Width and 0 <= y < Height.
func (g *Grid) GetIndex(x, y int) int {
	if g.cells[y*g.width+x] {
		return 1
	}
	return 0
}

// Blocked reports whether (x, y) is blocked. Cells outside the grid count as blocked.
func (g *Grid) Blocked(x, y int) bool {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return true
	}
	return g.cells[y*g.width+x]
}

// BlockedCount returns the number of blocked cells.
func (g *Grid) BlockedCount() int {
	n := 0
	for _, b := range g.cells {
		if b {
			n++
		}
	}
	return n
}
