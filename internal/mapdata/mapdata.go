// Package mapdata loads map descriptions: the collision layers the
// pathfinding grid is built from, the spawn areas and the buildings.
package mapdata

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/gravemarch/internal/game/nav"
	"github.com/udisondev/gravemarch/internal/geom"
)

var (
	// ErrInvalidMap is returned for structurally broken map descriptions.
	ErrInvalidMap = errors.New("invalid map")
	// ErrUnknownAreaType is returned for an area type other than village, castle or graveyard.
	ErrUnknownAreaType = errors.New("unknown area type")
	// ErrAreaRange is returned when an area's density or chance is outside [0, 1].
	ErrAreaRange = errors.New("area density or chance out of range")
)

// Collision layer glyphs.
const (
	walkableGlyph = '.'
	blockedGlyph  = '#'
)

// Map is a parsed map description. Width and Height are in grid cells.
// A map exported from an isometric tile map may give Tiles instead; the
// grid size is then derived from the tile layout.
type Map struct {
	Name        string     `yaml:"name"`
	Width       int        `yaml:"width"`
	Height      int        `yaml:"height"`
	Tiles       *Tiles     `yaml:"tiles"`
	Layers      []Layer    `yaml:"layers"`
	Areas       []Area     `yaml:"areas"`
	Buildings   []Building `yaml:"buildings"`
	Decorations []Building `yaml:"decorations"`

	// Checksum is the blake2b-256 digest of the raw description.
	Checksum [blake2b.Size256]byte `yaml:"-"`
}

// Layer is one collision layer. Each row is a string of '.' (walkable) and
// '#' (blocked) cells.
type Layer struct {
	Name string   `yaml:"name"`
	Rows []string `yaml:"rows"`
}

// Tiles is the layout of the isometric tile map a description came from.
// Columns and Rows count tiles, Width and Height are tile sizes in pixels.
type Tiles struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
}

// Building is a named static object on the map, positioned in pixels.
type Building struct {
	Name string         `yaml:"name"`
	Rect geom.Rectangle `yaml:"rect"`
}

// Load reads and parses the map description at path.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading map %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates a map description.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing map: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	m.Checksum = blake2b.Sum256(data)
	return &m, nil
}

func (m *Map) validate() error {
	if t := m.Tiles; t != nil {
		g := nav.NewGridForMap(t.Columns, t.Rows, t.Width, t.Height)
		switch {
		case m.Width == 0 && m.Height == 0:
			m.Width, m.Height = g.Width(), g.Height()
		case m.Width != g.Width() || m.Height != g.Height():
			return fmt.Errorf("%w: size %dx%d does not match tile layout %dx%d",
				ErrInvalidMap, m.Width, m.Height, g.Width(), g.Height())
		}
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidMap, m.Width, m.Height)
	}
	if len(m.Layers) == 0 {
		return fmt.Errorf("%w: no collision layers", ErrInvalidMap)
	}
	for _, l := range m.Layers {
		for y, row := range l.Rows {
			for x, c := range row {
				if c != walkableGlyph && c != blockedGlyph {
					return fmt.Errorf("%w: layer %q cell (%d,%d): unexpected %q",
						ErrInvalidMap, l.Name, x, y, c)
				}
			}
		}
	}
	for i := range m.Areas {
		if err := m.Areas[i].validate(); err != nil {
			return fmt.Errorf("area %d: %w", i, err)
		}
	}
	return nil
}

// ChecksumHex returns the checksum as a hex string, for logs.
func (m *Map) ChecksumHex() string {
	return hex.EncodeToString(m.Checksum[:])
}

// SizeInPixels returns the map extent in pixels.
func (m *Map) SizeInPixels() geom.Point {
	return geom.Pt(m.Width*nav.CellWidth, m.Height*nav.CellHeight)
}

// Grid builds the pathfinding grid and merges every collision layer into
// it. A layer whose shape differs from the map size fails with
// nav.ErrGridMismatch.
func (m *Map) Grid() (*nav.Grid, error) {
	g := nav.NewGrid(m.Width, m.Height)
	for _, l := range m.Layers {
		if err := g.CreateCollisions(l.collisions()); err != nil {
			return nil, fmt.Errorf("merging layer %q: %w", l.Name, err)
		}
	}
	return g, nil
}

// collisions converts the rows to a [y][x] blocked layer.
func (l Layer) collisions() [][]bool {
	out := make([][]bool, len(l.Rows))
	for y, row := range l.Rows {
		cells := make([]bool, len(row))
		for x := range len(row) {
			cells[x] = row[x] == blockedGlyph
		}
		out[y] = cells
	}
	return out
}

// InArea reports whether pos lies in any area of type t.
func (m *Map) InArea(t AreaType, pos geom.Vector2) bool {
	for _, a := range m.Areas {
		if a.Type == t && a.Contains(pos) {
			return true
		}
	}
	return false
}
