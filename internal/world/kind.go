package world

import "github.com/udisondev/gravemarch/internal/geom"

// Kind is the template a Unit is built from.
type Kind struct {
	Name    string
	Faction Faction
	Speed   int
	MaxLife int

	BoundarySize   geom.Point
	BoundaryShift  geom.Point
	SelectionSize  geom.Point
	SelectionShift geom.Point
}

// Default footprints relative to a unit's position (its feet).
var (
	DefaultBoundarySize   = geom.Pt(24, 24)
	DefaultBoundaryShift  = geom.Pt(-12, -16)
	DefaultSelectionSize  = geom.Pt(48, 64)
	DefaultSelectionShift = geom.Pt(-24, -40)

	largeBoundarySize  = geom.Pt(36, 36)
	largeBoundaryShift = geom.Pt(-18, -24)
)

func kind(name string, f Faction, speed, life int) Kind {
	return Kind{
		Name:           name,
		Faction:        f,
		Speed:          speed,
		MaxLife:        life,
		BoundarySize:   DefaultBoundarySize,
		BoundaryShift:  DefaultBoundaryShift,
		SelectionSize:  DefaultSelectionSize,
		SelectionShift: DefaultSelectionShift,
	}
}

func largeKind(name string, f Faction, speed, life int) Kind {
	k := kind(name, f, speed, life)
	k.BoundarySize = largeBoundarySize
	k.BoundaryShift = largeBoundaryShift
	return k
}

// Kinds lists every creature the simulation can spawn, by name.
var Kinds = map[string]Kind{
	"necromancer":    kind("necromancer", Undead, 12, 500),
	"skeleton":       kind("skeleton", Undead, 10, 100),
	"skeleton_elite": kind("skeleton_elite", Undead, 10, 200),
	"skeleton_horse": largeKind("skeleton_horse", Undead, 20, 150),
	"zombie":         kind("zombie", Undead, 5, 150),
	"meatball":       largeKind("meatball", Undead, 5, 200),
	"knight":         kind("knight", Kingdom, 8, 120),
	"kings_guard":    kind("kings_guard", Kingdom, 7, 200),
	"king":           kind("king", Kingdom, 10, 10000),
	"prince":         kind("prince", Kingdom, 10, 6000),
	"male_peasant":   kind("male_peasant", Plebs, 10, 24),
	"female_peasant": kind("female_peasant", Plebs, 10, 20),
}

// Boundary is the collision footprint relative to the unit's position.
func (k Kind) Boundary() geom.Rectangle {
	return geom.RectAt(k.BoundaryShift, k.BoundarySize)
}
