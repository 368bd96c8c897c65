package world

import (
	"github.com/udisondev/gravemarch/internal/game/movement"
	"github.com/udisondev/gravemarch/internal/geom"
)

// Object is anything placed on the map. IDs are unique per Manager.
type Object interface {
	ID() uint32
	Position() geom.Vector2
	// Bounds is the footprint used for spatial indexing and collisions.
	Bounds() geom.Rectangle
}

// Creature is an Object that moves and can be pushed apart from its neighbors.
type Creature interface {
	Object
	SetPosition(p geom.Vector2)
	Faction() Faction
	MovementState() movement.State
	MovementDirection() movement.Direction
	// SelectionBounds is the clickable area, larger than Bounds.
	SelectionBounds() geom.Rectangle
	IsDead() bool
	// ResetPosition puts the creature back where it was created.
	ResetPosition()
}

// Ticker is implemented by creatures that act on every simulation tick.
type Ticker interface {
	Tick()
}

// Faction groups creatures by side.
type Faction uint8

const (
	Undead Faction = iota
	Kingdom
	Plebs

	factionCount
)

var factionNames = [...]string{"undead", "kingdom", "plebs"}

func (f Faction) String() string {
	if f < factionCount {
		return factionNames[f]
	}
	return "unknown"
}

// ParseFaction is the inverse of Faction.String.
func ParseFaction(s string) (Faction, bool) {
	for i, name := range factionNames {
		if name == s {
			return Faction(i), true
		}
	}
	return 0, false
}

// Decoration is a static map object: a building, a tree, a rock.
// Interactable decorations share the creature index and take part in
// selection; the rest are only drawn.
type Decoration struct {
	id           uint32
	Name         string
	Rect         geom.Rectangle
	Interactable bool
}

// NewDecoration creates a decoration covering rect.
func NewDecoration(id uint32, name string, rect geom.Rectangle, interactable bool) *Decoration {
	return &Decoration{id: id, Name: name, Rect: rect, Interactable: interactable}
}

func (d *Decoration) ID() uint32 { return d.id }

// Position is the bottom center of the footprint, the point used for draw order.
func (d *Decoration) Position() geom.Vector2 {
	return geom.Vec(float64(d.Rect.X+d.Rect.Width/2), float64(d.Rect.Bottom()))
}

func (d *Decoration) Bounds() geom.Rectangle { return d.Rect }
