package mapdata

import (
	"fmt"
	"math/rand/v2"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/gravemarch/internal/game/movement"
	"github.com/udisondev/gravemarch/internal/geom"
)

// AreaType decides what an area spawns.
type AreaType uint8

const (
	Village   AreaType = iota // peasants only
	Castle                    // kings guards
	Graveyard                 // spawns nothing; undead respawn here
)

var areaTypeNames = [...]string{"village", "castle", "graveyard"}

func (t AreaType) String() string {
	if int(t) < len(areaTypeNames) {
		return areaTypeNames[t]
	}
	return "unknown"
}

// ParseAreaType is the inverse of AreaType.String.
func ParseAreaType(s string) (AreaType, error) {
	for i, name := range areaTypeNames {
		if name == s {
			return AreaType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAreaType, s)
}

func (t *AreaType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseAreaType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t AreaType) MarshalYAML() (any, error) {
	return t.String(), nil
}

// Spawn spacing in pixels at density 1.
const (
	spawnSpacingX = 64
	spawnSpacingY = 32
)

// Area is a rectangle of the map that gets an initial population.
type Area struct {
	Name    string         `yaml:"name"`
	Type    AreaType       `yaml:"type"`
	Rect    geom.Rectangle `yaml:"rect"`
	Density float64        `yaml:"density"`
	Chance  float64        `yaml:"chance"`
}

func (a *Area) validate() error {
	if a.Density < 0 || a.Density > 1 || a.Chance < 0 || a.Chance > 1 {
		return fmt.Errorf("%w: density %.2f, chance %.2f", ErrAreaRange, a.Density, a.Chance)
	}
	return nil
}

// Contains reports whether pos, truncated to whole pixels, lies in the area.
func (a *Area) Contains(pos geom.Vector2) bool {
	return a.Rect.ContainsPoint(pos.Point())
}

// WalkChecker tells whether a footprint stands entirely on walkable cells.
// *nav.Pathfinder satisfies it.
type WalkChecker interface {
	AllWalkable(r geom.Rectangle) bool
}

// Spawn is one creature to create.
type Spawn struct {
	Kind      string
	Position  geom.Vector2
	Direction movement.Direction
}

// Population lays a lattice over the area, 64/density pixels apart
// horizontally and 32/density vertically, and keeps each lattice point with
// probability Chance. footprint is the creature boundary relative to its
// position; points where it would touch a blocked cell are skipped.
func (a *Area) Population(pf WalkChecker, rng *rand.Rand, footprint geom.Rectangle) []Spawn {
	if a.Density <= 0 {
		return nil
	}
	stepX := spawnSpacingX / a.Density
	stepY := spawnSpacingY / a.Density

	var out []Spawn
	for y := float64(a.Rect.Y) + stepY; y < float64(a.Rect.Bottom()); y += stepY {
		for x := float64(a.Rect.X) + stepX; x < float64(a.Rect.Right()); x += stepX {
			if a.Chance < rng.Float64() {
				continue
			}
			pos := geom.Vec(x, y)

			var kind string
			switch a.Type {
			case Village:
				kind = "female_peasant"
				if rng.Float64() < 0.5 {
					kind = "male_peasant"
				}
			case Castle:
				kind = "kings_guard"
			default:
				continue
			}
			dir := movement.Direction(rng.IntN(8))

			if !pf.AllWalkable(footprint.Offset(pos.Point())) {
				continue
			}
			out = append(out, Spawn{Kind: kind, Position: pos, Direction: dir})
		}
	}
	return out
}
