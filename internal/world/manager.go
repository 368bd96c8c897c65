package world

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/udisondev/gravemarch/internal/geom"
)

// ErrOutOfMap is returned when a creature's footprint is not fully on the map.
var ErrOutOfMap = errors.New("object outside the map")

const (
	// Quadtrees extend this far past the top and left map edges so
	// creatures that step off the map stay indexed until they are reset.
	quadtreeMargin = 128

	// DefaultQuadtreeUpdateRate is how often per second creatures are re-homed.
	DefaultQuadtreeUpdateRate = 15.0

	// Necromancer command range used by Select.
	commandRangeWidth  = 1280
	commandRangeHeight = 640
)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithQuadtreeUpdateRate sets how often per second Update re-homes creatures.
func WithQuadtreeUpdateRate(perSecond float64) ManagerOption {
	return func(m *Manager) {
		m.throttle = NewThrottle(perSecond)
	}
}

// WithIDGenerator shares gen instead of creating a fresh generator.
func WithIDGenerator(gen *IDGenerator) ManagerOption {
	return func(m *Manager) {
		m.IDs = gen
	}
}

// Manager owns every object on a map and the two spatial indexes over them:
// creatures and buildings in one, purely visual decorations in the other.
// Not safe for concurrent use; the simulation loop drives it.
type Manager struct {
	// IDs hands out object IDs for this map.
	IDs *IDGenerator

	mapRect      geom.Rectangle
	interactable *Quadtree
	textures     *Quadtree
	creatures    []Creature
	byFaction    [factionCount][]Creature
	throttle     *Throttle
}

// NewManager creates a manager for a map of mapSize pixels.
func NewManager(mapSize geom.Point, opts ...ManagerOption) *Manager {
	treeBounds := geom.Rect(-quadtreeMargin, -quadtreeMargin,
		mapSize.X+quadtreeMargin, mapSize.Y+quadtreeMargin)

	m := &Manager{
		IDs:          NewIDGenerator(),
		mapRect:      geom.Rect(0, 0, mapSize.X, mapSize.Y),
		interactable: NewQuadtree(treeBounds),
		textures:     NewQuadtree(treeBounds),
		throttle:     NewThrottle(DefaultQuadtreeUpdateRate),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MapRect returns the map area in pixels.
func (m *Manager) MapRect() geom.Rectangle {
	return m.mapRect
}

// AddCreature registers c and indexes it.
func (m *Manager) AddCreature(c Creature) error {
	if !m.mapRect.Contains(c.Bounds()) {
		return fmt.Errorf("adding creature %d at %v: %w", c.ID(), c.Bounds(), ErrOutOfMap)
	}
	m.creatures = append(m.creatures, c)
	m.byFaction[c.Faction()] = append(m.byFaction[c.Faction()], c)
	m.interactable.Insert(c)
	return nil
}

// RemoveCreature forgets c. Returns false when it was not registered.
func (m *Manager) RemoveCreature(c Creature) bool {
	i := slices.IndexFunc(m.creatures, func(o Creature) bool { return o.ID() == c.ID() })
	if i < 0 {
		return false
	}
	m.creatures = slices.Delete(m.creatures, i, i+1)

	f := c.Faction()
	if j := slices.IndexFunc(m.byFaction[f], func(o Creature) bool { return o.ID() == c.ID() }); j >= 0 {
		m.byFaction[f] = slices.Delete(m.byFaction[f], j, j+1)
	}
	m.interactable.Delete(c)
	return true
}

// AddDecoration indexes a static object. Returns false when it lies
// outside the indexed area.
func (m *Manager) AddDecoration(d *Decoration) bool {
	if d.Interactable {
		return m.interactable.Insert(d)
	}
	return m.textures.Insert(d)
}

// Creatures returns every registered creature. The slice must not be modified.
func (m *Manager) Creatures() []Creature {
	return m.creatures
}

// CreaturesOf returns the creatures of faction f. The slice must not be modified.
func (m *Manager) CreaturesOf(f Faction) []Creature {
	if f >= factionCount {
		return nil
	}
	return m.byFaction[f]
}

// Update advances every creature by one tick and puts back the ones that
// walked off the map. The creature index is refreshed at the throttled rate.
func (m *Manager) Update(elapsed time.Duration) {
	for _, c := range m.creatures {
		if t, ok := c.(Ticker); ok {
			t.Tick()
		}
		if !m.mapRect.ContainsVector(c.Position()) {
			c.ResetPosition()
		}
	}

	if !m.throttle.Ready(elapsed) {
		return
	}
	for _, obj := range m.interactable.Update() {
		c, ok := obj.(Creature)
		if !ok {
			continue
		}
		c.ResetPosition()
		if !m.interactable.Insert(c) {
			slog.Warn("creature outside the map after reset, removing",
				"id", c.ID(),
				"position", c.Position())
			m.RemoveCreature(c)
			continue
		}
		slog.Debug("creature left the index, position reset",
			"id", c.ID(),
			"position", c.Position())
	}
}

// GetObjectsInRectangle returns creatures and buildings stored near r.
// The result can include objects that do not intersect r.
func (m *Manager) GetObjectsInRectangle(r geom.Rectangle) []Object {
	return m.interactable.GetObjectsInRectangle(r)
}

// GetCreaturesInEllipse returns the creatures whose position lies in e.
func (m *Manager) GetCreaturesInEllipse(e geom.Ellipse) []Creature {
	var out []Creature
	for _, obj := range m.interactable.GetObjectsInRectangle(e.BoundingRectangle()) {
		if c, ok := obj.(Creature); ok && e.Contains(c.Position()) {
			out = append(out, c)
		}
	}
	return out
}

// VisibleObjects returns every object of both indexes intersecting view,
// ordered by Y so that objects further down are drawn last.
func (m *Manager) VisibleObjects(view geom.Rectangle) []Object {
	var out []Object
	for _, tree := range []*Quadtree{m.interactable, m.textures} {
		for _, obj := range tree.GetObjectsInRectangle(view) {
			if obj.Bounds().Intersects(view) {
				out = append(out, obj)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b Object) int {
		ay, by := a.Position().Y, b.Position().Y
		switch {
		case ay < by:
			return -1
		case ay > by:
			return 1
		}
		return 0
	})
	return out
}

// Select returns the living creatures whose selection area intersects the
// rectangle spanned by origin and destination. Undead win: enemies are only
// returned when no undead creature is hit. With a non-nil player the
// candidates must also stand within the player's command range.
func (m *Manager) Select(origin, destination geom.Point, player Creature) []Creature {
	area := geom.Span(origin, destination)

	var commandRange geom.Ellipse
	if player != nil {
		commandRange = geom.Ellipse{
			Center: player.Position().Point().Vector(),
			Width:  commandRangeWidth,
			Height: commandRangeHeight,
		}
	}

	var undead, others []Creature
	for _, obj := range m.interactable.GetObjectsInRectangle(area) {
		c, ok := obj.(Creature)
		if !ok || c.IsDead() || !area.Intersects(c.SelectionBounds()) {
			continue
		}
		if player != nil && !commandRange.Contains(c.Position()) {
			continue
		}
		if c.Faction() == Undead {
			undead = append(undead, c)
		} else {
			others = append(others, c)
		}
	}
	if len(undead) > 0 {
		return undead
	}
	return others
}

// Walk visits the nodes of the creature index. Meant for debugging output.
func (m *Manager) Walk(fn func(bounds geom.Rectangle, depth int, objects []Object)) {
	m.interactable.Walk(fn)
}

// Clear forgets every object. ID numbering continues.
func (m *Manager) Clear() {
	m.creatures = nil
	m.byFaction = [factionCount][]Creature{}
	m.interactable.Clear()
	m.textures.Clear()
}
