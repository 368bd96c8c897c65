// Package spawn places creatures and static objects on a map.
package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/udisondev/gravemarch/internal/db"
	"github.com/udisondev/gravemarch/internal/game/movement"
	"github.com/udisondev/gravemarch/internal/geom"
	"github.com/udisondev/gravemarch/internal/mapdata"
	"github.com/udisondev/gravemarch/internal/world"
)

var (
	// ErrUnknownKind is returned for a creature kind missing from world.Kinds.
	ErrUnknownKind = errors.New("unknown creature kind")
	// ErrNoRoom is returned when no walkable spot was found for a creature.
	ErrNoRoom = errors.New("no walkable spot")
)

// placementAttempts bounds the random placements tried by SpawnRandom.
const placementAttempts = 64

// Manager creates units and registers them with the world.
// Undead units get a StepCounter scheme so the distance the army walked
// can be reported.
type Manager struct {
	world    *world.Manager
	ground   mapdata.WalkChecker
	rng      *rand.Rand
	counters []*movement.StepCounter
}

// NewManager creates a spawn manager. ground decides where footprints fit.
func NewManager(w *world.Manager, ground mapdata.WalkChecker, rng *rand.Rand) *Manager {
	return &Manager{world: w, ground: ground, rng: rng}
}

// Spawn creates a unit of the named kind at pos and adds it to the world.
func (m *Manager) Spawn(kindName string, pos geom.Vector2, dir movement.Direction) (*world.Unit, error) {
	k, ok := world.Kinds[kindName]
	if !ok {
		return nil, fmt.Errorf("spawning %q: %w", kindName, ErrUnknownKind)
	}

	var (
		scheme  movement.Movable
		counter *movement.StepCounter
	)
	if k.Faction == world.Undead {
		counter = movement.NewStepCounter(nil)
		scheme = counter
	}

	u := world.NewUnit(m.world.IDs.Next(), k, pos, dir, scheme)
	if err := m.world.AddCreature(u); err != nil {
		return nil, fmt.Errorf("spawning %q: %w", kindName, err)
	}
	if counter != nil {
		m.counters = append(m.counters, counter)
	}

	slog.Debug("unit spawned",
		"id", u.ID(),
		"kind", kindName,
		"position", pos)
	return u, nil
}

// SpawnRandom places a unit of the named kind on a random spot where its
// whole footprint is walkable.
func (m *Manager) SpawnRandom(kindName string) (*world.Unit, error) {
	k, ok := world.Kinds[kindName]
	if !ok {
		return nil, fmt.Errorf("spawning %q: %w", kindName, ErrUnknownKind)
	}

	area := m.world.MapRect()
	footprint := k.Boundary()
	for range placementAttempts {
		pos := geom.Pt(area.X+m.rng.IntN(area.Width), area.Y+m.rng.IntN(area.Height))
		if !area.Contains(footprint.Offset(pos)) || !m.ground.AllWalkable(footprint.Offset(pos)) {
			continue
		}
		return m.Spawn(kindName, pos.Vector(), movement.Direction(m.rng.IntN(8)))
	}
	return nil, fmt.Errorf("spawning %q after %d attempts: %w", kindName, placementAttempts, ErrNoRoom)
}

// SpawnUnits places count units of each kind at random spots. Kinds are
// processed in name order so a seeded run is repeatable.
func (m *Manager) SpawnUnits(counts map[string]int) (int, error) {
	spawned := 0
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		for range counts[name] {
			if _, err := m.SpawnRandom(name); err != nil {
				return spawned, err
			}
			spawned++
		}
	}
	return spawned, nil
}

// AddStatics registers the map's buildings and decorations. Buildings take
// part in selection, decorations are only drawn.
func (m *Manager) AddStatics(md *mapdata.Map) int {
	added := 0
	add := func(b mapdata.Building, interactable bool) {
		d := world.NewDecoration(m.world.IDs.Next(), b.Name, b.Rect, interactable)
		if !m.world.AddDecoration(d) {
			slog.Warn("static object outside the map, skipped",
				"name", b.Name,
				"rect", b.Rect)
			return
		}
		added++
	}
	for _, b := range md.Buildings {
		add(b, true)
	}
	for _, b := range md.Decorations {
		add(b, false)
	}
	return added
}

// PopulateAreas fills the map's areas with their inhabitants.
func (m *Manager) PopulateAreas(md *mapdata.Map) (int, error) {
	footprint := world.Kinds["male_peasant"].Boundary()
	spawned := 0
	for i := range md.Areas {
		a := &md.Areas[i]
		for _, s := range a.Population(m.ground, m.rng, footprint) {
			if _, err := m.Spawn(s.Kind, s.Position, s.Direction); err != nil {
				if errors.Is(err, world.ErrOutOfMap) {
					continue
				}
				return spawned, fmt.Errorf("populating area %q: %w", a.Name, err)
			}
			spawned++
		}
		slog.Debug("area populated", "area", a.Name, "type", a.Type)
	}
	return spawned, nil
}

// Restore recreates saved units with their original IDs and movement state.
// Units of unknown kinds are skipped.
func (m *Manager) Restore(objects []db.ObjectState) int {
	restored := 0
	for _, o := range objects {
		if _, ok := world.Kinds[o.Kind]; !ok {
			slog.Warn("skipping saved unit of unknown kind", "id", o.ObjectID, "kind", o.Kind)
			continue
		}

		dir := movement.S
		if !o.Movement.LastMovement.IsZero() {
			dir = movement.DirectionOf(o.Movement.LastMovement)
		}

		m.world.IDs.SetOnce(o.ObjectID)
		u, err := m.Spawn(o.Kind, o.Position, dir)
		if err != nil {
			m.world.IDs.ClearOnce()
			slog.Warn("skipping saved unit", "id", o.ObjectID, "err", err)
			continue
		}
		u.Scheme().LoadData(&o.Movement)
		restored++
	}
	return restored
}

// Snapshot captures every unit for saving in slot.
func (m *Manager) Snapshot(slot int, md *mapdata.Map) db.Save {
	s := db.Save{
		Slot:        slot,
		MapName:     md.Name,
		MapChecksum: md.Checksum[:],
		SavedAt:     time.Now(),
	}
	for _, c := range m.world.Creatures() {
		u, ok := c.(*world.Unit)
		if !ok || u.IsDead() {
			continue
		}
		s.Objects = append(s.Objects, db.ObjectState{
			ObjectID: u.ID(),
			Kind:     u.Name(),
			Position: u.Position(),
			Movement: u.Scheme().SaveData(),
		})
	}
	return s
}

// WalkedPixels returns the distance walked by all undead units so far.
func (m *Manager) WalkedPixels() float64 {
	var total float64
	for _, c := range m.counters {
		total += c.WalkedPixels()
	}
	return total
}
