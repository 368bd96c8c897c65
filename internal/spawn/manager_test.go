package spawn

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/gravemarch/internal/db"
	"github.com/udisondev/gravemarch/internal/game/movement"
	"github.com/udisondev/gravemarch/internal/game/nav"
	"github.com/udisondev/gravemarch/internal/geom"
	"github.com/udisondev/gravemarch/internal/mapdata"
	"github.com/udisondev/gravemarch/internal/world"
)

// 20x10 cells, 320x160 pixels.
var testMap = `
name: keep
width: 20
height: 10
layers:
  - name: floor
    rows:
` + strings.Repeat("      - \"....................\"\n", 10) + `
areas:
  - name: Burg
    type: castle
    rect: {x: 0, y: 0, width: 256, height: 128}
    density: 1
    chance: 1
buildings:
  - name: tower
    rect: {x: 240, y: 16, width: 32, height: 48}
  - name: far away
    rect: {x: 4000, y: 4000, width: 32, height: 32}
decorations:
  - name: tree
    rect: {x: 288, y: 128, width: 16, height: 16}
`

type fixture struct {
	md    *mapdata.Map
	pf    *nav.Pathfinder
	world *world.Manager
	spawn *Manager
}

func newFixture(t *testing.T, seed uint64) *fixture {
	t.Helper()
	md, err := mapdata.Parse([]byte(testMap))
	require.NoError(t, err)
	grid, err := md.Grid()
	require.NoError(t, err)

	pf := nav.NewPathfinder(nav.WithEdgeMargins(nav.Margins{}))
	pf.LoadGrid(grid)

	w := world.NewManager(md.SizeInPixels(), world.WithQuadtreeUpdateRate(0))
	return &fixture{
		md:    md,
		pf:    pf,
		world: w,
		spawn: NewManager(w, pf, rand.New(rand.NewPCG(seed, seed))),
	}
}

// blockedLeft refuses every footprint reaching into x < 160.
type blockedLeft struct{}

func (blockedLeft) AllWalkable(r geom.Rectangle) bool { return r.X >= 160 }

type nowhere struct{}

func (nowhere) AllWalkable(geom.Rectangle) bool { return false }

func TestManager_Spawn(t *testing.T) {
	f := newFixture(t, 1)

	u, err := f.spawn.Spawn("skeleton", geom.Vec(100, 80), movement.E)
	require.NoError(t, err)
	assert.Equal(t, "skeleton", u.Name())
	assert.Equal(t, movement.E, u.MovementDirection())
	assert.Equal(t, []world.Creature{u}, f.world.Creatures())

	_, err = f.spawn.Spawn("dragon", geom.Vec(100, 80), movement.E)
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = f.spawn.Spawn("knight", geom.Vec(2, 2), movement.E)
	assert.ErrorIs(t, err, world.ErrOutOfMap)
	assert.Len(t, f.world.Creatures(), 1)
}

func TestManager_WalkedPixelsCountsUndead(t *testing.T) {
	f := newFixture(t, 1)
	sk, err := f.spawn.Spawn("skeleton", geom.Vec(100, 80), movement.E)
	require.NoError(t, err)
	kn, err := f.spawn.Spawn("knight", geom.Vec(100, 120), movement.E)
	require.NoError(t, err)

	sk.Move(f.pf, geom.Vec(250, 80))
	kn.Move(f.pf, geom.Vec(250, 120))
	for range 4 {
		f.world.Update(time.Second / 60)
	}

	// only the skeleton is counted: 4 steps of 10 * 0.25
	assert.InDelta(t, 10, f.spawn.WalkedPixels(), 1e-9)
}

func TestManager_SpawnRandomKeepsFootprintWalkable(t *testing.T) {
	f := newFixture(t, 3)
	f.spawn.ground = blockedLeft{}

	for range 20 {
		u, err := f.spawn.SpawnRandom("zombie")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, u.Bounds().X, 160)
		assert.True(t, f.world.MapRect().Contains(u.Bounds()))
	}
}

func TestManager_SpawnRandomErrors(t *testing.T) {
	f := newFixture(t, 3)

	_, err := f.spawn.SpawnRandom("dragon")
	assert.ErrorIs(t, err, ErrUnknownKind)

	f.spawn.ground = nowhere{}
	_, err = f.spawn.SpawnRandom("zombie")
	assert.ErrorIs(t, err, ErrNoRoom)
	assert.Empty(t, f.world.Creatures())
}

func TestManager_SpawnUnitsIsRepeatable(t *testing.T) {
	positions := func() []geom.Vector2 {
		f := newFixture(t, 42)
		n, err := f.spawn.SpawnUnits(map[string]int{"skeleton": 3, "knight": 2, "zombie": 0})
		require.NoError(t, err)
		require.Equal(t, 5, n)

		var out []geom.Vector2
		for _, c := range f.world.Creatures() {
			out = append(out, c.Position())
		}
		return out
	}

	assert.Equal(t, positions(), positions())
}

func TestManager_AddStatics(t *testing.T) {
	f := newFixture(t, 1)

	assert.Equal(t, 2, f.spawn.AddStatics(f.md))

	objs := f.world.VisibleObjects(f.world.MapRect())
	require.Len(t, objs, 2)
	// tower bottom 64, tree bottom 144
	assert.Equal(t, "tower", objs[0].(*world.Decoration).Name)
	assert.Equal(t, "tree", objs[1].(*world.Decoration).Name)

	// only the tower takes part in selection
	inter := f.world.GetObjectsInRectangle(f.world.MapRect())
	require.Len(t, inter, 1)
	assert.Equal(t, "tower", inter[0].(*world.Decoration).Name)
}

func TestManager_PopulateAreas(t *testing.T) {
	f := newFixture(t, 1)

	n, err := f.spawn.PopulateAreas(f.md)
	require.NoError(t, err)

	// castle lattice: x = 64, 128, 192; y = 32, 64, 96
	assert.Equal(t, 9, n)
	for _, c := range f.world.Creatures() {
		assert.Equal(t, world.Kingdom, c.Faction())
	}
}

func TestManager_SnapshotRestore(t *testing.T) {
	f := newFixture(t, 1)
	sk, err := f.spawn.Spawn("skeleton", geom.Vec(100, 80), movement.E)
	require.NoError(t, err)
	kn, err := f.spawn.Spawn("knight", geom.Vec(200, 120), movement.W)
	require.NoError(t, err)
	dead, err := f.spawn.Spawn("zombie", geom.Vec(60, 120), movement.W)
	require.NoError(t, err)
	dead.Kill()

	sk.Move(f.pf, geom.Vec(280, 80))
	for range 3 {
		f.world.Update(time.Second / 60)
	}

	save := f.spawn.Snapshot(5, f.md)
	assert.Equal(t, 5, save.Slot)
	assert.Equal(t, "keep", save.MapName)
	assert.Equal(t, f.md.Checksum[:], save.MapChecksum)
	require.Len(t, save.Objects, 2, "dead units are not saved")

	g := newFixture(t, 2)
	require.Equal(t, 2, g.spawn.Restore(save.Objects))

	restored := g.world.Creatures()
	require.Len(t, restored, 2)

	rs := restored[0].(*world.Unit)
	assert.Equal(t, sk.ID(), rs.ID())
	assert.Equal(t, sk.Position(), rs.Position())
	assert.True(t, rs.Scheme().IsMoving())
	assert.Equal(t, movement.E, rs.MovementDirection())

	rk := restored[1].(*world.Unit)
	assert.Equal(t, kn.ID(), rk.ID())
	assert.False(t, rk.Scheme().IsMoving())

	assert.Greater(t, g.world.IDs.Next(), kn.ID())
}

func TestManager_RestoreSkipsUnknownKinds(t *testing.T) {
	f := newFixture(t, 1)
	save := f.spawn.Snapshot(1, f.md)
	save.Objects = append(save.Objects,
		dbObject(9, "dragon", geom.Vec(100, 80)),
		dbObject(10, "knight", geom.Vec(1, 1)),
		dbObject(11, "knight", geom.Vec(100, 80)),
	)

	assert.Equal(t, 1, f.spawn.Restore(save.Objects))
	require.Len(t, f.world.Creatures(), 1)
	assert.Equal(t, uint32(11), f.world.Creatures()[0].ID())
}

func dbObject(id uint32, kind string, pos geom.Vector2) db.ObjectState {
	return db.ObjectState{ObjectID: id, Kind: kind, Position: pos}
}
