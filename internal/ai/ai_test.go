package ai

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/gravemarch/internal/game/movement"
	"github.com/udisondev/gravemarch/internal/game/nav"
	"github.com/udisondev/gravemarch/internal/geom"
	"github.com/udisondev/gravemarch/internal/world"
)

const orderInterval = 2 * time.Second

// newWorld builds an open 128x32 cell map, 2048x512 pixels.
func newWorld(t *testing.T) (*world.Manager, *nav.Pathfinder) {
	t.Helper()
	pf := nav.NewPathfinder(nav.WithEdgeMargins(nav.Margins{}))
	pf.LoadGrid(nav.NewGrid(128, 32))
	return world.NewManager(geom.Pt(2048, 512), world.WithQuadtreeUpdateRate(0)), pf
}

func add(t *testing.T, w *world.Manager, kind string, x, y float64) *world.Unit {
	t.Helper()
	u := world.NewUnit(w.IDs.Next(), world.Kinds[kind], geom.Vec(x, y), movement.S, nil)
	require.NoError(t, w.AddCreature(u))
	return u
}

func destination(u *world.Unit) geom.Vector2 {
	path := u.Scheme().SaveData().Path
	if len(path) == 0 {
		return geom.Vector2{}
	}
	return path[len(path)-1]
}

func TestCommander_WaitsForInterval(t *testing.T) {
	w, pf := newWorld(t)
	u := add(t, w, "knight", 1000, 256)
	c := NewCommander(w, pf, rand.New(rand.NewPCG(1, 1)), orderInterval)

	assert.Zero(t, c.Tick(orderInterval/2))
	assert.False(t, u.Scheme().IsMoving())

	assert.Equal(t, 1, c.Tick(orderInterval/2))
	assert.True(t, u.Scheme().IsMoving())

	// the interval starts over
	assert.Zero(t, c.Tick(orderInterval/2))
	assert.Equal(t, 1, c.Orders())
}

func TestCommander_SquadFollowsLeader(t *testing.T) {
	w, pf := newWorld(t)
	leader := add(t, w, LeaderKind, 400, 200)
	near1 := add(t, w, "skeleton", 440, 200)
	near2 := add(t, w, "zombie", 380, 260)
	far := add(t, w, "skeleton", 1500, 200)
	c := NewCommander(w, pf, rand.New(rand.NewPCG(3, 4)), orderInterval)

	require.Equal(t, 4, c.Tick(orderInterval))

	for _, u := range []*world.Unit{leader, near1, near2, far} {
		assert.True(t, u.Scheme().IsMoving(), "unit %d", u.ID())
	}
	target := destination(leader)
	assert.Equal(t, target, destination(near1))
	assert.Equal(t, target, destination(near2))
	assert.NotEqual(t, target, destination(far))
}

func TestCommander_SkipsBusyAndDead(t *testing.T) {
	w, pf := newWorld(t)
	busy := add(t, w, "knight", 1000, 256)
	busy.Move(pf, geom.Vec(1800, 100))
	before := busy.Scheme().SaveData()

	dead := add(t, w, "knight", 600, 256)
	dead.Kill()

	c := NewCommander(w, pf, rand.New(rand.NewPCG(1, 1)), orderInterval)
	assert.Zero(t, c.Tick(orderInterval))

	assert.Equal(t, before, busy.Scheme().SaveData())
	assert.False(t, dead.Scheme().IsMoving())
}

func TestCommander_DeadLeaderGivesNoSquadOrders(t *testing.T) {
	w, pf := newWorld(t)
	leader := add(t, w, LeaderKind, 400, 200)
	leader.Kill()
	sk := add(t, w, "skeleton", 440, 200)
	c := NewCommander(w, pf, rand.New(rand.NewPCG(1, 1)), orderInterval)

	assert.Nil(t, c.leader())
	assert.Equal(t, 1, c.Tick(orderInterval))
	assert.True(t, sk.Scheme().IsMoving())
}

func TestCommander_StrikesNearestEnemy(t *testing.T) {
	w, pf := newWorld(t)
	add(t, w, "skeleton", 400, 200)
	peasant := add(t, w, "male_peasant", 420, 200)
	knight := add(t, w, "knight", 390, 205)
	far := add(t, w, "knight", 500, 200)
	c := NewCommander(w, pf, rand.New(rand.NewPCG(1, 1)), orderInterval)

	c.Tick(orderInterval)

	assert.Equal(t, 1, c.Strikes())
	assert.Equal(t, 110, knight.Life())
	assert.Equal(t, 24, peasant.Life())
	assert.Equal(t, 120, far.Life())
}

func TestCommander_StrikesUntilDead(t *testing.T) {
	w, pf := newWorld(t)
	add(t, w, "zombie", 400, 200)
	first := add(t, w, "female_peasant", 420, 200)
	second := add(t, w, "female_peasant", 380, 200)
	c := NewCommander(w, pf, rand.New(rand.NewPCG(1, 1)), orderInterval)

	// equally near, the lower ID is hit first
	c.Tick(orderInterval)
	assert.Equal(t, 10, first.Life())
	assert.Equal(t, 20, second.Life())

	c.Tick(orderInterval)
	assert.True(t, first.IsDead())
	assert.Equal(t, movement.Dying, first.MovementState())

	c.Tick(orderInterval)
	assert.Equal(t, 10, second.Life())
	assert.Equal(t, 3, c.Strikes())
}

func TestCommander_DeadUndeadDoNotStrike(t *testing.T) {
	w, pf := newWorld(t)
	add(t, w, "skeleton", 400, 200).Kill()
	knight := add(t, w, "knight", 410, 200)
	c := NewCommander(w, pf, rand.New(rand.NewPCG(1, 1)), orderInterval)

	c.Tick(orderInterval)

	assert.Zero(t, c.Strikes())
	assert.Equal(t, 120, knight.Life())
}

func TestCommander_NearbyPointStaysOnMap(t *testing.T) {
	w, pf := newWorld(t)
	c := NewCommander(w, pf, rand.New(rand.NewPCG(5, 6)), orderInterval)
	area := w.MapRect()

	for range 200 {
		p := c.nearbyPoint(geom.Vec(10, 500), area)
		assert.True(t, area.ContainsVector(p), "%v", p)
		assert.LessOrEqual(t, p.X, float64(10+wanderRadius))
		assert.GreaterOrEqual(t, p.Y, float64(500-wanderRadius))
	}
}

func TestLoop_Step(t *testing.T) {
	w, pf := newWorld(t)
	// row 16 center, so the route is a straight horizontal line
	u := add(t, w, "knight", 1000, 264)
	u.Move(pf, geom.Vec(1200, 264))
	l := NewLoop(w, nil, time.Second/60, 0)

	l.Step(time.Second / 60)
	l.Step(time.Second / 60)

	// knight stride is 8 * 0.25
	assert.Equal(t, 2, l.Ticks())
	assert.InDelta(t, 1004, u.Position().X, 1e-6)
	assert.InDelta(t, 264, u.Position().Y, 1e-6)
}

func TestLoop_RunStopsAtMaxTicks(t *testing.T) {
	w, _ := newWorld(t)
	l := NewLoop(w, nil, time.Millisecond, 5)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, l.Run(ctx))
	assert.Equal(t, 5, l.Ticks())
}

func TestLoop_RunStopsOnCancel(t *testing.T) {
	w, _ := newWorld(t)
	l := NewLoop(w, nil, time.Hour, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, l.Run(ctx))
	assert.Zero(t, l.Ticks())
}

func TestLoop_Reload(t *testing.T) {
	w, _ := newWorld(t)
	l := NewLoop(w, nil, time.Hour, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan string)
	got := make(chan string, 1)
	l.OnReload(reloads, func(path string) {
		got <- path
		cancel()
	})

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	reloads <- "maps/keep.yaml"
	assert.Equal(t, "maps/keep.yaml", <-got)
	require.NoError(t, <-done)
}
