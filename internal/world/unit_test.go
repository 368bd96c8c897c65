package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/gravemarch/internal/game/movement"
	"github.com/udisondev/gravemarch/internal/geom"
)

func TestUnit_Footprints(t *testing.T) {
	u := NewUnit(1, Kinds["skeleton"], geom.Vec(100.7, 50.2), movement.S, nil)

	assert.Equal(t, geom.Rect(88, 34, 24, 24), u.Bounds())
	assert.Equal(t, geom.Rect(76, 10, 48, 64), u.SelectionBounds())

	horse := NewUnit(2, Kinds["skeleton_horse"], geom.Vec(100, 100), movement.S, nil)
	assert.Equal(t, geom.Rect(82, 76, 36, 36), horse.Bounds())
}

func TestUnit_TickFollowsPath(t *testing.T) {
	u := NewUnit(1, Kinds["necromancer"], geom.Vec(8, 8), movement.N, nil)
	u.Move(straightFinder{}, geom.Vec(200, 8))

	u.Tick()
	assert.Equal(t, movement.Moving, u.MovementState())
	assert.Equal(t, movement.E, u.MovementDirection())
	assert.InDelta(t, 11, u.Position().X, 1e-9)

	for range 100 {
		u.Tick()
	}
	assert.Equal(t, movement.Idle, u.MovementState())
	assert.InDelta(t, 200, u.Position().X, 3)
}

func TestUnit_ResetPosition(t *testing.T) {
	u := NewUnit(1, Kinds["zombie"], geom.Vec(40, 40), movement.S, nil)
	u.SetPosition(geom.Vec(400, 400))
	u.ResetPosition()
	assert.Equal(t, geom.Vec(40, 40), u.Position())

	u.SetInitialPosition(geom.Vec(64, 64))
	u.ResetPosition()
	assert.Equal(t, geom.Vec(64, 64), u.Position())
}

func TestUnit_Death(t *testing.T) {
	u := NewUnit(1, Kinds["male_peasant"], geom.Vec(40, 40), movement.S, nil)

	u.TakeDamage(10)
	assert.Equal(t, 14, u.Life())
	assert.False(t, u.IsDead())

	u.TakeDamage(20)
	assert.True(t, u.IsDead())
	assert.Equal(t, 0, u.Life())
	assert.Equal(t, movement.Dying, u.MovementState())

	u.Move(straightFinder{}, geom.Vec(300, 300))
	u.Tick()
	assert.Equal(t, geom.Vec(40, 40), u.Position(), "dead units do not move")
}

func TestUnit_CountsSteps(t *testing.T) {
	counter := movement.NewStepCounter(nil)
	u := NewUnit(1, Kinds["skeleton"], geom.Vec(8, 8), movement.S, counter)
	u.Move(straightFinder{}, geom.Vec(104, 8))

	for range 100 {
		u.Tick()
	}
	assert.InDelta(t, u.Position().X-8, counter.WalkedPixels(), 1e-6)
}

func TestFaction(t *testing.T) {
	assert.Equal(t, "kingdom", Kingdom.String())
	f, ok := ParseFaction("plebs")
	assert.True(t, ok)
	assert.Equal(t, Plebs, f)
	_, ok = ParseFaction("orcs")
	assert.False(t, ok)
}

func TestKinds(t *testing.T) {
	for name, k := range Kinds {
		assert.Equal(t, name, k.Name)
		assert.Positive(t, k.Speed, name)
		assert.Positive(t, k.MaxLife, name)
	}
}
