package world

import (
	"github.com/udisondev/gravemarch/internal/game/movement"
	"github.com/udisondev/gravemarch/internal/geom"
)

// Unit is a creature driven by a movement scheme. Its position is the
// point between its feet; both footprints hang off it.
type Unit struct {
	id        uint32
	kind      Kind
	position  geom.Vector2
	initial   geom.Vector2
	scheme    movement.Movable
	state     movement.State
	direction movement.Direction
	life      int
}

var (
	_ Creature = (*Unit)(nil)
	_ Ticker   = (*Unit)(nil)
)

// NewUnit creates a unit of kind k standing at pos. A nil scheme gets a
// fresh PlayerMovement.
func NewUnit(id uint32, k Kind, pos geom.Vector2, dir movement.Direction, scheme movement.Movable) *Unit {
	if scheme == nil {
		scheme = movement.NewPlayerMovement()
	}
	return &Unit{
		id:        id,
		kind:      k,
		position:  pos,
		initial:   pos,
		scheme:    scheme,
		direction: dir,
		life:      k.MaxLife,
	}
}

func (u *Unit) ID() uint32                            { return u.id }
func (u *Unit) Name() string                          { return u.kind.Name }
func (u *Unit) Kind() Kind                            { return u.kind }
func (u *Unit) Faction() Faction                      { return u.kind.Faction }
func (u *Unit) Speed() int                            { return u.kind.Speed }
func (u *Unit) Life() int                             { return u.life }
func (u *Unit) Position() geom.Vector2                { return u.position }
func (u *Unit) SetPosition(p geom.Vector2)            { u.position = p }
func (u *Unit) MovementState() movement.State         { return u.state }
func (u *Unit) MovementDirection() movement.Direction { return u.direction }
func (u *Unit) Scheme() movement.Movable              { return u.scheme }

// Bounds is the collision footprint.
func (u *Unit) Bounds() geom.Rectangle {
	return geom.RectAt(u.position.Point().Add(u.kind.BoundaryShift), u.kind.BoundarySize)
}

// SelectionBounds is the clickable area.
func (u *Unit) SelectionBounds() geom.Rectangle {
	return geom.RectAt(u.position.Point().Add(u.kind.SelectionShift), u.kind.SelectionSize)
}

func (u *Unit) IsDead() bool {
	return u.life <= 0
}

// SetInitialPosition changes where ResetPosition puts the unit.
func (u *Unit) SetInitialPosition(p geom.Vector2) {
	u.initial = p
}

// ResetPosition puts the unit back at its initial position.
func (u *Unit) ResetPosition() {
	u.position = u.initial
}

// Move plans a route to destination. The unit starts walking on the next Tick.
func (u *Unit) Move(pf movement.PathFinder, destination geom.Vector2) {
	if u.IsDead() {
		return
	}
	u.scheme.FindPath(pf, u.position, destination)
}

// Tick advances the unit by one simulation step.
func (u *Unit) Tick() {
	if u.IsDead() {
		return
	}
	if u.scheme.IsMoving() {
		u.state = movement.Moving
		u.position = u.position.Add(u.scheme.GiveNewPosition(u.position, u.kind.Speed))
		u.direction = u.scheme.GiveMovementDirection()
		return
	}
	if u.state == movement.Moving {
		u.state = movement.Idle
	}
}

// TakeDamage lowers life and kills the unit at zero.
func (u *Unit) TakeDamage(damage int) {
	if u.IsDead() {
		return
	}
	u.life -= damage
	if u.life <= 0 {
		u.Kill()
	}
}

// Kill sets life to zero and starts dying.
func (u *Unit) Kill() {
	u.life = 0
	u.state = movement.Dying
}
