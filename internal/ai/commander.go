// Package ai drives the simulation: who walks where, and when.
package ai

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/udisondev/gravemarch/internal/game/movement"
	"github.com/udisondev/gravemarch/internal/geom"
	"github.com/udisondev/gravemarch/internal/world"
)

const (
	// LeaderKind is the unit that commands the undead squad.
	LeaderKind = "necromancer"

	// Half extents of the selection box drawn around the leader.
	squadHalfWidth  = 320
	squadHalfHeight = 160

	wanderRadius = 256

	// Reach of an undead strike, an isometric ellipse around the attacker.
	strikeWidth  = 64
	strikeHeight = 32
	strikeDamage = 10
)

// Commander issues move orders at a fixed interval. The leader selects the
// undead around it and sends the squad to a random spot on the map. Every
// other idle unit wanders somewhere near where it stands. Before the orders
// each living undead strikes the nearest living enemy within reach.
type Commander struct {
	world    *world.Manager
	pf       movement.PathFinder
	rng      *rand.Rand
	interval time.Duration
	since    time.Duration
	orders   int
	strikes  int
}

// NewCommander creates a commander ordering units of w every interval.
func NewCommander(w *world.Manager, pf movement.PathFinder, rng *rand.Rand, interval time.Duration) *Commander {
	return &Commander{world: w, pf: pf, rng: rng, interval: interval}
}

// Tick accumulates elapsed time and issues a round of orders once the
// interval has passed. Returns the number of orders issued.
func (c *Commander) Tick(elapsed time.Duration) int {
	c.since += elapsed
	if c.since < c.interval {
		return 0
	}
	c.since = 0
	c.strike()
	return c.issueOrders()
}

// Orders returns the number of orders issued so far.
func (c *Commander) Orders() int {
	return c.orders
}

// Strikes returns the number of strikes landed so far.
func (c *Commander) Strikes() int {
	return c.strikes
}

// strike lets every living undead hit the nearest living creature of
// another faction whose position lies in its reach. Ties go to the lower ID.
func (c *Commander) strike() {
	for _, cr := range c.world.CreaturesOf(world.Undead) {
		if cr.IsDead() {
			continue
		}
		reach := geom.Ellipse{Center: cr.Position(), Width: strikeWidth, Height: strikeHeight}

		var target *world.Unit
		best := 0.0
		for _, other := range c.world.GetCreaturesInEllipse(reach) {
			u, ok := other.(*world.Unit)
			if !ok || u.IsDead() || u.Faction() == world.Undead {
				continue
			}
			d := cr.Position().Distance(u.Position())
			if target == nil || d < best || (d == best && u.ID() < target.ID()) {
				target, best = u, d
			}
		}
		if target == nil {
			continue
		}
		target.TakeDamage(strikeDamage)
		c.strikes++
		if target.IsDead() {
			slog.Debug("creature slain",
				"attacker", cr.ID(),
				"victim", target.ID(),
				"kind", target.Name())
		}
	}
}

func (c *Commander) issueOrders() int {
	area := c.world.MapRect()
	ordered := make(map[uint32]bool)

	n := 0
	if leader := c.leader(); leader != nil {
		target := c.randomPoint(area)
		p := leader.Position().Point()
		squad := c.world.Select(
			geom.Pt(p.X-squadHalfWidth, p.Y-squadHalfHeight),
			geom.Pt(p.X+squadHalfWidth, p.Y+squadHalfHeight),
			leader,
		)
		for _, cr := range squad {
			u, ok := cr.(*world.Unit)
			if !ok {
				continue
			}
			u.Move(c.pf, target)
			ordered[u.ID()] = true
			n++
		}
		slog.Debug("squad ordered",
			"leader", leader.ID(),
			"size", len(squad),
			"target", target)
	}

	for _, cr := range c.world.Creatures() {
		u, ok := cr.(*world.Unit)
		if !ok || u.IsDead() || ordered[u.ID()] || u.Scheme().IsMoving() {
			continue
		}
		u.Move(c.pf, c.nearbyPoint(u.Position(), area))
		n++
	}

	c.orders += n
	return n
}

func (c *Commander) leader() *world.Unit {
	for _, cr := range c.world.CreaturesOf(world.Undead) {
		if u, ok := cr.(*world.Unit); ok && u.Kind().Name == LeaderKind && !u.IsDead() {
			return u
		}
	}
	return nil
}

func (c *Commander) randomPoint(area geom.Rectangle) geom.Vector2 {
	return geom.Vec(
		float64(area.X+c.rng.IntN(area.Width)),
		float64(area.Y+c.rng.IntN(area.Height)),
	)
}

// nearbyPoint returns a random point within wanderRadius of pos, kept inside area.
func (c *Commander) nearbyPoint(pos geom.Vector2, area geom.Rectangle) geom.Vector2 {
	x := pos.X + float64(c.rng.IntN(2*wanderRadius+1)-wanderRadius)
	y := pos.Y + float64(c.rng.IntN(2*wanderRadius+1)-wanderRadius)
	x = min(max(x, float64(area.Left())), float64(area.Right()-1))
	y = min(max(y, float64(area.Top())), float64(area.Bottom()-1))
	return geom.Vec(x, y)
}
