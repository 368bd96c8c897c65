package world

import (
	"slices"

	"github.com/udisondev/gravemarch/internal/game/movement"
	"github.com/udisondev/gravemarch/internal/geom"
)

const (
	// Every separationInterval stores into the same node run a collision scan.
	separationInterval = 8

	// Nodes narrower or lower than this are never split.
	minSplitSize = 2

	noQuad   int32 = -1
	rootQuad int32 = 0
)

// Child slots, in the order they are laid out after the first child handle.
const (
	quadNW = iota
	quadNE
	quadSW
	quadSE
)

type quadNode struct {
	bounds   geom.Rectangle
	parent   int32
	children int32 // handle of the NW child; the other three follow it
	objects  []Object
	stores   int
}

// Quadtree is a region quadtree over object bounds. An object lives in the
// deepest node whose quadrant contains it without touching the center lines.
//
// Nodes live in one slice and refer to each other by handle. Child quadruplets
// are allocated together and recycled through a free list when pruned.
// Not safe for concurrent use.
type Quadtree struct {
	nodes   []quadNode
	free    []int32
	owner   map[uint32]int32 // object ID → node handle
	evicted []Object
	initial geom.Rectangle
}

// NewQuadtree creates an empty tree covering bounds.
func NewQuadtree(bounds geom.Rectangle) *Quadtree {
	q := &Quadtree{
		owner:   make(map[uint32]int32),
		initial: bounds,
	}
	q.nodes = append(q.nodes, newQuadNode(bounds, noQuad))
	return q
}

func newQuadNode(bounds geom.Rectangle, parent int32) quadNode {
	return quadNode{bounds: bounds, parent: parent, children: noQuad}
}

// Bounds returns the area covered by the root.
func (q *Quadtree) Bounds() geom.Rectangle {
	return q.nodes[rootQuad].bounds
}

// Len returns the number of stored objects.
func (q *Quadtree) Len() int {
	return len(q.owner)
}

// Contains reports whether obj is stored.
func (q *Quadtree) Contains(obj Object) bool {
	_, ok := q.owner[obj.ID()]
	return ok
}

// Insert stores obj in the deepest node that fits it. An object already in
// the tree is moved. Returns false, storing nothing, when the root does not
// contain the object's bounds.
func (q *Quadtree) Insert(obj Object) bool {
	if h, ok := q.owner[obj.ID()]; ok {
		q.detach(h, obj.ID())
		q.collapseUpward(h)
	}
	if !q.nodes[rootQuad].bounds.Contains(obj.Bounds()) {
		return false
	}
	q.insertAt(rootQuad, obj)
	return true
}

// insertAt descends from h, creating children on the way, and stores obj.
// h must contain obj.
func (q *Quadtree) insertAt(h int32, obj Object) {
	b := obj.Bounds()
	for {
		slot := quadrantOf(q.nodes[h].bounds, b)
		if slot < 0 {
			break
		}
		if q.nodes[h].children == noQuad {
			q.split(h)
		}
		h = q.nodes[h].children + int32(slot)
	}
	q.store(h, obj)
}

// quadrantOf returns the child slot that fully holds b, or -1 when b
// straddles a center line or the node is too small to split.
func quadrantOf(node, b geom.Rectangle) int {
	if node.Width < minSplitSize || node.Height < minSplitSize {
		return -1
	}
	cx := node.X + node.Width/2
	cy := node.Y + node.Height/2

	top := b.Bottom() < cy
	bottom := b.Y > cy
	left := b.Right() < cx
	right := b.X > cx

	switch {
	case left && top:
		return quadNW
	case right && top:
		return quadNE
	case left && bottom:
		return quadSW
	case right && bottom:
		return quadSE
	}
	return -1
}

// split gives h four children that tile it exactly.
func (q *Quadtree) split(h int32) {
	r := q.nodes[h].bounds
	hw, hh := r.Width/2, r.Height/2
	quads := [4]geom.Rectangle{
		quadNW: geom.Rect(r.X, r.Y, hw, hh),
		quadNE: geom.Rect(r.X+hw, r.Y, r.Width-hw, hh),
		quadSW: geom.Rect(r.X, r.Y+hh, hw, r.Height-hh),
		quadSE: geom.Rect(r.X+hw, r.Y+hh, r.Width-hw, r.Height-hh),
	}

	var first int32
	if n := len(q.free); n > 0 {
		first = q.free[n-1]
		q.free = q.free[:n-1]
		for i, b := range quads {
			q.nodes[first+int32(i)] = newQuadNode(b, h)
		}
	} else {
		first = int32(len(q.nodes))
		for _, b := range quads {
			q.nodes = append(q.nodes, newQuadNode(b, h))
		}
	}
	q.nodes[h].children = first
}

func (q *Quadtree) store(h int32, obj Object) {
	n := &q.nodes[h]
	n.objects = append(n.objects, obj)
	q.owner[obj.ID()] = h

	n.stores++
	if n.stores >= separationInterval {
		n.stores = 0
		q.separate(h)
	}
}

// detach removes the object from node h without pruning.
func (q *Quadtree) detach(h int32, id uint32) {
	n := &q.nodes[h]
	if i := slices.IndexFunc(n.objects, func(o Object) bool { return o.ID() == id }); i >= 0 {
		n.objects = slices.Delete(n.objects, i, i+1)
	}
	delete(q.owner, id)
}

// separate nudges apart intersecting creatures stored in h. Every creature
// is pushed one pixel in a direction picked from the facing of the creature
// it overlaps. Decorations and dying creatures are left alone.
func (q *Quadtree) separate(h int32) {
	objs := slices.Clone(q.nodes[h].objects)
	var nudged []Creature

	for _, a := range objs {
		ca, ok := a.(Creature)
		if !ok || ca.MovementState() == movement.Dying {
			continue
		}
		for _, b := range objs {
			if a.ID() == b.ID() {
				continue
			}
			cb, ok := b.(Creature)
			if !ok || cb.MovementState() == movement.Dying {
				continue
			}
			if !a.Bounds().Intersects(b.Bounds()) {
				continue
			}
			ca.SetPosition(ca.Position().Add(nudge(cb.MovementDirection())))
			nudged = append(nudged, ca)
		}
	}

	for _, c := range nudged {
		if owner, ok := q.owner[c.ID()]; ok && !q.nodes[owner].bounds.Contains(c.Bounds()) {
			q.rehome(owner, c)
		}
	}
}

// nudge is the push away from a creature facing d: one pixel, except for
// S which pushes (2, 1).
func nudge(d movement.Direction) geom.Vector2 {
	switch d {
	case movement.S:
		return geom.Vec(2, 1)
	case movement.N, movement.SW:
		return geom.Vec(1, 0)
	case movement.E, movement.W:
		return geom.Vec(0, 1)
	case movement.SE:
		return geom.Vec(-1, 0)
	case movement.NE:
		return geom.Vec(1, -1)
	case movement.NW:
		return geom.Vec(-1, 1)
	}
	return geom.Vec(1, 1)
}

// rehome moves obj from h to the nearest ancestor that contains it. An
// object that no longer fits the root is dropped and reported by the next
// Update.
func (q *Quadtree) rehome(h int32, obj Object) {
	q.detach(h, obj.ID())
	b := obj.Bounds()
	for h != noQuad && !q.nodes[h].bounds.Contains(b) {
		h = q.nodes[h].parent
	}
	if h == noQuad {
		q.evicted = append(q.evicted, obj)
		return
	}
	q.insertAt(h, obj)
}

// Update re-homes every creature after movement, then drops child
// quadruplets whose subtrees are empty. Creatures that left the root are
// removed from the tree and returned.
func (q *Quadtree) Update() []Object {
	q.update(rootQuad)
	q.prune(rootQuad)

	out := q.evicted
	q.evicted = nil
	return out
}

func (q *Quadtree) update(h int32) {
	for _, obj := range slices.Clone(q.nodes[h].objects) {
		if _, ok := obj.(Creature); !ok {
			continue
		}
		// An earlier re-home in this pass may have moved it already.
		if owner, ok := q.owner[obj.ID()]; !ok || owner != h {
			continue
		}
		if q.nodes[h].bounds.Contains(obj.Bounds()) {
			q.detach(h, obj.ID())
			q.insertAt(h, obj)
			continue
		}
		q.rehome(h, obj)
	}

	if c := q.nodes[h].children; c != noQuad {
		for i := range int32(4) {
			q.update(c + i)
		}
	}
}

// prune frees empty child quadruplets below h and reports whether the
// subtree rooted at h holds no objects.
func (q *Quadtree) prune(h int32) bool {
	if c := q.nodes[h].children; c != noQuad {
		empty := true
		for i := range int32(4) {
			if !q.prune(c + i) {
				empty = false
			}
		}
		if empty {
			q.releaseChildren(h)
		}
	}
	return q.nodes[h].children == noQuad && len(q.nodes[h].objects) == 0
}

// collapseUpward frees empty leaf quadruplets from h up to the root.
func (q *Quadtree) collapseUpward(h int32) {
	for ; h != noQuad; h = q.nodes[h].parent {
		c := q.nodes[h].children
		if c == noQuad {
			continue
		}
		for i := range int32(4) {
			child := &q.nodes[c+i]
			if child.children != noQuad || len(child.objects) > 0 {
				return
			}
		}
		q.releaseChildren(h)
	}
}

func (q *Quadtree) releaseChildren(h int32) {
	c := q.nodes[h].children
	for i := range int32(4) {
		q.nodes[c+i] = quadNode{parent: noQuad, children: noQuad}
	}
	q.free = append(q.free, c)
	q.nodes[h].children = noQuad
}

// Delete removes obj. Returns false when it was not stored.
func (q *Quadtree) Delete(obj Object) bool {
	h, ok := q.owner[obj.ID()]
	if !ok {
		return false
	}
	q.detach(h, obj.ID())
	q.collapseUpward(h)
	return true
}

// GetObjectsInRectangle returns every object stored in a node that
// intersects r. The result is a superset: objects that do not touch r
// themselves can be included.
func (q *Quadtree) GetObjectsInRectangle(r geom.Rectangle) []Object {
	var out []Object
	stack := []int32{rootQuad}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &q.nodes[h]
		if !r.Intersects(n.bounds) {
			continue
		}
		out = append(out, n.objects...)
		if n.children != noQuad {
			stack = append(stack, n.children+quadSE, n.children+quadSW, n.children+quadNE, n.children+quadNW)
		}
	}
	return out
}

// Clear removes every object and collapses the tree to a single root with
// the bounds it was created with.
func (q *Quadtree) Clear() {
	q.nodes = q.nodes[:0]
	q.nodes = append(q.nodes, newQuadNode(q.initial, noQuad))
	q.free = q.free[:0]
	q.evicted = nil
	clear(q.owner)
}

// Walk visits every node depth first, parents before children.
func (q *Quadtree) Walk(fn func(bounds geom.Rectangle, depth int, objects []Object)) {
	q.walk(rootQuad, 0, fn)
}

func (q *Quadtree) walk(h int32, depth int, fn func(geom.Rectangle, int, []Object)) {
	n := q.nodes[h]
	fn(n.bounds, depth, n.objects)
	if n.children != noQuad {
		for i := range int32(4) {
			q.walk(n.children+i, depth+1, fn)
		}
	}
}
