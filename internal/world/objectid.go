package world

import "sync"

// IDGenerator hands out object IDs. Each Manager owns one, so two
// simulations never share a counter.
//
// ID 0 is never generated and marks an unset ID.
type IDGenerator struct {
	mu   sync.Mutex
	last uint32
	once uint32 // 0 = none pending
}

// NewIDGenerator creates a generator whose first ID is 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next unique ID, or the pending SetOnce ID if there is one.
func (g *IDGenerator) Next() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.once != 0 {
		id := g.once
		g.once = 0
		return id
	}
	g.last++
	return g.last
}

// SetOnce makes the next call to Next return id. Used when restoring saved
// objects that must keep their identity. The counter skips past id so it is
// never handed out twice.
func (g *IDGenerator) SetOnce(id uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.once = id
	g.last = max(g.last, id)
}

// ClearOnce drops a pending SetOnce ID.
func (g *IDGenerator) ClearOnce() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.once = 0
}
