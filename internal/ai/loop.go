package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/gravemarch/internal/world"
)

// Loop advances the world at a fixed tick rate.
type Loop struct {
	world     *world.Manager
	commander *Commander
	interval  time.Duration
	maxTicks  int

	reloads  <-chan string
	onReload func(path string)

	ticks int
}

// NewLoop creates a loop ticking every interval. maxTicks of 0 runs until
// the context is canceled.
func NewLoop(w *world.Manager, c *Commander, interval time.Duration, maxTicks int) *Loop {
	return &Loop{world: w, commander: c, interval: interval, maxTicks: maxTicks}
}

// OnReload makes Run call fn with every path received on ch. fn runs on the
// loop goroutine, between ticks.
func (l *Loop) OnReload(ch <-chan string, fn func(path string)) {
	l.reloads = ch
	l.onReload = fn
}

// Step runs one tick: orders first, then the world update.
func (l *Loop) Step(elapsed time.Duration) {
	if l.commander != nil {
		l.commander.Tick(elapsed)
	}
	l.world.Update(elapsed)
	l.ticks++
}

// Ticks returns the number of ticks run so far.
func (l *Loop) Ticks() int {
	return l.ticks
}

// Run ticks until ctx is canceled or maxTicks is reached (blocks).
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	slog.Info("simulation loop started", "interval", l.interval, "max_ticks", l.maxTicks)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation loop stopping", "ticks", l.ticks)
			return nil

		case path := <-l.reloads:
			l.onReload(path)

		case now := <-ticker.C:
			l.Step(now.Sub(last))
			last = now
			if l.maxTicks > 0 && l.ticks >= l.maxTicks {
				slog.Info("simulation loop finished", "ticks", l.ticks)
				return nil
			}
		}
	}
}
