// Package refresh serializes dashboard refreshes. Every trigger (timers, live
// events, manual refresh) goes through one Coordinator so two refreshes never
// run in parallel; requests arriving during a run are merged into a single
// follow-up run.
package refresh

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Scope selects what a refresh updates
type Scope uint8

const (
	ScopeCounters Scope = 1 << iota
	ScopeCharts

	ScopeAll = ScopeCounters | ScopeCharts
)

// Has reports whether s includes other
func (s Scope) Has(other Scope) bool {
	return s&other == other
}

func (s Scope) String() string {
	var parts []string
	if s.Has(ScopeCounters) {
		parts = append(parts, "counters")
	}
	if s.Has(ScopeCharts) {
		parts = append(parts, "charts")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// RunFunc performs one refresh
type RunFunc func(ctx context.Context, scope Scope)

// Coordinator runs at most one refresh at a time
type Coordinator struct {
	run    RunFunc
	logger *zap.Logger

	mu      sync.Mutex
	busy    bool
	pending Scope
	wg      sync.WaitGroup
}

func NewCoordinator(run RunFunc, logger *zap.Logger) *Coordinator {
	return &Coordinator{run: run, logger: logger.Named("refresh")}
}

// Request starts a refresh, or queues one if a refresh is in flight.
// Queued requests are coalesced: however many arrive, one run follows the
// current one, covering the union of their scopes.
func (c *Coordinator) Request(ctx context.Context, scope Scope) {
	if scope == 0 {
		return
	}

	c.mu.Lock()
	if c.busy {
		c.pending |= scope
		c.mu.Unlock()
		c.logger.Debug("refresh in flight, queued", zap.Stringer("scope", scope))
		return
	}
	c.busy = true
	c.wg.Add(1)
	c.mu.Unlock()

	go c.loop(ctx, scope)
}

// Wait blocks until no refresh is running or queued
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Busy reports whether a refresh is running
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Coordinator) loop(ctx context.Context, scope Scope) {
	defer c.wg.Done()

	for {
		c.run(ctx, scope)

		c.mu.Lock()
		if c.pending == 0 || ctx.Err() != nil {
			c.pending = 0
			c.busy = false
			c.mu.Unlock()
			return
		}
		scope = c.pending
		c.pending = 0
		c.mu.Unlock()
	}
}
