package refresh

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// gatedRun blocks every run until released and records overlap
type gatedRun struct {
	release  chan struct{}
	started  chan Scope
	inFlight atomic.Int32
	maxSeen  atomic.Int32

	mu     sync.Mutex
	scopes []Scope
}

func newGatedRun() *gatedRun {
	return &gatedRun{release: make(chan struct{}), started: make(chan Scope, 10)}
}

func (g *gatedRun) run(ctx context.Context, scope Scope) {
	n := g.inFlight.Add(1)
	for {
		seen := g.maxSeen.Load()
		if n <= seen || g.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	g.mu.Lock()
	g.scopes = append(g.scopes, scope)
	g.mu.Unlock()

	g.started <- scope
	<-g.release
	g.inFlight.Add(-1)
}

func TestRequestRunsOnce(t *testing.T) {
	var calls atomic.Int32
	c := NewCoordinator(func(ctx context.Context, scope Scope) {
		calls.Add(1)
		assert.Equal(t, ScopeAll, scope)
	}, zap.NewNop())

	c.Request(context.Background(), ScopeAll)
	c.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, c.Busy())
}

func TestRequestsDuringRunAreCoalesced(t *testing.T) {
	g := newGatedRun()
	c := NewCoordinator(g.run, zap.NewNop())
	ctx := context.Background()

	c.Request(ctx, ScopeCharts)
	assert.Equal(t, ScopeCharts, <-g.started)

	// arrive while the first run is in flight
	c.Request(ctx, ScopeCounters)
	c.Request(ctx, ScopeCounters)
	c.Request(ctx, ScopeCharts)
	assert.True(t, c.Busy())

	g.release <- struct{}{}
	assert.Equal(t, ScopeAll, <-g.started)
	g.release <- struct{}{}
	c.Wait()

	assert.Equal(t, int32(1), g.maxSeen.Load(), "runs must never overlap")
	assert.Equal(t, []Scope{ScopeCharts, ScopeAll}, g.scopes)
}

func TestRequestAfterIdleStartsNewRun(t *testing.T) {
	var calls atomic.Int32
	c := NewCoordinator(func(ctx context.Context, scope Scope) { calls.Add(1) }, zap.NewNop())

	for i := 0; i < 3; i++ {
		c.Request(context.Background(), ScopeAll)
		c.Wait()
	}

	assert.Equal(t, int32(3), calls.Load())
}

func TestCancelledContextDropsPending(t *testing.T) {
	g := newGatedRun()
	c := NewCoordinator(g.run, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	c.Request(ctx, ScopeAll)
	<-g.started
	c.Request(ctx, ScopeAll)
	cancel()
	g.release <- struct{}{}

	done := make(chan struct{})
	go func() { c.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("coordinator did not stop after cancel")
	}
	assert.Len(t, g.scopes, 1)
}

func TestZeroScopeIsIgnored(t *testing.T) {
	c := NewCoordinator(func(ctx context.Context, scope Scope) { t.Fatal("unexpected run") }, zap.NewNop())
	c.Request(context.Background(), 0)
	c.Wait()
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "counters+charts", ScopeAll.String())
	assert.Equal(t, "charts", ScopeCharts.String())
	assert.Equal(t, "none", Scope(0).String())
	assert.True(t, ScopeAll.Has(ScopeCounters))
	assert.False(t, ScopeCharts.Has(ScopeCounters))
}
