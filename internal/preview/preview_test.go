package preview

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	golimit "github.com/njchilds90/golimit"
)

type collector struct {
	mu      sync.Mutex
	updates []Update
}

func (c *collector) apply(u Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, u)
}

func (c *collector) all() []Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Update(nil), c.updates...)
}

func TestRunner_AppliesResult(t *testing.T) {
	defer goleak.VerifyNone(t)

	var c collector
	r := NewRunner(golimit.Default(), c.apply, nil)
	gen := r.Submit(context.Background(), Query{Expression: "sin(x)/x", Point: "0"})
	r.Wait()

	updates := c.all()
	require.Len(t, updates, 1)
	assert.Equal(t, gen, updates[0].Generation)
	assert.NoError(t, updates[0].Err)
	assert.Equal(t, "1", updates[0].Result.Value.String())
}

func TestRunner_ParseErrorIsApplied(t *testing.T) {
	defer goleak.VerifyNone(t)

	var c collector
	r := NewRunner(golimit.Default(), c.apply, nil)
	r.Submit(context.Background(), Query{Expression: "2x", Point: "0"})
	r.Wait()

	updates := c.all()
	require.Len(t, updates, 1)
	var pe *golimit.ParseError
	assert.True(t, errors.As(updates[0].Err, &pe))
}

func TestRunner_DiscardsStaleResults(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := map[string]chan struct{}{
		"slow": make(chan struct{}),
		"fast": make(chan struct{}),
	}
	var c collector
	r := NewRunner(golimit.Default(), c.apply, nil)
	inner := r.compute
	r.compute = func(q Query) (golimit.LimitResult, error) {
		<-release[q.Expression]
		return inner(Query{Expression: "x", Point: "1"})
	}

	r.Submit(context.Background(), Query{Expression: "slow"})
	latest := r.Submit(context.Background(), Query{Expression: "fast"})
	assert.Equal(t, latest, r.Latest())

	close(release["fast"])
	close(release["slow"])
	r.Wait()

	updates := c.all()
	require.Len(t, updates, 1)
	assert.Equal(t, latest, updates[0].Generation)
	assert.Equal(t, "fast", updates[0].Query.Expression)
}

func TestRunner_CancelledContextDiscards(t *testing.T) {
	defer goleak.VerifyNone(t)

	var c collector
	r := NewRunner(golimit.Default(), c.apply, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Submit(ctx, Query{Expression: "x", Point: "1"})
	r.Wait()
	assert.Empty(t, c.all())
}

func TestRunner_LastOfManyWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	var c collector
	r := NewRunner(golimit.Default(), c.apply, nil)
	var last uint64
	for _, expr := range []string{"x", "x^2", "x^3", "(x^2-1)/(x-1)"} {
		last = r.Submit(context.Background(), Query{Expression: expr, Point: "1"})
	}
	r.Wait()

	updates := c.all()
	require.NotEmpty(t, updates)
	assert.Equal(t, last, updates[len(updates)-1].Generation)
	for i := 1; i < len(updates); i++ {
		assert.Less(t, updates[i-1].Generation, updates[i].Generation)
	}
}

func TestRunner_ApplyMayQueryRunner(t *testing.T) {
	defer goleak.VerifyNone(t)

	var r *Runner
	seen := make(chan uint64, 1)
	r = NewRunner(golimit.Default(), func(u Update) {
		seen <- r.Latest()
	}, nil)
	gen := r.Submit(context.Background(), Query{Expression: "x^2", Point: "3"})
	r.Wait()

	require.Len(t, seen, 1)
	assert.Equal(t, gen, <-seen)
}
