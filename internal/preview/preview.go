// Package preview computes limits for interactive input, applying only the
// result of the most recent query.
package preview

import (
	"context"
	"sync"

	"go.uber.org/zap"

	golimit "github.com/njchilds90/golimit"
)

// Query is one preview request.
type Query struct {
	Expression string
	Point      string
	Direction  string
}

// Update is a finished computation handed to the apply callback.
type Update struct {
	Generation uint64
	Query      Query
	Result     golimit.LimitResult
	Err        error
}

// Runner dispatches queries off the caller's goroutine. A result is applied
// only if no newer query was submitted while it was computed.
type Runner struct {
	compute func(Query) (golimit.LimitResult, error)
	apply   func(Update)
	log     *zap.Logger

	mu  sync.Mutex
	gen uint64
	wg  sync.WaitGroup

	// applyMu serializes apply; mu is never held while apply runs.
	applyMu sync.Mutex
}

// NewRunner builds a Runner. apply is called serially, never concurrently.
func NewRunner(engine *golimit.Engine, apply func(Update), log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		compute: func(q Query) (golimit.LimitResult, error) {
			return engine.ComputeLimit(q.Expression, q.Point, q.Direction)
		},
		apply: apply,
		log:   log,
	}
}

// Submit starts computing q and returns its generation. Earlier queries
// still in flight become stale.
func (r *Runner) Submit(ctx context.Context, q Query) uint64 {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		res, err := r.compute(q)

		r.applyMu.Lock()
		defer r.applyMu.Unlock()
		if latest := r.Latest(); gen != latest || ctx.Err() != nil {
			r.log.Debug("discarding stale preview", zap.Uint64("generation", gen), zap.Uint64("latest", latest))
			return
		}
		r.apply(Update{Generation: gen, Query: q, Result: res, Err: err})
	}()
	return gen
}

// Latest returns the generation of the most recent query.
func (r *Runner) Latest() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// Wait blocks until every submitted query has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
