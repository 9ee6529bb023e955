// Package batch evaluates query files with bounded concurrency.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	golimit "github.com/njchilds90/golimit"
	"github.com/njchilds90/golimit/internal/metrics"
)

// Query is one entry of a query file.
type Query struct {
	Name       string `yaml:"name,omitempty" json:"name,omitempty"`
	Expression string `yaml:"expression" json:"expression"`
	Point      string `yaml:"point" json:"point"`
	Direction  string `yaml:"direction,omitempty" json:"direction,omitempty"`
}

// File is the YAML layout of a query file.
type File struct {
	Queries []Query `yaml:"queries"`
}

// Item pairs a query with its outcome. Error holds the parse error text when
// the query was rejected.
type Item struct {
	Query  Query                `json:"query"`
	Result *golimit.LimitResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// Decode reads a query file.
func Decode(r io.Reader) ([]Query, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode queries: %w", err)
	}
	for i, q := range f.Queries {
		if q.Expression == "" {
			return nil, fmt.Errorf("decode queries: entry %d has no expression", i)
		}
	}
	return f.Queries, nil
}

// Load reads the query file at path.
func Load(path string) ([]Query, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open queries: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// Runner evaluates queries on one engine.
type Runner struct {
	engine  *golimit.Engine
	limit   int
	metrics *metrics.Recorder
	log     *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency bounds the number of queries evaluated at once.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.limit = n
		}
	}
}

// WithMetrics records every evaluated query.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(r *Runner) { r.metrics = rec }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRunner builds a Runner. The default concurrency is GOMAXPROCS.
func NewRunner(engine *golimit.Engine, opts ...Option) *Runner {
	r := &Runner{engine: engine, limit: runtime.GOMAXPROCS(0), log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates queries and returns the items in input order. Parse errors
// are reported per item; only cancellation stops the run.
func (r *Runner) Run(ctx context.Context, queries []Query) ([]Item, error) {
	items := make([]Item, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i, q := range queries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res, err := r.engine.ComputeLimit(q.Expression, q.Point, q.Direction)
			items[i].Query = q
			if err != nil {
				r.metrics.ParseError("batch")
				r.log.Debug("batch query rejected", zap.Int("index", i), zap.Error(err))
				items[i].Error = err.Error()
				return nil
			}
			r.metrics.ObserveLimit(res, time.Since(start))
			items[i].Result = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run batch: %w", err)
	}
	return items, nil
}
