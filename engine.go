package golimit

import (
	"fmt"

	"go.uber.org/zap"
)

// Engine resolves limits. It holds only immutable configuration and is safe
// for concurrent use.
type Engine struct {
	cfg  Config
	norm *Normalizer
	ev   *Evaluator
	log  *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for strategy tracing at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New validates cfg and builds an Engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	e := &Engine{
		cfg:  cfg,
		norm: NewNormalizer(cfg),
		ev:   NewEvaluator(cfg),
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Default returns an Engine built from DefaultConfig.
func Default() *Engine {
	e, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Engine) Config() Config           { return e.cfg }
func (e *Engine) Normalizer() *Normalizer { return e.norm }
func (e *Engine) Evaluator() *Evaluator   { return e.ev }

// LimitQuery is one limit to resolve.
type LimitQuery struct {
	Expression Expression
	Point      ExtendedReal
	Direction  Direction
}

// LimitResult is the outcome of ComputeLimit. Steps start with the limit
// being computed; Left and Right are set when one-sided limits were taken.
type LimitResult struct {
	Value        LimitValue        `json:"value"`
	Steps        []DerivationStep  `json:"steps"`
	Tips         []string          `json:"tips"`
	StrategyUsed Strategy          `json:"strategyUsed"`
	FormDetected IndeterminateForm `json:"formDetected"`
	FormInfo     string            `json:"formInfo"`
	StrategyInfo string            `json:"strategyInfo"`
	Left         *ExtendedReal     `json:"left,omitempty"`
	Right        *ExtendedReal     `json:"right,omitempty"`
}

// Query parses the three user inputs. Errors are *ParseError.
func (e *Engine) Query(rawExpression, rawPoint, direction string) (LimitQuery, error) {
	expr, err := e.norm.Normalize(rawExpression)
	if err != nil {
		return LimitQuery{}, err
	}
	point, err := ParsePoint(rawPoint)
	if err != nil {
		return LimitQuery{}, err
	}
	dir, err := ParseDirection(direction)
	if err != nil {
		return LimitQuery{}, err
	}
	if !point.IsFinite() {
		dir = Both
	}
	return LimitQuery{Expression: expr, Point: point, Direction: dir}, nil
}

// ComputeLimit parses and resolves a limit. The only error is *ParseError;
// every other outcome, including failure, is a LimitResult.
func (e *Engine) ComputeLimit(rawExpression, rawPoint, direction string) (LimitResult, error) {
	q, err := e.Query(rawExpression, rawPoint, direction)
	if err != nil {
		return LimitResult{}, err
	}
	return e.Resolve(q), nil
}

// Resolve runs classification, strategy selection and execution for q.
func (e *Engine) Resolve(q LimitQuery) LimitResult {
	rec := newRecorder()
	p := &problem{
		ev:     e.ev,
		cfg:    e.cfg,
		log:    e.log,
		expr:   q.Expression.tree,
		domain: q.Expression.parsed,
		v:      e.cfg.Variable,
		point:  q.Point,
		dir:    q.Direction,
		rec:    rec,
	}
	rec.math(p.limitText()+" "+q.Expression.Normalized, p.limitLaTeX()+" "+q.Expression.LaTeX())

	res, used := p.solve()
	if res.value.Kind != ValueError {
		rec.text("Therefore the limit is %s.", res.value)
	}
	e.log.Debug("limit resolved",
		zap.String("expression", q.Expression.Normalized),
		zap.Stringer("point", q.Point),
		zap.String("direction", string(q.Direction)),
		zap.Stringer("form", p.cls.form),
		zap.Stringer("strategy", used),
		zap.Stringer("value", res.value))

	tips := rec.tips
	if tips == nil {
		tips = []string{}
	}
	return LimitResult{
		Value:        res.value,
		Steps:        rec.steps,
		Tips:         tips,
		StrategyUsed: used,
		FormDetected: p.cls.form,
		FormInfo:     p.cls.form.Info(),
		StrategyInfo: used.Info(),
		Left:         res.left,
		Right:        res.right,
	}
}
