package golimit

import (
	"math"

	"go.uber.org/zap"
)

// problem is one limit being resolved: the expression, the approach and the
// derivation recorded so far.
type problem struct {
	ev    *Evaluator
	cfg   Config
	log   *zap.Logger
	expr  Expr
	v     string
	point ExtendedReal
	dir   Direction
	depth int
	cls   classification
	rec   *recorder

	// domain is the expression as written, when it differs from expr.
	domain Expr
}

// resolution is a successful strategy outcome.
type resolution struct {
	value       LimitValue
	left, right *ExtendedReal
}

// classification is what the classifier learned about the expression. Only
// the fields matching form are set.
type classification struct {
	form   IndeterminateForm
	direct float64
	near   Approach
	split  bool

	num, den  Expr // quotient forms
	base, exp Expr // power forms
	zero, inf Expr // 0·∞: vanishing and unbounded factors
	pos, neg  Expr // ∞-∞: expr = pos - neg

	parts []string
}

// fork copies p with an empty recorder so a strategy's steps can be dropped
// when it fails.
func (p *problem) fork() *problem {
	q := *p
	q.rec = newRecorder()
	return &q
}

// whole is the expression as written. Simplification may cancel a factor
// and so extend the domain; whole stays undefined exactly where the input is.
func (p *problem) whole() Expr {
	if p.domain != nil {
		return p.domain
	}
	return p.expr
}

// sidesDefined reports whether the expression is defined next to a finite
// point on the requested side. A two-sided limit needs one defined side.
func (p *problem) sidesDefined() bool {
	a := p.point.Float64()
	if p.dir != Both {
		return p.ev.side(p.whole(), a, p.dir).Kind != ApproachUndefined
	}
	return p.ev.side(p.whole(), a, Left).Kind != ApproachUndefined ||
		p.ev.side(p.whole(), a, Right).Kind != ApproachUndefined
}

func (p *problem) isZero(a Approach) bool {
	return a.Kind == ApproachFinite && math.Abs(a.Value) <= p.cfg.ZeroTolerance
}

func (p *problem) isOne(a Approach) bool {
	return a.Kind == ApproachFinite && math.Abs(a.Value-1) <= p.cfg.ZeroTolerance
}

func isInfinite(a Approach) bool {
	return a.Kind == ApproachPosInf || a.Kind == ApproachNegInf
}

// limitOf estimates the limit of a part: exact constants first, then
// continuity at finite points, dominant terms at infinity and finally
// numeric probing.
func (p *problem) limitOf(e Expr) Approach {
	if !dependsOn(e, p.v) {
		if n, ok := e.Eval(); ok {
			return Approach{Kind: ApproachFinite, Value: n.Float64()}
		}
	}
	if p.point.IsFinite() {
		if y, err := p.ev.evalFinite(e, p.point.Float64()); err == nil {
			return Approach{Kind: ApproachFinite, Value: y}
		}
	} else if g, ok := dominantAt(e, p.v, p.point.InfSign()); ok {
		return approachOf(g.value())
	}
	return p.ev.near(e, p.point, p.dir)
}

func (p *problem) classify() classification {
	c := classification{form: FormIndeterminate}
	if !dependsOn(p.whole(), p.v) {
		if n, ok := p.expr.Eval(); ok {
			c.form, c.direct = FormNumeric, n.Float64()
			return c
		}
	}
	if p.point.IsFinite() {
		if y, err := p.ev.evalFinite(p.whole(), p.point.Float64()); err == nil && p.sidesDefined() {
			c.form, c.direct = FormNumeric, y
			return c
		}
		if p.dir == Both {
			c.near = p.ev.near(p.whole(), p.point, Both)
			c.split = c.near.Split
		}
	}

	num, den, ok := splitQuotient(p.whole())
	if !ok {
		num, den, ok = extractQuotient(p.expr)
	}
	if ok {
		ln, ld := p.limitOf(num), p.limitOf(den)
		c.num, c.den = num, den
		c.parts = []string{"numerator " + num.String() + " → " + ln.String(), "denominator " + den.String() + " → " + ld.String()}
		switch {
		case p.isZero(ln) && p.isZero(ld):
			c.form = FormZeroOverZero
			return c
		case isInfinite(ln) && isInfinite(ld):
			c.form = FormInfOverInf
			return c
		case p.isZero(ld) && (ln.Kind == ApproachFinite || isInfinite(ln)):
			c.form = FormNonzeroOverZero
			return c
		}
		c.parts = nil
	}

	if pw, ok := p.expr.(*Pow); ok && dependsOn(pw.exp, p.v) {
		lb, le := p.limitOf(pw.base), p.limitOf(pw.exp)
		c.base, c.exp = pw.base, pw.exp
		c.parts = []string{"base " + pw.base.String() + " → " + lb.String(), "exponent " + pw.exp.String() + " → " + le.String()}
		switch {
		case p.isOne(lb) && isInfinite(le):
			c.form = FormOnePowInf
			return c
		case p.isZero(lb) && p.isZero(le):
			c.form = FormZeroPowZero
			return c
		case lb.Kind == ApproachPosInf && p.isZero(le):
			c.form = FormInfPowZero
			return c
		}
		c.parts = nil
	}

	if add, ok := p.expr.(*Add); ok {
		if pos, neg, side, ok := p.opposingInfinities(add.terms); ok {
			c.form = FormInfMinusInf
			c.pos, c.neg = AddOf(pos...), AddOf(neg...)
			grows := " → +inf"
			if side != Both {
				grows += " from the " + string(side)
			}
			c.parts = []string{c.pos.String() + grows, c.neg.String() + grows}
			return c
		}
	}

	if mul, ok := p.expr.(*Mul); ok {
		var zeros, rest []Expr
		unbounded := false
		for _, f := range mul.factors {
			l := p.limitOf(f)
			switch {
			case p.isZero(l):
				zeros = append(zeros, f)
			case isInfinite(l):
				unbounded = true
				rest = append(rest, f)
			default:
				rest = append(rest, f)
			}
		}
		if len(zeros) > 0 && unbounded {
			c.form = FormZeroTimesInf
			c.zero, c.inf = joinFactors(zeros), joinFactors(rest)
			c.parts = []string{c.zero.String() + " → 0", c.inf.String() + " → ∞"}
			return c
		}
	}

	if !p.point.IsFinite() {
		c.form = FormInfinite
	}
	return c
}

// opposingInfinities looks for terms tending to +∞ and to -∞ at once. It
// returns the growing terms with the bounded rest, and the negated falling
// terms. Two-sided limits at a finite point are also checked one side at a
// time, as 1/x has a different infinity on each side of 0.
func (p *problem) opposingInfinities(terms []Expr) (pos, neg []Expr, side Direction, ok bool) {
	limits := make([]Approach, len(terms))
	for i, t := range terms {
		limits[i] = p.limitOf(t)
	}
	sides := []Direction{Both}
	if p.point.IsFinite() && p.dir == Both {
		sides = append(sides, Right, Left)
	}
	for _, d := range sides {
		var rest []Expr
		pos, neg = nil, nil
		for i, t := range terms {
			switch onSide(limits[i], d).Kind {
			case ApproachPosInf:
				pos = append(pos, t)
			case ApproachNegInf:
				neg = append(neg, negate(t))
			default:
				rest = append(rest, t)
			}
		}
		if len(pos) > 0 && len(neg) > 0 {
			return append(pos, rest...), neg, d, true
		}
	}
	return nil, nil, Both, false
}

// onSide picks the one-sided estimate of a two-sided approach. Estimates
// without one-sided parts are the same from both sides.
func onSide(a Approach, side Direction) Approach {
	switch {
	case side == Left && a.Left != nil:
		return *a.Left
	case side == Right && a.Right != nil:
		return *a.Right
	}
	return a
}

// splitQuotient splits the expression as written into numerator and
// denominator and simplifies each on its own, so a factor common to both
// survives for the quotient strategies to cancel.
func splitQuotient(e Expr) (num, den Expr, ok bool) {
	num, den, ok = extractQuotient(e)
	if !ok {
		return nil, nil, false
	}
	return num.Simplify(), den.Simplify(), true
}

// solve classifies the problem and tries the candidate strategies in order,
// falling back to numeric approximation.
func (p *problem) solve() (resolution, Strategy) {
	p.cls = p.classify()
	p.rec.text("Form detected: %s. %s", p.cls.form, p.cls.form.Info())
	for _, part := range p.cls.parts {
		p.rec.text("As %s: %s", p.approachText(), part)
	}
	if p.cls.split {
		p.rec.text("The left-hand and right-hand behaviors differ (%s and %s).", p.cls.near.Left, p.cls.near.Right)
	}

	for _, s := range Candidates(p.cls.form, p.cls.split) {
		exec, ok := executors[s]
		if !ok {
			continue
		}
		sub := p.fork()
		res, err := exec(sub)
		if err != nil {
			p.log.Debug("strategy failed",
				zap.String("strategy", s.String()),
				zap.String("form", p.cls.form.String()),
				zap.Error(err))
			continue
		}
		p.log.Debug("strategy resolved",
			zap.String("strategy", s.String()),
			zap.Stringer("value", res.value))
		p.rec.merge(sub.rec)
		p.rec.tip(s.Tip())
		return res, s
	}
	return p.numericFallback()
}

func (p *problem) numericFallback() (resolution, Strategy) {
	a := p.ev.near(p.whole(), p.point, p.dir)
	switch {
	case a.Resolved():
		v := a.Extended()
		p.rec.text("No symbolic technique applied; sampling f(x) ever closer to the point.")
		p.rec.math(p.limitText()+" "+p.expr.String()+" ≈ "+v.String(), p.limitLaTeX()+" "+p.expr.LaTeX()+" \\approx "+v.LaTeX())
		p.rec.tip(NumericApproximation.Tip())
		return resolution{value: realValue(v)}, NumericApproximation
	case a.Split:
		l, r := a.Left.Extended(), a.Right.Extended()
		p.rec.text("Numerically, the left-hand limit is %s and the right-hand limit is %s.", l, r)
		p.rec.text("The one-sided limits differ, so the two-sided limit does not exist.")
		p.rec.tip(OneSidedLimits.Tip())
		return resolution{value: doesNotExist, left: &l, right: &r}, NumericApproximation
	}
	reason := "the sampled values neither settle nor grow without bound"
	if a.Kind == ApproachUndefined {
		reason = "the expression is undefined near the point"
	}
	p.rec.text("The limit could not be resolved: %s.", reason)
	p.rec.tip(StrategyError.Tip())
	return resolution{value: errorValue}, StrategyError
}

// nested resolves an inner limit at the same point through the full
// pipeline, one level deeper.
func (p *problem) nested(e Expr) (resolution, *recorder, error) {
	if p.depth >= p.cfg.MaxNesting {
		return resolution{}, nil, failf(StrategyError, "inner limits nested deeper than %d", p.cfg.MaxNesting)
	}
	q := &problem{
		ev: p.ev, cfg: p.cfg, log: p.log,
		expr: e, v: p.v, point: p.point, dir: p.dir,
		depth: p.depth + 1, rec: newRecorder(),
	}
	q.rec.expr(q.limitText()+" ", e)
	res, s := q.solve()
	if s == StrategyError {
		return resolution{}, nil, failf(StrategyError, "inner limit of %s is unresolved", e)
	}
	return res, q.rec, nil
}

// settleRewritten finishes a rewritten expression that should now be
// determinate. It never falls back to probing the whole expression.
func (p *problem) settleRewritten(e Expr) (LimitValue, bool) {
	if !dependsOn(e, p.v) {
		if n, ok := e.Eval(); ok {
			return realValue(Finite(n.Float64())), true
		}
	}
	if p.point.IsFinite() {
		if y, err := p.ev.evalFinite(e, p.point.Float64()); err == nil {
			return realValue(Finite(y)), true
		}
	} else if g, ok := dominantAt(e, p.v, p.point.InfSign()); ok {
		return realValue(g.value()), true
	}
	if num, den, ok := extractQuotient(e); ok {
		return p.quotientLimit(e, num, den)
	}
	return LimitValue{}, false
}

// quotientLimit combines the part limits of e = num/den when they are not
// an indeterminate pair.
func (p *problem) quotientLimit(e, num, den Expr) (LimitValue, bool) {
	ln, ld := p.limitOf(num), p.limitOf(den)
	switch {
	case !ln.Resolved() || !ld.Resolved():
		return LimitValue{}, false
	case p.isZero(ln) && p.isZero(ld), isInfinite(ln) && isInfinite(ld):
		return LimitValue{}, false
	case ln.Kind == ApproachFinite && isInfinite(ld):
		return realValue(Finite(0)), true
	case ld.Kind == ApproachFinite && !p.isZero(ld):
		if isInfinite(ln) {
			sign := 1
			if (ln.Kind == ApproachNegInf) != (ld.Value < 0) {
				sign = -1
			}
			return realValue(ExtendedReal{inf: sign}), true
		}
		return realValue(Finite(ln.Value / ld.Value)), true
	}
	// nonzero over zero: the sign of the denominator on each side decides.
	a := p.ev.near(e, p.point, p.dir)
	switch {
	case isInfinite(a):
		return realValue(a.Extended()), true
	case a.Split:
		return doesNotExist, true
	}
	return LimitValue{}, false
}

// approachText renders "x → a" with the side marker.
func (p *problem) approachText() string {
	return p.v + " → " + p.point.Symbol() + p.dir.arrow()
}

func (p *problem) limitText() string { return "lim " + p.approachText() }

func (p *problem) limitLaTeX() string {
	side := ""
	switch p.dir {
	case Left:
		side = "^{-}"
	case Right:
		side = "^{+}"
	}
	return "\\lim_{" + p.v + " \\to " + p.point.LaTeX() + side + "}"
}
