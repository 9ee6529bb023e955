package golimit

import (
	"math"
)

// ApproachKind buckets the behavior of an expression near a point.
type ApproachKind int

const (
	ApproachFinite ApproachKind = iota
	ApproachPosInf
	ApproachNegInf
	ApproachNoLimit
	ApproachUndefined
)

func (k ApproachKind) String() string {
	switch k {
	case ApproachFinite:
		return "finite"
	case ApproachPosInf:
		return "+inf"
	case ApproachNegInf:
		return "-inf"
	case ApproachNoLimit:
		return "no limit"
	}
	return "undefined"
}

// Approach is the numeric estimate of a limit. For two-sided probes Left and
// Right hold the one-sided estimates and Split reports that they disagree.
type Approach struct {
	Kind  ApproachKind
	Value float64
	Split bool
	Left  *Approach
	Right *Approach
}

// Resolved reports whether the estimate is a finite value or an infinity.
func (a Approach) Resolved() bool { return a.Kind <= ApproachNegInf }

// Extended converts a resolved estimate.
func (a Approach) Extended() ExtendedReal {
	switch a.Kind {
	case ApproachPosInf:
		return PosInf
	case ApproachNegInf:
		return NegInf
	}
	return Finite(a.Value)
}

func approachOf(r ExtendedReal) Approach {
	switch r.InfSign() {
	case 1:
		return Approach{Kind: ApproachPosInf}
	case -1:
		return Approach{Kind: ApproachNegInf}
	}
	return Approach{Kind: ApproachFinite, Value: r.Float64()}
}

func (a Approach) String() string {
	if a.Kind == ApproachFinite {
		return formatReal(a.Value)
	}
	return a.Kind.String()
}

// EvaluateNear estimates the limit of expr at point from the given side by
// sampling along a geometric sequence.
func (ev *Evaluator) EvaluateNear(expr Expression, point ExtendedReal, dir Direction) Approach {
	if expr.tree == nil {
		return Approach{Kind: ApproachUndefined}
	}
	return ev.near(expr.evalTree(), point, dir)
}

func (ev *Evaluator) near(e Expr, point ExtendedReal, dir Direction) Approach {
	if !point.IsFinite() {
		xs := make([]float64, len(ev.cfg.InfinitySamples))
		for i, s := range ev.cfg.InfinitySamples {
			xs[i] = float64(point.InfSign()) * s
		}
		return ev.settle(ev.sample(e, xs))
	}
	if dir != Both {
		return ev.side(e, point.Float64(), dir)
	}
	left := ev.side(e, point.Float64(), Left)
	right := ev.side(e, point.Float64(), Right)
	switch {
	case left.Kind == ApproachUndefined && right.Kind == ApproachUndefined:
		return Approach{Kind: ApproachUndefined, Left: &left, Right: &right}
	case left.Kind == ApproachUndefined:
		out := right
		out.Left, out.Right = &left, &right
		return out
	case right.Kind == ApproachUndefined:
		out := left
		out.Left, out.Right = &left, &right
		return out
	}
	if ev.agree(left, right) {
		out := right
		out.Left, out.Right = &left, &right
		return out
	}
	return Approach{
		Kind:  ApproachNoLimit,
		Split: ev.split(left, right),
		Left:  &left,
		Right: &right,
	}
}

func (ev *Evaluator) side(e Expr, a float64, dir Direction) Approach {
	sign := 1.0
	if dir == Left {
		sign = -1
	}
	xs := make([]float64, len(ev.cfg.Epsilons))
	for i, eps := range ev.cfg.Epsilons {
		xs[i] = a + sign*eps
	}
	return ev.settle(ev.sample(e, xs))
}

// sample evaluates e along xs; NaN marks an undefined sample. Infinities
// from overflow are kept.
func (ev *Evaluator) sample(e Expr, xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		v, err := ev.eval(e, x)
		if err != nil {
			v = math.NaN()
		}
		ys[i] = v
	}
	return ys
}

func (ev *Evaluator) agree(a, b Approach) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind != ApproachFinite {
		return a.Resolved()
	}
	return math.Abs(a.Value-b.Value) <= ev.cfg.Tolerance*(1+math.Abs(a.Value))
}

// split reports one-sided estimates that disagree beyond sampling noise:
// different kinds, or finite values further apart than splitFactor times
// the tolerance.
func (ev *Evaluator) split(a, b Approach) bool {
	if !a.Resolved() || !b.Resolved() {
		return false
	}
	if a.Kind != b.Kind {
		return true
	}
	if a.Kind != ApproachFinite {
		return false
	}
	scale := 1 + math.Max(math.Abs(a.Value), math.Abs(b.Value))
	return math.Abs(a.Value-b.Value) > splitFactor*ev.cfg.Tolerance*scale
}

const splitFactor = 100

// settleWindows is how many trailing sample triples may show convergence.
const settleWindows = 3

// maxRatio bounds the gap ratio of a tail Aitken may extrapolate.
const maxRatio = 0.7

// settle reads a limit off a sample sequence. The last three samples must be
// defined. A trailing triple whose gaps stay under the tolerance converges
// to its median; the smallest offsets are tried first and noisy ones
// skipped. A monotone tail shrinking at a steady geometric rate is
// extrapolated. Growing samples of constant sign diverge.
func (ev *Evaluator) settle(ys []float64) Approach {
	n := len(ys)
	if n < 3 {
		return Approach{Kind: ApproachUndefined}
	}
	for _, y := range ys[n-3:] {
		if math.IsNaN(y) {
			return Approach{Kind: ApproachUndefined}
		}
	}

	for i := n - 3; i >= 0 && i > n-3-settleWindows; i-- {
		if v, ok := ev.converged(ys[i : i+3]); ok {
			return ev.estimate(v, ys[i:i+3])
		}
	}
	if v, ok := aitken(ys); ok {
		return ev.estimate(v, ys[n-4:])
	}

	y0, y1, y2 := ys[n-3], ys[n-2], ys[n-1]
	sameSign := (y0 > 0 && y1 > 0 && y2 > 0) || (y0 < 0 && y1 < 0 && y2 < 0)
	a0, a1, a2 := math.Abs(y0), math.Abs(y1), math.Abs(y2)
	if sameSign && math.IsInf(y2, 0) && a0 <= a1 && a1 <= a2 {
		return approachOf(Finite(y2))
	}
	if sameSign && a0 < a1 && a1 <= a2 {
		d1, d2 := a1-a0, a2-a1
		if a2 >= ev.cfg.DivergenceThreshold || math.IsInf(a2, 0) || (a2 > 1 && d2 >= 0.5*d1) {
			if y2 > 0 {
				return Approach{Kind: ApproachPosInf}
			}
			return Approach{Kind: ApproachNegInf}
		}
	}
	return Approach{Kind: ApproachNoLimit}
}

// estimate finishes a finite estimate v read off samples. v is 0 when it is
// negligible next to the samples themselves; otherwise it is snapped.
func (ev *Evaluator) estimate(v float64, samples []float64) Approach {
	scale := 0.0
	for _, y := range samples {
		scale = math.Max(scale, math.Abs(y))
	}
	if math.Abs(v) <= ev.cfg.ZeroTolerance*scale {
		v = 0
	}
	return Approach{Kind: ApproachFinite, Value: snap(v, ev.cfg.Tolerance)}
}

// converged reports whether a triple of samples agrees within the tolerance
// and returns its median.
func (ev *Evaluator) converged(w []float64) (float64, bool) {
	for _, y := range w {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return 0, false
		}
	}
	lo := math.Min(w[0], math.Min(w[1], w[2]))
	hi := math.Max(w[0], math.Max(w[1], w[2]))
	med := w[0] + w[1] + w[2] - lo - hi
	if hi-lo > ev.cfg.Tolerance*(1+math.Abs(med)) {
		return 0, false
	}
	return med, true
}

// aitken extrapolates the last three samples (Aitken's delta-squared) when
// the last four are strictly monotone and their gaps shrink at a steady
// rate below maxRatio.
func aitken(ys []float64) (float64, bool) {
	n := len(ys)
	if n < 4 {
		return 0, false
	}
	t := ys[n-4:]
	for _, y := range t {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return 0, false
		}
	}
	d1, d2, d3 := t[1]-t[0], t[2]-t[1], t[3]-t[2]
	if d1 == 0 || d2 == 0 || d3 == 0 {
		return 0, false
	}
	q1, q2 := d2/d1, d3/d2
	if q1 <= 0 || q2 <= 0 || q1 > maxRatio || q2 > maxRatio {
		return 0, false
	}
	if math.Abs(q1-q2) > 0.25*math.Max(q1, q2) {
		return 0, false
	}
	return t[3] - d3*d3/(d3-d2), true
}

// snap rounds a numeric estimate to an integer or to a fraction with a small
// denominator when it lies within the relative tolerance tol of one. A
// nonzero estimate is never rounded to 0.
func snap(v, tol float64) float64 {
	if v == 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	within := tol * math.Abs(v)
	if r := math.Round(v); r != 0 && math.Abs(v-r) <= within {
		return r
	}
	for q := 2.0; q <= 12; q++ {
		if p := math.Round(v * q); p != 0 && math.Abs(v-p/q) <= within {
			return p / q
		}
	}
	return v
}
