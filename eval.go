package golimit

import (
	"math"
	"math/big"
)

// Evaluator computes expression values at real points with domain guarding.
type Evaluator struct {
	cfg Config
}

func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate returns expr at x. Undefined or non-finite results are reported
// as *DomainError.
func (ev *Evaluator) Evaluate(expr Expression, x float64) (float64, error) {
	if expr.tree == nil {
		return 0, &DomainError{Kind: Undefined, At: x, Detail: "invalid expression"}
	}
	return ev.evalFinite(expr.evalTree(), x)
}

func (ev *Evaluator) evalFinite(e Expr, x float64) (float64, error) {
	v, err := ev.eval(e, x)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &DomainError{Kind: NonFinite, At: x}
	}
	return v, nil
}

// eval may return ±Inf on overflow; NaN is always reported as an error.
func (ev *Evaluator) eval(e Expr, x float64) (float64, error) {
	v, err := ev.evalNode(e, x)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, &DomainError{Kind: NonFinite, At: x}
	}
	return v, nil
}

func (ev *Evaluator) evalNode(e Expr, x float64) (float64, error) {
	switch t := e.(type) {
	case *Num:
		return t.Float64(), nil
	case *Sym:
		if t.name != ev.cfg.Variable {
			return 0, &DomainError{Kind: Undefined, At: x, Detail: "free symbol " + t.name}
		}
		return x, nil
	case *Add:
		acc := 0.0
		for _, term := range t.terms {
			v, err := ev.eval(term, x)
			if err != nil {
				return 0, err
			}
			acc += v
		}
		return acc, nil
	case *Mul:
		acc := 1.0
		for _, f := range t.factors {
			v, err := ev.eval(f, x)
			if err != nil {
				return 0, err
			}
			acc *= v
		}
		return acc, nil
	case *Pow:
		return ev.evalPow(t, x)
	case *Func:
		return ev.evalFunc(t, x)
	case *Deriv:
		return ev.evalDeriv(t, x)
	}
	return 0, &DomainError{Kind: Undefined, At: x, Detail: "unsupported node"}
}

func (ev *Evaluator) evalPow(p *Pow, x float64) (float64, error) {
	b, err := ev.eval(p.base, x)
	if err != nil {
		return 0, err
	}
	if en, ok := p.exp.(*Num); ok {
		return powRat(b, en.val, x)
	}
	e, err := ev.eval(p.exp, x)
	if err != nil {
		return 0, err
	}
	switch {
	case b == 0 && e == 0:
		return 0, &DomainError{Kind: ZeroPowZero, At: x}
	case b == 0 && e < 0:
		return 0, &DomainError{Kind: DivisionByZero, At: x}
	case b < 0 && e != math.Trunc(e):
		return 0, &DomainError{Kind: NegativeBase, At: x}
	}
	return math.Pow(b, e), nil
}

// powRat raises b to an exact rational power, taking real odd roots of
// negative bases.
func powRat(b float64, r *big.Rat, x float64) (float64, error) {
	switch {
	case b == 0 && r.Sign() == 0:
		return 0, &DomainError{Kind: ZeroPowZero, At: x}
	case b == 0 && r.Sign() < 0:
		return 0, &DomainError{Kind: DivisionByZero, At: x}
	case b == 0:
		return 0, nil
	}
	e, _ := r.Float64()
	if b > 0 || r.IsInt() {
		return math.Pow(b, e), nil
	}
	if r.Denom().Bit(0) == 0 {
		return 0, &DomainError{Kind: EvenRootOfNegative, At: x}
	}
	v := math.Pow(-b, e)
	if r.Num().Bit(0) == 1 {
		v = -v
	}
	return v, nil
}

func (ev *Evaluator) evalFunc(f *Func, x float64) (float64, error) {
	a, err := ev.eval(f.arg, x)
	if err != nil {
		return 0, err
	}
	switch f.name {
	case "ln", "log":
		if a <= 0 {
			return 0, &DomainError{Kind: LogOfNonPositive, At: x}
		}
	case "asin", "acos":
		if a < -1 || a > 1 {
			return 0, &DomainError{Kind: InverseTrigRange, At: x}
		}
	case "tan":
		if c := math.Cos(a); math.Abs(c) < 1e-300 {
			return 0, &DomainError{Kind: DivisionByZero, At: x}
		}
	}
	v, ok := applyFunc(f.name, a)
	if !ok {
		return 0, &DomainError{Kind: Undefined, At: x, Detail: "unknown function " + f.name}
	}
	return v, nil
}

// evalDeriv approximates the derivative by a central difference.
func (ev *Evaluator) evalDeriv(d *Deriv, x float64) (float64, error) {
	at, err := ev.eval(d.at, x)
	if err != nil {
		return 0, err
	}
	h := ev.cfg.DerivativeStep
	hi, err := ev.evalFinite(d.of, at+h)
	if err != nil {
		return 0, err
	}
	lo, err := ev.evalFinite(d.of, at-h)
	if err != nil {
		return 0, err
	}
	return (hi - lo) / (2 * h), nil
}
