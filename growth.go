package golimit

import (
	"math"
	"math/big"
)

// growth is the dominant behavior coef*x^deg of an expression as x → +∞.
// A negative degree means the expression vanishes.
type growth struct {
	coef float64
	deg  *big.Rat
}

const cancelTol = 1e-12

func (g growth) value() ExtendedReal {
	switch g.deg.Sign() {
	case 1:
		if g.coef > 0 {
			return PosInf
		}
		return NegInf
	case -1:
		return Finite(0)
	}
	return Finite(g.coef)
}

// dominantAt analyzes e at +∞ or -∞. At -∞ the variable is reflected and the
// analysis runs at +∞.
func dominantAt(e Expr, v string, sign int) (growth, bool) {
	if sign < 0 {
		e = Sub(e, v, negate(S(v)))
	}
	return dominantTerm(e, v)
}

// dominantTerm keeps the fastest-growing term of every algebraic part of e.
// Sums whose leading terms cancel and transcendental growth are rejected.
func dominantTerm(e Expr, v string) (growth, bool) {
	if !dependsOn(e, v) {
		n, ok := e.Eval()
		if !ok {
			return growth{}, false
		}
		return growth{coef: n.Float64(), deg: new(big.Rat)}, true
	}
	switch t := e.(type) {
	case *Sym:
		return growth{coef: 1, deg: big.NewRat(1, 1)}, true
	case *Add:
		var lead *big.Rat
		coef := 0.0
		for _, term := range t.terms {
			g, ok := dominantTerm(term, v)
			if !ok {
				return growth{}, false
			}
			if g.coef == 0 {
				continue
			}
			switch {
			case lead == nil || g.deg.Cmp(lead) > 0:
				lead, coef = g.deg, g.coef
			case g.deg.Cmp(lead) == 0:
				coef += g.coef
			}
		}
		if lead == nil || math.Abs(coef) <= cancelTol {
			return growth{}, false
		}
		return growth{coef: coef, deg: lead}, true
	case *Mul:
		out := growth{coef: 1, deg: new(big.Rat)}
		for _, f := range t.factors {
			g, ok := dominantTerm(f, v)
			if !ok || g.coef == 0 {
				return growth{}, false
			}
			out.coef *= g.coef
			out.deg = new(big.Rat).Add(out.deg, g.deg)
		}
		return out, true
	case *Pow:
		r, ok := t.exp.(*Num)
		if !ok {
			return growth{}, false
		}
		g, ok := dominantTerm(t.base, v)
		if !ok || g.coef == 0 {
			return growth{}, false
		}
		c, err := powRat(g.coef, r.val, 0)
		if err != nil {
			return growth{}, false
		}
		return growth{coef: c, deg: new(big.Rat).Mul(g.deg, r.val)}, true
	case *Func:
		return funcGrowth(t, v)
	}
	return growth{}, false
}

func funcGrowth(f *Func, v string) (growth, bool) {
	g, ok := dominantTerm(f.arg, v)
	if !ok {
		return growth{}, false
	}
	switch g.deg.Sign() {
	case -1:
		switch f.name {
		case "sin", "tan", "asin", "atan", "sinh", "tanh":
			return g, true
		case "cos", "cosh", "exp":
			return growth{coef: 1, deg: new(big.Rat)}, true
		case "abs":
			return growth{coef: math.Abs(g.coef), deg: g.deg}, true
		}
	case 0:
		// The argument tends to g.coef; continuous functions follow it.
		val, err := NewEvaluator(Config{}).evalFinite(funcOf(f.name, NFloat(g.coef)), 0)
		if err != nil || val == 0 {
			return growth{}, false
		}
		return growth{coef: val, deg: new(big.Rat)}, true
	case 1:
		switch f.name {
		case "abs":
			return growth{coef: math.Abs(g.coef), deg: g.deg}, true
		case "atan":
			return growth{coef: math.Copysign(math.Pi/2, g.coef), deg: new(big.Rat)}, true
		case "tanh":
			return growth{coef: math.Copysign(1, g.coef), deg: new(big.Rat)}, true
		}
	}
	return growth{}, false
}

// termExpr renders g as coef*x^deg. At -∞ the reflected variable is shown
// as |x| for fractional degrees and folded into the sign otherwise.
func (g growth) termExpr(v string, sign int) Expr {
	coef := Expr(NFloat(g.coef))
	if sign > 0 {
		return MulOf(coef, PowOf(S(v), NRat(g.deg)))
	}
	if g.deg.IsInt() {
		return MulOf(coef, PowOf(negate(S(v)), NRat(g.deg)))
	}
	return MulOf(coef, PowOf(AbsOf(S(v)), NRat(g.deg)))
}
