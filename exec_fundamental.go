package golimit

import "math"

// equivalent replaces a factor by its equivalent infinitesimal when one of
// the fundamental limits applies. rule describes the replacement.
func (p *problem) equivalent(f Expr) (Expr, string, bool) {
	if pw, ok := f.(*Pow); ok {
		if n, isNum := pw.exp.(*Num); isNum && n.IsInteger() {
			if nb, rule, ok := p.equivalentBase(pw.base); ok {
				return PowOf(nb, n), rule, true
			}
		}
		return f, "", false
	}
	return p.equivalentBase(f)
}

func (p *problem) equivalentBase(e Expr) (Expr, string, bool) {
	switch t := e.(type) {
	case *Func:
		switch t.name {
		case "sin", "tan", "asin", "atan", "sinh", "tanh":
			if p.isZero(p.limitOf(t.arg)) {
				return t.arg, t.String() + " ~ " + t.arg.String() + " since " + t.name + "(u)/u → 1 as u → 0", true
			}
		case "ln":
			if p.isOne(p.limitOf(t.arg)) {
				u := AddOf(t.arg, N(-1))
				return u, t.String() + " ~ " + u.String() + " since ln(1 + u)/u → 1 as u → 0", true
			}
		}
	case *Add:
		// s*g(u) - s with s = ±1, constants sort last.
		if len(t.terms) != 2 {
			break
		}
		k, ok := t.terms[1].(*Num)
		if !ok || !(k.IsOne() || k.IsNegOne()) {
			break
		}
		s, rest := extractCoefficient(t.terms[0])
		fn, ok := rest.(*Func)
		if !ok || !numAdd(s, k).IsZero() || !p.isZero(p.limitOf(fn.arg)) {
			break
		}
		u := fn.arg
		switch fn.name {
		case "exp":
			r := MulOf(s, u)
			return r, t.String() + " ~ " + r.String() + " since (e^u - 1)/u → 1 as u → 0", true
		case "cos":
			r := MulOf(numNeg(s), F(1, 2), PowOf(u, N(2)))
			return r, t.String() + " ~ " + r.String() + " since (1 - cos u)/u² → 1/2 as u → 0", true
		}
	}
	return e, "", false
}

func factorsOf(e Expr) []Expr {
	if m, ok := e.(*Mul); ok {
		return m.factors
	}
	return []Expr{e}
}

func execFundamental(p *problem) (resolution, error) {
	if p.cls.form != FormZeroOverZero && p.cls.form != FormZeroTimesInf {
		return resolution{}, failf(FundamentalLimits, "form is %s", p.cls.form)
	}
	factors := factorsOf(p.expr)
	out := make([]Expr, len(factors))
	var rules []string
	for i, f := range factors {
		nf, rule, ok := p.equivalent(f)
		out[i] = nf
		if ok {
			rules = append(rules, rule)
		}
	}
	if len(rules) == 0 {
		return resolution{}, failf(FundamentalLimits, "no factor matches a fundamental limit")
	}
	for _, rule := range rules {
		p.rec.text("Replace %s.", rule)
	}
	rewritten := MulOf(out...)
	p.rec.expr("Rewritten: ", rewritten)
	v, ok := p.settleRewritten(rewritten)
	if !ok {
		return resolution{}, failf(FundamentalLimits, "%s is still indeterminate", rewritten)
	}
	p.rec.math(p.limitText()+" "+rewritten.String()+" = "+v.String(),
		p.limitLaTeX()+" "+rewritten.LaTeX()+" = "+valueLaTeX(v))
	return resolution{value: v}, nil
}

// expOfLimit maps an inner limit L to e^L.
func expOfLimit(l LimitValue) (LimitValue, bool) {
	if l.Kind != ValueReal {
		return LimitValue{}, false
	}
	switch l.Real.InfSign() {
	case 1:
		return realValue(PosInf), true
	case -1:
		return realValue(Finite(0)), true
	}
	return realValue(Finite(math.Exp(l.Real.Float64()))), true
}

func execExponential(p *problem) (resolution, error) {
	if p.cls.form != FormOnePowInf {
		return resolution{}, failf(ExponentialFundamentalLimits, "form is %s", p.cls.form)
	}
	u := AddOf(p.cls.base, N(-1))
	inner := MulOf(p.cls.exp, u)
	p.rec.text("Write the base as 1 + u with u = %s → 0. Since (1 + u)^(1/u) → e, the limit is e^L.", u)
	p.rec.math("L = "+p.limitText()+" "+inner.String(), "L = "+p.limitLaTeX()+" "+inner.LaTeX())

	res, sub, err := p.nested(inner)
	if err != nil {
		return resolution{}, failf(ExponentialFundamentalLimits, "%v", err)
	}
	v, ok := expOfLimit(res.value)
	if !ok {
		return resolution{}, failf(ExponentialFundamentalLimits, "inner limit is %s", res.value)
	}
	p.rec.merge(sub)
	p.rec.math("L = "+res.value.String()+", so the limit is e^L = "+v.String(),
		"L = "+valueLaTeX(res.value)+", \\quad e^{L} = "+valueLaTeX(v))
	return resolution{value: v}, nil
}
