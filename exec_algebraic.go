package golimit

import (
	"math/big"
	"strconv"
)

func execDirect(p *problem) (resolution, error) {
	if p.cls.form != FormNumeric {
		return resolution{}, failf(DirectSubstitution, "form is %s", p.cls.form)
	}
	v := Finite(p.cls.direct)
	if p.point.IsFinite() {
		p.rec.text("The expression is defined and continuous at %s = %s, so substitute directly.", p.v, p.point.Symbol())
	} else {
		p.rec.text("The expression does not depend on %s.", p.v)
	}
	p.rec.math(p.limitText()+" "+p.expr.String()+" = "+v.Symbol(),
		p.limitLaTeX()+" "+p.expr.LaTeX()+" = "+v.LaTeX())
	return resolution{value: realValue(v)}, nil
}

// pointRat converts a finite point to the exact rational its decimal form
// denotes, so 0.1 is 1/10 rather than its binary approximation.
func pointRat(r ExtendedReal) *big.Rat {
	a, ok := new(big.Rat).SetString(strconv.FormatFloat(r.Float64(), 'g', -1, 64))
	if !ok {
		return new(big.Rat).SetFloat64(r.Float64())
	}
	return a
}

func execFactoring(p *problem) (resolution, error) {
	if !p.point.IsFinite() || p.cls.num == nil {
		return resolution{}, failf(Factoring, "needs a quotient at a finite point")
	}
	pn, ok := polyOf(p.cls.num, p.v)
	if !ok {
		return resolution{}, failf(Factoring, "numerator %s is not a polynomial", p.cls.num)
	}
	pd, ok := polyOf(p.cls.den, p.v)
	if !ok {
		return resolution{}, failf(Factoring, "denominator %s is not a polynomial", p.cls.den)
	}
	a := pointRat(p.point)
	rn, rd, k := cancelRoot(pn, pd, a)
	if k == 0 {
		return resolution{}, failf(Factoring, "%s is not a common factor", linearFactor(p.v, a))
	}
	common := PowOf(linearFactor(p.v, a), N(int64(k)))
	p.rec.text("Numerator and denominator are polynomials vanishing at %s = %s, so both contain the factor %s.",
		p.v, p.point.Symbol(), linearFactor(p.v, a))
	p.rec.expr("Numerator: ", MulOf(common, rn.expr(p.v)))
	p.rec.expr("Denominator: ", MulOf(common, rd.expr(p.v)))
	p.rec.text("Cancel the common factor %s.", common)

	reduced := quotient(rn.expr(p.v), rd.expr(p.v))
	p.rec.expr("Simplified: ", reduced)
	v, ok := p.settleRewritten(reduced)
	if !ok {
		return resolution{}, failf(Factoring, "reduced ratio %s is still indeterminate", reduced)
	}
	p.rec.math(p.limitText()+" "+reduced.String()+" = "+v.String(),
		p.limitLaTeX()+" "+reduced.LaTeX()+" = "+valueLaTeX(v))
	return resolution{value: v}, nil
}

// splitRadical splits a sum R + T where R is the first term holding a
// square root.
func splitRadical(e Expr) (r, t Expr, ok bool) {
	add, isAdd := e.(*Add)
	if !isAdd {
		return nil, nil, false
	}
	for i, term := range add.terms {
		if !containsSqrt(term) {
			continue
		}
		rest := make([]Expr, 0, len(add.terms)-1)
		rest = append(rest, add.terms[:i]...)
		rest = append(rest, add.terms[i+1:]...)
		return term, AddOf(rest...), true
	}
	return nil, nil, false
}

// conjugateProduct returns (R + T)(R - T) = R² - T² expanded.
func conjugateProduct(r, t Expr) Expr {
	return Expand(AddOf(PowOf(r, N(2)), negate(PowOf(t, N(2)))))
}

func execRationalization(p *problem) (resolution, error) {
	if !p.point.IsFinite() || p.cls.num == nil {
		return resolution{}, failf(Rationalization, "needs a quotient at a finite point")
	}
	target, other, inNum := p.cls.num, p.cls.den, true
	r, t, ok := splitRadical(target)
	if !ok {
		target, other, inNum = p.cls.den, p.cls.num, false
		if r, t, ok = splitRadical(target); !ok {
			return resolution{}, failf(Rationalization, "no sum with a square root")
		}
	}
	conj := AddOf(r, negate(t))
	product := conjugateProduct(r, t)
	p.rec.text("Multiply numerator and denominator by the conjugate %s.", conj)
	p.rec.math("("+target.String()+")*("+conj.String()+") = "+product.String(),
		"\\left("+target.LaTeX()+"\\right)\\left("+conj.LaTeX()+"\\right) = "+product.LaTeX())

	pp, ok := polyOf(product, p.v)
	if !ok {
		return resolution{}, failf(Rationalization, "%s still holds a root", product)
	}
	po, ok := polyOf(other, p.v)
	if !ok {
		return resolution{}, failf(Rationalization, "%s is not a polynomial", other)
	}
	a := pointRat(p.point)
	k := min(pp.multiplicity(a), po.multiplicity(a))
	if k == 0 {
		return resolution{}, failf(Rationalization, "no common factor %s", linearFactor(p.v, a))
	}
	pp, po = pp.divideRoot(a, k), po.divideRoot(a, k)
	p.rec.text("Cancel the common factor %s.", PowOf(linearFactor(p.v, a), N(int64(k))))

	var rewritten Expr
	if inNum {
		rewritten = quotient(pp.expr(p.v), MulOf(po.expr(p.v), conj))
	} else {
		rewritten = quotient(MulOf(po.expr(p.v), conj), pp.expr(p.v))
	}
	p.rec.expr("Simplified: ", rewritten)
	v, ok := p.settleRewritten(rewritten)
	if !ok {
		return resolution{}, failf(Rationalization, "%s is still indeterminate", rewritten)
	}
	p.rec.math(p.limitText()+" "+rewritten.String()+" = "+v.String(),
		p.limitLaTeX()+" "+rewritten.LaTeX()+" = "+valueLaTeX(v))
	return resolution{value: v}, nil
}

func valueLaTeX(v LimitValue) string {
	switch v.Kind {
	case ValueDoesNotExist:
		return "\\text{does not exist}"
	case ValueError:
		return "\\text{error}"
	}
	return v.Real.LaTeX()
}
