package golimit

import "math/big"

func execHighestDegree(p *problem) (resolution, error) {
	if p.point.IsFinite() {
		return resolution{}, failf(HighestDegreeTerm, "point is finite")
	}
	sign := p.point.InfSign()
	if num, den, ok := extractQuotient(p.expr); ok {
		gn, okN := dominantAt(num, p.v, sign)
		gd, okD := dominantAt(den, p.v, sign)
		if okN && okD {
			p.rec.expr("Dominant term of the numerator: ", gn.termExpr(p.v, sign))
			p.rec.expr("Dominant term of the denominator: ", gd.termExpr(p.v, sign))
			ratio := growth{coef: gn.coef / gd.coef, deg: new(big.Rat).Sub(gn.deg, gd.deg)}
			return p.finishGrowth(ratio, quotient(gn.termExpr(p.v, sign), gd.termExpr(p.v, sign)))
		}
	}
	g, ok := dominantAt(p.expr, p.v, sign)
	if !ok {
		return resolution{}, failf(HighestDegreeTerm, "no algebraic dominant term in %s", p.expr)
	}
	p.rec.expr("Dominant term: ", g.termExpr(p.v, sign))
	return p.finishGrowth(g, g.termExpr(p.v, sign))
}

func (p *problem) finishGrowth(g growth, shown Expr) (resolution, error) {
	v := realValue(g.value())
	switch g.deg.Sign() {
	case 1:
		p.rec.text("The dominant term has positive degree %s, so the expression grows without bound.", g.deg.RatString())
	case -1:
		p.rec.text("The dominant term has negative degree %s, so the expression tends to 0.", g.deg.RatString())
	default:
		p.rec.text("The dominant behavior has degree 0, so the limit is its coefficient.")
	}
	p.rec.math(p.limitText()+" "+shown.String()+" = "+v.String(),
		p.limitLaTeX()+" "+shown.LaTeX()+" = "+valueLaTeX(v))
	return resolution{value: v}, nil
}

func execConjugate(p *problem) (resolution, error) {
	if p.point.IsFinite() || p.cls.form != FormInfMinusInf {
		return resolution{}, failf(ConjugateMultiplication, "needs ∞ - ∞ at infinity")
	}
	r, t, ok := splitRadical(p.expr)
	if !ok {
		return resolution{}, failf(ConjugateMultiplication, "no square root term")
	}
	conj := AddOf(r, negate(t))
	numer := conjugateProduct(r, t)
	rewritten := quotient(numer, conj)
	p.rec.text("Multiply and divide by the conjugate %s.", conj)
	p.rec.math(p.expr.String()+" = ("+numer.String()+")/("+conj.String()+")",
		p.expr.LaTeX()+" = \\frac{"+numer.LaTeX()+"}{"+conj.LaTeX()+"}")

	sign := p.point.InfSign()
	gn, okN := dominantAt(numer, p.v, sign)
	gd, okD := dominantAt(conj, p.v, sign)
	if !okN || !okD {
		return resolution{}, failf(ConjugateMultiplication, "%s has no algebraic dominant term", rewritten)
	}
	p.rec.expr("Dominant term of the numerator: ", gn.termExpr(p.v, sign))
	p.rec.expr("Dominant term of the denominator: ", gd.termExpr(p.v, sign))
	ratio := growth{coef: gn.coef / gd.coef, deg: new(big.Rat).Sub(gn.deg, gd.deg)}
	return p.finishGrowth(ratio, quotient(gn.termExpr(p.v, sign), gd.termExpr(p.v, sign)))
}
