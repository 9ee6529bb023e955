package golimit

func execLHopital(p *problem) (resolution, error) {
	var num, den Expr
	switch p.cls.form {
	case FormZeroOverZero, FormInfOverInf:
		num, den = p.cls.num, p.cls.den
	case FormZeroTimesInf:
		num, den = p.cls.inf, PowOf(p.cls.zero, N(-1))
		p.rec.math("Rewrite the product as a quotient: "+num.String()+" / ("+den.String()+")",
			"\\frac{"+num.LaTeX()+"}{"+den.LaTeX()+"}")
	case FormInfMinusInf:
		f, g := p.cls.pos, p.cls.neg
		num = AddOf(PowOf(g, N(-1)), negate(PowOf(f, N(-1))))
		den = PowOf(MulOf(f, g), N(-1))
		p.rec.text("Rewrite f - g as (1/g - 1/f) / (1/(f·g)) with f = %s and g = %s.", f, g)
	case FormOnePowInf, FormZeroPowZero, FormInfPowZero:
		return p.lhopitalPower()
	default:
		return resolution{}, failf(LHopital, "form is %s", p.cls.form)
	}
	return p.lhopitalQuotient(num, den)
}

// lhopitalQuotient differentiates num and den until the ratio settles, at
// most MaxLHopital times.
func (p *problem) lhopitalQuotient(num, den Expr) (resolution, error) {
	for round := 1; round <= p.cfg.MaxLHopital; round++ {
		dn, dd := Diff(num, p.v), Diff(den, p.v)
		if containsDeriv(dn) || containsDeriv(dd) {
			p.rec.tip(numericDerivativeTip)
		}
		if n, ok := dd.(*Num); ok && n.IsZero() {
			return resolution{}, failf(LHopital, "derivative of %s vanishes identically", den)
		}
		p.rec.text("Apply L'Hôpital's rule (round %d): differentiate numerator and denominator.", round)
		p.rec.math("("+num.String()+")' = "+dn.String(), "\\left("+num.LaTeX()+"\\right)' = "+dn.LaTeX())
		p.rec.math("("+den.String()+")' = "+dd.String(), "\\left("+den.LaTeX()+"\\right)' = "+dd.LaTeX())
		ratio := quotient(dn, dd)
		p.rec.expr("New quotient: ", ratio)

		if v, ok := p.settleRewritten(ratio); ok {
			p.recordValue(ratio, v)
			return resolution{value: v}, nil
		}
		ln, ld := p.limitOf(dn), p.limitOf(dd)
		if (p.isZero(ln) && p.isZero(ld)) || (isInfinite(ln) && isInfinite(ld)) {
			p.rec.text("The quotient is still indeterminate (%s / %s).", ln, ld)
			num, den = dn, dd
			continue
		}
		if v, ok := p.quotientLimit(ratio, dn, dd); ok {
			p.recordValue(ratio, v)
			return resolution{value: v}, nil
		}
		return resolution{}, failf(LHopital, "quotient %s does not settle", ratio)
	}
	return resolution{}, failf(LHopital, "still indeterminate after %d rounds", p.cfg.MaxLHopital)
}

func (p *problem) recordValue(e Expr, v LimitValue) {
	p.rec.math(p.limitText()+" "+e.String()+" = "+v.String(),
		p.limitLaTeX()+" "+e.LaTeX()+" = "+valueLaTeX(v))
}

// lhopitalPower handles B^E by resolving L = lim E·ln(B) and returning e^L.
func (p *problem) lhopitalPower() (resolution, error) {
	inner := MulOf(p.cls.exp, LnOf(p.cls.base))
	p.rec.text("Take logarithms: ln(%s) = %s; the limit is e^L with L its limit.", p.expr, inner)
	res, sub, err := p.nested(inner)
	if err != nil {
		return resolution{}, failf(LHopital, "%v", err)
	}
	v, ok := expOfLimit(res.value)
	if !ok {
		return resolution{}, failf(LHopital, "inner limit is %s", res.value)
	}
	p.rec.merge(sub)
	p.rec.math("L = "+res.value.String()+", so the limit is e^L = "+v.String(),
		"L = "+valueLaTeX(res.value)+", \\quad e^{L} = "+valueLaTeX(v))
	return resolution{value: v}, nil
}
