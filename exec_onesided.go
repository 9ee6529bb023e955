package golimit

func execOneSided(p *problem) (resolution, error) {
	if !p.point.IsFinite() {
		return resolution{}, failf(OneSidedLimits, "point is infinite")
	}
	if p.cls.form == FormNonzeroOverZero {
		p.rec.text("The numerator tends to a nonzero value while the denominator tends to 0; the sign of the denominator on each side decides.")
	}
	if p.dir != Both {
		a := p.ev.near(p.whole(), p.point, p.dir)
		if !a.Resolved() {
			return resolution{}, failf(OneSidedLimits, "%s-hand limit is %s", p.dir, a)
		}
		v := a.Extended()
		p.rec.math(p.limitText()+" "+p.expr.String()+" = "+v.String(),
			p.limitLaTeX()+" "+p.expr.LaTeX()+" = "+v.LaTeX())
		res := resolution{value: realValue(v)}
		if p.dir == Left {
			res.left = &v
		} else {
			res.right = &v
		}
		return res, nil
	}

	left := p.ev.near(p.whole(), p.point, Left)
	right := p.ev.near(p.whole(), p.point, Right)
	if !left.Resolved() && !right.Resolved() {
		return resolution{}, failf(OneSidedLimits, "neither side settles (%s, %s)", left, right)
	}
	p.side(Left, left)
	p.side(Right, right)

	var res resolution
	if left.Resolved() {
		l := left.Extended()
		res.left = &l
	}
	if right.Resolved() {
		r := right.Extended()
		res.right = &r
	}
	switch {
	case res.left == nil:
		if right.Kind != ApproachUndefined {
			return resolution{}, failf(OneSidedLimits, "left-hand limit is %s", left)
		}
		p.rec.text("The expression is undefined to the left of %s, so the limit is the right-hand limit.", p.point.Symbol())
		res.value = realValue(*res.right)
	case res.right == nil:
		if left.Kind != ApproachUndefined {
			return resolution{}, failf(OneSidedLimits, "right-hand limit is %s", right)
		}
		p.rec.text("The expression is undefined to the right of %s, so the limit is the left-hand limit.", p.point.Symbol())
		res.value = realValue(*res.left)
	case p.ev.agree(left, right):
		p.rec.text("Both one-sided limits equal %s, so the two-sided limit exists.", res.right)
		res.value = realValue(*res.right)
	case p.ev.split(left, right):
		p.rec.text("The one-sided limits differ (%s ≠ %s), so the two-sided limit does not exist.", res.left, res.right)
		res.value = doesNotExist
	default:
		return resolution{}, failf(OneSidedLimits, "one-sided estimates %s and %s are too noisy to compare", left, right)
	}
	return res, nil
}

// side records one one-sided limit.
func (p *problem) side(dir Direction, a Approach) {
	label := "lim " + p.v + " → " + p.point.Symbol() + dir.arrow() + " "
	latexSide := "^{-}"
	if dir == Right {
		latexSide = "^{+}"
	}
	latex := "\\lim_{" + p.v + " \\to " + p.point.LaTeX() + latexSide + "} " + p.expr.LaTeX()
	if !a.Resolved() {
		p.rec.math(label+p.expr.String()+" is "+a.String(), latex+" \\text{ is "+a.String()+"}")
		return
	}
	v := a.Extended()
	p.rec.math(label+p.expr.String()+" = "+v.String(), latex+" = "+v.LaTeX())
}
