package golimit

import (
	"math/big"
	"strconv"
	"strings"
)

// ============================================================
// Rendering
// ============================================================

// Precedence levels used to decide where parentheses go.
const (
	precSum = iota + 1
	precProduct
	precPower
	precAtom
)

// maxShownDenom bounds the denominators rendered as fractions; larger ones
// come from float constants and print as decimals.
var maxShownDenom = big.NewInt(1000)

func precOf(e Expr) int {
	switch v := e.(type) {
	case *Num:
		if v.IsNegative() || !v.IsInteger() {
			return precProduct
		}
		return precAtom
	case *Add:
		return precSum
	case *Mul:
		return precProduct
	case *Pow:
		if en, ok := v.exp.(*Num); ok {
			if en.IsNegative() {
				return precProduct
			}
			if v.isSqrt() {
				return precAtom
			}
		}
		return precPower
	}
	return precAtom
}

func wrap(e Expr, min int) string {
	if precOf(e) < min {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func wrapLaTeX(e Expr, min int) string {
	if precOf(e) < min {
		return "\\left(" + e.LaTeX() + "\\right)"
	}
	return e.LaTeX()
}

func (n *Num) niceFraction() bool {
	return n.val.IsInt() || n.val.Denom().Cmp(maxShownDenom) <= 0
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	if n.niceFraction() {
		return n.val.RatString()
	}
	return strconv.FormatFloat(n.Float64(), 'g', -1, 64)
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	if !n.niceFraction() {
		return n.String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return sign + "\\frac{" + v.Num().String() + "}{" + v.Denom().String() + "}"
}

func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }

func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.terms {
		switch {
		case i == 0:
			b.WriteString(t.String())
		case isNegativeTerm(t):
			b.WriteString(" - ")
			b.WriteString(wrap(negate(t), precProduct))
		default:
			b.WriteString(" + ")
			b.WriteString(t.String())
		}
	}
	return b.String()
}

func (a *Add) LaTeX() string {
	var b strings.Builder
	for i, t := range a.terms {
		switch {
		case i == 0:
			b.WriteString(t.LaTeX())
		case isNegativeTerm(t):
			b.WriteString(" - ")
			b.WriteString(wrapLaTeX(negate(t), precProduct))
		default:
			b.WriteString(" + ")
			b.WriteString(t.LaTeX())
		}
	}
	return b.String()
}

// fraction splits a product into sign, numerator and denominator factors.
// Nice rational coefficients contribute their numerator and denominator.
func (m *Mul) fraction() (negative bool, num, den []Expr) {
	for _, f := range m.factors {
		if c, ok := f.(*Num); ok {
			negative = c.IsNegative()
			c = numAbs(c)
			if !c.niceFraction() {
				num = append(num, c)
				continue
			}
			if p := new(big.Int).Set(c.val.Num()); p.Cmp(big.NewInt(1)) != 0 {
				num = append(num, &Num{val: new(big.Rat).SetInt(p)})
			}
			if q := c.val.Denom(); q.Cmp(big.NewInt(1)) != 0 {
				den = append(den, &Num{val: new(big.Rat).SetInt(q)})
			}
			continue
		}
		if p, ok := f.(*Pow); ok {
			if en, ok2 := p.exp.(*Num); ok2 && en.IsNegative() {
				den = append(den, (&Pow{base: p.base, exp: numNeg(en)}).Simplify())
				continue
			}
		}
		num = append(num, f)
	}
	return negative, num, den
}

func joinProduct(fs []Expr, latex bool) string {
	if len(fs) == 0 {
		return "1"
	}
	parts := make([]string, len(fs))
	for i, f := range fs {
		if latex {
			parts[i] = wrapLaTeX(f, precPower)
		} else {
			parts[i] = wrap(f, precPower)
		}
	}
	if latex {
		return strings.Join(parts, " \\cdot ")
	}
	return strings.Join(parts, "*")
}

func (m *Mul) String() string {
	negative, num, den := m.fraction()
	out := joinProduct(num, false)
	if len(den) > 0 {
		d := joinProduct(den, false)
		if len(den) > 1 {
			d = "(" + d + ")"
		}
		out += "/" + d
	}
	if negative {
		return "-" + out
	}
	return out
}

func (m *Mul) LaTeX() string {
	negative, num, den := m.fraction()
	out := joinProduct(num, true)
	if len(den) > 0 {
		out = "\\frac{" + out + "}{" + joinProduct(den, true) + "}"
	}
	if negative {
		return "-" + out
	}
	return out
}

func (p *Pow) String() string {
	if en, ok := p.exp.(*Num); ok {
		if p.isSqrt() {
			return "sqrt(" + p.base.String() + ")"
		}
		if en.IsNegative() {
			return "1/" + wrap((&Pow{base: p.base, exp: numNeg(en)}).Simplify(), precPower)
		}
		if en.IsInteger() {
			return wrap(p.base, precAtom) + "^" + en.String()
		}
	}
	return wrap(p.base, precAtom) + "^(" + p.exp.String() + ")"
}

func (p *Pow) LaTeX() string {
	if en, ok := p.exp.(*Num); ok {
		if p.isSqrt() {
			return "\\sqrt{" + p.base.LaTeX() + "}"
		}
		if en.IsNegative() {
			return "\\frac{1}{" + (&Pow{base: p.base, exp: numNeg(en)}).Simplify().LaTeX() + "}"
		}
	}
	return wrapLaTeX(p.base, precAtom) + "^{" + p.exp.LaTeX() + "}"
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	switch f.name {
	case "sin", "cos", "tan", "exp", "ln", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
	case "log":
		return "\\log_{10}\\left(" + f.arg.LaTeX() + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + f.arg.LaTeX() + "\\right)"
	case "acos":
		return "\\arccos\\left(" + f.arg.LaTeX() + "\\right)"
	case "atan":
		return "\\arctan\\left(" + f.arg.LaTeX() + "\\right)"
	case "abs":
		return "\\left|" + f.arg.LaTeX() + "\\right|"
	}
	return "\\operatorname{" + f.name + "}\\left(" + f.arg.LaTeX() + "\\right)"
}

func (d *Deriv) String() string {
	s := "d/d" + d.varName + "[" + d.of.String() + "]"
	if sym, ok := d.at.(*Sym); ok && sym.name == d.varName {
		return s
	}
	return s + "(" + d.at.String() + ")"
}

func (d *Deriv) LaTeX() string {
	s := "\\frac{d}{d" + d.varName + "}\\left[" + d.of.LaTeX() + "\\right]"
	if sym, ok := d.at.(*Sym); ok && sym.name == d.varName {
		return s
	}
	return s + "\\Big|_{" + d.varName + "=" + d.at.LaTeX() + "}"
}
