package golimit

import "math/big"

// poly holds exact polynomial coefficients, lowest degree first.
type poly []*big.Rat

// polyOf extracts e as a polynomial in v. Subexpressions free of v must
// evaluate to exact constants.
func polyOf(e Expr, v string) (poly, bool) {
	if !dependsOn(e, v) {
		n, ok := e.Eval()
		if !ok {
			return nil, false
		}
		return poly{n.Rat()}, true
	}
	switch t := e.(type) {
	case *Sym:
		return poly{new(big.Rat), big.NewRat(1, 1)}, true
	case *Add:
		acc := poly{new(big.Rat)}
		for _, term := range t.terms {
			p, ok := polyOf(term, v)
			if !ok {
				return nil, false
			}
			acc = polyAdd(acc, p)
		}
		return acc.trim(), true
	case *Mul:
		acc := poly{big.NewRat(1, 1)}
		for _, f := range t.factors {
			p, ok := polyOf(f, v)
			if !ok {
				return nil, false
			}
			acc = polyMul(acc, p)
		}
		return acc.trim(), true
	case *Pow:
		n, ok := t.exp.(*Num)
		if !ok || !n.IsInteger() || n.IsNegative() || n.val.Num().Int64() > 30 {
			return nil, false
		}
		base, ok := polyOf(t.base, v)
		if !ok {
			return nil, false
		}
		acc := poly{big.NewRat(1, 1)}
		for i := int64(0); i < n.val.Num().Int64(); i++ {
			acc = polyMul(acc, base)
		}
		return acc.trim(), true
	}
	return nil, false
}

func (p poly) trim() poly {
	n := len(p)
	for n > 1 && p[n-1].Sign() == 0 {
		n--
	}
	return p[:n]
}

// degree is -1 for the zero polynomial.
func (p poly) degree() int {
	p = p.trim()
	if len(p) == 1 && p[0].Sign() == 0 {
		return -1
	}
	return len(p) - 1
}

func (p poly) evalRat(a *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(p) - 1; i >= 0; i-- {
		acc.Mul(acc, a)
		acc.Add(acc, p[i])
	}
	return acc
}

// divLinear divides p by (x - a) using synthetic division.
func (p poly) divLinear(a *big.Rat) (q poly, rem *big.Rat) {
	p = p.trim()
	if len(p) < 2 {
		return poly{new(big.Rat)}, new(big.Rat).Set(p[0])
	}
	q = make(poly, len(p)-1)
	carry := new(big.Rat)
	for i := len(p) - 1; i >= 1; i-- {
		carry = new(big.Rat).Add(new(big.Rat).Mul(carry, a), p[i])
		q[i-1] = carry
	}
	rem = new(big.Rat).Add(new(big.Rat).Mul(carry, a), p[0])
	return q, rem
}

func (p poly) expr(v string) Expr {
	terms := make([]Expr, 0, len(p))
	for i, c := range p {
		if c.Sign() == 0 {
			continue
		}
		terms = append(terms, MulOf(NRat(c), PowOf(S(v), N(int64(i)))))
	}
	return AddOf(terms...)
}

func polyAdd(a, b poly) poly {
	if len(a) < len(b) {
		a, b = b, a
	}
	out := make(poly, len(a))
	for i := range a {
		out[i] = new(big.Rat).Set(a[i])
		if i < len(b) {
			out[i].Add(out[i], b[i])
		}
	}
	return out
}

func polyMul(a, b poly) poly {
	out := make(poly, len(a)+len(b)-1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	for i, x := range a {
		for j, y := range b {
			out[i+j].Add(out[i+j], new(big.Rat).Mul(x, y))
		}
	}
	return out
}

// cancelRoot divides (x - a) out of n and d while both vanish at a and
// reports how many times it did so.
func cancelRoot(n, d poly, a *big.Rat) (poly, poly, int) {
	k := 0
	for n.degree() > 0 && d.degree() > 0 && n.evalRat(a).Sign() == 0 && d.evalRat(a).Sign() == 0 {
		n, _ = n.divLinear(a)
		d, _ = d.divLinear(a)
		k++
	}
	return n, d, k
}

// multiplicity counts how many times (x - a) divides p.
func (p poly) multiplicity(a *big.Rat) int {
	k := 0
	for p.degree() > 0 && p.evalRat(a).Sign() == 0 {
		p, _ = p.divLinear(a)
		k++
	}
	return k
}

// divideRoot divides (x - a)^k out of p.
func (p poly) divideRoot(a *big.Rat, k int) poly {
	for i := 0; i < k; i++ {
		p, _ = p.divLinear(a)
	}
	return p
}

// linearFactor builds (x - a).
func linearFactor(v string, a *big.Rat) Expr {
	return AddOf(S(v), NRat(new(big.Rat).Neg(a)))
}
