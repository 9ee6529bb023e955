// Package golimit resolves single-variable limits and explains how.
//
// Design goals:
//   - Immutable expression trees with exact rational constants (math/big.Rat)
//   - Deterministic simplification and stable rendering
//   - Ordered, human-readable derivations for every resolved limit
//   - Pure, reentrant entry points safe to call on every keystroke
package golimit

import (
	"math"
	"math/big"
	"sort"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a node of an immutable expression tree.
type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
	exprType() string
}

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// F builds p/q. q must be non-zero.
func F(p, q int64) *Num {
	if q == 0 {
		panic("golimit: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat converts a finite float. Non-finite input yields 0; callers that may
// see NaN or Inf go through numFromFloat instead.
func NFloat(f float64) *Num {
	r := new(big.Rat)
	if r.SetFloat64(f) == nil {
		return N(0)
	}
	return &Num{val: r}
}

func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func numFromFloat(f float64) (*Num, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return NFloat(f), true
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }

// numRecip must only be called with a non-zero argument.
func numRecip(a *Num) *Num { return &Num{val: new(big.Rat).Inv(a.val)} }

func numAbs(a *Num) *Num { return &Num{val: new(big.Rat).Abs(a.val)} }

// ============================================================
// Sym: the limit variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym             { return &Sym{name: name} }
func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) Eval() (*Num, bool)    { return nil, false }
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds constants and combines like terms
// (terms equal up to a rational coefficient).
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	numAccum := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		c, rest := extractCoefficient(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], c)
	}
	sort.SliceStable(order, func(i, j int) bool {
		di, dj := termDegree(rests[order[i]]), termDegree(rests[order[j]])
		if di != dj {
			return di > dj
		}
		return order[i] < order[j]
	})
	result := []Expr{}
	for _, key := range order {
		coeff := coeffs[key]
		switch {
		case coeff.IsZero():
			continue
		case coeff.IsOne():
			result = append(result, rests[key])
		default:
			result = append(result, MulOf(coeff, rests[key]))
		}
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) Terms() []Expr    { return a.terms }

// termDegree orders sum terms by their total numeric power of symbols.
func termDegree(e Expr) float64 {
	switch v := e.(type) {
	case *Sym:
		return 1
	case *Pow:
		if _, ok := v.base.(*Sym); ok {
			if n, ok2 := v.exp.(*Num); ok2 {
				return n.Float64()
			}
		}
	case *Mul:
		total := 0.0
		for _, f := range v.factors {
			total += termDegree(f)
		}
		return total
	}
	return 0
}

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds the rational coefficient and
// merges factors sharing a base by adding their exponents.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := N(1)
	type group struct{ base, exp Expr }
	groups := map[string]*group{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		if g, seen := groups[key]; seen {
			g.exp = AddOf(g.exp, exp)
			continue
		}
		groups[key] = &group{base: base, exp: exp}
		order = append(order, key)
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := make([]Expr, 0, len(order))
	reflatten := false
	for _, key := range order {
		g := groups[key]
		merged := Expr(&Pow{base: g.base, exp: g.exp})
		if en, ok := g.exp.(*Num); ok && en.IsOne() {
			merged = g.base
		} else {
			merged = merged.Simplify()
		}
		switch v := merged.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			reflatten = true
			others = append(others, v)
		default:
			others = append(others, merged)
		}
	}
	if reflatten {
		return MulOf(append([]Expr{coeff}, others...)...)
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sortedOthers := make([]Expr, len(ks))
	for i := range ks {
		sortedOthers[i] = ks[i].e
	}
	others = sortedOthers

	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms[i] = MulOf(append([]Expr{dfi}, others...)...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) Factors() []Expr  { return m.factors }

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)

	// 0^0 and 0^negative stay unevaluated so the evaluator can report them.
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if expIsNum && en.IsPositive() {
			return N(0)
		}
		return &Pow{base: base, exp: exp}
	}
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}

	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}
	if bn, ok := base.(*Num); ok && expIsNum && en.IsInteger() {
		e := en.val.Num().Int64()
		if e >= -20 && e <= 20 {
			posE := e
			if posE < 0 {
				posE = -posE
			}
			result := N(1)
			for i := int64(0); i < posE; i++ {
				result = numMul(result, bn)
			}
			if e < 0 {
				return numRecip(result)
			}
			return result
		}
	}
	if expIsNum && en.IsInteger() {
		// (a^b)^n = a^(b*n) and (a*b)^n = a^n * b^n hold for integer n.
		if inner, ok := base.(*Pow); ok {
			return PowOf(inner.base, MulOf(inner.exp, exp))
		}
		if m, ok := base.(*Mul); ok {
			factors := make([]Expr, len(m.factors))
			for i, f := range m.factors {
				factors[i] = PowOf(f, exp)
			}
			return MulOf(factors...)
		}
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if !dependsOn(p.exp, varName) {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	if !dependsOn(p.base, varName) {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return nil, false
	}
	if b.IsZero() && !e.IsPositive() {
		return nil, false
	}
	return numFromFloat(math.Pow(b.Float64(), e.Float64()))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) Base() Expr       { return p.base }
func (p *Pow) ExpExpr() Expr    { return p.exp }

// isSqrt reports whether p is a square root.
func (p *Pow) isSqrt() bool {
	en, ok := p.exp.(*Num)
	return ok && en.val.Cmp(big.NewRat(1, 2)) == 0
}

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr   { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr   { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr   { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr   { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr    { return funcOf("ln", arg).Simplify() }
func Log10Of(arg Expr) Expr { return funcOf("log", arg).Simplify() }
func SqrtOf(arg Expr) Expr  { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr   { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr  { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr  { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr  { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr  { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr  { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr  { return funcOf("tanh", arg).Simplify() }

// applyFunc evaluates a named function on a real argument. ok is false for
// unknown names; domain violations surface as NaN and are reported by the
// evaluator.
func applyFunc(name string, v float64) (float64, bool) {
	switch name {
	case "sin":
		return math.Sin(v), true
	case "cos":
		return math.Cos(v), true
	case "tan":
		return math.Tan(v), true
	case "exp":
		return math.Exp(v), true
	case "ln":
		return math.Log(v), true
	case "log":
		return math.Log10(v), true
	case "abs":
		return math.Abs(v), true
	case "asin":
		return math.Asin(v), true
	case "acos":
		return math.Acos(v), true
	case "atan":
		return math.Atan(v), true
	case "sinh":
		return math.Sinh(v), true
	case "cosh":
		return math.Cosh(v), true
	case "tanh":
		return math.Tanh(v), true
	}
	return 0, false
}

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		switch {
		case f.name == "sin" && n.IsZero(), f.name == "tan" && n.IsZero():
			return N(0)
		case f.name == "cos" && n.IsZero(), f.name == "exp" && n.IsZero():
			return N(1)
		case (f.name == "ln" || f.name == "log") && n.IsOne():
			return N(0)
		case f.name == "abs":
			return numAbs(n)
		}
		if v, ok := applyFunc(f.name, n.Float64()); ok {
			if folded, ok := numFromFloat(v); ok {
				return folded
			}
		}
		return &Func{name: f.name, arg: arg}
	}
	switch f.name {
	case "ln":
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "abs":
		if m, ok := arg.(*Mul); ok && len(m.factors) >= 2 {
			if coeff, ok2 := m.factors[0].(*Num); ok2 && coeff.IsNegative() {
				return MulOf(numAbs(coeff), AbsOf(MulOf(m.factors[1:]...)))
			}
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

// Diff applies the chain rule. Functions without a symbolic rule yield a
// Deriv node that the evaluator approximates by central differences.
func (f *Func) Diff(varName string) Expr {
	if !dependsOn(f.arg, varName) {
		return N(0)
	}
	du := f.arg.Diff(varName)
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	case "log":
		outer = PowOf(MulOf(f.arg, NFloat(math.Ln10)), N(-1))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	default:
		return &Deriv{of: f, varName: varName, at: S(varName)}
	}
	return MulOf(outer, du)
}

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	v, ok := applyFunc(f.name, n.Float64())
	if !ok {
		return nil, false
	}
	return numFromFloat(v)
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

// ============================================================
// Deriv: derivative without a symbolic rule
// ============================================================

// Deriv stands for d/dvar(of) evaluated at the expression at. It only
// appears when Diff meets a construct it has no rule for.
type Deriv struct {
	of      Expr
	varName string
	at      Expr
}

func (d *Deriv) Simplify() Expr {
	if !dependsOn(d.of, d.varName) {
		return N(0)
	}
	return &Deriv{of: d.of.Simplify(), varName: d.varName, at: d.at.Simplify()}
}

func (d *Deriv) Sub(varName string, value Expr) Expr {
	if varName != d.varName {
		return d
	}
	return &Deriv{of: d.of, varName: d.varName, at: d.at.Sub(varName, value).Simplify()}
}

func (d *Deriv) Diff(varName string) Expr {
	if !dependsOn(d.at, varName) {
		return N(0)
	}
	return &Deriv{of: d, varName: varName, at: S(varName)}
}

func (d *Deriv) Eval() (*Num, bool) { return nil, false }

func (d *Deriv) Equal(other Expr) bool {
	o, ok := other.(*Deriv)
	return ok && d.varName == o.varName && d.of.Equal(o.of) && d.at.Equal(o.at)
}

func (d *Deriv) exprType() string { return "deriv" }

// ============================================================
// Tree helpers
// ============================================================

func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}

func Expand(e Expr) Expr { return expandExpr(e).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		expanded := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			expanded[i] = expandExpr(f)
		}
		for i, f := range expanded {
			if a, ok := f.(*Add); ok {
				rest := make([]Expr, 0, len(expanded)-1)
				for j, ef := range expanded {
					if j != i {
						rest = append(rest, ef)
					}
				}
				terms := make([]Expr, len(a.terms))
				for k, t := range a.terms {
					terms[k] = expandExpr(MulOf(append([]Expr{t}, rest...)...))
				}
				return expandExpr(AddOf(terms...))
			}
		}
		return MulOf(expanded...)
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			exp := n.val.Num().Int64()
			if exp >= 0 && exp <= 10 {
				result := Expr(N(1))
				base := expandExpr(v.base)
				for i := int64(0); i < exp; i++ {
					result = expandExpr(MulOf(result, base))
				}
				return result
			}
		}
		return PowOf(expandExpr(v.base), expandExpr(v.exp))
	}
	return e
}

// dependsOn reports whether varName occurs free in e.
func dependsOn(e Expr, varName string) bool {
	switch v := e.(type) {
	case *Sym:
		return v.name == varName
	case *Add:
		for _, t := range v.terms {
			if dependsOn(t, varName) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if dependsOn(f, varName) {
				return true
			}
		}
	case *Pow:
		return dependsOn(v.base, varName) || dependsOn(v.exp, varName)
	case *Func:
		return dependsOn(v.arg, varName)
	case *Deriv:
		return dependsOn(v.at, varName)
	}
	return false
}

// containsDeriv reports whether e holds a numerically approximated derivative.
func containsDeriv(e Expr) bool {
	switch v := e.(type) {
	case *Deriv:
		return true
	case *Add:
		for _, t := range v.terms {
			if containsDeriv(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if containsDeriv(f) {
				return true
			}
		}
	case *Pow:
		return containsDeriv(v.base) || containsDeriv(v.exp)
	case *Func:
		return containsDeriv(v.arg)
	}
	return false
}

// containsSqrt reports whether e holds a square root.
func containsSqrt(e Expr) bool {
	switch v := e.(type) {
	case *Pow:
		return v.isSqrt() || containsSqrt(v.base) || containsSqrt(v.exp)
	case *Add:
		for _, t := range v.terms {
			if containsSqrt(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if containsSqrt(f) {
				return true
			}
		}
	case *Func:
		return containsSqrt(v.arg)
	}
	return false
}

func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// extractQuotient splits e into numerator and denominator, treating factors
// with negative rational exponents as denominator factors.
func extractQuotient(e Expr) (num, denom Expr, ok bool) {
	var factors []Expr
	switch v := e.(type) {
	case *Mul:
		factors = v.factors
	case *Pow:
		factors = []Expr{v}
	default:
		return nil, nil, false
	}
	var numFactors, denomFactors []Expr
	for _, f := range factors {
		if p, isPow := f.(*Pow); isPow {
			if en, isNum := p.exp.(*Num); isNum && en.IsNegative() {
				denomFactors = append(denomFactors, PowOf(p.base, numNeg(en)))
				continue
			}
		}
		numFactors = append(numFactors, f)
	}
	if len(denomFactors) == 0 {
		return nil, nil, false
	}
	return joinFactors(numFactors), joinFactors(denomFactors), true
}

func joinFactors(fs []Expr) Expr {
	switch len(fs) {
	case 0:
		return N(1)
	case 1:
		return fs[0]
	}
	return MulOf(fs...)
}

// quotient builds num/den.
func quotient(num, den Expr) Expr { return MulOf(num, PowOf(den, N(-1))) }

// negate builds -e.
func negate(e Expr) Expr { return MulOf(N(-1), e) }

// isNegativeTerm reports whether a sum term renders with a leading minus.
func isNegativeTerm(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.IsNegative()
	case *Mul:
		if c, ok := v.factors[0].(*Num); ok {
			return c.IsNegative()
		}
	}
	return false
}
