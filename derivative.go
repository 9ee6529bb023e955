package golimit

// DerivativeInfo describes how a derivative was obtained.
type DerivativeInfo struct {
	// Numeric is set when part of the derivative has no symbolic rule and is
	// approximated by a central difference.
	Numeric bool
}

const numericDerivativeTip = "Part of this derivative has no symbolic rule; it is approximated numerically by a central difference (f(x+h) - f(x-h)) / 2h."

// Derivative differentiates expr with respect to its variable.
func Derivative(expr Expression) (Expression, DerivativeInfo) {
	if expr.tree == nil {
		return Expression{Raw: expr.Raw, Variable: expr.Variable}, DerivativeInfo{}
	}
	d := Diff(expr.tree, expr.Variable)
	return expressionOf(d, expr.Variable), DerivativeInfo{Numeric: containsDeriv(d)}
}
