package golimit

import "fmt"

// ParseError reports text that cannot be turned into an expression, a point
// or a direction. It is terminal for a query.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Pos > 0 {
		return fmt.Sprintf("parse %q: %s at offset %d", e.Input, e.Msg, e.Pos)
	}
	return fmt.Sprintf("parse %q: %s", e.Input, e.Msg)
}

// DomainKind classifies why an expression is undefined at a point.
type DomainKind int

const (
	DivisionByZero DomainKind = iota
	EvenRootOfNegative
	LogOfNonPositive
	InverseTrigRange
	ZeroPowZero
	NegativeBase
	NonFinite
	Undefined
)

var domainKindNames = [...]string{
	DivisionByZero:     "division by zero",
	EvenRootOfNegative: "even root of a negative number",
	LogOfNonPositive:   "logarithm of a non-positive number",
	InverseTrigRange:   "inverse trigonometric argument outside [-1, 1]",
	ZeroPowZero:        "0^0",
	NegativeBase:       "non-integer power of a negative number",
	NonFinite:          "non-finite result",
	Undefined:          "undefined",
}

func (k DomainKind) String() string {
	if int(k) < len(domainKindNames) {
		return domainKindNames[k]
	}
	return "unknown"
}

// DomainError reports an expression undefined at a sample point.
type DomainError struct {
	Kind   DomainKind
	At     float64
	Detail string
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at x = %s: %s", e.Kind, formatReal(e.At), e.Detail)
	}
	return fmt.Sprintf("%s at x = %s", e.Kind, formatReal(e.At))
}

// StrategyFailure reports that a technique could not resolve a limit.
type StrategyFailure struct {
	Strategy Strategy
	Reason   string
}

func (e *StrategyFailure) Error() string {
	return fmt.Sprintf("%s: %s", e.Strategy, e.Reason)
}

func failf(s Strategy, format string, args ...any) error {
	return &StrategyFailure{Strategy: s, Reason: fmt.Sprintf(format, args...)}
}
