package golimit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExtendedReal is a real number or one of the two infinities.
type ExtendedReal struct {
	inf int
	v   float64
}

var (
	PosInf = ExtendedReal{inf: 1}
	NegInf = ExtendedReal{inf: -1}
)

// Finite wraps a real value. Infinite floats map to PosInf or NegInf.
func Finite(v float64) ExtendedReal {
	switch {
	case math.IsInf(v, 1):
		return PosInf
	case math.IsInf(v, -1):
		return NegInf
	case v == 0:
		// drop the sign of -0
		return ExtendedReal{}
	}
	return ExtendedReal{v: v}
}

func (r ExtendedReal) IsFinite() bool { return r.inf == 0 }

// Sign of the infinity: +1, -1, or 0 for finite values.
func (r ExtendedReal) InfSign() int { return r.inf }

func (r ExtendedReal) Float64() float64 {
	if r.inf != 0 {
		return math.Inf(r.inf)
	}
	return r.v
}

func (r ExtendedReal) String() string {
	switch r.inf {
	case 1:
		return "+inf"
	case -1:
		return "-inf"
	}
	return formatReal(r.v)
}

// Symbol renders the value for derivations (∞ instead of inf).
func (r ExtendedReal) Symbol() string {
	switch r.inf {
	case 1:
		return "+∞"
	case -1:
		return "-∞"
	}
	return formatReal(r.v)
}

func (r ExtendedReal) LaTeX() string {
	switch r.inf {
	case 1:
		return "+\\infty"
	case -1:
		return "-\\infty"
	}
	return formatReal(r.v)
}

func (r ExtendedReal) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *ExtendedReal) UnmarshalText(b []byte) error {
	p, err := ParsePoint(string(b))
	if err != nil {
		return err
	}
	*r = p
	return nil
}

func formatReal(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Direction selects the side a limit is approached from.
type Direction string

const (
	Both  Direction = "both"
	Left  Direction = "left"
	Right Direction = "right"
)

// ParseDirection accepts both, left and right, the shorthands "-" and "+",
// and the empty string for both.
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "both":
		return Both, nil
	case "left", "-", "minus":
		return Left, nil
	case "right", "+", "plus":
		return Right, nil
	}
	return "", &ParseError{Input: raw, Msg: "direction must be both, left or right"}
}

func (d Direction) arrow() string {
	switch d {
	case Left:
		return "⁻"
	case Right:
		return "⁺"
	}
	return ""
}

// ValueKind tells apart real limits, nonexistent limits and failures.
type ValueKind int

const (
	ValueReal ValueKind = iota
	ValueDoesNotExist
	ValueError
)

// LimitValue is the outcome of a limit computation.
type LimitValue struct {
	Kind ValueKind
	Real ExtendedReal
}

func realValue(r ExtendedReal) LimitValue { return LimitValue{Kind: ValueReal, Real: r} }

var (
	doesNotExist = LimitValue{Kind: ValueDoesNotExist}
	errorValue   = LimitValue{Kind: ValueError}
)

func (v LimitValue) String() string {
	switch v.Kind {
	case ValueDoesNotExist:
		return "does not exist"
	case ValueError:
		return "error"
	}
	return v.Real.String()
}

func (v LimitValue) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *LimitValue) UnmarshalText(b []byte) error {
	switch s := string(b); s {
	case "does not exist":
		*v = doesNotExist
	case "error":
		*v = errorValue
	default:
		r, err := ParsePoint(s)
		if err != nil {
			return fmt.Errorf("limit value: %w", err)
		}
		*v = realValue(r)
	}
	return nil
}

// Float64 returns the real value, ±Inf for infinities and NaN otherwise.
func (v LimitValue) Float64() float64 {
	if v.Kind != ValueReal {
		return math.NaN()
	}
	return v.Real.Float64()
}
