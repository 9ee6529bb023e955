package golimit

import "fmt"

// IndeterminateForm is the category a limit falls into before any technique
// is applied.
type IndeterminateForm int

const (
	FormNumeric IndeterminateForm = iota
	FormZeroOverZero
	FormInfOverInf
	FormInfMinusInf
	FormZeroTimesInf
	FormOnePowInf
	FormZeroPowZero
	FormInfPowZero
	FormNonzeroOverZero
	FormInfinite
	FormIndeterminate
)

var formNames = [...]string{
	FormNumeric:         "numeric",
	FormZeroOverZero:    "zero_over_zero",
	FormInfOverInf:      "inf_over_inf",
	FormInfMinusInf:     "inf_minus_inf",
	FormZeroTimesInf:    "zero_times_inf",
	FormOnePowInf:       "one_pow_inf",
	FormZeroPowZero:     "zero_pow_zero",
	FormInfPowZero:      "inf_pow_zero",
	FormNonzeroOverZero: "nonzero_over_zero",
	FormInfinite:        "infinite",
	FormIndeterminate:   "indeterminate",
}

var formInfo = [...]string{
	FormNumeric:         "Direct substitution gives a finite value; there is no indeterminacy.",
	FormZeroOverZero:    "Indeterminate form 0/0: numerator and denominator both tend to 0.",
	FormInfOverInf:      "Indeterminate form ∞/∞: numerator and denominator both grow without bound.",
	FormInfMinusInf:     "Indeterminate form ∞ - ∞: two unbounded terms are subtracted.",
	FormZeroTimesInf:    "Indeterminate form 0·∞: a vanishing factor multiplies an unbounded one.",
	FormOnePowInf:       "Indeterminate form 1^∞: the base tends to 1 while the exponent grows without bound.",
	FormZeroPowZero:     "Indeterminate form 0^0: base and exponent both tend to 0.",
	FormInfPowZero:      "Indeterminate form ∞^0: the base grows without bound while the exponent tends to 0.",
	FormNonzeroOverZero: "A nonzero quantity divided by one tending to 0: the limit is infinite or does not exist, depending on signs.",
	FormInfinite:        "Limit at infinity: the fastest-growing terms decide the behavior.",
	FormIndeterminate:   "The expression does not match a standard form; its behavior is estimated numerically.",
}

func (f IndeterminateForm) String() string {
	if int(f) < len(formNames) {
		return formNames[f]
	}
	return fmt.Sprintf("form(%d)", int(f))
}

// Info is the fixed human-readable description of the form.
func (f IndeterminateForm) Info() string {
	if int(f) < len(formInfo) {
		return formInfo[f]
	}
	return ""
}

func (f IndeterminateForm) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *IndeterminateForm) UnmarshalText(b []byte) error {
	for i, name := range formNames {
		if name == string(b) {
			*f = IndeterminateForm(i)
			return nil
		}
	}
	return fmt.Errorf("unknown indeterminate form %q", b)
}

// Strategy names a resolution technique.
type Strategy int

const (
	DirectSubstitution Strategy = iota
	Factoring
	Rationalization
	FundamentalLimits
	HighestDegreeTerm
	ConjugateMultiplication
	ExponentialFundamentalLimits
	OneSidedLimits
	LHopital
	NumericApproximation
	StrategyError
)

type strategySpec struct {
	name string
	info string
	tip  string
}

var strategies = [...]strategySpec{
	DirectSubstitution: {
		name: "direct_substitution",
		info: "Substitute the point directly into the continuous expression.",
		tip:  "When a function is continuous at the point, its limit is simply its value there.",
	},
	Factoring: {
		name: "factoring",
		info: "Factor numerator and denominator and cancel the common factor (x - a).",
		tip:  "A 0/0 polynomial ratio always shares the factor (x - a); cancel it before substituting.",
	},
	Rationalization: {
		name: "rationalization",
		info: "Multiply by the conjugate to remove the square root, then cancel.",
		tip:  "For A - sqrt(B), multiply by A + sqrt(B): (A - sqrt(B))(A + sqrt(B)) = A² - B.",
	},
	FundamentalLimits: {
		name: "fundamental_limits",
		info: "Replace small quantities by their equivalent infinitesimals using the fundamental limits.",
		tip:  "Remember sin(u)/u → 1, (1 - cos u)/u² → 1/2, (e^u - 1)/u → 1 and ln(1 + u)/u → 1 as u → 0.",
	},
	HighestDegreeTerm: {
		name: "highest_degree_term",
		info: "At infinity keep only the highest-degree term of each part.",
		tip:  "For rational functions at infinity compare the degrees: equal degrees give the ratio of leading coefficients.",
	},
	ConjugateMultiplication: {
		name: "conjugate_multiplication",
		info: "Multiply and divide by the conjugate to turn ∞ - ∞ into a quotient.",
		tip:  "sqrt(A) - B = (A - B²)/(sqrt(A) + B) turns a difference of infinities into a ratio.",
	},
	ExponentialFundamentalLimits: {
		name: "exponential_fundamental_limits",
		info: "Use lim (1 + u)^(1/u) = e: B^E tends to e^(lim E·(B - 1)).",
		tip:  "For 1^∞ forms, lim B^E = e^(lim E·(B - 1)).",
	},
	OneSidedLimits: {
		name: "one_sided_limits",
		info: "Compute the left-hand and right-hand limits separately.",
		tip:  "A two-sided limit exists only if both one-sided limits exist and are equal.",
	},
	LHopital: {
		name: "lhopital",
		info: "Differentiate numerator and denominator separately (L'Hôpital's rule).",
		tip:  "L'Hôpital's rule applies only to 0/0 and ∞/∞; rewrite other forms as a quotient first.",
	},
	NumericApproximation: {
		name: "numeric_approximation",
		info: "Estimate the limit by evaluating the expression ever closer to the point.",
		tip:  "A numeric estimate suggests the value but is not a proof; try a symbolic technique to confirm it.",
	},
	StrategyError: {
		name: "error",
		info: "No technique could resolve this limit.",
		tip:  "Check the expression and the point, or rewrite the expression into a standard form.",
	},
}

func (s Strategy) String() string {
	if int(s) < len(strategies) {
		return strategies[s].name
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// Info is the fixed human-readable description of the strategy.
func (s Strategy) Info() string {
	if int(s) < len(strategies) {
		return strategies[s].info
	}
	return ""
}

// Tip is the technique hint recorded when the strategy resolves a limit.
func (s Strategy) Tip() string {
	if int(s) < len(strategies) {
		return strategies[s].tip
	}
	return ""
}

func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Strategy) UnmarshalText(b []byte) error {
	for i, spec := range strategies {
		if spec.name == string(b) {
			*s = Strategy(i)
			return nil
		}
	}
	return fmt.Errorf("unknown strategy %q", b)
}

// candidates is the closed mapping from form to the strategies tried, in order.
var candidates = map[IndeterminateForm][]Strategy{
	FormNumeric:         {DirectSubstitution},
	FormZeroOverZero:    {Factoring, Rationalization, FundamentalLimits, LHopital},
	FormInfOverInf:      {HighestDegreeTerm, LHopital},
	FormInfMinusInf:     {ConjugateMultiplication, HighestDegreeTerm, LHopital},
	FormZeroTimesInf:    {FundamentalLimits, HighestDegreeTerm, LHopital},
	FormOnePowInf:       {ExponentialFundamentalLimits, LHopital},
	FormZeroPowZero:     {LHopital},
	FormInfPowZero:      {LHopital},
	FormNonzeroOverZero: {OneSidedLimits},
	FormInfinite:        {HighestDegreeTerm},
	FormIndeterminate:   nil,
}

// Candidates returns the strategies tried for a form. A one-sided
// discrepancy puts OneSidedLimits first.
func Candidates(form IndeterminateForm, split bool) []Strategy {
	base := candidates[form]
	out := make([]Strategy, 0, len(base)+1)
	if split {
		out = append(out, OneSidedLimits)
	}
	for _, s := range base {
		if split && s == OneSidedLimits {
			continue
		}
		out = append(out, s)
	}
	return out
}

// executor attempts one strategy. Failures are *StrategyFailure.
type executor func(p *problem) (resolution, error)

var executors map[Strategy]executor

func init() {
	executors = map[Strategy]executor{
		DirectSubstitution:           execDirect,
		Factoring:                    execFactoring,
		Rationalization:              execRationalization,
		FundamentalLimits:            execFundamental,
		HighestDegreeTerm:            execHighestDegree,
		ConjugateMultiplication:      execConjugate,
		ExponentialFundamentalLimits: execExponential,
		OneSidedLimits:               execOneSided,
		LHopital:                     execLHopital,
	}
}
