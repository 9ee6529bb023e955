package golimit

import (
	"errors"
	"fmt"
	"sort"
)

// Config holds the math configuration shared by the normalizer, the
// evaluator and the engine. A Config is read-only once passed to New.
type Config struct {
	// Variable is the name of the limit variable.
	Variable string `yaml:"variable" env:"VARIABLE"`
	// MaxLHopital bounds the number of differentiation rounds.
	MaxLHopital int `yaml:"max_lhopital" env:"MAX_LHOPITAL"`
	// MaxNesting bounds inner limits opened by exponential rewrites.
	MaxNesting int `yaml:"max_nesting" env:"MAX_NESTING"`
	// Epsilons are the offsets sampled around a finite point, largest first.
	Epsilons []float64 `yaml:"epsilons" env:"EPSILONS" envSeparator:","`
	// InfinitySamples are the magnitudes sampled towards an infinite point.
	InfinitySamples []float64 `yaml:"infinity_samples" env:"INFINITY_SAMPLES" envSeparator:","`
	// DerivativeStep is h in the central difference (f(x+h)-f(x-h))/2h.
	DerivativeStep float64 `yaml:"derivative_step" env:"DERIVATIVE_STEP"`
	// Tolerance is the relative gap under which probe samples agree.
	Tolerance float64 `yaml:"tolerance" env:"TOLERANCE"`
	// ZeroTolerance is the magnitude under which a part limit counts as 0.
	ZeroTolerance float64 `yaml:"zero_tolerance" env:"ZERO_TOLERANCE"`
	// DivergenceThreshold is the magnitude past which growing samples diverge.
	DivergenceThreshold float64 `yaml:"divergence_threshold" env:"DIVERGENCE_THRESHOLD"`
	GraphHalfRange      float64 `yaml:"graph_half_range" env:"GRAPH_HALF_RANGE"`
	GraphSamples        int     `yaml:"graph_samples" env:"GRAPH_SAMPLES"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Variable:            "x",
		MaxLHopital:         5,
		MaxNesting:          3,
		Epsilons:            []float64{1e-1, 1e-2, 1e-3, 1e-4, 1e-5, 1e-6, 1e-7},
		InfinitySamples:     []float64{1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8},
		DerivativeStep:      1e-5,
		Tolerance:           1e-4,
		ZeroTolerance:       1e-12,
		DivergenceThreshold: 1e6,
		GraphHalfRange:      4,
		GraphSamples:        201,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Variable == "":
		return errors.New("variable must not be empty")
	case !isIdent(c.Variable) || isReserved(c.Variable):
		return fmt.Errorf("variable %q is not a usable identifier", c.Variable)
	case c.MaxLHopital < 1:
		return errors.New("max_lhopital must be at least 1")
	case c.MaxNesting < 0:
		return errors.New("max_nesting must not be negative")
	case len(c.Epsilons) < 3:
		return errors.New("epsilons needs at least 3 values")
	case len(c.InfinitySamples) < 3:
		return errors.New("infinity_samples needs at least 3 values")
	case c.DerivativeStep <= 0:
		return errors.New("derivative_step must be positive")
	case c.Tolerance <= 0 || c.ZeroTolerance <= 0:
		return errors.New("tolerances must be positive")
	case c.DivergenceThreshold <= 1:
		return errors.New("divergence_threshold must be greater than 1")
	case c.GraphHalfRange <= 0:
		return errors.New("graph_half_range must be positive")
	case c.GraphSamples < 1:
		return errors.New("graph_samples must be positive")
	case c.GraphSamples > MaxGraphSamples:
		return fmt.Errorf("graph_samples must be at most %d", MaxGraphSamples)
	}
	for _, e := range c.Epsilons {
		if e <= 0 {
			return errors.New("epsilons must be positive")
		}
	}
	if !sort.IsSorted(sort.Reverse(sort.Float64Slice(c.Epsilons))) {
		return errors.New("epsilons must be decreasing")
	}
	if !sort.Float64sAreSorted(c.InfinitySamples) || c.InfinitySamples[0] <= 0 {
		return errors.New("infinity_samples must be positive and increasing")
	}
	return nil
}
