package golimit_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	golimit "github.com/njchilds90/golimit"
)

func newNormalizer() *golimit.Normalizer {
	return golimit.NewNormalizer(golimit.DefaultConfig())
}

// ============================================================
// Normalize tests
// ============================================================

func TestNormalize_Canonical(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"x**2", "x^2"},
		{"2*x+1", "2*x + 1"},
		{"x·2", "2*x"},
		{"x × 3", "3*x"},
		{"sen(x)", "sin(x)"},
		{"tg(x)", "tan(x)"},
		{"arcsin(x)", "asin(x)"},
		{"e^x", "exp(x)"},
		{"√(x)", "sqrt(x)"},
		{"[x+1]", "x + 1"},
		{"SIN(X)", "sin(x)"},
		{"(x^2-1)/(x-1)", "(x^2 - 1)/(x - 1)"},
		{"1e-3*x", "x/1000"},
	}
	norm := newNormalizer()
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			expr, err := norm.Normalize(tc.in)
			require.NoError(t, err)
			assert.True(t, expr.Valid)
			assert.Equal(t, tc.in, expr.Raw)
			assert.Equal(t, tc.want, expr.Normalized)
			assert.Equal(t, "x", expr.Variable)
		})
	}
}

func TestNormalize_LogIsBaseTen(t *testing.T) {
	expr, err := newNormalizer().Normalize("log(x)")
	require.NoError(t, err)
	assert.Equal(t, "log(x)", expr.Normalized)
	assert.Equal(t, `\log_{10}\left(x\right)`, expr.LaTeX())

	y, err := golimit.NewEvaluator(golimit.DefaultConfig()).Evaluate(expr, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 3, y, 1e-12)
}

func TestNormalize_Idempotent(t *testing.T) {
	norm := newNormalizer()
	first, err := norm.Normalize("(1 + 1/x)^x")
	require.NoError(t, err)
	second, err := norm.Normalize(first.Normalized)
	require.NoError(t, err)
	assert.Equal(t, first.Normalized, second.Normalized)
}

func TestNormalize_Errors(t *testing.T) {
	cases := []struct {
		in      string
		contain string
	}{
		{"", "empty expression"},
		{"   ", "empty expression"},
		{"2x", "implicit multiplication"},
		{"x(x+1)", "implicit multiplication"},
		{"(x+1", "missing ')'"},
		{"x+1)", "unexpected ')'"},
		{"foo(x)", `unknown identifier "foo"`},
		{"y+1", `unknown identifier "y"`},
		{"sin x", "parenthesized argument"},
		{"x+", "unexpected end"},
		{"x $ 2", "unexpected character"},
	}
	norm := newNormalizer()
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			expr, err := norm.Normalize(tc.in)
			require.Error(t, err)
			var pe *golimit.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Contains(t, pe.Msg, tc.contain)
			assert.False(t, expr.Valid)
		})
	}
}

func TestNormalize_CustomVariable(t *testing.T) {
	cfg := golimit.DefaultConfig()
	cfg.Variable = "t"
	expr, err := golimit.NewNormalizer(cfg).Normalize("sin(t)/t")
	require.NoError(t, err)
	assert.Equal(t, "sin(t)/t", expr.Normalized)

	_, err = golimit.NewNormalizer(cfg).Normalize("x")
	assert.Error(t, err)
}

// ============================================================
// ParsePoint tests
// ============================================================

func TestParsePoint(t *testing.T) {
	cases := []struct {
		in   string
		want golimit.ExtendedReal
	}{
		{"inf", golimit.PosInf},
		{"+Infinity", golimit.PosInf},
		{"∞", golimit.PosInf},
		{"-inf", golimit.NegInf},
		{"- ∞", golimit.NegInf},
		{"0", golimit.Finite(0)},
		{"-0", golimit.Finite(0)},
		{"0.5", golimit.Finite(0.5)},
		{"1/4", golimit.Finite(0.25)},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := golimit.ParsePoint(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParsePoint_Constants(t *testing.T) {
	got, err := golimit.ParsePoint("pi/2")
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, got.Float64(), 1e-15)

	got, err = golimit.ParsePoint("e")
	require.NoError(t, err)
	assert.InDelta(t, math.E, got.Float64(), 1e-15)
}

func TestParsePoint_Errors(t *testing.T) {
	for _, in := range []string{"", "abc", "x", "1/0", "nan"} {
		t.Run(in, func(t *testing.T) {
			_, err := golimit.ParsePoint(in)
			var pe *golimit.ParseError
			assert.True(t, errors.As(err, &pe), "want *ParseError, got %v", err)
		})
	}
}

func TestExtendedReal_Text(t *testing.T) {
	assert.Equal(t, "+inf", golimit.PosInf.String())
	assert.Equal(t, "-∞", golimit.NegInf.Symbol())
	assert.Equal(t, `+\infty`, golimit.PosInf.LaTeX())
	assert.Equal(t, "0.25", golimit.Finite(0.25).String())
	assert.True(t, golimit.Finite(math.Inf(1)) == golimit.PosInf)

	var r golimit.ExtendedReal
	require.NoError(t, r.UnmarshalText([]byte("-inf")))
	assert.Equal(t, golimit.NegInf, r)
}

// ============================================================
// ParseDirection tests
// ============================================================

func TestParseDirection(t *testing.T) {
	cases := map[string]golimit.Direction{
		"":      golimit.Both,
		"both":  golimit.Both,
		"Left":  golimit.Left,
		"-":     golimit.Left,
		"right": golimit.Right,
		"+":     golimit.Right,
	}
	for in, want := range cases {
		got, err := golimit.ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := golimit.ParseDirection("up")
	var pe *golimit.ParseError
	assert.True(t, errors.As(err, &pe))
}
