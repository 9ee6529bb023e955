package golimit_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	golimit "github.com/njchilds90/golimit"
)

var x = golimit.S("x")

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	assert.Equal(t, "42", golimit.N(42).String())
}

func TestNum_Rational(t *testing.T) {
	assert.Equal(t, "1/3", golimit.F(1, 3).String())
}

func TestNum_LaTeX_Rational(t *testing.T) {
	assert.Equal(t, `\frac{2}{5}`, golimit.F(2, 5).LaTeX())
}

func TestNum_Float(t *testing.T) {
	assert.Equal(t, "0.1", golimit.NFloat(0.1).String())
}

func TestNum_Diff_IsZero(t *testing.T) {
	assert.Equal(t, "0", golimit.N(5).Diff("x").String())
}

func TestNum_Eval(t *testing.T) {
	n, ok := golimit.N(7).Eval()
	require.True(t, ok)
	assert.Equal(t, "7", n.String())
}

// ============================================================
// Sym tests
// ============================================================

func TestSym_String(t *testing.T) {
	assert.Equal(t, "x", x.String())
}

func TestSym_Diff(t *testing.T) {
	assert.Equal(t, "1", golimit.Diff(x, "x").String())
	assert.Equal(t, "0", golimit.Diff(golimit.S("y"), "x").String())
}

func TestSym_Sub(t *testing.T) {
	assert.Equal(t, "3", golimit.Sub(x, "x", golimit.N(3)).String())
}

func TestSym_EvalFails(t *testing.T) {
	_, ok := x.Eval()
	assert.False(t, ok)
}

// ============================================================
// Add tests
// ============================================================

func TestAdd_Ordering(t *testing.T) {
	assert.Equal(t, "x + 1", golimit.AddOf(golimit.N(1), x).String())
}

func TestAdd_LikeTerms(t *testing.T) {
	assert.Equal(t, "2*x", golimit.AddOf(x, x).String())
}

func TestAdd_Cancellation(t *testing.T) {
	assert.Equal(t, "0", golimit.AddOf(x, golimit.MulOf(golimit.N(-1), x)).String())
}

func TestAdd_Constants(t *testing.T) {
	assert.Equal(t, "5/6", golimit.AddOf(golimit.F(1, 2), golimit.F(1, 3)).String())
}

func TestAdd_Equal(t *testing.T) {
	assert.True(t, golimit.AddOf(x, golimit.N(1)).Equal(golimit.AddOf(golimit.N(1), x)))
}

func TestAdd_Subtraction(t *testing.T) {
	e := golimit.AddOf(golimit.PowOf(x, golimit.N(2)), golimit.N(-1))
	assert.Equal(t, "x^2 - 1", e.String())
	assert.Equal(t, "x^{2} - 1", e.LaTeX())
}

// ============================================================
// Mul tests
// ============================================================

func TestMul_Zero(t *testing.T) {
	assert.Equal(t, "0", golimit.MulOf(golimit.N(0), x).String())
}

func TestMul_Identity(t *testing.T) {
	assert.Equal(t, "x", golimit.MulOf(golimit.N(1), x).String())
}

func TestMul_SameBase(t *testing.T) {
	assert.Equal(t, "x^2", golimit.MulOf(x, x).String())
}

func TestMul_Quotient(t *testing.T) {
	e := golimit.MulOf(golimit.SinOf(x), golimit.PowOf(x, golimit.N(-1)))
	assert.Equal(t, "sin(x)/x", e.String())
}

func TestMul_Negative(t *testing.T) {
	assert.Equal(t, "-sin(x)", golimit.MulOf(golimit.N(-1), golimit.SinOf(x)).String())
}

func TestMul_Diff_ProductRule(t *testing.T) {
	ev := golimit.NewEvaluator(golimit.DefaultConfig())
	norm := golimit.NewNormalizer(golimit.DefaultConfig())
	expr, err := norm.Normalize("x*sin(x)")
	require.NoError(t, err)

	d, info := golimit.Derivative(expr)
	assert.False(t, info.Numeric)
	y, err := ev.Evaluate(d, 1)
	require.NoError(t, err)
	assert.InDelta(t, math.Sin(1)+math.Cos(1), y, 1e-12)
}

// ============================================================
// Pow tests
// ============================================================

func TestPow_Folding(t *testing.T) {
	assert.Equal(t, "1", golimit.PowOf(x, golimit.N(0)).String())
	assert.Equal(t, "x", golimit.PowOf(x, golimit.N(1)).String())
	assert.Equal(t, "1024", golimit.PowOf(golimit.N(2), golimit.N(10)).String())
	assert.Equal(t, "1/4", golimit.PowOf(golimit.N(2), golimit.N(-2)).String())
}

func TestPow_ZeroPowZeroStays(t *testing.T) {
	e := golimit.PowOf(golimit.N(0), golimit.N(0))
	_, ok := e.Eval()
	assert.False(t, ok)
	assert.Equal(t, "0", golimit.PowOf(golimit.N(0), golimit.N(3)).String())
}

func TestPow_Nested(t *testing.T) {
	e := golimit.PowOf(golimit.PowOf(x, golimit.N(2)), golimit.N(3))
	assert.Equal(t, "x^6", e.String())
}

func TestPow_Diff_PowerRule(t *testing.T) {
	assert.Equal(t, "3*x^2", golimit.Diff(golimit.PowOf(x, golimit.N(3)), "x").String())
}

func TestPow_Reciprocal(t *testing.T) {
	assert.Equal(t, "1/x", golimit.PowOf(x, golimit.N(-1)).String())
}

func TestPow_Sqrt(t *testing.T) {
	s := golimit.SqrtOf(x)
	assert.Equal(t, "sqrt(x)", s.String())
	assert.Equal(t, `\sqrt{x}`, s.LaTeX())
}

func TestPow_LaTeX(t *testing.T) {
	assert.Equal(t, "x^{2}", golimit.PowOf(x, golimit.N(2)).LaTeX())
}

// ============================================================
// Func tests
// ============================================================

func TestFunc_String(t *testing.T) {
	assert.Equal(t, "sin(x)", golimit.SinOf(x).String())
	assert.Equal(t, `\sin\left(x\right)`, golimit.SinOf(x).LaTeX())
}

func TestFunc_FoldsConstants(t *testing.T) {
	assert.Equal(t, "0", golimit.SinOf(golimit.N(0)).String())
	assert.Equal(t, "1", golimit.ExpOf(golimit.N(0)).String())
	assert.Equal(t, "0", golimit.LnOf(golimit.N(1)).String())
}

func TestFunc_Diff(t *testing.T) {
	cases := []struct {
		name string
		in   golimit.Expr
		want string
	}{
		{"sin", golimit.SinOf(x), "cos(x)"},
		{"cos", golimit.CosOf(x), "-sin(x)"},
		{"exp", golimit.ExpOf(x), "exp(x)"},
		{"ln", golimit.LnOf(x), "1/x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, golimit.Diff(tc.in, "x").String())
		})
	}
}

func TestFunc_Inverse(t *testing.T) {
	assert.Equal(t, "x", golimit.LnOf(golimit.ExpOf(x)).String())
}

func TestFunc_AbsPullsCoefficient(t *testing.T) {
	assert.Equal(t, "3*abs(x)", golimit.AbsOf(golimit.MulOf(golimit.N(-3), x)).String())
}

func TestFunc_Diff_NoRuleYieldsDeriv(t *testing.T) {
	d := golimit.Diff(golimit.AbsOf(x), "x")
	assert.Equal(t, "d/dx[abs(x)]", d.String())
	_, ok := d.Eval()
	assert.False(t, ok)
}

func TestFunc_Diff_Log10(t *testing.T) {
	norm := golimit.NewNormalizer(golimit.DefaultConfig())
	expr, err := norm.Normalize("log(x)")
	require.NoError(t, err)

	d, _ := golimit.Derivative(expr)
	y, err := golimit.NewEvaluator(golimit.DefaultConfig()).Evaluate(d, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Ln10, y, 1e-12)
}

// ============================================================
// Expand tests
// ============================================================

func TestExpand_DifferenceOfSquares(t *testing.T) {
	e := golimit.MulOf(golimit.AddOf(x, golimit.N(1)), golimit.AddOf(x, golimit.N(-1)))
	assert.Equal(t, "x^2 - 1", golimit.Expand(e).String())
}

func TestExpand_Square(t *testing.T) {
	e := golimit.PowOf(golimit.AddOf(x, golimit.N(1)), golimit.N(2))
	assert.Equal(t, "x^2 + 2*x + 1", golimit.Expand(e).String())
}
