package golimit_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	golimit "github.com/njchilds90/golimit"
)

func mustNormalize(t *testing.T, raw string) golimit.Expression {
	t.Helper()
	expr, err := newNormalizer().Normalize(raw)
	require.NoError(t, err)
	return expr
}

// ============================================================
// Evaluate tests
// ============================================================

func TestEvaluate_Values(t *testing.T) {
	cases := []struct {
		expr string
		at   float64
		want float64
	}{
		{"x^2 + 1", 2, 5},
		{"x^(1/3)", -8, -2},
		{"abs(x)", -3, 3},
		{"log(x)", 100, 2},
		{"ln(e^x)", 1.5, 1.5},
		{"x^2/x", 3, 3},
		{"x^(-2/4)", 4, 0.5},
		{"sinh(x) - cosh(x)", 0, -1},
	}
	ev := golimit.NewEvaluator(golimit.DefaultConfig())
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			y, err := ev.Evaluate(mustNormalize(t, tc.expr), tc.at)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, y, 1e-12)
		})
	}
}

func TestEvaluate_DomainErrors(t *testing.T) {
	cases := []struct {
		expr string
		at   float64
		want golimit.DomainKind
	}{
		{"1/x", 0, golimit.DivisionByZero},
		{"sqrt(x)", -1, golimit.EvenRootOfNegative},
		{"ln(x)", 0, golimit.LogOfNonPositive},
		{"log(x)", -2, golimit.LogOfNonPositive},
		{"asin(x)", 2, golimit.InverseTrigRange},
		{"x^x", 0, golimit.ZeroPowZero},
		{"x^x", -0.5, golimit.NegativeBase},
		{"exp(x)", 1000, golimit.NonFinite},
		{"x^2/x", 0, golimit.DivisionByZero},
		{"sqrt(x)^2", -1, golimit.EvenRootOfNegative},
	}
	ev := golimit.NewEvaluator(golimit.DefaultConfig())
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			_, err := ev.Evaluate(mustNormalize(t, tc.expr), tc.at)
			var de *golimit.DomainError
			require.True(t, errors.As(err, &de), "want *DomainError, got %v", err)
			assert.Equal(t, tc.want, de.Kind)
			assert.Equal(t, tc.at, de.At)
		})
	}
}

func TestEvaluate_InvalidExpression(t *testing.T) {
	_, err := golimit.NewEvaluator(golimit.DefaultConfig()).Evaluate(golimit.Expression{}, 1)
	var de *golimit.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, golimit.Undefined, de.Kind)
}

// ============================================================
// EvaluateNear tests
// ============================================================

func TestEvaluateNear(t *testing.T) {
	cases := []struct {
		name  string
		expr  string
		point golimit.ExtendedReal
		dir   golimit.Direction
		kind  golimit.ApproachKind
		value float64
	}{
		{"removable", "sin(x)/x", golimit.Finite(0), golimit.Both, golimit.ApproachFinite, 1},
		{"root", "sqrt(x)", golimit.Finite(0), golimit.Both, golimit.ApproachFinite, 0},
		{"slow", "(sqrt(x+1)-1)/x", golimit.Finite(0), golimit.Right, golimit.ApproachFinite, 0.5},
		{"pole", "1/x^2", golimit.Finite(0), golimit.Both, golimit.ApproachPosInf, 0},
		{"left pole", "1/x", golimit.Finite(0), golimit.Left, golimit.ApproachNegInf, 0},
		{"polynomial", "x^2", golimit.PosInf, golimit.Both, golimit.ApproachPosInf, 0},
		{"decay", "exp(x)", golimit.NegInf, golimit.Both, golimit.ApproachFinite, 0},
		{"oscillation", "sin(1/x)", golimit.Finite(0), golimit.Right, golimit.ApproachNoLimit, 0},
		{"undefined", "sqrt(-x^2-1)", golimit.Finite(0), golimit.Both, golimit.ApproachUndefined, 0},
	}
	ev := golimit.NewEvaluator(golimit.DefaultConfig())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := ev.EvaluateNear(mustNormalize(t, tc.expr), tc.point, tc.dir)
			assert.Equal(t, tc.kind, a.Kind, a.String())
			if tc.kind == golimit.ApproachFinite {
				assert.InDelta(t, tc.value, a.Value, 1e-9)
			}
		})
	}
}

func TestEvaluateNear_Split(t *testing.T) {
	ev := golimit.NewEvaluator(golimit.DefaultConfig())

	a := ev.EvaluateNear(mustNormalize(t, "1/x"), golimit.Finite(0), golimit.Both)
	assert.Equal(t, golimit.ApproachNoLimit, a.Kind)
	assert.True(t, a.Split)
	require.NotNil(t, a.Left)
	require.NotNil(t, a.Right)
	assert.Equal(t, golimit.ApproachNegInf, a.Left.Kind)
	assert.Equal(t, golimit.ApproachPosInf, a.Right.Kind)

	a = ev.EvaluateNear(mustNormalize(t, "abs(x)/x"), golimit.Finite(0), golimit.Both)
	assert.True(t, a.Split)
	assert.Equal(t, golimit.Finite(-1), a.Left.Extended())
	assert.Equal(t, golimit.Finite(1), a.Right.Extended())
}

func TestEvaluateNear_SnapsToFraction(t *testing.T) {
	ev := golimit.NewEvaluator(golimit.DefaultConfig())
	a := ev.EvaluateNear(mustNormalize(t, "tan(x)/(3*x)"), golimit.Finite(0), golimit.Both)
	require.Equal(t, golimit.ApproachFinite, a.Kind)
	assert.Equal(t, 1.0/3, a.Value)
}
