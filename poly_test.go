package golimit

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTree(t *testing.T, raw string) Expr {
	t.Helper()
	expr, err := NewNormalizer(DefaultConfig()).Normalize(raw)
	require.NoError(t, err)
	return expr.Tree()
}

func ratStrings(p poly) []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.RatString()
	}
	return out
}

func TestPolyOf(t *testing.T) {
	cases := []struct {
		in   string
		want []string
		deg  int
	}{
		{"x^2 - 1", []string{"-1", "0", "1"}, 2},
		{"(x+1)^3", []string{"1", "3", "3", "1"}, 3},
		{"x/2 + 1/3", []string{"1/3", "1/2"}, 1},
		{"x - x", []string{"0"}, -1},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			p, ok := polyOf(parseTree(t, tc.in), "x")
			require.True(t, ok)
			assert.Equal(t, tc.want, ratStrings(p))
			assert.Equal(t, tc.deg, p.degree())
		})
	}
}

func TestPolyOf_Rejects(t *testing.T) {
	for _, in := range []string{"sqrt(x)", "1/x", "sin(x)", "x^x", "x^40"} {
		_, ok := polyOf(parseTree(t, in), "x")
		assert.False(t, ok, in)
	}
}

func TestPoly_DivLinear(t *testing.T) {
	p, ok := polyOf(parseTree(t, "x^3 - 2*x + 5"), "x")
	require.True(t, ok)

	q, rem := p.divLinear(big.NewRat(1, 1))
	assert.Equal(t, []string{"-1", "1", "1"}, ratStrings(q))
	assert.Equal(t, "4", rem.RatString())
}

func TestCancelRoot(t *testing.T) {
	n, ok := polyOf(parseTree(t, "x^3 - 3*x + 2"), "x") // (x-1)^2 (x+2)
	require.True(t, ok)
	d, ok := polyOf(parseTree(t, "x^2 - 1"), "x")
	require.True(t, ok)

	n, d, k := cancelRoot(n, d, big.NewRat(1, 1))
	assert.Equal(t, 1, k)
	assert.Equal(t, "x^2 + x - 2", n.expr("x").String())
	assert.Equal(t, "x + 1", d.expr("x").String())
}

func TestPoly_Multiplicity(t *testing.T) {
	p, ok := polyOf(parseTree(t, "(x-2)^3*(x+1)"), "x")
	require.True(t, ok)
	a := big.NewRat(2, 1)
	assert.Equal(t, 3, p.multiplicity(a))
	assert.Equal(t, "x + 1", p.divideRoot(a, 3).expr("x").String())
	assert.Equal(t, "x - 2", linearFactor("x", a).String())
}
