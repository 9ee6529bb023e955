package golimit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDominantAt(t *testing.T) {
	cases := []struct {
		in   string
		sign int
		coef float64
		deg  string
		want ExtendedReal
	}{
		{"3*x^2 + 1", 1, 3, "2", PosInf},
		{"sqrt(x^2 + x)", 1, 1, "1", PosInf},
		{"(2*x + 1)/(x - 3)", 1, 2, "0", Finite(2)},
		{"1/x", 1, 1, "-1", Finite(0)},
		{"x^3", -1, -1, "3", NegInf},
		{"x^2 - 5*x", -1, 1, "2", PosInf},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			g, ok := dominantAt(parseTree(t, tc.in), "x", tc.sign)
			require.True(t, ok)
			assert.InDelta(t, tc.coef, g.coef, 1e-12)
			assert.Equal(t, tc.deg, g.deg.RatString())
			assert.Equal(t, tc.want, g.value())
		})
	}
}

func TestDominantAt_Saturating(t *testing.T) {
	g, ok := dominantAt(parseTree(t, "atan(x)"), "x", 1)
	require.True(t, ok)
	assert.InDelta(t, math.Pi/2, g.value().Float64(), 1e-12)

	g, ok = dominantAt(parseTree(t, "tanh(x)"), "x", -1)
	require.True(t, ok)
	assert.Equal(t, Finite(-1), g.value())
}

func TestDominantAt_Rejects(t *testing.T) {
	for _, in := range []string{"sqrt(x^2 + x) - x", "exp(x)", "sin(x)", "x^x"} {
		_, ok := dominantAt(parseTree(t, in), "x", 1)
		assert.False(t, ok, in)
	}
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 2.0, snap(1.99999, 1e-4))
	assert.Equal(t, 0.5, snap(0.50001, 1e-4))
	assert.Equal(t, 2.0/3, snap(0.666668, 1e-4))
	assert.Equal(t, -3.0, snap(-3.0001, 1e-4))
	assert.Equal(t, math.E, snap(math.E, 1e-4))
	assert.Equal(t, 1.001, snap(1.001, 1e-4))
	// nonzero values stay nonzero however small
	assert.Equal(t, 1e-6, snap(1e-6, 1e-4))
	assert.Equal(t, 1e-13, snap(1e-13, 1e-4))
	assert.Equal(t, 0.0, snap(0, 1e-4))
}

func TestSettle(t *testing.T) {
	ev := NewEvaluator(DefaultConfig())

	// oscillating samples have no limit, however Aitken would extrapolate them
	osc := []float64{math.Sin(10), math.Sin(100), math.Sin(1e3), math.Sin(1e4), math.Sin(1e5), math.Sin(1e6), math.Sin(1e7), math.Sin(1e8)}
	assert.Equal(t, ApproachNoLimit, ev.settle(osc).Kind)

	// a steady geometric tail is extrapolated
	var geo []float64
	for k := 1; k <= 7; k++ {
		geo = append(geo, 2+10*math.Pow(0.5, float64(k)))
	}
	a := ev.settle(geo)
	require.Equal(t, ApproachFinite, a.Kind)
	assert.Equal(t, 2.0, a.Value)

	// noise in the last samples is skipped in favor of an earlier window
	noisy := []float64{0.6, 0.51, 0.5001, 0.50001, 0.500001, 0.5002, 0.47}
	a = ev.settle(noisy)
	require.Equal(t, ApproachFinite, a.Kind)
	assert.Equal(t, 0.5, a.Value)

	assert.Equal(t, ApproachPosInf, ev.settle([]float64{10, 100, 1e3, 1e4, 1e5, 1e6, 1e7}).Kind)
	assert.Equal(t, ApproachUndefined, ev.settle([]float64{1, 2, math.NaN()}).Kind)
}
