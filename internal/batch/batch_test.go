package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	golimit "github.com/njchilds90/golimit"
	"github.com/njchilds90/golimit/internal/metrics"
)

const queryFile = `
queries:
  - name: removable
    expression: sin(x)/x
    point: "0"
  - expression: (x^2-1)/(x-1)
    point: "1"
    direction: both
  - expression: 2x
    point: "0"
  - expression: (1+1/x)^x
    point: inf
`

func TestDecode(t *testing.T) {
	queries, err := Decode(strings.NewReader(queryFile))
	require.NoError(t, err)
	require.Len(t, queries, 4)
	assert.Equal(t, Query{Name: "removable", Expression: "sin(x)/x", Point: "0"}, queries[0])
	assert.Equal(t, "both", queries[1].Direction)
	assert.Equal(t, "inf", queries[3].Point)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader("queries:\n  - point: \"0\"\n"))
	assert.ErrorContains(t, err, "no expression")

	_, err = Decode(strings.NewReader("queries:\n  - expression: x\n    colour: red\n"))
	assert.ErrorContains(t, err, "decode queries")

	queries, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, queries)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.yaml")
	require.NoError(t, os.WriteFile(path, []byte(queryFile), 0o600))
	queries, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, queries, 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "open queries")
}

func TestRunner_Run(t *testing.T) {
	defer goleak.VerifyNone(t)

	queries, err := Decode(strings.NewReader(queryFile))
	require.NoError(t, err)

	r := NewRunner(golimit.Default(), WithConcurrency(2), WithMetrics(metrics.New(prometheus.NewRegistry())))
	items, err := r.Run(context.Background(), queries)
	require.NoError(t, err)
	require.Len(t, items, 4)

	for i, item := range items {
		assert.Equal(t, queries[i], item.Query)
	}
	require.NotNil(t, items[0].Result)
	assert.Equal(t, "1", items[0].Result.Value.String())
	require.NotNil(t, items[1].Result)
	assert.Equal(t, golimit.Factoring, items[1].Result.StrategyUsed)
	assert.Nil(t, items[2].Result)
	assert.Contains(t, items[2].Error, "implicit multiplication")
	require.NotNil(t, items[3].Result)
	assert.InDelta(t, 2.718281828, items[3].Result.Value.Float64(), 1e-8)
}

func TestRunner_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(golimit.Default()).Run(ctx, []Query{{Expression: "x", Point: "1"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Empty(t *testing.T) {
	items, err := NewRunner(golimit.Default()).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}
