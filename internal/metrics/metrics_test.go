package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	golimit "github.com/njchilds90/golimit"
)

func TestRecorder_ObserveLimit(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg)

	engine := golimit.Default()
	for _, in := range []string{"sin(x)/x", "sin(x)/x", "1/x"} {
		res, err := engine.ComputeLimit(in, "0", "both")
		require.NoError(t, err)
		rec.ObserveLimit(res, time.Millisecond)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.limits.WithLabelValues("fundamental_limits", "zero_over_zero", "real")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.limits.WithLabelValues("one_sided_limits", "nonzero_over_zero", "does_not_exist")))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.duration))
}

func TestRecorder_ParseError(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg)
	rec.ParseError("compute_limit")
	rec.ObserveCall("generate_graph_data", 2*time.Millisecond)

	expected := `
# HELP golimit_engine_parse_errors_total Total requests rejected because the input did not parse
# TYPE golimit_engine_parse_errors_total counter
golimit_engine_parse_errors_total{operation="compute_limit"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "golimit_engine_parse_errors_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.duration, "golimit_engine_duration_seconds"))
}

func TestRecorder_Nil(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.ObserveLimit(golimit.LimitResult{}, time.Second)
		rec.ObserveCall("x", time.Second)
		rec.ParseError("x")
	})
}
