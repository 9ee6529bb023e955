package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	golimit "github.com/njchilds90/golimit"
	"github.com/njchilds90/golimit/internal/preview"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	jsonOutput, verbose, configPath = false, false, ""
	direction, showDeriv, logScale, markLimit = "both", false, false, false
	sampleCount, concurrency = 0, 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLimitCommand(t *testing.T) {
	out, err := execute(t, "", "limit", "sin(x)/x", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "lim x → 0 sin(x)/x = 1")
	assert.Contains(t, out, "strategy: fundamental_limits")
}

func TestLimitCommand_JSON(t *testing.T) {
	out, err := execute(t, "", "limit", "1/x", "0", "--direction", "right", "--json")
	require.NoError(t, err)

	var res golimit.LimitResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "+inf", res.Value.String())
}

func TestLimitCommand_ParseError(t *testing.T) {
	_, err := execute(t, "", "limit", "2x", "0")
	assert.ErrorContains(t, err, "implicit multiplication")
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "", "graph", "1/x", "0", "--count", "5")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "0\t-", lines[2])
}

func TestCheckCommand(t *testing.T) {
	out, err := execute(t, "", "check", "x^2", "1")
	require.NoError(t, err)
	assert.Equal(t, "plottable\n", out)
}

func TestBatchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.yaml")
	require.NoError(t, os.WriteFile(path, []byte("queries:\n  - name: a\n    expression: x^2\n    point: \"3\"\n  - expression: 2x\n    point: \"0\"\n"), 0o600))

	out, err := execute(t, "", "batch", path, "--concurrency", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "a  x^2  x → 3  = 9  (direct_substitution)")
	assert.Contains(t, out, "#2  2x  error:")
}

func TestPreviewCommand(t *testing.T) {
	out, err := execute(t, "x^2 2\n\n", "preview")
	require.NoError(t, err)
	assert.Contains(t, out, "= 4")
}

func TestParsePreviewLine(t *testing.T) {
	tests := []struct {
		line string
		want preview.Query
	}{
		{"x^2 2", preview.Query{Expression: "x^2", Point: "2"}},
		{"sin(x) / x 0", preview.Query{Expression: "sin(x) / x", Point: "0"}},
		{"1 / x 0 right", preview.Query{Expression: "1 / x", Point: "0", Direction: "right"}},
		{"x^2", preview.Query{Expression: "x^2"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parsePreviewLine(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := parsePreviewLine("   ")
	assert.False(t, ok)
}

func TestPreviewCommand_SpacedExpression(t *testing.T) {
	out, err := execute(t, "sin(x) / x 0\n", "preview")
	require.NoError(t, err)
	assert.Contains(t, out, "= 1")
}
