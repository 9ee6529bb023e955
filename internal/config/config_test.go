package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	golimit "github.com/njchilds90/golimit"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "golimit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, golimit.DefaultConfig(), cfg)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := writeFile(t, "variable: t\nmax_lhopital: 3\nepsilons: [0.01, 0.001, 0.0001]\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "t", cfg.Variable)
	assert.Equal(t, 3, cfg.MaxLHopital)
	assert.Equal(t, []float64{0.01, 0.001, 0.0001}, cfg.Epsilons)
	assert.Equal(t, golimit.DefaultConfig().InfinitySamples, cfg.InfinitySamples)
}

func TestLoad_EmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, golimit.DefaultConfig(), cfg)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("GOLIMIT_MAX_LHOPITAL", "7")
	t.Setenv("GOLIMIT_INFINITY_SAMPLES", "10,1000,100000")
	cfg, err := Load(writeFile(t, "max_lhopital: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxLHopital)
	assert.Equal(t, []float64{10, 1000, 100000}, cfg.InfinitySamples)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeFile(t, "unknown_key: 1\n"))
	assert.ErrorContains(t, err, "decode config")

	_, err = Load(writeFile(t, "variable: sin\n"))
	assert.ErrorContains(t, err, "invalid config")

	t.Setenv("GOLIMIT_TOLERANCE", "not-a-number")
	_, err = Load("")
	assert.ErrorContains(t, err, "parse env")
}

func TestLoadServer(t *testing.T) {
	s, err := LoadServer()
	require.NoError(t, err)
	assert.Empty(t, s.HTTPAddr)
	assert.True(t, s.Metrics)

	t.Setenv("GOLIMIT_MCP_HTTP_ADDR", ":8090")
	t.Setenv("GOLIMIT_MCP_METRICS", "false")
	s, err = LoadServer()
	require.NoError(t, err)
	assert.Equal(t, ":8090", s.HTTPAddr)
	assert.False(t, s.Metrics)
}
