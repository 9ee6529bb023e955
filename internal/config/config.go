// Package config loads engine and server settings from YAML files and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	golimit "github.com/njchilds90/golimit"
)

// Load builds the engine configuration: defaults, then the YAML file at path
// (skipped when path is empty), then GOLIMIT_* variables. The result is
// validated.
func Load(path string) (golimit.Config, error) {
	cfg := golimit.DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return golimit.Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return golimit.Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	if err := ParsePrefixedEnv(&cfg); err != nil {
		return golimit.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return golimit.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// decodeYAML overlays data on cfg, rejecting unknown keys.
func decodeYAML(data []byte, cfg *golimit.Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Server holds the tool server settings.
type Server struct {
	// HTTPAddr switches the server from stdio to streamable HTTP.
	HTTPAddr string `env:"GOLIMIT_MCP_HTTP_ADDR"`
	// Metrics exposes /metrics on the HTTP listener.
	Metrics bool `env:"GOLIMIT_MCP_METRICS" envDefault:"true"`
	// ConfigPath points at an optional engine YAML file.
	ConfigPath string `env:"GOLIMIT_CONFIG"`
}

// LoadServer reads the server settings from the environment.
func LoadServer() (Server, error) {
	var s Server
	if err := ParseEnv(&s); err != nil {
		return Server{}, err
	}
	return s, nil
}
