package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig carries CLI-only settings that don't belong in a scenario
// file: the default iteration count and log level. Nil/empty fields mean
// "not set in YAML" and fall back to flag defaults.
type RunConfig struct {
	Iterations *int   `yaml:"iterations"`
	LogLevel   string `yaml:"log_level"`
}

// LoadRunConfig reads and strictly parses a YAML run-configuration file.
// Unrecognized keys (typos) are rejected, matching sim/bundle.go's
// LoadPolicyBundle.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	return &cfg, nil
}
