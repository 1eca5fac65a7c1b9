// Package config loads the CLI's optional YAML configuration file via
// github.com/goccy/go-yaml, layering on top of cobra's flag defaults.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config holds the persistent settings `clc` accepts either from
// `clc.yaml` or from the equivalent cobra flags, flags taking precedence.
type Config struct {
	LogLevel string `yaml:"log_level"`
	OutputFile string `yaml:"output_file"`
	Disassemble bool `yaml:"disassemble"`
	ErrorLimit int `yaml:"error_limit"`
}

// Default returns the built-in defaults: silent logging,
// `interpreted_file.o` as the compiled output path, no automatic
// disassembly, and a 30-message error limit.
func Default() Config {
	return Config{
		LogLevel: "SILENT",
		OutputFile: "interpreted_file.o",
		Disassemble: false,
		ErrorLimit: 30,
	}
}

// Load reads a YAML config file at path, overlaying its fields onto the
// built-in Default. A missing file is not an error: Load simply returns
// the defaults, since clc.yaml is optional.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
