package cmd

import (
	"os"

	"github.com/cwbudde/clc/internal/config"
	"github.com/cwbudde/clc/internal/driver"
	"github.com/cwbudde/clc/internal/trace"
)

// loadConfig overlays the --log-level/--error-limit flags onto clc.yaml
// (or the built-in defaults, if clc.yaml is absent).
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if logLevelFlag != "" && logLevelFlag != "SILENT" {
		cfg.LogLevel = logLevelFlag
	}
	if errorLimit > 0 {
		cfg.ErrorLimit = errorLimit
	}
	return cfg, nil
}

// newPipeline reads filename, builds a trace.Logger at cfg's level
// writing to stderr, and returns a driver.Pipeline ready to Lex/Compile/
// Interpret.
func newPipeline(filename string, cfg config.Config) (*driver.Pipeline, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	level, _ := trace.ParseLevel(cfg.LogLevel)
	logger := trace.New(os.Stderr, level)
	return driver.New(filename, string(content), cfg.ErrorLimit, logger), nil
}
