package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	logLevelFlag string
	errorLimit int
	configPath string
)

var rootCmd = &cobra.Command{
	Use: "clc",
	Short: "Compiler and interpreter for a small C-like language",
	Long: `clc lexes, compiles and interprets programs written in a small
C-like procedural language: primitive variable declarations, if/else-if/
else, while and for loops with break, and a flat expression grammar with
C operator precedence.

It compiles to a flat, opcode-tagged binary object format rather than a
tree, and can either persist that object (compile) or run it immediately
(run).`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built: %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "SILENT", "trace level: SILENT, ILLUSTRATIVE, VERBOSE, EFFUSIVE, DEBUG")
	rootCmd.PersistentFlags().IntVar(&errorLimit, "error-limit", 0, "max diagnostics before the compiler halts (0 = use clc.yaml/default)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "clc.yaml", "path to an optional YAML config file")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
