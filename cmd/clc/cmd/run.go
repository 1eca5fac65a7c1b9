package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var runDisassemble bool

var runCmd = &cobra.Command{
	Use: "run [file]",
	Short: "Compile and interpret a source file in one step",
	Long: `Compile a program in-memory and interpret it immediately. Compile
errors abort before interpretation begins.

Examples:
 clc run script.clc
 clc run --log-level DEBUG script.clc`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runDisassemble, "disassemble", false, "print a disassembly of the compiled object before running it")
}

func runScript(_ *cobra.Command, args []string) error {
	filename := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := newPipeline(filename, cfg)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	toks, err := p.Lex()
	if err != nil {
		return err
	}

	buf, err := p.Compile(toks)
	if err != nil {
		fmt.Fprint(os.Stderr, p.Diagnostics().GroupedReport())
		return err
	}

	if runDisassemble {
		dump, derr := p.Disassemble(buf)
		if derr != nil {
			return derr
		}
		fmt.Fprintf(os.Stderr, "\n== Disassembly (%s) ==\n%s\n", filename, dump)
	}

	// A single buffered writer over stdout, flushed once at process exit
	// (the CLI's one piece of ambient I/O plumbing).
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	if err := p.Interpret(buf, out); err != nil {
		out.Flush()
		return err
	}
	return nil
}
