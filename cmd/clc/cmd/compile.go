package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	outputFile string
	disassemble bool
	compileVerbose bool
)

var compileCmd = &cobra.Command{
	Use: "compile [file]",
	Short: "Compile a source file to a bytecode object",
	Long: `Compile a program to the flat, opcode-tagged bytecode object format
and save it to disk.

Examples:
 clc compile script.clc
 clc compile script.clc -o out.o
 clc compile script.clc --disassemble`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: interpreted_file.o)")
	compileCmd.Flags().BoolVar(&disassemble, "disassemble", false, "print a disassembly of the compiled object")
	compileCmd.Flags().BoolVarP(&compileVerbose, "verbose", "v", false, "verbose output")
}

func compileScript(_ *cobra.Command, args []string) error {
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

	if disassemble || cfg.Disassemble {
		dump, derr := p.Disassemble(buf)
		if derr != nil {
			return derr
		}
		fmt.Fprintf(os.Stderr, "\n== Disassembly (%s) ==\n%s\n", filename, dump)
	}

	outFile := outputFile
	if outFile == "" {
		outFile = cfg.OutputFile
	}
	if err := os.WriteFile(outFile, buf, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Compiled object written to %s (%d bytes)\n", outFile, len(buf))
	} else {
		fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	}
	return nil
}
