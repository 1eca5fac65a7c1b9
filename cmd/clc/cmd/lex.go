package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/clc/internal/lexer"
	"github.com/cwbudde/clc/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexShowPos bool
	lexShowKind bool
)

var lexCmd = &cobra.Command{
	Use: "lex [file]",
	Short: "Tokenize a source file and print the resulting tokens",
	Long: `Tokenize (lex) a program and print its token stream, one token per
line. Useful for debugging the lexer.

Examples:
 clc lex script.clc
 clc lex --show-kind --show-pos script.clc`,
	Args: cobra.ExactArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexShowKind, "show-kind", false, "show token kind names")
}

func lexScript(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	l := lexer.New(filename, string(content))
	toks, errs := l.Lex()

	for _, tok := range toks {
		printToken(tok)
	}

	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "lex error: %s\n", e.Error())
		}
		return fmt.Errorf("found %d lex error(s)", len(errs))
	}
	return nil
}

func printToken(tok token.Token) {
	switch {
	case lexShowKind && lexShowPos:
		fmt.Println(tok.String())
	case lexShowKind:
		fmt.Printf("%-14s %q\n", tok.Kind, tok.Lexeme)
	case lexShowPos:
		fmt.Printf("%q %s\n", tok.Lexeme, tok.Pos())
	default:
		fmt.Printf("%q\n", tok.Lexeme)
	}
}
