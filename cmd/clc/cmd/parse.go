package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/clc/internal/exprtree"
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/lexer"
	"github.com/cwbudde/clc/internal/parser"
	"github.com/tidwall/sjson"

	"github.com/spf13/cobra"
)

var parseAsJSON bool

var parseCmd = &cobra.Command{
	Use: "parse [file]",
	Short: "Parse the first top-level expression statement and dump its tree",
	Long: `Parse a single expression statement (up to its terminating ';') and
print an indented tree dump, a thin debug view over the same expression
tree the compiler flattens to bytecode.

Examples:
 clc parse script.clc
 clc parse --json script.clc`,
	Args: cobra.ExactArgs(1),
	RunE: parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseAsJSON, "json", false, "emit the tree as JSON instead of an indented dump")
}

func parseScript(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	l := lexer.New(filename, string(content))
	toks, errs := l.Lex()
	if len(errs) > 0 {
		return fmt.Errorf("lex: %s", errs[0].Error())
	}

	terms := langterms.NewTable()
	// A debug-only tree dump doesn't need real declaration tracking: every
	// name is accepted so the parser never rejects an undeclared read.
	p := parser.New(toks, 0, terms, func(string) bool { return true })
	root, _, _, err := p.ParseExpression(";")
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if parseAsJSON {
		out, jerr := dumpNodeJSON(root)
		if jerr != nil {
			return jerr
		}
		fmt.Println(out)
		return nil
	}

	if root == nil {
		fmt.Println("(empty expression)")
		return nil
	}
	dumpNode(root, 0)
	return nil
}

func dumpNode(n *exprtree.Node, indent int) {
	pad := ""
	for i := 0; i < indent; i++ {
		pad += " "
	}
	if n == nil {
		fmt.Printf("%s(nil)\n", pad)
		return
	}
	fmt.Printf("%s%s %q\n", pad, n.Tok.Kind, n.Tok.Lexeme)
	if n.Child1 != nil {
		dumpNode(n.Child1, indent+1)
	}
	if n.Child2 != nil {
		dumpNode(n.Child2, indent+1)
	}
}

// dumpNodeJSON renders the same tree via github.com/tidwall/sjson, setting
// each field by path rather than building a struct tree, since the node
// shape here is recursive and sjson's path-set API handles that directly.
func dumpNodeJSON(n *exprtree.Node) (string, error) {
	if n == nil {
		return "null", nil
	}
	doc := "{}"
	var err error
	doc, err = sjson.Set(doc, "kind", n.Tok.Kind.String())
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, "lexeme", n.Tok.Lexeme)
	if err != nil {
		return "", err
	}
	if n.Child1 != nil {
		child, cerr := dumpNodeJSON(n.Child1)
		if cerr != nil {
			return "", cerr
		}
		doc, err = sjson.SetRaw(doc, "child1", child)
		if err != nil {
			return "", err
		}
	}
	if n.Child2 != nil {
		child, cerr := dumpNodeJSON(n.Child2)
		if cerr != nil {
			return "", cerr
		}
		doc, err = sjson.SetRaw(doc, "child2", child)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}
