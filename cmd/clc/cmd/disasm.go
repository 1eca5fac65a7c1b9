package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/clc/internal/bytecode"
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var disasmQuery string

var disasmCmd = &cobra.Command{
	Use: "disasm [object-file]",
	Short: "Disassemble a compiled bytecode object",
	Long: `Print a human-readable disassembly of a.o file produced by
'clc compile', one line per emitted object prefixed with its byte offset.

With --query, the disassembly's line list is rendered as JSON first and
then filtered through a github.com/tidwall/gjson path expression, e.g.
--query 'lines.#(text%"*BREAK*")#' to find every BREAK statement.`,
	Args: cobra.ExactArgs(1),
	RunE: disasmObject,
}

func init() {
	rootCmd.AddCommand(disasmCmd)
	disasmCmd.Flags().StringVar(&disasmQuery, "query", "", "gjson path expression to filter the disassembly lines")
}

func disasmObject(_ *cobra.Command, args []string) error {
	filename := args[0]
	buf, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	terms := langterms.NewTable()
	dump, derr := bytecode.Disassemble(buf, terms)
	if derr != nil {
		return derr
	}

	if disasmQuery == "" {
		fmt.Print(dump)
		return nil
	}

	doc, jerr := linesToJSON(dump)
	if jerr != nil {
		return jerr
	}
	result := gjson.Get(doc, disasmQuery)
	fmt.Println(result.String())
	return nil
}

// linesToJSON turns a disassembly's lines into a `{"lines":[{"text":...}]}`
// document so --query can run a github.com/tidwall/gjson path over it.
func linesToJSON(dump string) (string, error) {
	lines := strings.Split(strings.TrimRight(dump, "\n"), "\n")
	type line struct {
		Text string `json:"text"`
	}
	wrapped := struct {
		Lines []line `json:"lines"`
	}{}
	for _, l := range lines {
		wrapped.Lines = append(wrapped.Lines, line{Text: l})
	}
	out, err := json.Marshal(wrapped)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
