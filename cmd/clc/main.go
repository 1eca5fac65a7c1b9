// Command clc is the compile-and-interpret toolchain for the C-like
// procedural language this module implements.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/clc/cmd/clc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
