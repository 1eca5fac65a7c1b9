// Package builtins is the system call table the evaluator consults when it
// runs or skips a SYSTEM_CALL token.
package builtins

import (
	"fmt"
	"io"

	"github.com/cwbudde/clc/internal/token"
)

// Call describes one registered system call: its fixed argument count and
// its implementation.
type Call struct {
	Name string
	Arity int
	// Void reports whether the call never produces a result token: the
	// expression evaluator reports no value for it.
	Void bool
	Invoke func(out io.Writer, args []token.Value) (token.Value, error)
}

var registry = map[string]Call{
	"str": {
		Name: "str",
		Arity: 1,
		Invoke: func(_ io.Writer, args []token.Value) (token.Value, error) {
			return token.StringValue(args[0].String()), nil
		},
	},
	"print_line": {
		Name: "print_line",
		Arity: 1,
		Void: true,
		Invoke: func(out io.Writer, args []token.Value) (token.Value, error) {
			if args[0].Kind != token.VString {
				return token.Value{}, fmt.Errorf("print_line expects a string argument, got %s", args[0].Kind)
			}
			fmt.Fprintln(out, args[0].Str)
			return token.Value{}, nil
		},
	},
}

// Lookup returns the registered Call for name.
func Lookup(name string) (Call, bool) {
	c, ok := registry[name]
	return c, ok
}

// Arity returns name's fixed argument count, or -1 if name is unregistered.
func Arity(name string) int {
	if c, ok := registry[name]; ok {
		return c.Arity
	}
	return -1
}

// IsVoid reports whether name's call never returns a usable value.
func IsVoid(name string) bool {
	c, ok := registry[name]
	return ok && c.Void
}
