// Package langterms is the declarative operator table and language-term
// dictionary: precedence groups, arities, opcodes, and the
// reserved-word/data-type/separator vocabularies the lexer and parser both
// consult.
package langterms

// TypeMask bits describe the syntactic positions an operator may occupy.
type TypeMask uint8

const (
	Unary TypeMask = 1 << iota
	Binary
	Ternary1st
	Ternary2nd
	Prefix
	Postfix
	StatementEnder
)

// UsageMask bits describe where a symbol is legal to appear.
type UsageMask uint8

const (
	// UsrSrc marks a symbol a user may type in source.
	UsrSrc UsageMask = 1 << iota
	// Gnr8dSrc marks a symbol only ever produced by disambiguation
	// (e.g. the rewritten prefix/postfix/unary forms).
	Gnr8dSrc
)

// Operator fully describes one operator symbol: its legal positions, arity
// on both sides of flattening, and its emitted opcode.
type Operator struct {
	Symbol string
	TypeMask TypeMask
	UsageMask UsageMask
	NumSrcOperand int
	NumExecOperand int
	OpCode byte
	Description string
}

func (o Operator) Is(mask TypeMask) bool { return o.TypeMask&mask != 0 }
