// This file compiles variable declarations.
package compiler

import (
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/token"
)

var dataTypeKinds = map[string]token.ValueKind{
	"uint8": token.VU8, "uint16": token.VU16, "uint32": token.VU32, "uint64": token.VU64,
	"int8": token.VI8, "int16": token.VI16, "int32": token.VI32, "int64": token.VI64,
	"string": token.VString, "datetime": token.VDateTime, "double": token.VDouble, "bool": token.VBool,
}

var dataTypeOpcodes = map[string]byte{
	"uint8": langterms.OpTypeU8, "uint16": langterms.OpTypeU16,
	"uint32": langterms.OpTypeU32, "uint64": langterms.OpTypeU64,
	"int8": langterms.OpTypeI8, "int16": langterms.OpTypeI16,
	"int32": langterms.OpTypeI32, "int64": langterms.OpTypeI64,
	"string": langterms.OpTypeString, "datetime": langterms.OpTypeDateTime,
	"double": langterms.OpTypeDouble, "bool": langterms.OpTypeBool,
}

// compileVarDecl handles `DataType name (= expr)? (, name (= expr)?)*;`
// Each declared name is inserted into the current scope
// frame as uninitialized; the emitted VARIABLES_DECLARATION object pairs
// every USER_VAR with an EXPRESSION, which is zero-length when no
// initializer was written so the reader never has to guess whether one
// follows.
func (c *Compiler) compileVarDecl() {
	typeTok := c.advance()
	kind, ok := dataTypeKinds[typeTok.Lexeme]
	if !ok {
		c.errorf(typeTok.Pos(), "unknown data type %q", typeTok.Lexeme)
		c.recoverToStatementEnd()
		return
	}
	opcode := dataTypeOpcodes[typeTok.Lexeme]

	start := c.w.WriteFlexBegin(langterms.OpVariablesDeclaration)
	c.w.WriteFixed(opcode, nil)

	for {
		nameTok := c.cur()
		if nameTok.Kind != token.KindUserWord {
			c.errorf(nameTok.Pos(), "expected a variable name in declaration, got %q", nameTok.Lexeme)
			c.recoverToStatementEnd()
			c.w.WriteFlexEnd(start)
			return
		}
		c.advance()

		if err := c.scope.InsertAtTop(nameTok.Lexeme, token.Uninitialized(kind)); err != nil {
			c.errorf(nameTok.Pos(), "%s", err.Error())
		}
		c.w.WriteUserVar(nameTok.Lexeme)

		if c.isSymbol("=") {
			c.advance()
			if err := c.compileExpressionObject(",", ";"); err != nil {
				c.errorf(nameTok.Pos(), "%s", err.Error())
				c.recoverToStatementEnd()
				c.w.WriteFlexEnd(start)
				return
			}
			// compileExpressionObject already consumed the terminator; if it
			// was ';' the declaration is done, if ',' another name follows.
			if c.toks[c.pos-1].Lexeme == ";" {
				break
			}
			continue
		}

		// No initializer: emit an empty EXPRESSION placeholder and look for
		// the next separator.
		emptyStart := c.w.WriteFlexBegin(langterms.OpExpression)
		c.w.WriteFlexEnd(emptyStart)

		if c.isSymbol(",") {
			c.advance()
			continue
		}
		if c.isSymbol(";") {
			c.advance()
			break
		}
		c.errorf(c.cur().Pos(), "expected ',' or ';' in declaration, got %q", c.cur().Lexeme)
		c.recoverToStatementEnd()
		break
	}

	c.w.WriteFlexEnd(start)
}
