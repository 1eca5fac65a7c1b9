// This file compiles if/else-if/else chains.
package compiler

import (
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/scope"
	"github.com/cwbudde/clc/internal/token"
)

// compileIf handles `if ( expr ) body`, followed by any number of
// `else if ( expr ) body` and an optional trailing `else body`. Each arm
// is its own length-tagged scope object (IF_SCOPE/ELSE_IF_SCOPE/
// ELSE_SCOPE) so the interpreter can skip the untaken arms by their
// header length alone.
func (c *Compiler) compileIf() {
	ifTok := c.advance() // "if"
	c.compileConditionalArm(langterms.OpIfScope, scope.OpenerIf, ifTok)

	for c.isReservedWord("else") {
		elseTok := c.advance() // "else"
		if c.isReservedWord("if") {
			c.advance() // "if"
			c.compileConditionalArm(langterms.OpElseIfScope, scope.OpenerElseIf, elseTok)
			continue
		}

		start := c.w.WriteFlexBegin(langterms.OpElseScope)
		frame := c.scope.Open(scope.OpenerElse, elseTok, c.w.Len())
		c.compileBody()
		frame.End = c.w.Len()
		if _, err := c.scope.CloseTop(scope.OpenerElse, frame.End); err != nil {
			c.errorf(elseTok.Pos(), "%s", err.Error())
		}
		c.w.WriteFlexEnd(start)
		break
	}
}

func (c *Compiler) isReservedWord(word string) bool {
	tok := c.cur()
	return tok.Kind == token.KindReservedWord && tok.Lexeme == word
}

// compileConditionalArm emits one if/else-if arm: `( expr ) body`.
func (c *Compiler) compileConditionalArm(opcode byte, opener scope.OpenerKind, headTok token.Token) {
	start := c.w.WriteFlexBegin(opcode)
	frame := c.scope.Open(opener, headTok, c.w.Len())

	if !c.expectSymbol("(") {
		frame.End = c.w.Len()
		c.scope.CloseTop(opener, frame.End)
		c.w.WriteFlexEnd(start)
		c.recoverToStatementEnd()
		return
	}
	if err := c.compileExpressionObject(")"); err != nil {
		c.errorf(headTok.Pos(), "%s", err.Error())
		frame.End = c.w.Len()
		c.scope.CloseTop(opener, frame.End)
		c.w.WriteFlexEnd(start)
		c.recoverToStatementEnd()
		return
	}

	c.compileBody()
	frame.End = c.w.Len()
	if _, err := c.scope.CloseTop(opener, frame.End); err != nil {
		c.errorf(headTok.Pos(), "%s", err.Error())
	}
	c.w.WriteFlexEnd(start)
}
