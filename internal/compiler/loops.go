// This file compiles while/for loops and break.
package compiler

import (
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/scope"
	"github.com/cwbudde/clc/internal/token"
)

// compileWhile handles `while ( expr ) body`.
func (c *Compiler) compileWhile() {
	whileTok := c.advance() // "while"
	start := c.w.WriteFlexBegin(langterms.OpWhileScope)
	frame := c.scope.Open(scope.OpenerWhile, whileTok, c.w.Len())
	frame.HasForCondition = true // a while's condition is mandatory, never empty

	if !c.expectSymbol("(") {
		c.closeLoopFrame(scope.OpenerWhile, frame)
		c.w.WriteFlexEnd(start)
		c.recoverToStatementEnd()
		return
	}
	if err := c.compileExpressionObject(")"); err != nil {
		c.errorf(whileTok.Pos(), "%s", err.Error())
		c.closeLoopFrame(scope.OpenerWhile, frame)
		c.w.WriteFlexEnd(start)
		c.recoverToStatementEnd()
		return
	}

	c.compileBody()
	c.closeLoopFrame(scope.OpenerWhile, frame)
	c.w.WriteFlexEnd(start)
}

// compileFor handles `for ( init; cond; step ) body`: init
// may be a variable declaration, an expression, or empty; cond may be
// empty (but then a `break` must exist somewhere in the body, or the
// loop is statically infinite); step may be empty. FOR_SCOPE's payload
// is [init][cond][step][body...], each of init/cond/step an EXPRESSION
// or VARIABLES_DECLARATION (possibly zero-length for the empty case).
func (c *Compiler) compileFor() {
	forTok := c.advance() // "for"
	start := c.w.WriteFlexBegin(langterms.OpForScope)
	frame := c.scope.Open(scope.OpenerFor, forTok, c.w.Len())

	if !c.expectSymbol("(") {
		c.closeLoopFrame(scope.OpenerFor, frame)
		c.w.WriteFlexEnd(start)
		c.recoverToStatementEnd()
		return
	}

	// init: declaration, expression, or empty.
	if c.cur().Kind == token.KindDataType {
		c.compileVarDecl() // consumes its own trailing ';'
	} else if err := c.compileExpressionObject(";"); err != nil {
		c.errorf(forTok.Pos(), "%s", err.Error())
		c.closeLoopFrame(scope.OpenerFor, frame)
		c.w.WriteFlexEnd(start)
		c.recoverToStatementEnd()
		return
	}

	// cond: expression or empty.
	hasCond := !c.isSymbol(";")
	if err := c.compileExpressionObject(";"); err != nil {
		c.errorf(forTok.Pos(), "%s", err.Error())
		c.closeLoopFrame(scope.OpenerFor, frame)
		c.w.WriteFlexEnd(start)
		c.recoverToStatementEnd()
		return
	}
	frame.HasForCondition = hasCond

	// step: expression or empty.
	if err := c.compileExpressionObject(")"); err != nil {
		c.errorf(forTok.Pos(), "%s", err.Error())
		c.closeLoopFrame(scope.OpenerFor, frame)
		c.w.WriteFlexEnd(start)
		c.recoverToStatementEnd()
		return
	}

	c.compileBody()

	if !frame.HasForCondition && frame.LoopBreakCount == 0 {
		c.errorf(forTok.Pos(), "for(;;) with no break is a static infinite loop")
	}
	c.closeLoopFrame(scope.OpenerFor, frame)
	c.w.WriteFlexEnd(start)
}

func (c *Compiler) closeLoopFrame(opener scope.OpenerKind, frame *scope.Frame) {
	frame.End = c.w.Len()
	if _, err := c.scope.CloseTop(opener, frame.End); err != nil {
		c.errorf(frame.OpenerTok.Pos(), "%s", err.Error())
	}
}

// compileBreak handles `break;`: legal only when nested
// inside a While/For frame, emitted as the single-byte BREAK opcode.
func (c *Compiler) compileBreak() {
	tok := c.advance() // "break"
	if _, ok := c.scope.IsInsideLoop(true); !ok {
		c.errorf(tok.Pos(), "'break' outside any loop")
	}
	c.w.WriteFixed(langterms.OpBreak, nil)
	if !c.expectSymbol(";") {
		c.recoverToStatementEnd()
	}
}
