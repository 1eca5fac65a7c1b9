// This file compiles anonymous scopes, system-call statements and plain
// expression statements.
package compiler

import (
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/scope"
)

// compileAnonScopeStatement handles a bare `{... }` block used as its own
// statement (as opposed to an if/while/for body, where the owning scope
// object already supplies the frame): it opens its own ANON_SCOPE so
// names declared inside it don't leak to the surrounding frame.
func (c *Compiler) compileAnonScopeStatement() {
	openTok := c.advance() // "{"
	start := c.w.WriteFlexBegin(langterms.OpAnonScope)
	frame := c.scope.Open(scope.OpenerAnon, openTok, c.w.Len())

	for !c.atEnd() && !c.isSymbol("}") {
		if c.diag.ShouldHalt() {
			break
		}
		c.compileStatement()
	}
	c.expectSymbol("}")

	frame.End = c.w.Len()
	if _, err := c.scope.CloseTop(scope.OpenerAnon, frame.End); err != nil {
		c.errorf(openTok.Pos(), "%s", err.Error())
	}
	c.w.WriteFlexEnd(start)
}

// compileExprStatement handles both system-call statements
// (`system_name(args...);`, spec: "emits a SYSTEM_CALL wrapped in an
// EXPRESSION") and ordinary expression statements: any expression ending
// in ';'. Both shapes are just expressions from the parser's point of
// view — a system call is a primary expression like any other — so a
// single EXPRESSION object covers them.
func (c *Compiler) compileExprStatement() {
	tok := c.cur()
	if err := c.compileExpressionObject(";"); err != nil {
		c.errorf(tok.Pos(), "%s", err.Error())
		c.recoverToStatementEnd()
	}
}
