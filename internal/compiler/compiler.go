// Package compiler is the top-level recursive-descent statement compiler.
// It walks a lexed token stream, one statement at a time,
// consulting a scope.Stack for declaration/visibility bookkeeping and
// emitting opcode-tagged objects via bytecode.Writer. Expression bodies
// are delegated to internal/parser + internal/exprtree.Flatten, keeping
// statement shape and expression shape as separate concerns.
package compiler

import (
	"fmt"

	"github.com/cwbudde/clc/internal/bytecode"
	"github.com/cwbudde/clc/internal/diag"
	"github.com/cwbudde/clc/internal/exprtree"
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/parser"
	"github.com/cwbudde/clc/internal/scope"
	"github.com/cwbudde/clc/internal/token"
)

// Compiler holds the mutable state of one compilation pass: a cursor into
// the token stream, the compile-time scope stack, the bytecode sink, and
// the diagnostics collector errors and warnings are reported through.
type Compiler struct {
	toks []token.Token
	pos int
	terms *langterms.Table
	scope *scope.Stack
	w *bytecode.Writer
	diag *diag.Collector
}

// Compile compiles toks into a complete compiled object, writing diagnostics
// to collector. It always returns a Writer (possibly holding a partial
// program); callers should check collector.HasErrors() before trusting
// the result. Compilation halts once the error count reaches collector's
// configured limit, rather than failing fast on the first error.
func Compile(toks []token.Token, terms *langterms.Table, collector *diag.Collector) *bytecode.Writer {
	c := &Compiler{
		toks: toks,
		terms: terms,
		scope: scope.NewStack(),
		w: bytecode.NewWriter(),
		diag: collector,
	}
	c.compileProgram()
	return c.w
}

// compileProgram compiles the entire token stream as the implicit root
// ANON_SCOPE, consuming statements until end of input.
func (c *Compiler) compileProgram() {
	start := c.w.WriteFlexBegin(langterms.OpAnonScope)
	for !c.atEnd() {
		if c.diag.ShouldHalt() {
			break
		}
		c.compileStatement()
	}
	c.scope.Top().End = c.w.Len()
	c.w.WriteFlexEnd(start)
}

func (c *Compiler) atEnd() bool {
	return c.cur().Kind == token.KindEndOfStream
}

func (c *Compiler) cur() token.Token {
	if c.pos >= len(c.toks) {
		return token.NewToken(token.KindEndOfStream, "", token.Position{})
	}
	return c.toks[c.pos]
}

func (c *Compiler) peekAt(offset int) token.Token {
	idx := c.pos + offset
	if idx >= len(c.toks) {
		return token.NewToken(token.KindEndOfStream, "", token.Position{})
	}
	return c.toks[idx]
}

func (c *Compiler) advance() token.Token {
	t := c.cur()
	if c.pos < len(c.toks) {
		c.pos++
	}
	return t
}

func (c *Compiler) errorf(pos token.Position, format string, args ...interface{}) {
	c.diag.Add(diag.UserError, pos, format, args...)
}

// isSymbol reports whether the current token is a source operator or
// separator matching sym (e.g. ";", "(", "{").
func (c *Compiler) isSymbol(sym string) bool {
	tok := c.cur()
	return (tok.Kind == token.KindSrcOpr8r || tok.Kind == token.KindSeparator) && tok.Lexeme == sym
}

// expectSymbol consumes sym or reports an error without advancing.
func (c *Compiler) expectSymbol(sym string) bool {
	if c.isSymbol(sym) {
		c.advance()
		return true
	}
	c.errorf(c.cur().Pos(), "expected %q, got %q", sym, c.cur().Lexeme)
	return false
}

// recoverToStatementEnd skips tokens until (and including) the next ';',
// or until end of input / a scope-closing '}' it must leave for the
// caller to see.
func (c *Compiler) recoverToStatementEnd() {
	for !c.atEnd() {
		if c.isSymbol(";") {
			c.advance()
			return
		}
		if c.isSymbol("}") {
			return
		}
		c.advance()
	}
}

// parseExprHere builds a Parser over the remaining tokens rooted at the
// compiler's scope (so undeclared-variable use is caught while parsing,
// not merely at evaluation time).
func (c *Compiler) parseExprHere() *parser.Parser {
	return parser.New(c.toks, c.pos, c.terms, c.varExists)
}

func (c *Compiler) varExists(name string) bool {
	_, err := c.scope.Lookup(name, 0, scope.Read, token.Value{})
	return err == nil
}

// compileExpressionObject parses one expression ending in one of
// terminators, flattens it, and emits it as an EXPRESSION flex object.
// It reports the parser's own position back to the compiler's cursor.
func (c *Compiler) compileExpressionObject(terminators ...string) error {
	p := c.parseExprHere()
	root, _, closed, err := p.ParseExpression(terminators...)
	c.pos = p.Pos()
	if err != nil {
		return err
	}
	if !closed {
		return fmt.Errorf("unterminated expression")
	}
	flat := exprtree.Flatten(root)
	return c.w.WriteFlatExpr(flat)
}

// compileStatement dispatches on the current token to one of the
// recognized statement forms, recovering to the next ';' on
// error so one bad statement doesn't abort the whole compile.
func (c *Compiler) compileStatement() {
	tok := c.cur()

	switch {
	case tok.Kind == token.KindEndOfStream:
		return

	case c.isSymbol(";"):
		// A bare ';' is a no-op empty statement.
		c.advance()

	case c.isSymbol("{"):
		c.compileAnonScopeStatement()

	case tok.Kind == token.KindDataType:
		c.compileVarDecl()

	case tok.Kind == token.KindReservedWord && tok.Lexeme == "if":
		c.compileIf()

	case tok.Kind == token.KindReservedWord && tok.Lexeme == "while":
		c.compileWhile()

	case tok.Kind == token.KindReservedWord && tok.Lexeme == "for":
		c.compileFor()

	case tok.Kind == token.KindReservedWord && tok.Lexeme == "break":
		c.compileBreak()

	default:
		c.compileExprStatement()
	}
}

// compileBody compiles one statement body: a braced `{...}` block (each
// statement written directly, no extra wrapping object since the
// enclosing scope object already supplies the frame) or, lacking braces,
// exactly one statement.
func (c *Compiler) compileBody() {
	if c.isSymbol("{") {
		c.advance()
		for !c.atEnd() && !c.isSymbol("}") {
			if c.diag.ShouldHalt() {
				return
			}
			c.compileStatement()
		}
		if !c.expectSymbol("}") {
			return
		}
		return
	}
	c.compileStatement()
}
