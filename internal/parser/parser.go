// Package parser builds an expression tree (internal/exprtree) from a
// token stream. Operator precedence and disambiguation are
// driven entirely by internal/langterms so the grammar's shape lives in
// one place.
//
// The reference algorithm processes a scope stack of flat token lists and
// folds each scope by repeated precedence-group passes at close time. This
// implementation instead uses recursive-descent precedence climbing, which
// produces the same tree shape for this grammar (every binary group is
// left-associative except assignment, which together with `?:` is
// right-associative) while being far easier to get right without a
// toolchain to check it against.
package parser

import (
	"fmt"

	"github.com/cwbudde/clc/internal/exprtree"
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/token"
)

// ParseError reports a malformed expression with its offending token.
type ParseError struct {
	Position token.Position
	Tok token.Token
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s (got %q)", e.Pos(), e.Message, e.Tok.Lexeme)
}

// Pos returns the error's source position.
func (e *ParseError) Pos() token.Position {
	return e.Position
}

// VarExists reports whether name is a declared variable visible from the
// current scope. The parser only consults it; it never mutates scope.
type VarExists func(name string) bool

// Parser consumes a token slice positioned at the start of an expression.
type Parser struct {
	toks []token.Token
	pos int
	terms *langterms.Table
	exists VarExists
}

// New builds a Parser over toks starting at index start.
func New(toks []token.Token, start int, terms *langterms.Table, exists VarExists) *Parser {
	if exists == nil {
		exists = func(string) bool { return true }
	}
	return &Parser{toks: toks, pos: start, terms: terms, exists: exists}
}

// Pos returns the parser's current index into its token slice, for callers
// that interleave expression parsing with statement-level scanning.
func (p *Parser) Pos() int { return p.pos }

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.NewToken(token.KindEndOfStream, "", token.Position{})
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func isTerminator(tok token.Token, terminators []string) bool {
	for _, s := range terminators {
		if tok.Lexeme == s && (tok.Kind == token.KindSrcOpr8r || tok.Kind == token.KindSeparator) {
			return true
		}
	}
	return false
}

// ParseExpression parses one expression, stopping at the first token that
// matches one of terminators (typically ")", ";", or ","). It returns the
// root node, the terminator token actually found, and whether the
// expression closed properly (false on EOF / mismatch).
func (p *Parser) ParseExpression(terminators ...string) (*exprtree.Node, token.Token, bool, error) {
	if isTerminator(p.cur(), terminators) {
		return nil, p.advance(), true, nil
	}

	root, err := p.parseAssignment()
	if err != nil {
		return nil, token.Token{}, false, err
	}

	closer := p.cur()
	if closer.Kind == token.KindEndOfStream {
		return root, closer, false, &ParseError{Position: closer.Pos(), Tok: closer, Message: "unexpected end of input, expected " + fmt.Sprint(terminators)}
	}
	if !isTerminator(closer, terminators) {
		return root, closer, false, &ParseError{Position: closer.Pos(), Tok: closer, Message: "unexpected token, expected one of " + fmt.Sprint(terminators)}
	}
	p.advance()
	return root, closer, true, nil
}

// parseAssignment handles the right-associative assignment family, the
// loosest-binding operators in the table.
func (p *Parser) parseAssignment() (*exprtree.Node, error) {
	left, err := p.parseTernary()
	if err != nil {
		return nil, err
	}

	tok := p.cur()
	if tok.Kind == token.KindSrcOpr8r && p.terms.TypeMaskOf(tok.Lexeme)&langterms.Binary != 0 {
		if _, ok := assignSymbols[tok.Lexeme]; ok {
			if left.Tok.Kind != token.KindUserWord {
				return nil, &ParseError{Position: tok.Pos(), Tok: left.Tok, Message: "assignment left-hand side must be a named variable"}
			}
			p.advance()
			op, ok := p.terms.Disambiguate(tok.Lexeme, langterms.Binary)
			if !ok {
				return nil, &ParseError{Position: tok.Pos(), Tok: tok, Message: "unknown assignment operator"}
			}
			right, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			node := exprtree.New(execToken(tok, op))
			node.SetChild1(left)
			node.SetChild2(right)
			return node, nil
		}
	}
	return left, nil
}

var assignSymbols = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<=": true, ">>=": true, "&=": true, "^=": true, "|=": true,
}

// parseTernary handles `cond ? trueBranch: falseBranch`, right-associative
// and binding tighter than assignment but looser than `||`.
// Both branches are parsed at assignment level so `x ? a=1: a=2` parses
// and nested ternaries in the false branch associate right.
func (p *Parser) parseTernary() (*exprtree.Node, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}

	tok := p.cur()
	if tok.Kind != token.KindSrcOpr8r || tok.Lexeme != "?" {
		return cond, nil
	}
	p.advance()

	qOp, _ := p.terms.Disambiguate("?", langterms.Binary|langterms.Ternary1st)
	trueBranch, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}

	colon := p.cur()
	if colon.Kind != token.KindSrcOpr8r || colon.Lexeme != ":" {
		return nil, &ParseError{Position: colon.Pos(), Tok: colon, Message: "expected ':' to complete ternary expression"}
	}
	p.advance()
	cOp, _ := p.terms.Disambiguate(":", langterms.Binary|langterms.Ternary2nd)

	falseBranch, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}

	colonNode := exprtree.New(execToken(colon, cOp))
	colonNode.SetChild1(trueBranch)
	colonNode.SetChild2(falseBranch)

	qNode := exprtree.New(execToken(tok, qOp))
	qNode.SetChild1(cond)
	qNode.SetChild2(colonNode)
	return qNode, nil
}

// binaryGroups lists, loosest-to-tightest, the ordinary left-associative
// binary groups climbed before ternary/assignment take over. Indices must
// stay in sync with langterms.precedenceGroups' relative ordering.
var binaryGroups = [][]string{
	{"||"},
	{"&&"},
	{"|"},
	{"^"},
	{"&"},
	{"==", "!="},
	{"<", "<=", ">", ">="},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "%"},
}

// parseBinary climbs binaryGroups starting at level (0 = loosest, i.e.
// `||`). Each level parses its operand via the next-tighter level,
// matching standard precedence climbing for left-associative operators.
func (p *Parser) parseBinary(level int) (*exprtree.Node, error) {
	if level >= len(binaryGroups) {
		return p.parseUnary()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		tok := p.cur()
		if tok.Kind != token.KindSrcOpr8r || !inGroup(binaryGroups[level], tok.Lexeme) {
			return left, nil
		}
		p.advance()
		op, ok := p.terms.Disambiguate(tok.Lexeme, langterms.Binary)
		if !ok {
			return nil, &ParseError{Position: tok.Pos(), Tok: tok, Message: "operator not valid in binary position"}
		}
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		node := exprtree.New(execToken(tok, op))
		node.SetChild1(left)
		node.SetChild2(right)
		left = node
	}
}

func inGroup(group []string, sym string) bool {
	for _, s := range group {
		if s == sym {
			return true
		}
	}
	return false
}

// parseUnary handles prefix `++ -- + - ! ~`, then hands off to parsePostfix.
func (p *Parser) parseUnary() (*exprtree.Node, error) {
	tok := p.cur()
	if tok.Kind != token.KindSrcOpr8r {
		return p.parsePostfix()
	}

	switch tok.Lexeme {
	case "++", "--":
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if operand.Tok.Kind != token.KindUserWord {
			return nil, &ParseError{Position: tok.Pos(), Tok: operand.Tok, Message: "++/-- operand must be a named variable"}
		}
		op, _ := p.terms.Disambiguate(tok.Lexeme, langterms.Prefix)
		node := exprtree.New(execToken(tok, op))
		node.SetChild1(operand)
		return node, nil

	case "+", "-", "!", "~":
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		op, ok := p.terms.Disambiguate(tok.Lexeme, langterms.Unary)
		if !ok {
			return nil, &ParseError{Position: tok.Pos(), Tok: tok, Message: "operator not valid in unary position"}
		}
		node := exprtree.New(execToken(tok, op))
		node.SetChild1(operand)
		return node, nil
	}
	return p.parsePostfix()
}

// parsePostfix handles a primary expression followed by optional `++`/`--`.
func (p *Parser) parsePostfix() (*exprtree.Node, error) {
	operand, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.cur()
		if tok.Kind != token.KindSrcOpr8r || (tok.Lexeme != "++" && tok.Lexeme != "--") {
			return operand, nil
		}
		if operand.Tok.Kind != token.KindUserWord {
			return operand, nil
		}
		p.advance()
		op, _ := p.terms.Disambiguate(tok.Lexeme, langterms.Postfix)
		node := exprtree.New(execToken(tok, op))
		node.SetChild1(operand)
		operand = node
	}
}

// parsePrimary handles literals, variable references, system calls, and
// parenthesized sub-expressions.
func (p *Parser) parsePrimary() (*exprtree.Node, error) {
	tok := p.cur()

	switch {
	case tok.Kind == token.KindSeparator && tok.Lexeme == "(":
		p.advance()
		inner, _, closed, err := p.ParseExpression(")")
		if err != nil {
			return nil, err
		}
		if !closed {
			return nil, &ParseError{Position: tok.Pos(), Tok: tok, Message: "unmatched '('"}
		}
		return inner, nil

	case tok.Kind.IsLiteral():
		p.advance()
		return exprtree.New(tok), nil

	case tok.Kind == token.KindUserWord:
		if !p.exists(tok.Lexeme) {
			return nil, &ParseError{Position: tok.Pos(), Tok: tok, Message: "undeclared variable"}
		}
		p.advance()
		return exprtree.New(tok), nil

	case tok.Kind == token.KindSystemCall:
		return p.parseSystemCall()

	default:
		return nil, &ParseError{Position: tok.Pos(), Tok: tok, Message: "expected a value"}
	}
}

func (p *Parser) parseSystemCall() (*exprtree.Node, error) {
	name := p.advance()
	open := p.cur()
	if open.Kind != token.KindSeparator || open.Lexeme != "(" {
		return nil, &ParseError{Position: open.Pos(), Tok: open, Message: "expected '(' after system call name"}
	}
	p.advance()

	node := exprtree.New(name)
	if p.cur().Kind == token.KindSeparator && p.cur().Lexeme == ")" {
		p.advance()
		return node, nil
	}
	arg, _, closed, err := p.ParseExpression(")")
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, &ParseError{Position: open.Pos(), Tok: open, Message: "unmatched '(' in system call"}
	}
	node.SetChild1(arg)
	return node, nil
}

// execToken rewrites tok into its disambiguated ExecOpr8r form, carrying
// the resolved opcode so the bytecode writer never has to re-classify it
// before emission.
func execToken(tok token.Token, op langterms.Operator) token.Token {
	t := tok
	t.Kind = token.KindExecOpr8r
	t.Lexeme = op.Symbol
	t.Uint = uint64(op.OpCode)
	return t
}
