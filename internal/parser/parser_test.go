package parser

import (
	"testing"

	"github.com/cwbudde/clc/internal/exprtree"
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/lexer"
	"github.com/cwbudde/clc/internal/token"
)

func lex(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, errs := lexer.New("t.src", src).Lex()
	if len(errs) != 0 {
		t.Fatalf("lex errors: %v", errs)
	}
	return toks
}

func allVarsExist(string) bool { return true }

func parseExpr(t *testing.T, src string) *exprtree.Node {
	t.Helper()
	toks := lex(t, src)
	p := New(toks, 0, langterms.NewTable(), allVarsExist)
	node, _, closed, err := p.ParseExpression(";")
	if err != nil {
		t.Fatalf("%s: %v", src, err)
	}
	if !closed {
		t.Fatalf("%s: expression did not close", src)
	}
	return node
}

func symbolsInOrder(n *exprtree.Node) []string {
	if n == nil {
		return nil
	}
	out := []string{n.Tok.Lexeme}
	out = append(out, symbolsInOrder(n.Child1)...)
	out = append(out, symbolsInOrder(n.Child2)...)
	return out
}

func TestPrecedenceMultiplyBeforeAdd(t *testing.T) {
	root := parseExpr(t, "a + b * c;")
	if root.Tok.Lexeme != "B+" {
		t.Fatalf("root should be B+, got %s", root.Tok.Lexeme)
	}
	if root.Child2.Tok.Lexeme != "*" {
		t.Fatalf("right child should be *, got %s", root.Child2.Tok.Lexeme)
	}
}

func TestUnaryMinusDisambiguation(t *testing.T) {
	root := parseExpr(t, "-a + b;")
	if root.Tok.Lexeme != "B+" {
		t.Fatalf("root should be B+, got %s", root.Tok.Lexeme)
	}
	if root.Child1.Tok.Lexeme != "-u" {
		t.Fatalf("left operand should be unary minus -u, got %s", root.Child1.Tok.Lexeme)
	}
}

func TestPrefixPostfixIncrement(t *testing.T) {
	root := parseExpr(t, "++a;")
	if root.Tok.Lexeme != "+1" {
		t.Fatalf("expected prefix +1, got %s", root.Tok.Lexeme)
	}

	root = parseExpr(t, "a++;")
	if root.Tok.Lexeme != "1+" {
		t.Fatalf("expected postfix 1+, got %s", root.Tok.Lexeme)
	}
}

func TestTernaryWithAssignmentBranches(t *testing.T) {
	root := parseExpr(t, "a ? b = 1: b = 2;")
	if root.Tok.Lexeme != "?" {
		t.Fatalf("root should be ?, got %s", root.Tok.Lexeme)
	}
	colon := root.Child2
	if colon.Tok.Lexeme != ":" {
		t.Fatalf("expected: node, got %s", colon.Tok.Lexeme)
	}
	if colon.Child1.Tok.Lexeme != "=" || colon.Child2.Tok.Lexeme != "=" {
		t.Fatalf("both ternary branches should be assignments, got %s / %s", colon.Child1.Tok.Lexeme, colon.Child2.Tok.Lexeme)
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	root := parseExpr(t, "a = b = 5;")
	if root.Tok.Lexeme != "=" {
		t.Fatalf("root should be =, got %s", root.Tok.Lexeme)
	}
	if root.Child2.Tok.Lexeme != "=" {
		t.Fatalf("right-assoc assignment should nest on the right, got %s", root.Child2.Tok.Lexeme)
	}
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	root := parseExpr(t, "(a + b) * c;")
	if root.Tok.Lexeme != "*" {
		t.Fatalf("root should be *, got %s", root.Tok.Lexeme)
	}
	if root.Child1.Tok.Lexeme != "B+" {
		t.Fatalf("left child should be B+, got %s", root.Child1.Tok.Lexeme)
	}
}

func TestAssignmentToNonVariableIsError(t *testing.T) {
	toks := lex(t, "5 = a;")
	p := New(toks, 0, langterms.NewTable(), allVarsExist)
	if _, _, _, err := p.ParseExpression(";"); err == nil {
		t.Fatal("expected error assigning to a non-variable")
	}
}

func TestUnmatchedParenIsError(t *testing.T) {
	toks := lex(t, "(a + b;")
	p := New(toks, 0, langterms.NewTable(), allVarsExist)
	if _, _, _, err := p.ParseExpression(";"); err == nil {
		t.Fatal("expected error for unmatched '('")
	}
}

func TestUndeclaredVariableIsError(t *testing.T) {
	toks := lex(t, "a + 1;")
	p := New(toks, 0, langterms.NewTable(), func(string) bool { return false })
	if _, _, _, err := p.ParseExpression(";"); err == nil {
		t.Fatal("expected error for undeclared variable")
	}
}

func TestSystemCallSingleArgument(t *testing.T) {
	root := parseExpr(t, `str(a);`)
	if root.Tok.Kind != token.KindSystemCall || root.Tok.Lexeme != "str" {
		t.Fatalf("expected str system call node, got %+v", root.Tok)
	}
	if root.Child1 == nil || root.Child1.Tok.Lexeme != "a" {
		t.Fatalf("expected argument child 'a', got %+v", root.Child1)
	}
}
