package bytecode

import (
	"testing"

	"github.com/cwbudde/clc/internal/exprtree"
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/lexer"
	"github.com/cwbudde/clc/internal/parser"
	"github.com/cwbudde/clc/internal/token"
)

func parseFlat(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, errs := lexer.New("t.src", src).Lex()
	if len(errs) != 0 {
		t.Fatalf("lex errors: %v", errs)
	}
	p := parser.New(toks, 0, langterms.NewTable(), func(string) bool { return true })
	node, _, closed, err := p.ParseExpression(";")
	if err != nil || !closed {
		t.Fatalf("parse failed: closed=%v err=%v", closed, err)
	}
	return exprtree.Flatten(node)
}

func TestRoundTripFlattenWriteRead(t *testing.T) {
	terms := langterms.NewTable()
	flat := parseFlat(t, "a + b * 3;")

	w := NewWriter()
	if err := w.WriteFlatExpr(flat); err != nil {
		t.Fatal(err)
	}

	got, end, err := ReadExprIntoList(w.Bytes(), 0, terms)
	if err != nil {
		t.Fatal(err)
	}
	if end != len(w.Bytes()) {
		t.Errorf("expected reader to consume the whole buffer, end=%d len=%d", end, len(w.Bytes()))
	}
	if len(got) != len(flat) {
		t.Fatalf("token count mismatch: got %d want %d", len(got), len(flat))
	}
	for i := range flat {
		if got[i].Kind != flat[i].Kind {
			t.Errorf("token %d kind: got %s want %s", i, got[i].Kind, flat[i].Kind)
		}
		if got[i].Lexeme != flat[i].Lexeme {
			t.Errorf("token %d lexeme: got %q want %q", i, got[i].Lexeme, flat[i].Lexeme)
		}
	}
}

func TestRoundTripStringAndDouble(t *testing.T) {
	terms := langterms.NewTable()
	flat := parseFlat(t, `x + 3.5;`)
	// Swap the user-var for a string literal (the double comes from the 3.5
	// in the source) to exercise both flex-payload kinds in one buffer.
	flat[1] = token.NewToken(token.KindStringLit, "hello", token.Position{})

	w := NewWriter()
	if err := w.WriteFlatExpr(flat); err != nil {
		t.Fatal(err)
	}
	got, _, err := ReadExprIntoList(w.Bytes(), 0, terms)
	if err != nil {
		t.Fatal(err)
	}
	if got[1].Kind != token.KindStringLit || got[1].Lexeme != "hello" {
		t.Errorf("got %+v", got[1])
	}
	var doubleTok token.Token
	for _, tk := range got {
		if tk.Kind == token.KindDoubleLit {
			doubleTok = tk
		}
	}
	if doubleTok.Float != 3.5 {
		t.Errorf("expected double 3.5, got %v", doubleTok.Float)
	}
}

func TestReadRejectsTruncatedExpression(t *testing.T) {
	terms := langterms.NewTable()
	w := NewWriter()
	_ = w.WriteFlatExpr(parseFlat(t, "1;"))
	truncated := w.Bytes()[:len(w.Bytes())-2]
	if _, _, err := ReadExprIntoList(truncated, 0, terms); err == nil {
		t.Fatal("expected an error reading a truncated buffer")
	}
}

func TestDisassembleExpr(t *testing.T) {
	terms := langterms.NewTable()
	w := NewWriter()
	_ = w.WriteFlatExpr(parseFlat(t, "a + 1;"))
	out, err := DisassembleExpr(w.Bytes(), 0, terms)
	if err != nil {
		t.Fatal(err)
	}
	if out == "" {
		t.Fatal("expected non-empty disassembly")
	}
}
