package lexer

import (
	"testing"

	"github.com/cwbudde/clc/internal/token"
)

func kinds(t *testing.T, toks []token.Token) []token.Kind {
	t.Helper()
	ks := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		ks = append(ks, tok.Kind)
	}
	return ks
}

func TestLexIdentifiersAndKeywords(t *testing.T) {
	l := New("t.src", `uint8 x = 5; while (true) { break; }`)
	toks, errs := l.Lex()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []token.Kind{
		token.KindDataType, token.KindUserWord, token.KindSrcOpr8r, token.KindI8Lit, token.KindSrcOpr8r,
		token.KindReservedWord, token.KindSeparator, token.KindBoolLit, token.KindSeparator,
		token.KindSeparator, token.KindReservedWord, token.KindSrcOpr8r, token.KindSeparator,
		token.KindEndOfStream,
	}
	got := kinds(t, toks)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %d (%v) want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestLexNumberWidthInference(t *testing.T) {
	cases := []struct {
		src string
		kind token.Kind
	}{
		{"5", token.KindI8Lit},
		{"200", token.KindI16Lit},
		{"100000", token.KindI32Lit},
		{"0xFF", token.KindU8Lit},
		{"0xFFFF", token.KindU16Lit},
		{"3.14", token.KindDoubleLit},
	}
	for _, c := range cases {
		l := New("t.src", c.src)
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("%s: unexpected error %v", c.src, err)
		}
		if tok.Kind != c.kind {
			t.Errorf("%s: got %s want %s", c.src, tok.Kind, c.kind)
		}
	}
}

func TestLexStringAndDateTime(t *testing.T) {
	l := New("t.src", `"hello \"there\"" "2024-03-01"`)
	toks, errs := l.Lex()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Kind != token.KindStringLit || toks[0].Lexeme != `hello "there"` {
		t.Errorf("got %+v", toks[0])
	}
	if toks[1].Kind != token.KindDateTimeLit {
		t.Errorf("expected date-time literal, got %s", toks[1].Kind)
	}
}

func TestLexOperatorGreedyMatch(t *testing.T) {
	l := New("t.src", `a <<= b`)
	toks, errs := l.Lex()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[1].Lexeme != "<<=" {
		t.Errorf("expected greedy <<= match, got %q", toks[1].Lexeme)
	}
}

func TestLexUnterminatedStringIsFatal(t *testing.T) {
	l := New("t.src", `"never closed`)
	_, errs := l.Lex()
	if len(errs) == 0 {
		t.Fatal("expected a lex error for an unterminated string")
	}
}

func TestLexSkipsComments(t *testing.T) {
	l := New("t.src", "// a line\nx /* block */ = 1;")
	toks, errs := l.Lex()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	got := kinds(t, toks)
	want := []token.Kind{token.KindUserWord, token.KindSrcOpr8r, token.KindI8Lit, token.KindSrcOpr8r, token.KindEndOfStream}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestLexJunkCharacter(t *testing.T) {
	l := New("t.src", `a $ b`)
	toks, _ := l.Lex()
	found := false
	for _, tok := range toks {
		if tok.Kind == token.KindJunk {
			found = true
		}
	}
	if !found {
		t.Error("expected a JUNK token for '$'")
	}
}
