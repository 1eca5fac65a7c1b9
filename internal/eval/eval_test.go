package eval

import (
	"bytes"
	"testing"

	"github.com/cwbudde/clc/internal/exprtree"
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/lexer"
	"github.com/cwbudde/clc/internal/parser"
	"github.com/cwbudde/clc/internal/scope"
	"github.com/cwbudde/clc/internal/token"
)

// evalSrc lexes and parses src as a single expression terminated by ';',
// then evaluates it against s (newStackWith pre-declares names).
func evalSrc(t *testing.T, s *scope.Stack, out *bytes.Buffer, src string) (token.Value, bool, error) {
	t.Helper()
	toks, errs := lexer.New("t.src", src).Lex()
	if len(errs) != 0 {
		t.Fatalf("lex errors: %v", errs)
	}
	exists := func(name string) bool {
		_, err := s.Lookup(name, 0, scope.Read, token.Value{})
		return err == nil
	}
	p := parser.New(toks, 0, langterms.NewTable(), exists)
	node, _, closed, err := p.ParseExpression(";")
	if err != nil || !closed {
		t.Fatalf("parse failed: closed=%v err=%v", closed, err)
	}
	flat := exprtree.Flatten(node)
	e := New(s, out)
	return e.Eval(flat, 0)
}

func newStackWith(t *testing.T, decls map[string]token.Value) *scope.Stack {
	t.Helper()
	s := scope.NewStack()
	for name, v := range decls {
		if err := s.InsertAtTop(name, v); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestArithmeticPromotionToDouble(t *testing.T) {
	s := scope.NewStack()
	var out bytes.Buffer
	v, ok, err := evalSrc(t, s, &out, "7 / 2;")
	if err != nil || !ok {
		t.Fatalf("err=%v ok=%v", err, ok)
	}
	if v.Kind != token.VDouble || v.F != 3.5 {
		t.Errorf("expected double 3.5, got %+v", v)
	}
}

func TestIntegerDivisionExactStaysInteger(t *testing.T) {
	s := scope.NewStack()
	var out bytes.Buffer
	v, _, err := evalSrc(t, s, &out, "6 / 2;")
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind == token.VDouble {
		t.Errorf("expected an integer result, got double %v", v.F)
	}
	if v.AsInt64() != 3 {
		t.Errorf("expected 3, got %v", v)
	}
}

func TestDivisionByZeroErrors(t *testing.T) {
	s := scope.NewStack()
	var out bytes.Buffer
	if _, _, err := evalSrc(t, s, &out, "1 / 0;"); err == nil {
		t.Fatal("expected division by zero error")
	}
}

func TestModuloRequiresIntegers(t *testing.T) {
	s := scope.NewStack()
	var out bytes.Buffer
	if _, _, err := evalSrc(t, s, &out, "5.0 % 2;"); err == nil {
		t.Fatal("expected error for modulo on a double operand")
	}
}

func TestStringConcatenation(t *testing.T) {
	s := newStackWith(t, map[string]token.Value{"greeting": token.StringValue("")})
	var out bytes.Buffer
	v, _, err := evalSrc(t, s, &out, `greeting = "hello " + "world";`)
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "hello world" {
		t.Errorf("got %q", v.Str)
	}
}

func TestBitwiseRejectsNegative(t *testing.T) {
	s := scope.NewStack()
	var out bytes.Buffer
	if _, _, err := evalSrc(t, s, &out, "-1 & 3;"); err == nil {
		t.Fatal("expected error for bitwise op on a negative operand")
	}
}

func TestShiftPreservesSign(t *testing.T) {
	s := newStackWith(t, map[string]token.Value{"n": token.SignedValue(token.VI32, -8)})
	var out bytes.Buffer
	v, _, err := evalSrc(t, s, &out, "n >> 1;")
	if err != nil {
		t.Fatal(err)
	}
	if v.AsInt64() != -4 {
		t.Errorf("expected arithmetic shift -4, got %v", v.AsInt64())
	}
}

func TestComparisonCrossTypePromotion(t *testing.T) {
	s := scope.NewStack()
	var out bytes.Buffer
	v, _, err := evalSrc(t, s, &out, "3 < 3.5;")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Truthy() {
		t.Error("expected 3 < 3.5 to be true")
	}
}

func TestShortCircuitAndSkipsRightSideEffect(t *testing.T) {
	s := newStackWith(t, map[string]token.Value{"count": token.SignedValue(token.VI32, 0)})
	var out bytes.Buffer
	v, _, err := evalSrc(t, s, &out, "false && (count = count + 1);")
	if err != nil {
		t.Fatal(err)
	}
	if v.Truthy() {
		t.Error("expected false")
	}
	cur, err := s.Lookup("count", 0, scope.Read, token.Value{})
	if err != nil {
		t.Fatal(err)
	}
	if cur.AsInt64() != 0 {
		t.Errorf("right-hand side of && must not run: count = %v", cur.AsInt64())
	}
}

func TestShortCircuitOrSkipsRightSideEffect(t *testing.T) {
	s := newStackWith(t, map[string]token.Value{"count": token.SignedValue(token.VI32, 0)})
	var out bytes.Buffer
	v, _, err := evalSrc(t, s, &out, "true || (count = count + 1);")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Truthy() {
		t.Error("expected true")
	}
	cur, err := s.Lookup("count", 0, scope.Read, token.Value{})
	if err != nil {
		t.Fatal(err)
	}
	if cur.AsInt64() != 0 {
		t.Errorf("right-hand side of || must not run: count = %v", cur.AsInt64())
	}
}

func TestTernarySkipsUntakenBranch(t *testing.T) {
	s := newStackWith(t, map[string]token.Value{
			"picked": token.SignedValue(token.VI32, 0),
			"a": token.SignedValue(token.VI32, 0),
			"b": token.SignedValue(token.VI32, 0),
	})
	var out bytes.Buffer
	v, _, err := evalSrc(t, s, &out, "true ? (a = 1): (b = 1);")
	if err != nil {
		t.Fatal(err)
	}
	if v.AsInt64() != 1 {
		t.Errorf("expected 1, got %v", v.AsInt64())
	}
	aVal, _ := s.Lookup("a", 0, scope.Read, token.Value{})
	bVal, _ := s.Lookup("b", 0, scope.Read, token.Value{})
	if aVal.AsInt64() != 1 {
		t.Errorf("taken branch did not run: a = %v", aVal.AsInt64())
	}
	if bVal.AsInt64() != 0 {
		t.Errorf("untaken branch ran: b = %v", bVal.AsInt64())
	}
}

func TestPrefixIncrementMutatesThenReads(t *testing.T) {
	s := newStackWith(t, map[string]token.Value{"i": token.SignedValue(token.VI32, 4)})
	var out bytes.Buffer
	v, _, err := evalSrc(t, s, &out, "++i;")
	if err != nil {
		t.Fatal(err)
	}
	if v.AsInt64() != 5 {
		t.Errorf("expected 5, got %v", v.AsInt64())
	}
}

func TestPostfixIncrementReadsThenMutates(t *testing.T) {
	s := newStackWith(t, map[string]token.Value{"i": token.SignedValue(token.VI32, 4)})
	var out bytes.Buffer
	v, _, err := evalSrc(t, s, &out, "i++;")
	if err != nil {
		t.Fatal(err)
	}
	if v.AsInt64() != 4 {
		t.Errorf("expected 4, got %v", v.AsInt64())
	}
	cur, _ := s.Lookup("i", 0, scope.Read, token.Value{})
	if cur.AsInt64() != 5 {
		t.Errorf("expected stored value 5, got %v", cur.AsInt64())
	}
}

func TestIncrementWrapsAtDeclaredWidth(t *testing.T) {
	s := newStackWith(t, map[string]token.Value{"b": token.UnsignedValue(token.VU8, 255)})
	var out bytes.Buffer
	v, _, err := evalSrc(t, s, &out, "b++;")
	if err != nil {
		t.Fatal(err)
	}
	if v.U != 255 {
		t.Errorf("postfix should read pre-wrap value 255, got %v", v.U)
	}
	cur, _ := s.Lookup("b", 0, scope.Read, token.Value{})
	if cur.U != 0 {
		t.Errorf("expected wraparound to 0, got %v", cur.U)
	}
}

func TestCompoundAssignment(t *testing.T) {
	s := newStackWith(t, map[string]token.Value{"x": token.SignedValue(token.VI32, 10)})
	var out bytes.Buffer
	v, _, err := evalSrc(t, s, &out, "x += 5;")
	if err != nil {
		t.Fatal(err)
	}
	if v.AsInt64() != 15 {
		t.Errorf("expected 15, got %v", v.AsInt64())
	}
}

func TestAssignmentNarrowingErrors(t *testing.T) {
	s := newStackWith(t, map[string]token.Value{"b": token.UnsignedValue(token.VU8, 0)})
	var out bytes.Buffer
	if _, _, err := evalSrc(t, s, &out, "b = 300;"); err == nil {
		t.Fatal("expected narrowing assignment to fail")
	}
}

func TestUnaryNot(t *testing.T) {
	s := scope.NewStack()
	var out bytes.Buffer
	v, _, err := evalSrc(t, s, &out, "!false;")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Truthy() {
		t.Error("expected !false to be true")
	}
}

func TestPrintLineIsVoid(t *testing.T) {
	s := scope.NewStack()
	var out bytes.Buffer
	_, ok, err := evalSrc(t, s, &out, `print_line("hi");`)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected print_line to produce no value")
	}
	if out.String() != "hi\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestStrSystemCall(t *testing.T) {
	s := scope.NewStack()
	var out bytes.Buffer
	v, ok, err := evalSrc(t, s, &out, "str(42);")
	if err != nil || !ok {
		t.Fatalf("err=%v ok=%v", err, ok)
	}
	if v.Str != "42" {
		t.Errorf("got %q", v.Str)
	}
}

func TestReadBeforeInitializationErrors(t *testing.T) {
	s := newStackWith(t, map[string]token.Value{"u": token.Uninitialized(token.VI32)})
	var out bytes.Buffer
	if _, _, err := evalSrc(t, s, &out, "u + 1;"); err == nil {
		t.Fatal("expected uninitialized read error")
	}
}
