package interpreter

import (
	"bytes"
	"testing"

	"github.com/cwbudde/clc/internal/compiler"
	"github.com/cwbudde/clc/internal/diag"
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/lexer"
)

// compileAndRun lexes and compiles src with a fresh compile-time scope,
// then interprets the result with a fresh run-time scope, returning
// whatever print_line wrote (the two scopes never share state).
func compileAndRun(t *testing.T, src string) string {
	t.Helper()
	l := lexer.New("<test>", src)
	toks, errs := l.Lex()
	if len(errs) > 0 {
		t.Fatalf("lex errors: %v", errs)
	}
	terms := langterms.NewTable()
	d := diag.NewCollector(src)
	w := compiler.Compile(toks, terms, d)
	if d.HasErrors() {
		t.Fatalf("compile errors: %s", d.GroupedReport())
	}
	var out bytes.Buffer
	interp := New(w.Bytes(), &out, d, nil)
	if err := interp.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return out.String()
}

func TestExecVarDeclInitialized(t *testing.T) {
	got := compileAndRun(t, `int8 a = 3 + 4; print_line(str(a));`)
	if got != "7\n" {
		t.Fatalf("expected 7, got %q", got)
	}
}

func TestExecVarDeclUninitializedReadErrors(t *testing.T) {
	src := `int8 a; print_line(str(a));`
	toks, errs := lexer.New("<test>", src).Lex()
	if len(errs) > 0 {
		t.Fatalf("lex errors: %v", errs)
	}
	d := diag.NewCollector(src)
	w := compiler.Compile(toks, langterms.NewTable(), d)
	if d.HasErrors() {
		t.Fatalf("compile errors: %s", d.GroupedReport())
	}
	var out bytes.Buffer
	if err := New(w.Bytes(), &out, d, nil).Run(); err == nil {
		t.Fatalf("expected reading an uninitialized variable to fail, got output %q", out.String())
	}
}

func TestExecVarDeclMultipleNamesOneType(t *testing.T) {
	got := compileAndRun(t, `int8 a = 1, b = 2; print_line(str(a + b));`)
	if got != "3\n" {
		t.Fatalf("expected 3, got %q", got)
	}
}

func TestExecIfTakesFirstTrueArm(t *testing.T) {
	got := compileAndRun(t, `int8 a = 1; if (a == 1) { print_line("first"); } else if (a == 1) { print_line("second"); } else { print_line("third"); }`)
	if got != "first\n" {
		t.Fatalf("expected only the first arm to run, got %q", got)
	}
}

func TestExecIfSkipsToElseIfWithoutRunningFirst(t *testing.T) {
	got := compileAndRun(t, `int8 a = 2; if (a == 1) { print_line("first"); } else if (a == 2) { print_line("second"); } else { print_line("third"); }`)
	if got != "second\n" {
		t.Fatalf("expected only the second arm to run, got %q", got)
	}
}

func TestExecIfFallsThroughToElse(t *testing.T) {
	got := compileAndRun(t, `int8 a = 9; if (a == 1) { print_line("first"); } else if (a == 2) { print_line("second"); } else { print_line("third"); }`)
	if got != "third\n" {
		t.Fatalf("expected the else arm to run, got %q", got)
	}
}

func TestExecWhileRunsUntilConditionFalse(t *testing.T) {
	got := compileAndRun(t, `int8 i = 0; while (i < 5) { i++; } print_line(str(i));`)
	if got != "5\n" {
		t.Fatalf("expected 5, got %q", got)
	}
}

func TestExecWhileBreakStopsImmediately(t *testing.T) {
	got := compileAndRun(t, `int8 i = 0; while (true) { i++; if (i == 3) break; print_line(str(i)); } print_line(str(i));`)
	if got != "1\n2\n3\n" {
		t.Fatalf("expected 1,2,3 then stop before printing again, got %q", got)
	}
}

func TestExecForLoopFreshFramePerIteration(t *testing.T) {
	// Each iteration's body declares its own `doubled`: if the interpreter
	// reused one frame across iterations instead of opening a fresh nested
	// one per pass, this would fail to compile/redeclare on the second lap.
	got := compileAndRun(t, `uint32 total = 0; for (uint8 i = 1; i <= 3; i++) { uint8 doubled = i * 2; total += doubled; } print_line(str(total));`)
	if got != "12\n" {
		t.Fatalf("expected 12, got %q", got)
	}
}

func TestExecForBreakExitsBeforeIncrement(t *testing.T) {
	got := compileAndRun(t, `uint8 i; for (i = 0; i < 10; i++) { if (i == 4) break; } print_line(str(i));`)
	if got != "4\n" {
		t.Fatalf("expected the loop variable to stop at 4, got %q", got)
	}
}

func TestExecNestedBreakOnlyExitsInnerLoop(t *testing.T) {
	got := compileAndRun(t, `
 uint8 outerRuns = 0;
 for (uint8 o = 0; o < 2; o++) {
 outerRuns++;
 uint8 innerRuns = 0;
 while (true) {
 innerRuns++;
 if (innerRuns == 2) break;
 }
 print_line(str(innerRuns));
 }
 print_line(str(outerRuns));
	`)
	if got != "2\n2\n2\n" {
		t.Fatalf("expected inner break to fire each outer pass without ending the outer loop, got %q", got)
	}
}
