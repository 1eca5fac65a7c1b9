// Package driver ties the lexer, compiler, bytecode writer and
// interpreter into the single read-file -> lex -> compile -> (optionally)
// interpret pipeline that `clc compile` and `clc run` both ride, so the
// two subcommands only differ in whether they persist the compiled
// object and whether they invoke the evaluator.
package driver

import (
	"fmt"
	"io"

	"github.com/cwbudde/clc/internal/bytecode"
	"github.com/cwbudde/clc/internal/compiler"
	"github.com/cwbudde/clc/internal/diag"
	"github.com/cwbudde/clc/internal/interpreter"
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/lexer"
	"github.com/cwbudde/clc/internal/token"
	"github.com/cwbudde/clc/internal/trace"
)

// Pipeline holds the shared state a source file needs across all four
// stages: the term table every stage consults, the diagnostics sink
// errors from any stage land in, and the trace logger stages report
// phase boundaries to.
type Pipeline struct {
	Filename string
	Source string

	terms *langterms.Table
	diag *diag.Collector
	trace *trace.Logger
}

// New builds a Pipeline over source, with diagnostics bounded by
// errorLimit and tracing at logger's level.
// logger may be nil to disable tracing entirely.
func New(filename, source string, errorLimit int, logger *trace.Logger) *Pipeline {
	d := diag.NewCollector(source)
	if errorLimit > 0 {
		d.SetErrorLimit(errorLimit)
	}
	return &Pipeline{
		Filename: filename,
		Source: source,
		terms: langterms.NewTable(),
		diag: d,
		trace: logger,
	}
}

// Diagnostics returns the Pipeline's collector, so a caller can render a
// grouped or chronological report after any stage fails.
func (p *Pipeline) Diagnostics() *diag.Collector { return p.diag }

// Lex tokenizes the source, returning a LexError wrapped as a single
// fatal error on the first occurrence (the lexer itself has no recovery
// mode — treats invalid UTF-8/unterminated literals as fatal).
func (p *Pipeline) Lex() ([]token.Token, error) {
	if p.trace != nil {
		p.trace.Phase("lex", "start")
	}
	l := lexer.New(p.Filename, p.Source)
	toks, errs := l.Lex()
	if p.trace != nil {
		p.trace.Phase("lex", "end")
	}
	if len(errs) > 0 {
		return toks, fmt.Errorf("lex: %s", errs[0].Error())
	}
	return toks, nil
}

// Compile runs the lexed tokens through the recursive-descent statement
// compiler and returns the emitted compiled object. A non-nil error
// means the diagnostics collector accumulated at least one UserError;
// callers should render p.Diagnostics().GroupedReport() to the user.
func (p *Pipeline) Compile(toks []token.Token) ([]byte, error) {
	if p.trace != nil {
		p.trace.Phase("compile", "start")
	}
	w := compiler.Compile(toks, p.terms, p.diag)
	if p.trace != nil {
		p.trace.Phase("compile", "end")
	}
	if p.diag.HasErrors() {
		return nil, fmt.Errorf("compilation failed with %d error(s)", p.diag.Count(diag.UserError))
	}
	return w.Bytes(), nil
}

// Disassemble renders the compiled object as one line per emitted object,
// for `clc compile --disassemble` and golden-file tests.
func (p *Pipeline) Disassemble(buf []byte) (string, error) {
	return bytecode.Disassemble(buf, p.terms)
}

// Interpret executes a compiled object, writing system-call output to
// out. It builds its own Interpreter (and its own independent
// scope.Stack, per ) rather than reusing anything from Compile.
func (p *Pipeline) Interpret(buf []byte, out io.Writer) error {
	interp := interpreter.New(buf, out, p.diag, p.trace)
	return interp.Run()
}

// Run performs the whole read-file -> lex -> compile -> interpret
// pipeline in one call. After a successful compile it returns the
// compiled object alongside any runtime error; when lexing or compiling
// fails it returns whatever Lex or Compile returned in its place.
func (p *Pipeline) Run(out io.Writer) ([]byte, error) {
	toks, err := p.Lex()
	if err != nil {
		return nil, err
	}
	buf, err := p.Compile(toks)
	if err != nil {
		return buf, err
	}
	if err := p.Interpret(buf, out); err != nil {
		return buf, fmt.Errorf("runtime error: %w", err)
	}
	return buf, nil
}
