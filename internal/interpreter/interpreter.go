// Package interpreter is the top-level evaluator over a compiled object:
// it dispatches sequentially on opcode from the root ANON_SCOPE,
// installing declarations, evaluating and discarding plain expressions,
// and recursing into if/while/for bodies.
//
// `break` unwinds to its nearest enclosing loop by returning a boolean
// flag up through the recursive exec calls. This language has no labeled
// break, so a break always targets the innermost While/For frame, and a
// bool carries exactly that one bit: non-loop scopes (if/else/anon)
// always propagate it untouched; a while/for absorbs it by stopping its
// own iteration and returning false to its caller.
package interpreter

import (
	"fmt"
	"io"

	"github.com/cwbudde/clc/internal/bytecode"
	"github.com/cwbudde/clc/internal/diag"
	"github.com/cwbudde/clc/internal/eval"
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/scope"
	"github.com/cwbudde/clc/internal/token"
	"github.com/cwbudde/clc/internal/trace"
)

// tokenZero stands in for a Frame's diagnostic OpenerTok at run time: by
// the time the interpreter runs, any compile error involving scope
// construction has already been reported, so run-time frames don't need a
// source token of their own.
var tokenZero token.Token

// Interpreter executes one compiled object against a fresh scope.Stack,
// independent of whatever Stack the compiler used (compile-time
// and run-time name spaces never share state).
type Interpreter struct {
	buf []byte
	terms *langterms.Table
	scope *scope.Stack
	ev *eval.Evaluator
	diag *diag.Collector
	trace *trace.Logger
}

// New builds an Interpreter over buf, writing system-call output to out.
// logger may be nil, in which case no execution trace is emitted.
func New(buf []byte, out io.Writer, collector *diag.Collector, logger *trace.Logger) *Interpreter {
	terms := langterms.NewTable()
	s := scope.NewStack()
	return &Interpreter{
		buf: buf,
		terms: terms,
		scope: s,
		ev: eval.New(s, out),
		diag: collector,
		trace: logger,
	}
}

// Run executes the compiled object's root ANON_SCOPE to completion.
func (i *Interpreter) Run() error {
	if len(i.buf) == 0 {
		return fmt.Errorf("interpreter: empty compiled object")
	}
	opcode, payloadStart, payloadEnd, err := bytecode.ReadFlexHeader(i.buf, 0)
	if err != nil {
		return err
	}
	if opcode != langterms.OpAnonScope {
		return fmt.Errorf("interpreter: expected root ANON_SCOPE, got opcode 0x%02X", opcode)
	}
	if i.trace != nil {
		i.trace.Phase("interpret", "start")
	}
	_, err = i.execBlock(payloadStart, payloadEnd)
	if i.trace != nil {
		i.trace.Phase("interpret", "end")
	}
	return err
}

// execBlock runs every statement object in [start,end) in sequence,
// stopping early (and propagating brk=true) the instant a `break` fires.
func (i *Interpreter) execBlock(start, end int) (brk bool, err error) {
	pos := start
	for pos < end {
		opcode := i.buf[pos]
		if i.trace != nil {
			i.trace.Opcode(opcode, opcodeName(opcode), fmt.Sprintf("offset %d", pos))
		}

		switch opcode {
		case langterms.OpBreak:
			return true, nil

		case langterms.OpExpression:
			toks, next, rerr := bytecode.ReadExprIntoList(i.buf, pos, i.terms)
			if rerr != nil {
				return false, rerr
			}
			if len(toks) > 0 {
				if _, _, eerr := i.ev.Eval(toks, 0); eerr != nil {
					return false, eerr
				}
			}
			pos = next

		case langterms.OpVariablesDeclaration:
			next, derr := i.execVarDecl(pos)
			if derr != nil {
				return false, derr
			}
			pos = next

		case langterms.OpIfScope:
			next, b, ierr := i.execIfChain(pos)
			if ierr != nil {
				return false, ierr
			}
			pos = next
			if b {
				return true, nil
			}

		case langterms.OpWhileScope:
			next, werr := i.execWhile(pos)
			if werr != nil {
				return false, werr
			}
			pos = next

		case langterms.OpForScope:
			next, ferr := i.execFor(pos)
			if ferr != nil {
				return false, ferr
			}
			pos = next

		case langterms.OpAnonScope:
			_, payloadStart, payloadEnd, herr := bytecode.ReadFlexHeader(i.buf, pos)
			if herr != nil {
				return false, herr
			}
			b, aerr := i.execFramedBlock(scope.OpenerAnon, payloadStart, payloadEnd)
			if aerr != nil {
				return false, aerr
			}
			pos = payloadEnd
			if b {
				return true, nil
			}

		default:
			return false, fmt.Errorf("interpreter: unexpected opcode 0x%02X at offset %d", opcode, pos)
		}
	}
	return false, nil
}

// execFramedBlock opens a Frame of the given kind, runs execBlock inside
// it, and always closes the Frame before returning.
func (i *Interpreter) execFramedBlock(opener scope.OpenerKind, start, end int) (bool, error) {
	i.scope.Open(opener, tokenZero, start)
	brk, err := i.execBlock(start, end)
	i.scope.CloseTop(opener, end)
	return brk, err
}

func opcodeName(opcode byte) string {
	switch opcode {
	case langterms.OpBreak:
		return "BREAK"
	case langterms.OpExpression:
		return "EXPRESSION"
	case langterms.OpVariablesDeclaration:
		return "VARIABLES_DECLARATION"
	case langterms.OpIfScope:
		return "IF_SCOPE"
	case langterms.OpElseIfScope:
		return "ELSE_IF_SCOPE"
	case langterms.OpElseScope:
		return "ELSE_SCOPE"
	case langterms.OpWhileScope:
		return "WHILE_SCOPE"
	case langterms.OpForScope:
		return "FOR_SCOPE"
	case langterms.OpAnonScope:
		return "ANON_SCOPE"
	default:
		return fmt.Sprintf("0x%02X", opcode)
	}
}
