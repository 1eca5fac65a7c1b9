// Package eval is the flat-expression evaluator: it reduces a
// flattened, prefix-ordered token list to a single resolved value.
//
// The reference algorithm scans the list left-to-right each pass,
// in-place reducing whichever operator's operands have already resolved.
// This implementation reaches the same result via direct recursion over
// the prefix encoding, which is equivalent for this grammar (every
// operator's operands occupy a contiguous run immediately after it) and
// makes left-to-right evaluation order and short-circuit skipping
// structurally guaranteed rather than emergent from rescan order.
package eval

import (
	"fmt"
	"io"

	"github.com/cwbudde/clc/internal/builtins"
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/scope"
	"github.com/cwbudde/clc/internal/token"
)

// EvalError reports a runtime evaluation failure: division by zero, an
// uninitialized read, a failed coercion, or a malformed token stream.
type EvalError struct {
	Position token.Position
	Msg string
}

func (e *EvalError) Error() string {
	if e.Pos().Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Pos(), e.Msg)
}

// Pos returns the error's source position.
func (e *EvalError) Pos() token.Position {
	return e.Position
}

// Evaluator reduces flattened expressions against a live scope stack.
type Evaluator struct {
	Scope *scope.Stack
	Out io.Writer
	Terms *langterms.Table
}

// New builds an Evaluator writing system-call output to out.
func New(s *scope.Stack, out io.Writer) *Evaluator {
	return &Evaluator{Scope: s, Out: out, Terms: langterms.NewTable()}
}

// Eval reduces the flattened expression in tokens starting at start. ok is
// false only for a void system-call result.
func (e *Evaluator) Eval(tokens []token.Token, start int) (value token.Value, ok bool, err error) {
	res, _, err := e.evalAt(tokens, start)
	if err != nil {
		return token.Value{}, false, err
	}
	return res.value, res.has, nil
}

type result struct {
	value token.Value
	has bool
}

func (e *Evaluator) evalAt(tokens []token.Token, idx int) (result, int, error) {
	if idx >= len(tokens) {
		return result{}, idx, &EvalError{Msg: "unexpected end of expression"}
	}
	tok := tokens[idx]

	switch tok.Kind {
	case token.KindSystemCall:
		return e.evalSystemCall(tokens, idx)
	case token.KindExecOpr8r:
		return e.evalOperator(tokens, idx)
	default:
		v, err := e.leafValue(tok)
		if err != nil {
			return result{}, idx, err
		}
		return result{value: v, has: true}, idx + 1, nil
	}
}

func (e *Evaluator) leafValue(tok token.Token) (token.Value, error) {
	switch tok.Kind {
	case token.KindBoolLit:
		return token.BoolValue(tok.Uint != 0), nil
	case token.KindU8Lit:
		return token.UnsignedValue(token.VU8, tok.Uint), nil
	case token.KindU16Lit:
		return token.UnsignedValue(token.VU16, tok.Uint), nil
	case token.KindU32Lit:
		return token.UnsignedValue(token.VU32, tok.Uint), nil
	case token.KindU64Lit:
		return token.UnsignedValue(token.VU64, tok.Uint), nil
	case token.KindI8Lit:
		return token.SignedValue(token.VI8, tok.Int), nil
	case token.KindI16Lit:
		return token.SignedValue(token.VI16, tok.Int), nil
	case token.KindI32Lit:
		return token.SignedValue(token.VI32, tok.Int), nil
	case token.KindI64Lit:
		return token.SignedValue(token.VI64, tok.Int), nil
	case token.KindDoubleLit:
		return token.DoubleValue(tok.Float), nil
	case token.KindStringLit:
		return token.StringValue(tok.Lexeme), nil
	case token.KindDateTimeLit:
		return token.DateTimeValue(tok.Int), nil
	case token.KindUserWord:
		v, err := e.Scope.Lookup(tok.Lexeme, 0, scope.Read, token.Value{})
		if err != nil {
			return token.Value{}, &EvalError{Position: tok.Pos(), Msg: err.Error()}
		}
		if !v.Initialized {
			return token.Value{}, &EvalError{Position: tok.Pos(), Msg: fmt.Sprintf("variable %q read before initialization", tok.Lexeme)}
		}
		return v, nil
	}
	return token.Value{}, &EvalError{Position: tok.Pos(), Msg: fmt.Sprintf("token of kind %s is not a resolvable value", tok.Kind)}
}

func (e *Evaluator) evalSystemCall(tokens []token.Token, idx int) (result, int, error) {
	tok := tokens[idx]
	call, ok := builtins.Lookup(tok.Lexeme)
	if !ok {
		return result{}, idx, &EvalError{Position: tok.Pos(), Msg: fmt.Sprintf("unknown system call %q", tok.Lexeme)}
	}
	next := idx + 1
	args := make([]token.Value, 0, call.Arity)
	for i := 0; i < call.Arity; i++ {
		r, n, err := e.evalAt(tokens, next)
		if err != nil {
			return result{}, idx, err
		}
		if !r.has {
			return result{}, idx, &EvalError{Position: tok.Pos(), Msg: "system call argument produced no value"}
		}
		args = append(args, r.value)
		next = n
	}
	v, err := call.Invoke(e.Out, args)
	if err != nil {
		return result{}, idx, &EvalError{Position: tok.Pos(), Msg: err.Error()}
	}
	if call.Void {
		return result{has: false}, next, nil
	}
	return result{value: v, has: true}, next, nil
}

// skip advances past the sub-expression at idx without evaluating it, so
// an untaken `&&`/`||`/`?:` branch is never executed: its side effects,
// assignments and increments included, must not happen.
func (e *Evaluator) skip(tokens []token.Token, idx int) (int, error) {
	if idx >= len(tokens) {
		return idx, &EvalError{Msg: "unexpected end of expression while skipping"}
	}
	tok := tokens[idx]
	switch tok.Kind {
	case token.KindExecOpr8r:
		op, ok := e.Terms.DetailsForOpCode(byte(tok.Uint))
		if !ok {
			return idx, &EvalError{Position: tok.Pos(), Msg: "unknown operator opcode while skipping"}
		}
		next := idx + 1
		for i := 0; i < op.NumExecOperand; i++ {
			var err error
			next, err = e.skip(tokens, next)
			if err != nil {
				return idx, err
			}
		}
		return next, nil
	case token.KindSystemCall:
		arity := builtins.Arity(tok.Lexeme)
		next := idx + 1
		for i := 0; i < arity; i++ {
			var err error
			next, err = e.skip(tokens, next)
			if err != nil {
				return idx, err
			}
		}
		return next, nil
	default:
		return idx + 1, nil
	}
}
