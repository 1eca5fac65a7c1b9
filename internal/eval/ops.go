package eval

import (
	"fmt"

	"github.com/cwbudde/clc/internal/scope"
	"github.com/cwbudde/clc/internal/token"
)

func (e *Evaluator) evalOperator(tokens []token.Token, idx int) (result, int, error) {
	tok := tokens[idx]
	switch tok.Lexeme {
	case "&&":
		return e.evalLogical(tokens, idx, false)
	case "||":
		return e.evalLogical(tokens, idx, true)
	case "?":
		return e.evalTernary(tokens, idx)
	case "+1", "-1", "1+", "1-":
		return e.evalIncrDecr(tokens, idx)
	case "+u", "-u", "!", "~":
		return e.evalUnary(tokens, idx)
	case "=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>=", "&=", "^=", "|=":
		return e.evalAssign(tokens, idx)
	default:
		return e.evalBinary(tokens, idx)
	}
}

// evalLogical implements `&&`/`||`: evaluate left,
// short-circuit via skip when left alone decides, otherwise evaluate
// right. shortOn is the truth value that short-circuits (false for `&&`,
// true for `||`).
func (e *Evaluator) evalLogical(tokens []token.Token, idx int, shortOn bool) (result, int, error) {
	left, next, err := e.evalAt(tokens, idx+1)
	if err != nil {
		return result{}, idx, err
	}
	if !left.has {
		return result{}, idx, &EvalError{Position: tokens[idx].Pos(), Msg: "logical operand produced no value"}
	}
	leftBool := left.value.Truthy()
	if leftBool == shortOn {
		end, err := e.skip(tokens, next)
		if err != nil {
			return result{}, idx, err
		}
		return result{value: token.BoolValue(shortOn), has: true}, end, nil
	}

	right, end, err := e.evalAt(tokens, next)
	if err != nil {
		return result{}, idx, err
	}
	if !right.has {
		return result{}, idx, &EvalError{Position: tokens[idx].Pos(), Msg: "logical operand produced no value"}
	}
	return result{value: token.BoolValue(right.value.Truthy()), has: true}, end, nil
}

// evalTernary implements `?:`: evaluate the condition, then
// evaluate only the taken branch, skipping the other entirely.
func (e *Evaluator) evalTernary(tokens []token.Token, idx int) (result, int, error) {
	cond, next, err := e.evalAt(tokens, idx+1)
	if err != nil {
		return result{}, idx, err
	}
	if !cond.has {
		return result{}, idx, &EvalError{Position: tokens[idx].Pos(), Msg: "ternary condition produced no value"}
	}
	if next >= len(tokens) || tokens[next].Lexeme != ":" {
		return result{}, idx, &EvalError{Position: tokens[idx].Pos(), Msg: "malformed ternary: missing ':' node"}
	}
	trueStart := next + 1

	if cond.value.Truthy() {
		trueVal, afterTrue, err := e.evalAt(tokens, trueStart)
		if err != nil {
			return result{}, idx, err
		}
		afterFalse, err := e.skip(tokens, afterTrue)
		if err != nil {
			return result{}, idx, err
		}
		return result{value: trueVal.value, has: trueVal.has}, afterFalse, nil
	}

	afterTrue, err := e.skip(tokens, trueStart)
	if err != nil {
		return result{}, idx, err
	}
	falseVal, afterFalse, err := e.evalAt(tokens, afterTrue)
	if err != nil {
		return result{}, idx, err
	}
	return result{value: falseVal.value, has: falseVal.has}, afterFalse, nil
}

func operandName(tok token.Token) (string, error) {
	if tok.Kind != token.KindUserWord {
		return "", &EvalError{Position: tok.Pos(), Msg: "operand must be a named variable"}
	}
	return tok.Lexeme, nil
}

// evalIncrDecr implements pre/postfix `++`/`--`: prefix
// mutates then reads; postfix reads then mutates. Overflow wraps at the
// variable's declared width.
func (e *Evaluator) evalIncrDecr(tokens []token.Token, idx int) (result, int, error) {
	tok := tokens[idx]
	name, err := operandName(tokens[idx+1])
	if err != nil {
		return result{}, idx, err
	}
	cur, err := e.Scope.Lookup(name, 0, scope.Read, token.Value{})
	if err != nil {
		return result{}, idx, &EvalError{Position: tok.Pos(), Msg: err.Error()}
	}
	delta := int64(1)
	if tok.Lexeme == "-1" || tok.Lexeme == "1-" {
		delta = -1
	}
	next, err := wrapIncrement(cur, delta)
	if err != nil {
		return result{}, idx, &EvalError{Position: tok.Pos(), Msg: err.Error()}
	}
	if _, err := e.Scope.Lookup(name, 0, scope.CommitWrite, next); err != nil {
		return result{}, idx, &EvalError{Position: tok.Pos(), Msg: err.Error()}
	}

	isPrefix := tok.Lexeme == "+1" || tok.Lexeme == "-1"
	if isPrefix {
		return result{value: next, has: true}, idx + 2, nil
	}
	return result{value: cur, has: true}, idx + 2, nil
}

func wrapIncrement(v token.Value, delta int64) (token.Value, error) {
	switch {
	case v.Kind.IsUnsigned():
		raw := token.TruncateUnsigned(v.Kind, uint64(int64(v.U)+delta))
		return token.UnsignedValue(v.Kind, raw), nil
	case v.Kind.IsSigned():
		return token.SignedValue(v.Kind, token.TruncateSigned(v.Kind, v.I+delta)), nil
	default:
		return token.Value{}, fmt.Errorf("++/-- requires an integer variable, got %s", v.Kind)
	}
}

// evalUnary implements `+u -u ! ~`.
func (e *Evaluator) evalUnary(tokens []token.Token, idx int) (result, int, error) {
	tok := tokens[idx]
	operand, next, err := e.evalAt(tokens, idx+1)
	if err != nil {
		return result{}, idx, err
	}
	if !operand.has {
		return result{}, idx, &EvalError{Position: tok.Pos(), Msg: "unary operand produced no value"}
	}
	v := operand.value

	switch tok.Lexeme {
	case "!":
		return result{value: token.BoolValue(!v.Truthy()), has: true}, next, nil
	case "~":
		if !v.Kind.IsUnsigned() {
			return result{}, idx, &EvalError{Position: tok.Pos(), Msg: "~ requires an unsigned operand"}
		}
		return result{value: token.UnsignedValue(v.Kind, token.TruncateUnsigned(v.Kind, ^v.U)), has: true}, next, nil
	case "+u":
		if !v.Kind.IsInteger() && v.Kind != token.VDouble {
			return result{}, idx, &EvalError{Position: tok.Pos(), Msg: "unary + requires a numeric operand"}
		}
		return result{value: v, has: true}, next, nil
	case "-u":
		switch {
		case v.Kind == token.VDouble:
			return result{value: token.DoubleValue(-v.F), has: true}, next, nil
		case v.Kind.IsSigned():
			return result{value: token.SignedValue(v.Kind, token.TruncateSigned(v.Kind, -v.I)), has: true}, next, nil
		case v.Kind.IsUnsigned():
			return result{value: token.UnsignedValue(v.Kind, token.TruncateUnsigned(v.Kind, uint64(-int64(v.U)))), has: true}, next, nil
		default:
			return result{}, idx, &EvalError{Position: tok.Pos(), Msg: "unary - requires a numeric operand"}
		}
	}
	return result{}, idx, &EvalError{Position: tok.Pos(), Msg: "unrecognized unary operator " + tok.Lexeme}
}

// evalAssign implements `=` and its compound forms: the
// left-hand side is always a single variable-name leaf (the parser never
// allows anything else there).
func (e *Evaluator) evalAssign(tokens []token.Token, idx int) (result, int, error) {
	tok := tokens[idx]
	name, err := operandName(tokens[idx+1])
	if err != nil {
		return result{}, idx, err
	}
	rhs, next, err := e.evalAt(tokens, idx+2)
	if err != nil {
		return result{}, idx, err
	}
	if !rhs.has {
		return result{}, idx, &EvalError{Position: tok.Pos(), Msg: "assignment right-hand side produced no value"}
	}

	newVal := rhs.value
	if tok.Lexeme != "=" {
		cur, err := e.Scope.Lookup(name, 0, scope.Read, token.Value{})
		if err != nil {
			return result{}, idx, &EvalError{Position: tok.Pos(), Msg: err.Error()}
		}
		baseOp := tok.Lexeme[:len(tok.Lexeme)-1] // "+=" -> "+", "<<=" -> "<<"
		newVal, err = applyBinarySymbol(baseOp, cur, rhs.value)
		if err != nil {
			return result{}, idx, &EvalError{Position: tok.Pos(), Msg: err.Error()}
		}
	}

	committed, err := e.Scope.Lookup(name, 0, scope.CommitWrite, newVal)
	if err != nil {
		return result{}, idx, &EvalError{Position: tok.Pos(), Msg: err.Error()}
	}
	return result{value: committed, has: true}, next, nil
}

// evalBinary implements the arithmetic/comparison/bitwise/shift operator
// families, all of which simply evaluate both operands
// left-to-right then combine.
func (e *Evaluator) evalBinary(tokens []token.Token, idx int) (result, int, error) {
	tok := tokens[idx]
	left, next1, err := e.evalAt(tokens, idx+1)
	if err != nil {
		return result{}, idx, err
	}
	if !left.has {
		return result{}, idx, &EvalError{Position: tok.Pos(), Msg: "left operand produced no value"}
	}
	right, next2, err := e.evalAt(tokens, next1)
	if err != nil {
		return result{}, idx, err
	}
	if !right.has {
		return result{}, idx, &EvalError{Position: tok.Pos(), Msg: "right operand produced no value"}
	}

	sym := tok.Lexeme
	if sym == "B+" || sym == "B-" {
		sym = sym[1:]
	}
	v, err := applyBinarySymbol(sym, left.value, right.value)
	if err != nil {
		return result{}, idx, &EvalError{Position: tok.Pos(), Msg: err.Error()}
	}
	return result{value: v, has: true}, next2, nil
}
