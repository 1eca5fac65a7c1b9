package eval

import (
	"fmt"

	"github.com/cwbudde/clc/internal/token"
)

// applyBinarySymbol implements the type-promotion matrix and per-operator
// semantics of arithmetic/comparison/bitwise/shift families.
// sym is the plain source symbol ("+", "<<", "==",...), already stripped
// of its B+/B- disambiguation prefix by the caller.
func applyBinarySymbol(sym string, a, b token.Value) (token.Value, error) {
	switch sym {
	case "+", "-", "*", "/", "%":
		return applyArithmetic(sym, a, b)
	case "<<", ">>":
		return applyShift(sym, a, b)
	case "<", "<=", ">", ">=", "==", "!=":
		return applyComparison(sym, a, b)
	case "&", "^", "|":
		return applyBitwise(sym, a, b)
	}
	return token.Value{}, fmt.Errorf("unrecognized binary operator %q", sym)
}

func applyArithmetic(sym string, a, b token.Value) (token.Value, error) {
	if sym == "+" && a.Kind == token.VString && b.Kind == token.VString {
		return token.StringValue(a.Str + b.Str), nil
	}
	if a.Kind == token.VString || b.Kind == token.VString {
		return token.Value{}, fmt.Errorf("operator %q requires numeric operands", sym)
	}

	if a.Kind == token.VDouble || b.Kind == token.VDouble {
		af, bf := a.AsFloat64(), b.AsFloat64()
		switch sym {
		case "+":
			return token.DoubleValue(af + bf), nil
		case "-":
			return token.DoubleValue(af - bf), nil
		case "*":
			return token.DoubleValue(af * bf), nil
		case "/":
			if bf == 0 {
				return token.Value{}, fmt.Errorf("division by zero")
			}
			return token.DoubleValue(af / bf), nil
		case "%":
			return token.Value{}, fmt.Errorf("%% requires integer operands")
		}
	}

	if !a.Kind.IsInteger() || !b.Kind.IsInteger() {
		return token.Value{}, fmt.Errorf("operator %q requires numeric operands", sym)
	}

	resultKind := promoteIntKinds(a.Kind, b.Kind)

	switch sym {
	case "+", "-", "*":
		if resultKind.IsUnsigned() {
			au, bu := a.AsUint64(), b.AsUint64()
			var r uint64
			switch sym {
			case "+":
				r = au + bu
			case "-":
				r = au - bu
			case "*":
				r = au * bu
			}
			return token.UnsignedValue(resultKind, token.TruncateUnsigned(resultKind, r)), nil
		}
		ai, bi := a.AsInt64(), b.AsInt64()
		var r int64
		switch sym {
		case "+":
			r = ai + bi
		case "-":
			r = ai - bi
		case "*":
			r = ai * bi
		}
		return token.SignedValue(resultKind, token.TruncateSigned(resultKind, r)), nil

	case "/":
		ai, bi := a.AsInt64(), b.AsInt64()
		if bi == 0 {
			return token.Value{}, fmt.Errorf("division by zero")
		}
		if ai%bi != 0 {
			return token.DoubleValue(float64(ai) / float64(bi)), nil
		}
		if resultKind.IsUnsigned() {
			return token.UnsignedValue(resultKind, token.TruncateUnsigned(resultKind, uint64(ai/bi))), nil
		}
		return token.SignedValue(resultKind, token.TruncateSigned(resultKind, ai/bi)), nil

	case "%":
		ai, bi := a.AsInt64(), b.AsInt64()
		if bi == 0 {
			return token.Value{}, fmt.Errorf("modulo by zero")
		}
		if resultKind.IsUnsigned() {
			return token.UnsignedValue(resultKind, token.TruncateUnsigned(resultKind, uint64(ai%bi))), nil
		}
		return token.SignedValue(resultKind, token.TruncateSigned(resultKind, ai%bi)), nil
	}
	return token.Value{}, fmt.Errorf("unreachable arithmetic operator %q", sym)
}

// promoteIntKinds picks the result kind for mixed-width/mixed-sign integer
// arithmetic: same-signedness operands promote to the wider of the two;
// a signed/unsigned mix promotes to a signed 64-bit result, the simplest
// rule that never silently loses range.
func promoteIntKinds(a, b token.ValueKind) token.ValueKind {
	if a.IsUnsigned() && b.IsUnsigned() {
		return widerOf(a, b)
	}
	if a.IsSigned() && b.IsSigned() {
		return widerOf(a, b)
	}
	return token.VI64
}

func widerOf(a, b token.ValueKind) token.ValueKind {
	if token.IntWidthBits(a) >= token.IntWidthBits(b) {
		return a
	}
	return b
}

func applyShift(sym string, a, b token.Value) (token.Value, error) {
	if !a.Kind.IsInteger() || !b.Kind.IsInteger() {
		return token.Value{}, fmt.Errorf("operator %q requires integer operands", sym)
	}
	shiftBy := b.AsInt64()
	if shiftBy < 0 {
		return token.Value{}, fmt.Errorf("shift amount must be non-negative")
	}

	if a.Kind.IsUnsigned() {
		au := a.AsUint64()
		var r uint64
		if sym == "<<" {
			r = au << uint(shiftBy)
		} else {
			r = au >> uint(shiftBy)
		}
		return token.UnsignedValue(a.Kind, token.TruncateUnsigned(a.Kind, r)), nil
	}
	ai := a.AsInt64()
	var r int64
	if sym == "<<" {
		r = ai << uint(shiftBy)
	} else {
		r = ai >> uint(shiftBy) // Go's signed >> is arithmetic, preserving sign.
	}
	return token.SignedValue(a.Kind, token.TruncateSigned(a.Kind, r)), nil
}

func applyComparison(sym string, a, b token.Value) (token.Value, error) {
	cmp := token.Compare(a, b)
	if cmp == token.CmpIncomparable {
		return token.Value{}, fmt.Errorf("operator %q: incomparable operand types %s and %s", sym, a.Kind, b.Kind)
	}
	switch sym {
	case "<":
		return token.BoolValue(cmp == token.CmpLess), nil
	case "<=":
		return token.BoolValue(cmp != token.CmpGreater), nil
	case ">":
		return token.BoolValue(cmp == token.CmpGreater), nil
	case ">=":
		return token.BoolValue(cmp != token.CmpLess), nil
	case "==":
		return token.BoolValue(cmp == token.CmpEqual), nil
	case "!=":
		return token.BoolValue(cmp != token.CmpEqual), nil
	}
	return token.Value{}, fmt.Errorf("unrecognized comparison operator %q", sym)
}

func applyBitwise(sym string, a, b token.Value) (token.Value, error) {
	if !a.Kind.IsInteger() || !b.Kind.IsInteger() {
		return token.Value{}, fmt.Errorf("operator %q requires integer operands", sym)
	}
	if (a.Kind.IsSigned() && a.AsInt64() < 0) || (b.Kind.IsSigned() && b.AsInt64() < 0) {
		return token.Value{}, fmt.Errorf("operator %q requires non-negative operands", sym)
	}
	resultKind := promoteIntKinds(a.Kind, b.Kind)
	au, bu := a.AsUint64(), b.AsUint64()
	var r uint64
	switch sym {
	case "&":
		r = au & bu
	case "^":
		r = au ^ bu
	case "|":
		r = au | bu
	}
	if resultKind.IsUnsigned() {
		return token.UnsignedValue(resultKind, token.TruncateUnsigned(resultKind, r)), nil
	}
	return token.SignedValue(resultKind, token.TruncateSigned(resultKind, int64(r))), nil
}
