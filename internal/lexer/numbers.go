package lexer

import (
	"strconv"

	"github.com/cwbudde/clc/internal/token"
)

// scanNumber consumes a decimal or 0x-prefixed hex integer literal, or a
// decimal literal with a fractional part, and resolves its narrowest
// fitting Kind: smallest signed width for decimal
// integers, smallest unsigned width for hex integers.
func (l *Lexer) scanNumber() (token.Token, *LexError) {
	pos := l.here()

	if l.ch == '0' && (l.peekRune() == 'x' || l.peekRune() == 'X') {
		return l.scanHexLiteral(pos)
	}

	start := l.pos
	for isDigit(l.ch) {
		l.readRune()
	}

	isDouble := false
	if l.ch == '.' && isDigit(l.peekRune()) {
		isDouble = true
		l.readRune() // consume '.'
		for isDigit(l.ch) {
			l.readRune()
		}
	}

	lexeme := l.input[start:l.pos]

	if isDouble {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return token.Token{Kind: token.KindBroken, Position: pos}, &LexError{Position: pos, Msg: "malformed double literal: " + lexeme}
		}
		t := token.NewToken(token.KindDoubleLit, lexeme, pos)
		t.Float = f
		return t, nil
	}

	v, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		// Out of int64 range entirely; no narrower representation exists.
		return token.Token{Kind: token.KindBroken, Position: pos}, &LexError{Position: pos, Msg: "integer literal out of range: " + lexeme}
	}
	kind := token.SmallestSigned(v)
	t := token.NewToken(signedLitKind(kind), lexeme, pos)
	t.Int = v
	return t, nil
}

func (l *Lexer) scanHexLiteral(pos token.Position) (token.Token, *LexError) {
	start := l.pos
	l.readRune() // '0'
	l.readRune() // 'x'/'X'
	digitsStart := l.pos
	for isHexDigit(l.ch) {
		l.readRune()
	}
	if l.pos == digitsStart {
		return token.Token{Kind: token.KindBroken, Position: pos}, &LexError{Position: pos, Msg: "malformed hex literal"}
	}
	lexeme := l.input[start:l.pos]
	v, err := strconv.ParseUint(lexeme[2:], 16, 64)
	if err != nil {
		return token.Token{Kind: token.KindBroken, Position: pos}, &LexError{Position: pos, Msg: "hex literal out of range: " + lexeme}
	}
	kind := token.SmallestUnsigned(v)
	t := token.NewToken(unsignedLitKind(kind), lexeme, pos)
	t.Uint = v
	return t, nil
}

func signedLitKind(vk token.ValueKind) token.Kind {
	switch vk {
	case token.VI8:
		return token.KindI8Lit
	case token.VI16:
		return token.KindI16Lit
	case token.VI32:
		return token.KindI32Lit
	default:
		return token.KindI64Lit
	}
}

func unsignedLitKind(vk token.ValueKind) token.Kind {
	switch vk {
	case token.VU8:
		return token.KindU8Lit
	case token.VU16:
		return token.KindU16Lit
	case token.VU32:
		return token.KindU32Lit
	default:
		return token.KindU64Lit
	}
}
