// Package bytecode implements the binary compiled-object format: a flat
// byte stream of opcode-tagged objects, fixed-payload literals, and
// length-prefixed "flex" objects.
package bytecode

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"

	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/token"
)

// Writer accumulates an in-memory byte stream. Flex-length objects are
// back-patched once their payload is known, so the writer owns its buffer
// outright rather than writing through an io.Writer (// write_flex_begin/write_flex_end).
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated stream.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the current stream length, usable as a byte-range boundary
// for scope frames.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) writeByte(b byte) { w.buf = append(w.buf, b) }

func (w *Writer) writeBytes(b []byte) { w.buf = append(w.buf, b...) }

func (w *Writer) writeU16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.writeBytes(b[:])
}

func (w *Writer) writeU32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.writeBytes(b[:])
}

func (w *Writer) writeU64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.writeBytes(b[:])
}

// WriteFixed emits a known-width literal: opcode followed directly by its
// payload, no length header.
func (w *Writer) WriteFixed(opcode byte, payload []byte) {
	w.writeByte(opcode)
	w.writeBytes(payload)
}

// WriteFlexBegin writes opcode and a zero length placeholder, returning the
// stream offset of the opcode byte so WriteFlexEnd can back-patch it.
func (w *Writer) WriteFlexBegin(opcode byte) int {
	start := len(w.buf)
	w.writeByte(opcode)
	w.writeU32(0)
	return start
}

// WriteFlexEnd back-patches the length placeholder opened at start with
// the total object length (header + payload) now that it is known.
func (w *Writer) WriteFlexEnd(start int) {
	total := uint32(len(w.buf) - start)
	binary.BigEndian.PutUint32(w.buf[start+1:start+5], total)
}

// WriteString emits a flex object whose payload is a UTF-16 length-prefixed
// string.
func (w *Writer) WriteString(opcode byte, s string) {
	start := w.WriteFlexBegin(opcode)
	units := utf16.Encode([]rune(s))
	w.writeU16(uint16(len(units)))
	for _, u := range units {
		w.writeU16(u)
	}
	w.WriteFlexEnd(start)
}

// WriteUserVar emits a USER_VAR flex object naming a variable reference.
func (w *Writer) WriteUserVar(name string) { w.WriteString(langterms.OpUserVar, name) }

// WriteDateTime emits a DATETIME flex object carrying milliseconds since
// epoch as an 8-byte big-endian payload.
func (w *Writer) WriteDateTime(ms int64) {
	start := w.WriteFlexBegin(langterms.OpDateTimeLit)
	w.writeU64(uint64(ms))
	w.WriteFlexEnd(start)
}

// WriteDouble emits a DOUBLE flex object carrying an IEEE-754 payload.
func (w *Writer) WriteDouble(f float64) {
	start := w.WriteFlexBegin(langterms.OpDoubleLit)
	w.writeU64(math.Float64bits(f))
	w.WriteFlexEnd(start)
}

// fixedLiteral resolves a literal Token's opcode and raw payload bytes.
func fixedLiteral(tok token.Token) (opcode byte, payload []byte, ok bool) {
	switch tok.Kind {
	case token.KindBoolLit:
		v := byte(0)
		if tok.Uint != 0 {
			v = 1
		}
		return langterms.OpLitBool, []byte{v}, true
	case token.KindU8Lit:
		return langterms.OpLitU8, []byte{byte(tok.Uint)}, true
	case token.KindI8Lit:
		return langterms.OpLitI8, []byte{byte(int8(tok.Int))}, true
	case token.KindU16Lit:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(tok.Uint))
		return langterms.OpLitU16, b[:], true
	case token.KindI16Lit:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(int16(tok.Int)))
		return langterms.OpLitI16, b[:], true
	case token.KindU32Lit:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(tok.Uint))
		return langterms.OpLitU32, b[:], true
	case token.KindI32Lit:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(int32(tok.Int)))
		return langterms.OpLitI32, b[:], true
	case token.KindU64Lit:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], tok.Uint)
		return langterms.OpLitU64, b[:], true
	case token.KindI64Lit:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(tok.Int))
		return langterms.OpLitI64, b[:], true
	}
	return 0, nil, false
}

// WriteFlatExpr emits a flattened token list wrapped in an EXPRESSION flex
// object. Every ExecOpr8r token's Uint already carries its
// resolved opcode (the parser converts source operators to exec operators
// before this point), so the writer never re-classifies operators.
func (w *Writer) WriteFlatExpr(toks []token.Token) error {
	start := w.WriteFlexBegin(langterms.OpExpression)
	for _, tok := range toks {
		if err := w.writeExprToken(tok); err != nil {
			return err
		}
	}
	w.WriteFlexEnd(start)
	return nil
}

func (w *Writer) writeExprToken(tok token.Token) error {
	switch tok.Kind {
	case token.KindExecOpr8r:
		w.writeByte(byte(tok.Uint))
		return nil
	case token.KindUserWord:
		w.WriteUserVar(tok.Lexeme)
		return nil
	case token.KindStringLit:
		w.WriteString(langterms.OpString, tok.Lexeme)
		return nil
	case token.KindDateTimeLit:
		w.WriteDateTime(tok.Int)
		return nil
	case token.KindDoubleLit:
		w.WriteDouble(tok.Float)
		return nil
	case token.KindSystemCall:
		w.WriteString(langterms.OpSystemCall, tok.Lexeme)
		return nil
	}
	if opcode, payload, ok := fixedLiteral(tok); ok {
		w.WriteFixed(opcode, payload)
		return nil
	}
	return fmt.Errorf("bytecode: cannot emit token of kind %s", tok.Kind)
}
