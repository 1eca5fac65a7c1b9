package bytecode

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"unicode/utf16"

	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/token"
)

// ReadError reports a malformed compiled object: a sub-object whose
// declared length runs past its parent's boundary, or an opcode outside
// any recognized range.
type ReadError struct {
	Offset int
	Msg string
}

func (e *ReadError) Error() string { return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg) }

// ReadExprIntoList reads an EXPRESSION flex object starting at start and
// returns its flattened Token list plus the offset just past the object
//.
func ReadExprIntoList(buf []byte, start int, terms *langterms.Table) ([]token.Token, int, error) {
	if start >= len(buf) || buf[start] != langterms.OpExpression {
		return nil, start, &ReadError{Offset: start, Msg: "expected EXPRESSION opcode"}
	}
	total, err := readU32At(buf, start+1)
	if err != nil {
		return nil, start, err
	}
	end := start + int(total)
	if end > len(buf) {
		return nil, start, &ReadError{Offset: start, Msg: "EXPRESSION length runs past end of buffer"}
	}

	var toks []token.Token
	pos := start + 5
	for pos < end {
		tok, next, err := readSubObject(buf, pos, end, terms)
		if err != nil {
			return nil, start, err
		}
		toks = append(toks, tok)
		pos = next
	}
	if pos != end {
		return nil, start, &ReadError{Offset: pos, Msg: "sub-object boundary does not land on EXPRESSION end"}
	}
	return toks, end, nil
}

func readU32At(buf []byte, pos int) (uint32, error) {
	if pos+4 > len(buf) {
		return 0, &ReadError{Offset: pos, Msg: "truncated length field"}
	}
	return binary.BigEndian.Uint32(buf[pos: pos+4]), nil
}

func readSubObject(buf []byte, pos, limit int, terms *langterms.Table) (token.Token, int, error) {
	if pos >= limit {
		return token.Token{}, pos, &ReadError{Offset: pos, Msg: "no opcode byte available within parent bounds"}
	}
	opcode := buf[pos]

	switch {
	case opcode >= 0x01 && opcode <= langterms.LastValidOpr8rOpCode:
		op, ok := terms.DetailsForOpCode(opcode)
		if !ok {
			return token.Token{}, pos, &ReadError{Offset: pos, Msg: fmt.Sprintf("unknown operator opcode 0x%02X", opcode)}
		}
		tok := token.NewToken(token.KindExecOpr8r, op.Symbol, token.Position{})
		tok.Uint = uint64(opcode)
		return tok, pos + 1, nil

	case opcode >= 0x30 && opcode <= langterms.LastValidDataTypeOpCode:
		tok := token.NewToken(token.KindDataType, dataTypeName(opcode), token.Position{})
		tok.Uint = uint64(opcode)
		return tok, pos + 1, nil

	case opcode >= 0x40 && opcode < 0x60:
		tok, next, err := readFixedLiteral(buf, pos, limit, opcode)
		if err == nil {
			switch tok.Kind {
			case token.KindBoolLit:
				tok.Lexeme = strconv.FormatBool(tok.Uint != 0)
			case token.KindI8Lit, token.KindI16Lit, token.KindI32Lit, token.KindI64Lit:
				tok.Lexeme = strconv.FormatInt(tok.Int, 10)
			default:
				tok.Lexeme = strconv.FormatUint(tok.Uint, 10)
			}
		}
		return tok, next, err

	case opcode >= 0x60:
		return readFlexObject(buf, pos, limit, opcode)
	}
	return token.Token{}, pos, &ReadError{Offset: pos, Msg: fmt.Sprintf("opcode 0x%02X out of range", opcode)}
}

func need(buf []byte, pos, n, limit int) error {
	if pos+n > limit || pos+n > len(buf) {
		return &ReadError{Offset: pos, Msg: "fixed literal payload runs past parent bounds"}
	}
	return nil
}

func readFixedLiteral(buf []byte, pos, limit int, opcode byte) (token.Token, int, error) {
	switch opcode {
	case langterms.OpLitBool:
		if err := need(buf, pos, 2, limit); err != nil {
			return token.Token{}, pos, err
		}
		tok := token.NewToken(token.KindBoolLit, "", token.Position{})
		tok.Uint = uint64(buf[pos+1])
		return tok, pos + 2, nil
	case langterms.OpLitU8:
		if err := need(buf, pos, 2, limit); err != nil {
			return token.Token{}, pos, err
		}
		tok := token.NewToken(token.KindU8Lit, "", token.Position{})
		tok.Uint = uint64(buf[pos+1])
		return tok, pos + 2, nil
	case langterms.OpLitI8:
		if err := need(buf, pos, 2, limit); err != nil {
			return token.Token{}, pos, err
		}
		tok := token.NewToken(token.KindI8Lit, "", token.Position{})
		tok.Int = int64(int8(buf[pos+1]))
		return tok, pos + 2, nil
	case langterms.OpLitU16:
		if err := need(buf, pos, 3, limit); err != nil {
			return token.Token{}, pos, err
		}
		tok := token.NewToken(token.KindU16Lit, "", token.Position{})
		tok.Uint = uint64(binary.BigEndian.Uint16(buf[pos+1: pos+3]))
		return tok, pos + 3, nil
	case langterms.OpLitI16:
		if err := need(buf, pos, 3, limit); err != nil {
			return token.Token{}, pos, err
		}
		tok := token.NewToken(token.KindI16Lit, "", token.Position{})
		tok.Int = int64(int16(binary.BigEndian.Uint16(buf[pos+1: pos+3])))
		return tok, pos + 3, nil
	case langterms.OpLitU32:
		if err := need(buf, pos, 5, limit); err != nil {
			return token.Token{}, pos, err
		}
		tok := token.NewToken(token.KindU32Lit, "", token.Position{})
		tok.Uint = uint64(binary.BigEndian.Uint32(buf[pos+1: pos+5]))
		return tok, pos + 5, nil
	case langterms.OpLitI32:
		if err := need(buf, pos, 5, limit); err != nil {
			return token.Token{}, pos, err
		}
		tok := token.NewToken(token.KindI32Lit, "", token.Position{})
		tok.Int = int64(int32(binary.BigEndian.Uint32(buf[pos+1: pos+5])))
		return tok, pos + 5, nil
	case langterms.OpLitU64:
		if err := need(buf, pos, 9, limit); err != nil {
			return token.Token{}, pos, err
		}
		tok := token.NewToken(token.KindU64Lit, "", token.Position{})
		tok.Uint = binary.BigEndian.Uint64(buf[pos+1: pos+9])
		return tok, pos + 9, nil
	case langterms.OpLitI64:
		if err := need(buf, pos, 9, limit); err != nil {
			return token.Token{}, pos, err
		}
		tok := token.NewToken(token.KindI64Lit, "", token.Position{})
		tok.Int = int64(binary.BigEndian.Uint64(buf[pos+1: pos+9]))
		return tok, pos + 9, nil
	}
	return token.Token{}, pos, &ReadError{Offset: pos, Msg: fmt.Sprintf("unknown fixed-literal opcode 0x%02X", opcode)}
}

func readFlexObject(buf []byte, pos, limit int, opcode byte) (token.Token, int, error) {
	total, err := readU32At(buf, pos+1)
	if err != nil {
		return token.Token{}, pos, err
	}
	end := pos + int(total)
	if end > limit {
		return token.Token{}, pos, &ReadError{Offset: pos, Msg: "flex object length runs past parent bounds"}
	}
	payload := buf[pos+5: end]

	switch opcode {
	case langterms.OpString:
		s, err := decodeUTF16String(payload)
		if err != nil {
			return token.Token{}, pos, err
		}
		return token.NewToken(token.KindStringLit, s, token.Position{}), end, nil

	case langterms.OpUserVar:
		s, err := decodeUTF16String(payload)
		if err != nil {
			return token.Token{}, pos, err
		}
		return token.NewToken(token.KindUserWord, s, token.Position{}), end, nil

	case langterms.OpSystemCall:
		s, err := decodeUTF16String(payload)
		if err != nil {
			return token.Token{}, pos, err
		}
		return token.NewToken(token.KindSystemCall, s, token.Position{}), end, nil

	case langterms.OpDateTimeLit:
		if len(payload) != 8 {
			return token.Token{}, pos, &ReadError{Offset: pos, Msg: "malformed DATETIME payload"}
		}
		tok := token.NewToken(token.KindDateTimeLit, "", token.Position{})
		tok.Int = int64(binary.BigEndian.Uint64(payload))
		return tok, end, nil

	case langterms.OpDoubleLit:
		if len(payload) != 8 {
			return token.Token{}, pos, &ReadError{Offset: pos, Msg: "malformed DOUBLE payload"}
		}
		tok := token.NewToken(token.KindDoubleLit, "", token.Position{})
		tok.Float = math.Float64frombits(binary.BigEndian.Uint64(payload))
		return tok, end, nil
	}
	return token.Token{}, pos, &ReadError{Offset: pos, Msg: fmt.Sprintf("opcode 0x%02X not valid inside a flattened expression", opcode)}
}

func decodeUTF16String(payload []byte) (string, error) {
	if len(payload) < 2 {
		return "", &ReadError{Msg: "string payload missing length prefix"}
	}
	count := int(binary.BigEndian.Uint16(payload[:2]))
	wantLen := 2 + count*2
	if len(payload) != wantLen {
		return "", &ReadError{Msg: "string payload length mismatch"}
	}
	units := make([]uint16, count)
	for i := 0; i < count; i++ {
		units[i] = binary.BigEndian.Uint16(payload[2+i*2: 4+i*2])
	}
	return string(utf16.Decode(units)), nil
}

// ReadFlexHeader reads the opcode and total length of the flex object at
// pos and returns its payload bounds, for top-level structural objects
// (IF_SCOPE, WHILE_SCOPE, FOR_SCOPE,...) that the interpreter dispatches
// on directly rather than through ReadExprIntoList.
func ReadFlexHeader(buf []byte, pos int) (opcode byte, payloadStart, payloadEnd int, err error) {
	if pos >= len(buf) {
		return 0, 0, 0, &ReadError{Offset: pos, Msg: "no opcode byte available"}
	}
	opcode = buf[pos]
	total, rerr := readU32At(buf, pos+1)
	if rerr != nil {
		return 0, 0, 0, rerr
	}
	payloadStart = pos + 5
	payloadEnd = pos + int(total)
	if payloadEnd > len(buf) {
		return 0, 0, 0, &ReadError{Offset: pos, Msg: "flex object length runs past end of buffer"}
	}
	return opcode, payloadStart, payloadEnd, nil
}

// DataTypeKind maps a data-type opcode (0x30-0x3B) to its token.ValueKind,
// for the interpreter's VARIABLES_DECLARATION handling which reads that
// byte directly rather than through readSubObject.
func DataTypeKind(opcode byte) (token.ValueKind, bool) {
	switch opcode {
	case langterms.OpTypeU8:
		return token.VU8, true
	case langterms.OpTypeU16:
		return token.VU16, true
	case langterms.OpTypeU32:
		return token.VU32, true
	case langterms.OpTypeU64:
		return token.VU64, true
	case langterms.OpTypeI8:
		return token.VI8, true
	case langterms.OpTypeI16:
		return token.VI16, true
	case langterms.OpTypeI32:
		return token.VI32, true
	case langterms.OpTypeI64:
		return token.VI64, true
	case langterms.OpTypeString:
		return token.VString, true
	case langterms.OpTypeDateTime:
		return token.VDateTime, true
	case langterms.OpTypeDouble:
		return token.VDouble, true
	case langterms.OpTypeBool:
		return token.VBool, true
	}
	return 0, false
}

// ReadUserVar decodes a USER_VAR flex object at pos, returning its name and
// the offset just past it. Used by the interpreter to read the name half
// of a VARIABLES_DECLARATION's USER_VAR/EXPRESSION pairs, which live
// outside of any EXPRESSION object and so can't go through
// ReadExprIntoList.
func ReadUserVar(buf []byte, pos int) (name string, next int, err error) {
	if pos >= len(buf) || buf[pos] != langterms.OpUserVar {
		return "", pos, &ReadError{Offset: pos, Msg: "expected USER_VAR opcode"}
	}
	total, rerr := readU32At(buf, pos+1)
	if rerr != nil {
		return "", pos, rerr
	}
	end := pos + int(total)
	if end > len(buf) {
		return "", pos, &ReadError{Offset: pos, Msg: "USER_VAR length runs past end of buffer"}
	}
	s, derr := decodeUTF16String(buf[pos+5: end])
	if derr != nil {
		return "", pos, derr
	}
	return s, end, nil
}

func dataTypeName(opcode byte) string {
	names := map[byte]string{
		langterms.OpTypeU8: "uint8", langterms.OpTypeU16: "uint16",
		langterms.OpTypeU32: "uint32", langterms.OpTypeU64: "uint64",
		langterms.OpTypeI8: "int8", langterms.OpTypeI16: "int16",
		langterms.OpTypeI32: "int32", langterms.OpTypeI64: "int64",
		langterms.OpTypeString: "string", langterms.OpTypeDateTime: "datetime",
		langterms.OpTypeDouble: "double", langterms.OpTypeBool: "bool",
	}
	return names[opcode]
}
