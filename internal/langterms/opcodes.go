package langterms

// Atomic operator opcodes, 0x01-0x28. Kept stable across releases so a
// compiled object written by one version disassembles correctly under
// another.
const (
	OpPostIncr byte = 0x01 // 1+
	OpPostDecr byte = 0x02 // 1-
	OpPreIncr byte = 0x03 // +1
	OpPreDecr byte = 0x04 // -1
	OpUnaryPlus byte = 0x05 // +u
	OpUnaryMinus byte = 0x06 // -u
	OpLogicalNot byte = 0x07 // !
	OpBitwiseNot byte = 0x08 // ~
	OpMultiply byte = 0x09
	OpDivide byte = 0x0A
	OpModulo byte = 0x0B
	OpBinaryPlus byte = 0x0C // B+
	OpBinaryMinus byte = 0x0D // B-
	OpLeftShift byte = 0x0E
	OpRightShift byte = 0x0F
	OpLessThan byte = 0x10
	OpLessEquals byte = 0x11
	OpGreaterThan byte = 0x12
	OpGreaterEqual byte = 0x13
	OpEquality byte = 0x14
	OpNotEquals byte = 0x15
	OpBitwiseAnd byte = 0x16
	OpBitwiseXor byte = 0x17
	OpBitwiseOr byte = 0x18
	OpLogicalAnd byte = 0x19
	OpLogicalOr byte = 0x1A
	OpTernary1st byte = 0x1B // ?
	OpTernary2nd byte = 0x1C //:
	OpAssign byte = 0x1D
	OpPlusAssign byte = 0x1E
	OpMinusAssign byte = 0x1F
	OpMultAssign byte = 0x20
	OpDivAssign byte = 0x21
	OpModAssign byte = 0x22
	OpLShiftAssign byte = 0x23
	OpRShiftAssign byte = 0x24
	OpAndAssign byte = 0x25
	OpXorAssign byte = 0x26
	OpOrAssign byte = 0x27
	OpStatementEnder byte = 0x28 //;

	LastValidOpr8rOpCode = OpStatementEnder
)

// Data-type opcodes, 0x30-0x3B.
const (
	OpTypeU8 byte = 0x30 + iota
	OpTypeU16
	OpTypeU32
	OpTypeU64
	OpTypeI8
	OpTypeI16
	OpTypeI32
	OpTypeI64
	OpTypeString
	OpTypeDateTime
	OpTypeDouble
	OpTypeBool

	LastValidDataTypeOpCode = OpTypeBool
)

// Fixed-payload literal opcodes, 0x40-0x5F (width implied by opcode).
const (
	OpLitU8 byte = 0x40
	OpLitI8 byte = 0x42
	OpLitBool byte = 0x43
	OpLitU16 byte = 0x48
	OpLitI16 byte = 0x49
	OpLitU32 byte = 0x50
	OpLitI32 byte = 0x51
	OpLitU64 byte = 0x58
	OpLitI64 byte = 0x59
)

// Flex-length object opcodes, 0x60-0x7F. Every one of these is followed by
// a 4-byte big-endian total length covering header + payload.
const (
	OpString byte = 0x60
	OpUserVar byte = 0x61
	OpDateTimeLit byte = 0x62
	OpDoubleLit byte = 0x63
	OpExpression byte = 0x68
	OpIfScope byte = 0x69
	OpElseIfScope byte = 0x6A
	OpElseScope byte = 0x6B
	OpWhileScope byte = 0x6C
	OpForScope byte = 0x6D
	OpAnonScope byte = 0x6E
	OpVariablesDeclaration byte = 0x6F
	OpUserFxnDeclaration byte = 0x70
	OpUserFxnCall byte = 0x71
	OpSystemCall byte = 0x72
)

// OpBreak is a single-byte statement marker. It reuses the operator
// opcode range's STATEMENT_ENDER byte position space but only ever
// appears at statement position inside a scope body, never inside an
// expression stream, so the two uses never collide in practice.
const OpBreak byte = 0x28
