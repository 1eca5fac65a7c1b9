package langterms

import "fmt"

// precedenceGroups lists operator groups from tightest-binding to loosest,
// exactly the order prescribes. Operators sharing an index share
// precedence.
var precedenceGroups = [][]Operator{
	{ // postfix ++ --
		{"++", Postfix, UsrSrc, 1, 0, 0, "postfix increment (source form)"},
		{"--", Postfix, UsrSrc, 1, 0, 0, "postfix decrement (source form)"},
		{"1+", Postfix, Gnr8dSrc, 1, 1, OpPostIncr, "postfix increment"},
		{"1-", Postfix, Gnr8dSrc, 1, 1, OpPostDecr, "postfix decrement"},
	},
	{ // prefix ++ -- + - ! ~
		{"++", Prefix, UsrSrc, 1, 0, 0, "prefix increment (source form)"},
		{"--", Prefix, UsrSrc, 1, 0, 0, "prefix decrement (source form)"},
		{"+1", Prefix, Gnr8dSrc, 1, 1, OpPreIncr, "prefix increment"},
		{"-1", Prefix, Gnr8dSrc, 1, 1, OpPreDecr, "prefix decrement"},
		{"+", Unary, UsrSrc, 1, 0, 0, "unary plus (source form)"},
		{"+u", Unary, Gnr8dSrc, 1, 1, OpUnaryPlus, "unary plus"},
		{"-", Unary, UsrSrc, 1, 0, 0, "unary minus (source form)"},
		{"-u", Unary, Gnr8dSrc, 1, 1, OpUnaryMinus, "unary minus"},
		{"!", Unary, UsrSrc | Gnr8dSrc, 1, 1, OpLogicalNot, "logical not"},
		{"~", Unary, UsrSrc | Gnr8dSrc, 1, 1, OpBitwiseNot, "bitwise not"},
	},
	{ // * / %
		{"*", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpMultiply, "multiply"},
		{"/", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpDivide, "divide"},
		{"%", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpModulo, "modulo"},
	},
	{ // + -
		{"+", Binary, UsrSrc, 2, 0, 0, "binary plus (source form)"},
		{"B+", Binary, Gnr8dSrc, 2, 2, OpBinaryPlus, "binary plus"},
		{"-", Binary, UsrSrc, 2, 0, 0, "binary minus (source form)"},
		{"B-", Binary, Gnr8dSrc, 2, 2, OpBinaryMinus, "binary minus"},
	},
	{ // << >>
		{"<<", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpLeftShift, "left shift"},
		{">>", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpRightShift, "right shift"},
	},
	{ // < <= > >=
		{"<", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpLessThan, "less than"},
		{"<=", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpLessEquals, "less or equal"},
		{">", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpGreaterThan, "greater than"},
		{">=", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpGreaterEqual, "greater or equal"},
	},
	{ // == !=
		{"==", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpEquality, "equal"},
		{"!=", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpNotEquals, "not equal"},
	},
	{{"&", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpBitwiseAnd, "bitwise and"}},
	{{"^", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpBitwiseXor, "bitwise xor"}},
	{{"|", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpBitwiseOr, "bitwise or"}},
	{{"&&", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpLogicalAnd, "logical and"}},
	{{"||", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpLogicalOr, "logical or"}},
	{ // ? — TERNARY_1ST; 2 source operands and 2 exec operands: the
		// condition and the ":" subtree that follow it in the flattened stream.
		{"?", Binary | Ternary1st, UsrSrc | Gnr8dSrc, 2, 2, OpTernary1st, "ternary conditional"},
	},
	{ //: — TERNARY_2ND divides the true/false paths; like the other
		// operators it leads its operands in the flattened stream:
		// [:][truePath][falsePath].
		{":", Binary | Ternary2nd, UsrSrc | Gnr8dSrc, 2, 2, OpTernary2nd, "ternary else"},
	},
	{ // assignment family
		{"=", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpAssign, "assign"},
		{"+=", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpPlusAssign, "add-assign"},
		{"-=", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpMinusAssign, "subtract-assign"},
		{"*=", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpMultAssign, "multiply-assign"},
		{"/=", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpDivAssign, "divide-assign"},
		{"%=", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpModAssign, "modulo-assign"},
		{"<<=", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpLShiftAssign, "shift-left-assign"},
		{">>=", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpRShiftAssign, "shift-right-assign"},
		{"&=", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpAndAssign, "and-assign"},
		{"^=", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpXorAssign, "xor-assign"},
		{"|=", Binary, UsrSrc | Gnr8dSrc, 2, 2, OpOrAssign, "or-assign"},
	},
	{ // statement ender
		{";", StatementEnder, UsrSrc | Gnr8dSrc, 0, 0, OpStatementEnder, "statement ender"},
	},
}

const (
	atomicSingleCharOpr8rs = ";"
	singleCharSpr8rs = "()[]{}"
	ternary1stSymbol = "?"
	ternary2ndSymbol = ":"
	statementEnderSymbol = ";"
)

var validDataTypes = map[string]bool{
	"uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"int8": true, "int16": true, "int32": true, "int64": true,
	"string": true, "datetime": true, "double": true, "bool": true,
}

var reservedWords = map[string]bool{
	"if": true, "else": true, "while": true, "for": true, "break": true,
	"return": true, "void": true, "true": true, "false": true,
}

var systemCallNames = map[string]bool{
	"print_line": true,
	"str": true,
}

// Table is the singleton operator/term dictionary. It is built once by
// NewTable and self-checked per construction-time invariants.
type Table struct {
	groups [][]Operator
	bySymbol map[string][]Operator // symbol may be ambiguous (unary vs binary etc)
	byOpCode map[byte]Operator
	precedence map[string]int // symbol -> index into groups, first match wins for source forms
}

// NewTable constructs and validates the operator table. It panics on any
// internal inconsistency, mirroring the reference implementation's
// constructor-time assert calls — these are invariants of the table
// itself, not user-facing errors.
func NewTable() *Table {
	t := &Table{
		groups: precedenceGroups,
		bySymbol: map[string][]Operator{},
		byOpCode: map[byte]Operator{},
		precedence: map[string]int{},
	}

	for i, group := range precedenceGroups {
		for _, op := range group {
			t.bySymbol[op.Symbol] = append(t.bySymbol[op.Symbol], op)
			if _, exists := t.precedence[op.Symbol]; !exists {
				t.precedence[op.Symbol] = i
			}
			if op.OpCode != 0 {
				t.byOpCode[op.OpCode] = op
			}
		}
	}

	t.selfCheck()
	return t
}

func (t *Table) selfCheck() {
	for _, ch := range atomicSingleCharOpr8rs {
		sym := string(ch)
		if _, ok := t.bySymbol[sym]; !ok {
			panic(fmt.Sprintf("langterms: atomic operator %q missing from precedence groups", sym))
		}
		for _, s := range singleCharSpr8rs {
			if ch == s {
				panic(fmt.Sprintf("langterms: operator %q overlaps separator set", sym))
			}
		}
	}

	var ternary1, ternary2, enders int
	for _, group := range precedenceGroups {
		for _, op := range group {
			if op.Is(Ternary1st) {
				ternary1++
			}
			if op.Is(Ternary2nd) {
				ternary2++
			}
			if op.Is(StatementEnder) {
				enders++
			}
		}
	}
	if !((ternary1 == 0 && ternary2 == 0) || (ternary1 == 1 && ternary2 == 1)) {
		panic("langterms: ternary operator must be defined as a matched pair")
	}
	if enders != 1 {
		panic("langterms: exactly one statement-ender operator must be defined")
	}
}

// IsSingleCharSeparator reports whether ch is one of "()[]{}".
func IsSingleCharSeparator(ch rune) bool {
	for _, s := range singleCharSpr8rs {
		if ch == s {
			return true
		}
	}
	return false
}

// IsAtomicOperatorChar reports whether ch must never combine with a
// following operator character (only ';' today).
func IsAtomicOperatorChar(ch rune) bool {
	for _, s := range atomicSingleCharOpr8rs {
		if ch == s {
			return true
		}
	}
	return false
}

// IsValidDataType reports whether name is a recognized primitive type name.
func IsValidDataType(name string) bool { return validDataTypes[name] }

// IsReservedWord reports whether name is a language keyword.
func IsReservedWord(name string) bool { return reservedWords[name] }

// IsSystemCallName reports whether name names a built-in system call.
func IsSystemCallName(name string) bool { return systemCallNames[name] }

// TernarySymbols returns the "?" and ":" operator symbols.
func TernarySymbols() (string, string) { return ternary1stSymbol, ternary2ndSymbol }

// StatementEnderSymbol returns ";".
func StatementEnderSymbol() string { return statementEnderSymbol }

// Candidates returns every Operator definition sharing the given source
// symbol (e.g. "+" matches both the unary and binary forms before context
// disambiguates which is meant).
func (t *Table) Candidates(symbol string) []Operator {
	return t.bySymbol[symbol]
}

// IsValid reports whether symbol is defined with at least one definition
// whose UsageMask intersects usage.
func (t *Table) IsValid(symbol string, usage UsageMask) bool {
	for _, op := range t.bySymbol[symbol] {
		if op.UsageMask&usage != 0 {
			return true
		}
	}
	return false
}

// TypeMaskOf ORs together the type masks of every definition of symbol.
func (t *Table) TypeMaskOf(symbol string) TypeMask {
	var mask TypeMask
	for _, op := range t.bySymbol[symbol] {
		mask |= op.TypeMask
	}
	return mask
}

// Precedence returns the index of symbol's precedence group (lower binds
// tighter). ok is false for unknown symbols.
func (t *Table) Precedence(symbol string) (int, bool) {
	p, ok := t.precedence[symbol]
	return p, ok
}

// Disambiguate picks the one Operator definition matching symbol in the
// given syntactic role. The ambiguous source symbols + - ++ -- resolve to
// their generated forms (+u -u B+ B- +1 -1 1+ 1-). role
// should be one of Unary, Binary, Prefix, Postfix.
func (t *Table) Disambiguate(symbol string, role TypeMask) (Operator, bool) {
	rewrites := map[TypeMask]map[string]string{
		Unary:   {"+": "+u", "-": "-u"},
		Binary:  {"+": "B+", "-": "B-"},
		Prefix:  {"++": "+1", "--": "-1"},
		Postfix: {"++": "1+", "--": "1-"},
	}
	if gen, ok := rewrites[role][symbol]; ok {
		symbol = gen
	}
	for _, op := range t.bySymbol[symbol] {
		if op.Is(role) && op.UsageMask&Gnr8dSrc != 0 {
			return op, true
		}
	}
	// Symbols with only one definition (e.g. "*") don't need rewriting.
	for _, op := range t.bySymbol[symbol] {
		if op.Is(role) {
			return op, true
		}
	}
	return Operator{}, false
}

// DetailsForOpCode returns the Operator registered under the given emitted
// opcode byte.
func (t *Table) DetailsForOpCode(opcode byte) (Operator, bool) {
	op, ok := t.byOpCode[opcode]
	return op, ok
}

// SymbolForOpCode returns the source symbol for a given emitted opcode.
func (t *Table) SymbolForOpCode(opcode byte) (string, bool) {
	op, ok := t.byOpCode[opcode]
	return op.Symbol, ok
}

// Arity returns the number of *source* operands symbol's gnr8d form
// requires, or -1 if unknown.
func (t *Table) Arity(symbol string) int {
	for _, op := range t.bySymbol[symbol] {
		if op.UsageMask&Gnr8dSrc != 0 {
			return op.NumSrcOperand
		}
	}
	if ops := t.bySymbol[symbol]; len(ops) > 0 {
		return ops[0].NumSrcOperand
	}
	return -1
}
