package bytecode

import (
	"fmt"
	"strings"

	"github.com/cwbudde/clc/internal/langterms"
)

// DisassembleExpr renders a human-readable listing of the EXPRESSION object
// at start, one sub-object per line, for `clc disasm` and golden-file tests.
func DisassembleExpr(buf []byte, start int, terms *langterms.Table) (string, error) {
	toks, end, err := ReadExprIntoList(buf, start, terms)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "EXPRESSION [%d:%d]\n", start, end)
	for i, tok := range toks {
		fmt.Fprintf(&sb, " %3d: %-14s %q\n", i, tok.Kind, tok.Lexeme)
	}
	return sb.String(), nil
}

var structuralOpNames = map[byte]string{
	langterms.OpIfScope: "IF_SCOPE",
	langterms.OpElseIfScope: "ELSE_IF_SCOPE",
	langterms.OpElseScope: "ELSE_SCOPE",
	langterms.OpWhileScope: "WHILE_SCOPE",
	langterms.OpForScope: "FOR_SCOPE",
	langterms.OpAnonScope: "ANON_SCOPE",
	langterms.OpVariablesDeclaration: "VARIABLES_DECLARATION",
}

// Disassemble walks a whole compiled object from its root ANON_SCOPE,
// printing one line per emitted object in file order prefixed with its
// byte offset, recursing into every
// structural scope body and rendering EXPRESSION objects inline.
func Disassemble(buf []byte, terms *langterms.Table) (string, error) {
	var sb strings.Builder
	if err := disasmBlock(&sb, buf, 0, len(buf), 0, terms); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func disasmBlock(sb *strings.Builder, buf []byte, start, end, indent int, terms *langterms.Table) error {
	pad := strings.Repeat(" ", indent)
	pos := start
	for pos < end {
		opcode := buf[pos]

		if opcode == langterms.OpBreak {
			fmt.Fprintf(sb, "%s%6d: BREAK\n", pad, pos)
			pos++
			continue
		}

		if opcode == langterms.OpExpression {
			toks, next, err := ReadExprIntoList(buf, pos, terms)
			if err != nil {
				return err
			}
			fmt.Fprintf(sb, "%s%6d: EXPRESSION [%d:%d]\n", pad, pos, pos, next)
			for i, tok := range toks {
				fmt.Fprintf(sb, "%s %3d: %-14s %q\n", pad, i, tok.Kind, tok.Lexeme)
			}
			pos = next
			continue
		}

		if name, ok := structuralOpNames[opcode]; ok {
			_, payloadStart, payloadEnd, err := ReadFlexHeader(buf, pos)
			if err != nil {
				return err
			}
			fmt.Fprintf(sb, "%s%6d: %s [%d:%d]\n", pad, pos, name, pos, payloadEnd)
			if opcode == langterms.OpVariablesDeclaration {
				if err := disasmVarDecl(sb, buf, payloadStart, payloadEnd, indent+1, terms); err != nil {
					return err
				}
			} else if err := disasmBlock(sb, buf, payloadStart, payloadEnd, indent+1, terms); err != nil {
				return err
			}
			pos = payloadEnd
			continue
		}

		return &ReadError{Offset: pos, Msg: fmt.Sprintf("unrecognized opcode 0x%02X at statement position", opcode)}
	}
	return nil
}

func disasmVarDecl(sb *strings.Builder, buf []byte, start, end, indent int, terms *langterms.Table) error {
	pad := strings.Repeat(" ", indent)
	if start >= end {
		return &ReadError{Offset: start, Msg: "empty VARIABLES_DECLARATION payload"}
	}
	fmt.Fprintf(sb, "%s%6d: %s\n", pad, start, dataTypeName(buf[start]))
	pos := start + 1
	for pos < end {
		name, afterName, err := ReadUserVar(buf, pos)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "%s%6d: USER_VAR %q\n", pad, pos, name)
		pos = afterName

		toks, afterExpr, err := ReadExprIntoList(buf, pos, terms)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "%s%6d: EXPRESSION [%d:%d]\n", pad, pos, pos, afterExpr)
		for i, tok := range toks {
			fmt.Fprintf(sb, "%s %3d: %-14s %q\n", pad, i, tok.Kind, tok.Lexeme)
		}
		pos = afterExpr
	}
	return nil
}
