// This file executes if/else-if/else chains.
package interpreter

import (
	"github.com/cwbudde/clc/internal/bytecode"
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/scope"
)

// execIfChain runs an IF_SCOPE and any adjacent ELSE_IF_SCOPE/ELSE_SCOPE
// siblings starting at pos, evaluating conditions in order and executing
// exactly one matching arm's body. Once an arm is taken, every later
// sibling in the chain is skipped using its length header alone, without
// even decoding its condition. It returns the offset just past the whole
// chain and whether a break propagated out of the taken arm.
func (i *Interpreter) execIfChain(pos int) (next int, brk bool, err error) {
	cur := pos
	taken := false
	brkOut := false

	for {
		if cur >= len(i.buf) {
			break
		}
		opcode := i.buf[cur]

		switch opcode {
		case langterms.OpIfScope, langterms.OpElseIfScope:
			_, payloadStart, payloadEnd, herr := bytecode.ReadFlexHeader(i.buf, cur)
			if herr != nil {
				return cur, false, herr
			}
			if taken {
				cur = payloadEnd
				continue
			}
			condToks, afterCond, rerr := bytecode.ReadExprIntoList(i.buf, payloadStart, i.terms)
			if rerr != nil {
				return cur, false, rerr
			}
			val, _, eerr := i.ev.Eval(condToks, 0)
			if eerr != nil {
				return cur, false, eerr
			}
			if val.Truthy() {
				taken = true
				opener := scope.OpenerIf
				if opcode == langterms.OpElseIfScope {
					opener = scope.OpenerElseIf
				}
				b, xerr := i.execFramedBlock(opener, afterCond, payloadEnd)
				if xerr != nil {
					return cur, false, xerr
				}
				brkOut = b
			}
			cur = payloadEnd

		case langterms.OpElseScope:
			_, payloadStart, payloadEnd, herr := bytecode.ReadFlexHeader(i.buf, cur)
			if herr != nil {
				return cur, false, herr
			}
			if !taken {
				b, xerr := i.execFramedBlock(scope.OpenerElse, payloadStart, payloadEnd)
				if xerr != nil {
					return cur, false, xerr
				}
				brkOut = b
			}
			return payloadEnd, brkOut, nil

		default:
			return cur, brkOut, nil
		}
	}
	return cur, brkOut, nil
}
