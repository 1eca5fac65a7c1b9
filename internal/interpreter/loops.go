// This file executes while/for loops.
package interpreter

import (
	"github.com/cwbudde/clc/internal/bytecode"
	"github.com/cwbudde/clc/internal/langterms"
	"github.com/cwbudde/clc/internal/scope"
)

// execWhile decodes a WHILE_SCOPE's condition once and re-evaluates the
// cached tokens every pass, running the body in a fresh Frame each
// iteration so variables the body declares don't leak across passes.
func (i *Interpreter) execWhile(pos int) (next int, err error) {
	_, payloadStart, payloadEnd, err := bytecode.ReadFlexHeader(i.buf, pos)
	if err != nil {
		return pos, err
	}
	condToks, bodyStart, err := bytecode.ReadExprIntoList(i.buf, payloadStart, i.terms)
	if err != nil {
		return pos, err
	}

	for {
		val, _, eerr := i.ev.Eval(condToks, 0)
		if eerr != nil {
			return pos, eerr
		}
		if !val.Truthy() {
			break
		}
		brk, berr := i.execFramedBlock(scope.OpenerWhile, bodyStart, payloadEnd)
		if berr != nil {
			return pos, berr
		}
		if brk {
			break
		}
	}
	return payloadEnd, nil
}

// execFor decodes a FOR_SCOPE's init/cond/step sub-objects once, opens a
// single persistent Frame spanning the whole statement (so a loop
// variable declared in init lives across every iteration), and runs the
// body in a fresh nested Frame each pass.
func (i *Interpreter) execFor(pos int) (next int, err error) {
	_, payloadStart, payloadEnd, err := bytecode.ReadFlexHeader(i.buf, pos)
	if err != nil {
		return pos, err
	}

	i.scope.Open(scope.OpenerFor, tokenZero, payloadStart)
	defer i.scope.CloseTop(scope.OpenerFor, payloadEnd)

	cur := payloadStart
	// init: VARIABLES_DECLARATION or EXPRESSION (possibly empty).
	if cur < len(i.buf) && i.buf[cur] == langterms.OpVariablesDeclaration {
		afterInit, ierr := i.execVarDecl(cur)
		if ierr != nil {
			return pos, ierr
		}
		cur = afterInit
	} else {
		initToks, afterInit, rerr := bytecode.ReadExprIntoList(i.buf, cur, i.terms)
		if rerr != nil {
			return pos, rerr
		}
		if len(initToks) > 0 {
			if _, _, eerr := i.ev.Eval(initToks, 0); eerr != nil {
				return pos, eerr
			}
		}
		cur = afterInit
	}

	condToks, afterCond, err := bytecode.ReadExprIntoList(i.buf, cur, i.terms)
	if err != nil {
		return pos, err
	}
	cur = afterCond

	stepToks, bodyStart, err := bytecode.ReadExprIntoList(i.buf, cur, i.terms)
	if err != nil {
		return pos, err
	}

	for {
		if len(condToks) > 0 {
			val, _, eerr := i.ev.Eval(condToks, 0)
			if eerr != nil {
				return pos, eerr
			}
			if !val.Truthy() {
				break
			}
		}

		brk, berr := i.execFramedBlock(scope.OpenerFor, bodyStart, payloadEnd)
		if berr != nil {
			return pos, berr
		}
		if brk {
			break
		}

		if len(stepToks) > 0 {
			if _, _, eerr := i.ev.Eval(stepToks, 0); eerr != nil {
				return pos, eerr
			}
		}
	}
	return payloadEnd, nil
}
