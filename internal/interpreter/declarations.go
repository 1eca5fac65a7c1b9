// This file installs declared variables at run time.
package interpreter

import (
	"fmt"

	"github.com/cwbudde/clc/internal/bytecode"
	"github.com/cwbudde/clc/internal/token"
)

// execVarDecl decodes a VARIABLES_DECLARATION object: a single data-type
// opcode byte followed by USER_VAR/EXPRESSION pairs, one per declared
// name. An empty EXPRESSION means no initializer was given, in which
// case the name is inserted uninitialized.
func (i *Interpreter) execVarDecl(pos int) (next int, err error) {
	_, payloadStart, payloadEnd, err := bytecode.ReadFlexHeader(i.buf, pos)
	if err != nil {
		return pos, err
	}

	kind, ok := bytecode.DataTypeKind(i.buf[payloadStart])
	if !ok {
		return pos, fmt.Errorf("interpreter: unknown data-type opcode 0x%02X at offset %d", i.buf[payloadStart], payloadStart)
	}
	cur := payloadStart + 1

	for cur < payloadEnd {
		name, afterName, nerr := bytecode.ReadUserVar(i.buf, cur)
		if nerr != nil {
			return pos, nerr
		}
		cur = afterName

		exprToks, afterExpr, rerr := bytecode.ReadExprIntoList(i.buf, cur, i.terms)
		if rerr != nil {
			return pos, rerr
		}
		cur = afterExpr

		var val token.Value
		if len(exprToks) == 0 {
			val = token.Uninitialized(kind)
		} else {
			raw, _, eerr := i.ev.Eval(exprToks, 0)
			if eerr != nil {
				return pos, eerr
			}
			val, err = token.CoerceAssign(kind, raw)
			if err != nil {
				return pos, err
			}
			val.Initialized = true
		}

		if ierr := i.scope.InsertAtTop(name, val); ierr != nil {
			return pos, ierr
		}
	}

	return payloadEnd, nil
}
