package langterms

import "testing"

func TestNewTableSelfCheckPasses(t *testing.T) {
	// Must not panic.
	NewTable()
}

func TestPrecedenceOrdering(t *testing.T) {
	tbl := NewTable()

	mulPrec, ok := tbl.Precedence("*")
	if !ok {
		t.Fatal("expected '*' to have a precedence")
	}
	plusPrec, ok := tbl.Precedence("B+")
	if !ok {
		t.Fatal("expected 'B+' to have a precedence")
	}
	if mulPrec >= plusPrec {
		t.Errorf("* should bind tighter than B+: mulPrec=%d plusPrec=%d", mulPrec, plusPrec)
	}

	shiftPrec, _ := tbl.Precedence("<<")
	if plusPrec >= shiftPrec {
		t.Errorf("+ should bind tighter than <<: plusPrec=%d shiftPrec=%d", plusPrec, shiftPrec)
	}
}

func TestTernaryElseGroupTighterThanAssignment(t *testing.T) {
	tbl := NewTable()
	ternary2ndPrec, _ := tbl.Precedence(":")
	assignPrec, _ := tbl.Precedence("=")
	if ternary2ndPrec >= assignPrec {
		t.Errorf("':' must sit in a tighter precedence group than '='; got %d vs %d", ternary2ndPrec, assignPrec)
	}
}

func TestDisambiguatePlusMinus(t *testing.T) {
	tbl := NewTable()

	if op, ok := tbl.Disambiguate("+", Unary); !ok || op.Symbol != "+u" {
		t.Errorf("unary + should disambiguate to +u, got %+v ok=%v", op, ok)
	}
	if op, ok := tbl.Disambiguate("-", Binary); !ok || op.Symbol != "B-" {
		t.Errorf("binary - should disambiguate to B-, got %+v ok=%v", op, ok)
	}
	if op, ok := tbl.Disambiguate("++", Prefix); !ok || op.Symbol != "+1" {
		t.Errorf("prefix ++ should disambiguate to +1, got %+v ok=%v", op, ok)
	}
	if op, ok := tbl.Disambiguate("--", Postfix); !ok || op.Symbol != "1-" {
		t.Errorf("postfix -- should disambiguate to 1-, got %+v ok=%v", op, ok)
	}
}

func TestDetailsForOpCode(t *testing.T) {
	tbl := NewTable()
	op, ok := tbl.DetailsForOpCode(OpLogicalAnd)
	if !ok || op.Symbol != "&&" {
		t.Fatalf("expected && for opcode 0x19, got %+v ok=%v", op, ok)
	}
}

func TestSingleCharSeparatorsDontOverlapOperators(t *testing.T) {
	for _, ch := range "()[]{}" {
		if IsAtomicOperatorChar(ch) {
			t.Errorf("separator %q must not also be an atomic operator", ch)
		}
	}
}

func TestIsValidDataTypeAndReservedWord(t *testing.T) {
	if !IsValidDataType("uint8") || IsValidDataType("notatype") {
		t.Error("data type validity check failed")
	}
	if !IsReservedWord("while") || IsReservedWord("notakeyword") {
		t.Error("reserved word check failed")
	}
}
