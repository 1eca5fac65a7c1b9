package scope

import (
	"testing"

	"github.com/cwbudde/clc/internal/token"
)

func TestInsertAndLookup(t *testing.T) {
	s := NewStack()
	if err := s.InsertAtTop("x", token.UnsignedValue(token.VU8, 5)); err != nil {
		t.Fatal(err)
	}
	v, err := s.Lookup("x", 0, Read, token.Value{})
	if err != nil {
		t.Fatal(err)
	}
	if v.U != 5 {
		t.Errorf("got %d want 5", v.U)
	}
}

func TestDuplicateInsertFails(t *testing.T) {
	s := NewStack()
	if err := s.InsertAtTop("x", token.BoolValue(true)); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertAtTop("x", token.BoolValue(false)); err == nil {
		t.Fatal("expected duplicate insert to fail")
	}
}

func TestShadowingAtDeeperFrame(t *testing.T) {
	s := NewStack()
	_ = s.InsertAtTop("x", token.UnsignedValue(token.VU8, 1))
	s.Open(OpenerAnon, token.Token{}, 0)
	_ = s.InsertAtTop("x", token.UnsignedValue(token.VU8, 2))

	v, err := s.Lookup("x", 0, Read, token.Value{})
	if err != nil {
		t.Fatal(err)
	}
	if v.U != 2 {
		t.Errorf("shadowed lookup should see inner value, got %d", v.U)
	}

	if _, err := s.CloseTop(OpenerAnon, 10); err != nil {
		t.Fatal(err)
	}
	v, err = s.Lookup("x", 0, Read, token.Value{})
	if err != nil {
		t.Fatal(err)
	}
	if v.U != 1 {
		t.Errorf("after close, outer value should be visible, got %d", v.U)
	}
}

func TestCloseTopMismatch(t *testing.T) {
	s := NewStack()
	s.Open(OpenerWhile, token.Token{}, 0)
	if _, err := s.CloseTop(OpenerFor, 10); err == nil {
		t.Fatal("expected opener mismatch error")
	}
}

func TestCommitWriteCoercesAndNarrowingFails(t *testing.T) {
	s := NewStack()
	_ = s.InsertAtTop("x", token.Uninitialized(token.VI32))

	v, err := s.Lookup("x", 0, CommitWrite, token.SignedValue(token.VI8, 7))
	if err != nil {
		t.Fatal(err)
	}
	if v.I != 7 || v.Kind != token.VI32 {
		t.Errorf("got %+v", v)
	}

	_ = s.InsertAtTop("y", token.Uninitialized(token.VI8))
	if _, err := s.Lookup("y", 0, CommitWrite, token.SignedValue(token.VI32, 1000)); err == nil {
		t.Fatal("expected narrowing assignment to fail")
	}
}

func TestIsInsideLoop(t *testing.T) {
	s := NewStack()
	if _, ok := s.IsInsideLoop(false); ok {
		t.Fatal("root frame should not be inside a loop")
	}
	f := s.Open(OpenerFor, token.Token{}, 5)
	f.End = 50
	end, ok := s.IsInsideLoop(true)
	if !ok || end != 50 {
		t.Fatalf("got end=%d ok=%v", end, ok)
	}
	if f.LoopBreakCount != 1 {
		t.Errorf("expected break count 1, got %d", f.LoopBreakCount)
	}
}

func TestUndeclaredLookupFails(t *testing.T) {
	s := NewStack()
	if _, err := s.Lookup("nope", 0, Read, token.Value{}); err == nil {
		t.Fatal("expected undeclared lookup to fail")
	}
}
