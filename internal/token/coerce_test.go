package token

import "testing"

func TestCoerceAssignNarrowingFails(t *testing.T) {
	_, err := CoerceAssign(VI8, SignedValue(VI16, 1000))
	if err == nil {
		t.Fatal("expected coercion error assigning int16(1000) to int8")
	}
}

func TestCoerceAssignWideningSucceeds(t *testing.T) {
	v, err := CoerceAssign(VI64, SignedValue(VI8, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != VI64 || v.I != 5 {
		t.Fatalf("got %#v", v)
	}
}

func TestCoerceAssignIntToDouble(t *testing.T) {
	v, err := CoerceAssign(VDouble, SignedValue(VI32, 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != VDouble || v.F != 7.0 {
		t.Fatalf("got %#v", v)
	}
}

func TestCompareCrossType(t *testing.T) {
	if Compare(SignedValue(VI8, 3), UnsignedValue(VU8, 3)) != CmpEqual {
		t.Error("3 == 3 across signed/unsigned should be equal")
	}
	if Compare(SignedValue(VI8, 2), DoubleValue(2.0)) != CmpEqual {
		t.Error("int 2 == double 2.0")
	}
	if Compare(StringValue("a"), SignedValue(VI8, 1)) != CmpIncomparable {
		t.Error("string vs int should be incomparable")
	}
}
