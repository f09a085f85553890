package types

import "testing"

func TestEqualsStructural(t *testing.T) {
	a := ArrayOf(IntType, 3)
	b := ArrayOf(IntType, 3)
	if !Equals(a, b) {
		t.Fatalf("expected array(int,3) == array(int,3)")
	}
	c := ArrayOf(IntType, 4)
	if Equals(a, c) {
		t.Fatalf("expected array(int,3) != array(int,4)")
	}
}

func TestEqualsStructByName(t *testing.T) {
	a := Type{Kind: Struct, Name: "Point", Fields: []Field{{Name: "x", Type: IntType}}}
	b := Type{Kind: Struct, Name: "Point", Fields: []Field{{Name: "x", Type: IntType}, {Name: "y", Type: IntType}}}
	if !Equals(a, b) {
		t.Fatalf("structs with the same declared name must be equal regardless of field lists")
	}
	c := Type{Kind: Struct, Name: "Other"}
	if Equals(a, c) {
		t.Fatalf("structs with different names must not be equal")
	}
}

func TestCompatibleArrayLengthRelaxation(t *testing.T) {
	known := ArrayOf(IntType, 5)
	unknown := ArrayOf(IntType, 0)
	if !Compatible(known, unknown, false, false) {
		t.Fatalf("array(int,5) should be compatible with array(int,0)")
	}
}

func TestCompatibleIntEnum(t *testing.T) {
	enum := Type{Kind: Enum, Name: "Color"}
	if !Compatible(IntType, enum, false, false) {
		t.Fatalf("int should be compatible with enum")
	}
	if !Compatible(enum, IntType, false, false) {
		t.Fatalf("enum should be compatible with int")
	}
}

func TestCompatibleNullPointer(t *testing.T) {
	ptr := PointerTo(IntType)
	nullType := Type{Kind: Pointer}
	if !Compatible(nullType, ptr, true, false) {
		t.Fatalf("null should be compatible with any pointer")
	}
}

func TestEqualsFunction(t *testing.T) {
	ret := IntType
	a := Type{Kind: Function, Params: []Type{IntType, FloatType}, Result: &ret}
	b := Type{Kind: Function, Params: []Type{IntType, FloatType}, Result: &ret}
	if !Equals(a, b) {
		t.Fatalf("functions with identical signatures must be equal")
	}
}

func TestIncompatibleTypes(t *testing.T) {
	if Compatible(IntType, StringType, false, false) {
		t.Fatalf("int and string must not be compatible")
	}
}
