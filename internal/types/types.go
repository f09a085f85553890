// Package types implements the structural type system of spec.md §3
// "Types": a tagged variant with an Equals (structural equality) and a
// Compatible (equality plus widening) relation, grounded on the teacher's
// internal/types package shape but with DWScript's class/interface/generic
// machinery removed in favor of the flat primitive/pointer/array/struct/
// enum/function variant set this language actually needs.
package types

import "fmt"

// Kind tags a Type's variant.
type Kind int

const (
	Invalid Kind = iota
	Int
	Float
	Bool
	String
	Void
	Pointer
	Array
	Struct
	Enum
	Function
	MemoryAddress
)

// Type is a structural type. The zero value is Invalid.
type Type struct {
	Kind Kind

	// Pointer, Array
	Elem *Type

	// Array
	Length int // 0 means length-unknown

	// Struct, Enum
	Name string

	// Struct
	Fields []Field

	// Enum
	Members []EnumMember

	// Function
	Params []Type
	Result *Type
}

type Field struct {
	Name  string
	Type  Type
	Const bool
}

type EnumMember struct {
	Name  string
	Value int64
}

var (
	IntType    = Type{Kind: Int}
	FloatType  = Type{Kind: Float}
	BoolType   = Type{Kind: Bool}
	StringType = Type{Kind: String}
	VoidType   = Type{Kind: Void}
	MemAddrType = Type{Kind: MemoryAddress}
)

// PointerTo builds pointer-to-elem.
func PointerTo(elem Type) Type { return Type{Kind: Pointer, Elem: &elem} }

// ArrayOf builds array(elem, length). length=0 means length-unknown,
// per spec.md §3.
func ArrayOf(elem Type, length int) Type {
	return Type{Kind: Array, Elem: &elem, Length: length}
}

func (t Kind) String() string {
	switch t {
	case Invalid:
		return "invalid"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Void:
		return "void"
	case Pointer:
		return "pointer"
	case Array:
		return "array"
	case Struct:
		return "struct"
	case Enum:
		return "enum"
	case Function:
		return "function"
	case MemoryAddress:
		return "memory_address"
	default:
		return fmt.Sprintf("Kind(%d)", int(t))
	}
}

func (t Type) String() string {
	switch t.Kind {
	case Pointer:
		return t.Elem.String() + "*"
	case Array:
		if t.Length == 0 {
			return fmt.Sprintf("array(%s)", t.Elem.String())
		}
		return fmt.Sprintf("array(%s,%d)", t.Elem.String(), t.Length)
	case Struct:
		return "struct " + t.Name
	case Enum:
		return "enum " + t.Name
	case Function:
		return "function(...)"
	default:
		return t.Kind.String()
	}
}

func (t Type) IsNumeric() bool { return t.Kind == Int || t.Kind == Float }

func (t Type) IsLvalueCapable() bool {
	switch t.Kind {
	case Invalid:
		return false
	default:
		return true
	}
}

// Equals implements spec.md §3's STRUCTURAL EQUALITY: variant tags match
// and all composed types/lengths match; struct and enum compare by
// declared type name, not structurally.
func Equals(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Pointer:
		if a.Elem == nil || b.Elem == nil {
			return a.Elem == b.Elem
		}
		return Equals(*a.Elem, *b.Elem)
	case Array:
		return a.Length == b.Length && Equals(*a.Elem, *b.Elem)
	case Struct, Enum:
		return a.Name == b.Name
	case Function:
		if a.Result == nil || b.Result == nil {
			return a.Result == b.Result
		}
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equals(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return Equals(*a.Result, *b.Result)
	default:
		return true
	}
}

// Compatible implements spec.md §3's COMPATIBILITY relation: equality
// plus array(T,N)↔array(T,0), int↔enum, null↔any pointer. IsNull marks
// the synthetic pointer(unknown) type the semantic analyzer assigns to
// the `null` literal (spec.md §4.4.3).
func Compatible(a, b Type, aIsNull, bIsNull bool) bool {
	if Equals(a, b) {
		return true
	}
	if aIsNull && b.Kind == Pointer {
		return true
	}
	if bIsNull && a.Kind == Pointer {
		return true
	}
	if a.Kind == Array && b.Kind == Array && Equals(*a.Elem, *b.Elem) {
		if a.Length == 0 || b.Length == 0 {
			return true
		}
	}
	if a.Kind == Int && b.Kind == Enum {
		return true
	}
	if a.Kind == Enum && b.Kind == Int {
		return true
	}
	return false
}
