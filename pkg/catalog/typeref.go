package catalog

import (
	"strings"
)

// Kind discriminates the variants of a [TypeRef].
type Kind uint8

const (
	// KindNone marks enum variants, which carry no type.
	KindNone Kind = iota
	KindPrimitive
	KindOpaque
	KindWellKnown
	KindOptional
	KindList
	KindMap
	KindReference
)

// Primitive is a scalar type.
type Primitive string

const (
	String   Primitive = "String"
	Bool     Primitive = "Bool"
	F32      Primitive = "F32"
	F64      Primitive = "F64"
	I8       Primitive = "I8"
	I16      Primitive = "I16"
	I32      Primitive = "I32"
	I64      Primitive = "I64"
	I128     Primitive = "I128"
	U8       Primitive = "U8"
	U16      Primitive = "U16"
	U32      Primitive = "U32"
	U64      Primitive = "U64"
	U128     Primitive = "U128"
	Date     Primitive = "Date"
	DateTime Primitive = "DateTime"
)

// WellKnown is a canonical type recognized from a schema shape.
type WellKnown string

const (
	Condition       WellKnown = "Condition"
	ObjectReference WellKnown = "ObjectReference"
	IntOrString     WellKnown = "IntOrString"
)

// MapType selects the representation of string-keyed maps.
type MapType string

const (
	OrderedMap   MapType = "OrderedMap"
	UnorderedMap MapType = "UnorderedMap"
)

// TypeRef is a produced type. Which fields are meaningful depends on Kind:
// Primitive for [KindPrimitive], WellKnown for [KindWellKnown], Name for
// [KindReference], Elem for the wrappers, and additionally Map for [KindMap].
// Map keys are always strings.
type TypeRef struct {
	Elem      *TypeRef
	Primitive Primitive
	WellKnown WellKnown
	Map       MapType
	Name      string
	Kind      Kind
}

// NoType returns the type carried by enum variants.
func NoType() TypeRef {
	return TypeRef{Kind: KindNone}
}

// PrimitiveOf returns a primitive type.
func PrimitiveOf(p Primitive) TypeRef {
	return TypeRef{Kind: KindPrimitive, Primitive: p}
}

// Opaque returns the dynamic, untyped value type.
func Opaque() TypeRef {
	return TypeRef{Kind: KindOpaque}
}

// WellKnownOf returns a well-known type.
func WellKnownOf(w WellKnown) TypeRef {
	return TypeRef{Kind: KindWellKnown, WellKnown: w}
}

// Optional wraps t as optional.
func Optional(t TypeRef) TypeRef {
	return TypeRef{Kind: KindOptional, Elem: &t}
}

// List wraps t as a list.
func List(t TypeRef) TypeRef {
	return TypeRef{Kind: KindList, Elem: &t}
}

// Map returns a string-keyed map with values of type t.
func Map(t TypeRef, mt MapType) TypeRef {
	return TypeRef{Kind: KindMap, Elem: &t, Map: mt}
}

// Reference returns a reference to the named container or external type.
func Reference(name string) TypeRef {
	return TypeRef{Kind: KindReference, Name: name}
}

// IsOptional reports whether t is an optional wrapper.
func (t TypeRef) IsOptional() bool {
	return t.Kind == KindOptional
}

// Contains reports whether pred holds for t or any type nested in it.
func (t TypeRef) Contains(pred func(TypeRef) bool) bool {
	for cur := &t; cur != nil; cur = cur.Elem {
		if pred(*cur) {
			return true
		}
	}

	return false
}

// References returns the name of the innermost reference, if any.
func (t TypeRef) References() (string, bool) {
	for cur := &t; cur != nil; cur = cur.Elem {
		if cur.Kind == KindReference {
			return cur.Name, true
		}
	}

	return "", false
}

// String renders t in a stable notation, e.g. Optional<Map<String, Foo>>.
func (t TypeRef) String() string {
	var sb strings.Builder

	t.write(&sb)

	return sb.String()
}

func (t TypeRef) write(sb *strings.Builder) {
	switch t.Kind {
	case KindNone:
	case KindPrimitive:
		sb.WriteString(string(t.Primitive))
	case KindOpaque:
		sb.WriteString("Opaque")
	case KindWellKnown:
		sb.WriteString(string(t.WellKnown))
	case KindReference:
		sb.WriteString(t.Name)
	case KindOptional:
		sb.WriteString("Optional<")
		t.elem().write(sb)
		sb.WriteString(">")
	case KindList:
		sb.WriteString("List<")
		t.elem().write(sb)
		sb.WriteString(">")
	case KindMap:
		sb.WriteString("Map<String, ")
		t.elem().write(sb)
		sb.WriteString(">")
	}
}

func (t TypeRef) elem() TypeRef {
	if t.Elem == nil {
		return TypeRef{}
	}

	return *t.Elem
}
