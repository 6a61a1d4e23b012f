// Package types implements the source language's primitive type lattice,
// implicit-conversion rules, and binary-operand preferred-type table.
package types

import "fmt"

// Primitive is one of the four scalar primitive types.
type Primitive int

const (
	Int Primitive = iota
	Float
	Bool
	String
)

func (p Primitive) String() string {
	switch p {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case String:
		return "String"
	default:
		return "?"
	}
}

// Type is a primitive type plus an array nesting depth; nesting > 0 denotes
// an array of the corresponding element type (Array[T] has nesting 1,
// Array[Array[T]] has nesting 2, etc — though the source grammar only ever
// produces nesting 0 or 1).
type Type struct {
	Primitive Primitive
	Nesting   int
}

func Scalar(p Primitive) Type { return Type{Primitive: p} }

func ArrayOf(p Primitive) Type { return Type{Primitive: p, Nesting: 1} }

func (t Type) IsArray() bool { return t.Nesting > 0 }

// Element returns the type with one fewer level of array nesting. It panics
// if t is not an array.
func (t Type) Element() Type {
	if t.Nesting == 0 {
		panic("Element() called on a non-array type")
	}
	return Type{Primitive: t.Primitive, Nesting: t.Nesting - 1}
}

func (t Type) Equal(o Type) bool {
	return t.Primitive == o.Primitive && t.Nesting == o.Nesting
}

func (t Type) String() string {
	if t.Nesting == 0 {
		return t.Primitive.String()
	}
	s := t.Primitive.String()
	for i := 0; i < t.Nesting; i++ {
		s = "Array[" + s + "]"
	}
	return s
}

// convertible holds the scalar-to-scalar implicit conversion lattice (spec.md
// §4.I): Int<->Float, Int<->Bool, Float<->Bool are all allowed; String
// converts to and from nothing, including itself (callers must check
// equality before calling Convertible).
var convertible = map[Primitive]map[Primitive]bool{
	Int:    {Float: true, Bool: true},
	Float:  {Int: true, Bool: true},
	Bool:   {Int: true, Float: true},
	String: {},
}

// Convertible reports whether a value of primitive type from can be
// implicitly converted to primitive type to. Convertible(A, A) is defined to
// be false: callers must check for equality themselves first, since "is this
// type convertible to itself" is never a meaningful question in this lattice.
func Convertible(from, to Primitive) bool {
	if from == to {
		return false
	}
	return convertible[from][to]
}

// ConvertibleScalar reports whether a Type value of from can be implicitly
// converted to a Type value of to: both sides must have nesting 0 (arrays
// never implicitly convert), and the primitives must satisfy Convertible, or
// be equal (a type is always "convertible" to itself for the purposes of
// assignment-compatibility, unlike the stricter Convertible/Primitive check).
func ConvertibleScalar(from, to Type) bool {
	if from.Nesting != 0 || to.Nesting != 0 {
		return false
	}
	if from.Primitive == to.Primitive {
		return true
	}
	return Convertible(from.Primitive, to.Primitive)
}

// ConvertibleToBool reports whether values of primitive p can be coerced to
// Bool for use as a branch condition.
func ConvertibleToBool(p Primitive) bool {
	switch p {
	case Int, Float, Bool:
		return true
	default:
		return false
	}
}

// preferred holds the binary-operand preferred-type table for differing
// scalar operand types (spec.md §4.I). Pairs not present here (both String
// involved, or one side String) have no preferred type; callers must reject
// those combinations themselves (String participates in no binary arithmetic
// or comparison beyond equality, which is handled separately).
var preferred = map[[2]Primitive]Primitive{
	{Int, Float}: Float,
	{Float, Int}: Float,
	{Float, Bool}: Float,
	{Bool, Float}: Float,
	{Int, Bool}:  Int,
	{Bool, Int}:  Int,
}

// PreferredBinary returns the preferred result type for a binary operation
// whose operands are left and right. If left == right, that common type is
// the result. Otherwise the table above is consulted; ok is false if no
// preferred type is defined for the pair (e.g. either side is String, or
// either side is an array).
func PreferredBinary(left, right Type) (result Type, ok bool) {
	if left.Nesting != 0 || right.Nesting != 0 {
		return Type{}, false
	}
	if left.Primitive == right.Primitive {
		return left, true
	}
	p, ok := preferred[[2]Primitive{left.Primitive, right.Primitive}]
	if !ok {
		return Type{}, false
	}
	return Scalar(p), true
}

// ZeroValueDescription names the zero value codegen should store for a
// freshly-declared variable of primitive p. String has no scalar zero value
// at this layer (its zero representation is a backend concern - an empty
// constant string - so codegen handles it directly rather than through this
// function); everything else maps to a literal description consumers can
// switch on.
type ZeroKind int

const (
	ZeroInt ZeroKind = iota
	ZeroFloat
	ZeroBool
	ZeroString
)

func ZeroValueKind(p Primitive) (ZeroKind, error) {
	switch p {
	case Int:
		return ZeroInt, nil
	case Float:
		return ZeroFloat, nil
	case Bool:
		return ZeroBool, nil
	case String:
		return ZeroString, nil
	default:
		return 0, fmt.Errorf("no zero value for primitive %v", p)
	}
}
