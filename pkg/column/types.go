// Package column provides a typed, resizable, null-aware columnar
// array engine: a homogeneous vector of numeric, complex, string or
// nested-array values with a per-element invalid marker, in-place
// resize and segment editing, type casting with numeric upcasting,
// and null-propagating arithmetic and reductions.
//
// A Column is a single-owner value. Nothing in this package locks;
// the caller serializes access, typically through the enclosing
// table's own discipline.
package column

import (
	"fmt"
	"strings"
)

// Type is the logical element kind of a column. Storage kinds select
// the slice arm backing the column; the narrow kinds (Bool through
// UInt64) exist only as save types for serializers.
type Type int

const (
	// TypeUnknown is the zero Type; it selects no storage.
	TypeUnknown Type = iota

	// Save-type-only kinds. A column never stores these directly.

	Bool
	Int8
	UInt8
	Int16
	UInt16
	UInt32
	UInt64

	// Storage kinds.

	Int           // int32
	Long          // native int
	Long64        // int64
	Size          // index-width int
	Float         // float32
	Double        // float64
	ComplexFloat  // complex64
	ComplexDouble // complex128
	String
)

// ArrayOf flags a type as a nested-array kind: each row holds an
// Array handle whose backing column has the base type.
const ArrayOf Type = 1 << 6

// Base strips the array flag.
func (t Type) Base() Type { return t &^ ArrayOf }

// IsArray reports whether t carries the array flag.
func (t Type) IsArray() bool { return t&ArrayOf != 0 }

// IsInteger reports whether the base kind stores integers.
func (t Type) IsInteger() bool {
	switch t.Base() {
	case Bool, Int8, UInt8, Int16, UInt16, UInt32, UInt64, Int, Long, Long64, Size:
		return true
	}
	return false
}

// IsFloat reports whether the base kind stores real floating point.
func (t Type) IsFloat() bool {
	switch t.Base() {
	case Float, Double:
		return true
	}
	return false
}

// IsComplex reports whether the base kind stores complex values.
func (t Type) IsComplex() bool {
	switch t.Base() {
	case ComplexFloat, ComplexDouble:
		return true
	}
	return false
}

// IsNumeric reports whether the base kind supports arithmetic.
func (t Type) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat() || t.IsComplex()
}

// storable reports whether t selects a storage arm.
func (t Type) storable() bool {
	switch t.Base() {
	case Int, Long, Long64, Size, Float, Double, ComplexFloat, ComplexDouble, String:
		return true
	}
	return false
}

// ByteSize returns the storage size of one element of t in bytes, or
// 0 for kinds with no fixed-width representation. Array kinds always
// report the size of an array handle regardless of the element kind.
func (t Type) ByteSize() int {
	if t.IsArray() {
		return ptrSize
	}
	switch t {
	case Bool, Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int, UInt32, Float:
		return 4
	case Long, Size:
		return intSize
	case Long64, UInt64, Double, ComplexFloat:
		return 8
	case ComplexDouble:
		return 16
	case String:
		return ptrSize
	}
	return 0
}

const (
	ptrSize = 32 << (^uintptr(0) >> 63) / 8
	intSize = 32 << (^uint(0) >> 63) / 8
)

// String implements fmt.Stringer.
func (t Type) String() string {
	if t.IsArray() {
		return t.Base().String() + " array"
	}
	switch t {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case UInt8:
		return "uint8"
	case Int16:
		return "int16"
	case UInt16:
		return "uint16"
	case UInt32:
		return "uint32"
	case UInt64:
		return "uint64"
	case Int:
		return "int"
	case Long:
		return "long"
	case Long64:
		return "long64"
	case Size:
		return "size"
	case Float:
		return "float"
	case Double:
		return "double"
	case ComplexFloat:
		return "complex float"
	case ComplexDouble:
		return "complex double"
	case String:
		return "string"
	case TypeUnknown:
		return "unknown"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// TypeFromString parses the result of Type.String back into a Type.
// Only storage kinds and their array variants parse.
func TypeFromString(s string) (Type, bool) {
	if base, found := strings.CutSuffix(s, " array"); found {
		t, ok := TypeFromString(base)
		if !ok || t.IsArray() {
			return TypeUnknown, false
		}
		return t | ArrayOf, true
	}
	for _, t := range []Type{Int, Long, Long64, Size, Float, Double, ComplexFloat, ComplexDouble, String} {
		if t.String() == s {
			return t, true
		}
	}
	return TypeUnknown, false
}

// rank orders the numeric kinds for binary-operation promotion.
// Long64 and Size share a rank: both are 64-bit integers.
var rank = map[Type]int{
	Int:           1,
	Long:          2,
	Long64:        3,
	Size:          3,
	Float:         4,
	Double:        5,
	ComplexFloat:  6,
	ComplexDouble: 7,
}

// promote returns the common kind two numeric kinds are widened to
// before a binary operation.
func promote(a, b Type) Type {
	if rank[a] >= rank[b] {
		return a
	}
	return b
}

// saveTypes is the legal-downcast table consulted by SetSaveType:
// the kinds a column of a given storage type may be serialized as.
// Integer kinds may narrow, never cross into floating point.
var saveTypes = map[Type][]Type{
	Int:           {Bool, Int8, UInt8, Int16, Int},
	Long:          {Bool, Int8, UInt8, Int16, UInt16, Int, Long},
	Long64:        {Bool, Int8, UInt8, Int16, UInt16, Int, UInt32, Long, Long64},
	Size:          {Bool, Int8, UInt8, Int16, UInt16, Int, UInt32, Long, Size},
	Float:         {Float},
	Double:        {Float, Double},
	ComplexFloat:  {ComplexFloat},
	ComplexDouble: {ComplexFloat, ComplexDouble},
	String:        {String},
}

// defaultFormat returns the display format assigned to new columns.
func defaultFormat(t Type) string {
	base := t.Base()
	switch {
	case base == String:
		return "%s"
	case base.IsInteger():
		return "%d"
	default:
		return "%e"
	}
}
