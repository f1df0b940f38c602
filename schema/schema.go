// Package schema defines the canonical type descriptor that every grammar,
// hasher, typestore, and codec in this module ultimately reads or produces.
// Nothing in this package parses text or bytes; it is pure data modeling.
package schema

// PrimitiveType enumerates the base scalar types shared by both wire
// formats. Values mirror the primitives named in spec section 3.
type PrimitiveType int

const (
	INT8 PrimitiveType = iota + 1
	INT16
	INT32
	INT64
	UINT8
	UINT16
	UINT32
	UINT64
	FLOAT32
	FLOAT64
	STRING
	WSTRING
	BOOL
	TIME
	DURATION
	CHAR
	BYTE
	OCTET
)

// String returns the canonical spelling used in .msg text and hash input.
func (p PrimitiveType) String() string {
	switch p {
	case INT8:
		return "int8"
	case INT16:
		return "int16"
	case INT32:
		return "int32"
	case INT64:
		return "int64"
	case UINT8:
		return "uint8"
	case UINT16:
		return "uint16"
	case UINT32:
		return "uint32"
	case UINT64:
		return "uint64"
	case FLOAT32:
		return "float32"
	case FLOAT64:
		return "float64"
	case STRING:
		return "string"
	case WSTRING:
		return "wstring"
	case BOOL:
		return "bool"
	case TIME:
		return "time"
	case DURATION:
		return "duration"
	case CHAR:
		return "char"
	case BYTE:
		return "byte"
	case OCTET:
		return "octet"
	default:
		return "unknown"
	}
}

// IsInteger reports whether p is one of the signed or unsigned integer
// primitives (used by the normalizer's default-literal coercion).
func (p PrimitiveType) IsInteger() bool {
	switch p {
	case INT8, INT16, INT32, INT64, UINT8, UINT16, UINT32, UINT64, BYTE, OCTET, CHAR:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether p's integer range is non-negative only.
func (p PrimitiveType) IsUnsigned() bool {
	switch p {
	case UINT8, UINT16, UINT32, UINT64, BYTE, OCTET, CHAR:
		return true
	default:
		return false
	}
}

// BitWidth returns the width in bits of an integer or float primitive (and
// 8 for bool), or zero for primitives with no fixed numeric width (string,
// wstring, time, duration).
func (p PrimitiveType) BitWidth() int {
	switch p {
	case INT8, UINT8, BYTE, OCTET, CHAR, BOOL:
		return 8
	case INT16, UINT16:
		return 16
	case INT32, UINT32, FLOAT32:
		return 32
	case INT64, UINT64, FLOAT64:
		return 64
	default:
		return 0
	}
}

// Kind distinguishes a full message descriptor from a constants-only
// pseudo-message (spec section 3: "enum-of-constants-only").
type Kind int

const (
	KindMessage Kind = iota
	KindConstModule
)

// Type is the sum type for a field's shape: primitive, nameref, array, or
// sequence (spec section 3 Type-spec). Exactly one of Primitive/Ref/Array
// is meaningful per the flags below; Array==true && FixedSize==0 means an
// unbounded sequence, Array==true && Bounded means a sequence with upper
// bound FixedSize, and a bounded string carries its bound in SizeBound
// (with Array false).
type Type struct {
	// Primitive is set when this type is a base(T) type-spec.
	Primitive PrimitiveType

	// Ref is set when this type is a nameref(QName); it holds the fully
	// qualified name of another registered type.
	Ref string

	// SizeBound is the `<=N` bound on a string/wstring primitive. Zero
	// means "no bound present". Sequence bounds are not stored here; see
	// FixedSize below.
	SizeBound int

	// Array marks this type as array(element, length) or
	// sequence(element, upper?). FixedSize > 0 with Bounded == false is
	// array(element, FixedSize). FixedSize == 0 with Bounded == false is
	// an unbounded sequence. Bounded == true means a sequence with upper
	// bound FixedSize; the grammars, codecs, hashers and emitter all read
	// the sequence bound from FixedSize.
	Array     bool
	FixedSize int
	Bounded   bool
	Items     *Type
}

// IsPrimitive reports whether this is a plain base(T) type-spec (no array,
// no nameref).
func (t Type) IsPrimitive() bool {
	return t.Primitive > 0 && !t.Array && t.Ref == ""
}

// IsRef reports whether this is a nameref(QName) type-spec.
func (t Type) IsRef() bool {
	return t.Ref != "" && !t.Array
}

// Field is one member of a message's ordered field list.
type Field struct {
	Name string
	Type Type

	// Default holds a coerced literal (nil, bool, int64, float64,
	// string, or []any for array defaults) or nil if the field has none.
	Default any

	// Range, when non-nil, carries an IDL @range annotation's bounds.
	// Not enforced by the codecs (see SPEC_FULL.md section 5); kept for
	// completeness of the descriptor.
	Range *Range
}

// Range is an inclusive [Min, Max] numeric bound recovered from an IDL
// @range annotation.
type Range struct {
	Min, Max float64
}

// Constant is a named compile-time value attached to a message (or, for a
// KindConstModule descriptor, the entirety of its content).
type Constant struct {
	Name      string
	Type      PrimitiveType
	SizeBound int
	Value     any // bool, int64, float64, or string
}

// Descriptor is the canonical, typestore-interned representation of one
// message type (spec section 3).
type Descriptor struct {
	Name      string // fully-qualified package/sub/Name
	Kind      Kind
	Fields    []Field
	Constants []Constant

	// VerbatimMsgText is the original ROS1 .msg source recovered from an
	// IDL "@verbatim (language=\"comment\", text=...)" block, when the
	// defining .idl file carried one. When present, component D's MD5
	// hash is computed from this text directly instead of from a
	// re-derived .msg rendering, the way original_source/rosbags/typesys
	// recovers msgdef text embedded by rosidl for backward compatibility.
	VerbatimMsgText string
}

// HeaderTypeName is the fully-qualified name of the well-known message
// whose shape differs between wire1 and CDR (spec section 3 invariant 5).
const HeaderTypeName = "std_msgs/msg/Header"
