// Package normalize implements the normalizer (spec component C): the
// step shared by both grammars that enforces a field or constant's
// literal actually fits the numeric width its declared primitive type
// promises, surfacing an overflow as the same BadLiteral kind a
// malformed literal would raise (spec.md section 4.C). Absolute type
// resolution, constant/field ordering, and Header-alias preservation are
// already enforced at the point each grammar's transformer resolves a
// reference or appends to a descriptor's Fields/Constants slices (see
// msgdef/transform.go and idl/transform.go); this package covers the one
// check neither of those does on its own, since it depends only on the
// schema.PrimitiveType taxonomy and not on anything grammar-specific.
package normalize

import (
	"fmt"
	"math"

	"github.com/ben-z/rosbags/schema"
)

// CheckIntWidth reports a BadLiteral ParseError if n does not fit in p's
// declared bit width and signedness. Non-integer primitives are not this
// function's concern and always pass.
func CheckIntWidth(p schema.PrimitiveType, n int64) error {
	if !p.IsInteger() {
		return nil
	}
	width := p.BitWidth()
	if width == 64 && !p.IsUnsigned() {
		return nil
	}
	if p.IsUnsigned() {
		if n < 0 || (width < 64 && uint64(n) >= uint64(1)<<uint(width)) {
			return overflow(p, n)
		}
		return nil
	}
	max := int64(1)<<uint(width-1) - 1
	min := -(int64(1) << uint(width-1))
	if n < min || n > max {
		return overflow(p, n)
	}
	return nil
}

func overflow(p schema.PrimitiveType, n int64) error {
	return &schema.ParseError{
		Kind: schema.BadLiteral,
		Msg:  fmt.Sprintf("literal %d overflows %s", n, p),
	}
}

// CheckFloatWidth reports a BadLiteral ParseError if f cannot be
// represented as a float32 without overflowing to infinity, for fields
// declared FLOAT32. FLOAT64 always passes.
func CheckFloatWidth(p schema.PrimitiveType, f float64) error {
	if p != schema.FLOAT32 {
		return nil
	}
	if math.IsInf(float64(float32(f)), 0) && !math.IsInf(f, 0) {
		return &schema.ParseError{Kind: schema.BadLiteral, Msg: fmt.Sprintf("literal %v overflows float32", f)}
	}
	return nil
}

// Value checks a single coerced literal against its declared primitive
// type's width, recursing into array defaults element by element.
func Value(t schema.Type, v any) error {
	if t.Array {
		items, ok := v.([]any)
		if !ok {
			return nil
		}
		for _, item := range items {
			if err := Value(*t.Items, item); err != nil {
				return err
			}
		}
		return nil
	}
	switch n := v.(type) {
	case int64:
		return CheckIntWidth(t.Primitive, n)
	case float64:
		return CheckFloatWidth(t.Primitive, n)
	default:
		return nil
	}
}

// Descriptor walks every constant value and field default in desc,
// applying Value to each, so that a width violation surfaces at
// registration time regardless of which grammar produced desc.
func Descriptor(desc *schema.Descriptor) error {
	for _, c := range desc.Constants {
		if err := Value(schema.Type{Primitive: c.Type, SizeBound: c.SizeBound}, c.Value); err != nil {
			return err
		}
	}
	for _, f := range desc.Fields {
		if f.Default == nil {
			continue
		}
		if err := Value(f.Type, f.Default); err != nil {
			return err
		}
	}
	return nil
}
