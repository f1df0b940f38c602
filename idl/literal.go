package idl

import (
	"strconv"

	"github.com/ben-z/rosbags/schema"
)

// coerce converts a parsed Value into a Go literal consistent with the
// value kind implied by the surrounding primitive type, mirroring
// msgdef.coerceLiteral's contract but starting from an already-typed AST
// node instead of raw text.
func coerce(p schema.PrimitiveType, v *Value) (any, error) {
	switch {
	case v == nil:
		return nil, nil
	case v.String != nil:
		s, err := unquote(*v.String)
		if err != nil {
			return nil, &schema.ParseError{Kind: schema.BadLiteral, Msg: "bad string literal: " + *v.String}
		}
		return s, nil
	case v.Float != nil:
		return *v.Float, nil
	case v.Int != nil:
		if p == schema.FLOAT32 || p == schema.FLOAT64 {
			return float64(*v.Int), nil
		}
		return *v.Int, nil
	case v.Ident != nil:
		switch *v.Ident {
		case "TRUE", "true":
			return true, nil
		case "FALSE", "false":
			return false, nil
		default:
			return *v.Ident, nil
		}
	default:
		return nil, &schema.ParseError{Kind: schema.BadLiteral, Msg: "empty value"}
	}
}

// unquote decodes a quoted IDL string literal's escapes via Go's own
// double-quoted string syntax, which is a superset of the C-style escapes
// IDL string literals use.
func unquote(raw string) (string, error) {
	s, err := strconv.Unquote(raw)
	if err != nil {
		return "", err
	}
	return s, nil
}
