package msgdef

import (
	"strconv"
	"strings"

	"github.com/ben-z/rosbags/schema"
)

// coerceLiteral parses rawValue per the primitive type p, per spec section
// 4.A: integers accept decimal/hex/octal/binary and signed forms, bool
// accepts true/false/0/1, string takes the raw value with one matching
// pair of surrounding quotes stripped (see unquote).
func coerceLiteral(p schema.PrimitiveType, rawValue string) (any, error) {
	switch {
	case p == schema.BOOL:
		return parseBool(rawValue)
	case p.IsInteger():
		return parseInteger(rawValue)
	case p == schema.FLOAT32 || p == schema.FLOAT64:
		f, err := strconv.ParseFloat(rawValue, 64)
		if err != nil {
			return nil, &schema.ParseError{Kind: schema.BadLiteral, Msg: "bad float literal: " + rawValue}
		}
		return f, nil
	case p == schema.STRING || p == schema.WSTRING:
		return unquote(rawValue), nil
	default:
		return nil, &schema.ParseError{Kind: schema.BadLiteral, Msg: "type has no literal form: " + p.String()}
	}
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, &schema.ParseError{Kind: schema.BadLiteral, Msg: "bad bool literal: " + s}
	}
}

// parseInteger accepts decimal, 0x hex, 0o/0 octal, and 0b binary, with an
// optional leading sign.
func parseInteger(s string) (int64, error) {
	neg := false
	t := s
	if strings.HasPrefix(t, "+") {
		t = t[1:]
	} else if strings.HasPrefix(t, "-") {
		neg = true
		t = t[1:]
	}
	n, err := strconv.ParseInt(t, 0, 64)
	if err != nil {
		// strconv with base 0 already handles 0x/0o/0b/decimal; surface a
		// BadLiteral on failure rather than the raw strconv error.
		return 0, &schema.ParseError{Kind: schema.BadLiteral, Msg: "bad integer literal: " + s}
	}
	if neg {
		n = -n
	}
	return n, nil
}

// unquote strips a single matching pair of leading/trailing quote
// characters (' or "), per spec section 4.A's constant rule: "without
// quote stripping unless both ends are matching quotes."
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// coerceDefault parses a field default literal, which for array types is a
// bracketed, comma-separated literal sequence.
func coerceDefault(t schema.Type, rawDefault string) (any, error) {
	if t.Array {
		raw := strings.TrimSpace(rawDefault)
		if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
			return nil, &schema.ParseError{Kind: schema.MalformedArray, Msg: "array default must be bracketed: " + rawDefault}
		}
		inner := strings.TrimSpace(raw[1 : len(raw)-1])
		if inner == "" {
			return []any{}, nil
		}
		parts := splitTopLevelComma(inner)
		values := make([]any, 0, len(parts))
		for _, part := range parts {
			v, err := coerceScalarDefault(*t.Items, strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	}
	return coerceScalarDefault(t, rawDefault)
}

func coerceScalarDefault(t schema.Type, raw string) (any, error) {
	if t.Primitive == schema.STRING || t.Primitive == schema.WSTRING {
		return unquote(raw), nil
	}
	return coerceLiteral(t.Primitive, raw)
}

// splitTopLevelComma splits s on commas that are not inside a quoted
// string.
func splitTopLevelComma(s string) []string {
	var parts []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case ',':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
