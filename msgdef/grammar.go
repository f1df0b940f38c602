// Package msgdef implements the MSG grammar (spec component A): a
// line-oriented lexer/parser for ROS1-style .msg text. Unlike the IDL
// grammar (package idl), MSG text is parsed line-by-line rather than with a
// token-stream grammar: each line is independently either a comment, a
// constant, a field, or a `====` separator, and a string constant's value
// must capture the literal remainder of the line (including any `#`)
// without going through a comment-eliding tokenizer. This mirrors dp3's
// util/ros1msg/grammar.go AST shape (Header/Definition/ROSField/Constant)
// but replaces dp3's participle lexer with a hand-rolled scanner, in the
// style of dp3's own hand-rolled util/ros1msg/parser.go, because a
// context-free token lexer cannot express "elide comments, except inside a
// string constant's value" (see DESIGN.md).
package msgdef

import (
	"strings"

	"github.com/ben-z/rosbags/schema"
)

// separatorRune is the character a bundle separator line consists of.
const separatorRune = '='

// minSeparatorLen is the minimum run length of separatorRune that counts as
// a bundle separator (spec section 4.A: "≥80 `=`").
const minSeparatorLen = 80

// FieldElem is one field declaration parsed from a line.
type FieldElem struct {
	Type       TypeSpec
	Name       string
	HasDefault bool
	RawDefault string
}

// ConstantElem is one constant declaration parsed from a line.
type ConstantElem struct {
	Type     TypeSpec
	Name     string
	RawValue string
}

// Element is a field or a constant; exactly one of Field/Constant is set.
type Element struct {
	Field    *FieldElem
	Constant *ConstantElem
}

// TypeSpec is the raw, unresolved type written on one line.
type TypeSpec struct {
	Name string // bare name, possibly containing '/'

	// SizeBound is the `<=N` on a string/wstring primitive itself (e.g.
	// "string<=10"), independent of any array bound.
	HasSizeBound bool
	SizeBound    int

	// Array/FixedSize/SeqBounded describe a trailing "[...]":
	// "[]"     -> Array, FixedSize==0, SeqBounded==false (unbounded sequence)
	// "[N]"    -> Array, FixedSize==N, SeqBounded==false (fixed array)
	// "[<=N]"  -> Array, FixedSize==N, SeqBounded==true  (bounded sequence)
	Array      bool
	FixedSize  int
	SeqBounded bool
}

// Definition is one message body: the primary type, or one dependency type
// introduced after a separator and a "MSG: pkg/Name" header.
type Definition struct {
	Header   string // raw header text for a dependency; "" for the primary
	Elements []Element
}

// AST is the parsed, unresolved shape of an entire .msg bundle: the primary
// definition followed by zero or more dependency definitions.
type AST struct {
	Primary      Definition
	Dependencies []Definition
}

// Parse lexes and parses raw MSG text into an AST, without resolving
// namerefs or coercing literals (see transform.go for that step).
func Parse(data []byte) (*AST, error) {
	lines := splitLines(string(data))

	ast := &AST{}
	current := &ast.Primary
	lineNo := 0
	for _, raw := range lines {
		lineNo++
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		if isSeparator(trimmed) {
			ast.Dependencies = append(ast.Dependencies, Definition{})
			current = &ast.Dependencies[len(ast.Dependencies)-1]
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if header, ok := parseHeader(trimmed); ok {
			current.Header = header
			continue
		}
		elem, err := parseLine(trimmed, lineNo)
		if err != nil {
			return nil, err
		}
		if elem != nil {
			current.Elements = append(current.Elements, *elem)
		}
	}
	return ast, nil
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

func isSeparator(trimmed string) bool {
	if len(trimmed) < minSeparatorLen {
		return false
	}
	for _, r := range trimmed {
		if r != separatorRune {
			return false
		}
	}
	return true
}

// parseHeader recognizes a dependency section header of the form
// "MSG: pkg/Name" (or deeper qualified names).
func parseHeader(trimmed string) (string, bool) {
	const prefix = "MSG:"
	if !strings.HasPrefix(trimmed, prefix) {
		return "", false
	}
	rest := strings.TrimSpace(trimmed[len(prefix):])
	if rest == "" {
		return "", false
	}
	return rest, true
}

// parseLine parses one non-comment, non-separator, non-header line into a
// field or constant element.
func parseLine(trimmed string, lineNo int) (*Element, error) {
	typeTok, rest, ok := cutToken(trimmed)
	if !ok {
		return nil, &schema.ParseError{Kind: schema.UnexpectedToken, Line: lineNo, Msg: "expected a type"}
	}
	spec, err := parseTypeSpec(typeTok, lineNo)
	if err != nil {
		return nil, err
	}

	rest = strings.TrimLeft(rest, " \t")
	name, afterName := cutName(rest)
	if name == "" {
		return nil, &schema.ParseError{Kind: schema.UnexpectedToken, Line: lineNo, Msg: "expected a field or constant name"}
	}

	afterName = strings.TrimLeft(afterName, " \t")
	if strings.HasPrefix(afterName, "=") {
		valueRaw := afterName[1:]
		if spec.Array || spec.Name == "" {
			return nil, &schema.ParseError{Kind: schema.UnexpectedToken, Line: lineNo, Msg: "constants must have a primitive type"}
		}
		if isStringTypeName(spec.Name) {
			valueRaw = strings.TrimSpace(valueRaw)
		} else {
			valueRaw = strings.TrimSpace(stripCommentOutsideQuotes(valueRaw))
		}
		return &Element{Constant: &ConstantElem{Type: spec, Name: name, RawValue: valueRaw}}, nil
	}

	defaultRaw := strings.TrimSpace(stripCommentOutsideQuotes(afterName))
	return &Element{Field: &FieldElem{
		Type:       spec,
		Name:       name,
		HasDefault: defaultRaw != "",
		RawDefault: defaultRaw,
	}}, nil
}

// cutToken returns the first whitespace-delimited token of s and the
// remainder (including its leading whitespace).
func cutToken(s string) (tok string, rest string, ok bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	j := i
	for j < len(s) && s[j] != ' ' && s[j] != '\t' {
		j++
	}
	if j == i {
		return "", s, false
	}
	return s[i:j], s[j:], true
}

// cutName returns the identifier at the start of s (stopping at whitespace
// or '=', since "NAME=VALUE" may have no space before '=') and the
// remainder.
func cutName(s string) (name string, rest string) {
	j := 0
	for j < len(s) && s[j] != ' ' && s[j] != '\t' && s[j] != '=' {
		j++
	}
	return s[:j], s[j:]
}

func isStringTypeName(name string) bool {
	return name == "string" || name == "wstring" || strings.HasPrefix(name, "string<=") || strings.HasPrefix(name, "wstring<=")
}

// stripCommentOutsideQuotes truncates s at the first '#' that is not
// enclosed in a matching pair of quote characters.
func stripCommentOutsideQuotes(s string) string {
	var quote byte
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
		case '#':
			return s[:i]
		}
	}
	return s
}

// parseTypeSpec parses a single contiguous type token such as "int32",
// "string<=10", "pkg/Foo[3]", or "string<=10[<=5]".
func parseTypeSpec(tok string, lineNo int) (TypeSpec, error) {
	spec := TypeSpec{}

	name, rest := tok, ""
	if i := strings.IndexByte(tok, '['); i >= 0 {
		name, rest = tok[:i], tok[i:]
	}

	if i := strings.Index(name, "<="); i >= 0 {
		bound, err := parseUint(name[i+2:])
		if err != nil {
			return spec, &schema.ParseError{Kind: schema.MalformedArray, Line: lineNo, Msg: "bad size bound: " + name}
		}
		spec.HasSizeBound = true
		spec.SizeBound = bound
		name = name[:i]
	}
	spec.Name = name

	if rest != "" {
		if !strings.HasSuffix(rest, "]") {
			return spec, &schema.ParseError{Kind: schema.MalformedArray, Line: lineNo, Msg: "malformed array bound: " + rest}
		}
		inner := rest[1 : len(rest)-1]
		spec.Array = true
		switch {
		case inner == "":
			// unbounded sequence
		case strings.HasPrefix(inner, "<="):
			n, err := parseUint(inner[2:])
			if err != nil {
				return spec, &schema.ParseError{Kind: schema.MalformedArray, Line: lineNo, Msg: "bad sequence bound: " + rest}
			}
			spec.SeqBounded = true
			spec.FixedSize = n
		default:
			n, err := parseUint(inner)
			if err != nil {
				return spec, &schema.ParseError{Kind: schema.MalformedArray, Line: lineNo, Msg: "bad array length: " + rest}
			}
			spec.FixedSize = n
		}
	}
	return spec, nil
}

func parseUint(s string) (int, error) {
	if s == "" {
		return 0, &schema.ParseError{Kind: schema.BadLiteral, Msg: "empty integer"}
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, &schema.ParseError{Kind: schema.BadLiteral, Msg: "not a non-negative integer: " + s}
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
