// Package idl implements the IDL grammar (spec component B): a lexer and
// participle grammar for the OMG IDL subset used by bag2 message
// definitions (module/struct/typedef/const, sequence/string/wstring with
// bounds, and @verbatim/@default/@range annotations), grounded on dp3's
// util/ros2msg/msg_grammar.go participle lexer/grammar idiom, extended
// with module/struct nesting and annotations the way
// original_source/rosbags/typesys/idl.py's grammar does.
package idl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// nolint:gochecknoglobals
var (
	Lexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "CommentBlock", Pattern: `/\*[\s\S]*?\*/`},
		{Name: "CommentLine", Pattern: `//[^\n]*`},
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
		{Name: "Float", Pattern: `[+-]?[0-9]+\.[0-9]+`},
		{Name: "Integer", Pattern: `[+-]?[0-9]+`},
		{Name: "Scope", Pattern: `::`},
		{Name: "Whitespace", Pattern: `[ \t\n\r]+`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "LBrace", Pattern: `\{`},
		{Name: "RBrace", Pattern: `\}`},
		{Name: "LBracket", Pattern: `\[`},
		{Name: "RBracket", Pattern: `\]`},
		{Name: "LParen", Pattern: `\(`},
		{Name: "RParen", Pattern: `\)`},
		{Name: "LAngle", Pattern: `<`},
		{Name: "RAngle", Pattern: `>`},
		{Name: "Semicolon", Pattern: `;`},
		{Name: "Comma", Pattern: `,`},
		{Name: "Equals", Pattern: `=`},
		{Name: "At", Pattern: `@`},
	})

	Parser = participle.MustBuild[Document](
		participle.Lexer(Lexer),
		participle.Elide("CommentBlock", "CommentLine", "Whitespace"),
		participle.UseLookahead(1000),
	)
)

// Document is the top level of one .idl file: a sequence of modules,
// structs, consts, and typedefs (spec section 4.B allows const/typedef at
// any nesting level the same as module/struct).
type Document struct {
	Items []*ModuleItem `parser:"@@*"`
}

// ModuleItem is one declaration found inside a module or at the top
// level.
type ModuleItem struct {
	Module  *ModuleDecl  `parser:"@@"`
	Struct  *StructDecl  `parser:"| @@"`
	Const   *ConstDecl   `parser:"| @@"`
	Typedef *TypedefDecl `parser:"| @@"`
}

// ModuleDecl is "module Name { ...items... };".
type ModuleDecl struct {
	Name  string        `parser:"'module' @Ident '{'"`
	Items []*ModuleItem `parser:"@@* '}' ';'"`
}

// StructDecl is "[annotations] struct Name { ...members... };".
type StructDecl struct {
	Annotations []*Annotation `parser:"@@*"`
	Name        string        `parser:"'struct' @Ident '{'"`
	Members     []*Member     `parser:"@@* '}' ';'"`
}

// Member is one struct field: "[annotations] Type name [N];".
type Member struct {
	Annotations []*Annotation `parser:"@@*"`
	Type        *TypeSpec     `parser:"@@"`
	Name        string        `parser:"@Ident"`
	Array       *ArraySpec    `parser:"@@? ';'"`
}

// ArraySpec is a fixed-length array bound written "[N]" after a member
// name.
type ArraySpec struct {
	FixedSize int64 `parser:"'[' @Integer ']'"`
}

// ConstDecl is "const Type Name = Value;".
type ConstDecl struct {
	Type  *TypeSpec `parser:"'const' @@"`
	Name  string    `parser:"@Ident '='"`
	Value *Value    `parser:"@@ ';'"`
}

// TypedefDecl is "typedef Type Name;", introducing an alias resolved at
// transform time wherever Name is later used as a type.
type TypedefDecl struct {
	Type *TypeSpec `parser:"'typedef' @@"`
	Name string    `parser:"@Ident ';'"`
}

// TypeSpec is one of a templated sequence, a bounded string/wstring, or a
// (possibly scoped) name -- primitive keyword, typedef alias, or struct
// reference.
type TypeSpec struct {
	Sequence *SequenceSpec `parser:"@@"`
	Bounded  *BoundedSpec  `parser:"| @@"`
	Name     *ScopedName   `parser:"| @@"`
}

// SequenceSpec is "sequence<Type>" or "sequence<Type, N>".
type SequenceSpec struct {
	Item  *TypeSpec `parser:"'sequence' '<' @@"`
	Bound *int64    `parser:"( ',' @Integer )? '>'"`
}

// BoundedSpec is "string<N>" or "wstring<N>". Participle's lookahead
// backtracks to ScopedName when no '<' follows the identifier, so plain
// "string"/"wstring" (and any other identifier) fall through correctly.
type BoundedSpec struct {
	Keyword string `parser:"@Ident '<'"`
	Bound   int64  `parser:"@Integer '>'"`
}

// ScopedName is a (possibly "::"-qualified) identifier.
type ScopedName struct {
	Parts []string `parser:"@Ident (Scope @Ident)*"`
}

// Annotation is "@name" or "@name(arg=val, ...)".
type Annotation struct {
	Name string          `parser:"At @Ident"`
	Args []AnnotationArg `parser:"( '(' @@ (',' @@)* ')' )?"`
}

// AnnotationArg is one "name=value" pair inside an annotation's
// parentheses.
type AnnotationArg struct {
	Name  string `parser:"@Ident Equals"`
	Value *Value `parser:"@@"`
}

// Value is a literal: a quoted string, a float, an integer, or a bare
// identifier (covers true/false and typedef/const references).
type Value struct {
	String *string  `parser:"@String"`
	Float  *float64 `parser:"| @Float"`
	Int    *int64   `parser:"| @Integer"`
	Ident  *string  `parser:"| @Ident"`
}

// Parse lexes and parses raw IDL text into a Document.
func Parse(data []byte) (*Document, error) {
	return Parser.ParseBytes("", data)
}
