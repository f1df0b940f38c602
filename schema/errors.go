package schema

import "fmt"

/*
Flat error taxonomy shared by every component in this module (spec section
7). Each kind is its own type so that callers can use errors.Is/errors.As
against a specific kind, following the typed-error-with-Is pattern the
teacher uses in util/ros1msg/errors.go, centralized here because the
taxonomy is explicitly part of this module's external contract rather than
an implementation detail of any one package.
*/

////////////////////////////////////////////////////////////////////////////////

// ParseErrorKind enumerates the distinct ways MSG/IDL text can be malformed.
type ParseErrorKind int

const (
	UnknownType ParseErrorKind = iota + 1
	BadLiteral
	DuplicateField
	MalformedArray
	UnexpectedToken
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnknownType:
		return "UnknownType"
	case BadLiteral:
		return "BadLiteral"
	case DuplicateField:
		return "DuplicateField"
	case MalformedArray:
		return "MalformedArray"
	case UnexpectedToken:
		return "UnexpectedToken"
	default:
		return "Unknown"
	}
}

// ParseError reports a malformed MSG or IDL definition with its source
// position.
type ParseError struct {
	Kind ParseErrorKind
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d, col %d: %s", e.Kind, e.Line, e.Col, e.Msg)
}

func (e *ParseError) Is(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}

// TypeConflictError reports an incompatible re-registration of an existing
// type name (spec section 4.E collision policy).
type TypeConflictError struct {
	Name string
}

func (e *TypeConflictError) Error() string {
	return fmt.Sprintf("type conflict: %q already registered with a different descriptor", e.Name)
}

func (e *TypeConflictError) Is(err error) bool {
	_, ok := err.(*TypeConflictError)
	return ok
}

// UnknownTypeError reports a nameref with no registration in the
// typestore's transitive closure.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type: %q", e.Name)
}

func (e *UnknownTypeError) Is(err error) bool {
	_, ok := err.(*UnknownTypeError)
	return ok
}

// TruncatedError reports wire bytes that ended mid-field.
type TruncatedError struct {
	Field string
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated while reading %s", e.Field)
}

func (e *TruncatedError) Is(err error) bool {
	_, ok := err.(*TruncatedError)
	return ok
}

// OverlongError reports trailing bytes left over after a fully parsed
// message. cdr.Deserialize raises it only when called with strict set;
// wire1.Deserialize has no lenient mode and always raises it.
type OverlongError struct {
	Remaining int
}

func (e *OverlongError) Error() string {
	return fmt.Sprintf("overlong: %d trailing bytes", e.Remaining)
}

func (e *OverlongError) Is(err error) bool {
	_, ok := err.(*OverlongError)
	return ok
}

// BoundViolationError reports a string or sequence that exceeded its
// declared bound.
type BoundViolationError struct {
	Field string
	Bound int
	Got   int
}

func (e *BoundViolationError) Error() string {
	return fmt.Sprintf("%s exceeds bound %d (got %d)", e.Field, e.Bound, e.Got)
}

func (e *BoundViolationError) Is(err error) bool {
	_, ok := err.(*BoundViolationError)
	return ok
}

// EncodingErr reports invalid UTF-8 in a string/wstring value passed to an
// encoder.
type EncodingErr struct {
	Field string
}

func (e *EncodingErr) Error() string {
	return fmt.Sprintf("invalid UTF-8 in %s", e.Field)
}

func (e *EncodingErr) Is(err error) bool {
	_, ok := err.(*EncodingErr)
	return ok
}

// TypeMismatchError reports that a value handed to an encoder is not the Go
// type its declared schema primitive requires (e.g. a string where a bool
// was expected). This is a programming error at the caller boundary, not a
// wire-format or literal-content defect, so it is kept distinct from the
// spec's EncodingError taxonomy entry.
type TypeMismatchError struct {
	Field    string
	Expected string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got incompatible value", e.Field, e.Expected)
}

func (e *TypeMismatchError) Is(err error) bool {
	_, ok := err.(*TypeMismatchError)
	return ok
}
