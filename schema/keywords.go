package schema

// goKeywords is the Go reserved-word set a message field name might
// collide with (original_source/rosbags/typesys/base.py's FIELDDEFS
// keyword table does the equivalent for Python's reserved words).
// nolint:gochecknoglobals
var goKeywords = map[string]bool{
	"break": true, "default": true, "func": true, "interface": true, "select": true,
	"case": true, "defer": true, "go": true, "map": true, "struct": true,
	"chan": true, "else": true, "goto": true, "package": true, "switch": true,
	"const": true, "fallthrough": true, "if": true, "range": true, "type": true,
	"continue": true, "for": true, "import": true, "return": true, "var": true,
}

// GoFieldKey returns the map key a decoded message uses for a field named
// name: the name unchanged, unless it collides with a Go reserved word, in
// which case a trailing underscore disambiguates it for callers that treat
// the decoded map as struct-like access. Descriptor.Field.Name itself is
// never altered; only the generic decoded-message map keys are.
func GoFieldKey(name string) string {
	if goKeywords[name] {
		return name + "_"
	}
	return name
}
