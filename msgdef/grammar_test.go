package msgdef_test

import (
	"testing"

	"github.com/ben-z/rosbags/msgdef"
	"github.com/ben-z/rosbags/schema"
	"github.com/stretchr/testify/require"
)

func TestParseSeparatorRequiresEightyEquals(t *testing.T) {
	short := "string foo\n" + stringsRepeat("=", 79) + "\nMSG: pkg/Bar\nstring s"
	_, err := msgdef.Parse([]byte(short))
	// A 79-character run of '=' isn't a separator, so it's parsed as a
	// (malformed) line instead of starting a new definition, and the parse
	// fails on that line.
	require.Error(t, err)
	var perr *schema.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, schema.UnexpectedToken, perr.Kind)
	require.Equal(t, 2, perr.Line)
}

func stringsRepeat(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func TestParseCommentLineIsSkipped(t *testing.T) {
	ast, err := msgdef.Parse([]byte("# a comment\nstring foo\n"))
	require.NoError(t, err)
	require.Len(t, ast.Primary.Elements, 1)
}

func TestParseMalformedArrayFails(t *testing.T) {
	_, err := msgdef.Parse([]byte("string[abc] foo"))
	require.Error(t, err)
	var perr *schema.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, schema.MalformedArray, perr.Kind)
}

func TestParseDuplicateFieldFails(t *testing.T) {
	_, _, err := msgdef.ParseROS1MessageDefinition("pkg", "Dup", []byte("string foo\nint32 foo"))
	require.Error(t, err)
	var perr *schema.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, schema.DuplicateField, perr.Kind)
}
