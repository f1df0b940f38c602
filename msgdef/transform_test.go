package msgdef_test

import (
	"strings"
	"testing"

	"github.com/ben-z/rosbags/msgdef"
	"github.com/ben-z/rosbags/schema"
	"github.com/stretchr/testify/require"
)

func primitiveType(t schema.PrimitiveType) schema.Type {
	return schema.Type{Primitive: t}
}

func TestTransform(t *testing.T) {
	cases := []struct {
		assertion string
		msgdef    string
		fields    []schema.Field
	}{
		{
			"primitive",
			"string foo",
			[]schema.Field{{Name: "foo", Type: primitiveType(schema.STRING)}},
		},
		{
			"primitive with default value",
			`string foo "bar"`,
			[]schema.Field{{Name: "foo", Type: primitiveType(schema.STRING), Default: "bar"}},
		},
		{
			"primitive with integer default value",
			`int32 foo 42`,
			[]schema.Field{{Name: "foo", Type: primitiveType(schema.INT32), Default: int64(42)}},
		},
		{
			"primitive with float default value",
			`float32 foo 3.14`,
			[]schema.Field{{Name: "foo", Type: primitiveType(schema.FLOAT32), Default: 3.14}},
		},
		{
			"fixed-length primitive array",
			"string[10] foo",
			[]schema.Field{{Name: "foo", Type: schema.Type{Array: true, FixedSize: 10, Items: &schema.Type{Primitive: schema.STRING}}}},
		},
		{
			"bounded length array",
			"string[<=10] foo",
			[]schema.Field{{Name: "foo", Type: schema.Type{Array: true, FixedSize: 10, Bounded: true, Items: &schema.Type{Primitive: schema.STRING}}}},
		},
		{
			"size bounded field with bounded length array",
			"string<=10[<=10] foo",
			[]schema.Field{{Name: "foo", Type: schema.Type{
				Array: true, FixedSize: 10, Bounded: true,
				Items: &schema.Type{Primitive: schema.STRING, SizeBound: 10},
			}}},
		},
		{
			"bounded length string field",
			"string<=10 foo",
			[]schema.Field{{Name: "foo", Type: schema.Type{Primitive: schema.STRING, SizeBound: 10}}},
		},
		{
			"array default",
			"int32[] xs [1, 2, 3]",
			[]schema.Field{{
				Name:    "xs",
				Type:    schema.Type{Array: true, Items: &schema.Type{Primitive: schema.INT32}},
				Default: []any{int64(1), int64(2), int64(3)},
			}},
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			desc, deps, err := msgdef.ParseROS1MessageDefinition("test", "Test", []byte(c.msgdef))
			require.NoError(t, err)
			require.Empty(t, deps)
			require.Equal(t, "test/msg/Test", desc.Name)
			require.Equal(t, c.fields, desc.Fields)
		})
	}
}

func TestTransformSubdependencies(t *testing.T) {
	msg := strings.TrimSpace(`
Header header
================================================================================
MSG: std_msgs/Header
uint32 seq
time stamp
string frame_id
`)
	desc, deps, err := msgdef.ParseROS1MessageDefinition("test", "Test", []byte(msg))
	require.NoError(t, err)
	require.Equal(t, []schema.Field{
		{Name: "header", Type: schema.Type{Ref: "std_msgs/msg/Header"}},
	}, desc.Fields)
	require.Len(t, deps, 1)
	require.Equal(t, "std_msgs/msg/Header", deps[0].Name)
	require.Equal(t, []schema.Field{
		{Name: "seq", Type: primitiveType(schema.UINT32)},
		{Name: "stamp", Type: primitiveType(schema.TIME)},
		{Name: "frame_id", Type: primitiveType(schema.STRING)},
	}, deps[0].Fields)
}

func TestTransformConstants(t *testing.T) {
	msg := "string FOO=hello # world"
	desc, _, err := msgdef.ParseROS1MessageDefinition("test", "Test", []byte(msg))
	require.NoError(t, err)
	require.Equal(t, []schema.Constant{
		{Name: "FOO", Type: schema.STRING, Value: "hello # world"},
	}, desc.Constants)
}

func TestTransformConstantNumericForms(t *testing.T) {
	cases := []struct {
		assertion string
		msgdef    string
		expected  any
	}{
		{"decimal", "int32 X=42", int64(42)},
		{"hex", "int32 X=0x2A", int64(42)},
		{"octal", "int32 X=0o52", int64(42)},
		{"binary", "int32 X=0b101010", int64(42)},
		{"negative", "int32 X=-5", int64(-5)},
		{"bool true", "bool X=true", true},
		{"bool zero", "bool X=0", false},
		{"trailing comment", "int32 X=5 # five", int64(5)},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			desc, _, err := msgdef.ParseROS1MessageDefinition("test", "Test", []byte(c.msgdef))
			require.NoError(t, err)
			require.Len(t, desc.Constants, 1)
			require.Equal(t, c.expected, desc.Constants[0].Value)
		})
	}
}

func TestTransformDuplicateDependencyIsDeduped(t *testing.T) {
	msg := strings.TrimSpace(`
Header a
Header b
================================================================================
MSG: std_msgs/Header
uint32 seq
`)
	_, deps, err := msgdef.ParseROS1MessageDefinition("test", "Test", []byte(msg))
	require.NoError(t, err)
	require.Len(t, deps, 1)
}

func TestTransformUnknownTypeFails(t *testing.T) {
	_, _, err := msgdef.ParseROS1MessageDefinition("test", "Test", []byte("Missing foo"))
	require.Error(t, err)
	require.ErrorIs(t, err, &schema.UnknownTypeError{})
}
