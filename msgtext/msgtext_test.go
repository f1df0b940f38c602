package msgtext_test

import (
	"testing"

	"github.com/ben-z/rosbags/msgtext"
	"github.com/ben-z/rosbags/schema"
	"github.com/stretchr/testify/require"
)

type fakeStore map[string]*schema.Descriptor

func (f fakeStore) Lookup(name string) (*schema.Descriptor, bool) {
	d, ok := f[name]
	return d, ok
}

func TestEmitPrimitiveOnly(t *testing.T) {
	store := fakeStore{
		"test/msg/Point": {
			Name: "test/msg/Point",
			Fields: []schema.Field{
				{Name: "x", Type: schema.Type{Primitive: schema.FLOAT64}},
				{Name: "y", Type: schema.Type{Primitive: schema.FLOAT64}},
			},
		},
	}
	out, err := msgtext.Emit(store, "test/msg/Point")
	require.NoError(t, err)
	require.Equal(t, "float64 x\nfloat64 y\n", out)
}

func TestEmitWithDependencyBundle(t *testing.T) {
	store := fakeStore{
		"std_msgs/msg/Header": {
			Name: "std_msgs/msg/Header",
			Fields: []schema.Field{
				{Name: "seq", Type: schema.Type{Primitive: schema.UINT32}},
				{Name: "frame_id", Type: schema.Type{Primitive: schema.STRING}},
			},
		},
		"test/msg/Scan": {
			Name: "test/msg/Scan",
			Fields: []schema.Field{
				{Name: "header", Type: schema.Type{Ref: "std_msgs/msg/Header"}},
			},
		},
	}
	out, err := msgtext.Emit(store, "test/msg/Scan")
	require.NoError(t, err)
	require.Equal(t, "Header header\n"+
		"================================================================================\n"+
		"MSG: std_msgs/Header\n"+
		"uint32 seq\nstring frame_id\n", out)
}

func TestEmitConstantsAndArrays(t *testing.T) {
	store := fakeStore{
		"test/msg/Thing": {
			Name:      "test/msg/Thing",
			Constants: []schema.Constant{{Name: "FOO", Type: schema.INT32, Value: int64(1)}},
			Fields: []schema.Field{
				{Name: "xs", Type: schema.Type{Array: true, FixedSize: 3, Items: &schema.Type{Primitive: schema.FLOAT32}}},
				{Name: "ys", Type: schema.Type{Array: true, Items: &schema.Type{Primitive: schema.INT32}}},
			},
		},
	}
	out, err := msgtext.Emit(store, "test/msg/Thing")
	require.NoError(t, err)
	require.Equal(t, "int32 FOO=1\nfloat32[3] xs\nint32[] ys\n", out)
}

func TestEmitUnknownTypeFails(t *testing.T) {
	_, err := msgtext.Emit(fakeStore{}, "missing/msg/Foo")
	require.Error(t, err)
	require.ErrorIs(t, err, &schema.UnknownTypeError{})
}
