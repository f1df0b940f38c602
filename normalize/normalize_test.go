package normalize_test

import (
	"testing"

	"github.com/ben-z/rosbags/normalize"
	"github.com/ben-z/rosbags/schema"
	"github.com/stretchr/testify/require"
)

func TestCheckIntWidthInRangePasses(t *testing.T) {
	require.NoError(t, normalize.CheckIntWidth(schema.INT8, 100))
	require.NoError(t, normalize.CheckIntWidth(schema.UINT8, 255))
	require.NoError(t, normalize.CheckIntWidth(schema.INT64, -9223372036854775808))
	require.NoError(t, normalize.CheckIntWidth(schema.BOOL, 200))
}

func TestCheckIntWidthSignedOverflow(t *testing.T) {
	err := normalize.CheckIntWidth(schema.INT8, 200)
	require.Error(t, err)
	require.ErrorIs(t, err, &schema.ParseError{Kind: schema.BadLiteral})

	require.NoError(t, normalize.CheckIntWidth(schema.INT8, 127))
	require.NoError(t, normalize.CheckIntWidth(schema.INT8, -128))
	require.Error(t, normalize.CheckIntWidth(schema.INT8, 128))
	require.Error(t, normalize.CheckIntWidth(schema.INT8, -129))
}

func TestCheckIntWidthUnsignedOverflow(t *testing.T) {
	require.Error(t, normalize.CheckIntWidth(schema.UINT8, 300))
	require.Error(t, normalize.CheckIntWidth(schema.UINT8, -1))
	require.NoError(t, normalize.CheckIntWidth(schema.UINT32, 4294967295))
	require.Error(t, normalize.CheckIntWidth(schema.UINT32, 4294967296))
}

func TestCheckFloatWidthOverflow(t *testing.T) {
	require.NoError(t, normalize.CheckFloatWidth(schema.FLOAT64, 1e300))
	require.NoError(t, normalize.CheckFloatWidth(schema.FLOAT32, 3.14))
	err := normalize.CheckFloatWidth(schema.FLOAT32, 1e300)
	require.Error(t, err)
	require.ErrorIs(t, err, &schema.ParseError{Kind: schema.BadLiteral})
}

func TestValueRecursesIntoArrayDefaults(t *testing.T) {
	arr := schema.Type{Array: true, Items: &schema.Type{Primitive: schema.INT8}}
	require.NoError(t, normalize.Value(arr, []any{int64(1), int64(2), int64(127)}))
	require.Error(t, normalize.Value(arr, []any{int64(1), int64(200)}))
}

func TestDescriptorCatchesOverflowInConstantsAndFields(t *testing.T) {
	ok := &schema.Descriptor{
		Name: "test/msg/Ok",
		Constants: []schema.Constant{
			{Name: "MAX", Type: schema.UINT8, Value: int64(255)},
		},
		Fields: []schema.Field{
			{Name: "a", Type: schema.Type{Primitive: schema.INT16}, Default: int64(30000)},
		},
	}
	require.NoError(t, normalize.Descriptor(ok))

	badConst := &schema.Descriptor{
		Name: "test/msg/BadConst",
		Constants: []schema.Constant{
			{Name: "MAX", Type: schema.UINT8, Value: int64(300)},
		},
	}
	require.Error(t, normalize.Descriptor(badConst))

	badField := &schema.Descriptor{
		Name: "test/msg/BadField",
		Fields: []schema.Field{
			{Name: "a", Type: schema.Type{Primitive: schema.INT8}, Default: int64(200)},
		},
	}
	require.Error(t, normalize.Descriptor(badField))
}
