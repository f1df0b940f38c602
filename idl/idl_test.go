package idl_test

import (
	"testing"

	"github.com/ben-z/rosbags/idl"
	"github.com/ben-z/rosbags/schema"
	"github.com/stretchr/testify/require"
)

func TestTransformStruct(t *testing.T) {
	src := `
module geometry_msgs {
  module msg {
    struct Vector3 {
      double x;
      double y;
      double z;
    };
  };
};
`
	descs, err := idl.ParseIDLMessageDefinition([]byte(src))
	require.NoError(t, err)
	require.Len(t, descs, 1)
	require.Equal(t, "geometry_msgs/msg/Vector3", descs[0].Name)
	require.Equal(t, []schema.Field{
		{Name: "x", Type: schema.Type{Primitive: schema.FLOAT64}},
		{Name: "y", Type: schema.Type{Primitive: schema.FLOAT64}},
		{Name: "z", Type: schema.Type{Primitive: schema.FLOAT64}},
	}, descs[0].Fields)
}

func TestTransformNestedRef(t *testing.T) {
	src := `
module geometry_msgs {
  module msg {
    struct Vector3 {
      double x;
      double y;
      double z;
    };
    struct Point32 {
      geometry_msgs::msg::Vector3 v;
    };
  };
};
`
	descs, err := idl.ParseIDLMessageDefinition([]byte(src))
	require.NoError(t, err)
	require.Len(t, descs, 2)
	require.Equal(t, []schema.Field{
		{Name: "v", Type: schema.Type{Ref: "geometry_msgs/msg/Vector3"}},
	}, descs[1].Fields)
}

func TestTransformSequenceAndBoundedString(t *testing.T) {
	src := `
module pkg {
  module msg {
    struct Test {
      sequence<int32> xs;
      sequence<int32, 10> ys;
      string<255> name;
      uint8 raw[4];
    };
  };
};
`
	descs, err := idl.ParseIDLMessageDefinition([]byte(src))
	require.NoError(t, err)
	require.Len(t, descs, 1)
	fields := descs[0].Fields
	require.Equal(t, schema.Type{Array: true, Items: &schema.Type{Primitive: schema.INT32}}, fields[0].Type)
	require.Equal(t, schema.Type{Array: true, Bounded: true, FixedSize: 10, Items: &schema.Type{Primitive: schema.INT32}}, fields[1].Type)
	require.Equal(t, schema.Type{Primitive: schema.STRING, SizeBound: 255}, fields[2].Type)
	require.Equal(t, schema.Type{Array: true, FixedSize: 4, Items: &schema.Type{Primitive: schema.UINT8}}, fields[3].Type)
}

func TestTransformConst(t *testing.T) {
	src := `
module pkg {
  module msg {
    module Test_Constants {
      const int32 FOO = 42;
    };
    struct Test {
      int32 x;
    };
  };
};
`
	descs, err := idl.ParseIDLMessageDefinition([]byte(src))
	require.NoError(t, err)
	require.Len(t, descs, 2)
	require.Equal(t, schema.KindConstModule, descs[0].Kind)
	require.Equal(t, []schema.Constant{{Name: "FOO", Type: schema.INT32, Value: int64(42)}}, descs[0].Constants)
}

func TestTransformDefaultAndRangeAnnotations(t *testing.T) {
	src := `
module pkg {
  module msg {
    struct Test {
      @default (value=5)
      int32 x;
      @range (min=0, max=100)
      int32 y;
    };
  };
};
`
	descs, err := idl.ParseIDLMessageDefinition([]byte(src))
	require.NoError(t, err)
	require.Equal(t, int64(5), descs[0].Fields[0].Default)
	require.Equal(t, &schema.Range{Min: 0, Max: 100}, descs[0].Fields[1].Range)
}

func TestTransformVerbatimMsgText(t *testing.T) {
	src := `
module pkg {
  module msg {
    @verbatim (language="comment", text="int32 x\n")
    struct Test {
      int32 x;
    };
  };
};
`
	descs, err := idl.ParseIDLMessageDefinition([]byte(src))
	require.NoError(t, err)
	require.Equal(t, "int32 x\n", descs[0].VerbatimMsgText)
}

func TestTransformTypedef(t *testing.T) {
	src := `
module pkg {
  module msg {
    typedef sequence<uint8, 4> Bytes4;
    struct Test {
      Bytes4 raw;
    };
  };
};
`
	descs, err := idl.ParseIDLMessageDefinition([]byte(src))
	require.NoError(t, err)
	require.Equal(t, schema.Type{Array: true, Bounded: true, FixedSize: 4, Items: &schema.Type{Primitive: schema.UINT8}}, descs[0].Fields[0].Type)
}

// Unresolved struct references are left as a nameref and validated later
// by the typestore at registration time, not by the grammar/transform
// layer, so a reference to a type this file never defines still parses.
func TestTransformUnresolvedReferenceIsDeferred(t *testing.T) {
	src := `
module pkg {
  module msg {
    struct Test {
      other_pkg::msg::Missing x;
    };
  };
};
`
	descs, err := idl.ParseIDLMessageDefinition([]byte(src))
	require.NoError(t, err)
	require.Equal(t, schema.Type{Ref: "other_pkg/msg/Missing"}, descs[0].Fields[0].Type)
}
