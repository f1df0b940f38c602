package typestore_test

import (
	"context"
	"strings"
	"testing"

	"github.com/ben-z/rosbags/schema"
	"github.com/ben-z/rosbags/typestore"
	"github.com/stretchr/testify/require"
)

func TestRegisterDescriptorCollision(t *testing.T) {
	s, err := typestore.New("")
	require.NoError(t, err)

	d1 := &schema.Descriptor{Name: "test/msg/A", Fields: []schema.Field{{Name: "x", Type: schema.Type{Primitive: schema.INT32}}}}
	require.NoError(t, s.RegisterDescriptor(d1))
	// Re-registering the identical descriptor is a no-op.
	require.NoError(t, s.RegisterDescriptor(d1))

	d2 := &schema.Descriptor{Name: "test/msg/A", Fields: []schema.Field{{Name: "x", Type: schema.Type{Primitive: schema.INT64}}}}
	err = s.RegisterDescriptor(d2)
	require.Error(t, err)
	require.ErrorIs(t, err, &schema.TypeConflictError{})
}

func TestRegisterTextMSGWithDependency(t *testing.T) {
	s, err := typestore.New("")
	require.NoError(t, err)

	msg := strings.TrimSpace(`
Header header
================================================================================
MSG: std_msgs/Header
uint32 seq
time stamp
string frame_id
`)
	primary, err := s.RegisterText(context.Background(), "test", "Scan", []byte(msg), typestore.FormatMSG)
	require.NoError(t, err)
	require.Equal(t, "test/msg/Scan", primary.Name)

	dep, ok := s.Lookup("std_msgs/msg/Header")
	require.True(t, ok)
	require.Len(t, dep.Fields, 3)
}

func TestClosureIncludesTransitiveDependencies(t *testing.T) {
	s, err := typestore.New("ros1_defaults")
	require.NoError(t, err)

	err = s.RegisterDescriptor(&schema.Descriptor{
		Name:   "test/msg/Pose",
		Fields: []schema.Field{{Name: "header", Type: schema.Type{Ref: "std_msgs/msg/Header"}}},
	})
	require.NoError(t, err)

	closure, err := s.Closure("test/msg/Pose")
	require.NoError(t, err)
	require.Len(t, closure, 2)
	require.Equal(t, "test/msg/Pose", closure[0].Name)
	require.Equal(t, "std_msgs/msg/Header", closure[1].Name)
}

func TestMD5AndRIHS01AndEmitMsgAreWired(t *testing.T) {
	s, err := typestore.New("ros1_defaults")
	require.NoError(t, err)

	_, err = s.MD5("std_msgs/msg/Header")
	require.NoError(t, err)
	_, err = s.RIHS01("std_msgs/msg/Header")
	require.NoError(t, err)
	out, err := s.EmitMsg("std_msgs/msg/Header")
	require.NoError(t, err)
	require.Contains(t, out, "frame_id")
}

func TestUnknownPresetFails(t *testing.T) {
	_, err := typestore.New("not_a_real_preset")
	require.Error(t, err)
}
