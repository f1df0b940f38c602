package typehash_test

import (
	"testing"

	"github.com/ben-z/rosbags/schema"
	"github.com/ben-z/rosbags/typehash"
	"github.com/stretchr/testify/require"
)

type fakeStore map[string]*schema.Descriptor

func (f fakeStore) Lookup(name string) (*schema.Descriptor, bool) {
	d, ok := f[name]
	return d, ok
}

func TestMD5Primitive(t *testing.T) {
	store := fakeStore{
		"pkg/msg/Point": {
			Name: "pkg/msg/Point",
			Fields: []schema.Field{
				{Name: "x", Type: schema.Type{Primitive: schema.FLOAT64}},
				{Name: "y", Type: schema.Type{Primitive: schema.FLOAT64}},
			},
		},
	}
	h1, err := typehash.MD5(store, "pkg/msg/Point")
	require.NoError(t, err)
	require.Len(t, h1, 32)

	h2, err := typehash.MD5(store, "pkg/msg/Point")
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestMD5NamerefSubstitution(t *testing.T) {
	store := fakeStore{
		"std_msgs/msg/Header": {
			Name:   "std_msgs/msg/Header",
			Fields: []schema.Field{{Name: "frame_id", Type: schema.Type{Primitive: schema.STRING}}},
		},
		"pkg/msg/A": {
			Name:   "pkg/msg/A",
			Fields: []schema.Field{{Name: "header", Type: schema.Type{Ref: "std_msgs/msg/Header"}}},
		},
		"other/msg/A": {
			Name:   "other/msg/A",
			Fields: []schema.Field{{Name: "header", Type: schema.Type{Ref: "std_msgs/msg/Header"}}},
		},
	}
	h1, err := typehash.MD5(store, "pkg/msg/A")
	require.NoError(t, err)
	h2, err := typehash.MD5(store, "other/msg/A")
	require.NoError(t, err)
	// Structurally identical graphs under different package names hash
	// the same, since the nameref is substituted by its own hash rather
	// than its name.
	require.Equal(t, h1, h2)
}

func TestMD5VerbatimTextIsAuthoritative(t *testing.T) {
	store := fakeStore{
		"pkg/msg/A": {
			Name:            "pkg/msg/A",
			Fields:          []schema.Field{{Name: "x", Type: schema.Type{Primitive: schema.INT32}}},
			VerbatimMsgText: "int32 x # a comment\n",
		},
	}
	h, err := typehash.MD5(store, "pkg/msg/A")
	require.NoError(t, err)
	require.Len(t, h, 32)
}

func TestMD5CyclicReferenceFails(t *testing.T) {
	store := fakeStore{
		"pkg/msg/A": {Name: "pkg/msg/A", Fields: []schema.Field{{Name: "b", Type: schema.Type{Ref: "pkg/msg/B"}}}},
		"pkg/msg/B": {Name: "pkg/msg/B", Fields: []schema.Field{{Name: "a", Type: schema.Type{Ref: "pkg/msg/A"}}}},
	}
	_, err := typehash.MD5(store, "pkg/msg/A")
	require.Error(t, err)
}

func TestRIHS01HasPrefixAndIsDeterministic(t *testing.T) {
	store := fakeStore{
		"pkg/msg/Point": {
			Name: "pkg/msg/Point",
			Fields: []schema.Field{
				{Name: "x", Type: schema.Type{Primitive: schema.FLOAT64}},
			},
		},
	}
	h1, err := typehash.RIHS01(store, "pkg/msg/Point")
	require.NoError(t, err)
	require.True(t, len(h1) > len("RIHS01_"))
	require.Equal(t, "RIHS01_", h1[:7])

	h2, err := typehash.RIHS01(store, "pkg/msg/Point")
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestRIHS01DiffersFromMD5Namespace(t *testing.T) {
	store := fakeStore{
		"pkg/msg/Point": {
			Name:   "pkg/msg/Point",
			Fields: []schema.Field{{Name: "x", Type: schema.Type{Primitive: schema.FLOAT64}}},
		},
	}
	md5sum, err := typehash.MD5(store, "pkg/msg/Point")
	require.NoError(t, err)
	rihs, err := typehash.RIHS01(store, "pkg/msg/Point")
	require.NoError(t, err)
	require.NotEqual(t, md5sum, rihs)
}

func TestMD5UnknownTypeFails(t *testing.T) {
	_, err := typehash.MD5(fakeStore{}, "missing/msg/Foo")
	require.Error(t, err)
	require.ErrorIs(t, err, &schema.UnknownTypeError{})
}
