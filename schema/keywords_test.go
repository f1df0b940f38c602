package schema_test

import (
	"testing"

	"github.com/ben-z/rosbags/schema"
	"github.com/stretchr/testify/require"
)

func TestGoFieldKeyAliasesReservedWords(t *testing.T) {
	require.Equal(t, "type_", schema.GoFieldKey("type"))
	require.Equal(t, "range_", schema.GoFieldKey("range"))
	require.Equal(t, "frame_id", schema.GoFieldKey("frame_id"))
}
