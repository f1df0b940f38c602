package translate_test

import (
	"testing"

	"github.com/ben-z/rosbags/cdr"
	"github.com/ben-z/rosbags/translate"
	"github.com/ben-z/rosbags/typestore"
	"github.com/ben-z/rosbags/wire1"
	"github.com/stretchr/testify/require"
)

func TestToCDRHeaderDropsSeqAndWrapsStamp(t *testing.T) {
	wireStore, err := typestore.New("ros1_defaults")
	require.NoError(t, err)
	cdrStore, err := typestore.New("ros2_defaults")
	require.NoError(t, err)

	value := wire1.Message{
		"seq":      uint32(7),
		"stamp":    wire1.Time{Sec: 100, Nsec: 5},
		"frame_id": "map",
	}
	data, err := wire1.Serialize(value, "std_msgs/msg/Header", wireStore)
	require.NoError(t, err)

	out, err := translate.ToCDR(data, "std_msgs/msg/Header", wireStore, cdrStore)
	require.NoError(t, err)

	decoded, err := cdr.Deserialize(out, "std_msgs/msg/Header", cdrStore, true)
	require.NoError(t, err)
	msg := decoded.(cdr.Message)
	_, hasSeq := msg["seq"]
	require.False(t, hasSeq)
	require.Equal(t, "map", msg["frame_id"])
	stamp := msg["stamp"].(cdr.Message)
	require.Equal(t, int32(100), stamp["sec"])
	require.Equal(t, uint32(5), stamp["nanosec"])
}

func TestToWire1HeaderInsertsSeqZeroAndUnwrapsStamp(t *testing.T) {
	wireStore, err := typestore.New("ros1_defaults")
	require.NoError(t, err)
	cdrStore, err := typestore.New("ros2_defaults")
	require.NoError(t, err)

	value := cdr.Message{
		"stamp":    cdr.Message{"sec": int32(9), "nanosec": uint32(2)},
		"frame_id": "odom",
	}
	data, err := cdr.Serialize(value, "std_msgs/msg/Header", cdrStore)
	require.NoError(t, err)

	out, err := translate.ToWire1(data, "std_msgs/msg/Header", cdrStore, wireStore)
	require.NoError(t, err)

	decoded, err := wire1.Deserialize(out, "std_msgs/msg/Header", wireStore)
	require.NoError(t, err)
	msg := decoded.(wire1.Message)
	require.Equal(t, uint32(0), msg["seq"])
	require.Equal(t, "odom", msg["frame_id"])
	require.Equal(t, wire1.Time{Sec: 9, Nsec: 2}, msg["stamp"])
}

func TestTranslateRoundtripsNonHeaderMessage(t *testing.T) {
	wireStore, err := typestore.New("ros1_defaults")
	require.NoError(t, err)
	cdrStore, err := typestore.New("ros2_defaults")
	require.NoError(t, err)

	value := wire1.Message{"x": 1.0, "y": 2.0, "z": 3.0}
	data, err := wire1.Serialize(value, "geometry_msgs/msg/Vector3", wireStore)
	require.NoError(t, err)

	cdrData, err := translate.ToCDR(data, "geometry_msgs/msg/Vector3", wireStore, cdrStore)
	require.NoError(t, err)

	back, err := translate.ToWire1(cdrData, "geometry_msgs/msg/Vector3", cdrStore, wireStore)
	require.NoError(t, err)

	decoded, err := wire1.Deserialize(back, "geometry_msgs/msg/Vector3", wireStore)
	require.NoError(t, err)
	require.Equal(t, value, decoded.(wire1.Message))
}
