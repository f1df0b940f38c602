package typestore

import "github.com/ben-z/rosbags/schema"

// builtinCatalog returns a minimal but real set of commonly depended-on
// types for preset, grounded on original_source/rosbags/typesys/stores/
// (ros1_noetic / ros2_humble catalogs), trimmed to the handful of types
// most definitions reference rather than the full generated upstream set
// (thousands of message types, which is generated data rather than core
// serialization logic -- see SPEC_FULL.md section 5).
func builtinCatalog(preset string) ([]*schema.Descriptor, error) {
	switch preset {
	case "":
		return nil, nil
	case "ros1_defaults":
		return []*schema.Descriptor{
			{
				Name: "std_msgs/msg/Header",
				Fields: []schema.Field{
					{Name: "seq", Type: schema.Type{Primitive: schema.UINT32}},
					{Name: "stamp", Type: schema.Type{Primitive: schema.TIME}},
					{Name: "frame_id", Type: schema.Type{Primitive: schema.STRING}},
				},
			},
			{
				Name: "std_msgs/msg/Time",
				Fields: []schema.Field{
					{Name: "data", Type: schema.Type{Primitive: schema.TIME}},
				},
			},
			{
				Name: "geometry_msgs/msg/Vector3",
				Fields: []schema.Field{
					{Name: "x", Type: schema.Type{Primitive: schema.FLOAT64}},
					{Name: "y", Type: schema.Type{Primitive: schema.FLOAT64}},
					{Name: "z", Type: schema.Type{Primitive: schema.FLOAT64}},
				},
			},
			{
				Name: "geometry_msgs/msg/Point",
				Fields: []schema.Field{
					{Name: "x", Type: schema.Type{Primitive: schema.FLOAT64}},
					{Name: "y", Type: schema.Type{Primitive: schema.FLOAT64}},
					{Name: "z", Type: schema.Type{Primitive: schema.FLOAT64}},
				},
			},
			{
				Name: "geometry_msgs/msg/Quaternion",
				Fields: []schema.Field{
					{Name: "x", Type: schema.Type{Primitive: schema.FLOAT64}},
					{Name: "y", Type: schema.Type{Primitive: schema.FLOAT64}},
					{Name: "z", Type: schema.Type{Primitive: schema.FLOAT64}},
					{Name: "w", Type: schema.Type{Primitive: schema.FLOAT64}},
				},
			},
		}, nil
	case "ros2_defaults":
		return []*schema.Descriptor{
			{
				Name: "builtin_interfaces/msg/Time",
				Fields: []schema.Field{
					{Name: "sec", Type: schema.Type{Primitive: schema.INT32}},
					{Name: "nanosec", Type: schema.Type{Primitive: schema.UINT32}},
				},
			},
			{
				Name: "std_msgs/msg/Header",
				Fields: []schema.Field{
					{Name: "stamp", Type: schema.Type{Ref: "builtin_interfaces/msg/Time"}},
					{Name: "frame_id", Type: schema.Type{Primitive: schema.STRING}},
				},
			},
			{
				Name: "geometry_msgs/msg/Vector3",
				Fields: []schema.Field{
					{Name: "x", Type: schema.Type{Primitive: schema.FLOAT64}},
					{Name: "y", Type: schema.Type{Primitive: schema.FLOAT64}},
					{Name: "z", Type: schema.Type{Primitive: schema.FLOAT64}},
				},
			},
			{
				Name: "geometry_msgs/msg/Point",
				Fields: []schema.Field{
					{Name: "x", Type: schema.Type{Primitive: schema.FLOAT64}},
					{Name: "y", Type: schema.Type{Primitive: schema.FLOAT64}},
					{Name: "z", Type: schema.Type{Primitive: schema.FLOAT64}},
				},
			},
			{
				Name: "geometry_msgs/msg/Quaternion",
				Fields: []schema.Field{
					{Name: "x", Type: schema.Type{Primitive: schema.FLOAT64}},
					{Name: "y", Type: schema.Type{Primitive: schema.FLOAT64}},
					{Name: "z", Type: schema.Type{Primitive: schema.FLOAT64}},
					{Name: "w", Type: schema.Type{Primitive: schema.FLOAT64}},
				},
			},
		}, nil
	default:
		return nil, &schema.ParseError{Kind: schema.UnexpectedToken, Msg: "unknown preset: " + preset}
	}
}
