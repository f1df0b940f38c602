// Package translate implements the wire1<->CDR translator (spec component
// H): given a value already decoded by one codec, it re-encodes the same
// logical message with the other codec by walking the destination
// descriptor field by field, converting each leaf value's native Go
// representation as needed. No teacher file does this (dp3 never
// transcodes between ROS1 and ROS2 wire formats), so the walk itself is
// new; the one non-generic rule it carries -- std_msgs/msg/Header's "seq"
// field existing only on the wire1 side, and its "stamp" field switching
// between a raw time primitive and a builtin_interfaces/msg/Time message
// ref -- is grounded directly on the two shapes typestore/presets.go
// registers under ros1_defaults and ros2_defaults, which mirror what
// original_source/rosbags's ROS1/ROS2 builtin interface definitions do.
package translate

import (
	"github.com/ben-z/rosbags/cdr"
	"github.com/ben-z/rosbags/schema"
	"github.com/ben-z/rosbags/wire1"
)

// Lookuper is the subset of typestore.Store this package needs; both
// wire1.Lookuper and cdr.Lookuper satisfy it structurally.
type Lookuper interface {
	Lookup(name string) (*schema.Descriptor, bool)
}

// ToCDR decodes data as typeName using wire1 and re-encodes it as CDR.
func ToCDR(data []byte, typeName string, wireStore wire1.Lookuper, cdrStore cdr.Lookuper) ([]byte, error) {
	v, err := wire1.Deserialize(data, typeName, wireStore)
	if err != nil {
		return nil, err
	}
	sm, err := asMap(v)
	if err != nil {
		return nil, err
	}
	out, err := translateMessage(sm, typeName, wireStore, cdrStore, false)
	if err != nil {
		return nil, err
	}
	return cdr.Serialize(cdr.Message(out), typeName, cdrStore)
}

// ToWire1 decodes data as typeName using CDR and re-encodes it as wire1.
func ToWire1(data []byte, typeName string, cdrStore cdr.Lookuper, wireStore wire1.Lookuper) ([]byte, error) {
	v, err := cdr.Deserialize(data, typeName, cdrStore, false)
	if err != nil {
		return nil, err
	}
	sm, err := asMap(v)
	if err != nil {
		return nil, err
	}
	out, err := translateMessage(sm, typeName, cdrStore, wireStore, true)
	if err != nil {
		return nil, err
	}
	return wire1.Serialize(wire1.Message(out), typeName, wireStore)
}

func asMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case wire1.Message:
		return map[string]any(m), nil
	case cdr.Message:
		return map[string]any(m), nil
	default:
		return nil, &schema.TypeMismatchError{Field: "message", Expected: "map[string]any"}
	}
}

// translateMessage walks name's descriptor as registered in dstStore,
// translating each field's value out of srcVal. dstIsWire tells leaf
// conversions which native shape (wire1.Time/Duration vs a CDR-shaped
// [2]uint32) the destination expects.
func translateMessage(srcVal map[string]any, name string, srcStore, dstStore Lookuper, dstIsWire bool) (map[string]any, error) {
	dstDesc, ok := dstStore.Lookup(name)
	if !ok {
		return nil, &schema.UnknownTypeError{Name: name}
	}
	out := map[string]any{}
	for _, df := range dstDesc.Fields {
		if name == schema.HeaderTypeName && df.Name == "seq" {
			if v, present := srcVal["seq"]; present {
				out["seq"] = v
			} else {
				out["seq"] = uint32(0)
			}
			continue
		}
		key := schema.GoFieldKey(df.Name)
		sv, present := srcVal[key]
		if !present {
			sv, present = srcVal[df.Name]
		}
		if !present {
			return nil, &schema.TypeMismatchError{Field: df.Name, Expected: "field to be present in source message"}
		}
		tv, err := translateValue(sv, df.Type, srcStore, dstStore, dstIsWire)
		if err != nil {
			return nil, err
		}
		out[key] = tv
	}
	return out, nil
}

func translateValue(sv any, dft schema.Type, srcStore, dstStore Lookuper, dstIsWire bool) (any, error) {
	switch {
	case dft.Array:
		items, ok := sv.([]any)
		if !ok {
			return nil, &schema.TypeMismatchError{Field: "array", Expected: "[]any"}
		}
		out := make([]any, len(items))
		for i, it := range items {
			tv, err := translateValue(it, *dft.Items, srcStore, dstStore, dstIsWire)
			if err != nil {
				return nil, err
			}
			out[i] = tv
		}
		return out, nil
	case dft.Ref != "":
		if t, ok := sv.(wire1.Time); ok {
			return map[string]any{"sec": int32(t.Sec), "nanosec": t.Nsec}, nil
		}
		sm, err := asMap(sv)
		if err != nil {
			return nil, err
		}
		return translateMessage(sm, dft.Ref, srcStore, dstStore, dstIsWire)
	case dft.Primitive == schema.TIME:
		return translateTime(sv, dstIsWire)
	case dft.Primitive == schema.DURATION:
		return translateDuration(sv, dstIsWire)
	default:
		return sv, nil
	}
}

func translateTime(sv any, dstIsWire bool) (any, error) {
	if dstIsWire {
		if t, ok := sv.(wire1.Time); ok {
			return t, nil
		}
		sm, err := asMap(sv)
		if err != nil {
			return nil, err
		}
		sec, _ := sm["sec"].(int32)
		nsec, _ := sm["nanosec"].(uint32)
		return wire1.Time{Sec: uint32(sec), Nsec: nsec}, nil
	}
	switch t := sv.(type) {
	case [2]uint32:
		return t, nil
	case wire1.Time:
		return [2]uint32{t.Sec, t.Nsec}, nil
	default:
		return nil, &schema.TypeMismatchError{Field: "time", Expected: "[2]uint32 or wire1.Time"}
	}
}

func translateDuration(sv any, dstIsWire bool) (any, error) {
	if dstIsWire {
		if d, ok := sv.(wire1.Duration); ok {
			return d, nil
		}
		a, ok := sv.([2]uint32)
		if !ok {
			return nil, &schema.TypeMismatchError{Field: "duration", Expected: "[2]uint32 or wire1.Duration"}
		}
		return wire1.Duration{Sec: int32(a[0]), Nsec: int32(a[1])}, nil
	}
	switch d := sv.(type) {
	case [2]uint32:
		return d, nil
	case wire1.Duration:
		return [2]uint32{uint32(d.Sec), uint32(d.Nsec)}, nil
	default:
		return nil, &schema.TypeMismatchError{Field: "duration", Expected: "[2]uint32 or wire1.Duration"}
	}
}
