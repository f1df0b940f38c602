// Package wire1 implements the wire1 codec (spec component F): the
// packed, little-endian, unaligned ROS1-style wire scheme. Grounded on
// dp3's util/ros1msg/parser.go for per-primitive read logic and its
// typed-error-with-Is pattern (util/ros1msg/errors.go), generalized from
// a field-skipping projector into a full value-producing codec since this
// module needs complete (de)serialization rather than selective field
// access. other_examples/akio-rosgo__Header.go grounds the little-endian
// binary.Write/binary.Read idiom used on the encode side.
package wire1

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/ben-z/rosbags/schema"
)

// Lookuper is the subset of typestore.Store this package needs.
type Lookuper interface {
	Lookup(name string) (*schema.Descriptor, bool)
}

// Time is the wire1 encoding of the `time` primitive.
type Time struct {
	Sec  uint32
	Nsec uint32
}

// Duration is the wire1 encoding of the `duration` primitive.
type Duration struct {
	Sec  int32
	Nsec int32
}

// Message is a decoded value: field name to decoded value. Go maps don't
// preserve the declared field order, so code that cares about order should
// walk the descriptor, not this map, the same way Serialize does.
type Message map[string]any

// Serialize encodes value (expected to be a Message for message types)
// as typeName's wire1 representation.
func Serialize(value any, typeName string, store Lookuper) ([]byte, error) {
	e := NewEncoder(store)
	if err := e.EncodeMessage(typeName, value); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Deserialize decodes data as typeName's wire1 representation. Trailing
// bytes after a fully decoded message are reported as OverlongError.
func Deserialize(data []byte, typeName string, store Lookuper) (any, error) {
	d := NewDecoder(data, store)
	v, err := d.DecodeMessage(typeName)
	if err != nil {
		return nil, err
	}
	if d.pos < len(d.data) {
		return nil, &schema.OverlongError{Remaining: len(d.data) - d.pos}
	}
	return v, nil
}

// Size returns the wire1-encoded byte length of value as typeName.
func Size(value any, typeName string, store Lookuper) (int, error) {
	b, err := Serialize(value, typeName, store)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

////////////////////////////////////////////////////////////////////////////////
// Decoder

// Decoder reads a single wire1 message from an in-memory byte slice.
type Decoder struct {
	data  []byte
	pos   int
	store Lookuper
}

// NewDecoder creates a Decoder over data.
func NewDecoder(data []byte, store Lookuper) *Decoder {
	return &Decoder{data: data, store: store}
}

func (d *Decoder) need(n int) error {
	if d.pos+n > len(d.data) {
		return &schema.TruncatedError{Field: "wire1"}
	}
	return nil
}

func (d *Decoder) readBytes(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// DecodeMessage decodes one value of the named type.
func (d *Decoder) DecodeMessage(typeName string) (any, error) {
	desc, ok := d.store.Lookup(typeName)
	if !ok {
		return nil, &schema.UnknownTypeError{Name: typeName}
	}
	return d.decodeDescriptor(desc)
}

func (d *Decoder) decodeDescriptor(desc *schema.Descriptor) (Message, error) {
	msg := Message{}
	for _, f := range desc.Fields {
		v, err := d.decodeType(f.Type)
		if err != nil {
			return nil, err
		}
		msg[schema.GoFieldKey(f.Name)] = v
	}
	return msg, nil
}

func (d *Decoder) decodeType(t schema.Type) (any, error) {
	switch {
	case t.Array:
		return d.decodeArray(t)
	case t.Ref != "":
		desc, ok := d.store.Lookup(t.Ref)
		if !ok {
			return nil, &schema.UnknownTypeError{Name: t.Ref}
		}
		return d.decodeDescriptor(desc)
	default:
		return d.decodePrimitive(t)
	}
}

func (d *Decoder) decodeArray(t schema.Type) (any, error) {
	n := t.FixedSize
	if t.FixedSize == 0 || t.Bounded {
		count, err := d.readU32()
		if err != nil {
			return nil, err
		}
		n = int(count)
		if t.Bounded && n > t.FixedSize {
			return nil, &schema.BoundViolationError{Field: "sequence", Bound: t.FixedSize, Got: n}
		}
	}
	out := make([]any, n)
	for i := 0; i < n; i++ {
		v, err := d.decodeType(*t.Items)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *Decoder) decodePrimitive(t schema.Type) (any, error) {
	switch t.Primitive {
	case schema.BOOL:
		b, err := d.readBytes(1)
		if err != nil {
			return nil, err
		}
		return b[0] != 0, nil
	case schema.INT8:
		b, err := d.readBytes(1)
		if err != nil {
			return nil, err
		}
		return int8(b[0]), nil
	case schema.UINT8, schema.BYTE, schema.OCTET, schema.CHAR:
		b, err := d.readBytes(1)
		if err != nil {
			return nil, err
		}
		return b[0], nil
	case schema.INT16:
		v, err := d.readU16()
		return int16(v), err
	case schema.UINT16:
		return d.readU16()
	case schema.INT32:
		v, err := d.readU32()
		return int32(v), err
	case schema.UINT32:
		return d.readU32()
	case schema.INT64:
		v, err := d.readU64()
		return int64(v), err
	case schema.UINT64:
		return d.readU64()
	case schema.FLOAT32:
		v, err := d.readU32()
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(v), nil
	case schema.FLOAT64:
		v, err := d.readU64()
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(v), nil
	case schema.STRING, schema.WSTRING:
		return d.decodeString(t)
	case schema.TIME:
		sec, err := d.readU32()
		if err != nil {
			return nil, err
		}
		nsec, err := d.readU32()
		if err != nil {
			return nil, err
		}
		return Time{Sec: sec, Nsec: nsec}, nil
	case schema.DURATION:
		sec, err := d.readU32()
		if err != nil {
			return nil, err
		}
		nsec, err := d.readU32()
		if err != nil {
			return nil, err
		}
		return Duration{Sec: int32(sec), Nsec: int32(nsec)}, nil
	default:
		return nil, &schema.ParseError{Kind: schema.UnexpectedToken, Msg: "unsupported primitive in wire1"}
	}
}

func (d *Decoder) decodeString(t schema.Type) (string, error) {
	n, err := d.readU32()
	if err != nil {
		return "", err
	}
	if t.SizeBound > 0 && int(n) > t.SizeBound {
		return "", &schema.BoundViolationError{Field: "string", Bound: t.SizeBound, Got: int(n)}
	}
	b, err := d.readBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Decoder) readU16() (uint16, error) {
	b, err := d.readBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Decoder) readU32() (uint32, error) {
	b, err := d.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) readU64() (uint64, error) {
	b, err := d.readBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

////////////////////////////////////////////////////////////////////////////////
// Encoder

// Encoder builds a single wire1 message into an in-memory buffer.
type Encoder struct {
	buf   []byte
	store Lookuper
}

// NewEncoder creates an Encoder.
func NewEncoder(store Lookuper) *Encoder {
	return &Encoder{store: store}
}

// Bytes returns the accumulated encoding.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// EncodeMessage appends value, which must be a Message or map[string]any,
// encoded as typeName.
func (e *Encoder) EncodeMessage(typeName string, value any) error {
	desc, ok := e.store.Lookup(typeName)
	if !ok {
		return &schema.UnknownTypeError{Name: typeName}
	}
	return e.encodeDescriptor(desc, value)
}

func (e *Encoder) encodeDescriptor(desc *schema.Descriptor, value any) error {
	m, err := asMessage(value, desc.Name)
	if err != nil {
		return err
	}
	for _, f := range desc.Fields {
		if err := e.encodeType(f.Type, fieldValue(m, f.Name)); err != nil {
			return err
		}
	}
	return nil
}

// fieldValue looks up a field by its aliased key first (the form a message
// decoded by this package uses for a Go-keyword field name), falling back
// to the plain name for callers building messages by hand.
func fieldValue(m map[string]any, name string) any {
	key := schema.GoFieldKey(name)
	if v, ok := m[key]; ok || key == name {
		return v
	}
	return m[name]
}

func asMessage(value any, typeName string) (map[string]any, error) {
	switch m := value.(type) {
	case Message:
		return m, nil
	case map[string]any:
		return m, nil
	default:
		return nil, &schema.TypeMismatchError{Field: typeName, Expected: "message"}
	}
}

func (e *Encoder) encodeType(t schema.Type, v any) error {
	switch {
	case t.Array:
		return e.encodeArray(t, v)
	case t.Ref != "":
		desc, ok := e.store.Lookup(t.Ref)
		if !ok {
			return &schema.UnknownTypeError{Name: t.Ref}
		}
		return e.encodeDescriptor(desc, v)
	default:
		return e.encodePrimitive(t, v)
	}
}

func (e *Encoder) encodeArray(t schema.Type, v any) error {
	items, ok := v.([]any)
	if !ok {
		return &schema.TypeMismatchError{Field: "array", Expected: "[]any"}
	}
	if t.Bounded && len(items) > t.FixedSize {
		return &schema.BoundViolationError{Field: "sequence", Bound: t.FixedSize, Got: len(items)}
	}
	if t.FixedSize > 0 && !t.Bounded && len(items) != t.FixedSize {
		return &schema.BoundViolationError{Field: "array", Bound: t.FixedSize, Got: len(items)}
	}
	if t.FixedSize == 0 || t.Bounded {
		e.writeU32(uint32(len(items)))
	}
	for _, item := range items {
		if err := e.encodeType(*t.Items, item); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodePrimitive(t schema.Type, v any) error {
	switch t.Primitive {
	case schema.BOOL:
		b, ok := v.(bool)
		if !ok {
			return &schema.TypeMismatchError{Field: "bool", Expected: "bool"}
		}
		if b {
			e.buf = append(e.buf, 1)
		} else {
			e.buf = append(e.buf, 0)
		}
	case schema.INT8:
		n, ok := v.(int8)
		if !ok {
			return &schema.TypeMismatchError{Field: "int8", Expected: "int8"}
		}
		e.buf = append(e.buf, byte(n))
	case schema.UINT8, schema.BYTE, schema.OCTET, schema.CHAR:
		n, ok := v.(uint8)
		if !ok {
			return &schema.TypeMismatchError{Field: "uint8", Expected: "uint8"}
		}
		e.buf = append(e.buf, n)
	case schema.INT16:
		n, ok := v.(int16)
		if !ok {
			return &schema.TypeMismatchError{Field: "int16", Expected: "int16"}
		}
		e.writeU16(uint16(n))
	case schema.UINT16:
		n, ok := v.(uint16)
		if !ok {
			return &schema.TypeMismatchError{Field: "uint16", Expected: "uint16"}
		}
		e.writeU16(n)
	case schema.INT32:
		n, ok := v.(int32)
		if !ok {
			return &schema.TypeMismatchError{Field: "int32", Expected: "int32"}
		}
		e.writeU32(uint32(n))
	case schema.UINT32:
		n, ok := v.(uint32)
		if !ok {
			return &schema.TypeMismatchError{Field: "uint32", Expected: "uint32"}
		}
		e.writeU32(n)
	case schema.INT64:
		n, ok := v.(int64)
		if !ok {
			return &schema.TypeMismatchError{Field: "int64", Expected: "int64"}
		}
		e.writeU64(uint64(n))
	case schema.UINT64:
		n, ok := v.(uint64)
		if !ok {
			return &schema.TypeMismatchError{Field: "uint64", Expected: "uint64"}
		}
		e.writeU64(n)
	case schema.FLOAT32:
		n, ok := v.(float32)
		if !ok {
			return &schema.TypeMismatchError{Field: "float32", Expected: "float32"}
		}
		e.writeU32(math.Float32bits(n))
	case schema.FLOAT64:
		n, ok := v.(float64)
		if !ok {
			return &schema.TypeMismatchError{Field: "float64", Expected: "float64"}
		}
		e.writeU64(math.Float64bits(n))
	case schema.STRING, schema.WSTRING:
		s, ok := v.(string)
		if !ok {
			return &schema.TypeMismatchError{Field: "string", Expected: "string"}
		}
		if !utf8.ValidString(s) {
			return &schema.EncodingErr{Field: "string"}
		}
		if t.SizeBound > 0 && len(s) > t.SizeBound {
			return &schema.BoundViolationError{Field: "string", Bound: t.SizeBound, Got: len(s)}
		}
		e.writeU32(uint32(len(s)))
		e.buf = append(e.buf, s...)
	case schema.TIME:
		tm, ok := v.(Time)
		if !ok {
			return &schema.TypeMismatchError{Field: "time", Expected: "wire1.Time"}
		}
		e.writeU32(tm.Sec)
		e.writeU32(tm.Nsec)
	case schema.DURATION:
		du, ok := v.(Duration)
		if !ok {
			return &schema.TypeMismatchError{Field: "duration", Expected: "wire1.Duration"}
		}
		e.writeU32(uint32(du.Sec))
		e.writeU32(uint32(du.Nsec))
	default:
		return &schema.ParseError{Kind: schema.UnexpectedToken, Msg: "unsupported primitive in wire1"}
	}
	return nil
}

func (e *Encoder) writeU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) writeU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) writeU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}
