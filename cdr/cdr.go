// Package cdr implements the CDR codec (spec component G): the aligned,
// endianness-prefixed ROS2-style wire scheme. No teacher file implements
// CDR alignment directly (dp3's own codecs don't need it), so the
// alignment table is grounded directly on spec.md section 4.G, with byte
// layout double-checked against original_source/rosbags/serde/cdr.py;
// the type model (bounded strings/sequences) reuses the same
// schema.Type shape util/ros2msg/msg_grammar.go's bounded-type fixtures
// establish.
package cdr

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

// Message is a decoded value: field name to decoded value.
type Message map[string]any

var leHeader = [4]byte{0x00, 0x01, 0x00, 0x00}
var beHeader = [4]byte{0x00, 0x00, 0x00, 0x00}

// Serialize encodes value as typeName's little-endian CDR representation.
func Serialize(value any, typeName string, store Lookuper) ([]byte, error) {
	e := NewEncoder(store)
	if err := e.EncodeMessage(typeName, value); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Deserialize decodes data (with its leading 4-byte representation
// header) as typeName. strict controls whether trailing bytes after the
// message are reported as OverlongError or silently ignored.
func Deserialize(data []byte, typeName string, store Lookuper, strict bool) (any, error) {
	d, err := NewDecoder(data, store, strict)
	if err != nil {
		return nil, err
	}
	v, err := d.DecodeMessage(typeName)
	if err != nil {
		return nil, err
	}
	if strict && d.pos < len(d.data) {
		return nil, &schema.OverlongError{Remaining: len(d.data) - d.pos}
	}
	return v, nil
}

// Size returns the CDR-encoded byte length of value as typeName,
// including the 4-byte representation header.
func Size(value any, typeName string, store Lookuper) (int, error) {
	b, err := Serialize(value, typeName, store)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

////////////////////////////////////////////////////////////////////////////////
// Decoder

// Decoder reads a single CDR message. pos is relative to the payload
// (the 4-byte representation header is excluded from the alignment
// origin, per spec.md section 4.G).
type Decoder struct {
	data   []byte
	pos    int
	store  Lookuper
	order  binary.ByteOrder
	Strict bool
}

// NewDecoder reads and validates the leading representation-identifier
// header and returns a Decoder positioned at the start of the payload.
func NewDecoder(data []byte, store Lookuper, strict bool) (*Decoder, error) {
	if len(data) < 4 {
		return nil, &schema.TruncatedError{Field: "cdr header"}
	}
	var order binary.ByteOrder
	switch data[1] {
	case 0x01:
		order = binary.LittleEndian
	case 0x00:
		order = binary.BigEndian
	default:
		return nil, &schema.ParseError{Kind: schema.UnexpectedToken, Msg: "unrecognized cdr representation identifier"}
	}
	return &Decoder{data: data[4:], store: store, order: order, Strict: strict}, nil
}

func (d *Decoder) need(n int) error {
	if d.pos+n > len(d.data) {
		return &schema.TruncatedError{Field: "cdr"}
	}
	return nil
}

func (d *Decoder) align(n int) error {
	rem := d.pos % n
	if rem == 0 {
		return nil
	}
	pad := n - rem
	if err := d.need(pad); err != nil {
		return err
	}
	d.pos += pad
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
		if err := d.align(4); err != nil {
			return nil, err
		}
		b, err := d.readBytes(4)
		if err != nil {
			return nil, err
		}
		count := int(d.order.Uint32(b))
		n = count
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
		if err := d.align(2); err != nil {
			return nil, err
		}
		b, err := d.readBytes(2)
		if err != nil {
			return nil, err
		}
		return int16(d.order.Uint16(b)), nil
	case schema.UINT16:
		if err := d.align(2); err != nil {
			return nil, err
		}
		b, err := d.readBytes(2)
		if err != nil {
			return nil, err
		}
		return d.order.Uint16(b), nil
	case schema.INT32:
		v, err := d.read32()
		return int32(v), err
	case schema.UINT32:
		return d.read32()
	case schema.INT64:
		v, err := d.read64()
		return int64(v), err
	case schema.UINT64:
		return d.read64()
	case schema.FLOAT32:
		v, err := d.read32()
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(v), nil
	case schema.FLOAT64:
		v, err := d.read64()
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(v), nil
	case schema.STRING, schema.WSTRING:
		return d.decodeString(t)
	case schema.TIME:
		sec, err := d.read32()
		if err != nil {
			return nil, err
		}
		nsec, err := d.read32()
		if err != nil {
			return nil, err
		}
		return [2]uint32{sec, nsec}, nil
	case schema.DURATION:
		sec, err := d.read32()
		if err != nil {
			return nil, err
		}
		nsec, err := d.read32()
		if err != nil {
			return nil, err
		}
		return [2]uint32{sec, nsec}, nil
	default:
		return nil, &schema.ParseError{Kind: schema.UnexpectedToken, Msg: "unsupported primitive in cdr"}
	}
}

func (d *Decoder) read32() (uint32, error) {
	if err := d.align(4); err != nil {
		return 0, err
	}
	b, err := d.readBytes(4)
	if err != nil {
		return 0, err
	}
	return d.order.Uint32(b), nil
}

func (d *Decoder) read64() (uint64, error) {
	if err := d.align(8); err != nil {
		return 0, err
	}
	b, err := d.readBytes(8)
	if err != nil {
		return 0, err
	}
	return d.order.Uint64(b), nil
}

func (d *Decoder) decodeString(t schema.Type) (string, error) {
	n, err := d.read32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", &schema.TruncatedError{Field: "cdr string length"}
	}
	strLen := int(n) - 1
	if t.SizeBound > 0 && strLen > t.SizeBound {
		return "", &schema.BoundViolationError{Field: "string", Bound: t.SizeBound, Got: strLen}
	}
	b, err := d.readBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b[:strLen]), nil
}

////////////////////////////////////////////////////////////////////////////////
// Encoder

// Encoder builds a single little-endian CDR message, representation
// header included.
type Encoder struct {
	buf   []byte
	pos   int
	store Lookuper
}

// NewEncoder creates an Encoder and writes the little-endian
// representation-identifier header.
func NewEncoder(store Lookuper) *Encoder {
	return &Encoder{buf: append([]byte{}, leHeader[:]...), store: store}
}

// Bytes returns the accumulated encoding, header included.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

func (e *Encoder) align(n int) {
	rem := e.pos % n
	if rem == 0 {
		return
	}
	pad := n - rem
	e.buf = append(e.buf, make([]byte, pad)...)
	e.pos += pad
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
		e.write32(uint32(len(items)))
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
			e.push([]byte{1})
		} else {
			e.push([]byte{0})
		}
	case schema.INT8:
		n, ok := v.(int8)
		if !ok {
			return &schema.TypeMismatchError{Field: "int8", Expected: "int8"}
		}
		e.push([]byte{byte(n)})
	case schema.UINT8, schema.BYTE, schema.OCTET, schema.CHAR:
		n, ok := v.(uint8)
		if !ok {
			return &schema.TypeMismatchError{Field: "uint8", Expected: "uint8"}
		}
		e.push([]byte{n})
	case schema.INT16:
		n, ok := v.(int16)
		if !ok {
			return &schema.TypeMismatchError{Field: "int16", Expected: "int16"}
		}
		e.align(2)
		e.write16(uint16(n))
	case schema.UINT16:
		n, ok := v.(uint16)
		if !ok {
			return &schema.TypeMismatchError{Field: "uint16", Expected: "uint16"}
		}
		e.align(2)
		e.write16(n)
	case schema.INT32:
		n, ok := v.(int32)
		if !ok {
			return &schema.TypeMismatchError{Field: "int32", Expected: "int32"}
		}
		e.write32(uint32(n))
	case schema.UINT32:
		n, ok := v.(uint32)
		if !ok {
			return &schema.TypeMismatchError{Field: "uint32", Expected: "uint32"}
		}
		e.write32(n)
	case schema.INT64:
		n, ok := v.(int64)
		if !ok {
			return &schema.TypeMismatchError{Field: "int64", Expected: "int64"}
		}
		e.write64(uint64(n))
	case schema.UINT64:
		n, ok := v.(uint64)
		if !ok {
			return &schema.TypeMismatchError{Field: "uint64", Expected: "uint64"}
		}
		e.write64(n)
	case schema.FLOAT32:
		n, ok := v.(float32)
		if !ok {
			return &schema.TypeMismatchError{Field: "float32", Expected: "float32"}
		}
		e.write32(math.Float32bits(n))
	case schema.FLOAT64:
		n, ok := v.(float64)
		if !ok {
			return &schema.TypeMismatchError{Field: "float64", Expected: "float64"}
		}
		e.write64(math.Float64bits(n))
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
		e.write32(uint32(len(s) + 1))
		e.push([]byte(s))
		e.push([]byte{0})
	case schema.TIME, schema.DURATION:
		parts, ok := v.([2]uint32)
		if !ok {
			return &schema.TypeMismatchError{Field: "time/duration", Expected: "[2]uint32"}
		}
		e.write32(parts[0])
		e.write32(parts[1])
	default:
		return &schema.ParseError{Kind: schema.UnexpectedToken, Msg: "unsupported primitive in cdr"}
	}
	return nil
}

func (e *Encoder) push(b []byte) {
	e.buf = append(e.buf, b...)
	e.pos += len(b)
}

func (e *Encoder) write16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.push(b[:])
}

func (e *Encoder) write32(v uint32) {
	e.align(4)
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.push(b[:])
}

func (e *Encoder) write64(v uint64) {
	e.align(8)
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.push(b[:])
}
