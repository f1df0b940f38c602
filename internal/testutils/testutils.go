// Package testutils provides byte-construction helpers for table-driven
// codec tests, grounded on dp3's util/testutils package.
package testutils

import (
	"encoding/binary"
	"math"
)

// Flatten concatenates slices of the same type.
func Flatten[T any](slices ...[]T) []T {
	var result []T
	for _, s := range slices {
		result = append(result, s...)
	}
	return result
}

// Boolb returns a byte slice containing a single bool value.
func Boolb(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

// I8b returns a byte slice containing a single int8 value.
func I8b(v int8) []byte {
	return []byte{byte(v)}
}

// U8b returns a byte slice containing a single uint8 value.
func U8b(v uint8) []byte {
	return []byte{v}
}

// I16b returns a little-endian byte slice containing a single int16 value.
func I16b(v int16) []byte {
	return U16b(uint16(v))
}

// U16b returns a little-endian byte slice containing a single uint16 value.
func U16b(v uint16) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, v)
	return buf
}

// I32b returns a little-endian byte slice containing a single int32 value.
func I32b(v int32) []byte {
	return U32b(uint32(v))
}

// U32b returns a little-endian byte slice containing a single uint32 value.
func U32b(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return buf
}

// I64b returns a little-endian byte slice containing a single int64 value.
func I64b(v int64) []byte {
	return U64b(uint64(v))
}

// U64b returns a little-endian byte slice containing a single uint64 value.
func U64b(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

// F32b returns a little-endian byte slice containing a single float32 value.
func F32b(v float32) []byte {
	return U32b(math.Float32bits(v))
}

// F64b returns a little-endian byte slice containing a single float64 value.
func F64b(v float64) []byte {
	return U64b(math.Float64bits(v))
}

// PrefixedString returns the wire1 length-prefixed encoding of s: a
// little-endian uint32 length followed by the raw bytes.
func PrefixedString(s string) []byte {
	return Flatten(U32b(uint32(len(s))), []byte(s))
}

// CDRString returns the CDR length-prefixed encoding of s: a little-endian
// uint32 length (including the NUL terminator) followed by the raw bytes
// and a trailing 0x00.
func CDRString(s string) []byte {
	return Flatten(U32b(uint32(len(s)+1)), []byte(s), []byte{0})
}

// Pad returns n zero bytes, useful for asserting CDR alignment padding in
// test fixtures.
func Pad(n int) []byte {
	return make([]byte, n)
}
