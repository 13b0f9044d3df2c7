package common

import (
	"encoding/binary"
	"math"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// PutFloat32s writes the values into buf as consecutive little-endian float32s.
// buf must hold at least 4*len(values) bytes.
//
// Parameters:
//   - buf: destination byte slice
//   - values: the floats to encode
//
// Returns:
//   - int: the number of bytes written
func PutFloat32s(buf []byte, values ...float32) int {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return len(values) * 4
}

// Float32sFromBytes decodes consecutive little-endian float32s from buf.
//
// Parameters:
//   - buf: source byte slice, its length is truncated to a multiple of 4
//
// Returns:
//   - []float32: the decoded values
func Float32sFromBytes(buf []byte) []float32 {
	out := make([]float32, len(buf)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out
}
