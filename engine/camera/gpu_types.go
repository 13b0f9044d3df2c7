package camera

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUUniforms is the GPU-aligned representation of the per-frame uniform block.
// Matches the WGSL Uniforms struct of the hello cube shader.
// Size: 64 bytes.
type GPUUniforms struct {
	MVP [16]float32 // offset 0: model-view-projection matrix (mat4x4<f32>, column-major)
}

// Size returns the size of the GPUUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUUniforms struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUUniforms) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.MVP[i]))
	}
	return buf
}
