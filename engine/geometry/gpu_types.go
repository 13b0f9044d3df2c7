package geometry

import (
	"unsafe"

	"github.com/Carmen-Shannon/hellocube/common"
	"github.com/Carmen-Shannon/hellocube/engine/gpu"
)

// Byte layout of GPUVertex as seen by the vertex stage.
const (
	// VertexPositionOffset is the byte offset of the position attribute (vec3<f32>).
	VertexPositionOffset = 0

	// VertexColorOffset is the byte offset of the color attribute (vec4<f32>), one vec3<f32> past the position.
	VertexColorOffset = 12

	// VertexStride is the distance in bytes between consecutive vertices.
	VertexStride = 28

	// IndexSize is the size of one index in bytes.
	IndexSize = 4
)

// GPUVertex is the GPU representation of a single colored vertex.
// Attributes are tightly packed to match the shader's VertexIn struct.
// Size: 28 bytes, no padding.
type GPUVertex struct {
	Position [3]float32 // offset  0: position in model space (12 bytes)
	Color    [4]float32 // offset 12: RGBA color (16 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (28)
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the vertex into a 28-byte little-endian buffer.
//
// Returns:
//   - []byte: the serialized vertex
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, VertexStride)
	g.marshalInto(buf)
	return buf
}

func (g *GPUVertex) marshalInto(buf []byte) {
	n := common.PutFloat32s(buf[VertexPositionOffset:], g.Position[:]...)
	common.PutFloat32s(buf[n:], g.Color[:]...)
}

// VertexDescriptor returns the vertex memory layout matching GPUVertex:
// attribute 0 is Float3 at offset 0, attribute 1 is Float4 at offset 12, both read from buffer 0 with stride 28.
//
// Returns:
//   - gpu.VertexDescriptor: the layout description
func VertexDescriptor() gpu.VertexDescriptor {
	return gpu.VertexDescriptor{
		Attributes: []gpu.VertexAttribute{
			{Format: gpu.VertexFormatFloat3, Offset: VertexPositionOffset, BufferIndex: 0, ShaderLocation: 0},
			{Format: gpu.VertexFormatFloat4, Offset: VertexColorOffset, BufferIndex: 0, ShaderLocation: 1},
		},
		Layouts: []gpu.VertexBufferLayout{
			{Stride: VertexStride, StepFunction: gpu.VertexStepFunctionPerVertex},
		},
	}
}
