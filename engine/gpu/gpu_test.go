package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func interleaved() VertexDescriptor {
	return VertexDescriptor{
		Attributes: []VertexAttribute{
			{Format: VertexFormatFloat3, Offset: 0, ShaderLocation: 0},
			{Format: VertexFormatFloat4, Offset: 12, ShaderLocation: 1},
		},
		Layouts: []VertexBufferLayout{{Stride: 28}},
	}
}

func TestVertexDescriptorValidate(t *testing.T) {
	assert.NoError(t, interleaved().Validate())

	cases := map[string]func(d *VertexDescriptor){
		"no attributes":      func(d *VertexDescriptor) { d.Attributes = nil },
		"missing layout":     func(d *VertexDescriptor) { d.Attributes[1].BufferIndex = 1 },
		"invalid format":     func(d *VertexDescriptor) { d.Attributes[0].Format = VertexFormatInvalid },
		"past stride":        func(d *VertexDescriptor) { d.Layouts[0].Stride = 24 },
		"duplicate location": func(d *VertexDescriptor) { d.Attributes[1].ShaderLocation = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			d := interleaved()
			mutate(&d)
			assert.ErrorIs(t, d.Validate(), ErrInvalidVertexDescriptor)
		})
	}
}

func TestVertexDescriptorAttribute(t *testing.T) {
	a, ok := interleaved().Attribute(1)
	assert.True(t, ok)
	assert.Equal(t, uint64(12), a.Offset)

	_, ok = interleaved().Attribute(5)
	assert.False(t, ok)
}

func TestFormatSizes(t *testing.T) {
	assert.Equal(t, uint64(12), VertexFormatFloat3.Size())
	assert.Equal(t, uint64(16), VertexFormatFloat4.Size())
	assert.Equal(t, uint64(0), VertexFormatInvalid.Size())
	assert.Equal(t, uint64(4), IndexTypeUInt32.Size())
	assert.Equal(t, uint64(2), IndexTypeUInt16.Size())
	assert.True(t, PixelFormatDepth32Float.IsDepth())
	assert.False(t, PixelFormatBGRA8Unorm.IsDepth())
	assert.Equal(t, "bgra8unorm", PixelFormatBGRA8Unorm.String())
}

func TestBufferUsageHas(t *testing.T) {
	u := BufferUsageVertex | BufferUsageUniform
	assert.True(t, u.Has(BufferUsageVertex))
	assert.True(t, u.Has(BufferUsageUniform))
	assert.False(t, u.Has(BufferUsageIndex))
}
