package gpu

import (
	"errors"
	"fmt"
)

// ErrInvalidVertexDescriptor is returned when a vertex layout is internally inconsistent.
var ErrInvalidVertexDescriptor = errors.New("gpu: invalid vertex descriptor")

// Validate checks that every attribute references an existing layout, has a known format,
// lies inside its layout's stride, and that no two attributes share a shader location.
//
// Returns:
//   - error: wraps ErrInvalidVertexDescriptor describing the first problem found
func (d VertexDescriptor) Validate() error {
	if len(d.Attributes) == 0 {
		return fmt.Errorf("%w: no attributes", ErrInvalidVertexDescriptor)
	}
	seen := make(map[uint32]bool, len(d.Attributes))
	for i, a := range d.Attributes {
		if int(a.BufferIndex) >= len(d.Layouts) {
			return fmt.Errorf("%w: attribute %d references layout %d of %d", ErrInvalidVertexDescriptor, i, a.BufferIndex, len(d.Layouts))
		}
		size := a.Format.Size()
		if size == 0 {
			return fmt.Errorf("%w: attribute %d has invalid format", ErrInvalidVertexDescriptor, i)
		}
		if stride := d.Layouts[a.BufferIndex].Stride; a.Offset+size > stride {
			return fmt.Errorf("%w: attribute %d ends at %d past stride %d", ErrInvalidVertexDescriptor, i, a.Offset+size, stride)
		}
		if seen[a.ShaderLocation] {
			return fmt.Errorf("%w: location %d bound twice", ErrInvalidVertexDescriptor, a.ShaderLocation)
		}
		seen[a.ShaderLocation] = true
	}
	return nil
}

// Attribute returns the attribute read at a shader location.
//
// Parameters:
//   - location: the shader location
//
// Returns:
//   - VertexAttribute: the attribute
//   - bool: false if no attribute feeds the location
func (d VertexDescriptor) Attribute(location uint32) (VertexAttribute, bool) {
	for _, a := range d.Attributes {
		if a.ShaderLocation == location {
			return a, true
		}
	}
	return VertexAttribute{}, false
}
