package geometry

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when an index references a vertex that does not exist.
var ErrIndexOutOfRange = errors.New("geometry: index out of range")

// ErrIncompleteTriangle is returned when the index count is not a multiple of three.
var ErrIncompleteTriangle = errors.New("geometry: index count is not a multiple of 3")

// geometry is the implementation of the Geometry interface.
// It is immutable after construction; the serialized buffers are computed once.
type geometry struct {
	label      string
	vertices   []GPUVertex
	indices    []uint32
	vertexData []byte
	indexData  []byte
}

// Geometry is an immutable indexed triangle list.
// A single instance may be shared by any number of renderers.
type Geometry interface {
	// Label returns the debug label used for GPU resources created from this geometry.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Vertices returns a copy of the vertex table.
	//
	// Returns:
	//   - []GPUVertex: the vertices in index order
	Vertices() []GPUVertex

	// Indices returns a copy of the triangle index list.
	//
	// Returns:
	//   - []uint32: three indices per triangle
	Indices() []uint32

	// VertexCount returns the number of vertices.
	VertexCount() int

	// IndexCount returns the number of indices.
	IndexCount() int

	// VertexData returns the vertex table serialized with VertexStride bytes per vertex.
	// The returned slice must not be modified.
	//
	// Returns:
	//   - []byte: the vertex buffer contents
	VertexData() []byte

	// IndexData returns the index list serialized as little-endian uint32 values.
	// The returned slice must not be modified.
	//
	// Returns:
	//   - []byte: the index buffer contents
	IndexData() []byte
}

var _ Geometry = &geometry{}

// NewGeometry creates an immutable Geometry from a vertex table and triangle index list.
// The inputs are copied, so later changes to the caller's slices have no effect.
//
// Parameters:
//   - label: the debug label for GPU resources
//   - vertices: the vertex table
//   - indices: three indices per triangle, each in [0, len(vertices))
//
// Returns:
//   - Geometry: the new geometry
//   - error: ErrIncompleteTriangle or ErrIndexOutOfRange if the index list is malformed
func NewGeometry(label string, vertices []GPUVertex, indices []uint32) (Geometry, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d indices", ErrIncompleteTriangle, len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("%w: indices[%d] = %d with %d vertices", ErrIndexOutOfRange, i, idx, len(vertices))
		}
	}

	g := &geometry{
		label:    label,
		vertices: append([]GPUVertex(nil), vertices...),
		indices:  append([]uint32(nil), indices...),
	}

	g.vertexData = make([]byte, len(g.vertices)*VertexStride)
	for i := range g.vertices {
		g.vertices[i].marshalInto(g.vertexData[i*VertexStride:])
	}

	g.indexData = make([]byte, len(g.indices)*IndexSize)
	for i, idx := range g.indices {
		binary.LittleEndian.PutUint32(g.indexData[i*IndexSize:], idx)
	}

	return g, nil
}

func (g *geometry) Label() string {
	return g.label
}

func (g *geometry) Vertices() []GPUVertex {
	return append([]GPUVertex(nil), g.vertices...)
}

func (g *geometry) Indices() []uint32 {
	return append([]uint32(nil), g.indices...)
}

func (g *geometry) VertexCount() int {
	return len(g.vertices)
}

func (g *geometry) IndexCount() int {
	return len(g.indices)
}

func (g *geometry) VertexData() []byte {
	return g.vertexData
}

func (g *geometry) IndexData() []byte {
	return g.indexData
}
