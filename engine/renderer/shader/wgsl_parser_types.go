package shader

import "github.com/Carmen-Shannon/hellocube/engine/gpu"

// vertexFormatInfo holds the vertex format of a WGSL type and its packed byte size for offset calculation
type vertexFormatInfo struct {
	format gpu.VertexFormat
	size   uint64
}

// wgslTypeLayout holds the byte size and alignment for a WGSL type per the WGSL specification.
// Used to compute the minimum binding size of buffer bindings.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}

// parsedEntryPoint is one @vertex, @fragment or @compute function
type parsedEntryPoint struct {
	name  string
	stage gpu.ShaderStage
}

// parsedBinding is one @group(G) @binding(B) resource declaration
type parsedBinding struct {
	group        int
	binding      int
	addressSpace string
	varName      string
	typeName     string
}
