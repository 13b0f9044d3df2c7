package shader

import (
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
)

// wgslPrimitiveLayoutMap maps WGSL scalar, vector, and matrix type names
// to their byte size and alignment per the WGSL specification.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslPrimitiveLayoutMap = map[string]wgslTypeLayout{
	"f32":  {4, 4},
	"i32":  {4, 4},
	"u32":  {4, 4},
	"bool": {4, 4},

	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},

	"mat3x3<f32>": {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

// roundUpAlign rounds value up to the next multiple of alignment.
// Alignment must be a power of two.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// resolveTypeLayout resolves a WGSL type name to its size and alignment using primitives,
// previously computed struct layouts, and fixed-size arrays (array<T, N>).
//
// Parameters:
//   - typeName: the WGSL type name to resolve, e.g. "f32", "Uniforms", "array<vec4<f32>, 4>"
//   - knownTypes: a map of already-resolved type names to their layouts
//
// Returns:
//   - wgslTypeLayout: the resolved layout
//   - bool: false for runtime-sized arrays or unknown types
func resolveTypeLayout(typeName string, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if layout, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return layout, true
	}
	if layout, ok := knownTypes[typeName]; ok {
		return layout, true
	}

	if strings.HasPrefix(typeName, "array<") && strings.HasSuffix(typeName, ">") {
		inner := typeName[6 : len(typeName)-1]
		idx := strings.LastIndex(inner, ",")
		if idx < 0 {
			return wgslTypeLayout{}, false
		}
		elemLayout, ok := resolveTypeLayout(strings.TrimSpace(inner[:idx]), knownTypes)
		if !ok {
			return wgslTypeLayout{}, false
		}
		count, err := strconv.ParseUint(strings.TrimSpace(inner[idx+1:]), 10, 64)
		if err != nil {
			return wgslTypeLayout{}, false
		}
		stride := roundUpAlign(elemLayout.align, elemLayout.size)
		return wgslTypeLayout{count * stride, elemLayout.align}, true
	}

	return wgslTypeLayout{}, false
}

// computeStructSizes computes the byte size and alignment of all parsed WGSL structs.
// Structs that embed other structs are resolved iteratively; unresolvable structs are omitted.
//
// Parameters:
//   - structs: all parsed struct blocks from the WGSL source
//
// Returns:
//   - map[string]wgslTypeLayout: a map from struct name to computed layout
func computeStructSizes(structs []parsedStruct) map[string]wgslTypeLayout {
	resolved := make(map[string]wgslTypeLayout, len(structs))
	remaining := append([]parsedStruct(nil), structs...)

	for len(remaining) > 0 {
		progress := false
		next := remaining[:0]

		for _, ps := range remaining {
			if layout, ok := computeStructLayout(ps, resolved); ok {
				resolved[ps.name] = layout
				progress = true
			} else {
				next = append(next, ps)
			}
		}

		remaining = next
		if !progress {
			break
		}
	}

	return resolved
}

// computeStructLayout places each non-builtin field at its next aligned offset and rounds
// the total up to the struct's largest alignment.
func computeStructLayout(ps parsedStruct, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	offset := uint64(0)
	maxAlign := uint64(1)

	for _, field := range ps.fields {
		if field.isBuiltin {
			continue
		}
		fieldLayout, ok := resolveTypeLayout(field.typeName, knownTypes)
		if !ok {
			return wgslTypeLayout{}, false
		}
		offset = roundUpAlign(fieldLayout.align, offset) + fieldLayout.size
		if fieldLayout.align > maxAlign {
			maxAlign = fieldLayout.align
		}
	}

	return wgslTypeLayout{roundUpAlign(maxAlign, offset), maxAlign}, true
}

// classifyBinding maps a WGSL address space to a binding kind.
// Only buffer resources can live in the binding table; handle types return false.
//
// Parameters:
//   - addressSpace: the address space qualifier, e.g. "uniform" or "storage, read"
//
// Returns:
//   - gpu.BindingKind: the slot kind
//   - bool: false for textures, samplers, and writable storage
func classifyBinding(addressSpace string) (gpu.BindingKind, bool) {
	parts := strings.Split(addressSpace, ",")
	switch strings.TrimSpace(parts[0]) {
	case "uniform":
		return gpu.BindingKindUniformBuffer, true
	case "storage":
		if len(parts) > 1 && strings.TrimSpace(parts[1]) != "read" {
			return 0, false
		}
		return gpu.BindingKindStorageBuffer, true
	default:
		return 0, false
	}
}

// stripComments removes line and block comments from WGSL source.
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

// stripLineComments removes single-line // comments from WGSL source so they
// do not interfere with struct and field parsing
//
// Parameters:
//   - source: raw WGSL source string
//
// Returns:
//   - string: source with line comments removed
func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes block comments (/* ... */) from WGSL source,
// handling nested block comments per the WGSL specification
//
// Parameters:
//   - source: raw WGSL source string
//
// Returns:
//   - string: source with block comments removed
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			if source[i] == '/' && source[i+1] == '*' {
				depth++
				i++
				continue
			}
			if depth > 0 && source[i] == '*' && source[i+1] == '/' {
				depth--
				i++
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}

// isVertexInputStruct reports whether every field of the struct is a @location input and none is a @builtin.
func isVertexInputStruct(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

// buildVertexDescriptor converts a parsed vertex input struct into a single-buffer descriptor.
// Each field's WGSL type maps to a vertex format; attributes are packed back to back in declaration order.
//
// Parameters:
//   - ps: the parsed struct containing vertex input fields
//
// Returns:
//   - gpu.VertexDescriptor: the constructed layout
//   - bool: false if a field type could not be mapped to a vertex format
func buildVertexDescriptor(ps parsedStruct) (gpu.VertexDescriptor, bool) {
	attrs := make([]gpu.VertexAttribute, 0, len(ps.fields))
	var offset uint64

	for _, f := range ps.fields {
		info, ok := wgslVertexFormatMap[f.typeName]
		if !ok || f.location < 0 {
			return gpu.VertexDescriptor{}, false
		}
		attrs = append(attrs, gpu.VertexAttribute{
			Format:         info.format,
			Offset:         offset,
			BufferIndex:    0,
			ShaderLocation: uint32(f.location),
		})
		offset += info.size
	}

	return gpu.VertexDescriptor{
		Attributes: attrs,
		Layouts: []gpu.VertexBufferLayout{
			{Stride: offset, StepFunction: gpu.VertexStepFunctionPerVertex},
		},
	}, true
}

// splitAtTopLevelCommas splits a string at commas that are not nested inside angle brackets,
// so types like array<vec4<f32>, 4> stay in one piece.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
