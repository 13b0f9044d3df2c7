package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
)

// wgslVertexFormatMap maps WGSL type names to their vertex format and packed byte size
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {gpu.VertexFormatFloat, 4},
	"vec2f":     {gpu.VertexFormatFloat2, 8},
	"vec2<f32>": {gpu.VertexFormatFloat2, 8},
	"vec3f":     {gpu.VertexFormatFloat3, 12},
	"vec3<f32>": {gpu.VertexFormatFloat3, 12},
	"vec4f":     {gpu.VertexFormatFloat4, 16},
	"vec4<f32>": {gpu.VertexFormatFloat4, 16},
}

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct field line: optional attributes, name, colon, type.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	// entryPointRegex matches a stage attribute, any further attributes, and captures the function name
	entryPointRegex = regexp.MustCompile(`@(vertex|fragment|compute)\b[^{;]*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(1) var<uniform> uniforms: Uniforms;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// wgslStageMap maps WGSL stage attributes to pipeline stages
var wgslStageMap = map[string]gpu.ShaderStage{
	"vertex":   gpu.ShaderStageVertex,
	"fragment": gpu.ShaderStageFragment,
	"compute":  gpu.ShaderStageCompute,
}

// parseEntryPoints extracts every stage entry point from WGSL source in declaration order.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - []parsedEntryPoint: the entry points found
func parseEntryPoints(source string) []parsedEntryPoint {
	cleaned := stripComments(source)
	matches := entryPointRegex.FindAllStringSubmatch(cleaned, -1)
	out := make([]parsedEntryPoint, 0, len(matches))
	for _, m := range matches {
		out = append(out, parsedEntryPoint{name: m[2], stage: wgslStageMap[m[1]]})
	}
	return out
}

// parseVertexInput finds the first struct that is a pure vertex input (has @location
// attributes but no @builtin fields) and converts it into a single-buffer vertex descriptor
// with tightly packed attributes. Returns false if no such struct exists or a field type is
// not a recognized vertex format.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - gpu.VertexDescriptor: the packed layout expected by the vertex stage
//   - bool: false if the source declares no usable vertex input
func parseVertexInput(source string) (gpu.VertexDescriptor, bool) {
	structs := parseStructBlocks(stripComments(source))
	for _, ps := range structs {
		if !isVertexInputStruct(ps) {
			continue
		}
		return buildVertexDescriptor(ps)
	}
	return gpu.VertexDescriptor{}, false
}

// parseBindings extracts all @group(N) @binding(M) resource declarations, sorted by group then binding.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - []parsedBinding: the declarations found
func parseBindings(source string) []parsedBinding {
	cleaned := stripComments(source)
	matches := bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1)
	out := make([]parsedBinding, 0, len(matches))
	for _, match := range matches {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		out = append(out, parsedBinding{
			group:        group,
			binding:      binding,
			addressSpace: strings.TrimSpace(match[3]),
			varName:      strings.TrimSpace(match[4]),
			typeName:     strings.TrimSpace(match[5]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].group != out[j].group {
			return out[i].group < out[j].group
		}
		return out[i].binding < out[j].binding
	})
	return out
}

// parseStructBlocks finds all struct { ... } blocks in the cleaned WGSL source
// and parses their fields including @location and @builtin attributes
//
// Parameters:
//   - source: WGSL source with comments already stripped
//
// Returns:
//   - []parsedStruct: all struct blocks found in the source
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))

	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}

	return structs
}

// parseStructFields parses the body of a struct block into individual fields,
// extracting @location and @builtin attributes along with the field name and type
//
// Parameters:
//   - body: the content between { and } of a struct declaration
//
// Returns:
//   - []parsedField: all fields found in the struct body
func parseStructFields(body string) []parsedField {
	lines := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field := parsedField{location: -1}
		field.isBuiltin = builtinRegex.MatchString(line)

		if locMatch := locationRegex.FindStringSubmatch(line); locMatch != nil {
			if loc, err := strconv.Atoi(locMatch[1]); err == nil {
				field.location = loc
			}
		}

		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		field.name = fm[1]
		field.typeName = strings.TrimSpace(fm[2])

		fields = append(fields, field)
	}

	return fields
}
