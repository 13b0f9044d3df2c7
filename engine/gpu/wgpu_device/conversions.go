package wgpu_device

import (
	"fmt"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// pixelFormatMap maps device-neutral pixel formats to WebGPU texture formats.
var pixelFormatMap = map[gpu.PixelFormat]wgpu.TextureFormat{
	gpu.PixelFormatBGRA8Unorm:     wgpu.TextureFormatBGRA8Unorm,
	gpu.PixelFormatBGRA8UnormSRGB: wgpu.TextureFormatBGRA8UnormSrgb,
	gpu.PixelFormatRGBA8Unorm:     wgpu.TextureFormatRGBA8Unorm,
	gpu.PixelFormatRGBA8UnormSRGB: wgpu.TextureFormatRGBA8UnormSrgb,
	gpu.PixelFormatDepth32Float:   wgpu.TextureFormatDepth32Float,
}

// vertexFormatMap maps device-neutral vertex formats to WebGPU vertex formats.
var vertexFormatMap = map[gpu.VertexFormat]wgpu.VertexFormat{
	gpu.VertexFormatFloat:  wgpu.VertexFormatFloat32,
	gpu.VertexFormatFloat2: wgpu.VertexFormatFloat32x2,
	gpu.VertexFormatFloat3: wgpu.VertexFormatFloat32x3,
	gpu.VertexFormatFloat4: wgpu.VertexFormatFloat32x4,
}

// toTextureFormat converts a pixel format, failing for formats WebGPU cannot render to.
func toTextureFormat(f gpu.PixelFormat) (wgpu.TextureFormat, error) {
	tf, ok := pixelFormatMap[f]
	if !ok {
		return wgpu.TextureFormatUndefined, fmt.Errorf("wgpu_device: unsupported pixel format %s", f)
	}
	return tf, nil
}

// fromTextureFormat converts a surface format back, returning false for formats the renderer does not use.
func fromTextureFormat(tf wgpu.TextureFormat) (gpu.PixelFormat, bool) {
	for pf, candidate := range pixelFormatMap {
		if candidate == tf {
			return pf, true
		}
	}
	return gpu.PixelFormatInvalid, false
}

// toBufferUsage converts usage flags. Every buffer is also a copy destination so it can be written through the queue.
func toBufferUsage(u gpu.BufferUsage) wgpu.BufferUsage {
	usage := wgpu.BufferUsageCopyDst
	if u.Has(gpu.BufferUsageVertex) {
		usage |= wgpu.BufferUsageVertex
	}
	if u.Has(gpu.BufferUsageIndex) {
		usage |= wgpu.BufferUsageIndex
	}
	if u.Has(gpu.BufferUsageUniform) {
		usage |= wgpu.BufferUsageUniform
	}
	if u.Has(gpu.BufferUsageStorage) {
		usage |= wgpu.BufferUsageStorage
	}
	return usage
}

// toTextureUsage converts texture usage flags.
func toTextureUsage(u gpu.TextureUsage) wgpu.TextureUsage {
	var usage wgpu.TextureUsage
	if u&gpu.TextureUsageRenderTarget != 0 {
		usage |= wgpu.TextureUsageRenderAttachment
	}
	if u&gpu.TextureUsageShaderRead != 0 {
		usage |= wgpu.TextureUsageTextureBinding
	}
	return usage
}

// toShaderStage converts a stage bit set to WebGPU visibility flags.
func toShaderStage(s gpu.ShaderStage) wgpu.ShaderStage {
	var stage wgpu.ShaderStage
	if s&gpu.ShaderStageVertex != 0 {
		stage |= wgpu.ShaderStageVertex
	}
	if s&gpu.ShaderStageFragment != 0 {
		stage |= wgpu.ShaderStageFragment
	}
	if s&gpu.ShaderStageCompute != 0 {
		stage |= wgpu.ShaderStageCompute
	}
	return stage
}

func toTopology(p gpu.PrimitiveType) wgpu.PrimitiveTopology {
	switch p {
	case gpu.PrimitiveTypeTriangleStrip:
		return wgpu.PrimitiveTopologyTriangleStrip
	case gpu.PrimitiveTypeLine:
		return wgpu.PrimitiveTopologyLineList
	case gpu.PrimitiveTypePoint:
		return wgpu.PrimitiveTopologyPointList
	default:
		return wgpu.PrimitiveTopologyTriangleList
	}
}

func toIndexFormat(t gpu.IndexType) wgpu.IndexFormat {
	if t == gpu.IndexTypeUInt16 {
		return wgpu.IndexFormatUint16
	}
	return wgpu.IndexFormatUint32
}

func toCullMode(m gpu.CullMode) wgpu.CullMode {
	switch m {
	case gpu.CullModeFront:
		return wgpu.CullModeFront
	case gpu.CullModeBack:
		return wgpu.CullModeBack
	default:
		return wgpu.CullModeNone
	}
}

func toFrontFace(w gpu.Winding) wgpu.FrontFace {
	if w == gpu.WindingCounterClockwise {
		return wgpu.FrontFaceCCW
	}
	return wgpu.FrontFaceCW
}

func toCompareFunction(c gpu.CompareFunction) wgpu.CompareFunction {
	switch c {
	case gpu.CompareFunctionLessEqual:
		return wgpu.CompareFunctionLessEqual
	case gpu.CompareFunctionAlways:
		return wgpu.CompareFunctionAlways
	default:
		return wgpu.CompareFunctionLess
	}
}

func toLoadOp(a gpu.LoadAction) wgpu.LoadOp {
	if a == gpu.LoadActionLoad {
		return wgpu.LoadOpLoad
	}
	// WebGPU has no dont-care load op.
	return wgpu.LoadOpClear
}

func toStoreOp(a gpu.StoreAction) wgpu.StoreOp {
	if a == gpu.StoreActionDontCare {
		return wgpu.StoreOpDiscard
	}
	return wgpu.StoreOpStore
}

// vertexBufferLayouts groups the descriptor's attributes by buffer index.
// Layout i of the result is bound with SetVertexBuffer(i).
//
// Parameters:
//   - desc: a validated vertex descriptor
//
// Returns:
//   - []wgpu.VertexBufferLayout: one layout per descriptor layout
//   - error: an error if an attribute format has no WebGPU equivalent
func vertexBufferLayouts(desc gpu.VertexDescriptor) ([]wgpu.VertexBufferLayout, error) {
	layouts := make([]wgpu.VertexBufferLayout, len(desc.Layouts))
	for i, l := range desc.Layouts {
		layouts[i] = wgpu.VertexBufferLayout{
			ArrayStride: l.Stride,
			StepMode:    wgpu.VertexStepModeVertex,
		}
		if l.StepFunction == gpu.VertexStepFunctionPerInstance {
			layouts[i].StepMode = wgpu.VertexStepModeInstance
		}
	}
	for _, a := range desc.Attributes {
		format, ok := vertexFormatMap[a.Format]
		if !ok {
			return nil, fmt.Errorf("wgpu_device: unsupported vertex format %s at location %d", a.Format, a.ShaderLocation)
		}
		layouts[a.BufferIndex].Attributes = append(layouts[a.BufferIndex].Attributes, wgpu.VertexAttribute{
			Format:         format,
			Offset:         a.Offset,
			ShaderLocation: a.ShaderLocation,
		})
	}
	return layouts, nil
}

// bindGroupLayoutEntries describes the buffer slots of a binding table as entries of bind group 0.
// Vertex buffer slots are bound with SetVertexBuffer and have no entry.
//
// Parameters:
//   - bindings: the pipeline's binding layout
//
// Returns:
//   - []wgpu.BindGroupLayoutEntry: one entry per uniform or storage slot, binding = slot
func bindGroupLayoutEntries(bindings []gpu.BindingLayout) []wgpu.BindGroupLayoutEntry {
	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(bindings))
	for _, b := range bindings {
		var bufferType wgpu.BufferBindingType
		switch b.Kind {
		case gpu.BindingKindUniformBuffer:
			bufferType = wgpu.BufferBindingTypeUniform
		case gpu.BindingKindStorageBuffer:
			bufferType = wgpu.BufferBindingTypeReadOnlyStorage
		default:
			continue
		}
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    b.Slot,
			Visibility: toShaderStage(b.Stages),
			Buffer: wgpu.BufferBindingLayout{
				Type:           bufferType,
				MinBindingSize: b.MinSize,
			},
		})
	}
	return entries
}

// alignedContents pads data with zeros to a multiple of four bytes, as queue writes require.
func alignedContents(data []byte) []byte {
	if len(data)%4 == 0 {
		return data
	}
	padded := make([]byte, (len(data)+3)&^3)
	copy(padded, data)
	return padded
}
