package gpu

// PixelFormat identifies the memory layout of a texture texel.
type PixelFormat int

const (
	// PixelFormatInvalid is the zero value and is never a valid render target format.
	PixelFormatInvalid PixelFormat = iota

	// PixelFormatBGRA8Unorm is 8-bit normalized BGRA, the usual swapchain format.
	PixelFormatBGRA8Unorm

	// PixelFormatBGRA8UnormSRGB is 8-bit normalized BGRA with sRGB encoding.
	PixelFormatBGRA8UnormSRGB

	// PixelFormatRGBA8Unorm is 8-bit normalized RGBA.
	PixelFormatRGBA8Unorm

	// PixelFormatRGBA8UnormSRGB is 8-bit normalized RGBA with sRGB encoding.
	PixelFormatRGBA8UnormSRGB

	// PixelFormatDepth32Float is a 32-bit floating point depth format.
	PixelFormatDepth32Float
)

// String returns the lower-case name of the format.
func (f PixelFormat) String() string {
	switch f {
	case PixelFormatBGRA8Unorm:
		return "bgra8unorm"
	case PixelFormatBGRA8UnormSRGB:
		return "bgra8unorm-srgb"
	case PixelFormatRGBA8Unorm:
		return "rgba8unorm"
	case PixelFormatRGBA8UnormSRGB:
		return "rgba8unorm-srgb"
	case PixelFormatDepth32Float:
		return "depth32float"
	default:
		return "invalid"
	}
}

// IsDepth reports whether the format holds depth values.
func (f PixelFormat) IsDepth() bool {
	return f == PixelFormatDepth32Float
}

// VertexFormat identifies the type of one vertex attribute.
type VertexFormat int

const (
	VertexFormatInvalid VertexFormat = iota
	VertexFormatFloat
	VertexFormatFloat2
	VertexFormatFloat3
	VertexFormatFloat4
)

// Size returns the size of the attribute in bytes, or 0 for an invalid format.
func (f VertexFormat) Size() uint64 {
	switch f {
	case VertexFormatFloat:
		return 4
	case VertexFormatFloat2:
		return 8
	case VertexFormatFloat3:
		return 12
	case VertexFormatFloat4:
		return 16
	default:
		return 0
	}
}

// String returns the WGSL type name of the format.
func (f VertexFormat) String() string {
	switch f {
	case VertexFormatFloat:
		return "f32"
	case VertexFormatFloat2:
		return "vec2<f32>"
	case VertexFormatFloat3:
		return "vec3<f32>"
	case VertexFormatFloat4:
		return "vec4<f32>"
	default:
		return "invalid"
	}
}

// VertexStepFunction controls how often a vertex buffer layout advances.
type VertexStepFunction int

const (
	// VertexStepFunctionPerVertex advances once per vertex.
	VertexStepFunctionPerVertex VertexStepFunction = iota

	// VertexStepFunctionPerInstance advances once per instance.
	VertexStepFunctionPerInstance
)

// VertexAttribute describes one attribute read by the vertex stage.
type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint64
	BufferIndex    uint32
	ShaderLocation uint32
}

// VertexBufferLayout describes how one vertex buffer is strided.
type VertexBufferLayout struct {
	Stride       uint64
	StepFunction VertexStepFunction
}

// VertexDescriptor is the full vertex memory layout. Layouts are indexed by VertexAttribute.BufferIndex.
type VertexDescriptor struct {
	Attributes []VertexAttribute
	Layouts    []VertexBufferLayout
}

// BufferUsage is a bit set describing how a buffer is bound.
type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageIndex
	BufferUsageUniform
	BufferUsageStorage
)

// Has reports whether all bits of flag are set.
func (u BufferUsage) Has(flag BufferUsage) bool {
	return u&flag == flag
}

// BufferDescriptor describes a buffer to create.
// Immutable buffers must supply Contents; their Length is taken from it when zero.
type BufferDescriptor struct {
	Label     string
	Length    uint64
	Usage     BufferUsage
	Contents  []byte
	Immutable bool
}

// TextureUsage is a bit set describing how a texture is used.
type TextureUsage uint32

const (
	TextureUsageRenderTarget TextureUsage = 1 << iota
	TextureUsageShaderRead
)

// TextureDescriptor describes a 2D texture to create.
type TextureDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	Format PixelFormat
	Usage  TextureUsage
}

// ShaderStage is a bit set of programmable pipeline stages.
type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
	ShaderStageCompute
)

// String returns the WGSL attribute name of a single stage.
func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	case ShaderStageCompute:
		return "compute"
	default:
		return "mixed"
	}
}

// ShaderFunction is a resolved entry point in a shader library.
type ShaderFunction struct {
	// Library is the label of the library the function was resolved from.
	Library string

	// Name is the entry point name.
	Name string

	// Stage is the pipeline stage the entry point runs in.
	Stage ShaderStage

	// Source is the full source of the library, compiled once per distinct source by the device.
	Source string
}

// BindingKind identifies the resource type bound to a binding-table slot.
type BindingKind int

const (
	// BindingKindVertexBuffer slots feed vertex attributes.
	BindingKindVertexBuffer BindingKind = iota

	// BindingKindUniformBuffer slots hold read-only constant data.
	BindingKindUniformBuffer

	// BindingKindStorageBuffer slots hold read-only storage data.
	BindingKindStorageBuffer
)

// String returns a short name of the kind.
func (k BindingKind) String() string {
	switch k {
	case BindingKindVertexBuffer:
		return "vertex"
	case BindingKindUniformBuffer:
		return "uniform"
	case BindingKindStorageBuffer:
		return "storage"
	default:
		return "unknown"
	}
}

// BindingLayout describes what a pipeline expects at one binding-table slot.
type BindingLayout struct {
	Slot    uint32
	Kind    BindingKind
	Stages  ShaderStage
	MinSize uint64
}

// PrimitiveType is the assembly mode of a draw call.
type PrimitiveType int

const (
	PrimitiveTypeTriangle PrimitiveType = iota
	PrimitiveTypeTriangleStrip
	PrimitiveTypeLine
	PrimitiveTypePoint
)

// IndexType is the element type of an index buffer.
type IndexType int

const (
	IndexTypeUInt32 IndexType = iota
	IndexTypeUInt16
)

// Size returns the size of one index in bytes.
func (t IndexType) Size() uint64 {
	if t == IndexTypeUInt16 {
		return 2
	}
	return 4
}

// CullMode selects which faces are discarded before rasterization.
type CullMode int

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

// Winding is the screen-space vertex order that marks a triangle as front-facing.
type Winding int

const (
	WindingClockwise Winding = iota
	WindingCounterClockwise
)

// CompareFunction is a depth comparison.
type CompareFunction int

const (
	CompareFunctionLess CompareFunction = iota
	CompareFunctionLessEqual
	CompareFunctionAlways
)

// DepthState configures depth testing. A nil *DepthState disables the depth attachment.
type DepthState struct {
	Format       PixelFormat
	Compare      CompareFunction
	WriteEnabled bool
}

// RenderPipelineDescriptor describes an immutable render pipeline state.
type RenderPipelineDescriptor struct {
	Label            string
	VertexFunction   ShaderFunction
	FragmentFunction ShaderFunction
	VertexDescriptor VertexDescriptor
	Bindings         []BindingLayout
	ColorFormat      PixelFormat
	Depth            *DepthState
	CullMode         CullMode
	FrontFace        Winding
}

// BindingTableDescriptor describes a binding table for a pipeline.
type BindingTableDescriptor struct {
	Label              string
	Pipeline           RenderPipelineState
	MaxBufferBindCount int
}

// LoadAction is what a render pass does with an attachment before drawing.
type LoadAction int

const (
	LoadActionClear LoadAction = iota
	LoadActionLoad
	LoadActionDontCare
)

// StoreAction is what a render pass does with an attachment after drawing.
type StoreAction int

const (
	StoreActionStore StoreAction = iota
	StoreActionDontCare
)

// ClearColor is an RGBA clear value.
type ClearColor struct {
	R, G, B, A float64
}

// ColorAttachment is the color target of a render pass.
type ColorAttachment struct {
	Texture     Texture
	LoadAction  LoadAction
	StoreAction StoreAction
	ClearColor  ClearColor
}

// DepthAttachment is the depth target of a render pass.
type DepthAttachment struct {
	Texture     Texture
	LoadAction  LoadAction
	StoreAction StoreAction
	ClearDepth  float32
}

// RenderPassDescriptor describes the attachments of one render pass.
type RenderPassDescriptor struct {
	Label           string
	ColorAttachment ColorAttachment
	DepthAttachment *DepthAttachment
}
