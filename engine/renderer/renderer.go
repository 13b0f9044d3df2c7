// Package renderer draws a geometry through a command-buffer pipeline once per refresh.
package renderer

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/hellocube/engine/camera"
	"github.com/Carmen-Shannon/hellocube/engine/geometry"
	"github.com/Carmen-Shannon/hellocube/engine/gpu"
	"github.com/Carmen-Shannon/hellocube/engine/renderer/shader"
)

// vertexBufferSlot is the binding-table slot of the interleaved vertex buffer.
const vertexBufferSlot = 0

var (
	// ErrFrameDropped marks a frame skipped because of a transient condition.
	// The renderer is left unchanged and the next Draw retries naturally.
	ErrFrameDropped = errors.New("renderer: frame dropped")

	// ErrFrameInProgress is joined with ErrFrameDropped when Draw is called while another Draw runs.
	ErrFrameInProgress = errors.New("renderer: frame already in progress")

	// ErrZeroSizedDrawable is joined with ErrFrameDropped when the drawable has no area.
	ErrZeroSizedDrawable = errors.New("renderer: drawable has zero size")

	// ErrReleased is returned by Draw after Release.
	ErrReleased = errors.New("renderer: released")

	// ErrInvalidConfig is returned by NewRenderer for unusable options.
	ErrInvalidConfig = errors.New("renderer: invalid configuration")

	// ErrBindingLayout is returned by NewRenderer when the shader bindings cannot be satisfied.
	ErrBindingLayout = errors.New("renderer: unsupported shader binding layout")
)

// identityModel is the model matrix of the single static object.
var identityModel = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu      *sync.Mutex
	statsMu *sync.Mutex

	label          string
	camera         camera.Camera
	clearColor     gpu.ClearColor
	framesInFlight int
	depthTest      bool
	cullMode       gpu.CullMode

	pendingProjection *camera.Projection

	device   gpu.Device
	surface  gpu.Surface
	library  shader.Library
	geometry geometry.Geometry

	queue         gpu.CommandQueue
	allocator     gpu.CommandAllocator
	commandBuffer gpu.CommandBuffer
	vertexBuffer  gpu.Buffer
	indexBuffer   gpu.Buffer
	pipeline      gpu.RenderPipelineState
	ring          *uniformRing
	depthTexture  gpu.Texture

	lastSerial uint64
	released   bool

	state atomic.Int32
	stats FrameStats
}

// Renderer draws one geometry with a fixed camera. It owns every GPU resource it creates
// and frees them in Release; the device, surface, library and geometry stay owned by the caller.
//
// Draw must be driven from a single refresh callback. A Draw that overlaps another is dropped.
type Renderer interface {
	// Draw runs one frame: acquire a drawable, update the uniforms, encode the pass, submit and present.
	//
	// Returns:
	//   - error: nil when the frame was presented, an error wrapping ErrFrameDropped when the
	//     frame was skipped for a transient reason, or any other error for a device failure
	Draw() error

	// Resize reconfigures the surface. The projection picks up the new aspect ratio from the next drawable.
	// A zero or negative size is ignored, as sent by minimized windows.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be configured
	Resize(width, height int) error

	// State returns the protocol step of the frame in progress, FrameStateIdle between frames.
	State() FrameState

	// Stats returns a snapshot of the frame counters.
	Stats() FrameStats

	// Camera returns the camera the uniforms are computed from.
	Camera() camera.Camera

	// Release waits for submitted work and frees every GPU resource. It is safe to call more than once.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the GPU resources needed to draw geo with library on surface.
// Any failure releases the resources already created.
//
// Parameters:
//   - device: the device to allocate from
//   - surface: the surface drawables are acquired from
//   - library: the shader library exporting vertex_main and fragment_main
//   - geo: the geometry to draw, uploaded once into immutable buffers
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the ready renderer
//   - error: the wrapped cause of the first failed step
func NewRenderer(device gpu.Device, surface gpu.Surface, library shader.Library, geo geometry.Geometry, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:             &sync.Mutex{},
		statsMu:        &sync.Mutex{},
		label:          "hello_cube",
		clearColor:     gpu.ClearColor{R: 0.2, G: 0.2, B: 0.25, A: 1},
		framesInFlight: 3,
		depthTest:      true,
		cullMode:       gpu.CullModeNone,
		device:         device,
		surface:        surface,
		library:        library,
		geometry:       geo,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.camera == nil {
		r.camera = camera.NewCamera()
	}
	if r.pendingProjection != nil {
		r.camera.SetProjection(*r.pendingProjection)
	}
	if r.framesInFlight < 1 {
		return nil, fmt.Errorf("%w: frames in flight must be at least 1, got %d", ErrInvalidConfig, r.framesInFlight)
	}

	if err := r.init(); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

// init creates the queue, command recording objects, geometry buffers, pipeline and uniform ring in order.
func (r *renderer) init() error {
	var err error
	if r.queue, err = r.device.NewCommandQueue(); err != nil {
		return fmt.Errorf("renderer: create command queue: %w", err)
	}
	if r.allocator, err = r.device.NewCommandAllocator(); err != nil {
		return fmt.Errorf("renderer: create command allocator: %w", err)
	}
	if r.commandBuffer, err = r.device.NewCommandBuffer(); err != nil {
		return fmt.Errorf("renderer: create command buffer: %w", err)
	}

	vertexDesc := geometry.VertexDescriptor()
	if err := r.library.ValidateVertexDescriptor(vertexDesc); err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	if r.vertexBuffer, err = r.device.NewBuffer(gpu.BufferDescriptor{
		Label:     r.label + "_vertices",
		Usage:     gpu.BufferUsageVertex,
		Contents:  r.geometry.VertexData(),
		Immutable: true,
	}); err != nil {
		return fmt.Errorf("renderer: create vertex buffer: %w", err)
	}
	if r.indexBuffer, err = r.device.NewBuffer(gpu.BufferDescriptor{
		Label:     r.label + "_indices",
		Usage:     gpu.BufferUsageIndex,
		Contents:  r.geometry.IndexData(),
		Immutable: true,
	}); err != nil {
		return fmt.Errorf("renderer: create index buffer: %w", err)
	}

	vertexFn, err := r.library.Function(shader.VertexFunctionName)
	if err != nil {
		return fmt.Errorf("renderer: resolve vertex function: %w", err)
	}
	fragmentFn, err := r.library.Function(shader.FragmentFunctionName)
	if err != nil {
		return fmt.Errorf("renderer: resolve fragment function: %w", err)
	}

	uniformSize := uint64((&camera.GPUUniforms{}).Size())
	bindings, uniformIndex, err := r.bindingLayout(uniformSize)
	if err != nil {
		return err
	}

	desc := gpu.RenderPipelineDescriptor{
		Label:            r.label + "_pipeline",
		VertexFunction:   vertexFn,
		FragmentFunction: fragmentFn,
		VertexDescriptor: vertexDesc,
		Bindings:         bindings,
		ColorFormat:      r.surface.PixelFormat(),
		CullMode:         r.cullMode,
		FrontFace:        gpu.WindingClockwise,
	}
	if r.depthTest {
		desc.Depth = &gpu.DepthState{
			Format:       gpu.PixelFormatDepth32Float,
			Compare:      gpu.CompareFunctionLess,
			WriteEnabled: true,
		}
	}
	if r.pipeline, err = r.device.NewRenderPipelineState(desc); err != nil {
		return fmt.Errorf("renderer: create pipeline state: %w", err)
	}

	maxBindCount := 0
	for _, b := range bindings {
		maxBindCount = max(maxBindCount, int(b.Slot)+1)
	}
	if r.ring, err = newUniformRing(r.device, r.pipeline, r.label, r.framesInFlight, uniformSize,
		r.vertexBuffer, vertexBufferSlot, uniformIndex, maxBindCount); err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	return nil
}

// bindingLayout combines the vertex buffer slot with the shader's buffer bindings.
// The shader must declare exactly one uniform buffer, at a slot other than the vertex buffer's,
// no larger than the uniform block.
func (r *renderer) bindingLayout(uniformSize uint64) ([]gpu.BindingLayout, int, error) {
	bindings := []gpu.BindingLayout{{
		Slot:   vertexBufferSlot,
		Kind:   gpu.BindingKindVertexBuffer,
		Stages: gpu.ShaderStageVertex,
	}}
	uniformIndex := -1
	for _, b := range r.library.Bindings() {
		if b.Slot == vertexBufferSlot {
			return nil, 0, fmt.Errorf("%w: slot %d is reserved for the vertex buffer", ErrBindingLayout, b.Slot)
		}
		if b.Kind != gpu.BindingKindUniformBuffer {
			return nil, 0, fmt.Errorf("%w: slot %d holds a %s buffer", ErrBindingLayout, b.Slot, b.Kind)
		}
		if uniformIndex >= 0 {
			return nil, 0, fmt.Errorf("%w: more than one uniform buffer", ErrBindingLayout)
		}
		if b.MinSize > uniformSize {
			return nil, 0, fmt.Errorf("%w: slot %d needs %d bytes, uniforms are %d", ErrBindingLayout, b.Slot, b.MinSize, uniformSize)
		}
		uniformIndex = int(b.Slot)
		bindings = append(bindings, b)
	}
	if uniformIndex < 0 {
		return nil, 0, fmt.Errorf("%w: no uniform buffer", ErrBindingLayout)
	}
	return bindings, uniformIndex, nil
}

func (r *renderer) Draw() error {
	if !r.mu.TryLock() {
		return r.drop(ErrFrameInProgress)
	}
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	defer r.setState(FrameStateIdle)

	r.setState(FrameStateAcquireDrawable)
	drawable, err := r.surface.NextDrawable()
	if err != nil {
		return r.drop(err)
	}
	target := drawable.Texture()
	width, height := target.Width(), target.Height()
	if width == 0 || height == 0 {
		drawable.Release()
		return r.drop(ErrZeroSizedDrawable)
	}
	if err := r.ensureDepthTexture(width, height); err != nil {
		drawable.Release()
		return err
	}

	r.setState(FrameStateUpdateUniforms)
	slot, waited, err := r.ring.acquire(r.queue)
	if err != nil {
		drawable.Release()
		return fmt.Errorf("renderer: wait for uniform slot: %w", err)
	}
	uniforms := camera.GPUUniforms{
		MVP: r.camera.ModelViewProjection(float32(width)/float32(height), identityModel),
	}
	if err := slot.buffer.Write(0, uniforms.Marshal()); err != nil {
		drawable.Release()
		return fmt.Errorf("renderer: write uniforms: %w", err)
	}
	r.statsMu.Lock()
	r.stats.LastMVP = uniforms.MVP
	if waited {
		r.stats.FenceWaits++
	}
	r.statsMu.Unlock()

	r.setState(FrameStateBeginEncoding)
	r.queue.WaitForDrawable(drawable)
	r.allocator.Reset()
	if err := r.commandBuffer.Begin(r.allocator); err != nil {
		drawable.Release()
		return fmt.Errorf("renderer: begin command buffer: %w", err)
	}

	r.setState(FrameStateRecordPass)
	encoder, err := r.commandBuffer.RenderCommandEncoder(r.passDescriptor(target))
	if encoder == nil || err != nil {
		r.commandBuffer.Discard()
		drawable.Release()
		if err == nil {
			err = gpu.ErrEncoderUnavailable
		}
		return r.drop(err)
	}
	encoder.SetRenderPipelineState(r.pipeline)
	encoder.SetBindingTable(slot.table, gpu.ShaderStageVertex)
	encoder.DrawIndexedPrimitives(gpu.PrimitiveTypeTriangle, r.geometry.IndexCount(), gpu.IndexTypeUInt32, r.indexBuffer, 0)

	r.setState(FrameStateEndEncoding)
	encoder.EndEncoding()
	if err := r.commandBuffer.End(); err != nil {
		r.commandBuffer.Discard()
		drawable.Release()
		return fmt.Errorf("renderer: end command buffer: %w", err)
	}

	r.setState(FrameStateSubmit)
	serial, err := r.queue.Commit(r.commandBuffer)
	if err != nil {
		drawable.Release()
		return fmt.Errorf("renderer: commit: %w", err)
	}
	slot.serial = serial
	r.lastSerial = serial
	r.queue.SignalDrawable(drawable)

	r.setState(FrameStatePresent)
	if err := drawable.Present(); err != nil {
		return fmt.Errorf("renderer: present: %w", err)
	}

	r.statsMu.Lock()
	r.stats.Drawn++
	r.statsMu.Unlock()
	return nil
}

// passDescriptor clears the drawable texture and, when depth testing is on, the depth texture.
func (r *renderer) passDescriptor(target gpu.Texture) gpu.RenderPassDescriptor {
	desc := gpu.RenderPassDescriptor{
		Label: r.label + "_pass",
		ColorAttachment: gpu.ColorAttachment{
			Texture:     target,
			LoadAction:  gpu.LoadActionClear,
			StoreAction: gpu.StoreActionStore,
			ClearColor:  r.clearColor,
		},
	}
	if r.depthTexture != nil {
		desc.DepthAttachment = &gpu.DepthAttachment{
			Texture:     r.depthTexture,
			LoadAction:  gpu.LoadActionClear,
			StoreAction: gpu.StoreActionDontCare,
			ClearDepth:  1,
		}
	}
	return desc
}

// ensureDepthTexture keeps the depth texture the size of the drawable. The old texture is only
// released after the GPU finished the last submission that used it.
func (r *renderer) ensureDepthTexture(width, height uint32) error {
	if !r.depthTest {
		return nil
	}
	if r.depthTexture != nil {
		if r.depthTexture.Width() == width && r.depthTexture.Height() == height {
			return nil
		}
		if err := r.queue.WaitUntilCompleted(r.lastSerial); err != nil {
			return fmt.Errorf("renderer: wait before resizing depth texture: %w", err)
		}
		r.depthTexture.Release()
		r.depthTexture = nil
	}

	tex, err := r.device.NewTexture(gpu.TextureDescriptor{
		Label:  r.label + "_depth",
		Width:  width,
		Height: height,
		Format: gpu.PixelFormatDepth32Float,
		Usage:  gpu.TextureUsageRenderTarget,
	})
	if err != nil {
		return fmt.Errorf("renderer: create depth texture: %w", err)
	}
	r.depthTexture = tex
	return nil
}

// drop counts a skipped frame and wraps the cause with ErrFrameDropped.
func (r *renderer) drop(cause error) error {
	r.statsMu.Lock()
	r.stats.Dropped++
	r.statsMu.Unlock()
	return fmt.Errorf("%w: %w", ErrFrameDropped, cause)
}

func (r *renderer) setState(s FrameState) {
	r.state.Store(int32(s))
}

func (r *renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	if err := r.surface.Configure(width, height); err != nil {
		return fmt.Errorf("renderer: configure surface %dx%d: %w", width, height, err)
	}
	return nil
}

func (r *renderer) State() FrameState {
	return FrameState(r.state.Load())
}

func (r *renderer) Stats() FrameStats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return r.stats
}

func (r *renderer) Camera() camera.Camera {
	return r.camera
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true

	if r.queue != nil && r.lastSerial > 0 {
		_ = r.queue.WaitUntilCompleted(r.lastSerial)
	}
	if r.depthTexture != nil {
		r.depthTexture.Release()
		r.depthTexture = nil
	}
	if r.ring != nil {
		r.ring.release()
		r.ring = nil
	}
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.indexBuffer != nil {
		r.indexBuffer.Release()
		r.indexBuffer = nil
	}
	if r.vertexBuffer != nil {
		r.vertexBuffer.Release()
		r.vertexBuffer = nil
	}
	if r.commandBuffer != nil {
		r.commandBuffer.Release()
		r.commandBuffer = nil
	}
	if r.allocator != nil {
		r.allocator.Release()
		r.allocator = nil
	}
	if r.queue != nil {
		r.queue.Release()
		r.queue = nil
	}
}
