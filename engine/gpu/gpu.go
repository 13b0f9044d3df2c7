// Package gpu defines the device-neutral command-buffer interfaces the renderer drives.
// Implementations own the native handles; every object returned by a Device is released
// exactly once by whoever created it.
package gpu

// Device creates GPU resources. It is an opaque capability handed to the renderer.
type Device interface {
	// Name returns a human-readable adapter name.
	Name() string

	// NewCommandQueue creates a submission queue.
	//
	// Returns:
	//   - CommandQueue: the queue
	//   - error: an error if the queue could not be created
	NewCommandQueue() (CommandQueue, error)

	// NewCommandAllocator creates the memory pool backing command recording.
	//
	// Returns:
	//   - CommandAllocator: the allocator
	//   - error: an error if the allocator could not be created
	NewCommandAllocator() (CommandAllocator, error)

	// NewCommandBuffer creates a reusable command buffer.
	//
	// Returns:
	//   - CommandBuffer: the command buffer
	//   - error: an error if the command buffer could not be created
	NewCommandBuffer() (CommandBuffer, error)

	// NewBuffer creates a fixed-size buffer.
	//
	// Parameters:
	//   - desc: the buffer description
	//
	// Returns:
	//   - Buffer: the buffer
	//   - error: an error if allocation fails
	NewBuffer(desc BufferDescriptor) (Buffer, error)

	// NewTexture creates a 2D texture.
	//
	// Parameters:
	//   - desc: the texture description
	//
	// Returns:
	//   - Texture: the texture
	//   - error: an error if allocation fails
	NewTexture(desc TextureDescriptor) (Texture, error)

	// NewRenderPipelineState compiles the shader functions and builds an immutable pipeline.
	//
	// Parameters:
	//   - desc: the pipeline description
	//
	// Returns:
	//   - RenderPipelineState: the pipeline
	//   - error: an error if compilation or validation fails
	NewRenderPipelineState(desc RenderPipelineDescriptor) (RenderPipelineState, error)

	// NewBindingTable creates a slot table bound to a pipeline's binding layout.
	//
	// Parameters:
	//   - desc: the table description
	//
	// Returns:
	//   - BindingTable: the table
	//   - error: an error if the table could not be created
	NewBindingTable(desc BindingTableDescriptor) (BindingTable, error)
}

// CommandQueue submits command buffers and tracks their completion with monotonically increasing serials.
type CommandQueue interface {
	// WaitForDrawable blocks until the drawable may be rendered to.
	//
	// Parameters:
	//   - d: the drawable about to be targeted
	WaitForDrawable(d Drawable)

	// Commit submits a closed command buffer.
	//
	// Parameters:
	//   - cb: the command buffer, closed with End
	//
	// Returns:
	//   - uint64: the submission serial, completed once CompletedSerial reaches it
	//   - error: an error if the buffer was not closed or submission failed
	Commit(cb CommandBuffer) (uint64, error)

	// SignalDrawable marks the drawable as ready for presentation after the committed work.
	//
	// Parameters:
	//   - d: the drawable rendered by the committed work
	SignalDrawable(d Drawable)

	// CompletedSerial returns the highest serial whose work has finished on the GPU.
	CompletedSerial() uint64

	// WaitUntilCompleted blocks until CompletedSerial reaches serial.
	//
	// Parameters:
	//   - serial: the submission serial to wait for
	//
	// Returns:
	//   - error: an error if the device stopped making progress
	WaitUntilCompleted(serial uint64) error

	// Release frees the queue.
	Release()
}

// CommandAllocator is the memory pool a command buffer records into. It is reset once per frame.
type CommandAllocator interface {
	// Reset discards everything recorded since the previous reset.
	Reset()

	// Release frees the allocator.
	Release()
}

// CommandBuffer is a reusable recording of GPU work.
type CommandBuffer interface {
	// Begin opens the buffer for recording into the allocator.
	//
	// Parameters:
	//   - alloc: the allocator backing the recording
	//
	// Returns:
	//   - error: an error if the buffer is already open or the allocator cannot record
	Begin(alloc CommandAllocator) error

	// RenderCommandEncoder opens a render pass.
	//
	// Parameters:
	//   - desc: the render pass attachments
	//
	// Returns:
	//   - RenderCommandEncoder: the encoder, nil when unavailable
	//   - error: ErrEncoderUnavailable if no encoder could be opened
	RenderCommandEncoder(desc RenderPassDescriptor) (RenderCommandEncoder, error)

	// End closes the recording so the buffer can be committed.
	//
	// Returns:
	//   - error: an error if the buffer is not open or an encoder is still open
	End() error

	// Discard abandons an open recording without producing submittable work.
	Discard()

	// Release frees the command buffer.
	Release()
}

// RenderCommandEncoder records the commands of one render pass.
type RenderCommandEncoder interface {
	// SetRenderPipelineState binds the pipeline for subsequent draws.
	SetRenderPipelineState(p RenderPipelineState)

	// SetBindingTable binds every slot of the table for the given stages.
	SetBindingTable(t BindingTable, stages ShaderStage)

	// DrawIndexedPrimitives issues one indexed draw.
	//
	// Parameters:
	//   - primitive: the assembly mode
	//   - indexCount: number of indices to read
	//   - indexType: element type of the index buffer
	//   - indexBuffer: the index buffer
	//   - indexOffset: byte offset of the first index
	DrawIndexedPrimitives(primitive PrimitiveType, indexCount int, indexType IndexType, indexBuffer Buffer, indexOffset uint64)

	// EndEncoding closes the render pass.
	EndEncoding()
}

// Buffer is a fixed-size block of GPU memory.
type Buffer interface {
	// Label returns the debug label.
	Label() string

	// Length returns the size in bytes.
	Length() uint64

	// Usage returns how the buffer may be bound.
	Usage() BufferUsage

	// Write copies data into the buffer at offset.
	//
	// Returns:
	//   - error: ErrImmutableBuffer for immutable buffers, ErrBufferOverflow if data does not fit
	Write(offset uint64, data []byte) error

	// Release frees the buffer.
	Release()
}

// Texture is a 2D image usable as a render attachment.
type Texture interface {
	Label() string
	Width() uint32
	Height() uint32
	Format() PixelFormat
	Release()
}

// Drawable is one presentable image obtained from a Surface.
type Drawable interface {
	// Texture returns the drawable's color texture.
	Texture() Texture

	// Present queues the drawable for display and releases it.
	//
	// Returns:
	//   - error: an error if presentation failed
	Present() error

	// Release returns the drawable to the surface without presenting it.
	Release()
}

// Surface is the swap mechanism of a window.
type Surface interface {
	// NextDrawable returns the next presentable image.
	//
	// Returns:
	//   - Drawable: the drawable
	//   - error: wraps ErrNoDrawable when no image is available this frame
	NextDrawable() (Drawable, error)

	// PixelFormat returns the color format of the drawables.
	PixelFormat() PixelFormat

	// Configure resizes the swapchain.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be configured
	Configure(width, height int) error

	// Size returns the configured size in pixels.
	Size() (width, height int)

	// Release frees the surface.
	Release()
}

// RenderPipelineState is an immutable compiled pipeline.
type RenderPipelineState interface {
	Label() string

	// Bindings returns the binding layout the pipeline was built with.
	Bindings() []BindingLayout

	Release()
}

// BindingTable maps small slot indices to buffers.
type BindingTable interface {
	// SetBuffer assigns a buffer to a slot.
	//
	// Parameters:
	//   - slot: the slot index, below MaxBufferBindCount
	//   - buf: the buffer to bind
	//
	// Returns:
	//   - error: ErrSlotOutOfRange or ErrBindingMismatch if the slot cannot hold it
	SetBuffer(slot int, buf Buffer) error

	// Buffer returns the buffer at slot, or nil.
	Buffer(slot int) Buffer

	Release()
}
