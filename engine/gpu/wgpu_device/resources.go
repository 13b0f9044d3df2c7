package wgpu_device

import (
	"fmt"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// buffer is a WebGPU buffer written through the queue.
type buffer struct {
	label     string
	buffer    *wgpu.Buffer
	queue     *wgpu.Queue
	length    uint64
	usage     gpu.BufferUsage
	immutable bool
}

func (b *buffer) Label() string {
	return b.label
}

func (b *buffer) Length() uint64 {
	return b.length
}

func (b *buffer) Usage() gpu.BufferUsage {
	return b.usage
}

// Write stages data with Queue.WriteBuffer. The copy is ordered before the next submission,
// so data written for a frame is visible to that frame's commands.
func (b *buffer) Write(offset uint64, data []byte) error {
	if b.immutable {
		return fmt.Errorf("%w: %q", gpu.ErrImmutableBuffer, b.label)
	}
	if offset+uint64(len(data)) > b.length {
		return fmt.Errorf("%w: %d bytes at %d into %q of %d bytes", gpu.ErrBufferOverflow, len(data), offset, b.label, b.length)
	}
	b.queue.WriteBuffer(b.buffer, offset, alignedContents(data))
	return nil
}

func (b *buffer) Release() {
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
	}
}

// texture holds a WebGPU texture with the default view used as a render attachment.
type texture struct {
	label  string
	width  uint32
	height uint32
	format gpu.PixelFormat

	tex  *wgpu.Texture
	view *wgpu.TextureView
}

func (t *texture) Label() string {
	return t.label
}

func (t *texture) Width() uint32 {
	return t.width
}

func (t *texture) Height() uint32 {
	return t.height
}

func (t *texture) Format() gpu.PixelFormat {
	return t.format
}

func (t *texture) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}
