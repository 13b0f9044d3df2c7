package wgpu_device

import (
	"fmt"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// commandAllocator hands out one WebGPU command encoder per recording.
// Reset drops an encoder whose recording was never finished.
type commandAllocator struct {
	device  *wgpu.Device
	encoder *wgpu.CommandEncoder
}

func (a *commandAllocator) Reset() {
	if a.encoder != nil {
		a.encoder.Release()
		a.encoder = nil
	}
}

// take creates the encoder for a new recording. Ownership moves to the command buffer.
func (a *commandAllocator) take() (*wgpu.CommandEncoder, error) {
	a.Reset()
	return a.device.CreateCommandEncoder(nil)
}

func (a *commandAllocator) Release() {
	a.Reset()
}

type commandBufferState int

const (
	commandBufferIdle commandBufferState = iota
	commandBufferOpen
	commandBufferClosed
)

// commandBuffer is reused across frames: Begin records into a fresh encoder, End finishes it
// into a wgpu.CommandBuffer and Commit submits and drops that.
type commandBuffer struct {
	state    commandBufferState
	encoder  *wgpu.CommandEncoder
	pass     *wgpu.RenderPassEncoder
	finished *wgpu.CommandBuffer
}

func (c *commandBuffer) Begin(alloc gpu.CommandAllocator) error {
	a, ok := alloc.(*commandAllocator)
	if !ok {
		return ErrForeignObject
	}
	if c.state == commandBufferOpen {
		return fmt.Errorf("%w: begin of an open buffer", gpu.ErrCommandBufferState)
	}
	c.Discard()

	encoder, err := a.take()
	if err != nil {
		return fmt.Errorf("wgpu_device: create command encoder: %w", err)
	}
	c.encoder = encoder
	c.state = commandBufferOpen
	return nil
}

func (c *commandBuffer) RenderCommandEncoder(desc gpu.RenderPassDescriptor) (gpu.RenderCommandEncoder, error) {
	if c.state != commandBufferOpen || c.pass != nil {
		return nil, gpu.ErrEncoderUnavailable
	}
	color, ok := desc.ColorAttachment.Texture.(*texture)
	if !ok || color == nil || color.view == nil {
		return nil, fmt.Errorf("%w: color attachment has no view", gpu.ErrEncoderUnavailable)
	}

	pass := &wgpu.RenderPassDescriptor{
		Label: desc.Label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    color.view,
			LoadOp:  toLoadOp(desc.ColorAttachment.LoadAction),
			StoreOp: toStoreOp(desc.ColorAttachment.StoreAction),
			ClearValue: wgpu.Color{
				R: desc.ColorAttachment.ClearColor.R,
				G: desc.ColorAttachment.ClearColor.G,
				B: desc.ColorAttachment.ClearColor.B,
				A: desc.ColorAttachment.ClearColor.A,
			},
		}},
	}
	if desc.DepthAttachment != nil {
		depth, ok := desc.DepthAttachment.Texture.(*texture)
		if !ok || depth == nil || depth.view == nil {
			return nil, fmt.Errorf("%w: depth attachment has no view", gpu.ErrEncoderUnavailable)
		}
		pass.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            depth.view,
			DepthLoadOp:     toLoadOp(desc.DepthAttachment.LoadAction),
			DepthStoreOp:    toStoreOp(desc.DepthAttachment.StoreAction),
			DepthClearValue: desc.DepthAttachment.ClearDepth,
		}
	}

	rp := c.encoder.BeginRenderPass(pass)
	if rp == nil {
		return nil, gpu.ErrEncoderUnavailable
	}
	c.pass = rp
	return &renderEncoder{cb: c, pass: rp}, nil
}

func (c *commandBuffer) End() error {
	if c.state != commandBufferOpen {
		return fmt.Errorf("%w: end of a buffer that was not begun", gpu.ErrCommandBufferState)
	}
	if c.pass != nil {
		return fmt.Errorf("%w: render pass still open", gpu.ErrCommandBufferState)
	}
	finished, err := c.encoder.Finish(nil)
	c.encoder.Release()
	c.encoder = nil
	if err != nil {
		c.state = commandBufferIdle
		return fmt.Errorf("wgpu_device: finish command encoder: %w", err)
	}
	c.finished = finished
	c.state = commandBufferClosed
	return nil
}

func (c *commandBuffer) Discard() {
	if c.pass != nil {
		c.pass.Release()
		c.pass = nil
	}
	if c.encoder != nil {
		c.encoder.Release()
		c.encoder = nil
	}
	if c.finished != nil {
		c.finished.Release()
		c.finished = nil
	}
	c.state = commandBufferIdle
}

func (c *commandBuffer) Release() {
	c.Discard()
}

// renderEncoder records one render pass. The pass is released when encoding ends,
// which must happen before the command encoder is finished.
type renderEncoder struct {
	cb   *commandBuffer
	pass *wgpu.RenderPassEncoder
}

func (e *renderEncoder) SetRenderPipelineState(p gpu.RenderPipelineState) {
	if ps, ok := p.(*pipelineState); ok {
		e.pass.SetPipeline(ps.pipeline)
	}
}

// SetBindingTable binds vertex slots as vertex buffers and the rest as bind group 0.
// Stage visibility is fixed by the pipeline layout, so stages is not consulted.
func (e *renderEncoder) SetBindingTable(t gpu.BindingTable, _ gpu.ShaderStage) {
	table, ok := t.(*bindingTable)
	if !ok {
		return
	}
	for _, b := range table.pipeline.bindings {
		if b.Kind != gpu.BindingKindVertexBuffer {
			continue
		}
		if buf, ok := table.slots[b.Slot].(*buffer); ok && buf != nil {
			e.pass.SetVertexBuffer(b.Slot, buf.buffer, 0, wgpu.WholeSize)
		}
	}
	if table.bindGroup != nil {
		e.pass.SetBindGroup(0, table.bindGroup, nil)
	}
}

func (e *renderEncoder) DrawIndexedPrimitives(_ gpu.PrimitiveType, indexCount int, indexType gpu.IndexType, indexBuffer gpu.Buffer, indexOffset uint64) {
	buf, ok := indexBuffer.(*buffer)
	if !ok {
		return
	}
	e.pass.SetIndexBuffer(buf.buffer, toIndexFormat(indexType), indexOffset, wgpu.WholeSize)
	e.pass.DrawIndexed(uint32(indexCount), 1, 0, 0, 0)
}

func (e *renderEncoder) EndEncoding() {
	if e.pass == nil {
		return
	}
	e.pass.End()
	e.pass.Release()
	e.pass = nil
	e.cb.pass = nil
}
