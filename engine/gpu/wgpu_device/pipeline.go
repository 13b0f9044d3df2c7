package wgpu_device

import (
	"fmt"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipelineState owns a render pipeline and the layout of bind group 0.
type pipelineState struct {
	label    string
	device   *wgpu.Device
	bindings []gpu.BindingLayout

	bindGroupLayout *wgpu.BindGroupLayout
	pipelineLayout  *wgpu.PipelineLayout
	pipeline        *wgpu.RenderPipeline
}

func (d *device) NewRenderPipelineState(desc gpu.RenderPipelineDescriptor) (gpu.RenderPipelineState, error) {
	if err := desc.VertexDescriptor.Validate(); err != nil {
		return nil, err
	}
	for _, b := range desc.Bindings {
		if b.Kind == gpu.BindingKindVertexBuffer && int(b.Slot) >= len(desc.VertexDescriptor.Layouts) {
			return nil, fmt.Errorf("wgpu_device: vertex binding at slot %d has no layout in %q", b.Slot, desc.Label)
		}
	}

	colorFormat, err := toTextureFormat(desc.ColorFormat)
	if err != nil {
		return nil, err
	}
	layouts, err := vertexBufferLayouts(desc.VertexDescriptor)
	if err != nil {
		return nil, err
	}
	vs, err := d.shaderModule(desc.VertexFunction)
	if err != nil {
		return nil, err
	}
	fs, err := d.shaderModule(desc.FragmentFunction)
	if err != nil {
		return nil, err
	}

	ps := &pipelineState{
		label:    desc.Label,
		device:   d.device,
		bindings: append([]gpu.BindingLayout(nil), desc.Bindings...),
	}

	var groupLayouts []*wgpu.BindGroupLayout
	if entries := bindGroupLayoutEntries(desc.Bindings); len(entries) > 0 {
		ps.bindGroupLayout, err = d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   desc.Label + "_bind_group_layout",
			Entries: entries,
		})
		if err != nil {
			return nil, fmt.Errorf("wgpu_device: create bind group layout for %q: %w", desc.Label, err)
		}
		groupLayouts = append(groupLayouts, ps.bindGroupLayout)
	}

	ps.pipelineLayout, err = d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label + "_layout",
		BindGroupLayouts: groupLayouts,
	})
	if err != nil {
		ps.Release()
		return nil, fmt.Errorf("wgpu_device: create pipeline layout for %q: %w", desc.Label, err)
	}

	primitive := wgpu.PrimitiveState{
		Topology:  wgpu.PrimitiveTopologyTriangleList,
		FrontFace: toFrontFace(desc.FrontFace),
		CullMode:  toCullMode(desc.CullMode),
	}

	pipelineDesc := &wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: ps.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: desc.VertexFunction.Name,
			Buffers:    layouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: desc.FragmentFunction.Name,
			Targets: []wgpu.ColorTargetState{{
				Format:    colorFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: primitive,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}

	if desc.Depth != nil {
		depthFormat, err := toTextureFormat(desc.Depth.Format)
		if err != nil {
			ps.Release()
			return nil, err
		}
		pipelineDesc.DepthStencil = &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: desc.Depth.WriteEnabled,
			DepthCompare:      toCompareFunction(desc.Depth.Compare),
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
	}

	ps.pipeline, err = d.device.CreateRenderPipeline(pipelineDesc)
	if err != nil {
		ps.Release()
		return nil, fmt.Errorf("wgpu_device: create render pipeline %q: %w", desc.Label, err)
	}
	return ps, nil
}

func (p *pipelineState) Label() string {
	return p.label
}

func (p *pipelineState) Bindings() []gpu.BindingLayout {
	return append([]gpu.BindingLayout(nil), p.bindings...)
}

func (p *pipelineState) binding(slot uint32) (gpu.BindingLayout, bool) {
	for _, b := range p.bindings {
		if b.Slot == slot {
			return b, true
		}
	}
	return gpu.BindingLayout{}, false
}

func (p *pipelineState) Release() {
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
		p.pipelineLayout = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
}

// bindingTable holds the buffers of one pipeline's slots. The bind group for uniform and storage
// slots is rebuilt whenever one of them changes and all of them are filled.
type bindingTable struct {
	label     string
	pipeline  *pipelineState
	slots     []gpu.Buffer
	bindGroup *wgpu.BindGroup
}

func (d *device) NewBindingTable(desc gpu.BindingTableDescriptor) (gpu.BindingTable, error) {
	ps, ok := desc.Pipeline.(*pipelineState)
	if !ok || ps == nil {
		return nil, ErrForeignObject
	}
	for _, b := range ps.bindings {
		if int(b.Slot) >= desc.MaxBufferBindCount {
			return nil, fmt.Errorf("%w: %q needs slot %d, table %q has %d", gpu.ErrSlotOutOfRange, ps.label, b.Slot, desc.Label, desc.MaxBufferBindCount)
		}
	}
	return &bindingTable{
		label:    desc.Label,
		pipeline: ps,
		slots:    make([]gpu.Buffer, desc.MaxBufferBindCount),
	}, nil
}

func (t *bindingTable) SetBuffer(slot int, buf gpu.Buffer) error {
	if slot < 0 || slot >= len(t.slots) {
		return fmt.Errorf("%w: slot %d of %d in %q", gpu.ErrSlotOutOfRange, slot, len(t.slots), t.label)
	}
	b, ok := buf.(*buffer)
	if !ok || b == nil {
		return ErrForeignObject
	}
	layout, ok := t.pipeline.binding(uint32(slot))
	if !ok {
		return fmt.Errorf("%w: %q declares nothing at slot %d", gpu.ErrBindingMismatch, t.pipeline.label, slot)
	}
	if err := checkUsage(layout, b); err != nil {
		return err
	}

	t.slots[slot] = b
	if layout.Kind == gpu.BindingKindVertexBuffer {
		return nil
	}
	return t.rebuildBindGroup()
}

func checkUsage(layout gpu.BindingLayout, b *buffer) error {
	var want gpu.BufferUsage
	switch layout.Kind {
	case gpu.BindingKindVertexBuffer:
		want = gpu.BufferUsageVertex
	case gpu.BindingKindUniformBuffer:
		want = gpu.BufferUsageUniform
	case gpu.BindingKindStorageBuffer:
		want = gpu.BufferUsageStorage
	}
	if !b.usage.Has(want) {
		return fmt.Errorf("%w: %q cannot be bound as a %s buffer at slot %d", gpu.ErrBindingMismatch, b.label, layout.Kind, layout.Slot)
	}
	if b.length < layout.MinSize {
		return fmt.Errorf("%w: %q is %d bytes, slot %d needs %d", gpu.ErrBindingMismatch, b.label, b.length, layout.Slot, layout.MinSize)
	}
	return nil
}

func (t *bindingTable) rebuildBindGroup() error {
	if t.pipeline.bindGroupLayout == nil {
		return nil
	}
	var entries []wgpu.BindGroupEntry
	for _, l := range t.pipeline.bindings {
		if l.Kind == gpu.BindingKindVertexBuffer {
			continue
		}
		b, ok := t.slots[l.Slot].(*buffer)
		if !ok || b == nil {
			return nil
		}
		entries = append(entries, wgpu.BindGroupEntry{
			Binding: l.Slot,
			Buffer:  b.buffer,
			Offset:  0,
			Size:    wgpu.WholeSize,
		})
	}

	bg, err := t.pipeline.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   t.label,
		Layout:  t.pipeline.bindGroupLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("wgpu_device: create bind group %q: %w", t.label, err)
	}
	if t.bindGroup != nil {
		t.bindGroup.Release()
	}
	t.bindGroup = bg
	return nil
}

func (t *bindingTable) Buffer(slot int) gpu.Buffer {
	if slot < 0 || slot >= len(t.slots) {
		return nil
	}
	return t.slots[slot]
}

func (t *bindingTable) Release() {
	if t.bindGroup != nil {
		t.bindGroup.Release()
		t.bindGroup = nil
	}
	clear(t.slots)
}
