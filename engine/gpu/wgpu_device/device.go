// Package wgpu_device implements the gpu interfaces on top of WebGPU (wgpu-native).
//
// Binding-table vertex slots map to SetVertexBuffer with the same index and uniform or storage
// slots map to bindings of bind group 0. Submission serials advance from Queue.OnSubmittedWorkDone
// callbacks, which run while the device is polled.
package wgpu_device

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

var (
	// ErrNoSurfaceFormat is returned by Open when the surface supports no usable color format.
	ErrNoSurfaceFormat = errors.New("wgpu_device: surface has no supported color format")

	// ErrDeviceLost is returned by waits after the GPU reported a failed submission.
	ErrDeviceLost = errors.New("wgpu_device: device lost")

	// ErrForeignObject is returned when an object created by another device is passed in.
	ErrForeignObject = errors.New("wgpu_device: object not created by this device")
)

// device is the implementation of the Device interface.
type device struct {
	mu *sync.Mutex

	label                string
	forceFallbackAdapter bool
	presentMode          PresentMode
	width, height        int

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *surface

	// modules caches compiled shader modules by source.
	modules map[string]*wgpu.ShaderModule
}

// Device is a WebGPU gpu.Device bound to one window surface.
type Device interface {
	gpu.Device

	// Surface returns the window surface the device presents to.
	//
	// Returns:
	//   - gpu.Surface: the surface
	Surface() gpu.Surface

	// Release frees the compiled shaders, the surface, the device, the adapter and the instance.
	// Every object created by the device must be released first.
	Release()
}

var _ Device = &device{}

// Open creates a WebGPU instance, a surface for the window described by surfaceDescriptor,
// an adapter compatible with it and a device. The calling goroutine is locked to its OS thread.
//
// Parameters:
//   - surfaceDescriptor: the platform-specific surface descriptor, typically Window.SurfaceDescriptor()
//   - options: variadic list of DeviceBuilderOption functions to configure the device
//
// Returns:
//   - Device: the opened device
//   - error: an error if no adapter, device or surface format is available
func Open(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...DeviceBuilderOption) (Device, error) {
	runtime.LockOSThread()
	d := &device{
		mu:          &sync.Mutex{},
		label:       "Main Device",
		presentMode: PresentModeVSync,
		modules:     make(map[string]*wgpu.ShaderModule),
	}
	for _, opt := range options {
		opt(d)
	}

	if err := d.open(surfaceDescriptor); err != nil {
		d.Release()
		return nil, err
	}
	return d, nil
}

func (d *device) open(surfaceDescriptor *wgpu.SurfaceDescriptor) error {
	d.instance = wgpu.CreateInstance(nil)
	rawSurface := d.instance.CreateSurface(surfaceDescriptor)
	if rawSurface == nil {
		return errors.New("wgpu_device: create surface failed")
	}

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: d.forceFallbackAdapter,
		CompatibleSurface:    rawSurface,
	})
	if err != nil {
		rawSurface.Release()
		return fmt.Errorf("wgpu_device: request adapter: %w", err)
	}
	d.adapter = adapter

	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: d.label,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		rawSurface.Release()
		return fmt.Errorf("wgpu_device: request device: %w", err)
	}
	d.device = dev
	d.queue = dev.GetQueue()

	s, err := newSurface(rawSurface, d, d.presentMode)
	if err != nil {
		rawSurface.Release()
		return err
	}
	d.surface = s

	if d.width > 0 && d.height > 0 {
		if err := d.surface.Configure(d.width, d.height); err != nil {
			return err
		}
	}
	return nil
}

func (d *device) Name() string {
	return d.label
}

func (d *device) Surface() gpu.Surface {
	return d.surface
}

func (d *device) NewCommandQueue() (gpu.CommandQueue, error) {
	return &commandQueue{device: d.device, queue: d.queue}, nil
}

func (d *device) NewCommandAllocator() (gpu.CommandAllocator, error) {
	return &commandAllocator{device: d.device}, nil
}

func (d *device) NewCommandBuffer() (gpu.CommandBuffer, error) {
	return &commandBuffer{}, nil
}

func (d *device) NewBuffer(desc gpu.BufferDescriptor) (gpu.Buffer, error) {
	contents := alignedContents(desc.Contents)
	length := desc.Length
	if length == 0 {
		length = uint64(len(contents))
	}
	if desc.Immutable && len(desc.Contents) == 0 {
		return nil, fmt.Errorf("wgpu_device: immutable buffer %q has no contents", desc.Label)
	}
	if uint64(len(contents)) > length {
		return nil, fmt.Errorf("%w: %q contents are %d bytes, length %d", gpu.ErrBufferOverflow, desc.Label, len(contents), length)
	}

	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            desc.Label,
		Size:             length,
		Usage:            toBufferUsage(desc.Usage),
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu_device: create buffer %q: %w", desc.Label, err)
	}
	if len(contents) > 0 {
		d.queue.WriteBuffer(buf, 0, contents)
	}

	return &buffer{
		label:     desc.Label,
		buffer:    buf,
		queue:     d.queue,
		length:    length,
		usage:     desc.Usage,
		immutable: desc.Immutable,
	}, nil
}

func (d *device) NewTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	format, err := toTextureFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         toTextureUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu_device: create texture %q: %w", desc.Label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("wgpu_device: create view of %q: %w", desc.Label, err)
	}
	return &texture{
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
		tex:    tex,
		view:   view,
	}, nil
}

// shaderModule compiles source once and returns the cached module afterwards.
func (d *device) shaderModule(fn gpu.ShaderFunction) (*wgpu.ShaderModule, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if m, ok := d.modules[fn.Source]; ok {
		return m, nil
	}
	m, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: fn.Library,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: fn.Source,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu_device: compile %s: %w", fn.Library, err)
	}
	d.modules[fn.Source] = m
	return m, nil
}

func (d *device) Release() {
	d.mu.Lock()
	modules := d.modules
	d.modules = nil
	d.mu.Unlock()

	for _, m := range modules {
		m.Release()
	}
	if d.surface != nil {
		d.surface.Release()
		d.surface = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}
