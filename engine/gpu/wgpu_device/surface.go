package wgpu_device

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// surface wraps the window surface. Its color format is chosen once, from the first
// capability format the renderer understands.
type surface struct {
	mu *sync.Mutex

	raw     *wgpu.Surface
	adapter *wgpu.Adapter
	device  *wgpu.Device

	format      gpu.PixelFormat
	wgpuFormat  wgpu.TextureFormat
	alphaMode   wgpu.CompositeAlphaMode
	presentMode wgpu.PresentMode

	width, height int
	configured    bool
	acquired      bool
}

var _ gpu.Surface = &surface{}

func newSurface(raw *wgpu.Surface, d *device, mode PresentMode) (*surface, error) {
	capabilities := raw.GetCapabilities(d.adapter)

	s := &surface{
		mu:          &sync.Mutex{},
		raw:         raw,
		adapter:     d.adapter,
		device:      d.device,
		presentMode: wgpu.PresentModeFifo,
	}
	if mode == PresentModeUncapped {
		s.presentMode = wgpu.PresentModeImmediate
	}
	if len(capabilities.AlphaModes) > 0 {
		s.alphaMode = capabilities.AlphaModes[0]
	}
	for _, tf := range capabilities.Formats {
		if pf, ok := fromTextureFormat(tf); ok && !pf.IsDepth() {
			s.format, s.wgpuFormat = pf, tf
			return s, nil
		}
	}
	return nil, ErrNoSurfaceFormat
}

func (s *surface) PixelFormat() gpu.PixelFormat {
	return s.format
}

func (s *surface) Configure(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("wgpu_device: cannot configure surface to %dx%d", width, height)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.raw.Configure(s.adapter, s.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      s.wgpuFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: s.presentMode,
		AlphaMode:   s.alphaMode,
	})
	s.width, s.height = width, height
	s.configured = true
	return nil
}

func (s *surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// NextDrawable acquires the current swapchain image. Outdated or lost swapchains are reconfigured
// at the current size so the following frame can acquire again.
func (s *surface) NextDrawable() (gpu.Drawable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.configured {
		return nil, fmt.Errorf("%w: surface not configured", gpu.ErrNoDrawable)
	}
	if s.acquired {
		return nil, fmt.Errorf("%w: previous drawable not yet presented", gpu.ErrNoDrawable)
	}

	tex, err := s.raw.GetCurrentTexture()
	if err != nil {
		s.raw.Configure(s.adapter, s.device, &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      s.wgpuFormat,
			Width:       uint32(s.width),
			Height:      uint32(s.height),
			PresentMode: s.presentMode,
			AlphaMode:   s.alphaMode,
		})
		return nil, fmt.Errorf("%w: %v", gpu.ErrNoDrawable, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("%w: create view: %v", gpu.ErrNoDrawable, err)
	}

	s.acquired = true
	return &drawable{
		surface: s,
		texture: &texture{
			label:  "drawable",
			width:  uint32(s.width),
			height: uint32(s.height),
			format: s.format,
			tex:    tex,
			view:   view,
		},
	}, nil
}

func (s *surface) Release() {
	if s.raw != nil {
		s.raw.Release()
		s.raw = nil
	}
}

// drawable is one acquired swapchain image. It is either presented or released, never both.
type drawable struct {
	surface *surface
	texture *texture
	done    bool
}

func (d *drawable) Texture() gpu.Texture {
	return d.texture
}

func (d *drawable) Present() error {
	if d.done {
		return fmt.Errorf("wgpu_device: drawable already presented or released")
	}
	d.surface.mu.Lock()
	d.surface.raw.Present()
	d.surface.acquired = false
	d.surface.mu.Unlock()

	d.finish()
	return nil
}

func (d *drawable) Release() {
	if d.done {
		return
	}
	d.surface.mu.Lock()
	d.surface.acquired = false
	d.surface.mu.Unlock()

	d.finish()
}

func (d *drawable) finish() {
	d.done = true
	d.texture.Release()
}
