package renderer

import (
	"github.com/Carmen-Shannon/hellocube/common"
	"github.com/Carmen-Shannon/hellocube/engine/camera"
	"github.com/Carmen-Shannon/hellocube/engine/gpu"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithCamera sets the camera the uniforms are computed from.
// When not specified, the renderer uses camera.NewCamera().
//
// Parameters:
//   - c: the camera to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the camera option to a renderer
func WithCamera(c camera.Camera) RendererBuilderOption {
	return func(r *renderer) {
		r.camera = c
	}
}

// WithProjection sets the perspective settings of the renderer's camera.
// Applied after all other options, so it also affects a camera passed with WithCamera.
//
// Parameters:
//   - p: the perspective settings
//
// Returns:
//   - RendererBuilderOption: a function that applies the projection option to a renderer
func WithProjection(p camera.Projection) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingProjection = &p
	}
}

// WithClearColor sets the color the drawable is cleared to every frame.
//
// Parameters:
//   - red, green, blue, alpha: the color components in [0, 1]
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(red, green, blue, alpha float64) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = gpu.ClearColor{R: red, G: green, B: blue, A: alpha}
	}
}

// WithFramesInFlight sets how many frames the CPU may record ahead of the GPU.
// Each frame in flight owns its own uniform buffer. Defaults to 3; 1 serializes CPU and GPU.
//
// Parameters:
//   - n: the number of uniform buffers, at least 1
//
// Returns:
//   - RendererBuilderOption: a function that applies the frames in flight option to a renderer
func WithFramesInFlight(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.framesInFlight = n
	}
}

// WithDepthTest enables or disables the depth attachment. Enabled by default.
//
// Parameters:
//   - enabled: true to depth test with a Depth32Float attachment
//
// Returns:
//   - RendererBuilderOption: a function that applies the depth option to a renderer
func WithDepthTest(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.depthTest = enabled
	}
}

// WithCullMode sets which faces the pipeline discards. Front faces wind clockwise on screen.
//
// Parameters:
//   - mode: the cull mode, gpu.CullModeNone by default
//
// Returns:
//   - RendererBuilderOption: a function that applies the cull mode option to a renderer
func WithCullMode(mode gpu.CullMode) RendererBuilderOption {
	return func(r *renderer) {
		r.cullMode = mode
	}
}

// WithLabel sets the prefix of every GPU resource label. An empty label keeps the default.
//
// Parameters:
//   - label: the label prefix
//
// Returns:
//   - RendererBuilderOption: a function that applies the label option to a renderer
func WithLabel(label string) RendererBuilderOption {
	return func(r *renderer) {
		r.label = common.Coalesce(label, r.label)
	}
}
