package wgpu_device

// DeviceBuilderOption is a functional option applied to a device during Open.
type DeviceBuilderOption func(*device)

// WithLabel sets the debug label of the device, also returned by Name.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - DeviceBuilderOption: a function that applies the label option to a device
func WithLabel(label string) DeviceBuilderOption {
	return func(d *device) {
		d.label = label
	}
}

// WithForceFallbackAdapter forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - DeviceBuilderOption: a function that applies the fallback adapter option to a device
func WithForceFallbackAdapter(force bool) DeviceBuilderOption {
	return func(d *device) {
		d.forceFallbackAdapter = force
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
// Defaults to PresentModeVSync.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - DeviceBuilderOption: a function that applies the present mode option to a device
func WithPresentMode(mode PresentMode) DeviceBuilderOption {
	return func(d *device) {
		d.presentMode = mode
	}
}

// WithSurfaceSize configures the surface during Open so drawables are available immediately.
//
// Parameters:
//   - width, height: the initial surface size in pixels
//
// Returns:
//   - DeviceBuilderOption: a function that applies the surface size option to a device
func WithSurfaceSize(width, height int) DeviceBuilderOption {
	return func(d *device) {
		d.width, d.height = width, height
	}
}
