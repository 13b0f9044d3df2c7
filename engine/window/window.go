// Package window hosts the renderer's surface in a GLFW window and drives the refresh loop.
package window

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNotOpen is returned by Close when the window was never opened.
var ErrNotOpen = errors.New("window: not open")

// minimizedWait bounds how long the loop sleeps on events while the framebuffer has no area.
const minimizedWait = 100 * time.Millisecond

// Window hosts the drawable surface of the renderer. It owns the refresh loop and reports
// framebuffer resizes; Escape or the close button ends the loop.
type Window interface {
	// SetUpdateCallback sets the function called once per loop iteration while the framebuffer has area.
	// The renderer draws one frame per call.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SurfaceDescriptor returns the platform surface descriptor built by the wgpuglfw bridge.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil if the window is not open
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is open and no close was requested.
	IsRunning() bool

	// Close destroys the window. Closing a closed window is a no-op.
	//
	// Returns:
	//   - error: ErrNotOpen if the window was never opened
	Close() error

	// ProcessMessages polls events and calls the update callback until the window closes.
	// While minimized it waits on events instead of spinning.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// platform is the native side of a window.
type platform interface {
	pollEvents()
	waitEvents(timeout time.Duration)
	shouldClose() bool
	requestClose()
	destroy()
	surfaceDescriptor() *wgpu.SurfaceDescriptor
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title               string
	width, height       int
	minWidth, minHeight int
	maxWidth, maxHeight int

	native platform
	closed bool

	onUpdate func()
	onResize func(width, height int)
}

var _ Window = &engineWindow{}

// Open creates and shows a GLFW window. The calling goroutine is locked to its OS thread,
// which must also run ProcessMessages.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: an error if GLFW or the window could not be created
func Open(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "Hello Cube",
		width:     1280,
		height:    720,
		minWidth:  320,
		minHeight: 240,
		maxWidth:  3840,
		maxHeight: 2160,
	}
	for _, opt := range options {
		opt(w)
	}
	native, err := openGLFW(w)
	if err != nil {
		return nil, err
	}
	w.native = native
	return w, nil
}

// NewWindow is Open for callers that treat a missing display as fatal.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w, err := Open(options...)
	if err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.native == nil || w.closed {
		return nil
	}
	return w.native.surfaceDescriptor()
}

func (w *engineWindow) IsRunning() bool {
	return w.native != nil && !w.closed && !w.native.shouldClose()
}

func (w *engineWindow) Close() error {
	if w.native == nil {
		return ErrNotOpen
	}
	if w.closed {
		return nil
	}
	w.closed = true
	w.native.requestClose()
	w.native.destroy()
	return nil
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if w.minimized() {
			w.native.waitEvents(minimizedWait)
			continue
		}
		w.native.pollEvents()
		if !w.IsRunning() {
			return
		}
		if w.minimized() {
			continue
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

// framebufferResized records the new size; the callback only sees sizes with area.
func (w *engineWindow) framebufferResized(width, height int) {
	w.width, w.height = width, height
	if w.minimized() {
		return
	}
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

func (w *engineWindow) minimized() bool {
	return w.width <= 0 || w.height <= 0
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
