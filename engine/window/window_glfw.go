package window

import (
	"fmt"
	"runtime"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the GLFW platform of an engineWindow.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
type glfwWindow struct {
	window *glfw.Window
}

var _ platform = &glfwWindow{}

// openGLFW initializes GLFW, creates a window without a client API and routes its framebuffer
// size and Escape key back into w.
func openGLFW(w *engineWindow) (*glfwWindow, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("window: initialize GLFW: %w", err)
	}

	// WebGPU owns presentation, so no OpenGL context is created.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window: create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	win.SetKeyCallback(func(win *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			win.SetShouldClose(true)
		}
	})

	// Framebuffer size is in pixels, which differs from the window size on high-DPI displays.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.framebufferResized(width, height)
	})
	w.width, w.height = win.GetFramebufferSize()

	return &glfwWindow{window: win}, nil
}

func (g *glfwWindow) pollEvents() {
	glfw.PollEvents()
}

func (g *glfwWindow) waitEvents(timeout time.Duration) {
	glfw.WaitEventsTimeout(timeout.Seconds())
}

func (g *glfwWindow) shouldClose() bool {
	return g.window.ShouldClose()
}

func (g *glfwWindow) requestClose() {
	g.window.SetShouldClose(true)
}

func (g *glfwWindow) destroy() {
	g.window.Destroy()
	glfw.Terminate()
}

// surfaceDescriptor uses the per-platform wgpuglfw bridge (Win32, X11, Wayland, Metal).
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func (g *glfwWindow) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.window)
}
