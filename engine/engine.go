package engine

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/hellocube/engine/profiler"
	"github.com/Carmen-Shannon/hellocube/engine/renderer"
	"github.com/Carmen-Shannon/hellocube/engine/window"
)

// ErrNotConfigured is returned by Run when the engine has no window or no renderer.
var ErrNotConfigured = errors.New("engine: window and renderer are required")

// engine implements the Engine interface.
// Everything runs on the window's thread: one Draw per message loop iteration.
type engine struct {
	window   window.Window
	renderer renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	quitOnce sync.Once

	// sleep is replaced in tests.
	sleep func(time.Duration)
}

// Engine drives a renderer from a window's refresh loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer drawn each refresh.
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run installs the refresh and resize callbacks and blocks until the window closes.
	//
	// Returns:
	//   - error: ErrNotConfigured if the window or renderer is missing
	Run() error

	// Quit closes the window, which ends Run after the current iteration.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, profiling, frame limit)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		profiler: profiler.NewProfiler(time.Second),
		sleep:    time.Sleep,
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run() error {
	if e.window == nil || e.renderer == nil {
		return ErrNotConfigured
	}
	e.window.SetResizeCallback(e.resize)
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
	return nil
}

// Quit closes the window once; sync.Once makes repeated calls no-ops.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		if e.window == nil {
			return
		}
		if err := e.window.Close(); err != nil {
			log.Printf("engine: close window: %v", err)
		}
	})
}

func (e *engine) resize(width, height int) {
	if err := e.renderer.Resize(width, height); err != nil {
		log.Printf("engine: resize to %dx%d: %v", width, height, err)
	}
}

// frame draws once. Dropped frames are expected and stay silent; other draw errors are logged.
// A panic inside the frame is logged and ends the loop.
func (e *engine) frame() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render callback recovered from panic: %v", r)
			e.Quit()
		}
	}()

	start := time.Now()
	err := e.renderer.Draw()
	if err != nil && !errors.Is(err, renderer.ErrFrameDropped) {
		log.Printf("engine: draw: %v", err)
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(err != nil)
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
			e.sleep(remaining)
		}
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

// frameDuration converts a frame rate cap to the minimum frame duration, 0 meaning uncapped.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
