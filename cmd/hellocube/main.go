// Command hellocube opens a window and draws one colored cube with WebGPU.
package main

import (
	"errors"
	"log"
	"os"

	"github.com/Carmen-Shannon/hellocube/engine"
	"github.com/Carmen-Shannon/hellocube/engine/camera"
	"github.com/Carmen-Shannon/hellocube/engine/geometry"
	"github.com/Carmen-Shannon/hellocube/engine/gpu/wgpu_device"
	"github.com/Carmen-Shannon/hellocube/engine/renderer"
	"github.com/Carmen-Shannon/hellocube/engine/renderer/shader"
	"github.com/Carmen-Shannon/hellocube/engine/window"
	"github.com/chewxy/math32"
	"github.com/spf13/pflag"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg Config) error {
	presentMode, _ := cfg.presentMode()
	cullMode, _ := cfg.cullMode()

	w, err := window.Open(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return err
	}
	// The window is closed after the renderer and device are released.
	var e engine.Engine
	defer func() {
		if e != nil {
			e.Quit()
			return
		}
		_ = w.Close()
	}()

	dev, err := wgpu_device.Open(w.SurfaceDescriptor(),
		wgpu_device.WithPresentMode(presentMode),
		wgpu_device.WithForceFallbackAdapter(cfg.Device.ForceFallbackAdapter),
		wgpu_device.WithSurfaceSize(w.Width(), w.Height()),
	)
	if err != nil {
		return err
	}
	defer dev.Release()

	cam := camera.NewCamera(
		camera.WithPosition(cfg.Camera.Position[0], cfg.Camera.Position[1], cfg.Camera.Position[2]),
		camera.WithTarget(cfg.Camera.Target[0], cfg.Camera.Target[1], cfg.Camera.Target[2]),
		camera.WithFov(cfg.Camera.FovY*math32.Pi/180),
		camera.WithNear(cfg.Camera.Near),
		camera.WithFar(cfg.Camera.Far),
	)
	color := cfg.Renderer.ClearColor

	r, err := renderer.NewRenderer(dev, dev.Surface(), shader.DefaultLibrary(), geometry.NewCube(),
		renderer.WithCamera(cam),
		renderer.WithFramesInFlight(cfg.Renderer.FramesInFlight),
		renderer.WithDepthTest(cfg.Renderer.DepthTest),
		renderer.WithCullMode(cullMode),
		renderer.WithClearColor(color[0], color[1], color[2], color[3]),
	)
	if err != nil {
		return err
	}
	defer r.Release()

	log.Printf("hellocube: drawing on %s at %dx%d", dev.Name(), w.Width(), w.Height())

	e = engine.NewEngine(
		engine.WithWindow(w),
		engine.WithRenderer(r),
		engine.WithProfiling(cfg.Profiling),
		engine.WithRenderFrameLimit(cfg.FrameLimit),
	)
	if err := e.Run(); err != nil {
		return err
	}
	stats := r.Stats()
	log.Printf("hellocube: %d frames drawn, %d dropped, %d fence waits", stats.Drawn, stats.Dropped, stats.FenceWaits)
	return nil
}
