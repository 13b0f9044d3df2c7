package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/hellocube/engine/gpu"
	"github.com/Carmen-Shannon/hellocube/engine/gpu/wgpu_device"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Renderer.FramesInFlight)
	assert.True(t, cfg.Renderer.DepthTest)
	assert.Equal(t, [3]float32{2, 2, 3}, cfg.Camera.Position)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "cube.yaml", `
window:
  title: yaml cube
  width: 640
renderer:
  frames_in_flight: 2
  cull_mode: back
camera:
  position: [0, 0, 5]
device:
  present_mode: uncapped
profiling: true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml cube", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, 2, cfg.Renderer.FramesInFlight)
	assert.True(t, cfg.Renderer.DepthTest)
	assert.Equal(t, [3]float32{0, 0, 5}, cfg.Camera.Position)
	assert.True(t, cfg.Profiling)

	mode, err := cfg.presentMode()
	require.NoError(t, err)
	assert.Equal(t, wgpu_device.PresentModeUncapped, mode)
	cull, err := cfg.cullMode()
	require.NoError(t, err)
	assert.Equal(t, gpu.CullModeBack, cull)
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "cube.toml", `
frame_limit = 30.0

[renderer]
depth_test = false
clear_color = [0.0, 0.0, 0.0, 1.0]

[camera]
fov_y = 60.0
far = 50.0
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.FrameLimit)
	assert.False(t, cfg.Renderer.DepthTest)
	assert.Equal(t, [4]float64{0, 0, 0, 1}, cfg.Renderer.ClearColor)
	assert.Equal(t, float32(60), cfg.Camera.FovY)
	assert.Equal(t, float32(50), cfg.Camera.Far)
	assert.Equal(t, float32(0.1), cfg.Camera.Near)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "cube.json", `{}`))
	assert.ErrorIs(t, err, ErrUnknownConfigFormat)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "bad.yaml", "window: [unclosed"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "bad.toml", "renderer = "))
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"zero width":      func(c *Config) { c.Window.Width = 0 },
		"no frames":       func(c *Config) { c.Renderer.FramesInFlight = 0 },
		"present mode":    func(c *Config) { c.Device.PresentMode = "mailbox" },
		"cull mode":       func(c *Config) { c.Renderer.CullMode = "sideways" },
		"near beyond far": func(c *Config) { c.Camera.Near, c.Camera.Far = 10, 1 },
		"fov":             func(c *Config) { c.Camera.FovY = 180 },
		"eye on target":   func(c *Config) { c.Camera.Position = c.Camera.Target },
		"negative near":   func(c *Config) { c.Camera.Near = -1 },
		"above target":    func(c *Config) { c.Camera.Position, c.Camera.Target = [3]float32{0, 5, 0}, [3]float32{} },
		"below target":    func(c *Config) { c.Camera.Position, c.Camera.Target = [3]float32{1, -3, 2}, [3]float32{1, 4, 2} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateAcceptsSteepCamera(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Camera.Position, cfg.Camera.Target = [3]float32{0.1, 5, 0}, [3]float32{}
	assert.NoError(t, cfg.Validate())
}

func TestParseFlagsOverridesFile(t *testing.T) {
	path := writeConfig(t, "cube.yml", "window:\n  width: 640\n  height: 480\n")

	cfg, err := parseFlags([]string{"--config", path, "--height", "400", "--profile", "--present-mode", "uncapped"})
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 400, cfg.Window.Height)
	assert.True(t, cfg.Profiling)
	assert.Equal(t, "uncapped", cfg.Device.PresentMode)

	cfg, err = parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = parseFlags([]string{"--width", "-5"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}
