package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/hellocube/common"
	"github.com/Carmen-Shannon/hellocube/engine/gpu"
	"github.com/Carmen-Shannon/hellocube/engine/gpu/wgpu_device"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// ErrUnknownConfigFormat is returned for config files that are neither YAML nor TOML.
var ErrUnknownConfigFormat = errors.New("hellocube: config must be .yaml, .yml or .toml")

// Config is the executable configuration. Zero-valued sections in a file keep their defaults.
type Config struct {
	Window   WindowConfig   `yaml:"window" toml:"window"`
	Device   DeviceConfig   `yaml:"device" toml:"device"`
	Renderer RendererConfig `yaml:"renderer" toml:"renderer"`
	Camera   CameraConfig   `yaml:"camera" toml:"camera"`

	// FrameLimit caps the refresh rate, 0 means uncapped.
	FrameLimit float64 `yaml:"frame_limit" toml:"frame_limit"`
	Profiling  bool    `yaml:"profiling" toml:"profiling"`
}

type WindowConfig struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
}

type DeviceConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode          string `yaml:"present_mode" toml:"present_mode"`
	ForceFallbackAdapter bool   `yaml:"force_fallback_adapter" toml:"force_fallback_adapter"`
}

type RendererConfig struct {
	FramesInFlight int        `yaml:"frames_in_flight" toml:"frames_in_flight"`
	DepthTest      bool       `yaml:"depth_test" toml:"depth_test"`
	CullMode       string     `yaml:"cull_mode" toml:"cull_mode"`
	ClearColor     [4]float64 `yaml:"clear_color" toml:"clear_color"`
}

type CameraConfig struct {
	Position [3]float32 `yaml:"position" toml:"position"`
	Target   [3]float32 `yaml:"target" toml:"target"`

	// FovY is the vertical field of view in degrees.
	FovY float32 `yaml:"fov_y" toml:"fov_y"`
	Near float32 `yaml:"near" toml:"near"`
	Far  float32 `yaml:"far" toml:"far"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{Title: "Hello Cube", Width: 1280, Height: 720},
		Device: DeviceConfig{PresentMode: "vsync"},
		Renderer: RendererConfig{
			FramesInFlight: 3,
			DepthTest:      true,
			CullMode:       "none",
			ClearColor:     [4]float64{0.2, 0.2, 0.25, 1},
		},
		Camera: CameraConfig{
			Position: [3]float32{2, 2, 3},
			FovY:     45,
			Near:     0.1,
			Far:      100,
		},
	}
}

// LoadConfig reads a YAML or TOML file over the defaults, chosen by file extension.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Config: the merged configuration
//   - error: an error if the file cannot be read, decoded or validated
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("hellocube: read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("%w: %s", ErrUnknownConfigFormat, path)
	}
	if err != nil {
		return cfg, fmt.Errorf("hellocube: decode %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the renderer or device cannot use.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("hellocube: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Renderer.FramesInFlight < 1 {
		return fmt.Errorf("hellocube: frames_in_flight must be at least 1, got %d", c.Renderer.FramesInFlight)
	}
	if _, err := c.presentMode(); err != nil {
		return err
	}
	if _, err := c.cullMode(); err != nil {
		return err
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("hellocube: camera planes need 0 < near < far, got %g and %g", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		return fmt.Errorf("hellocube: fov_y must be in (0, 180), got %g", c.Camera.FovY)
	}
	if c.Camera.Position == c.Camera.Target {
		return errors.New("hellocube: camera position and target coincide")
	}
	forward := common.Sub3(c.Camera.Target, c.Camera.Position)
	if common.Length3(common.Cross3([3]float32{0, 1, 0}, forward)) <= 1e-6*common.Length3(forward) {
		return errors.New("hellocube: camera looks straight up or down the y axis")
	}
	return nil
}

func (c Config) presentMode() (wgpu_device.PresentMode, error) {
	switch strings.ToLower(c.Device.PresentMode) {
	case "", "vsync":
		return wgpu_device.PresentModeVSync, nil
	case "uncapped":
		return wgpu_device.PresentModeUncapped, nil
	default:
		return 0, fmt.Errorf("hellocube: unknown present_mode %q", c.Device.PresentMode)
	}
}

func (c Config) cullMode() (gpu.CullMode, error) {
	switch strings.ToLower(c.Renderer.CullMode) {
	case "", "none":
		return gpu.CullModeNone, nil
	case "back":
		return gpu.CullModeBack, nil
	case "front":
		return gpu.CullModeFront, nil
	default:
		return 0, fmt.Errorf("hellocube: unknown cull_mode %q", c.Renderer.CullMode)
	}
}

// parseFlags loads the file named by --config, then applies the flags that were set explicitly.
//
// Parameters:
//   - args: the command line without the program name
//
// Returns:
//   - Config: the resulting configuration
//   - error: pflag.ErrHelp for --help, or a parse, load or validation error
func parseFlags(args []string) (Config, error) {
	fs := pflag.NewFlagSet("hellocube", pflag.ContinueOnError)
	path := fs.StringP("config", "c", "", "path to a .yaml or .toml config file")
	width := fs.Int("width", 0, "window width in pixels")
	height := fs.Int("height", 0, "window height in pixels")
	profiling := fs.Bool("profile", false, "log frame statistics once per second")
	frameLimit := fs.Float64("frame-limit", 0, "maximum frames per second, 0 for uncapped")
	presentMode := fs.String("present-mode", "", "vsync or uncapped")
	fallback := fs.Bool("fallback-adapter", false, "force the software fallback adapter")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if *path != "" {
		var err error
		if cfg, err = LoadConfig(*path); err != nil {
			return cfg, err
		}
	}

	if fs.Changed("width") {
		cfg.Window.Width = *width
	}
	if fs.Changed("height") {
		cfg.Window.Height = *height
	}
	if fs.Changed("profile") {
		cfg.Profiling = *profiling
	}
	if fs.Changed("frame-limit") {
		cfg.FrameLimit = *frameLimit
	}
	if fs.Changed("present-mode") {
		cfg.Device.PresentMode = *presentMode
	}
	if fs.Changed("fallback-adapter") {
		cfg.Device.ForceFallbackAdapter = *fallback
	}
	return cfg, cfg.Validate()
}
