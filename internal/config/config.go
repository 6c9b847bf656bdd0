package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Skybox placement relative to the transparent stage of the forward pass.
const (
	SkyboxBeforeTransparent = "before_transparent"
	SkyboxAfterTransparent  = "after_transparent"
)

// Window configures the viewer window.
type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

// Renderer holds the render pipeline settings.
type Renderer struct {
	ClearColor  [4]float32 `toml:"clear_color"`
	SRGB        bool       `toml:"srgb"`
	SkyboxOrder string     `toml:"skybox_order"`
}

// Shadow configures the shadow map and the volume it covers.
type Shadow struct {
	Enabled      bool       `toml:"enabled"`
	Resolution   [2]int     `toml:"resolution"`
	Bias         float32    `toml:"bias"`
	VolumeCenter [3]float32 `toml:"volume_center"`
	VolumeSize   [3]float32 `toml:"volume_size"`
}

type Debug struct {
	LogLevel string `toml:"log_level"`
	// SlowFrameMs logs the slowest passes of any frame above this budget.
	// Zero disables the check.
	SlowFrameMs float64 `toml:"slow_frame_ms"`
}

// Config holds the viewer and render pipeline configuration
type Config struct {
	Window   Window   `toml:"window"`
	Renderer Renderer `toml:"renderer"`
	Shadow   Shadow   `toml:"shadow"`
	Debug    Debug    `toml:"debug"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: Window{
			Width:  1024,
			Height: 1024,
			Title:  "Scene Viewer",
			VSync:  true,
		},
		Renderer: Renderer{
			ClearColor:  [4]float32{0, 0, 0, 1},
			SRGB:        true,
			SkyboxOrder: SkyboxBeforeTransparent,
		},
		Shadow: Shadow{
			Enabled:      true,
			Resolution:   [2]int{512, 512},
			Bias:         0.001,
			VolumeCenter: [3]float32{0, 0, 0},
			VolumeSize:   [3]float32{6, 6, 6},
		},
		Debug: Debug{
			LogLevel:    "info",
			SlowFrameMs: 50,
		},
	}
}

// Load reads a TOML file on top of the defaults. Keys missing from the file
// keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate clamps numeric settings to supported ranges and rejects values
// that cannot be clamped.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	switch c.Renderer.SkyboxOrder {
	case "":
		c.Renderer.SkyboxOrder = SkyboxBeforeTransparent
	case SkyboxBeforeTransparent, SkyboxAfterTransparent:
	default:
		return fmt.Errorf("unknown skybox_order %q", c.Renderer.SkyboxOrder)
	}
	for i := range c.Shadow.Resolution {
		c.Shadow.Resolution[i] = clamp(c.Shadow.Resolution[i], 64, 8192)
	}
	for i, s := range c.Shadow.VolumeSize {
		if s <= 0 {
			return fmt.Errorf("shadow volume_size[%d] = %v must be positive", i, s)
		}
	}
	if c.Shadow.Bias < 0 {
		c.Shadow.Bias = 0
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RestartKeys lists the keys that differ between running and next but only
// take effect when the GL resources are rebuilt. Clear color, shadow bias,
// shadow volume and the slow-frame budget reload live.
func RestartKeys(running, next Config) []string {
	var keys []string
	diff := func(key string, changed bool) {
		if changed {
			keys = append(keys, key)
		}
	}
	diff("window.width", running.Window.Width != next.Window.Width)
	diff("window.height", running.Window.Height != next.Window.Height)
	diff("window.title", running.Window.Title != next.Window.Title)
	diff("window.vsync", running.Window.VSync != next.Window.VSync)
	diff("renderer.srgb", running.Renderer.SRGB != next.Renderer.SRGB)
	diff("renderer.skybox_order", running.Renderer.SkyboxOrder != next.Renderer.SkyboxOrder)
	diff("shadow.enabled", running.Shadow.Enabled != next.Shadow.Enabled)
	diff("shadow.resolution", running.Shadow.Resolution != next.Shadow.Resolution)
	diff("debug.log_level", running.Debug.LogLevel != next.Debug.LogLevel)
	return keys
}

var (
	mu      sync.RWMutex
	current = Default()
)

// Get returns the active configuration
func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set replaces the active configuration
func Set(c Config) {
	mu.Lock()
	defer mu.Unlock()
	current = c
}
