package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, [2]int{512, 512}, cfg.Shadow.Resolution)
	assert.Equal(t, [3]float32{6, 6, 6}, cfg.Shadow.VolumeSize)
	assert.Equal(t, SkyboxBeforeTransparent, cfg.Renderer.SkyboxOrder)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), `
[window]
width = 800
height = 600

[shadow]
resolution = [16, 100000]
volume_size = [10, 4, 10]

[renderer]
skybox_order = "after_transparent"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, "Scene Viewer", cfg.Window.Title, "missing keys keep defaults")
	assert.Equal(t, [2]int{64, 8192}, cfg.Shadow.Resolution, "resolution is clamped")
	assert.Equal(t, [3]float32{10, 4, 10}, cfg.Shadow.VolumeSize)
	assert.Equal(t, SkyboxAfterTransparent, cfg.Renderer.SkyboxOrder)
	assert.InDelta(t, 0.001, cfg.Shadow.Bias, 1e-6)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(writeFile(t, dir, "[renderer]\nskybox_order = \"sideways\"\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "[shadow]\nvolume_size = [1, 0, 1]\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "not toml = = ="))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestRestartKeys(t *testing.T) {
	running := Default()
	assert.Empty(t, RestartKeys(running, running))

	live := running
	live.Renderer.ClearColor = [4]float32{1, 0, 0, 1}
	live.Shadow.Bias = 0.01
	live.Shadow.VolumeSize = [3]float32{10, 10, 10}
	live.Debug.SlowFrameMs = 4
	assert.Empty(t, RestartKeys(running, live), "live keys need no restart")

	next := running
	next.Shadow.Resolution = [2]int{1024, 1024}
	next.Shadow.Enabled = !running.Shadow.Enabled
	next.Renderer.SkyboxOrder = SkyboxAfterTransparent
	next.Renderer.SRGB = !running.Renderer.SRGB
	assert.Equal(t, []string{
		"renderer.srgb",
		"renderer.skybox_order",
		"shadow.enabled",
		"shadow.resolution",
	}, RestartKeys(running, next))
}

func TestGetSet(t *testing.T) {
	orig := Get()
	defer Set(orig)

	cfg := Default()
	cfg.Shadow.Bias = 0.05
	Set(cfg)
	assert.InDelta(t, 0.05, Get().Shadow.Bias, 1e-6)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "[shadow]\nbias = 0.001\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Config, 4)
	require.NoError(t, Watch(ctx, path, func(c Config) { changes <- c }))

	require.NoError(t, os.WriteFile(path, []byte("[shadow]\nbias = 0.25\n"), 0o644))

	// A single write can surface as several events, the first of which may
	// observe a truncated file.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.Shadow.Bias > 0.2 {
				assert.InDelta(t, 0.25, c.Shadow.Bias, 1e-6)
				return
			}
		case <-timeout:
			t.Fatal("no reload after write")
		}
	}
}
