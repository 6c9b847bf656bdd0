package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"mini-render/internal/config"
	"mini-render/internal/graphics"
	"mini-render/internal/graphics/opengl"
	"mini-render/internal/graphics/passes"
	renderer "mini-render/internal/graphics/renderer"
	"mini-render/internal/logger"
	"mini-render/internal/profiling"
	"mini-render/internal/scene"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

func setupWindow(cfg config.Window) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.SRGBCapable, glfw.True)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if err := opengl.Init(); err != nil {
		window.Destroy()
		return nil, err
	}

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return window, nil
}

// viewer owns the GL resources and the scene of the application.
type viewer struct {
	window   *glfw.Window
	dev      *opengl.Device
	renderer *renderer.Renderer
	pipeline *passes.Pipeline

	buffers   opengl.Buffers
	shaders   *shaders
	shadowMap *graphics.ShadowMap

	scene  *scene.Scene
	camera *graphics.Camera

	clearColor mgl32.Vec4
	slowFrame  time.Duration

	// started is the configuration the GL resources were built with.
	started config.Config
}

func newViewer(window *glfw.Window, cfg config.Config, opts *options) (*viewer, error) {
	width, height := window.GetFramebufferSize()
	v := &viewer{
		window:  window,
		dev:     opengl.NewDevice(),
		scene:   scene.New(),
		started: cfg,
	}
	v.renderer = renderer.NewRenderer(v.dev, int32(width), int32(height))
	if !cfg.Renderer.SRGB {
		v.dev.SetFeature(graphics.FeatureFramebufferSRGB, false)
	}

	fullscreen, err := v.buffers.NewFullscreenTriangle()
	if err != nil {
		v.release()
		return nil, err
	}
	v.renderer.SetFullscreenMesh(fullscreen)

	if v.shaders, err = loadShaders(v.renderer); err != nil {
		v.release()
		return nil, err
	}

	sky, err := loadSky(opts.skybox)
	if err != nil {
		v.release()
		return nil, err
	}

	sun, err := v.buildScene(cfg, sky, width, height)
	if err != nil {
		v.release()
		return nil, err
	}

	shadowMaterial := graphics.NewMaterial(v.shaders.shadow)
	shadowMaterial.CullMode = graphics.CullFront
	skyMaterial := graphics.NewMaterial(v.shaders.skybox)

	v.pipeline = passes.Standard(v.renderer, cfg, passes.Assets{
		ShadowLight:    sun,
		ShadowMaterial: shadowMaterial,
		SkyboxMaterial: skyMaterial,
	})
	if v.pipeline.Skybox != nil {
		if err := v.pipeline.Skybox.SetTexture(sky); err != nil {
			v.release()
			return nil, err
		}
	}

	v.applyConfig(cfg)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		if w == 0 || h == 0 {
			return
		}
		v.renderer.SetViewportSize(int32(w), int32(h))
		v.camera.SetViewport(w, h)
	})
	return v, nil
}

func loadSky(path string) (*graphics.Texture, error) {
	if path == "" {
		return gradientSky()
	}
	return opengl.GetCubemap(path)
}

// buildScene creates the demo scene and returns its shadow casting light.
func (v *viewer) buildScene(cfg config.Config, sky *graphics.Texture, width, height int) (*graphics.Light, error) {
	v.camera = graphics.NewCamera(width, height)
	v.camera.SetLookAt(mgl32.Vec3{-3, 3, 3}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	v.scene.Add(scene.NewCameraNode("camera", v.camera))

	sun := graphics.NewDirectionalLight(mgl32.Vec3{-0.3, -1, -0.3})
	sun.Intensity = 3
	if cfg.Shadow.Enabled {
		sm, err := opengl.NewShadowMap(int32(cfg.Shadow.Resolution[0]), int32(cfg.Shadow.Resolution[1]), cfg.Shadow.Bias)
		if err != nil {
			return nil, err
		}
		v.shadowMap = sm
		sun.SetShadowMap(sm)
	}
	v.scene.Add(scene.NewLightNode("directional light", sun))

	lamp := graphics.NewPointLight(mgl32.Vec3{1.5, 1, 1.5}, 1, 4)
	lamp.Color = mgl32.Vec3{1, 0.6, 0.3}
	v.scene.Add(scene.NewLightNode("point light", lamp))

	cube, err := v.buffers.NewMesh(graphics.CubeVertices, opengl.PositionNormal)
	if err != nil {
		return nil, err
	}
	plane, err := v.buffers.NewMesh(graphics.PlaneVertices, opengl.PositionNormal)
	if err != nil {
		return nil, err
	}

	base := graphics.NewMaterial(v.shaders.lit)
	for name, value := range map[string]any{
		"AmbientColor":       mgl32.Vec3{0.25, 0.25, 0.25},
		"Color":              mgl32.Vec3{1, 1, 1},
		"Alpha":              float32(1),
		"EnvironmentTexture": sky,
	} {
		if err := base.SetUniform(name, value); err != nil {
			return nil, err
		}
	}

	floor := base.Clone()
	if err := floor.SetUniform("Color", mgl32.Vec3{0.6, 0.6, 0.6}); err != nil {
		return nil, err
	}
	floorNode := scene.NewModelNode("floor", graphics.NewModel(plane, floor))
	floorNode.Transform.Scale = mgl32.Vec3{8, 1, 8}
	v.scene.Add(floorNode)

	crate := base.Clone()
	if err := crate.SetUniform("Color", mgl32.Vec3{0.8, 0.3, 0.2}); err != nil {
		return nil, err
	}
	crateNode := scene.NewModelNode("crate", graphics.NewModel(cube, crate))
	crateNode.Transform.Translation = mgl32.Vec3{0, 0.5, 0}
	v.scene.Add(crateNode)

	glass := base.Clone()
	glass.BlendMode = graphics.BlendAlpha
	glass.CastShadows = false
	if err := glass.SetUniform("Color", mgl32.Vec3{0.3, 0.6, 0.9}); err != nil {
		return nil, err
	}
	if err := glass.SetUniform("Alpha", float32(0.4)); err != nil {
		return nil, err
	}
	for i, pos := range []mgl32.Vec3{{1.2, 0.4, -0.6}, {-1, 0.4, 1.1}} {
		node := scene.NewModelNode(fmt.Sprintf("glass %d", i), graphics.NewModel(cube, glass))
		node.Transform.Translation = pos
		node.Transform.Scale = mgl32.Vec3{0.8, 0.8, 0.8}
		v.scene.Add(node)
	}

	return sun, nil
}

// applyConfig applies the settings that can change while running. Keys
// that need a rebuild of GL resources are reported and left alone.
func (v *viewer) applyConfig(cfg config.Config) {
	if keys := config.RestartKeys(v.started, cfg); len(keys) > 0 {
		logger.Log.Warn("config changes require restart", zap.Strings("keys", keys))
	}
	v.clearColor = mgl32.Vec4(cfg.Renderer.ClearColor)
	v.slowFrame = time.Duration(cfg.Debug.SlowFrameMs * float64(time.Millisecond))
	if v.pipeline != nil {
		v.pipeline.Apply(cfg)
	}
}

func (v *viewer) frame(t float64) {
	profiling.ResetFrame()
	start := time.Now()

	angle := float32(t * 0.3)
	eye := mgl32.Vec3{4 * float32(math.Cos(float64(angle))), 2.5, 4 * float32(math.Sin(float64(angle)))}
	v.camera.SetLookAt(eye, mgl32.Vec3{0, 0.3, 0}, mgl32.Vec3{0, 1, 0})

	v.dev.BindFramebuffer(0)
	v.dev.ClearColor(v.clearColor)
	v.dev.ClearDepth(1)
	v.dev.Clear(graphics.ClearColorBuffer | graphics.ClearDepthBuffer)

	scene.Submit(v.renderer, v.scene)
	if err := v.renderer.Render(); err != nil {
		logger.Log.Warn("frame rendered with errors", zap.Error(err))
	}

	if elapsed := time.Since(start); v.slowFrame > 0 && elapsed > v.slowFrame {
		stats := v.renderer.LastFrameStats()
		logger.Log.Warn("slow frame",
			zap.Duration("elapsed", elapsed),
			zap.Int("draws", stats.Draws),
			zap.String("passes", profiling.TopN(3)))
	}
}

func (v *viewer) release() {
	if v.shaders != nil {
		v.shaders.release()
	}
	opengl.DeleteShadowMap(v.shadowMap)
	opengl.ReleaseCubemaps()
	v.buffers.Delete()
}

func run(cfg config.Config, opts *options) error {
	config.Set(cfg)

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("could not initialize glfw: %w", err)
	}
	window, err := setupWindow(cfg.Window)
	if err != nil {
		glfw.Terminate()
		return err
	}

	v, err := newViewer(window, cfg, opts)
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return err
	}

	// GL objects must be released on this thread; closer hands the
	// shutdown over to the loop.
	exitC := make(chan struct{}, 2)
	doneC := make(chan struct{}, 2)
	closer.Bind(func() {
		exitC <- struct{}{}
		<-doneC
		logger.Log.Info("bye")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan config.Config, 1)
	if opts.configPath != "" {
		err := config.Watch(ctx, opts.configPath, func(c config.Config) {
			select {
			case changes <- c:
			default:
			}
		})
		if err != nil {
			logger.Log.Warn("config hot reload disabled", zap.Error(err))
		}
	}

	logger.Log.Info("scene viewer running",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Int("nodes", v.scene.Len()))

	for {
		select {
		case <-exitC:
			v.release()
			window.Destroy()
			glfw.Terminate()
			doneC <- struct{}{}
			return nil
		case c := <-changes:
			config.Set(c)
			v.applyConfig(c)
			logger.Log.Info("config reloaded", zap.String("path", opts.configPath))
		default:
		}

		if window.ShouldClose() {
			exitC <- struct{}{}
			continue
		}
		glfw.PollEvents()
		v.frame(glfw.GetTime())
		window.SwapBuffers()
	}
}
