package passes

import (
	"testing"

	"mini-render/internal/config"
	"mini-render/internal/graphics"
	"mini-render/internal/graphics/gltest"
	renderer "mini-render/internal/graphics/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	litProgram    = 1
	unlitProgram  = 2
	shadowProgram = 3
	skyProgram    = 4

	shadowFramebuffer = 5
)

type probe struct {
	renderer.BasePass
	camera *graphics.Camera
}

func (p *probe) Render() error {
	p.camera = p.Renderer().GetCurrentCamera()
	return nil
}

func newRenderer() (*gltest.Device, *renderer.Renderer) {
	dev := gltest.NewDevice()
	return dev, renderer.NewRenderer(dev, 320, 240)
}

func cube(vao uint32, mat *graphics.Material) *graphics.Model {
	mesh := &graphics.Mesh{}
	mesh.AddSubmesh(&graphics.VertexArray{ID: vao}, graphics.Drawcall{Primitive: graphics.Triangles, Count: 36})
	return graphics.NewModel(mesh, mat)
}

func litMaterial(r *renderer.Renderer) *graphics.Material {
	shader := graphics.NewShader(r.Device(), litProgram)
	r.RegisterShader(shader, nil, r.GetDefaultUpdateLightsFunction(shader))
	return graphics.NewMaterial(shader)
}

func shadowLight() *graphics.Light {
	light := graphics.NewDirectionalLight(mgl32.Vec3{-0.3, -1, -0.3})
	light.SetShadowMap(&graphics.ShadowMap{
		Framebuffer: &graphics.Framebuffer{ID: shadowFramebuffer, Width: 512, Height: 512},
		Texture:     &graphics.Texture{ID: 6, Target: graphics.Texture2D},
		Bias:        0.001,
	})
	return light
}

func TestShadowPassWithoutLightDoesNothing(t *testing.T) {
	for name, light := range map[string]*graphics.Light{
		"no light":      nil,
		"no shadow map": graphics.NewDirectionalLight(mgl32.Vec3{0, -1, 0}),
		"point light": func() *graphics.Light {
			l := graphics.NewPointLight(mgl32.Vec3{}, 1, 10)
			l.SetShadowMap(&graphics.ShadowMap{Framebuffer: &graphics.Framebuffer{ID: shadowFramebuffer, Width: 64, Height: 64}})
			return l
		}(),
	} {
		t.Run(name, func(t *testing.T) {
			dev, r := newRenderer()
			shadowMat := graphics.NewMaterial(graphics.NewShader(dev, shadowProgram))
			pass := NewShadowMapPass(light, shadowMat)
			r.AddRenderPass(pass)

			r.SetCurrentCamera(graphics.NewCamera(320, 240))
			r.AddModel(cube(1, litMaterial(r)), mgl32.Ident4())
			dev.Reset()

			require.NoError(t, r.Render())
			assert.Empty(t, dev.Draws)
			assert.Zero(t, dev.FramebufferBinds)
			assert.Nil(t, pass.TargetFramebuffer())
		})
	}
}

func TestShadowPassDrawsCastersFromLight(t *testing.T) {
	dev, r := newRenderer()

	shadowShader := graphics.NewShader(dev, shadowProgram)
	var cameras []*graphics.Camera
	r.RegisterShader(shadowShader, func(_ *graphics.Shader, _ mgl32.Mat4, c *graphics.Camera, _ bool) {
		cameras = append(cameras, c)
	}, nil)
	shadowMat := graphics.NewMaterial(shadowShader)
	shadowMat.CullMode = graphics.CullFront

	light := shadowLight()
	pass := NewShadowMapPass(light, shadowMat)
	pass.SetVolume(light.Direction().Mul(-3), mgl32.Vec3{6, 6, 6})
	r.AddRenderPass(pass)
	after := &probe{}
	r.AddRenderPass(after)

	caster := litMaterial(r)
	receiver := caster.Clone()
	receiver.CastShadows = false

	main := graphics.NewCamera(320, 240)
	r.SetCurrentCamera(main)
	r.AddModel(cube(1, caster), mgl32.Ident4())
	r.AddModel(cube(2, receiver), mgl32.Translate3D(0, -1, 0))
	r.AddModel(cube(3, caster), mgl32.Translate3D(1, 0, 0))

	require.NoError(t, r.Render())

	draws := dev.DrawsTo(shadowFramebuffer)
	require.Len(t, draws, 2)
	for _, d := range draws {
		assert.Equal(t, uint32(shadowProgram), d.Program)
		assert.Equal(t, [4]int32{0, 0, 512, 512}, d.Viewport)
	}
	assert.Equal(t, uint32(1), draws[0].VAO)
	assert.Equal(t, uint32(3), draws[1].VAO)

	assert.Contains(t, dev.Clears, graphics.ClearDepthBuffer)
	require.NotEmpty(t, cameras)
	assert.Same(t, pass.Camera(), cameras[0])
	assert.Same(t, main, after.camera, "main camera is restored")
	assert.Equal(t, pass.Camera().GetViewProjectionMatrix(), light.ShadowMap().Matrix)
	assert.Equal(t, graphics.FaceBack, dev.CurrentCullFace())
}

func TestShadowPassLightCameraEnclosesVolume(t *testing.T) {
	_, r := newRenderer()
	light := shadowLight()
	light.SetDirection(mgl32.Vec3{0, -1, 0})
	pass := NewShadowMapPass(light, graphics.NewMaterial(graphics.NewShader(r.Device(), shadowProgram)))
	pass.SetVolume(mgl32.Vec3{0, 3, 0}, mgl32.Vec3{6, 6, 6})
	r.AddRenderPass(pass)

	r.SetCurrentCamera(graphics.NewCamera(320, 240))
	require.NoError(t, r.Render())

	vp := light.ShadowMap().Matrix
	for _, corner := range []mgl32.Vec3{{-3, 0, -3}, {3, 6, 3}, {0, 3, 0}} {
		clip := vp.Mul4x1(corner.Vec4(1))
		for i := 0; i < 3; i++ {
			assert.LessOrEqual(t, clip[i], float32(1.0001), "corner %v axis %d", corner, i)
			assert.GreaterOrEqual(t, clip[i], float32(-1.0001), "corner %v axis %d", corner, i)
		}
	}
}

func TestForwardPassLightIterations(t *testing.T) {
	dev, r := newRenderer()
	r.AddRenderPass(NewForwardPass(true, true))

	r.SetCurrentCamera(graphics.NewCamera(320, 240))
	r.AddLight(graphics.NewDirectionalLight(mgl32.Vec3{0, -1, 0}))
	r.AddLight(graphics.NewPointLight(mgl32.Vec3{0, 2, 0}, 1, 5))
	r.AddModel(cube(1, litMaterial(r)), mgl32.Ident4())
	dev.Reset()

	require.NoError(t, r.Render())
	require.Len(t, dev.Draws, 2)

	first, second := dev.Draws[0], dev.Draws[1]
	assert.Equal(t, graphics.DepthLessEqual, first.DepthFunc)
	assert.True(t, first.DepthMask)
	assert.False(t, first.Blend)

	assert.Equal(t, graphics.DepthEqual, second.DepthFunc)
	assert.False(t, second.DepthMask)
	assert.True(t, second.Blend)
	assert.Equal(t, graphics.BlendOne, second.BlendSrc)
	assert.Equal(t, graphics.BlendOne, second.BlendDst)

	assert.Equal(t, uint32(0), first.Framebuffer)
	assert.Equal(t, graphics.DepthLess, dev.CurrentDepthFunc(), "states are reset after the pass")
	assert.Equal(t, 2, r.LastFrameStats().Draws)
}

func TestForwardPassDrawsUnlitShaderOnce(t *testing.T) {
	dev, r := newRenderer()
	r.AddRenderPass(NewForwardPass(true, true))

	unlit := graphics.NewMaterial(graphics.NewShader(dev, unlitProgram))

	r.SetCurrentCamera(graphics.NewCamera(320, 240))
	r.AddLight(graphics.NewDirectionalLight(mgl32.Vec3{0, -1, 0}))
	r.AddLight(graphics.NewDirectionalLight(mgl32.Vec3{1, -1, 0}))
	r.AddModel(cube(1, unlit), mgl32.Ident4())

	require.NoError(t, r.Render())
	require.Len(t, dev.Draws, 1)
	assert.Equal(t, uint32(unlitProgram), dev.Draws[0].Program)
}

func TestForwardPassSortsTransparentBackToFront(t *testing.T) {
	dev, r := newRenderer()
	r.AddRenderPass(NewForwardPass(true, true))

	opaque := litMaterial(r)
	glass := opaque.Clone()
	glass.BlendMode = graphics.BlendAlpha

	cam := graphics.NewCamera(320, 240)
	cam.SetLookAt(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	r.SetCurrentCamera(cam)
	r.AddLight(graphics.NewDirectionalLight(mgl32.Vec3{0, -1, 0}))

	r.AddModel(cube(10, glass), mgl32.Translate3D(0, 0, 5))
	r.AddModel(cube(11, glass), mgl32.Translate3D(0, 0, -5))
	r.AddModel(cube(1, opaque), mgl32.Translate3D(0, 0, 8))
	r.AddModel(cube(12, glass), mgl32.Translate3D(0, 0, 0))

	require.NoError(t, r.Render())

	var order []uint32
	for _, d := range dev.Draws {
		order = append(order, d.VAO)
	}
	assert.Equal(t, []uint32{1, 11, 12, 10}, order, "opaque first, then farthest transparent first")

	for _, d := range dev.Draws[1:] {
		assert.True(t, d.Blend)
		assert.Equal(t, graphics.BlendSrcAlpha, d.BlendSrc)
		assert.Equal(t, graphics.BlendOneMinusSrcAlpha, d.BlendDst)
		assert.False(t, d.DepthMask)
	}
}

func TestForwardPassTransparentAdditiveLights(t *testing.T) {
	dev, r := newRenderer()
	r.AddRenderPass(NewForwardPass(false, true))

	glass := litMaterial(r)
	glass.BlendMode = graphics.BlendAlpha

	r.SetCurrentCamera(graphics.NewCamera(320, 240))
	r.AddLight(graphics.NewDirectionalLight(mgl32.Vec3{0, -1, 0}))
	r.AddLight(graphics.NewDirectionalLight(mgl32.Vec3{0, -1, 1}))
	r.AddModel(cube(1, glass), mgl32.Ident4())

	require.NoError(t, r.Render())
	require.Len(t, dev.Draws, 2)
	assert.Equal(t, graphics.BlendSrcAlpha, dev.Draws[1].BlendSrc)
	assert.Equal(t, graphics.BlendOne, dev.Draws[1].BlendDst)
	assert.Equal(t, graphics.DepthEqual, dev.Draws[1].DepthFunc)
}

func fullscreen(vao uint32) *graphics.Mesh {
	mesh := &graphics.Mesh{}
	mesh.AddSubmesh(&graphics.VertexArray{ID: vao}, graphics.Drawcall{Primitive: graphics.Triangles, Count: 3})
	return mesh
}

func TestSkyboxPassStates(t *testing.T) {
	dev, r := newRenderer()
	r.SetFullscreenMesh(fullscreen(42))

	skyShader := graphics.NewShader(dev, skyProgram)
	var world []mgl32.Mat4
	r.RegisterShader(skyShader, func(_ *graphics.Shader, w mgl32.Mat4, _ *graphics.Camera, changed bool) {
		assert.True(t, changed)
		world = append(world, w)
	}, nil)

	pass := NewSkyboxPass(graphics.NewMaterial(skyShader), nil)
	require.NoError(t, pass.SetTexture(&graphics.Texture{ID: 77, Target: graphics.TextureCubeMap}))
	r.AddRenderPass(pass)

	r.SetCurrentCamera(graphics.NewCamera(320, 240))
	require.NoError(t, r.Render())

	require.Len(t, dev.Draws, 1)
	d := dev.Draws[0]
	assert.Equal(t, uint32(skyProgram), d.Program)
	assert.Equal(t, uint32(42), d.VAO)
	assert.Equal(t, graphics.DepthLessEqual, d.DepthFunc)
	assert.False(t, d.DepthMask)
	assert.Equal(t, []mgl32.Mat4{mgl32.Ident4()}, world)
	assert.Equal(t, uint32(77), dev.BoundTexture(0))

	assert.Equal(t, graphics.DepthLess, dev.CurrentDepthFunc())
	assert.True(t, dev.CurrentDepthMask())
	assert.True(t, dev.Feature(graphics.FeatureCullFace))
}

func TestSkyboxPassWithoutProxyFailsOnlyItself(t *testing.T) {
	dev, r := newRenderer()
	r.AddRenderPass(NewSkyboxPass(graphics.NewMaterial(graphics.NewShader(dev, skyProgram)), nil))
	r.AddRenderPass(NewForwardPass(true, true))

	r.SetCurrentCamera(graphics.NewCamera(320, 240))
	r.AddModel(cube(1, litMaterial(r)), mgl32.Ident4())

	err := r.Render()
	require.ErrorIs(t, err, errNoSkyboxProxy)
	assert.Len(t, dev.Draws, 1, "the forward pass still ran")
}

func passNames(r *renderer.Renderer) []string {
	var names []string
	for _, p := range r.LastFrameStats().Passes {
		names = append(names, p.Name)
	}
	return names
}

func TestStandardPipelineOrder(t *testing.T) {
	tests := []struct {
		name   string
		order  string
		shadow bool
		want   []string
	}{
		{"default", config.SkyboxBeforeTransparent, true, []string{"shadow", "forward.opaque", "skybox", "forward.transparent"}},
		{"skybox last", config.SkyboxAfterTransparent, true, []string{"shadow", "forward.opaque", "forward.transparent", "skybox"}},
		{"shadows disabled", config.SkyboxBeforeTransparent, false, []string{"forward.opaque", "skybox", "forward.transparent"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, r := newRenderer()
			r.SetFullscreenMesh(fullscreen(42))

			cfg := config.Default()
			cfg.Renderer.SkyboxOrder = tt.order
			cfg.Shadow.Enabled = tt.shadow
			cfg.Shadow.Bias = 0.01

			light := shadowLight()
			p := Standard(r, cfg, Assets{
				ShadowLight:    light,
				ShadowMaterial: graphics.NewMaterial(graphics.NewShader(dev, shadowProgram)),
				SkyboxMaterial: graphics.NewMaterial(graphics.NewShader(dev, skyProgram)),
			})

			r.SetCurrentCamera(graphics.NewCamera(320, 240))
			require.NoError(t, r.Render())
			assert.Equal(t, tt.want, passNames(r))

			if tt.shadow {
				require.NotNil(t, p.Shadow)
				assert.InDelta(t, 0.01, light.ShadowMap().Bias, 1e-6)
				_, size := p.Shadow.Volume()
				assert.Equal(t, mgl32.Vec3{6, 6, 6}, size)
			} else {
				assert.Nil(t, p.Shadow)
			}
		})
	}
}
