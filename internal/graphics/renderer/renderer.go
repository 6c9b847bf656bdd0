package renderer

import (
	"errors"
	"fmt"
	"time"

	"mini-render/internal/graphics"
	"mini-render/internal/logger"
	"mini-render/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// DefaultCollection is the unfiltered collection every renderer starts with.
const DefaultCollection = 0

// boundState caches what the renderer last bound on the device so that
// redundant binds can be skipped. It assumes the renderer is the only
// mutator of driver state during a frame.
type boundState struct {
	framebuffer *graphics.Framebuffer
	material    *graphics.Material
	overrides   graphics.OverrideFlags
	vao         *graphics.VertexArray
	// camera each shader last received camera uniforms for
	cameras map[*graphics.Shader]*graphics.Camera
}

func (s *boundState) invalidateDraw() {
	s.material = nil
	s.vao = nil
}

func (s *boundState) reset() {
	s.framebuffer = nil
	s.invalidateDraw()
	clear(s.cameras)
}

// Renderer orchestrates rendering via render passes. Submissions (camera,
// lights, models) are valid for one frame: Render consumes them and resets.
type Renderer struct {
	dev graphics.Device

	passes      []RenderPass
	collections []*DrawcallCollection
	registry    *ShaderRegistry

	camera        *graphics.Camera
	lights        []*graphics.Light
	worldMatrices []mgl32.Mat4

	defaultFramebuffer *graphics.Framebuffer
	fullscreenMesh     *graphics.Mesh

	bound boundState

	frameDraws int
	lastStats  FrameStats
}

// NewRenderer creates a renderer drawing to a window surface of the given
// size and sets the driver defaults the passes expect.
func NewRenderer(dev graphics.Device, width, height int32) *Renderer {
	r := &Renderer{
		dev:                dev,
		collections:        []*DrawcallCollection{NewDrawcallCollection(nil)},
		registry:           NewShaderRegistry(),
		defaultFramebuffer: graphics.DefaultFramebuffer(width, height),
		bound:              boundState{cameras: make(map[*graphics.Shader]*graphics.Camera)},
	}

	dev.SetFeature(graphics.FeatureFramebufferSRGB, true)
	dev.SetFeature(graphics.FeatureDepthTest, true)
	dev.SetFeature(graphics.FeatureCullFace, true)
	dev.SetFeature(graphics.FeatureTextureCubeMapSeamless, true)
	dev.CullFace(graphics.FaceBack)
	r.ResetRenderStates()

	return r
}

// Device returns the device the renderer draws with
func (r *Renderer) Device() graphics.Device {
	return r.dev
}

// Registry returns the shader callback registry
func (r *Renderer) Registry() *ShaderRegistry {
	return r.registry
}

// AddRenderPass appends pass to the pipeline and returns its index.
func (r *Renderer) AddRenderPass(pass RenderPass) int {
	pass.SetRenderer(r)
	r.passes = append(r.passes, pass)
	return len(r.passes) - 1
}

// PassCount returns the number of render passes
func (r *Renderer) PassCount() int {
	return len(r.passes)
}

// HasCamera reports whether a camera was set for the frame.
func (r *Renderer) HasCamera() bool {
	return r.camera != nil
}

// GetCurrentCamera returns the camera of the frame being built or rendered.
func (r *Renderer) GetCurrentCamera() *graphics.Camera {
	return r.camera
}

// SetCurrentCamera sets the camera for the next Render. Passes may swap it
// temporarily (e.g. to a light camera) and restore it.
func (r *Renderer) SetCurrentCamera(camera *graphics.Camera) {
	r.camera = camera
}

// GetDefaultFramebuffer returns the window surface
func (r *Renderer) GetDefaultFramebuffer() *graphics.Framebuffer {
	return r.defaultFramebuffer
}

// GetCurrentFramebuffer returns the framebuffer the renderer last bound,
// or nil when unknown.
func (r *Renderer) GetCurrentFramebuffer() *graphics.Framebuffer {
	return r.bound.framebuffer
}

// SetCurrentFramebuffer binds fb unless it is already bound. Nil keeps the
// current framebuffer. When fb cannot be bound, the previous framebuffer (or
// the window surface) is bound again before the error is returned.
func (r *Renderer) SetCurrentFramebuffer(fb *graphics.Framebuffer) error {
	if fb == nil || fb == r.bound.framebuffer {
		return nil
	}
	if err := fb.Bind(r.dev); err != nil {
		r.restoreFramebuffer()
		return err
	}
	r.bound.framebuffer = fb
	return nil
}

func (r *Renderer) restoreFramebuffer() {
	prev := r.bound.framebuffer
	if prev == nil {
		prev = r.defaultFramebuffer
	}
	r.bound.framebuffer = nil
	if err := prev.Bind(r.dev); err != nil {
		logger.Log.Error("restore framebuffer", zap.Uint32("framebuffer", prev.ID), zap.Error(err))
		return
	}
	r.bound.framebuffer = prev
}

// SetViewportSize resizes the window surface.
func (r *Renderer) SetViewportSize(width, height int32) {
	r.defaultFramebuffer.Resize(width, height)
	if r.bound.framebuffer == r.defaultFramebuffer {
		r.dev.Viewport(0, 0, width, height)
	}
}

// GetFullscreenMesh returns the mesh covering the whole viewport
func (r *Renderer) GetFullscreenMesh() *graphics.Mesh {
	return r.fullscreenMesh
}

// SetFullscreenMesh sets the mesh covering the whole viewport
func (r *Renderer) SetFullscreenMesh(m *graphics.Mesh) {
	r.fullscreenMesh = m
}

// GetLights returns the lights submitted for the frame
func (r *Renderer) GetLights() []*graphics.Light {
	return r.lights
}

// AddLight submits a light for the frame
func (r *Renderer) AddLight(light *graphics.Light) {
	r.lights = append(r.lights, light)
}

// GetTransforms returns the world-matrix table of the current frame.
func (r *Renderer) GetTransforms() []mgl32.Mat4 {
	return r.worldMatrices
}

// GetWorldMatrix returns the world matrix a drawcall refers to.
func (r *Renderer) GetWorldMatrix(info DrawcallInfo) mgl32.Mat4 {
	return r.worldMatrixAt(info.WorldMatrixIndex())
}

func (r *Renderer) worldMatrixAt(i int) mgl32.Mat4 {
	if i < 0 || i >= len(r.worldMatrices) {
		panic(fmt.Sprintf("renderer: world matrix index %d out of range [0,%d)", i, len(r.worldMatrices)))
	}
	return r.worldMatrices[i]
}

// AddModel records the world matrix of model and offers one drawcall per
// submesh to every collection.
func (r *Renderer) AddModel(model *graphics.Model, world mgl32.Mat4) {
	index := len(r.worldMatrices)
	r.worldMatrices = append(r.worldMatrices, world)

	mesh := model.Mesh()
	for i := 0; i < mesh.SubmeshCount(); i++ {
		sub := mesh.Submesh(i)
		info := NewDrawcallInfo(model.Material(i), index, sub.VAO, sub.Drawcall)
		for _, c := range r.collections {
			c.Add(info)
		}
	}
}

// AddDrawcallCollection creates a collection with the given filter and
// returns its index, stable for the lifetime of the renderer.
func (r *Renderer) AddDrawcallCollection(filter DrawcallFilter) int {
	r.collections = append(r.collections, NewDrawcallCollection(filter))
	return len(r.collections) - 1
}

func (r *Renderer) collection(index int) *DrawcallCollection {
	if index < 0 || index >= len(r.collections) {
		panic(fmt.Sprintf("renderer: drawcall collection %d out of range [0,%d)", index, len(r.collections)))
	}
	return r.collections[index]
}

// SetDrawcallCollectionFilter replaces the filter of a collection. It
// applies to drawcalls added afterwards.
func (r *Renderer) SetDrawcallCollectionFilter(index int, filter DrawcallFilter) {
	r.collection(index).SetFilter(filter)
}

// GetDrawcalls returns the drawcalls of a collection for the current frame.
func (r *Renderer) GetDrawcalls(index int) []DrawcallInfo {
	return r.collection(index).Drawcalls()
}

// SortDrawcallCollection stable-sorts a collection with less.
func (r *Renderer) SortDrawcallCollection(index int, less DrawcallLess) {
	r.collection(index).Sort(less)
}

// IsBackToFront orders drawcalls by the distance of their origin along the
// camera's local +Z axis, ascending: the farthest in front of the camera
// comes first.
func (r *Renderer) IsBackToFront(a, b DrawcallInfo) bool {
	camera := r.camera
	position := camera.ExtractTranslation()
	_, _, forward := camera.ExtractVectors()

	aDistance := r.GetWorldMatrix(a).Col(3).Vec3().Sub(position)
	bDistance := r.GetWorldMatrix(b).Col(3).Vec3().Sub(position)
	return forward.Dot(aDistance) < forward.Dot(bDistance)
}

// IsFrontToBack is the reverse of IsBackToFront.
func (r *Renderer) IsFrontToBack(a, b DrawcallInfo) bool {
	return r.IsBackToFront(b, a)
}

// RegisterShader stores the uniform callbacks of shader, replacing any
// earlier registration.
func (r *Renderer) RegisterShader(shader *graphics.Shader, transforms UpdateTransformsFunc, lights UpdateLightsFunc) {
	r.registry.Register(shader, transforms, lights)
}

// UpdateTransforms pushes world and the current camera to shader.
// cameraChanged forces camera uniforms; they are also pushed the first time
// shader sees the current camera.
func (r *Renderer) UpdateTransforms(shader *graphics.Shader, world mgl32.Mat4, cameraChanged bool) {
	if r.bound.cameras[shader] != r.camera {
		cameraChanged = true
		r.bound.cameras[shader] = r.camera
	}
	r.registry.UpdateTransforms(shader, world, r.camera, cameraChanged)
}

// UpdateTransformsIndex is UpdateTransforms with a world-matrix table index.
func (r *Renderer) UpdateTransformsIndex(shader *graphics.Shader, index int) {
	r.UpdateTransforms(shader, r.worldMatrixAt(index), false)
}

// GetDefaultUpdateLightsFunction returns the standard light callback for
// shader, see DefaultUpdateLightsFunc.
func (r *Renderer) GetDefaultUpdateLightsFunction(shader *graphics.Shader) UpdateLightsFunc {
	return DefaultUpdateLightsFunc(shader)
}

// UpdateLights pushes the light at *lightIndex to shader and reports whether
// another draw is needed.
func (r *Renderer) UpdateLights(shader *graphics.Shader, lights []*graphics.Light, lightIndex *int) bool {
	return r.registry.UpdateLights(shader, lights, lightIndex)
}

// PrepareDrawcall applies the material, pushes the transforms and binds the
// geometry of info. Material and vertex array binds are skipped when
// unchanged since the last drawcall.
func (r *Renderer) PrepareDrawcall(info DrawcallInfo, overrides graphics.OverrideFlags) {
	material := info.Material()
	if material != r.bound.material || overrides != r.bound.overrides {
		material.Apply(overrides)
		r.bound.material = material
		r.bound.overrides = overrides
	}

	r.UpdateTransformsIndex(material.Shader(), info.WorldMatrixIndex())

	if vao := info.VAO(); vao != r.bound.vao {
		vao.Bind(r.dev)
		r.bound.vao = vao
	}
}

// InvalidateDrawState forgets the cached material and vertex array. Passes
// that set driver state directly call it so the next drawcall rebinds.
func (r *Renderer) InvalidateDrawState() {
	r.bound.invalidateDraw()
}

// Draw issues the drawcall of info on the bound geometry.
func (r *Renderer) Draw(info DrawcallInfo) {
	info.Drawcall().Draw(r.dev)
	r.frameDraws++
}

// DrawMesh binds and draws every submesh of m. Used for proxies such as the
// fullscreen triangle that are not part of the frame's submissions.
func (r *Renderer) DrawMesh(m *graphics.Mesh) {
	for i := 0; i < m.SubmeshCount(); i++ {
		sub := m.Submesh(i)
		if sub.VAO != r.bound.vao {
			sub.VAO.Bind(r.dev)
			r.bound.vao = sub.VAO
		}
		sub.Drawcall.Draw(r.dev)
		r.frameDraws++
	}
}

// SetLightingRenderStates sets the blend and depth state of one light
// iteration. The first iteration lays down depth (opaque) or alpha-blends
// (transparent); further iterations only add light where the depth matches.
func (r *Renderer) SetLightingRenderStates(first, transparent bool) {
	dev := r.dev
	dev.SetFeature(graphics.FeatureDepthTest, true)
	if first {
		dev.DepthFunc(graphics.DepthLessEqual)
		if transparent {
			dev.DepthMask(false)
			dev.SetFeature(graphics.FeatureBlend, true)
			dev.BlendFunc(graphics.BlendSrcAlpha, graphics.BlendOneMinusSrcAlpha)
		} else {
			dev.DepthMask(true)
			dev.SetFeature(graphics.FeatureBlend, false)
		}
		return
	}
	dev.DepthFunc(graphics.DepthEqual)
	dev.DepthMask(false)
	dev.SetFeature(graphics.FeatureBlend, true)
	if transparent {
		dev.BlendFunc(graphics.BlendSrcAlpha, graphics.BlendOne)
	} else {
		dev.BlendFunc(graphics.BlendOne, graphics.BlendOne)
	}
}

// ResetRenderStates restores the depth and blend defaults.
func (r *Renderer) ResetRenderStates() {
	r.dev.SetFeature(graphics.FeatureDepthTest, true)
	r.dev.DepthFunc(graphics.DepthLess)
	r.dev.DepthMask(true)
	r.dev.SetFeature(graphics.FeatureBlend, false)
}

func passName(pass RenderPass, i int) string {
	if n, ok := pass.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("pass%d", i)
}

// Render runs every pass in order and then resets the frame. A pass whose
// target cannot be bound or whose Render fails is skipped; the frame goes
// on and the errors are returned together.
//
// Render panics if no camera was set for the frame.
func (r *Renderer) Render() error {
	if r.camera == nil {
		panic("renderer: Render called without a current camera")
	}

	stats := FrameStats{Passes: make([]PassStats, 0, len(r.passes))}
	var errs []error

	for i, pass := range r.passes {
		name := passName(pass, i)
		stop := profiling.Track("pass." + name)
		start := time.Now()
		before := r.frameDraws

		err := r.SetCurrentFramebuffer(pass.TargetFramebuffer())
		if err != nil {
			err = fmt.Errorf("pass %s: bind target: %w", name, err)
		} else {
			r.InvalidateDrawState()
			if rerr := pass.Render(); rerr != nil {
				err = fmt.Errorf("pass %s: %w", name, rerr)
			}
		}

		stop()
		draws := r.frameDraws - before
		profiling.CountDraws("pass."+name, draws)
		stats.Passes = append(stats.Passes, PassStats{Name: name, Draws: draws, Duration: time.Since(start), Err: err})
		if err != nil {
			logger.Log.Error("render pass failed", zap.String("pass", name), zap.Error(err))
			errs = append(errs, err)
		}
	}

	stats.Draws = r.frameDraws
	stats.Errors = len(errs)
	r.lastStats = stats

	r.reset()
	return errors.Join(errs...)
}

// LastFrameStats describes the most recent Render.
func (r *Renderer) LastFrameStats() FrameStats {
	return r.lastStats
}

// reset drops every per-frame submission and the bound-state cache.
func (r *Renderer) reset() {
	clear(r.worldMatrices)
	r.worldMatrices = r.worldMatrices[:0]
	clear(r.lights)
	r.lights = r.lights[:0]
	for _, c := range r.collections {
		c.Clear()
	}
	r.camera = nil
	r.frameDraws = 0
	r.bound.reset()
}
