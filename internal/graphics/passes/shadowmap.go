package passes

import (
	"math"

	"mini-render/internal/graphics"
	renderer "mini-render/internal/graphics/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultVolumeSize is the edge length of the world-space box a directional
// shadow map covers when no volume is configured.
const DefaultVolumeSize = 6

// ShadowMapPass renders the depth of every shadow caster from the point of
// view of one light into that light's shadow map.
type ShadowMapPass struct {
	renderer.BasePass

	light    *graphics.Light
	material *graphics.Material
	casters  int

	volumeCenter mgl32.Vec3
	volumeSize   mgl32.Vec3

	camera *graphics.Camera
}

// NewShadowMapPass creates a shadow pass for light, drawing casters with the
// depth-only material. The light may be nil or gain its shadow map later;
// until then the pass does nothing.
func NewShadowMapPass(light *graphics.Light, material *graphics.Material) *ShadowMapPass {
	return &ShadowMapPass{
		light:      light,
		material:   material,
		volumeSize: mgl32.Vec3{DefaultVolumeSize, DefaultVolumeSize, DefaultVolumeSize},
		camera:     graphics.NewCamera(1, 1),
	}
}

func (p *ShadowMapPass) Name() string {
	return "shadow"
}

// SetRenderer registers the shadow caster collection.
func (p *ShadowMapPass) SetRenderer(r *renderer.Renderer) {
	p.BasePass.SetRenderer(r)
	p.casters = r.AddDrawcallCollection(func(info renderer.DrawcallInfo) bool {
		return info.Material().CastShadows
	})
}

// Light returns the shadow casting light
func (p *ShadowMapPass) Light() *graphics.Light {
	return p.light
}

// SetLight changes the shadow casting light
func (p *ShadowMapPass) SetLight(light *graphics.Light) {
	p.light = light
}

// SetVolume sets the world-space box a directional light's shadow map
// encloses.
func (p *ShadowMapPass) SetVolume(center, size mgl32.Vec3) {
	p.volumeCenter = center
	p.volumeSize = size
}

// Volume returns the box the shadow map covers
func (p *ShadowMapPass) Volume() (center, size mgl32.Vec3) {
	return p.volumeCenter, p.volumeSize
}

// Camera returns the light camera used for the last rendered frame.
func (p *ShadowMapPass) Camera() *graphics.Camera {
	return p.camera
}

func (p *ShadowMapPass) active() bool {
	return p.light != nil && p.material != nil && p.light.CastsShadows()
}

// TargetFramebuffer is the light's shadow map, or nil when there is nothing
// to render.
func (p *ShadowMapPass) TargetFramebuffer() *graphics.Framebuffer {
	if !p.active() {
		return nil
	}
	return p.light.ShadowMap().Framebuffer
}

// Render draws the shadow casters. A missing light, a point light or a light
// without a shadow map is not an error; the pass is skipped.
func (p *ShadowMapPass) Render() error {
	if !p.active() {
		return nil
	}
	r := p.Renderer()
	dev := r.Device()
	sm := p.light.ShadowMap()

	p.updateLightCamera(sm.Framebuffer)
	sm.Matrix = p.camera.GetViewProjectionMatrix()

	dev.ColorMask(false)
	dev.DepthMask(true)
	dev.Clear(graphics.ClearDepthBuffer)

	mainCamera := r.GetCurrentCamera()
	r.SetCurrentCamera(p.camera)

	for _, info := range r.GetDrawcalls(p.casters) {
		info = info.WithMaterial(p.material)
		r.PrepareDrawcall(info, graphics.NoOverride)
		r.Draw(info)
	}

	r.SetCurrentCamera(mainCamera)

	dev.ColorMask(true)
	dev.SetFeature(graphics.FeatureCullFace, true)
	dev.CullFace(graphics.FaceBack)
	r.ResetRenderStates()
	r.InvalidateDrawState()
	return nil
}

func (p *ShadowMapPass) updateLightCamera(target *graphics.Framebuffer) {
	dir := p.light.Direction()
	up := mgl32.Vec3{0, 1, 0}
	if math.Abs(float64(dir.Dot(up))) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}

	switch p.light.Type {
	case graphics.SpotLight:
		pos := p.light.Position
		far := p.light.DistanceAttenuation.Y()
		if far <= 0 {
			far = p.volumeSize.Len()
		}
		aspect := float32(1)
		if target != nil && target.Height > 0 {
			aspect = float32(target.Width) / float32(target.Height)
		}
		fov := 2 * p.light.AngleAttenuation.Y()
		if fov <= 0 || fov >= 180 {
			fov = 90
		}
		p.camera.SetLookAt(pos, pos.Add(dir), up)
		p.camera.SetPerspective(fov, aspect, 0.01*far, far)
	default:
		half := p.volumeSize.Mul(0.5)
		p.camera.SetLookAt(p.volumeCenter, p.volumeCenter.Add(dir), up)
		p.camera.SetOrthographic(-half.X(), half.X(), -half.Y(), half.Y(), -half.Z(), half.Z())
	}
}
