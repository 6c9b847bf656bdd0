package passes

import (
	"errors"

	"mini-render/internal/graphics"
	renderer "mini-render/internal/graphics/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// SkyboxTextureUniform is the sampler the skybox material reads the cubemap
// from.
const SkyboxTextureUniform = "SkyboxTexture"

var (
	errNoSkyboxMaterial = errors.New("skybox: no material")
	errNoSkyboxProxy    = errors.New("skybox: no proxy mesh")
)

// SkyboxPass fills the pixels nothing else has covered with a cubemap.
// The proxy is drawn at the far plane, so it only passes the depth test
// where the depth buffer is still cleared.
type SkyboxPass struct {
	renderer.BasePass

	material *graphics.Material
	proxy    *graphics.Mesh
}

// NewSkyboxPass creates a skybox pass. A nil proxy uses the renderer's
// fullscreen mesh.
func NewSkyboxPass(material *graphics.Material, proxy *graphics.Mesh) *SkyboxPass {
	return &SkyboxPass{material: material, proxy: proxy}
}

func (p *SkyboxPass) Name() string {
	return "skybox"
}

// SetRenderer targets the window surface.
func (p *SkyboxPass) SetRenderer(r *renderer.Renderer) {
	p.BasePass.SetRenderer(r)
	p.SetTargetFramebuffer(r.GetDefaultFramebuffer())
}

// Material returns the skybox material
func (p *SkyboxPass) Material() *graphics.Material {
	return p.material
}

// SetTexture sets the cubemap sampled by the skybox material.
func (p *SkyboxPass) SetTexture(tex *graphics.Texture) error {
	if p.material == nil {
		return errNoSkyboxMaterial
	}
	return p.material.SetUniform(SkyboxTextureUniform, tex)
}

// Render draws the proxy with depth test LEQUAL, no depth write and no
// culling, then restores the defaults.
func (p *SkyboxPass) Render() error {
	r := p.Renderer()
	if p.material == nil {
		return errNoSkyboxMaterial
	}
	proxy := p.proxy
	if proxy == nil {
		proxy = r.GetFullscreenMesh()
	}
	if proxy == nil {
		return errNoSkyboxProxy
	}

	dev := r.Device()
	p.material.Apply(graphics.OverrideAll)
	r.InvalidateDrawState()

	dev.SetFeature(graphics.FeatureBlend, false)
	dev.SetFeature(graphics.FeatureDepthTest, true)
	dev.DepthFunc(graphics.DepthLessEqual)
	dev.DepthMask(false)
	dev.SetFeature(graphics.FeatureCullFace, false)

	r.UpdateTransforms(p.material.Shader(), mgl32.Ident4(), true)
	r.DrawMesh(proxy)

	dev.SetFeature(graphics.FeatureCullFace, true)
	dev.CullFace(graphics.FaceBack)
	r.ResetRenderStates()
	return nil
}
