package passes

import (
	"mini-render/internal/config"
	"mini-render/internal/graphics"
	renderer "mini-render/internal/graphics/renderer"
	"mini-render/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Assets are the scene-owned resources the standard pipeline draws with.
// Nil entries disable the corresponding pass.
type Assets struct {
	ShadowLight    *graphics.Light
	ShadowMaterial *graphics.Material
	SkyboxMaterial *graphics.Material
	// SkyboxProxy defaults to the renderer's fullscreen mesh.
	SkyboxProxy *graphics.Mesh
}

// Pipeline is the set of passes added by Standard. Passes that were not
// added are nil.
type Pipeline struct {
	Shadow      *ShadowMapPass
	Opaque      *ForwardPass
	Transparent *ForwardPass
	Skybox      *SkyboxPass
}

// Standard adds shadow, opaque, skybox and transparent passes to r.
// The skybox goes before the transparent stage unless the config asks for
// it to be drawn last.
func Standard(r *renderer.Renderer, cfg config.Config, assets Assets) *Pipeline {
	p := &Pipeline{}

	if cfg.Shadow.Enabled && assets.ShadowLight != nil && assets.ShadowMaterial != nil {
		p.Shadow = NewShadowMapPass(assets.ShadowLight, assets.ShadowMaterial)
		r.AddRenderPass(p.Shadow)
	}

	p.Opaque = NewForwardPass(true, false)
	r.AddRenderPass(p.Opaque)

	if assets.SkyboxMaterial != nil {
		p.Skybox = NewSkyboxPass(assets.SkyboxMaterial, assets.SkyboxProxy)
	}
	p.Transparent = NewForwardPass(false, true)

	if cfg.Renderer.SkyboxOrder == config.SkyboxAfterTransparent {
		r.AddRenderPass(p.Transparent)
		if p.Skybox != nil {
			r.AddRenderPass(p.Skybox)
		}
	} else {
		if p.Skybox != nil {
			r.AddRenderPass(p.Skybox)
		}
		r.AddRenderPass(p.Transparent)
	}

	p.Apply(cfg)
	logger.Log.Debug("standard pipeline ready",
		zap.Int("passes", r.PassCount()),
		zap.Bool("shadow", p.Shadow != nil),
		zap.Bool("skybox", p.Skybox != nil),
		zap.String("skybox_order", cfg.Renderer.SkyboxOrder))
	return p
}

// Apply updates the settings that can change without rebuilding the
// pipeline: the shadow volume and bias.
func (p *Pipeline) Apply(cfg config.Config) {
	if p.Shadow == nil {
		return
	}
	p.Shadow.SetVolume(mgl32.Vec3(cfg.Shadow.VolumeCenter), mgl32.Vec3(cfg.Shadow.VolumeSize))
	if light := p.Shadow.Light(); light != nil {
		if sm := light.ShadowMap(); sm != nil {
			sm.Bias = cfg.Shadow.Bias
		}
	}
}
