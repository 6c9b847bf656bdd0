package passes

import (
	"mini-render/internal/graphics"
	renderer "mini-render/internal/graphics/renderer"
)

// The forward pass owns blending and depth state; materials keep culling.
const forwardOverrides = graphics.OverrideBlend | graphics.OverrideDepthTest | graphics.OverrideDepthWrite

// ForwardPass shades drawcalls one light at a time into the window surface.
// Opaque drawcalls are drawn in submission order, transparent ones sorted
// back to front.
type ForwardPass struct {
	renderer.BasePass

	drawOpaque      bool
	drawTransparent bool

	opaque      int
	transparent int
}

// NewForwardPass creates a forward pass drawing the opaque stage, the
// transparent stage or both.
func NewForwardPass(opaque, transparent bool) *ForwardPass {
	return &ForwardPass{
		drawOpaque:      opaque,
		drawTransparent: transparent,
		opaque:          -1,
		transparent:     -1,
	}
}

func (p *ForwardPass) Name() string {
	switch {
	case p.drawOpaque && !p.drawTransparent:
		return "forward.opaque"
	case p.drawTransparent && !p.drawOpaque:
		return "forward.transparent"
	}
	return "forward"
}

// SetRenderer targets the window surface and registers the collections of
// the stages this pass draws.
func (p *ForwardPass) SetRenderer(r *renderer.Renderer) {
	p.BasePass.SetRenderer(r)
	p.SetTargetFramebuffer(r.GetDefaultFramebuffer())

	if p.drawOpaque {
		p.opaque = r.AddDrawcallCollection(func(info renderer.DrawcallInfo) bool {
			return !info.Material().IsTransparent()
		})
	}
	if p.drawTransparent {
		p.transparent = r.AddDrawcallCollection(func(info renderer.DrawcallInfo) bool {
			return info.Material().IsTransparent()
		})
	}
}

// Render draws the opaque stage, then the transparent stage.
func (p *ForwardPass) Render() error {
	r := p.Renderer()

	if p.drawOpaque {
		p.renderCollection(r, p.opaque, false)
	}
	if p.drawTransparent {
		r.SortDrawcallCollection(p.transparent, r.IsBackToFront)
		p.renderCollection(r, p.transparent, true)
	}

	r.ResetRenderStates()
	return nil
}

func (p *ForwardPass) renderCollection(r *renderer.Renderer, collection int, transparent bool) {
	lights := r.GetLights()
	registry := r.Registry()

	for _, info := range r.GetDrawcalls(collection) {
		r.PrepareDrawcall(info, forwardOverrides)

		shader := info.Material().Shader()
		if !registry.HasLights(shader) {
			// Unlit shader: one draw.
			r.SetLightingRenderStates(true, transparent)
			r.Draw(info)
			continue
		}

		lightIndex := 0
		first := true
		for r.UpdateLights(shader, lights, &lightIndex) {
			r.SetLightingRenderStates(first, transparent)
			r.Draw(info)
			first = false
		}
	}
}
