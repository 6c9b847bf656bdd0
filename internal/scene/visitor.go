package scene

import (
	renderer "mini-render/internal/graphics/renderer"
)

// RendererVisitor submits a scene to a renderer for one frame: the first
// camera becomes the current camera, every light and model is added.
type RendererVisitor struct {
	r         *renderer.Renderer
	hasCamera bool
}

// NewRendererVisitor creates a visitor submitting to r.
func NewRendererVisitor(r *renderer.Renderer) *RendererVisitor {
	return &RendererVisitor{r: r}
}

// VisitCamera sets the frame camera unless one is already set.
func (v *RendererVisitor) VisitCamera(n *CameraNode) {
	if v.hasCamera {
		return
	}
	v.r.SetCurrentCamera(n.Camera)
	v.hasCamera = true
}

// VisitLight adds the light to the frame.
func (v *RendererVisitor) VisitLight(n *LightNode) {
	v.r.AddLight(n.Light)
}

// VisitModel adds the model with its world matrix.
func (v *RendererVisitor) VisitModel(n *ModelNode) {
	v.r.AddModel(n.Model, n.Transform.Matrix())
}

// Submit feeds s to r. Call once per frame before r.Render.
func Submit(r *renderer.Renderer, s *Scene) {
	s.Accept(NewRendererVisitor(r))
}
