package renderer

import (
	"time"

	"mini-render/internal/graphics"
)

// RenderPass is one stage of the pipeline. Passes run in the order they were
// added to the Renderer.
type RenderPass interface {
	// SetRenderer is called once by AddRenderPass.
	SetRenderer(r *Renderer)
	// TargetFramebuffer is the surface bound before Render. Nil keeps the
	// currently bound framebuffer.
	TargetFramebuffer() *graphics.Framebuffer
	Render() error
}

// Named is implemented by passes that want a readable name in logs and
// profiling output.
type Named interface {
	Name() string
}

// BasePass holds the renderer and target shared by all passes.
type BasePass struct {
	renderer *Renderer
	target   *graphics.Framebuffer
}

// SetRenderer stores the renderer the pass was added to
func (p *BasePass) SetRenderer(r *Renderer) {
	p.renderer = r
}

// Renderer returns the renderer the pass was added to
func (p *BasePass) Renderer() *Renderer {
	return p.renderer
}

// TargetFramebuffer returns the surface the pass draws into
func (p *BasePass) TargetFramebuffer() *graphics.Framebuffer {
	return p.target
}

// SetTargetFramebuffer sets the surface the pass draws into
func (p *BasePass) SetTargetFramebuffer(fb *graphics.Framebuffer) {
	p.target = fb
}

// FrameStats describes the last rendered frame.
type FrameStats struct {
	Passes []PassStats
	Draws  int
	Errors int
}

// PassStats describes one pass of the last frame.
type PassStats struct {
	Name     string
	Draws    int
	Duration time.Duration
	Err      error
}
