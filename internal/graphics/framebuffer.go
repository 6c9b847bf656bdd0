package graphics

import "fmt"

// Framebuffer is a render target. ID 0 is the window surface.
type Framebuffer struct {
	ID     uint32
	Width  int32
	Height int32
}

// DefaultFramebuffer returns the window surface of the given size.
func DefaultFramebuffer(width, height int32) *Framebuffer {
	return &Framebuffer{Width: width, Height: height}
}

// IsDefault reports whether fb is the window surface.
func (fb *Framebuffer) IsDefault() bool {
	return fb.ID == 0
}

// Resize updates the size the viewport is set to on Bind.
func (fb *Framebuffer) Resize(width, height int32) {
	fb.Width = width
	fb.Height = height
}

// Bind binds the framebuffer and sets the viewport to cover it.
// Offscreen targets are checked for completeness first.
func (fb *Framebuffer) Bind(dev Device) error {
	dev.BindFramebuffer(fb.ID)
	if !fb.IsDefault() {
		if err := dev.FramebufferStatus(fb.ID); err != nil {
			return fmt.Errorf("framebuffer %d: %w", fb.ID, err)
		}
	}
	dev.Viewport(0, 0, fb.Width, fb.Height)
	return nil
}
