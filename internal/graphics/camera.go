package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera handles the view and projection matrices
type Camera struct {
	AspectRatio float32
	FOV         float32 // degrees
	NearPlane   float32
	FarPlane    float32

	view       mgl32.Mat4
	projection mgl32.Mat4
}

// NewCamera returns a perspective camera at the origin looking down -Z.
func NewCamera(width, height int) *Camera {
	c := &Camera{
		AspectRatio: float32(width) / float32(height),
		FOV:         60.0,
		NearPlane:   0.1,
		FarPlane:    100.0,
		view:        mgl32.Ident4(),
	}
	c.updatePerspective()
	return c
}

func (c *Camera) updatePerspective() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// SetPerspective replaces the projection with a perspective one.
func (c *Camera) SetPerspective(fovDegrees, aspect, near, far float32) {
	c.FOV = fovDegrees
	c.AspectRatio = aspect
	c.NearPlane = near
	c.FarPlane = far
	c.updatePerspective()
}

// SetOrthographic replaces the projection with an orthographic one.
func (c *Camera) SetOrthographic(left, right, bottom, top, near, far float32) {
	c.NearPlane = near
	c.FarPlane = far
	c.projection = mgl32.Ortho(left, right, bottom, top, near, far)
}

// SetViewport updates the aspect ratio of a perspective camera.
func (c *Camera) SetViewport(width, height int) {
	if height == 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
	c.updatePerspective()
}

// SetViewMatrix sets the view matrix directly
func (c *Camera) SetViewMatrix(view mgl32.Mat4) {
	c.view = view
}

// SetLookAt places the camera at eye looking at target.
func (c *Camera) SetLookAt(eye, target, up mgl32.Vec3) {
	c.view = mgl32.LookAtV(eye, target, up)
}

// GetViewMatrix returns the view matrix
func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return c.view
}

// GetProjectionMatrix returns the projection matrix
func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// GetViewProjectionMatrix returns projection * view
func (c *Camera) GetViewProjectionMatrix() mgl32.Mat4 {
	return c.projection.Mul4(c.view)
}

// ExtractTranslation returns the camera position in world space.
func (c *Camera) ExtractTranslation() mgl32.Vec3 {
	return c.view.Inv().Col(3).Vec3()
}

// ExtractVectors returns the camera's local axes in world space, taken from
// the rows of the view matrix. forward is the local +Z axis, which points
// away from the viewing direction in a right-handed view space.
func (c *Camera) ExtractVectors() (right, up, forward mgl32.Vec3) {
	return c.view.Row(0).Vec3(), c.view.Row(1).Vec3(), c.view.Row(2).Vec3()
}
