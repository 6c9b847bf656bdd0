// Package opengl implements graphics.Device and resource creation on top of
// the OpenGL 4.1 core profile.
package opengl

import (
	"fmt"

	"mini-render/internal/graphics"
	"mini-render/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Init loads the GL function pointers for the current context.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("could not initialize OpenGL: %w", err)
	}
	logger.Log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return nil
}

// Device forwards to the GL context current on the calling thread.
type Device struct{}

// NewDevice returns the device of the current GL context.
func NewDevice() *Device {
	return &Device{}
}

var _ graphics.Device = (*Device)(nil)

func (d *Device) BindFramebuffer(id uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, id)
}

// FramebufferStatus checks the framebuffer bound to id. It must be called
// while id is bound.
func (d *Device) FramebufferStatus(id uint32) error {
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status == gl.FRAMEBUFFER_COMPLETE {
		return nil
	}
	return fmt.Errorf("framebuffer %d incomplete: status 0x%x", id, status)
}

func (d *Device) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *Device) ClearColor(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

func (d *Device) ClearDepth(v float32) {
	gl.ClearDepth(float64(v))
}

func (d *Device) Clear(mask graphics.ClearMask) {
	var bits uint32
	if mask&graphics.ClearColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&graphics.ClearDepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if mask&graphics.ClearStencilBuffer != 0 {
		bits |= gl.STENCIL_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Device) SetFeature(f graphics.Feature, enabled bool) {
	var capability uint32
	switch f {
	case graphics.FeatureDepthTest:
		capability = gl.DEPTH_TEST
	case graphics.FeatureBlend:
		capability = gl.BLEND
	case graphics.FeatureCullFace:
		capability = gl.CULL_FACE
	case graphics.FeatureFramebufferSRGB:
		capability = gl.FRAMEBUFFER_SRGB
	case graphics.FeatureTextureCubeMapSeamless:
		capability = gl.TEXTURE_CUBE_MAP_SEAMLESS
	default:
		return
	}
	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func (d *Device) DepthFunc(f graphics.DepthFunc) {
	switch f {
	case graphics.DepthLess:
		gl.DepthFunc(gl.LESS)
	case graphics.DepthLessEqual:
		gl.DepthFunc(gl.LEQUAL)
	case graphics.DepthEqual:
		gl.DepthFunc(gl.EQUAL)
	case graphics.DepthAlways:
		gl.DepthFunc(gl.ALWAYS)
	}
}

func (d *Device) DepthMask(write bool) {
	gl.DepthMask(write)
}

func (d *Device) ColorMask(write bool) {
	gl.ColorMask(write, write, write, write)
}

func blendFactor(f graphics.BlendFactor) uint32 {
	switch f {
	case graphics.BlendZero:
		return gl.ZERO
	case graphics.BlendSrcAlpha:
		return gl.SRC_ALPHA
	case graphics.BlendOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	}
	return gl.ONE
}

func (d *Device) BlendFunc(src, dst graphics.BlendFactor) {
	gl.BlendFunc(blendFactor(src), blendFactor(dst))
}

func (d *Device) CullFace(face graphics.Face) {
	switch face {
	case graphics.FaceFront:
		gl.CullFace(gl.FRONT)
	case graphics.FaceFrontAndBack:
		gl.CullFace(gl.FRONT_AND_BACK)
	default:
		gl.CullFace(gl.BACK)
	}
}

func (d *Device) UseProgram(id uint32) {
	gl.UseProgram(id)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) Uniform1i(loc int32, v int32)      { gl.Uniform1i(loc, v) }
func (d *Device) Uniform1f(loc int32, v float32)    { gl.Uniform1f(loc, v) }
func (d *Device) Uniform2f(loc int32, v mgl32.Vec2) { gl.Uniform2f(loc, v[0], v[1]) }
func (d *Device) Uniform3f(loc int32, v mgl32.Vec3) { gl.Uniform3f(loc, v[0], v[1], v[2]) }
func (d *Device) Uniform4f(loc int32, v mgl32.Vec4) { gl.Uniform4f(loc, v[0], v[1], v[2], v[3]) }

func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (d *Device) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func textureTarget(t graphics.TextureTarget) uint32 {
	if t == graphics.TextureCubeMap {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

func (d *Device) BindTexture(target graphics.TextureTarget, id uint32) {
	gl.BindTexture(textureTarget(target), id)
}

func (d *Device) BindVertexArray(id uint32) {
	gl.BindVertexArray(id)
}

func primitive(p graphics.Primitive) uint32 {
	switch p {
	case graphics.Points:
		return gl.POINTS
	case graphics.Lines:
		return gl.LINES
	case graphics.LineStrip:
		return gl.LINE_STRIP
	case graphics.LineLoop:
		return gl.LINE_LOOP
	case graphics.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case graphics.TriangleFan:
		return gl.TRIANGLE_FAN
	}
	return gl.TRIANGLES
}

func indexType(t graphics.IndexType) uint32 {
	switch t {
	case graphics.IndexUint8:
		return gl.UNSIGNED_BYTE
	case graphics.IndexUint16:
		return gl.UNSIGNED_SHORT
	}
	return gl.UNSIGNED_INT
}

func (d *Device) DrawArrays(mode graphics.Primitive, first, count int32) {
	gl.DrawArrays(primitive(mode), first, count)
}

func (d *Device) DrawElements(mode graphics.Primitive, count int32, t graphics.IndexType, offset int) {
	gl.DrawElementsWithOffset(primitive(mode), count, indexType(t), uintptr(offset))
}
