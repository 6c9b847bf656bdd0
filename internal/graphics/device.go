package graphics

import "github.com/go-gl/mathgl/mgl32"

// Device is the driver-facing surface the renderer draws through.
// It mirrors the subset of OpenGL state the pipeline touches; every call
// mutates the globally bound driver state, so a Device must only be used
// from the thread that owns the context.
type Device interface {
	BindFramebuffer(id uint32)
	// FramebufferStatus reports nil when the framebuffer with the given id
	// is complete.
	FramebufferStatus(id uint32) error
	Viewport(x, y, width, height int32)

	ClearColor(c mgl32.Vec4)
	ClearDepth(d float32)
	Clear(mask ClearMask)

	SetFeature(f Feature, enabled bool)
	DepthFunc(f DepthFunc)
	DepthMask(write bool)
	ColorMask(write bool)
	BlendFunc(src, dst BlendFactor)
	CullFace(face Face)

	UseProgram(id uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, v mgl32.Vec2)
	Uniform3f(loc int32, v mgl32.Vec3)
	Uniform4f(loc int32, v mgl32.Vec4)
	UniformMatrix4(loc int32, m mgl32.Mat4)

	ActiveTexture(unit uint32)
	BindTexture(target TextureTarget, id uint32)

	BindVertexArray(id uint32)
	DrawArrays(mode Primitive, first, count int32)
	DrawElements(mode Primitive, count int32, indexType IndexType, offset int)
}

// ClearMask selects the buffers cleared by Device.Clear.
type ClearMask uint8

const (
	ClearColorBuffer ClearMask = 1 << iota
	ClearDepthBuffer
	ClearStencilBuffer
)

// Feature is a capability toggled with Device.SetFeature.
type Feature uint8

const (
	FeatureDepthTest Feature = iota
	FeatureBlend
	FeatureCullFace
	FeatureFramebufferSRGB
	FeatureTextureCubeMapSeamless
)

func (f Feature) String() string {
	switch f {
	case FeatureDepthTest:
		return "DepthTest"
	case FeatureBlend:
		return "Blend"
	case FeatureCullFace:
		return "CullFace"
	case FeatureFramebufferSRGB:
		return "FramebufferSRGB"
	case FeatureTextureCubeMapSeamless:
		return "TextureCubeMapSeamless"
	}
	return "Unknown"
}

// DepthFunc is the depth comparison function.
type DepthFunc uint8

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
	DepthEqual
	DepthAlways
)

func (f DepthFunc) String() string {
	switch f {
	case DepthLess:
		return "Less"
	case DepthLessEqual:
		return "LessEqual"
	case DepthEqual:
		return "Equal"
	case DepthAlways:
		return "Always"
	}
	return "Unknown"
}

type BlendFactor uint8

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
)

// Face selects which polygon faces are culled.
type Face uint8

const (
	FaceBack Face = iota
	FaceFront
	FaceFrontAndBack
)

type TextureTarget uint8

const (
	Texture2D TextureTarget = iota
	TextureCubeMap
)

// Primitive is the topology of a drawcall.
type Primitive uint8

const (
	Points Primitive = iota
	Lines
	LineStrip
	LineLoop
	Triangles
	TriangleStrip
	TriangleFan
)

// IndexType is the element type of an index buffer.
type IndexType uint8

const (
	IndexUint8 IndexType = iota
	IndexUint16
	IndexUint32
)

// Size returns the size in bytes of one index.
func (t IndexType) Size() int {
	switch t {
	case IndexUint8:
		return 1
	case IndexUint16:
		return 2
	}
	return 4
}
