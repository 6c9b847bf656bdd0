// Package gltest provides an in-memory graphics.Device that records the
// draws issued through it together with the driver state they ran under.
package gltest

import (
	"errors"

	"mini-render/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Draw is one recorded draw and the state bound when it was issued.
type Draw struct {
	Program     uint32
	VAO         uint32
	Framebuffer uint32
	Primitive   graphics.Primitive
	First       int32
	Count       int32
	Indexed     bool

	DepthTest bool
	DepthFunc graphics.DepthFunc
	DepthMask bool
	Blend     bool
	BlendSrc  graphics.BlendFactor
	BlendDst  graphics.BlendFactor
	Viewport  [4]int32
}

type uniformKey struct {
	program uint32
	loc     int32
}

// Device implements graphics.Device without a driver.
type Device struct {
	Draws []Draw
	// FramebufferBinds counts BindFramebuffer calls.
	FramebufferBinds int
	ProgramBinds     int
	VAOBinds         int
	Clears           []graphics.ClearMask

	// FailFramebuffers makes FramebufferStatus report the given error.
	FailFramebuffers map[uint32]error

	framebuffer uint32
	program     uint32
	vao         uint32
	viewport    [4]int32
	features    map[graphics.Feature]bool
	depthFunc   graphics.DepthFunc
	depthMask   bool
	colorMask   bool
	blendSrc    graphics.BlendFactor
	blendDst    graphics.BlendFactor
	cullFace    graphics.Face
	activeUnit  uint32
	textures    map[uint32]uint32

	locations map[uint32]map[string]int32
	names     map[uniformKey]string
	uniforms  map[uniformKey]any
}

// NewDevice returns a device in the GL default state.
func NewDevice() *Device {
	return &Device{
		FailFramebuffers: make(map[uint32]error),
		features:         make(map[graphics.Feature]bool),
		depthMask:        true,
		colorMask:        true,
		blendSrc:         graphics.BlendOne,
		blendDst:         graphics.BlendZero,
		textures:         make(map[uint32]uint32),
		locations:        make(map[uint32]map[string]int32),
		names:            make(map[uniformKey]string),
		uniforms:         make(map[uniformKey]any),
	}
}

// Reset forgets recorded draws and counters but keeps driver state.
func (d *Device) Reset() {
	d.Draws = nil
	d.FramebufferBinds = 0
	d.ProgramBinds = 0
	d.VAOBinds = 0
	d.Clears = nil
}

func (d *Device) BindFramebuffer(id uint32) {
	d.FramebufferBinds++
	d.framebuffer = id
}

func (d *Device) FramebufferStatus(id uint32) error {
	return d.FailFramebuffers[id]
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.viewport = [4]int32{x, y, width, height}
}

func (d *Device) ClearColor(mgl32.Vec4) {}
func (d *Device) ClearDepth(float32)    {}

func (d *Device) Clear(mask graphics.ClearMask) {
	d.Clears = append(d.Clears, mask)
}

func (d *Device) SetFeature(f graphics.Feature, enabled bool) {
	d.features[f] = enabled
}

func (d *Device) DepthFunc(f graphics.DepthFunc)                  { d.depthFunc = f }
func (d *Device) DepthMask(write bool)                            { d.depthMask = write }
func (d *Device) ColorMask(write bool)                            { d.colorMask = write }
func (d *Device) CullFace(face graphics.Face)                     { d.cullFace = face }
func (d *Device) BlendFunc(src, dst graphics.BlendFactor)         { d.blendSrc, d.blendDst = src, dst }
func (d *Device) ActiveTexture(unit uint32)                       { d.activeUnit = unit }
func (d *Device) BindTexture(_ graphics.TextureTarget, id uint32) { d.textures[d.activeUnit] = id }

func (d *Device) UseProgram(id uint32) {
	d.ProgramBinds++
	d.program = id
}

// UniformLocation hands out locations in lookup order, per program.
func (d *Device) UniformLocation(program uint32, name string) int32 {
	locs, ok := d.locations[program]
	if !ok {
		locs = make(map[string]int32)
		d.locations[program] = locs
	}
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := int32(len(locs))
	locs[name] = loc
	d.names[uniformKey{program, loc}] = name
	return loc
}

func (d *Device) setUniform(loc int32, v any) {
	d.uniforms[uniformKey{d.program, loc}] = v
}

func (d *Device) Uniform1i(loc int32, v int32)           { d.setUniform(loc, v) }
func (d *Device) Uniform1f(loc int32, v float32)         { d.setUniform(loc, v) }
func (d *Device) Uniform2f(loc int32, v mgl32.Vec2)      { d.setUniform(loc, v) }
func (d *Device) Uniform3f(loc int32, v mgl32.Vec3)      { d.setUniform(loc, v) }
func (d *Device) Uniform4f(loc int32, v mgl32.Vec4)      { d.setUniform(loc, v) }
func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) { d.setUniform(loc, m) }

func (d *Device) BindVertexArray(id uint32) {
	d.VAOBinds++
	d.vao = id
}

func (d *Device) record(mode graphics.Primitive, first, count int32, indexed bool) {
	d.Draws = append(d.Draws, Draw{
		Program:     d.program,
		VAO:         d.vao,
		Framebuffer: d.framebuffer,
		Primitive:   mode,
		First:       first,
		Count:       count,
		Indexed:     indexed,
		DepthTest:   d.features[graphics.FeatureDepthTest],
		DepthFunc:   d.depthFunc,
		DepthMask:   d.depthMask,
		Blend:       d.features[graphics.FeatureBlend],
		BlendSrc:    d.blendSrc,
		BlendDst:    d.blendDst,
		Viewport:    d.viewport,
	})
}

func (d *Device) DrawArrays(mode graphics.Primitive, first, count int32) {
	d.record(mode, first, count, false)
}

func (d *Device) DrawElements(mode graphics.Primitive, count int32, indexType graphics.IndexType, offset int) {
	d.record(mode, int32(offset/indexType.Size()), count, true)
}

// Uniform returns the last value uploaded to the named uniform of program.
func (d *Device) Uniform(program uint32, name string) (any, bool) {
	loc, ok := d.locations[program][name]
	if !ok {
		return nil, false
	}
	v, ok := d.uniforms[uniformKey{program, loc}]
	return v, ok
}

// Feature reports whether f is enabled.
func (d *Device) Feature(f graphics.Feature) bool {
	return d.features[f]
}

func (d *Device) CurrentFramebuffer() uint32 { return d.framebuffer }
func (d *Device) CurrentProgram() uint32     { return d.program }
func (d *Device) CurrentDepthFunc() graphics.DepthFunc {
	return d.depthFunc
}
func (d *Device) CurrentDepthMask() bool         { return d.depthMask }
func (d *Device) CurrentCullFace() graphics.Face { return d.cullFace }
func (d *Device) CurrentViewport() [4]int32      { return d.viewport }

// BoundTexture returns the texture bound to the given unit.
func (d *Device) BoundTexture(unit uint32) uint32 {
	return d.textures[unit]
}

// DrawsTo returns the draws issued while fb was bound.
func (d *Device) DrawsTo(fb uint32) []Draw {
	var out []Draw
	for _, dr := range d.Draws {
		if dr.Framebuffer == fb {
			out = append(out, dr)
		}
	}
	return out
}

// ErrIncomplete is a convenience error for FailFramebuffers.
var ErrIncomplete = errors.New("framebuffer incomplete")
