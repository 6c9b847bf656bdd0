package graphics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// BlendMode selects how a material is blended
type BlendMode uint8

const (
	BlendNone BlendMode = iota
	BlendAlpha
	BlendAdditive
)

// CullMode selects which faces a material culls
type CullMode uint8

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

// OverrideFlags mask the render states a material would otherwise set, so
// that a render pass can control them itself.
type OverrideFlags uint8

const (
	OverrideBlend OverrideFlags = 1 << iota
	OverrideDepthTest
	OverrideDepthWrite
	OverrideCullMode

	NoOverride  OverrideFlags = 0
	OverrideAll               = OverrideBlend | OverrideDepthTest | OverrideDepthWrite | OverrideCullMode
)

type materialUniform struct {
	name  string
	loc   Location
	value any
}

// Material is a shader plus the uniform values and render states it is drawn
// with.
type Material struct {
	shader   *Shader
	uniforms []materialUniform

	BlendMode   BlendMode
	CullMode    CullMode
	DepthTest   bool
	DepthWrite  bool
	DepthFunc   DepthFunc
	CastShadows bool
}

// NewMaterial creates an opaque, depth tested material.
func NewMaterial(shader *Shader) *Material {
	return &Material{
		shader:      shader,
		CullMode:    CullBack,
		DepthTest:   true,
		DepthWrite:  true,
		DepthFunc:   DepthLess,
		CastShadows: true,
	}
}

// Shader returns the material shader
func (m *Material) Shader() *Shader {
	return m.shader
}

// IsTransparent reports whether the material blends with what is behind it.
func (m *Material) IsTransparent() bool {
	return m.BlendMode != BlendNone
}

// SetUniform stores a value uploaded on every Apply. Supported values are
// bool, int, int32, float32, mgl32.Vec2/3/4, mgl32.Mat4 and *Texture.
// Setting an existing name replaces its value.
func (m *Material) SetUniform(name string, value any) error {
	switch value.(type) {
	case bool, int, int32, float32, mgl32.Vec2, mgl32.Vec3, mgl32.Vec4, mgl32.Mat4, *Texture:
	default:
		return fmt.Errorf("material uniform %q: unsupported type %T", name, value)
	}
	for i := range m.uniforms {
		if m.uniforms[i].name == name {
			m.uniforms[i].value = value
			return nil
		}
	}
	m.uniforms = append(m.uniforms, materialUniform{name: name, loc: m.shader.Location(name), value: value})
	return nil
}

// Uniform returns the stored value of the named uniform.
func (m *Material) Uniform(name string) (any, bool) {
	for _, u := range m.uniforms {
		if u.name == name {
			return u.value, true
		}
	}
	return nil, false
}

// Clone returns a material sharing the shader with its own copy of the
// uniform values and states.
func (m *Material) Clone() *Material {
	c := *m
	c.uniforms = append([]materialUniform(nil), m.uniforms...)
	return &c
}

// Apply binds the shader, uploads the uniforms and sets the render states
// not masked by overrides.
func (m *Material) Apply(overrides OverrideFlags) {
	dev := m.shader.Device()
	m.shader.Use()

	var unit uint32
	for _, u := range m.uniforms {
		switch v := u.value.(type) {
		case bool:
			m.shader.SetBool(u.loc, v)
		case int:
			m.shader.SetInt(u.loc, int32(v))
		case int32:
			m.shader.SetInt(u.loc, v)
		case float32:
			m.shader.SetFloat(u.loc, v)
		case mgl32.Vec2:
			m.shader.SetVec2(u.loc, v)
		case mgl32.Vec3:
			m.shader.SetVec3(u.loc, v)
		case mgl32.Vec4:
			m.shader.SetVec4(u.loc, v)
		case mgl32.Mat4:
			m.shader.SetMat4(u.loc, v)
		case *Texture:
			if u.loc >= 0 && v != nil {
				m.shader.SetTexture(u.loc, unit, v)
				unit++
			}
		}
	}

	if overrides&OverrideBlend == 0 {
		switch m.BlendMode {
		case BlendNone:
			dev.SetFeature(FeatureBlend, false)
		case BlendAlpha:
			dev.SetFeature(FeatureBlend, true)
			dev.BlendFunc(BlendSrcAlpha, BlendOneMinusSrcAlpha)
		case BlendAdditive:
			dev.SetFeature(FeatureBlend, true)
			dev.BlendFunc(BlendOne, BlendOne)
		}
	}
	if overrides&OverrideDepthTest == 0 {
		dev.SetFeature(FeatureDepthTest, m.DepthTest)
		if m.DepthTest {
			dev.DepthFunc(m.DepthFunc)
		}
	}
	if overrides&OverrideDepthWrite == 0 {
		dev.DepthMask(m.DepthWrite)
	}
	if overrides&OverrideCullMode == 0 {
		switch m.CullMode {
		case CullNone:
			dev.SetFeature(FeatureCullFace, false)
		case CullBack:
			dev.SetFeature(FeatureCullFace, true)
			dev.CullFace(FaceBack)
		case CullFront:
			dev.SetFeature(FeatureCullFace, true)
			dev.CullFace(FaceFront)
		}
	}
}
