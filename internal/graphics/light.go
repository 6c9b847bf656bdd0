package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// LightType selects how a light is evaluated.
type LightType uint8

const (
	DirectionalLight LightType = iota
	PointLight
	SpotLight
)

func (t LightType) String() string {
	switch t {
	case DirectionalLight:
		return "directional"
	case PointLight:
		return "point"
	case SpotLight:
		return "spot"
	}
	return "unknown"
}

// Light is a light source submitted to the renderer each frame.
type Light struct {
	Type      LightType
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32

	// DistanceAttenuation is the (start, end) range over which point and
	// spot lights fade out.
	DistanceAttenuation mgl32.Vec2
	// AngleAttenuation is the (inner, outer) cone angle of a spot light,
	// in degrees.
	AngleAttenuation mgl32.Vec2

	direction mgl32.Vec3
	shadowMap *ShadowMap
}

// ShadowMap is the depth target a light renders its shadow casters into.
type ShadowMap struct {
	Framebuffer *Framebuffer
	Texture     *Texture
	Bias        float32
	// Matrix maps world space to the light's clip space. Written by the
	// shadow pass every frame.
	Matrix mgl32.Mat4
}

// NewDirectionalLight creates a white directional light
func NewDirectionalLight(direction mgl32.Vec3) *Light {
	l := &Light{Type: DirectionalLight, Color: mgl32.Vec3{1, 1, 1}, Intensity: 1}
	l.SetDirection(direction)
	return l
}

// NewPointLight creates a point light fading out between start and end
func NewPointLight(position mgl32.Vec3, start, end float32) *Light {
	return &Light{
		Type:                PointLight,
		Position:            position,
		Color:               mgl32.Vec3{1, 1, 1},
		Intensity:           1,
		DistanceAttenuation: mgl32.Vec2{start, end},
		direction:           mgl32.Vec3{0, -1, 0},
	}
}

// NewSpotLight creates a spot light with the given cone angles in degrees
func NewSpotLight(position, direction mgl32.Vec3, inner, outer float32) *Light {
	l := &Light{
		Type:                SpotLight,
		Position:            position,
		Color:               mgl32.Vec3{1, 1, 1},
		Intensity:           1,
		DistanceAttenuation: mgl32.Vec2{0, 10},
		AngleAttenuation:    mgl32.Vec2{inner, outer},
	}
	l.SetDirection(direction)
	return l
}

// Direction returns the normalized light direction
func (l *Light) Direction() mgl32.Vec3 {
	return l.direction
}

// SetDirection stores the normalized direction. A zero vector is ignored.
func (l *Light) SetDirection(d mgl32.Vec3) {
	if d.Len() == 0 {
		return
	}
	l.direction = d.Normalize()
}

// Attenuation packs the attenuation parameters the way the lighting shader
// reads them: xy is the distance range, zw the cosines of the inner and outer
// cone angles. Negative x disables distance attenuation and negative z
// disables angle attenuation.
func (l *Light) Attenuation() mgl32.Vec4 {
	att := mgl32.Vec4{-1, 0, -1, 0}
	if l.Type != DirectionalLight {
		att[0] = l.DistanceAttenuation.X()
		att[1] = l.DistanceAttenuation.Y()
	}
	if l.Type == SpotLight {
		att[2] = float32(math.Cos(float64(mgl32.DegToRad(l.AngleAttenuation.X()))))
		att[3] = float32(math.Cos(float64(mgl32.DegToRad(l.AngleAttenuation.Y()))))
	}
	return att
}

// Radiance is the color scaled by intensity.
func (l *Light) Radiance() mgl32.Vec3 {
	return l.Color.Mul(l.Intensity)
}

// ShadowMap returns the shadow map, or nil if the light casts no shadows
func (l *Light) ShadowMap() *ShadowMap {
	return l.shadowMap
}

// SetShadowMap attaches a shadow map to the light
func (l *Light) SetShadowMap(sm *ShadowMap) {
	l.shadowMap = sm
}

// CastsShadows reports whether the light can drive a shadow map pass.
// Point lights would need a cube depth target and are not supported.
func (l *Light) CastsShadows() bool {
	return l.shadowMap != nil && l.Type != PointLight
}
