package renderer

import (
	"mini-render/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// UpdateTransformsFunc pushes the world matrix and, when cameraChanged is
// set, the camera uniforms of a shader.
type UpdateTransformsFunc func(shader *graphics.Shader, world mgl32.Mat4, camera *graphics.Camera, cameraChanged bool)

// UpdateLightsFunc pushes the uniforms of the light at *lightIndex, advances
// the index and reports whether the drawcall has to be rendered with the
// uniforms it just set.
type UpdateLightsFunc func(shader *graphics.Shader, lights []*graphics.Light, lightIndex *int) bool

// ShaderCallbacks is the per-shader entry of a ShaderRegistry. Either
// function may be nil.
type ShaderCallbacks struct {
	UpdateTransforms UpdateTransformsFunc
	UpdateLights     UpdateLightsFunc
}

// ShaderRegistry maps shader programs to the callbacks that upload their
// spatial and lighting uniforms. Registrations persist for the lifetime of
// the registry.
type ShaderRegistry struct {
	entries map[*graphics.Shader]ShaderCallbacks
}

// NewShaderRegistry creates an empty registry
func NewShaderRegistry() *ShaderRegistry {
	return &ShaderRegistry{entries: make(map[*graphics.Shader]ShaderCallbacks)}
}

// Register replaces any previous registration of shader.
func (reg *ShaderRegistry) Register(shader *graphics.Shader, transforms UpdateTransformsFunc, lights UpdateLightsFunc) {
	if shader == nil {
		panic("renderer: Register with nil shader")
	}
	reg.entries[shader] = ShaderCallbacks{UpdateTransforms: transforms, UpdateLights: lights}
}

// Lookup returns the callbacks registered for shader.
func (reg *ShaderRegistry) Lookup(shader *graphics.Shader) (ShaderCallbacks, bool) {
	cb, ok := reg.entries[shader]
	return cb, ok
}

// HasLights reports whether shader has a light callback.
func (reg *ShaderRegistry) HasLights(shader *graphics.Shader) bool {
	return reg.entries[shader].UpdateLights != nil
}

// UpdateTransforms calls the transform callback of shader, if any.
func (reg *ShaderRegistry) UpdateTransforms(shader *graphics.Shader, world mgl32.Mat4, camera *graphics.Camera, cameraChanged bool) {
	if fn := reg.entries[shader].UpdateTransforms; fn != nil {
		fn(shader, world, camera, cameraChanged)
	}
}

// UpdateLights calls the light callback of shader. Without one it reports
// false: the drawcall needs no further light iterations.
func (reg *ShaderRegistry) UpdateLights(shader *graphics.Shader, lights []*graphics.Light, lightIndex *int) bool {
	if fn := reg.entries[shader].UpdateLights; fn != nil {
		return fn(shader, lights, lightIndex)
	}
	return false
}

// Texture unit the default light callback binds shadow maps to, above the
// units materials assign from zero.
const ShadowMapTextureUnit = 15

// DefaultUpdateLightsFunc returns the light callback for shaders following
// the standard one-light-per-draw model. The first call always renders, with
// the ambient/indirect term enabled; each further call renders one more light
// until the list is exhausted.
//
// Uniforms: LightIndirect, LightColor, LightPosition, LightDirection,
// LightAttenuation and, for lights with a shadow map, LightShadowMap,
// LightShadowMatrix and LightShadowBias.
func DefaultUpdateLightsFunc(shader *graphics.Shader) UpdateLightsFunc {
	indirectLoc := shader.Location("LightIndirect")
	colorLoc := shader.Location("LightColor")
	positionLoc := shader.Location("LightPosition")
	directionLoc := shader.Location("LightDirection")
	attenuationLoc := shader.Location("LightAttenuation")
	shadowMapLoc := shader.Location("LightShadowMap")
	shadowMatrixLoc := shader.Location("LightShadowMatrix")
	shadowBiasLoc := shader.Location("LightShadowBias")

	return func(shader *graphics.Shader, lights []*graphics.Light, lightIndex *int) bool {
		idx := *lightIndex
		needsRender := idx == 0

		shader.SetBool(indirectLoc, idx == 0)

		if idx < len(lights) {
			light := lights[idx]
			shader.SetVec3(colorLoc, light.Radiance())
			shader.SetVec3(positionLoc, light.Position)
			shader.SetVec3(directionLoc, light.Direction())
			shader.SetVec4(attenuationLoc, light.Attenuation())

			if sm := light.ShadowMap(); sm != nil && light.CastsShadows() {
				shader.SetTexture(shadowMapLoc, ShadowMapTextureUnit, sm.Texture)
				shader.SetMat4(shadowMatrixLoc, sm.Matrix)
				shader.SetFloat(shadowBiasLoc, sm.Bias)
			} else {
				shader.SetFloat(shadowBiasLoc, -1)
			}
			needsRender = true
		} else {
			// Ambient-only pass, or nothing left to add.
			shader.SetVec3(colorLoc, mgl32.Vec3{})
		}

		*lightIndex = idx + 1
		return needsRender
	}
}
