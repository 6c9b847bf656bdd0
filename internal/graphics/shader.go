package graphics

import "github.com/go-gl/mathgl/mgl32"

// Location is a uniform location inside a shader program.
// Uploads to InvalidLocation are ignored.
type Location int32

const InvalidLocation Location = -1

// Shader represents a linked shader program.
// The pointer is the program's identity: the renderer keys its callback
// registry on it, so a program must be wrapped exactly once.
type Shader struct {
	ID uint32

	dev       Device
	locations map[string]Location
}

// NewShader wraps an already linked program.
func NewShader(dev Device, program uint32) *Shader {
	return &Shader{
		ID:        program,
		dev:       dev,
		locations: make(map[string]Location),
	}
}

// LoadShaders builds the named programs in order. When one fails, the
// programs already built are passed to release and the error is returned.
func LoadShaders(build func(name string) (*Shader, error), release func(*Shader), names ...string) ([]*Shader, error) {
	built := make([]*Shader, 0, len(names))
	for _, name := range names {
		s, err := build(name)
		if err != nil {
			for _, b := range built {
				release(b)
			}
			return nil, err
		}
		built = append(built, s)
	}
	return built, nil
}

// Device returns the device the program lives on.
func (s *Shader) Device() Device {
	return s.dev
}

// Use activates the shader program
func (s *Shader) Use() {
	s.dev.UseProgram(s.ID)
}

// Location returns the location of the named uniform, caching lookups.
func (s *Shader) Location(name string) Location {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	loc := Location(s.dev.UniformLocation(s.ID, name))
	s.locations[name] = loc
	return loc
}

// SetBool sets a boolean uniform
func (s *Shader) SetBool(loc Location, value bool) {
	var v int32
	if value {
		v = 1
	}
	s.SetInt(loc, v)
}

// SetInt sets an integer uniform
func (s *Shader) SetInt(loc Location, value int32) {
	if loc < 0 {
		return
	}
	s.dev.Uniform1i(int32(loc), value)
}

// SetFloat sets a float uniform
func (s *Shader) SetFloat(loc Location, value float32) {
	if loc < 0 {
		return
	}
	s.dev.Uniform1f(int32(loc), value)
}

// SetVec2 sets a vec2 uniform
func (s *Shader) SetVec2(loc Location, value mgl32.Vec2) {
	if loc < 0 {
		return
	}
	s.dev.Uniform2f(int32(loc), value)
}

// SetVec3 sets a vec3 uniform
func (s *Shader) SetVec3(loc Location, value mgl32.Vec3) {
	if loc < 0 {
		return
	}
	s.dev.Uniform3f(int32(loc), value)
}

// SetVec4 sets a vec4 uniform
func (s *Shader) SetVec4(loc Location, value mgl32.Vec4) {
	if loc < 0 {
		return
	}
	s.dev.Uniform4f(int32(loc), value)
}

// SetMat4 sets a 4x4 matrix uniform
func (s *Shader) SetMat4(loc Location, value mgl32.Mat4) {
	if loc < 0 {
		return
	}
	s.dev.UniformMatrix4(int32(loc), value)
}

// SetTexture binds tex to the given texture unit and points the sampler
// uniform at that unit.
func (s *Shader) SetTexture(loc Location, unit uint32, tex *Texture) {
	if loc < 0 || tex == nil {
		return
	}
	tex.Bind(s.dev, unit)
	s.dev.Uniform1i(int32(loc), int32(unit))
}
