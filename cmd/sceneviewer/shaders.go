package main

import (
	"embed"
	"fmt"

	"mini-render/internal/graphics"
	"mini-render/internal/graphics/opengl"
	renderer "mini-render/internal/graphics/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/*.vert shaders/*.frag
var shaderFS embed.FS

func loadShader(dev graphics.Device, name string) (*graphics.Shader, error) {
	vs, err := shaderFS.ReadFile("shaders/" + name + ".vert")
	if err != nil {
		return nil, fmt.Errorf("could not read vertex shader %s: %w", name, err)
	}
	fs, err := shaderFS.ReadFile("shaders/" + name + ".frag")
	if err != nil {
		return nil, fmt.Errorf("could not read fragment shader %s: %w", name, err)
	}
	return opengl.NewShader(dev, name, string(vs), string(fs))
}

// shaders are the programs of the viewer, registered with the renderer.
type shaders struct {
	lit    *graphics.Shader
	shadow *graphics.Shader
	skybox *graphics.Shader
}

func loadShaders(r *renderer.Renderer) (*shaders, error) {
	build := func(name string) (*graphics.Shader, error) {
		return loadShader(r.Device(), name)
	}
	programs, err := graphics.LoadShaders(build, opengl.DeleteShader, "default", "empty", "skybox")
	if err != nil {
		return nil, err
	}
	s := &shaders{lit: programs[0], shadow: programs[1], skybox: programs[2]}

	cameraPosition := s.lit.Location("CameraPosition")
	viewProj := s.lit.Location("ViewProjMatrix")
	world := s.lit.Location("WorldMatrix")
	r.RegisterShader(s.lit,
		func(sh *graphics.Shader, w mgl32.Mat4, c *graphics.Camera, cameraChanged bool) {
			if cameraChanged {
				sh.SetVec3(cameraPosition, c.ExtractTranslation())
				sh.SetMat4(viewProj, c.GetViewProjectionMatrix())
			}
			sh.SetMat4(world, w)
		},
		r.GetDefaultUpdateLightsFunction(s.lit))

	worldViewProj := s.shadow.Location("WorldViewProjMatrix")
	r.RegisterShader(s.shadow,
		func(sh *graphics.Shader, w mgl32.Mat4, c *graphics.Camera, _ bool) {
			sh.SetMat4(worldViewProj, c.GetViewProjectionMatrix().Mul4(w))
		}, nil)

	invViewProj := s.skybox.Location("InvViewProjMatrix")
	skyCamera := s.skybox.Location("CameraPosition")
	r.RegisterShader(s.skybox,
		func(sh *graphics.Shader, _ mgl32.Mat4, c *graphics.Camera, _ bool) {
			sh.SetMat4(invViewProj, c.GetViewProjectionMatrix().Inv())
			sh.SetVec3(skyCamera, c.ExtractTranslation())
		}, nil)

	return s, nil
}

func (s *shaders) release() {
	opengl.DeleteShader(s.lit)
	opengl.DeleteShader(s.shadow)
	opengl.DeleteShader(s.skybox)
}
