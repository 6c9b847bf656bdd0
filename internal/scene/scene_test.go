package scene

import (
	"testing"

	"mini-render/internal/graphics"
	"mini-render/internal/graphics/gltest"
	renderer "mini-render/internal/graphics/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform()
	assert.Equal(t, mgl32.Ident4(), tr.Matrix())

	tr.Translation = mgl32.Vec3{1, 2, 3}
	tr.Scale = mgl32.Vec3{2, 2, 2}
	tr.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})

	p := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec3{1, 2, 1}, 1e-5), "got %v", p)
}

func TestSceneRejectsDuplicateNames(t *testing.T) {
	s := New()
	assert.True(t, s.Add(NewLightNode("sun", graphics.NewDirectionalLight(mgl32.Vec3{0, -1, 0}))))
	assert.False(t, s.Add(NewLightNode("sun", graphics.NewDirectionalLight(mgl32.Vec3{1, -1, 0}))))
	assert.Equal(t, 1, s.Len())

	n, ok := s.Node("sun")
	require.True(t, ok)
	assert.Equal(t, "sun", n.Name())
}

func TestSubmit(t *testing.T) {
	dev := gltest.NewDevice()
	r := renderer.NewRenderer(dev, 64, 64)

	mesh := &graphics.Mesh{}
	mesh.AddSubmesh(&graphics.VertexArray{ID: 1}, graphics.Drawcall{Count: 36})
	mesh.AddSubmesh(&graphics.VertexArray{ID: 1}, graphics.Drawcall{First: 36, Count: 6})
	model := graphics.NewModel(mesh, graphics.NewMaterial(graphics.NewShader(dev, 1)))

	main := graphics.NewCamera(64, 64)
	s := New()
	s.Add(NewCameraNode("main", main))
	s.Add(NewCameraNode("debug", graphics.NewCamera(64, 64)))
	s.Add(NewLightNode("sun", graphics.NewDirectionalLight(mgl32.Vec3{0, -1, 0})))
	chest := NewModelNode("chest", model)
	chest.Transform.Translation = mgl32.Vec3{0, 0.75, 0.25}
	s.Add(chest)

	Submit(r, s)

	assert.Same(t, main, r.GetCurrentCamera(), "the first camera wins")
	assert.Len(t, r.GetLights(), 1)
	require.Len(t, r.GetTransforms(), 1)
	assert.Equal(t, mgl32.Translate3D(0, 0.75, 0.25), r.GetTransforms()[0])
	assert.Len(t, r.GetDrawcalls(renderer.DefaultCollection), 2)
}
