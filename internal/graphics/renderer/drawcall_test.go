package renderer

import (
	"testing"

	"mini-render/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func info(vao uint32, world int) DrawcallInfo {
	return NewDrawcallInfo(nil, world, &graphics.VertexArray{ID: vao}, graphics.Drawcall{Count: 3})
}

func ids(infos []DrawcallInfo) []uint32 {
	var out []uint32
	for _, i := range infos {
		out = append(out, i.VAO().ID)
	}
	return out
}

func TestDrawcallCollection(t *testing.T) {
	even := NewDrawcallCollection(func(i DrawcallInfo) bool { return i.VAO().ID%2 == 0 })
	all := NewDrawcallCollection(nil)

	for id := uint32(1); id <= 6; id++ {
		even.Add(info(id, 0))
		all.Add(info(id, 0))
	}
	assert.Equal(t, []uint32{2, 4, 6}, ids(even.Drawcalls()))
	assert.Equal(t, 6, all.Len())
	assert.False(t, even.Accepts(info(3, 0)))

	// The filter applies at insertion only.
	even.SetFilter(nil)
	assert.Equal(t, 3, even.Len())
	assert.True(t, even.Add(info(7, 0)))

	all.Clear()
	assert.Zero(t, all.Len())
}

func TestDrawcallCollectionSortIsStable(t *testing.T) {
	c := NewDrawcallCollection(nil)
	worlds := []int{2, 0, 1, 0, 2}
	for i, w := range worlds {
		c.Add(info(uint32(i), w))
	}
	c.Sort(func(a, b DrawcallInfo) bool { return a.WorldMatrixIndex() < b.WorldMatrixIndex() })
	assert.Equal(t, []uint32{1, 3, 2, 0, 4}, ids(c.Drawcalls()))
}

func TestDrawcallInfoWithMaterial(t *testing.T) {
	a := graphics.NewMaterial(nil)
	b := graphics.NewMaterial(nil)
	orig := NewDrawcallInfo(a, 4, &graphics.VertexArray{ID: 1}, graphics.Drawcall{Count: 6})

	swapped := orig.WithMaterial(b)
	assert.Same(t, a, orig.Material())
	assert.Same(t, b, swapped.Material())
	assert.Equal(t, orig.WorldMatrixIndex(), swapped.WorldMatrixIndex())
	assert.Equal(t, orig.Drawcall(), swapped.Drawcall())
}

func TestShaderRegistry(t *testing.T) {
	reg := NewShaderRegistry()
	shader := &graphics.Shader{ID: 1}

	// Unregistered shaders are valid: no uniforms, no light iterations.
	reg.UpdateTransforms(shader, mgl32.Ident4(), nil, true)
	idx := 0
	assert.False(t, reg.UpdateLights(shader, nil, &idx))
	assert.False(t, reg.HasLights(shader))

	var got []mgl32.Mat4
	reg.Register(shader, func(_ *graphics.Shader, w mgl32.Mat4, _ *graphics.Camera, _ bool) {
		got = append(got, w)
	}, nil)
	reg.UpdateTransforms(shader, mgl32.Translate3D(1, 0, 0), nil, false)
	require.Len(t, got, 1)
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), got[0])

	cb, ok := reg.Lookup(shader)
	require.True(t, ok)
	assert.Nil(t, cb.UpdateLights)

	assert.Panics(t, func() { reg.Register(nil, nil, nil) })
}
